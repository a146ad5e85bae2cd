package model

import "time"

// Job is a historical repair job synced from the shop platform.
type Job struct {
	CreatedAt         time.Time `json:"createdAt"`
	Name              string    `json:"name"`
	Note              string    `json:"note"`
	Vehicle           string    `json:"vehicle"`
	ID                int64     `json:"id"`
	RepairOrderID     int64     `json:"repairOrderId"`
	RepairOrderNumber int64     `json:"repairOrderNumber"`
	LaborHours        float64   `json:"laborHours"`
	LaborTotal        int       `json:"laborTotal"` // cents
	PartsTotal        int       `json:"partsTotal"` // cents
	Authorized        bool      `json:"authorized"`
}

// PendingJob is the job most recently sent to the browser extension for auto-fill.
type PendingJob struct {
	SentAt time.Time `json:"sentAt"`
	Job    Job       `json:"job"`
}
