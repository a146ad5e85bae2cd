// Package tekmetric provides clients for the Tekmetric shop-management platform.
package tekmetric

import (
	"context"
	"encoding/json"
	"time"

	"github.com/Veraticus/shop-assist/internal/model"
)

// AuthHeader is the header the shop web app authenticates its own API calls with.
const AuthHeader = "X-Auth-Token"

// OrderAPI reads and updates repair orders with a token captured from the shop web app.
type OrderAPI interface {
	GetRepairOrder(ctx context.Context, token, shopID, orderID string) (*model.RepairOrderSnapshot, error)
	UpdateRepairOrderSummary(ctx context.Context, token, shopID, orderID string, payload map[string]json.RawMessage) error
}

// JobSource lists historical jobs through the public API.
type JobSource interface {
	ListJobs(ctx context.Context, page, size int) (*JobPage, error)
	GetVehicle(ctx context.Context, vehicleID int64) (*Vehicle, error)
}

// JobPage is one page of the public API job listing.
type JobPage struct {
	Content       []Job `json:"content"`
	TotalPages    int   `json:"totalPages"`
	TotalElements int   `json:"totalElements"`
	Number        int   `json:"number"`
	Last          bool  `json:"last"`
}

// Job is a job as returned by the public API.
type Job struct {
	CreatedDate       time.Time `json:"createdDate"`
	Name              string    `json:"name"`
	Note              string    `json:"note"`
	ID                int64     `json:"id"`
	RepairOrderID     int64     `json:"repairOrderId"`
	RepairOrderNumber int64     `json:"repairOrderNumber"`
	VehicleID         int64     `json:"vehicleId"`
	LaborHours        float64   `json:"laborHours"`
	LaborTotal        int       `json:"laborTotal"`
	PartsTotal        int       `json:"partsTotal"`
	Authorized        *bool     `json:"authorized"`
}

// Vehicle is the subset of the public API vehicle resource used for search.
type Vehicle struct {
	Make  string `json:"make"`
	Model string `json:"model"`
	ID    int64  `json:"id"`
	Year  int    `json:"year"`
}
