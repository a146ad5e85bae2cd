package model

import (
	"encoding/json"
	"strings"
)

// OrderEventKind identifies which observed URL shape produced a RepairOrderEvent.
type OrderEventKind string

const (
	// EventExistingOrderViewed is emitted when the operator navigates to an existing repair order.
	EventExistingOrderViewed OrderEventKind = "existing-order-viewed"
	// EventNewOrderCreated is emitted when a new repair order's estimate is opened.
	EventNewOrderCreated OrderEventKind = "new-order-created"
)

// RepairOrderEvent is a repair order observed in the shop platform's network traffic.
type RepairOrderEvent struct {
	OrderID string         `json:"orderId"`
	ShopID  string         `json:"shopId"`
	Kind    OrderEventKind `json:"kind"`
}

// AuthSession holds the credentials captured from the shop platform's own requests.
type AuthSession struct {
	Token  string `json:"token"`
	ShopID string `json:"shopId"`
}

// Valid reports whether both the token and the shop id are present.
func (s AuthSession) Valid() bool {
	return s.Token != "" && s.ShopID != ""
}

// PassThroughFields are the repair order summary fields that must be resent
// unchanged whenever the summary is updated.
var PassThroughFields = []string{
	"appointmentOption",
	"customerTimeIn",
	"customerTimeOut",
	"technicianId",
	"keytag",
	"leadSource",
	"notes",
	"poNumber",
	"referrerId",
	"referrerName",
	"saveCustomerParts",
	"serviceWriterId",
}

// RepairOrderSnapshot is the remote state of a repair order at fetch time.
type RepairOrderSnapshot struct {
	// PassThrough holds the raw JSON of the PassThroughFields present in the read, nulls included.
	PassThrough map[string]json.RawMessage
	VehicleMake string
	LaborRate   int // cents
}

// UnmarshalJSON decodes the fields the reconciler needs and keeps the pass-through fields verbatim.
func (s *RepairOrderSnapshot) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	var head struct {
		LaborRate int `json:"laborRate"`
		Vehicle   *struct {
			Make string `json:"make"`
		} `json:"vehicle"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return err
	}

	s.LaborRate = head.LaborRate
	s.VehicleMake = ""
	if head.Vehicle != nil {
		s.VehicleMake = strings.TrimSpace(head.Vehicle.Make)
	}

	s.PassThrough = make(map[string]json.RawMessage, len(PassThroughFields))
	for _, field := range PassThroughFields {
		if v, ok := raw[field]; ok {
			s.PassThrough[field] = v
		}
	}
	return nil
}

// SummaryUpdate builds the summary payload that sets laborRate and resends the
// pass-through fields the read returned. Absent fields stay absent.
func (s RepairOrderSnapshot) SummaryUpdate(laborRate int) map[string]json.RawMessage {
	payload := make(map[string]json.RawMessage, len(PassThroughFields)+1)
	for _, field := range PassThroughFields {
		if v, ok := s.PassThrough[field]; ok {
			payload[field] = v
		}
	}
	rate, _ := json.Marshal(laborRate)
	payload["laborRate"] = rate
	return payload
}
