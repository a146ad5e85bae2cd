package reconcile

import (
	"errors"
	"fmt"
)

var (
	// ErrFetchFailed wraps any failure reading the repair order.
	ErrFetchFailed = errors.New("fetch repair order failed")
	// ErrWriteFailed wraps any failure writing the corrected summary.
	ErrWriteFailed = errors.New("write repair order failed")
	// ErrConfigFailed wraps a failure reading the labor rate groups.
	ErrConfigFailed = errors.New("read labor rate groups failed")
)

// Status is the coarse result of a reconcile.
type Status string

const (
	StatusApplied Status = "applied"
	StatusSkipped Status = "skipped"
	StatusFailed  Status = "failed"
	// StatusDropped means the event was ignored before any remote call.
	StatusDropped Status = "dropped"
)

// Reason qualifies skipped and dropped outcomes.
type Reason string

const (
	ReasonNone            Reason = ""
	ReasonNoMatchingGroup Reason = "no-matching-group"
	ReasonAlreadyCorrect  Reason = "already-correct"
	ReasonSessionMissing  Reason = "session-missing"
	ReasonDuplicate       Reason = "duplicate"
)

// Outcome describes what a reconcile did to one repair order.
type Outcome struct {
	Err       error  `json:"-"`
	Status    Status `json:"status"`
	Reason    Reason `json:"reason,omitempty"`
	OrderID   string `json:"orderId"`
	RunID     string `json:"runId,omitempty"`
	Group     string `json:"group,omitempty"`
	LaborRate int    `json:"laborRate,omitempty"`
}

// Applied reports a successful correction to rate.
func Applied(rate int) Outcome { return Outcome{Status: StatusApplied, LaborRate: rate} }

// Skipped reports that no write was needed or possible.
func Skipped(reason Reason) Outcome { return Outcome{Status: StatusSkipped, Reason: reason} }

// Failed reports a fetch, config or write failure.
func Failed(err error) Outcome { return Outcome{Status: StatusFailed, Err: err} }

// Dropped reports an event that was ignored outright.
func Dropped(reason Reason) Outcome { return Outcome{Status: StatusDropped, Reason: reason} }

func (o Outcome) String() string {
	switch o.Status {
	case StatusApplied:
		return fmt.Sprintf("applied(%d)", o.LaborRate)
	case StatusFailed:
		return fmt.Sprintf("failed(%v)", o.Err)
	default:
		return fmt.Sprintf("%s(%s)", o.Status, o.Reason)
	}
}
