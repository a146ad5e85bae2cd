package reconcile

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/Veraticus/shop-assist/internal/model"
	"github.com/Veraticus/shop-assist/internal/notify"
	"github.com/Veraticus/shop-assist/internal/service"
	"github.com/Veraticus/shop-assist/internal/tekmetric"
)

// Reconciler corrects repair order labor rates. It owns the last-processed
// order id; the session is read from the SessionStore each time it is needed
// because a new capture may land while a reconcile is in flight.
type Reconciler struct {
	orders      tekmetric.OrderAPI
	groups      service.LaborRateGroupStore
	sink        notify.Sink
	sessions    *SessionStore
	metrics     *Metrics
	logger      *slog.Logger
	lastOrderID string
	mu          sync.Mutex
}

// NewReconciler wires a reconciler. sink and metrics may be nil.
func NewReconciler(orders tekmetric.OrderAPI, groups service.LaborRateGroupStore, sessions *SessionStore, sink notify.Sink, metrics *Metrics) *Reconciler {
	return &Reconciler{
		orders:   orders,
		groups:   groups,
		sink:     sink,
		sessions: sessions,
		metrics:  metrics,
		logger:   slog.Default().With("component", "reconcile"),
	}
}

// LastOrderID returns the id most recently admitted for processing.
func (r *Reconciler) LastOrderID() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lastOrderID
}

// Reconcile runs one event to completion.
func (r *Reconciler) Reconcile(ctx context.Context, event model.RepairOrderEvent) Outcome {
	if outcome, ok := r.admit(event); !ok {
		return outcome
	}
	return r.run(ctx, event)
}

// admit decides synchronously whether event proceeds. The order id is
// recorded before any remote call so a duplicate arriving mid-flight is dropped.
func (r *Reconciler) admit(event model.RepairOrderEvent) (Outcome, bool) {
	if _, ok := r.sessions.Current(); !ok {
		return r.finish(event, "", Dropped(ReasonSessionMissing)), false
	}

	r.mu.Lock()
	if event.OrderID == r.lastOrderID {
		r.mu.Unlock()
		return r.finish(event, "", Dropped(ReasonDuplicate)), false
	}
	r.lastOrderID = event.OrderID
	r.mu.Unlock()

	return Outcome{}, true
}

func (r *Reconciler) run(ctx context.Context, event model.RepairOrderEvent) Outcome {
	runID := uuid.NewString()
	logger := r.logger.With("run_id", runID, "order_id", event.OrderID, "kind", event.Kind)

	session, _ := r.sessions.Current()
	shopID := shopFor(event, session)
	snapshot, err := r.orders.GetRepairOrder(ctx, session.Token, shopID, event.OrderID)
	if err != nil {
		logger.Error("Failed to fetch repair order", "shop_id", shopID, "error", err)
		return r.finish(event, runID, Failed(fmt.Errorf("%w: %w", ErrFetchFailed, err)))
	}

	groups, err := r.groups.LaborRateGroups(ctx)
	if err != nil {
		logger.Error("Failed to read labor rate groups", "error", err)
		return r.finish(event, runID, Failed(fmt.Errorf("%w: %w", ErrConfigFailed, err)))
	}

	group, ok := model.FindLaborRateGroup(groups, snapshot.VehicleMake)
	if !ok {
		logger.Info("No labor rate group for vehicle make", "make", snapshot.VehicleMake)
		return r.finish(event, runID, Skipped(ReasonNoMatchingGroup))
	}
	if group.LaborRate == snapshot.LaborRate {
		logger.Debug("Labor rate already correct", "group", group.Name, "labor_rate", group.LaborRate)
		outcome := Skipped(ReasonAlreadyCorrect)
		outcome.Group = group.Name
		return r.finish(event, runID, outcome)
	}

	session, _ = r.sessions.Current()
	shopID = shopFor(event, session)
	if err := r.orders.UpdateRepairOrderSummary(ctx, session.Token, shopID, event.OrderID, snapshot.SummaryUpdate(group.LaborRate)); err != nil {
		logger.Error("Failed to update labor rate",
			"shop_id", shopID,
			"group", group.Name,
			"error", err)
		return r.finish(event, runID, Failed(fmt.Errorf("%w: %w", ErrWriteFailed, err)))
	}

	logger.Info("Updated labor rate",
		"shop_id", shopID,
		"group", group.Name,
		"make", snapshot.VehicleMake,
		"from", snapshot.LaborRate,
		"to", group.LaborRate)

	if r.sink != nil {
		if err := r.sink.Broadcast(ctx, notify.RefreshOrder(shopID, event.OrderID, group.LaborRate)); err != nil {
			logger.Warn("Failed to broadcast refresh", "error", err)
		}
	}

	outcome := Applied(group.LaborRate)
	outcome.Group = group.Name
	return r.finish(event, runID, outcome)
}

func (r *Reconciler) finish(event model.RepairOrderEvent, runID string, outcome Outcome) Outcome {
	outcome.OrderID = event.OrderID
	outcome.RunID = runID
	r.metrics.observe(outcome)
	if outcome.Status == StatusDropped {
		r.logger.Debug("Dropped order event", "order_id", event.OrderID, "reason", outcome.Reason)
	}
	return outcome
}

func shopFor(event model.RepairOrderEvent, session model.AuthSession) string {
	if event.ShopID != "" {
		return event.ShopID
	}
	return session.ShopID
}
