package reconcile

import (
	"context"
	"log/slog"
	"sync"

	"github.com/Veraticus/shop-assist/internal/model"
	"github.com/Veraticus/shop-assist/internal/tekmetric"
)

// Observation reports what the host made of one observed request.
type Observation struct {
	Event    *model.RepairOrderEvent `json:"event,omitempty"`
	Captured bool                    `json:"captured"`
	Admitted bool                    `json:"admitted"`
}

// Host turns observed requests into session captures and fire-and-forget
// reconciles. Admission runs on the caller's goroutine so events are
// deduplicated in arrival order; the remote work runs in the background.
type Host struct {
	ctx        context.Context
	reconciler *Reconciler
	sessions   *SessionStore
	metrics    *Metrics
	logger     *slog.Logger
	onOutcome  func(Outcome)
	wg         sync.WaitGroup
}

// NewHost creates a host. Background reconciles run under ctx.
func NewHost(ctx context.Context, reconciler *Reconciler, sessions *SessionStore, metrics *Metrics) *Host {
	return &Host{
		ctx:        ctx,
		reconciler: reconciler,
		sessions:   sessions,
		metrics:    metrics,
		logger:     slog.Default().With("component", "reconcile-host"),
	}
}

// OnOutcome registers fn to receive every background outcome. Call before Observe.
func (h *Host) OnOutcome(fn func(Outcome)) {
	h.onOutcome = fn
}

// Observe handles one request. A request may both capture a session and
// name an order; the capture is applied first.
func (h *Host) Observe(req ObservedRequest) Observation {
	var obs Observation

	if session, ok := ParseAuthCapture(req, tekmetric.AuthHeader); ok {
		obs.Captured = h.sessions.Capture(session)
		if obs.Captured {
			h.metrics.captured()
			h.logger.Debug("Captured auth session", "shop_id", session.ShopID)
		}
	}

	event, ok := ParseOrderEvent(req.URL)
	if !ok {
		return obs
	}
	obs.Event = &event

	if outcome, admitted := h.reconciler.admit(event); !admitted {
		h.deliver(outcome)
		return obs
	}
	obs.Admitted = true

	h.wg.Add(1)
	go func() {
		defer h.wg.Done()
		h.deliver(h.reconciler.run(h.ctx, event))
	}()
	return obs
}

// Wait blocks until every background reconcile has finished.
func (h *Host) Wait() {
	h.wg.Wait()
}

func (h *Host) deliver(outcome Outcome) {
	if h.onOutcome != nil {
		h.onOutcome(outcome)
	}
}
