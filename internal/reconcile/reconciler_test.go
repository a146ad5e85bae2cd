package reconcile

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/shop-assist/internal/model"
	"github.com/Veraticus/shop-assist/internal/notify"
	"github.com/Veraticus/shop-assist/internal/tekmetric"
)

type fakeGroups struct {
	err    error
	groups []model.LaborRateGroup
}

func (f *fakeGroups) LaborRateGroups(context.Context) ([]model.LaborRateGroup, error) {
	return f.groups, f.err
}

func (f *fakeGroups) SaveLaborRateGroups(context.Context, []model.LaborRateGroup) error {
	return nil
}

func (f *fakeGroups) AddLaborRateGroup(context.Context, model.LaborRateGroup) error {
	return nil
}

func (f *fakeGroups) DeleteLaborRateGroup(context.Context, string) error {
	return nil
}

type recordingSink struct {
	err  error
	sent []notify.Notification
	mu   sync.Mutex
}

func (s *recordingSink) Broadcast(_ context.Context, n notify.Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, n)
	return s.err
}

func (s *recordingSink) Sent() []notify.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]notify.Notification(nil), s.sent...)
}

const hondaOrder = `{
	"id": 1001,
	"laborRate": 15000,
	"vehicle": {"make": "Honda", "model": "Civic"},
	"appointmentOption": {"id": 2, "code": "WAIT"},
	"customerTimeIn": "2024-05-01T08:00:00Z",
	"customerTimeOut": null,
	"technicianId": 77,
	"keytag": "K12",
	"leadSource": null,
	"notes": "check noise",
	"poNumber": null,
	"referrerId": null,
	"referrerName": null,
	"saveCustomerParts": false,
	"serviceWriterId": 12
}`

func snapshot(t *testing.T, raw string) *model.RepairOrderSnapshot {
	t.Helper()
	var s model.RepairOrderSnapshot
	require.NoError(t, json.Unmarshal([]byte(raw), &s))
	return &s
}

var asianGroups = []model.LaborRateGroup{
	{Name: "Asian", Makes: []string{"Honda", "Toyota"}, LaborRate: 16000},
	{Name: "European", Makes: []string{"BMW", "Audi"}, LaborRate: 19000},
}

type fixture struct {
	orders   *tekmetric.MockOrderAPI
	groups   *fakeGroups
	sink     *recordingSink
	sessions *SessionStore
	metrics  *Metrics
	recon    *Reconciler
}

func newFixture(t *testing.T, order string) *fixture {
	t.Helper()
	f := &fixture{
		orders:   &tekmetric.MockOrderAPI{},
		groups:   &fakeGroups{groups: asianGroups},
		sink:     &recordingSink{},
		sessions: NewSessionStore(),
		metrics:  NewMetrics(prometheus.NewRegistry()),
	}
	snap := snapshot(t, order)
	f.orders.GetRepairOrderFn = func(context.Context, string, string, string) (*model.RepairOrderSnapshot, error) {
		clone := *snap
		return &clone, nil
	}
	f.sessions.Capture(model.AuthSession{Token: "abc", ShopID: "469"})
	f.recon = NewReconciler(f.orders, f.groups, f.sessions, f.sink, f.metrics)
	return f
}

var newOrder = model.RepairOrderEvent{OrderID: "1001", Kind: model.EventNewOrderCreated}

func TestReconcile_AppliesCorrectRate(t *testing.T) {
	f := newFixture(t, hondaOrder)

	outcome := f.recon.Reconcile(context.Background(), newOrder)

	assert.Equal(t, StatusApplied, outcome.Status)
	assert.Equal(t, 16000, outcome.LaborRate)
	assert.Equal(t, "Asian", outcome.Group)
	assert.NotEmpty(t, outcome.RunID)

	gets := f.orders.Gets()
	require.Len(t, gets, 1)
	assert.Equal(t, tekmetric.OrderCall{Token: "abc", ShopID: "469", OrderID: "1001"}, gets[0])

	updates := f.orders.Updates()
	require.Len(t, updates, 1)
	payload := updates[0].Payload
	assert.JSONEq(t, `16000`, string(payload["laborRate"]))
	for _, field := range model.PassThroughFields {
		assert.Contains(t, payload, field)
	}
	assert.JSONEq(t, `{"id": 2, "code": "WAIT"}`, string(payload["appointmentOption"]))
	assert.JSONEq(t, `null`, string(payload["customerTimeOut"]))
	assert.JSONEq(t, `false`, string(payload["saveCustomerParts"]))
	assert.Len(t, payload, len(model.PassThroughFields)+1)

	sent := f.sink.Sent()
	require.Len(t, sent, 1)
	assert.Equal(t, notify.TypeRefreshOrder, sent[0].Type)
	assert.Equal(t, "1001", sent[0].OrderID)
	assert.Equal(t, "469", sent[0].ShopID)

	assert.InDelta(t, 1, testutil.ToFloat64(f.metrics.Outcomes.WithLabelValues("applied", "")), 0)
}

func TestReconcile_AlreadyCorrect(t *testing.T) {
	f := newFixture(t, `{"laborRate": 16000, "vehicle": {"make": "toyota"}}`)

	outcome := f.recon.Reconcile(context.Background(), newOrder)

	assert.Equal(t, StatusSkipped, outcome.Status)
	assert.Equal(t, ReasonAlreadyCorrect, outcome.Reason)
	assert.Len(t, f.orders.Gets(), 1)
	assert.Empty(t, f.orders.Updates())
	assert.Empty(t, f.sink.Sent())
}

func TestReconcile_NoMatchingGroup(t *testing.T) {
	for _, order := range []string{
		`{"laborRate": 15000, "vehicle": {"make": "Ford"}}`,
		`{"laborRate": 15000, "vehicle": null}`,
		`{"laborRate": 15000}`,
	} {
		f := newFixture(t, order)
		outcome := f.recon.Reconcile(context.Background(), newOrder)

		assert.Equal(t, Skipped(ReasonNoMatchingGroup).Status, outcome.Status, order)
		assert.Equal(t, ReasonNoMatchingGroup, outcome.Reason, order)
		assert.Empty(t, f.orders.Updates(), order)
	}
}

func TestReconcile_FirstMatchingGroupWins(t *testing.T) {
	f := newFixture(t, `{"laborRate": 15000, "vehicle": {"make": "HONDA"}}`)
	f.groups.groups = []model.LaborRateGroup{
		{Name: "Domestic", Makes: []string{"Ford"}, LaborRate: 14000},
		{Name: "Japanese", Makes: []string{"honda"}, LaborRate: 15500},
		{Name: "Asian", Makes: []string{"Honda"}, LaborRate: 16000},
	}

	outcome := f.recon.Reconcile(context.Background(), newOrder)

	assert.Equal(t, StatusApplied, outcome.Status)
	assert.Equal(t, 15500, outcome.LaborRate)
	assert.Equal(t, "Japanese", outcome.Group)
}

func TestReconcile_SessionMissing(t *testing.T) {
	f := newFixture(t, hondaOrder)
	f.recon = NewReconciler(f.orders, f.groups, NewSessionStore(), f.sink, f.metrics)

	outcome := f.recon.Reconcile(context.Background(), newOrder)

	assert.Equal(t, StatusDropped, outcome.Status)
	assert.Equal(t, ReasonSessionMissing, outcome.Reason)
	assert.Empty(t, f.orders.Gets())
	assert.Empty(t, f.orders.Updates())
	assert.Empty(t, f.recon.LastOrderID())
}

func TestReconcile_DuplicateDropped(t *testing.T) {
	f := newFixture(t, hondaOrder)
	ctx := context.Background()

	first := f.recon.Reconcile(ctx, newOrder)
	second := f.recon.Reconcile(ctx, model.RepairOrderEvent{OrderID: "1001", ShopID: "469", Kind: model.EventExistingOrderViewed})

	assert.Equal(t, StatusApplied, first.Status)
	assert.Equal(t, StatusDropped, second.Status)
	assert.Equal(t, ReasonDuplicate, second.Reason)
	assert.Len(t, f.orders.Gets(), 1)
	assert.Len(t, f.orders.Updates(), 1)
}

func TestReconcile_OnlyConsecutiveDuplicatesDropped(t *testing.T) {
	f := newFixture(t, hondaOrder)
	ctx := context.Background()

	f.recon.Reconcile(ctx, newOrder)
	f.recon.Reconcile(ctx, model.RepairOrderEvent{OrderID: "2002", ShopID: "469"})
	again := f.recon.Reconcile(ctx, newOrder)

	assert.NotEqual(t, StatusDropped, again.Status)
	assert.Len(t, f.orders.Gets(), 3)
}

func TestReconcile_ConcurrentDuplicatesWriteOnce(t *testing.T) {
	f := newFixture(t, hondaOrder)
	release := make(chan struct{})
	snap := snapshot(t, hondaOrder)
	f.orders.GetRepairOrderFn = func(context.Context, string, string, string) (*model.RepairOrderSnapshot, error) {
		<-release
		return snap, nil
	}

	const n = 8
	outcomes := make(chan Outcome, n)
	var wg sync.WaitGroup
	for range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			outcomes <- f.recon.Reconcile(context.Background(), newOrder)
		}()
	}

	// Every duplicate is rejected before the first fetch completes.
	dropped := 0
	for range n - 1 {
		o := <-outcomes
		assert.Equal(t, ReasonDuplicate, o.Reason)
		dropped++
	}
	close(release)
	wg.Wait()
	close(outcomes)

	assert.Equal(t, n-1, dropped)
	assert.Equal(t, StatusApplied, (<-outcomes).Status)
	assert.Len(t, f.orders.Gets(), 1)
	assert.Len(t, f.orders.Updates(), 1)
}

func TestReconcile_FetchFailed(t *testing.T) {
	f := newFixture(t, hondaOrder)
	f.orders.GetRepairOrderFn = func(context.Context, string, string, string) (*model.RepairOrderSnapshot, error) {
		return nil, errors.New("502 bad gateway")
	}

	outcome := f.recon.Reconcile(context.Background(), newOrder)

	assert.Equal(t, StatusFailed, outcome.Status)
	require.ErrorIs(t, outcome.Err, ErrFetchFailed)
	assert.Len(t, f.orders.Gets(), 1)
	assert.Empty(t, f.orders.Updates())
	assert.Empty(t, f.sink.Sent())
	assert.Equal(t, "1001", f.recon.LastOrderID())

	// No retry: the same order is a duplicate until another order intervenes.
	again := f.recon.Reconcile(context.Background(), newOrder)
	assert.Equal(t, ReasonDuplicate, again.Reason)
	assert.Len(t, f.orders.Gets(), 1)
}

func TestReconcile_WriteFailed(t *testing.T) {
	f := newFixture(t, hondaOrder)
	f.orders.UpdateRepairOrderSummaryFn = func(context.Context, string, string, string, map[string]json.RawMessage) error {
		return errors.New("500 internal server error")
	}

	outcome := f.recon.Reconcile(context.Background(), newOrder)

	assert.Equal(t, StatusFailed, outcome.Status)
	require.ErrorIs(t, outcome.Err, ErrWriteFailed)
	assert.Len(t, f.orders.Updates(), 1)
	assert.Empty(t, f.sink.Sent())
	assert.Equal(t, "1001", f.recon.LastOrderID())
}

func TestReconcile_GroupReadFailed(t *testing.T) {
	f := newFixture(t, hondaOrder)
	f.groups.err = errors.New("database is locked")

	outcome := f.recon.Reconcile(context.Background(), newOrder)

	assert.Equal(t, StatusFailed, outcome.Status)
	require.ErrorIs(t, outcome.Err, ErrConfigFailed)
	assert.Empty(t, f.orders.Updates())
}

func TestReconcile_NotifyFailureStillApplied(t *testing.T) {
	f := newFixture(t, hondaOrder)
	f.sink.err = errors.New("no listeners")

	outcome := f.recon.Reconcile(context.Background(), newOrder)

	assert.Equal(t, StatusApplied, outcome.Status)
	assert.NoError(t, outcome.Err)
	assert.Len(t, f.sink.Sent(), 1)
}

func TestReconcile_NilSink(t *testing.T) {
	f := newFixture(t, hondaOrder)
	f.recon = NewReconciler(f.orders, f.groups, f.sessions, nil, nil)

	outcome := f.recon.Reconcile(context.Background(), newOrder)
	assert.Equal(t, StatusApplied, outcome.Status)
}

func TestReconcile_ReadsSessionAtEachUse(t *testing.T) {
	f := newFixture(t, hondaOrder)
	snap := snapshot(t, hondaOrder)
	f.orders.GetRepairOrderFn = func(context.Context, string, string, string) (*model.RepairOrderSnapshot, error) {
		f.sessions.Capture(model.AuthSession{Token: "refreshed", ShopID: "469"})
		return snap, nil
	}

	f.recon.Reconcile(context.Background(), newOrder)

	assert.Equal(t, "abc", f.orders.Gets()[0].Token)
	updates := f.orders.Updates()
	require.Len(t, updates, 1)
	assert.Equal(t, "refreshed", updates[0].Token)
}

func TestReconcile_EventShopOverridesSession(t *testing.T) {
	f := newFixture(t, hondaOrder)

	f.recon.Reconcile(context.Background(), model.RepairOrderEvent{OrderID: "1001", ShopID: "500", Kind: model.EventExistingOrderViewed})

	assert.Equal(t, "500", f.orders.Gets()[0].ShopID)
	assert.Equal(t, "500", f.orders.Updates()[0].ShopID)
}

func TestOutcome_String(t *testing.T) {
	assert.Equal(t, "applied(16000)", Applied(16000).String())
	assert.Equal(t, "skipped(already-correct)", Skipped(ReasonAlreadyCorrect).String())
	assert.Equal(t, "dropped(duplicate)", Dropped(ReasonDuplicate).String())
	assert.Equal(t, "failed(boom)", Failed(errors.New("boom")).String())
}
