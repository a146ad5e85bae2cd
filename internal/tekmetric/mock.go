package tekmetric

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/Veraticus/shop-assist/internal/model"
)

// MockOrderAPI is a mock implementation of OrderAPI for testing.
type MockOrderAPI struct {
	GetRepairOrderFn           func(ctx context.Context, token, shopID, orderID string) (*model.RepairOrderSnapshot, error)
	UpdateRepairOrderSummaryFn func(ctx context.Context, token, shopID, orderID string, payload map[string]json.RawMessage) error

	GetCalls    []OrderCall
	UpdateCalls []UpdateCall
	mu          sync.Mutex
}

// OrderCall records the parameters of a GetRepairOrder call.
type OrderCall struct {
	Token   string
	ShopID  string
	OrderID string
}

// UpdateCall records the parameters of an UpdateRepairOrderSummary call.
type UpdateCall struct {
	Payload map[string]json.RawMessage
	OrderCall
}

// GetRepairOrder implements OrderAPI.GetRepairOrder.
func (m *MockOrderAPI) GetRepairOrder(ctx context.Context, token, shopID, orderID string) (*model.RepairOrderSnapshot, error) {
	m.mu.Lock()
	m.GetCalls = append(m.GetCalls, OrderCall{Token: token, ShopID: shopID, OrderID: orderID})
	fn := m.GetRepairOrderFn
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, token, shopID, orderID)
	}
	return &model.RepairOrderSnapshot{}, nil
}

// UpdateRepairOrderSummary implements OrderAPI.UpdateRepairOrderSummary.
func (m *MockOrderAPI) UpdateRepairOrderSummary(ctx context.Context, token, shopID, orderID string, payload map[string]json.RawMessage) error {
	m.mu.Lock()
	m.UpdateCalls = append(m.UpdateCalls, UpdateCall{
		OrderCall: OrderCall{Token: token, ShopID: shopID, OrderID: orderID},
		Payload:   payload,
	})
	fn := m.UpdateRepairOrderSummaryFn
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, token, shopID, orderID, payload)
	}
	return nil
}

// Gets returns a copy of the recorded GetRepairOrder calls.
func (m *MockOrderAPI) Gets() []OrderCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]OrderCall(nil), m.GetCalls...)
}

// Updates returns a copy of the recorded UpdateRepairOrderSummary calls.
func (m *MockOrderAPI) Updates() []UpdateCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]UpdateCall(nil), m.UpdateCalls...)
}
