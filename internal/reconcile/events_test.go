package reconcile

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Veraticus/shop-assist/internal/model"
)

func TestParseOrderEvent(t *testing.T) {
	tests := []struct {
		name  string
		url   string
		want  model.RepairOrderEvent
		found bool
	}{
		{
			name:  "estimate with shop",
			url:   "https://shop.tekmetric.com/api/shop/469/repair-order/1001/estimate",
			want:  model.RepairOrderEvent{OrderID: "1001", ShopID: "469", Kind: model.EventNewOrderCreated},
			found: true,
		},
		{
			name:  "estimate without shop",
			url:   "https://shop.tekmetric.com/repair-order/1001/estimate?tab=jobs",
			want:  model.RepairOrderEvent{OrderID: "1001", Kind: model.EventNewOrderCreated},
			found: true,
		},
		{
			name:  "existing order",
			url:   "https://shop.tekmetric.com/api/shop/469/repair-order/2002",
			want:  model.RepairOrderEvent{OrderID: "2002", ShopID: "469", Kind: model.EventExistingOrderViewed},
			found: true,
		},
		{
			name:  "existing order with query",
			url:   "https://shop.tekmetric.com/admin/shop/469/repair-order/2002?view=1",
			want:  model.RepairOrderEvent{OrderID: "2002", ShopID: "469", Kind: model.EventExistingOrderViewed},
			found: true,
		},
		{
			name: "order list",
			url:  "https://shop.tekmetric.com/api/shop/469/repair-orders",
		},
		{
			name: "unrelated",
			url:  "https://example.com/",
		},
		{
			name: "empty",
			url:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseOrderEvent(tt.url)
			assert.Equal(t, tt.found, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseAuthCapture(t *testing.T) {
	tests := []struct {
		name  string
		req   ObservedRequest
		want  model.AuthSession
		found bool
	}{
		{
			name:  "lower-case header",
			req:   ObservedRequest{URL: "https://shop.tekmetric.com/api/shop/469/employees", Headers: map[string]string{"x-auth-token": "abc"}},
			want:  model.AuthSession{Token: "abc", ShopID: "469"},
			found: true,
		},
		{
			name:  "canonical header",
			req:   ObservedRequest{URL: "https://shop.tekmetric.com/api/shop/469?x=1", Headers: map[string]string{"X-Auth-Token": " abc "}},
			want:  model.AuthSession{Token: "abc", ShopID: "469"},
			found: true,
		},
		{
			name: "no header",
			req:  ObservedRequest{URL: "https://shop.tekmetric.com/api/shop/469/employees", Headers: map[string]string{"Accept": "*/*"}},
		},
		{
			name: "empty token",
			req:  ObservedRequest{URL: "https://shop.tekmetric.com/api/shop/469/employees", Headers: map[string]string{"x-auth-token": ""}},
		},
		{
			name: "not a shop url",
			req:  ObservedRequest{URL: "https://shop.tekmetric.com/api/user", Headers: map[string]string{"x-auth-token": "abc"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseAuthCapture(tt.req, "X-Auth-Token")
			assert.Equal(t, tt.found, ok)
			if tt.found {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestSessionStore(t *testing.T) {
	s := NewSessionStore()
	_, ok := s.Current()
	assert.False(t, ok)

	assert.False(t, s.Capture(model.AuthSession{Token: "abc"}))
	_, ok = s.Current()
	assert.False(t, ok)

	assert.True(t, s.Capture(model.AuthSession{Token: "abc", ShopID: "469"}))
	assert.True(t, s.Capture(model.AuthSession{Token: "def", ShopID: "470"}))
	got, ok := s.Current()
	assert.True(t, ok)
	assert.Equal(t, model.AuthSession{Token: "def", ShopID: "470"}, got)
}
