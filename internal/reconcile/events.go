package reconcile

import (
	"regexp"
	"strings"

	"github.com/Veraticus/shop-assist/internal/model"
)

// ObservedRequest is an outgoing request seen by the host, typically the
// shop web app's own API traffic relayed by the browser extension.
type ObservedRequest struct {
	Headers map[string]string `json:"headers"`
	URL     string            `json:"url"`
	Method  string            `json:"method"`
}

var (
	authURLPattern   = regexp.MustCompile(`/api/shop/(\d+)(?:[/?#]|$)`)
	newOrderPattern  = regexp.MustCompile(`(?:/(\d+))?/repair-order/(\d+)/estimate(?:[/?#]|$)`)
	viewOrderPattern = regexp.MustCompile(`/(\d+)/repair-order/(\d+)(?:[/?#]|$)`)
)

// Header returns the value of the named header, matching the name case-insensitively.
func (r ObservedRequest) Header(name string) (string, bool) {
	for k, v := range r.Headers {
		if strings.EqualFold(k, name) {
			return v, true
		}
	}
	return "", false
}

// ParseAuthCapture extracts a session from a request to the shop API that
// carries the auth token header.
func ParseAuthCapture(req ObservedRequest, headerName string) (model.AuthSession, bool) {
	m := authURLPattern.FindStringSubmatch(req.URL)
	if m == nil {
		return model.AuthSession{}, false
	}
	token, ok := req.Header(headerName)
	if !ok {
		return model.AuthSession{}, false
	}
	session := model.AuthSession{Token: strings.TrimSpace(token), ShopID: m[1]}
	return session, session.Valid()
}

// ParseOrderEvent recognizes repair order URLs. An estimate URL means a new
// order was created and takes precedence over the plain order view. When the
// URL carries no shop id the event's ShopID is left empty and the session's
// shop is used at reconcile time.
func ParseOrderEvent(rawURL string) (model.RepairOrderEvent, bool) {
	if m := newOrderPattern.FindStringSubmatch(rawURL); m != nil {
		return model.RepairOrderEvent{
			OrderID: m[2],
			ShopID:  m[1],
			Kind:    model.EventNewOrderCreated,
		}, true
	}
	if m := viewOrderPattern.FindStringSubmatch(rawURL); m != nil {
		return model.RepairOrderEvent{
			OrderID: m[2],
			ShopID:  m[1],
			Kind:    model.EventExistingOrderViewed,
		}, true
	}
	return model.RepairOrderEvent{}, false
}
