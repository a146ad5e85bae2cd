package tekmetric

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Veraticus/shop-assist/internal/common"
	"github.com/Veraticus/shop-assist/internal/model"
)

// OrderClient talks to the shop web app's internal API using a captured token.
// It never retries: a failed call is reported once and the caller decides what to do.
type OrderClient struct {
	httpClient *http.Client
	logger     *slog.Logger
	baseURL    string
}

// NewOrderClient creates a client rooted at baseURL (e.g. https://shop.tekmetric.com).
func NewOrderClient(baseURL string, httpClient *http.Client) *OrderClient {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &OrderClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
		logger:     slog.Default().With("component", "tekmetric"),
	}
}

// GetRepairOrder fetches the current state of a repair order.
func (c *OrderClient) GetRepairOrder(ctx context.Context, token, shopID, orderID string) (*model.RepairOrderSnapshot, error) {
	endpoint := c.orderURL(shopID, orderID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set(AuthHeader, token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: GET repair order %s: %w", common.ErrTekmetricRequest, orderID, err)
	}
	defer resp.Body.Close()

	if err := checkStatus(resp, "GET repair order "+orderID); err != nil {
		return nil, err
	}

	var snapshot model.RepairOrderSnapshot
	if err := json.NewDecoder(resp.Body).Decode(&snapshot); err != nil {
		return nil, fmt.Errorf("failed to decode repair order %s: %w", orderID, err)
	}

	c.logger.Debug("Fetched repair order",
		"shop_id", shopID,
		"order_id", orderID,
		"labor_rate", snapshot.LaborRate,
		"make", snapshot.VehicleMake)

	return &snapshot, nil
}

// UpdateRepairOrderSummary replaces the repair order summary with payload.
func (c *OrderClient) UpdateRepairOrderSummary(ctx context.Context, token, shopID, orderID string, payload map[string]json.RawMessage) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode summary: %w", err)
	}

	endpoint := c.orderURL(shopID, orderID) + "/summary"
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set(AuthHeader, token)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: PUT summary %s: %w", common.ErrTekmetricRequest, orderID, err)
	}
	defer resp.Body.Close()

	if err := checkStatus(resp, "PUT summary "+orderID); err != nil {
		return err
	}
	_, _ = io.Copy(io.Discard, resp.Body)

	return nil
}

func (c *OrderClient) orderURL(shopID, orderID string) string {
	return fmt.Sprintf("%s/api/shop/%s/repair-order/%s", c.baseURL, url.PathEscape(shopID), url.PathEscape(orderID))
}

// checkStatus turns a non-2xx response into an error carrying the status and a body excerpt.
func checkStatus(resp *http.Response, op string) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	err := fmt.Errorf("%w: %s: status %d: %s", common.ErrTekmetricRequest, op, resp.StatusCode, strings.TrimSpace(string(body)))

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return fmt.Errorf("%w: %w", common.ErrUnauthorized, err)
	case resp.StatusCode == http.StatusTooManyRequests:
		return &common.RetryableError{Err: fmt.Errorf("%w: %w", common.ErrRateLimit, err), Retryable: true}
	case resp.StatusCode >= 500:
		return &common.RetryableError{Err: err, Retryable: true}
	}
	return err
}
