package tekmetric

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/Veraticus/shop-assist/internal/common"
	"github.com/Veraticus/shop-assist/internal/service"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

// PublicConfig holds public API credentials.
type PublicConfig struct {
	BaseURL      string
	ClientID     string
	ClientSecret string
	ShopID       string
}

// PublicClient implements JobSource against the OAuth2-protected public API.
type PublicClient struct {
	httpClient *http.Client
	logger     *slog.Logger
	retryOpts  service.RetryOptions
	baseURL    string
	shopID     string
}

// NewPublicClient creates a client that obtains tokens with the client-credentials grant.
func NewPublicClient(ctx context.Context, cfg PublicConfig) (*PublicClient, error) {
	if cfg.ClientID == "" || cfg.ClientSecret == "" {
		return nil, fmt.Errorf("%w: tekmetric client id and secret are required", common.ErrMissingConfig)
	}
	if cfg.ShopID == "" {
		return nil, fmt.Errorf("%w: tekmetric shop id is required", common.ErrMissingConfig)
	}

	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	oauthCfg := clientcredentials.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		TokenURL:     baseURL + "/api/v1/oauth/token",
		AuthStyle:    oauth2.AuthStyleInHeader,
	}

	base := &http.Client{Timeout: 30 * time.Second}
	ctx = context.WithValue(ctx, oauth2.HTTPClient, base)

	return &PublicClient{
		httpClient: oauthCfg.Client(ctx),
		baseURL:    baseURL,
		shopID:     cfg.ShopID,
		logger:     slog.Default().With("component", "tekmetric"),
		retryOpts: service.RetryOptions{
			MaxAttempts:  3,
			InitialDelay: 1 * time.Second,
			MaxDelay:     30 * time.Second,
			Multiplier:   2.0,
		},
	}, nil
}

// ListJobs fetches one page of jobs for the configured shop, oldest first.
func (c *PublicClient) ListJobs(ctx context.Context, page, size int) (*JobPage, error) {
	q := url.Values{}
	q.Set("shop", c.shopID)
	q.Set("page", strconv.Itoa(page))
	q.Set("size", strconv.Itoa(size))
	q.Set("sort", "createdDate")
	q.Set("sortDirection", "ASC")

	var jobs JobPage
	if err := c.getJSON(ctx, "/api/v1/jobs?"+q.Encode(), &jobs); err != nil {
		return nil, err
	}

	c.logger.Debug("Fetched job page",
		"page", jobs.Number,
		"count", len(jobs.Content),
		"total_pages", jobs.TotalPages)

	return &jobs, nil
}

// GetVehicle fetches a vehicle by id.
func (c *PublicClient) GetVehicle(ctx context.Context, vehicleID int64) (*Vehicle, error) {
	var v Vehicle
	if err := c.getJSON(ctx, fmt.Sprintf("/api/v1/vehicles/%d", vehicleID), &v); err != nil {
		return nil, err
	}
	return &v, nil
}

func (c *PublicClient) getJSON(ctx context.Context, path string, dest any) error {
	return common.WithRetry(ctx, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
		if err != nil {
			return fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("Accept", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return transportError(ctx, fmt.Errorf("%w: GET %s: %w", common.ErrTekmetricRequest, path, err))
		}
		defer resp.Body.Close()

		if err := checkStatus(resp, "GET "+path); err != nil {
			return err
		}

		if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
			return fmt.Errorf("failed to decode %s: %w", path, err)
		}
		return nil
	}, c.retryOpts)
}

// transportError marks connection failures as retryable. Rejected token
// requests and canceled contexts are returned as is.
func transportError(ctx context.Context, err error) error {
	var tokenErr *oauth2.RetrieveError
	if ctx.Err() != nil || errors.As(err, &tokenErr) {
		return err
	}
	return &common.RetryableError{Err: err, Retryable: true}
}
