// Package courierapi implements the outbound tracking-status calls against
// the courier HTTP APIs. It is the single transport adapter behind the
// courier.StatusFetcher port; providers contribute their payload fields and
// never touch HTTP themselves.
package courierapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"tracking/internal/core/domain/model/courier"
	"tracking/internal/pkg/errs"

	"go.uber.org/zap"
)

const defaultRequestTimeout = 15 * time.Second

// statusResponse is the JSON shape of a courier tracking reply.
type statusResponse struct {
	State       string `json:"state"`
	Description string `json:"description"`
}

// Client performs tracking-status lookups over HTTP.
//
// Error classification is the client's one hard rule: network failures and
// courier 5xx responses come back as errs.ErrCourierAPIUnavailable so the
// polling scheduler retries them with backoff, while 4xx responses are
// permanent and must not be retried.
type Client struct {
	httpClient *http.Client
	registry   *courier.Registry
	baseURLs   map[string]string
	logger     *zap.Logger
}

// NewClient creates a courier API client. baseURLs maps provider ids to their
// tracking endpoint; a courier without an entry cannot be polled.
func NewClient(registry *courier.Registry, baseURLs map[string]string, logger *zap.Logger) *Client {
	normalized := make(map[string]string, len(baseURLs))
	for id, u := range baseURLs {
		normalized[strings.ToLower(id)] = strings.TrimRight(u, "/")
	}

	return &Client{
		httpClient: &http.Client{Timeout: defaultRequestTimeout},
		registry:   registry,
		baseURLs:   normalized,
		logger:     logger,
	}
}

// FetchStatus retrieves the current status of a voucher from the courier
// identified by courierID.
func (c *Client) FetchStatus(ctx context.Context, courierID, voucher string) (courier.StatusResult, error) {
	provider, ok := c.registry.Get(courierID)
	if !ok {
		return courier.StatusResult{}, errs.NewObjectNotFoundError("courier", courierID)
	}

	baseURL, ok := c.baseURLs[provider.ID()]
	if !ok {
		return courier.StatusResult{}, errs.NewValueIsRequiredError("courier endpoint for " + provider.ID())
	}

	payload := provider.BuildAPIPayload(map[string]any{
		"voucher": provider.Normalize(voucher),
	})
	body, err := json.Marshal(payload)
	if err != nil {
		return courier.StatusResult{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, baseURL+"/tracking", bytes.NewReader(body))
	if err != nil {
		return courier.StatusResult{}, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return courier.StatusResult{}, errs.NewCourierAPIUnavailableError(provider.ID(), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusInternalServerError {
		return courier.StatusResult{}, errs.NewCourierAPIUnavailableError(
			provider.ID(), fmt.Errorf("courier responded %d", resp.StatusCode))
	}
	if resp.StatusCode != http.StatusOK {
		return courier.StatusResult{}, fmt.Errorf("courier %s rejected voucher %s: status %d",
			provider.ID(), voucher, resp.StatusCode)
	}

	var parsed statusResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&parsed); err != nil {
		return courier.StatusResult{}, fmt.Errorf("courier %s returned malformed status: %w", provider.ID(), err)
	}

	state, err := normalizeState(parsed.State)
	if err != nil {
		return courier.StatusResult{}, fmt.Errorf("courier %s: %w", provider.ID(), err)
	}

	c.logger.Debug("courier status fetched",
		zap.String("courier_id", provider.ID()),
		zap.String("state", string(state)))

	return courier.StatusResult{
		CourierID:   provider.ID(),
		Voucher:     provider.Normalize(voucher),
		State:       state,
		Description: parsed.Description,
	}, nil
}

// normalizeState maps the courier gateway's state names, including the common
// per-courier synonyms, onto the normalized delivery states.
func normalizeState(state string) (courier.DeliveryState, error) {
	switch strings.ToLower(strings.TrimSpace(state)) {
	case "pending", "registered", "created":
		return courier.StatePending, nil
	case "in_transit", "in transit", "out_for_delivery", "at_hub":
		return courier.StateInTransit, nil
	case "delivered", "completed":
		return courier.StateDelivered, nil
	case "failed", "returned", "lost":
		return courier.StateFailed, nil
	default:
		return "", errs.NewValueIsInvalidErrorWithCause("state", fmt.Errorf("unknown state %q", state))
	}
}
