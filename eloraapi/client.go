// Package eloraapi is the read-only client for the Elora vehicle-telemetry
// API. All endpoints are plain GETs behind one generic proxy; responses
// arrive either as a bare JSON array or wrapped in a paging envelope, and
// the client normalizes both shapes before decoding.
package eloraapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/apex/log"

	"elora/metrics"
	"elora/models"
)

type Client struct {
	baseURL string
	apiKey  string
	httpc   *http.Client
}

func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpc:   &http.Client{Timeout: 60 * time.Second},
	}
}

// envelope is the paged response shape. Endpoints sometimes return a bare
// array instead, so it is only decoded after sniffing the first byte.
type envelope struct {
	Total     int               `json:"total"`
	Page      int               `json:"page"`
	PageSize  int               `json:"pageSize"`
	PageCount int               `json:"pageCount"`
	Data      []json.RawMessage `json:"data"`
}

// Call performs one GET against the given endpoint and returns the raw
// items, following the paging envelope across all pages when present.
// Fetch errors propagate to the caller; there is no automatic retry.
// The caller's params are copied, not mutated, so a params map can be
// reused across calls.
func (c *Client) Call(ctx context.Context, endpoint string, params url.Values) ([]json.RawMessage, error) {
	params = cloneValues(params)

	items, pageCount, err := c.fetchPage(ctx, endpoint, params)
	if err != nil {
		return nil, err
	}

	for page := 2; page <= pageCount; page++ {
		params.Set("page", strconv.Itoa(page))
		next, _, err := c.fetchPage(ctx, endpoint, params)
		if err != nil {
			return nil, err
		}
		items = append(items, next...)
	}
	return items, nil
}

func (c *Client) fetchPage(ctx context.Context, endpoint string, params url.Values) ([]json.RawMessage, int, error) {
	reqURL := c.baseURL + endpoint
	if len(params) > 0 {
		reqURL += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build request for %s: %w", endpoint, err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpc.Do(req)
	if err != nil {
		metrics.EloraAPICallsTotal.WithLabelValues(endpoint, "error").Inc()
		return nil, 0, fmt.Errorf("elora API request %s failed: %w", endpoint, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		metrics.EloraAPICallsTotal.WithLabelValues(endpoint, "error").Inc()
		return nil, 0, fmt.Errorf("failed to read elora API response for %s: %w", endpoint, err)
	}
	if resp.StatusCode != http.StatusOK {
		metrics.EloraAPICallsTotal.WithLabelValues(endpoint, "error").Inc()
		return nil, 0, fmt.Errorf("elora API %s returned status %d: %s", endpoint, resp.StatusCode, truncate(string(body), 200))
	}

	metrics.EloraAPICallsTotal.WithLabelValues(endpoint, "ok").Inc()
	return normalize(body)
}

// normalize accepts either a bare array or the paging envelope and returns
// the items plus the page count (0 for bare arrays).
func normalize(body []byte) ([]json.RawMessage, int, error) {
	trimmed := firstNonSpace(body)
	if trimmed == '[' {
		var items []json.RawMessage
		if err := json.Unmarshal(body, &items); err != nil {
			return nil, 0, fmt.Errorf("failed to decode array response: %w", err)
		}
		return items, 0, nil
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, 0, fmt.Errorf("failed to decode envelope response: %w", err)
	}
	return env.Data, env.PageCount, nil
}

func cloneValues(params url.Values) url.Values {
	out := make(url.Values, len(params))
	for key, values := range params {
		out[key] = append([]string(nil), values...)
	}
	return out
}

func firstNonSpace(b []byte) byte {
	for _, c := range b {
		switch c {
		case ' ', '\t', '\n', '\r':
			continue
		}
		return c
	}
	return 0
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

// Vehicles fetches the full vehicle list.
func (c *Client) Vehicles(ctx context.Context) ([]models.Vehicle, error) {
	return decodeItems[models.Vehicle](c, ctx, "/vehicles", nil)
}

// Scans fetches wash scans since the given time.
func (c *Client) Scans(ctx context.Context, since time.Time) ([]models.ScanEvent, error) {
	params := url.Values{}
	if !since.IsZero() {
		params.Set("from", since.UTC().Format(time.RFC3339))
	}
	return decodeItems[models.ScanEvent](c, ctx, "/scans", params)
}

// Refills fetches refill deliveries.
func (c *Client) Refills(ctx context.Context) ([]models.RefillEvent, error) {
	return decodeItems[models.RefillEvent](c, ctx, "/refills", nil)
}

// Sites fetches the site list.
func (c *Client) Sites(ctx context.Context) ([]models.Site, error) {
	return decodeItems[models.Site](c, ctx, "/sites", nil)
}

// Devices fetches the device list.
func (c *Client) Devices(ctx context.Context) ([]models.Device, error) {
	return decodeItems[models.Device](c, ctx, "/devices", nil)
}

// Dashboard fetches the provider's prebuilt dashboard blob, passed through
// untyped since only diagnostics consume it.
func (c *Client) Dashboard(ctx context.Context) ([]json.RawMessage, error) {
	return c.Call(ctx, "/dashboard", nil)
}

func decodeItems[T any](c *Client, ctx context.Context, endpoint string, params url.Values) ([]T, error) {
	raw, err := c.Call(ctx, endpoint, params)
	if err != nil {
		return nil, err
	}
	out := make([]T, 0, len(raw))
	for i, item := range raw {
		var v T
		if err := json.Unmarshal(item, &v); err != nil {
			log.WithError(err).Warnf("skipping undecodable %s item %d", endpoint, i)
			continue
		}
		out = append(out, v)
	}
	return out, nil
}
