package quotes

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/fueltrust/ship-estimator/internal/config"
	"go.uber.org/zap"
)

// FetchError wraps any failure to retrieve or decode the quote list: network,
// auth, status, or response-shape errors. Callers recover from it by falling
// to the next autofill tier.
type FetchError struct {
	Reason string
	Err    error
}

func (e *FetchError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("quote fetch failed: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("quote fetch failed: %s", e.Reason)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// Client fetches the raw price record list from the authenticated quote API.
type Client struct {
	httpClient *http.Client
	endpoint   string
	token      string
	logger     *zap.Logger
}

// NewClient builds a quote client from the source configuration and resolved
// access token. If logger is nil, a no-op logger is used.
func NewClient(source config.QuoteSource, token string, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		httpClient: &http.Client{Timeout: time.Duration(source.TimeoutSeconds) * time.Second},
		endpoint:   source.Endpoint,
		token:      token,
		logger:     logger,
	}
}

// HasToken reports whether an access token is configured. Without one the
// autofill cascade skips the quote tier.
func (c *Client) HasToken() bool {
	return c.token != ""
}

// Fetch retrieves the full price record list. A non-array response body is a
// hard parse failure; every failure is returned as a *FetchError.
func (c *Client) Fetch(ctx context.Context) ([]Record, error) {
	if !c.HasToken() {
		return nil, &FetchError{Reason: "no access token configured"}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint, nil)
	if err != nil {
		return nil, &FetchError{Reason: "building request", Err: err}
	}
	q := req.URL.Query()
	q.Set("format", "json")
	req.URL.RawQuery = q.Encode()
	req.Header.Set("Authorization", "Token "+c.token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &FetchError{Reason: "request", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, &FetchError{Reason: fmt.Sprintf("status %d: %s", resp.StatusCode, string(body))}
	}

	var records []Record
	if err := json.NewDecoder(resp.Body).Decode(&records); err != nil {
		return nil, &FetchError{Reason: "unexpected response shape", Err: err}
	}

	c.logger.Debug("fetched quote records",
		zap.String("op", "quotes.Fetch"),
		zap.Int("count", len(records)),
	)
	return records, nil
}
