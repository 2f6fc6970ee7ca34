// Package setlist is a thin client for the setlist listing API.  It only
// knows how to issue a setlist search and decode the rows; interpreting the
// rows is left to callers.
package setlist

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// ErrNotFound is returned when the API answers 404, which it does for a
// search without matches.
var ErrNotFound = errors.New("setlist: not found")

// ErrUnexpectedStatus wraps any other non-2xx status.
var ErrUnexpectedStatus = errors.New("setlist: unexpected status")

type Config struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

type Client struct {
	// baseURL is the REST root, e.g. https://api.setlist.fm/rest/1.0.
	baseURL string

	// apiKey is sent in the x-api-key header.
	apiKey string

	// hc is the http client.
	hc *http.Client
}

// NewClient creates a client.  A zero Timeout defaults to 10 seconds.
func NewClient(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		hc:      &http.Client{Timeout: timeout},
	}
}

// SearchSetlists calls GET /search/setlists with the given filters and
// returns the decoded rows in upstream order.
func (c *Client) SearchSetlists(ctx context.Context, q Query) ([]Setlist, error) {
	endpoint := c.baseURL + "/search/setlists"
	if params := q.Values().Encode(); params != "" {
		endpoint += "?" + params
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("searchSetlists: http.NewReq: %w", err)
	}
	req.Header.Set("x-api-key", c.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("searchSetlists: http.Do: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: %d", ErrUnexpectedStatus, resp.StatusCode)
	}

	var body SearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("searchSetlists: decode: %w", err)
	}
	return body.Setlist, nil
}
