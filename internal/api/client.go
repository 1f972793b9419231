package api

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/liquidmon/lmon/internal/errors"
	"github.com/liquidmon/lmon/internal/logger"
	"golang.org/x/time/rate"
)

// Endpoint paths on the metrics server.
const (
	PathCurrent     = "/api/stats/current"
	PathPeaks       = "/api/stats/peaks"
	PathHistory     = "/api/history"
	PathContainers  = "/api/containers"
	PathAlerts      = "/api/alerts"
	PathAlertsClear = "/api/alerts/clear"
)

// maxBodyBytes caps how much of a response is read.
const maxBodyBytes = 32 << 20

// RequestObserver is notified after every request settles. status is 0 when
// the request failed before a response arrived.
type RequestObserver interface {
	ObserveRequest(endpoint string, status int, elapsed time.Duration)
}

// Client talks to the metrics API. A single Client is shared by every
// polling loop. Each endpoint has its own limiter, so a busy loop never
// delays another.
type Client struct {
	baseURL     string
	historyPath string
	http        *http.Client
	observer    RequestObserver
	log         logger.Logger

	limit    rate.Limit
	burst    int
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.Timeout = d }
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// WithRateLimit throttles requests to each endpoint to rps with the given burst.
func WithRateLimit(rps float64, burst int) Option {
	return func(c *Client) {
		c.limit = rate.Limit(rps)
		c.burst = burst
	}
}

// WithHistoryPath overrides the history endpoint path.
func WithHistoryPath(path string) Option {
	return func(c *Client) {
		if path != "" {
			c.historyPath = path
		}
	}
}

// WithObserver registers a request observer.
func WithObserver(o RequestObserver) Option {
	return func(c *Client) { c.observer = o }
}

// WithLogger sets the logger used for request diagnostics.
func WithLogger(l logger.Logger) Option {
	return func(c *Client) { c.log = l }
}

// NewClient creates a client for baseURL. A trailing slash is ignored.
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:     strings.TrimSuffix(baseURL, "/"),
		historyPath: PathHistory,
		http:        &http.Client{Timeout: 5 * time.Second},
		log:         logger.Noop(),
		limit:       rate.Inf,
		burst:       1,
		limiters:    make(map[string]*rate.Limiter),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the server base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Current fetches the live host snapshot.
func (c *Client) Current(ctx context.Context) (*HostSnapshot, error) {
	body, err := c.do(ctx, http.MethodGet, PathCurrent, nil)
	if err != nil {
		return nil, err
	}
	return decodeSnapshot(body)
}

// Peaks fetches the 24h extrema and totals.
func (c *Client) Peaks(ctx context.Context) (*PeakSet, error) {
	body, err := c.do(ctx, http.MethodGet, PathPeaks, nil)
	if err != nil {
		return nil, err
	}
	var peaks PeakSet
	if err := decodeObject(body, "peaks", &peaks); err != nil {
		return nil, err
	}
	return &peaks, nil
}

// History fetches the metric series for period (24h, 7d, 30d).
func (c *Client) History(ctx context.Context, period string) ([]HistoryRecord, error) {
	q := url.Values{}
	q.Set("period", period)
	body, err := c.do(ctx, http.MethodGet, c.historyPath, q)
	if err != nil {
		return nil, err
	}
	var records []HistoryRecord
	if err := decodeList(body, "history", &records); err != nil {
		return nil, err
	}
	return records, nil
}

// Entities fetches the current container list.
func (c *Client) Entities(ctx context.Context) ([]EntitySample, error) {
	body, err := c.do(ctx, http.MethodGet, PathContainers, nil)
	if err != nil {
		return nil, err
	}
	var entities []EntitySample
	if err := decodeList(body, "containers", &entities); err != nil {
		return nil, err
	}
	return entities, nil
}

// Alerts fetches up to limit recent alert records, newest first.
func (c *Client) Alerts(ctx context.Context, limit int) ([]AlertRecord, error) {
	q := url.Values{}
	q.Set("limit", strconv.Itoa(limit))
	body, err := c.do(ctx, http.MethodGet, PathAlerts, q)
	if err != nil {
		return nil, err
	}
	var alerts []AlertRecord
	if err := decodeList(body, "alerts", &alerts); err != nil {
		return nil, err
	}
	return alerts, nil
}

// ClearAlerts empties the server-side alert log.
func (c *Client) ClearAlerts(ctx context.Context) error {
	_, err := c.do(ctx, http.MethodPost, PathAlertsClear, nil)
	return err
}

// do performs one request and returns the body of a 2xx JSON response.
func (c *Client) do(ctx context.Context, method, path string, query url.Values) ([]byte, error) {
	if err := c.limiterFor(path).Wait(ctx); err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrAPI,
			fmt.Sprintf("%s %s not sent", method, path), "")
	}

	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, target, nil)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrConfig,
			fmt.Sprintf("Invalid request URL %s", target),
			"Check server_url in your config")
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.observe(path, 0, start)
		return nil, errors.WrapWithCode(err, errors.ErrAPI,
			fmt.Sprintf("%s %s failed", method, path),
			"Check the server is reachable and server_url is correct")
	}
	defer resp.Body.Close()
	c.observe(path, resp.StatusCode, start)

	if resp.StatusCode == http.StatusUnauthorized {
		return nil, errors.NewAuth(path)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrAPI,
			fmt.Sprintf("Reading %s response failed", path), "")
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, errors.New(errors.ErrAPI,
			fmt.Sprintf("%s %s returned %s", method, path, resp.Status),
			"")
	}

	if looksLikeHTML(body) {
		c.log.Warn("%s returned an HTML page, treating as auth wall", path)
		return nil, errors.NewAuth(path)
	}

	return body, nil
}

// limiterFor returns the limiter for path, creating it on first use.
func (c *Client) limiterFor(path string) *rate.Limiter {
	c.mu.Lock()
	defer c.mu.Unlock()

	l, ok := c.limiters[path]
	if !ok {
		l = rate.NewLimiter(c.limit, c.burst)
		c.limiters[path] = l
	}
	return l
}

func (c *Client) observe(path string, status int, start time.Time) {
	if c.observer != nil {
		c.observer.ObserveRequest(path, status, time.Since(start))
	}
}
