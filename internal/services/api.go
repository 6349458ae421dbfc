// PostgREST client for the hosted analysis database
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/walkerbrain/internal/cache"
	"github.com/desertthunder/walkerbrain/internal/models"
	"github.com/desertthunder/walkerbrain/internal/shared"
	"golang.org/x/oauth2"
	"golang.org/x/time/rate"
)

const (
	restPath          = "/rest/v1"
	defaultRateLimit  = 10.0
	defaultQueryTTL   = 5 * time.Minute
	defaultOptionsTTL = time.Hour
)

// Recorder receives per-call observations. [metrics.Metrics] implements it.
type Recorder interface {
	ObserveDataCall(kind, resource string, err error, d time.Duration)
	ObserveCacheLookup(hit bool)
}

type nopRecorder struct{}

func (nopRecorder) ObserveDataCall(string, string, error, time.Duration) {}
func (nopRecorder) ObserveCacheLookup(bool) {}

// ClientOpts configures a [Client].
type ClientOpts struct {
	BaseURL    string        // Project URL; "/rest/v1" is appended when missing
	Key        string        // API key sent as apikey and bearer token
	Timeout    time.Duration // Per-request timeout (default 15s)
	RateLimit  float64       // Requests per second across all callers (default 10)
	QueryTTL   time.Duration // Cache lifetime for query results (default 5m)
	OptionsTTL time.Duration // Cache lifetime for filter options (default 1h)
	Cache      cache.Cache   // Optional result cache
	Recorder   Recorder      // Optional metrics sink
	Logger     *log.Logger
	HTTPClient *http.Client // Its transport is wrapped with the bearer token; defaults to http.DefaultTransport
}

// Client issues read-only PostgREST requests.
type Client struct {
	baseURL    string
	key        string
	httpClient *http.Client
	limiter    *rate.Limiter
	cache      cache.Cache
	queryTTL   time.Duration
	optionsTTL time.Duration
	recorder   Recorder
	logger     *log.Logger
}

// NewClient creates a [Client]. BaseURL and Key are required.
func NewClient(opts ClientOpts) (*Client, error) {
	var missing []string
	if opts.BaseURL == "" {
		missing = append(missing, "database.url")
	}
	if opts.Key == "" {
		missing = append(missing, "database.key")
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", shared.ErrMissingConfig, strings.Join(missing, ", "))
	}

	if opts.Timeout <= 0 {
		opts.Timeout = 15 * time.Second
	}
	if opts.RateLimit <= 0 {
		opts.RateLimit = defaultRateLimit
	}
	if opts.QueryTTL <= 0 {
		opts.QueryTTL = defaultQueryTTL
	}
	if opts.OptionsTTL <= 0 {
		opts.OptionsTTL = defaultOptionsTTL
	}
	if opts.Recorder == nil {
		opts.Recorder = nopRecorder{}
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}

	base := http.DefaultTransport
	if opts.HTTPClient != nil && opts.HTTPClient.Transport != nil {
		base = opts.HTTPClient.Transport
	}

	token := &oauth2.Token{AccessToken: opts.Key, TokenType: "Bearer"}
	httpClient := &http.Client{
		Timeout: opts.Timeout,
		Transport: &oauth2.Transport{
			Source: oauth2.StaticTokenSource(token),
			Base:   base,
		},
	}

	burst := int(opts.RateLimit)
	if burst < 1 {
		burst = 1
	}

	return &Client{
		baseURL:    restURL(opts.BaseURL),
		key:        opts.Key,
		httpClient: httpClient,
		limiter:    rate.NewLimiter(rate.Limit(opts.RateLimit), burst),
		cache:      opts.Cache,
		queryTTL:   opts.QueryTTL,
		optionsTTL: opts.OptionsTTL,
		recorder:   opts.Recorder,
		logger:     shared.WithLogger(opts.Logger, "component", "postgrest"),
	}, nil
}

func restURL(base string) string {
	base = strings.TrimRight(strings.TrimSpace(base), "/")
	if strings.HasSuffix(base, restPath) {
		return base
	}
	return base + restPath
}

// BaseURL returns the REST root requests are sent to.
func (c *Client) BaseURL() string { return c.baseURL }

// response is the raw result of one request.
type response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// apiError is the PostgREST error envelope.
type apiError struct {
	Message string `json:"message"`
	Code    string `json:"code"`
	Details string `json:"details"`
	Hint    string `json:"hint"`
}

// do performs a throttled request and converts every failure into [shared.ErrDataAccess].
func (c *Client) do(ctx context.Context, kind, method, resource, rawQuery string, body []byte, header http.Header) (resp *response, err error) {
	start := time.Now()
	defer func() {
		d := time.Since(start)
		c.recorder.ObserveDataCall(kind, resource, err, d)
		if err != nil {
			c.logger.Debug("rest call failed", "kind", kind, "resource", resource, "duration", d, "error", err)
		} else {
			c.logger.Debug("rest call", "kind", kind, "resource", resource, "status", resp.StatusCode, "duration", d)
		}
	}()

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", shared.ErrDataAccess, resource, err)
	}

	fullURL := c.baseURL + "/" + resource
	if rawQuery != "" {
		fullURL += "?" + rawQuery
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, fullURL, reader)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %w", shared.ErrDataAccess, err)
	}

	req.Header.Set("apikey", c.key)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}

	httpResp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: request failed: %w", shared.ErrDataAccess, resource, err)
	}
	defer httpResp.Body.Close()

	data, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: failed to read response: %w", shared.ErrDataAccess, resource, err)
	}

	if httpResp.StatusCode < 200 || httpResp.StatusCode >= 300 {
		return nil, statusError(resource, httpResp.StatusCode, data)
	}

	return &response{StatusCode: httpResp.StatusCode, Header: httpResp.Header, Body: data}, nil
}

func statusError(resource string, status int, body []byte) error {
	var apiErr apiError
	if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Message != "" {
		return fmt.Errorf("%w: %s: status %d: %s", shared.ErrDataAccess, resource, status, apiErr.Message)
	}
	return fmt.Errorf("%w: %s: status %d", shared.ErrDataAccess, resource, status)
}

func decodeRecords(resource string, body []byte) ([]models.Record, error) {
	if len(bytes.TrimSpace(body)) == 0 {
		return []models.Record{}, nil
	}

	var records []models.Record
	if err := json.Unmarshal(body, &records); err != nil {
		return nil, fmt.Errorf("%w: %s: failed to decode response: %w", shared.ErrDataAccess, resource, err)
	}
	if records == nil {
		records = []models.Record{}
	}
	return records, nil
}

// cached serves key from the cache when present and stores load's result otherwise.
// Cache failures are logged and treated as misses.
func (c *Client) cached(ctx context.Context, key string, ttl time.Duration, load func() ([]byte, error)) ([]byte, error) {
	if c.cache == nil {
		return load()
	}

	if data, ok, err := c.cache.Get(ctx, key); err != nil {
		c.logger.Warn("cache read failed", "key", key, "error", err)
	} else {
		c.recorder.ObserveCacheLookup(ok)
		if ok {
			return data, nil
		}
	}

	data, err := load()
	if err != nil {
		return nil, err
	}

	if err := c.cache.Set(ctx, key, data, ttl); err != nil {
		c.logger.Warn("cache write failed", "key", key, "error", err)
	}
	return data, nil
}

// Select returns the rows matching q, in q's order.
func (c *Client) Select(ctx context.Context, q Query) ([]models.Record, error) {
	if q.Table == "" {
		return nil, fmt.Errorf("%w: query has no table", shared.ErrInvalidInput)
	}

	rawQuery := q.Encode()
	body, err := c.cached(ctx, "select:"+q.Table+"?"+rawQuery, c.queryTTL, func() ([]byte, error) {
		resp, err := c.do(ctx, "select", http.MethodGet, q.Table, rawQuery, nil, nil)
		if err != nil {
			return nil, err
		}
		return resp.Body, nil
	})
	if err != nil {
		return nil, err
	}

	return decodeRecords(q.Table, body)
}

// Count returns the exact number of rows matching q's filters. Order, limit and offset are ignored.
func (c *Client) Count(ctx context.Context, q Query) (int, error) {
	if q.Table == "" {
		return 0, fmt.Errorf("%w: query has no table", shared.ErrInvalidInput)
	}

	q.Order, q.Limit, q.Offset = nil, 0, 0
	if q.Select == "" {
		q.Select = "source_transcript_id"
	}
	rawQuery := q.Encode()

	body, err := c.cached(ctx, "count:"+q.Table+"?"+rawQuery, c.queryTTL, func() ([]byte, error) {
		header := http.Header{"Prefer": []string{"count=exact"}}
		resp, err := c.do(ctx, "count", http.MethodHead, q.Table, rawQuery, nil, header)
		if err != nil {
			return nil, err
		}

		n, err := parseContentRange(resp.Header.Get("Content-Range"))
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", shared.ErrDataAccess, q.Table, err)
		}
		return []byte(strconv.Itoa(n)), nil
	})
	if err != nil {
		return 0, err
	}

	n, err := strconv.Atoi(string(body))
	if err != nil {
		return 0, fmt.Errorf("%w: %s: bad cached count %q", shared.ErrDataAccess, q.Table, body)
	}
	return n, nil
}

// parseContentRange reads the total from "0-24/3573" or "*/0".
func parseContentRange(h string) (int, error) {
	_, total, ok := strings.Cut(h, "/")
	if !ok || total == "" || total == "*" {
		return 0, fmt.Errorf("missing count in Content-Range %q", h)
	}
	n, err := strconv.Atoi(total)
	if err != nil {
		return 0, fmt.Errorf("invalid count in Content-Range %q", h)
	}
	return n, nil
}

// RPC calls a database function with JSON-encoded params and returns its rows.
func (c *Client) RPC(ctx context.Context, fn string, params any) ([]models.Record, error) {
	if fn == "" {
		return nil, fmt.Errorf("%w: rpc has no function name", shared.ErrInvalidInput)
	}
	if params == nil {
		params = map[string]any{}
	}

	payload, err := json.Marshal(params)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to encode rpc params: %w", shared.ErrInvalidInput, err)
	}

	resource := "rpc/" + fn
	body, err := c.cached(ctx, "rpc:"+fn+":"+string(payload), c.queryTTL, func() ([]byte, error) {
		resp, err := c.do(ctx, "rpc", http.MethodPost, resource, "", payload, nil)
		if err != nil {
			return nil, err
		}
		return resp.Body, nil
	})
	if err != nil {
		return nil, err
	}

	return decodeRecords(resource, body)
}

// DistinctValues returns the sorted, de-duplicated non-empty values of column.
// Results are cached for the options TTL.
func (c *Client) DistinctValues(ctx context.Context, table, column string) ([]string, error) {
	body, err := c.cached(ctx, "distinct:"+table+"."+column, c.optionsTTL, func() ([]byte, error) {
		q := Query{Table: table, Select: column, Filters: []Filter{NotNull(column)}}
		resp, err := c.do(ctx, "select", http.MethodGet, table, q.Encode(), nil, nil)
		if err != nil {
			return nil, err
		}

		records, err := decodeRecords(table, resp.Body)
		if err != nil {
			return nil, err
		}
		return json.Marshal(distinct(records, column))
	})
	if err != nil {
		return nil, err
	}

	var values []string
	if err := json.Unmarshal(body, &values); err != nil {
		return nil, fmt.Errorf("%w: %s: failed to decode distinct values: %w", shared.ErrDataAccess, table, err)
	}
	return values, nil
}

// Ping checks that the REST endpoint answers with the configured key.
func (c *Client) Ping(ctx context.Context, table string) error {
	q := Query{Table: table, Select: "*", Limit: 1}
	_, err := c.do(ctx, "select", http.MethodGet, table, q.Encode(), nil, nil)
	return err
}
