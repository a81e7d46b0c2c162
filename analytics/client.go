// Package analytics talks to the public Gamba stats API on behalf of the
// dashboard. Responses are cached and failed calls retried with backoff.
package analytics

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"go.uber.org/zap"
)

const (
	DefaultBaseURL  = "https://api.gamba.so"
	DefaultCacheTTL = 600 * time.Second
	cacheSize       = 1024
)

// ErrUpstream wraps every failure reaching the stats API.
var ErrUpstream = errors.New("analytics: upstream failed")

// StatusError is a non-2xx answer from the stats API.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("Failed to fetch: %d %s - %s", e.Code, http.StatusText(e.Code), e.Body)
}

// RetryPolicy controls how often a failed call is repeated.
type RetryPolicy struct {
	MaxAttempts     uint
	InitialInterval time.Duration
	Multiplier      float64
}

func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{MaxAttempts: 3, InitialInterval: 500 * time.Millisecond, Multiplier: 2}
}

func (p RetryPolicy) options() []backoff.RetryOption {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = p.InitialInterval
	b.Multiplier = p.Multiplier
	b.RandomizationFactor = 0
	attempts := p.MaxAttempts
	if attempts == 0 {
		attempts = 1
	}
	return []backoff.RetryOption{backoff.WithBackOff(b), backoff.WithMaxTries(attempts)}
}

type Client struct {
	baseURL string
	creator string
	retry   RetryPolicy
	http    *http.Client
	cache   *expirable.LRU[string, json.RawMessage]
	log     *zap.Logger
}

type Options struct {
	BaseURL  string
	Creator  string // added as creator=<addr> to every query
	CacheTTL time.Duration
	Retry    RetryPolicy
	HTTP     *http.Client
}

func NewClient(opts Options, log *zap.Logger) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = DefaultCacheTTL
	}
	if opts.Retry.MaxAttempts == 0 {
		opts.Retry = DefaultRetryPolicy()
	}
	if opts.HTTP == nil {
		opts.HTTP = &http.Client{Timeout: 15 * time.Second}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{
		baseURL: opts.BaseURL,
		creator: opts.Creator,
		retry:   opts.Retry,
		http:    opts.HTTP,
		cache:   expirable.NewLRU[string, json.RawMessage](cacheSize, nil, opts.CacheTTL),
		log:     log.Named("analytics"),
	}
}

// Get fetches endpoint with params, serving repeated identical queries from
// the cache until they expire.
func (c *Client) Get(ctx context.Context, endpoint string, params url.Values) (json.RawMessage, error) {
	q := url.Values{}
	for k, v := range params {
		q[k] = append([]string(nil), v...)
	}
	if c.creator != "" {
		q.Set("creator", c.creator)
	}
	// Encode sorts by key so equal queries share a cache entry.
	key := endpoint + "?" + q.Encode()
	if body, ok := c.cache.Get(key); ok {
		return body, nil
	}

	attempt := 0
	body, err := backoff.Retry(ctx, func() (json.RawMessage, error) {
		attempt++
		body, err := c.fetch(ctx, key)
		if err != nil {
			c.log.Warn("fetch failed", zap.String("endpoint", endpoint), zap.Int("attempt", attempt), zap.Error(err))
			var se *StatusError
			if errors.As(err, &se) && se.Code >= 400 && se.Code < 500 {
				return nil, backoff.Permanent(err)
			}
			return nil, err
		}
		return body, nil
	}, c.retry.options()...)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUpstream, err)
	}
	c.cache.Add(key, body)
	return body, nil
}

func (c *Client) fetch(ctx context.Context, pathAndQuery string) (json.RawMessage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+pathAndQuery, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{Code: resp.StatusCode, Body: string(body)}
	}
	if !json.Valid(body) {
		return nil, fmt.Errorf("analytics: invalid json from %s", pathAndQuery)
	}
	return json.RawMessage(body), nil
}
