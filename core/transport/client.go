// Package transport performs the raw HTTP exchanges providers depend on.
package transport

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/liuran001/hymusic/core"
	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"
)

// Fetcher returns raw response bodies. Providers depend on this interface
// only, so tests can serve canned bytes.
type Fetcher interface {
	Get(ctx context.Context, rawURL string, query url.Values) ([]byte, error)
	PostForm(ctx context.Context, rawURL string, form url.Values) ([]byte, error)
	PostJSON(ctx context.Context, rawURL string, body []byte) ([]byte, error)
}

// StatusError reports a non-2xx response.
type StatusError struct {
	Method string
	URL    string
	Code   int
	Body   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %s: unexpected status %d", e.Method, e.URL, e.Code)
}

// Options configures a Client.
type Options struct {
	Timeout  time.Duration
	RetryMax int
	Headers  map[string]string
	Logger   core.Logger

	// Name labels the circuit breaker in logs.
	Name string

	// RateLimit caps outgoing requests per second. Zero disables pacing.
	RateLimit float64
	RateBurst int

	// BreakerFailures opens the circuit after this many consecutive
	// transport or 5xx failures. Zero disables the breaker.
	BreakerFailures int
}

// Client is a Fetcher backed by go-retryablehttp. Retries are disabled
// unless Options.RetryMax is positive.
type Client struct {
	http    *retryablehttp.Client
	headers http.Header
	logger  core.Logger
	limiter *rate.Limiter
	breaker *gobreaker.CircuitBreaker
}

// New creates a Client.
func New(opts Options) *Client {
	client := retryablehttp.NewClient()
	client.RetryMax = max(opts.RetryMax, 0)
	client.RetryWaitMin = 200 * time.Millisecond
	client.RetryWaitMax = 2 * time.Second
	client.CheckRetry = checkRetry
	client.ErrorHandler = retryablehttp.PassthroughErrorHandler
	client.Logger = nil
	if opts.Logger != nil {
		client.Logger = opts.Logger
	}
	if opts.Timeout > 0 {
		client.HTTPClient.Timeout = opts.Timeout
	}

	headers := http.Header{}
	for k, v := range opts.Headers {
		headers.Set(k, v)
	}
	c := &Client{http: client, headers: headers, logger: opts.Logger}
	if opts.RateLimit > 0 {
		c.limiter = rate.NewLimiter(rate.Limit(opts.RateLimit), max(opts.RateBurst, 1))
	}
	if opts.BreakerFailures > 0 {
		c.breaker = newBreaker(opts.Name, opts.BreakerFailures, opts.Logger)
	}
	return c
}

// Get issues a GET with query merged into rawURL.
func (c *Client) Get(ctx context.Context, rawURL string, query url.Values) ([]byte, error) {
	target, err := withQuery(rawURL, query)
	if err != nil {
		return nil, err
	}
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("transport: build request: %w", err)
	}
	return c.do(req)
}

// PostForm issues a POST with an urlencoded body.
func (c *Client) PostForm(ctx context.Context, rawURL string, form url.Values) ([]byte, error) {
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost, rawURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("transport: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return c.do(req)
}

// PostJSON issues a POST with a JSON body.
func (c *Client) PostJSON(ctx context.Context, rawURL string, body []byte) ([]byte, error) {
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost, rawURL, body)
	if err != nil {
		return nil, fmt.Errorf("transport: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req)
}

// Open issues a GET and returns the body unread along with its declared
// length (-1 when unknown). The caller closes the body.
func (c *Client) Open(ctx context.Context, rawURL string) (io.ReadCloser, int64, error) {
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("transport: build request: %w", err)
	}
	resp, err := c.send(req)
	if err != nil {
		return nil, 0, err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer resp.Body.Close()
		return nil, 0, statusError(req, resp)
	}
	return resp.Body, resp.ContentLength, nil
}

func (c *Client) do(req *retryablehttp.Request) ([]byte, error) {
	resp, err := c.send(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, statusError(req, resp)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("transport: read %s: %w", req.URL.Redacted(), err)
	}
	if c.logger != nil {
		c.logger.Debug("http response", "method", req.Method, "url", req.URL.Redacted(), "status", resp.StatusCode, "bytes", len(body))
	}
	return body, nil
}

func (c *Client) send(req *retryablehttp.Request) (*http.Response, error) {
	for k, values := range c.headers {
		if req.Header.Get(k) != "" {
			continue
		}
		for _, v := range values {
			req.Header.Add(k, v)
		}
	}
	if c.limiter != nil {
		if err := c.limiter.Wait(req.Context()); err != nil {
			return nil, fmt.Errorf("transport: %s %s: %w", req.Method, req.URL.Redacted(), err)
		}
	}
	resp, err := c.execute(req)
	if err != nil {
		if resp != nil && resp.Body != nil {
			resp.Body.Close()
		}
		return nil, fmt.Errorf("transport: %s %s: %w", req.Method, req.URL.Redacted(), err)
	}
	return resp, nil
}

// checkRetry keeps the default retry decision but never turns a status code
// into an error, so exhausted retries still surface the response.
func checkRetry(ctx context.Context, resp *http.Response, err error) (bool, error) {
	if ctx.Err() != nil {
		return false, ctx.Err()
	}
	retry, _ := retryablehttp.DefaultRetryPolicy(ctx, resp, err)
	return retry, nil
}

func statusError(req *retryablehttp.Request, resp *http.Response) error {
	snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	return &StatusError{
		Method: req.Method,
		URL:    req.URL.Redacted(),
		Code:   resp.StatusCode,
		Body:   string(snippet),
	}
}

func withQuery(rawURL string, query url.Values) (string, error) {
	if len(query) == 0 {
		return rawURL, nil
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("transport: parse url: %w", err)
	}
	merged := u.Query()
	for k, values := range query {
		for _, v := range values {
			merged.Add(k, v)
		}
	}
	u.RawQuery = merged.Encode()
	return u.String(), nil
}
