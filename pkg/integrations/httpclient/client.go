package httpclient

import (
	"bytes"
	"context"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"go.uber.org/zap"

	"github.com/redhat-appstudio/ops-flow/pkg/integrations"
)

// Client executes adapter requests with bounded retry and classifies every
// failure into the integration error taxonomy.
type Client struct {
	httpClient *http.Client
	policy     *RetryPolicy
	logger     *zap.Logger
	maxBody    int64
	wait       func(ctx context.Context, d time.Duration) error
}

// Option configures a Client.
type Option func(*Client)

// WithPolicy replaces the default retry policy.
func WithPolicy(policy *RetryPolicy) Option {
	return func(c *Client) {
		if policy != nil {
			c.policy = policy
		}
	}
}

// WithLogger sets the logger used for request and retry diagnostics.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithHTTPClient replaces the underlying transport client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		if httpClient != nil {
			c.httpClient = httpClient
		}
	}
}

// WithMaxResponseBytes caps the size of a successful response body.
func WithMaxResponseBytes(n int64) Option {
	return func(c *Client) {
		if n > 0 {
			c.maxBody = n
		}
	}
}

// WithTimeouts sets the connect and per-attempt request timeouts.
func WithTimeouts(connect, request time.Duration) Option {
	return func(c *Client) {
		c.httpClient = newHTTPClient(connect, request)
	}
}

// New creates a Client with a 10s connect timeout, a 30s request timeout and
// the default retry policy.
func New(opts ...Option) *Client {
	c := &Client{
		httpClient: newHTTPClient(DefaultConnectTimeout, DefaultRequestTimeout),
		policy:     NewRetryPolicy(),
		logger:     zap.NewNop(),
		maxBody:    MaxResponseBytes,
		wait:       sleepContext,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func newHTTPClient(connect, request time.Duration) *http.Client {
	if connect <= 0 {
		connect = DefaultConnectTimeout
	}
	if request <= 0 {
		request = DefaultRequestTimeout
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.DialContext = (&net.Dialer{
		Timeout:   connect,
		KeepAlive: 30 * time.Second,
	}).DialContext
	transport.TLSHandshakeTimeout = connect

	return &http.Client{
		Transport: transport,
		Timeout:   request,
	}
}

// Response is a fully buffered HTTP response with a 2xx status.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
	URL        string
}

// Do executes req with the retry policy. Transport failures and 408/5xx
// responses are retried; other statuses return immediately. A request whose
// body cannot be replayed is sent exactly once.
func (c *Client) Do(req *http.Request) (*Response, error) {
	ctx := req.Context()
	target := req.URL.String()

	if !replayable(req) {
		c.logger.Debug("Executing non-replayable request once", zap.String("method", req.Method), zap.String("url", target))
		resp, _, err := c.attempt(req)
		if err != nil {
			return nil, err
		}
		return resp, nil
	}

	var lastErr *integrations.Error
	for attempt := 0; attempt <= c.policy.MaxRetries; attempt++ {
		if attempt > 0 {
			backoff := c.policy.Backoff(attempt - 1)
			c.logger.Warn("Retrying request",
				zap.String("method", req.Method),
				zap.String("url", target),
				zap.Int("attempt", attempt+1),
				zap.Duration("backoff", backoff),
				zap.String("last_error", lastErr.Error()))
			if err := c.wait(ctx, backoff); err != nil {
				return nil, integrations.FromTransportError(err)
			}
		}

		attemptReq, err := cloneForAttempt(req, attempt)
		if err != nil {
			return nil, integrations.ConfigError("Failed to prepare request body: %v", err)
		}

		resp, retry, aerr := c.attempt(attemptReq)
		if aerr == nil {
			return resp, nil
		}
		if !retry || ctx.Err() != nil {
			return nil, aerr
		}
		lastErr = aerr
	}

	c.logger.Warn("All retry attempts exhausted",
		zap.String("method", req.Method),
		zap.String("url", target),
		zap.Int("max_retries", c.policy.MaxRetries))

	if lastErr == nil {
		return nil, integrations.NetworkError(ErrRetriesExhausted)
	}
	return nil, lastErr
}

// attempt sends one request and reports whether a failure may be retried.
func (c *Client) attempt(req *http.Request) (*Response, bool, *integrations.Error) {
	c.logger.Debug("HTTP request", zap.String("method", req.Method), zap.String("url", req.URL.String()))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		classified := integrations.FromTransportError(err)
		c.logger.Warn("HTTP transport error", zap.String("url", req.URL.String()), zap.Error(err))
		return nil, isRetryableError(err), classified
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBody+1))
	if err != nil {
		c.logger.Warn(ErrReadBody, zap.String("url", req.URL.String()), zap.Error(err))
		if integrations.IsTimeout(err) {
			return nil, true, integrations.NetworkError("Request timed out")
		}
		return nil, isRetryableError(err), integrations.NetworkError("%s: %v", ErrReadBody, err)
	}

	oversized := int64(len(body)) > c.maxBody
	if oversized {
		body = body[:c.maxBody]
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		if oversized {
			c.logger.Warn(ErrResponseTooLarge, zap.String("url", req.URL.String()), zap.Int64("limit", c.maxBody))
			return nil, false, integrations.ConfigError("%s (limit %d bytes)", ErrResponseTooLarge, c.maxBody)
		}
		return &Response{
			StatusCode: resp.StatusCode,
			Header:     resp.Header,
			Body:       body,
			URL:        req.URL.String(),
		}, false, nil
	}

	classified := integrations.StatusToError(resp.StatusCode, integrations.Snippet(body, 500))
	if c.policy.RetryableStatus(resp.StatusCode) {
		c.logger.Warn("Server error response",
			zap.String("url", req.URL.String()),
			zap.Int("status", resp.StatusCode))
		return nil, true, classified
	}

	c.logger.Debug("Non-retryable response status",
		zap.String("url", req.URL.String()),
		zap.Int("status", resp.StatusCode))
	return nil, false, classified
}

func replayable(req *http.Request) bool {
	return req.Body == nil || req.Body == http.NoBody || req.GetBody != nil
}

func cloneForAttempt(req *http.Request, attempt int) (*http.Request, error) {
	if attempt == 0 {
		return req, nil
	}
	clone := req.Clone(req.Context())
	if req.GetBody != nil {
		body, err := req.GetBody()
		if err != nil {
			return nil, err
		}
		clone.Body = body
	}
	return clone, nil
}

// DecodeJSON decodes the buffered body into v, reporting failures as
// ConfigError with a snippet of the body.
func (r *Response) DecodeJSON(v interface{}) error {
	if err := json.Unmarshal(r.Body, v); err != nil {
		return integrations.ParseError(err, r.Body)
	}
	return nil
}

// IsEmpty reports whether the body has no non-whitespace content.
func (r *Response) IsEmpty() bool {
	return len(bytes.TrimSpace(r.Body)) == 0
}

// LooksLikeHTML reports whether the body is an HTML page rather than an API
// document, based on the content type or the leading markup.
func (r *Response) LooksLikeHTML() bool {
	if strings.Contains(strings.ToLower(r.Header.Get("Content-Type")), "text/html") {
		return true
	}
	head := strings.ToLower(string(bytes.TrimSpace(r.Body)))
	if len(head) > 64 {
		head = head[:64]
	}
	return strings.HasPrefix(head, "<!doctype html") || strings.HasPrefix(head, "<html")
}

// NewJSONRequest builds a request whose JSON body can be replayed on retry.
func NewJSONRequest(ctx context.Context, method, url string, payload interface{}) (*http.Request, error) {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, integrations.ConfigError("Failed to encode request body: %v", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, integrations.ConfigError("Invalid request URL %s: %v", url, err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req, nil
}
