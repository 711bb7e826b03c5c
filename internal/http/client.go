// Package http implements the authenticated request-execution engine: it
// turns a logical API call into an authenticated, retried, optionally
// cached HTTP exchange against a build service instance.
package http

import (
	"context"
	"errors"
	"fmt"
	"io"
	nethttp "net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/SUSE/osc-tiny/internal/auth"
	"github.com/SUSE/osc-tiny/internal/constants"
	"github.com/SUSE/osc-tiny/pkg/osc"
)

// Logger interface for logging.
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
}

// Request represents an API request. Headers stay mutable until the
// request is sent; the engine attaches authentication on top of them.
type Request struct {
	Method  string
	Path    string
	Query   url.Values
	Headers map[string]string
	// Body is a replayable request body, safe to resend on retry or
	// after a challenge round trip.
	Body []byte
	// RawBody streams an unseekable upload. It bypasses connection
	// retries because it cannot be replayed.
	RawBody io.Reader
	// Streaming marks the response as incrementally consumed by the
	// caller; such exchanges are never cached.
	Streaming bool
}

// Response represents an API response.
type Response struct {
	StatusCode int
	Headers    nethttp.Header
	// Body holds the fully received body of a buffered exchange.
	Body []byte
	// Stream is set instead of Body for streaming exchanges; the caller
	// must close it.
	Stream io.ReadCloser
}

// ContentLength returns the advertised body size, or -1 when unknown.
func (r *Response) ContentLength() int64 {
	length := r.Headers.Get("Content-Length")
	if length == "" {
		return -1
	}

	size, err := strconv.ParseInt(length, 10, 64)
	if err != nil {
		return -1
	}

	return size
}

// Client executes requests against one build service instance. It is safe
// for concurrent use; authentication state and the cache carry their own
// locking, everything else is call-local.
type Client struct {
	baseURL       string
	authenticator auth.Authenticator
	retry         *retryablehttp.Client
	cache         osc.Cache
	logger        Logger
	debug         bool
	userAgent     string
}

// Option configures the client.
type Option func(*Client)

// WithLogger sets a structured logger.
func WithLogger(logger Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithDebug enables request/response debug logging.
func WithDebug(debug bool) Option {
	return func(c *Client) {
		c.debug = debug
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(userAgent string) Option {
	return func(c *Client) {
		c.userAgent = userAgent
	}
}

// WithRetryConfig tunes the connection retry budget.
func WithRetryConfig(retryMax int, waitMin, waitMax time.Duration) Option {
	return func(c *Client) {
		c.retry.RetryMax = retryMax
		c.retry.RetryWaitMin = waitMin
		c.retry.RetryWaitMax = waitMax
	}
}

// WithCache attaches a response cache for read-only exchanges.
func WithCache(cache osc.Cache) Option {
	return func(c *Client) {
		c.cache = cache
	}
}

// WithTimeout bounds every non-streaming exchange.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.retry.HTTPClient.Timeout = timeout
	}
}

// NewClient creates a new build service HTTP client.
func NewClient(baseURL string, authenticator auth.Authenticator, opts ...Option) *Client {
	retry := retryablehttp.NewClient()
	retry.RetryMax = constants.DefaultRetryMax
	retry.RetryWaitMin = constants.DefaultRetryWaitMin
	retry.RetryWaitMax = constants.DefaultRetryWaitMax
	retry.Logger = nil
	retry.CheckRetry = connectionRetryPolicy
	retry.ErrorHandler = surfaceTransportError

	client := &Client{
		baseURL:       strings.TrimRight(baseURL, "/"),
		authenticator: authenticator,
		retry:         retry,
		userAgent:     constants.UserAgent,
	}

	for _, opt := range opts {
		opt(client)
	}

	return client
}

// connectionRetryPolicy retries only exchanges that failed before any
// response bytes arrived. Once the transport hands back a response, every
// status — including 5xx — is definitive for this layer and surfaced to
// the caller.
func connectionRetryPolicy(ctx context.Context, resp *nethttp.Response, err error) (bool, error) {
	if ctx.Err() != nil {
		return false, ctx.Err()
	}

	if err != nil {
		return true, nil
	}

	return false, nil
}

// surfaceTransportError converts an exhausted retry budget into a
// TransientConnectionError, keeping context cancellation recognizable.
func surfaceTransportError(resp *nethttp.Response, err error, numTries int) (*nethttp.Response, error) {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return nil, err
	}

	return nil, &osc.TransientConnectionError{Attempts: numTries, Err: err}
}

// Do executes a request. Side effects are strictly ordered: the cache is
// consulted before any network I/O, authentication happens before the
// send, and the cache is updated only after a 2xx body was fully
// received. A 401 after the send routes back through challenge
// negotiation exactly once per call.
func (c *Client) Do(ctx context.Context, req *Request) (*Response, error) {
	fingerprint := osc.Fingerprint(req.Method, req.Path, req.Query, req.Body)

	cacheable := c.cache != nil && !req.Streaming && req.Method == nethttp.MethodGet
	if cacheable {
		entry, err := c.cache.Get(ctx, fingerprint)
		if err == nil {
			c.logDebug("cache hit", map[string]interface{}{"method": req.Method, "path": req.Path})

			return &Response{
				StatusCode: entry.StatusCode,
				Headers:    entry.Headers.Clone(),
				Body:       entry.Body,
			}, nil
		}
	}

	httpResp, err := c.send(ctx, req, "")
	if err != nil {
		return nil, err
	}

	if httpResp.StatusCode == nethttp.StatusUnauthorized {
		httpResp, err = c.negotiate(ctx, req, httpResp)
		if err != nil {
			return nil, err
		}
	}

	if c.authenticator != nil {
		c.authenticator.Observe(httpResp)
	}

	if req.Streaming {
		return c.streamingResponse(httpResp)
	}

	defer func() { _ = httpResp.Body.Close() }()

	body, err := io.ReadAll(httpResp.Body)
	if err != nil {
		// The connection dropped after response headers arrived; this is
		// never retried.
		return nil, &osc.TransientConnectionError{
			Attempts: 1,
			Err:      fmt.Errorf("reading response body: %w", err),
		}
	}

	response := &Response{
		StatusCode: httpResp.StatusCode,
		Headers:    httpResp.Header,
		Body:       body,
	}

	if httpResp.StatusCode >= nethttp.StatusBadRequest {
		return response, &osc.ServerError{
			StatusCode: httpResp.StatusCode,
			Status:     httpResp.Status,
			Headers:    httpResp.Header,
			Body:       body,
		}
	}

	if cacheable && httpResp.StatusCode < nethttp.StatusMultipleChoices {
		_ = c.cache.Set(ctx, fingerprint, &osc.CacheEntry{
			StatusCode: response.StatusCode,
			Headers:    response.Headers.Clone(),
			Body:       response.Body,
		})
	}

	return response, nil
}

// negotiate answers a 401 challenge and resends the request once. A
// second 401 for the renegotiated request is a permanent authentication
// failure; the engine never signs twice for one logical call.
func (c *Client) negotiate(ctx context.Context, req *Request, challenged *nethttp.Response) (*nethttp.Response, error) {
	challenges := auth.ParseChallenges(challenged.Header)

	if c.authenticator != nil {
		c.authenticator.Observe(challenged)
	}

	drainAndClose(challenged.Body)

	if c.authenticator == nil || len(challenges) == 0 {
		return nil, &osc.AuthenticationError{
			Detail: "request rejected",
			Err:    osc.ErrNoChallenge,
		}
	}

	header, err := c.authenticator.HandleChallenge(ctx, challenges, req.Method, req.Path)
	if err != nil {
		return nil, err
	}

	resent, err := c.send(ctx, req, header)
	if err != nil {
		return nil, err
	}

	if resent.StatusCode == nethttp.StatusUnauthorized {
		if c.authenticator != nil {
			c.authenticator.Observe(resent)
		}

		drainAndClose(resent.Body)

		return nil, &osc.AuthenticationError{
			Realm:  challenges[0].Realm,
			Detail: "challenge response rejected",
		}
	}

	return resent, nil
}

// streamingResponse hands the body to the caller unconsumed. Error
// statuses are still materialized so the caller gets a full ServerError.
func (c *Client) streamingResponse(httpResp *nethttp.Response) (*Response, error) {
	if httpResp.StatusCode >= nethttp.StatusBadRequest {
		defer func() { _ = httpResp.Body.Close() }()

		body, _ := io.ReadAll(httpResp.Body)

		return &Response{
				StatusCode: httpResp.StatusCode,
				Headers:    httpResp.Header,
				Body:       body,
			}, &osc.ServerError{
				StatusCode: httpResp.StatusCode,
				Status:     httpResp.Status,
				Headers:    httpResp.Header,
				Body:       body,
			}
	}

	return &Response{
		StatusCode: httpResp.StatusCode,
		Headers:    httpResp.Header,
		Stream:     httpResp.Body,
	}, nil
}

// send performs one exchange through the retrying transport, or a single
// unretried attempt for unseekable streaming uploads.
func (c *Client) send(ctx context.Context, req *Request, authHeader string) (*nethttp.Response, error) {
	fullURL := c.buildURL(req.Path, req.Query)

	start := time.Now()

	c.logDebug("HTTP Request", map[string]interface{}{
		"method": req.Method,
		"url":    fullURL,
	})

	var (
		httpResp *nethttp.Response
		err      error
	)

	if req.RawBody != nil {
		httpResp, err = c.sendOnce(ctx, req, fullURL, authHeader)
	} else {
		httpResp, err = c.sendRetrying(ctx, req, fullURL, authHeader)
	}

	if err != nil {
		return nil, err
	}

	c.logDebug("HTTP Response", map[string]interface{}{
		"method":   req.Method,
		"url":      fullURL,
		"status":   httpResp.StatusCode,
		"duration": time.Since(start).String(),
	})

	return httpResp, nil
}

// sendRetrying executes a replayable request through the retrying
// transport.
func (c *Client) sendRetrying(ctx context.Context, req *Request, fullURL, authHeader string) (*nethttp.Response, error) {
	var body interface{}
	if len(req.Body) > 0 {
		body = req.Body
	}

	retryReq, err := retryablehttp.NewRequestWithContext(ctx, req.Method, fullURL, body)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}

	err = c.decorate(ctx, retryReq.Request, req, authHeader)
	if err != nil {
		return nil, err
	}

	return c.retry.Do(retryReq)
}

// sendOnce executes a streaming upload exactly once; its body cannot be
// replayed.
func (c *Client) sendOnce(ctx context.Context, req *Request, fullURL, authHeader string) (*nethttp.Response, error) {
	httpReq, err := nethttp.NewRequestWithContext(ctx, req.Method, fullURL, req.RawBody)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}

	err = c.decorate(ctx, httpReq, req, authHeader)
	if err != nil {
		return nil, err
	}

	httpResp, err := c.retry.HTTPClient.Do(httpReq)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}

		return nil, &osc.TransientConnectionError{Attempts: 1, Err: err}
	}

	return httpResp, nil
}

// decorate applies wire headers, caller headers and authentication to the
// outgoing request.
func (c *Client) decorate(ctx context.Context, httpReq *nethttp.Request, req *Request, authHeader string) error {
	httpReq.Header.Set("Content-Type", constants.ContentTypeOctetStream)
	httpReq.Header.Set("Accept", constants.AcceptXML)
	httpReq.Header.Set("User-Agent", c.userAgent)

	for key, value := range req.Headers {
		httpReq.Header.Set(key, value)
	}

	if c.authenticator != nil {
		err := c.authenticator.Authorize(ctx, httpReq)
		if err != nil {
			return fmt.Errorf("authorizing request: %w", err)
		}
	}

	if authHeader != "" {
		httpReq.Header.Set("Authorization", authHeader)
	}

	return nil
}

// buildURL joins the base URL, path and encoded query. Query encoding
// sorts parameters, so the URL is stable for identical logical requests.
func (c *Client) buildURL(path string, query url.Values) string {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	fullURL := c.baseURL + path

	if encoded := query.Encode(); encoded != "" {
		fullURL += "?" + encoded
	}

	return fullURL
}

// drainAndClose releases a response body so the connection can be reused.
func drainAndClose(body io.ReadCloser) {
	if body == nil {
		return
	}

	_, _ = io.Copy(io.Discard, io.LimitReader(body, 4096))
	_ = body.Close()
}

func (c *Client) logDebug(msg string, fields map[string]interface{}) {
	if c.logger != nil && c.debug {
		c.logger.Debug(msg, fields)
	}
}

// Convenience methods mirroring the common HTTP verbs.

// Get performs a GET request.
func (c *Client) Get(ctx context.Context, path string, query url.Values) (*Response, error) {
	return c.Do(ctx, &Request{Method: nethttp.MethodGet, Path: path, Query: query})
}

// GetStream performs a GET request whose response body is consumed
// incrementally by the caller.
func (c *Client) GetStream(ctx context.Context, path string, query url.Values) (*Response, error) {
	return c.Do(ctx, &Request{Method: nethttp.MethodGet, Path: path, Query: query, Streaming: true})
}

// Post performs a POST request.
func (c *Client) Post(ctx context.Context, path string, query url.Values, body []byte) (*Response, error) {
	return c.Do(ctx, &Request{Method: nethttp.MethodPost, Path: path, Query: query, Body: body})
}

// Put performs a PUT request.
func (c *Client) Put(ctx context.Context, path string, query url.Values, body []byte) (*Response, error) {
	return c.Do(ctx, &Request{Method: nethttp.MethodPut, Path: path, Query: query, Body: body})
}

// Delete performs a DELETE request.
func (c *Client) Delete(ctx context.Context, path string, query url.Values) (*Response, error) {
	return c.Do(ctx, &Request{Method: nethttp.MethodDelete, Path: path, Query: query})
}
