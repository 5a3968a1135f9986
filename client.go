package netbird

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
)

// Client is an HTTP client for the NetBird management API. It handles
// authentication, endpoint normalization, retries with exponential backoff
// and the mapping of error responses to the typed errors in this package.
//
// The underlying transport is created lazily on the first request and is
// safe for concurrent use; pooled connections are released by [Client.Close].
type Client struct {
	baseURL string
	options *Options

	mu   sync.Mutex
	http *resty.Client
}

// RequestParams carries the optional parts of a request.
type RequestParams struct {
	Query   url.Values
	Body    any
	Headers map[string]string
}

// New creates a client for the API at baseURL. Configuration is supplied as
// [Option] functions; invalid option values are ignored and the defaults
// retained.
func New(baseURL string, opts ...Option) *Client {
	options := newClientOptions()
	for _, opt := range opts {
		opt(options)
	}

	return &Client{
		baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		options: options,
	}
}

// transport returns the resty client, creating it on first use.
func (c *Client) transport() (*resty.Client, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.http != nil {
		return c.http, nil
	}

	if c.baseURL == "" {
		return nil, NewConfigurationError("base URL must be set")
	}

	if err := c.options.validate(); err != nil {
		return nil, err
	}

	transport := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		MaxIdleConns:        c.options.poolMaxSize,
		MaxIdleConnsPerHost: c.options.poolSize,
		IdleConnTimeout:     90 * time.Second,
	}
	if !c.options.verifySSL {
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true}
	}

	client := resty.New().
		SetTransport(transport).
		SetBaseURL(c.baseURL).
		SetTimeout(c.options.timeout).
		SetHeaders(c.options.requestHeaders).
		SetHeader("User-Agent", c.options.userAgent).
		SetRetryCount(0)

	if c.options.authToken != "" {
		client.SetAuthScheme(c.options.authScheme)
		client.SetAuthToken(c.options.authToken)
	}

	c.http = client
	return c.http, nil
}

// Request executes one logical API call. The endpoint is normalized with
// [FormatEndpoint]; transport-level failures are retried up to the configured
// retry count with exponential backoff, while classified API errors
// propagate immediately. A successful JSON response returns the raw body;
// a successful response without a JSON body returns nil.
func (c *Client) Request(ctx context.Context, method, endpoint string, params *RequestParams) (json.RawMessage, error) {
	client, err := c.transport()
	if err != nil {
		return nil, err
	}

	path := FormatEndpoint(endpoint)

	var lastErr error
	for attempt := 0; attempt <= c.options.retryCount; attempt++ {
		if attempt > 0 {
			delay := backoffDelay(c.options.retryDelay, c.options.backoffFactor, attempt-1)
			c.options.requestLogger.Warnf("request failed (attempt %d), retrying in %s: %v", attempt, delay, lastErr)
			if err := sleepContext(ctx, delay); err != nil {
				return nil, err
			}
		}

		result, err := c.do(ctx, client, method, path, params)
		if err == nil {
			return result, nil
		}
		if !c.options.retryPolicy(err) {
			return nil, err
		}

		lastErr = err
		if ctx.Err() != nil {
			break
		}
	}

	c.options.requestLogger.Errorf("request failed after %d attempts: %v", c.options.retryCount+1, lastErr)
	return nil, lastErr
}

// do performs a single request attempt without retry logic.
func (c *Client) do(ctx context.Context, client *resty.Client, method, path string, params *RequestParams) (json.RawMessage, error) {
	req := client.R().
		SetContext(ctx).
		SetHeader("X-Request-Id", uuid.NewString())

	if params != nil {
		if len(params.Query) > 0 {
			req.SetQueryParamsFromValues(params.Query)
		}
		if params.Body != nil {
			req.SetBody(params.Body)
		}
		if len(params.Headers) > 0 {
			req.SetHeaders(params.Headers)
		}
	}

	c.options.requestLogger.Debugf("%s %s", method, path)

	resp, err := req.Execute(strings.ToUpper(method), path)
	if err != nil {
		return nil, c.classifyTransportError(method, path, err)
	}

	return c.processResponse(resp)
}

// classifyTransportError wraps a transport failure as a TimeoutError or
// NetworkError so the retry policy can recognize it as transient.
func (c *Client) classifyTransportError(method, path string, err error) error {
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		c.options.requestLogger.Errorf("request timeout: %v", err)
		return &TimeoutError{
			APIError: APIError{Message: fmt.Sprintf("request timed out after %s", c.options.timeout)},
			Err:   err,
		}
	}

	c.options.requestLogger.Errorf("network error: %v", err)
	return &NetworkError{
		APIError: APIError{Message: fmt.Sprintf("%s %s failed: %v", strings.ToUpper(method), path, err)},
		Err:   err,
	}
}

// processResponse classifies a completed HTTP exchange.
func (c *Client) processResponse(resp *resty.Response) (json.RawMessage, error) {
	status := resp.StatusCode()
	c.options.requestLogger.Debugf("response status %d from %s", status, resp.Request.URL)

	if status >= 200 && status < 300 {
		contentType := strings.ToLower(resp.Header().Get("Content-Type"))
		if !strings.HasPrefix(contentType, "application/json") {
			return nil, nil
		}

		body := bytes.TrimSpace(resp.Body())
		if len(body) == 0 {
			return nil, nil
		}

		var decoded any
		if err := json.Unmarshal(body, &decoded); err != nil {
			return nil, &Error{
				Message:    fmt.Sprintf("invalid JSON response: %v", err),
				StatusCode: status,
			}
		}
		c.options.requestLogger.Debugf("response data: %v", MaskSensitive(decoded, 4))

		return json.RawMessage(body), nil
	}

	err := Classify(status, resp.Body(), resp.Header())
	c.options.requestLogger.Errorf("API error %d: %v", status, err)
	return nil, err
}

// Get makes a GET request.
func (c *Client) Get(ctx context.Context, endpoint string, query url.Values) (json.RawMessage, error) {
	return c.Request(ctx, http.MethodGet, endpoint, &RequestParams{Query: query})
}

// Post makes a POST request with a JSON body.
func (c *Client) Post(ctx context.Context, endpoint string, body any) (json.RawMessage, error) {
	return c.Request(ctx, http.MethodPost, endpoint, &RequestParams{Body: body})
}

// Put makes a PUT request with a JSON body.
func (c *Client) Put(ctx context.Context, endpoint string, body any) (json.RawMessage, error) {
	return c.Request(ctx, http.MethodPut, endpoint, &RequestParams{Body: body})
}

// Patch makes a PATCH request with a JSON body.
func (c *Client) Patch(ctx context.Context, endpoint string, body any) (json.RawMessage, error) {
	return c.Request(ctx, http.MethodPatch, endpoint, &RequestParams{Body: body})
}

// Delete makes a DELETE request.
func (c *Client) Delete(ctx context.Context, endpoint string) (json.RawMessage, error) {
	return c.Request(ctx, http.MethodDelete, endpoint, nil)
}

// Close releases pooled connections held by the transport. It is safe to
// call multiple times; a request issued after Close recreates the transport.
func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.http == nil {
		return
	}

	c.http.GetClient().CloseIdleConnections()
	c.http = nil
}
