// apiclient/client.go
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/finbourne/identity-sdk-go/headers/redact"
	"github.com/finbourne/identity-sdk-go/logger"
	"github.com/finbourne/identity-sdk-go/response"
	"github.com/finbourne/identity-sdk-go/status"
	"github.com/finbourne/identity-sdk-go/version"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	AuthorizationHeader = "Authorization"
	RequestIDHeader     = "X-Request-Id"
)

// Client is the default Handle implementation, backed by an *http.Client.
type Client struct {
	basePath          string
	httpClient        *http.Client
	hideSensitiveData bool
	Logger            logger.Logger

	headerLock     sync.RWMutex
	defaultHeaders http.Header
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithLogger sets the logger used for dispatch diagnostics.
func WithLogger(log logger.Logger) ClientOption {
	return func(c *Client) {
		c.Logger = log
	}
}

// WithHideSensitiveData redacts credentials from logged headers.
func WithHideSensitiveData(hide bool) ClientOption {
	return func(c *Client) {
		c.hideSensitiveData = hide
	}
}

// NewClient creates a Client for the identity API rooted at basePath.
func NewClient(basePath string, httpClient *http.Client, opts ...ClientOption) *Client {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	c := &Client{
		basePath:       strings.TrimRight(basePath, "/"),
		httpClient:     httpClient,
		Logger:         logger.NewNopLogger(),
		defaultHeaders: http.Header{},
	}
	c.defaultHeaders.Set("User-Agent", version.GetUserAgentHeader())
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BasePath returns the root URL of the identity API.
func (c *Client) BasePath() string {
	return c.basePath
}

// HTTPClient returns the underlying transport client.
func (c *Client) HTTPClient() *http.Client {
	return c.httpClient
}

// AddDefaultHeader sets a header sent with every call. Last writer wins.
func (c *Client) AddDefaultHeader(key, value string) {
	c.headerLock.Lock()
	defer c.headerLock.Unlock()
	c.defaultHeaders.Set(key, value)
}

// DefaultHeader returns the current value of a default header.
func (c *Client) DefaultHeader(key string) string {
	c.headerLock.RLock()
	defer c.headerLock.RUnlock()
	return c.defaultHeaders.Get(key)
}

// Dispatch builds the HTTP request for call, sends it and returns the 2xx response. The caller
// closes the response body.
func (c *Client) Dispatch(ctx context.Context, call *Call) (*http.Response, error) {
	resp, err := c.dispatch(ctx, call)
	if call.Callback != nil {
		call.Callback(resp, err)
	}
	return resp, err
}

func (c *Client) dispatch(ctx context.Context, call *Call) (*http.Response, error) {
	req, err := c.buildRequest(ctx, call)
	if err != nil {
		return nil, response.NewClientError("failed to build request", err)
	}

	log := c.Logger.With(
		zap.String("method", req.Method),
		zap.String("url", req.URL.String()),
		zap.String("request_id", req.Header.Get(RequestIDHeader)),
	)
	log.Debug("Dispatching identity API call", zap.Any("headers", redact.RedactHeaders(c.hideSensitiveData, req.Header)))

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", req.Method, req.URL.Redacted(), err)
	}

	log.Debug("Identity API call completed", zap.Int("status_code", resp.StatusCode), zap.Duration("duration", time.Since(start)))

	if !status.IsSuccessStatusCode(resp.StatusCode) {
		return nil, response.HandleAPIErrorResponse(resp)
	}
	return resp, nil
}

func (c *Client) buildRequest(ctx context.Context, call *Call) (*http.Request, error) {
	target, err := url.Parse(c.basePath + call.Path)
	if err != nil {
		return nil, err
	}

	query := target.Query()
	for _, p := range call.QueryParams {
		query.Add(p.Name, p.Value)
	}
	for _, p := range call.CollectionQueryParams {
		query.Add(p.Name, p.Value)
	}
	target.RawQuery = query.Encode()

	body, contentType, err := encodeBody(call)
	if err != nil {
		return nil, err
	}

	method := call.Method
	if method == "" {
		method = http.MethodGet
	}
	req, err := http.NewRequestWithContext(ctx, method, target.String(), body)
	if err != nil {
		return nil, err
	}

	c.headerLock.RLock()
	for key, values := range c.defaultHeaders {
		if key == AuthorizationHeader && len(call.AuthNames) == 0 {
			continue
		}
		req.Header[key] = append([]string(nil), values...)
	}
	c.headerLock.RUnlock()

	for key, value := range call.HeaderParams {
		req.Header.Set(key, value)
	}
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if req.Header.Get(RequestIDHeader) == "" {
		req.Header.Set(RequestIDHeader, uuid.NewString())
	}
	for name, value := range call.CookieParams {
		req.AddCookie(&http.Cookie{Name: name, Value: value})
	}

	return req, nil
}

// encodeBody renders the call body as JSON, or the form parameters as a URL-encoded form.
func encodeBody(call *Call) (io.Reader, string, error) {
	if call.Body != nil {
		payload, err := json.Marshal(call.Body)
		if err != nil {
			return nil, "", fmt.Errorf("failed to marshal request body: %w", err)
		}
		return bytes.NewReader(payload), "application/json", nil
	}
	if len(call.FormParams) > 0 {
		form := url.Values{}
		for key, value := range call.FormParams {
			form.Set(key, fmt.Sprint(value))
		}
		return strings.NewReader(form.Encode()), "application/x-www-form-urlencoded", nil
	}
	return nil, "", nil
}

// DecodeJSON decodes a JSON response body into out and closes the body.
func DecodeJSON(resp *http.Response, out any) error {
	defer resp.Body.Close()
	if out == nil {
		_, err := io.Copy(io.Discard, resp.Body)
		return err
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response body: %w", err)
	}
	return nil
}
