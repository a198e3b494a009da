package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/dmitrymomot/focusdeck/pkg/storage"
)

// RequestInterceptor may add to or modify an outgoing request. Returning an
// error aborts the call before the transport runs.
type RequestInterceptor func(ctx context.Context, req *http.Request) error

// ResponseInterceptor inspects an incoming response before body parsing.
// The body has already been read into memory; resp.Body re-reads it.
type ResponseInterceptor func(ctx context.Context, resp *http.Response) error

// ErrorHandler observes a normalized failure. Handlers may have side effects
// but cannot recover the call: the pipeline rethrows after the chain runs.
type ErrorHandler func(ctx context.Context, req *http.Request, apiErr *APIError)

// Client wraps an *http.Client with the interceptor chains. Use New to get a
// client with the default auth interceptors installed.
type Client struct {
	baseURL     string
	http        *http.Client
	log         *slog.Logger
	onRequest   []RequestInterceptor
	onResponse  []ResponseInterceptor
	onError     []ErrorHandler
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying transport client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithLogger sets the logger used for request debug logging.
func WithLogger(log *slog.Logger) Option {
	return func(c *Client) {
		if log != nil {
			c.log = log
		}
	}
}

// WithRequestInterceptor appends request interceptors; they run in
// registration order after the defaults.
func WithRequestInterceptor(ics ...RequestInterceptor) Option {
	return func(c *Client) {
		c.onRequest = append(c.onRequest, ics...)
	}
}

// WithResponseInterceptor appends response interceptors.
func WithResponseInterceptor(ics ...ResponseInterceptor) Option {
	return func(c *Client) {
		c.onResponse = append(c.onResponse, ics...)
	}
}

// WithErrorHandler appends error handlers.
func WithErrorHandler(hs ...ErrorHandler) Option {
	return func(c *Client) {
		c.onError = append(c.onError, hs...)
	}
}

// New creates a pipeline client. When cookies is non-nil the default chain
// is installed: cookie attachment, CSRF header, request id, Set-Cookie
// capture, and the 401/403 unauthorized signal.
func New(cfg Config, cookies storage.CookieStore, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		http:    &http.Client{Timeout: cfg.Timeout},
		log:     slog.Default(),
	}

	if cookies != nil {
		c.onRequest = append(c.onRequest,
			AttachCookies(cookies),
			CSRFHeader(cookies),
			RequestID(),
		)
		c.onResponse = append(c.onResponse,
			CaptureCookies(cookies),
			UnauthorizedSignal(),
		)
	}

	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Do performs one API call. A non-nil body is JSON-encoded; a non-nil out is
// filled from a 2xx JSON response (or, for *string, from any 2xx body).
// Every failure is reported as *APIError.
func (c *Client) Do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return &APIError{Message: "encode request body: " + err.Error(), Path: path}
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return &APIError{Message: "build request: " + err.Error(), Path: path}
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	for _, ic := range c.onRequest {
		if err := ic(ctx, req); err != nil {
			return &APIError{Message: "request interceptor: " + err.Error(), Path: path}
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Debug("request transport failure",
			slog.String("method", method),
			slog.String("path", path),
			slog.Any("error", err))
		return &APIError{Message: "network error, please retry: " + err.Error(), Path: path}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return &APIError{Message: "read response body: " + err.Error(), Path: path}
	}
	// Interceptors and later parsing both need the body; rewind it.
	resp.Body = io.NopCloser(bytes.NewReader(data))

	for _, ic := range c.onResponse {
		if err := ic(ctx, resp); err != nil {
			return &APIError{Status: resp.StatusCode, Message: "response interceptor: " + err.Error(), Path: path}
		}
		resp.Body = io.NopCloser(bytes.NewReader(data))
	}

	c.log.Debug("request completed",
		slog.String("method", method),
		slog.String("path", path),
		slog.Int("status", resp.StatusCode))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := parseAPIError(resp, data)
		apiErr.Path = path
		for _, h := range c.onError {
			h(ctx, req, apiErr)
		}
		return apiErr
	}

	if out == nil || len(data) == 0 {
		return nil
	}
	if s, ok := out.(*string); ok && !isJSON(resp) {
		*s = string(data)
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return &APIError{Status: resp.StatusCode, Message: "decode response body: " + err.Error(), Path: path}
	}
	return nil
}

// Get issues a GET request.
func (c *Client) Get(ctx context.Context, path string, out any) error {
	return c.Do(ctx, http.MethodGet, path, nil, out)
}

// Post issues a POST request.
func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	return c.Do(ctx, http.MethodPost, path, body, out)
}

// Patch issues a PATCH request.
func (c *Client) Patch(ctx context.Context, path string, body, out any) error {
	return c.Do(ctx, http.MethodPatch, path, body, out)
}

// Delete issues a DELETE request.
func (c *Client) Delete(ctx context.Context, path string) error {
	return c.Do(ctx, http.MethodDelete, path, nil, nil)
}

func isJSON(resp *http.Response) bool {
	return strings.Contains(resp.Header.Get("Content-Type"), "application/json")
}

// errorBody is the wire shape backend failures arrive in. Both "message"
// and "error" are accepted for the human-readable part.
type errorBody struct {
	Message string            `json:"message"`
	Err     string            `json:"error"`
	Errors  map[string]string `json:"errors"`
}

func parseAPIError(resp *http.Response, data []byte) *APIError {
	apiErr := &APIError{Status: resp.StatusCode}

	if isJSON(resp) && len(data) > 0 {
		var parsed errorBody
		if err := json.Unmarshal(data, &parsed); err == nil {
			switch {
			case parsed.Message != "":
				apiErr.Message = parsed.Message
			case parsed.Err != "":
				apiErr.Message = parsed.Err
			}
			apiErr.FieldErrors = parsed.Errors
		}
	}
	if apiErr.Message == "" {
		apiErr.Message = http.StatusText(resp.StatusCode)
	}
	return apiErr
}
