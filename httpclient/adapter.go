package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"

	"github.com/faithfulcoronel/stewardtrack-sub004/httpclient/sse"
	"github.com/faithfulcoronel/stewardtrack-sub004/resilience"
)

// Adapter is the HTTP transport the sync layer rides on. It folds
// auth, TLS, and the resilience stack (retry, circuit breaker, rate
// limiter) into one client so callers deal only in Request/Response
// and typed errors.
//
// The zero Config gives a plain client; each resilience concern is
// wired only when its config is non-nil.
type Adapter struct {
	httpClient *http.Client
	config     Config
	cb         *resilience.CircuitBreaker
	rl         *resilience.RateLimiter
}

// New builds an Adapter from cfg. Options apply after construction
// and may replace the underlying client or transport.
func New(cfg Config, opts ...Option) (*Adapter, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	if cfg.TLS != nil {
		tlsCfg, err := cfg.TLS.Build()
		if err != nil {
			return nil, err
		}
		if tlsCfg != nil {
			transport.TLSClientConfig = tlsCfg
		}
	}

	a := &Adapter{
		httpClient: &http.Client{
			Transport: transport,
			Timeout:   cfg.Timeout,
		},
		config: cfg,
	}

	if cfg.CircuitBreaker != nil {
		a.cb = resilience.NewCircuitBreaker(*cfg.CircuitBreaker)
	}
	if cfg.RateLimiter != nil {
		a.rl = resilience.NewRateLimiter(*cfg.RateLimiter)
	}

	for _, opt := range opts {
		opt(a)
	}
	return a, nil
}

// Do executes req and returns the buffered response. Non-2xx statuses
// come back as a typed *Error alongside the response, so callers can
// inspect both. With Retry configured, retryable failures re-run the
// whole attempt.
func (a *Adapter) Do(ctx context.Context, req Request) (*Response, error) {
	if a.config.Retry != nil {
		return resilience.Retry(ctx, *a.config.Retry, func() (*Response, error) {
			return a.attempt(ctx, req)
		})
	}
	return a.attempt(ctx, req)
}

// DoStream executes req and hands back the live body instead of
// buffering it. The caller owns the stream and must Close it. Retry
// does not apply; a broken stream cannot be transparently resumed.
func (a *Adapter) DoStream(ctx context.Context, req Request) (*StreamResponse, error) {
	httpReq, err := a.newHTTPRequest(ctx, req)
	if err != nil {
		return nil, err
	}

	// No global timeout on streams; the context bounds their lifetime.
	streamClient := &http.Client{Transport: a.httpClient.Transport}

	resp, err := streamClient.Do(httpReq)
	if err != nil {
		if ctx.Err() != nil {
			return nil, NewTimeoutError(err)
		}
		return nil, NewConnectionError(err)
	}

	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(resp.Body)
		_ = resp.Body.Close()
		return nil, ClassifyStatusCode(resp.StatusCode, body)
	}

	out := &StreamResponse{
		StatusCode: resp.StatusCode,
		Headers:    headerMap(resp.Header),
		rawResp:    resp,
	}
	if isEventStream(resp.Header.Get("Content-Type")) {
		out.SSE = sse.NewReader(resp.Body)
	} else {
		out.Body = resp.Body
	}
	return out, nil
}

func isEventStream(contentType string) bool {
	mt, _, err := mime.ParseMediaType(contentType)
	return err == nil && mt == "text/event-stream"
}

// Unwrap exposes the underlying *http.Client for hosts that need the
// raw surface.
func (a *Adapter) Unwrap() *http.Client {
	return a.httpClient
}

// IsAvailable reports whether the adapter would currently accept a
// request. False only while the circuit breaker is open.
func (a *Adapter) IsAvailable(_ context.Context) bool {
	if a.cb != nil {
		return a.cb.State() != resilience.StateOpen
	}
	return true
}

// Close releases pooled connections.
func (a *Adapter) Close(_ context.Context) error {
	a.httpClient.CloseIdleConnections()
	return nil
}

// attempt runs one request pass under the rate limiter and circuit
// breaker. Retry wraps around it, so every retry waits its turn and
// counts against the breaker.
func (a *Adapter) attempt(ctx context.Context, req Request) (*Response, error) {
	if a.rl != nil {
		if err := a.rl.Wait(ctx); err != nil {
			return nil, err
		}
	}
	if a.cb == nil {
		return a.roundTrip(ctx, req)
	}

	var resp *Response
	err := a.cb.Execute(func() error {
		var rtErr error
		resp, rtErr = a.roundTrip(ctx, req)
		return rtErr
	})
	return resp, err
}

// roundTrip sends the request, buffers the body, and classifies the
// status code.
func (a *Adapter) roundTrip(ctx context.Context, req Request) (*Response, error) {
	httpReq, err := a.newHTTPRequest(ctx, req)
	if err != nil {
		return nil, err
	}

	resp, err := a.httpClient.Do(httpReq)
	if err != nil {
		if ctx.Err() != nil {
			return nil, NewTimeoutError(err)
		}
		return nil, NewConnectionError(err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, NewConnectionError(fmt.Errorf("read response body: %w", err))
	}

	result := &Response{
		StatusCode: resp.StatusCode,
		Headers:    headerMap(resp.Header),
		Body:       body,
	}
	if classErr := ClassifyStatusCode(resp.StatusCode, body); classErr != nil {
		return result, classErr
	}
	return result, nil
}

// newHTTPRequest assembles the *http.Request: URL resolution against
// BaseURL, body encoding, headers (request-level wins), and auth
// (request-level wins).
func (a *Adapter) newHTTPRequest(ctx context.Context, req Request) (*http.Request, error) {
	body, contentType, err := encodeBody(req.Body)
	if err != nil {
		return nil, NewValidationError(fmt.Sprintf("encode body: %v", err))
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, a.resolveURL(req.Path), body)
	if err != nil {
		return nil, NewValidationError(fmt.Sprintf("create request: %v", err))
	}

	if len(req.Query) > 0 {
		q := httpReq.URL.Query()
		for k, v := range req.Query {
			q.Set(k, v)
		}
		httpReq.URL.RawQuery = q.Encode()
	}

	for k, v := range a.config.Headers {
		httpReq.Header.Set(k, v)
	}
	for k, v := range req.Headers {
		httpReq.Header.Set(k, v)
	}
	if body != nil && httpReq.Header.Get("Content-Type") == "" && contentType != "" {
		httpReq.Header.Set("Content-Type", contentType)
	}

	auth := a.config.Auth
	if req.Auth != nil {
		auth = req.Auth
	}
	auth.apply(httpReq)

	return httpReq, nil
}

// resolveURL joins path onto BaseURL. Paths that carry their own
// scheme pass through untouched.
func (a *Adapter) resolveURL(path string) string {
	if a.config.BaseURL == "" || strings.Contains(path, "://") {
		return path
	}
	return strings.TrimRight(a.config.BaseURL, "/") + "/" + strings.TrimLeft(path, "/")
}

// encodeBody turns the loosely-typed Request.Body into a reader plus
// a content type. JSON is the fallback for anything that is not
// already bytes, a string, a reader, or a multipart form.
func encodeBody(body any) (io.Reader, string, error) {
	switch v := body.(type) {
	case nil:
		return nil, "", nil
	case *MultipartBody:
		return v.encode()
	case io.Reader:
		return v, "", nil
	case []byte:
		return bytes.NewReader(v), "", nil
	case string:
		return strings.NewReader(v), "text/plain", nil
	default:
		data, err := json.Marshal(v)
		if err != nil {
			return nil, "", err
		}
		return bytes.NewReader(data), "application/json", nil
	}
}

// headerMap flattens response headers to their first value.
func headerMap(h http.Header) map[string]string {
	result := make(map[string]string, len(h))
	for k, v := range h {
		if len(v) > 0 {
			result[k] = v[0]
		}
	}
	return result
}
