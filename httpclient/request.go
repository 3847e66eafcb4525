package httpclient

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/faithfulcoronel/stewardtrack-sub004/httpclient/sse"
)

// Request describes an outbound HTTP request.
type Request struct {
	// Method is the HTTP method (GET, POST, PUT, PATCH, DELETE, etc).
	Method string
	// Path is appended to the client's BaseURL. A full http(s) URL
	// bypasses BaseURL entirely.
	Path string
	// Headers are request-specific headers, winning over the client
	// defaults on conflict.
	Headers map[string]string
	// Query are URL query parameters.
	Query map[string]string
	// Body is the request body: io.Reader, []byte, string, or
	// *MultipartBody pass through; anything else is JSON-encoded.
	Body any
	// Auth overrides the client-level auth for this request.
	Auth *AuthConfig
}

// Response is a fully buffered HTTP response.
type Response struct {
	// StatusCode is the HTTP status code.
	StatusCode int
	// Headers are the response headers, first value per key.
	Headers map[string]string
	// Body is the raw response body.
	Body []byte
}

// IsSuccess reports a 2xx status.
func (r *Response) IsSuccess() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// IsError reports a 4xx or 5xx status.
func (r *Response) IsError() bool {
	return r.StatusCode >= 400
}

// Text returns the body as a string.
func (r *Response) Text() string {
	return string(r.Body)
}

// JSON decodes the body into v.
func (r *Response) JSON(v any) error {
	return json.Unmarshal(r.Body, v)
}

// StreamResponse is a live HTTP response whose body has not been
// consumed. Exactly one of SSE and Body is set, depending on the
// response content type.
type StreamResponse struct {
	// StatusCode is the HTTP status code.
	StatusCode int
	// Headers are the response headers, first value per key.
	Headers map[string]string
	// SSE reads server-sent events from text/event-stream responses.
	SSE sse.Reader
	// Body is the raw stream for everything else (ndjson, raw bytes).
	Body io.ReadCloser
	// rawResp holds the original response for cleanup.
	rawResp *http.Response
}

// Close releases the stream. Safe to call regardless of which reader
// is set.
func (r *StreamResponse) Close() error {
	if r.SSE != nil {
		return r.SSE.Close()
	}
	if r.Body != nil {
		return r.Body.Close()
	}
	if r.rawResp != nil && r.rawResp.Body != nil {
		return r.rawResp.Body.Close()
	}
	return nil
}
