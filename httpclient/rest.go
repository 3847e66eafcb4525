package httpclient

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// TypedResponse pairs a response with its body decoded into T. The
// sync layer uses these for entity collection reads, where T is a
// slice of records.
type TypedResponse[T any] struct {
	StatusCode int
	Headers    map[string]string
	Data       T
}

// RequestOption configures a single typed request.
type RequestOption func(*Request)

// WithHeader adds a header to the request.
func WithHeader(key, value string) RequestOption {
	return func(r *Request) {
		if r.Headers == nil {
			r.Headers = make(map[string]string)
		}
		r.Headers[key] = value
	}
}

// WithQueryParam adds a query parameter, e.g. a filter or page cursor.
func WithQueryParam(key, value string) RequestOption {
	return func(r *Request) {
		if r.Query == nil {
			r.Query = make(map[string]string)
		}
		r.Query[key] = value
	}
}

// WithRequestAuth overrides authentication for the request.
func WithRequestAuth(auth *AuthConfig) RequestOption {
	return func(r *Request) {
		r.Auth = auth
	}
}

// Get performs a GET and decodes the JSON response into T.
func Get[T any](a *Adapter, ctx context.Context, path string, opts ...RequestOption) (*TypedResponse[T], error) {
	return exchange[T](a, ctx, http.MethodGet, path, nil, opts)
}

// Post performs a POST with a JSON body and decodes the response into T.
func Post[T any](a *Adapter, ctx context.Context, path string, body any, opts ...RequestOption) (*TypedResponse[T], error) {
	return exchange[T](a, ctx, http.MethodPost, path, body, opts)
}

// Put performs a PUT with a JSON body and decodes the response into T.
func Put[T any](a *Adapter, ctx context.Context, path string, body any, opts ...RequestOption) (*TypedResponse[T], error) {
	return exchange[T](a, ctx, http.MethodPut, path, body, opts)
}

// Patch performs a PATCH with a JSON body and decodes the response into T.
func Patch[T any](a *Adapter, ctx context.Context, path string, body any, opts ...RequestOption) (*TypedResponse[T], error) {
	return exchange[T](a, ctx, http.MethodPatch, path, body, opts)
}

// Delete performs a DELETE and decodes the JSON response into T.
func Delete[T any](a *Adapter, ctx context.Context, path string, opts ...RequestOption) (*TypedResponse[T], error) {
	return exchange[T](a, ctx, http.MethodDelete, path, nil, opts)
}

// exchange runs one typed round trip. On a failed request whose body
// still decodes as T (APIs that return the record alongside an error
// status) the decoded response rides along with the error.
func exchange[T any](a *Adapter, ctx context.Context, method, path string, body any, opts []RequestOption) (*TypedResponse[T], error) {
	req := Request{Method: method, Path: path, Body: body}
	for _, opt := range opts {
		opt(&req)
	}

	resp, err := a.Do(ctx, req)
	if resp == nil {
		return nil, err
	}

	if err != nil {
		if len(resp.Body) == 0 {
			return nil, err
		}
		data, decodeErr := decodeBody[T](resp.Body)
		if decodeErr != nil {
			return nil, err
		}
		return typed(resp, data), err
	}

	data, decodeErr := decodeBody[T](resp.Body)
	if decodeErr != nil {
		return nil, decodeErr
	}
	return typed(resp, data), nil
}

// decodeBody unmarshals a JSON body into T. An empty body yields the
// zero value.
func decodeBody[T any](body []byte) (T, error) {
	var data T
	if len(body) == 0 {
		return data, nil
	}
	if err := json.Unmarshal(body, &data); err != nil {
		return data, fmt.Errorf("httpclient: decode response: %w", err)
	}
	return data, nil
}

func typed[T any](resp *Response, data T) *TypedResponse[T] {
	return &TypedResponse[T]{
		StatusCode: resp.StatusCode,
		Headers:    resp.Headers,
		Data:       data,
	}
}
