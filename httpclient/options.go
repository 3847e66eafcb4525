package httpclient

import "net/http"

// Option configures an Adapter beyond its Config.
type Option func(*Adapter)

// WithHTTPClient replaces the adapter's underlying *http.Client,
// discarding the transport and timeout built from Config. Intended
// for tests and hosts that manage their own transport.
func WithHTTPClient(hc *http.Client) Option {
	return func(a *Adapter) { a.httpClient = hc }
}

// WithTransport replaces only the transport, keeping the configured
// timeout.
func WithTransport(rt http.RoundTripper) Option {
	return func(a *Adapter) { a.httpClient.Transport = rt }
}
