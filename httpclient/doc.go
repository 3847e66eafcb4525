// Package httpclient is the HTTP transport under the sync layer: a
// configurable client with authentication, TLS, resilience (retry,
// circuit breaker, rate limiting), and streaming support.
//
// The Adapter handles the protocol concerns; the typed Get/Post/...
// helpers add JSON decoding for REST-shaped APIs, and the sse
// subpackage reads server-sent event streams.
//
//	client, err := httpclient.New(httpclient.Config{
//	    BaseURL: "https://api.stewardtrack.app/v1",
//	    Timeout: 30 * time.Second,
//	    Auth:    httpclient.BearerAuth(token),
//	    Retry:   httpclient.DefaultRetryConfig(),
//	})
//
//	members, err := httpclient.Get[[]Member](client, ctx, "/members")
//
// Failures come back as *Error with a code and a Retryable flag, so
// callers can tell a rejected request from a transient outage without
// parsing status codes themselves.
package httpclient
