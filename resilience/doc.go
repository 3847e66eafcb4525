// Package resilience provides the failure-handling primitives the
// sync transport wraps around every outbound request.
//
// Each primitive guards against a different failure shape:
//   - Retry replays a failed call with exponential backoff
//   - CircuitBreaker fails fast while the endpoint stays down
//   - RateLimiter paces a draining backlog with a token bucket
//   - Bulkhead caps how many calls run concurrently
//
// The HTTP adapter composes them in that order: a retried attempt
// first waits for a rate limiter token, then runs through the
// breaker:
//
//	rl := resilience.NewRateLimiter(resilience.DefaultRateLimiterConfig("sync"))
//	cb := resilience.NewCircuitBreaker(resilience.DefaultCircuitBreakerConfig("sync"))
//
//	resp, err := resilience.Retry(ctx, retryCfg, func() (*Response, error) {
//	    if err := rl.Wait(ctx); err != nil {
//	        return nil, err
//	    }
//	    var resp *Response
//	    err := cb.Execute(func() error {
//	        var callErr error
//	        resp, callErr = send(ctx, req)
//	        return callErr
//	    })
//	    return resp, err
//	})
package resilience
