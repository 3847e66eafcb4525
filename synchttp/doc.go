// Package synchttp replays queued offline mutations against a REST
// API. It maps mutation types onto conventional endpoints (POST the
// collection for creates, PUT and DELETE the resource for updates and
// deletes) and translates HTTP outcomes into the sync engine's
// accept, reject and retry semantics.
//
// Typical use:
//
//	h, err := synchttp.New(synchttp.Config{
//	    BaseURL:     "https://api.example.com/v1",
//	    BearerToken: token,
//	}, log)
//	if err != nil { ... }
//
//	mgr := offline.NewManager(store, log,
//	    offline.WithSyncHandler(h.SyncHandler()),
//	)
//
// The handler rides on httpclient, so retry, circuit breaking, rate
// limiting and TLS come from the shared resilience configuration. An
// optional bulkhead caps concurrent mutation calls when one handler
// serves several tenants' managers.
package synchttp
