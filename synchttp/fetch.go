package synchttp

import (
	"context"
	"net/url"

	"github.com/faithfulcoronel/stewardtrack-sub004/httpclient"
)

// Fetch returns a fetch function for offline.Prefetch that loads the
// entity collection from the sync API with a typed GET:
//
//	n := offline.Prefetch(ctx, mgr, "members",
//		synchttp.Fetch[Member](h, "members"),
//		func(m Member) string { return m.ID })
//
// Reads bypass the bulkhead; it guards mutation replay only.
func Fetch[T any](h *Handler, entity string, opts ...httpclient.RequestOption) func(context.Context) ([]T, error) {
	return func(ctx context.Context) ([]T, error) {
		resp, err := httpclient.Get[[]T](h.client, ctx, url.PathEscape(entity), opts...)
		if err != nil {
			return nil, err
		}
		return resp.Data, nil
	}
}
