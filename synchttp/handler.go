package synchttp

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	apperrors "github.com/faithfulcoronel/stewardtrack-sub004/errors"
	"github.com/faithfulcoronel/stewardtrack-sub004/httpclient"
	"github.com/faithfulcoronel/stewardtrack-sub004/logger"
	"github.com/faithfulcoronel/stewardtrack-sub004/offline"
	"github.com/faithfulcoronel/stewardtrack-sub004/resilience"
	"github.com/faithfulcoronel/stewardtrack-sub004/util"
	"github.com/faithfulcoronel/stewardtrack-sub004/version"
)

// Handler replays queued mutations against a REST API. Handle
// implements offline.SyncHandler:
//
//	create -> POST   <base>/<entity>
//	update -> PUT    <base>/<entity>/<id>
//	delete -> DELETE <base>/<entity>/<id>
//
// The id segment comes from the payload's "id" field and is omitted
// when the payload has none. A 2xx response accepts the mutation. A
// 409 rejects it without an error, leaving conflict resolution to the
// server per the configured strategy. Everything else, including
// transport failures, is a retryable error charged against the
// mutation's retry budget.
type Handler struct {
	client   *httpclient.Adapter
	bulkhead *resilience.Bulkhead
	log      *logger.Logger
}

// New creates a REST sync handler.
func New(cfg Config, log *logger.Logger) (*Handler, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	headers := map[string]string{
		"User-Agent": version.UserAgent(),
	}
	for k, v := range cfg.Headers {
		headers[k] = v
	}

	hcfg := httpclient.Config{
		BaseURL:        cfg.BaseURL,
		Timeout:        cfg.Timeout,
		Headers:        headers,
		TLS:            cfg.TLS,
		Retry:          cfg.Retry,
		CircuitBreaker: cfg.CircuitBreaker,
		RateLimiter:    cfg.RateLimiter,
	}
	if cfg.BearerToken != "" {
		hcfg.Auth = httpclient.BearerAuth(cfg.BearerToken)
	}

	client, err := httpclient.New(hcfg)
	if err != nil {
		return nil, err
	}

	h := &Handler{
		client: client,
		log:    log.WithComponent("synchttp"),
	}
	if cfg.Bulkhead != nil {
		h.bulkhead = resilience.NewBulkhead(*cfg.Bulkhead)
	}

	fields := map[string]interface{}{"baseUrl": cfg.BaseURL}
	if cfg.BearerToken != "" {
		fields["token"] = util.MaskSecret(cfg.BearerToken, 4)
	}
	h.log.Debug("Sync handler ready", fields)
	return h, nil
}

// SyncHandler returns Handle as an offline.SyncHandler for wiring
// into a manager.
func (h *Handler) SyncHandler() offline.SyncHandler {
	return h.Handle
}

// Client returns the transport under the handler, so callers can
// register it for health reporting or share its resilience stack.
func (h *Handler) Client() *httpclient.Adapter {
	return h.client
}

// Handle replays one mutation. See the Handler doc for the mapping.
func (h *Handler) Handle(ctx context.Context, mut offline.QueuedMutation) (bool, error) {
	req, err := h.requestFor(mut)
	if err != nil {
		return false, err
	}

	if _, err := h.do(ctx, req); err != nil {
		return h.classify(mut, err)
	}

	h.log.Debug("Mutation accepted", map[string]interface{}{
		"id":     mut.ID,
		"type":   string(mut.Type),
		"entity": mut.Entity,
	})
	return true, nil
}

// classify maps a request failure onto the sync handler contract.
func (h *Handler) classify(mut offline.QueuedMutation, err error) (bool, error) {
	var hcErr *httpclient.Error
	if errors.As(err, &hcErr) {
		switch hcErr.StatusCode {
		case http.StatusConflict:
			h.log.Warn("Mutation rejected as conflict", map[string]interface{}{
				"id":     mut.ID,
				"entity": mut.Entity,
			})
			return false, nil
		case http.StatusNotFound:
			// Deleting something already gone is success: the
			// server state matches the mutation's intent.
			if mut.Type == offline.MutationDelete {
				h.log.Debug("Delete target already absent", map[string]interface{}{
					"id":     mut.ID,
					"entity": mut.Entity,
				})
				return true, nil
			}
		}
	}
	return false, err
}

// do executes the request, inside the bulkhead when one is
// configured.
func (h *Handler) do(ctx context.Context, req httpclient.Request) (*httpclient.Response, error) {
	if h.bulkhead == nil {
		return h.client.Do(ctx, req)
	}
	return resilience.ExecuteWithResult(h.bulkhead, ctx, func() (*httpclient.Response, error) {
		return h.client.Do(ctx, req)
	})
}

// requestFor maps a mutation onto method, path and body.
func (h *Handler) requestFor(mut offline.QueuedMutation) (httpclient.Request, error) {
	collection := url.PathEscape(mut.Entity)
	path := collection
	if id, ok := mutationID(mut); ok {
		path += "/" + url.PathEscape(id)
	}

	switch mut.Type {
	case offline.MutationCreate:
		return httpclient.Request{Method: http.MethodPost, Path: collection, Body: mut.Payload}, nil
	case offline.MutationUpdate:
		return httpclient.Request{Method: http.MethodPut, Path: path, Body: mut.Payload}, nil
	case offline.MutationDelete:
		return httpclient.Request{Method: http.MethodDelete, Path: path}, nil
	}
	return httpclient.Request{}, apperrors.InvalidInput("type", fmt.Sprintf("unknown mutation type %q", mut.Type))
}

// mutationID extracts the payload's string id, when present.
func mutationID(mut offline.QueuedMutation) (string, bool) {
	id, ok := mut.Payload["id"].(string)
	if !ok || id == "" {
		return "", false
	}
	return id, true
}
