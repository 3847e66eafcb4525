package push

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"sync"
	"time"

	apperrors "github.com/faithfulcoronel/stewardtrack-sub004/errors"
	"github.com/faithfulcoronel/stewardtrack-sub004/httpclient"
	"github.com/faithfulcoronel/stewardtrack-sub004/httpclient/sse"
	"github.com/faithfulcoronel/stewardtrack-sub004/logger"
)

// Stream event names the notification feed emits. Anything else is
// ignored so the feed can grow without breaking older clients.
const (
	streamEventToken        = "token"
	streamEventNotification = "notification"
	streamEventAction       = "action"
)

// StreamProvider delivers push events over a server-sent event feed.
// It is the fallback for environments without an OS push service:
// web hosts and long-running server processes subscribe to the
// notification feed over plain HTTPS instead of APNs or FCM.
//
// Permissions are implicit. The feed is authorized by the transport's
// credentials, so both permission calls report granted without
// prompting.
type StreamProvider struct {
	client  *httpclient.Adapter
	path    string
	log     *logger.Logger
	backoff time.Duration

	// lastID is only touched from the reader goroutine (and from
	// Register before it starts), so it needs no lock.
	lastID string

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// StreamOption customizes a StreamProvider.
type StreamOption func(*StreamProvider)

// WithReconnectBackoff sets the pause before reopening a dropped
// feed. The default is five seconds; a retry hint on the feed itself
// overrides it.
func WithReconnectBackoff(d time.Duration) StreamOption {
	return func(p *StreamProvider) {
		if d > 0 {
			p.backoff = d
		}
	}
}

// NewStreamProvider creates a push provider that reads the
// server-sent event feed at path through client.
func NewStreamProvider(client *httpclient.Adapter, path string, log *logger.Logger, opts ...StreamOption) *StreamProvider {
	p := &StreamProvider{
		client:  client,
		path:    path,
		log:     log,
		backoff: 5 * time.Second,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

var _ Provider = (*StreamProvider)(nil)

// RequestPermissions reports granted. The feed needs no user prompt.
func (p *StreamProvider) RequestPermissions(context.Context) (PermissionStatus, error) {
	return PermissionStatus{Granted: true}, nil
}

// CheckPermissions reports granted.
func (p *StreamProvider) CheckPermissions(context.Context) (PermissionStatus, error) {
	return PermissionStatus{Granted: true}, nil
}

// Register opens the feed and starts dispatching its events. The
// first connection happens synchronously so a bad path or rejected
// credential surfaces here rather than in a log line; after that the
// reader runs until Unregister, reconnecting on its own when the
// stream drops. ctx bounds only the initial connection.
func (p *StreamProvider) Register(ctx context.Context, events Events) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.cancel != nil {
		return nil
	}

	stream, err := p.open(ctx)
	if err != nil {
		return err
	}

	streamCtx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	p.cancel = cancel
	p.done = done

	go func() {
		defer close(done)
		p.run(streamCtx, stream, events)
	}()
	return nil
}

// Unregister stops the feed reader and waits for it to exit.
func (p *StreamProvider) Unregister(ctx context.Context) error {
	p.mu.Lock()
	cancel, done := p.cancel, p.done
	p.cancel, p.done = nil, nil
	p.mu.Unlock()

	if cancel == nil {
		return nil
	}
	cancel()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return apperrors.Timeout("push stream shutdown")
	}
}

func (p *StreamProvider) open(ctx context.Context) (*httpclient.StreamResponse, error) {
	headers := map[string]string{"Accept": "text/event-stream"}
	if p.lastID != "" {
		headers["Last-Event-ID"] = p.lastID
	}
	stream, err := p.client.DoStream(ctx, httpclient.Request{
		Method:  "GET",
		Path:    p.path,
		Headers: headers,
	})
	if err != nil {
		return nil, apperrors.ConnectionFailed("notification feed").WithCause(err)
	}
	if stream.SSE == nil {
		stream.Close()
		return nil, apperrors.ConnectionFailed("notification feed").
			WithCause(errors.New("response is not an event stream"))
	}
	return stream, nil
}

// run consumes stream until streamCtx is canceled, reopening the feed
// whenever it drops. The pause before reconnecting is the configured
// backoff, or the server's last retry hint when it sent one.
func (p *StreamProvider) run(streamCtx context.Context, stream *httpclient.StreamResponse, events Events) {
	for {
		delay := p.backoff
		if stream != nil {
			p.consume(streamCtx, stream, events)
			if hint := stream.SSE.Retry(); hint > 0 {
				delay = hint
			}
			stream.Close()
		}

		select {
		case <-streamCtx.Done():
			return
		case <-time.After(delay):
		}

		next, err := p.open(streamCtx)
		if err != nil {
			if streamCtx.Err() != nil {
				return
			}
			p.log.Warn("push stream reconnect failed", map[string]interface{}{
				"path":  p.path,
				"error": err.Error(),
			})
			stream = nil
			continue
		}
		p.log.Info("push stream reconnected", map[string]interface{}{"path": p.path})
		stream = next
	}
}

func (p *StreamProvider) consume(streamCtx context.Context, stream *httpclient.StreamResponse, events Events) {
	// Next blocks on the socket, so closing the stream is the only
	// way cancellation can reach a parked reader.
	stop := context.AfterFunc(streamCtx, func() { stream.Close() })
	defer stop()

	for {
		ev, err := stream.SSE.Next()
		if err != nil {
			if streamCtx.Err() == nil && !errors.Is(err, io.EOF) {
				p.log.Warn("push stream read failed", map[string]interface{}{
					"path":  p.path,
					"error": err.Error(),
				})
			}
			return
		}
		if ev.ID != "" {
			p.lastID = ev.ID
		}
		p.dispatch(ev, events)
	}
}

func (p *StreamProvider) dispatch(ev *sse.Event, events Events) {
	switch ev.Event {
	case streamEventToken:
		if events.Token != nil {
			events.Token(ev.Data)
		}
	case streamEventNotification:
		var n Notification
		if err := json.Unmarshal([]byte(ev.Data), &n); err != nil {
			p.log.Warn("push stream dropped malformed notification", map[string]interface{}{"error": err.Error()})
			return
		}
		if events.Notification != nil {
			events.Notification(n)
		}
	case streamEventAction:
		var a Action
		if err := json.Unmarshal([]byte(ev.Data), &a); err != nil {
			p.log.Warn("push stream dropped malformed action", map[string]interface{}{"error": err.Error()})
			return
		}
		if events.Action != nil {
			events.Action(a)
		}
	}
}
