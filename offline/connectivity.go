package offline

import (
	"context"
	"net/http"
	"time"

	"github.com/faithfulcoronel/stewardtrack-sub004/logger"
)

// IsOnline reports the current connectivity state.
func (m *Manager) IsOnline() bool {
	m.connMu.RLock()
	defer m.connMu.RUnlock()
	return m.online
}

// SetOnline updates the connectivity state. Hosts push their
// environment's online/offline events through here (a browser host
// forwards its online events, a native host its reachability
// callbacks). On a change, registered listeners run synchronously in
// registration order; on an offline-to-online transition a sync pass
// starts in the background.
func (m *Manager) SetOnline(online bool) {
	m.connMu.Lock()
	if m.online == online {
		m.connMu.Unlock()
		return
	}
	wasOffline := !m.online
	m.online = online
	listeners := make([]connListener, len(m.listeners))
	copy(listeners, m.listeners)
	m.connMu.Unlock()

	m.log.Info("Connectivity changed", map[string]interface{}{"online": online})

	for _, l := range listeners {
		m.notify(l.fn, online)
	}

	if wasOffline && online {
		go m.autoSync()
	}
}

// notify runs one listener, isolating its panic so one bad listener
// cannot starve the rest.
func (m *Manager) notify(fn func(bool), online bool) {
	defer func() {
		if r := recover(); r != nil {
			m.log.Error("Connection listener panicked", map[string]interface{}{
				"panic": r,
			})
		}
	}()
	fn(online)
}

// autoSync runs the reconnect sync pass. Failures are logged and
// swallowed; nothing propagates out of a connectivity event.
func (m *Manager) autoSync() {
	result, err := m.SyncPendingMutations(context.Background(), nil)
	if err != nil {
		m.log.Warn("Automatic sync after reconnect failed", logger.ErrorFields("auto_sync", err))
		return
	}
	m.log.Info("Automatic sync after reconnect completed", map[string]interface{}{
		"synced": result.Synced,
		"failed": result.Failed,
	})
}

// AddConnectionListener registers a callback invoked on every
// connectivity change with the new state. Listeners run in
// registration order. The returned function unsubscribes; calling it
// more than once is harmless.
func (m *Manager) AddConnectionListener(fn func(online bool)) func() {
	m.connMu.Lock()
	defer m.connMu.Unlock()

	id := m.nextID
	m.nextID++
	m.listeners = append(m.listeners, connListener{id: id, fn: fn})

	return func() {
		m.connMu.Lock()
		defer m.connMu.Unlock()
		for i, l := range m.listeners {
			if l.id == id {
				m.listeners = append(m.listeners[:i], m.listeners[i+1:]...)
				return
			}
		}
	}
}

// Monitor feeds connectivity transitions to a manager. Run blocks
// until ctx is cancelled; the offline component starts it in its own
// goroutine.
type Monitor interface {
	Run(ctx context.Context, setOnline func(bool))
}

// StaticMonitor reports a fixed connectivity state once. It suits
// server processes whose reachability never changes and tests.
type StaticMonitor struct {
	Online bool
}

// Run pushes the static state and returns.
func (s StaticMonitor) Run(_ context.Context, setOnline func(bool)) {
	setOnline(s.Online)
}

// ProbeMonitor detects connectivity by periodically issuing a HEAD
// request. Any response, including an error status, proves the network
// is reachable; only transport failures count as offline.
type ProbeMonitor struct {
	// URL is the probe target, typically the sync endpoint's health
	// path.
	URL string

	// Interval between probes. Defaults to 30s.
	Interval time.Duration

	// Timeout for a single probe. Defaults to 5s.
	Timeout time.Duration
}

// Run probes immediately and then on every interval tick until ctx is
// cancelled.
func (p ProbeMonitor) Run(ctx context.Context, setOnline func(bool)) {
	interval := p.Interval
	if interval <= 0 {
		interval = 30 * time.Second
	}
	timeout := p.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	client := &http.Client{Timeout: timeout}

	probe := func() {
		req, err := http.NewRequestWithContext(ctx, http.MethodHead, p.URL, nil)
		if err != nil {
			setOnline(false)
			return
		}
		resp, err := client.Do(req)
		if err != nil {
			setOnline(false)
			return
		}
		resp.Body.Close()
		setOnline(true)
	}

	probe()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			probe()
		}
	}
}
