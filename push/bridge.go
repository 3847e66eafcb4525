package push

import (
	"context"
	"sync"

	apperrors "github.com/faithfulcoronel/stewardtrack-sub004/errors"
	"github.com/faithfulcoronel/stewardtrack-sub004/logger"
)

// Bridge fans push events out to application listeners. It sits
// between a Provider and the app so UI code can subscribe and
// unsubscribe freely without touching platform registration.
//
// All state is instance state. Listener registration follows the same
// shape as the offline manager's connection listeners: callbacks run
// in registration order and the returned closure unsubscribes.
type Bridge struct {
	provider Provider
	log      *logger.Logger

	mu             sync.Mutex
	nextID         int
	tokenLs        []listener[string]
	notificationLs []listener[Notification]
	actionLs       []listener[Action]
	token          string
	hasToken       bool
	registered     bool
}

type listener[T any] struct {
	id int
	fn func(T)
}

// NewBridge creates a push bridge over the given provider. A nil
// provider behaves as Unsupported.
func NewBridge(provider Provider, log *logger.Logger) *Bridge {
	if provider == nil {
		provider = Unsupported()
	}
	return &Bridge{
		provider: provider,
		log:      log.WithComponent("push"),
	}
}

// Provider returns the underlying provider, for permission calls that
// need the raw surface.
func (b *Bridge) Provider() Provider {
	return b.provider
}

// RequestPermissions prompts the user for push permission.
func (b *Bridge) RequestPermissions(ctx context.Context) (PermissionStatus, error) {
	return b.provider.RequestPermissions(ctx)
}

// CheckPermissions returns the current permission state.
func (b *Bridge) CheckPermissions(ctx context.Context) (PermissionStatus, error) {
	return b.provider.CheckPermissions(ctx)
}

// Register wires the provider's token, notification and action events
// into the bridge's listener lists. In environments without push the
// call is a logged no-op, so hosts may call it unconditionally.
//
// Register is not idempotent: registering twice wires the provider
// twice and listeners may then see duplicate events. Call it once.
func (b *Bridge) Register(ctx context.Context) error {
	err := b.provider.Register(ctx, Events{
		Token:        b.dispatchToken,
		Notification: b.dispatchNotification,
		Action:       b.dispatchAction,
	})
	if err != nil {
		if appErr, ok := apperrors.AsAppError(err); ok && appErr.Code == apperrors.ErrCodeUnsupportedPlatform {
			b.log.Debug("Push registration skipped", map[string]interface{}{
				"reason": appErr.Message,
			})
			return nil
		}
		return err
	}

	b.mu.Lock()
	b.registered = true
	b.mu.Unlock()
	b.log.Info("Push notifications registered")
	return nil
}

// Unregister stops push delivery. Listeners stay subscribed and
// resume if Register is called again.
func (b *Bridge) Unregister(ctx context.Context) error {
	if err := b.provider.Unregister(ctx); err != nil {
		return err
	}
	b.mu.Lock()
	b.registered = false
	b.mu.Unlock()
	return nil
}

// Registered reports whether a Register call has succeeded against a
// supporting provider.
func (b *Bridge) Registered() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.registered
}

// Token returns the most recently issued push token.
func (b *Bridge) Token() (string, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.token, b.hasToken
}

// AddTokenListener registers a callback for token issuance. The
// returned function unsubscribes.
func (b *Bridge) AddTokenListener(fn func(token string)) func() {
	b.mu.Lock()
	defer b.mu.Unlock()
	id := b.nextID
	b.nextID++
	b.tokenLs = append(b.tokenLs, listener[string]{id: id, fn: fn})
	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		b.tokenLs = removeListener(b.tokenLs, id)
	}
}

// AddNotificationListener registers a callback for foreground
// notifications. The returned function unsubscribes.
func (b *Bridge) AddNotificationListener(fn func(n Notification)) func() {
	b.mu.Lock()
	defer b.mu.Unlock()
	id := b.nextID
	b.nextID++
	b.notificationLs = append(b.notificationLs, listener[Notification]{id: id, fn: fn})
	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		b.notificationLs = removeListener(b.notificationLs, id)
	}
}

// AddActionListener registers a callback for notification taps and
// actions. The returned function unsubscribes.
func (b *Bridge) AddActionListener(fn func(a Action)) func() {
	b.mu.Lock()
	defer b.mu.Unlock()
	id := b.nextID
	b.nextID++
	b.actionLs = append(b.actionLs, listener[Action]{id: id, fn: fn})
	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		b.actionLs = removeListener(b.actionLs, id)
	}
}

func removeListener[T any](ls []listener[T], id int) []listener[T] {
	for i, l := range ls {
		if l.id == id {
			return append(ls[:i], ls[i+1:]...)
		}
	}
	return ls
}

func (b *Bridge) dispatchToken(token string) {
	b.mu.Lock()
	b.token = token
	b.hasToken = true
	ls := append([]listener[string](nil), b.tokenLs...)
	b.mu.Unlock()

	b.log.Debug("Push token issued")
	for _, l := range ls {
		b.invoke(func() { l.fn(token) })
	}
}

func (b *Bridge) dispatchNotification(n Notification) {
	b.mu.Lock()
	ls := append([]listener[Notification](nil), b.notificationLs...)
	b.mu.Unlock()

	for _, l := range ls {
		b.invoke(func() { l.fn(n) })
	}
}

func (b *Bridge) dispatchAction(a Action) {
	b.mu.Lock()
	ls := append([]listener[Action](nil), b.actionLs...)
	b.mu.Unlock()

	for _, l := range ls {
		b.invoke(func() { l.fn(a) })
	}
}

// invoke runs one listener with panic isolation, matching the
// connection listener behavior.
func (b *Bridge) invoke(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			b.log.Error("Push listener panicked", map[string]interface{}{
				"panic": r,
			})
		}
	}()
	fn()
}
