package push

import (
	"context"

	apperrors "github.com/faithfulcoronel/stewardtrack-sub004/errors"
)

// PermissionStatus is the normalized push permission state. Exactly
// one field is true on platforms with a permission model; unsupported
// environments report all false.
type PermissionStatus struct {
	Granted bool `json:"granted"`
	Denied  bool `json:"denied"`
	Prompt  bool `json:"prompt"`
}

// Notification is a push notification received while the app is in
// the foreground.
type Notification struct {
	ID    string            `json:"id"`
	Title string            `json:"title,omitempty"`
	Body  string            `json:"body,omitempty"`
	Data  map[string]string `json:"data,omitempty"`
}

// Action records the user acting on a delivered notification, usually
// by tapping it.
type Action struct {
	ID           string       `json:"actionId"`
	Notification Notification `json:"notification"`
}

// Events carries the callbacks a provider invokes for the three push
// event categories. Any callback may be nil.
type Events struct {
	// Token is invoked when the platform issues or rotates the device
	// push token.
	Token func(token string)

	// Notification is invoked for notifications received in the
	// foreground.
	Notification func(n Notification)

	// Action is invoked when the user acts on a notification.
	Action func(a Action)
}

// Provider is the per-platform push implementation. Native containers
// supply one via NewHostProvider; everything else uses Unsupported.
type Provider interface {
	// RequestPermissions prompts the user for push permission and
	// returns the resulting state.
	RequestPermissions(ctx context.Context) (PermissionStatus, error)

	// CheckPermissions returns the current permission state without
	// prompting.
	CheckPermissions(ctx context.Context) (PermissionStatus, error)

	// Register starts push delivery, reporting token issuance,
	// foreground notifications and user actions through events until
	// Unregister is called.
	Register(ctx context.Context, events Events) error

	// Unregister stops push delivery.
	Unregister(ctx context.Context) error
}

// unsupportedProvider is the Provider for environments without push:
// server processes and browsers without a notification API.
type unsupportedProvider struct{}

// Unsupported returns a Provider whose permissions are always all
// false and whose registration fails with an unsupported-platform
// error. The Bridge treats that error as "skip", so hosts can call
// Register unconditionally.
func Unsupported() Provider {
	return unsupportedProvider{}
}

func (unsupportedProvider) RequestPermissions(context.Context) (PermissionStatus, error) {
	return PermissionStatus{}, nil
}

func (unsupportedProvider) CheckPermissions(context.Context) (PermissionStatus, error) {
	return PermissionStatus{}, nil
}

func (unsupportedProvider) Register(context.Context, Events) error {
	return apperrors.UnsupportedPlatform("push notifications", "this environment")
}

func (unsupportedProvider) Unregister(context.Context) error {
	return nil
}
