package push

import (
	"context"
	"fmt"

	apperrors "github.com/faithfulcoronel/stewardtrack-sub004/errors"
	"github.com/faithfulcoronel/stewardtrack-sub004/logger"
)

// Host is the native container's push surface. A container embedding
// the bridge implements these against its OS push APIs (APNs, FCM)
// and hands the implementation to NewHostProvider.
type Host interface {
	RequestPermissions(ctx context.Context) (PermissionStatus, error)
	CheckPermissions(ctx context.Context) (PermissionStatus, error)
	Register(ctx context.Context, events Events) error
	Unregister(ctx context.Context) error
}

// HostProvider adapts a container's Host to the Provider interface,
// isolating panics from partial host implementations the same way the
// platform detector shields itself from a misbehaving host bridge.
type HostProvider struct {
	host Host
	log  *logger.Logger
}

// NewHostProvider wraps a container push implementation.
func NewHostProvider(host Host, log *logger.Logger) *HostProvider {
	return &HostProvider{host: host, log: log}
}

var _ Provider = (*HostProvider)(nil)

// RequestPermissions prompts through the host.
func (p *HostProvider) RequestPermissions(ctx context.Context) (status PermissionStatus, err error) {
	defer p.recoverHost("RequestPermissions", &err)
	return p.host.RequestPermissions(ctx)
}

// CheckPermissions reads the current state through the host.
func (p *HostProvider) CheckPermissions(ctx context.Context) (status PermissionStatus, err error) {
	defer p.recoverHost("CheckPermissions", &err)
	return p.host.CheckPermissions(ctx)
}

// Register starts push delivery through the host.
func (p *HostProvider) Register(ctx context.Context, events Events) (err error) {
	defer p.recoverHost("Register", &err)
	return p.host.Register(ctx, events)
}

// Unregister stops push delivery through the host.
func (p *HostProvider) Unregister(ctx context.Context) (err error) {
	defer p.recoverHost("Unregister", &err)
	return p.host.Unregister(ctx)
}

// recoverHost converts a host panic into an internal error so one
// broken container method cannot crash the bridge.
func (p *HostProvider) recoverHost(op string, err *error) {
	if r := recover(); r != nil {
		p.log.Error("Push host panicked", map[string]interface{}{
			"op":    op,
			"panic": r,
		})
		*err = apperrors.Internal(fmt.Errorf("push host panic in %s: %v", op, r))
	}
}
