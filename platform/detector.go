package platform

import (
	"os"

	"github.com/faithfulcoronel/stewardtrack-sub004/logger"
	"github.com/faithfulcoronel/stewardtrack-sub004/util"
)

// EnvPlatform is the environment variable consulted during detection.
// Valid values are "web", "ios", and "android".
const EnvPlatform = "STEWARDTRACK_PLATFORM"

// Detector resolves the platform once at startup and answers
// environment questions for the rest of the bridge.
type Detector struct {
	platform Platform
	host     HostBridge
	source   string
}

// Option configures detection.
type Option func(*options)

type options struct {
	override Platform
	host     HostBridge
	env      func(string) string
}

// WithOverride forces the platform, bypassing all probing.
func WithOverride(p Platform) Option {
	return func(o *options) { o.override = p }
}

// WithHostBridge injects the native container's bridge implementation.
func WithHostBridge(hb HostBridge) Option {
	return func(o *options) { o.host = hb }
}

// withEnvLookup replaces the environment lookup, for tests.
func withEnvLookup(fn func(string) string) Option {
	return func(o *options) { o.env = fn }
}

// Detect resolves the platform. Sources are consulted in order:
// explicit override, the STEWARDTRACK_PLATFORM environment variable,
// the injected host bridge, then the web default. Detection never
// fails; a misbehaving host bridge degrades to web.
func Detect(opts ...Option) *Detector {
	o := &options{env: os.Getenv}
	for _, opt := range opts {
		opt(o)
	}

	d := &Detector{platform: Web, host: o.host, source: "default"}

	// .env files leak stray whitespace into env values.
	envValue := util.SanitizeString(o.env(EnvPlatform))

	switch {
	case o.override != "":
		if p, ok := Parse(string(o.override)); ok {
			d.platform = p
			d.source = "override"
		} else {
			logger.Warn("Ignoring invalid platform override", map[string]interface{}{
				"value": string(o.override),
			})
			d.source = detectFallback(d, o)
		}
	case envValue != "":
		if p, ok := Parse(envValue); ok {
			d.platform = p
			d.source = "env"
		} else {
			logger.Warn("Ignoring invalid platform environment value", map[string]interface{}{
				"value": envValue,
			})
			d.source = detectFallback(d, o)
		}
	case o.host != nil:
		d.platform = hostPlatform(o.host)
		d.source = "host"
	}

	logger.Debug("Platform detected", map[string]interface{}{
		"platform": string(d.platform),
		"source":   d.source,
	})
	return d
}

// detectFallback continues detection past a rejected override or env
// value: host bridge if present, else the web default.
func detectFallback(d *Detector, o *options) string {
	if o.host != nil {
		d.platform = hostPlatform(o.host)
		return "host"
	}
	d.platform = Web
	return "default"
}

// Static returns a detector pinned to the given platform. Used by
// tests and by hosts that already know their environment.
func Static(p Platform) *Detector {
	if !p.Valid() {
		p = Web
	}
	return &Detector{platform: p, source: "static"}
}

// Platform returns the detected platform.
func (d *Detector) Platform() Platform {
	return d.platform
}

// IsNative reports whether the bridge runs inside a native container.
func (d *Detector) IsNative() bool {
	return d.platform.IsNative()
}

// IsBrowser reports whether the bridge runs in an interactive web
// container rather than a headless process.
func (d *Detector) IsBrowser() bool {
	return d.platform == Web && !d.IsServer()
}

// IsServer reports whether the bridge runs headless: no host bridge
// and no platform supplied by override or environment.
func (d *Detector) IsServer() bool {
	return d.host == nil && d.source == "default"
}

// DeviceInfo returns the host's device descriptor, or a minimal one
// carrying only the platform when no host is present or it misbehaves.
func (d *Detector) DeviceInfo() Info {
	if d.host != nil {
		if info, ok := hostDeviceInfo(d.host); ok {
			if info.Platform == "" {
				info.Platform = d.platform
			}
			return info
		}
	}
	return Info{Platform: d.platform}
}

// Capabilities returns the host's feature flags, all false when no
// host is present or it misbehaves.
func (d *Detector) Capabilities() Capabilities {
	if d.host != nil {
		if caps, ok := hostCapabilities(d.host); ok {
			return caps
		}
	}
	return Capabilities{}
}

// hostPlatform reads the platform from a host bridge, recovering from
// panics in partial implementations.
func hostPlatform(hb HostBridge) (p Platform) {
	defer func() {
		if r := recover(); r != nil {
			logger.Warn("Host bridge panicked during platform probe", map[string]interface{}{
				"panic": r,
			})
			p = Web
		}
	}()

	got := hb.Platform()
	if !got.Valid() {
		return Web
	}
	if got.IsNative() && !safeIsNative(hb) {
		// Host claims a native platform but denies being native.
		// Trust the conservative answer.
		return Web
	}
	return got
}

// safeIsNative calls IsNativePlatform with panic recovery.
func safeIsNative(hb HostBridge) (native bool) {
	defer func() {
		if r := recover(); r != nil {
			native = false
		}
	}()
	return hb.IsNativePlatform()
}

// hostDeviceInfo calls DeviceInfo with panic recovery.
func hostDeviceInfo(hb HostBridge) (info Info, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			info, ok = Info{}, false
		}
	}()
	return hb.DeviceInfo(), true
}

// hostCapabilities calls Capabilities with panic recovery.
func hostCapabilities(hb HostBridge) (caps Capabilities, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			caps, ok = Capabilities{}, false
		}
	}()
	return hb.Capabilities(), true
}
