package platform

// Platform identifies the environment hosting the bridge.
type Platform string

const (
	// Web is a browser or any host without a native container.
	Web Platform = "web"
	// IOS is an iOS native container.
	IOS Platform = "ios"
	// Android is an Android native container.
	Android Platform = "android"
)

// Valid reports whether p is a known platform.
func (p Platform) Valid() bool {
	switch p {
	case Web, IOS, Android:
		return true
	}
	return false
}

// IsNative reports whether p is a native mobile platform.
func (p Platform) IsNative() bool {
	return p == IOS || p == Android
}

// Parse normalizes a platform name. Returns false for unknown values.
func Parse(s string) (Platform, bool) {
	switch Platform(s) {
	case Web:
		return Web, true
	case IOS:
		return IOS, true
	case Android:
		return Android, true
	}
	return "", false
}

// Info describes the host device. All fields are best effort; hosts
// that cannot report a value leave it zero.
type Info struct {
	Platform   Platform `json:"platform"`
	OSVersion  string   `json:"osVersion,omitempty"`
	Model      string   `json:"model,omitempty"`
	AppVersion string   `json:"appVersion,omitempty"`
	Locale     string   `json:"locale,omitempty"`
}

// Capabilities lists optional features the host container provides.
// Unknown hosts report all false.
type Capabilities struct {
	SecureStorage  bool `json:"secureStorage"`
	Push           bool `json:"push"`
	Biometrics     bool `json:"biometrics"`
	Camera         bool `json:"camera"`
	BackgroundSync bool `json:"backgroundSync"`
	NetworkInfo    bool `json:"networkInfo"`
}

// HostBridge is implemented by native containers embedding the bridge.
// Implementations may be partial; the detector tolerates panics from
// any method and falls back to web defaults.
type HostBridge interface {
	// Platform returns the container's platform.
	Platform() Platform

	// IsNativePlatform reports whether the container is a native app.
	IsNativePlatform() bool

	// DeviceInfo returns a device descriptor.
	DeviceInfo() Info

	// Capabilities returns the container's feature flags.
	Capabilities() Capabilities
}
