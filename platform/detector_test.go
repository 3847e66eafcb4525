package platform

import "testing"

// fakeHost is a well-behaved host bridge.
type fakeHost struct {
	platform Platform
	native   bool
	info     Info
	caps     Capabilities
}

func (h *fakeHost) Platform() Platform         { return h.platform }
func (h *fakeHost) IsNativePlatform() bool     { return h.native }
func (h *fakeHost) DeviceInfo() Info           { return h.info }
func (h *fakeHost) Capabilities() Capabilities { return h.caps }

// brokenHost panics from every method, like a container that wired up
// the bridge global but implemented nothing.
type brokenHost struct{}

func (brokenHost) Platform() Platform         { panic("not implemented") }
func (brokenHost) IsNativePlatform() bool     { panic("not implemented") }
func (brokenHost) DeviceInfo() Info           { panic("not implemented") }
func (brokenHost) Capabilities() Capabilities { panic("not implemented") }

func noEnv(string) string { return "" }

func TestDetect_DefaultsToWeb(t *testing.T) {
	d := Detect(withEnvLookup(noEnv))

	if d.Platform() != Web {
		t.Errorf("expected web, got %s", d.Platform())
	}
	if d.IsNative() {
		t.Error("expected not native")
	}
	if !d.IsServer() {
		t.Error("expected headless detection to report server")
	}
	if d.IsBrowser() {
		t.Error("expected headless detection to not report browser")
	}
}

func TestDetect_Override(t *testing.T) {
	d := Detect(WithOverride(IOS), withEnvLookup(noEnv))

	if d.Platform() != IOS {
		t.Errorf("expected ios, got %s", d.Platform())
	}
	if !d.IsNative() {
		t.Error("expected native")
	}
	if d.IsServer() {
		t.Error("override should not report server")
	}
}

func TestDetect_InvalidOverrideFallsThrough(t *testing.T) {
	d := Detect(WithOverride(Platform("blackberry")), withEnvLookup(noEnv))

	if d.Platform() != Web {
		t.Errorf("expected web after invalid override, got %s", d.Platform())
	}
}

func TestDetect_EnvVar(t *testing.T) {
	t.Setenv(EnvPlatform, "android")

	d := Detect()
	if d.Platform() != Android {
		t.Errorf("expected android from env, got %s", d.Platform())
	}
	if d.IsServer() {
		t.Error("env-supplied platform should not report server")
	}
}

func TestDetect_InvalidEnvFallsThrough(t *testing.T) {
	env := func(key string) string {
		if key == EnvPlatform {
			return "desktop"
		}
		return ""
	}

	d := Detect(withEnvLookup(env))
	if d.Platform() != Web {
		t.Errorf("expected web after invalid env value, got %s", d.Platform())
	}
}

func TestDetect_EnvVarTrimsWhitespace(t *testing.T) {
	env := func(key string) string {
		if key == EnvPlatform {
			return "  ios\n"
		}
		return ""
	}

	d := Detect(withEnvLookup(env))
	if d.Platform() != IOS {
		t.Errorf("expected ios from padded env value, got %s", d.Platform())
	}
}

func TestDetect_OverrideBeatsEnv(t *testing.T) {
	env := func(key string) string {
		if key == EnvPlatform {
			return "android"
		}
		return ""
	}

	d := Detect(WithOverride(IOS), withEnvLookup(env))
	if d.Platform() != IOS {
		t.Errorf("expected override to win, got %s", d.Platform())
	}
}

func TestDetect_HostBridge(t *testing.T) {
	host := &fakeHost{platform: IOS, native: true}

	d := Detect(WithHostBridge(host), withEnvLookup(noEnv))
	if d.Platform() != IOS {
		t.Errorf("expected ios from host, got %s", d.Platform())
	}
	if !d.IsNative() {
		t.Error("expected native")
	}
	if d.IsServer() {
		t.Error("host-backed detector should not report server")
	}
}

func TestDetect_EnvBeatsHost(t *testing.T) {
	env := func(key string) string {
		if key == EnvPlatform {
			return "web"
		}
		return ""
	}
	host := &fakeHost{platform: IOS, native: true}

	d := Detect(WithHostBridge(host), withEnvLookup(env))
	if d.Platform() != Web {
		t.Errorf("expected env to beat host, got %s", d.Platform())
	}
}

func TestDetect_HostClaimsNativeButDenies(t *testing.T) {
	// Platform() says android, IsNativePlatform() says false.
	host := &fakeHost{platform: Android, native: false}

	d := Detect(WithHostBridge(host), withEnvLookup(noEnv))
	if d.Platform() != Web {
		t.Errorf("expected web for contradictory host, got %s", d.Platform())
	}
}

func TestDetect_HostReportsInvalidPlatform(t *testing.T) {
	host := &fakeHost{platform: Platform("tvos"), native: true}

	d := Detect(WithHostBridge(host), withEnvLookup(noEnv))
	if d.Platform() != Web {
		t.Errorf("expected web for unknown host platform, got %s", d.Platform())
	}
}

func TestDetect_BrokenHostFallsBackToWeb(t *testing.T) {
	d := Detect(WithHostBridge(brokenHost{}), withEnvLookup(noEnv))

	if d.Platform() != Web {
		t.Errorf("expected web for panicking host, got %s", d.Platform())
	}
	if d.IsServer() {
		t.Error("a present host bridge should not report server, even broken")
	}
}

func TestDetect_BrowserIsWebWithHost(t *testing.T) {
	host := &fakeHost{platform: Web, native: false}

	d := Detect(WithHostBridge(host), withEnvLookup(noEnv))
	if !d.IsBrowser() {
		t.Error("web platform with a host container should report browser")
	}
	if d.IsServer() {
		t.Error("hosted web should not report server")
	}
}

func TestStatic(t *testing.T) {
	d := Static(Android)
	if d.Platform() != Android {
		t.Errorf("expected android, got %s", d.Platform())
	}
	if !d.IsNative() {
		t.Error("expected native")
	}
}

func TestStatic_InvalidFallsBackToWeb(t *testing.T) {
	d := Static(Platform("symbian"))
	if d.Platform() != Web {
		t.Errorf("expected web, got %s", d.Platform())
	}
}

func TestDeviceInfo_FromHost(t *testing.T) {
	host := &fakeHost{
		platform: IOS,
		native:   true,
		info: Info{
			Platform:   IOS,
			OSVersion:  "17.4",
			Model:      "iPhone15,2",
			AppVersion: "2.3.0",
			Locale:     "en-US",
		},
	}

	d := Detect(WithHostBridge(host), withEnvLookup(noEnv))
	info := d.DeviceInfo()
	if info.Model != "iPhone15,2" {
		t.Errorf("expected host model, got %q", info.Model)
	}
	if info.OSVersion != "17.4" {
		t.Errorf("expected host OS version, got %q", info.OSVersion)
	}
}

func TestDeviceInfo_HostOmitsPlatform(t *testing.T) {
	host := &fakeHost{platform: Android, native: true, info: Info{Model: "Pixel 8"}}

	d := Detect(WithHostBridge(host), withEnvLookup(noEnv))
	info := d.DeviceInfo()
	if info.Platform != Android {
		t.Errorf("expected detector to fill platform, got %q", info.Platform)
	}
	if info.Model != "Pixel 8" {
		t.Errorf("expected host model, got %q", info.Model)
	}
}

func TestDeviceInfo_NoHost(t *testing.T) {
	d := Static(Web)
	info := d.DeviceInfo()
	if info.Platform != Web {
		t.Errorf("expected web, got %q", info.Platform)
	}
	if info.Model != "" || info.OSVersion != "" {
		t.Error("expected zero device fields without a host")
	}
}

func TestDeviceInfo_BrokenHost(t *testing.T) {
	d := Detect(WithHostBridge(brokenHost{}), withEnvLookup(noEnv))
	info := d.DeviceInfo()
	if info.Platform != Web {
		t.Errorf("expected web fallback, got %q", info.Platform)
	}
}

func TestCapabilities_FromHost(t *testing.T) {
	host := &fakeHost{
		platform: IOS,
		native:   true,
		caps:     Capabilities{SecureStorage: true, Push: true, Biometrics: true},
	}

	d := Detect(WithHostBridge(host), withEnvLookup(noEnv))
	caps := d.Capabilities()
	if !caps.SecureStorage || !caps.Push || !caps.Biometrics {
		t.Errorf("expected host capabilities, got %+v", caps)
	}
	if caps.Camera {
		t.Error("expected camera false")
	}
}

func TestCapabilities_NoHost(t *testing.T) {
	d := Static(Web)
	if d.Capabilities() != (Capabilities{}) {
		t.Error("expected zero capabilities without a host")
	}
}

func TestCapabilities_BrokenHost(t *testing.T) {
	d := Detect(WithHostBridge(brokenHost{}), withEnvLookup(noEnv))
	if d.Capabilities() != (Capabilities{}) {
		t.Error("expected zero capabilities for panicking host")
	}
}
