// Package platform identifies the environment hosting the bridge and
// exposes the host container's device info and capability flags.
//
// Detection runs once at startup and is a leaf dependency for every
// other bridge component:
//
//	det := platform.Detect(platform.WithHostBridge(host))
//	if det.IsNative() {
//	    // use the OS-backed secure store
//	}
//
// Hosts that already know their platform, and tests, pin it instead:
//
//	det := platform.Static(platform.IOS)
package platform
