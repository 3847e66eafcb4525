// Package version exposes build version information for the
// stewardtrack bridge library.
//
// Version, git commit, and build time are set at compile time via
// -ldflags:
//
//	go build -ldflags "-X github.com/faithfulcoronel/stewardtrack-sub004/version.Version=1.0.0"
//
// Hosts embedding the bridge can report version.Short() in their own
// diagnostics; the sync transport sends version.UserAgent() with every
// request.
package version
