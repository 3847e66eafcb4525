// Package security holds the TLS configuration shared by the bridge's
// outbound connections. The sync HTTP adapter and the Redis storage
// backend both embed a TLSConfig in their own config and call Build to
// turn it into a *tls.Config:
//
//	cfg := security.TLSConfig{
//	    CAFile:   "/etc/stewardtrack/ca.pem",
//	    CertFile: "/etc/stewardtrack/client.pem",
//	    KeyFile:  "/etc/stewardtrack/client.key",
//	}
//	tlsConfig, err := cfg.Build()
//
// A zero TLSConfig builds to nil, leaving the transport on its
// defaults. The tlstest subpackage mints certificates for tests.
package security
