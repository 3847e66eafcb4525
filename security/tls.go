package security

import (
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"os"
)

// TLSConfig holds the transport-security settings shared by the sync
// transport and the Redis storage backend. The zero value means TLS is
// left to the dialer's defaults; Build returns nil in that case so
// callers can assign the result directly.
type TLSConfig struct {
	// SkipVerify disables verification of the server certificate.
	// Only intended for development against self-signed endpoints.
	SkipVerify bool `yaml:"skip_verify" mapstructure:"skip_verify"`

	// CAFile points at a PEM bundle used to verify the server,
	// replacing the system roots.
	CAFile string `yaml:"ca_file" mapstructure:"ca_file"`

	// CertFile is the client certificate presented for mutual TLS.
	CertFile string `yaml:"cert_file" mapstructure:"cert_file"`

	// KeyFile is the private key matching CertFile.
	KeyFile string `yaml:"key_file" mapstructure:"key_file"`

	// ServerName overrides the hostname checked against the server
	// certificate, for endpoints reached through a tunnel or proxy.
	ServerName string `yaml:"server_name" mapstructure:"server_name"`

	// MinVersion is the lowest TLS version to negotiate, as a
	// crypto/tls constant. Zero means TLS 1.2.
	MinVersion uint16 `yaml:"min_version" mapstructure:"min_version"`
}

// IsEnabled reports whether any setting deviates from the zero value.
func (c *TLSConfig) IsEnabled() bool {
	if c == nil {
		return false
	}
	return c.SkipVerify || c.CAFile != "" || c.CertFile != "" ||
		c.ServerName != "" || c.MinVersion != 0
}

// Validate checks the configuration for contradictions that Build
// would otherwise only surface at connection time.
func (c *TLSConfig) Validate() error {
	if c == nil {
		return nil
	}
	if (c.CertFile == "") != (c.KeyFile == "") {
		return fmt.Errorf("tls: cert_file and key_file must be set together")
	}
	return nil
}

// Build materializes a *tls.Config, reading any referenced certificate
// files. It returns (nil, nil) when no setting is configured.
func (c *TLSConfig) Build() (*tls.Config, error) {
	if !c.IsEnabled() {
		return nil, nil
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}

	out := &tls.Config{
		InsecureSkipVerify: c.SkipVerify,
		ServerName:         c.ServerName,
		MinVersion:         c.minVersion(),
	}

	if c.CAFile != "" {
		pool, err := loadCertPool(c.CAFile)
		if err != nil {
			return nil, err
		}
		out.RootCAs = pool
	}

	if c.CertFile != "" {
		pair, err := tls.LoadX509KeyPair(c.CertFile, c.KeyFile)
		if err != nil {
			return nil, fmt.Errorf("tls: load client key pair: %w", err)
		}
		out.Certificates = []tls.Certificate{pair}
	}

	return out, nil
}

func (c *TLSConfig) minVersion() uint16 {
	if c.MinVersion != 0 {
		return c.MinVersion
	}
	return tls.VersionTLS12
}

func loadCertPool(path string) (*x509.CertPool, error) {
	pem, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("tls: read CA file: %w", err)
	}
	pool := x509.NewCertPool()
	if !pool.AppendCertsFromPEM(pem) {
		return nil, fmt.Errorf("tls: no certificates in %s", path)
	}
	return pool, nil
}
