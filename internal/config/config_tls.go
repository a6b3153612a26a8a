package config

import (
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"os"
)

// TLSConfig holds TLS settings for the HTTP server
type TLSConfig struct {
	Mode     string `mapstructure:"mode"`     // TLS mode: "disabled", "server", "mutual"
	CertFile string `mapstructure:"certFile"` // Server certificate file (PEM)
	KeyFile  string `mapstructure:"keyFile"`  // Server private key file (PEM)
	CAFile   string `mapstructure:"caFile"`   // CA certificate file for client cert verification (PEM, required for mutual mode)

	// Certificate content (used when loaded from Vault instead of files)
	CertContent string `mapstructure:"certContent"`
	KeyContent  string `mapstructure:"keyContent"`
	CAContent   string `mapstructure:"caContent"`

	MinVersion       string `mapstructure:"minVersion"`       // Minimum TLS version: "1.2", "1.3"
	ClientAuthPolicy string `mapstructure:"clientAuthPolicy"` // Client auth policy for mutual mode: "require", "request", "verify"
}

// ValidateTLSConfig validates the TLS configuration
func (c *Config) ValidateTLSConfig() error {
	tls := c.Server.TLS

	if err := validateTLSMode(tls); err != nil {
		return err
	}

	return validateTLSVersion(tls)
}

// validateTLSMode validates the TLS mode and associated requirements
func validateTLSMode(tls TLSConfig) error {
	switch tls.Mode {
	case "", "disabled":
		return nil
	case "server":
		return validateServerModeTLS(tls)
	case "mutual":
		return validateMutualModeTLS(tls)
	default:
		return fmt.Errorf("invalid TLS mode: %s (must be 'disabled', 'server', or 'mutual')", tls.Mode)
	}
}

// validateServerModeTLS validates TLS configuration for server mode
func validateServerModeTLS(tls TLSConfig) error {
	if err := validateCertAndKeyRequired(tls, "server mode"); err != nil {
		return err
	}
	return validateNoDuplicateCertSources(tls)
}

// validateMutualModeTLS validates TLS configuration for mutual mode
func validateMutualModeTLS(tls TLSConfig) error {
	if err := validateCertAndKeyRequired(tls, "mutual mode"); err != nil {
		return err
	}

	if tls.CAFile == "" && tls.CAContent == "" {
		return fmt.Errorf("CA certificate is required for mutual TLS mode (provide either caFile or caContent)")
	}
	if tls.CAFile != "" && tls.CAContent != "" {
		return fmt.Errorf("cannot specify both caFile and caContent - choose one")
	}

	if err := validateNoDuplicateCertSources(tls); err != nil {
		return err
	}

	return validateClientAuthPolicy(tls)
}

// validateCertAndKeyRequired checks that both certificate and key are provided
func validateCertAndKeyRequired(tls TLSConfig, mode string) error {
	if (tls.CertFile == "" && tls.CertContent == "") || (tls.KeyFile == "" && tls.KeyContent == "") {
		return fmt.Errorf("TLS certificate and key are required for %s (provide either files or content)", mode)
	}
	return nil
}

// validateNoDuplicateCertSources ensures no duplicate sources for cert and key
func validateNoDuplicateCertSources(tls TLSConfig) error {
	if tls.CertFile != "" && tls.CertContent != "" {
		return fmt.Errorf("cannot specify both certFile and certContent - choose one")
	}
	if tls.KeyFile != "" && tls.KeyContent != "" {
		return fmt.Errorf("cannot specify both keyFile and keyContent - choose one")
	}
	return nil
}

// validateClientAuthPolicy validates the client authentication policy
func validateClientAuthPolicy(tls TLSConfig) error {
	switch tls.ClientAuthPolicy {
	case "require", "request", "verify", "":
		return nil
	default:
		return fmt.Errorf("invalid clientAuthPolicy: %s (must be 'require', 'request', or 'verify')", tls.ClientAuthPolicy)
	}
}

// validateTLSVersion validates the TLS version configuration
func validateTLSVersion(tls TLSConfig) error {
	switch tls.MinVersion {
	case "", "1.2", "1.3":
		return nil
	default:
		return fmt.Errorf("invalid TLS minVersion: %s (must be '1.2' or '1.3')", tls.MinVersion)
	}
}

// BuildServerTLSConfig builds a *tls.Config from the validated configuration.
// Returns nil when TLS is disabled.
func (c *Config) BuildServerTLSConfig() (*tls.Config, error) {
	cfg := c.Server.TLS

	if cfg.Mode == "" || cfg.Mode == "disabled" {
		return nil, nil
	}

	cert, err := loadKeyPair(cfg)
	if err != nil {
		return nil, err
	}

	tlsConfig := &tls.Config{
		Certificates: []tls.Certificate{cert},
		MinVersion:   tls.VersionTLS12,
	}
	if cfg.MinVersion == "1.3" {
		tlsConfig.MinVersion = tls.VersionTLS13
	}

	if cfg.Mode == "mutual" {
		pool, err := loadClientCAPool(cfg)
		if err != nil {
			return nil, err
		}
		tlsConfig.ClientCAs = pool

		switch cfg.ClientAuthPolicy {
		case "request":
			tlsConfig.ClientAuth = tls.RequestClientCert
		case "verify":
			tlsConfig.ClientAuth = tls.VerifyClientCertIfGiven
		default:
			tlsConfig.ClientAuth = tls.RequireAndVerifyClientCert
		}
	}

	return tlsConfig, nil
}

// loadKeyPair loads the server certificate from file or inline content
func loadKeyPair(cfg TLSConfig) (tls.Certificate, error) {
	if cfg.CertContent != "" && cfg.KeyContent != "" {
		cert, err := tls.X509KeyPair([]byte(cfg.CertContent), []byte(cfg.KeyContent))
		if err != nil {
			return tls.Certificate{}, fmt.Errorf("failed to parse TLS certificate content: %w", err)
		}
		return cert, nil
	}

	cert, err := tls.LoadX509KeyPair(cfg.CertFile, cfg.KeyFile)
	if err != nil {
		return tls.Certificate{}, fmt.Errorf("failed to load TLS certificate from %s: %w", cfg.CertFile, err)
	}
	return cert, nil
}

// loadClientCAPool loads the client CA pool for mutual TLS
func loadClientCAPool(cfg TLSConfig) (*x509.CertPool, error) {
	var caPEM []byte
	if cfg.CAContent != "" {
		caPEM = []byte(cfg.CAContent)
	} else {
		data, err := os.ReadFile(cfg.CAFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read CA file %s: %w", cfg.CAFile, err)
		}
		caPEM = data
	}

	pool := x509.NewCertPool()
	if !pool.AppendCertsFromPEM(caPEM) {
		return nil, fmt.Errorf("failed to parse CA certificate")
	}
	return pool, nil
}
