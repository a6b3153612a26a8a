package config

import (
	"bytes"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/tls"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"math/big"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// generateTestKeyPair returns a self-signed certificate and key in PEM form
func generateTestKeyPair(t *testing.T) (certPEM, keyPEM string) {
	t.Helper()

	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)

	template := x509.Certificate{
		SerialNumber: big.NewInt(1),
		Subject:      pkix.Name{CommonName: "localhost"},
		NotBefore:    time.Now().Add(-time.Hour),
		NotAfter:     time.Now().Add(time.Hour),
		KeyUsage:     x509.KeyUsageDigitalSignature | x509.KeyUsageCertSign,
		IsCA:         true,
		DNSNames:     []string{"localhost"},
		BasicConstraintsValid: true,
	}

	der, err := x509.CreateCertificate(rand.Reader, &template, &template, &key.PublicKey, key)
	require.NoError(t, err)

	var certBuf bytes.Buffer
	require.NoError(t, pem.Encode(&certBuf, &pem.Block{Type: "CERTIFICATE", Bytes: der}))

	keyDER, err := x509.MarshalECPrivateKey(key)
	require.NoError(t, err)

	var keyBuf bytes.Buffer
	require.NoError(t, pem.Encode(&keyBuf, &pem.Block{Type: "EC PRIVATE KEY", Bytes: keyDER}))

	return certBuf.String(), keyBuf.String()
}

func configWithTLS(tlsCfg TLSConfig) *Config {
	return &Config{Server: ServerConfig{TLS: tlsCfg}}
}

func TestValidateTLSConfig(t *testing.T) {
	tests := []struct {
		name    string
		tls     TLSConfig
		wantErr string
	}{
		{
			name: "empty mode is disabled",
			tls:  TLSConfig{},
		},
		{
			name: "disabled mode ignores other fields",
			tls:  TLSConfig{Mode: "disabled"},
		},
		{
			name:    "unknown mode",
			tls:     TLSConfig{Mode: "tlsv1"},
			wantErr: "invalid TLS mode",
		},
		{
			name:    "server mode requires cert and key",
			tls:     TLSConfig{Mode: "server"},
			wantErr: "certificate and key are required",
		},
		{
			name:    "server mode missing key",
			tls:     TLSConfig{Mode: "server", CertFile: "cert.pem"},
			wantErr: "certificate and key are required",
		},
		{
			name: "server mode with files",
			tls:  TLSConfig{Mode: "server", CertFile: "cert.pem", KeyFile: "key.pem"},
		},
		{
			name: "server mode with content",
			tls:  TLSConfig{Mode: "server", CertContent: "PEM", KeyContent: "PEM"},
		},
		{
			name:    "cert file and content are mutually exclusive",
			tls:     TLSConfig{Mode: "server", CertFile: "cert.pem", CertContent: "PEM", KeyFile: "key.pem"},
			wantErr: "cannot specify both certFile and certContent",
		},
		{
			name:    "key file and content are mutually exclusive",
			tls:     TLSConfig{Mode: "server", CertFile: "cert.pem", KeyFile: "key.pem", KeyContent: "PEM"},
			wantErr: "cannot specify both keyFile and keyContent",
		},
		{
			name:    "mutual mode requires CA",
			tls:     TLSConfig{Mode: "mutual", CertFile: "cert.pem", KeyFile: "key.pem"},
			wantErr: "CA certificate is required",
		},
		{
			name: "mutual mode with CA file",
			tls:  TLSConfig{Mode: "mutual", CertFile: "cert.pem", KeyFile: "key.pem", CAFile: "ca.pem"},
		},
		{
			name:    "mutual mode CA file and content are mutually exclusive",
			tls:     TLSConfig{Mode: "mutual", CertFile: "cert.pem", KeyFile: "key.pem", CAFile: "ca.pem", CAContent: "PEM"},
			wantErr: "cannot specify both caFile and caContent",
		},
		{
			name:    "invalid client auth policy",
			tls:     TLSConfig{Mode: "mutual", CertFile: "cert.pem", KeyFile: "key.pem", CAFile: "ca.pem", ClientAuthPolicy: "optional"},
			wantErr: "invalid clientAuthPolicy",
		},
		{
			name: "valid client auth policies",
			tls:  TLSConfig{Mode: "mutual", CertFile: "cert.pem", KeyFile: "key.pem", CAFile: "ca.pem", ClientAuthPolicy: "verify"},
		},
		{
			name:    "invalid min version",
			tls:     TLSConfig{Mode: "server", CertFile: "cert.pem", KeyFile: "key.pem", MinVersion: "1.1"},
			wantErr: "invalid TLS minVersion",
		},
		{
			name: "min version 1.3",
			tls:  TLSConfig{Mode: "server", CertFile: "cert.pem", KeyFile: "key.pem", MinVersion: "1.3"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := configWithTLS(tt.tls).ValidateTLSConfig()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}

func TestBuildServerTLSConfigDisabled(t *testing.T) {
	cfg, err := configWithTLS(TLSConfig{}).BuildServerTLSConfig()
	require.NoError(t, err)
	assert.Nil(t, cfg)
}

func TestBuildServerTLSConfigFromContent(t *testing.T) {
	certPEM, keyPEM := generateTestKeyPair(t)

	cfg, err := configWithTLS(TLSConfig{
		Mode:        "server",
		CertContent: certPEM,
		KeyContent:  keyPEM,
	}).BuildServerTLSConfig()
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Len(t, cfg.Certificates, 1)
	assert.Equal(t, uint16(tls.VersionTLS12), cfg.MinVersion)
	assert.Equal(t, tls.NoClientCert, cfg.ClientAuth)
}

func TestBuildServerTLSConfigMinVersion13(t *testing.T) {
	certPEM, keyPEM := generateTestKeyPair(t)

	cfg, err := configWithTLS(TLSConfig{
		Mode:        "server",
		CertContent: certPEM,
		KeyContent:  keyPEM,
		MinVersion:  "1.3",
	}).BuildServerTLSConfig()
	require.NoError(t, err)

	assert.Equal(t, uint16(tls.VersionTLS13), cfg.MinVersion)
}

func TestBuildServerTLSConfigMutual(t *testing.T) {
	certPEM, keyPEM := generateTestKeyPair(t)

	tests := []struct {
		policy string
		want   tls.ClientAuthType
	}{
		{policy: "", want: tls.RequireAndVerifyClientCert},
		{policy: "require", want: tls.RequireAndVerifyClientCert},
		{policy: "request", want: tls.RequestClientCert},
		{policy: "verify", want: tls.VerifyClientCertIfGiven},
	}

	for _, tt := range tests {
		t.Run("policy_"+tt.policy, func(t *testing.T) {
			cfg, err := configWithTLS(TLSConfig{
				Mode:             "mutual",
				CertContent:      certPEM,
				KeyContent:       keyPEM,
				CAContent:        certPEM,
				ClientAuthPolicy: tt.policy,
			}).BuildServerTLSConfig()
			require.NoError(t, err)

			assert.Equal(t, tt.want, cfg.ClientAuth)
			assert.NotNil(t, cfg.ClientCAs)
		})
	}
}

func TestBuildServerTLSConfigBadContent(t *testing.T) {
	_, err := configWithTLS(TLSConfig{
		Mode:        "server",
		CertContent: "not a certificate",
		KeyContent:  "not a key",
	}).BuildServerTLSConfig()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse TLS certificate content")
}

func TestBuildServerTLSConfigBadCA(t *testing.T) {
	certPEM, keyPEM := generateTestKeyPair(t)

	_, err := configWithTLS(TLSConfig{
		Mode:        "mutual",
		CertContent: certPEM,
		KeyContent:  keyPEM,
		CAContent:   "garbage",
	}).BuildServerTLSConfig()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse CA certificate")
}
