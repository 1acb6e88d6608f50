package security

import (
	"crypto/tls"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kbukum/diarsplit/security/tlstest"
)

func TestTLSConfig_Disabled(t *testing.T) {
	for name, cfg := range map[string]*TLSConfig{"nil": nil, "zero": {}} {
		t.Run(name, func(t *testing.T) {
			assert.False(t, cfg.IsEnabled())
			assert.NoError(t, cfg.Validate())
			got, err := cfg.Build()
			require.NoError(t, err)
			assert.Nil(t, got)
		})
	}
}

func TestTLSConfig_Build(t *testing.T) {
	certs := tlstest.GenerateTLSCerts(t)

	t.Run("defaults to tls12", func(t *testing.T) {
		got, err := (&TLSConfig{SkipVerify: true, ServerName: "diarsplit.local"}).Build()
		require.NoError(t, err)
		assert.True(t, got.InsecureSkipVerify)
		assert.Equal(t, "diarsplit.local", got.ServerName)
		assert.Equal(t, uint16(tls.VersionTLS12), got.MinVersion)
	})

	t.Run("private ca and client cert", func(t *testing.T) {
		got, err := (&TLSConfig{
			CAFile:     certs.CAFile,
			CertFile:   certs.CertFile,
			KeyFile:    certs.KeyFile,
			MinVersion: tls.VersionTLS13,
		}).Build()
		require.NoError(t, err)
		assert.NotNil(t, got.RootCAs)
		assert.Len(t, got.Certificates, 1)
		assert.Equal(t, uint16(tls.VersionTLS13), got.MinVersion)
		assert.False(t, got.InsecureSkipVerify)
	})
}

func TestTLSConfig_BuildErrors(t *testing.T) {
	tests := []struct {
		name string
		cfg  *TLSConfig
	}{
		{"missing ca", &TLSConfig{CAFile: "/nonexistent/ca.pem"}},
		{"ca without pem", &TLSConfig{CAFile: tlstest.WriteInvalidPEM(t, "bad-ca.pem")}},
		{"missing key pair", &TLSConfig{CertFile: "/nonexistent/cert.pem", KeyFile: "/nonexistent/key.pem"}},
		{"cert without key", &TLSConfig{CertFile: "cert.pem"}},
		{"key without cert", &TLSConfig{KeyFile: "key.pem"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.cfg.Build()
			assert.Error(t, err)
		})
	}
}
