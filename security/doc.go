// Package security builds the TLS settings the diarsplit client uses to reach
// a server behind a private CA or one that requires client certificates.
//
//	cfg := security.TLSConfig{CAFile: "/etc/diarsplit/ca.pem"}
//	tlsConfig, err := cfg.Build()
package security
