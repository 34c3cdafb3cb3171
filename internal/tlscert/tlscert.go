// Package tlscert supplies server certificates for the HTTPS listener,
// either loaded from disk or generated on the fly for local development.
package tlscert

import (
	"crypto/tls"
	"fmt"
	"log/slog"
)

// MinTLSVersion applies to every listener this package configures.
const MinTLSVersion = tls.VersionTLS13

// Mode selects where server certificates come from.
type Mode string

const (
	// ModeFile serves a certificate pair from disk, reloading it on
	// every handshake so rotated files take effect without a restart.
	ModeFile Mode = "file"

	// ModeAuto generates a self-signed certificate and caches it under
	// AutoCertDir. Local development only.
	ModeAuto Mode = "auto"
)

// Config holds certificate source configuration.
type Config struct {
	Mode Mode

	// File mode.
	CertFile string
	KeyFile  string

	// Auto mode.
	AutoCertDir string
	AutoHosts   []string
}

// Manager hands the HTTP server its TLS configuration.
type Manager interface {
	// TLSConfig returns a tls.Config ready for use with http.Server.
	TLSConfig() (*tls.Config, error)

	// Description names the certificate source for startup logs.
	Description() string

	// Shutdown releases any resources held by the manager.
	Shutdown() error
}

// NewManager creates a certificate manager for the configured mode.
func NewManager(cfg Config, logger *slog.Logger) (Manager, error) {
	switch cfg.Mode {
	case ModeFile:
		return newFileManager(cfg, logger)
	case ModeAuto:
		return newAutoManager(cfg, logger)
	default:
		return nil, fmt.Errorf("unsupported TLS mode: %s (valid modes: file, auto)", cfg.Mode)
	}
}
