package server

import (
	"crypto/tls"
	"fmt"
	"net/http"
)

// configureTLS loads the certificate pair into httpServer when TLS is
// configured. The files are read once at startup.
func (s *Server) configureTLS(httpServer *http.Server) error {
	if !s.TLSConfig.Enabled() {
		fmt.Printf("Starting server on http://%s\n", httpServer.Addr)
		fmt.Println("TLS: Disabled (HTTP only)")
		return nil
	}

	tlsConfig, err := s.buildTLSConfig()
	if err != nil {
		return fmt.Errorf("failed to set up TLS: %w", err)
	}
	httpServer.TLSConfig = tlsConfig

	fmt.Printf("Starting server with HTTPS on https://%s\n", httpServer.Addr)
	return nil
}

// buildTLSConfig creates the server TLS configuration
func (s *Server) buildTLSConfig() (*tls.Config, error) {
	cert, err := tls.LoadX509KeyPair(s.TLSConfig.CertFile, s.TLSConfig.KeyFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load certificate %s: %w", s.TLSConfig.CertFile, err)
	}

	minVersion, err := tlsVersion(s.TLSConfig.MinVersion)
	if err != nil {
		return nil, err
	}

	return &tls.Config{
		Certificates: []tls.Certificate{cert},
		MinVersion:   minVersion,
	}, nil
}

// tlsVersion parses a minimum TLS version, defaulting to 1.2
func tlsVersion(v string) (uint16, error) {
	switch v {
	case "", "1.2":
		return tls.VersionTLS12, nil
	case "1.3":
		return tls.VersionTLS13, nil
	default:
		return 0, fmt.Errorf("unsupported TLS minimum version %q (must be 1.2 or 1.3)", v)
	}
}
