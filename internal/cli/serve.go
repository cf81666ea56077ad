package cli

import (
	"context"
	"fmt"
	"time"

	"resumescreen/internal/app"
	"resumescreen/internal/observability"
	"resumescreen/internal/server"

	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP screening server",
	Long: `Start an HTTP server exposing the screening operations.

Available endpoints:
- POST /screen: Screen an uploaded resume (multipart: file, lang, keywords, name, skills, education, experience)
- POST /cover-letter: Generate a cover letter (multipart: optional file, manual fields, role)
- POST /translate: Translate text (JSON: text, targetLanguage)
- POST /grammar: Check grammar (JSON: text)
- GET /health: Health check including AI model status
- GET /stats: Server statistics and rate limiting info

TLS is enabled when both --cert-file and --key-file (or server.tls in the
configuration) are set.`,
	RunE: runServe,
}

var serveOpts struct {
	host     string
	port     string
	certFile string
	keyFile  string
}

func init() {
	serveCmd.Flags().StringVarP(&serveOpts.port, "port", "p", "", "Port to listen on (default from config)")
	serveCmd.Flags().StringVar(&serveOpts.host, "host", "", "Host to bind to (default from config)")
	serveCmd.Flags().StringVar(&serveOpts.certFile, "cert-file", "", "Server certificate file (PEM, overrides config)")
	serveCmd.Flags().StringVar(&serveOpts.keyFile, "key-file", "", "Server private key file (PEM, overrides config)")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := getConfigFromContext(cmd.Context())
	logger := getLoggerFromContext(cmd.Context())

	if serveOpts.host != "" {
		cfg.Server.Host = serveOpts.host
	}
	if serveOpts.port != "" {
		cfg.Server.Port = serveOpts.port
	}
	if serveOpts.certFile != "" {
		cfg.Server.TLS.CertFile = serveOpts.certFile
	}
	if serveOpts.keyFile != "" {
		cfg.Server.TLS.KeyFile = serveOpts.keyFile
	}

	om, err := observability.NewObservabilityManager(observability.GetObservabilityConfig(cfg, Version), cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize observability: %w", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := om.Shutdown(ctx); err != nil {
			logger.LogError(err, "Failed to shutdown observability")
		}
	}()

	a, err := newApp(cmd, app.WithMetrics(om.GetMetrics()))
	if err != nil {
		return err
	}
	defer closeApp(a, logger)

	return server.NewServer(cfg, a, server.ConfigFrom(cfg, Version), om, logger).Start()
}
