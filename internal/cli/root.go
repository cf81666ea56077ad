package cli

import (
	"context"

	"resumescreen/internal/app"
	"resumescreen/internal/config"
	"resumescreen/internal/errors"

	"github.com/spf13/cobra"
)

// Define custom private types for context keys.
type configKeyType struct{}
type loggerKeyType struct{}

// Use variables of these types as the keys.
var configKey = configKeyType{}
var loggerKey = loggerKeyType{}

var rootCmd = &cobra.Command{
	Use:   "resumescreen",
	Short: "Screen resumes against job keywords and generate cover letters",
	Long: `Resumescreen reads a resume (PDF, image, DOCX or plain text), extracts its
text with OCR and reports the candidate's details, keyword match score, suitable
roles, experience sentiment and formatting advice. It can also generate a cover
letter and, with an AI provider configured, translate or grammar-check text.`,
	SilenceUsage: true,
}

// Execute runs the root command with cfg and logger available to every subcommand
func Execute(ctx context.Context, cfg *config.Config, logger *errors.Logger) error {
	ctx = context.WithValue(ctx, configKey, cfg)
	ctx = context.WithValue(ctx, loggerKey, logger)
	rootCmd.SetContext(ctx)
	return rootCmd.Execute()
}

// getConfigFromContext is a helper function to get config from context
func getConfigFromContext(ctx context.Context) *config.Config {
	if cfg, ok := ctx.Value(configKey).(*config.Config); ok {
		return cfg
	}
	panic("config not found in context") // Should not happen if properly initialized
}

// getLoggerFromContext is a helper function to get logger from context
func getLoggerFromContext(ctx context.Context) *errors.Logger {
	if logger, ok := ctx.Value(loggerKey).(*errors.Logger); ok {
		return logger
	}
	panic("logger not found in context") // Should not happen if properly initialized
}

// newApp builds the application facade for a one-shot command
func newApp(cmd *cobra.Command, opts ...app.Option) (*app.App, error) {
	ctx := cmd.Context()
	return app.New(ctx, getConfigFromContext(ctx), getLoggerFromContext(ctx), opts...)
}

func closeApp(a *app.App, logger *errors.Logger) {
	if err := a.Close(); err != nil {
		logger.LogError(err, "Failed to release application resources")
	}
}

func init() {
	rootCmd.AddCommand(screenCmd)
	rootCmd.AddCommand(coverLetterCmd)
	rootCmd.AddCommand(translateCmd)
	rootCmd.AddCommand(grammarCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(serveCmd)
}
