package cli

import (
	"context"
	"fmt"

	"resumescreen/internal/common"
	"resumescreen/internal/types"

	"github.com/spf13/cobra"
)

var translateCmd = &cobra.Command{
	Use:   "translate [text-file]",
	Short: "Translate text with the configured AI provider",
	Args:  cobra.ExactArgs(1),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		return resolveOutputFormat(cmd, &translateConfig)
	},
	RunE: runTranslate,
}

var (
	translateConfig common.CommandConfig
	translateTo     string
)

func init() {
	bindOutputFlags(translateCmd, &translateConfig)
	translateCmd.Flags().StringVar(&translateTo, "to", "", "Target language, e.g. French or fra")
	_ = translateCmd.MarkFlagRequired("to")
}

func runTranslate(cmd *cobra.Command, args []string) error {
	logger := getLoggerFromContext(cmd.Context())

	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer closeApp(a, logger)

	fileProcessor := common.NewFileProcessor(logger)

	createInput := func(args []string) (*types.TranslateInput, error) {
		text, err := fileProcessor.ReadText(args[0])
		if err != nil {
			return nil, err
		}
		return &types.TranslateInput{Text: text, TargetLanguage: translateTo}, nil
	}

	logDetails := func(in *types.TranslateInput, cfg common.CommandConfig) {
		logger.Info("Starting translation",
			"chars", len(in.Text),
			"target_language", in.TargetLanguage,
			"output_format", cfg.OutputFormat)
	}

	translate := func(ctx context.Context, in *types.TranslateInput) (*types.TranslationResult, error) {
		return a.Translate(ctx, in)
	}

	if err := common.RunCommand(cmd.Context(), logger, nil, translateConfig, args, createInput, translate, logDetails); err != nil {
		return fmt.Errorf("failed to translate text: %w", err)
	}
	return nil
}
