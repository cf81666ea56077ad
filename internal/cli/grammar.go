package cli

import (
	"context"
	"fmt"

	"resumescreen/internal/common"
	"resumescreen/internal/types"

	"github.com/spf13/cobra"
)

var grammarCmd = &cobra.Command{
	Use:   "grammar [text-file]",
	Short: "Check grammar with the configured AI provider",
	Args:  cobra.ExactArgs(1),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		return resolveOutputFormat(cmd, &grammarConfig)
	},
	RunE: runGrammar,
}

var (
	grammarConfig   common.CommandConfig
	grammarLanguage string
)

func init() {
	bindOutputFlags(grammarCmd, &grammarConfig)
	grammarCmd.Flags().StringVar(&grammarLanguage, "language", "", "Language of the text (default: auto-detect)")
}

func runGrammar(cmd *cobra.Command, args []string) error {
	logger := getLoggerFromContext(cmd.Context())

	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer closeApp(a, logger)

	fileProcessor := common.NewFileProcessor(logger)

	createInput := func(args []string) (*types.GrammarCheckInput, error) {
		text, err := fileProcessor.ReadText(args[0])
		if err != nil {
			return nil, err
		}
		return &types.GrammarCheckInput{Text: text, Language: grammarLanguage}, nil
	}

	logDetails := func(in *types.GrammarCheckInput, cfg common.CommandConfig) {
		logger.Info("Starting grammar check", "chars", len(in.Text), "output_format", cfg.OutputFormat)
	}

	check := func(ctx context.Context, in *types.GrammarCheckInput) (*types.GrammarReport, error) {
		return a.CheckGrammar(ctx, in)
	}

	if err := common.RunCommand(cmd.Context(), logger, nil, grammarConfig, args, createInput, check, logDetails); err != nil {
		return fmt.Errorf("failed to check grammar: %w", err)
	}
	return nil
}
