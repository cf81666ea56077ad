package cli

import (
	"context"
	"fmt"

	"resumescreen/internal/app"
	"resumescreen/internal/common"
	"resumescreen/internal/screener"
	"resumescreen/internal/types"

	"github.com/spf13/cobra"
)

var screenCmd = &cobra.Command{
	Use:   "screen [resume-file]",
	Short: "Screen a resume against job keywords",
	Long: `Extract the text of a resume (PDF, PNG, JPEG, DOCX or plain text) and report
the candidate's name, contact details, skills, keyword match score, suitable
roles, experience sentiment and formatting suggestions.

Manual --name, --skills, --education and --experience values replace the
extracted ones.`,
	Args: cobra.ExactArgs(1),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		if err := common.ValidateLanguage(screenOpts.lang); err != nil {
			return err
		}
		return resolveOutputFormat(cmd, &screenConfig)
	},
	RunE: runScreen,
}

var (
	screenConfig common.CommandConfig
	screenOpts   struct {
		lang        string
		keywords    string
		includeText bool
		resume      resumeFlags
	}
)

func init() {
	bindOutputFlags(screenCmd, &screenConfig)
	bindLanguageFlag(screenCmd, &screenOpts.lang)
	screenCmd.Flags().StringVar(&screenOpts.keywords, "keywords", "",
		fmt.Sprintf("Comma-separated job keywords (default from config, %q built in)", screener.DefaultKeywords))
	screenCmd.Flags().BoolVar(&screenOpts.includeText, "include-text", false, "Include the extracted text in the report")
	screenOpts.resume.bind(screenCmd)
}

func runScreen(cmd *cobra.Command, args []string) error {
	logger := getLoggerFromContext(cmd.Context())

	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer closeApp(a, logger)

	fileProcessor := common.NewFileProcessor(logger)

	createInput := func(args []string) (app.ScreenInput, error) {
		doc, err := fileProcessor.ReadDocument(args[0])
		if err != nil {
			return app.ScreenInput{}, err
		}
		in := app.ScreenInput{
			Document:    doc,
			Language:    screenOpts.lang,
			Manual:      screenOpts.resume.resume(),
			IncludeText: screenOpts.includeText,
		}
		if cmd.Flags().Changed("keywords") {
			in.Keywords = screener.ParseKeywords(screenOpts.keywords)
		}
		return in, nil
	}

	logDetails := func(in app.ScreenInput, cfg common.CommandConfig) {
		logger.Info("Starting resume screening",
			"file", in.Document.Name,
			"bytes", len(in.Document.Data),
			"language", in.Language,
			"output_format", cfg.OutputFormat)
	}

	screen := func(ctx context.Context, in app.ScreenInput) (*types.ScreenReport, error) {
		return a.Screen(ctx, in)
	}

	if err := common.RunCommand(cmd.Context(), logger, nil, screenConfig, args, createInput, screen, logDetails); err != nil {
		return fmt.Errorf("failed to screen resume: %w", err)
	}
	logger.Info("Resume screening completed successfully")
	return nil
}
