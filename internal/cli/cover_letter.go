package cli

import (
	"fmt"

	"resumescreen/internal/app"
	"resumescreen/internal/common"
	"resumescreen/internal/screener"

	"github.com/spf13/cobra"
)

var coverLetterCmd = &cobra.Command{
	Use:   "cover-letter [resume-file]",
	Short: "Generate a cover letter",
	Long: `Generate a plain text cover letter for a role. The name, skills, education
and experience come from the flags, falling back to the values extracted from
the optional resume file. The command fails naming every field that is still
missing.

The letter is written to cover_letter.txt unless -o is given; use -o - for
stdout.`,
	Args: cobra.MaximumNArgs(1),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		return common.ValidateLanguage(coverLetterOpts.lang)
	},
	RunE: runCoverLetter,
}

var coverLetterOpts struct {
	lang   string
	role   string
	output string
	resume resumeFlags
}

func init() {
	bindLanguageFlag(coverLetterCmd, &coverLetterOpts.lang)
	coverLetterCmd.Flags().StringVar(&coverLetterOpts.role, "role", "",
		fmt.Sprintf("Target role (default from config, %q built in)", screener.DefaultRole))
	coverLetterCmd.Flags().StringVarP(&coverLetterOpts.output, "output", "o", screener.CoverLetterFilename,
		"Output file path, - for stdout")
	coverLetterOpts.resume.bind(coverLetterCmd)
}

func runCoverLetter(cmd *cobra.Command, args []string) error {
	logger := getLoggerFromContext(cmd.Context())

	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer closeApp(a, logger)

	in := app.CoverLetterInput{
		Language: coverLetterOpts.lang,
		Manual:   coverLetterOpts.resume.resume(),
		Role:     coverLetterOpts.role,
	}
	if len(args) == 1 {
		doc, err := common.NewFileProcessor(logger).ReadDocument(args[0])
		if err != nil {
			return err
		}
		in.Document = doc
	}

	letter, err := a.CoverLetter(cmd.Context(), in)
	if err != nil {
		return fmt.Errorf("failed to generate cover letter: %w", err)
	}

	output := coverLetterOpts.output
	if output == "-" {
		output = ""
	}
	if err := common.NewOutputHandler(logger).WriteRaw(letter.Content+"\n", output); err != nil {
		return err
	}
	logger.Info("Cover letter generated", "role", letter.Role, "file", output)
	return nil
}
