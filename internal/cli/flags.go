package cli

import (
	"strings"

	"resumescreen/internal/common"
	"resumescreen/internal/types"

	"github.com/spf13/cobra"
)

// resumeFlags are the manual overrides shared by screen and cover-letter
type resumeFlags struct {
	name       string
	skills     string
	education  string
	experience string
}

func (f *resumeFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.name, "name", "", "Candidate name (overrides the extracted value)")
	cmd.Flags().StringVar(&f.skills, "skills", "", "Comma-separated skills (overrides the extracted value)")
	cmd.Flags().StringVar(&f.education, "education", "", "Education (overrides the extracted value)")
	cmd.Flags().StringVar(&f.experience, "experience", "", "Experience (overrides the extracted value)")
}

func (f *resumeFlags) resume() types.ParsedResume {
	return types.ParsedResume{
		Name:       strings.TrimSpace(f.name),
		Skills:     strings.TrimSpace(f.skills),
		Education:  strings.TrimSpace(f.education),
		Experience: strings.TrimSpace(f.experience),
	}
}

// bindOutputFlags registers -o and --format on a formatted-output command
func bindOutputFlags(cmd *cobra.Command, cfg *common.CommandConfig) {
	cmd.Flags().StringVarP(&cfg.OutputFile, "output", "o", "", "Output file path (default: stdout)")
	cmd.Flags().StringVar(&cfg.OutputFormat, "format", "", "Output format: json, text, or markdown")

	_ = cmd.RegisterFlagCompletionFunc("format", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return getConfigFromContext(cmd.Context()).App.SupportedFormats, cobra.ShellCompDirectiveNoFileComp
	})
}

// resolveOutputFormat applies the configured default format and validates it
func resolveOutputFormat(cmd *cobra.Command, cfg *common.CommandConfig) error {
	appCfg := getConfigFromContext(cmd.Context())
	if cfg.OutputFormat == "" {
		cfg.OutputFormat = appCfg.App.DefaultFormat
	}
	return common.ValidateOutputFormat(cfg.OutputFormat, appCfg.App.SupportedFormats)
}

// bindLanguageFlag registers --lang with completion of the OCR languages
func bindLanguageFlag(cmd *cobra.Command, target *string) {
	cmd.Flags().StringVar(target, "lang", "", "OCR language: eng, fra, spa, deu or ita (default from config)")
	_ = cmd.RegisterFlagCompletionFunc("lang", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return common.LanguageCodes(), cobra.ShellCompDirectiveNoFileComp
	})
}
