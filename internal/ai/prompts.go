package ai

import (
	"fmt"

	"resumescreen/internal/config"
)

// SystemPrompts contains all system-level instructions for AI interactions
type SystemPrompts struct {
	Sentiment string
	Translate string
	Grammar   string
}

// UserPrompts contains user-level prompt templates. %[1]s is replaced by the
// text and %[2]s by the language, where the operation has one.
type UserPrompts struct {
	Sentiment string
	Translate string
	Grammar   string
}

// DefaultSystemPrompts provides the default system instructions
var DefaultSystemPrompts = SystemPrompts{
	Sentiment: `You are an HR analyst who rates the tone of resume experience sections.
You judge how positively the candidate describes their own work: achievements, ownership and impact
score high, complaints, failures and blame score low, and a plain list of duties is neutral.
You always answer with JSON.`,

	Translate: `You are a professional translator specialising in resumes and cover letters.
You translate faithfully, keep names, company names, product names and technical terms unchanged,
and preserve the line structure of the original. You never add or remove content.
You always answer with JSON.`,

	Grammar: `You are a meticulous proofreader for resumes.
You report grammar, spelling and punctuation problems only. Style preferences and content suggestions
are out of scope. You always answer with JSON.`,
}

// DefaultUserPrompts provides the default user prompt templates
var DefaultUserPrompts = UserPrompts{
	Sentiment: `Rate the sentiment of the following resume experience section.

Return a JSON object with a single field "score": a number between -1 (very negative) and 1 (very positive).
Use 0 for neutral text.

**Experience:**
-----
%[1]s
-----`,

	Translate: `Translate the following resume text into %[2]s.

Return a JSON object with a single field "text" holding the translation.

**Text:**
-----
%[1]s
-----`,

	Grammar: `Check the following resume text for grammar, spelling and punctuation issues.
The text language is: %[2]s.

Return a JSON object with a field "issues": an array of objects, each with "message" (what is wrong),
"context" (the offending fragment, copied verbatim) and "suggestions" (an array of replacements).
Return an empty array when the text has no issues.

**Text:**
-----
%[1]s
-----`,
}

// promptsFor returns the default system and user prompt of an operation.
func promptsFor(operation string) (system, user string) {
	switch operation {
	case config.OperationSentiment:
		return DefaultSystemPrompts.Sentiment, DefaultUserPrompts.Sentiment
	case config.OperationTranslate:
		return DefaultSystemPrompts.Translate, DefaultUserPrompts.Translate
	case config.OperationGrammar:
		return DefaultSystemPrompts.Grammar, DefaultUserPrompts.Grammar
	default:
		return "", ""
	}
}

// buildPrompts resolves the prompts for operation, preferring the configured
// ones, and fills the user template with args.
func buildPrompts(cfg *config.OperationAIConfig, operation string, args ...any) (string, string) {
	defaultSystem, defaultUser := promptsFor(operation)
	systemPrompt := resolvePrompt(cfg.Prompts.System, defaultSystem)
	userPrompt := resolvePrompt(cfg.Prompts.User, defaultUser)
	return systemPrompt, fmt.Sprintf(userPrompt, args...)
}

// resolvePrompt returns the configured prompt when set. File-based prompts
// have already replaced the inline value during config loading.
func resolvePrompt(fromConfig, fromDefault string) string {
	if fromConfig != "" {
		return fromConfig
	}
	return fromDefault
}
