package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadPromptsFromFiles(t *testing.T) {
	tempDir := t.TempDir()

	systemPromptContent := "Test system prompt for grammar checks"
	userPromptContent := "Check this text written in %[2]s:\n%[1]s"

	systemPromptFile := filepath.Join(tempDir, "system.grammar.md")
	userPromptFile := filepath.Join(tempDir, "user.grammar.md")
	require.NoError(t, os.WriteFile(systemPromptFile, []byte("\n"+systemPromptContent+"\n\n"), 0600))
	require.NoError(t, os.WriteFile(userPromptFile, []byte(userPromptContent), 0600))

	config := &Config{
		AI: AIConfig{
			Grammar: OperationAIConfig{
				Prompts: PromptConfig{
					System:     "inline prompt loses to the file",
					SystemFile: systemPromptFile,
					UserFile:   userPromptFile,
				},
			},
			Translate: OperationAIConfig{
				Prompts: PromptConfig{System: "inline translate prompt"},
			},
		},
	}

	require.NoError(t, config.validatePromptFiles())
	require.NoError(t, config.loadPromptsFromFiles())

	assert.Equal(t, systemPromptContent, config.AI.Grammar.Prompts.System)
	assert.Equal(t, userPromptContent, config.AI.Grammar.Prompts.User)
	assert.Equal(t, "inline translate prompt", config.AI.Translate.Prompts.System)
	assert.Empty(t, config.AI.Sentiment.Prompts.System)
}

func TestValidatePromptFilesMissing(t *testing.T) {
	config := &Config{
		AI: AIConfig{
			Sentiment: OperationAIConfig{
				Prompts: PromptConfig{SystemFile: "/nonexistent/system.md"},
			},
			Translate: OperationAIConfig{
				Prompts: PromptConfig{UserFile: "/nonexistent/user.md"},
			},
		},
	}

	err := config.validatePromptFiles()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "system sentiment prompt file not found")
	assert.Contains(t, err.Error(), "user translate prompt file not found")
}

func TestLoadPromptFromFileEmpty(t *testing.T) {
	file := filepath.Join(t.TempDir(), "empty.md")
	require.NoError(t, os.WriteFile(file, []byte("  \n\t\n"), 0600))

	_, err := loadPromptFromFile(file, "system", OperationSentiment)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "is empty")
}
