package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestLoadConfigFileDefaults(t *testing.T) {
	path := writeConfigFile(t, "app:\n  logLevel: warn\n")

	cfg, err := LoadConfigFile(path)
	require.NoError(t, err)

	assert.Equal(t, "warn", cfg.App.LogLevel)
	assert.Equal(t, "text", cfg.App.DefaultFormat)
	assert.Equal(t, 300.0, cfg.OCR.DPI)
	assert.Equal(t, 6, cfg.OCR.PageSegMode)
	assert.Equal(t, "eng", cfg.OCR.DefaultLanguage)
	assert.Equal(t, SupportedLanguages, cfg.OCR.Languages)
	assert.Equal(t, "Python, Machine Learning, SQL, AWS", cfg.Screening.DefaultKeywords)
	assert.Equal(t, "lexicon", cfg.Screening.SentimentEngine)
	assert.False(t, cfg.Cache.Enabled)
	assert.False(t, cfg.Server.TLS.Enabled())
	assert.NotEmpty(t, cfg.Observability.ServiceInstance)
}

func TestLoadConfigFileOverrides(t *testing.T) {
	path := writeConfigFile(t, `
ai:
  provider: openai
  model: gpt-4o-mini
  apiKey: file-key
  translate:
    model: gpt-4o
    temperature: 0.5
ocr:
  defaultLanguage: fra
  languages: [eng, fra]
  workers: 2
screening:
  sentimentEngine: ai
cache:
  enabled: true
  address: redis:6379
  ttl: 1h
`)
	t.Setenv(EnvPrefix+"_SERVER_PORT", "9999")

	cfg, err := LoadConfigFile(path)
	require.NoError(t, err)

	assert.Equal(t, "9999", cfg.Server.Port)
	assert.Equal(t, "fra", cfg.OCR.DefaultLanguage)
	assert.Equal(t, []string{"eng", "fra"}, cfg.OCR.Languages)
	assert.Equal(t, 2, cfg.OCR.Workers)
	assert.Equal(t, time.Hour, cfg.Cache.TTL)

	translate := cfg.GetTranslateConfig()
	assert.Equal(t, "openai", translate.Provider)
	assert.Equal(t, "gpt-4o", translate.Model)
	assert.Equal(t, "file-key", translate.APIKey)
	assert.InDelta(t, 0.5, *translate.Temperature, 1e-6)

	grammar := cfg.GetGrammarConfig()
	assert.Equal(t, "gpt-4o-mini", grammar.Model)
	assert.True(t, grammar.CircuitBreaker.Enabled)
	assert.True(t, *grammar.UseSystemPrompts)
}

func TestLoadConfigFileMissing(t *testing.T) {
	_, err := LoadConfigFile(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			AI:     AIConfig{Timeout: time.Minute},
			Server: ServerConfig{Port: "8080"},
			App: AppConfig{
				DefaultFormat:    "json",
				SupportedFormats: []string{"json", "text", "markdown"},
				MaxFileSize:      1024,
			},
			OCR: OCRConfig{
				DefaultLanguage: "eng",
				Languages:       []string{"eng", "deu"},
				DPI:             300,
				PageSegMode:     6,
				Workers:         1,
			},
			Screening: ScreeningConfig{SentimentEngine: "lexicon"},
		}
	}

	require.NoError(t, valid().Validate())

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"zero timeout", func(c *Config) { c.AI.Timeout = 0 }, "timeout"},
		{"no port", func(c *Config) { c.Server.Port = "" }, "port"},
		{"bad format", func(c *Config) { c.App.DefaultFormat = "xml" }, "default format"},
		{"zero dpi", func(c *Config) { c.OCR.DPI = 0 }, "dpi"},
		{"unsupported language", func(c *Config) { c.OCR.Languages = []string{"eng", "jpn"} }, "unsupported language"},
		{"default not enabled", func(c *Config) { c.OCR.DefaultLanguage = "ita" }, "not enabled"},
		{"bad psm", func(c *Config) { c.OCR.PageSegMode = 14 }, "pageSegMode"},
		{"bad engine", func(c *Config) { c.Screening.SentimentEngine = "vader" }, "sentiment engine"},
		{"cache without address", func(c *Config) { c.Cache.Enabled = true }, "cache address"},
		{"half tls", func(c *Config) { c.Server.TLS.CertFile = "cert.pem" }, "both certFile and keyFile"},
		{"bad tls version", func(c *Config) { c.Server.TLS.MinVersion = "1.1" }, "minVersion"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestApplyFallbacks(t *testing.T) {
	t.Setenv(EnvPrefix+"_SERVER_APIKEYS", " one, two ,,three ")
	t.Setenv("OPENAI_API_KEY", "sk-env")

	cfg := &Config{
		AI:            AIConfig{Provider: "openai"},
		OCR:           OCRConfig{DefaultLanguage: " FRA ", Languages: []string{"ENG, fra"}},
		Observability: ObservabilityConfig{ServiceName: "resumescreen"},
	}
	cfg.applyFallbacks()

	assert.Equal(t, []string{"one", "two", "three"}, cfg.Server.APIKeys)
	assert.Equal(t, "sk-env", cfg.AI.APIKey)
	assert.Equal(t, []string{"eng", "fra"}, cfg.OCR.Languages)
	assert.Equal(t, "fra", cfg.OCR.DefaultLanguage)
	assert.Contains(t, cfg.Observability.ServiceInstance, "resumescreen-")
}

func TestGetOperationConfigUnknown(t *testing.T) {
	cfg := &Config{AI: AIConfig{Provider: "gemini", Model: "gemini-2.0-flash", MaxRetries: 4}}

	op := cfg.GetOperationConfig("summarize")
	assert.Equal(t, "gemini", op.Provider)
	assert.Equal(t, 4, *op.MaxRetries)
}
