package config

import (
	"fmt"
	"os"
	"strings"

	"resumescreen/internal/errors"

	"github.com/hashicorp/vault/api"
)

// VaultConfig holds Vault connection configuration
type VaultConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Address   string `mapstructure:"address"`
	Token     string `mapstructure:"token"`
	TokenFile string `mapstructure:"tokenFile"`
	Namespace string `mapstructure:"namespace"`

	Secrets VaultSecrets `mapstructure:"secrets"`
}

// VaultSecrets holds the KVv2 paths secrets are read from. Server API keys
// live under the "keys" field as one comma-separated string; provider keys
// live under "api_key".
type VaultSecrets struct {
	APIKeys   string `mapstructure:"apiKeys"`
	GeminiKey string `mapstructure:"geminiKey"`
	OpenAIKey string `mapstructure:"openaiKey"`
}

// VaultClient reads string secrets from a KVv2 engine.
type VaultClient struct {
	client *api.Client
	logger *errors.Logger
}

// NewVaultClient connects to Vault and checks its health. It returns a nil
// client when Vault is disabled.
func NewVaultClient(cfg VaultConfig, logger *errors.Logger) (*VaultClient, error) {
	if logger == nil {
		logger = errors.NewNopLogger()
	}
	if !cfg.Enabled {
		logger.Debug("Vault integration disabled")
		return nil, nil
	}

	apiCfg := api.DefaultConfig()
	if cfg.Address != "" {
		apiCfg.Address = cfg.Address
	}
	client, err := api.NewClient(apiCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create vault client: %w", err)
	}
	if cfg.Namespace != "" {
		client.SetNamespace(cfg.Namespace)
	}

	token, err := resolveVaultToken(cfg, logger)
	if err != nil {
		return nil, err
	}
	client.SetToken(token)

	health, err := client.Sys().Health()
	if err != nil {
		logger.LogError(err, "Failed to connect to Vault", "address", apiCfg.Address)
		return nil, fmt.Errorf("failed to connect to vault: %w", err)
	}
	logger.Info("Connected to Vault",
		"address", apiCfg.Address,
		"version", health.Version,
		"sealed", health.Sealed)

	return &VaultClient{client: client, logger: logger}, nil
}

// resolveVaultToken prefers the configured token over the token file.
func resolveVaultToken(cfg VaultConfig, logger *errors.Logger) (string, error) {
	token := cfg.Token
	if token == "" && cfg.TokenFile != "" {
		raw, err := os.ReadFile(cfg.TokenFile)
		if err != nil {
			logger.LogError(err, "Failed to read Vault token file", "file", cfg.TokenFile)
			return "", fmt.Errorf("failed to read vault token file: %w", err)
		}
		token = strings.TrimSpace(string(raw))
	}
	if token == "" {
		return "", fmt.Errorf("vault token is required when vault is enabled")
	}
	return token, nil
}

// readKV returns the data map of the KVv2 secret at path.
func (vc *VaultClient) readKV(path string) (map[string]any, error) {
	secret, err := vc.client.Logical().Read(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read secret from %s: %w", path, err)
	}
	if secret == nil || secret.Data == nil {
		return nil, fmt.Errorf("secret not found at path: %s", path)
	}
	data, ok := secret.Data["data"].(map[string]any)
	if !ok {
		return nil, fmt.Errorf("secret at %s is not in KVv2 format (missing 'data' field)", path)
	}
	return data, nil
}

// GetStringSecret returns the string stored under key in the secret at path.
func (vc *VaultClient) GetStringSecret(path, key string) (string, error) {
	data, err := vc.readKV(path)
	if err != nil {
		return "", err
	}
	raw, ok := data[key]
	if !ok {
		return "", fmt.Errorf("key '%s' not found in secret %s", key, path)
	}
	value, ok := raw.(string)
	if !ok {
		return "", fmt.Errorf("value for key '%s' is not a string in secret %s", key, path)
	}
	vc.logger.Debug("Secret read from Vault", "path", path, "key", key, "masked_value", maskSecret(value))
	return value, nil
}

func maskSecret(s string) string {
	switch {
	case len(s) > 8:
		return s[:4] + "****" + s[len(s)-4:]
	case s != "":
		return "****"
	}
	return ""
}

// ApplyVaultSecrets overrides server API keys and AI provider keys with the
// values stored in Vault. Paths left empty are skipped.
func ApplyVaultSecrets(cfg *Config, logger *errors.Logger) error {
	if logger == nil {
		logger = errors.NewNopLogger()
	}
	if !cfg.Vault.Enabled {
		logger.Debug("Vault integration disabled, skipping secret loading")
		return nil
	}

	client, err := NewVaultClient(cfg.Vault, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize vault client: %w", err)
	}

	if path := cfg.Vault.Secrets.APIKeys; path != "" {
		raw, err := client.GetStringSecret(path, "keys")
		if err != nil {
			return fmt.Errorf("failed to load API keys from vault: %w", err)
		}
		if keys := splitList(raw); len(keys) > 0 {
			cfg.Server.APIKeys = keys
			logger.Info("API keys loaded from Vault", "count", len(keys))
		} else {
			logger.Warn("No API keys found in Vault", "path", path)
		}
	}

	providers := []struct{ name, path string }{
		{"gemini", cfg.Vault.Secrets.GeminiKey},
		{"openai", cfg.Vault.Secrets.OpenAIKey},
	}
	for _, p := range providers {
		if p.path == "" {
			continue
		}
		key, err := client.GetStringSecret(p.path, "api_key")
		if err != nil {
			return fmt.Errorf("failed to load %s API key from vault: %w", p.name, err)
		}
		if key == "" {
			logger.Warn("Empty AI provider key found in Vault", "provider", p.name, "path", p.path)
			continue
		}
		applied := applyProviderKeyToConfig(cfg, p.name, key)
		logger.Info("AI provider key loaded from Vault", "provider", p.name, "applied_to", applied)
	}
	return nil
}

// applyProviderKeyToConfig sets key on the global AI config when provider is
// the global provider, and on every operation that selects provider
// explicitly without its own key. It returns the sections that received it.
func applyProviderKeyToConfig(cfg *Config, provider, key string) []string {
	var applied []string
	if cfg.AI.Provider == provider {
		cfg.AI.APIKey = key
		applied = append(applied, "global")
	}

	ops := cfg.operations()
	for _, name := range []string{OperationSentiment, OperationTranslate, OperationGrammar} {
		op := ops[name]
		if op.Provider == provider && op.APIKey == "" {
			op.APIKey = key
			applied = append(applied, name)
		}
	}
	return applied
}
