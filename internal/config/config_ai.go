package config

// AI operation names, used for breaker names, metrics and prompt lookup
const (
	OperationSentiment = "sentiment"
	OperationTranslate = "translate"
	OperationGrammar   = "grammar"
)

// applyOperationDefaults applies global defaults to operation-specific configuration
func (c *Config) applyOperationDefaults(opCfg *OperationAIConfig) {
	if opCfg.Provider == "" {
		opCfg.Provider = c.AI.Provider
	}
	if opCfg.Model == "" {
		opCfg.Model = c.AI.Model
	}
	if opCfg.Timeout == nil {
		opCfg.Timeout = &c.AI.Timeout
	}
	if opCfg.APIKey == "" {
		opCfg.APIKey = c.AI.APIKey
	}
	if opCfg.MaxRetries == nil {
		opCfg.MaxRetries = &c.AI.MaxRetries
	}
	if opCfg.Temperature == nil {
		opCfg.Temperature = &c.AI.Temperature
	}
	// UseSystemPrompts: apply global default only if not explicitly set
	if opCfg.UseSystemPrompts == nil {
		opCfg.UseSystemPrompts = &c.AI.UseSystemPrompts
	}
}

// GetSentimentConfig returns the AI configuration for sentiment scoring with fallback to global config
func (c *Config) GetSentimentConfig() OperationAIConfig {
	config := c.AI.Sentiment
	c.applyOperationDefaults(&config)
	return config
}

// GetTranslateConfig returns the AI configuration for translation with fallback to global config
func (c *Config) GetTranslateConfig() OperationAIConfig {
	config := c.AI.Translate
	c.applyOperationDefaults(&config)
	return config
}

// GetGrammarConfig returns the AI configuration for grammar checks with fallback to global config
func (c *Config) GetGrammarConfig() OperationAIConfig {
	config := c.AI.Grammar
	c.applyOperationDefaults(&config)
	return config
}

// GetOperationConfig returns the configuration for a named operation.
// Unknown names get the global values.
func (c *Config) GetOperationConfig(operation string) OperationAIConfig {
	switch operation {
	case OperationSentiment:
		return c.GetSentimentConfig()
	case OperationTranslate:
		return c.GetTranslateConfig()
	case OperationGrammar:
		return c.GetGrammarConfig()
	}
	var config OperationAIConfig
	c.applyOperationDefaults(&config)
	return config
}

// operations lists each operation with a pointer into the loaded config,
// for passes that rewrite every operation in place.
func (c *Config) operations() map[string]*OperationAIConfig {
	return map[string]*OperationAIConfig{
		OperationSentiment: &c.AI.Sentiment,
		OperationTranslate: &c.AI.Translate,
		OperationGrammar:   &c.AI.Grammar,
	}
}
