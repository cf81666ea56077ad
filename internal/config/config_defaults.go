package config

import (
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable override
const EnvPrefix = "RESUMESCREEN"

// SupportedLanguages are the tesseract language codes the OCR stage accepts
var SupportedLanguages = []string{"eng", "fra", "spa", "deu", "ita"}

// setDefaults sets the default configuration values
func setDefaults(v *viper.Viper) {
	// AI Configuration - Global defaults
	v.SetDefault("ai.provider", "gemini")
	v.SetDefault("ai.model", "gemini-2.0-flash")
	v.SetDefault("ai.timeout", 60*time.Second)
	v.SetDefault("ai.apiKey", "")
	v.SetDefault("ai.maxRetries", 3)
	v.SetDefault("ai.temperature", 0.7)
	v.SetDefault("ai.useSystemPrompts", true)

	// Sentiment scores must be stable across runs
	v.SetDefault("ai.sentiment.provider", "")
	v.SetDefault("ai.sentiment.model", "")
	v.SetDefault("ai.sentiment.timeout", 30*time.Second)
	v.SetDefault("ai.sentiment.maxRetries", 2)
	v.SetDefault("ai.sentiment.temperature", 0.0)

	v.SetDefault("ai.translate.provider", "")
	v.SetDefault("ai.translate.model", "")
	v.SetDefault("ai.translate.timeout", 60*time.Second)
	v.SetDefault("ai.translate.maxRetries", 2)
	v.SetDefault("ai.translate.temperature", 0.2)

	v.SetDefault("ai.grammar.provider", "")
	v.SetDefault("ai.grammar.model", "")
	v.SetDefault("ai.grammar.timeout", 60*time.Second)
	v.SetDefault("ai.grammar.maxRetries", 2)
	v.SetDefault("ai.grammar.temperature", 0.1)

	for _, op := range []string{"sentiment", "translate", "grammar"} {
		prefix := "ai." + op + ".circuitBreaker."
		v.SetDefault(prefix+"enabled", true)
		v.SetDefault(prefix+"maxRequests", 3)
		v.SetDefault(prefix+"interval", 60*time.Second)
		v.SetDefault(prefix+"timeout", 60*time.Second)
		v.SetDefault(prefix+"minRequests", 3)
		v.SetDefault(prefix+"failureThreshold", 0.6)
	}

	// Server Configuration
	v.SetDefault("server.host", "localhost")
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.readTimeout", 60*time.Second)
	v.SetDefault("server.writeTimeout", 120*time.Second) // OCR of long PDFs is slow
	v.SetDefault("server.idleTimeout", 120*time.Second)
	v.SetDefault("server.tls.certFile", "")
	v.SetDefault("server.tls.keyFile", "")
	v.SetDefault("server.tls.minVersion", "1.2")
	v.SetDefault("server.apiKeys", []string{})
	v.SetDefault("server.rateLimit.enabled", false)
	v.SetDefault("server.rateLimit.requestsPerMin", 30)
	v.SetDefault("server.rateLimit.burstCapacity", 5)
	v.SetDefault("server.rateLimit.byIP", true)
	v.SetDefault("server.rateLimit.byAPIKey", false)
	v.SetDefault("server.rateLimit.window", time.Minute)

	// App Configuration
	v.SetDefault("app.logLevel", "info")
	v.SetDefault("app.defaultFormat", "text")
	v.SetDefault("app.supportedFormats", []string{"json", "text", "markdown"})
	v.SetDefault("app.maxFileSize", 10*1024*1024) // 10MB, scanned PDFs are large

	// OCR Configuration
	v.SetDefault("ocr.defaultLanguage", "eng")
	v.SetDefault("ocr.languages", SupportedLanguages)
	v.SetDefault("ocr.dpi", 300)
	v.SetDefault("ocr.pageSegMode", 6)
	v.SetDefault("ocr.workers", 4)
	v.SetDefault("ocr.preferTextLayer", false)
	v.SetDefault("ocr.tessdataPrefix", "")

	// Screening Configuration
	v.SetDefault("screening.defaultKeywords", "Python, Machine Learning, SQL, AWS")
	v.SetDefault("screening.defaultRole", "Software Developer")
	v.SetDefault("screening.sentimentEngine", "lexicon")

	// Catalog Configuration
	v.SetDefault("catalog.file", "")
	v.SetDefault("catalog.watch", false)
	v.SetDefault("catalog.debounceDelay", time.Second)

	// Cache Configuration
	v.SetDefault("cache.enabled", false)
	v.SetDefault("cache.address", "localhost:6379")
	v.SetDefault("cache.password", "")
	v.SetDefault("cache.db", 0)
	v.SetDefault("cache.ttl", 24*time.Hour)
	v.SetDefault("cache.keyPrefix", "resumescreen:ocr:")

	// Vault Configuration
	v.SetDefault("vault.enabled", false)
	v.SetDefault("vault.address", "")
	v.SetDefault("vault.token", "")
	v.SetDefault("vault.tokenFile", "")
	v.SetDefault("vault.namespace", "")
	v.SetDefault("vault.secrets.apiKeys", "")
	v.SetDefault("vault.secrets.geminiKey", "")
	v.SetDefault("vault.secrets.openaiKey", "")

	// Observability Configuration
	v.SetDefault("observability.enabled", true)
	v.SetDefault("observability.serviceName", "resumescreen")
	v.SetDefault("observability.serviceVersion", "")  // Will use app version if empty
	v.SetDefault("observability.serviceInstance", "") // Will be auto-generated if empty
	v.SetDefault("observability.consoleOutput", false)
	v.SetDefault("observability.sampleRate", 1.0)

	v.SetDefault("observability.tracing.enabled", true)
	v.SetDefault("observability.tracing.sampleRate", 1.0)

	v.SetDefault("observability.metrics.enabled", true)
	v.SetDefault("observability.metrics.collectionInterval", 15*time.Second)

	v.SetDefault("observability.customMetrics.aiOperations.enabled", true)
	v.SetDefault("observability.customMetrics.aiOperations.trackDuration", true)
	v.SetDefault("observability.customMetrics.aiOperations.trackTokenUsage", true)
	v.SetDefault("observability.customMetrics.screening.enabled", true)
	v.SetDefault("observability.customMetrics.screening.trackExtraction", true)
	v.SetDefault("observability.customMetrics.screening.trackScores", true)
	v.SetDefault("observability.customMetrics.infrastructure.enabled", true)
	v.SetDefault("observability.customMetrics.infrastructure.trackRateLimits", true)
	v.SetDefault("observability.customMetrics.infrastructure.trackCatalogReloads", true)

	v.SetDefault("observability.console.enabled", false)
	v.SetDefault("observability.console.prettyPrint", true)

	v.SetDefault("observability.prometheus.enabled", true)
	v.SetDefault("observability.prometheus.endpoint", "/metrics")
	v.SetDefault("observability.prometheus.port", "9090")

	v.SetDefault("observability.otlp.enabled", false)
	v.SetDefault("observability.otlp.endpoint", "http://localhost:4318")
	v.SetDefault("observability.otlp.insecure", true)
	v.SetDefault("observability.otlp.headers", map[string]string{})

	v.SetDefault("observability.healthCheck.timeout", 15*time.Second)
	v.SetDefault("observability.healthCheck.aiModelCheckTimeout", 10*time.Second)
}
