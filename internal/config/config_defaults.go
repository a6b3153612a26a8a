package config

import (
	"time"

	"github.com/spf13/viper"
)

// operationDefaults captures the per-operation tuning applied when the user
// does not override an operation in configuration.
type operationDefaults struct {
	timeout     time.Duration
	maxRetries  int
	temperature float32
}

// opDefaults tunes each AI operation. Deterministic extraction and review
// operations run cold; creative operations (planning, section copy, advice)
// run warmer. Code generation gets the longest timeout since it produces the
// largest outputs.
var opDefaults = map[string]operationDefaults{
	OpParseResume:  {timeout: 60 * time.Second, maxRetries: 3, temperature: 0.1},
	OpPlanSite:     {timeout: 60 * time.Second, maxRetries: 2, temperature: 0.7},
	OpSection:      {timeout: 60 * time.Second, maxRetries: 2, temperature: 0.6},
	OpCodegen:      {timeout: 180 * time.Second, maxRetries: 2, temperature: 0.3},
	OpReview:       {timeout: 90 * time.Second, maxRetries: 2, temperature: 0.1},
	OpMatchAdvice:  {timeout: 75 * time.Second, maxRetries: 2, temperature: 0.4},
	OpQuestions:    {timeout: 60 * time.Second, maxRetries: 2, temperature: 0.7},
	OpChatRespond:  {timeout: 45 * time.Second, maxRetries: 2, temperature: 0.5},
	OpAssessAnswer: {timeout: 75 * time.Second, maxRetries: 2, temperature: 0.2},
}

// setDefaults sets the default configuration values
func setDefaults(v *viper.Viper) {
	// AI Configuration - Global defaults
	v.SetDefault("ai.provider", "gemini")
	v.SetDefault("ai.model", "gemini-2.0-flash")
	v.SetDefault("ai.embeddingModel", "gemini-embedding-001")
	v.SetDefault("ai.timeout", 60*time.Second)
	v.SetDefault("ai.apiKey", "")
	v.SetDefault("ai.maxRetries", 3)
	v.SetDefault("ai.temperature", 0.7)
	v.SetDefault("ai.useSystemPrompts", true)

	// AI Configuration - Per-operation defaults
	for _, op := range Operations {
		d := opDefaults[op]
		v.SetDefault("ai.operations."+op+".provider", "gemini")
		v.SetDefault("ai.operations."+op+".model", "")
		v.SetDefault("ai.operations."+op+".timeout", d.timeout)
		v.SetDefault("ai.operations."+op+".apiKey", "")
		v.SetDefault("ai.operations."+op+".maxRetries", d.maxRetries)
		v.SetDefault("ai.operations."+op+".temperature", d.temperature)
		v.SetDefault("ai.operations."+op+".useSystemPrompts", true)

		v.SetDefault("ai.operations."+op+".circuitBreaker.enabled", true)
		v.SetDefault("ai.operations."+op+".circuitBreaker.maxRequests", 3)
		v.SetDefault("ai.operations."+op+".circuitBreaker.interval", 60*time.Second)
		v.SetDefault("ai.operations."+op+".circuitBreaker.timeout", 60*time.Second)
		v.SetDefault("ai.operations."+op+".circuitBreaker.minRequests", 3)
		v.SetDefault("ai.operations."+op+".circuitBreaker.failureThreshold", 0.6)
	}

	// Server Configuration
	v.SetDefault("server.host", "localhost")
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.readTimeout", 30*time.Second)
	v.SetDefault("server.writeTimeout", 30*time.Second)
	v.SetDefault("server.idleTimeout", 120*time.Second)

	// TLS Configuration defaults
	v.SetDefault("server.tls.mode", "disabled") // disabled, server, mutual
	v.SetDefault("server.tls.certFile", "")
	v.SetDefault("server.tls.keyFile", "")
	v.SetDefault("server.tls.caFile", "")
	v.SetDefault("server.tls.minVersion", "1.2")
	v.SetDefault("server.tls.clientAuthPolicy", "require") // require, request, verify

	// API Authentication defaults
	v.SetDefault("server.apiKeys", []string{})

	// Rate limiting defaults
	v.SetDefault("server.rateLimit.enabled", false)
	v.SetDefault("server.rateLimit.requestsPerMin", 60)
	v.SetDefault("server.rateLimit.burstCapacity", 10)
	v.SetDefault("server.rateLimit.byIP", true)
	v.SetDefault("server.rateLimit.byAPIKey", false)
	v.SetDefault("server.rateLimit.window", time.Minute)

	// App Configuration
	v.SetDefault("app.logLevel", "info")
	v.SetDefault("app.defaultFormat", "json")
	v.SetDefault("app.supportedFormats", []string{"json", "text", "markdown"})
	v.SetDefault("app.maxFileSize", 1024*1024) // 1MB

	// Redis Configuration
	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.url", "redis://localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.keyPrefix", "careerpilot")
	v.SetDefault("redis.dialTimeout", 5*time.Second)

	// RAG Configuration
	v.SetDefault("rag.knowledgeBaseDir", "./knowledge_base")
	v.SetDefault("rag.indexPath", "./data/kb.index")
	v.SetDefault("rag.chunkSize", 1000)
	v.SetDefault("rag.chunkOverlap", 200)
	v.SetDefault("rag.topK", 4)
	v.SetDefault("rag.historyWindow", 10)
	v.SetDefault("rag.watch", false)
	v.SetDefault("rag.watchDebounce", 2*time.Second)

	// Portfolio Configuration
	v.SetDefault("portfolio.outputDir", "./generated_projects")
	v.SetDefault("portfolio.maxValidationAttempts", 3)
	v.SetDefault("portfolio.maxWorkflowSteps", 50)

	// Background task manager Configuration
	v.SetDefault("background.workers", 4)
	v.SetDefault("background.queueSize", 64)
	v.SetDefault("background.resultTTL", time.Hour)

	// Vault Configuration
	v.SetDefault("vault.enabled", false)
	v.SetDefault("vault.address", "")
	v.SetDefault("vault.token", "")
	v.SetDefault("vault.tokenFile", "")
	v.SetDefault("vault.namespace", "")
	v.SetDefault("vault.secrets.apiKeys", "")
	v.SetDefault("vault.secrets.geminiKey", "")
	v.SetDefault("vault.secrets.redisPassword", "")

	// Observability Configuration
	v.SetDefault("observability.enabled", true)
	v.SetDefault("observability.serviceName", "careerpilot")
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
	v.SetDefault("observability.customMetrics.aiOperations.trackModelInfo", true)
	v.SetDefault("observability.customMetrics.businessMetrics.enabled", true)
	v.SetDefault("observability.customMetrics.businessMetrics.trackSuccessRates", true)
	v.SetDefault("observability.customMetrics.businessMetrics.trackContentSizes", true)
	v.SetDefault("observability.customMetrics.infrastructure.enabled", true)
	v.SetDefault("observability.customMetrics.infrastructure.trackRateLimits", true)
	v.SetDefault("observability.customMetrics.infrastructure.trackTaskQueue", true)

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
