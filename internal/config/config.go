package config

import (
	"fmt"
	"log"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// AI operation names. Every LLM call in the application is attributed to one
// of these operations and can be tuned independently in configuration.
const (
	OpParseResume  = "parse"
	OpPlanSite     = "plan"
	OpSection      = "section"
	OpCodegen      = "codegen"
	OpReview       = "review"
	OpMatchAdvice  = "advise"
	OpQuestions    = "questions"
	OpChatRespond  = "respond"
	OpAssessAnswer = "assess"
)

// Operations lists every known AI operation name.
var Operations = []string{
	OpParseResume, OpPlanSite, OpSection, OpCodegen, OpReview,
	OpMatchAdvice, OpQuestions, OpChatRespond, OpAssessAnswer,
}

// Config holds all application configuration
// API Key Precedence Order:
// 1. Vault (if configured) - Highest priority
// 2. Config File values
// 3. Environment Variables (CAREERPILOT_AI_APIKEY, etc.)
// 4. Default values - Lowest priority
type Config struct {
	AI            AIConfig            `mapstructure:"ai"`
	Server        ServerConfig        `mapstructure:"server"`
	App           AppConfig           `mapstructure:"app"`
	Redis         RedisConfig         `mapstructure:"redis"`
	RAG           RAGConfig           `mapstructure:"rag"`
	Portfolio     PortfolioConfig     `mapstructure:"portfolio"`
	Background    BackgroundConfig    `mapstructure:"background"`
	Vault         VaultConfig         `mapstructure:"vault"`
	Observability ObservabilityConfig `mapstructure:"observability"`
}

// AIConfig holds AI service configuration. The top-level fields are global
// fallbacks; Operations carries per-operation overrides keyed by operation
// name (parse, plan, section, codegen, review, advise, questions, respond,
// assess).
type AIConfig struct {
	Provider         string        `mapstructure:"provider"`
	Model            string        `mapstructure:"model"`
	EmbeddingModel   string        `mapstructure:"embeddingModel"`
	Timeout          time.Duration `mapstructure:"timeout"`
	APIKey           string        `mapstructure:"apiKey"`
	MaxRetries       int           `mapstructure:"maxRetries"`
	Temperature      float32       `mapstructure:"temperature"`
	UseSystemPrompts bool          `mapstructure:"useSystemPrompts"`

	Operations map[string]OperationAIConfig `mapstructure:"operations"`
}

// OperationAIConfig holds AI configuration for a specific operation.
// Pointer fields distinguish "unset" from explicit zero values so the global
// fallbacks can be applied.
type OperationAIConfig struct {
	Provider         string               `mapstructure:"provider"`
	Model            string               `mapstructure:"model"`
	Timeout          *time.Duration       `mapstructure:"timeout"`
	APIKey           string               `mapstructure:"apiKey"`
	MaxRetries       *int                 `mapstructure:"maxRetries"`
	Temperature      *float32             `mapstructure:"temperature"`
	UseSystemPrompts *bool                `mapstructure:"useSystemPrompts"`
	Prompts          PromptConfig         `mapstructure:"prompts"`
	CircuitBreaker   CircuitBreakerConfig `mapstructure:"circuitBreaker"`
}

// PromptConfig holds customizable prompts for one operation. File-based
// prompts take priority over inline ones.
type PromptConfig struct {
	System     string `mapstructure:"system"`
	SystemFile string `mapstructure:"systemFile"`
	User       string `mapstructure:"user"`
	UserFile   string `mapstructure:"userFile"`
}

// CircuitBreakerConfig represents circuit breaker configuration
type CircuitBreakerConfig struct {
	Enabled          bool          `mapstructure:"enabled"`
	MaxRequests      uint32        `mapstructure:"maxRequests"`      // Max requests allowed when half-open
	Interval         time.Duration `mapstructure:"interval"`         // Interval to clear counts
	Timeout          time.Duration `mapstructure:"timeout"`          // Timeout for half-open to open
	MinRequests      uint32        `mapstructure:"minRequests"`      // Minimum requests before tripping
	FailureThreshold float64       `mapstructure:"failureThreshold"` // Failure ratio threshold (0.0-1.0)
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host         string        `mapstructure:"host"`
	Port         string        `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"readTimeout"`
	WriteTimeout time.Duration `mapstructure:"writeTimeout"`
	IdleTimeout  time.Duration `mapstructure:"idleTimeout"`

	TLS TLSConfig `mapstructure:"tls"`

	// API Authentication
	APIKeys []string `mapstructure:"apiKeys"`

	RateLimit RateLimitConfig `mapstructure:"rateLimit"`
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	Enabled        bool          `mapstructure:"enabled"`
	RequestsPerMin int           `mapstructure:"requestsPerMin"`
	BurstCapacity  int           `mapstructure:"burstCapacity"`
	ByIP           bool          `mapstructure:"byIP"`
	ByAPIKey       bool          `mapstructure:"byAPIKey"`
	Window         time.Duration `mapstructure:"window"`
}

// AppConfig holds general application configuration
type AppConfig struct {
	LogLevel         string   `mapstructure:"logLevel"`
	DefaultFormat    string   `mapstructure:"defaultFormat"`
	SupportedFormats []string `mapstructure:"supportedFormats"`
	MaxFileSize      int64    `mapstructure:"maxFileSize"`
}

// RedisConfig holds Redis connection configuration. Redis backs chat
// sessions, conversation history, and (optionally) the background task store.
type RedisConfig struct {
	Enabled     bool          `mapstructure:"enabled"`
	URL         string        `mapstructure:"url"`
	Password    string        `mapstructure:"password"`
	DB          int           `mapstructure:"db"`
	KeyPrefix   string        `mapstructure:"keyPrefix"`
	DialTimeout time.Duration `mapstructure:"dialTimeout"`
}

// RAGConfig holds retrieval configuration for the interview-prep chatbot
type RAGConfig struct {
	KnowledgeBaseDir string        `mapstructure:"knowledgeBaseDir"`
	IndexPath        string        `mapstructure:"indexPath"`
	ChunkSize        int           `mapstructure:"chunkSize"`
	ChunkOverlap     int           `mapstructure:"chunkOverlap"`
	TopK             int           `mapstructure:"topK"`
	HistoryWindow    int           `mapstructure:"historyWindow"` // messages of history given to the model
	Watch            bool          `mapstructure:"watch"`
	WatchDebounce    time.Duration `mapstructure:"watchDebounce"`
}

// PortfolioConfig holds portfolio builder configuration
type PortfolioConfig struct {
	OutputDir             string `mapstructure:"outputDir"`
	MaxValidationAttempts int    `mapstructure:"maxValidationAttempts"`
	MaxWorkflowSteps      int    `mapstructure:"maxWorkflowSteps"`
}

// BackgroundConfig holds async task manager configuration
type BackgroundConfig struct {
	Workers   int           `mapstructure:"workers"`
	QueueSize int           `mapstructure:"queueSize"`
	ResultTTL time.Duration `mapstructure:"resultTTL"`
}

// LoadConfig loads configuration from environment variables and a config file
func LoadConfig() (*Config, error) {
	log.Println("[CONFIG] Starting configuration loading process")

	v := viper.New()

	setDefaults(v)

	v.SetEnvPrefix("CAREERPILOT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("/etc/careerpilot/")
	v.AddConfigPath("$HOME/.careerpilot")
	v.AddConfigPath(".")

	configFileUsed := ""
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		log.Println("[CONFIG] No config file found, using defaults and environment variables")
	} else {
		configFileUsed = v.ConfigFileUsed()
		log.Printf("[CONFIG] Loaded config file: %s", configFileUsed)
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	config.applyFallbacks()

	config.logConfigurationSources(configFileUsed)

	if err := config.loadPromptsFromFiles(); err != nil {
		return nil, fmt.Errorf("failed to load custom prompts from files: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	log.Println("[CONFIG] Configuration loading completed successfully")
	return &config, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.AI.APIKey == "" {
		return fmt.Errorf("AI API key is required (set CAREERPILOT_AI_APIKEY environment variable)")
	}

	if c.AI.Timeout <= 0 {
		return fmt.Errorf("AI timeout must be positive")
	}

	if c.Server.Port == "" {
		return fmt.Errorf("server port is required")
	}

	for name := range c.AI.Operations {
		if !slices.Contains(Operations, name) {
			return fmt.Errorf("unknown AI operation in config: %s", name)
		}
	}

	validFormats := make(map[string]bool)
	for _, format := range c.App.SupportedFormats {
		validFormats[format] = true
	}
	if !validFormats[c.App.DefaultFormat] {
		return fmt.Errorf("invalid default format: %s", c.App.DefaultFormat)
	}

	if c.RAG.ChunkSize <= 0 {
		return fmt.Errorf("rag chunk size must be positive")
	}
	if c.RAG.ChunkOverlap < 0 || c.RAG.ChunkOverlap >= c.RAG.ChunkSize {
		return fmt.Errorf("rag chunk overlap must be non-negative and smaller than chunk size")
	}

	if c.Portfolio.MaxValidationAttempts < 1 {
		return fmt.Errorf("portfolio maxValidationAttempts must be at least 1")
	}

	if err := c.ValidateTLSConfig(); err != nil {
		return fmt.Errorf("TLS configuration error: %w", err)
	}

	return nil
}

// OperationConfig returns the AI configuration for the named operation with
// global fallbacks applied. Unknown names get the pure global configuration.
func (c *Config) OperationConfig(name string) OperationAIConfig {
	opCfg := c.AI.Operations[name]

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
	if opCfg.UseSystemPrompts == nil {
		opCfg.UseSystemPrompts = &c.AI.UseSystemPrompts
	}

	return opCfg
}

// applyFallbacks applies environment variable fallbacks
func (c *Config) applyFallbacks() {
	// Parse API keys from environment variable if not set in config
	if len(c.Server.APIKeys) == 0 {
		if apiKeysEnv := os.Getenv("CAREERPILOT_SERVER_APIKEYS"); apiKeysEnv != "" {
			c.Server.APIKeys = strings.Split(apiKeysEnv, ",")
			for i, key := range c.Server.APIKeys {
				c.Server.APIKeys[i] = strings.TrimSpace(key)
			}
		}
	}

	if c.Server.TLS.Mode == "mutual" && c.Server.TLS.ClientAuthPolicy == "" {
		c.Server.TLS.ClientAuthPolicy = "require"
	}
	if c.Server.TLS.MinVersion == "" && c.Server.TLS.Mode != "disabled" {
		c.Server.TLS.MinVersion = "1.2"
	}

	// Set dynamic service instance ID if not specified
	if c.Observability.ServiceInstance == "" {
		if hostname, err := os.Hostname(); err == nil {
			c.Observability.ServiceInstance = fmt.Sprintf("%s-%s", c.Observability.ServiceName, hostname)
		} else {
			c.Observability.ServiceInstance = fmt.Sprintf("%s-1", c.Observability.ServiceName)
		}
	}

	if c.App.LogLevel == "debug" && !c.Observability.ConsoleOutput {
		c.Observability.ConsoleOutput = true
	}
}

// logConfigurationSources logs a summary of configuration sources being used
func (c *Config) logConfigurationSources(configFileUsed string) {
	log.Println("[CONFIG] === Configuration Sources Summary ===")

	if configFileUsed != "" {
		log.Printf("[CONFIG] Config file: %s", configFileUsed)
	} else {
		log.Println("[CONFIG] Config file: None (using defaults)")
	}

	envVars := []string{
		"CAREERPILOT_AI_APIKEY",
		"CAREERPILOT_AI_PROVIDER",
		"CAREERPILOT_AI_MODEL",
		"CAREERPILOT_SERVER_PORT",
		"CAREERPILOT_SERVER_HOST",
		"CAREERPILOT_APP_LOGLEVEL",
		"CAREERPILOT_REDIS_URL",
		"CAREERPILOT_VAULT_ENABLED",
		"GEMINI_API_KEY", // Legacy support
	}

	log.Println("[CONFIG] Environment variables:")
	hasEnvVars := false
	for _, envVar := range envVars {
		if value := os.Getenv(envVar); value != "" {
			// Mask sensitive values
			if strings.Contains(strings.ToLower(envVar), "apikey") || strings.Contains(strings.ToLower(envVar), "key") {
				log.Printf("[CONFIG]   %s=***MASKED***", envVar)
			} else {
				log.Printf("[CONFIG]   %s=%s", envVar, value)
			}
			hasEnvVars = true
		}
	}
	if !hasEnvVars {
		log.Println("[CONFIG]   None set")
	}

	log.Printf("[CONFIG] AI Provider: %s", c.AI.Provider)
	log.Printf("[CONFIG] AI Model: %s", c.AI.Model)
	if c.AI.APIKey != "" {
		log.Println("[CONFIG] AI API Key: ***CONFIGURED***")
	} else {
		log.Println("[CONFIG] AI API Key: ***NOT SET***")
	}
	log.Printf("[CONFIG] Server Address: %s:%s", c.Server.Host, c.Server.Port)
	log.Printf("[CONFIG] TLS Mode: %s", c.Server.TLS.Mode)
	log.Printf("[CONFIG] Redis Enabled: %t", c.Redis.Enabled)
	log.Printf("[CONFIG] Vault Enabled: %t", c.Vault.Enabled)
	log.Printf("[CONFIG] Observability Enabled: %t", c.Observability.Enabled)

	for _, op := range Operations {
		if opCfg, ok := c.AI.Operations[op]; ok && (opCfg.Model != "" || opCfg.Provider != "") {
			log.Printf("[CONFIG] Operation %s - Provider: %s, Model: %s", op, opCfg.Provider, opCfg.Model)
		}
	}

	log.Println("[CONFIG] =====================================")
}
