package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/hashicorp/vault/api"

	"careerpilot/internal/errors"
)

// VaultConfig holds HashiCorp Vault configuration
type VaultConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Address   string `mapstructure:"address"`
	Token     string `mapstructure:"token"`
	TokenFile string `mapstructure:"tokenFile"`
	Namespace string `mapstructure:"namespace"`

	Secrets VaultSecrets `mapstructure:"secrets"`
}

// VaultSecrets defines where to find secrets in Vault (KVv2 paths).
type VaultSecrets struct {
	// APIKeys expects a single "keys" field with comma-separated values.
	// The first key is the primary, the rest are accepted fallbacks.
	APIKeys       string `mapstructure:"apiKeys"`
	GeminiKey     string `mapstructure:"geminiKey"`     // Path to Gemini API key
	RedisPassword string `mapstructure:"redisPassword"` // Path to Redis password
	TLSCerts      string `mapstructure:"tlsCerts"`      // Path to TLS certificate content
}

// VaultClient wraps the Vault API client
type VaultClient struct {
	client *api.Client
	config VaultConfig
	logger *errors.Logger
}

// NewVaultClient creates a new Vault client from configuration
func NewVaultClient(config VaultConfig, logger *errors.Logger) (*VaultClient, error) {
	if !config.Enabled {
		return nil, nil
	}

	vaultConfig := api.DefaultConfig()
	if config.Address != "" {
		vaultConfig.Address = config.Address
	}

	client, err := api.NewClient(vaultConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create vault client: %w", err)
	}

	if config.Namespace != "" {
		client.SetNamespace(config.Namespace)
	}

	token, err := resolveVaultToken(config)
	if err != nil {
		return nil, err
	}
	client.SetToken(token)

	health, err := client.Sys().Health()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to vault: %w", err)
	}
	if logger != nil {
		logger.Info("Connected to Vault",
			"address", vaultConfig.Address,
			"version", health.Version,
			"sealed", health.Sealed)
	}

	return &VaultClient{client: client, config: config, logger: logger}, nil
}

// resolveVaultToken resolves the Vault token from config or file
func resolveVaultToken(config VaultConfig) (string, error) {
	token := config.Token

	if token == "" && config.TokenFile != "" {
		tokenBytes, err := os.ReadFile(config.TokenFile)
		if err != nil {
			return "", fmt.Errorf("failed to read vault token file: %w", err)
		}
		token = strings.TrimSpace(string(tokenBytes))
	}

	if token == "" {
		return "", fmt.Errorf("vault token is required when vault is enabled")
	}

	return token, nil
}

// GetSecretV2 retrieves a secret from a Vault KVv2 store
func (vc *VaultClient) GetSecretV2(path string) (map[string]any, error) {
	if vc == nil {
		return nil, fmt.Errorf("vault client not initialized")
	}

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

// GetStringSecret retrieves a string value from a Vault secret
func (vc *VaultClient) GetStringSecret(path, key string) (string, error) {
	data, err := vc.GetSecretV2(path)
	if err != nil {
		return "", err
	}

	value, ok := data[key]
	if !ok {
		return "", fmt.Errorf("key '%s' not found in secret %s", key, path)
	}
	strValue, ok := value.(string)
	if !ok {
		return "", fmt.Errorf("value for key '%s' is not a string in secret %s", key, path)
	}

	if vc.logger != nil {
		masked := "****"
		if len(strValue) > 8 {
			masked = strValue[:4] + "****" + strValue[len(strValue)-4:]
		}
		vc.logger.Debug("Secret retrieved from Vault", "path", path, "key", key, "masked_value", masked)
	}

	return strValue, nil
}

// GetStringSliceSecret retrieves a comma-separated string as a slice from Vault
func (vc *VaultClient) GetStringSliceSecret(path, key string) ([]string, error) {
	value, err := vc.GetStringSecret(path, key)
	if err != nil {
		return nil, err
	}
	if value == "" {
		return []string{}, nil
	}

	parts := strings.Split(value, ",")
	result := make([]string, len(parts))
	for i, part := range parts {
		result[i] = strings.TrimSpace(part)
	}
	return result, nil
}

// ApplyVaultSecrets loads secrets from Vault and applies them to the config.
// Vault values take precedence over config file values and environment
// variables.
func ApplyVaultSecrets(config *Config, logger *errors.Logger) error {
	if !config.Vault.Enabled {
		return nil
	}

	client, err := NewVaultClient(config.Vault, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize vault client: %w", err)
	}
	if client == nil {
		return nil
	}

	secrets := config.Vault.Secrets

	if secrets.APIKeys != "" {
		apiKeys, err := client.GetStringSliceSecret(secrets.APIKeys, "keys")
		if err != nil {
			return fmt.Errorf("failed to load API keys from vault: %w", err)
		}
		if len(apiKeys) > 0 {
			config.Server.APIKeys = apiKeys
			if logger != nil {
				logger.Info("API keys loaded from Vault", "count", len(apiKeys))
			}
		}
	}

	if secrets.GeminiKey != "" {
		geminiKey, err := client.GetStringSecret(secrets.GeminiKey, "api_key")
		if err != nil {
			return fmt.Errorf("failed to load Gemini API key from vault: %w", err)
		}
		if geminiKey != "" {
			config.AI.APIKey = geminiKey
			for name, opCfg := range config.AI.Operations {
				if opCfg.APIKey == "" {
					opCfg.APIKey = geminiKey
					config.AI.Operations[name] = opCfg
				}
			}
			if logger != nil {
				logger.Info("Gemini API key loaded from Vault")
			}
		}
	}

	if secrets.RedisPassword != "" {
		password, err := client.GetStringSecret(secrets.RedisPassword, "password")
		if err != nil {
			return fmt.Errorf("failed to load Redis password from vault: %w", err)
		}
		if password != "" {
			config.Redis.Password = password
			if logger != nil {
				logger.Info("Redis password loaded from Vault")
			}
		}
	}

	if secrets.TLSCerts != "" {
		tlsData, err := client.GetSecretV2(secrets.TLSCerts)
		if err != nil {
			return fmt.Errorf("failed to load TLS certificates from vault: %w", err)
		}
		if cert, ok := tlsData["cert"].(string); ok && cert != "" {
			config.Server.TLS.CertContent = cert
		}
		if key, ok := tlsData["key"].(string); ok && key != "" {
			config.Server.TLS.KeyContent = key
		}
		if ca, ok := tlsData["ca"].(string); ok && ca != "" {
			config.Server.TLS.CAContent = ca
		}
		if logger != nil {
			logger.Info("TLS certificate content loaded from Vault")
		}
	}

	return nil
}
