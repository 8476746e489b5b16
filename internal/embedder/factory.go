package embedder

import (
	"fmt"
	"os"
	"strings"
)

// Config holds embedder configuration
type Config struct {
	Provider  string
	APIKey    string
	Azure     AzureConfig
	CacheSize int
}

// NewFromEnv creates an embedder based on environment variables.
// Priority:
//  1. ASSESSREC_EMBEDDING_PROVIDER (azure, openai, local)
//  2. Check for credentials: AZURE_OPENAI_API_KEY, OPENAI_API_KEY
//  3. Default to local if no credentials found
func NewFromEnv() (Embedder, error) {
	provider := os.Getenv(EnvProvider)
	azureKey := os.Getenv(EnvAzureAPIKey)
	openaiKey := os.Getenv(EnvOpenAIAPIKey)

	cache := NewCache(10000)

	if provider != "" {
		provider = strings.ToLower(provider)
		switch provider {
		case ProviderAzure:
			return NewAzureProvider(azureConfigFromEnv(), cache)
		case ProviderOpenAI:
			return NewOpenAIProvider(openaiKey, cache)
		case ProviderLocal:
			return NewLocalProvider(cache)
		default:
			return nil, fmt.Errorf("%w: unknown provider %s", ErrUnsupportedProvider, provider)
		}
	}

	// Auto-detect based on available credentials
	if azureKey != "" {
		return NewAzureProvider(azureConfigFromEnv(), cache)
	}
	if openaiKey != "" {
		return NewOpenAIProvider(openaiKey, cache)
	}

	return NewLocalProvider(cache)
}

// New creates an embedder with explicit configuration
func New(cfg Config) (Embedder, error) {
	var cache *Cache
	if cfg.CacheSize > 0 {
		cache = NewCache(cfg.CacheSize)
	}

	provider := strings.ToLower(cfg.Provider)
	switch provider {
	case ProviderAzure:
		return NewAzureProvider(cfg.Azure, cache)
	case ProviderOpenAI:
		return NewOpenAIProvider(cfg.APIKey, cache)
	case ProviderLocal:
		return NewLocalProvider(cache)
	default:
		return nil, fmt.Errorf("%w: unknown provider %s", ErrUnsupportedProvider, cfg.Provider)
	}
}

// DetectProvider returns the provider that would be chosen from the current
// environment.
func DetectProvider() string {
	provider := os.Getenv(EnvProvider)
	if provider != "" {
		return strings.ToLower(provider)
	}

	if os.Getenv(EnvAzureAPIKey) != "" {
		return ProviderAzure
	}
	if os.Getenv(EnvOpenAIAPIKey) != "" {
		return ProviderOpenAI
	}

	return ProviderLocal
}

func azureConfigFromEnv() AzureConfig {
	return AzureConfig{
		Endpoint:   os.Getenv(EnvAzureEndpoint),
		APIKey:     os.Getenv(EnvAzureAPIKey),
		APIVersion: os.Getenv(EnvAzureAPIVersion),
		Deployment: os.Getenv(EnvAzureDeployment),
	}
}
