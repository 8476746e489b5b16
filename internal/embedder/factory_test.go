package embedder_test

import (
	"errors"
	"testing"

	"github.com/talentsift/assessrec/internal/embedder"
)

func clearProviderEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		embedder.EnvProvider,
		embedder.EnvOpenAIAPIKey,
		embedder.EnvAzureAPIKey,
		embedder.EnvAzureEndpoint,
		embedder.EnvAzureAPIVersion,
		embedder.EnvAzureDeployment,
	} {
		t.Setenv(key, "")
	}
}

func TestNewFromEnv_DefaultsToLocal(t *testing.T) {
	clearProviderEnv(t)

	emb, err := embedder.NewFromEnv()
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = emb.Close() }()

	if emb.Provider() != embedder.ProviderLocal {
		t.Errorf("provider = %q, want %q", emb.Provider(), embedder.ProviderLocal)
	}
}

func TestNewFromEnv_ExplicitProvider(t *testing.T) {
	clearProviderEnv(t)
	t.Setenv(embedder.EnvProvider, "local")

	emb, err := embedder.NewFromEnv()
	if err != nil {
		t.Fatal(err)
	}
	if emb.Provider() != embedder.ProviderLocal {
		t.Errorf("provider = %q, want local", emb.Provider())
	}
}

func TestNewFromEnv_UnknownProvider(t *testing.T) {
	clearProviderEnv(t)
	t.Setenv(embedder.EnvProvider, "quantum")

	_, err := embedder.NewFromEnv()
	if !errors.Is(err, embedder.ErrUnsupportedProvider) {
		t.Errorf("error = %v, want ErrUnsupportedProvider", err)
	}
}

func TestNewFromEnv_AutoDetectOpenAI(t *testing.T) {
	clearProviderEnv(t)
	t.Setenv(embedder.EnvOpenAIAPIKey, "sk-test")

	emb, err := embedder.NewFromEnv()
	if err != nil {
		t.Fatal(err)
	}
	if emb.Provider() != embedder.ProviderOpenAI {
		t.Errorf("provider = %q, want %q", emb.Provider(), embedder.ProviderOpenAI)
	}
	if emb.Model() != embedder.DefaultOpenAIModel {
		t.Errorf("model = %q, want %q", emb.Model(), embedder.DefaultOpenAIModel)
	}
}

func TestNewFromEnv_AutoDetectAzure(t *testing.T) {
	clearProviderEnv(t)
	t.Setenv(embedder.EnvAzureAPIKey, "azkey")
	t.Setenv(embedder.EnvAzureEndpoint, "https://example.openai.azure.com")
	t.Setenv(embedder.EnvAzureDeployment, "embeddings-prod")

	emb, err := embedder.NewFromEnv()
	if err != nil {
		t.Fatal(err)
	}
	if emb.Provider() != embedder.ProviderAzure {
		t.Errorf("provider = %q, want %q", emb.Provider(), embedder.ProviderAzure)
	}
	if emb.Model() != "embeddings-prod" {
		t.Errorf("model = %q, want deployment name", emb.Model())
	}
}

func TestNewFromEnv_AzureMissingDeployment(t *testing.T) {
	clearProviderEnv(t)
	t.Setenv(embedder.EnvAzureAPIKey, "azkey")
	t.Setenv(embedder.EnvAzureEndpoint, "https://example.openai.azure.com")

	_, err := embedder.NewFromEnv()
	if !errors.Is(err, embedder.ErrModelNotConfigured) {
		t.Errorf("error = %v, want ErrModelNotConfigured", err)
	}
}

func TestNewFromEnv_AzureMissingEndpoint(t *testing.T) {
	clearProviderEnv(t)
	t.Setenv(embedder.EnvProvider, "azure")
	t.Setenv(embedder.EnvAzureAPIKey, "azkey")

	_, err := embedder.NewFromEnv()
	if !errors.Is(err, embedder.ErrProviderUnavailable) {
		t.Errorf("error = %v, want ErrProviderUnavailable", err)
	}
}

func TestDetectProvider(t *testing.T) {
	clearProviderEnv(t)

	if got := embedder.DetectProvider(); got != embedder.ProviderLocal {
		t.Errorf("detected %q with no env, want local", got)
	}

	t.Setenv(embedder.EnvOpenAIAPIKey, "sk-test")
	if got := embedder.DetectProvider(); got != embedder.ProviderOpenAI {
		t.Errorf("detected %q with OpenAI key, want openai", got)
	}

	t.Setenv(embedder.EnvAzureAPIKey, "azkey")
	if got := embedder.DetectProvider(); got != embedder.ProviderAzure {
		t.Errorf("detected %q with Azure key, want azure", got)
	}

	t.Setenv(embedder.EnvProvider, "LOCAL")
	if got := embedder.DetectProvider(); got != embedder.ProviderLocal {
		t.Errorf("explicit override detected %q, want local", got)
	}
}

func TestNew_ExplicitConfig(t *testing.T) {
	emb, err := embedder.New(embedder.Config{Provider: "local", CacheSize: 100})
	if err != nil {
		t.Fatal(err)
	}
	if emb.Dimension() != embedder.LocalDimension {
		t.Errorf("dimension = %d, want %d", emb.Dimension(), embedder.LocalDimension)
	}

	_, err = embedder.New(embedder.Config{Provider: "nope"})
	if !errors.Is(err, embedder.ErrUnsupportedProvider) {
		t.Errorf("error = %v, want ErrUnsupportedProvider", err)
	}
}
