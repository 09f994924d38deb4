package genai

import (
	"os"
	"testing"
)

func TestNewClientRequiresAPIKey(t *testing.T) {
	original, had := os.LookupEnv("OPENAI_API_KEY")
	os.Unsetenv("OPENAI_API_KEY")
	defer func() {
		if had {
			os.Setenv("OPENAI_API_KEY", original)
		}
	}()

	if _, err := NewClient(); err == nil {
		t.Error("Expected error when no API key is configured")
	}
}

func TestNewClientWithExplicitKey(t *testing.T) {
	client, err := NewClient(WithAPIKey("test-key"))
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}
	if client.model != DefaultModel {
		t.Errorf("Expected default model %q, got %q", DefaultModel, client.model)
	}
}

func TestNewClientKeyFromEnvironment(t *testing.T) {
	os.Setenv("OPENAI_API_KEY", "env-key")
	defer os.Unsetenv("OPENAI_API_KEY")

	if _, err := NewClient(); err != nil {
		t.Errorf("Expected env key to satisfy NewClient, got %v", err)
	}
}

func TestNewClientOptionsApplied(t *testing.T) {
	client, err := NewClient(
		WithAPIKey("test-key"),
		WithEndpoint("https://example.openai.azure.com"),
		WithModel("gpt-4o"),
	)
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}
	if client.model != "gpt-4o" {
		t.Errorf("Expected model override, got %q", client.model)
	}
}
