package analysis

import (
	"strings"
	"testing"

	"codereviewgo/internal/config"
)

func TestBuildMessagesEmbedsFileVerbatim(t *testing.T) {
	filename := "foo.py"
	content := "print(1)\n# trailing\ttab"

	messages := buildMessages(filename, content)
	if len(messages) != 2 {
		t.Fatalf("expected system+user messages, got %d", len(messages))
	}
	if messages[0].Content == "" {
		t.Fatalf("system instruction must not be empty")
	}
	user := messages[1].Content
	if !strings.Contains(user, filename) {
		t.Fatalf("user message missing filename: %q", user)
	}
	if !strings.Contains(user, content) {
		t.Fatalf("user message must embed content verbatim: %q", user)
	}
}

func TestNewServiceUnknownProvider(t *testing.T) {
	cfg := &config.Config{
		Providers: map[string]config.ProviderConfig{
			"openai": {Model: "gpt-5-nano", APIKey: "mock"},
		},
	}
	if _, err := NewService(cfg, "does-not-exist", ""); err == nil {
		t.Fatalf("expected error for unconfigured provider")
	}
}

func TestNewServiceRequiresConfig(t *testing.T) {
	if _, err := NewService(nil, "openai", ""); err == nil {
		t.Fatalf("expected error for nil config")
	}
}
