package analysis

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/cloudwego/eino-ext/components/model/claude"
	"github.com/cloudwego/eino-ext/components/model/gemini"
	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"google.golang.org/genai"

	"codereviewgo/internal/config"
)

const reviewSystemPrompt = "You are a senior code reviewer. Analyze the submitted file and provide:\n" +
	"1. A brief summary of what the code does\n" +
	"2. Issues found (bugs, security, performance, style) with severity (high/medium/low)\n" +
	"3. Concrete suggestions for improvement\n\n" +
	"Format the review as markdown. If there are no issues, say so."

// Service invokes the external text-generation model that produces reviews.
// One instance serves every request; a single call is made per submission
// with no retry and no streaming.
type Service struct {
	chatModel model.ToolCallingChatModel
	provider  string
	modelName string
}

// NewService builds the chat model for the configured provider.
func NewService(cfg *config.Config, provider, modelName string) (*Service, error) {
	if cfg == nil {
		return nil, errors.New("config required")
	}
	provCfg, ok := cfg.Providers[provider]
	if !ok {
		return nil, fmt.Errorf("provider %s not configured", provider)
	}
	if modelName == "" {
		modelName = provCfg.Model
	}

	var (
		chatModel model.ToolCallingChatModel
		err       error
	)
	switch provider {
	case "openai":
		chatModel, err = openai.NewChatModel(context.Background(), &openai.ChatModelConfig{
			BaseURL: provCfg.BaseURL,
			Model:   modelName,
			APIKey:  provCfg.APIKey,
		})
	case "gemini":
		client, cerr := genai.NewClient(context.Background(), &genai.ClientConfig{
			APIKey: provCfg.APIKey,
		})
		if cerr != nil {
			return nil, fmt.Errorf("create gemini client: %w", cerr)
		}
		chatModel, err = gemini.NewChatModel(context.Background(), &gemini.Config{
			Client: client,
			Model:  modelName,
		})
	case "claude":
		var baseURLPtr *string
		if provCfg.BaseURL != "" {
			baseURLPtr = &provCfg.BaseURL
		}
		chatModel, err = claude.NewChatModel(context.Background(), &claude.Config{
			APIKey:    provCfg.APIKey,
			Model:     modelName,
			BaseURL:   baseURLPtr,
			MaxTokens: 3000,
		})
	default:
		return nil, fmt.Errorf("invalid provider: %s", provider)
	}
	if err != nil {
		return nil, fmt.Errorf("init %s chat model: %w", provider, err)
	}

	return &Service{
		chatModel: chatModel,
		provider:  provider,
		modelName: modelName,
	}, nil
}

// Review sends the file to the model and returns the review text. Transport
// failures, auth failures, and empty responses all surface as a plain error;
// the caller decides how much of that reaches the client.
func (s *Service) Review(ctx context.Context, filename, content string) (string, error) {
	resp, err := s.chatModel.Generate(ctx, buildMessages(filename, content))
	if err != nil {
		return "", fmt.Errorf("generate review: %w", err)
	}
	if strings.TrimSpace(resp.Content) == "" {
		return "", errors.New("empty review from model")
	}
	return resp.Content, nil
}

func buildMessages(filename, content string) []*schema.Message {
	return []*schema.Message{
		{
			Role:    schema.System,
			Content: reviewSystemPrompt,
		},
		{
			Role:    schema.User,
			Content: fmt.Sprintf("Code to review (File: %s):\n%s", filename, content),
		},
	}
}
