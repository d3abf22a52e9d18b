package provider

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino-ext/components/model/ark"
	"github.com/cloudwego/eino-ext/components/model/deepseek"
	"github.com/cloudwego/eino-ext/components/model/ollama"
	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/ollama/ollama/api"
)

// CompletionConfig selects and configures the completion backend.
type CompletionConfig struct {
	Backend     string // openai (default), deepseek, ark or ollama
	APIKey      string
	BaseURL     string
	Model       string
	MaxTokens   int
	Temperature float64
}

// einoCompleter adapts an Eino chat model to the CompletionModel interface.
type einoCompleter struct {
	model model.BaseChatModel
}

// NewCompletionModel builds a completion adapter for the configured backend.
func NewCompletionModel(ctx context.Context, cfg CompletionConfig) (CompletionModel, error) {
	var (
		chatModel model.BaseChatModel
		err       error
	)

	switch cfg.Backend {
	case "", "openai":
		maxTokens := cfg.MaxTokens
		temperature := float32(cfg.Temperature)
		chatModel, err = openai.NewChatModel(ctx, &openai.ChatModelConfig{
			APIKey:      cfg.APIKey,
			BaseURL:     cfg.BaseURL,
			Model:       cfg.Model,
			MaxTokens:   &maxTokens,
			Temperature: &temperature,
		})
	case "deepseek":
		chatModel, err = deepseek.NewChatModel(ctx, &deepseek.ChatModelConfig{
			APIKey:      cfg.APIKey,
			BaseURL:     cfg.BaseURL,
			Model:       cfg.Model,
			MaxTokens:   cfg.MaxTokens,
			Temperature: float32(cfg.Temperature),
		})
	case "ark":
		maxTokens := cfg.MaxTokens
		temperature := float32(cfg.Temperature)
		chatModel, err = ark.NewChatModel(ctx, &ark.ChatModelConfig{
			APIKey:      cfg.APIKey,
			Model:       cfg.Model,
			MaxTokens:   &maxTokens,
			Temperature: &temperature,
		})
	case "ollama":
		chatModel, err = ollama.NewChatModel(ctx, &ollama.ChatModelConfig{
			BaseURL: cfg.BaseURL,
			Model:   cfg.Model,
			Options: &api.Options{
				NumPredict:  cfg.MaxTokens,
				Temperature: float32(cfg.Temperature),
			},
		})
	default:
		return nil, fmt.Errorf("unknown completion backend: %s", cfg.Backend)
	}
	if err != nil {
		return nil, fmt.Errorf("error creating %s chat model: %w", cfg.Backend, err)
	}

	return &einoCompleter{model: chatModel}, nil
}

// Complete sends the messages and returns the raw reply text. Emptiness is
// judged by the caller, not here.
func (c *einoCompleter) Complete(ctx context.Context, messages []*schema.Message) (string, error) {
	out, err := c.model.Generate(ctx, messages)
	if err != nil {
		return "", fmt.Errorf("completion call failed: %w", err)
	}
	return out.Content, nil
}
