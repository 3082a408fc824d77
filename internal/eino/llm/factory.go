package llm

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino-ext/components/model/ark"
	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"
)

type ProviderKind string

const (
	ProviderOpenAI     ProviderKind = "openai"
	ProviderArk        ProviderKind = "ark"
	ProviderCompatible ProviderKind = "openai_compatible"
)

type ProviderConfig struct {
	Kind    ProviderKind
	APIKey  string
	Model   string
	BaseURL string
}

type Factory struct{}

func NewFactory() *Factory {
	return &Factory{}
}

// CreateChatModel builds the chat model used for chart narration. The
// model must accept multipart (text + image) user messages.
func (f *Factory) CreateChatModel(ctx context.Context, cfg *ProviderConfig) (model.BaseChatModel, error) {
	if cfg == nil {
		return nil, fmt.Errorf("provider config is nil")
	}
	switch cfg.Kind {
	case ProviderOpenAI, ProviderCompatible:
		return openai.NewChatModel(ctx, &openai.ChatModelConfig{
			APIKey:  cfg.APIKey,
			Model:   cfg.Model,
			BaseURL: cfg.BaseURL,
		})
	case ProviderArk:
		return ark.NewChatModel(ctx, &ark.ChatModelConfig{
			APIKey: cfg.APIKey,
			Model:  cfg.Model,
		})
	default:
		return nil, fmt.Errorf("unsupported provider: %s", cfg.Kind)
	}
}
