package ai

import (
	"AssistGateway/internal/config"
	"context"
	"fmt"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"go.uber.org/zap"
)

// NewClient создаёт транспорт для cfg.AI.Provider. Если он реализует io.Closer, закрывает вызывающий.
func NewClient(ctx context.Context, cfg *config.Config, logger *zap.SugaredLogger) (Client, error) {
	switch cfg.AI.Provider {
	case config.ProviderGemini, "":
		return NewGeminiClient(ctx, cfg, logger)
	case config.ProviderOpenAI:
		client := openai.NewClient(option.WithAPIKey(cfg.AI.APIKey))
		return NewOpenAIClient(&client, cfg, logger), nil
	case config.ProviderAnthropic:
		return NewAnthropicClient(cfg, logger), nil
	default:
		return nil, fmt.Errorf("unknown provider %q", cfg.AI.Provider)
	}
}
