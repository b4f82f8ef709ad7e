package ai

import (
	"AssistGateway/internal/config"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"go.uber.org/zap"
)

const (
	providerAnthropic       = "anthropic"
	defaultAnthropicMaxToks = 1024
)

// AnthropicClient отправляет запросы через Anthropic Messages API.
type AnthropicClient struct {
	client      anthropic.Client
	textModel   string
	visionModel string
	maxTokens   int64
	logger      *zap.SugaredLogger
}

func NewAnthropicClient(cfg *config.Config, logger *zap.SugaredLogger, opts ...option.RequestOption) *AnthropicClient {
	opts = append([]option.RequestOption{option.WithAPIKey(cfg.AI.APIKey)}, opts...)
	maxTokens := int64(cfg.AI.MaxOutputTokens)
	if maxTokens <= 0 {
		maxTokens = defaultAnthropicMaxToks
	}
	return &AnthropicClient{
		client:      anthropic.NewClient(opts...),
		textModel:   cfg.AI.TextModel,
		visionModel: cfg.AI.VisionModel,
		maxTokens:   maxTokens,
		logger:      logger,
	}
}

func (c *AnthropicClient) SendRequest(ctx context.Context, req Request) (string, error) {
	model := c.textModel
	blocks := make([]anthropic.ContentBlockParamUnion, 0, 2)
	if req.Image != nil {
		model = c.visionModel
		blocks = append(blocks, anthropic.NewImageBlockBase64(req.Image.MIMEType, base64.StdEncoding.EncodeToString(req.Image.Data)))
	}
	blocks = append(blocks, anthropic.NewTextBlock(req.Prompt))

	start := time.Now()
	resp, err := c.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(model),
		MaxTokens: c.maxTokens,
		Messages:  []anthropic.MessageParam{anthropic.NewUserMessage(blocks...)},
	})
	dur := time.Since(start)
	if err != nil {
		c.logger.Errorw("Anthropic request failed", "model", model, "duration", dur.String(), "error", err)
		return "", anthropicError(err)
	}
	c.logger.Debugw("Anthropic reply received", "model", model, "duration", dur.String(), "stopReason", resp.StopReason)

	var b strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			b.WriteString(block.Text)
		}
	}
	if b.Len() == 0 {
		return "", ErrNoReply
	}
	return b.String(), nil
}

func anthropicError(err error) error {
	var apiErr *anthropic.Error
	if errors.As(err, &apiErr) {
		return &StatusError{Provider: providerAnthropic, StatusCode: apiErr.StatusCode, Reason: http.StatusText(apiErr.StatusCode), Err: err}
	}
	return fmt.Errorf("anthropic messages: %w", err)
}
