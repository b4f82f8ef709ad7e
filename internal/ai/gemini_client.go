package ai

import (
	"AssistGateway/internal/config"
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"github.com/googleapis/gax-go/v2/apierror"
	"go.uber.org/zap"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

const providerGemini = "gemini"

// GeminiClient отправляет текст (и при необходимости одну картинку) в Google generative-language API.
type GeminiClient struct {
	client      *genai.Client
	textModel   string
	visionModel string
	logger      *zap.SugaredLogger
}

func NewGeminiClient(ctx context.Context, cfg *config.Config, logger *zap.SugaredLogger, opts ...option.ClientOption) (*GeminiClient, error) {
	opts = append([]option.ClientOption{option.WithAPIKey(cfg.AI.APIKey)}, opts...)
	client, err := genai.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	return &GeminiClient{
		client:      client,
		textModel:   cfg.AI.TextModel,
		visionModel: cfg.AI.VisionModel,
		logger:      logger,
	}, nil
}

func (c *GeminiClient) SendRequest(ctx context.Context, req Request) (string, error) {
	name := c.textModel
	parts := []genai.Part{genai.Text(req.Prompt)}
	if req.Image != nil {
		name = c.visionModel
		parts = append(parts, genai.Blob{MIMEType: req.Image.MIMEType, Data: req.Image.Data})
	}

	model := c.client.GenerativeModel(name)
	if req.JSON {
		model.ResponseMIMEType = "application/json"
	}

	start := time.Now()
	resp, err := model.GenerateContent(ctx, parts...)
	dur := time.Since(start)
	if err != nil {
		c.logger.Errorw("Gemini request failed", "model", name, "duration", dur.String(), "error", err)
		return "", geminiError(err)
	}
	c.logger.Debugw("Gemini reply received", "model", name, "duration", dur.String())

	return geminiText(resp)
}

// Close освобождает пул соединений.
func (c *GeminiClient) Close() error {
	return c.client.Close()
}

func geminiText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		return "", ErrNoReply
	}
	cand := resp.Candidates[0]
	if cand.Content == nil {
		return "", ErrNoReply
	}
	var b strings.Builder
	for _, part := range cand.Content.Parts {
		if t, ok := part.(genai.Text); ok {
			b.WriteString(string(t))
		}
	}
	if b.Len() == 0 {
		return "", ErrNoReply
	}
	return b.String(), nil
}

func geminiError(err error) error {
	var blocked *genai.BlockedError
	if errors.As(err, &blocked) {
		return &StatusError{Provider: providerGemini, StatusCode: http.StatusBadRequest, Reason: "blocked: " + blocked.Error(), Err: err}
	}
	var gErr *googleapi.Error
	if errors.As(err, &gErr) {
		return &StatusError{Provider: providerGemini, StatusCode: gErr.Code, Reason: gErr.Message, Err: err}
	}
	var apiErr *apierror.APIError
	if errors.As(err, &apiErr) && apiErr.HTTPCode() > 0 {
		return &StatusError{Provider: providerGemini, StatusCode: apiErr.HTTPCode(), Reason: apiErr.Reason(), Err: err}
	}
	return fmt.Errorf("gemini generate content: %w", err)
}
