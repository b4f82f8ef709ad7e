package ai

import (
	"AssistGateway/internal/config"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/responses"
	"go.uber.org/zap"
)

const providerOpenAI = "openai"

// OpenAIClient отправляет текст или текст с картинкой через OpenAI Responses API.
type OpenAIClient struct {
	client      *openai.Client
	textModel   string
	visionModel string
	logger      *zap.SugaredLogger
}

func NewOpenAIClient(client *openai.Client, cfg *config.Config, logger *zap.SugaredLogger) *OpenAIClient {
	return &OpenAIClient{
		client:      client,
		textModel:   cfg.AI.TextModel,
		visionModel: cfg.AI.VisionModel,
		logger:      logger,
	}
}

func (c *OpenAIClient) SendRequest(ctx context.Context, req Request) (string, error) {
	model := c.textModel
	content := responses.ResponseInputMessageContentListParam{
		responses.ResponseInputContentParamOfInputText(req.Prompt),
	}
	if req.Image != nil {
		model = c.visionModel
		imageParam := responses.ResponseInputContentParamOfInputImage(responses.ResponseInputImageDetailAuto)
		imageParam.OfInputImage.ImageURL = openai.String(imageDataURL(req.Image))
		content = append(content, imageParam)
	}

	params := responses.ResponseNewParams{
		Model: openai.ChatModel(model),
		Input: responses.ResponseNewParamsInputUnion{
			OfInputItemList: responses.ResponseInputParam{
				responses.ResponseInputItemParamOfMessage(content, responses.EasyInputMessageRoleUser),
			},
		},
	}
	// json_schema требует объект в корне, массивы просим обычным текстом.
	if req.JSON && req.Schema != nil {
		params.Text = responses.ResponseTextConfigParam{
			Format: responses.ResponseFormatTextConfigUnionParam{
				OfJSONSchema: &responses.ResponseFormatTextJSONSchemaConfigParam{
					Name:   req.SchemaName,
					Schema: req.Schema,
					Strict: openai.Bool(true),
				},
			},
		}
	}

	start := time.Now()
	resp, err := c.client.Responses.New(ctx, params)
	dur := time.Since(start)
	if err != nil {
		c.logger.Errorw("OpenAI request failed", "model", model, "duration", dur.String(), "error", err)
		return "", openAIError(err)
	}
	c.logger.Debugw("OpenAI reply received", "model", model, "duration", dur.String())

	text := resp.OutputText()
	if text == "" {
		return "", ErrNoReply
	}
	return text, nil
}

func openAIError(err error) error {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		return &StatusError{Provider: providerOpenAI, StatusCode: apiErr.StatusCode, Reason: apiErr.Message, Err: err}
	}
	return fmt.Errorf("openai responses: %w", err)
}

func imageDataURL(img *Image) string {
	contentType := img.MIMEType
	if contentType == "" {
		contentType = "image/jpeg"
	}
	return fmt.Sprintf("data:%s;base64,%s", contentType, base64.StdEncoding.EncodeToString(img.Data))
}
