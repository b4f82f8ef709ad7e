package httpapi

import (
	"AssistGateway/internal/assist"
	"context"
	"encoding/base64"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Invoker описывает ту часть шлюза, которая нужна обработчикам.
type Invoker interface {
	Invoke(ctx context.Context, req assist.Request) (assist.Result, error)
}

type AssistHandler struct {
	gateway Invoker
	logger  *zap.SugaredLogger
}

func NewAssistHandler(gateway Invoker, logger *zap.SugaredLogger) *AssistHandler {
	return &AssistHandler{gateway: gateway, logger: logger}
}

func (h *AssistHandler) Generate(c *gin.Context) {
	var req GenerateRequest
	if !bind(c, &req) {
		return
	}
	h.respondText(c, assist.Freeform{Instruction: req.Instruction})
}

func (h *AssistHandler) Accessibility(c *gin.Context) {
	var req TextRequest
	if !bind(c, &req) {
		return
	}
	h.respondText(c, assist.AccessibilityRewrite{Text: req.Text})
}

func (h *AssistHandler) Translate(c *gin.Context) {
	var req TranslateRequest
	if !bind(c, &req) {
		return
	}
	// Неподдерживаемый код передаём как есть, его отклонит шлюз.
	target, _ := assist.ParseLanguage(req.Target)
	h.respondText(c, assist.Translation{Text: req.Text, Target: target})
}

func (h *AssistHandler) DescribeImage(c *gin.Context) {
	var req DescribeImageRequest
	if !bind(c, &req) {
		return
	}
	r := assist.ImageDescription{Ref: req.ImageURL, MIMEType: req.MimeType}
	if req.ImageBase64 != "" {
		data, err := base64.StdEncoding.DecodeString(req.ImageBase64)
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "imageBase64 is not valid base64", Kind: assist.ValidationFailed.String()})
			return
		}
		r.Image = data
	}
	h.respondText(c, r)
}

// Warnings всегда возвращает ошибку как ошибку: пустой список означает только "none".
func (h *AssistHandler) Warnings(c *gin.Context) {
	var req TextRequest
	if !bind(c, &req) {
		return
	}
	res, err := h.gateway.Invoke(c.Request.Context(), assist.WarningSuggestion{Text: req.Text})
	if err != nil {
		h.writeError(c, err)
		return
	}
	list, _ := res.(assist.List)
	c.JSON(http.StatusOK, ListResponse{Items: nonNil(list)})
}

func (h *AssistHandler) AnalyzePost(c *gin.Context) {
	var req AnalyzePostRequest
	if !bind(c, &req) {
		return
	}
	if strings.TrimSpace(req.Content) == "" {
		c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: "content is empty", Kind: assist.ValidationFailed.String()})
		return
	}
	res, err := h.gateway.Invoke(c.Request.Context(), assist.AnalyzePostRequest(req.Title, req.Content))
	if err != nil {
		h.writeError(c, err)
		return
	}
	analysis, ok := res.(assist.PostAnalysis)
	if !ok {
		h.writeError(c, &assist.Error{Kind: assist.MalformedReply, Op: assist.OpParse})
		return
	}
	c.JSON(http.StatusOK, AnalysisResponse(analysis))
}

// Ideas подставляет идеи по умолчанию, если ответ модели не годится.
func (h *AssistHandler) Ideas(c *gin.Context) {
	var req IdeasRequest
	if !bind(c, &req) {
		return
	}
	if strings.TrimSpace(req.Category) == "" {
		c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: "category is empty", Kind: assist.ValidationFailed.String()})
		return
	}
	res, err := h.gateway.Invoke(c.Request.Context(), assist.SuggestIdeasRequest(req.Category))
	list, _ := res.(assist.List)

	ideas, warning, err := assist.IdeasWithFallback(list, err)
	if err != nil {
		h.writeError(c, err)
		return
	}
	if warning != "" {
		h.logger.Warnw("Idea reply unusable, serving defaults", "category", req.Category)
	}
	c.JSON(http.StatusOK, ListResponse{Items: ideas, Warning: warning})
}

func (h *AssistHandler) respondText(c *gin.Context, req assist.Request) {
	res, err := h.gateway.Invoke(c.Request.Context(), req)
	if err != nil {
		h.writeError(c, err)
		return
	}
	text, _ := res.(assist.Text)
	c.JSON(http.StatusOK, TextResponse{Text: string(text)})
}

func (h *AssistHandler) writeError(c *gin.Context, err error) {
	kind := assist.KindOf(err)
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		h.logger.Errorw("Assist request failed", "path", c.FullPath(), "status", status, "kind", kind.String(), "error", err)
	}
	c.JSON(status, ErrorResponse{Error: err.Error(), Kind: kind.String(), Retry: kind.Retryable()})
}

func statusFor(err error) int {
	var e *assist.Error
	if !errors.As(err, &e) {
		return http.StatusInternalServerError
	}
	switch e.Kind {
	case assist.ValidationFailed:
		return http.StatusUnprocessableEntity
	case assist.MalformedReply:
		return http.StatusBadGateway
	case assist.UpstreamRejected:
		if e.StatusCode == http.StatusTooManyRequests {
			return http.StatusTooManyRequests
		}
		return http.StatusBadGateway
	case assist.TransportFailure:
		if errors.Is(err, context.DeadlineExceeded) {
			return http.StatusGatewayTimeout
		}
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func bind(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body: " + err.Error(), Kind: assist.ValidationFailed.String()})
		return false
	}
	return true
}

func nonNil(items []string) []string {
	if items == nil {
		return []string{}
	}
	return items
}
