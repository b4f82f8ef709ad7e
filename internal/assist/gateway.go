package assist

import (
	"AssistGateway/internal/ai"
	imagesvc "AssistGateway/internal/service/image"
	"AssistGateway/internal/telemetry"
	"context"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const DefaultTimeout = 30 * time.Second

var errTimeout = errors.New("invocation timed out")

// Fetcher превращает ссылку на картинку в байты.
type Fetcher interface {
	Fetch(ctx context.Context, ref string) (imagesvc.Fetched, error)
}

// ImageProcessor готовит картинку к vision-запросу.
type ImageProcessor interface {
	Process(data []byte, mimeType string) (imagesvc.ProcessedImage, error)
}

// Gateway превращает типизированный запрос ровно в один вызов модели. Состояния между
// вызовами не хранит, безопасен для конкурентного использования.
type Gateway struct {
	client    ai.Client
	fetcher   Fetcher
	processor ImageProcessor
	timeout   time.Duration
	logger    *zap.SugaredLogger
	tracer    trace.Tracer
}

type Option func(*Gateway)

func WithFetcher(f Fetcher) Option { return func(g *Gateway) { g.fetcher = f } }

func WithImageProcessor(p ImageProcessor) Option { return func(g *Gateway) { g.processor = p } }

// WithTimeout ограничивает один вызов вместе с загрузкой картинки. Неположительные значения игнорируются.
func WithTimeout(d time.Duration) Option {
	return func(g *Gateway) {
		if d > 0 {
			g.timeout = d
		}
	}
}

func WithLogger(l *zap.SugaredLogger) Option { return func(g *Gateway) { g.logger = l } }

func WithTracer(t trace.Tracer) Option { return func(g *Gateway) { g.tracer = t } }

func New(client ai.Client, opts ...Option) *Gateway {
	g := &Gateway{
		client:    client,
		fetcher:   imagesvc.NewPublicFetcher(imagesvc.DefaultFetchTimeout, imagesvc.DefaultMaxFetchBytes),
		processor: imagesvc.NewProcessor(0),
		timeout:   DefaultTimeout,
		logger:    zap.NewNop().Sugar(),
		tracer:    otel.Tracer("AssistGateway/internal/assist"),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Outcome приходит из InvokeAsync.
type Outcome struct {
	Result Result
	Err    error
}

// Invoke отправляет запрос и возвращает разобранный результат. Не больше одного вызова модели,
// без повторов. Любая ошибка имеет тип *Error.
func (g *Gateway) Invoke(ctx context.Context, req Request) (res Result, err error) {
	if req == nil {
		return nil, validationf(OpValidate, "nil request")
	}

	id := uuid.NewString()
	kind := req.Kind()
	ctx, span := g.tracer.Start(ctx, "assist.invoke", trace.WithAttributes(
		attribute.String("assist.kind", string(kind)),
		attribute.String("assist.invocation_id", id),
	))
	start := time.Now()
	defer func() {
		dur := time.Since(start)
		if err != nil {
			span.SetAttributes(attribute.String("assist.error_kind", KindOf(err).String()))
			g.logger.Warnw("Assist invocation failed",
				"id", id, "kind", kind, "errorKind", KindOf(err).String(), "duration", dur.String(), "error", err)
		} else {
			g.logger.Infow("Assist invocation completed", "id", id, "kind", kind, "duration", dur.String())
		}
		telemetry.End(span, err)
	}()

	if err := req.validate(); err != nil {
		return nil, asError(ValidationFailed, OpValidate, err)
	}

	ctx, cancel := context.WithTimeoutCause(ctx, g.timeout, errTimeout)
	defer cancel()

	aiReq, err := g.prepare(ctx, req)
	if err != nil {
		return nil, err
	}

	reply, err := g.client.SendRequest(ctx, aiReq)
	// Ответ, пришедший одновременно с отменой, выбрасываем.
	if ctx.Err() != nil {
		return nil, newError(TransportFailure, OpInvoke, ctxError(ctx))
	}
	if err != nil {
		return nil, classify(err)
	}

	return parseReply(req, reply)
}

// InvokeAsync запускает Invoke в отдельной горутине. В канал приходит ровно один Outcome.
func (g *Gateway) InvokeAsync(ctx context.Context, req Request) <-chan Outcome {
	ch := make(chan Outcome, 1)
	go func() {
		res, err := g.Invoke(ctx, req)
		ch <- Outcome{Result: res, Err: err}
	}()
	return ch
}

func (g *Gateway) prepare(ctx context.Context, req Request) (ai.Request, error) {
	prompt, err := BuildPrompt(req)
	if err != nil {
		return ai.Request{}, newError(ValidationFailed, OpValidate, err)
	}
	out := ai.Request{Prompt: prompt}

	switch r := req.(type) {
	case ImageDescription:
		img, err := g.loadImage(ctx, r)
		if err != nil {
			return ai.Request{}, err
		}
		out.Image = img
	case StructuredGenerate:
		out.JSON = true
		out.SchemaName, out.Schema = r.Shape.Schema()
	}
	return out, nil
}

func (g *Gateway) loadImage(ctx context.Context, r ImageDescription) (*ai.Image, error) {
	data, mimeType := r.Image, r.MIMEType
	if len(data) == 0 {
		fetched, err := g.fetcher.Fetch(ctx, r.Ref)
		if err != nil {
			if ctx.Err() != nil {
				return nil, newError(TransportFailure, OpFetchImage, ctxError(ctx))
			}
			if errors.Is(err, imagesvc.ErrRefNotAllowed) {
				return nil, newError(ValidationFailed, OpFetchImage, err)
			}
			return nil, newError(TransportFailure, OpFetchImage, err)
		}
		data, mimeType = fetched.Data, fetched.MIMEType
	}

	mimeType, err := imageMIME(mimeType, data)
	if err != nil {
		return nil, newError(ValidationFailed, OpProcessImage, err)
	}

	processed, err := g.processor.Process(data, mimeType)
	if err != nil {
		return nil, newError(ValidationFailed, OpProcessImage, err)
	}
	return &ai.Image{Data: processed.Data, MIMEType: processed.MimeType}, nil
}

// imageMIME определяет тип по содержимому, если он не указан, и отклоняет всё, что не image/*.
func imageMIME(declared string, data []byte) (string, error) {
	if declared == "" {
		declared = http.DetectContentType(data)
	}
	mediaType, _, err := mime.ParseMediaType(declared)
	if err != nil || !strings.HasPrefix(mediaType, "image/") {
		return "", fmt.Errorf("content type %q is not an image", declared)
	}
	return mediaType, nil
}

func parseReply(req Request, reply string) (Result, error) {
	switch r := req.(type) {
	case WarningSuggestion:
		return ParseWarnings(reply), nil
	case StructuredGenerate:
		return ParseStructured(r.Shape, reply)
	default:
		return ParseText(reply), nil
	}
}

// classify раскладывает ошибку транспорта по видам.
func classify(err error) error {
	var se *ai.StatusError
	if errors.As(err, &se) {
		e := newError(UpstreamRejected, OpInvoke, err)
		e.StatusCode = se.StatusCode
		return e
	}
	if errors.Is(err, ai.ErrNoReply) {
		return newError(MalformedReply, OpInvoke, err)
	}
	return newError(TransportFailure, OpInvoke, err)
}

func asError(kind ErrorKind, op string, err error) error {
	var e *Error
	if errors.As(err, &e) {
		return err
	}
	return newError(kind, op, err)
}

// ctxError сохраняет и ошибку контекста, и её причину: вызывающий может проверить
// и context.DeadlineExceeded, и таймаут.
func ctxError(ctx context.Context) error {
	err := ctx.Err()
	if cause := context.Cause(ctx); cause != nil && cause != err {
		return fmt.Errorf("%w: %w", err, cause)
	}
	return err
}
