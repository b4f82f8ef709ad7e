package telemetry

import (
	"AssistGateway/internal/config"
	"context"
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.uber.org/zap"
)

var _ = Describe("Telemetry", func() {
	It("stays disabled without an endpoint outside debug mode", func() {
		cfg := config.Defaults()
		tel, err := Setup(context.Background(), cfg, zap.NewNop().Sugar())
		Expect(err).NotTo(HaveOccurred())
		Expect(tel).To(BeNil())
		Expect(tel.Shutdown(context.Background())).To(Succeed())
	})

	It("parses OTLP header pairs", func() {
		Expect(parseHeaders("Authorization=Bearer x, team = core,broken")).To(Equal(map[string]string{
			"Authorization": "Bearer x",
			"team":          "core",
		}))
		Expect(parseHeaders("")).To(BeEmpty())
	})

	Describe("End", func() {
		var recorder *tracetest.SpanRecorder

		BeforeEach(func() {
			recorder = tracetest.NewSpanRecorder()
		})

		It("marks failed spans with the error", func() {
			tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
			_, span := tp.Tracer("test").Start(context.Background(), "op")
			End(span, errors.New("boom"))

			spans := recorder.Ended()
			Expect(spans).To(HaveLen(1))
			Expect(spans[0].Status().Code).To(Equal(codes.Error))
			Expect(spans[0].Status().Description).To(Equal("boom"))
		})

		It("marks successful spans ok", func() {
			tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
			_, span := tp.Tracer("test").Start(context.Background(), "op")
			End(span, nil)

			Expect(recorder.Ended()[0].Status().Code).To(Equal(codes.Ok))
		})
	})
})
