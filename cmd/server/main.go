package main

import (
	"AssistGateway/internal/adapter/httpapi"
	"AssistGateway/internal/ai"
	"AssistGateway/internal/assist"
	"AssistGateway/internal/config"
	"AssistGateway/internal/logger"
	imagesvc "AssistGateway/internal/service/image"
	"AssistGateway/internal/telemetry"
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
)

// HTTP-фронт шлюза. Страницы в браузере ходят сюда, а не держат у себя ключ модели.
func main() {
	cfg := config.NewConfig()

	sugar, syncLogger, err := logger.New(cfg.DebugMode)
	if err != nil {
		panic(err)
	}
	defer syncLogger()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sugar.Infow("Starting assist server",
		"provider", cfg.AI.Provider,
		"textModel", cfg.AI.TextModel,
		"visionModel", cfg.AI.VisionModel,
		"addr", cfg.Server.BindAddr,
		"debugMode", cfg.DebugMode,
	)

	tel, err := telemetry.Setup(ctx, cfg, sugar)
	if err != nil {
		sugar.Fatalw("Failed to set up telemetry", "error", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tel.Shutdown(shutdownCtx); err != nil {
			sugar.Errorw("Telemetry shutdown failed", "error", err)
		}
	}()

	client, err := ai.NewClient(ctx, cfg, sugar)
	if err != nil {
		sugar.Fatalw("Failed to create model client", "provider", cfg.AI.Provider, "error", err)
	}
	if closer, ok := client.(io.Closer); ok {
		defer closer.Close()
	}

	gateway := assist.New(client,
		assist.WithFetcher(imagesvc.NewPublicFetcher(cfg.Image.FetchTimeout, cfg.Image.MaxBytes)),
		assist.WithTimeout(cfg.AI.RequestTimeout),
		assist.WithLogger(sugar.Named("assist")),
	)

	router := httpapi.NewRouter(httpapi.NewAssistHandler(gateway, sugar.Named("http")), httpapi.RouterConfig{
		ServiceName: cfg.OTel.ServiceName,
		Tracing:     cfg.TracingEnabled(),
		Debug:       cfg.DebugMode,
	})

	srv := &http.Server{
		Addr:              cfg.Server.BindAddr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      cfg.AI.RequestTimeout + 10*time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		sugar.Infow("Assist server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			sugar.Errorw("Server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeoutCause(context.Background(), cfg.Server.ShutdownTimeout, errors.New("shutdown timeout"))
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		sugar.Warnw("Graceful shutdown error", "error", err)
		_ = srv.Close()
	}
	sugar.Infow("Server stopped")
}
