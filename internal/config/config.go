package config

import (
	"errors"
	"flag"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

const (
	ProviderGemini    = "gemini"
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
)

type Config struct {
	DebugMode bool `env:"DEBUG_MODE"` // dev-логгер и трейсы в stdout

	AI     AIConfig
	Image  ImageConfig
	Server ServerConfig
	OTel   OTelConfig
}

// AIConfig провайдер модели и его модели.
type AIConfig struct {
	Provider        string        `env:"AI_PROVIDER"`          // gemini|openai|anthropic
	APIKey          string        `env:"AI_API_KEY"`           // важнее ключей конкретных провайдеров
	TextModel       string        `env:"AI_TEXT_MODEL"`        // если пусто, берётся модель провайдера по умолчанию
	VisionModel     string        `env:"AI_VISION_MODEL"`      // если пусто, берётся модель провайдера по умолчанию
	RequestTimeout  time.Duration `env:"AI_REQUEST_TIMEOUT"`   // на один вызов, включая загрузку картинки
	MaxOutputTokens int           `env:"AI_MAX_OUTPUT_TOKENS"` // для провайдеров, которым он обязателен

	GeminiAPIKey    string `env:"GEMINI_API_KEY"`
	OpenAIAPIKey    string `env:"OPENAI_API_KEY"`
	AnthropicAPIKey string `env:"ANTHROPIC_API_KEY"`
}

type ImageConfig struct {
	FetchTimeout time.Duration `env:"IMAGE_FETCH_TIMEOUT"`
	MaxBytes     int64         `env:"IMAGE_MAX_BYTES"` // предел размера загружаемой картинки
}

type ServerConfig struct {
	BindAddr        string        `env:"SERVER_BIND_ADDR"`
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT"`
}

// OTelConfig настройки трейсинга. Пустой endpoint отключает OTLP-экспортер.
type OTelConfig struct {
	Endpoint    string `env:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	ServiceName string `env:"OTEL_SERVICE_NAME"`
	Headers     string `env:"OTEL_EXPORTER_OTLP_HEADERS"` // пары key=value через запятую
}

// TracingEnabled сообщает, нужно ли вообще куда-то экспортировать спаны.
func (c *Config) TracingEnabled() bool {
	return c.OTel.Endpoint != "" || c.DebugMode
}

var defaultModels = map[string][2]string{
	ProviderGemini:    {"gemini-2.0-flash", "gemini-2.0-flash"},
	ProviderOpenAI:    {"gpt-4o-mini", "gpt-4o-mini"},
	ProviderAnthropic: {"claude-3-5-haiku-latest", "claude-3-5-haiku-latest"},
}

// Defaults возвращает конфигурацию до применения .env, ENV и флагов.
func Defaults() *Config {
	return &Config{
		DebugMode: false,
		AI: AIConfig{
			Provider:        ProviderGemini,
			RequestTimeout:  30 * time.Second,
			MaxOutputTokens: 1024,
		},
		Image: ImageConfig{
			FetchTimeout: 10 * time.Second,
			MaxBytes:     10 << 20,
		},
		Server: ServerConfig{
			BindAddr:        "127.0.0.1:8080",
			ShutdownTimeout: 5 * time.Second,
		},
		OTel: OTelConfig{
			ServiceName: "assist-gateway",
		},
	}
}

// Load накладывает .env и ENV поверх Defaults. Флаги подключаются отдельно через BindFlags.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := Defaults()
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// BindFlags регистрирует в fs переопределения из командной строки. Текущие значения становятся дефолтами флагов.
func (c *Config) BindFlags(fs *flag.FlagSet) {
	fs.BoolVar(&c.DebugMode, "debug-mode", c.DebugMode, "enable debug logging and stdout traces")
	fs.StringVar(&c.AI.Provider, "ai-provider", c.AI.Provider, "model provider: gemini|openai|anthropic")
	fs.StringVar(&c.AI.APIKey, "ai-api-key", c.AI.APIKey, "model provider API key (overrides ENV)")
	fs.StringVar(&c.AI.TextModel, "ai-text-model", c.AI.TextModel, "model used for text requests")
	fs.StringVar(&c.AI.VisionModel, "ai-vision-model", c.AI.VisionModel, "model used for image requests")
	fs.DurationVar(&c.AI.RequestTimeout, "ai-request-timeout", c.AI.RequestTimeout, "timeout of one invocation, e.g. 30s")
	fs.DurationVar(&c.Image.FetchTimeout, "image-fetch-timeout", c.Image.FetchTimeout, "timeout of an image download")
	fs.Int64Var(&c.Image.MaxBytes, "image-max-bytes", c.Image.MaxBytes, "largest image accepted from a reference")
	fs.StringVar(&c.Server.BindAddr, "server-bind-addr", c.Server.BindAddr, "HTTP listen address")
	fs.StringVar(&c.OTel.Endpoint, "otel-endpoint", c.OTel.Endpoint, "OTLP HTTP endpoint; empty disables export")
}

// Finalize заполняет зависящие от провайдера значения и проверяет результат.
func (c *Config) Finalize() error {
	c.AI.Provider = strings.ToLower(strings.TrimSpace(c.AI.Provider))
	if c.AI.Provider == "" {
		c.AI.Provider = ProviderGemini
	}

	if c.AI.APIKey == "" {
		switch c.AI.Provider {
		case ProviderGemini:
			c.AI.APIKey = c.AI.GeminiAPIKey
		case ProviderOpenAI:
			c.AI.APIKey = c.AI.OpenAIAPIKey
		case ProviderAnthropic:
			c.AI.APIKey = c.AI.AnthropicAPIKey
		}
	}

	if models, ok := defaultModels[c.AI.Provider]; ok {
		if c.AI.TextModel == "" {
			c.AI.TextModel = models[0]
		}
		if c.AI.VisionModel == "" {
			c.AI.VisionModel = models[1]
		}
	}

	return c.Validate()
}

// Validate сообщает обо всех проблемах сразу.
func (c *Config) Validate() error {
	var errs []error
	if _, ok := defaultModels[c.AI.Provider]; !ok {
		errs = append(errs, fmt.Errorf("unknown AI_PROVIDER %q", c.AI.Provider))
	}
	if strings.TrimSpace(c.AI.APIKey) == "" {
		errs = append(errs, fmt.Errorf("API key for provider %q is not set (AI_API_KEY)", c.AI.Provider))
	}
	if c.AI.RequestTimeout <= 0 {
		errs = append(errs, errors.New("AI_REQUEST_TIMEOUT must be positive"))
	}
	if c.Image.FetchTimeout <= 0 {
		errs = append(errs, errors.New("IMAGE_FETCH_TIMEOUT must be positive"))
	}
	if c.Image.MaxBytes <= 0 {
		errs = append(errs, errors.New("IMAGE_MAX_BYTES must be positive"))
	}
	return errors.Join(errs...)
}

// NewConfig загружает конфигурацию долгоживущего процесса и паникует, если она непригодна.
func NewConfig() *Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	cfg.BindFlags(flag.CommandLine)
	flag.Parse()

	if err := cfg.Finalize(); err != nil {
		panic(fmt.Errorf("config: %w", err))
	}
	return cfg
}
