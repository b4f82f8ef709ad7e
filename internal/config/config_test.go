package config_test

import (
	"AssistGateway/internal/config"
	"flag"
	"os"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func setenv(key, value string) {
	old, had := os.LookupEnv(key)
	Expect(os.Setenv(key, value)).To(Succeed())
	DeferCleanup(func() {
		if had {
			_ = os.Setenv(key, old)
		} else {
			_ = os.Unsetenv(key)
		}
	})
}

var _ = Describe("Config", func() {
	Describe("Defaults", func() {
		It("uses gemini with a 30s request timeout", func() {
			cfg := config.Defaults()
			Expect(cfg.AI.Provider).To(Equal(config.ProviderGemini))
			Expect(cfg.AI.RequestTimeout).To(Equal(30 * time.Second))
			Expect(cfg.Image.MaxBytes).To(BeNumerically(">", 0))
			Expect(cfg.Server.BindAddr).NotTo(BeEmpty())
		})
	})

	Describe("Load", func() {
		It("overrides defaults from the environment", func() {
			setenv("AI_PROVIDER", "openai")
			setenv("AI_REQUEST_TIMEOUT", "5s")
			setenv("IMAGE_MAX_BYTES", "2048")
			setenv("DEBUG_MODE", "true")

			cfg, err := config.Load()
			Expect(err).NotTo(HaveOccurred())
			Expect(cfg.AI.Provider).To(Equal("openai"))
			Expect(cfg.AI.RequestTimeout).To(Equal(5 * time.Second))
			Expect(cfg.Image.MaxBytes).To(Equal(int64(2048)))
			Expect(cfg.DebugMode).To(BeTrue())
		})

		It("fails on an unparsable duration", func() {
			setenv("AI_REQUEST_TIMEOUT", "soon")
			_, err := config.Load()
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("BindFlags", func() {
		It("lets flags win over the environment", func() {
			setenv("AI_PROVIDER", "openai")
			cfg, err := config.Load()
			Expect(err).NotTo(HaveOccurred())

			fs := flag.NewFlagSet("test", flag.ContinueOnError)
			cfg.BindFlags(fs)
			Expect(fs.Parse([]string{"-ai-provider", "anthropic", "-ai-request-timeout", "1m"})).To(Succeed())
			Expect(cfg.AI.Provider).To(Equal("anthropic"))
			Expect(cfg.AI.RequestTimeout).To(Equal(time.Minute))
		})
	})

	Describe("Finalize", func() {
		It("falls back to the provider-specific key and default models", func() {
			cfg := config.Defaults()
			cfg.AI.Provider = " OpenAI "
			cfg.AI.OpenAIAPIKey = "sk-test"
			cfg.AI.GeminiAPIKey = "g-test"

			Expect(cfg.Finalize()).To(Succeed())
			Expect(cfg.AI.Provider).To(Equal(config.ProviderOpenAI))
			Expect(cfg.AI.APIKey).To(Equal("sk-test"))
			Expect(cfg.AI.TextModel).NotTo(BeEmpty())
			Expect(cfg.AI.VisionModel).NotTo(BeEmpty())
		})

		It("keeps an explicit key and model", func() {
			cfg := config.Defaults()
			cfg.AI.APIKey = "explicit"
			cfg.AI.GeminiAPIKey = "fallback"
			cfg.AI.TextModel = "gemini-custom"

			Expect(cfg.Finalize()).To(Succeed())
			Expect(cfg.AI.APIKey).To(Equal("explicit"))
			Expect(cfg.AI.TextModel).To(Equal("gemini-custom"))
		})

		DescribeTable("rejects unusable settings",
			func(mutate func(*config.Config), message string) {
				cfg := config.Defaults()
				cfg.AI.APIKey = "key"
				mutate(cfg)
				err := cfg.Finalize()
				Expect(err).To(HaveOccurred())
				Expect(err.Error()).To(ContainSubstring(message))
			},
			Entry("unknown provider", func(c *config.Config) { c.AI.Provider = "mistral" }, "unknown AI_PROVIDER"),
			Entry("missing key", func(c *config.Config) { c.AI.APIKey = "" }, "API key"),
			Entry("zero timeout", func(c *config.Config) { c.AI.RequestTimeout = 0 }, "AI_REQUEST_TIMEOUT"),
			Entry("zero image limit", func(c *config.Config) { c.Image.MaxBytes = 0 }, "IMAGE_MAX_BYTES"),
		)
	})
})
