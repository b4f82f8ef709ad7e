package main

import (
	"AssistGateway/internal/ai"
	"AssistGateway/internal/assist"
	"AssistGateway/internal/config"
	"AssistGateway/internal/logger"
	imagesvc "AssistGateway/internal/service/image"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
)

// Разовый вызов операции шлюза, для ручной проверки провайдера.
//
//	assist -op translate -text "Hello" -lang es
//	assist -op describe-image -image images/1.jpg
//	assist -stub -stub-reply '["a","b","c"]' -op ideas -category Wellness
func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitCode(err))
	}
}

type options struct {
	op        string
	text      string
	title     string
	category  string
	image     string
	lang      string
	stub      bool
	stubReply string
}

func run(args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	fs := flag.NewFlagSet("assist", flag.ContinueOnError)
	cfg.BindFlags(fs)
	var opts options
	fs.StringVar(&opts.op, "op", "generate", "generate|accessibility|warnings|describe-image|translate|analyze-post|ideas")
	fs.StringVar(&opts.text, "text", "", "input text, instruction or post content")
	fs.StringVar(&opts.title, "title", "", "post title for analyze-post")
	fs.StringVar(&opts.category, "category", "", "feed category for ideas")
	fs.StringVar(&opts.image, "image", "", "image URL, data: URL or local path for describe-image")
	fs.StringVar(&opts.lang, "lang", string(assist.English), "translation target: en|es|fr|ar|zh")
	fs.BoolVar(&opts.stub, "stub", false, "answer from a stub instead of a real provider")
	fs.StringVar(&opts.stubReply, "stub-reply", "", "reply returned in -stub mode")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if opts.stub && cfg.AI.APIKey == "" {
		cfg.AI.APIKey = "stub"
	}
	if err := cfg.Finalize(); err != nil {
		return fmt.Errorf("config: %w", err)
	}

	sugar, syncLogger, err := logger.New(cfg.DebugMode)
	if err != nil {
		return err
	}
	defer syncLogger()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var client ai.Client
	if opts.stub {
		client = ai.NewStubClient(opts.stubReply)
	} else {
		client, err = ai.NewClient(ctx, cfg, sugar)
		if err != nil {
			return err
		}
		if closer, ok := client.(io.Closer); ok {
			defer closer.Close()
		}
	}

	gateway := assist.New(client,
		assist.WithFetcher(imagesvc.NewFetcher(cfg.Image.FetchTimeout, cfg.Image.MaxBytes)),
		assist.WithTimeout(cfg.AI.RequestTimeout),
		assist.WithLogger(sugar),
	)

	req, err := buildRequest(opts)
	if err != nil {
		return err
	}
	res, err := gateway.Invoke(ctx, req)
	if err != nil {
		return err
	}
	return printResult(os.Stdout, res)
}

func buildRequest(opts options) (assist.Request, error) {
	switch strings.ToLower(opts.op) {
	case "generate":
		return assist.Freeform{Instruction: opts.text}, nil
	case "accessibility":
		return assist.AccessibilityRewrite{Text: opts.text}, nil
	case "warnings":
		return assist.WarningSuggestion{Text: opts.text}, nil
	case "describe-image":
		return assist.ImageDescription{Ref: opts.image}, nil
	case "translate":
		lang, _ := assist.ParseLanguage(opts.lang)
		return assist.Translation{Text: opts.text, Target: lang}, nil
	case "analyze-post":
		return assist.AnalyzePostRequest(opts.title, opts.text), nil
	case "ideas":
		return assist.SuggestIdeasRequest(opts.category), nil
	default:
		return nil, fmt.Errorf("unknown op %q", opts.op)
	}
}

func printResult(w io.Writer, res assist.Result) error {
	switch r := res.(type) {
	case assist.Text:
		_, err := fmt.Fprintln(w, string(r))
		return err
	case assist.List:
		if len(r) == 0 {
			_, err := fmt.Fprintln(w, "(none)")
			return err
		}
		for _, item := range r {
			if _, err := fmt.Fprintln(w, "-", item); err != nil {
				return err
			}
		}
		return nil
	default:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(r)
	}
}

// exitCode: 2 при неверном вводе, 3 если запрос можно повторить, иначе 1.
func exitCode(err error) int {
	switch {
	case errors.Is(err, assist.ErrValidation), errors.Is(err, flag.ErrHelp):
		return 2
	case assist.KindOf(err).Retryable():
		return 3
	default:
		return 1
	}
}
