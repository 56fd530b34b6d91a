package main

import (
	"context"
	"fmt"
	"os"

	"github.com/kevinmichaelchen/gh-sms/internal/command"
	"github.com/kevinmichaelchen/gh-sms/internal/config"
	"github.com/kevinmichaelchen/gh-sms/internal/github"
	"github.com/kevinmichaelchen/gh-sms/internal/intent"
	"github.com/kevinmichaelchen/gh-sms/internal/llm"
	"github.com/kevinmichaelchen/gh-sms/internal/logger"
	"github.com/kevinmichaelchen/gh-sms/internal/search"
	"github.com/kevinmichaelchen/gh-sms/internal/summarize"
	"github.com/kevinmichaelchen/gh-sms/internal/telemetry"
	"github.com/kevinmichaelchen/gh-sms/internal/tokens"
	"github.com/spf13/viper"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
)

// app holds the wired components shared by every command.
type app struct {
	cfg         *config.Config
	log         *zap.SugaredLogger
	github      *github.Client
	interpreter *command.Interpreter
	tracing     *sdktrace.TracerProvider
}

func newApp(v *viper.Viper) (*app, error) {
	cfg, err := config.Load(v)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		return nil, err
	}

	// Installed before any component asks otel for a tracer.
	tp, err := telemetry.NewTracerProvider(cfg.OtelExporter, os.Stderr)
	if err != nil {
		return nil, err
	}
	otel.SetTracerProvider(tp)

	gh, err := github.NewClient(cfg.GitHubToken, cfg.GitHubAPIURL)
	if err != nil {
		return nil, err
	}

	completer := llm.New(cfg)
	log.Infow("llm provider selected", "provider", completer.Name(), "model", cfg.LLMModel)

	var counter tokens.Counter
	if tk, err := tokens.NewTiktoken(cfg.TokenizerEncoding); err != nil {
		log.Warnw("tokenizer unavailable, estimating token counts", "encoding", cfg.TokenizerEncoding, "error", err)
		counter = tokens.Approx{}
	} else {
		counter = tk
	}

	engine := summarize.NewEngine(gh, completer, counter, cfg.PromptTokenBudget, log)
	resolver := search.NewResolver(gh, log)
	extractor := intent.NewExtractor(completer, resolver, log)
	creator := command.NewDisabledCreator(log)

	handlers := command.Structured(engine, creator, log)
	handlers = append(handlers, command.NewNaturalLanguage(extractor, engine, creator, log))

	return &app{
		cfg:         cfg,
		log:         log,
		github:      gh,
		interpreter: command.NewInterpreter(log, handlers...),
		tracing:     tp,
	}, nil
}

// close flushes buffered spans and log entries.
func (a *app) close(ctx context.Context) error {
	err := a.tracing.Shutdown(ctx)
	_ = a.log.Sync()
	if err != nil {
		return fmt.Errorf("flushing traces: %w", err)
	}
	return nil
}
