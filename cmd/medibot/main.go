package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"

	"medibot/internal/completion"
	"medibot/internal/config"
	"medibot/internal/domain"
	"medibot/internal/embedding/gguf"
	"medibot/internal/embedding/hashing"
	"medibot/internal/embedding/openai"
	"medibot/internal/index"
	"medibot/internal/logger"
	"medibot/internal/segmenter"
	"medibot/internal/service"
	"medibot/internal/tui"
)

func main() {
	_ = godotenv.Load()

	var cfgPath, corpusPath, ask string
	flag.StringVar(&cfgPath, "config", "", "Path to YAML config file (optional; uses ~/.config/medibot/config.yaml if not provided)")
	flag.StringVar(&corpusPath, "corpus", "", "FAQ text file to index (overrides corpus.path)")
	flag.StringVar(&ask, "ask", "", "Answer a single question and exit instead of starting the chat UI")
	flag.Parse()

	if err := run(cfgPath, corpusPath, ask); err != nil {
		fmt.Fprintln(os.Stderr, "medibot:", err)
		os.Exit(1)
	}
}

func run(cfgPath, corpusPath, ask string) error {
	var cfg *config.AppConfig
	var err error
	if cfgPath == "" {
		cfg, _, err = config.LoadDefault()
	} else {
		cfg, err = config.Load(cfgPath)
	}
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if corpusPath != "" {
		cfg.Corpus.Path = corpusPath
	}

	// The chat UI owns the terminal, so logs go to a file there.
	var out io.Writer = os.Stderr
	if ask == "" && cfg.Log.File != "" {
		f, err := os.OpenFile(cfg.Log.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		defer f.Close()
		out = f
	}
	level, err := logger.ParseLevel(cfg.Log.Level)
	if err != nil {
		return err
	}
	log := logger.New(
		logger.WithLevel(level),
		logger.WithFormat(logger.Format(cfg.Log.Format)),
		logger.WithOutput(out),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	seg, err := segmenter.NewPunkt()
	if err != nil {
		return err
	}
	emb, closeEmb, err := newEmbedder(cfg.Embedder)
	if err != nil {
		return fmt.Errorf("%s embedder: %w", cfg.Embedder.Type, err)
	}
	defer closeEmb()

	var newIndex domain.IndexFactory
	switch cfg.Index.Type {
	case "flat":
		newIndex = index.Factory
	default:
		return fmt.Errorf("%w: unknown index %q", domain.ErrInvalidConfig, cfg.Index.Type)
	}

	groq, err := completion.NewGroq(completion.Config{
		BaseURL:    cfg.Completion.BaseURL,
		APIKeyEnv:  cfg.Completion.APIKeyEnv,
		Model:      cfg.Completion.Model,
		Timeout:    time.Duration(cfg.Completion.TimeoutSecs) * time.Second,
		MaxRetries: cfg.Completion.MaxRetries,
	})
	if err != nil {
		return fmt.Errorf("completion backend: %w", err)
	}

	svc := service.NewRAGService(seg, emb, newIndex,
		service.WithCompleter(groq),
		service.WithTopK(cfg.Retrieval.TopK),
		service.WithLogger(log),
	)
	if err := svc.Initialize(ctx, cfg.Corpus.Path); err != nil {
		log.Error("initialize failed", logger.Error(err))
		return err
	}

	if ask != "" {
		answer, err := svc.Respond(ctx, ask)
		if err != nil {
			return err
		}
		fmt.Println(answer)
		return nil
	}

	if _, err := tea.NewProgram(tui.New(ctx, svc), tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithContext(ctx)).Run(); err != nil {
		return err
	}
	log.Info("session ended", logger.SessionID(svc.SessionID()))
	return nil
}

func newEmbedder(cfg config.EmbedderConfig) (domain.Embedder, func() error, error) {
	noop := func() error { return nil }
	switch cfg.Type {
	case "hashing":
		e, err := hashing.NewEmbedder(cfg.Hashing.Dimension)
		return e, noop, err
	case "openai":
		c, err := openai.NewClient(openai.Config{
			BaseURL:    cfg.OpenAI.BaseURL,
			APIKeyEnv:  cfg.OpenAI.APIKeyEnv,
			Model:      cfg.OpenAI.Model,
			Timeout:    time.Duration(cfg.OpenAI.TimeoutSecs) * time.Second,
			BatchSize:  cfg.OpenAI.BatchSize,
			MaxRetries: cfg.OpenAI.MaxRetries,
		})
		return c, noop, err
	case "gguf":
		e, err := gguf.New(cfg.GGUF.ModelPath, cfg.GGUF.GPULayers)
		if err != nil {
			return nil, noop, err
		}
		return e, e.Close, nil
	default:
		return nil, noop, fmt.Errorf("%w: unknown embedder %q", domain.ErrInvalidConfig, cfg.Type)
	}
}
