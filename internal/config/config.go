package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"medibot/internal/domain"
)

// CorpusConfig points at the FAQ text the index is built from.
type CorpusConfig struct {
	Path string `yaml:"path" env:"MEDIBOT_CORPUS_PATH"`
}

// HashingEmbedderConfig configures the offline feature-hashing embedder.
type HashingEmbedderConfig struct {
	Dimension int `yaml:"dimension" env:"MEDIBOT_HASHING_DIMENSION"`
}

// OpenAIEmbedderConfig holds configuration for the OpenAI-compatible embedder.
type OpenAIEmbedderConfig struct {
	BaseURL     string `yaml:"base_url" env:"MEDIBOT_EMBEDDINGS_BASE_URL"`
	APIKeyEnv   string `yaml:"api_key_env"`
	Model       string `yaml:"model" env:"MEDIBOT_EMBEDDINGS_MODEL"`
	TimeoutSecs int    `yaml:"timeout_secs"`
	BatchSize   int    `yaml:"batch_size"`
	MaxRetries  int    `yaml:"max_retries"`
}

// GGUFEmbedderConfig configures the local GGUF model embedder.
type GGUFEmbedderConfig struct {
	ModelPath string `yaml:"model_path" env:"MEDIBOT_GGUF_MODEL"`
	GPULayers int    `yaml:"gpu_layers"`
}

// EmbedderConfig selects and configures the text embedder implementation.
type EmbedderConfig struct {
	Type    string                `yaml:"type" env:"MEDIBOT_EMBEDDER"`
	Hashing HashingEmbedderConfig `yaml:"hashing"`
	OpenAI  OpenAIEmbedderConfig  `yaml:"openai"`
	GGUF    GGUFEmbedderConfig    `yaml:"gguf"`
}

// IndexConfig selects the vector index implementation.
type IndexConfig struct {
	Type string `yaml:"type"`
}

// RetrievalConfig controls how many sentences are retrieved per query.
type RetrievalConfig struct {
	TopK int `yaml:"top_k" env:"MEDIBOT_TOP_K"`
}

// CompletionConfig configures the chat-completion backend.
type CompletionConfig struct {
	BaseURL     string `yaml:"base_url" env:"MEDIBOT_COMPLETION_BASE_URL"`
	APIKeyEnv   string `yaml:"api_key_env"`
	Model       string `yaml:"model" env:"MEDIBOT_COMPLETION_MODEL"`
	TimeoutSecs int    `yaml:"timeout_secs"`
	MaxRetries  int    `yaml:"max_retries"`
}

// LogConfig configures structured logging.
type LogConfig struct {
	Level  string `yaml:"level" env:"MEDIBOT_LOG_LEVEL"`
	Format string `yaml:"format" env:"MEDIBOT_LOG_FORMAT"`
	File   string `yaml:"file" env:"MEDIBOT_LOG_FILE"`
}

// AppConfig is the root application configuration structure.
type AppConfig struct {
	Corpus     CorpusConfig     `yaml:"corpus"`
	Embedder   EmbedderConfig   `yaml:"embedder"`
	Index      IndexConfig      `yaml:"index"`
	Retrieval  RetrievalConfig  `yaml:"retrieval"`
	Completion CompletionConfig `yaml:"completion"`
	Log        LogConfig        `yaml:"log"`
}

// Load reads a config from path, fills defaults, applies MEDIBOT_* environment
// overrides and validates the result. A missing file yields the defaults.
func Load(path string) (*AppConfig, error) {
	cfg := defaultConfig()
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, err
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	}
	applyConfigDefaults(cfg)
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("env overrides: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadDefault tries ./config.yaml first, then ~/.config/medibot/config.yaml.
// If neither exists, it writes defaults to ~/.config/medibot/config.yaml and returns them.
func LoadDefault() (*AppConfig, string, error) {
	cwdPath := "config.yaml"
	if _, err := os.Stat(cwdPath); err == nil {
		cfg, err := Load(cwdPath)
		return cfg, cwdPath, err
	}
	userPath, err := defaultUserConfigPath()
	if err != nil {
		return nil, "", err
	}
	if _, err := os.Stat(userPath); err != nil {
		if err := Save(userPath, defaultConfig()); err != nil {
			return nil, "", err
		}
	}
	cfg, err := Load(userPath)
	return cfg, userPath, err
}

// Save writes the config to the given path, creating directories as needed.
func Save(path string, cfg *AppConfig) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// Validate reports the first invalid setting, wrapped in domain.ErrInvalidConfig.
func (c *AppConfig) Validate() error {
	switch c.Embedder.Type {
	case "hashing":
		if c.Embedder.Hashing.Dimension <= 0 {
			return fmt.Errorf("%w: embedder.hashing.dimension must be positive", domain.ErrInvalidConfig)
		}
	case "openai":
	case "gguf":
		if c.Embedder.GGUF.ModelPath == "" {
			return fmt.Errorf("%w: embedder.gguf.model_path is required", domain.ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown embedder %q", domain.ErrInvalidConfig, c.Embedder.Type)
	}
	if c.Index.Type != "flat" {
		return fmt.Errorf("%w: unknown index %q", domain.ErrInvalidConfig, c.Index.Type)
	}
	if c.Retrieval.TopK <= 0 {
		return fmt.Errorf("%w: retrieval.top_k must be positive", domain.ErrInvalidConfig)
	}
	if c.Corpus.Path == "" {
		return fmt.Errorf("%w: corpus.path is required", domain.ErrInvalidConfig)
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("%w: unknown log format %q", domain.ErrInvalidConfig, c.Log.Format)
	}
	return nil
}

func defaultUserConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "medibot", "config.yaml"), nil
}

func defaultConfig() *AppConfig {
	return &AppConfig{
		Corpus:     CorpusConfig{Path: "faq.txt"},
		Embedder:   EmbedderConfig{Type: "hashing", Hashing: HashingEmbedderConfig{Dimension: 384}},
		Index:      IndexConfig{Type: "flat"},
		Retrieval:  RetrievalConfig{TopK: 5},
		Completion: CompletionConfig{APIKeyEnv: "GROQ_API_KEY", TimeoutSecs: 60, MaxRetries: 1},
		Log:        LogConfig{Level: "info", Format: "json", File: "medibot.log"},
	}
}

// applyConfigDefaults fills zero values left by a partial YAML file.
func applyConfigDefaults(cfg *AppConfig) {
	d := defaultConfig()
	if cfg.Corpus.Path == "" {
		cfg.Corpus.Path = d.Corpus.Path
	}
	if cfg.Embedder.Type == "" {
		cfg.Embedder.Type = d.Embedder.Type
	}
	if cfg.Embedder.Hashing.Dimension == 0 {
		cfg.Embedder.Hashing.Dimension = d.Embedder.Hashing.Dimension
	}
	if cfg.Embedder.OpenAI.APIKeyEnv == "" {
		cfg.Embedder.OpenAI.APIKeyEnv = "OPENAI_API_KEY"
	}
	if cfg.Embedder.OpenAI.Model == "" {
		cfg.Embedder.OpenAI.Model = "text-embedding-3-small"
	}
	if cfg.Embedder.OpenAI.TimeoutSecs == 0 {
		cfg.Embedder.OpenAI.TimeoutSecs = 30
	}
	if cfg.Embedder.OpenAI.BatchSize == 0 {
		cfg.Embedder.OpenAI.BatchSize = 32
	}
	if cfg.Index.Type == "" {
		cfg.Index.Type = d.Index.Type
	}
	if cfg.Retrieval.TopK == 0 {
		cfg.Retrieval.TopK = d.Retrieval.TopK
	}
	if cfg.Completion.APIKeyEnv == "" {
		cfg.Completion.APIKeyEnv = d.Completion.APIKeyEnv
	}
	if cfg.Completion.TimeoutSecs == 0 {
		cfg.Completion.TimeoutSecs = d.Completion.TimeoutSecs
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = d.Log.Level
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = d.Log.Format
	}
}
