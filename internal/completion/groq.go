// Package completion talks to OpenAI-compatible chat-completion endpoints.
package completion

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"medibot/internal/domain"
)

const (
	DefaultBaseURL = "https://api.groq.com/openai/v1/"
	DefaultModel   = "llama-3.3-70b-versatile"
	DefaultKeyEnv  = "GROQ_API_KEY"
)

var (
	ErrAPIKeyRequired  = errors.New("completion API key is required")
	ErrNoMessages      = errors.New("no messages to send")
	ErrEmptyCompletion = errors.New("completion returned no choices")
	ErrUnknownRole     = errors.New("unknown turn role")
)

// Config configures the Groq client.
type Config struct {
	BaseURL   string
	APIKeyEnv string
	Model     string
	Timeout   time.Duration
	// MaxRetries is the number of retries after a transient failure.
	MaxRetries int
}

// Groq sends conversation turns to a Groq (or any OpenAI-compatible) chat endpoint.
type Groq struct {
	client openai.Client
	model  string
}

// NewGroq creates a client. The API key is read from the env var named by APIKeyEnv.
func NewGroq(cfg Config) (*Groq, error) {
	if cfg.APIKeyEnv == "" {
		cfg.APIKeyEnv = DefaultKeyEnv
	}
	key := os.Getenv(cfg.APIKeyEnv)
	if key == "" {
		return nil, fmt.Errorf("%w: env %s is empty", ErrAPIKeyRequired, cfg.APIKeyEnv)
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 60 * time.Second
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	return &Groq{
		client: openai.NewClient(
			option.WithAPIKey(key),
			option.WithBaseURL(cfg.BaseURL),
			option.WithRequestTimeout(cfg.Timeout),
			option.WithMaxRetries(cfg.MaxRetries),
		),
		model: cfg.Model,
	}, nil
}

// Complete returns the assistant reply for the given turns.
func (g *Groq) Complete(ctx context.Context, turns []domain.Turn) (string, error) {
	if len(turns) == 0 {
		return "", ErrNoMessages
	}
	messages, err := toMessages(turns)
	if err != nil {
		return "", err
	}
	resp, err := g.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:    openai.ChatModel(g.model),
		Messages: messages,
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", ErrEmptyCompletion
	}
	return resp.Choices[0].Message.Content, nil
}

func toMessages(turns []domain.Turn) ([]openai.ChatCompletionMessageParamUnion, error) {
	out := make([]openai.ChatCompletionMessageParamUnion, len(turns))
	for i, t := range turns {
		switch t.Role {
		case domain.RoleSystem:
			out[i] = openai.SystemMessage(t.Content)
		case domain.RoleUser:
			out[i] = openai.UserMessage(t.Content)
		case domain.RoleAssistant:
			out[i] = openai.AssistantMessage(t.Content)
		default:
			return nil, fmt.Errorf("%w: %q", ErrUnknownRole, t.Role)
		}
	}
	return out, nil
}
