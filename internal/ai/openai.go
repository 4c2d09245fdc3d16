package ai

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"topic-pulse/internal/metrics"
)

// OpenAIClient synthesizes reports directly through the Chat Completions API.
type OpenAIClient struct {
	client  *openai.Client
	model   string
	timeout time.Duration
	metrics *metrics.Metrics
}

type Config struct {
	APIKey  string
	Model   string
	BaseURL string // optional
	Timeout time.Duration
}

func NewOpenAI(cfg Config, m *metrics.Metrics) (*OpenAIClient, error) {
	if cfg.Model == "" {
		return nil, errors.New("openai: model must be specified")
	}
	var c *openai.Client
	if cfg.BaseURL != "" {
		cc := openai.DefaultConfig(cfg.APIKey)
		cc.BaseURL = cfg.BaseURL
		c = openai.NewClientWithConfig(cc)
	} else {
		c = openai.NewClient(cfg.APIKey)
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 300 * time.Second
	}
	return &OpenAIClient{client: c, model: cfg.Model, timeout: timeout, metrics: m}, nil
}

// Synthesize sends the same preamble-wrapped prompt the rephrase service gets.
func (o *OpenAIClient) Synthesize(ctx context.Context, document string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()
	if strings.TrimSpace(document) == "" {
		o.metrics.Synthesis(metrics.OutcomeEmpty)
		return "", fmt.Errorf("%w: empty document", ErrSynthesis)
	}
	out, err := o.create(ctx, Preamble, "<paragraph>\n"+document+"\n</paragraph>")
	if err != nil {
		o.metrics.Synthesis(metrics.OutcomeFailed)
		slog.Error("openai: synthesize error", "err", err)
		return "", fmt.Errorf("%w: %v", ErrSynthesis, err)
	}
	out = strings.TrimSpace(out)
	if out == "" {
		o.metrics.Synthesis(metrics.OutcomeEmpty)
		return "", fmt.Errorf("%w: empty completion", ErrSynthesis)
	}
	o.metrics.Synthesis(metrics.OutcomeOK)
	return out, nil
}

func (o *OpenAIClient) create(ctx context.Context, system, user string) (string, error) {
	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: o.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
		Temperature: 0.4,
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", nil
	}
	return resp.Choices[0].Message.Content, nil
}
