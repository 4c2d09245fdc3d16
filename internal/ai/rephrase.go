package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"topic-pulse/internal/metrics"
)

// ErrSynthesis marks a failed or malformed synthesis call. The merged document
// that was sent stays valid and can be shown or retried.
var ErrSynthesis = errors.New("synthesis failed")

// Preamble is the fixed instruction placed in front of every merged document.
const Preamble = "Generate a 1-page sentiment analysis report from the following Reddit content. " +
	"Start with a short introduction, then summarize positive sentiments (what users liked or valued) " +
	"and negative sentiments (what users disliked or criticized), and end with a balanced conclusion. " +
	"Make the writing professional, concise, and extra wonderful to read. " +
	"Do not write any extra word other than report content."

// Prompt wraps document in the preamble exactly as the synthesis service expects it.
func Prompt(document string) string {
	return Preamble + "\n\n<paragraph>\n" + document + "\n</paragraph>"
}

// RephraseClient calls an external rephrase service: POST {base}/rephrase with
// {"content": ...}, answered by {"rephrased": ...}.
type RephraseClient struct {
	baseURL string
	http    *http.Client
	metrics *metrics.Metrics
}

func NewRephrase(baseURL string, timeout time.Duration, m *metrics.Metrics) *RephraseClient {
	if timeout <= 0 {
		timeout = 120 * time.Second
	}
	return &RephraseClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		metrics: m,
	}
}

type rephraseRequest struct {
	Content string `json:"content"`
}

type rephraseResponse struct {
	Rephrased *string `json:"rephrased"`
	Error     string  `json:"error"`
}

// Synthesize sends one request and never retries. Every failure wraps ErrSynthesis.
func (c *RephraseClient) Synthesize(ctx context.Context, document string) (string, error) {
	text, err := c.do(ctx, document)
	if err != nil {
		c.metrics.Synthesis(metrics.OutcomeFailed)
		slog.Error("rephrase: request failed", "error", err)
		return "", fmt.Errorf("%w: %v", ErrSynthesis, err)
	}
	c.metrics.Synthesis(metrics.OutcomeOK)
	return text, nil
}

func (c *RephraseClient) do(ctx context.Context, document string) (string, error) {
	if c.baseURL == "" {
		return "", errors.New("synthesis base url is not configured")
	}
	payload, err := json.Marshal(rephraseRequest{Content: Prompt(document)})
	if err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/rephrase", bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	resp, err := c.http.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return "", err
	}

	var out rephraseResponse
	decodeErr := json.Unmarshal(body, &out)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		if decodeErr == nil && out.Error != "" {
			return "", fmt.Errorf("status %d: %s", resp.StatusCode, out.Error)
		}
		return "", fmt.Errorf("status %d", resp.StatusCode)
	}
	if decodeErr != nil {
		return "", fmt.Errorf("decode response: %w", decodeErr)
	}
	if out.Error != "" {
		return "", errors.New(out.Error)
	}
	if out.Rephrased == nil {
		return "", errors.New("response has no rephrased field")
	}
	text := strings.TrimSpace(*out.Rephrased)
	if text == "" {
		return "", errors.New("response has an empty rephrased field")
	}
	return text, nil
}
