package cmd

import (
	"fmt"
	"io"
	"strings"
	"time"

	"topic-pulse/internal/ai"
	"topic-pulse/internal/config"
	"topic-pulse/internal/gateway"
	"topic-pulse/internal/metrics"
	"topic-pulse/internal/pipeline"
	"topic-pulse/internal/proxyclient"
	"topic-pulse/internal/reddit"
	"topic-pulse/internal/redisclient"
	"topic-pulse/internal/storage"
)

func parseDuration(name, raw string, def time.Duration) (time.Duration, error) {
	if strings.TrimSpace(raw) == "" {
		return def, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", name, err)
	}
	return d, nil
}

func newGateway(cfg config.Config, m *metrics.Metrics) (*gateway.Gateway, error) {
	timeout, err := parseDuration("upstream.timeout", cfg.Upstream.Timeout, 10*time.Second)
	if err != nil {
		return nil, err
	}
	up := reddit.NewClient(reddit.Options{
		PublicBaseURL:     cfg.Upstream.PublicBaseURL,
		OAuthBaseURL:      cfg.Upstream.OAuthBaseURL,
		TokenURL:          cfg.Upstream.TokenURL,
		UserAgent:         cfg.Upstream.UserAgent,
		Timeout:           timeout,
		RequestsPerMinute: cfg.Upstream.RequestsPerMinute,
		Burst:             cfg.Upstream.Burst,
	})
	creds := gateway.Credentials{ClientID: cfg.Upstream.ClientID, ClientSecret: cfg.Upstream.ClientSecret}
	return gateway.New(up, creds, m), nil
}

// newPipeline builds the aggregation pipeline. It reaches the gateway over
// HTTP when pipeline.proxy_url is set and in-process otherwise; gw may be nil
// in the former case.
func newPipeline(cfg config.Config, gw *gateway.Gateway, m *metrics.Metrics) (*pipeline.Pipeline, error) {
	branchTimeout, err := parseDuration("pipeline.branch_timeout", cfg.Pipeline.BranchTimeout, 15*time.Second)
	if err != nil {
		return nil, err
	}
	var proxy pipeline.Proxy
	if u := strings.TrimSpace(cfg.Pipeline.ProxyURL); u != "" {
		proxy = proxyclient.New(u, branchTimeout)
	} else {
		if gw == nil {
			if gw, err = newGateway(cfg, m); err != nil {
				return nil, err
			}
		}
		proxy = gateway.Local{G: gw}
	}
	return &pipeline.Pipeline{
		Fetcher: &pipeline.Fetcher{
			Proxy:         proxy,
			Topics:        pipeline.NewTopicTable(cfg.Topics),
			ListLimit:     cfg.Pipeline.ListLimit,
			Parallel:      cfg.Pipeline.MaxParallel,
			BranchTimeout: branchTimeout,
			Metrics:       m,
		},
		Enricher: &pipeline.Enricher{
			Proxy:          proxy,
			RepliesPerItem: cfg.Pipeline.RepliesPerItem,
			Parallel:       cfg.Pipeline.MaxParallel,
			BranchTimeout:  branchTimeout,
			Metrics:        m,
		},
		PostsPerTopic: cfg.Pipeline.PostsPerTopic,
		Metrics:       m,
	}, nil
}

func newSynthesizer(cfg config.Config, m *metrics.Metrics) (pipeline.Synthesizer, error) {
	timeout, err := parseDuration("synthesis.timeout", cfg.Synthesis.Timeout, 120*time.Second)
	if err != nil {
		return nil, err
	}
	switch cfg.Synthesis.Provider {
	case "openai":
		return ai.NewOpenAI(ai.Config{
			APIKey:  cfg.OpenAI.APIKey,
			Model:   cfg.OpenAI.Model,
			BaseURL: cfg.OpenAI.BaseURL,
			Timeout: timeout,
		}, m)
	case "rephrase":
		return ai.NewRephrase(cfg.Synthesis.BaseURL, timeout, m), nil
	default:
		return nil, fmt.Errorf("unknown synthesis.provider %q", cfg.Synthesis.Provider)
	}
}

type closerFunc func() error

func (f closerFunc) Close() error { return f() }

// newReportStore returns nil when Redis is disabled. The closer is always safe to call.
func newReportStore(cfg config.Config) (*storage.RedisStore, io.Closer, error) {
	if !cfg.Redis.Enabled {
		return nil, closerFunc(func() error { return nil }), nil
	}
	ttl, err := parseDuration("reports.ttl", cfg.Reports.TTL, 30*24*time.Hour)
	if err != nil {
		return nil, nil, err
	}
	rdb := redisclient.New(cfg.Redis)
	return storage.NewRedisStore(rdb, ttl), rdb, nil
}
