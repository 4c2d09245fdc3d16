package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"topic-pulse/internal/gateway"
	"topic-pulse/internal/metrics"
	"topic-pulse/internal/model"
	"topic-pulse/internal/reddit"
)

// ErrNoContent is the terminal condition when aggregation yields no usable
// candidates, either because every source failed or none returned items.
var ErrNoContent = errors.New("no content found for this topic or the platform is unreachable")

// Proxy is how the pipeline reaches the gateway, in-process or over HTTP.
// Get returns the body of a successful call and an error otherwise.
type Proxy interface {
	Get(ctx context.Context, req gateway.Request) ([]byte, error)
}

// SourceResult records how one source fared during a fetch.
type SourceResult struct {
	Source string `json:"source"`
	Count  int    `json:"count"`
	Error  string `json:"error,omitempty"`
}

// Fetcher fans a topic out over its sources.
type Fetcher struct {
	Proxy         Proxy
	Topics        TopicTable
	ListLimit     int
	Parallel      int
	BranchTimeout time.Duration
	Metrics       *metrics.Metrics
}

// Fetch resolves topic to its sources and fetches them all.
func (f *Fetcher) Fetch(ctx context.Context, topic string) ([]model.Candidate, []SourceResult, error) {
	return f.FetchSources(ctx, f.Topics.Resolve(topic))
}

// FetchSources issues one list fetch per source concurrently. A failing source
// is recorded and skipped; ErrNoContent is returned only when the union of
// successful sources is empty.
func (f *Fetcher) FetchSources(ctx context.Context, sources []string) ([]model.Candidate, []SourceResult, error) {
	outcomes := settleAll(ctx, len(sources), f.Parallel, f.BranchTimeout, func(ctx context.Context, i int) ([]model.Candidate, error) {
		body, err := f.Proxy.Get(ctx, gateway.Request{Mode: gateway.ModeList, Source: sources[i], Limit: f.ListLimit})
		if err != nil {
			return nil, err
		}
		return reddit.DecodeListing(body)
	})

	results := make([]SourceResult, len(sources))
	var all []model.Candidate
	for i, o := range outcomes {
		results[i].Source = sources[i]
		if o.Err != nil {
			results[i].Error = o.Err.Error()
			f.Metrics.SourceFetch(branchOutcome(o.Err))
			slog.Warn("fetcher: source unavailable", "source", sources[i], "error", o.Err)
			continue
		}
		results[i].Count = len(o.Value)
		if len(o.Value) == 0 {
			f.Metrics.SourceFetch(metrics.OutcomeEmpty)
			continue
		}
		f.Metrics.SourceFetch(metrics.OutcomeOK)
		for _, c := range o.Value {
			if c.SourceID == "" {
				c.SourceID = sources[i]
			}
			all = append(all, c)
		}
	}
	if len(all) == 0 {
		return nil, results, ErrNoContent
	}
	return all, results, nil
}

func branchOutcome(err error) string {
	if errors.Is(err, context.DeadlineExceeded) {
		return metrics.OutcomeTimeout
	}
	return metrics.OutcomeFailed
}
