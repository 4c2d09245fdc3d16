package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"topic-pulse/internal/metrics"
	"topic-pulse/internal/model"
)

// Digest is the outcome of one aggregation run.
type Digest struct {
	RunID         string               `json:"run_id"`
	Topic         string               `json:"topic"`
	Sources       []string             `json:"sources"`
	SourceResults []SourceResult       `json:"source_results"`
	Items         []model.EnrichedItem `json:"items"`
	Document      string               `json:"document"`
}

// Pipeline runs topic -> fetch -> select -> enrich -> re-sort -> merge.
// Nothing is cached between runs.
type Pipeline struct {
	Fetcher       *Fetcher
	Enricher      *Enricher
	PostsPerTopic int
	Metrics       *metrics.Metrics
}

// Run aggregates one topic. It fails only with ErrNoContent or a cancelled ctx;
// per-source and per-item failures are absorbed.
func (p *Pipeline) Run(ctx context.Context, topic string) (*Digest, error) {
	start := time.Now()
	d := &Digest{
		RunID:   uuid.NewString(),
		Topic:   topic,
		Sources: p.Fetcher.Topics.Resolve(topic),
	}
	log := slog.With("run_id", d.RunID, "topic", topic)
	log.Info("pipeline: run started", "sources", d.Sources)

	cands, results, err := p.Fetcher.FetchSources(ctx, d.Sources)
	d.SourceResults = results
	if err != nil {
		log.Warn("pipeline: no content", "error", err)
		return d, err
	}
	selected := Select(cands, p.PostsPerTopic)
	if len(selected) == 0 {
		log.Warn("pipeline: every candidate was excluded", "candidates", len(cands))
		return d, ErrNoContent
	}
	if err := ctx.Err(); err != nil {
		return d, err
	}

	items := p.Enricher.Enrich(ctx, selected)
	SortItems(items)
	d.Items = items
	d.Document = Merge(items)

	p.Metrics.Run(time.Since(start), len(items))
	log.Info("pipeline: run completed", "candidates", len(cands), "items", len(items), "took", time.Since(start).String())
	return d, nil
}
