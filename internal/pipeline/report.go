package pipeline

import (
	"context"
	"log/slog"
	"time"

	"topic-pulse/internal/model"
)

// Synthesizer turns a merged document into a narrative report.
type Synthesizer interface {
	Synthesize(ctx context.Context, document string) (string, error)
}

// ReportStore persists finished reports.
type ReportStore interface {
	SaveReport(ctx context.Context, r model.Report) error
}

// Reporter runs the pipeline and hands the result to a synthesizer.
type Reporter struct {
	Pipeline    *Pipeline
	Synthesizer Synthesizer
	Store       ReportStore // optional
}

// Generate aggregates topic and synthesizes a report. On synthesis failure the
// digest is still returned alongside the error, so its document can be shown.
func (r *Reporter) Generate(ctx context.Context, topic string) (*Digest, *model.Report, error) {
	d, err := r.Pipeline.Run(ctx, topic)
	if err != nil {
		return d, nil, err
	}
	text, err := r.Synthesizer.Synthesize(ctx, d.Document)
	if err != nil {
		slog.Error("reporter: synthesis failed", "run_id", d.RunID, "topic", topic, "error", err)
		return d, nil, err
	}
	rep := &model.Report{
		Topic:       topic,
		RunID:       d.RunID,
		Sources:     d.Sources,
		Document:    d.Document,
		Narrative:   text,
		ItemCount:   len(d.Items),
		GeneratedAt: time.Now().UTC(),
	}
	if r.Store != nil {
		if err := r.Store.SaveReport(ctx, *rep); err != nil {
			// Persistence is best-effort; the report is still returned.
			slog.Warn("reporter: save report failed", "topic", topic, "error", err)
		}
	}
	return d, rep, nil
}
