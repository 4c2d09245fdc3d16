package worker

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"topic-pulse/internal/export"
	"topic-pulse/internal/pipeline"
)

// ReportRefresher regenerates reports for a fixed set of topics on an interval.
// The reporter saves each report to its store; a non-empty OutputDir also
// exports it as markdown.
type ReportRefresher struct {
	Reporter      *pipeline.Reporter
	Topics        []string
	Interval      time.Duration
	OutputDir     string
	TitleTemplate string
}

func (w *ReportRefresher) Start(ctx context.Context) error {
	if w.Interval <= 0 {
		w.Interval = 6 * time.Hour
	}
	// run immediately then on interval
	w.runOnce(ctx)

	t := time.NewTicker(w.Interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-t.C:
			w.runOnce(ctx)
		}
	}
}

func (w *ReportRefresher) runOnce(ctx context.Context) {
	for _, topic := range w.Topics {
		if ctx.Err() != nil {
			return
		}
		_, rep, err := w.Reporter.Generate(ctx, topic)
		if err != nil {
			if errors.Is(err, pipeline.ErrNoContent) {
				slog.Warn("refresher: no content", "topic", topic)
			} else {
				slog.Error("refresher: report failed", "topic", topic, "error", err)
			}
			continue
		}
		if w.OutputDir == "" {
			slog.Info("refresher: report refreshed", "topic", topic, "items", rep.ItemCount)
			continue
		}
		path, err := export.WriteReport(w.OutputDir, w.TitleTemplate, *rep)
		if err != nil {
			slog.Error("refresher: export failed", "topic", topic, "error", err)
			continue
		}
		slog.Info("refresher: report refreshed", "topic", topic, "items", rep.ItemCount, "file", path)
	}
}
