package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"topic-pulse/internal/ai"
	"topic-pulse/internal/export"
	"topic-pulse/internal/metrics"
	"topic-pulse/internal/pipeline"
)

var reportNoExport bool

// reportCmd aggregates a topic, synthesizes a report and exports it as markdown.
var reportCmd = &cobra.Command{
	Use:   "report <topic>",
	Short: "Generate a sentiment report for a topic",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()
		m := metrics.New()
		pl, err := newPipeline(cfg, nil, m)
		if err != nil {
			return err
		}
		synth, err := newSynthesizer(cfg, m)
		if err != nil {
			return err
		}
		store, closer, err := newReportStore(cfg)
		if err != nil {
			return err
		}
		defer closer.Close()
		r := &pipeline.Reporter{Pipeline: pl, Synthesizer: synth}
		if store != nil {
			r.Store = store
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()
		d, rep, err := r.Generate(ctx, args[0])
		out := cmd.OutOrStdout()
		if errors.Is(err, ai.ErrSynthesis) {
			// The merged document is still useful on its own.
			fmt.Fprintln(out, d.Document)
			return err
		}
		if err != nil {
			return err
		}
		if reportNoExport || cfg.Reports.OutputDir == "" {
			fmt.Fprintln(out, rep.Narrative)
			return nil
		}
		path, err := export.WriteReport(cfg.Reports.OutputDir, cfg.Reports.Title, *rep)
		if err != nil {
			return err
		}
		slog.Info("report: exported", "topic", rep.Topic, "items", rep.ItemCount, "file", path)
		fmt.Fprintf(out, "Generated: %s\n", path)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(reportCmd)
	reportCmd.Flags().BoolVar(&reportNoExport, "no-export", false, "print the narrative instead of writing a markdown file")
}
