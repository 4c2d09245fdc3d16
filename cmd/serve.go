package cmd

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/spf13/cobra"

	"topic-pulse/internal/api"
	"topic-pulse/internal/gateway"
	"topic-pulse/internal/metrics"
	"topic-pulse/internal/pipeline"
	"topic-pulse/worker"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the proxy gateway, the aggregation API and the report refresher",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()
		m := metrics.New()

		gw, err := newGateway(cfg, m)
		if err != nil {
			return err
		}
		pl, err := newPipeline(cfg, gw, m)
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

		reporter := &pipeline.Reporter{Pipeline: pl, Synthesizer: synth}
		h := &api.Handler{
			Topics:        pl.Fetcher.Topics,
			Pipeline:      pl,
			Reporter:      reporter,
			OutputDir:     cfg.Reports.OutputDir,
			TitleTemplate: cfg.Reports.Title,
		}
		if store != nil {
			reporter.Store = store
			h.Reports = store
		}

		e := echo.New()
		e.HideBanner = true
		e.HidePort = true
		e.HTTPErrorHandler = gateway.ErrorHandler
		e.Pre(gateway.CORS)
		e.Use(middleware.Recover())
		e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{Generator: uuid.NewString}))
		e.GET("/healthz", func(c echo.Context) error { return c.String(http.StatusOK, "ok") })
		e.GET("/metrics", echo.WrapHandler(m.Handler()))
		(&gateway.Handler{Gateway: gw, Metrics: m}).Register(e)
		h.Register(e)

		mgr := worker.NewManager(&worker.HTTPServer{Echo: e, Addr: cfg.App.Listen})
		if strings.TrimSpace(cfg.Reports.RefreshInterval) != "" {
			interval, err := parseDuration("reports.refresh_interval", cfg.Reports.RefreshInterval, 0)
			if err != nil {
				return err
			}
			topics := cfg.Reports.RefreshTopics
			if len(topics) == 0 {
				for _, t := range pl.Fetcher.Topics.Topics() {
					topics = append(topics, t.Name)
				}
			}
			slog.Info("starting report refresher", "topics", topics, "interval", interval.String())
			mgr.Add(&worker.ReportRefresher{
				Reporter:      reporter,
				Topics:        topics,
				Interval:      interval,
				OutputDir:     cfg.Reports.OutputDir,
				TitleTemplate: cfg.Reports.Title,
			})
		}
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		// Signal handling for systemd
		sigc := make(chan os.Signal, 1)
		signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
		go func() {
			s := <-sigc
			slog.Info("received signal, shutting down", "signal", s.String())
			cancel()
		}()

		return mgr.Start(ctx)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
