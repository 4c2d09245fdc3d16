// Package api serves the aggregation pipeline over HTTP: topic listing,
// digests, report generation and stored-report lookup.
package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"topic-pulse/internal/export"
	"topic-pulse/internal/model"
	"topic-pulse/internal/pipeline"
)

// ReportReader looks up stored reports.
type ReportReader interface {
	LatestReport(ctx context.Context, topic string) (model.Report, bool, error)
	RecentTopics(ctx context.Context, n int) ([]model.ReportRef, error)
}

// Handler wires the pipeline into echo routes.
type Handler struct {
	Topics   pipeline.TopicTable
	Pipeline *pipeline.Pipeline
	Reporter *pipeline.Reporter
	Reports  ReportReader // nil when Redis is disabled

	// Markdown export; skipped when OutputDir is empty.
	OutputDir     string
	TitleTemplate string
}

// Register mounts the API under /api.
func (h *Handler) Register(e *echo.Echo) {
	g := e.Group("/api")
	g.GET("/topics", h.topics)
	g.GET("/digest", h.digest)
	g.POST("/report", h.createReport)
	g.GET("/report", h.latestReport)
	g.GET("/reports", h.recentReports)
}

type reportRequest struct {
	Topic string `json:"topic" query:"topic" form:"topic"`
}

type reportResponse struct {
	Topic    string        `json:"topic"`
	RunID    string        `json:"run_id,omitempty"`
	Document string        `json:"document,omitempty"`
	Report   *model.Report `json:"report,omitempty"`
	Path     string        `json:"path,omitempty"`
	Error    string        `json:"error,omitempty"`
}

func (h *Handler) topics(c echo.Context) error {
	return c.JSON(http.StatusOK, h.Topics.Topics())
}

func (h *Handler) digest(c echo.Context) error {
	topic := strings.TrimSpace(c.QueryParam("topic"))
	if topic == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "topic is required")
	}
	d, err := h.Pipeline.Run(c.Request().Context(), topic)
	if err != nil {
		return runError(err)
	}
	return c.JSON(http.StatusOK, d)
}

func (h *Handler) createReport(c echo.Context) error {
	var req reportRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	topic := strings.TrimSpace(req.Topic)
	if topic == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "topic is required")
	}
	d, rep, err := h.Reporter.Generate(c.Request().Context(), topic)
	if err != nil {
		if d != nil && d.Document != "" {
			// Synthesis failed after a successful run: keep the document visible.
			return c.JSON(http.StatusOK, reportResponse{Topic: topic, RunID: d.RunID, Document: d.Document, Error: err.Error()})
		}
		return runError(err)
	}
	out := reportResponse{Topic: topic, RunID: d.RunID, Document: d.Document, Report: rep}
	if h.OutputDir != "" {
		path, err := export.WriteReport(h.OutputDir, h.TitleTemplate, *rep)
		if err != nil {
			slog.Warn("api: export report failed", "topic", topic, "error", err)
		} else {
			out.Path = path
		}
	}
	return c.JSON(http.StatusOK, out)
}

func (h *Handler) latestReport(c echo.Context) error {
	topic := strings.TrimSpace(c.QueryParam("topic"))
	if topic == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "topic is required")
	}
	if h.Reports == nil {
		return echo.NewHTTPError(http.StatusNotFound, "report storage is disabled")
	}
	r, found, err := h.Reports.LatestReport(c.Request().Context(), topic)
	if err != nil {
		slog.Error("api: load report failed", "topic", topic, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to load report")
	}
	if !found {
		return echo.NewHTTPError(http.StatusNotFound, "no report for this topic")
	}
	return c.JSON(http.StatusOK, r)
}

func (h *Handler) recentReports(c echo.Context) error {
	if h.Reports == nil {
		return c.JSON(http.StatusOK, []model.ReportRef{})
	}
	refs, err := h.Reports.RecentTopics(c.Request().Context(), 50)
	if err != nil {
		slog.Error("api: list reports failed", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to list reports")
	}
	if refs == nil {
		refs = []model.ReportRef{}
	}
	return c.JSON(http.StatusOK, refs)
}

func runError(err error) error {
	switch {
	case errors.Is(err, pipeline.ErrNoContent):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return echo.NewHTTPError(http.StatusGatewayTimeout, "request cancelled")
	default:
		slog.Error("api: run failed", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
}
