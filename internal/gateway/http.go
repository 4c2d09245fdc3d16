package gateway

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"topic-pulse/internal/metrics"
)

// CORS answers every OPTIONS request with an empty 204 and stamps the open
// allow-origin header on every response. Register it with echo.Pre so it runs
// before routing.
func CORS(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		h := c.Response().Header()
		h.Set(echo.HeaderAccessControlAllowOrigin, "*")
		if c.Request().Method == http.MethodOptions {
			h.Set(echo.HeaderAccessControlAllowMethods, "GET,POST,OPTIONS")
			h.Set(echo.HeaderAccessControlAllowHeaders, "Content-Type")
			return c.NoContent(http.StatusNoContent)
		}
		return next(c)
	}
}

// ErrorHandler renders every error as {"error": "..."}.
func ErrorHandler(err error, c echo.Context) {
	code := http.StatusInternalServerError
	msg := err.Error()
	if he, ok := err.(*echo.HTTPError); ok {
		code = he.Code
		if m, ok := he.Message.(string); ok {
			msg = m
		}
	}
	req := c.Request()
	slog.Info("http: error response", "status", code, "method", req.Method, "path", req.URL.Path, "error", msg)
	if !c.Response().Committed {
		_ = c.JSON(code, map[string]string{"error": msg})
	}
}

// Handler exposes the gateway over HTTP.
type Handler struct {
	Gateway *Gateway
	Metrics *metrics.Metrics
}

// Register mounts the proxy route and its legacy alias.
func (h *Handler) Register(e *echo.Echo) {
	e.GET("/proxy", h.proxy)
	e.GET("/api/reddit", h.proxy)
}

func (h *Handler) proxy(c echo.Context) error {
	req, err := ParseQuery(c.QueryParams())
	if err != nil {
		h.Metrics.GatewayRequest("invalid", "none", http.StatusBadRequest)
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}
	resp, err := h.Gateway.Serve(c.Request().Context(), req)
	if err != nil {
		slog.Error("gateway: request failed", "mode", req.Mode, "error", err)
		h.Metrics.GatewayRequest(string(req.Mode), "none", http.StatusInternalServerError)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	out := c.Response().Header()
	for k, vs := range resp.Header {
		for _, v := range vs {
			out.Add(k, v)
		}
	}
	out.Set(echo.HeaderAccessControlAllowOrigin, "*")
	return c.Blob(resp.Status, resp.Header.Get(echo.HeaderContentType), resp.Body)
}
