package worker

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// HTTPServer runs an echo instance until ctx is done, then shuts it down gracefully.
type HTTPServer struct {
	Echo            *echo.Echo
	Addr            string
	ShutdownTimeout time.Duration
}

func (w *HTTPServer) Start(ctx context.Context) error {
	if w.ShutdownTimeout <= 0 {
		w.ShutdownTimeout = 10 * time.Second
	}
	errc := make(chan error, 1)
	go func() {
		slog.Info("http: listening", "addr", w.Addr)
		if err := w.Echo.Start(w.Addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
		close(errc)
	}()

	select {
	case err, ok := <-errc:
		if ok {
			return err
		}
		return nil
	case <-ctx.Done():
	}
	sctx, cancel := context.WithTimeout(context.Background(), w.ShutdownTimeout)
	defer cancel()
	if err := w.Echo.Shutdown(sctx); err != nil {
		slog.Error("http: shutdown error", "error", err)
		return err
	}
	slog.Info("http: server stopped")
	return nil
}
