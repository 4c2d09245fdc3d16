package worker

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"topic-pulse/internal/gateway"
	"topic-pulse/internal/model"
	"topic-pulse/internal/pipeline"
)

type oneSourceProxy struct{}

func (oneSourceProxy) Get(ctx context.Context, req gateway.Request) ([]byte, error) {
	if req.Mode == gateway.ModeReplies {
		return []byte(`[]`), nil
	}
	if req.Source != "golang" {
		return nil, errors.New("unreachable")
	}
	return []byte(`{"data":{"children":[{"kind":"t3","data":{"id":"g1","title":"Go 1.30","permalink":"/r/golang/comments/g1/x/","score":5,"subreddit":"golang"}}]}}`), nil
}

type countingSynth struct{ n int32 }

func (s *countingSynth) Synthesize(ctx context.Context, doc string) (string, error) {
	atomic.AddInt32(&s.n, 1)
	return "Gophers approve.", nil
}

type savedReports struct{ n int32 }

func (s *savedReports) SaveReport(ctx context.Context, r model.Report) error {
	atomic.AddInt32(&s.n, 1)
	return nil
}

func TestReportRefresherRunsImmediately(t *testing.T) {
	p := &pipeline.Pipeline{
		Fetcher:       &pipeline.Fetcher{Proxy: oneSourceProxy{}},
		Enricher:      &pipeline.Enricher{Proxy: oneSourceProxy{}},
		PostsPerTopic: 15,
	}
	synth := &countingSynth{}
	store := &savedReports{}
	dir := t.TempDir()
	w := &ReportRefresher{
		Reporter:  &pipeline.Reporter{Pipeline: p, Synthesizer: synth, Store: store},
		Topics:    []string{"golang", "missing"},
		Interval:  time.Hour,
		OutputDir: dir,
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Start(ctx) }()

	deadline := time.Now().Add(2 * time.Second)
	for atomic.LoadInt32(&store.n) == 0 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	cancel()
	if err := <-done; err != nil {
		t.Fatalf("Start: %v", err)
	}
	if atomic.LoadInt32(&synth.n) != 1 || atomic.LoadInt32(&store.n) != 1 {
		t.Errorf("expected exactly one report for the reachable topic, got synth=%d saved=%d", synth.n, store.n)
	}
	name := fmt.Sprintf("report-%s.md", time.Now().UTC().Format("20060102"))
	if _, err := os.Stat(filepath.Join(dir, "golang", name)); err != nil {
		t.Errorf("export missing: %v", err)
	}
}

type funcWorker func(ctx context.Context) error

func (f funcWorker) Start(ctx context.Context) error { return f(ctx) }

func TestManagerWaitsForWorkersAndReportsErrors(t *testing.T) {
	var stopped int32
	boom := errors.New("boom")
	m := NewManager(funcWorker(func(ctx context.Context) error {
		<-ctx.Done()
		atomic.AddInt32(&stopped, 1)
		return nil
	}))
	m.Add(funcWorker(func(ctx context.Context) error { return boom }))

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	if err := m.Start(ctx); !errors.Is(err, boom) {
		t.Errorf("err = %v, want %v", err, boom)
	}
	if atomic.LoadInt32(&stopped) != 1 {
		t.Errorf("blocking worker was not awaited")
	}
}

func TestHTTPServerShutsDownOnCancel(t *testing.T) {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.GET("/healthz", func(c echo.Context) error { return c.String(http.StatusOK, "ok") })
	w := &HTTPServer{Echo: e, Addr: "127.0.0.1:0", ShutdownTimeout: time.Second}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Start(ctx) }()

	deadline := time.Now().Add(2 * time.Second)
	for e.ListenerAddr() == nil && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	if e.ListenerAddr() == nil {
		t.Fatalf("server did not start")
	}
	resp, err := http.Get("http://" + e.ListenerAddr().String() + "/healthz")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d", resp.StatusCode)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Start: %v", err)
		}
	case <-time.After(3 * time.Second):
		t.Fatalf("server did not stop")
	}
}
