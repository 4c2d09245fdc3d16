package pipeline

import (
	"context"
	"errors"
	"testing"
	"time"

	"topic-pulse/internal/config"
)

func TestFetchToleratesPartialSourceFailure(t *testing.T) {
	p := newFakeProxy()
	p.lists["a"] = listingBody("a", testPost{ID: "a1", Score: 3}, testPost{ID: "a2", Score: 1})
	p.fail["b"] = errors.New("connection refused")
	p.lists["c"] = listingBody("c", testPost{ID: "c1", Score: 7})

	f := &Fetcher{Proxy: p, ListLimit: 12}
	cands, results, err := f.FetchSources(context.Background(), []string{"a", "b", "c"})
	if err != nil {
		t.Fatalf("FetchSources: %v", err)
	}
	if len(cands) != 3 {
		t.Fatalf("len = %d, want 3", len(cands))
	}
	ids := []string{cands[0].ID, cands[1].ID, cands[2].ID}
	if ids[0] != "a1" || ids[1] != "a2" || ids[2] != "c1" {
		t.Errorf("candidates should follow source order, got %v", ids)
	}
	if results[1].Error == "" || results[0].Count != 2 || results[2].Count != 1 {
		t.Errorf("unexpected source results: %+v", results)
	}
}

func TestFetchAllSourcesFailed(t *testing.T) {
	p := newFakeProxy()
	p.fail["a"] = errors.New("boom")
	p.fail["b"] = errors.New("boom")

	f := &Fetcher{Proxy: p}
	_, results, err := f.FetchSources(context.Background(), []string{"a", "b"})
	if !errors.Is(err, ErrNoContent) {
		t.Fatalf("err = %v, want ErrNoContent", err)
	}
	if len(results) != 2 {
		t.Errorf("expected a result per source, got %d", len(results))
	}
}

func TestFetchEmptyAndMalformedContributeNothing(t *testing.T) {
	p := newFakeProxy()
	p.lists["empty"] = listingBody("empty")
	p.lists["odd"] = `{"data":{"children":"nope"}}`
	p.lists["html"] = `<html>`

	f := &Fetcher{Proxy: p}
	_, _, err := f.FetchSources(context.Background(), []string{"empty", "odd", "html"})
	if !errors.Is(err, ErrNoContent) {
		t.Fatalf("err = %v, want ErrNoContent", err)
	}

	p.lists["good"] = listingBody("good", testPost{ID: "g1"})
	cands, _, err := f.FetchSources(context.Background(), []string{"empty", "odd", "html", "good"})
	if err != nil {
		t.Fatalf("FetchSources: %v", err)
	}
	if len(cands) != 1 || cands[0].ID != "g1" {
		t.Errorf("unexpected candidates: %+v", cands)
	}
}

func TestFetchBranchTimeout(t *testing.T) {
	p := newFakeProxy()
	p.hang["slow"] = true
	p.lists["fast"] = listingBody("fast", testPost{ID: "f1"})

	f := &Fetcher{Proxy: p, BranchTimeout: 50 * time.Millisecond}
	start := time.Now()
	cands, results, err := f.FetchSources(context.Background(), []string{"slow", "fast"})
	if err != nil {
		t.Fatalf("FetchSources: %v", err)
	}
	if time.Since(start) > 2*time.Second {
		t.Errorf("stalled branch was not bounded")
	}
	if len(cands) != 1 || results[0].Error == "" {
		t.Errorf("expected slow source to fail and fast to succeed: %+v", results)
	}
}

func TestFetchResolvesTopic(t *testing.T) {
	p := newFakeProxy()
	p.lists["tesla"] = listingBody("tesla", testPost{ID: "t1"})
	p.lists["teslaindia"] = listingBody("teslaindia", testPost{ID: "t2"})
	p.lists["rust"] = listingBody("rust", testPost{ID: "r1"})

	f := &Fetcher{Proxy: p, Topics: NewTopicTable(config.DefaultTopics())}
	cands, _, err := f.Fetch(context.Background(), "Technology")
	if err != nil {
		t.Fatalf("Fetch mapped: %v", err)
	}
	if len(cands) != 2 {
		t.Errorf("mapped topic: len = %d, want 2", len(cands))
	}
	cands, _, err = f.Fetch(context.Background(), "rust")
	if err != nil {
		t.Fatalf("Fetch unmapped: %v", err)
	}
	if len(cands) != 1 || cands[0].SourceID != "rust" {
		t.Errorf("unmapped topic should pass through: %+v", cands)
	}
}
