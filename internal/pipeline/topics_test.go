package pipeline

import (
	"testing"

	"topic-pulse/internal/config"
)

func TestTopicTable(t *testing.T) {
	tbl := NewTopicTable([]config.TopicConfig{
		{Name: " Gaming ", Sources: []string{"gaming", "GameDeals"}},
		{Name: "Gaming", Sources: []string{"ignored"}},
		{Name: "Empty"},
		{Name: ""},
	})

	if got := tbl.Resolve("Gaming"); len(got) != 2 || got[0] != "gaming" || got[1] != "GameDeals" {
		t.Errorf("Resolve(Gaming) = %v", got)
	}
	if got := tbl.Resolve("Empty"); len(got) != 1 || got[0] != "Empty" {
		t.Errorf("topic without sources should pass through, got %v", got)
	}
	if got := tbl.Resolve("golang"); len(got) != 1 || got[0] != "golang" {
		t.Errorf("unmapped topic should pass through, got %v", got)
	}
	if got := tbl.Resolve("  "); got != nil {
		t.Errorf("blank topic should resolve to nothing, got %v", got)
	}

	// Callers must not be able to mutate the table through returned slices.
	got := tbl.Resolve("Gaming")
	got[0] = "mutated"
	if tbl.Resolve("Gaming")[0] != "gaming" {
		t.Errorf("Resolve leaked internal state")
	}
	list := tbl.Topics()
	if len(list) != 2 || list[0].Name != "Gaming" || list[1].Name != "Empty" {
		t.Fatalf("Topics() = %+v", list)
	}
	list[0].Sources[0] = "mutated"
	if tbl.Topics()[0].Sources[0] != "gaming" {
		t.Errorf("Topics leaked internal state")
	}
}

func TestDefaultTopicsResolve(t *testing.T) {
	tbl := NewTopicTable(config.DefaultTopics())
	if len(tbl.Topics()) != 8 {
		t.Errorf("expected 8 default topics, got %d", len(tbl.Topics()))
	}
	if got := tbl.Resolve("Technology"); len(got) != 2 || got[0] != "tesla" {
		t.Errorf("Resolve(Technology) = %v", got)
	}
}
