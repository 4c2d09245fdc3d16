package pipeline

import (
	"sort"

	"topic-pulse/internal/model"
)

// Select drops excluded and duplicate candidates, orders the rest by score
// (highest first, ties keep insertion order) and keeps at most max of them.
// A non-positive max keeps everything.
func Select(cands []model.Candidate, max int) []model.Candidate {
	seen := make(map[string]struct{}, len(cands))
	out := make([]model.Candidate, 0, len(cands))
	for _, c := range cands {
		if c.Excluded() {
			continue
		}
		key := c.ID
		if key == "" {
			key = c.PermalinkPath
		}
		if key != "" {
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
		}
		out = append(out, c)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	if max > 0 && len(out) > max {
		out = out[:max]
	}
	return out
}

// SortItems re-sorts enriched items by their final score, stable on ties.
func SortItems(items []model.EnrichedItem) {
	sort.SliceStable(items, func(i, j int) bool { return items[i].Score > items[j].Score })
}

// topReplies orders replies by score (stable) and keeps at most n.
func topReplies(replies []model.Reply, n int) []model.Reply {
	out := append([]model.Reply(nil), replies...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}
