package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"topic-pulse/internal/gateway"
	"topic-pulse/internal/metrics"
	"topic-pulse/internal/model"
	"topic-pulse/internal/reddit"
)

// Enricher attaches top replies to selected candidates.
type Enricher struct {
	Proxy          Proxy
	RepliesPerItem int
	Parallel       int
	BranchTimeout  time.Duration
	Metrics        *metrics.Metrics
}

// Enrich fetches replies for every candidate concurrently. The result has one
// item per candidate in the same order; a failed fetch leaves that item with
// an empty reply list.
func (e *Enricher) Enrich(ctx context.Context, cands []model.Candidate) []model.EnrichedItem {
	outcomes := settleAll(ctx, len(cands), e.Parallel, e.BranchTimeout, func(ctx context.Context, i int) ([]model.Reply, error) {
		return e.replies(ctx, cands[i])
	})
	items := make([]model.EnrichedItem, len(cands))
	for i, o := range outcomes {
		items[i] = model.EnrichedItem{Candidate: cands[i], Replies: []model.Reply{}}
		if o.Err != nil {
			e.Metrics.DetailFetch(branchOutcome(o.Err))
			slog.Warn("enricher: detail unavailable", "id", cands[i].ID, "error", o.Err)
			continue
		}
		e.Metrics.DetailFetch(metrics.OutcomeOK)
		if o.Value != nil {
			items[i].Replies = o.Value
		}
	}
	return items
}

func (e *Enricher) replies(ctx context.Context, c model.Candidate) ([]model.Reply, error) {
	path := strings.TrimRight(c.PermalinkPath, "/")
	if !strings.HasPrefix(path, "/") {
		return nil, fmt.Errorf("enricher: item %s has no usable permalink", c.ID)
	}
	body, err := e.Proxy.Get(ctx, gateway.Request{Mode: gateway.ModeReplies, ItemPath: path, Limit: e.RepliesPerItem})
	if err != nil {
		return nil, err
	}
	rs, err := reddit.DecodeReplies(body)
	if err != nil {
		return nil, err
	}
	return topReplies(rs, e.RepliesPerItem), nil
}
