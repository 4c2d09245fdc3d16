package reddit

import (
	"encoding/json"
	"fmt"
	"strings"

	"topic-pulse/internal/model"
)

// replyKind marks a genuine reply; "more" entries are load-more placeholders.
const replyKind = "t1"

// thing is the generic {kind, data} envelope used by every listing entry.
type thing struct {
	Kind string          `json:"kind"`
	Data json.RawMessage `json:"data"`
}

type listing struct {
	Data struct {
		Children []json.RawMessage `json:"children"`
	} `json:"data"`
}

// postData mirrors the subset of item fields we care about.
type postData struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Selftext  string `json:"selftext"`
	Permalink string `json:"permalink"`
	URL       string `json:"url"`
	Score     int    `json:"score"`
	Subreddit string `json:"subreddit"`
	Stickied  bool   `json:"stickied"`
	Over18    bool   `json:"over_18"`
}

type commentData struct {
	Body  string `json:"body"`
	Score int    `json:"score"`
}

// DecodeListing converts a list-endpoint payload into candidates. Entries that
// fail to decode are skipped; a payload without a children array yields none.
// Only a body that is not JSON at all is an error.
func DecodeListing(body []byte) ([]model.Candidate, error) {
	var l listing
	if err := json.Unmarshal(body, &l); err != nil {
		var probe any
		if json.Unmarshal(body, &probe) != nil {
			return nil, fmt.Errorf("reddit: decode listing: %w", err)
		}
		// Valid JSON with an unexpected shape contributes nothing.
		return nil, nil
	}
	out := make([]model.Candidate, 0, len(l.Data.Children))
	for _, raw := range l.Data.Children {
		var th thing
		if err := json.Unmarshal(raw, &th); err != nil || len(th.Data) == 0 || string(th.Data) == "null" {
			continue
		}
		var p postData
		if err := json.Unmarshal(th.Data, &p); err != nil {
			continue
		}
		out = append(out, model.Candidate{
			ID:            p.ID,
			Title:         p.Title,
			BodyText:      p.Selftext,
			PermalinkPath: p.Permalink,
			ExternalURL:   p.URL,
			Score:         p.Score,
			SourceID:      p.Subreddit,
			IsPinned:      p.Stickied,
			IsSensitive:   p.Over18,
		})
	}
	return out, nil
}

// DecodeReplies extracts replies from the two-element reply-tree payload.
// The second element holds the reply listing; placeholders and replies with
// empty bodies are dropped. Upstream order is preserved.
func DecodeReplies(body []byte) ([]model.Reply, error) {
	var parts []json.RawMessage
	if err := json.Unmarshal(body, &parts); err != nil {
		var probe any
		if json.Unmarshal(body, &probe) != nil {
			return nil, fmt.Errorf("reddit: decode replies: %w", err)
		}
		return nil, nil
	}
	if len(parts) < 2 {
		return nil, nil
	}
	var l listing
	if err := json.Unmarshal(parts[1], &l); err != nil {
		return nil, nil
	}
	out := make([]model.Reply, 0, len(l.Data.Children))
	for _, raw := range l.Data.Children {
		var th thing
		if err := json.Unmarshal(raw, &th); err != nil || th.Kind != replyKind {
			continue
		}
		var c commentData
		if err := json.Unmarshal(th.Data, &c); err != nil {
			continue
		}
		if strings.TrimSpace(c.Body) == "" {
			continue
		}
		out = append(out, model.Reply{BodyText: c.Body, Score: c.Score})
	}
	return out, nil
}
