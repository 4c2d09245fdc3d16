package model

import "time"

// Candidate is a raw discussion item as returned by the upstream list endpoint.
type Candidate struct {
	ID            string `json:"id"`
	Title         string `json:"title"`
	BodyText      string `json:"body_text,omitempty"`
	PermalinkPath string `json:"permalink"`
	ExternalURL   string `json:"url,omitempty"`
	Score         int    `json:"score"`
	SourceID      string `json:"source"`
	IsPinned      bool   `json:"pinned"`
	IsSensitive   bool   `json:"sensitive"`
}

// Excluded reports whether the candidate must never be ranked.
func (c Candidate) Excluded() bool {
	return c.IsPinned || c.IsSensitive
}

// Reply is one discussion reply attached to a candidate.
type Reply struct {
	BodyText string `json:"body"`
	Score    int    `json:"score"`
}

// EnrichedItem is a selected candidate with its top replies.
type EnrichedItem struct {
	Candidate
	Replies []Reply `json:"replies"`
}

// Report is the synthesized narrative for one topic.
type Report struct {
	Topic       string    `json:"topic"`
	RunID       string    `json:"run_id"`
	Sources     []string  `json:"sources"`
	Document    string    `json:"document"`
	Narrative   string    `json:"narrative"`
	ItemCount   int       `json:"item_count"`
	GeneratedAt time.Time `json:"generated_at"`
}

// ReportRef points at a stored report without loading it.
type ReportRef struct {
	Topic       string    `json:"topic"`
	GeneratedAt time.Time `json:"generated_at"`
}
