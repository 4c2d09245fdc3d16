package pipeline

import (
	"fmt"
	"strings"

	"topic-pulse/internal/model"
)

// mergedReplies is how many replies each merged section shows.
const mergedReplies = 3

// Merge renders items into the canonical document: one 1-indexed section per
// item, separated by a blank line. Output depends only on the input.
func Merge(items []model.EnrichedItem) string {
	sections := make([]string, 0, len(items))
	for i, it := range items {
		b := &strings.Builder{}
		fmt.Fprintf(b, "%d. %s\n", i+1, it.Title)
		if it.BodyText != "" {
			b.WriteString(it.BodyText)
			b.WriteString("\n")
		}
		fmt.Fprintf(b, "Source: r/%s | Score: %d\n", it.SourceID, it.Score)
		if len(it.Replies) > 0 {
			b.WriteString("Top replies:\n")
			for j, r := range it.Replies {
				if j >= mergedReplies {
					break
				}
				fmt.Fprintf(b, "  - %s (%d)\n", r.BodyText, r.Score)
			}
		}
		sections = append(sections, b.String())
	}
	return strings.Join(sections, "\n")
}
