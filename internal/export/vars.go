package export

import (
	"strings"
	"time"
)

// ExpandVars performs simple placeholder substitutions for template strings
// used in config-provided text fields such as the report title.
//
// Supported variables:
// - {.CurrentDate} => formatted as YYYY-MM-DD (UTC)
// - {.Topic}       => the topic name
func ExpandVars(s, topic string, now time.Time) string {
	if strings.TrimSpace(s) == "" {
		return s
	}
	date := now.UTC().Format("2006-01-02")
	out := strings.ReplaceAll(s, "{.CurrentDate}", date)
	out = strings.ReplaceAll(out, "{.Topic}", topic)
	return out
}
