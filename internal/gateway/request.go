package gateway

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

const (
	// DefaultLimit is used when the caller omits limit or sends garbage.
	DefaultLimit = 12
	// MaxLimit caps every upstream limit regardless of caller input.
	MaxLimit = 50
)

// Mode selects what the gateway fetches.
type Mode string

const (
	ModeList    Mode = "list"
	ModeReplies Mode = "replies"
)

// InvalidRequestError reports malformed or missing caller parameters.
type InvalidRequestError struct {
	Reason string
}

func (e *InvalidRequestError) Error() string {
	return "invalid request: " + e.Reason
}

func invalid(format string, args ...any) error {
	return &InvalidRequestError{Reason: fmt.Sprintf(format, args...)}
}

// Request is one gateway call. Source is required for ModeList, ItemPath for
// ModeReplies.
type Request struct {
	Mode     Mode
	Source   string
	ItemPath string
	Limit    int
}

// Normalize validates the request and returns it with the limit clamped and
// the item path stripped of trailing slashes.
func (r Request) Normalize() (Request, error) {
	r.Limit = ClampLimit(r.Limit)
	switch r.Mode {
	case ModeList:
		r.Source = strings.TrimSpace(r.Source)
		if r.Source == "" {
			return r, invalid("missing source")
		}
	case ModeReplies:
		if !strings.HasPrefix(r.ItemPath, "/") {
			return r, invalid("missing or invalid itemPath")
		}
		r.ItemPath = strings.TrimRight(r.ItemPath, "/")
		if r.ItemPath == "" {
			return r, invalid("missing or invalid itemPath")
		}
	default:
		return r, invalid("unknown mode %q", string(r.Mode))
	}
	return r, nil
}

// ClampLimit bounds a requested limit to (0, MaxLimit]; non-positive values
// become DefaultLimit.
func ClampLimit(n int) int {
	if n <= 0 {
		return DefaultLimit
	}
	if n > MaxLimit {
		return MaxLimit
	}
	return n
}

// ParseLimit reads the leading integer of a raw limit parameter, so "30abc"
// is 30 and "7.9" is 7. No leading digits, or a non-positive value, yields
// DefaultLimit.
func ParseLimit(raw string) int {
	s := strings.TrimSpace(raw)
	end := 0
	if end < len(s) && (s[end] == '-' || s[end] == '+') {
		end++
	}
	start := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == start {
		return DefaultLimit
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		// Only overflow gets here.
		if s[0] == '-' {
			return DefaultLimit
		}
		return MaxLimit
	}
	return ClampLimit(n)
}

// ParseQuery builds a normalized Request from query parameters. Mode defaults
// to list; "comments", "sub" and "permalink" are accepted as aliases.
func ParseQuery(q url.Values) (Request, error) {
	mode := strings.ToLower(strings.TrimSpace(q.Get("mode")))
	switch mode {
	case "":
		mode = string(ModeList)
	case "comments":
		mode = string(ModeReplies)
	}
	req := Request{
		Mode:     Mode(mode),
		Source:   firstNonEmpty(q.Get("source"), q.Get("sub")),
		ItemPath: firstNonEmpty(q.Get("itemPath"), q.Get("permalink")),
		Limit:    ParseLimit(q.Get("limit")),
	}
	return req.Normalize()
}

// Query encodes a request back into gateway query parameters.
func (r Request) Query() url.Values {
	q := url.Values{}
	q.Set("mode", string(r.Mode))
	switch r.Mode {
	case ModeList:
		q.Set("source", r.Source)
	case ModeReplies:
		q.Set("itemPath", r.ItemPath)
	}
	q.Set("limit", strconv.Itoa(r.Limit))
	return q
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
