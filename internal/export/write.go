package export

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode"

	"topic-pulse/internal/model"
)

// Slugify lowercases s and collapses every run of non-alphanumerics into "-".
func Slugify(s string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			dash = false
			continue
		}
		if !dash && b.Len() > 0 {
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}

// FileName is report-YYYYMMDD.md for the report's generation day (UTC).
func FileName(t time.Time) string {
	return fmt.Sprintf("report-%s.md", t.UTC().Format("20060102"))
}

// WriteReport renders r and writes it to :dir/:topic-slug/report-YYYYMMDD.md,
// overwriting any earlier report from the same day. titleTemplate may use
// {.Topic} and {.CurrentDate}.
func WriteReport(dir, titleTemplate string, r model.Report) (string, error) {
	topicSlug := Slugify(r.Topic)
	if topicSlug == "" {
		return "", fmt.Errorf("export: topic %q has no usable slug", r.Topic)
	}
	when := r.GeneratedAt
	if when.IsZero() {
		when = time.Now()
	}
	title := strings.TrimSpace(ExpandVars(titleTemplate, r.Topic, when))
	if title == "" {
		title = fmt.Sprintf("Sentiment report: %s %s", r.Topic, when.UTC().Format("2006-01-02"))
	}
	fileName := FileName(when)
	content, err := Render(Data{
		Frontmatter: Frontmatter{
			Title:    title,
			Slug:     topicSlug + "-" + strings.TrimSuffix(fileName, ".md"),
			Topic:    r.Topic,
			Datetime: when.UTC().Format("2006-01-02 15:04"),
			Sources:  r.Sources,
			Items:    r.ItemCount,
			RunID:    r.RunID,
		},
		Narrative: r.Narrative,
		Document:  r.Document,
	})
	if err != nil {
		return "", err
	}
	outDir := filepath.Join(dir, topicSlug)
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return "", err
	}
	outPath := filepath.Join(outDir, fileName)
	if err := os.WriteFile(outPath, []byte(content), 0o644); err != nil {
		return "", err
	}
	return outPath, nil
}
