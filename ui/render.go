package ui

import (
	"bytes"
	"fmt"
	"html/template"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
)

// markdown converts summary content to HTML and sanitizes it before it ever
// reaches a browser. Context items carry arbitrary user and assistant text.
var (
	markdown  = goldmark.New()
	sanitizer = bluemonday.UGCPolicy()
)

// renderMarkdown converts item content to sanitized HTML.
func renderMarkdown(content string) (template.HTML, error) {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(content), &buf); err != nil {
		return "", fmt.Errorf("failed to render markdown: %w", err)
	}
	return template.HTML(sanitizer.SanitizeBytes(buf.Bytes())), nil
}

// Template helper functions.

// formatTime accepts both time.Time and *time.Time so templates can pass
// optional timestamp fields directly.
func formatTime(v any) string {
	var t time.Time
	switch tv := v.(type) {
	case time.Time:
		t = tv
	case *time.Time:
		if tv == nil {
			return "-"
		}
		t = *tv
	default:
		return "-"
	}
	if t.IsZero() {
		return "-"
	}
	return t.Format("2006-01-02 15:04:05")
}

func formatTokens(n int) string {
	if n < 1000 {
		return fmt.Sprintf("%d", n)
	}
	if n < 1000000 {
		return fmt.Sprintf("%.1fK", float64(n)/1000)
	}
	return fmt.Sprintf("%.1fM", float64(n)/1000000)
}

func formatRatio(r float64) string {
	return fmt.Sprintf("%.0f%%", r*100)
}

func truncate(n int, s string) string {
	if len(s) <= n {
		return s
	}
	if n <= 3 {
		return s[:n]
	}
	return s[:n-3] + "..."
}

func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"formatTime":   formatTime,
		"formatTokens": formatTokens,
		"formatRatio":  formatRatio,
		"truncate":     truncate,
		"markdown":     renderMarkdown,
	}
}
