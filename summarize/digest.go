package summarize

import (
	"sort"
	"strings"
	"time"
	"unicode/utf8"
)

// Bucket compression ratios. Conversation turns are compressed moderately;
// knowledge material more aggressively, since it can be re-retrieved.
const (
	RecentRatio    = 0.5
	ContextRatio   = 0.5
	KnowledgeRatio = 0.3

	// RecentItemLimit caps how many of the newest conversation items enter
	// the recent bucket.
	RecentItemLimit = 5
)

// TruncationMarker is appended when a digest is hard-truncated to its token
// budget.
const TruncationMarker = "\n[truncated]"

// Item is one candidate for a multi-item digest. Kind values follow the
// engine's item kinds ("input", "reply", "system_note", "knowledge",
// "summary").
type Item struct {
	Kind      string
	Content   string
	IsSummary bool
	CreatedAt time.Time
}

// Digest condenses a set of context items into a single labeled summary of
// at most targetTokens tokens.
//
// Items are bucketed by kind: the most recent conversation turns (input and
// reply) are summarized at RecentRatio under a "Recent:" heading, system
// notes and prior summaries at ContextRatio under "Context:", and knowledge
// items at KnowledgeRatio under "Knowledge:". Whatever the heuristic yields,
// the result is then hard-truncated to targetTokens; that final cut, not the
// scoring, is what guarantees the token contract holds even when extraction
// under-compresses.
func (s *Summarizer) Digest(items []Item, targetTokens int) string {
	if len(items) == 0 {
		return ""
	}
	if targetTokens < 1 {
		targetTokens = 1
	}

	var recent, contextual, knowledge []Item
	for _, item := range items {
		switch {
		case item.IsSummary || item.Kind == "summary":
			contextual = append(contextual, item)
		case item.Kind == "input" || item.Kind == "reply":
			recent = append(recent, item)
		case item.Kind == "knowledge":
			knowledge = append(knowledge, item)
		default:
			contextual = append(contextual, item)
		}
	}

	var sections []string
	if text := s.digestBucket(newestOf(recent, RecentItemLimit), RecentRatio); text != "" {
		sections = append(sections, "Recent:\n"+text)
	}
	if text := s.digestBucket(contextual, ContextRatio); text != "" {
		sections = append(sections, "Context:\n"+text)
	}
	if text := s.digestBucket(knowledge, KnowledgeRatio); text != "" {
		sections = append(sections, "Knowledge:\n"+text)
	}

	return s.truncateToTokens(strings.Join(sections, "\n\n"), targetTokens)
}

// digestBucket concatenates a bucket chronologically and summarizes it.
func (s *Summarizer) digestBucket(items []Item, ratio float64) string {
	if len(items) == 0 {
		return ""
	}

	sorted := make([]Item, len(items))
	copy(sorted, items)
	sort.SliceStable(sorted, func(a, b int) bool {
		return sorted[a].CreatedAt.Before(sorted[b].CreatedAt)
	})

	parts := make([]string, 0, len(sorted))
	for _, item := range sorted {
		if item.Content != "" {
			parts = append(parts, item.Content)
		}
	}
	return s.Summarize(strings.Join(parts, "\n"), ratio)
}

// newestOf returns the n most recent items, in chronological order.
func newestOf(items []Item, n int) []Item {
	if len(items) <= n {
		return items
	}
	sorted := make([]Item, len(items))
	copy(sorted, items)
	sort.SliceStable(sorted, func(a, b int) bool {
		return sorted[a].CreatedAt.Before(sorted[b].CreatedAt)
	})
	return sorted[len(sorted)-n:]
}

// truncateToTokens enforces the token budget by character count. The cut
// prefers a sentence boundary in the second half of the allowance and
// appends TruncationMarker. For budgets too small to fit the marker itself,
// the text is cut bare.
func (s *Summarizer) truncateToTokens(text string, targetTokens int) string {
	maxChars := s.est.CharBudget(targetTokens)
	if len(text) <= maxChars {
		return text
	}

	if maxChars <= len(TruncationMarker) {
		return trimToRuneBoundary(text[:maxChars])
	}

	head := trimToRuneBoundary(text[:maxChars-len(TruncationMarker)])
	if idx := strings.LastIndexAny(head, ".!?"); idx > len(head)/2 {
		head = head[:idx+1]
	}
	return head + TruncationMarker
}

// trimToRuneBoundary drops a trailing partial UTF-8 sequence left by a byte
// cut.
func trimToRuneBoundary(s string) string {
	for len(s) > 0 {
		r, size := utf8.DecodeLastRuneInString(s)
		if r != utf8.RuneError || size != 1 {
			return s
		}
		s = s[:len(s)-1]
	}
	return s
}
