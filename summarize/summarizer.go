package summarize

import (
	"math"
	"sort"
	"strings"
)

// Thresholds below which summarization is skipped: cutting an input this
// small yields no meaningful token savings and risks dropping an essential
// short instruction.
const (
	minSentences = 3
	minChars     = 100
)

// Summarizer reduces text to approximately a target fraction of its
// sentences by extractive selection. The output contains no new wording,
// only verbatim sentences from the source, so the summary can never state
// something the source did not.
//
// Summarization is total: text too short or too malformed to segment is
// returned unchanged rather than failing.
type Summarizer struct {
	est Estimator
}

// New creates a Summarizer using the given token estimator.
func New(est Estimator) *Summarizer {
	return &Summarizer{est: est}
}

// Estimator returns the summarizer's token estimator.
func (s *Summarizer) Estimator() Estimator {
	return s.est
}

// Summarize selects the ceil(sentences × targetRatio) most salient sentences
// of text and rejoins them in their original order. Inputs with fewer than
// three sentences or under 100 characters are returned unchanged.
func (s *Summarizer) Summarize(text string, targetRatio float64) string {
	if len(text) < minChars {
		return text
	}

	sentences := SplitSentences(text)
	if len(sentences) < minSentences {
		return text
	}

	if targetRatio <= 0 {
		targetRatio = 0.01
	}
	if targetRatio >= 1 {
		return text
	}

	keep := int(math.Ceil(float64(len(sentences)) * targetRatio))
	if keep < 1 {
		keep = 1
	}
	if keep >= len(sentences) {
		return text
	}

	freq := termFrequencies(sentences)

	type scored struct {
		index int
		score float64
	}
	ranked := make([]scored, len(sentences))
	for i, sentence := range sentences {
		ranked[i] = scored{index: i, score: scoreSentence(sentence, i, len(sentences), freq)}
	}
	sort.SliceStable(ranked, func(a, b int) bool {
		return ranked[a].score > ranked[b].score
	})

	// Restore original order: the summary must read as a coherent narrative,
	// not a re-ranked jumble.
	selected := ranked[:keep]
	sort.Slice(selected, func(a, b int) bool {
		return selected[a].index < selected[b].index
	})

	parts := make([]string, len(selected))
	for i, sc := range selected {
		parts[i] = sentences[sc.index]
	}
	return strings.Join(parts, " ")
}
