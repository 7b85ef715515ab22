package summarize

import "regexp"

// stopWords are excluded from the term-frequency table so scores reflect
// content-bearing terms.
var stopWords = map[string]struct{}{
	"a": {}, "an": {}, "the": {}, "and": {}, "or": {}, "but": {}, "if": {},
	"then": {}, "else": {}, "of": {}, "to": {}, "in": {}, "on": {}, "at": {},
	"by": {}, "for": {}, "with": {}, "about": {}, "as": {}, "into": {},
	"from": {}, "is": {}, "are": {}, "was": {}, "were": {}, "be": {},
	"been": {}, "being": {}, "am": {}, "do": {}, "does": {}, "did": {},
	"have": {}, "has": {}, "had": {}, "will": {}, "shall": {}, "can": {},
	"could": {}, "should": {}, "may": {}, "might": {}, "must": {},
	"this": {}, "that": {}, "these": {}, "those": {}, "it": {}, "its": {},
	"there": {}, "here": {}, "not": {}, "no": {}, "so": {}, "than": {},
	"too": {}, "very": {}, "just": {}, "also": {},
}

// preservePatterns mark sentences likely to carry user intent or outcome
// information; matching sentences receive a scoring bonus so they survive
// selection. Personal pronouns, common action verbs, status words, and
// intent phrases.
var preservePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\b(i|me|my|mine|you|your|yours|we|us|our)\b`),
	regexp.MustCompile(`(?i)\b(save|open|close|search|create|delete)\w*\b`),
	regexp.MustCompile(`(?i)\b(error|warning|success|succeeded|failed|failure)\b`),
	regexp.MustCompile(`(?i)\b(please|want|need|would like)\b`),
}

// Scoring bonuses. Applied multiplicatively on top of the base
// term-frequency score.
const (
	bonusFirstSentence = 1.5
	bonusLastSentence  = 1.3
	bonusEarlySentence = 1.2 // within the first 20% of sentences
	bonusIdealLength   = 1.1 // word count in [10, 30]
	bonusPreserveMatch = 1.3
	earlyFraction      = 0.2
	idealLengthMin     = 10
	idealLengthMax     = 30
)

func isStopWord(term string) bool {
	_, ok := stopWords[term]
	return ok
}

func matchesPreservePattern(sentence string) bool {
	for _, p := range preservePatterns {
		if p.MatchString(sentence) {
			return true
		}
	}
	return false
}

// termFrequencies builds the frequency table over all sentences, excluding
// stop words.
func termFrequencies(sentences []string) map[string]int {
	freq := make(map[string]int)
	for _, sentence := range sentences {
		for _, term := range words(sentence) {
			if isStopWord(term) {
				continue
			}
			freq[term]++
		}
	}
	return freq
}

// scoreSentence computes the salience of one sentence: summed non-stop-word
// frequency normalized by word count, with positional, length, and
// preserve-pattern bonuses.
func scoreSentence(sentence string, index, total int, freq map[string]int) float64 {
	terms := words(sentence)
	if len(terms) == 0 {
		return 0
	}

	var sum float64
	for _, term := range terms {
		if isStopWord(term) {
			continue
		}
		sum += float64(freq[term])
	}
	score := sum / float64(len(terms))

	if index == 0 {
		score *= bonusFirstSentence
	}
	if index == total-1 {
		score *= bonusLastSentence
	}
	if float64(index) < float64(total)*earlyFraction {
		score *= bonusEarlySentence
	}
	if len(terms) >= idealLengthMin && len(terms) <= idealLengthMax {
		score *= bonusIdealLength
	}
	if matchesPreservePattern(sentence) {
		score *= bonusPreserveMatch
	}

	return score
}
