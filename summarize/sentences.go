package summarize

import "strings"

// SplitSentences segments text into sentences on terminal punctuation
// (., !, ?) and blank-line boundaries. Terminal punctuation stays attached
// to its sentence. Whitespace-only segments are dropped.
func SplitSentences(text string) []string {
	var sentences []string
	var current strings.Builder

	flush := func() {
		s := strings.TrimSpace(current.String())
		if s != "" {
			sentences = append(sentences, s)
		}
		current.Reset()
	}

	runes := []rune(text)
	for i, r := range runes {
		current.WriteRune(r)
		if r == '.' || r == '!' || r == '?' {
			// Consume runs of terminal punctuation ("?!", "...") as one
			// boundary.
			if i+1 < len(runes) && isTerminal(runes[i+1]) {
				continue
			}
			flush()
		} else if r == '\n' && i+1 < len(runes) && runes[i+1] == '\n' {
			flush()
		}
	}
	flush()

	return sentences
}

func isTerminal(r rune) bool {
	return r == '.' || r == '!' || r == '?'
}

// words lower-cases and tokenizes a sentence into alphanumeric terms.
func words(sentence string) []string {
	return strings.FieldsFunc(strings.ToLower(sentence), func(r rune) bool {
		return !isWordRune(r)
	})
}

func isWordRune(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z':
		return true
	case r >= 'A' && r <= 'Z':
		return true
	case r >= '0' && r <= '9':
		return true
	case r == '\'':
		// Keep contractions ("don't") as one term.
		return true
	}
	return false
}
