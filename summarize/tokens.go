package summarize

// DefaultCharsPerToken is the character-per-token approximation used when an
// Estimator is constructed with a non-positive ratio. Roughly matches English
// prose under common subword tokenizers.
const DefaultCharsPerToken = 4

// Estimator approximates token counts from character counts.
//
// The approximation is deliberate: a real subword tokenizer would be more
// precise but neither deterministic across versions nor dependency-free.
// Budget comparisons only need a reproducible, monotone estimate.
type Estimator struct {
	charsPerToken int
}

// NewEstimator creates an Estimator with the given characters-per-token
// ratio. Non-positive ratios fall back to DefaultCharsPerToken.
func NewEstimator(charsPerToken int) Estimator {
	if charsPerToken < 1 {
		charsPerToken = DefaultCharsPerToken
	}
	return Estimator{charsPerToken: charsPerToken}
}

// Estimate returns the approximate token count of text: character count
// divided by the ratio, rounded up, with a minimum of 1 for non-empty text
// and 0 for empty text.
func (e Estimator) Estimate(text string) int {
	if len(text) == 0 {
		return 0
	}
	tokens := (len(text) + e.charsPerToken - 1) / e.charsPerToken
	if tokens < 1 {
		tokens = 1
	}
	return tokens
}

// CharBudget returns the maximum character count that estimates to at most
// the given token count.
func (e Estimator) CharBudget(tokens int) int {
	if tokens < 0 {
		return 0
	}
	return tokens * e.charsPerToken
}

// CharsPerToken returns the configured ratio.
func (e Estimator) CharsPerToken() int {
	return e.charsPerToken
}
