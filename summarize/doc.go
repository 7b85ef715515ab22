// Package summarize provides deterministic extractive summarization and
// token estimation for context compaction.
//
// # Why extractive
//
// Summaries are built exclusively from verbatim sentences of the source
// text. Nothing is paraphrased or generated, which eliminates the class of
// failures where a summary asserts something the conversation never
// contained. The trade-off is coarser compression, which the engine absorbs
// with a hard token-budget truncation.
//
// # Single-text summarization
//
// Summarize segments text into sentences, scores each by normalized
// term frequency with positional and pattern bonuses, keeps the top
// ceil(n × ratio) sentences, and rejoins them in source order:
//
//	s := summarize.New(summarize.NewEstimator(4))
//	short := s.Summarize(longText, 0.4)
//
// Inputs with fewer than three sentences or under 100 characters are
// returned unchanged.
//
// # Multi-item digests
//
// Digest condenses a heterogeneous set of context items into one labeled
// summary bounded by a token budget:
//
//	text := s.Digest(items, 400)
//
// The budget is enforced by truncation, so the returned text always
// estimates at or under the requested token count.
//
// # Token estimation
//
// Estimator approximates tokens as ceil(len/charsPerToken). It is pure and
// deterministic so budget decisions are reproducible across calls and
// processes; a real subword tokenizer is deliberately out of scope.
package summarize
