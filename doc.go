// Package contextpg keeps a conversational AI's context within a fixed
// token budget without discarding information abruptly.
//
// ContextPG is opinionated (extractive summarization + PostgreSQL archival +
// pgx), in-process, and designed for assistants whose conversation history
// would otherwise grow past the model's context window. Callers classify
// each piece of text with a kind and a priority tier; the engine tracks
// cumulative size against a per-consumer limit and, once a trigger threshold
// is crossed, compacts low-priority material while archiving the originals
// verbatim.
//
// # Key Features
//
//   - Per-consumer token budgets with threshold-triggered compaction
//   - Extractive summarization only: summaries contain verbatim sentences
//     from the source, never generated wording
//   - Lossless archival of every compacted item to an append-only sink
//     (in-memory, pgx, or database/sql)
//   - Deterministic character-based token estimation
//   - Priority tiers (critical > high > medium > low > archive) with
//     recency tie-breaking
//   - Hooks for observability
//
// # Quick Start
//
// Create an engine with a default budget and add items:
//
//	engine, err := contextpg.New(contextpg.EngineConfig{
//	    Defaults: contextpg.DefaultConfig(8000),
//	})
//
//	item, err := engine.AddToContext(ctx, "user-123", contextpg.AddParams{
//	    Content:  "Please save the quarterly report before closing.",
//	    Kind:     contextpg.KindInput,
//	    Priority: contextpg.PriorityHigh,
//	})
//
// Read the budget-respecting context back:
//
//	text, err := engine.GetOptimizedContext("user-123")
//	state, err := engine.GetContextState("user-123")
//
// # Compaction
//
// When a consumer's usage ratio reaches the threshold (default 0.75),
// compaction fires inside the triggering add: items below high priority are
// written verbatim to the archival sink, condensed into one extractive
// summary sized to the post-compaction target (default 0.5 of the limit),
// and replaced by a single medium-priority summary item. If only critical
// and high items are active, compaction is a no-op and the state keeps
// reporting NeedsCompaction until the caller raises the limit or
// reclassifies items.
//
// Archival failures never fail the caller: compaction proceeds with an
// in-memory summary and records the failure in the consumer's state.
//
// # Durable Archival
//
// For a durable archive, back the engine with PostgreSQL:
//
//	pool, _ := pgxpool.New(ctx, connString)
//	_ = archive.EnsureSchema(ctx, pool)
//	engine, _ := contextpg.New(contextpg.EngineConfig{
//	    Sink:     archive.NewPostgresSink(pool),
//	    Defaults: contextpg.DefaultConfig(8000),
//	})
//
// # Thread Safety
//
// The engine is safe for concurrent use. Each consumer's store is one
// lockable unit: an add, its threshold check, and any resulting compaction
// execute atomically, so concurrent producers can never archive overlapping
// candidate sets. Operations on different consumers do not block each
// other.
package contextpg
