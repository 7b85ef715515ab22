package contextpg

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/contextpg/contextpg/archive"
	"github.com/contextpg/contextpg/summarize"
)

// Compact runs one compaction pass for the consumer: items below high
// priority are archived verbatim, summarized extractively, and replaced in
// the active store by a single medium-priority summary item.
//
// Returns ErrNoCompactableItems (via errors.Is) when everything active is
// critical or high priority, or when only prior summaries remain below
// high; the state's needs-compaction flag stays set in that case and the
// caller must raise the limit or reclassify items.
func (e *Engine) Compact(ctx context.Context, consumerID string) (*CompactionResult, error) {
	s, err := e.lookup("Compact", consumerID)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return e.compactLocked(ctx, s)
}

// CompactIfNeeded compacts only if the consumer's usage has reached the
// threshold ratio. Returns a nil result when compaction was not needed or
// found nothing eligible.
func (e *Engine) CompactIfNeeded(ctx context.Context, consumerID string) (*CompactionResult, error) {
	s, err := e.lookup("CompactIfNeeded", consumerID)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.needsCompactionLocked() {
		e.logger.Debug("compaction not needed", "consumer_id", consumerID)
		return nil, nil
	}

	result, err := e.compactLocked(ctx, s)
	if errors.Is(err, ErrNoCompactableItems) {
		return nil, nil
	}
	return result, err
}

// compactLocked performs the compaction state transition with the store
// lock held, so it is atomic with the add or explicit call that triggered
// it.
func (e *Engine) compactLocked(ctx context.Context, s *consumerStore) (*CompactionResult, error) {
	start := time.Now()

	keep, candidate := s.partitionLocked()
	if !compactableSet(candidate) {
		return nil, NewContextError("Compact", ErrNoCompactableItems).WithConsumer(s.consumerID)
	}

	if e.hooks != nil {
		if err := e.hooks.BeforeCompaction(ctx, s.consumerID); err != nil {
			e.logger.Warn("before-compaction hook failed",
				"consumer_id", s.consumerID, "error", err)
		}
	}

	originalTokens := s.totalTokens
	candidateTokens := 0
	for _, item := range candidate {
		candidateTokens += item.TokenCount
	}
	keptTokens := originalTokens - candidateTokens

	// Budget for the summary. When kept items alone exceed the target, fall
	// back to a reserved minimum so compaction still makes forward progress
	// instead of stalling with an unsatisfiable remainder.
	remaining := s.config.TargetTokens() - keptTokens
	if remaining <= 0 {
		remaining = s.config.ReservedMinTokens()
	}

	e.logger.Debug("partition complete",
		"consumer_id", s.consumerID,
		"kept", len(keep),
		"candidates", len(candidate),
		"kept_tokens", keptTokens,
		"summary_budget", remaining,
	)

	// Archive first: the candidate set is preserved byte-for-byte before
	// anything is removed from the active store.
	ref, archiveErr := e.writeArchive(ctx, s, archiveEntries(candidate))
	var refPtr *archive.Reference
	if archiveErr == nil {
		refPtr = &ref
	}

	summaryText := s.summarizer.Digest(digestItems(candidate), remaining)
	summaryTokens := s.estimator.Estimate(summaryText)

	summary := &ContextItem{
		ID:         e.ids(),
		ConsumerID: s.consumerID,
		Content:    summaryText,
		Kind:       KindSummary,
		Priority:   PriorityMedium,
		TokenCount: summaryTokens,
		IsSummary:  true,
		ArchiveRef: refPtr,
		CreatedAt:  e.clock(),
	}

	s.items = append(keep, summary)
	s.totalTokens = keptTokens + summaryTokens
	s.overBudget = s.totalTokens > s.config.TargetTokens()
	s.compactionCount++

	ratio := 0.0
	if candidateTokens > 0 {
		ratio = float64(summaryTokens) / float64(candidateTokens)
	}

	result := &CompactionResult{
		ConsumerID:      s.consumerID,
		OriginalTokens:  originalTokens,
		CompactedTokens: s.totalTokens,
		ItemsRemoved:    len(candidate),
		KeptItemIDs:     itemIDs(keep),
		Summary: SummaryOutcome{
			OriginalTokens:   candidateTokens,
			SummaryTokens:    summaryTokens,
			CompressionRatio: ratio,
			SummaryText:      summaryText,
			Archived:         archiveErr == nil,
			ArchiveRef:       refPtr,
		},
		Duration: time.Since(start),
	}

	if e.hooks != nil {
		if err := e.hooks.AfterCompaction(ctx, result); err != nil {
			e.logger.Warn("after-compaction hook failed",
				"consumer_id", s.consumerID, "error", err)
		}
	}

	e.logger.Info("compaction complete",
		"consumer_id", s.consumerID,
		"original_tokens", result.OriginalTokens,
		"compacted_tokens", result.CompactedTokens,
		"items_removed", result.ItemsRemoved,
		"archived", result.Summary.Archived,
		"over_budget", s.overBudget,
		"duration_ms", result.Duration.Milliseconds(),
	)

	return result, nil
}

// writeArchive performs the sole I/O of a compaction: the sink write, under
// the configured timeout. Failure is non-fatal; it is recorded in the
// consumer's state so callers can detect that the compaction may not be
// durably recoverable.
func (e *Engine) writeArchive(ctx context.Context, s *consumerStore, entries []archive.Entry) (archive.Reference, error) {
	actx := ctx
	if s.config.ArchiveTimeout > 0 {
		var cancel context.CancelFunc
		actx, cancel = context.WithTimeout(ctx, s.config.ArchiveTimeout)
		defer cancel()
	}

	ref, err := e.sink.Write(actx, s.consumerID, entries)
	if err != nil {
		wrapped := NewContextError("ArchiveWrite", errors.Join(ErrArchiveFailed, err)).
			WithConsumer(s.consumerID)
		s.recordArchiveFailureLocked(wrapped, e.clock())
		e.logger.Warn("archival write failed, proceeding without reference",
			"consumer_id", s.consumerID, "error", err)
		return archive.Reference{}, wrapped
	}
	return ref, nil
}

// compactableSet reports whether the candidate items contain anything worth
// compacting. A set of nothing but prior summaries is treated as empty:
// re-digesting summaries gains no tokens, and skipping them is what makes
// back-to-back compactions idempotent.
func compactableSet(candidate []*ContextItem) bool {
	for _, item := range candidate {
		if !item.IsSummary {
			return true
		}
	}
	return false
}

func archiveEntries(items []*ContextItem) []archive.Entry {
	entries := make([]archive.Entry, len(items))
	for i, item := range items {
		entries[i] = archive.Entry{
			ItemID:     item.ID,
			Kind:       string(item.Kind),
			Priority:   string(item.Priority),
			Content:    item.Content,
			TokenCount: item.TokenCount,
			CreatedAt:  item.CreatedAt,
		}
	}
	return entries
}

func digestItems(items []*ContextItem) []summarize.Item {
	out := make([]summarize.Item, len(items))
	for i, item := range items {
		out[i] = summarize.Item{
			Kind:      string(item.Kind),
			Content:   item.Content,
			IsSummary: item.IsSummary,
			CreatedAt: item.CreatedAt,
		}
	}
	return out
}

func itemIDs(items []*ContextItem) []uuid.UUID {
	ids := make([]uuid.UUID, len(items))
	for i, item := range items {
		ids[i] = item.ID
	}
	return ids
}
