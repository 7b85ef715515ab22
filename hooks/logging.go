// Package hooks provides built-in compaction hooks for observability.
package hooks

import (
	"context"
	"log"

	"github.com/contextpg/contextpg"
)

// LoggingHooks logs compaction lifecycle events to a standard logger.
type LoggingHooks struct {
	logger *log.Logger
}

// NewLoggingHooks creates logging hooks with the provided logger.
func NewLoggingHooks(logger *log.Logger) *LoggingHooks {
	return &LoggingHooks{logger: logger}
}

// DefaultLoggingHooks creates logging hooks with the default logger.
func DefaultLoggingHooks() *LoggingHooks {
	return &LoggingHooks{logger: log.Default()}
}

// BeforeCompaction logs before a compaction pass.
func (h *LoggingHooks) BeforeCompaction(ctx context.Context, consumerID string) error {
	h.logger.Printf("[ContextPG] Starting compaction for consumer %s", consumerID)
	return nil
}

// AfterCompaction logs the outcome of a compaction pass.
func (h *LoggingHooks) AfterCompaction(ctx context.Context, result *contextpg.CompactionResult) error {
	reduction := float64(0)
	if result.OriginalTokens > 0 {
		reduction = float64(result.OriginalTokens-result.CompactedTokens) / float64(result.OriginalTokens) * 100
	}

	h.logger.Printf("[ContextPG] Compaction complete for %s: %d → %d tokens (%.1f%% reduction, %d items archived, durable=%t)",
		result.ConsumerID, result.OriginalTokens, result.CompactedTokens, reduction,
		result.ItemsRemoved, result.Summary.Archived)
	return nil
}
