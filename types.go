package contextpg

import (
	"time"

	"github.com/google/uuid"

	"github.com/contextpg/contextpg/archive"
)

// ItemKind classifies the origin of a context item. Kinds are assigned by the
// caller (typically an upstream intent router); the engine never classifies
// content on its own.
type ItemKind string

const (
	// KindInput is text produced by the end user.
	KindInput ItemKind = "input"

	// KindReply is text produced by the assistant.
	KindReply ItemKind = "reply"

	// KindSystemNote is operational context injected by the host system.
	KindSystemNote ItemKind = "system_note"

	// KindKnowledge is retrieved background material (documents, facts).
	KindKnowledge ItemKind = "knowledge"

	// KindSummary marks synthetic items created by compaction.
	KindSummary ItemKind = "summary"
)

// Valid reports whether k is a recognized kind.
func (k ItemKind) Valid() bool {
	switch k {
	case KindInput, KindReply, KindSystemNote, KindKnowledge, KindSummary:
		return true
	}
	return false
}

// RolePrefix returns the role-style label used when rendering an item of this
// kind into the optimized context string.
func (k ItemKind) RolePrefix() string {
	switch k {
	case KindInput:
		return "User"
	case KindReply:
		return "Assistant"
	case KindSystemNote:
		return "System"
	case KindKnowledge:
		return "Knowledge"
	case KindSummary:
		return "Summary"
	default:
		return "Unknown"
	}
}

// Priority is the caller-assigned retention tier of a context item.
// The tiers form a total order: critical > high > medium > low > archive.
// Ties between items of equal priority are broken by recency, newest first.
type Priority string

const (
	PriorityCritical Priority = "critical"
	PriorityHigh     Priority = "high"
	PriorityMedium   Priority = "medium"
	PriorityLow      Priority = "low"
	PriorityArchive  Priority = "archive"
)

// Rank returns the numeric position of p in the priority order.
// Higher rank means retained longer. Unknown priorities rank below archive.
func (p Priority) Rank() int {
	switch p {
	case PriorityCritical:
		return 4
	case PriorityHigh:
		return 3
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 1
	case PriorityArchive:
		return 0
	default:
		return -1
	}
}

// Valid reports whether p is a recognized priority tier.
func (p Priority) Valid() bool {
	return p.Rank() >= 0
}

// compactable reports whether items of this priority are eligible for
// summarization and archival. Critical and high items survive compaction
// untouched.
func (p Priority) compactable() bool {
	return p.Rank() < PriorityHigh.Rank()
}

// MetaKey identifies a recognized metadata field on a context item.
// The metadata surface is deliberately closed: unknown keys are rejected at
// add time instead of being carried as an untyped bag.
type MetaKey string

const (
	// MetaSource names the component that produced the item (e.g. "voice",
	// "desktop", "scheduler"). Recognized on every kind.
	MetaSource MetaKey = "source"

	// MetaChannel is the transport the item arrived on. Recognized on every kind.
	MetaChannel MetaKey = "channel"

	// MetaIntent is the upstream classifier's intent label. Recognized on
	// input and reply items.
	MetaIntent MetaKey = "intent"

	// MetaTopic is a caller-assigned topic tag. Recognized on knowledge and
	// system_note items.
	MetaTopic MetaKey = "topic"
)

// Metadata is the closed key-value attachment for a context item.
type Metadata map[MetaKey]string

// Validate checks that every key is recognized for the given kind.
func (m Metadata) Validate(kind ItemKind) error {
	for key := range m {
		switch key {
		case MetaSource, MetaChannel:
			// Recognized on all kinds.
		case MetaIntent:
			if kind != KindInput && kind != KindReply {
				return NewContextError("ValidateMetadata", ErrUnknownMetadataKey).
					WithContext("key", string(key)).
					WithContext("kind", string(kind))
			}
		case MetaTopic:
			if kind != KindKnowledge && kind != KindSystemNote {
				return NewContextError("ValidateMetadata", ErrUnknownMetadataKey).
					WithContext("key", string(key)).
					WithContext("kind", string(kind))
			}
		default:
			return NewContextError("ValidateMetadata", ErrUnknownMetadataKey).
				WithContext("key", string(key))
		}
	}
	return nil
}

// clone returns a copy of the metadata map, or nil for empty input.
func (m Metadata) clone() Metadata {
	if len(m) == 0 {
		return nil
	}
	out := make(Metadata, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// ContextItem is a single entry in a consumer's active context window.
//
// Items are created only by AddToContext. After creation an item is never
// mutated; compaction removes candidate items wholesale and replaces them
// with a new summary item carrying the archive reference of the batch that
// preserved the originals.
type ContextItem struct {
	ID         uuid.UUID          `json:"id"`
	ConsumerID string             `json:"consumer_id"`
	Content    string             `json:"content"`
	Kind       ItemKind           `json:"kind"`
	Priority   Priority           `json:"priority"`
	TokenCount int                `json:"token_count"`
	IsSummary  bool               `json:"is_summary"`
	ArchiveRef *archive.Reference `json:"archive_ref,omitempty"`
	Metadata   Metadata           `json:"metadata,omitempty"`
	CreatedAt  time.Time          `json:"created_at"`
}

// ContextState is a point-in-time snapshot of a consumer's budget bookkeeping.
type ContextState struct {
	// ConsumerID is the consumer being described.
	ConsumerID string `json:"consumer_id"`

	// TotalTokens is the estimated token count of all active items.
	TotalTokens int `json:"total_tokens"`

	// LimitTokens is the configured budget for this consumer.
	LimitTokens int `json:"limit_tokens"`

	// UsageRatio is TotalTokens / LimitTokens.
	UsageRatio float64 `json:"usage_ratio"`

	// ItemCount is the number of active items.
	ItemCount int `json:"item_count"`

	// PerPriority counts active items by priority tier.
	PerPriority map[Priority]int `json:"per_priority"`

	// NeedsCompaction is true when UsageRatio has reached the threshold
	// ratio. It stays true after a no-op compaction (nothing eligible); the
	// caller must raise the limit or reclassify items.
	NeedsCompaction bool `json:"needs_compaction"`

	// OverBudget is true when the items kept through the last compaction
	// alone exceed the target token count. Usage was minimized but the
	// condition is surfaced rather than hidden.
	OverBudget bool `json:"over_budget"`

	// CompactionCount is the number of compactions performed so far.
	CompactionCount int `json:"compaction_count"`

	// LastArchiveFailure describes the most recent archival write failure,
	// if any. A past compaction may not be durably recoverable.
	LastArchiveFailure string `json:"last_archive_failure,omitempty"`

	// LastArchiveFailureAt is when that failure happened.
	LastArchiveFailureAt *time.Time `json:"last_archive_failure_at,omitempty"`
}

// SummaryOutcome describes the summarization half of a compaction.
type SummaryOutcome struct {
	// OriginalTokens is the token count of the candidate items.
	OriginalTokens int `json:"original_tokens"`

	// SummaryTokens is the token count of the summary that replaced them.
	SummaryTokens int `json:"summary_tokens"`

	// CompressionRatio is SummaryTokens / OriginalTokens.
	CompressionRatio float64 `json:"compression_ratio"`

	// SummaryText is the extractive summary content.
	SummaryText string `json:"summary_text"`

	// Archived reports whether the originals were durably written to the
	// archival sink before being removed from the active store.
	Archived bool `json:"archived"`

	// ArchiveRef references the archive batch when Archived is true.
	ArchiveRef *archive.Reference `json:"archive_ref,omitempty"`
}

// CompactionResult contains the outcome of one compaction pass.
type CompactionResult struct {
	// ConsumerID is the consumer that was compacted.
	ConsumerID string

	// OriginalTokens is the token count before compaction.
	OriginalTokens int

	// CompactedTokens is the token count after compaction.
	CompactedTokens int

	// ItemsRemoved is the number of items archived and replaced.
	ItemsRemoved int

	// KeptItemIDs lists the items that survived untouched.
	KeptItemIDs []uuid.UUID

	// Summary describes the summarization outcome.
	Summary SummaryOutcome

	// Duration is how long the compaction took.
	Duration time.Duration
}
