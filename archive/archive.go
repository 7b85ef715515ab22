// Package archive provides append-only storage for pre-compaction context.
//
// The engine writes every compaction candidate set verbatim to a Sink before
// replacing it with a summary, so no information is ever permanently lost.
// Entries are write-once: a batch, once written, is never modified. The
// engine never reads archived content back; it only keeps the returned
// Reference for traceability.
//
// Three sinks are provided: MemorySink for tests and ephemeral use,
// PostgresSink on pgx for production, and SQLSink for any database/sql
// driver.
package archive

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Entry is one archived context item, preserved byte-for-byte.
type Entry struct {
	// ItemID is the identifier the item had in the active store.
	ItemID uuid.UUID `json:"item_id"`

	// Kind is the item kind at archival time.
	Kind string `json:"kind"`

	// Priority is the priority tier at archival time.
	Priority string `json:"priority"`

	// Content is the item's verbatim text.
	Content string `json:"content"`

	// TokenCount is the estimated token count the item carried.
	TokenCount int `json:"token_count"`

	// CreatedAt is when the item entered the active store.
	CreatedAt time.Time `json:"created_at"`
}

// Reference identifies an archived batch.
type Reference struct {
	// ID is the batch identifier.
	ID uuid.UUID `json:"id"`

	// ArchivedAt is when the batch was written.
	ArchivedAt time.Time `json:"archived_at"`
}

// Sink is the append-only archival capability consumed by the engine.
//
// Write persists the entries as a single immutable batch for the given
// consumer and returns a reference to it. Entries within a batch are stored
// in the order given (chronological, as they appeared in the active store).
// Implementations must honor ctx cancellation; the engine applies a timeout
// to every write.
type Sink interface {
	Write(ctx context.Context, consumerID string, entries []Entry) (Reference, error)
}
