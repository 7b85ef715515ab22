package archive

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// SQLSink implements Sink on the standard library database/sql package, for
// applications that cannot use pgx directly (lib/pq, pgx stdlib, etc.).
// Semantics match PostgresSink: one transaction per batch, write-once rows.
type SQLSink struct {
	db *sql.DB
}

// NewSQLSink creates a sink backed by the given database handle.
func NewSQLSink(db *sql.DB) *SQLSink {
	return &SQLSink{db: db}
}

// EnsureSchemaSQL creates the archive tables via database/sql.
func EnsureSchemaSQL(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, Schema); err != nil {
		return fmt.Errorf("failed to create archive schema: %w", err)
	}
	return nil
}

// Write persists the entries as a single immutable batch.
func (s *SQLSink) Write(ctx context.Context, consumerID string, entries []Entry) (Reference, error) {
	if len(entries) == 0 {
		return Reference{}, ErrEmptyBatch
	}

	ref := Reference{
		ID:         uuid.New(),
		ArchivedAt: time.Now(),
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Reference{}, fmt.Errorf("failed to begin archive transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // rollback after commit is a no-op

	_, err = tx.ExecContext(ctx, `
		INSERT INTO contextpg_archive_batches (id, consumer_id, entry_count, archived_at)
		VALUES ($1, $2, $3, $4)
	`, ref.ID, consumerID, len(entries), ref.ArchivedAt)
	if err != nil {
		return Reference{}, fmt.Errorf("failed to insert archive batch: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO contextpg_archive_entries
			(id, batch_id, position, item_id, kind, priority, content, token_count, item_created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`)
	if err != nil {
		return Reference{}, fmt.Errorf("failed to prepare archive entry insert: %w", err)
	}
	defer stmt.Close()

	for i, entry := range entries {
		_, err := stmt.ExecContext(ctx, uuid.New(), ref.ID, i, entry.ItemID,
			entry.Kind, entry.Priority, entry.Content, entry.TokenCount, entry.CreatedAt)
		if err != nil {
			return Reference{}, fmt.Errorf("failed to insert archive entry: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return Reference{}, fmt.Errorf("failed to commit archive batch: %w", err)
	}

	return ref, nil
}
