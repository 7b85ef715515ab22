package archive

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Schema is the DDL for the archive tables. Apply it once per database, e.g.
// via EnsureSchema or your migration tooling.
const Schema = `
CREATE TABLE IF NOT EXISTS contextpg_archive_batches (
	id          UUID PRIMARY KEY,
	consumer_id TEXT NOT NULL,
	entry_count INTEGER NOT NULL,
	archived_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS contextpg_archive_batches_consumer_idx
	ON contextpg_archive_batches (consumer_id, archived_at);

CREATE TABLE IF NOT EXISTS contextpg_archive_entries (
	id              UUID PRIMARY KEY,
	batch_id        UUID NOT NULL REFERENCES contextpg_archive_batches (id),
	position        INTEGER NOT NULL,
	item_id         UUID NOT NULL,
	kind            TEXT NOT NULL,
	priority        TEXT NOT NULL,
	content         TEXT NOT NULL,
	token_count     INTEGER NOT NULL,
	item_created_at TIMESTAMPTZ NOT NULL,
	UNIQUE (batch_id, position)
);
`

// EnsureSchema creates the archive tables if they do not exist.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, Schema); err != nil {
		return fmt.Errorf("failed to create archive schema: %w", err)
	}
	return nil
}

// PostgresSink implements Sink on PostgreSQL using pgx.
//
// Each Write is one transaction: a batch row plus one row per entry, so a
// reference never points at a partially written batch. Rows are never
// updated or deleted by this package.
type PostgresSink struct {
	pool *pgxpool.Pool
}

// NewPostgresSink creates a sink backed by the given connection pool.
func NewPostgresSink(pool *pgxpool.Pool) *PostgresSink {
	return &PostgresSink{pool: pool}
}

// Write persists the entries as a single immutable batch.
func (s *PostgresSink) Write(ctx context.Context, consumerID string, entries []Entry) (Reference, error) {
	if len(entries) == 0 {
		return Reference{}, ErrEmptyBatch
	}

	ref := Reference{
		ID:         uuid.New(),
		ArchivedAt: time.Now(),
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return Reference{}, fmt.Errorf("failed to begin archive transaction: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // rollback after commit is a no-op

	_, err = tx.Exec(ctx, `
		INSERT INTO contextpg_archive_batches (id, consumer_id, entry_count, archived_at)
		VALUES ($1, $2, $3, $4)
	`, ref.ID, consumerID, len(entries), ref.ArchivedAt)
	if err != nil {
		return Reference{}, fmt.Errorf("failed to insert archive batch: %w", err)
	}

	batch := &pgx.Batch{}
	query := `
		INSERT INTO contextpg_archive_entries
			(id, batch_id, position, item_id, kind, priority, content, token_count, item_created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	for i, entry := range entries {
		batch.Queue(query, uuid.New(), ref.ID, i, entry.ItemID, entry.Kind,
			entry.Priority, entry.Content, entry.TokenCount, entry.CreatedAt)
	}

	results := tx.SendBatch(ctx, batch)
	for range entries {
		if _, err := results.Exec(); err != nil {
			results.Close()
			return Reference{}, fmt.Errorf("failed to insert archive entry: %w", err)
		}
	}
	if err := results.Close(); err != nil {
		return Reference{}, fmt.Errorf("failed to flush archive entries: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return Reference{}, fmt.Errorf("failed to commit archive batch: %w", err)
	}

	return ref, nil
}

// ReadBatch retrieves an archived batch by reference ID, entries in their
// original order. The engine never calls this; it exists for operators and
// tests verifying that archived content is byte-identical to what was live.
func (s *PostgresSink) ReadBatch(ctx context.Context, id uuid.UUID) (*Batch, error) {
	b := &Batch{Reference: Reference{ID: id}}

	err := s.pool.QueryRow(ctx, `
		SELECT consumer_id, archived_at
		FROM contextpg_archive_batches
		WHERE id = $1
	`, id).Scan(&b.ConsumerID, &b.Reference.ArchivedAt)
	if err == pgx.ErrNoRows {
		return nil, fmt.Errorf("archive batch not found: %s", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get archive batch: %w", err)
	}

	rows, err := s.pool.Query(ctx, `
		SELECT item_id, kind, priority, content, token_count, item_created_at
		FROM contextpg_archive_entries
		WHERE batch_id = $1
		ORDER BY position
	`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query archive entries: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var entry Entry
		err := rows.Scan(&entry.ItemID, &entry.Kind, &entry.Priority,
			&entry.Content, &entry.TokenCount, &entry.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan archive entry: %w", err)
		}
		b.Entries = append(b.Entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating archive entries: %w", err)
	}

	return b, nil
}
