package archive_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/contextpg/contextpg/archive"
	"github.com/contextpg/contextpg/internal/testutil"
)

func pgTestEntries(n int) []archive.Entry {
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	entries := make([]archive.Entry, n)
	for i := range entries {
		entries[i] = archive.Entry{
			ItemID:     uuid.New(),
			Kind:       "input",
			Priority:   "medium",
			Content:    "verbatim archived content with some text to round-trip",
			TokenCount: 14,
			CreatedAt:  base.Add(time.Duration(i) * time.Minute),
		}
	}
	return entries
}

func TestPostgresSinkRoundTrip(t *testing.T) {
	db := testutil.NewTestDB(t)
	defer db.Close()

	ctx := context.Background()
	if err := db.CleanTables(ctx); err != nil {
		t.Fatalf("Failed to clean tables: %v", err)
	}

	sink := archive.NewPostgresSink(db.Pool)
	entries := pgTestEntries(4)

	ref, err := sink.Write(ctx, "pg-consumer", entries)
	if err != nil {
		t.Fatalf("Write() error: %v", err)
	}
	if ref.ID == uuid.Nil {
		t.Fatal("reference ID not assigned")
	}

	batch, err := sink.ReadBatch(ctx, ref.ID)
	if err != nil {
		t.Fatalf("ReadBatch() error: %v", err)
	}
	if batch.ConsumerID != "pg-consumer" {
		t.Errorf("ConsumerID = %q, want %q", batch.ConsumerID, "pg-consumer")
	}
	if len(batch.Entries) != len(entries) {
		t.Fatalf("entries = %d, want %d", len(batch.Entries), len(entries))
	}
	for i, got := range batch.Entries {
		want := entries[i]
		if got.ItemID != want.ItemID {
			t.Errorf("entry %d ItemID = %s, want %s", i, got.ItemID, want.ItemID)
		}
		if got.Content != want.Content {
			t.Errorf("entry %d Content = %q, want %q", i, got.Content, want.Content)
		}
		if got.Kind != want.Kind || got.Priority != want.Priority {
			t.Errorf("entry %d kind/priority = %s/%s, want %s/%s",
				i, got.Kind, got.Priority, want.Kind, want.Priority)
		}
		if got.TokenCount != want.TokenCount {
			t.Errorf("entry %d TokenCount = %d, want %d", i, got.TokenCount, want.TokenCount)
		}
		if !got.CreatedAt.Equal(want.CreatedAt) {
			t.Errorf("entry %d CreatedAt = %s, want %s", i, got.CreatedAt, want.CreatedAt)
		}
	}
}

func TestPostgresSinkEmptyBatch(t *testing.T) {
	db := testutil.NewTestDB(t)
	defer db.Close()

	sink := archive.NewPostgresSink(db.Pool)
	if _, err := sink.Write(context.Background(), "pg-consumer", nil); err == nil {
		t.Error("Write(nil) should fail")
	}
}

func TestPostgresSinkReadMissingBatch(t *testing.T) {
	db := testutil.NewTestDB(t)
	defer db.Close()

	sink := archive.NewPostgresSink(db.Pool)
	if _, err := sink.ReadBatch(context.Background(), uuid.New()); err == nil {
		t.Error("ReadBatch() of unknown ID should fail")
	}
}
