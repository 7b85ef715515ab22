package archive

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
)

func testEntries(n int) []Entry {
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	entries := make([]Entry, n)
	for i := range entries {
		entries[i] = Entry{
			ItemID:     uuid.New(),
			Kind:       "reply",
			Priority:   "low",
			Content:    "archived content number " + string(rune('a'+i)),
			TokenCount: 6,
			CreatedAt:  base.Add(time.Duration(i) * time.Minute),
		}
	}
	return entries
}

func TestMemorySinkWrite(t *testing.T) {
	sink := NewMemorySink()
	ctx := context.Background()

	entries := testEntries(3)
	ref, err := sink.Write(ctx, "c1", entries)
	if err != nil {
		t.Fatalf("Write() error: %v", err)
	}
	if ref.ID == uuid.Nil {
		t.Error("reference ID not assigned")
	}
	if ref.ArchivedAt.IsZero() {
		t.Error("ArchivedAt not assigned")
	}

	batch, ok := sink.Batch(ref.ID)
	if !ok {
		t.Fatal("batch not found by reference ID")
	}
	if batch.ConsumerID != "c1" {
		t.Errorf("ConsumerID = %q, want %q", batch.ConsumerID, "c1")
	}
	if len(batch.Entries) != 3 {
		t.Fatalf("entries = %d, want 3", len(batch.Entries))
	}
	for i, entry := range batch.Entries {
		if entry != entries[i] {
			t.Errorf("entry %d not preserved verbatim: got %+v, want %+v", i, entry, entries[i])
		}
	}
}

func TestMemorySinkEmptyBatch(t *testing.T) {
	sink := NewMemorySink()

	if _, err := sink.Write(context.Background(), "c1", nil); !errors.Is(err, ErrEmptyBatch) {
		t.Errorf("Write(nil) error = %v, want ErrEmptyBatch", err)
	}
	if sink.Len() != 0 {
		t.Errorf("Len() = %d after rejected write, want 0", sink.Len())
	}
}

func TestMemorySinkCanceledContext(t *testing.T) {
	sink := NewMemorySink()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := sink.Write(ctx, "c1", testEntries(1)); !errors.Is(err, context.Canceled) {
		t.Errorf("Write() error = %v, want context.Canceled", err)
	}
}

func TestMemorySinkBatchesByConsumer(t *testing.T) {
	sink := NewMemorySink()
	ctx := context.Background()

	first, err := sink.Write(ctx, "c1", testEntries(1))
	if err != nil {
		t.Fatalf("Write() error: %v", err)
	}
	if _, err := sink.Write(ctx, "c2", testEntries(2)); err != nil {
		t.Fatalf("Write() error: %v", err)
	}
	second, err := sink.Write(ctx, "c1", testEntries(3))
	if err != nil {
		t.Fatalf("Write() error: %v", err)
	}

	batches := sink.Batches("c1")
	if len(batches) != 2 {
		t.Fatalf("Batches(c1) = %d, want 2", len(batches))
	}
	// Oldest first.
	if batches[0].Reference.ID != first.ID || batches[1].Reference.ID != second.ID {
		t.Error("batches not in write order")
	}
	if sink.Len() != 3 {
		t.Errorf("Len() = %d, want 3", sink.Len())
	}
	if got := sink.Batches("nobody"); len(got) != 0 {
		t.Errorf("Batches(nobody) = %d, want 0", len(got))
	}
}

func TestMemorySinkWriteOnce(t *testing.T) {
	sink := NewMemorySink()
	ctx := context.Background()

	entries := testEntries(2)
	ref, err := sink.Write(ctx, "c1", entries)
	if err != nil {
		t.Fatalf("Write() error: %v", err)
	}

	// Mutating the caller's slice after the write must not reach the batch.
	entries[0].Content = "tampered"

	batch, _ := sink.Batch(ref.ID)
	if batch.Entries[0].Content == "tampered" {
		t.Error("stored batch shares memory with the caller's slice")
	}

	// Mutating a returned copy must not reach the batch either.
	batch.Entries[1].Content = "also tampered"
	again, _ := sink.Batch(ref.ID)
	if again.Entries[1].Content == "also tampered" {
		t.Error("accessor returned the stored batch instead of a copy")
	}
}
