package archive

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ErrEmptyBatch is returned when a write carries no entries.
var ErrEmptyBatch = errors.New("archive: empty batch")

// Batch is an archived batch with its entries, as held by MemorySink.
type Batch struct {
	Reference  Reference
	ConsumerID string
	Entries    []Entry
}

// MemorySink is an in-process Sink. It is the default sink of an engine
// constructed without one, and the sink used by the test suite to verify the
// lossless-archive property.
//
// Batches are immutable after Write; accessors return copies.
type MemorySink struct {
	mu      sync.Mutex
	batches map[uuid.UUID]*Batch
	order   []uuid.UUID
}

// NewMemorySink creates an empty in-memory sink.
func NewMemorySink() *MemorySink {
	return &MemorySink{
		batches: make(map[uuid.UUID]*Batch),
	}
}

// Write stores the entries as a new immutable batch.
func (s *MemorySink) Write(ctx context.Context, consumerID string, entries []Entry) (Reference, error) {
	if err := ctx.Err(); err != nil {
		return Reference{}, err
	}
	if len(entries) == 0 {
		return Reference{}, ErrEmptyBatch
	}

	ref := Reference{
		ID:         uuid.New(),
		ArchivedAt: time.Now(),
	}

	// Copy so later mutation of the caller's slice cannot reach the batch.
	stored := make([]Entry, len(entries))
	copy(stored, entries)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.batches[ref.ID] = &Batch{
		Reference:  ref,
		ConsumerID: consumerID,
		Entries:    stored,
	}
	s.order = append(s.order, ref.ID)

	return ref, nil
}

// Batch returns a copy of the batch with the given reference ID.
func (s *MemorySink) Batch(id uuid.UUID) (*Batch, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.batches[id]
	if !ok {
		return nil, false
	}
	return copyBatch(b), true
}

// Batches returns copies of every batch for the consumer, oldest first.
func (s *MemorySink) Batches(consumerID string) []*Batch {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []*Batch
	for _, id := range s.order {
		b := s.batches[id]
		if b.ConsumerID == consumerID {
			out = append(out, copyBatch(b))
		}
	}
	return out
}

// Len returns the number of stored batches.
func (s *MemorySink) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.batches)
}

func copyBatch(b *Batch) *Batch {
	entries := make([]Entry, len(b.Entries))
	copy(entries, b.Entries)
	return &Batch{
		Reference:  b.Reference,
		ConsumerID: b.ConsumerID,
		Entries:    entries,
	}
}
