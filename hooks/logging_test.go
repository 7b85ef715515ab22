package hooks

import (
	"bytes"
	"context"
	"log"
	"strings"
	"testing"

	"github.com/contextpg/contextpg"
)

func TestLoggingHooks(t *testing.T) {
	var buf bytes.Buffer
	h := NewLoggingHooks(log.New(&buf, "", 0))
	ctx := context.Background()

	if err := h.BeforeCompaction(ctx, "c1"); err != nil {
		t.Fatalf("BeforeCompaction() error: %v", err)
	}
	if !strings.Contains(buf.String(), "Starting compaction for consumer c1") {
		t.Errorf("before log = %q", buf.String())
	}

	buf.Reset()
	result := &contextpg.CompactionResult{
		ConsumerID:      "c1",
		OriginalTokens:  800,
		CompactedTokens: 400,
		ItemsRemoved:    6,
		Summary:         contextpg.SummaryOutcome{Archived: true},
	}
	if err := h.AfterCompaction(ctx, result); err != nil {
		t.Fatalf("AfterCompaction() error: %v", err)
	}

	out := buf.String()
	for _, want := range []string{"c1", "800", "400", "50.0%", "6 items archived", "durable=true"} {
		if !strings.Contains(out, want) {
			t.Errorf("after log missing %q: %q", want, out)
		}
	}
}

func TestAfterCompactionZeroTokens(t *testing.T) {
	var buf bytes.Buffer
	h := NewLoggingHooks(log.New(&buf, "", 0))

	// Zero original tokens must not divide by zero.
	result := &contextpg.CompactionResult{ConsumerID: "c1"}
	if err := h.AfterCompaction(context.Background(), result); err != nil {
		t.Fatalf("AfterCompaction() error: %v", err)
	}
	if !strings.Contains(buf.String(), "0.0%") {
		t.Errorf("log = %q, want 0.0%% reduction", buf.String())
	}
}
