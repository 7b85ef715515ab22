package contextpg

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/contextpg/contextpg/summarize"
)

// consumerStore holds one consumer's active context items and budget
// bookkeeping. Each store is an independently lockable unit: add, threshold
// check, compaction, and reads for a consumer all serialize on mu, so two
// goroutines can never both observe a threshold crossing and archive
// overlapping candidate sets.
type consumerStore struct {
	mu sync.Mutex

	consumerID string
	config     Config
	estimator  summarize.Estimator
	summarizer *summarize.Summarizer

	// items in insertion (chronological) order.
	items       []*ContextItem
	totalTokens int

	compactionCount      int
	overBudget           bool
	lastArchiveFailure   string
	lastArchiveFailureAt time.Time
}

func newConsumerStore(consumerID string, cfg Config) *consumerStore {
	est := summarize.NewEstimator(cfg.CharsPerToken)
	return &consumerStore{
		consumerID: consumerID,
		config:     cfg,
		estimator:  est,
		summarizer: summarize.New(est),
	}
}

// setConfig swaps the consumer's configuration. Token counts of existing
// items are not re-estimated; configure before the first add to keep
// estimates uniform.
func (s *consumerStore) setConfig(cfg Config) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.config = cfg
	s.estimator = summarize.NewEstimator(cfg.CharsPerToken)
	s.summarizer = summarize.New(s.estimator)
}

func (s *consumerStore) appendLocked(item *ContextItem) {
	s.items = append(s.items, item)
	s.totalTokens += item.TokenCount
}

// needsCompactionLocked reports whether usage has reached the threshold.
func (s *consumerStore) needsCompactionLocked() bool {
	return s.totalTokens >= s.config.ThresholdTokens()
}

// stateLocked builds a snapshot of the consumer's budget state.
func (s *consumerStore) stateLocked() *ContextState {
	perPriority := make(map[Priority]int)
	for _, item := range s.items {
		perPriority[item.Priority]++
	}

	state := &ContextState{
		ConsumerID:         s.consumerID,
		TotalTokens:        s.totalTokens,
		LimitTokens:        s.config.LimitTokens,
		UsageRatio:         float64(s.totalTokens) / float64(s.config.LimitTokens),
		ItemCount:          len(s.items),
		PerPriority:        perPriority,
		NeedsCompaction:    s.needsCompactionLocked(),
		OverBudget:         s.overBudget,
		CompactionCount:    s.compactionCount,
		LastArchiveFailure: s.lastArchiveFailure,
	}
	if !s.lastArchiveFailureAt.IsZero() {
		at := s.lastArchiveFailureAt
		state.LastArchiveFailureAt = &at
	}
	return state
}

// orderedLocked returns the items sorted by (priority rank descending,
// recency descending). The active slice itself stays in insertion order.
func (s *consumerStore) orderedLocked() []*ContextItem {
	ordered := make([]*ContextItem, len(s.items))
	copy(ordered, s.items)
	sort.SliceStable(ordered, func(a, b int) bool {
		ra, rb := ordered[a].Priority.Rank(), ordered[b].Priority.Rank()
		if ra != rb {
			return ra > rb
		}
		return ordered[a].CreatedAt.After(ordered[b].CreatedAt)
	})
	return ordered
}

// renderLocked produces the optimized context string: ordered items, each
// with a role-style prefix. A pure read; identical output for identical
// state.
func (s *consumerStore) renderLocked() string {
	ordered := s.orderedLocked()
	parts := make([]string, len(ordered))
	for i, item := range ordered {
		parts[i] = item.Kind.RolePrefix() + ": " + item.Content
	}
	return strings.Join(parts, "\n\n")
}

// partitionLocked splits active items into the kept set (critical and high)
// and the compaction candidate set (everything below high), both in
// chronological order.
func (s *consumerStore) partitionLocked() (keep, candidate []*ContextItem) {
	for _, item := range s.items {
		if item.Priority.compactable() {
			candidate = append(candidate, item)
		} else {
			keep = append(keep, item)
		}
	}
	return keep, candidate
}

func (s *consumerStore) recordArchiveFailureLocked(err error, at time.Time) {
	s.lastArchiveFailure = err.Error()
	s.lastArchiveFailureAt = at
}

// snapshotLocked returns value copies of the active items in insertion
// order.
func (s *consumerStore) snapshotLocked() []ContextItem {
	out := make([]ContextItem, len(s.items))
	for i, item := range s.items {
		out[i] = *item
		out[i].Metadata = item.Metadata.clone()
	}
	return out
}
