package contextpg

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/contextpg/contextpg/archive"
)

// Clock supplies timestamps. The default is time.Now.
type Clock func() time.Time

// IDSource supplies unique item and batch identifiers. The default is
// uuid.New.
type IDSource func() uuid.UUID

// Hooks receives compaction lifecycle callbacks for observability. Hook
// errors are logged and never abort a compaction. Hooks run while the
// consumer's store is locked and must not call back into the engine for the
// same consumer.
type Hooks interface {
	BeforeCompaction(ctx context.Context, consumerID string) error
	AfterCompaction(ctx context.Context, result *CompactionResult) error
}

// EngineConfig holds configuration for the Engine.
type EngineConfig struct {
	// Sink receives verbatim pre-compaction content. Defaults to an
	// in-memory sink; use archive.PostgresSink or archive.SQLSink for
	// durability.
	Sink archive.Sink

	// Defaults is the per-consumer configuration applied to consumers that
	// were not explicitly configured. LimitTokens is required.
	Defaults Config

	// Logger receives engine logs. Defaults to a no-op logger.
	Logger Logger

	// Hooks receives compaction callbacks. Optional.
	Hooks Hooks

	// Clock supplies timestamps. Defaults to time.Now.
	Clock Clock

	// IDs supplies item identifiers. Defaults to uuid.New.
	IDs IDSource
}

// Engine keeps each consumer's context within its token budget. It is an
// explicitly constructed service object: all collaborators (archival sink,
// clock, identifier source) are injected, and callers hold the handle
// rather than reaching into process-global state.
//
// The engine is safe for concurrent use. Operations on different consumers
// proceed independently; operations on one consumer serialize.
type Engine struct {
	sink     archive.Sink
	defaults Config
	logger   Logger
	hooks    Hooks
	clock    Clock
	ids      IDSource

	mu        sync.RWMutex
	consumers map[string]*consumerStore
}

// New creates an Engine. The Defaults config must carry a positive
// LimitTokens; other zero fields are filled with defaults.
func New(cfg EngineConfig) (*Engine, error) {
	cfg.Defaults.ApplyDefaults()
	if err := cfg.Defaults.Validate(); err != nil {
		return nil, err
	}

	if cfg.Sink == nil {
		cfg.Sink = archive.NewMemorySink()
	}
	if cfg.Logger == nil {
		cfg.Logger = noopLogger{}
	}
	if cfg.Clock == nil {
		cfg.Clock = time.Now
	}
	if cfg.IDs == nil {
		cfg.IDs = uuid.New
	}

	return &Engine{
		sink:      cfg.Sink,
		defaults:  cfg.Defaults,
		logger:    cfg.Logger,
		hooks:     cfg.Hooks,
		clock:     cfg.Clock,
		ids:       cfg.IDs,
		consumers: make(map[string]*consumerStore),
	}, nil
}

// Configure sets a consumer-specific configuration, overriding the engine
// defaults. Call it before the consumer's first add so token estimates stay
// uniform.
func (e *Engine) Configure(consumerID string, cfg Config) error {
	if consumerID == "" {
		return fmt.Errorf("consumer_id is required")
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if s, ok := e.consumers[consumerID]; ok {
		s.setConfig(cfg)
		return nil
	}
	e.consumers[consumerID] = newConsumerStore(consumerID, cfg)
	return nil
}

// AddParams describes one item to add to a consumer's context.
type AddParams struct {
	// Content is the item text. Required.
	Content string

	// Kind is the caller-classified item kind.
	Kind ItemKind

	// Priority is the caller-assigned retention tier.
	Priority Priority

	// Metadata is an optional closed key-value attachment; see MetaKey for
	// the recognized keys.
	Metadata Metadata
}

// AddToContext appends an item to the consumer's context and recomputes
// usage. If usage reaches the threshold ratio, compaction runs before the
// call returns, as one atomic unit with the add. A compaction that finds
// nothing eligible leaves the needs-compaction flag set on the state; it
// never fails the add.
//
// The consumer is created with the engine's default configuration on first
// use.
func (e *Engine) AddToContext(ctx context.Context, consumerID string, params AddParams) (*ContextItem, error) {
	if consumerID == "" {
		return nil, fmt.Errorf("consumer_id is required")
	}
	if params.Content == "" {
		return nil, NewContextError("AddToContext", ErrEmptyContent).WithConsumer(consumerID)
	}
	if !params.Kind.Valid() {
		return nil, NewContextError("AddToContext", ErrInvalidKind).
			WithConsumer(consumerID).
			WithContext("kind", string(params.Kind))
	}
	if !params.Priority.Valid() {
		return nil, NewContextError("AddToContext", ErrInvalidPriority).
			WithConsumer(consumerID).
			WithContext("priority", string(params.Priority))
	}
	if err := params.Metadata.Validate(params.Kind); err != nil {
		return nil, err
	}

	s := e.storeFor(consumerID)

	s.mu.Lock()
	defer s.mu.Unlock()

	item := &ContextItem{
		ID:         e.ids(),
		ConsumerID: consumerID,
		Content:    params.Content,
		Kind:       params.Kind,
		Priority:   params.Priority,
		TokenCount: s.estimator.Estimate(params.Content),
		Metadata:   params.Metadata.clone(),
		CreatedAt:  e.clock(),
	}
	s.appendLocked(item)

	e.logger.Debug("item added",
		"consumer_id", consumerID,
		"item_id", item.ID,
		"kind", item.Kind,
		"priority", item.Priority,
		"tokens", item.TokenCount,
		"total_tokens", s.totalTokens,
	)

	if s.needsCompactionLocked() {
		if _, err := e.compactLocked(ctx, s); err != nil {
			if errors.Is(err, ErrNoCompactableItems) {
				e.logger.Info("threshold reached but nothing compactable",
					"consumer_id", consumerID, "total_tokens", s.totalTokens)
			} else {
				e.logger.Warn("compaction failed", "consumer_id", consumerID, "error", err)
			}
		}
	}

	out := *item
	out.Metadata = item.Metadata.clone()
	return &out, nil
}

// GetContextState returns a snapshot of the consumer's budget state.
func (e *Engine) GetContextState(consumerID string) (*ContextState, error) {
	s, err := e.lookup("GetContextState", consumerID)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stateLocked(), nil
}

// GetOptimizedContext renders the consumer's current items, ordered by
// priority then recency, each with a role-style prefix. Repeated calls
// without intervening writes return identical output.
func (e *Engine) GetOptimizedContext(consumerID string) (string, error) {
	s, err := e.lookup("GetOptimizedContext", consumerID)
	if err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.renderLocked(), nil
}

// Items returns value copies of the consumer's active items in insertion
// order.
func (e *Engine) Items(consumerID string) ([]ContextItem, error) {
	s, err := e.lookup("Items", consumerID)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked(), nil
}

// Consumers returns the IDs of all known consumers, sorted.
func (e *Engine) Consumers() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	out := make([]string, 0, len(e.consumers))
	for id := range e.consumers {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// ClearContext archives every live item for the consumer, then empties the
// active store. An archival failure is recorded in the state and logged but
// does not prevent the clear.
func (e *Engine) ClearContext(ctx context.Context, consumerID string) error {
	s, err := e.lookup("ClearContext", consumerID)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.items) > 0 {
		entries := archiveEntries(s.items)
		if _, werr := e.writeArchive(ctx, s, entries); werr != nil {
			e.logger.Warn("failed to archive items on clear",
				"consumer_id", consumerID, "error", werr)
		}
	}

	s.items = nil
	s.totalTokens = 0
	s.overBudget = false

	e.logger.Info("context cleared", "consumer_id", consumerID)
	return nil
}

// storeFor returns the consumer's store, creating it with the engine
// defaults on first use.
func (e *Engine) storeFor(consumerID string) *consumerStore {
	e.mu.RLock()
	s, ok := e.consumers[consumerID]
	e.mu.RUnlock()
	if ok {
		return s
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if s, ok := e.consumers[consumerID]; ok {
		return s
	}
	s = newConsumerStore(consumerID, e.defaults)
	e.consumers[consumerID] = s
	return s
}

// lookup returns the consumer's store or ErrUnknownConsumer.
func (e *Engine) lookup(op, consumerID string) (*consumerStore, error) {
	e.mu.RLock()
	s, ok := e.consumers[consumerID]
	e.mu.RUnlock()
	if !ok {
		return nil, NewContextError(op, ErrUnknownConsumer).WithConsumer(consumerID)
	}
	return s, nil
}
