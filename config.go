package contextpg

import (
	"fmt"
	"time"
)

// Default configuration values.
const (
	// DefaultThresholdRatio is the usage ratio that triggers compaction.
	DefaultThresholdRatio = 0.75

	// DefaultTargetRatio is the post-compaction usage target.
	DefaultTargetRatio = 0.5

	// DefaultCharsPerToken is the character-per-token approximation constant.
	DefaultCharsPerToken = 4

	// DefaultReservedMinRatio is the fraction of the limit reserved for
	// summarized content when kept items alone already exceed the target.
	// The value is a tunable default, not a derived contract: it only has to
	// be small enough to guarantee forward progress.
	DefaultReservedMinRatio = 0.30

	// DefaultArchiveTimeout bounds the archival write, the sole I/O point of
	// a compaction.
	DefaultArchiveTimeout = 5 * time.Second
)

// Config holds the per-consumer budget configuration.
type Config struct {
	// LimitTokens is the context window budget for the consumer. Required.
	LimitTokens int

	// ThresholdRatio is the usage ratio (0.0-1.0] that triggers compaction.
	// Must be greater than TargetRatio.
	// Default: 0.75
	ThresholdRatio float64

	// TargetRatio is the usage ratio compaction reduces toward.
	// Default: 0.5
	TargetRatio float64

	// CharsPerToken is the character count approximated as one token.
	// Default: 4
	CharsPerToken int

	// ReservedMinRatio is the fraction of LimitTokens granted to the summary
	// when kept items leave no room below the target.
	// Default: 0.30
	ReservedMinRatio float64

	// ArchiveTimeout bounds the archival sink write during compaction.
	// Default: 5s
	ArchiveTimeout time.Duration
}

// DefaultConfig returns a Config with the given token limit and default
// ratios.
func DefaultConfig(limitTokens int) Config {
	return Config{
		LimitTokens:      limitTokens,
		ThresholdRatio:   DefaultThresholdRatio,
		TargetRatio:      DefaultTargetRatio,
		CharsPerToken:    DefaultCharsPerToken,
		ReservedMinRatio: DefaultReservedMinRatio,
		ArchiveTimeout:   DefaultArchiveTimeout,
	}
}

// ApplyDefaults fills in zero values with defaults. LimitTokens has no
// default; Validate rejects a zero limit.
func (c *Config) ApplyDefaults() {
	if c.ThresholdRatio == 0 {
		c.ThresholdRatio = DefaultThresholdRatio
	}
	if c.TargetRatio == 0 {
		c.TargetRatio = DefaultTargetRatio
	}
	if c.CharsPerToken == 0 {
		c.CharsPerToken = DefaultCharsPerToken
	}
	if c.ReservedMinRatio == 0 {
		c.ReservedMinRatio = DefaultReservedMinRatio
	}
	if c.ArchiveTimeout == 0 {
		c.ArchiveTimeout = DefaultArchiveTimeout
	}
}

// Validate checks the configuration, returning ErrInvalidConfig for any
// violation. Invalid configuration is fatal to the consumer's setup; it is
// the one failure mode surfaced to callers as an error rather than a flag.
func (c *Config) Validate() error {
	if c.LimitTokens <= 0 {
		return fmt.Errorf("%w: limit_tokens must be positive, got %d", ErrInvalidConfig, c.LimitTokens)
	}
	if c.ThresholdRatio <= 0 || c.ThresholdRatio > 1.0 {
		return fmt.Errorf("%w: threshold_ratio must be in (0,1], got %f", ErrInvalidConfig, c.ThresholdRatio)
	}
	if c.TargetRatio <= 0 || c.TargetRatio > 1.0 {
		return fmt.Errorf("%w: target_ratio must be in (0,1], got %f", ErrInvalidConfig, c.TargetRatio)
	}
	if c.ThresholdRatio <= c.TargetRatio {
		return fmt.Errorf("%w: threshold_ratio (%f) must be greater than target_ratio (%f)",
			ErrInvalidConfig, c.ThresholdRatio, c.TargetRatio)
	}
	if c.CharsPerToken < 1 {
		return fmt.Errorf("%w: chars_per_token must be at least 1, got %d", ErrInvalidConfig, c.CharsPerToken)
	}
	if c.ReservedMinRatio <= 0 || c.ReservedMinRatio > 1.0 {
		return fmt.Errorf("%w: reserved_min_ratio must be in (0,1], got %f", ErrInvalidConfig, c.ReservedMinRatio)
	}
	if c.ArchiveTimeout < 0 {
		return fmt.Errorf("%w: archive_timeout must be non-negative, got %s", ErrInvalidConfig, c.ArchiveTimeout)
	}
	return nil
}

// ThresholdTokens returns the absolute token count that triggers compaction.
func (c Config) ThresholdTokens() int {
	return int(float64(c.LimitTokens) * c.ThresholdRatio)
}

// TargetTokens returns the absolute token count compaction reduces toward.
func (c Config) TargetTokens() int {
	return int(float64(c.LimitTokens) * c.TargetRatio)
}

// ReservedMinTokens returns the fallback summary budget used when kept items
// alone exceed the target.
func (c Config) ReservedMinTokens() int {
	reserved := int(float64(c.LimitTokens) * c.ReservedMinRatio)
	if reserved < 1 {
		reserved = 1
	}
	return reserved
}
