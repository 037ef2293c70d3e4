package search

import "fmt"

// Strategy selects how the engine matches a query against the address store.
type Strategy int

const (
	// StrategyExact matches by case-insensitive substring only.
	StrategyExact Strategy = iota
	// StrategyFuzzy matches by trigram similarity, threshold-gated.
	StrategyFuzzy
	// StrategySoundex matches by phonetic-code equality.
	StrategySoundex
	// StrategyCombined merges all strategies into one ranked list.
	StrategyCombined
)

func (s Strategy) String() string {
	switch s {
	case StrategyExact:
		return "exact"
	case StrategyFuzzy:
		return "fuzzy"
	case StrategySoundex:
		return "soundex"
	case StrategyCombined:
		return "combined"
	default:
		return fmt.Sprintf("strategy(%d)", int(s))
	}
}

// Config holds the thresholds and limits of one search operation. Immutable
// once built.
type Config struct {
	// MinSimilarity is the trigram score floor in [0,1].
	MinSimilarity float64
	// SoundexBoost is the score assigned to phonetic matches.
	SoundexBoost float64
	// Limit caps the result list.
	Limit int
	// Strategy selects the matching mode.
	Strategy Strategy
}

// Defaults mirror the production tuning: a permissive similarity floor with
// a strong boost for sounds-alike matches.
const (
	DefaultMinSimilarity = 0.3
	DefaultSoundexBoost  = 0.8
	DefaultLimit         = 10
)

// NewConfig validates and builds a search configuration. It fails before any
// query is issued when minSimilarity falls outside [0,1].
func NewConfig(minSimilarity, soundexBoost float64, limit int, strategy Strategy) (Config, error) {
	if minSimilarity < 0 || minSimilarity > 1 {
		return Config{}, fmt.Errorf("min_similarity must be between 0.0 and 1.0, got %v", minSimilarity)
	}
	if limit <= 0 {
		limit = DefaultLimit
	}
	return Config{
		MinSimilarity: minSimilarity,
		SoundexBoost:  soundexBoost,
		Limit:         limit,
		Strategy:      strategy,
	}, nil
}

// DefaultConfig returns the combined-strategy configuration with default
// thresholds.
func DefaultConfig() Config {
	return Config{
		MinSimilarity: DefaultMinSimilarity,
		SoundexBoost:  DefaultSoundexBoost,
		Limit:         DefaultLimit,
		Strategy:      StrategyCombined,
	}
}
