// Package search implements the fuzzy matching engine: similarity-scored and
// phonetic queries against the address store, merged into one ranked result
// list.
package search

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/lightspun/lightspun/internal/address"
	"github.com/lightspun/lightspun/internal/store"
)

// ErrNoFields is returned when a search is requested without target fields;
// no meaningful query can be built.
var ErrNoFields = errors.New("at least one search field is required")

// autocompleteFields are the columns consulted by fuzzy autocomplete.
var autocompleteFields = []string{
	store.FieldStreetAddress,
	store.FieldStreetName,
	store.FieldFullAddress,
}

// Engine runs search operations against an address store. Immutable after
// construction; safe for concurrent use.
type Engine struct {
	store    store.AddressSearcher
	defaults Config
	log      *zap.Logger
}

// NewEngine builds an engine over the given store. The defaults config
// supplies the thresholds for operations without per-call tuning (fuzzy
// autocomplete, street-name boost); a zero Config selects the built-in
// defaults.
func NewEngine(st store.AddressSearcher, defaults Config, log *zap.Logger) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	if defaults == (Config{}) {
		defaults = DefaultConfig()
	}
	if defaults.Limit <= 0 {
		defaults.Limit = DefaultLimit
	}
	return &Engine{store: st, defaults: defaults, log: log}
}

// Result is one ranked match. Score is the maximum similarity across all
// searched fields and query forms, or the soundex boost for purely phonetic
// matches. Phonetic matches qualify regardless of the similarity floor; that
// recall-over-precision tradeoff is deliberate.
type Result struct {
	store.Address
	Score    float64
	Phonetic bool
}

// StreetNameMatch is one street-name aggregate from SearchStreetNames.
type StreetNameMatch struct {
	StreetName   string  `json:"street_name"`
	Score        float64 `json:"similarity_score"`
	AddressCount int     `json:"address_count"`
}

// queryForms returns the trimmed query and, when different, its
// street-type-standardized form.
func queryForms(query string) []string {
	q := strings.TrimSpace(query)
	std := address.StandardizeStreetType(q)
	if std != q {
		return []string{q, std}
	}
	return []string{q}
}

// Search dispatches to the configured strategy. Unknown strategies are an
// error, never a silent no-op.
func (e *Engine) Search(ctx context.Context, query string, cfg Config, fields []string, f store.Filter) ([]Result, error) {
	switch cfg.Strategy {
	case StrategyExact:
		return e.exactSearch(ctx, query, cfg, fields, f)
	case StrategyFuzzy:
		return e.rankedSearch(ctx, query, cfg, fields, f, true, false)
	case StrategySoundex:
		return e.rankedSearch(ctx, query, cfg, fields, f, false, true)
	case StrategyCombined:
		return e.CombinedSearch(ctx, query, cfg, fields, f)
	default:
		return nil, fmt.Errorf("unknown search strategy %v", cfg.Strategy)
	}
}

// CombinedSearch merges trigram-similarity and phonetic matches over the
// given fields into one list ranked by score descending, ties broken by the
// first field's value ascending, truncated to cfg.Limit.
func (e *Engine) CombinedSearch(ctx context.Context, query string, cfg Config, fields []string, f store.Filter) ([]Result, error) {
	return e.rankedSearch(ctx, query, cfg, fields, f, true, true)
}

func (e *Engine) rankedSearch(ctx context.Context, query string, cfg Config, fields []string, f store.Filter, similarity, phonetic bool) ([]Result, error) {
	if len(fields) == 0 {
		return nil, ErrNoFields
	}

	forms := queryForms(query)
	merged := make(map[int64]*Result)

	if similarity {
		for _, field := range fields {
			for _, text := range forms {
				scored, err := e.store.SimilarAddresses(ctx, field, text, cfg.MinSimilarity, f)
				if err != nil {
					return nil, fmt.Errorf("similarity search on %s: %w", field, err)
				}
				for _, sa := range scored {
					r, ok := merged[sa.ID]
					if !ok {
						r = &Result{Address: sa.Address}
						merged[sa.ID] = r
					}
					if sa.Score > r.Score {
						r.Score = sa.Score
					}
				}
			}
		}
	}

	// Similarity candidates are fetched already filtered at MinSimilarity, so
	// a phonetic-only record whose trigram score falls below the floor ranks
	// at SoundexBoost, not at its raw trigram score. The two differ only when
	// SoundexBoost is configured below MinSimilarity.
	if phonetic {
		for _, field := range fields {
			for _, text := range forms {
				matches, err := e.store.PhoneticAddresses(ctx, field, text, f)
				if err != nil {
					return nil, fmt.Errorf("phonetic search on %s: %w", field, err)
				}
				for _, a := range matches {
					r, ok := merged[a.ID]
					if !ok {
						r = &Result{Address: a}
						merged[a.ID] = r
					}
					r.Phonetic = true
					if cfg.SoundexBoost > r.Score {
						r.Score = cfg.SoundexBoost
					}
				}
			}
		}
	}

	results := make([]Result, 0, len(merged))
	for _, r := range merged {
		if r.Score >= cfg.MinSimilarity || r.Phonetic {
			results = append(results, *r)
		}
	}

	e.sortResults(results, fields[0])
	if len(results) > cfg.Limit {
		results = results[:cfg.Limit]
	}

	e.log.Debug("ranked search finished",
		zap.String("query", query),
		zap.Int("results", len(results)))
	return results, nil
}

func (e *Engine) exactSearch(ctx context.Context, query string, cfg Config, fields []string, f store.Filter) ([]Result, error) {
	if len(fields) == 0 {
		return nil, ErrNoFields
	}

	forms := queryForms(query)
	merged := make(map[int64]*Result)
	for _, field := range fields {
		for _, text := range forms {
			matches, err := e.store.AddressesByPattern(ctx, field, text, store.MatchSubstring, f, cfg.Limit)
			if err != nil {
				return nil, fmt.Errorf("exact search on %s: %w", field, err)
			}
			for _, a := range matches {
				if _, ok := merged[a.ID]; !ok {
					merged[a.ID] = &Result{Address: a, Score: 1}
				}
			}
		}
	}

	results := make([]Result, 0, len(merged))
	for _, r := range merged {
		results = append(results, *r)
	}
	e.sortResults(results, fields[0])
	if len(results) > cfg.Limit {
		results = results[:cfg.Limit]
	}
	return results, nil
}

func (e *Engine) sortResults(results []Result, firstField string) {
	sort.Slice(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		vi, _ := store.FieldValue(results[i].Address, firstField)
		vj, _ := store.FieldValue(results[j].Address, firstField)
		return vi < vj
	})
}

// Autocomplete suggests full addresses for a partial query. Queries shorter
// than two characters return no suggestions without touching the store. The
// fast path ranks raw-prefix matches first, standardized-prefix matches
// second, and substring matches last; the fuzzy path delegates to
// CombinedSearch for typo tolerance.
func (e *Engine) Autocomplete(ctx context.Context, query string, limit int, f store.Filter, fuzzy bool) ([]string, error) {
	q := strings.TrimSpace(query)
	if utf8.RuneCountInString(q) < 2 {
		return nil, nil
	}
	if limit <= 0 {
		limit = DefaultLimit
	}

	if fuzzy {
		cfg := e.defaults
		cfg.Strategy = StrategyCombined
		cfg.Limit = limit
		results, err := e.CombinedSearch(ctx, q, cfg, autocompleteFields, f)
		if err != nil {
			return nil, err
		}
		return dedupeFullAddresses(resultAddresses(results), limit), nil
	}

	std := address.StandardizeStreetType(q)

	var tiers [][]store.Address
	rawPrefix, err := e.store.AddressesByPattern(ctx, store.FieldStreetAddress, q, store.MatchPrefix, f, limit)
	if err != nil {
		return nil, err
	}
	tiers = append(tiers, rawPrefix)

	if std != q {
		stdPrefix, err := e.store.AddressesByPattern(ctx, store.FieldStreetAddress, std, store.MatchPrefix, f, limit)
		if err != nil {
			return nil, err
		}
		tiers = append(tiers, stdPrefix)
	}

	for _, text := range queryForms(q) {
		contains, err := e.store.AddressesByPattern(ctx, store.FieldFullAddress, text, store.MatchSubstring, f, limit)
		if err != nil {
			return nil, err
		}
		tiers = append(tiers, contains)
	}

	var flat []store.Address
	for _, tier := range tiers {
		flat = append(flat, tier...)
	}
	return dedupeFullAddresses(flat, limit), nil
}

// SearchStreetNames returns distinct street names fuzzily matching the
// query, each with its score and the number of addresses sharing it.
// Ordered by score descending, then address count descending, then name
// ascending.
func (e *Engine) SearchStreetNames(ctx context.Context, query string, limit int, minSimilarity float64) ([]StreetNameMatch, error) {
	cfg, err := NewConfig(minSimilarity, e.defaults.SoundexBoost, limit, StrategyCombined)
	if err != nil {
		return nil, err
	}

	forms := queryForms(query)

	type aggregate struct {
		score    float64
		phonetic bool
		count    map[int64]bool
	}
	byName := make(map[string]*aggregate)

	get := func(name string) *aggregate {
		agg, ok := byName[name]
		if !ok {
			agg = &aggregate{count: make(map[int64]bool)}
			byName[name] = agg
		}
		return agg
	}

	for _, text := range forms {
		scored, err := e.store.SimilarAddresses(ctx, store.FieldStreetName, text, cfg.MinSimilarity, store.Filter{})
		if err != nil {
			return nil, fmt.Errorf("street name similarity search: %w", err)
		}
		for _, sa := range scored {
			agg := get(sa.StreetName)
			if sa.Score > agg.score {
				agg.score = sa.Score
			}
			agg.count[sa.ID] = true
		}

		phonetic, err := e.store.PhoneticAddresses(ctx, store.FieldStreetName, text, store.Filter{})
		if err != nil {
			return nil, fmt.Errorf("street name phonetic search: %w", err)
		}
		for _, a := range phonetic {
			agg := get(a.StreetName)
			agg.phonetic = true
			if cfg.SoundexBoost > agg.score {
				agg.score = cfg.SoundexBoost
			}
			agg.count[a.ID] = true
		}
	}

	matches := make([]StreetNameMatch, 0, len(byName))
	for name, agg := range byName {
		if agg.score >= cfg.MinSimilarity || agg.phonetic {
			matches = append(matches, StreetNameMatch{
				StreetName:   name,
				Score:        agg.score,
				AddressCount: len(agg.count),
			})
		}
	}

	sort.Slice(matches, func(i, j int) bool {
		if matches[i].Score != matches[j].Score {
			return matches[i].Score > matches[j].Score
		}
		if matches[i].AddressCount != matches[j].AddressCount {
			return matches[i].AddressCount > matches[j].AddressCount
		}
		return matches[i].StreetName < matches[j].StreetName
	})
	if len(matches) > cfg.Limit {
		matches = matches[:cfg.Limit]
	}
	return matches, nil
}

func resultAddresses(results []Result) []store.Address {
	out := make([]store.Address, len(results))
	for i, r := range results {
		out[i] = r.Address
	}
	return out
}

// dedupeFullAddresses keeps the first occurrence of each full address,
// preserving order, truncated to limit.
func dedupeFullAddresses(addresses []store.Address, limit int) []string {
	seen := make(map[string]bool, len(addresses))
	var out []string
	for _, a := range addresses {
		if a.FullAddress == "" || seen[a.FullAddress] {
			continue
		}
		seen[a.FullAddress] = true
		out = append(out, a.FullAddress)
		if len(out) == limit {
			break
		}
	}
	return out
}
