// Package service orchestrates parsing, standardization, validation, and the
// fuzzy matching engine over the persistence layer.
package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/lightspun/lightspun/internal/address"
	"github.com/lightspun/lightspun/internal/search"
	"github.com/lightspun/lightspun/internal/store"
)

// AddressService exposes address CRUD, search, and statistics.
type AddressService struct {
	store  store.Store
	engine *search.Engine
	log    *zap.Logger
}

// NewAddressService builds the service. A nil logger is replaced with a no-op
// one.
func NewAddressService(st store.Store, eng *search.Engine, log *zap.Logger) *AddressService {
	if log == nil {
		log = zap.NewNop()
	}
	return &AddressService{store: st, engine: eng, log: log}
}

// CreateAddressInput is the caller-supplied shape of a new address. When
// component fields are absent but StreetAddress is present, the street line is
// parsed into components.
type CreateAddressInput struct {
	StreetNumber  string `json:"street_number"`
	StreetName    string `json:"street_name"`
	Unit          string `json:"unit"`
	StreetAddress string `json:"street_address"`
	City          string `json:"city"`
	StateCode     string `json:"state_code"`
}

// UpdateAddressInput patches an existing address. Nil fields are left
// untouched.
type UpdateAddressInput struct {
	StreetNumber  *string `json:"street_number"`
	StreetName    *string `json:"street_name"`
	Unit          *string `json:"unit"`
	StreetAddress *string `json:"street_address"`
	City          *string `json:"city"`
	StateCode     *string `json:"state_code"`
}

// Create parses and normalizes the input, then persists it. Every violated
// validation rule is reported at once in a single ValidationError.
func (s *AddressService) Create(ctx context.Context, in CreateAddressInput) (store.Address, error) {
	c := address.Components{
		StreetNumber: in.StreetNumber,
		StreetName:   in.StreetName,
		Unit:         in.Unit,
		City:         in.City,
		StateCode:    in.StateCode,
	}
	if in.StreetName == "" && in.StreetAddress != "" {
		parsed := address.ParseStreetAddress(in.StreetAddress)
		c.StreetNumber = parsed.StreetNumber
		c.StreetName = parsed.StreetName
		c.Unit = parsed.Unit
	}

	normalized, err := normalizeComponents(c)
	if err != nil {
		return store.Address{}, err
	}

	created, err := s.store.InsertAddress(ctx, componentsToRecord(normalized))
	if err != nil {
		return store.Address{}, fmt.Errorf("insert address: %w", err)
	}
	s.log.Info("address created",
		zap.Int64("id", created.ID),
		zap.String("full_address", created.FullAddress))
	return created, nil
}

// Update applies a partial patch. A changed street_address with no component
// fields in the patch is re-parsed; a changed street_name is re-standardized;
// street_address and full_address are always recomputed from the merged
// components. A missing id yields store.ErrNotFound.
func (s *AddressService) Update(ctx context.Context, id int64, in UpdateAddressInput) (store.Address, error) {
	existing, err := s.store.AddressByID(ctx, id)
	if err != nil {
		return store.Address{}, fmt.Errorf("load address %d: %w", id, err)
	}
	if existing == nil {
		return store.Address{}, store.ErrNotFound
	}

	c := address.Components{
		StreetNumber: existing.StreetNumber,
		StreetName:   existing.StreetName,
		Unit:         existing.Unit,
		City:         existing.City,
		StateCode:    existing.StateCode,
	}

	componentPatch := in.StreetNumber != nil || in.StreetName != nil || in.Unit != nil
	if in.StreetAddress != nil && !componentPatch {
		parsed := address.ParseStreetAddress(*in.StreetAddress)
		c.StreetNumber = parsed.StreetNumber
		c.StreetName = parsed.StreetName
		c.Unit = parsed.Unit
	} else {
		if in.StreetNumber != nil {
			c.StreetNumber = *in.StreetNumber
		}
		if in.StreetName != nil {
			c.StreetName = address.StandardizeStreetType(*in.StreetName)
		}
		if in.Unit != nil {
			c.Unit = *in.Unit
		}
	}
	if in.City != nil {
		c.City = *in.City
	}
	if in.StateCode != nil {
		c.StateCode = *in.StateCode
	}

	normalized, err := normalizeComponents(c)
	if err != nil {
		return store.Address{}, err
	}

	updated, err := s.store.UpdateAddress(ctx, id, componentsToRecord(normalized))
	if err != nil {
		return store.Address{}, fmt.Errorf("update address %d: %w", id, err)
	}
	s.log.Info("address updated", zap.Int64("id", id))
	return updated, nil
}

// Get returns the address or nil when absent.
func (s *AddressService) Get(ctx context.Context, id int64) (*store.Address, error) {
	return s.store.AddressByID(ctx, id)
}

// List returns addresses ordered by full address, capped at limit.
func (s *AddressService) List(ctx context.Context, limit int) ([]store.Address, error) {
	return s.store.ListAddresses(ctx, limit)
}

// Delete removes the address; a missing id yields store.ErrNotFound.
func (s *AddressService) Delete(ctx context.Context, id int64) error {
	if err := s.store.DeleteAddress(ctx, id); err != nil {
		return err
	}
	s.log.Info("address deleted", zap.Int64("id", id))
	return nil
}

// Search is the default autocomplete path: prefix and substring matching, no
// typo tolerance.
func (s *AddressService) Search(ctx context.Context, query string, limit int, f store.Filter) ([]string, error) {
	return s.engine.Autocomplete(ctx, query, limit, f, false)
}

// FuzzySearch is the typo-tolerant autocomplete path.
func (s *AddressService) FuzzySearch(ctx context.Context, query string, limit int, f store.Filter) ([]string, error) {
	return s.engine.Autocomplete(ctx, query, limit, f, true)
}

// SearchStreetNames returns distinct street names fuzzily matching the query.
func (s *AddressService) SearchStreetNames(ctx context.Context, query string, limit int, minSimilarity float64) ([]search.StreetNameMatch, error) {
	return s.engine.SearchStreetNames(ctx, query, limit, minSimilarity)
}

// Statistics summarizes the stored addresses.
type Statistics struct {
	TotalAddresses int                `json:"total_addresses"`
	ByState        []store.ValueCount `json:"by_state"`
	TopCities      []store.ValueCount `json:"top_cities"`
	TopStreetNames []store.ValueCount `json:"top_street_names"`
	StreetTypes    map[string]int     `json:"street_types"`
}

// Statistics returns totals, grouped counts, and the street-type breakdown.
func (s *AddressService) Statistics(ctx context.Context) (Statistics, error) {
	total, err := s.store.CountAddresses(ctx)
	if err != nil {
		return Statistics{}, fmt.Errorf("count addresses: %w", err)
	}

	byState, err := s.store.CountAddressesGroupedBy(ctx, store.FieldStateCode, 0)
	if err != nil {
		return Statistics{}, fmt.Errorf("count by state: %w", err)
	}
	topCities, err := s.store.CountAddressesGroupedBy(ctx, store.FieldCity, 10)
	if err != nil {
		return Statistics{}, fmt.Errorf("count by city: %w", err)
	}
	topStreets, err := s.store.CountAddressesGroupedBy(ctx, store.FieldStreetName, 10)
	if err != nil {
		return Statistics{}, fmt.Errorf("count by street name: %w", err)
	}

	byName, err := s.store.CountAddressesGroupedBy(ctx, store.FieldStreetName, 0)
	if err != nil {
		return Statistics{}, fmt.Errorf("street type breakdown: %w", err)
	}
	types := make(map[string]int)
	for _, vc := range byName {
		for suffix, n := range address.StreetTypeStatistics([]string{vc.Value}) {
			types[suffix] += n * vc.Count
		}
	}

	return Statistics{
		TotalAddresses: total,
		ByState:        byState,
		TopCities:      topCities,
		TopStreetNames: topStreets,
		StreetTypes:    types,
	}, nil
}

// normalizeComponents standardizes the street name, validates every required
// field, and rebuilds the derived street and full addresses. All violations
// are collected before failing.
func normalizeComponents(c address.Components) (address.Components, error) {
	var violations []string

	name, err := address.NormalizeStreetName(c.StreetName)
	if err != nil {
		violations = append(violations, err.Error())
	} else {
		name = address.StandardizeStreetType(name)
	}

	city, err := address.NormalizeCity(c.City)
	if err != nil {
		violations = append(violations, err.Error())
	}

	state, err := address.NormalizeStateCode(c.StateCode)
	if err != nil {
		violations = append(violations, err.Error())
	}

	if len(violations) > 0 {
		return address.Components{}, &ValidationError{Violations: violations}
	}

	out, err := address.ValidateComponents(address.Components{
		StreetNumber: c.StreetNumber,
		StreetName:   name,
		Unit:         c.Unit,
		City:         city,
		StateCode:    state,
	})
	if err != nil {
		return address.Components{}, &ValidationError{Violations: []string{err.Error()}}
	}
	return out, nil
}

func componentsToRecord(c address.Components) store.Address {
	return store.Address{
		StreetNumber:  c.StreetNumber,
		StreetName:    c.StreetName,
		Unit:          c.Unit,
		StreetAddress: c.StreetAddress,
		City:          c.City,
		StateCode:     c.StateCode,
		FullAddress:   c.FullAddress,
	}
}
