// Package store defines the storage capability interface consumed by the
// search engine and services, plus the Postgres and in-memory
// implementations.
package store

import (
	"context"
	"errors"
	"fmt"
)

// ErrNotFound is returned by mutation paths (update, delete) when the target
// id does not exist. Read paths report absence as a nil result instead.
var ErrNotFound = errors.New("record not found")

// Address is the persisted address record. FullAddress is unique.
type Address struct {
	ID            int64  `json:"id"`
	StreetNumber  string `json:"street_number,omitempty"`
	StreetName    string `json:"street_name"`
	Unit          string `json:"unit,omitempty"`
	StreetAddress string `json:"street_address"`
	City          string `json:"city"`
	StateCode     string `json:"state_code"`
	FullAddress   string `json:"full_address"`
}

// State is a persisted US state record.
type State struct {
	ID   int64  `json:"id"`
	Code string `json:"code"`
	Name string `json:"name"`
}

// Municipality is a persisted municipality record tied to a state.
type Municipality struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Type    string `json:"type"`
	StateID int64  `json:"state_id"`
}

// ScoredAddress pairs an address with a store-computed similarity score in
// [0,1].
type ScoredAddress struct {
	Address
	Score float64 `json:"score"`
}

// ValueCount is one bucket of a grouped count.
type ValueCount struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// Filter narrows address queries to a state and/or city. Zero values apply
// no filtering. State codes compare case-normalized, cities
// case-insensitively.
type Filter struct {
	StateCode string
	City      string
}

// MatchKind selects the text-matching mode of AddressesByPattern.
type MatchKind int

const (
	// MatchPrefix matches field values starting with the query text.
	MatchPrefix MatchKind = iota
	// MatchSubstring matches field values containing the query text.
	MatchSubstring
)

// Searchable address columns. Implementations only ever interpolate these
// constants into queries, never caller-supplied text.
const (
	FieldStreetAddress = "street_address"
	FieldStreetName    = "street_name"
	FieldFullAddress   = "full_address"
	FieldCity          = "city"
	FieldStateCode     = "state_code"
)

var searchableFields = map[string]bool{
	FieldStreetAddress: true,
	FieldStreetName:    true,
	FieldFullAddress:   true,
}

var groupableFields = map[string]bool{
	FieldStreetName: true,
	FieldCity:       true,
	FieldStateCode:  true,
}

func checkSearchField(field string) error {
	if !searchableFields[field] {
		return fmt.Errorf("field %q is not searchable", field)
	}
	return nil
}

func checkGroupField(field string) error {
	if !groupableFields[field] {
		return fmt.Errorf("field %q is not groupable", field)
	}
	return nil
}

// FieldValue returns the value of a searchable field on an address.
func FieldValue(a Address, field string) (string, error) {
	switch field {
	case FieldStreetAddress:
		return a.StreetAddress, nil
	case FieldStreetName:
		return a.StreetName, nil
	case FieldFullAddress:
		return a.FullAddress, nil
	case FieldCity:
		return a.City, nil
	case FieldStateCode:
		return a.StateCode, nil
	default:
		return "", fmt.Errorf("field %q is not searchable", field)
	}
}

// AddressSearcher is the query capability set consumed by the fuzzy matching
// engine. Implementations are safe for concurrent use and perform no
// retries; failures propagate to the caller.
type AddressSearcher interface {
	// AddressesByPattern returns addresses whose field matches the text by
	// prefix or substring, case-insensitively, ordered by full address.
	AddressesByPattern(ctx context.Context, field, text string, kind MatchKind, f Filter, limit int) ([]Address, error)

	// SimilarAddresses returns addresses whose field scores at least
	// minSimilarity trigram similarity against the text, with scores,
	// ordered by score descending then field value ascending.
	SimilarAddresses(ctx context.Context, field, text string, minSimilarity float64, f Filter) ([]ScoredAddress, error)

	// PhoneticAddresses returns addresses whose field shares a phonetic
	// (soundex) code with the text, ordered by field value.
	PhoneticAddresses(ctx context.Context, field, text string, f Filter) ([]Address, error)
}

// Store is the full persistence surface: search capabilities plus plain CRUD
// over addresses, states, and municipalities.
type Store interface {
	AddressSearcher

	InsertAddress(ctx context.Context, a Address) (Address, error)
	UpdateAddress(ctx context.Context, id int64, a Address) (Address, error)
	DeleteAddress(ctx context.Context, id int64) error
	AddressByID(ctx context.Context, id int64) (*Address, error)
	ListAddresses(ctx context.Context, limit int) ([]Address, error)
	CountAddresses(ctx context.Context) (int, error)
	CountAddressesGroupedBy(ctx context.Context, field string, limit int) ([]ValueCount, error)

	InsertState(ctx context.Context, s State) (State, error)
	UpdateState(ctx context.Context, id int64, s State) (State, error)
	DeleteState(ctx context.Context, id int64) error
	StateByCode(ctx context.Context, code string) (*State, error)
	ListStates(ctx context.Context) ([]State, error)

	InsertMunicipality(ctx context.Context, m Municipality) (Municipality, error)
	UpdateMunicipality(ctx context.Context, id int64, m Municipality) (Municipality, error)
	DeleteMunicipality(ctx context.Context, id int64) error
	MunicipalitiesByStateCode(ctx context.Context, stateCode string) ([]Municipality, error)
}
