package store

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/antzucaro/matchr"
)

// Memory is a map-backed Store used by tests and the in-memory dev mode. It
// reproduces the Postgres store's matching semantics: pg_trgm-style trigram
// similarity and soundex phonetic equality.
type Memory struct {
	mu             sync.RWMutex
	addresses      map[int64]Address
	states         map[int64]State
	municipalities map[int64]Municipality
	nextAddressID  int64
	nextStateID    int64
	nextMuniID     int64
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		addresses:      make(map[int64]Address),
		states:         make(map[int64]State),
		municipalities: make(map[int64]Municipality),
	}
}

func (m *Memory) matchesFilter(a Address, f Filter) bool {
	if f.StateCode != "" && a.StateCode != strings.ToUpper(strings.TrimSpace(f.StateCode)) {
		return false
	}
	if f.City != "" && !strings.EqualFold(a.City, f.City) {
		return false
	}
	return true
}

func (m *Memory) AddressesByPattern(ctx context.Context, field, text string, kind MatchKind, f Filter, limit int) ([]Address, error) {
	if err := checkSearchField(field); err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	needle := strings.ToLower(text)
	var out []Address
	for _, a := range m.addresses {
		if !m.matchesFilter(a, f) {
			continue
		}
		value, err := FieldValue(a, field)
		if err != nil {
			return nil, err
		}
		haystack := strings.ToLower(value)
		var ok bool
		switch kind {
		case MatchPrefix:
			ok = strings.HasPrefix(haystack, needle)
		case MatchSubstring:
			ok = strings.Contains(haystack, needle)
		}
		if ok {
			out = append(out, a)
		}
	}

	sort.Slice(out, func(i, j int) bool { return out[i].FullAddress < out[j].FullAddress })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *Memory) SimilarAddresses(ctx context.Context, field, text string, minSimilarity float64, f Filter) ([]ScoredAddress, error) {
	if err := checkSearchField(field); err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []ScoredAddress
	for _, a := range m.addresses {
		if !m.matchesFilter(a, f) {
			continue
		}
		value, err := FieldValue(a, field)
		if err != nil {
			return nil, err
		}
		score := TrigramSimilarity(value, text)
		if score >= minSimilarity {
			out = append(out, ScoredAddress{Address: a, Score: score})
		}
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		vi, _ := FieldValue(out[i].Address, field)
		vj, _ := FieldValue(out[j].Address, field)
		return vi < vj
	})
	return out, nil
}

func (m *Memory) PhoneticAddresses(ctx context.Context, field, text string, f Filter) ([]Address, error) {
	if err := checkSearchField(field); err != nil {
		return nil, err
	}

	code := matchr.Soundex(text)
	if code == "" {
		return nil, nil
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []Address
	for _, a := range m.addresses {
		if !m.matchesFilter(a, f) {
			continue
		}
		value, err := FieldValue(a, field)
		if err != nil {
			return nil, err
		}
		if matchr.Soundex(value) == code {
			out = append(out, a)
		}
	}

	sort.Slice(out, func(i, j int) bool {
		vi, _ := FieldValue(out[i], field)
		vj, _ := FieldValue(out[j], field)
		return vi < vj
	})
	return out, nil
}

func (m *Memory) InsertAddress(ctx context.Context, a Address) (Address, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, existing := range m.addresses {
		if existing.FullAddress == a.FullAddress {
			return Address{}, fmt.Errorf("address %q already exists", a.FullAddress)
		}
	}

	m.nextAddressID++
	a.ID = m.nextAddressID
	m.addresses[a.ID] = a
	return a, nil
}

func (m *Memory) UpdateAddress(ctx context.Context, id int64, a Address) (Address, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.addresses[id]; !ok {
		return Address{}, ErrNotFound
	}
	a.ID = id
	m.addresses[id] = a
	return a, nil
}

func (m *Memory) DeleteAddress(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.addresses[id]; !ok {
		return ErrNotFound
	}
	delete(m.addresses, id)
	return nil
}

func (m *Memory) AddressByID(ctx context.Context, id int64) (*Address, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	a, ok := m.addresses[id]
	if !ok {
		return nil, nil
	}
	return &a, nil
}

func (m *Memory) ListAddresses(ctx context.Context, limit int) ([]Address, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]Address, 0, len(m.addresses))
	for _, a := range m.addresses {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].FullAddress < out[j].FullAddress })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *Memory) CountAddresses(ctx context.Context) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.addresses), nil
}

func (m *Memory) CountAddressesGroupedBy(ctx context.Context, field string, limit int) ([]ValueCount, error) {
	if err := checkGroupField(field); err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	counts := make(map[string]int)
	for _, a := range m.addresses {
		value, err := FieldValue(a, field)
		if err != nil {
			return nil, err
		}
		if value != "" {
			counts[value]++
		}
	}

	out := make([]ValueCount, 0, len(counts))
	for value, count := range counts {
		out = append(out, ValueCount{Value: value, Count: count})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Value < out[j].Value
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *Memory) InsertState(ctx context.Context, s State) (State, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextStateID++
	s.ID = m.nextStateID
	m.states[s.ID] = s
	return s, nil
}

func (m *Memory) UpdateState(ctx context.Context, id int64, s State) (State, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.states[id]; !ok {
		return State{}, ErrNotFound
	}
	s.ID = id
	m.states[id] = s
	return s, nil
}

func (m *Memory) DeleteState(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.states[id]; !ok {
		return ErrNotFound
	}
	delete(m.states, id)
	return nil
}

func (m *Memory) StateByCode(ctx context.Context, code string) (*State, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	code = strings.ToUpper(strings.TrimSpace(code))
	for _, s := range m.states {
		if s.Code == code {
			out := s
			return &out, nil
		}
	}
	return nil, nil
}

func (m *Memory) ListStates(ctx context.Context) ([]State, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]State, 0, len(m.states))
	for _, s := range m.states {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *Memory) InsertMunicipality(ctx context.Context, rec Municipality) (Municipality, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextMuniID++
	rec.ID = m.nextMuniID
	m.municipalities[rec.ID] = rec
	return rec, nil
}

func (m *Memory) UpdateMunicipality(ctx context.Context, id int64, rec Municipality) (Municipality, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.municipalities[id]; !ok {
		return Municipality{}, ErrNotFound
	}
	rec.ID = id
	m.municipalities[id] = rec
	return rec, nil
}

func (m *Memory) DeleteMunicipality(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.municipalities[id]; !ok {
		return ErrNotFound
	}
	delete(m.municipalities, id)
	return nil
}

func (m *Memory) MunicipalitiesByStateCode(ctx context.Context, stateCode string) ([]Municipality, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var stateID int64 = -1
	code := strings.ToUpper(strings.TrimSpace(stateCode))
	for _, s := range m.states {
		if s.Code == code {
			stateID = s.ID
			break
		}
	}
	if stateID < 0 {
		return nil, nil
	}

	seen := make(map[string]bool)
	var out []Municipality
	for _, rec := range m.municipalities {
		if rec.StateID == stateID && !seen[rec.Name] {
			seen[rec.Name] = true
			out = append(out, rec)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}
