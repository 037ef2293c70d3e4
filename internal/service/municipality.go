package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/lightspun/lightspun/internal/store"
)

// MunicipalityService exposes municipality CRUD and listing by state code.
type MunicipalityService struct {
	store store.Store
	log   *zap.Logger
}

func NewMunicipalityService(st store.Store, log *zap.Logger) *MunicipalityService {
	if log == nil {
		log = zap.NewNop()
	}
	return &MunicipalityService{store: st, log: log}
}

// CreateMunicipalityInput is the caller-supplied shape of a new municipality.
// StateCode resolves the owning state.
type CreateMunicipalityInput struct {
	Name      string `json:"name"`
	Type      string `json:"type"`
	StateCode string `json:"state_code"`
}

func (s *MunicipalityService) Create(ctx context.Context, in CreateMunicipalityInput) (store.Municipality, error) {
	var violations []string
	if in.Name == "" {
		violations = append(violations, "municipality name is required")
	}
	if in.StateCode == "" {
		violations = append(violations, "state code is required")
	}
	if len(violations) > 0 {
		return store.Municipality{}, &ValidationError{Violations: violations}
	}

	state, err := s.store.StateByCode(ctx, in.StateCode)
	if err != nil {
		return store.Municipality{}, fmt.Errorf("resolve state %q: %w", in.StateCode, err)
	}
	if state == nil {
		return store.Municipality{}, &ValidationError{Violations: []string{fmt.Sprintf("unknown state code %q", in.StateCode)}}
	}

	created, err := s.store.InsertMunicipality(ctx, store.Municipality{
		Name:    in.Name,
		Type:    in.Type,
		StateID: state.ID,
	})
	if err != nil {
		return store.Municipality{}, fmt.Errorf("insert municipality: %w", err)
	}
	s.log.Info("municipality created",
		zap.String("name", created.Name),
		zap.String("state", state.Code))
	return created, nil
}

func (s *MunicipalityService) Update(ctx context.Context, id int64, m store.Municipality) (store.Municipality, error) {
	return s.store.UpdateMunicipality(ctx, id, m)
}

func (s *MunicipalityService) Delete(ctx context.Context, id int64) error {
	return s.store.DeleteMunicipality(ctx, id)
}

// ByStateCode lists a state's municipalities, deduplicated by name.
func (s *MunicipalityService) ByStateCode(ctx context.Context, stateCode string) ([]store.Municipality, error) {
	return s.store.MunicipalitiesByStateCode(ctx, stateCode)
}
