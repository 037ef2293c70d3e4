package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/lightspun/lightspun/internal/address"
	"github.com/lightspun/lightspun/internal/store"
)

// StateService exposes US state CRUD and lookup by code.
type StateService struct {
	store store.Store
	log   *zap.Logger
}

func NewStateService(st store.Store, log *zap.Logger) *StateService {
	if log == nil {
		log = zap.NewNop()
	}
	return &StateService{store: st, log: log}
}

// CreateStateInput is the caller-supplied shape of a new state.
type CreateStateInput struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

func (s *StateService) Create(ctx context.Context, in CreateStateInput) (store.State, error) {
	var violations []string

	code, err := address.NormalizeStateCode(in.Code)
	if err != nil {
		violations = append(violations, err.Error())
	}
	if in.Name == "" {
		violations = append(violations, "state name is required")
	}
	if len(violations) > 0 {
		return store.State{}, &ValidationError{Violations: violations}
	}

	created, err := s.store.InsertState(ctx, store.State{Code: code, Name: in.Name})
	if err != nil {
		return store.State{}, fmt.Errorf("insert state: %w", err)
	}
	s.log.Info("state created", zap.String("code", created.Code))
	return created, nil
}

func (s *StateService) Update(ctx context.Context, id int64, in CreateStateInput) (store.State, error) {
	code, err := address.NormalizeStateCode(in.Code)
	if err != nil {
		return store.State{}, &ValidationError{Violations: []string{err.Error()}}
	}
	return s.store.UpdateState(ctx, id, store.State{Code: code, Name: in.Name})
}

func (s *StateService) Delete(ctx context.Context, id int64) error {
	return s.store.DeleteState(ctx, id)
}

// ByCode returns the state or nil when absent.
func (s *StateService) ByCode(ctx context.Context, code string) (*store.State, error) {
	return s.store.StateByCode(ctx, code)
}

func (s *StateService) List(ctx context.Context) ([]store.State, error) {
	return s.store.ListStates(ctx)
}
