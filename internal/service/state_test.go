package service

import (
	"context"
	"errors"
	"testing"

	"github.com/lightspun/lightspun/internal/store"
)

func TestStateServiceCreateAndLookup(t *testing.T) {
	m := store.NewMemory()
	svc := NewStateService(m, nil)
	ctx := context.Background()

	created, err := svc.Create(ctx, CreateStateInput{Code: " ca ", Name: "California"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.Code != "CA" {
		t.Errorf("code = %q, want normalized CA", created.Code)
	}

	got, err := svc.ByCode(ctx, "ca")
	if err != nil || got == nil || got.Name != "California" {
		t.Fatalf("ByCode = %v, %v", got, err)
	}

	missing, err := svc.ByCode(ctx, "ZZ")
	if err != nil || missing != nil {
		t.Errorf("ByCode(ZZ) = %v, %v; want nil, nil", missing, err)
	}
}

func TestStateServiceValidation(t *testing.T) {
	svc := NewStateService(store.NewMemory(), nil)

	_, err := svc.Create(context.Background(), CreateStateInput{Code: "CAL"})
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("error = %v, want ValidationError", err)
	}
	if len(ve.Violations) != 2 {
		t.Errorf("violations = %v, want code and name both reported", ve.Violations)
	}
}

func TestMunicipalityServiceCreate(t *testing.T) {
	m := store.NewMemory()
	states := NewStateService(m, nil)
	munis := NewMunicipalityService(m, nil)
	ctx := context.Background()

	if _, err := states.Create(ctx, CreateStateInput{Code: "CA", Name: "California"}); err != nil {
		t.Fatalf("seed state: %v", err)
	}

	created, err := munis.Create(ctx, CreateMunicipalityInput{Name: "Los Angeles", Type: "city", StateCode: "CA"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.StateID == 0 {
		t.Error("expected municipality bound to the state")
	}

	listed, err := munis.ByStateCode(ctx, "ca")
	if err != nil || len(listed) != 1 {
		t.Fatalf("ByStateCode = %v, %v", listed, err)
	}

	_, err = munis.Create(ctx, CreateMunicipalityInput{Name: "Springfield", Type: "city", StateCode: "ZZ"})
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Errorf("unknown state error = %v, want ValidationError", err)
	}
}
