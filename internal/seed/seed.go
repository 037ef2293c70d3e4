// Package seed loads fixture data from a JSON file, running every address
// through the full parse, standardize, and validate pipeline.
package seed

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/lightspun/lightspun/internal/service"
)

// File is the on-disk fixture shape.
type File struct {
	States         []service.CreateStateInput        `json:"states"`
	Municipalities []service.CreateMunicipalityInput `json:"municipalities"`
	Addresses      []service.CreateAddressInput      `json:"addresses"`
}

// Result counts what was loaded and what was skipped.
type Result struct {
	States         int
	Municipalities int
	Addresses      int
	Skipped        int
}

// Loader inserts fixture records through the services.
type Loader struct {
	States         *service.StateService
	Municipalities *service.MunicipalityService
	Addresses      *service.AddressService
	Log            *zap.Logger
}

// LoadFile reads the fixture at path and inserts its records. Records that
// fail validation or collide with existing data are skipped and counted, not
// fatal.
func (l *Loader) LoadFile(ctx context.Context, path string) (Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Result{}, fmt.Errorf("read seed file: %w", err)
	}

	var f File
	if err := json.Unmarshal(data, &f); err != nil {
		return Result{}, fmt.Errorf("parse seed file: %w", err)
	}
	return l.Load(ctx, f)
}

// Load inserts the fixture records in dependency order: states, then
// municipalities, then addresses.
func (l *Loader) Load(ctx context.Context, f File) (Result, error) {
	log := l.Log
	if log == nil {
		log = zap.NewNop()
	}
	var res Result

	for _, in := range f.States {
		if _, err := l.States.Create(ctx, in); err != nil {
			res.Skipped++
			log.Warn("skipping state", zap.String("code", in.Code), zap.Error(err))
			continue
		}
		res.States++
	}

	for _, in := range f.Municipalities {
		if _, err := l.Municipalities.Create(ctx, in); err != nil {
			res.Skipped++
			log.Warn("skipping municipality", zap.String("name", in.Name), zap.Error(err))
			continue
		}
		res.Municipalities++
	}

	for _, in := range f.Addresses {
		if _, err := l.Addresses.Create(ctx, in); err != nil {
			res.Skipped++
			log.Warn("skipping address", zap.String("street_address", in.StreetAddress), zap.Error(err))
			continue
		}
		res.Addresses++
	}

	log.Info("seed complete",
		zap.Int("states", res.States),
		zap.Int("municipalities", res.Municipalities),
		zap.Int("addresses", res.Addresses),
		zap.Int("skipped", res.Skipped))
	return res, nil
}
