package main

import (
	"context"

	"github.com/lightspun/lightspun/internal/address"
	"github.com/lightspun/lightspun/internal/service"
)

// restandardize rewrites every stored street name through the street-type
// mapping table and returns how many addresses changed.
func restandardize(ctx context.Context, addresses *service.AddressService) (int, error) {
	all, err := addresses.List(ctx, 0)
	if err != nil {
		return 0, err
	}

	updated := 0
	for _, a := range all {
		std := address.StandardizeStreetType(a.StreetName)
		if std == a.StreetName {
			continue
		}
		name := std
		if _, err := addresses.Update(ctx, a.ID, service.UpdateAddressInput{StreetName: &name}); err != nil {
			return updated, err
		}
		updated++
	}
	return updated, nil
}
