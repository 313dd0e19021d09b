// Package geocode turns camp addresses into coordinates and decides when a
// lookup is worth making.
package geocode

import (
	"context"
	"log/slog"
	"strings"

	"github.com/pkordes/camp-directory/internal/domain"
)

// Geocoder resolves a free-text address. A nil result with a nil error
// means the address was not found.
type Geocoder interface {
	Geocode(ctx context.Context, address string) (*domain.Coordinates, error)
}

// Action is what to do with a camp's coordinates before it is saved.
type Action int

const (
	// Clear drops stored coordinates; there is no address to locate.
	Clear Action = iota
	// Lookup geocodes the new address.
	Lookup
	// Retain keeps the coordinates already on record.
	Retain
)

func (a Action) String() string {
	switch a {
	case Clear:
		return "clear"
	case Lookup:
		return "lookup"
	case Retain:
		return "retain"
	}
	return "unknown"
}

// Decide picks the Action for a save. Addresses are compared exactly; an
// address that is empty after trimming counts as absent.
func Decide(isNew bool, prevAddress, newAddress string) Action {
	switch {
	case strings.TrimSpace(newAddress) == "":
		return Clear
	case isNew || prevAddress != newAddress:
		return Lookup
	default:
		return Retain
	}
}

// Resolve returns next with its coordinates set according to Decide.
// prev is the stored version of the camp, or nil when there is none; a nil
// prev is treated like a new camp.
//
// A failed or empty lookup leaves the coordinates unset. Resolve never
// fails: a flaky geocoder must not block a save.
func Resolve(ctx context.Context, g Geocoder, isNew bool, prev *domain.Camp, next domain.Camp) domain.Camp {
	var prevAddress string
	if prev != nil {
		prevAddress = prev.Address
	}

	switch Decide(isNew || prev == nil, prevAddress, next.Address) {
	case Clear:
		next.Coordinates = nil
	case Retain:
		next.Coordinates = copyCoordinates(prev.Coordinates)
	case Lookup:
		next.Coordinates = nil
		if g == nil {
			return next
		}
		coords, err := g.Geocode(ctx, next.Address)
		if err != nil {
			slog.WarnContext(ctx, "geocoding failed, saving without coordinates",
				"camp", next.Name, "address", next.Address, "error", err)
			return next
		}
		if coords == nil {
			slog.InfoContext(ctx, "address not found", "camp", next.Name, "address", next.Address)
			return next
		}
		next.Coordinates = copyCoordinates(coords)
	}
	return next
}

func copyCoordinates(c *domain.Coordinates) *domain.Coordinates {
	if c == nil {
		return nil
	}
	cp := *c
	return &cp
}
