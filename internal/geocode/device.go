package geocode

import (
	"context"
	"errors"
)

var (
	// ErrLocationDenied indicates the user declined the location request or
	// the platform call failed.
	ErrLocationDenied = errors.New("location permission denied")
	// ErrLocationUnsupported indicates the platform exposes no location
	// capability at all.
	ErrLocationUnsupported = errors.New("location not supported")
)

// Coordinates is a raw device position.
type Coordinates struct {
	Lat float64
	Lng float64
}

// Locator is a single-shot request to the platform's location sensor. It
// completes at most once per invocation; it is not a subscription.
type Locator interface {
	CurrentPosition(ctx context.Context) (Coordinates, error)
}

// Reverser resolves coordinates to a display address, best effort.
type Reverser interface {
	Reverse(ctx context.Context, lat, lng float64) string
}

// Location is a device position with an optional human-readable address.
type Location struct {
	Coordinates
	Address string
}

// Locate implements the "use my location" flow: request the device position,
// then attempt a reverse geocode for a readable address. A reverse-geocode
// failure is non-fatal; the coordinates remain valid with an empty address.
// Denied and unsupported outcomes propagate so the caller can leave prior
// address fields untouched and surface a notice.
func Locate(ctx context.Context, locator Locator, reverser Reverser) (Location, error) {
	pos, err := locator.CurrentPosition(ctx)
	if err != nil {
		return Location{}, err
	}

	loc := Location{Coordinates: pos}
	if reverser != nil {
		loc.Address = reverser.Reverse(ctx, pos.Lat, pos.Lng)
	}
	return loc, nil
}
