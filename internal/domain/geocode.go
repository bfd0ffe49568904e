package domain

import "context"

// Geocoder resolves a postal address to a coordinate pair. Implementations
// fail with ErrGeocodeFailure when the address cannot be resolved and with
// ErrDependencyTimeout when the lookup does not answer in time.
type Geocoder interface {
	Resolve(ctx context.Context, address string) (Coordinate, error)
}
