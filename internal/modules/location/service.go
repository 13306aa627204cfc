// README: Location service resolves tapped coordinates into Locations through a geocoder.
package location

import (
	"context"
	"errors"
	"fmt"

	"taxibook/internal/types"
)

// ErrInvalidLocation is returned when a coordinate pair cannot be turned into a
// usable Location (no result, or a result outside the service region).
var ErrInvalidLocation = fmt.Errorf("%w: invalid location", types.ErrValidation)

var ErrGeocodingDisabled = errors.New("geocoding is not configured")

// Geocoder turns a coordinate pair into at most one named place.
type Geocoder interface {
	Reverse(ctx context.Context, p types.Point) (Location, error)
}

type Service struct {
	geocoder Geocoder
}

func NewService(geocoder Geocoder) *Service {
	return &Service{geocoder: geocoder}
}

// Resolve reverse-geocodes p. The result is either a valid Location or an
// error wrapping ErrInvalidLocation / the geocoder failure; never a partial value.
func (s *Service) Resolve(ctx context.Context, p types.Point) (Location, error) {
	if !ValidPoint(p) {
		return Location{}, fmt.Errorf("%w: coordinates (%f, %f) out of range", ErrInvalidLocation, p.Lng, p.Lat)
	}
	if s.geocoder == nil {
		return Location{}, ErrGeocodingDisabled
	}
	loc, err := s.geocoder.Reverse(ctx, p)
	if err != nil {
		return Location{}, err
	}
	if err := loc.Validate(); err != nil {
		return Location{}, fmt.Errorf("%w: %v", ErrInvalidLocation, err)
	}
	return loc, nil
}

// Enabled reports whether a geocoder is wired.
func (s *Service) Enabled() bool {
	return s != nil && s.geocoder != nil
}
