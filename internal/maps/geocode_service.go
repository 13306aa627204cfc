// README: GeocodeService turns tapped map coordinates into named Locations via Google reverse geocoding.
package maps

import (
	"context"
	"fmt"
	"strings"

	"googlemaps.github.io/maps"

	"taxibook/internal/modules/location"
	"taxibook/internal/types"
)

// reverseGeocoder is the part of *maps.Client the service uses.
type reverseGeocoder interface {
	ReverseGeocode(ctx context.Context, r *maps.GeocodingRequest) ([]maps.GeocodingResult, error)
}

type GeocodeService struct {
	client   reverseGeocoder
	region   string
	language string
}

// NewGeocodeService creates a GeocodeService with the given API key. Results
// are biased to and restricted to region, an ISO 3166-1 alpha-2 code.
func NewGeocodeService(apiKey, region, language string) (*GeocodeService, error) {
	client, err := maps.NewClient(maps.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create maps client: %w", err)
	}
	return newGeocodeService(client, region, language), nil
}

func newGeocodeService(client reverseGeocoder, region, language string) *GeocodeService {
	return &GeocodeService{client: client, region: strings.ToUpper(region), language: language}
}

// Reverse returns the first in-region result for p.
func (s *GeocodeService) Reverse(ctx context.Context, p types.Point) (location.Location, error) {
	r := &maps.GeocodingRequest{
		LatLng:   &maps.LatLng{Lat: p.Lat, Lng: p.Lng},
		Region:   strings.ToLower(s.region),
		Language: s.language,
	}
	results, err := s.client.ReverseGeocode(ctx, r)
	if err != nil {
		return location.Location{}, fmt.Errorf("maps api error: %w", err)
	}

	res, ok := pickResult(results, s.region)
	if !ok {
		return location.Location{}, fmt.Errorf("%w: no result in region %q", location.ErrInvalidLocation, s.region)
	}
	return location.Location{
		Name:    placeName(res),
		Address: res.FormattedAddress,
		Coordinates: types.Point{
			Lng: res.Geometry.Location.Lng,
			Lat: res.Geometry.Location.Lat,
		},
	}, nil
}

// pickResult returns the first result whose country matches region. An empty
// region accepts any result.
func pickResult(results []maps.GeocodingResult, region string) (maps.GeocodingResult, bool) {
	for _, res := range results {
		if res.FormattedAddress == "" {
			continue
		}
		if region == "" || countryOf(res) == region {
			return res, true
		}
	}
	return maps.GeocodingResult{}, false
}

func countryOf(res maps.GeocodingResult) string {
	for _, c := range res.AddressComponents {
		for _, t := range c.Types {
			if t == "country" {
				return strings.ToUpper(c.ShortName)
			}
		}
	}
	return ""
}

// placeName is the most specific address component, falling back to the
// first segment of the formatted address.
func placeName(res maps.GeocodingResult) string {
	if len(res.AddressComponents) > 0 && strings.TrimSpace(res.AddressComponents[0].LongName) != "" {
		return res.AddressComponents[0].LongName
	}
	name, _, _ := strings.Cut(res.FormattedAddress, ",")
	return strings.TrimSpace(name)
}
