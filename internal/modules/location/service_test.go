package location

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taxibook/internal/types"
)

type stubGeocoder struct {
	loc Location
	err error
}

func (s stubGeocoder) Reverse(_ context.Context, _ types.Point) (Location, error) {
	return s.loc, s.err
}

func TestResolve_ReturnsGeocodedLocation(t *testing.T) {
	want := Location{Name: "Sunway Lagoon", Address: "Bandar Sunway", Coordinates: types.Point{Lng: 101.6051, Lat: 3.067}}
	svc := NewService(stubGeocoder{loc: want})

	got, err := svc.Resolve(context.Background(), types.Point{Lng: 101.6051, Lat: 3.067})
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestResolve_PartialResultIsInvalid(t *testing.T) {
	svc := NewService(stubGeocoder{loc: Location{Name: "no address", Coordinates: types.Point{Lng: 1, Lat: 1}}})

	got, err := svc.Resolve(context.Background(), types.Point{Lng: 1, Lat: 1})
	assert.ErrorIs(t, err, ErrInvalidLocation)
	assert.ErrorIs(t, err, types.ErrValidation)
	assert.Equal(t, Location{}, got)
}

func TestResolve_OutOfRangePoint(t *testing.T) {
	svc := NewService(stubGeocoder{})
	_, err := svc.Resolve(context.Background(), types.Point{Lng: 200, Lat: 0})
	assert.ErrorIs(t, err, ErrInvalidLocation)
}

func TestResolve_GeocoderError(t *testing.T) {
	boom := errors.New("quota exceeded")
	svc := NewService(stubGeocoder{err: boom})
	_, err := svc.Resolve(context.Background(), types.Point{Lng: 1, Lat: 1})
	assert.ErrorIs(t, err, boom)
}

func TestResolve_NoGeocoder(t *testing.T) {
	svc := NewService(nil)
	assert.False(t, svc.Enabled())
	_, err := svc.Resolve(context.Background(), types.Point{Lng: 1, Lat: 1})
	assert.ErrorIs(t, err, ErrGeocodingDisabled)
}
