package trip

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taxibook/internal/modules/location"
	"taxibook/internal/types"
)

var (
	pyramid = location.Location{Name: "Sunway Pyramid", Address: "Bandar Sunway", Coordinates: types.Point{Lng: 101.6076, Lat: 3.0728}}
	uni     = location.Location{Name: "Sunway University", Address: "Jalan Universiti", Coordinates: types.Point{Lng: 101.6035, Lat: 3.0671}}
	lagoon  = location.Location{Name: "Lagoon View", Address: "Bandar Sunway", Coordinates: types.Point{Lng: 101.6051, Lat: 3.0670}}
	medical = location.Location{Name: "Sunway Medical Centre", Address: "Jalan Lagoon Selatan", Coordinates: types.Point{Lng: 101.6086, Lat: 3.0661}}
)

func TestSetEndpoint_RejectsInvalidWithoutMutation(t *testing.T) {
	var tr Trip
	require.NoError(t, tr.SetEndpoint(pyramid, Start))

	bad := pyramid
	bad.Address = ""
	err := tr.SetEndpoint(bad, Start)
	assert.ErrorIs(t, err, types.ErrValidation)

	got, ok := tr.Endpoint(Start)
	require.True(t, ok)
	assert.Equal(t, pyramid, got)
}

func TestSetEndpoint_StoresCopy(t *testing.T) {
	var tr Trip
	loc := pyramid
	require.NoError(t, tr.SetEndpoint(loc, End))
	loc.Name = "changed"

	got, _ := tr.Endpoint(End)
	assert.Equal(t, "Sunway Pyramid", got.Name)
}

func TestIntermediateEditing(t *testing.T) {
	var tr Trip
	require.NoError(t, tr.AddIntermediate(uni))
	require.NoError(t, tr.AddIntermediate(lagoon))

	require.NoError(t, tr.EditIntermediate(medical, 1))
	assert.Equal(t, []location.Location{uni, medical}, tr.Intermediate())

	assert.ErrorIs(t, tr.EditIntermediate(pyramid, 2), types.ErrOutOfRange)
	assert.ErrorIs(t, tr.EditIntermediate(location.Location{}, 0), types.ErrValidation)
	assert.ErrorIs(t, tr.DeleteIntermediate(2), types.ErrOutOfRange)
	assert.ErrorIs(t, tr.DeleteIntermediate(-1), types.ErrOutOfRange)

	require.NoError(t, tr.DeleteIntermediate(0))
	assert.Equal(t, []location.Location{medical}, tr.Intermediate())
}

func TestDistanceKm_ZeroForAtMostOneStop(t *testing.T) {
	var empty Trip
	assert.Zero(t, empty.DistanceKm())

	var onlyEnd Trip
	require.NoError(t, onlyEnd.SetEndpoint(medical, End))
	assert.Zero(t, onlyEnd.DistanceKm())

	var onlyStop Trip
	require.NoError(t, onlyStop.AddIntermediate(uni))
	assert.Zero(t, onlyStop.DistanceKm())
}

func TestDistanceKm_StartToEnd(t *testing.T) {
	var tr Trip
	require.NoError(t, tr.SetEndpoint(pyramid, Start))
	require.NoError(t, tr.SetEndpoint(medical, End))

	assert.InDelta(t, 0.753, tr.DistanceKm(), 0.01)
	assert.True(t, tr.Complete())
	assert.Equal(t, 2, tr.NumStops())
}

func TestDistanceKm_FollowsStopOrder(t *testing.T) {
	var tr Trip
	require.NoError(t, tr.SetEndpoint(pyramid, Start))
	require.NoError(t, tr.AddIntermediate(uni))
	require.NoError(t, tr.SetEndpoint(medical, End))

	want := location.DistanceKm(pyramid.Coordinates, uni.Coordinates) +
		location.DistanceKm(uni.Coordinates, medical.Coordinates)
	assert.InDelta(t, want, tr.DistanceKm(), 1e-9)
	assert.Equal(t, []types.Point{pyramid.Coordinates, uni.Coordinates, medical.Coordinates}, tr.PathGeometry())
}

func TestCentroid(t *testing.T) {
	var tr Trip
	_, err := tr.Centroid()
	assert.ErrorIs(t, err, ErrNoStops)

	require.NoError(t, tr.SetEndpoint(pyramid, Start))
	require.NoError(t, tr.SetEndpoint(medical, End))
	c, err := tr.Centroid()
	require.NoError(t, err)
	assert.InDelta(t, (101.6076+101.6086)/2, c.Lng, 1e-9)
	assert.InDelta(t, (3.0728+3.0661)/2, c.Lat, 1e-9)
}

func TestEncodedPath(t *testing.T) {
	var tr Trip
	assert.Equal(t, "", tr.EncodedPath())

	require.NoError(t, tr.SetEndpoint(pyramid, Start))
	require.NoError(t, tr.SetEndpoint(medical, End))
	assert.NotEmpty(t, tr.EncodedPath())
}

func TestClone_IsIndependent(t *testing.T) {
	var tr Trip
	require.NoError(t, tr.SetEndpoint(pyramid, Start))
	require.NoError(t, tr.AddIntermediate(uni))

	c := tr.Clone()
	require.NoError(t, tr.EditIntermediate(lagoon, 0))
	require.NoError(t, tr.SetEndpoint(medical, Start))

	start, _ := c.Endpoint(Start)
	assert.Equal(t, pyramid, start)
	assert.Equal(t, []location.Location{uni}, c.Intermediate())
	assert.False(t, math.IsNaN(c.DistanceKm()))
}

func TestParseEndpoint(t *testing.T) {
	e, err := ParseEndpoint("pickup")
	require.NoError(t, err)
	assert.Equal(t, Start, e)
	e, err = ParseEndpoint("end")
	require.NoError(t, err)
	assert.Equal(t, End, e)
	_, err = ParseEndpoint("middle")
	assert.ErrorIs(t, err, types.ErrValidation)
}
