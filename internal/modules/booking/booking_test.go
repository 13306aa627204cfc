package booking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taxibook/internal/modules/location"
	"taxibook/internal/modules/pricing"
	"taxibook/internal/modules/taxi"
	"taxibook/internal/modules/trip"
	"taxibook/internal/types"
)

var (
	pyramid = location.Location{Name: "Sunway Pyramid", Address: "Bandar Sunway", Coordinates: types.Point{Lng: 101.6076, Lat: 3.0728}}
	medical = location.Location{Name: "Sunway Medical Centre", Address: "Jalan Lagoon Selatan", Coordinates: types.Point{Lng: 101.6086, Lat: 3.0661}}

	noon = time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)
)

func sunwayDraft(t *testing.T) *Booking {
	t.Helper()
	b := NewDraft("Booking 1")
	require.NoError(t, b.Trip.SetEndpoint(pyramid, trip.Start))
	require.NoError(t, b.Trip.SetEndpoint(medical, trip.End))
	return b
}

func TestFare_CarImmediateDaytime(t *testing.T) {
	b := sunwayDraft(t)
	b.AssignTaxi(taxi.Unit{Class: pricing.Car, Registration: "WXY 1234", Index: 0})

	fare, err := b.Fare(noon)
	require.NoError(t, err)
	assert.InDelta(t, 3+b.Trip.DistanceKm()*pricing.PerKmRate, fare, 1e-9)
	assert.InDelta(t, 3.65, fare, 0.01)
}

func TestFare_MinibusAdvanceAtOneAM(t *testing.T) {
	b := sunwayDraft(t)
	at := time.Date(2026, 3, 3, 1, 0, 0, 0, time.UTC)
	require.NoError(t, b.Schedule(true, &at))
	b.AssignTaxi(taxi.Unit{Class: pricing.Minibus, Registration: "BMW 4410", Index: 5})

	fare, err := b.Fare(noon)
	require.NoError(t, err)
	want := (3 + 15 + b.Trip.DistanceKm()*pricing.PerKmRate + 2) * 1.5
	assert.InDelta(t, want, fare, 1e-9)
}

func TestFare_ImmediateUsesNow(t *testing.T) {
	b := sunwayDraft(t)
	require.NoError(t, b.ChooseClass(pricing.Van))

	day, err := b.Fare(noon)
	require.NoError(t, err)
	night, err := b.Fare(time.Date(2026, 3, 2, 2, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.InDelta(t, day*1.5, night, 1e-9)
}

func TestFare_Errors(t *testing.T) {
	b := sunwayDraft(t)
	_, err := b.Fare(noon)
	assert.ErrorIs(t, err, ErrTaxiUnassigned)

	_, err = b.FareFor(pricing.Car, noon)
	assert.NoError(t, err)

	b.IsAdvance = true
	_, err = b.FareFor(pricing.Car, noon)
	assert.ErrorIs(t, err, ErrScheduleMissing)
}

func TestSchedule(t *testing.T) {
	b := NewDraft("x")
	assert.ErrorIs(t, b.Schedule(true, nil), types.ErrValidation)
	assert.ErrorIs(t, b.Schedule(true, nil), ErrScheduleMissing)
	assert.False(t, b.IsAdvance)

	at := noon.Add(48 * time.Hour)
	require.NoError(t, b.Schedule(true, &at))
	at = at.Add(time.Hour)
	assert.Equal(t, noon.Add(48*time.Hour), *b.ScheduledAt)

	require.NoError(t, b.Schedule(false, nil))
	assert.False(t, b.IsAdvance)
	assert.Nil(t, b.ScheduledAt)
}

func TestQuotes(t *testing.T) {
	b := sunwayDraft(t)
	quotes, err := b.Quotes(noon)
	require.NoError(t, err)
	require.Len(t, quotes, 4)
	for i, q := range quotes {
		assert.Equal(t, pricing.Classes()[i], q.Class)
		want, err := b.FareFor(q.Class, noon)
		require.NoError(t, err)
		assert.Equal(t, want, q.Fare)
	}
	assert.Less(t, quotes[0].Fare, quotes[3].Fare)
}

func TestBreakdown(t *testing.T) {
	b := sunwayDraft(t)
	require.NoError(t, b.ChooseClass(pricing.SUV))
	res, err := b.Breakdown(noon)
	require.NoError(t, err)
	assert.Equal(t, 5.0, res.Breakdown["levy"])
	_, night := res.Breakdown["night"]
	assert.False(t, night)
}

func TestChooseClass(t *testing.T) {
	b := NewDraft("x")
	assert.ErrorIs(t, b.ChooseClass(pricing.Class(0)), types.ErrValidation)
	require.NoError(t, b.ChooseClass(pricing.SUV))
	c, ok := b.Class()
	assert.True(t, ok)
	assert.Equal(t, pricing.SUV, c)
	assert.False(t, b.Allocated())

	b.AssignTaxi(taxi.Unit{Class: pricing.SUV, Registration: "VBA 5502", Index: 2})
	assert.True(t, b.Allocated())

	// A held unit counts by its index even when its registration is blank.
	b.AssignTaxi(taxi.Unit{Class: pricing.SUV, Index: 0})
	assert.True(t, b.Allocated())
}

func TestStatus(t *testing.T) {
	b := sunwayDraft(t)
	_, ok := b.Status(noon)
	assert.False(t, ok)

	l := NewLedger(nil)
	l.Add(b, noon)
	immediate, err := l.Get(0)
	require.NoError(t, err)
	status, ok := immediate.Status(noon)
	assert.True(t, ok)
	assert.Equal(t, StatusCommenced, status)

	at := noon.Add(2 * time.Hour)
	require.NoError(t, b.Schedule(true, &at))
	l.Add(b, noon.Add(time.Minute))
	advance, err := l.Get(0)
	require.NoError(t, err)
	status, _ = advance.Status(noon.Add(time.Hour))
	assert.Equal(t, StatusFuture, status)
	status, _ = advance.Status(at)
	assert.Equal(t, StatusCommenced, status)
}

func TestClone_IsDeep(t *testing.T) {
	b := sunwayDraft(t)
	at := noon
	require.NoError(t, b.Schedule(true, &at))
	b.AssignTaxi(taxi.Unit{Class: pricing.Car, Registration: "A", Index: 1})

	c := b.Clone()
	b.Taxi.Registration = "B"
	*b.ScheduledAt = noon.Add(time.Hour)
	require.NoError(t, b.Trip.AddIntermediate(pyramid))

	assert.Equal(t, "A", c.Taxi.Registration)
	assert.Equal(t, noon, *c.ScheduledAt)
	assert.Empty(t, c.Trip.Intermediate())
}
