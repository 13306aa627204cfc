package codec

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taxibook/internal/modules/booking"
	"taxibook/internal/modules/location"
	"taxibook/internal/modules/pricing"
	"taxibook/internal/modules/taxi"
	"taxibook/internal/modules/trip"
	"taxibook/internal/types"
)

var (
	pyramid = location.Location{Name: "Sunway Pyramid", Address: "Bandar Sunway", Coordinates: types.Point{Lng: 101.6076, Lat: 3.0728}}
	uni     = location.Location{Name: "Sunway University", Address: "Jalan Universiti", Coordinates: types.Point{Lng: 101.6035, Lat: 3.0671}}
	medical = location.Location{Name: "Sunway Medical Centre", Address: "Jalan Lagoon Selatan", Coordinates: types.Point{Lng: 101.6086, Lat: 3.0661}}
)

func sampleBooking(t *testing.T, advance bool) *booking.Booking {
	t.Helper()
	b := booking.NewDraft("Booking 3")
	require.NoError(t, b.Trip.SetEndpoint(pyramid, trip.Start))
	require.NoError(t, b.Trip.AddIntermediate(uni))
	require.NoError(t, b.Trip.SetEndpoint(medical, trip.End))
	if advance {
		at := time.Date(2026, 5, 1, 1, 30, 0, 0, time.FixedZone("MYT", 8*3600))
		require.NoError(t, b.Schedule(true, &at))
	}
	b.AssignTaxi(taxi.Unit{Class: pricing.Minibus, Registration: "BMW 4410", Index: 4})
	b.CreatedAt = time.Date(2026, 4, 20, 9, 15, 0, 0, time.FixedZone("MYT", 8*3600))
	return b
}

func TestBookingRoundTrip(t *testing.T) {
	now := time.Date(2026, 4, 20, 10, 0, 0, 0, time.UTC)
	for _, advance := range []bool{false, true} {
		b := sampleBooking(t, advance)
		data, err := EncodeBooking(b)
		require.NoError(t, err)

		got, err := DecodeBooking(data)
		require.NoError(t, err)

		assert.Equal(t, b.Name, got.Name)
		assert.Equal(t, b.IsAdvance, got.IsAdvance)
		assert.InDelta(t, b.Trip.DistanceKm(), got.Trip.DistanceKm(), 1e-12)
		assert.Equal(t, b.Trip.Stops(), got.Trip.Stops())
		require.NotNil(t, got.Taxi)
		assert.Equal(t, *b.Taxi, *got.Taxi)
		assert.True(t, b.CreatedAt.Equal(got.CreatedAt))
		for _, c := range pricing.Classes() {
			want, err := b.FareFor(c, now)
			require.NoError(t, err)
			have, err := got.FareFor(c, now)
			require.NoError(t, err)
			assert.InDelta(t, want, have, 1e-12, c.String())
		}
	}
}

func TestDraftRoundTrip_ClassOnlyTaxi(t *testing.T) {
	d := booking.NewDraft("Booking 1")
	require.NoError(t, d.Trip.SetEndpoint(pyramid, trip.Start))
	require.NoError(t, d.ChooseClass(pricing.Van))

	data, err := EncodeBooking(d)
	require.NoError(t, err)
	assert.Contains(t, data, `"_bookingTime":null`)
	assert.Contains(t, data, `"_index":null`)

	got, err := DecodeBooking(data)
	require.NoError(t, err)
	assert.False(t, got.Confirmed())
	assert.False(t, got.Allocated())
	c, ok := got.Class()
	assert.True(t, ok)
	assert.Equal(t, pricing.Van, c)
	_, hasEnd := got.Trip.Endpoint(trip.End)
	assert.False(t, hasEnd)
}

func TestDecodeBooking_MissingTrip(t *testing.T) {
	data := `{"_name":"Booking 1","_bookingTime":null,"_time":null,"_taxi":null,"_isAdvanced":false}`
	b, err := DecodeBooking(data)
	assert.ErrorIs(t, err, types.ErrDecode)
	assert.Nil(t, b)
}

func TestDecodeBooking_Malformed(t *testing.T) {
	cases := map[string]string{
		"empty":           ``,
		"not json":        `{"_name":`,
		"missing name":    `{"_trip":{"_start":null,"_end":null,"_intermediate":[]},"_isAdvanced":false}`,
		"missing advance": `{"_name":"b","_trip":{"_start":null,"_end":null,"_intermediate":[]}}`,
		"bad class":       `{"_name":"b","_trip":{"_start":null,"_end":null,"_intermediate":[]},"_isAdvanced":false,"_taxi":{"_name":"Tuk-tuk","_index":0,"_rego":"X"}}`,
		"bad coordinate":  `{"_name":"b","_trip":{"_start":{"name":"a","address":"b","coordinates":[200,1]},"_end":null,"_intermediate":[]},"_isAdvanced":false}`,
		"short coords":    `{"_name":"b","_trip":{"_start":{"name":"a","address":"b","coordinates":[1]},"_end":null,"_intermediate":[]},"_isAdvanced":false}`,
		"bad time":        `{"_name":"b","_trip":{"_start":null,"_end":null,"_intermediate":[]},"_isAdvanced":false,"_time":"yesterday"}`,
		"no stops field":  `{"_name":"b","_trip":{"_start":null,"_end":null},"_isAdvanced":false}`,
	}
	for name, data := range cases {
		t.Run(name, func(t *testing.T) {
			b, err := DecodeBooking(data)
			assert.ErrorIs(t, err, types.ErrDecode)
			assert.Nil(t, b)
		})
	}
}

func TestDecodeBooking_BrowserRecord(t *testing.T) {
	data := `{
		"_name":"Booking 2",
		"_trip":{
			"_start":{"name":"Sunway Pyramid","address":"Bandar Sunway","coordinates":[101.6076,3.0728]},
			"_end":{"name":"Sunway Medical Centre","address":"Jalan Lagoon Selatan","coordinates":[101.6086,3.0661]},
			"_intermediate":[]
		},
		"_bookingTime":"2021-05-20T03:04:05.123Z",
		"_time":"2021-05-20T03:04:05.123Z",
		"_taxi":{"_name":"Car","_index":4,"_rego":"WXY 1234"},
		"_isAdvanced":false
	}`
	b, err := DecodeBooking(data)
	require.NoError(t, err)
	assert.Equal(t, 4, b.Taxi.Index)
	assert.Equal(t, 2021, b.CreatedAt.Year())
	assert.InDelta(t, 0.753, b.Trip.DistanceKm(), 0.01)
}

func TestLedgerRoundTrip(t *testing.T) {
	l := booking.NewLedger(nil)
	base := time.Date(2026, 4, 20, 9, 0, 0, 0, time.UTC)
	for i, name := range []string{"a", "b", "c"} {
		d := booking.NewDraft(name)
		require.NoError(t, d.Trip.SetEndpoint(pyramid, trip.Start))
		require.NoError(t, d.Trip.SetEndpoint(medical, trip.End))
		d.AssignTaxi(taxi.Unit{Class: pricing.Car, Registration: name, Index: i})
		l.Add(d, base.Add(time.Duration(i)*time.Hour))
	}

	data, err := EncodeLedger(l)
	require.NoError(t, err)
	got, err := DecodeLedger(data)
	require.NoError(t, err)
	require.Equal(t, 3, got.Len())
	for i, b := range got.Bookings() {
		want := l.Bookings()[i]
		assert.Equal(t, want.Name, b.Name)
		assert.True(t, want.CreatedAt.Equal(b.CreatedAt))
		require.NotNil(t, b.ScheduledAt)
		assert.True(t, want.ScheduledAt.Equal(*b.ScheduledAt))
	}
}

func TestDecodeLedger_Rejects(t *testing.T) {
	entry := func(name, at string) string {
		return `{"_name":"` + name + `","_trip":{"_start":null,"_end":null,"_intermediate":[]},"_bookingTime":` + at + `,"_time":` + at + `,"_taxi":null,"_isAdvanced":false}`
	}
	cases := map[string]string{
		"missing bookings":       `{}`,
		"unconfirmed":            `{"_bookings":[` + entry("a", "null") + `]}`,
		"out of order":           `{"_bookings":[` + entry("a", `"2026-01-01T00:00:00Z"`) + `,` + entry("b", `"2026-01-02T00:00:00Z"`) + `]}`,
		"confirmed without time": `{"_bookings":[{"_name":"a","_trip":{"_start":null,"_end":null,"_intermediate":[]},"_bookingTime":"2026-01-01T00:00:00Z","_time":null,"_taxi":null,"_isAdvanced":false}]}`,
		"bad entry":              `{"_bookings":[{"_name":"a"}]}`,
	}
	for name, data := range cases {
		t.Run(name, func(t *testing.T) {
			l, err := DecodeLedger(data)
			assert.ErrorIs(t, err, types.ErrDecode)
			assert.Nil(t, l)
		})
	}

	l, err := DecodeLedger(`{"_bookings":[]}`)
	require.NoError(t, err)
	assert.Equal(t, 0, l.Len())
}

func TestInventoryRoundTrip(t *testing.T) {
	inv := taxi.NewInventory(taxi.DefaultFleet())
	_, err := inv.Allocate(pricing.Van)
	require.NoError(t, err)

	data, err := EncodeInventory(inv)
	require.NoError(t, err)
	got, err := DecodeInventory(data)
	require.NoError(t, err)
	assert.Equal(t, inv.Units(), got.Units())

	_, err = EncodeInventory(taxi.NewInventory([]taxi.Unit{{Class: pricing.Car, Available: true}}))
	assert.ErrorIs(t, err, types.ErrValidation)
}

func TestDecodeInventory_Rejects(t *testing.T) {
	for _, data := range []string{
		`null`,
		`{"type":"Car"}`,
		`[{"type":"Car","rego":"A"}]`,
		`[{"type":"Boat","rego":"A","available":true}]`,
		`[{"type":"Car","rego":"","available":true}]`,
		`[{"type":"Car","rego":"  ","available":false}]`,
	} {
		inv, err := DecodeInventory(data)
		assert.ErrorIs(t, err, types.ErrDecode, data)
		assert.Nil(t, inv)
	}
}

func TestUnitAndTripRoundTrip(t *testing.T) {
	u := taxi.Unit{Class: pricing.SUV, Registration: "VBA 5502", Index: 2}
	data, err := EncodeUnit(u)
	require.NoError(t, err)
	got, err := DecodeUnit(data)
	require.NoError(t, err)
	assert.Equal(t, u, got)

	_, err = EncodeUnit(taxi.Unit{})
	assert.ErrorIs(t, err, types.ErrValidation)

	var tr trip.Trip
	require.NoError(t, tr.SetEndpoint(medical, trip.End))
	require.NoError(t, tr.AddIntermediate(uni))
	data, err = EncodeTrip(&tr)
	require.NoError(t, err)
	back, err := DecodeTrip(data)
	require.NoError(t, err)
	assert.Equal(t, tr.Stops(), back.Stops())
}

func TestScalars(t *testing.T) {
	i, err := DecodeIndex(EncodeIndex(5))
	require.NoError(t, err)
	assert.Equal(t, 5, i)
	_, err = DecodeIndex("-1")
	assert.ErrorIs(t, err, types.ErrDecode)
	_, err = DecodeIndex(`"x"`)
	assert.ErrorIs(t, err, types.ErrDecode)

	n, err := EncodeNotice(`Booking "1"`)
	require.NoError(t, err)
	s, err := DecodeNotice(n)
	require.NoError(t, err)
	assert.Equal(t, `Booking "1"`, s)
	_, err = DecodeNotice("null")
	assert.ErrorIs(t, err, types.ErrDecode)
}
