// Package codec converts the booking domain to and from the textual records kept
// in the key-value store. Every Decode either returns a fully validated entity
// or an error wrapping types.ErrDecode.
package codec

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"taxibook/internal/modules/booking"
	"taxibook/internal/modules/location"
	"taxibook/internal/modules/pricing"
	"taxibook/internal/modules/taxi"
	"taxibook/internal/modules/trip"
	"taxibook/internal/types"
)

func decodeErr(entity string, format string, args ...any) error {
	return fmt.Errorf("%w: %s: %s", types.ErrDecode, entity, fmt.Sprintf(format, args...))
}

func unmarshal(entity, data string, v any) error {
	if strings.TrimSpace(data) == "" {
		return decodeErr(entity, "empty record")
	}
	if err := json.Unmarshal([]byte(data), v); err != nil {
		return decodeErr(entity, "%v", err)
	}
	return nil
}

func marshal(v any) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// ---------------------------------------------------------------------------
// Trip
// ---------------------------------------------------------------------------

func toLocationRecord(l location.Location) locationRecord {
	name, addr := l.Name, l.Address
	return locationRecord{Name: &name, Address: &addr, Coordinates: []float64{l.Coordinates.Lng, l.Coordinates.Lat}}
}

func fromLocationRecord(r *locationRecord) (location.Location, error) {
	if r.Name == nil || r.Address == nil {
		return location.Location{}, decodeErr("location", "missing name or address")
	}
	if len(r.Coordinates) != 2 {
		return location.Location{}, decodeErr("location", "coordinates must be [lng, lat]")
	}
	l, err := location.New(*r.Name, *r.Address, r.Coordinates[0], r.Coordinates[1])
	if err != nil {
		return location.Location{}, decodeErr("location", "%v", err)
	}
	return l, nil
}

func toTripRecord(t *trip.Trip) tripRecord {
	var r tripRecord
	if s, ok := t.Endpoint(trip.Start); ok {
		rec := toLocationRecord(s)
		r.Start = &rec
	}
	if e, ok := t.Endpoint(trip.End); ok {
		rec := toLocationRecord(e)
		r.End = &rec
	}
	stops := make([]locationRecord, 0)
	for _, l := range t.Intermediate() {
		stops = append(stops, toLocationRecord(l))
	}
	r.Intermediate = &stops
	return r
}

func fromTripRecord(r *tripRecord) (trip.Trip, error) {
	var t trip.Trip
	if r.Intermediate == nil {
		return trip.Trip{}, decodeErr("trip", "missing _intermediate")
	}
	endpoints := []struct {
		which trip.Endpoint
		rec   *locationRecord
	}{{trip.Start, r.Start}, {trip.End, r.End}}
	for _, ep := range endpoints {
		if ep.rec == nil {
			continue
		}
		l, err := fromLocationRecord(ep.rec)
		if err != nil {
			return trip.Trip{}, err
		}
		if err := t.SetEndpoint(l, ep.which); err != nil {
			return trip.Trip{}, decodeErr("trip", "%v", err)
		}
	}
	for i := range *r.Intermediate {
		l, err := fromLocationRecord(&(*r.Intermediate)[i])
		if err != nil {
			return trip.Trip{}, err
		}
		if err := t.AddIntermediate(l); err != nil {
			return trip.Trip{}, decodeErr("trip", "%v", err)
		}
	}
	return t, nil
}

func EncodeTrip(t *trip.Trip) (string, error) {
	return marshal(toTripRecord(t))
}

func DecodeTrip(data string) (trip.Trip, error) {
	var r tripRecord
	if err := unmarshal("trip", data, &r); err != nil {
		return trip.Trip{}, err
	}
	return fromTripRecord(&r)
}

// ---------------------------------------------------------------------------
// Taxi unit (booking copy)
// ---------------------------------------------------------------------------

func toUnitRecord(u taxi.Unit) unitRecord {
	name, rego := u.Class.String(), u.Registration
	r := unitRecord{Name: &name, Rego: &rego}
	if u.Index >= 0 {
		idx := u.Index
		r.Index = &idx
	}
	return r
}

func fromUnitRecord(r *unitRecord) (taxi.Unit, error) {
	if r.Name == nil {
		return taxi.Unit{}, decodeErr("taxi", "missing _name")
	}
	class, err := pricing.ParseClass(*r.Name)
	if err != nil {
		return taxi.Unit{}, decodeErr("taxi", "%v", err)
	}
	u := taxi.Unit{Class: class, Index: -1}
	if r.Rego != nil {
		u.Registration = *r.Rego
	}
	if r.Index != nil {
		if *r.Index < 0 {
			return taxi.Unit{}, decodeErr("taxi", "negative _index %d", *r.Index)
		}
		u.Index = *r.Index
	}
	return u, nil
}

func EncodeUnit(u taxi.Unit) (string, error) {
	if !u.Class.Valid() {
		return "", fmt.Errorf("%w: unknown taxi class %d", types.ErrValidation, uint8(u.Class))
	}
	return marshal(toUnitRecord(u))
}

func DecodeUnit(data string) (taxi.Unit, error) {
	var r unitRecord
	if err := unmarshal("taxi", data, &r); err != nil {
		return taxi.Unit{}, err
	}
	return fromUnitRecord(&r)
}

// ---------------------------------------------------------------------------
// Booking
// ---------------------------------------------------------------------------

func toBookingRecord(b *booking.Booking) (bookingRecord, error) {
	name, advance := b.Name, b.IsAdvance
	tr := toTripRecord(&b.Trip)
	r := bookingRecord{Name: &name, Trip: &tr, IsAdvanced: &advance}
	if b.Taxi != nil {
		if !b.Taxi.Class.Valid() {
			return bookingRecord{}, fmt.Errorf("%w: unknown taxi class %d", types.ErrValidation, uint8(b.Taxi.Class))
		}
		u := toUnitRecord(*b.Taxi)
		r.Taxi = &u
	}
	if b.Confirmed() {
		created := b.CreatedAt
		r.BookingTime = &created
	}
	if b.ScheduledAt != nil {
		at := *b.ScheduledAt
		r.Time = &at
	}
	return r, nil
}

func fromBookingRecord(r *bookingRecord) (*booking.Booking, error) {
	if r.Name == nil {
		return nil, decodeErr("booking", "missing _name")
	}
	if r.Trip == nil {
		return nil, decodeErr("booking", "missing _trip")
	}
	if r.IsAdvanced == nil {
		return nil, decodeErr("booking", "missing _isAdvanced")
	}
	t, err := fromTripRecord(r.Trip)
	if err != nil {
		return nil, err
	}
	b := &booking.Booking{Name: *r.Name, Trip: t, IsAdvance: *r.IsAdvanced}
	if r.Taxi != nil {
		u, err := fromUnitRecord(r.Taxi)
		if err != nil {
			return nil, err
		}
		b.Taxi = &u
	}
	if r.BookingTime != nil {
		b.CreatedAt = *r.BookingTime
	}
	if r.Time != nil {
		at := *r.Time
		b.ScheduledAt = &at
	}
	return b, nil
}

func EncodeBooking(b *booking.Booking) (string, error) {
	r, err := toBookingRecord(b)
	if err != nil {
		return "", err
	}
	return marshal(r)
}

func DecodeBooking(data string) (*booking.Booking, error) {
	var r bookingRecord
	if err := unmarshal("booking", data, &r); err != nil {
		return nil, err
	}
	return fromBookingRecord(&r)
}

// ---------------------------------------------------------------------------
// Ledger
// ---------------------------------------------------------------------------

func EncodeLedger(l *booking.Ledger) (string, error) {
	bookings := l.Bookings()
	records := make([]bookingRecord, 0, len(bookings))
	for _, b := range bookings {
		r, err := toBookingRecord(b)
		if err != nil {
			return "", err
		}
		records = append(records, r)
	}
	return marshal(ledgerRecord{Bookings: &records})
}

// DecodeLedger requires every entry to be confirmed and the entries to be
// ordered newest first.
func DecodeLedger(data string) (*booking.Ledger, error) {
	var r ledgerRecord
	if err := unmarshal("ledger", data, &r); err != nil {
		return nil, err
	}
	if r.Bookings == nil {
		return nil, decodeErr("ledger", "missing _bookings")
	}
	bookings := make([]*booking.Booking, 0, len(*r.Bookings))
	for i := range *r.Bookings {
		b, err := fromBookingRecord(&(*r.Bookings)[i])
		if err != nil {
			return nil, err
		}
		if !b.Confirmed() {
			return nil, decodeErr("ledger", "entry %d has no _bookingTime", i)
		}
		if b.ScheduledAt == nil {
			return nil, decodeErr("ledger", "entry %d has no _time", i)
		}
		if i > 0 && b.CreatedAt.After(bookings[i-1].CreatedAt) {
			return nil, decodeErr("ledger", "entry %d is newer than entry %d", i, i-1)
		}
		bookings = append(bookings, b)
	}
	return booking.NewLedger(bookings), nil
}

// ---------------------------------------------------------------------------
// Inventory
// ---------------------------------------------------------------------------

func EncodeInventory(inv *taxi.Inventory) (string, error) {
	units := inv.Units()
	records := make([]inventoryRecord, 0, len(units))
	for _, u := range units {
		if !u.Class.Valid() {
			return "", fmt.Errorf("%w: unknown taxi class %d", types.ErrValidation, uint8(u.Class))
		}
		if strings.TrimSpace(u.Registration) == "" {
			return "", fmt.Errorf("%w: unit %d has no registration", types.ErrValidation, u.Index)
		}
		class, rego, avail := u.Class.String(), u.Registration, u.Available
		records = append(records, inventoryRecord{Type: &class, Rego: &rego, Available: &avail})
	}
	return marshal(records)
}

func DecodeInventory(data string) (*taxi.Inventory, error) {
	var records []inventoryRecord
	if err := unmarshal("inventory", data, &records); err != nil {
		return nil, err
	}
	if records == nil {
		return nil, decodeErr("inventory", "not a list")
	}
	units := make([]taxi.Unit, 0, len(records))
	for i, r := range records {
		if r.Type == nil || r.Rego == nil || r.Available == nil {
			return nil, decodeErr("inventory", "unit %d is missing type, rego or available", i)
		}
		class, err := pricing.ParseClass(*r.Type)
		if err != nil {
			return nil, decodeErr("inventory", "unit %d: %v", i, err)
		}
		if strings.TrimSpace(*r.Rego) == "" {
			return nil, decodeErr("inventory", "unit %d has a blank rego", i)
		}
		units = append(units, taxi.Unit{Class: class, Registration: *r.Rego, Available: *r.Available, Index: i})
	}
	return taxi.NewInventory(units), nil
}

// ---------------------------------------------------------------------------
// Scalars
// ---------------------------------------------------------------------------

// EncodeIndex stores the last viewed ledger index.
func EncodeIndex(i int) string {
	return strconv.Itoa(i)
}

func DecodeIndex(data string) (int, error) {
	var i int
	if err := unmarshal("index", data, &i); err != nil {
		return 0, err
	}
	if i < 0 {
		return 0, decodeErr("index", "negative index %d", i)
	}
	return i, nil
}

// EncodeNotice stores a short text such as the name of a deleted booking.
func EncodeNotice(s string) (string, error) {
	return marshal(s)
}

func DecodeNotice(data string) (string, error) {
	var s *string
	if err := unmarshal("notice", data, &s); err != nil {
		return "", err
	}
	if s == nil {
		return "", decodeErr("notice", "null notice")
	}
	return *s, nil
}
