// README: JSON views of bookings, trips and taxis returned by the API.
package handlers

import (
	"time"

	"taxibook/internal/modules/booking"
	"taxibook/internal/modules/location"
	"taxibook/internal/modules/pricing"
	"taxibook/internal/modules/taxi"
	"taxibook/internal/modules/trip"
	"taxibook/internal/service"
	"taxibook/internal/types"
)

type tripView struct {
	Start      *location.Location  `json:"start,omitempty"`
	End        *location.Location  `json:"end,omitempty"`
	Stops      []location.Location `json:"stops"`
	NumStops   int                 `json:"num_stops"`
	DistanceKm float64             `json:"distance_km"`
	Centroid   *types.Point        `json:"centroid,omitempty"`
	Path       string              `json:"path,omitempty"`
}

func newTripView(t *trip.Trip) tripView {
	v := tripView{
		Stops:      t.Intermediate(),
		NumStops:   t.NumStops(),
		DistanceKm: t.DistanceKm(),
		Path:       t.EncodedPath(),
	}
	if s, ok := t.Endpoint(trip.Start); ok {
		v.Start = &s
	}
	if e, ok := t.Endpoint(trip.End); ok {
		v.End = &e
	}
	if c, err := t.Centroid(); err == nil {
		v.Centroid = &c
	}
	return v
}

type taxiView struct {
	Class        pricing.Class `json:"class"`
	Registration string        `json:"registration,omitempty"`
	Index        *int          `json:"index,omitempty"`
	Available    *bool         `json:"available,omitempty"`
	Logo         string        `json:"logo"`
}

func newTaxiView(u taxi.Unit) taxiView {
	v := taxiView{Class: u.Class, Registration: u.Registration, Logo: u.LogoPath()}
	if u.Index >= 0 {
		idx := u.Index
		v.Index = &idx
	}
	return v
}

func newInventoryView(u taxi.Unit) taxiView {
	v := newTaxiView(u)
	available := u.Available
	v.Available = &available
	return v
}

type bookingView struct {
	Index       *int               `json:"index,omitempty"`
	Name        string             `json:"name"`
	Trip        tripView           `json:"trip"`
	Taxi        *taxiView          `json:"taxi,omitempty"`
	IsAdvance   bool               `json:"is_advance"`
	BookedAt    *time.Time         `json:"booked_at,omitempty"`
	ScheduledAt *time.Time         `json:"scheduled_at,omitempty"`
	Status      booking.Status     `json:"status,omitempty"`
	Fare        *types.Money       `json:"fare,omitempty"`
	Breakdown   map[string]float64 `json:"breakdown,omitempty"`
}

// newBookingView renders b; the fare is omitted while it cannot be priced
// (no class chosen, or an advance booking without a time).
func newBookingView(b *booking.Booking, index *int, now time.Time) bookingView {
	v := bookingView{
		Index:       index,
		Name:        b.Name,
		Trip:        newTripView(&b.Trip),
		IsAdvance:   b.IsAdvance,
		ScheduledAt: b.ScheduledAt,
	}
	if b.Taxi != nil {
		tv := newTaxiView(*b.Taxi)
		v.Taxi = &tv
	}
	if b.Confirmed() {
		at := b.CreatedAt
		v.BookedAt = &at
	}
	if status, ok := b.Status(now); ok {
		v.Status = status
	}
	if res, err := b.Breakdown(now); err == nil {
		fare := types.MoneyFromFloat(res.Total, res.Currency)
		v.Fare = &fare
		v.Breakdown = res.Breakdown
	}
	return v
}

type quoteView struct {
	Class     pricing.Class `json:"class"`
	Fare      types.Money   `json:"fare"`
	Logo      string        `json:"logo"`
	Available int           `json:"available"`
}

// newQuoteViews keeps only classes with a free unit and reports whether any
// class had one.
func newQuoteViews(offers []service.Offer) ([]quoteView, bool) {
	out := make([]quoteView, 0, len(offers))
	for _, o := range offers {
		if o.Available == 0 {
			continue
		}
		out = append(out, quoteView{
			Class:     o.Class,
			Fare:      types.MoneyFromFloat(o.Fare, pricing.Currency),
			Logo:      taxi.Unit{Class: o.Class}.LogoPath(),
			Available: o.Available,
		})
	}
	return out, len(out) > 0
}
