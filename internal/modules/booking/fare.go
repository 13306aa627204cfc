// README: Fare of a booking, for its assigned taxi or any previewed class.
package booking

import (
	"time"

	"taxibook/internal/modules/pricing"
)

// Fare is the pure fare formula over already-resolved inputs.
func Fare(distanceKm float64, class pricing.Class, advance bool, effective time.Time) (float64, error) {
	res, err := pricing.Estimate(pricing.PricingRequest{
		DistanceKm:    distanceKm,
		Class:         class,
		Advance:       advance,
		EffectiveTime: effective,
	})
	if err != nil {
		return 0, err
	}
	return res.Total, nil
}

// Fare prices the booking with its assigned taxi.
func (b *Booking) Fare(now time.Time) (float64, error) {
	class, ok := b.Class()
	if !ok {
		return 0, ErrTaxiUnassigned
	}
	return b.FareFor(class, now)
}

// FareFor previews the fare of the booking as if it used class.
func (b *Booking) FareFor(class pricing.Class, now time.Time) (float64, error) {
	at, err := b.EffectiveTime(now)
	if err != nil {
		return 0, err
	}
	return Fare(b.Trip.DistanceKm(), class, b.IsAdvance, at)
}

// Breakdown itemises the fare of the assigned taxi.
func (b *Booking) Breakdown(now time.Time) (pricing.PricingResult, error) {
	class, ok := b.Class()
	if !ok {
		return pricing.PricingResult{}, ErrTaxiUnassigned
	}
	at, err := b.EffectiveTime(now)
	if err != nil {
		return pricing.PricingResult{}, err
	}
	return pricing.Estimate(pricing.PricingRequest{
		DistanceKm:    b.Trip.DistanceKm(),
		Class:         class,
		Advance:       b.IsAdvance,
		EffectiveTime: at,
	})
}

type Quote struct {
	Class pricing.Class `json:"class"`
	Fare  float64       `json:"fare"`
}

// Quotes previews the fare for every class, in class order.
func (b *Booking) Quotes(now time.Time) ([]Quote, error) {
	out := make([]Quote, 0, len(pricing.Classes()))
	for _, c := range pricing.Classes() {
		f, err := b.FareFor(c, now)
		if err != nil {
			return nil, err
		}
		out = append(out, Quote{Class: c, Fare: f})
	}
	return out, nil
}
