// README: Fare calculation: flag + levy + distance, advance surcharge, night multiplier.
package pricing

import "time"

// Estimate prices a request. Only an invalid class fails.
func Estimate(req PricingRequest) (PricingResult, error) {
	rate, err := RateFor(req.Class)
	if err != nil {
		return PricingResult{}, err
	}

	breakdown := map[string]float64{
		"flag":     rate.FlagRate,
		"levy":     rate.Levy,
		"distance": req.DistanceKm * rate.PerKm,
	}
	total := rate.FlagRate + rate.Levy + req.DistanceKm*rate.PerKm
	if req.Advance {
		breakdown["advance"] = rate.AdvanceSurcharge
		total += rate.AdvanceSurcharge
	}
	if IsNight(req.EffectiveTime) {
		breakdown["night"] = total * (rate.NightMultiplier - 1)
		total *= rate.NightMultiplier
	}

	return PricingResult{Total: total, Currency: Currency, Breakdown: breakdown}, nil
}

// IsNight reports whether t falls in the night window.
func IsNight(t time.Time) bool {
	h := t.Hour()
	return h >= NightStartHour && h <= NightEndHour
}
