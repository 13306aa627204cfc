// README: Physical taxi units; pricing comes from the class, not the unit.
package taxi

import (
	"fmt"

	"taxibook/internal/modules/pricing"
)

type Unit struct {
	Class        pricing.Class `json:"class"`
	Registration string        `json:"registration"`
	Available    bool          `json:"available"`
	Index        int           `json:"index"`
}

// LogoPath is the image the booking pages show for the unit's class.
func (u Unit) LogoPath() string {
	return fmt.Sprintf("img/%s.svg", u.Class)
}

// Alternative is the first available unit of a class other than the current one.
type Alternative struct {
	Class pricing.Class `json:"class"`
	Index int           `json:"index"`
}

// alternativeOrder is the order classes are offered when changing taxi.
var alternativeOrder = []pricing.Class{pricing.Car, pricing.Van, pricing.SUV, pricing.Minibus}

// DefaultFleet seeds the inventory the first time a store has none.
func DefaultFleet() []Unit {
	fleet := []struct {
		class pricing.Class
		rego  string
	}{
		{pricing.Car, "WXY 1234"},
		{pricing.Car, "BKT 8821"},
		{pricing.SUV, "VBA 5502"},
		{pricing.Van, "WTF 3390"},
		{pricing.Car, "PKN 7716"},
		{pricing.Minibus, "BMW 4410"},
		{pricing.SUV, "WQA 9087"},
		{pricing.Van, "JHB 2231"},
		{pricing.Minibus, "VCC 6654"},
		{pricing.Car, "BPE 1180"},
	}
	units := make([]Unit, len(fleet))
	for i, f := range fleet {
		units[i] = Unit{Class: f.class, Registration: f.rego, Available: true, Index: i}
	}
	return units
}
