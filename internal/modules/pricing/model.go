// README: Vehicle classes and the fixed pricing table every fare is computed from.
package pricing

import (
	"fmt"
	"time"

	"taxibook/internal/types"
)

// Class is a vehicle class. The zero value is not a class.
type Class uint8

const (
	Car Class = iota + 1
	SUV
	Van
	Minibus
)

const numClasses = 4

var classNames = [numClasses]string{"Car", "SUV", "Van", "Minibus"}

// levies is indexed by Class-1; its length is pinned to numClasses.
var levies = [numClasses]float64{0, 5, 10, 15}

const (
	FlagRate         = 3.0
	PerKmRate        = 0.1 * 1000 / 115
	AdvanceSurcharge = 2.0
	NightMultiplier  = 1.5
	// Night window, both hours inclusive.
	NightStartHour = 0
	NightEndHour   = 6
	Currency       = "MYR"
)

// Classes lists every class in declaration order.
func Classes() []Class {
	return []Class{Car, SUV, Van, Minibus}
}

func (c Class) Valid() bool {
	return c >= Car && c <= Minibus
}

func (c Class) String() string {
	if !c.Valid() {
		return fmt.Sprintf("Class(%d)", uint8(c))
	}
	return classNames[c-1]
}

func ParseClass(s string) (Class, error) {
	for i, name := range classNames {
		if name == s {
			return Class(i + 1), nil
		}
	}
	return 0, fmt.Errorf("%w: unknown taxi class %q", types.ErrValidation, s)
}

func (c Class) MarshalText() ([]byte, error) {
	if !c.Valid() {
		return nil, fmt.Errorf("%w: unknown taxi class %d", types.ErrValidation, uint8(c))
	}
	return []byte(c.String()), nil
}

func (c *Class) UnmarshalText(b []byte) error {
	v, err := ParseClass(string(b))
	if err != nil {
		return err
	}
	*c = v
	return nil
}

// Rate is the pricing row for one class.
type Rate struct {
	Class            Class
	FlagRate         float64
	PerKm            float64
	Levy             float64
	AdvanceSurcharge float64
	NightMultiplier  float64
}

// RateFor returns the rate row of a valid class.
func RateFor(c Class) (Rate, error) {
	if !c.Valid() {
		return Rate{}, fmt.Errorf("%w: unknown taxi class %d", types.ErrValidation, uint8(c))
	}
	return Rate{
		Class:            c,
		FlagRate:         FlagRate,
		PerKm:            PerKmRate,
		Levy:             levies[c-1],
		AdvanceSurcharge: AdvanceSurcharge,
		NightMultiplier:  NightMultiplier,
	}, nil
}

type PricingRequest struct {
	DistanceKm float64
	Class      Class
	Advance    bool
	// EffectiveTime is the scheduled time for advance bookings, otherwise now.
	// Its hour is read in its own location.
	EffectiveTime time.Time
}

type PricingResult struct {
	Total     float64
	Currency  string
	Breakdown map[string]float64
}
