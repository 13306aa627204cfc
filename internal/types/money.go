// README: Common money value object used across modules.
package types

import "math"

type Money struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

// MoneyFromFloat converts a fare in major units to minor units, rounding half away from zero.
func MoneyFromFloat(v float64, currency string) Money {
	return Money{Amount: int64(math.Round(v * 100)), Currency: currency}
}

func (m Money) Float() float64 {
	return float64(m.Amount) / 100
}
