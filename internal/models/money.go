package models

import "math"

// Money is currency in minor units (cents). Database columns are
// NUMERIC(10,2); the repository converts on the way in and out.
type Money int64

// MoneyFromFloat creates Money from float64 dollars, rounding to nearest cent.
func MoneyFromFloat(f float64) Money {
	return Money(math.Round(f * 100.0))
}

// Float returns the amount in dollars.
func (m Money) Float() float64 { return float64(m) / 100.0 }
