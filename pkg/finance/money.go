// Package finance provides the monetary primitives for earned-value
// reporting. All amounts in the system are pre-normalized to a single
// currency before they reach this module, so Money carries no currency
// code; it uses integer math (minor units) to avoid floating point errors.
package finance

import (
	"fmt"
	"math"
	"strconv"
)

// Scale is the number of minor-unit digits (2 for cent-based currencies).
const Scale = 2

// Money is a monetary amount in minor units (e.g. centavos).
type Money int64

// FromUnits converts a major-unit amount (e.g. 700.50) to Money,
// rounding half away from zero.
func FromUnits(units float64) Money {
	return Money(math.Round(units * 100))
}

// Units returns the amount in major units.
func (m Money) Units() float64 {
	return float64(m) / 100
}

// IsZero returns true if the amount is 0.
func (m Money) IsZero() bool { return m == 0 }

// IsNegative returns true if the amount is < 0.
func (m Money) IsNegative() bool { return m < 0 }

// Min returns the smaller of m and other.
func (m Money) Min(other Money) Money {
	if other < m {
		return other
	}
	return m
}

// SplitDays divides m evenly over n calendar days. Every day receives
// m/n truncated toward zero and the final day absorbs the remainder, so
// the parts always sum back to m exactly. Returns nil when n <= 0.
func (m Money) SplitDays(n int) []Money {
	if n <= 0 {
		return nil
	}
	per := int64(m) / int64(n)
	parts := make([]Money, n)
	for i := range parts {
		parts[i] = Money(per)
	}
	parts[n-1] += m - Money(per*int64(n))
	return parts
}

// Ratio returns m/other as a float, or false when other is zero.
// Callers must treat the false case as indeterminate, not as zero.
func (m Money) Ratio(other Money) (float64, bool) {
	if other == 0 {
		return 0, false
	}
	return float64(m) / float64(other), true
}

// String formats the amount in major units with two decimals.
func (m Money) String() string {
	return strconv.FormatFloat(m.Units(), 'f', Scale, 64)
}

// MarshalJSON serializes the amount as a plain JSON number in major
// units (the wire contract uses numbers, not minor-unit integers).
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalJSON accepts a JSON number in major units.
func (m *Money) UnmarshalJSON(data []byte) error {
	units, err := strconv.ParseFloat(string(data), 64)
	if err != nil {
		return fmt.Errorf("money: invalid amount %q: %w", string(data), err)
	}
	*m = FromUnits(units)
	return nil
}
