package money

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// BpsDenominator is the scaling factor for basis point math. Multipliers and
// discounts are stored as integer basis points (10000 = 1.0x / 100%).
const BpsDenominator = 10000

// Cents is a currency amount in integer cents. All persisted amounts use this
// representation; decimals only appear at the API boundary and in reports.
type Cents int64

// FromDecimal converts a decimal currency amount to cents, rounding half up
// to cent precision.
func FromDecimal(d decimal.Decimal) Cents {
	return Cents(d.Shift(2).Round(0).IntPart())
}

// FromFloat converts an API-supplied currency amount to cents. Amounts with
// sub-cent precision are rejected rather than silently truncated.
func FromFloat(f float64) (Cents, error) {
	d := decimal.NewFromFloat(f)
	shifted := d.Shift(2)
	if !shifted.Equal(shifted.Round(0)) {
		return 0, fmt.Errorf("amount %v has sub-cent precision", f)
	}
	return Cents(shifted.IntPart()), nil
}

// Decimal returns the amount as a decimal number of currency units.
func (c Cents) Decimal() decimal.Decimal {
	return decimal.New(int64(c), -2)
}

// Float64 returns the amount as float currency units for JSON responses.
func (c Cents) Float64() float64 {
	f, _ := c.Decimal().Float64()
	return f
}

func (c Cents) String() string {
	return c.Decimal().StringFixed(2)
}

// ApplyBps scales an amount by a basis point factor, rounding half up.
// ApplyBps(1000, 9000) = 900.
func ApplyBps(c Cents, bps uint32) Cents {
	return FromDecimal(c.Decimal().Mul(decimal.New(int64(bps), 0)).Div(decimal.New(BpsDenominator, 0)))
}

// PointsForSpend computes loyalty points for a spend: one point per whole
// currency unit, scaled by the tier multiplier in basis points and truncated.
func PointsForSpend(spend Cents, multiplierBps uint32) int64 {
	if spend <= 0 {
		return 0
	}
	units := decimal.New(int64(spend), -2)
	return units.Mul(decimal.New(int64(multiplierBps), 0)).
		Div(decimal.New(BpsDenominator, 0)).IntPart()
}
