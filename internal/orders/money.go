package orders

import (
	"github.com/shopspring/decimal"
)

// Money is a decimal amount stored in order records as a bare JSON number
// with exactly two fraction digits, e.g. 33.00.
type Money struct {
	decimal.Decimal
}

// NewMoney rounds d half away from zero to cents.
func NewMoney(d decimal.Decimal) Money {
	return Money{d.Round(2)}
}

func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(m.StringFixed(2)), nil
}

// UnmarshalJSON accepts numbers and quoted numbers.
func (m *Money) UnmarshalJSON(data []byte) error {
	return m.Decimal.UnmarshalJSON(data)
}

func (m Money) Equal(other Money) bool {
	return m.Decimal.Equal(other.Decimal)
}

// LineTotal is price × quantity rounded to cents.
func LineTotal(price decimal.Decimal, quantity int) Money {
	return NewMoney(price.Mul(decimal.NewFromInt(int64(quantity))))
}

// SumLines adds the already rounded line totals.
func SumLines(lines []Line) Money {
	total := decimal.Zero
	for _, line := range lines {
		total = total.Add(line.LineTotal.Decimal)
	}
	return NewMoney(total)
}
