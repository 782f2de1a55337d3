// internal/money/money.go
//
// Monetary values are exact decimals, never floats. The backend exchanges
// them as bare JSON numbers, so Amount marshals without quotes.

package money

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Amount is an exact decimal amount of money.
type Amount struct {
	dec decimal.Decimal
}

// Zero is the zero amount.
var Zero = Amount{}

// New builds an Amount from an untruncated decimal value.
func New(d decimal.Decimal) Amount {
	return Amount{dec: d}
}

// Parse converts user input like "12.50" or "-3" into an Amount.
func Parse(s string) (Amount, error) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return Amount{}, fmt.Errorf("money: empty amount")
	}
	d, err := decimal.NewFromString(trimmed)
	if err != nil {
		return Amount{}, fmt.Errorf("money: parse %q: %w", trimmed, err)
	}
	return Amount{dec: d}, nil
}

// Decimal exposes the underlying decimal value.
func (a Amount) Decimal() decimal.Decimal { return a.dec }

// Positive reports whether the amount is strictly greater than zero.
func (a Amount) Positive() bool { return a.dec.IsPositive() }

// IsZero reports whether the amount is exactly zero.
func (a Amount) IsZero() bool { return a.dec.IsZero() }

// Add returns a + b.
func (a Amount) Add(b Amount) Amount { return Amount{dec: a.dec.Add(b.dec)} }

// String renders the bare decimal value.
func (a Amount) String() string { return a.dec.String() }

// Format renders the amount with two decimal places and a currency code,
// e.g. "12.50 USD". An empty currency yields just the number.
func (a Amount) Format(currency string) string {
	fixed := a.dec.StringFixed(2)
	currency = strings.TrimSpace(currency)
	if currency == "" {
		return fixed
	}
	return fixed + " " + currency
}

// MarshalJSON emits the amount as an unquoted JSON number.
func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(a.dec.String()), nil
}

// UnmarshalJSON accepts both quoted and bare numbers.
func (a *Amount) UnmarshalJSON(data []byte) error {
	s := strings.Trim(strings.TrimSpace(string(data)), `"`)
	if s == "" || s == "null" {
		a.dec = decimal.Decimal{}
		return nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return fmt.Errorf("money: unmarshal %q: %w", s, err)
	}
	a.dec = d
	return nil
}
