// Package money holds the fixed-point helpers used for every ledger amount.
//
// Amounts are shopspring decimals kept at two fractional digits. Rounding is
// decimal.Round, i.e. half away from zero (half-up for positive amounts), and is
// applied immediately after every division so fractional drift cannot accumulate.
package money

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Places is the number of fractional digits every amount is rounded to.
const Places = 2

var (
	// Cent is the smallest representable amount and the equality threshold.
	Cent = decimal.New(1, -Places)

	ErrInvalidAmount = errors.New("invalid amount")
)

// Round rounds d to two places, half away from zero.
func Round(d decimal.Decimal) decimal.Decimal {
	return d.Round(Places)
}

// Equal reports whether a and b differ by less than one cent.
func Equal(a, b decimal.Decimal) bool {
	return a.Sub(b).Abs().LessThan(Cent)
}

// IsZero reports whether d is within one cent of zero.
func IsZero(d decimal.Decimal) bool {
	return d.Abs().LessThan(Cent)
}

// Tolerance returns the aggregate drift allowed across n participants (n × 0.01).
func Tolerance(n int) decimal.Decimal {
	if n < 1 {
		n = 1
	}
	return Cent.Mul(decimal.NewFromInt(int64(n)))
}

// Share divides total equally among n people and rounds the result.
func Share(total decimal.Decimal, n int) (decimal.Decimal, error) {
	if n <= 0 {
		return decimal.Zero, fmt.Errorf("cannot split among %d participants", n)
	}
	return Round(total.Div(decimal.NewFromInt(int64(n)))), nil
}

// Sum adds the given amounts without rounding.
func Sum(amounts ...decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, a := range amounts {
		total = total.Add(a)
	}
	return total
}

// MaxAmount bounds the magnitude Parse accepts.
var MaxAmount = decimal.New(1, 12)

// maxInputLen bounds the text Parse will hand to the decimal parser.
const maxInputLen = 32

// Parse reads a user-entered amount. Both "12.34" and "12,34" are accepted; a
// comma is a decimal separator only when it is the sole separator and is
// followed by at most two digits. Exponent notation and amounts beyond
// MaxAmount are rejected. The result is rounded to two places.
func Parse(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, ErrInvalidAmount
	}
	if len(s) > maxInputLen || strings.ContainsAny(s, "eE") {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	if strings.Contains(s, ",") {
		whole, frac, _ := strings.Cut(s, ",")
		if strings.ContainsAny(frac, ",") || strings.Contains(s, ".") || len(frac) > Places {
			return decimal.Zero, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
		}
		s = whole + "." + frac
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	if d.Abs().GreaterThan(MaxAmount) {
		return decimal.Zero, fmt.Errorf("%w: %q exceeds %s", ErrInvalidAmount, s, MaxAmount)
	}
	return Round(d), nil
}

// Format renders d with exactly two fractional digits.
func Format(d decimal.Decimal) string {
	return d.StringFixed(Places)
}
