package amm

import (
	"errors"
	"fmt"
	"math"
	"math/big"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// ScaleDigits is the number of fractional digits kept by a scaled integer.
const ScaleDigits = 9

// maxIntegerDigits bounds the whole part a literal may expand to once its
// exponent is applied.
const maxIntegerDigits = 4096

var scale = new(big.Int).Exp(big.NewInt(10), big.NewInt(ScaleDigits), nil)

// Scale returns a copy of 10^ScaleDigits.
func Scale() *big.Int {
	return new(big.Int).Set(scale)
}

// ToScaled converts a decimal literal such as "12.5", "-0.001" or "1.5e-3"
// into an integer scaled by 10^9. Digits past the ninth fractional place are
// truncated toward zero, so anything smaller than 1e-9 becomes zero.
// The literal is handled as text; no floating point is involved.
func ToScaled(literal string) (*big.Int, error) {
	s := strings.TrimSpace(literal)
	if s == "" {
		return nil, fmt.Errorf("%w: empty amount", ErrInvalidDecimal)
	}

	negative := false
	switch s[0] {
	case '-':
		negative = true
		s = s[1:]
	case '+':
		s = s[1:]
	}

	mantissa, exp := s, 0
	if idx := strings.IndexAny(s, "eE"); idx != -1 {
		mantissa = s[:idx]
		e, err := strconv.Atoi(s[idx+1:])
		var numErr *strconv.NumError
		switch {
		case err == nil:
			exp = e
		case errors.As(err, &numErr) && errors.Is(numErr.Err, strconv.ErrRange) && strings.HasPrefix(s[idx+1:], "-"):
			// Far below the precision floor; the mantissa is still checked.
			exp = math.MinInt32
		case errors.As(err, &numErr) && errors.Is(numErr.Err, strconv.ErrRange):
			return nil, fmt.Errorf("%w: %q is out of range", ErrInvalidDecimal, literal)
		default:
			return nil, fmt.Errorf("%w: bad exponent in %q", ErrInvalidDecimal, literal)
		}
	}

	parts := strings.SplitN(mantissa, ".", 2)
	whole := parts[0]
	frac := ""
	if len(parts) == 2 {
		frac = parts[1]
	}
	if whole == "" && frac == "" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidDecimal, literal)
	}
	if !isDigits(whole) || !isDigits(frac) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidDecimal, literal)
	}

	// Move the decimal point by the exponent.
	digits := whole + frac
	if exp > maxIntegerDigits {
		return nil, fmt.Errorf("%w: %q is out of range", ErrInvalidDecimal, literal)
	}
	if exp < -(len(digits) + ScaleDigits) {
		return new(big.Int), nil
	}
	point := len(whole) + exp
	switch {
	case point <= -ScaleDigits:
		return new(big.Int), nil
	case point > maxIntegerDigits:
		return nil, fmt.Errorf("%w: %q is out of range", ErrInvalidDecimal, literal)
	case point <= 0:
		whole = ""
		frac = strings.Repeat("0", -point) + digits
	case point >= len(digits):
		whole = digits + strings.Repeat("0", point-len(digits))
		frac = ""
	default:
		whole = digits[:point]
		frac = digits[point:]
	}

	if len(frac) > ScaleDigits {
		frac = frac[:ScaleDigits]
	} else {
		frac += strings.Repeat("0", ScaleDigits-len(frac))
	}

	result, ok := new(big.Int).SetString(whole+frac, 10)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrInvalidDecimal, literal)
	}
	if negative {
		result.Neg(result)
	}
	return result, nil
}

// ToScaledDecimal converts d the same way ToScaled converts its literal form.
func ToScaledDecimal(d decimal.Decimal) (*big.Int, error) {
	return ToScaled(d.String())
}

// FromScaled converts a scaled integer back to a decimal. The conversion is
// exact.
func FromScaled(v *big.Int) decimal.Decimal {
	if v == nil {
		return decimal.Zero
	}
	return decimal.NewFromBigInt(v, -ScaleDigits)
}

func isDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
