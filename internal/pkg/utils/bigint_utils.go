package utils

import (
	"math"
	"math/big"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// FormatUnits converts a base-unit amount to an exact decimal string with the given number of
// decimals. Trailing zeros are trimmed but at least one fractional digit is kept.
// Example: amount=1234500000000000000, decimals=18 => "1.2345"; amount=0 => "0.0".
func FormatUnits(amount *big.Int, decimals int32) string {
	if amount == nil {
		return "0.0"
	}
	s := decimal.NewFromBigInt(amount, -decimals).String()
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

// SharePercent returns part*100/whole as an exact decimal string, rounded to 18 places.
// A zero whole yields "0".
func SharePercent(part, whole *big.Int) string {
	if whole == nil || whole.Sign() == 0 || part == nil {
		return "0"
	}
	pct := decimal.NewFromBigInt(part, 2).DivRound(decimal.NewFromBigInt(whole, 0), 18)
	return pct.String()
}

// UnitsToFloat converts a base-unit amount to float64 through its exact decimal form.
func UnitsToFloat(amount *big.Int, decimals int32) float64 {
	f, err := strconv.ParseFloat(FormatUnits(amount, decimals), 64)
	if err != nil {
		return math.NaN()
	}
	return f
}

// FormatJSNumber prints a float64 the way a JavaScript Number is converted to a string:
// shortest round-trip digits, plain notation for 1e-6 <= |x| < 1e21, exponent notation otherwise.
func FormatJSNumber(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	case f == 0:
		return "0"
	}
	abs := math.Abs(f)
	if abs >= 1e-6 && abs < 1e21 {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	s := strconv.FormatFloat(f, 'e', -1, 64)
	// Go prints e-07 / e+21, JavaScript prints e-7 / e+21.
	mant, exp, _ := strings.Cut(s, "e")
	sign := exp[:1]
	digits := strings.TrimLeft(exp[1:], "0")
	if digits == "" {
		digits = "0"
	}
	return mant + "e" + sign + digits
}
