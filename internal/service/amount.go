package service

import (
	"fmt"
	"math"
	"math/big"
	"strings"

	"github.com/shopspring/decimal"
)

var maxUnits = decimal.NewFromBigInt(new(big.Int).SetUint64(math.MaxUint64), 0)

// ToBaseUnits converts a decimal amount such as "0.5" into the smallest unit
// of a coin with the given decimals. An empty amount is zero.
func ToBaseUnits(amount string, decimals int) (uint64, error) {
	s := strings.TrimSpace(amount)
	if s == "" {
		return 0, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("%w %q: not a number", ErrInvalidFee, amount)
	}
	if d.IsNegative() {
		return 0, fmt.Errorf("%w %q: negative", ErrInvalidFee, amount)
	}
	units := d.Shift(int32(decimals))
	if !units.IsInteger() {
		return 0, fmt.Errorf("%w %q: more than %d decimal places", ErrInvalidFee, amount, decimals)
	}
	if units.GreaterThan(maxUnits) {
		return 0, fmt.Errorf("%w %q: too large", ErrInvalidFee, amount)
	}
	return units.BigInt().Uint64(), nil
}

// FormatBaseUnits renders units back as a decimal amount without trailing
// zeros.
func FormatBaseUnits(units uint64, decimals int) string {
	return decimal.NewFromBigInt(new(big.Int).SetUint64(units), -int32(decimals)).String()
}
