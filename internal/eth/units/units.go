// Package units converts between wei and decimal denominations.
package units

import (
	"math/big"
	"strings"

	kiterr "github.com/mrz1836/ethkit/pkg/errors"
)

// Decimal places of the named denominations.
const (
	Wei   = 0
	Gwei  = 9
	Ether = 18
)

// suffixes are the accepted unit names, longest match first.
//
//nolint:gochecknoglobals // Read-only lookup table
var suffixes = []struct {
	name   string
	places int
}{
	{"ether", Ether},
	{"gwei", Gwei},
	{"eth", Ether},
	{"wei", Wei},
}

// Parse converts a decimal string to an integer scaled by places, so "1.5"
// with 18 places is 1500000000000000000. Digits beyond places are an error,
// not rounded.
func Parse(amount string, places int) (*big.Int, error) {
	intPart, fracPart, hasPoint := strings.Cut(amount, ".")
	if amount == "" || (hasPoint && intPart == "" && fracPart == "") {
		return nil, invalid(amount, "empty amount")
	}
	if !digits(intPart) || !digits(fracPart) {
		return nil, invalid(amount, "expected a non-negative decimal number")
	}

	fracPart = strings.TrimRight(fracPart, "0")
	if len(fracPart) > places {
		return nil, invalid(amount, "more fractional digits than the unit allows")
	}

	n, ok := new(big.Int).SetString(intPart+fracPart+strings.Repeat("0", places-len(fracPart)), 10)
	if !ok {
		return nil, invalid(amount, "expected a non-negative decimal number")
	}
	return n, nil
}

// ParseWithUnit parses amounts such as "20gwei", "1.5 ether" or "1000".
// A bare number is taken in wei.
func ParseWithUnit(s string) (*big.Int, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, u := range suffixes {
		if number, ok := strings.CutSuffix(s, u.name); ok {
			return Parse(strings.TrimSpace(number), u.places)
		}
	}
	return Parse(s, Wei)
}

// Format renders n scaled down by places, without trailing zeros.
func Format(n *big.Int, places int) string {
	if n == nil {
		return "0"
	}
	if n.Sign() < 0 {
		return "-" + Format(new(big.Int).Neg(n), places)
	}

	s := n.String()
	if places == 0 {
		return s
	}
	if len(s) <= places {
		s = strings.Repeat("0", places-len(s)+1) + s
	}

	intPart, fracPart := s[:len(s)-places], strings.TrimRight(s[len(s)-places:], "0")
	if fracPart == "" {
		return intPart
	}
	return intPart + "." + fracPart
}

func digits(s string) bool {
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

func invalid(amount, reason string) error {
	return kiterr.WithDetails(kiterr.ErrInvalidInput, map[string]string{
		"amount": amount,
		"reason": reason,
	})
}
