package contract

import (
	"math/big"
	"strings"

	kiterr "github.com/mrz1836/ethkit/pkg/errors"
)

// GasSpeed scales a node-suggested gas price.
type GasSpeed string

// Gas speeds.
const (
	GasSpeedSlow   GasSpeed = "slow"
	GasSpeedMedium GasSpeed = "medium"
	GasSpeedFast   GasSpeed = "fast"
)

// ParseGasSpeed parses slow, medium or fast. An empty string is medium.
func ParseGasSpeed(s string) (GasSpeed, error) {
	switch GasSpeed(strings.ToLower(strings.TrimSpace(s))) {
	case GasSpeedSlow:
		return GasSpeedSlow, nil
	case "", GasSpeedMedium:
		return GasSpeedMedium, nil
	case GasSpeedFast:
		return GasSpeedFast, nil
	default:
		return "", kiterr.WithDetails(kiterr.ErrInvalidInput, map[string]string{
			"speed":   s,
			"allowed": "slow, medium, or fast",
		})
	}
}

// percent is the share of the suggested price each speed pays.
func (s GasSpeed) percent() int64 {
	switch s {
	case GasSpeedSlow:
		return 80
	case GasSpeedFast:
		return 120
	default:
		return 100
	}
}

// Apply returns price scaled for the speed, rounded down. price is not modified.
func (s GasSpeed) Apply(price *big.Int) *big.Int {
	if price == nil {
		return new(big.Int)
	}
	scaled := new(big.Int).Mul(price, big.NewInt(s.percent()))
	return scaled.Quo(scaled, big.NewInt(100))
}
