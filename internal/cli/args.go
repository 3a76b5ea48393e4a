package cli

import (
	"fmt"
	"io"
	"math/big"
	"strconv"
	"strings"

	"github.com/mrz1836/ethkit/internal/eth/rpc"
	ethtypes "github.com/mrz1836/ethkit/internal/eth/types"
	"github.com/mrz1836/ethkit/internal/eth/units"
	kiterr "github.com/mrz1836/ethkit/pkg/errors"
)

// out is a helper for CLI output that ignores write errors (standard pattern for CLI tools).
//
//nolint:errcheck // CLI output writes to stdout are intentionally unchecked
func out(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, format, args...)
}

// outln is a helper for CLI output with newline.
//
//nolint:errcheck // CLI output writes to stdout are intentionally unchecked
func outln(w io.Writer, args ...any) {
	fmt.Fprintln(w, args...)
}

// parseAmount parses a flag holding a non-negative amount: 0x-hex wei, or a
// decimal with an optional wei, gwei or ether suffix. An empty value
// returns nil.
func parseAmount(flag, s string) (*big.Int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}

	var (
		n   *big.Int
		err error
	)
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		var ok bool
		if n, ok = new(big.Int).SetString(s[2:], 16); !ok {
			err = kiterr.ErrInvalidInput
		}
	} else {
		n, err = units.ParseWithUnit(s)
	}
	if err != nil {
		return nil, kiterr.WithDetails(kiterr.ErrInvalidInput, map[string]string{
			"flag":   "--" + flag,
			"value":  s,
			"reason": "expected 0x-hex wei or a decimal amount with an optional wei, gwei or ether suffix",
		})
	}
	return n, nil
}

// parseBlockTag accepts latest, earliest, pending or a block number.
func parseBlockTag(s string) (rpc.BlockTag, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", string(rpc.Latest):
		return rpc.Latest, nil
	case string(rpc.Earliest):
		return rpc.Earliest, nil
	case string(rpc.Pending):
		return rpc.Pending, nil
	}

	n, err := strconv.ParseUint(strings.TrimSpace(s), 0, 64)
	if err != nil {
		return "", kiterr.WithDetails(kiterr.ErrInvalidInput, map[string]string{
			"flag":   "--block",
			"value":  s,
			"reason": "expected latest, earliest, pending or a block number",
		})
	}
	return rpc.BlockNumber(n), nil
}

// parseAddressArg parses an address argument, enforcing EIP-55 when the
// input is mixed case.
func parseAddressArg(name, s string) (ethtypes.Address, error) {
	addr, err := ethtypes.ParseChecksumAddress(s)
	if err != nil {
		return ethtypes.Address{}, kiterr.WithDetails(err, map[string]string{name: s})
	}
	return addr, nil
}
