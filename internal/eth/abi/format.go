package abi

import (
	"encoding/hex"
)

// Format converts v to plain Go values for display or JSON output: integers
// as decimal strings, addresses checksummed, bytes as 0x-hex and arrays and
// tuples as slices.
func Format(v Value) any {
	switch x := v.(type) {
	case Uint:
		return x.Big().String()
	case Int:
		return x.Big().String()
	case Bool:
		return bool(x)
	case Address:
		a, _ := AsAddress(x)
		return a.Checksum()
	case String:
		return string(x)
	case Bytes:
		return "0x" + hex.EncodeToString(x)
	case Array:
		return FormatAll(x.Elems)
	case Tuple:
		return FormatAll(x)
	default:
		return nil
	}
}

// FormatAll formats each value in vals.
func FormatAll(vals []Value) []any {
	out := make([]any, len(vals))
	for i, v := range vals {
		out[i] = Format(v)
	}
	return out
}
