// Package rlp implements RLP (Recursive Length Prefix) encoding, the serialization
// used for transaction signing digests and raw transaction bytes.
// See: https://ethereum.org/en/developers/docs/data-structures-and-encoding/rlp/
package rlp

import (
	"encoding/hex"
	"fmt"
	"math/big"
	"unicode/utf8"

	"github.com/holiman/uint256"

	kiterr "github.com/mrz1836/ethkit/pkg/errors"
)

const (
	stringOffset = 0x80
	listOffset   = 0xc0

	// maxShortLength is the longest payload that fits in a single prefix byte.
	maxShortLength = 55
)

// Encoder is implemented by types that produce their own RLP encoding.
type Encoder interface {
	EncodeRLP() ([]byte, error)
}

// RawValue is an already-encoded RLP item spliced into the output verbatim.
type RawValue []byte

// EmptyString is the encoding of the empty byte string, also used for integer zero.
var EmptyString = RawValue{stringOffset}

// Encode encodes a value to RLP format.
//
// Byte slices and strings encode as byte strings. Unsigned integers, big.Int and
// uint256.Int encode as minimal big-endian byte strings, with zero as the empty
// string. Slices ([]any, []string, [][]byte) encode as lists. Strings must be
// valid UTF-8 and integers must be non-negative.
func Encode(val any) ([]byte, error) {
	switch v := val.(type) {
	case Encoder:
		return v.EncodeRLP()
	case RawValue:
		return v, nil
	case []byte:
		return encodeBytes(v), nil
	case string:
		if !utf8.ValidString(v) {
			return nil, kiterr.WithDetails(kiterr.ErrIncompatibleToEncode, map[string]string{
				"reason": "string is not valid UTF-8",
			})
		}
		return encodeBytes([]byte(v)), nil
	case bool:
		if v {
			return []byte{0x01}, nil
		}
		return []byte{stringOffset}, nil
	case *big.Int:
		return encodeBigInt(v)
	case *uint256.Int:
		if v == nil || v.IsZero() {
			return []byte{stringOffset}, nil
		}
		return encodeBytes(v.Bytes()), nil
	case uint64:
		return encodeUint64(v), nil
	case uint:
		return encodeUint64(uint64(v)), nil
	case uint32:
		return encodeUint64(uint64(v)), nil
	case uint16:
		return encodeUint64(uint64(v)), nil
	case uint8:
		return encodeUint64(uint64(v)), nil
	case int64:
		return encodeInt64(v)
	case int:
		return encodeInt64(int64(v))
	case int32:
		return encodeInt64(int64(v))
	case []any:
		return encodeList(v)
	case []string:
		items := make([]any, len(v))
		for i, s := range v {
			items[i] = s
		}
		return encodeList(items)
	case [][]byte:
		items := make([]any, len(v))
		for i, b := range v {
			items[i] = b
		}
		return encodeList(items)
	case nil:
		return []byte{stringOffset}, nil
	default:
		return nil, kiterr.WithDetails(kiterr.ErrIncompatibleToEncode, map[string]string{
			"type": fmt.Sprintf("%T", val),
		})
	}
}

// EncodeToHex encodes a value and returns the 0x-prefixed hex string.
func EncodeToHex(val any) (string, error) {
	b, err := Encode(val)
	if err != nil {
		return "", err
	}
	return "0x" + hex.EncodeToString(b), nil
}

// EncodeList encodes the given items as a single RLP list.
func EncodeList(items ...any) ([]byte, error) {
	return encodeList(items)
}

// encodeBytes encodes a byte slice.
// - For a single byte in [0x00, 0x7f], the byte is its own RLP encoding.
// - For 0-55 bytes, prefix with (0x80 + length).
// - For >55 bytes, prefix with (0xb7 + length of length) followed by length.
func encodeBytes(b []byte) []byte {
	if len(b) == 1 && b[0] < stringOffset {
		return []byte{b[0]}
	}
	return concat(encodeLength(len(b), stringOffset), b)
}

func encodeBigInt(i *big.Int) ([]byte, error) {
	if i == nil || i.Sign() == 0 {
		return []byte{stringOffset}, nil
	}
	if i.Sign() < 0 {
		return nil, kiterr.WithDetails(kiterr.ErrIncompatibleToEncode, map[string]string{
			"reason": "negative integer",
		})
	}
	return encodeBytes(i.Bytes()), nil
}

func encodeInt64(i int64) ([]byte, error) {
	if i < 0 {
		return nil, kiterr.WithDetails(kiterr.ErrIncompatibleToEncode, map[string]string{
			"reason": "negative integer",
		})
	}
	return encodeUint64(uint64(i)), nil
}

func encodeUint64(i uint64) []byte {
	if i == 0 {
		return []byte{stringOffset}
	}
	return encodeBytes(bigEndianBytes(i))
}

// encodeList encodes a list of items.
// - For 0-55 total bytes, prefix with (0xc0 + length).
// - For >55 bytes, prefix with (0xf7 + length of length) followed by length.
func encodeList(items []any) ([]byte, error) {
	encodedItems := make([][]byte, len(items))
	totalLen := 0
	for i, item := range items {
		enc, err := Encode(item)
		if err != nil {
			return nil, err
		}
		encodedItems[i] = enc
		totalLen += len(enc)
	}

	content := make([]byte, 0, totalLen)
	for _, encoded := range encodedItems {
		content = append(content, encoded...)
	}
	return concat(encodeLength(len(content), listOffset), content), nil
}

// encodeLength encodes the length prefix for strings (offset=0x80) or lists (offset=0xc0).
func encodeLength(length int, offset byte) []byte {
	if length <= maxShortLength {
		return []byte{offset + byte(length)} //nolint:gosec // G115: length <= 55
	}

	lenBytes := bigEndianBytes(uint64(length))
	return append([]byte{offset + maxShortLength + byte(len(lenBytes))}, lenBytes...) //nolint:gosec // G115: len(lenBytes) <= 8
}

// bigEndianBytes converts a uint64 to minimal big-endian bytes (no leading zeros).
func bigEndianBytes(i uint64) []byte {
	if i == 0 {
		return nil
	}

	n := 0
	for v := i; v > 0; v >>= 8 {
		n++
	}

	result := make([]byte, n)
	for j := n - 1; j >= 0; j-- {
		result[j] = byte(i)
		i >>= 8
	}
	return result
}

func concat(slices ...[]byte) []byte {
	totalLen := 0
	for _, s := range slices {
		totalLen += len(s)
	}

	result := make([]byte, 0, totalLen)
	for _, s := range slices {
		result = append(result, s...)
	}
	return result
}
