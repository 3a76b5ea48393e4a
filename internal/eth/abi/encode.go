package abi

import (
	"math/big"
	"strconv"
	"unicode/utf8"

	"github.com/holiman/uint256"

	ethcrypto "github.com/mrz1836/ethkit/internal/eth/crypto"
	"github.com/mrz1836/ethkit/internal/metrics"
	kiterr "github.com/mrz1836/ethkit/pkg/errors"
)

// Encode returns the ABI encoding of v.
//
// Tuples encode their members with head/tail addressing. Arrays encode a count
// word followed by their elements laid out the same way. Strings and bytes
// encode a length word followed by the data right-padded to a word boundary.
// Scalars encode as a single word.
func Encode(v Value) ([]byte, error) {
	if v == nil {
		return nil, incompatible("nil value")
	}
	out, err := v.encode()
	metrics.Global.RecordEncode(metrics.CodecABI, err)
	return out, err
}

// EncodeArgs encodes args as a tuple.
func EncodeArgs(args ...Value) ([]byte, error) {
	return Encode(Tuple(args))
}

// encodeMembers lays out vals as a head region of inline values and offsets
// followed by the tail holding each dynamic member's encoding.
func encodeMembers(vals []Value) ([]byte, error) {
	headLen := 0
	for _, v := range vals {
		if v == nil {
			return nil, incompatible("nil member")
		}
		headLen += v.Type().Size()
	}

	head := make([]byte, 0, headLen)
	var tail []byte
	for _, v := range vals {
		enc, err := v.encode()
		if err != nil {
			return nil, err
		}
		if v.Type().Dynamic() {
			head = append(head, uintWord(uint64(headLen+len(tail)))...) //nolint:gosec // G115: lengths are non-negative
			tail = append(tail, enc...)
			continue
		}
		head = append(head, enc...)
	}

	return append(head, tail...), nil
}

func (u Uint) encode() ([]byte, error) {
	bits := widthOrDefault(u.Bits)
	if err := checkWidth(bits, kiterr.ErrIncompatibleToEncode); err != nil {
		return nil, err
	}

	v := u.Big()
	if v.Sign() < 0 || v.BitLen() > bits {
		return nil, kiterr.WithDetails(kiterr.ErrIncompatibleToEncode, map[string]string{
			"type":  u.Type().String(),
			"value": v.String(),
		})
	}

	word, _ := uint256.FromBig(v)
	b := word.Bytes32()
	return b[:], nil
}

func (i Int) encode() ([]byte, error) {
	bits := widthOrDefault(i.Bits)
	if err := checkWidth(bits, kiterr.ErrIncompatibleToEncode); err != nil {
		return nil, err
	}

	v := i.Big()
	limit := new(big.Int).Lsh(big.NewInt(1), uint(bits-1)) //nolint:gosec // G115: bits validated above
	minValue := new(big.Int).Neg(limit)
	maxValue := new(big.Int).Sub(limit, big.NewInt(1))
	if v.Cmp(minValue) < 0 || v.Cmp(maxValue) > 0 {
		return nil, kiterr.WithDetails(kiterr.ErrIncompatibleToEncode, map[string]string{
			"type":  i.Type().String(),
			"value": v.String(),
		})
	}

	// Negative values are ~|v| + 1 over 256 bits, which sign-extends with 0xff.
	word, _ := uint256.FromBig(new(big.Int).Abs(v))
	if v.Sign() < 0 {
		word.Neg(word)
	}
	b := word.Bytes32()
	return b[:], nil
}

func (b Bool) encode() ([]byte, error) {
	if b {
		return uintWord(1), nil
	}
	return uintWord(0), nil
}

func (a Address) encode() ([]byte, error) {
	return ethcrypto.LeftPadBytes(a[:], WordSize), nil
}

func (s String) encode() ([]byte, error) {
	if !utf8.ValidString(string(s)) {
		return nil, incompatible("string is not valid UTF-8")
	}
	return encodeDynamicBytes([]byte(s)), nil
}

func (b Bytes) encode() ([]byte, error) {
	return encodeDynamicBytes(b), nil
}

func (a Array) encode() ([]byte, error) {
	if a.Elem == nil {
		return nil, incompatible("array element type is not set")
	}
	if err := validateType(a.Type(), kiterr.ErrIncompatibleToEncode); err != nil {
		return nil, err
	}
	for idx, e := range a.Elems {
		if e == nil || !sameType(e.Type(), a.Elem) {
			got := "nil"
			if e != nil {
				got = e.Type().String()
			}
			return nil, kiterr.WithDetails(kiterr.ErrIncompatibleToEncode, map[string]string{
				"index":    strconv.Itoa(idx),
				"expected": a.Elem.String(),
				"received": got,
			})
		}
	}

	members, err := encodeMembers(a.Elems)
	if err != nil {
		return nil, err
	}
	return append(uintWord(uint64(len(a.Elems))), members...), nil
}

func (t Tuple) encode() ([]byte, error) {
	if err := checkArity(len(t), kiterr.ErrIncompatibleToEncode); err != nil {
		return nil, err
	}
	return encodeMembers(t)
}

// encodeDynamicBytes writes a length word and b right-padded to a word boundary.
func encodeDynamicBytes(b []byte) []byte {
	padded := (len(b) + WordSize - 1) / WordSize * WordSize
	return append(uintWord(uint64(len(b))), ethcrypto.RightPadBytes(b, padded)...)
}

// uintWord renders n as a 32-byte big-endian word.
func uintWord(n uint64) []byte {
	b := uint256.NewInt(n).Bytes32()
	return b[:]
}

func incompatible(reason string) error {
	return kiterr.WithDetails(kiterr.ErrIncompatibleToEncode, map[string]string{"reason": reason})
}
