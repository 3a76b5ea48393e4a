package abi

import (
	"bytes"
	"math/big"

	ethtypes "github.com/mrz1836/ethkit/internal/eth/types"
)

// Value is a typed ABI value. The set of implementations is closed:
// Uint, Int, Bool, Address, String, Bytes, Array and Tuple.
type Value interface {
	// Type returns the ABI type the value encodes as.
	Type() Type

	encode() ([]byte, error)
}

// Uint is an unsigned integer of Bits width (256 when zero).
type Uint struct {
	Bits int
	V    *big.Int
}

// NewUint returns a uint<bits> value.
func NewUint(bits int, v *big.Int) Uint {
	return Uint{Bits: bits, V: v}
}

// Uint256 returns a uint256 value.
func Uint256(v uint64) Uint {
	return Uint{Bits: 256, V: new(big.Int).SetUint64(v)}
}

// Type implements Value.
func (u Uint) Type() Type { return UintType{Bits: widthOrDefault(u.Bits)} }

// Big returns a copy of the integer, treating nil as zero.
func (u Uint) Big() *big.Int { return copyBig(u.V) }

// Int is a two's-complement signed integer of Bits width (256 when zero).
type Int struct {
	Bits int
	V    *big.Int
}

// NewInt returns an int<bits> value.
func NewInt(bits int, v *big.Int) Int {
	return Int{Bits: bits, V: v}
}

// Int256 returns an int256 value.
func Int256(v int64) Int {
	return Int{Bits: 256, V: big.NewInt(v)}
}

// Type implements Value.
func (i Int) Type() Type { return IntType{Bits: widthOrDefault(i.Bits)} }

// Big returns a copy of the integer, treating nil as zero.
func (i Int) Big() *big.Int { return copyBig(i.V) }

// Bool is an ABI boolean.
type Bool bool

// Type implements Value.
func (Bool) Type() Type { return BoolType{} }

// Address is a 20-byte account address.
type Address ethtypes.Address

// Type implements Value.
func (Address) Type() Type { return AddressType{} }

// String is a UTF-8 string.
type String string

// Type implements Value.
func (String) Type() Type { return StringType{} }

// Bytes is a dynamic byte string.
type Bytes []byte

// Type implements Value.
func (Bytes) Type() Type { return BytesType{} }

// Array is a homogeneous dynamic array of Elem values.
type Array struct {
	Elem  Type
	Elems []Value
}

// NewArray returns an array of elem values.
func NewArray(elem Type, elems ...Value) Array {
	return Array{Elem: elem, Elems: elems}
}

// Type implements Value.
func (a Array) Type() Type { return ArrayType{Elem: a.Elem} }

// Tuple is a fixed-arity heterogeneous list of values.
type Tuple []Value

// Type implements Value.
func (t Tuple) Type() Type {
	elems := make([]Type, len(t))
	for i, v := range t {
		elems[i] = v.Type()
	}
	return TupleType{Elems: elems}
}

// AsBig returns the integer held by a Uint or Int value.
func AsBig(v Value) (*big.Int, bool) {
	switch x := v.(type) {
	case Uint:
		return x.Big(), true
	case Int:
		return x.Big(), true
	default:
		return nil, false
	}
}

// AsString returns the string held by a String value.
func AsString(v Value) (string, bool) {
	s, ok := v.(String)
	return string(s), ok
}

// AsAddress returns the address held by an Address value.
func AsAddress(v Value) (ethtypes.Address, bool) {
	a, ok := v.(Address)
	return ethtypes.Address(a), ok
}

// AsBool returns the boolean held by a Bool value.
func AsBool(v Value) (bool, bool) {
	b, ok := v.(Bool)
	return bool(b), ok
}

// AsBytes returns the bytes held by a Bytes value.
func AsBytes(v Value) ([]byte, bool) {
	b, ok := v.(Bytes)
	return []byte(b), ok
}

// Equal reports whether a and b have the same type and content.
func Equal(a, b Value) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if !sameType(a.Type(), b.Type()) {
		return false
	}

	switch x := a.(type) {
	case Uint:
		return x.Big().Cmp(b.(Uint).Big()) == 0
	case Int:
		return x.Big().Cmp(b.(Int).Big()) == 0
	case Bool, Address, String:
		return a == b
	case Bytes:
		return bytes.Equal(x, b.(Bytes))
	case Array:
		return equalAll(x.Elems, b.(Array).Elems)
	case Tuple:
		return equalAll(x, b.(Tuple))
	default:
		return false
	}
}

func equalAll(a, b []Value) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !Equal(a[i], b[i]) {
			return false
		}
	}
	return true
}

func widthOrDefault(bits int) int {
	if bits == 0 {
		return 256
	}
	return bits
}

func copyBig(v *big.Int) *big.Int {
	if v == nil {
		return new(big.Int)
	}
	return new(big.Int).Set(v)
}
