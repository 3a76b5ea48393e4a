// Package abi encodes and decodes contract call data in the Solidity ABI v2
// layout for scalars, strings, byte strings, one level of dynamic arrays and
// tuples of arity 1 to 10.
//
// Every encoded value is a sequence of 32-byte words. Static values are written
// inline; dynamic values occupy one offset word in the head and place their own
// encoding in the tail.
package abi

import (
	"strconv"
	"strings"
)

const (
	// WordSize is the size of one ABI slot.
	WordSize = 32

	// MaxTupleArity is the largest supported tuple.
	MaxTupleArity = 10
)

// Type describes the shape of an ABI value. Whether a type is dynamic, and its
// head size, follow from the type alone and never from a value's content.
type Type interface {
	// String returns the canonical name used in function signatures.
	String() string

	// Dynamic reports whether values of this type are addressed by offset.
	Dynamic() bool

	// Size returns the encoded size in bytes of a static type, or WordSize
	// (one offset slot) for a dynamic type.
	Size() int
}

// UintType is uint<Bits>.
type UintType struct{ Bits int }

func (t UintType) String() string { return "uint" + strconv.Itoa(t.Bits) }
func (UintType) Dynamic() bool    { return false }
func (UintType) Size() int        { return WordSize }

// IntType is int<Bits>.
type IntType struct{ Bits int }

func (t IntType) String() string { return "int" + strconv.Itoa(t.Bits) }
func (IntType) Dynamic() bool    { return false }
func (IntType) Size() int        { return WordSize }

// BoolType is bool.
type BoolType struct{}

func (BoolType) String() string { return "bool" }
func (BoolType) Dynamic() bool  { return false }
func (BoolType) Size() int      { return WordSize }

// AddressType is address.
type AddressType struct{}

func (AddressType) String() string { return "address" }
func (AddressType) Dynamic() bool  { return false }
func (AddressType) Size() int      { return WordSize }

// StringType is string.
type StringType struct{}

func (StringType) String() string { return "string" }
func (StringType) Dynamic() bool  { return true }
func (StringType) Size() int      { return WordSize }

// BytesType is bytes.
type BytesType struct{}

func (BytesType) String() string { return "bytes" }
func (BytesType) Dynamic() bool  { return true }
func (BytesType) Size() int      { return WordSize }

// ArrayType is a dynamic array T[].
type ArrayType struct{ Elem Type }

func (t ArrayType) String() string { return t.Elem.String() + "[]" }
func (ArrayType) Dynamic() bool    { return true }
func (ArrayType) Size() int        { return WordSize }

// TupleType is (T1,...,Tn). It is static iff every element is static.
type TupleType struct{ Elems []Type }

func (t TupleType) String() string {
	names := make([]string, len(t.Elems))
	for i, e := range t.Elems {
		names[i] = e.String()
	}
	return "(" + strings.Join(names, ",") + ")"
}

// Dynamic implements Type.
func (t TupleType) Dynamic() bool {
	for _, e := range t.Elems {
		if e.Dynamic() {
			return true
		}
	}
	return false
}

// Size implements Type.
func (t TupleType) Size() int {
	if t.Dynamic() {
		return WordSize
	}
	size := 0
	for _, e := range t.Elems {
		size += e.Size()
	}
	return size
}

// TupleOf returns the tuple type of elems.
func TupleOf(elems ...Type) TupleType {
	return TupleType{Elems: elems}
}

// ArrayOf returns the dynamic array type of elem.
func ArrayOf(elem Type) ArrayType {
	return ArrayType{Elem: elem}
}

// sameType reports whether a and b describe the same shape.
func sameType(a, b Type) bool {
	return a.String() == b.String()
}
