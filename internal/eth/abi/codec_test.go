package abi

import (
	"encoding/hex"
	"math/big"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ethtypes "github.com/mrz1836/ethkit/internal/eth/types"
	kiterr "github.com/mrz1836/ethkit/pkg/errors"
)

// word left-pads a hex string to one 32-byte slot.
func word(h string) string {
	return strings.Repeat("0", 64-len(h)) + h
}

// padRight right-pads ASCII text to a whole number of slots, as hex.
func padRight(s string) string {
	h := hex.EncodeToString([]byte(s))
	if rem := len(h) % 64; rem != 0 {
		h += strings.Repeat("0", 64-rem)
	}
	return h
}

func mustHex(t *testing.T, s string) []byte {
	t.Helper()
	b, err := hex.DecodeString(s)
	require.NoError(t, err)
	return b
}

func mustBig(s string) *big.Int {
	n, ok := new(big.Int).SetString(s, 0)
	if !ok {
		panic("bad integer " + s)
	}
	return n
}

func addrValue(s string) Address {
	return Address(ethtypes.MustParseAddress(s))
}

func TestEncode_Vectors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		value    Value
		expected string
	}{
		{"uint256 zero", Uint256(0), word("")},
		{"uint256 one", Uint256(1), word("1")},
		{"uint8 max", NewUint(8, big.NewInt(255)), word("ff")},
		{"int256 minus one", Int256(-1), strings.Repeat("f", 64)},
		{"int256 -123456", Int256(-123456), strings.Repeat("f", 59) + "e1dc0"},
		{"int8 min", NewInt(8, big.NewInt(-128)), strings.Repeat("f", 62) + "80"},
		{"bool true", Bool(true), word("1")},
		{"bool false", Bool(false), word("")},
		{"address", addrValue("0xb9084d9c8a70b8ecd2b6878cef735f11b060de32"), word("b9084d9c8a70b8ecd2b6878cef735f11b060de32")},
		{"string dave", String("dave"), word("4") + padRight("dave")},
		{"empty string", String(""), word("")},
		{"bytes", Bytes{0x01, 0x02}, word("2") + "0102" + strings.Repeat("0", 60)},
		{
			name:     "tuple of two strings",
			value:    Tuple{String("dave"), String("apple")},
			expected: word("40") + word("80") + word("4") + padRight("dave") + word("5") + padRight("apple"),
		},
		{
			name:     "string array",
			value:    NewArray(StringType{}, String("apple"), String("book"), String("cat")),
			expected: word("3") + word("60") + word("a0") + word("e0") + word("5") + padRight("apple") + word("4") + padRight("book") + word("3") + padRight("cat"),
		},
		{
			name:     "uint array",
			value:    NewArray(UintType{Bits: 256}, Uint256(1), Uint256(2)),
			expected: word("2") + word("1") + word("2"),
		},
		{
			name:     "mixed static and dynamic",
			value:    Tuple{Uint256(0x123), NewArray(UintType{Bits: 32}, NewUint(32, big.NewInt(0x456)), NewUint(32, big.NewInt(0x789))), Bytes("1234567890"), String("Hello, world!")},
			expected: word("123") + word("80") + word("e0") + word("120") + word("2") + word("456") + word("789") + word("a") + padRight("1234567890") + word("d") + padRight("Hello, world!"),
		},
		{
			name:     "static tuple inline",
			value:    Tuple{Tuple{Uint256(1), Bool(true)}, String("x")},
			expected: word("1") + word("1") + word("60") + word("1") + padRight("x"),
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			out, err := Encode(tc.value)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, hex.EncodeToString(out))
		})
	}
}

func TestEncode_Errors(t *testing.T) {
	t.Parallel()

	eleven := make(Tuple, 11)
	for i := range eleven {
		eleven[i] = Uint256(uint64(i))
	}

	tests := []struct {
		name  string
		value Value
	}{
		{"uint8 overflow", NewUint(8, big.NewInt(256))},
		{"uint negative", NewUint(256, big.NewInt(-1))},
		{"uint256 overflow", NewUint(256, new(big.Int).Lsh(big.NewInt(1), 256))},
		{"int8 too large", NewInt(8, big.NewInt(128))},
		{"int8 too small", NewInt(8, big.NewInt(-129))},
		{"bad width", NewUint(12, big.NewInt(1))},
		{"invalid utf8", String(string([]byte{0xff}))},
		{"array element mismatch", NewArray(UintType{Bits: 256}, Uint256(1), String("x"))},
		{"nested arrays", NewArray(ArrayType{Elem: UintType{Bits: 256}})},
		{"empty tuple", Tuple{}},
		{"tuple of eleven", eleven},
		{"nil member", Tuple{nil}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, err := Encode(tc.value)
			require.ErrorIs(t, err, kiterr.ErrIncompatibleToEncode)
		})
	}

	_, err := Encode(nil)
	require.ErrorIs(t, err, kiterr.ErrIncompatibleToEncode)
}

func TestRoundTrip(t *testing.T) {
	t.Parallel()

	maxUint := new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 256), big.NewInt(1))
	maxInt := new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 255), big.NewInt(1))
	minInt := new(big.Int).Neg(new(big.Int).Lsh(big.NewInt(1), 255))

	values := []Value{
		Uint256(0),
		Uint256(1),
		NewUint(256, maxUint),
		NewUint(8, big.NewInt(255)),
		NewUint(64, new(big.Int).SetUint64(^uint64(0))),
		Int256(0),
		Int256(1),
		Int256(-1),
		NewInt(256, maxInt),
		NewInt(256, minInt),
		NewInt(8, big.NewInt(-128)),
		NewInt(8, big.NewInt(127)),
		Bool(true),
		Bool(false),
		addrValue("0x0000000000000000000000000000000000000001"),
		String(""),
		String("dave"),
		String(strings.Repeat("long string ", 10)),
		String("héllo wörld ✓"),
		Bytes{},
		Bytes(mustBig("0x" + strings.Repeat("ab", 40)).Bytes()),
		NewArray(UintType{Bits: 256}),
		NewArray(UintType{Bits: 256}, Uint256(1), NewUint(256, maxUint)),
		NewArray(StringType{}, String("apple"), String(""), String("cat")),
		NewArray(IntType{Bits: 256}, Int256(-1), Int256(2)),
		Tuple{Uint256(7)},
		Tuple{String("dave"), String("apple")},
		Tuple{Uint256(1), String("a"), Bool(true)},
		Tuple{Int256(-5), NewArray(StringType{}, String("x"), String("yz")), Bytes{1, 2, 3}},
		Tuple{Tuple{Uint256(1), Bool(true)}, String("x")},
		Tuple{Tuple{String("inner"), Uint256(2)}, Uint256(3)},
		NewArray(TupleType{Elems: []Type{UintType{Bits: 256}, StringType{}}},
			Tuple{Uint256(1), String("one")},
			Tuple{Uint256(2), String("two")},
		),
		NewArray(TupleType{Elems: []Type{UintType{Bits: 256}, BoolType{}}},
			Tuple{Uint256(1), Bool(false)},
			Tuple{Uint256(2), Bool(true)},
		),
	}

	for _, v := range values {
		t.Run(v.Type().String(), func(t *testing.T) {
			t.Parallel()
			enc, err := Encode(v)
			require.NoError(t, err)
			require.Zero(t, len(enc)%WordSize)

			dec, err := Decode(enc, v.Type())
			require.NoError(t, err)
			assert.True(t, Equal(v, dec), "round trip of %s: got %v", v.Type(), Format(dec))
		})
	}
}

func TestDecode_Vectors(t *testing.T) {
	t.Parallel()

	v, err := Decode(mustHex(t, strings.Repeat("f", 59)+"e1dc0"), IntType{Bits: 256})
	require.NoError(t, err)
	n, ok := AsBig(v)
	require.True(t, ok)
	assert.Equal(t, int64(-123456), n.Int64())

	v, err = Decode(mustHex(t, word("3")+word("60")+word("a0")+word("e0")+word("5")+padRight("apple")+word("4")+padRight("book")+word("3")+padRight("cat")), ArrayType{Elem: StringType{}})
	require.NoError(t, err)
	assert.Equal(t, []any{"apple", "book", "cat"}, Format(v))

	// Any non-zero word is true.
	v, err = Decode(mustHex(t, word("2")), BoolType{})
	require.NoError(t, err)
	b, ok := AsBool(v)
	require.True(t, ok)
	assert.True(t, b)

	// Narrow types do not re-check padding.
	v, err = Decode(mustHex(t, word("1ff")), UintType{Bits: 8})
	require.NoError(t, err)
	n, _ = AsBig(v)
	assert.Equal(t, int64(0x1ff), n.Int64())

	// Trailing partial slot is ignored.
	v, err = Decode(append(mustHex(t, word("7")), 0xaa), UintType{Bits: 256})
	require.NoError(t, err)
	n, _ = AsBig(v)
	assert.Equal(t, int64(7), n.Int64())
}

func TestDecode_DataCorrupted(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		data     string
		typ      Type
		required string
		received string
	}{
		{"empty uint", "", UintType{Bits: 256}, "1", "0"},
		{"short word", "0102", UintType{Bits: 256}, "1", "0"},
		{"tuple missing second member", word("1"), TupleType{Elems: []Type{UintType{Bits: 256}, UintType{Bits: 256}}}, "1", "0"},
		{"string body truncated", word("40") + word("1"), StringType{}, "2", "1"},
		{"string missing length", "", StringType{}, "1", "0"},
		{"array count too large", word("3") + word("1") + word("2"), ArrayType{Elem: UintType{Bits: 256}}, "3", "2"},
		{"offset past end", word("40") + word("0"), TupleType{Elems: []Type{StringType{}}}, "3", "2"},
		{"static tuple array", word("2") + word("1") + word("1") + word("1"), ArrayType{Elem: TupleType{Elems: []Type{UintType{Bits: 256}, BoolType{}}}}, "4", "3"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, err := Decode(mustHex(t, tc.data), tc.typ)
			require.ErrorIs(t, err, kiterr.ErrDataCorrupted)
			details := kiterr.Details(err)
			assert.Equal(t, tc.required, details["required"])
			assert.Equal(t, tc.received, details["received"])
		})
	}
}

func TestDecode_Malformed(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		data string
		typ  Type
	}{
		{"invalid utf8", word("2") + "fffe" + strings.Repeat("0", 60), StringType{}},
		{"unaligned offset", word("21") + word("0") + word("0"), TupleType{Elems: []Type{StringType{}}}},
		{"huge offset", strings.Repeat("f", 64), TupleType{Elems: []Type{BytesType{}}}},
		{"huge length", strings.Repeat("f", 64), BytesType{}},
		{"huge count", strings.Repeat("f", 64) + word("0"), ArrayType{Elem: StringType{}}},
		{"empty tuple type", word("1"), TupleType{}},
		{"nested array type", word("0"), ArrayType{Elem: ArrayType{Elem: BoolType{}}}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.NotPanics(t, func() {
				_, err := Decode(mustHex(t, tc.data), tc.typ)
				require.ErrorIs(t, err, kiterr.ErrDataCorrupted)
			})
		})
	}
}

// TestOffsetsAreWordAligned walks the head of encoded tuples and checks every
// offset slot of a dynamic member.
func TestOffsetsAreWordAligned(t *testing.T) {
	t.Parallel()

	tuples := []Tuple{
		{String("a"), Bytes{1, 2, 3}, NewArray(StringType{}, String("xyz"))},
		{Uint256(1), String(strings.Repeat("z", 33)), Bool(true), Bytes(make([]byte, 65))},
	}

	for _, tup := range tuples {
		enc, err := Encode(tup)
		require.NoError(t, err)

		pos := 0
		for _, member := range tup {
			if member.Type().Dynamic() {
				offset := new(big.Int).SetBytes(enc[pos : pos+WordSize])
				assert.Zero(t, offset.Int64()%WordSize)
				assert.Less(t, offset.Int64(), int64(len(enc)))
			}
			pos += member.Type().Size()
		}
	}
}

func TestTypeShape(t *testing.T) {
	t.Parallel()

	tests := []struct {
		typ     Type
		name    string
		dynamic bool
		size    int
	}{
		{UintType{Bits: 256}, "uint256", false, 32},
		{IntType{Bits: 8}, "int8", false, 32},
		{BoolType{}, "bool", false, 32},
		{AddressType{}, "address", false, 32},
		{StringType{}, "string", true, 32},
		{BytesType{}, "bytes", true, 32},
		{ArrayOf(UintType{Bits: 256}), "uint256[]", true, 32},
		{TupleOf(UintType{Bits: 256}, BoolType{}), "(uint256,bool)", false, 64},
		{TupleOf(UintType{Bits: 256}, StringType{}), "(uint256,string)", true, 32},
		{TupleOf(TupleOf(AddressType{}, BoolType{}), UintType{Bits: 8}), "((address,bool),uint8)", false, 96},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.name, tc.typ.String())
			assert.Equal(t, tc.dynamic, tc.typ.Dynamic())
			assert.Equal(t, tc.size, tc.typ.Size())
		})
	}
}

func TestAccessors(t *testing.T) {
	t.Parallel()

	s, ok := AsString(String("x"))
	assert.True(t, ok)
	assert.Equal(t, "x", s)

	_, ok = AsString(Uint256(1))
	assert.False(t, ok)

	a, ok := AsAddress(addrValue("0x01"))
	assert.True(t, ok)
	assert.Equal(t, ethtypes.MustParseAddress("0x01"), a)

	raw, ok := AsBytes(Bytes{9})
	assert.True(t, ok)
	assert.Equal(t, []byte{9}, raw)

	_, ok = AsBig(Bool(true))
	assert.False(t, ok)

	assert.Equal(t, "0", Uint{}.Big().String())
	assert.Equal(t, "uint256", Uint{}.Type().String())
}

func TestEqual(t *testing.T) {
	t.Parallel()

	assert.True(t, Equal(Uint256(1), NewUint(256, big.NewInt(1))))
	assert.False(t, Equal(Uint256(1), NewUint(8, big.NewInt(1))))
	assert.False(t, Equal(Uint256(1), Int256(1)))
	assert.True(t, Equal(Tuple{String("a")}, Tuple{String("a")}))
	assert.False(t, Equal(Tuple{String("a")}, Tuple{String("b")}))
	assert.False(t, Equal(NewArray(BoolType{}, Bool(true)), NewArray(BoolType{})))
	assert.True(t, Equal(nil, nil))
	assert.False(t, Equal(nil, Bool(true)))
}
