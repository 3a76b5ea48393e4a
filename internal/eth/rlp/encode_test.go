package rlp

import (
	"encoding/hex"
	"math/big"
	"strings"
	"testing"

	gethrlp "github.com/ethereum/go-ethereum/rlp"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	kiterr "github.com/mrz1836/ethkit/pkg/errors"
)

const lorem = "Lorem ipsum dolor sit amet, consectetur adipisicing elit"

func mustEncodeHex(t *testing.T, val any) string {
	t.Helper()
	b, err := Encode(val)
	require.NoError(t, err)
	return hex.EncodeToString(b)
}

func TestEncodeBytes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    []byte
		expected string
	}{
		{"single byte zero", []byte{0x00}, "00"},
		{"single byte 0x7f", []byte{0x7f}, "7f"},
		{"single byte >= 0x80", []byte{0x80}, "8180"},
		{"empty bytes", []byte{}, "80"},
		{"nil bytes", nil, "80"},
		{"short string", []byte("dog"), "83646f67"},
		{"55 bytes", make([]byte, 55), "b7" + strings.Repeat("00", 55)},
		{"56 bytes", make([]byte, 56), "b838" + strings.Repeat("00", 56)},
		{"1024 bytes", make([]byte, 1024), "b90400" + strings.Repeat("00", 1024)},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.expected, mustEncodeHex(t, tc.input))
		})
	}
}

func TestEncodeString(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"dog", "dog", "83646f67"},
		{"empty", "", "80"},
		{"lorem 56 chars", lorem, "b838" + hex.EncodeToString([]byte(lorem))},
		{"multibyte utf8", "é", "82c3a9"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.expected, mustEncodeHex(t, tc.input))
		})
	}
}

func TestEncodeString_InvalidUTF8(t *testing.T) {
	t.Parallel()

	_, err := Encode(string([]byte{0xff, 0xfe}))
	require.ErrorIs(t, err, kiterr.ErrIncompatibleToEncode)

	_, err = Encode([]any{"ok", string([]byte{0xc3})})
	require.ErrorIs(t, err, kiterr.ErrIncompatibleToEncode)
}

func TestEncodeIntegers(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    any
		expected string
	}{
		{"uint64 zero", uint64(0), "80"},
		{"uint64 one", uint64(1), "01"},
		{"uint64 fifteen", uint64(15), "0f"},
		{"uint64 127", uint64(127), "7f"},
		{"uint64 128", uint64(128), "8180"},
		{"uint64 1024", uint64(1024), "820400"},
		{"uint64 max", ^uint64(0), "88ffffffffffffffff"},
		{"int 1024", 1024, "820400"},
		{"int zero", 0, "80"},
		{"uint8", uint8(200), "81c8"},
		{"big zero", big.NewInt(0), "80"},
		{"big nil", (*big.Int)(nil), "80"},
		{"big 1024", big.NewInt(1024), "820400"},
		{"big 2^64", new(big.Int).Lsh(big.NewInt(1), 64), "89010000000000000000"},
		{"uint256 zero", uint256.NewInt(0), "80"},
		{"uint256 1024", uint256.NewInt(1024), "820400"},
		{"bool true", true, "01"},
		{"bool false", false, "80"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.expected, mustEncodeHex(t, tc.input))
		})
	}
}

func TestEncodeZeroIntegerVersusZeroByte(t *testing.T) {
	t.Parallel()

	zeroInt, err := Encode(uint64(0))
	require.NoError(t, err)
	assert.Equal(t, []byte{0x80}, zeroInt)

	zeroByte, err := Encode([]byte{0})
	require.NoError(t, err)
	assert.Equal(t, []byte{0x00}, zeroByte)
}

func TestEncodeNegativeIntegers(t *testing.T) {
	t.Parallel()

	for _, v := range []any{-1, int64(-5), big.NewInt(-1)} {
		_, err := Encode(v)
		require.ErrorIs(t, err, kiterr.ErrIncompatibleToEncode)
	}
}

func TestEncodeLists(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    any
		expected string
	}{
		{"empty list", []any{}, "c0"},
		{"string list", []string{"cat", "dog"}, "c88363617483646f67"},
		{"byte lists", [][]byte{[]byte("cat"), []byte("dog")}, "c88363617483646f67"},
		{"mixed", []any{"zw", []any{uint64(4)}, uint64(1)}, "c6827a77c10401"},
		{
			name:     "set theoretical representation of three",
			input:    []any{[]any{}, []any{[]any{}}, []any{[]any{}, []any{[]any{}}}},
			expected: "c7c0c1c0c3c0c1c0",
		},
		{"long list", []any{lorem}, "f83a" + "b838" + hex.EncodeToString([]byte(lorem))},
		{"raw values", []any{RawValue{0xc0}, EmptyString}, "c2c080"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.expected, mustEncodeHex(t, tc.input))
		})
	}
}

type pair struct{ a, b uint64 }

func (p pair) EncodeRLP() ([]byte, error) {
	return EncodeList(p.a, p.b)
}

func TestEncoderInterface(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "c20102", mustEncodeHex(t, pair{1, 2}))
	assert.Equal(t, "c4c20102c0", mustEncodeHex(t, []any{pair{1, 2}, []any{}}))
}

func TestEncodeUnsupportedType(t *testing.T) {
	t.Parallel()

	for _, v := range []any{3.14, struct{}{}, map[string]int{}} {
		_, err := Encode(v)
		require.ErrorIs(t, err, kiterr.ErrIncompatibleToEncode)
	}
}

func TestEncodeToHex(t *testing.T) {
	t.Parallel()

	h, err := EncodeToHex("dog")
	require.NoError(t, err)
	assert.Equal(t, "0x83646f67", h)

	_, err = EncodeToHex(-1)
	require.Error(t, err)
}

// TestEncodeMatchesGethRLP cross-checks the encoder against go-ethereum.
func TestEncodeMatchesGethRLP(t *testing.T) {
	t.Parallel()

	values := []any{
		[]byte{},
		[]byte{0x00},
		[]byte{0x80},
		"dog",
		lorem,
		uint64(0),
		uint64(1024),
		^uint64(0),
		big.NewInt(0),
		new(big.Int).Lsh(big.NewInt(1), 255),
		[]string{"cat", "dog"},
		[]any{uint64(1), []byte("abc"), []any{"x", uint64(0)}, big.NewInt(300)},
		[]any{strings.Repeat("a", 300), []any{lorem, lorem}},
	}

	for _, v := range values {
		ours, err := Encode(v)
		require.NoError(t, err)
		theirs, err := gethrlp.EncodeToBytes(v)
		require.NoError(t, err)
		assert.Equal(t, hex.EncodeToString(theirs), hex.EncodeToString(ours), "%#v", v)
	}
}
