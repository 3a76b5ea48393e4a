package ethtypes

import (
	"encoding/hex"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	kiterr "github.com/mrz1836/ethkit/pkg/errors"
)

func TestBytesToAddress(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    []byte
		expected string
	}{
		{"exact", mustDecodeHex("742d35cc6634c0532925a3b844bc454e4438f44e"), "0x742d35cc6634c0532925a3b844bc454e4438f44e"},
		{"short is left padded", []byte{0x01}, "0x0000000000000000000000000000000000000001"},
		{"long keeps last 20", mustDecodeHex("ffff742d35cc6634c0532925a3b844bc454e4438f44e"), "0x742d35cc6634c0532925a3b844bc454e4438f44e"},
		{"empty", nil, "0x0000000000000000000000000000000000000000"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.expected, BytesToAddress(tc.input).Hex())
		})
	}
}

func TestParseAddress(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		expected string
		wantErr  bool
	}{
		{"valid with prefix", "0x742d35Cc6634C0532925a3b844Bc454e4438f44e", "0x742d35cc6634c0532925a3b844bc454e4438f44e", false},
		{"valid without prefix", "742d35Cc6634C0532925a3b844Bc454e4438f44e", "0x742d35cc6634c0532925a3b844bc454e4438f44e", false},
		{"odd length", "0x1", "0x0000000000000000000000000000000000000001", false},
		{"short", "0x742d35Cc", "0x00000000000000000000000000000000742d35cc", false},
		{"empty", "", "0x0000000000000000000000000000000000000000", false},
		{"bare prefix", "0x", "0x0000000000000000000000000000000000000000", false},
		{"invalid hex", "0xGGGGGGGGGGGGGGGGGGGGGGGGGGGGGGGGGGGGGGGG", "", true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			addr, err := ParseAddress(tc.input)
			if tc.wantErr {
				require.ErrorIs(t, err, kiterr.ErrInvalidAddress)
				assert.True(t, HexToAddress(tc.input).IsZero())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expected, addr.Hex())
			assert.Equal(t, addr, HexToAddress(tc.input))
		})
	}
}

func TestParseChecksumAddress(t *testing.T) {
	t.Parallel()

	addr, err := ParseChecksumAddress("0xB9084d9c8A70b8Ecd2b6878ceF735F11b060DE32")
	require.NoError(t, err)
	assert.Equal(t, "0xb9084d9c8a70b8ecd2b6878cef735f11b060de32", addr.Hex())

	_, err = ParseChecksumAddress("0xb9084d9c8a70b8ecd2b6878cef735f11b060de32")
	require.NoError(t, err)

	_, err = ParseChecksumAddress("0xB9084d9c8A70b8Ecd2b6878ceF735F11b060De32")
	require.ErrorIs(t, err, kiterr.ErrInvalidChecksum)

	_, err = ParseChecksumAddress("0x1234")
	require.ErrorIs(t, err, kiterr.ErrInvalidAddress)

	addr, err = ParseChecksumAddress("0XB9084d9c8A70b8Ecd2b6878ceF735F11b060DE32")
	require.NoError(t, err)
	assert.Equal(t, "0xb9084d9c8a70b8ecd2b6878cef735f11b060de32", addr.Hex())

	_, err = ParseChecksumAddress("0XB9084d9c8A70b8Ecd2b6878ceF735F11b060De32")
	require.ErrorIs(t, err, kiterr.ErrInvalidChecksum)
}

func TestAddress_Rendering(t *testing.T) {
	t.Parallel()

	addr := MustParseAddress("0xb9084d9c8a70b8ecd2b6878cef735f11b060de32")
	assert.Equal(t, "0xB9084d9c8A70b8Ecd2b6878ceF735F11b060DE32", addr.Checksum())
	assert.Equal(t, addr.Checksum(), addr.String())
	assert.Equal(t, "0xb9084d9c8a70b8ecd2b6878cef735f11b060de32", addr.Hex())
	assert.Len(t, addr.Bytes(), AddressLength)
	assert.False(t, addr.IsZero())
	assert.True(t, Address{}.IsZero())

	enc, err := addr.EncodeRLP()
	require.NoError(t, err)
	assert.Equal(t, "94b9084d9c8a70b8ecd2b6878cef735f11b060de32", hex.EncodeToString(enc))
}

func TestAddress_JSON(t *testing.T) {
	t.Parallel()

	type payload struct {
		To Address `json:"to"`
	}

	in := payload{To: MustParseAddress("0xb9084d9c8a70b8ecd2b6878cef735f11b060de32")}
	data, err := json.Marshal(in)
	require.NoError(t, err)
	assert.JSONEq(t, `{"to":"0xB9084d9c8A70b8Ecd2b6878ceF735F11b060DE32"}`, string(data))

	var out payload
	require.NoError(t, json.Unmarshal(data, &out))
	assert.Equal(t, in, out)

	require.Error(t, json.Unmarshal([]byte(`{"to":"0xzz"}`), &out))
}

func TestMustParseAddress_Panics(t *testing.T) {
	t.Parallel()
	assert.Panics(t, func() { MustParseAddress("not-hex") })
}

func TestParseHash(t *testing.T) {
	t.Parallel()

	h, err := ParseHash("0xdaf5a779ae972f972197303d7b574746c7ef83eadac0f2791ad23db92e4c8e53")
	require.NoError(t, err)
	assert.Equal(t, "0xdaf5a779ae972f972197303d7b574746c7ef83eadac0f2791ad23db92e4c8e53", h.Hex())
	assert.Equal(t, h.Hex(), h.String())

	short, err := ParseHash("0x01")
	require.NoError(t, err)
	assert.Equal(t, byte(0x01), short[HashLength-1])
	assert.Equal(t, BytesToHash([]byte{1}), short)

	_, err = ParseHash("0xnothex")
	require.ErrorIs(t, err, kiterr.ErrInvalidHash)
	assert.True(t, HexToHash("0xnothex").IsZero())

	enc, err := h.EncodeRLP()
	require.NoError(t, err)
	assert.Equal(t, byte(0xa0), enc[0])
	assert.Len(t, enc, 33)

	var decoded Hash
	require.NoError(t, decoded.UnmarshalText([]byte(h.Hex())))
	assert.Equal(t, h, decoded)
}

func TestFromHex(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input    string
		expected []byte
		wantErr  bool
	}{
		{"0x", []byte{}, false},
		{"0x1", []byte{0x01}, false},
		{"0X0a0b", []byte{0x0a, 0x0b}, false},
		{"abc", []byte{0x0a, 0xbc}, false},
		{"0xqq", nil, true},
	}

	for _, tc := range tests {
		t.Run(tc.input, func(t *testing.T) {
			t.Parallel()
			b, err := FromHex(tc.input)
			if tc.wantErr {
				require.ErrorIs(t, err, kiterr.ErrInvalidHex)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expected, b)
		})
	}
}
