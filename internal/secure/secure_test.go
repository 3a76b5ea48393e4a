package secure_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrz1836/ethkit/internal/secure"
)

func TestBuffer_Destroy(t *testing.T) {
	t.Parallel()

	b := secure.New(32)
	data := b.Bytes()
	for i := range data {
		data[i] = byte(i + 1)
	}
	assert.Equal(t, 32, b.Len())

	b.Destroy()
	assert.Nil(t, b.Bytes())
	assert.Zero(t, b.Len())
	assert.False(t, b.Locked())
	assert.Equal(t, make([]byte, 32), data)

	b.Destroy()
}

func TestBuffer_ZeroSize(t *testing.T) {
	t.Parallel()

	b := secure.New(0)
	defer b.Destroy()
	assert.Empty(t, b.Bytes())
	assert.False(t, b.Locked())
}

func TestFromSlice_WipesSource(t *testing.T) {
	t.Parallel()

	src := []byte("secret key material")
	want := append([]byte(nil), src...)

	b := secure.FromSlice(src)
	defer b.Destroy()

	assert.Equal(t, want, b.Bytes())
	assert.Equal(t, make([]byte, len(want)), src)
}

func TestDecodeHex(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		in      string
		want    []byte
		wantErr bool
	}{
		{name: "plain", in: "deadbeef", want: []byte{0xde, 0xad, 0xbe, 0xef}},
		{name: "prefixed", in: "0x0102", want: []byte{1, 2}},
		{name: "upper prefix", in: "0XFF", want: []byte{0xff}},
		{name: "whitespace", in: " 0x0a\n", want: []byte{0x0a}},
		{name: "empty", in: "", want: []byte{}},
		{name: "odd", in: "0x123", wantErr: true},
		{name: "not hex", in: "0xzz", wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			b, err := secure.DecodeHex([]byte(tc.in))
			if tc.wantErr {
				require.ErrorIs(t, err, secure.ErrInvalidHex)
				return
			}
			require.NoError(t, err)
			defer b.Destroy()
			assert.Equal(t, tc.want, b.Bytes())
		})
	}
}

func TestWipe(t *testing.T) {
	t.Parallel()

	p := []byte{1, 2, 3}
	secure.Wipe(p)
	assert.Equal(t, []byte{0, 0, 0}, p)
	secure.Wipe(nil)
}
