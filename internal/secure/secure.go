// Package secure holds secret material in locked memory that is zeroed on
// release.
package secure

import (
	"bytes"
	"encoding/hex"
	"errors"
	"runtime"
	"sync"
)

// ErrInvalidHex is returned by DecodeHex for input that is not hex.
var ErrInvalidHex = errors.New("secret is not valid hex")

// Buffer is a byte slice that is mlocked where the platform allows it and
// wiped by Destroy.
type Buffer struct {
	mu     sync.Mutex
	data   []byte
	locked bool
}

// New allocates a zeroed buffer of size bytes.
func New(size int) *Buffer {
	b := &Buffer{data: make([]byte, size)}
	b.locked = mlock(b.data)

	runtime.SetFinalizer(b, func(b *Buffer) { b.Destroy() })
	return b
}

// FromSlice copies src into a new buffer and wipes src.
func FromSlice(src []byte) *Buffer {
	b := New(len(src))
	copy(b.data, src)
	Wipe(src)
	return b
}

// DecodeHex decodes hex text, with optional 0x prefix and surrounding
// whitespace, straight into a new buffer. The input is not modified.
func DecodeHex(text []byte) (*Buffer, error) {
	text = bytes.TrimSpace(text)
	if len(text) >= 2 && text[0] == '0' && (text[1] == 'x' || text[1] == 'X') {
		text = text[2:]
	}
	if len(text)%2 != 0 {
		return nil, ErrInvalidHex
	}

	b := New(len(text) / 2)
	if _, err := hex.Decode(b.data, text); err != nil {
		b.Destroy()
		return nil, ErrInvalidHex
	}
	return b, nil
}

// Bytes returns the contents, or nil after Destroy.
func (b *Buffer) Bytes() []byte {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.data
}

// Len returns the size of the contents.
func (b *Buffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.data)
}

// Locked reports whether the memory is pinned.
func (b *Buffer) Locked() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.locked
}

// Destroy wipes and unlocks the memory. It may be called more than once.
func (b *Buffer) Destroy() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.data == nil {
		return
	}
	Wipe(b.data)
	if b.locked {
		munlock(b.data)
		b.locked = false
	}
	b.data = nil
	runtime.SetFinalizer(b, nil)
}

// Wipe zeroes p.
func Wipe(p []byte) {
	for i := range p {
		p[i] = 0
	}
}
