package ethtypes

import (
	"encoding/hex"
	"strings"

	ethcrypto "github.com/mrz1836/ethkit/internal/eth/crypto"
	"github.com/mrz1836/ethkit/internal/eth/rlp"
	kiterr "github.com/mrz1836/ethkit/pkg/errors"
)

const (
	// AddressLength is the expected length of an Ethereum address.
	AddressLength = 20

	// HashLength is the expected length of a Keccak-256 hash.
	HashLength = 32
)

// Address represents a 20-byte Ethereum address.
type Address [AddressLength]byte

// BytesToAddress converts a byte slice to an Address.
// If the slice is shorter than 20 bytes, it is left-padded with zeros.
// If longer, only the last 20 bytes are used.
func BytesToAddress(b []byte) Address {
	var a Address
	if len(b) > AddressLength {
		b = b[len(b)-AddressLength:]
	}
	copy(a[AddressLength-len(b):], b)
	return a
}

// ParseAddress converts a hex string to an Address.
// The string may start with "0x" and may have an odd number of digits.
// Short input is left-padded and long input keeps its last 20 bytes.
func ParseAddress(s string) (Address, error) {
	b, err := FromHex(s)
	if err != nil {
		return Address{}, kiterr.WithDetails(kiterr.ErrInvalidAddress, map[string]string{"input": s})
	}
	return BytesToAddress(b), nil
}

// ParseChecksumAddress parses a 40-digit hex address and verifies its EIP-55
// casing when the input is mixed case.
func ParseChecksumAddress(s string) (Address, error) {
	body := trimHexPrefix(s)
	if len(body) != AddressLength*2 {
		return Address{}, kiterr.WithDetails(kiterr.ErrInvalidAddress, map[string]string{"input": s})
	}

	addr, err := ParseAddress(body)
	if err != nil {
		return Address{}, err
	}

	if !ethcrypto.IsChecksumValid(body) {
		return Address{}, kiterr.WithSuggestion(
			kiterr.WithDetails(kiterr.ErrInvalidChecksum, map[string]string{"input": s}),
			"expected "+addr.Checksum(),
		)
	}

	return addr, nil
}

// HexToAddress converts a hex string to an Address, returning the zero address
// when the input is not valid hex. Use ParseAddress to detect malformed input.
func HexToAddress(s string) Address {
	a, err := ParseAddress(s)
	if err != nil {
		return Address{}
	}
	return a
}

// MustParseAddress converts a hex string to an Address, panicking on error.
// Only use in initialization code with known-good addresses.
func MustParseAddress(s string) Address {
	addr, err := ParseAddress(s)
	if err != nil {
		panic(err)
	}
	return addr
}

// Bytes returns the address as a byte slice.
func (a Address) Bytes() []byte {
	return a[:]
}

// Hex returns the address as a lowercase hex string with 0x prefix.
func (a Address) Hex() string {
	return "0x" + hex.EncodeToString(a[:])
}

// Checksum returns the EIP-55 checksummed hex representation.
func (a Address) Checksum() string {
	return ethcrypto.ChecksumHex(a[:])
}

// String implements fmt.Stringer using the checksummed form.
func (a Address) String() string {
	return a.Checksum()
}

// IsZero returns true if the address is all zeros.
func (a Address) IsZero() bool {
	return a == Address{}
}

// EncodeRLP encodes the address as a 20-byte RLP string.
func (a Address) EncodeRLP() ([]byte, error) {
	return rlp.Encode(a[:])
}

// MarshalText renders the checksummed form.
func (a Address) MarshalText() ([]byte, error) {
	return []byte(a.Checksum()), nil
}

// UnmarshalText parses a hex address.
func (a *Address) UnmarshalText(text []byte) error {
	parsed, err := ParseAddress(string(text))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

// Hash represents a 32-byte Keccak-256 hash.
type Hash [HashLength]byte

// BytesToHash converts a byte slice to a Hash using the same padding rule as BytesToAddress.
func BytesToHash(b []byte) Hash {
	var h Hash
	if len(b) > HashLength {
		b = b[len(b)-HashLength:]
	}
	copy(h[HashLength-len(b):], b)
	return h
}

// ParseHash converts a hex string to a Hash.
func ParseHash(s string) (Hash, error) {
	b, err := FromHex(s)
	if err != nil {
		return Hash{}, kiterr.WithDetails(kiterr.ErrInvalidHash, map[string]string{"input": s})
	}
	return BytesToHash(b), nil
}

// HexToHash converts a hex string to a Hash, returning the zero hash on malformed input.
func HexToHash(s string) Hash {
	h, err := ParseHash(s)
	if err != nil {
		return Hash{}
	}
	return h
}

// Keccak256Hash hashes the concatenation of data.
func Keccak256Hash(data ...[]byte) Hash {
	return Hash(ethcrypto.Keccak256Hash(data...))
}

// Bytes returns the hash as a byte slice.
func (h Hash) Bytes() []byte {
	return h[:]
}

// Hex returns the hash as a lowercase hex string with 0x prefix.
func (h Hash) Hex() string {
	return "0x" + hex.EncodeToString(h[:])
}

func (h Hash) String() string {
	return h.Hex()
}

// IsZero returns true if the hash is all zeros.
func (h Hash) IsZero() bool {
	return h == Hash{}
}

// EncodeRLP encodes the hash as a 32-byte RLP string.
func (h Hash) EncodeRLP() ([]byte, error) {
	return rlp.Encode(h[:])
}

// MarshalText renders the 0x-prefixed hex form.
func (h Hash) MarshalText() ([]byte, error) {
	return []byte(h.Hex()), nil
}

// UnmarshalText parses a hex hash.
func (h *Hash) UnmarshalText(text []byte) error {
	parsed, err := ParseHash(string(text))
	if err != nil {
		return err
	}
	*h = parsed
	return nil
}

// FromHex decodes a hex string with optional 0x prefix.
// Odd-length input is treated as having a leading zero nibble.
func FromHex(s string) ([]byte, error) {
	s = trimHexPrefix(strings.TrimSpace(s))
	if len(s)%2 == 1 {
		s = "0" + s
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, kiterr.Wrap(kiterr.ErrInvalidHex, "decoding %q", s)
	}
	return b, nil
}

func trimHexPrefix(s string) string {
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		return s[2:]
	}
	return s
}
