package ethcrypto

import (
	"encoding/hex"
	"strings"
)

// AddressLength is the size of an account address.
const AddressLength = 20

// ChecksumHex renders a 20-byte address in EIP-55 mixed case with a 0x prefix.
func ChecksumHex(addr []byte) string {
	lower := []byte(hex.EncodeToString(addr))
	digest := Keccak256(lower)

	result := make([]byte, 2+len(lower))
	result[0] = '0'
	result[1] = 'x'

	for i, c := range lower {
		nibble := digest[i/2]
		if i%2 == 0 {
			nibble >>= 4
		}
		if nibble&0x0f >= 8 && c >= 'a' && c <= 'f' {
			c -= 'a' - 'A'
		}
		result[i+2] = c
	}

	return string(result)
}

// ToChecksumAddress converts a hex address string to EIP-55 checksum format.
// Input that is not 40 hex digits is returned unchanged.
func ToChecksumAddress(address string) string {
	addr := strings.ToLower(strings.TrimPrefix(address, "0x"))
	if len(addr) != AddressLength*2 {
		return address
	}

	raw, err := hex.DecodeString(addr)
	if err != nil {
		return address
	}

	return ChecksumHex(raw)
}

// IsChecksumValid reports whether a 40-digit hex address has the EIP-55 casing.
// All-lowercase and all-uppercase inputs carry no checksum and are accepted.
func IsChecksumValid(address string) bool {
	body := strings.TrimPrefix(address, "0x")
	if body == strings.ToLower(body) || body == strings.ToUpper(body) {
		return true
	}
	return ToChecksumAddress(address) == "0x"+body
}

// LeftPadBytes pads a byte slice with zeros on the left to the specified length.
func LeftPadBytes(b []byte, length int) []byte {
	if len(b) >= length {
		return b
	}
	result := make([]byte, length)
	copy(result[length-len(b):], b)
	return result
}

// RightPadBytes pads a byte slice with zeros on the right to the specified length.
func RightPadBytes(b []byte, length int) []byte {
	if len(b) >= length {
		return b
	}
	result := make([]byte, length)
	copy(result, b)
	return result
}
