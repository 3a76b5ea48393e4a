// Package ethcrypto provides the Ethereum hashing and signing primitives used by
// the codecs: Keccak-256, secp256k1 recoverable signatures and EIP-55 casing.
package ethcrypto

import (
	"golang.org/x/crypto/sha3"
)

// DigestLength is the size of a Keccak-256 digest.
const DigestLength = 32

// Keccak256 computes the Keccak-256 hash of the input data.
// This is the hash function used throughout Ethereum.
func Keccak256(data ...[]byte) []byte {
	hasher := sha3.NewLegacyKeccak256()
	for _, b := range data {
		hasher.Write(b)
	}
	return hasher.Sum(nil)
}

// Keccak256Hash computes the Keccak-256 hash and returns it as a 32-byte array.
func Keccak256Hash(data ...[]byte) [DigestLength]byte {
	var hash [DigestLength]byte
	copy(hash[:], Keccak256(data...))
	return hash
}
