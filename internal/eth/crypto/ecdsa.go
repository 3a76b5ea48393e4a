package ethcrypto

import (
	"encoding/hex"
	"strings"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"

	kiterr "github.com/mrz1836/ethkit/pkg/errors"
)

const (
	// PrivateKeyLength is the size of a raw secp256k1 private key.
	PrivateKeyLength = 32

	// SignatureLength is the size of a recoverable signature [R || S || V].
	SignatureLength = 65

	// compactRecoveryBase is the header byte offset used by SignCompact for uncompressed keys.
	compactRecoveryBase = 27
)

// PrivateKey is a secp256k1 signing key.
type PrivateKey struct {
	key *secp256k1.PrivateKey
}

// ToPrivateKey converts raw key bytes to a PrivateKey.
// Zero keys and keys not below the curve order are rejected.
func ToPrivateKey(b []byte) (*PrivateKey, error) {
	if len(b) != PrivateKeyLength {
		return nil, kiterr.ErrInvalidPrivateKey
	}

	var scalar secp256k1.ModNScalar
	if overflow := scalar.SetByteSlice(b); overflow || scalar.IsZero() {
		return nil, kiterr.ErrInvalidPrivateKey
	}

	return &PrivateKey{key: secp256k1.NewPrivateKey(&scalar)}, nil
}

// ParsePrivateKey parses a hex-encoded private key with optional 0x prefix.
func ParsePrivateKey(s string) (*PrivateKey, error) {
	b, err := hex.DecodeString(strings.TrimPrefix(strings.TrimSpace(s), "0x"))
	if err != nil {
		return nil, kiterr.ErrInvalidPrivateKey
	}
	return ToPrivateKey(b)
}

// Sign signs a 32-byte digest and returns a 65-byte signature.
// The signature format is [R || S || V] where V is the recovery ID (0 or 1).
func (k *PrivateKey) Sign(digest []byte) ([]byte, error) {
	return signWith(k.key, digest)
}

// PublicKey returns the uncompressed public key (65 bytes: 0x04 || X || Y).
func (k *PrivateKey) PublicKey() []byte {
	return k.key.PubKey().SerializeUncompressed()
}

// Address returns the 20-byte account address controlled by this key.
func (k *PrivateKey) Address() []byte {
	addr, _ := PublicKeyToAddress(k.PublicKey())
	return addr
}

// Bytes returns the raw 32-byte key.
func (k *PrivateKey) Bytes() []byte {
	return k.key.Serialize()
}

// Zero clears the key material.
func (k *PrivateKey) Zero() {
	k.key.Zero()
}

func signWith(key *secp256k1.PrivateKey, hash []byte) ([]byte, error) {
	if len(hash) != DigestLength {
		return nil, kiterr.WithDetails(kiterr.ErrInvalidInput, map[string]string{
			"reason": "digest must be 32 bytes",
		})
	}

	// SignCompact returns [V || R || S] where V is recovery ID + 27
	sig := ecdsa.SignCompact(key, hash, false)
	if len(sig) != SignatureLength {
		return nil, kiterr.ErrInvalidSignature
	}

	result := make([]byte, SignatureLength)
	copy(result[0:64], sig[1:65])
	result[64] = sig[0] - compactRecoveryBase

	return result, nil
}

// RecoverPublicKey recovers the uncompressed public key that produced sig over hash.
// sig must be in [R || S || V] form with V in {0, 1}.
func RecoverPublicKey(hash, sig []byte) ([]byte, error) {
	if len(hash) != DigestLength {
		return nil, kiterr.ErrInvalidInput
	}
	if len(sig) != SignatureLength || sig[64] > 1 {
		return nil, kiterr.ErrInvalidSignature
	}

	compact := make([]byte, SignatureLength)
	compact[0] = sig[64] + compactRecoveryBase
	copy(compact[1:], sig[:64])

	pub, _, err := ecdsa.RecoverCompact(compact, hash)
	if err != nil {
		return nil, kiterr.Wrap(kiterr.ErrInvalidSignature, "recovering public key: %v", err)
	}

	return pub.SerializeUncompressed(), nil
}

// PublicKeyToAddress derives an Ethereum address from an uncompressed public key.
// The public key should be 65 bytes (0x04 prefix + 64 bytes X,Y coordinates)
// or 64 bytes (just the X,Y coordinates without prefix).
func PublicKeyToAddress(publicKey []byte) ([]byte, error) {
	var pubKeyBytes []byte

	switch len(publicKey) {
	case 65:
		if publicKey[0] != 0x04 {
			return nil, ErrInvalidPublicKeyPrefix
		}
		pubKeyBytes = publicKey[1:]
	case 64:
		pubKeyBytes = publicKey
	default:
		return nil, ErrInvalidPublicKeyLength
	}

	// Take the last 20 bytes of the hash as the address
	return Keccak256(pubKeyBytes)[12:], nil
}

// Public key validation errors.
var (
	ErrInvalidPublicKeyPrefix = kiterr.New("INVALID_PUBLIC_KEY", "invalid public key prefix")
	ErrInvalidPublicKeyLength = kiterr.New("INVALID_PUBLIC_KEY_LENGTH", "invalid public key length")
)
