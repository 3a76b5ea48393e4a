package ethtypes

import (
	"encoding/hex"
	"math/big"

	ethcrypto "github.com/mrz1836/ethkit/internal/eth/crypto"
	"github.com/mrz1836/ethkit/internal/eth/rlp"
	kiterr "github.com/mrz1836/ethkit/pkg/errors"
)

// SignedTx is a transaction body together with its signature values.
type SignedTx struct {
	Tx      Transaction
	ChainID *big.Int
	V       *big.Int
	R       *big.Int
	S       *big.Int
}

// SignTx signs tx with key using signer.
func SignTx(tx Transaction, signer Signer, key *ethcrypto.PrivateKey) (*SignedTx, error) {
	digest, err := signer.Hash(tx)
	if err != nil {
		return nil, err
	}

	sig, err := key.Sign(digest[:])
	if err != nil {
		return nil, err
	}

	return WithSignature(tx, signer, sig)
}

// WithSignature attaches a 65-byte [R || S || recoveryID] signature produced over signer.Hash(tx).
func WithSignature(tx Transaction, signer Signer, sig []byte) (*SignedTx, error) {
	r, s, v, err := signer.SignatureValues(tx, sig)
	if err != nil {
		return nil, err
	}
	return &SignedTx{Tx: tx, ChainID: signer.ChainID(), V: v, R: r, S: s}, nil
}

// MarshalBinary returns the serialized transaction ready for broadcast.
// Legacy: RLP([nonce, gasPrice, gas, to, value, data, v, r, s]).
// Dynamic fee: 0x02 || RLP([chainID, nonce, tip, feeCap, gas, to, value, data, accessList, v, r, s]).
func (stx *SignedTx) MarshalBinary() ([]byte, error) {
	if stx.V == nil || stx.R == nil || stx.S == nil {
		return nil, kiterr.WithDetails(kiterr.ErrInvalidSignature, map[string]string{
			"reason": "transaction is not signed",
		})
	}

	switch stx.Tx.Type() {
	case LegacyTxType:
		return rlp.Encode(append(stx.Tx.fields(), stx.V, stx.R, stx.S))
	case DynamicFeeTxType:
		items := append([]any{stx.ChainID}, stx.Tx.fields()...)
		payload, err := rlp.Encode(append(items, stx.V, stx.R, stx.S))
		if err != nil {
			return nil, err
		}
		return append([]byte{DynamicFeeTxType}, payload...), nil
	default:
		return nil, unsupportedType(stx.Tx)
	}
}

// RawHex returns the serialized transaction as a 0x-prefixed hex string.
func (stx *SignedTx) RawHex() (string, error) {
	raw, err := stx.MarshalBinary()
	if err != nil {
		return "", err
	}
	return "0x" + hex.EncodeToString(raw), nil
}

// Hash returns the transaction hash (keccak256 of the serialized transaction).
func (stx *SignedTx) Hash() (Hash, error) {
	raw, err := stx.MarshalBinary()
	if err != nil {
		return Hash{}, err
	}
	return Keccak256Hash(raw), nil
}

// Sender recovers the address that signed the transaction.
func (stx *SignedTx) Sender(signer Signer) (Address, error) {
	if stx.R == nil || stx.S == nil || len(stx.R.Bytes()) > 32 || len(stx.S.Bytes()) > 32 {
		return Address{}, kiterr.ErrInvalidSignature
	}

	recID, err := signer.RecoveryID(stx.Tx, stx.V)
	if err != nil {
		return Address{}, err
	}

	digest, err := signer.Hash(stx.Tx)
	if err != nil {
		return Address{}, err
	}

	sig := make([]byte, ethcrypto.SignatureLength)
	stx.R.FillBytes(sig[:32])
	stx.S.FillBytes(sig[32:64])
	sig[64] = recID

	pub, err := ethcrypto.RecoverPublicKey(digest[:], sig)
	if err != nil {
		return Address{}, err
	}

	addr, err := ethcrypto.PublicKeyToAddress(pub)
	if err != nil {
		return Address{}, err
	}
	return BytesToAddress(addr), nil
}

// IsSigned returns true if the transaction carries signature values.
func (stx *SignedTx) IsSigned() bool {
	return stx.V != nil && stx.R != nil && stx.S != nil
}
