package ethtypes

import (
	"math/big"
	"strconv"

	ethcrypto "github.com/mrz1836/ethkit/internal/eth/crypto"
	"github.com/mrz1836/ethkit/internal/eth/rlp"
	kiterr "github.com/mrz1836/ethkit/pkg/errors"
)

// Signer computes signing digests and maps raw recoverable signatures to the
// (r, s, v) values stored in a transaction.
type Signer interface {
	// ChainID returns the chain the signer commits transactions to.
	ChainID() *big.Int

	// Hash returns the digest that must be signed for tx.
	Hash(tx Transaction) (Hash, error)

	// SignatureValues splits a 65-byte [R || S || recoveryID] signature into
	// transaction signature values.
	SignatureValues(tx Transaction, sig []byte) (r, s, v *big.Int, err error)

	// RecoveryID reverses the v derivation of SignatureValues.
	RecoveryID(tx Transaction, v *big.Int) (byte, error)
}

// EIP155Signer signs legacy transactions with replay protection.
type EIP155Signer struct {
	chainID    *big.Int
	chainIDMul *big.Int
}

// NewEIP155Signer returns a signer for legacy transactions on chainID.
func NewEIP155Signer(chainID *big.Int) (*EIP155Signer, error) {
	if chainID == nil || chainID.Sign() < 0 {
		return nil, kiterr.ErrInvalidChainID
	}
	id := new(big.Int).Set(chainID)
	return &EIP155Signer{
		chainID:    id,
		chainIDMul: new(big.Int).Lsh(id, 1),
	}, nil
}

// ChainID implements Signer.
func (s *EIP155Signer) ChainID() *big.Int {
	return new(big.Int).Set(s.chainID)
}

// Hash returns keccak256(RLP([nonce, gasPrice, gas, to, value, data, chainID, 0, 0])).
func (s *EIP155Signer) Hash(tx Transaction) (Hash, error) {
	if tx.Type() != LegacyTxType {
		return Hash{}, unsupportedType(tx)
	}

	payload, err := rlp.EncodeList(append(tx.fields(), s.chainID, uint64(0), uint64(0))...)
	if err != nil {
		return Hash{}, err
	}
	return Keccak256Hash(payload), nil
}

// SignatureValues returns v = 2*chainID + 35 + recoveryID.
func (s *EIP155Signer) SignatureValues(tx Transaction, sig []byte) (r, sv, v *big.Int, err error) {
	if tx.Type() != LegacyTxType {
		return nil, nil, nil, unsupportedType(tx)
	}
	r, sv, recID, err := splitSignature(sig)
	if err != nil {
		return nil, nil, nil, err
	}

	v = new(big.Int).SetUint64(uint64(recID) + 35)
	v.Add(v, s.chainIDMul)
	return r, sv, v, nil
}

// RecoveryID implements Signer.
func (s *EIP155Signer) RecoveryID(tx Transaction, v *big.Int) (byte, error) {
	if tx.Type() != LegacyTxType {
		return 0, unsupportedType(tx)
	}
	if v == nil {
		return 0, kiterr.ErrInvalidSignature
	}

	rec := new(big.Int).Sub(v, s.chainIDMul)
	rec.Sub(rec, big.NewInt(35))
	return recoveryByte(rec)
}

// LondonSigner signs legacy and EIP-1559 dynamic fee transactions.
type LondonSigner struct {
	EIP155Signer
}

// NewLondonSigner returns a signer accepting both supported transaction types.
func NewLondonSigner(chainID *big.Int) (*LondonSigner, error) {
	legacy, err := NewEIP155Signer(chainID)
	if err != nil {
		return nil, err
	}
	return &LondonSigner{EIP155Signer: *legacy}, nil
}

// Hash returns keccak256(0x02 || RLP([chainID, nonce, tip, feeCap, gas, to, value, data, accessList]))
// for dynamic fee transactions and defers to EIP155Signer otherwise.
func (s *LondonSigner) Hash(tx Transaction) (Hash, error) {
	if tx.Type() != DynamicFeeTxType {
		return s.EIP155Signer.Hash(tx)
	}

	payload, err := rlp.EncodeList(append([]any{s.chainID}, tx.fields()...)...)
	if err != nil {
		return Hash{}, err
	}
	return Keccak256Hash([]byte{DynamicFeeTxType}, payload), nil
}

// SignatureValues returns v = recoveryID for dynamic fee transactions.
func (s *LondonSigner) SignatureValues(tx Transaction, sig []byte) (r, sv, v *big.Int, err error) {
	if tx.Type() != DynamicFeeTxType {
		return s.EIP155Signer.SignatureValues(tx, sig)
	}
	r, sv, recID, err := splitSignature(sig)
	if err != nil {
		return nil, nil, nil, err
	}
	return r, sv, new(big.Int).SetUint64(uint64(recID)), nil
}

// RecoveryID implements Signer.
func (s *LondonSigner) RecoveryID(tx Transaction, v *big.Int) (byte, error) {
	if tx.Type() != DynamicFeeTxType {
		return s.EIP155Signer.RecoveryID(tx, v)
	}
	if v == nil {
		return 0, kiterr.ErrInvalidSignature
	}
	return recoveryByte(v)
}

// LatestSigner returns the most capable signer for chainID.
func LatestSigner(chainID *big.Int) (Signer, error) {
	return NewLondonSigner(chainID)
}

func splitSignature(sig []byte) (r, s *big.Int, recID byte, err error) {
	if len(sig) != ethcrypto.SignatureLength {
		return nil, nil, 0, kiterr.WithDetails(kiterr.ErrInvalidSignature, map[string]string{
			"length": strconv.Itoa(len(sig)),
		})
	}
	if sig[64] > 1 {
		return nil, nil, 0, kiterr.ErrInvalidSignature
	}
	r = new(big.Int).SetBytes(sig[:32])
	s = new(big.Int).SetBytes(sig[32:64])
	return r, s, sig[64], nil
}

func recoveryByte(rec *big.Int) (byte, error) {
	if !rec.IsUint64() || rec.Uint64() > 1 {
		return 0, kiterr.WithDetails(kiterr.ErrInvalidSignature, map[string]string{
			"reason": "v does not match chain ID",
		})
	}
	return byte(rec.Uint64()), nil
}

func unsupportedType(tx Transaction) error {
	return kiterr.WithDetails(kiterr.ErrTxTypeNotSupported, map[string]string{
		"type": strconv.Itoa(int(tx.Type())),
	})
}
