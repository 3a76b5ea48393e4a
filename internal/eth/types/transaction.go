// Package ethtypes provides Ethereum addresses, hashes, transactions and the
// signers that turn them into signed, broadcastable bytes.
package ethtypes

import (
	"math/big"
)

// Transaction types.
const (
	LegacyTxType     = 0x00
	DynamicFeeTxType = 0x02
)

// Transaction is an unsigned transaction body. It is implemented by LegacyTx and DynamicFeeTx.
type Transaction interface {
	// Type returns the EIP-2718 transaction type.
	Type() byte

	// fields returns the RLP list items of the body, excluding chain ID and signature.
	fields() []any
}

// LegacyTx represents a legacy (pre-EIP-1559) Ethereum transaction.
type LegacyTx struct {
	Nonce    uint64
	GasPrice *big.Int
	Gas      uint64
	To       *Address // nil for contract creation
	Value    *big.Int
	Data     []byte
}

// NewLegacyTx creates a new legacy transaction.
func NewLegacyTx(nonce uint64, to *Address, value *big.Int, gas uint64, gasPrice *big.Int, data []byte) *LegacyTx {
	return &LegacyTx{
		Nonce:    nonce,
		GasPrice: gasPrice,
		Gas:      gas,
		To:       to,
		Value:    value,
		Data:     data,
	}
}

// Type implements Transaction.
func (tx *LegacyTx) Type() byte { return LegacyTxType }

func (tx *LegacyTx) fields() []any {
	return []any{tx.Nonce, tx.GasPrice, tx.Gas, toField(tx.To), tx.Value, tx.Data}
}

// DynamicFeeTx represents an EIP-1559 transaction.
type DynamicFeeTx struct {
	Nonce      uint64
	GasTipCap  *big.Int // maxPriorityFeePerGas
	GasFeeCap  *big.Int // maxFeePerGas
	Gas        uint64
	To         *Address // nil for contract creation
	Value      *big.Int
	Data       []byte
	AccessList AccessList
}

// Type implements Transaction.
func (tx *DynamicFeeTx) Type() byte { return DynamicFeeTxType }

func (tx *DynamicFeeTx) fields() []any {
	return []any{tx.Nonce, tx.GasTipCap, tx.GasFeeCap, tx.Gas, toField(tx.To), tx.Value, tx.Data, tx.AccessList}
}

// toField encodes a missing recipient as the empty byte string.
func toField(to *Address) any {
	if to == nil {
		return []byte{}
	}
	return *to
}
