// Package contract builds and submits contract calls: call data from an ABI
// method, the transaction that carries it, and the read or write against a node.
package contract

import (
	"math/big"

	"github.com/mrz1836/ethkit/internal/eth/abi"
	ethtypes "github.com/mrz1836/ethkit/internal/eth/types"
	kiterr "github.com/mrz1836/ethkit/pkg/errors"
)

// TransactionOptions carries the caller-chosen fields of a contract transaction.
// Setting GasPrice selects a legacy transaction; otherwise both
// MaxPriorityFeePerGas and MaxFeePerGas select an EIP-1559 transaction.
type TransactionOptions struct {
	Nonce                uint64
	GasPrice             *big.Int
	MaxPriorityFeePerGas *big.Int
	MaxFeePerGas         *big.Int
	Gas                  uint64
	Value                *big.Int
	AccessList           ethtypes.AccessList
}

// IsLegacy reports whether the options select a legacy transaction.
func (o TransactionOptions) IsLegacy() bool {
	return o.GasPrice != nil
}

// MakeTransaction encodes a call of method with args and wraps it in a
// transaction to the contract at to. A nil Value is zero.
func MakeTransaction(to ethtypes.Address, method abi.Method, opts TransactionOptions, args ...abi.Value) (ethtypes.Transaction, error) {
	data, err := method.EncodeCall(args...)
	if err != nil {
		return nil, err
	}
	return NewTransaction(&to, data, opts)
}

// NewTransaction wraps data in a transaction to to, choosing the transaction
// type from opts. A nil to creates a contract.
func NewTransaction(to *ethtypes.Address, data []byte, opts TransactionOptions) (ethtypes.Transaction, error) {
	value := opts.Value
	if value == nil {
		value = new(big.Int)
	}

	switch {
	case opts.GasPrice != nil:
		return ethtypes.NewLegacyTx(opts.Nonce, to, value, opts.Gas, opts.GasPrice, data), nil
	case opts.MaxPriorityFeePerGas != nil && opts.MaxFeePerGas != nil:
		return &ethtypes.DynamicFeeTx{
			Nonce:      opts.Nonce,
			GasTipCap:  opts.MaxPriorityFeePerGas,
			GasFeeCap:  opts.MaxFeePerGas,
			Gas:        opts.Gas,
			To:         to,
			Value:      value,
			Data:       data,
			AccessList: opts.AccessList,
		}, nil
	default:
		return nil, kiterr.WithSuggestion(
			kiterr.WithDetails(kiterr.ErrInvalidTransactionOptions, map[string]string{
				"reason": "no valid gas price option",
			}),
			"set a gas price, or both a max priority fee and a max fee per gas",
		)
	}
}
