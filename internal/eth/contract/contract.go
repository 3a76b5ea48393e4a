package contract

import (
	"context"

	"github.com/mrz1836/ethkit/internal/eth/abi"
	ethcrypto "github.com/mrz1836/ethkit/internal/eth/crypto"
	"github.com/mrz1836/ethkit/internal/eth/rpc"
	ethtypes "github.com/mrz1836/ethkit/internal/eth/types"
	"github.com/mrz1836/ethkit/internal/metrics"
	kiterr "github.com/mrz1836/ethkit/pkg/errors"
)

// Backend is the node access a Contract needs. *rpc.Client implements it.
type Backend interface {
	CallContract(ctx context.Context, msg rpc.CallMsg, block rpc.BlockTag) ([]byte, error)
	SendRawTransaction(ctx context.Context, raw []byte) (ethtypes.Hash, error)
}

var _ Backend = (*rpc.Client)(nil)

// Contract is a deployed contract reached through a Backend.
type Contract struct {
	Address ethtypes.Address
	Backend Backend
}

// New returns a contract at addr.
func New(addr ethtypes.Address, backend Backend) *Contract {
	return &Contract{Address: addr, Backend: backend}
}

// Call executes method read-only against block and decodes its outputs.
func (c *Contract) Call(ctx context.Context, method abi.Method, block rpc.BlockTag, args ...abi.Value) ([]abi.Value, error) {
	data, err := method.EncodeCall(args...)
	if err != nil {
		return nil, err
	}

	to := c.Address
	out, err := c.Backend.CallContract(ctx, rpc.CallMsg{To: &to, Data: data}, block)
	if err != nil {
		return nil, kiterr.Wrap(err, "calling %s", method.Signature())
	}

	return method.DecodeOutput(out)
}

// Transact builds the transaction for method, signs it with key and submits
// it. It returns the signed transaction and the hash reported by the node.
func (c *Contract) Transact(
	ctx context.Context,
	method abi.Method,
	opts TransactionOptions,
	signer ethtypes.Signer,
	key *ethcrypto.PrivateKey,
	args ...abi.Value,
) (*ethtypes.SignedTx, ethtypes.Hash, error) {
	tx, err := MakeTransaction(c.Address, method, opts, args...)
	if err != nil {
		return nil, ethtypes.Hash{}, err
	}

	stx, err := ethtypes.SignTx(tx, signer, key)
	metrics.Global.RecordSign(err)
	if err != nil {
		return nil, ethtypes.Hash{}, err
	}

	raw, err := stx.MarshalBinary()
	if err != nil {
		return nil, ethtypes.Hash{}, err
	}

	hash, err := c.Backend.SendRawTransaction(ctx, raw)
	if err != nil {
		return stx, ethtypes.Hash{}, kiterr.Wrap(err, "sending %s", method.Signature())
	}
	return stx, hash, nil
}
