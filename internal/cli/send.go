package cli

import (
	"context"
	"math/big"

	"github.com/spf13/cobra"

	"github.com/mrz1836/ethkit/internal/config"
	"github.com/mrz1836/ethkit/internal/eth/abi"
	"github.com/mrz1836/ethkit/internal/eth/contract"
	"github.com/mrz1836/ethkit/internal/eth/rpc"
	ethtypes "github.com/mrz1836/ethkit/internal/eth/types"
	kiterr "github.com/mrz1836/ethkit/pkg/errors"
)

// sendCmd signs and submits a contract transaction.
//
//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var sendCmd = &cobra.Command{
	Use:   "send <contract> <signature> [args...]",
	Short: "Sign and send a contract transaction",
	Long: `Encode a contract call, sign it and submit it with eth_sendRawTransaction.

Fields not given on the command line are filled from the node: the nonce
from the pending transaction count, the fees from eth_gasPrice and
eth_maxPriorityFeePerGas, and the gas limit from eth_estimateGas.

Example:
  ethkit send 0x... "approve(address,uint256)" 0x... 1000
  ethkit send 0x... "transfer(address,uint256)" 0x... 5 --type legacy --gas-price 20000000000`,
	Args: cobra.MinimumNArgs(2),
	RunE: runSend,
}

//nolint:gochecknoglobals // Cobra CLI pattern requires package-level flag variables
var (
	sendFlags txFlags
	sendRPC   string
	sendSpeed string
)

//nolint:gochecknoinits // Cobra CLI pattern requires init for command registration
func init() {
	rootCmd.AddCommand(sendCmd)

	sendFlags.register(sendCmd.Flags())
	sendCmd.Flags().StringVar(&sendRPC, "rpc", "", "JSON-RPC endpoint (default: network.rpc from config)")
	sendCmd.Flags().StringVar(&sendSpeed, "speed", "medium", "scale node gas prices: slow (80%), medium or fast (120%)")
}

func runSend(cmd *cobra.Command, args []string) error {
	addr, err := parseAddressArg("contract", args[0])
	if err != nil {
		return err
	}
	method, err := abi.ParseMethod(args[1])
	if err != nil {
		return err
	}
	values, err := abi.ParseValues(method.Inputs, args[2:])
	if err != nil {
		return err
	}

	txType, err := sendFlags.resolvedType(cfg)
	if err != nil {
		return err
	}
	opts, err := sendFlags.options(txType)
	if err != nil {
		return err
	}
	speed, err := contract.ParseGasSpeed(sendSpeed)
	if err != nil {
		return err
	}

	key, err := loadPrivateKey(cmd, sendFlags.key)
	if err != nil {
		return err
	}
	defer key.Zero()
	from := ethtypes.BytesToAddress(key.Address())

	client, err := cmdCtx.Client(sendRPC)
	if err != nil {
		return err
	}
	defer client.Close()

	ctx, cancel := contextWithTimeout(cmd, rpc.DefaultTimeout)
	defer cancel()

	signer, err := sendSigner(ctx, client)
	if err != nil {
		return err
	}

	data, err := method.EncodeCall(values...)
	if err != nil {
		return err
	}
	if err = fillOptions(ctx, cmd, client, &opts, txType, speed, rpc.CallMsg{From: &from, To: &addr, Value: opts.Value, Data: data}); err != nil {
		return err
	}

	stx, hash, err := contract.New(addr, client).Transact(ctx, method, opts, signer, key, values...)
	if err != nil {
		return err
	}

	cmdCtx.Log(cmd).WithField("hash", hash.Hex()).Debugf("sent %s nonce=%d gas=%d", method.Signature(), opts.Nonce, opts.Gas)
	return printSignedTx(stx, signer, key, &addr, opts, txType)
}

// sendSigner returns the signer for --chain-id, or for the configured chain
// after checking that the node serves that chain.
func sendSigner(ctx context.Context, client *rpc.Client) (ethtypes.Signer, error) {
	if sendFlags.chainID != 0 {
		return cmdCtx.Signer(sendFlags.chainID)
	}

	nodeChain, err := client.ChainID(ctx)
	if err != nil {
		return nil, err
	}
	want := big.NewInt(cfg.GetChainID())
	if nodeChain.Cmp(want) != 0 {
		return nil, kiterr.WithSuggestion(
			kiterr.WithDetails(kiterr.ErrInvalidChainID, map[string]string{
				"configured": want.String(),
				"node":       nodeChain.String(),
				"reason":     "node serves a different chain",
			}),
			"pass --chain-id or point network.rpc at the configured chain",
		)
	}
	return cmdCtx.Signer(0)
}

// fillOptions completes the nonce, fees and gas limit the user left unset.
// Gas prices read from the node are scaled by speed.
func fillOptions(
	ctx context.Context,
	cmd *cobra.Command,
	client *rpc.Client,
	opts *contract.TransactionOptions,
	txType string,
	speed contract.GasSpeed,
	msg rpc.CallMsg,
) error {
	var err error
	if !cmd.Flags().Changed("nonce") {
		if opts.Nonce, err = client.GetTransactionCount(ctx, *msg.From, rpc.Pending); err != nil {
			return err
		}
	}

	if txType == config.TxTypeLegacy {
		if opts.GasPrice == nil {
			gasPrice, priceErr := client.GasPrice(ctx)
			if priceErr != nil {
				return priceErr
			}
			opts.GasPrice = speed.Apply(gasPrice)
		}
	} else {
		if opts.MaxPriorityFeePerGas == nil {
			if opts.MaxPriorityFeePerGas, err = client.MaxPriorityFeePerGas(ctx); err != nil {
				return err
			}
		}
		if opts.MaxFeePerGas == nil {
			gasPrice, priceErr := client.GasPrice(ctx)
			if priceErr != nil {
				return priceErr
			}
			// maxFee = 2*gasPrice + tip
			opts.MaxFeePerGas = new(big.Int).Add(new(big.Int).Lsh(speed.Apply(gasPrice), 1), opts.MaxPriorityFeePerGas)
		}
	}

	if opts.Gas == 0 {
		msg.Value = bigOrZero(msg.Value)
		if opts.Gas, err = client.EstimateGas(ctx, msg); err != nil {
			return err
		}
	}
	return nil
}
