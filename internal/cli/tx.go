package cli

import (
	"encoding/hex"
	"math/big"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/mrz1836/ethkit/internal/config"
	"github.com/mrz1836/ethkit/internal/eth/abi"
	"github.com/mrz1836/ethkit/internal/eth/contract"
	ethcrypto "github.com/mrz1836/ethkit/internal/eth/crypto"
	ethtypes "github.com/mrz1836/ethkit/internal/eth/types"
	"github.com/mrz1836/ethkit/internal/eth/units"
	"github.com/mrz1836/ethkit/internal/metrics"
	"github.com/mrz1836/ethkit/internal/output"
	kiterr "github.com/mrz1836/ethkit/pkg/errors"
)

// defaultTransferGas is the gas of a plain value transfer.
const defaultTransferGas = 21000

// txFlags holds the transaction fields shared by tx sign and send.
type txFlags struct {
	txType         string
	nonce          uint64
	gas            uint64
	value          string
	gasPrice       string
	maxFee         string
	maxPriorityFee string
	chainID        int64
	key            string
}

func (f *txFlags) register(fs *pflag.FlagSet) {
	fs.StringVar(&f.txType, "type", "", "transaction type: legacy, dynamic (default: transaction.type from config)")
	fs.Uint64Var(&f.nonce, "nonce", 0, "sender nonce")
	fs.Uint64Var(&f.gas, "gas", 0, "gas limit")
	fs.StringVar(&f.value, "value", "", "amount to transfer, e.g. 1000, 0x3e8, 20gwei or 1.5ether")
	fs.StringVar(&f.gasPrice, "gas-price", "", "legacy gas price, e.g. 20gwei")
	fs.StringVar(&f.maxFee, "max-fee", "", "EIP-1559 max fee per gas, e.g. 30gwei")
	fs.StringVar(&f.maxPriorityFee, "max-priority-fee", "", "EIP-1559 max priority fee per gas, e.g. 1gwei")
	fs.Int64Var(&f.chainID, "chain-id", 0, "chain ID for replay protection (default: network.chain_id from config)")
	fs.StringVar(&f.key, "key", "", "hex private key (default: "+EnvPrivateKey+" or a hidden prompt)")
}

// resolvedType picks the transaction type: the flag, then legacy when only a
// gas price is given, then the configured default.
func (f *txFlags) resolvedType(c *config.Config) (string, error) {
	t := f.txType
	if t == "" && f.gasPrice != "" && f.maxFee == "" && f.maxPriorityFee == "" {
		t = config.TxTypeLegacy
	}
	if t == "" {
		t = c.Transaction.Type
	}
	if t != config.TxTypeLegacy && t != config.TxTypeDynamic {
		return "", kiterr.WithDetails(kiterr.ErrTxTypeNotSupported, map[string]string{
			"type":  t,
			"valid": "legacy, dynamic",
		})
	}
	return t, nil
}

// options converts the fee flags for txType into transaction options.
func (f *txFlags) options(txType string) (contract.TransactionOptions, error) {
	opts := contract.TransactionOptions{Nonce: f.nonce, Gas: f.gas}

	var err error
	if opts.Value, err = parseAmount("value", f.value); err != nil {
		return opts, err
	}

	if txType == config.TxTypeLegacy {
		opts.GasPrice, err = parseAmount("gas-price", f.gasPrice)
		return opts, err
	}

	if opts.MaxFeePerGas, err = parseAmount("max-fee", f.maxFee); err != nil {
		return opts, err
	}
	opts.MaxPriorityFeePerGas, err = parseAmount("max-priority-fee", f.maxPriorityFee)
	return opts, err
}

// txCmd is the parent command for transaction operations.
//
//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var txCmd = &cobra.Command{
	Use:   "tx",
	Short: "Build and sign transactions",
}

// txSignCmd signs a transaction offline.
//
//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var txSignCmd = &cobra.Command{
	Use:   "sign [method-args...]",
	Short: "Sign a transaction offline",
	Long: `Build and sign a legacy or EIP-1559 transaction without contacting a node.

Call data comes from --data, or from --method and its positional arguments.
Without --to the transaction creates a contract.

Example:
  ethkit tx sign --to 0x... --value 1000000000000000 --nonce 0 \
    --max-fee 30000000000 --max-priority-fee 1000000000
  ethkit tx sign --to 0x... --method "approve(address,uint256)" 0x... 1000 \
    --gas 60000 --gas-price 20000000000`,
	RunE: runTxSign,
}

//nolint:gochecknoglobals // Cobra CLI pattern requires package-level flag variables
var (
	signFlags  txFlags
	signTo     string
	signData   string
	signMethod string
)

//nolint:gochecknoinits // Cobra CLI pattern requires init for command registration
func init() {
	rootCmd.AddCommand(txCmd)
	txCmd.AddCommand(txSignCmd)

	signFlags.register(txSignCmd.Flags())
	txSignCmd.Flags().StringVar(&signTo, "to", "", "recipient address (omit to create a contract)")
	txSignCmd.Flags().StringVar(&signData, "data", "", "call data as 0x-hex")
	txSignCmd.Flags().StringVar(&signMethod, "method", "", "method signature to encode positional arguments with")
	txSignCmd.MarkFlagsMutuallyExclusive("data", "method")
}

// signedTxResult describes a signed transaction.
type signedTxResult struct {
	Type    string `json:"type"`
	ChainID string `json:"chain_id"`
	From    string `json:"from"`
	To      string `json:"to,omitempty"`
	Nonce   uint64 `json:"nonce"`
	Value   string `json:"value"`
	Hash    string `json:"hash"`
	Raw     string `json:"raw"`
}

func runTxSign(cmd *cobra.Command, args []string) error {
	if signMethod == "" && len(args) > 0 {
		return kiterr.WithSuggestion(
			kiterr.WithDetails(kiterr.ErrInvalidInput, map[string]string{"reason": "positional arguments need --method"}),
			"pass --method with the function signature, or --data with encoded call data",
		)
	}

	var to *ethtypes.Address
	if signTo != "" {
		addr, err := parseAddressArg("to", signTo)
		if err != nil {
			return err
		}
		to = &addr
	}

	data, err := signCallData(args)
	if err != nil {
		return err
	}

	txType, err := signFlags.resolvedType(cfg)
	if err != nil {
		return err
	}
	opts, err := signFlags.options(txType)
	if err != nil {
		return err
	}
	if opts.Gas == 0 {
		opts.Gas = defaultTransferGas
	}

	tx, err := contract.NewTransaction(to, data, opts)
	if err != nil {
		return err
	}

	signer, err := cmdCtx.Signer(signFlags.chainID)
	if err != nil {
		return err
	}
	key, err := loadPrivateKey(cmd, signFlags.key)
	if err != nil {
		return err
	}
	defer key.Zero()

	stx, err := ethtypes.SignTx(tx, signer, key)
	metrics.Global.RecordSign(err)
	if err != nil {
		return err
	}

	cmdCtx.Log(cmd).WithField("type", txType).Debugf("signed transaction nonce=%d", opts.Nonce)
	return printSignedTx(stx, signer, key, to, opts, txType)
}

// signCallData returns --data, or the --method call encoded from args.
func signCallData(args []string) ([]byte, error) {
	if signMethod == "" {
		if signData == "" {
			return nil, nil
		}
		return ethtypes.FromHex(signData)
	}

	method, err := abi.ParseMethod(signMethod)
	if err != nil {
		return nil, err
	}
	values, err := abi.ParseValues(method.Inputs, args)
	if err != nil {
		return nil, err
	}
	return method.EncodeCall(values...)
}

func printSignedTx(
	stx *ethtypes.SignedTx,
	signer ethtypes.Signer,
	key *ethcrypto.PrivateKey,
	to *ethtypes.Address,
	opts contract.TransactionOptions,
	txType string,
) error {
	raw, err := stx.RawHex()
	if err != nil {
		return err
	}
	hash, err := stx.Hash()
	if err != nil {
		return err
	}

	result := signedTxResult{
		Type:    txType,
		ChainID: signer.ChainID().String(),
		From:    ethtypes.BytesToAddress(key.Address()).Checksum(),
		Nonce:   opts.Nonce,
		Value:   bigOrZero(opts.Value).String(),
		Hash:    hash.Hex(),
		Raw:     raw,
	}
	if to != nil {
		result.To = to.Checksum()
	}

	if formatter.IsJSON() {
		return formatter.Print(result)
	}

	tbl := output.NewTable("FIELD", "VALUE")
	tbl.AddRow("type", result.Type)
	tbl.AddRow("chain_id", result.ChainID)
	tbl.AddRow("from", result.From)
	if result.To != "" {
		tbl.AddRow("to", result.To)
	}
	tbl.AddRow("nonce", strconv.FormatUint(result.Nonce, 10))
	tbl.AddRow("value", units.Format(opts.Value, units.Ether)+" ETH")
	tbl.AddRow("hash", result.Hash)
	tbl.AddRow("raw", result.Raw)
	return tbl.Render(formatter.Writer())
}

// hexData renders b as 0x-hex.
func hexData(b []byte) string {
	return "0x" + hex.EncodeToString(b)
}

// bigOrZero returns n, or zero when n is nil.
func bigOrZero(n *big.Int) *big.Int {
	if n == nil {
		return new(big.Int)
	}
	return n
}
