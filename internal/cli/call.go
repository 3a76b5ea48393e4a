package cli

import (
	"github.com/spf13/cobra"

	"github.com/mrz1836/ethkit/internal/eth/abi"
	"github.com/mrz1836/ethkit/internal/eth/contract"
	"github.com/mrz1836/ethkit/internal/eth/rpc"
)

// callCmd runs a read-only contract call.
//
//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var callCmd = &cobra.Command{
	Use:   "call <contract> <signature> [args...]",
	Short: "Call a contract method without sending a transaction",
	Long: `Call a contract method through eth_call and decode its result.

Output types follow the signature, as in "balanceOf(address)(uint256)".
Without output types the raw return data is printed.

Example:
  ethkit call 0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48 "decimals()(uint8)"
  ethkit call 0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48 \
    "balanceOf(address)(uint256)" 0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed --block 19000000`,
	Args: cobra.MinimumNArgs(2),
	RunE: runCall,
}

//nolint:gochecknoglobals // Cobra CLI pattern requires package-level flag variables
var (
	callRPC   string
	callBlock string
)

//nolint:gochecknoinits // Cobra CLI pattern requires init for command registration
func init() {
	rootCmd.AddCommand(callCmd)

	callCmd.Flags().StringVar(&callRPC, "rpc", "", "JSON-RPC endpoint (default: network.rpc from config)")
	callCmd.Flags().StringVar(&callBlock, "block", "latest", "block: latest, earliest, pending or a number")
}

type callResult struct {
	Contract  string   `json:"contract"`
	Signature string   `json:"signature"`
	Block     string   `json:"block"`
	Types     []string `json:"types,omitempty"`
	Values    []any    `json:"values,omitempty"`
	Data      string   `json:"data,omitempty"`
}

func runCall(cmd *cobra.Command, args []string) error {
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
	block, err := parseBlockTag(callBlock)
	if err != nil {
		return err
	}

	client, err := cmdCtx.Client(callRPC)
	if err != nil {
		return err
	}
	defer client.Close()

	ctx, cancel := contextWithTimeout(cmd, rpc.DefaultTimeout)
	defer cancel()

	result := callResult{Contract: addr.Checksum(), Signature: method.Signature(), Block: string(block)}
	log := cmdCtx.Log(cmd).WithField("contract", result.Contract)

	if len(method.Outputs) == 0 {
		data, encErr := method.EncodeCall(values...)
		if encErr != nil {
			return encErr
		}
		raw, callErr := client.CallContract(ctx, rpc.CallMsg{To: &addr, Data: data}, block)
		if callErr != nil {
			return callErr
		}
		log.Debugf("%s returned %d bytes", result.Signature, len(raw))
		result.Data = hexData(raw)
		return formatter.Emit(result.Data, result)
	}

	outputs, err := contract.New(addr, client).Call(ctx, method, block, values...)
	if err != nil {
		return err
	}
	log.Debugf("%s returned %d values", result.Signature, len(outputs))

	result.Types = typeNames(method.Outputs)
	result.Values = abi.FormatAll(outputs)
	if formatter.IsJSON() {
		return formatter.Print(result)
	}

	w := formatter.Writer()
	for _, v := range result.Values {
		outln(w, textValue(v))
	}
	return nil
}
