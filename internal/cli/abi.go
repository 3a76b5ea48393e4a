package cli

import (
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mrz1836/ethkit/internal/eth/abi"
	ethtypes "github.com/mrz1836/ethkit/internal/eth/types"
)

// abiCmd is the parent command for ABI operations.
//
//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var abiCmd = &cobra.Command{
	Use:   "abi",
	Short: "Encode and decode ABI data",
	Long:  `Encode values to the Ethereum contract ABI and decode ABI data back to values.`,
}

// abiEncodeCmd encodes values.
//
//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var abiEncodeCmd = &cobra.Command{
	Use:   "encode <types> [values...]",
	Short: "Encode values as an ABI tuple",
	Long: `Encode one value per type as an ABI tuple.

Types are comma separated. Tuples use parentheses and dynamic arrays a
trailing []. Integers accept decimal or 0x-hex, bytes accept 0x-hex, and
arrays and tuples accept a JSON array.

Example:
  ethkit abi encode "address,uint256" 0xb9084d9c8a70b8ecd2b6878cef735f11b060de32 1000
  ethkit abi encode "string[]" '["a","b"]'
  ethkit abi encode "(string,uint8)" '["dave",7]'`,
	Args: cobra.MinimumNArgs(1),
	RunE: runABIEncode,
}

// abiDecodeCmd decodes ABI data.
//
//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var abiDecodeCmd = &cobra.Command{
	Use:   "decode <types|signature> <hex>",
	Short: "Decode ABI data",
	Long: `Decode ABI data as a tuple of the given types.

With --call the first argument is a method signature and the data is call
data starting with that method's selector.

Example:
  ethkit abi decode "uint256,bool" 0x...
  ethkit abi decode --call "transfer(address,uint256)" 0xa9059cbb...`,
	Args: cobra.ExactArgs(2),
	RunE: runABIDecode,
}

//nolint:gochecknoglobals // Cobra CLI pattern requires package-level flag variables
var abiDecodeCall bool

//nolint:gochecknoinits // Cobra CLI pattern requires init for command registration
func init() {
	rootCmd.AddCommand(abiCmd)
	abiCmd.AddCommand(abiEncodeCmd)
	abiCmd.AddCommand(abiDecodeCmd)

	abiDecodeCmd.Flags().BoolVar(&abiDecodeCall, "call", false, "decode call data against a method signature")
}

type abiEncodeResult struct {
	Types []string `json:"types"`
	Data  string   `json:"data"`
}

type abiDecodeResult struct {
	Types  []string `json:"types"`
	Values []any    `json:"values"`
}

func runABIEncode(cmd *cobra.Command, args []string) error {
	types, err := abi.ParseTypes(args[0])
	if err != nil {
		return err
	}

	values, err := abi.ParseValues(types, args[1:])
	if err != nil {
		return err
	}

	data, err := abi.EncodeArgs(values...)
	if err != nil {
		return err
	}

	cmdCtx.Log(cmd).Debugf("encoded %d values into %d bytes", len(values), len(data))

	encoded := "0x" + hex.EncodeToString(data)
	return formatter.Emit(encoded, abiEncodeResult{Types: typeNames(types), Data: encoded})
}

func runABIDecode(cmd *cobra.Command, args []string) error {
	data, err := ethtypes.FromHex(args[1])
	if err != nil {
		return err
	}

	var (
		types  []abi.Type
		values []abi.Value
	)
	if abiDecodeCall {
		method, parseErr := abi.ParseMethod(args[0])
		if parseErr != nil {
			return parseErr
		}
		types = method.Inputs
		values, err = method.DecodeInput(data)
	} else {
		types, err = abi.ParseTypes(args[0])
		if err != nil {
			return err
		}
		values, err = abi.DecodeArgs(data, types...)
	}
	if err != nil {
		return err
	}

	cmdCtx.Log(cmd).Debugf("decoded %d values from %d bytes", len(values), len(data))

	formatted := abi.FormatAll(values)
	if formatter.IsJSON() {
		return formatter.Print(abiDecodeResult{Types: typeNames(types), Values: formatted})
	}

	w := formatter.Writer()
	for _, v := range formatted {
		outln(w, textValue(v))
	}
	return nil
}

func typeNames(types []abi.Type) []string {
	names := make([]string, len(types))
	for i, t := range types {
		names[i] = t.String()
	}
	return names
}

// textValue renders a formatted value on one line: scalars as themselves,
// arrays and tuples as compact JSON.
func textValue(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case bool:
		return fmt.Sprintf("%t", x)
	default:
		b, err := json.Marshal(x)
		if err != nil {
			return fmt.Sprintf("%v", x)
		}
		return string(b)
	}
}
