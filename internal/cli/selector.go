package cli

import (
	"github.com/spf13/cobra"

	"github.com/mrz1836/ethkit/internal/eth/abi"
)

// selectorCmd computes a function selector.
//
//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var selectorCmd = &cobra.Command{
	Use:   "selector <signature>",
	Short: "Compute a function selector",
	Long: `Compute the 4-byte selector of a function signature.

The signature is canonicalized first, so "transfer(address, uint)" and
"transfer(address,uint256)" give the same selector. Return types are
accepted and ignored.

Example:
  ethkit selector "transfer(address,uint256)"
  ethkit selector "balanceOf(address)(uint256)"`,
	Args: cobra.ExactArgs(1),
	RunE: runSelector,
}

//nolint:gochecknoinits // Cobra CLI pattern requires init for command registration
func init() {
	rootCmd.AddCommand(selectorCmd)
}

type selectorResult struct {
	Signature string `json:"signature"`
	Selector  string `json:"selector"`
}

func runSelector(_ *cobra.Command, args []string) error {
	method, err := abi.ParseMethod(args[0])
	if err != nil {
		return err
	}

	return formatter.Emit(method.IDHex(), selectorResult{
		Signature: method.Signature(),
		Selector:  method.IDHex(),
	})
}
