package cli

import (
	"strings"

	"github.com/spf13/cobra"

	ethcrypto "github.com/mrz1836/ethkit/internal/eth/crypto"
	ethtypes "github.com/mrz1836/ethkit/internal/eth/types"
	"github.com/mrz1836/ethkit/internal/output"
	kiterr "github.com/mrz1836/ethkit/pkg/errors"
)

// addressCmd is the parent command for address operations.
//
//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var addressCmd = &cobra.Command{
	Use:   "address",
	Short: "Inspect Ethereum addresses",
}

// addressChecksumCmd renders an address with EIP-55 casing.
//
//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var addressChecksumCmd = &cobra.Command{
	Use:   "checksum <address>",
	Short: "Print an address with EIP-55 checksum casing",
	Long: `Print an address with EIP-55 checksum casing.

Mixed-case input is also verified against its checksum. With --strict a
failed verification is an error; otherwise it is reported as a warning.

Example:
  ethkit address checksum 0x5aaeb6053f3e94c9b9a09f33669435e7ef1beaed`,
	Args: cobra.ExactArgs(1),
	RunE: runAddressChecksum,
}

//nolint:gochecknoglobals // Cobra CLI pattern requires package-level flag variables
var addressStrict bool

//nolint:gochecknoinits // Cobra CLI pattern requires init for command registration
func init() {
	rootCmd.AddCommand(addressCmd)
	addressCmd.AddCommand(addressChecksumCmd)

	addressChecksumCmd.Flags().BoolVar(&addressStrict, "strict", false, "fail when mixed-case input has a wrong checksum")
}

type addressResult struct {
	Input         string `json:"input"`
	Address       string `json:"address"`
	Lowercase     string `json:"lowercase"`
	ChecksumValid bool   `json:"checksum_valid"`
}

func runAddressChecksum(cmd *cobra.Command, args []string) error {
	input := strings.TrimSpace(args[0])
	body := strings.TrimPrefix(strings.TrimPrefix(input, "0x"), "0X")
	if len(body) != ethtypes.AddressLength*2 {
		return kiterr.WithDetails(kiterr.ErrInvalidAddress, map[string]string{
			"input":  input,
			"reason": "expected 40 hex digits",
		})
	}

	addr, err := ethtypes.ParseAddress(body)
	if err != nil {
		return err
	}

	valid := ethcrypto.IsChecksumValid(body)
	if !valid {
		if addressStrict {
			return kiterr.WithSuggestion(
				kiterr.WithDetails(kiterr.ErrInvalidChecksum, map[string]string{"input": input}),
				"expected "+addr.Checksum(),
			)
		}
		output.Warnf(cmd.ErrOrStderr(), "%s does not match its EIP-55 checksum", input)
	}

	return formatter.Emit(addr.Checksum(), addressResult{
		Input:         input,
		Address:       addr.Checksum(),
		Lowercase:     addr.Hex(),
		ChecksumValid: valid,
	})
}
