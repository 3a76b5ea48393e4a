package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math/big"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mrz1836/ethkit/internal/eth/rlp"
	ethtypes "github.com/mrz1836/ethkit/internal/eth/types"
	"github.com/mrz1836/ethkit/internal/metrics"
	kiterr "github.com/mrz1836/ethkit/pkg/errors"
)

// rlpCmd is the parent command for RLP operations.
//
//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var rlpCmd = &cobra.Command{
	Use:   "rlp",
	Short: "Encode RLP data",
	Long:  `Encode values with Recursive Length Prefix serialization.`,
}

// rlpEncodeCmd encodes a JSON value.
//
//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var rlpEncodeCmd = &cobra.Command{
	Use:   "encode <json>",
	Short: "Encode a JSON value as RLP",
	Long: `Encode a JSON value as RLP.

Arrays become lists, integers become minimal big-endian byte strings,
"0x"-prefixed strings become the bytes they spell, and other strings
become their UTF-8 bytes.

Example:
  ethkit rlp encode '"dog"'
  ethkit rlp encode '["cat","dog"]'
  ethkit rlp encode '[1024, "0x0400", []]'`,
	Args: cobra.ExactArgs(1),
	RunE: runRLPEncode,
}

//nolint:gochecknoinits // Cobra CLI pattern requires init for command registration
func init() {
	rootCmd.AddCommand(rlpCmd)
	rlpCmd.AddCommand(rlpEncodeCmd)
}

type rlpEncodeResult struct {
	Data string `json:"data"`
}

func runRLPEncode(cmd *cobra.Command, args []string) error {
	item, err := parseRLPJSON(args[0])
	if err != nil {
		return err
	}

	encoded, err := rlp.EncodeToHex(item)
	metrics.Global.RecordEncode(metrics.CodecRLP, err)
	if err != nil {
		return err
	}

	cmdCtx.Log(cmd).Debugf("encoded %d bytes", (len(encoded)-2)/2)
	return formatter.Emit(encoded, rlpEncodeResult{Data: encoded})
}

// parseRLPJSON decodes s into values the RLP encoder accepts.
func parseRLPJSON(s string) (any, error) {
	dec := json.NewDecoder(bytes.NewReader([]byte(s)))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, kiterr.WithDetails(kiterr.ErrInvalidInput, map[string]string{
			"input":  s,
			"reason": "invalid JSON: " + err.Error(),
		})
	}
	if dec.More() {
		return nil, kiterr.WithDetails(kiterr.ErrInvalidInput, map[string]string{
			"input":  s,
			"reason": "trailing data after JSON value",
		})
	}
	return toRLPItem(v)
}

func toRLPItem(v any) (any, error) {
	switch x := v.(type) {
	case nil, bool:
		return x, nil
	case json.Number:
		n, ok := new(big.Int).SetString(x.String(), 10)
		if !ok {
			return nil, kiterr.WithDetails(kiterr.ErrInvalidInput, map[string]string{
				"value":  x.String(),
				"reason": "only integers can be RLP encoded",
			})
		}
		return n, nil
	case string:
		if strings.HasPrefix(x, "0x") || strings.HasPrefix(x, "0X") {
			return ethtypes.FromHex(x)
		}
		return x, nil
	case []any:
		items := make([]any, len(x))
		for i, elem := range x {
			item, err := toRLPItem(elem)
			if err != nil {
				return nil, err
			}
			items[i] = item
		}
		return items, nil
	default:
		return nil, kiterr.WithDetails(kiterr.ErrInvalidInput, map[string]string{
			"type":   fmt.Sprintf("%T", v),
			"reason": "JSON objects cannot be RLP encoded",
		})
	}
}
