package rpc

import (
	"encoding/hex"
	"encoding/json"
	"math/big"
	"strconv"
	"strings"

	ethtypes "github.com/mrz1836/ethkit/internal/eth/types"
)

// BlockTag selects the state a read is evaluated against.
type BlockTag string

// Named block tags.
const (
	Latest   BlockTag = "latest"
	Earliest BlockTag = "earliest"
	Pending  BlockTag = "pending"
)

// BlockNumber returns the tag for block n.
func BlockNumber(n uint64) BlockTag {
	return BlockTag("0x" + strconv.FormatUint(n, 16))
}

func (b BlockTag) orDefault(def BlockTag) BlockTag {
	if b == "" {
		return def
	}
	return b
}

// EncodeQuantity renders n as a JSON-RPC quantity: minimal 0x-hex, "0x0" for zero or nil.
func EncodeQuantity(n *big.Int) string {
	if n == nil || n.Sign() == 0 {
		return "0x0"
	}
	return "0x" + n.Text(16)
}

// EncodeUint64 renders n as a JSON-RPC quantity.
func EncodeUint64(n uint64) string {
	return "0x" + strconv.FormatUint(n, 16)
}

// CallMsg is the call object of eth_call and eth_estimateGas.
type CallMsg struct {
	From     *ethtypes.Address
	To       *ethtypes.Address
	Gas      uint64
	GasPrice *big.Int
	Value    *big.Int
	Data     []byte
}

// MarshalJSON renders the call object with quantities in 0x-hex and unset fields omitted.
func (m CallMsg) MarshalJSON() ([]byte, error) {
	type callMsgJSON struct {
		From     string `json:"from,omitempty"`
		To       string `json:"to,omitempty"`
		Gas      string `json:"gas,omitempty"`
		GasPrice string `json:"gasPrice,omitempty"`
		Value    string `json:"value,omitempty"`
		Data     string `json:"data,omitempty"`
	}

	var msg callMsgJSON
	if m.From != nil {
		msg.From = m.From.Hex()
	}
	if m.To != nil {
		msg.To = m.To.Hex()
	}
	if m.Gas > 0 {
		msg.Gas = EncodeUint64(m.Gas)
	}
	if m.GasPrice != nil {
		msg.GasPrice = EncodeQuantity(m.GasPrice)
	}
	if m.Value != nil {
		msg.Value = EncodeQuantity(m.Value)
	}
	if len(m.Data) > 0 {
		msg.Data = "0x" + hex.EncodeToString(m.Data)
	}

	return json.Marshal(msg)
}

// decodeQuantity parses a 0x-hex quantity. An empty body is zero.
func decodeQuantity(s string) (*big.Int, bool) {
	s = strings.TrimPrefix(s, "0x")
	if s == "" {
		return new(big.Int), true
	}
	return new(big.Int).SetString(s, 16)
}
