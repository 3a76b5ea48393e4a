package abi

import (
	"encoding/hex"
	"strconv"
	"strings"

	ethcrypto "github.com/mrz1836/ethkit/internal/eth/crypto"
	kiterr "github.com/mrz1836/ethkit/pkg/errors"
)

// SelectorLength is the size of a function selector.
const SelectorLength = 4

// Selector returns the first four bytes of keccak256(signature), where
// signature is a canonical form such as "transfer(address,uint256)".
func Selector(signature string) [SelectorLength]byte {
	var sel [SelectorLength]byte
	copy(sel[:], ethcrypto.Keccak256([]byte(signature)))
	return sel
}

// Method describes a contract function.
type Method struct {
	Name    string
	Inputs  []Type
	Outputs []Type
}

// NewMethod returns a method with the given input types.
func NewMethod(name string, inputs ...Type) Method {
	return Method{Name: name, Inputs: inputs}
}

// Returning sets the method's output types.
func (m Method) Returning(outputs ...Type) Method {
	m.Outputs = outputs
	return m
}

// ParseMethod parses "name(inputs)" with optional outputs given as
// "name(inputs)(outputs)" or "name(inputs) returns (outputs)".
func ParseMethod(s string) (Method, error) {
	s = strings.TrimSpace(s)
	open := strings.Index(s, "(")
	if open <= 0 {
		return Method{}, invalidSignature(s, "missing method name or parameter list")
	}

	closeIdx, err := matchingParen(s, open)
	if err != nil {
		return Method{}, err
	}

	name := strings.TrimSpace(s[:open])
	inputs, err := ParseTypes(s[open+1 : closeIdx])
	if err != nil {
		return Method{}, err
	}
	if len(inputs) > MaxTupleArity {
		return Method{}, invalidSignature(s, "more than 10 parameters")
	}

	m := Method{Name: name, Inputs: inputs}

	rest := strings.TrimSpace(s[closeIdx+1:])
	rest = strings.TrimSpace(strings.TrimPrefix(rest, "returns"))
	if rest == "" {
		return m, nil
	}
	if !strings.HasPrefix(rest, "(") || !strings.HasSuffix(rest, ")") {
		return Method{}, invalidSignature(s, "outputs must be a parenthesized type list")
	}
	outputs, err := ParseTypes(rest[1 : len(rest)-1])
	if err != nil {
		return Method{}, err
	}
	m.Outputs = outputs
	return m, nil
}

// MustParseMethod is ParseMethod for known-good signatures. It panics on error.
func MustParseMethod(s string) Method {
	m, err := ParseMethod(s)
	if err != nil {
		panic(err)
	}
	return m
}

// Signature returns the canonical signature, e.g. "approve(address,uint256)".
func (m Method) Signature() string {
	names := make([]string, len(m.Inputs))
	for i, t := range m.Inputs {
		names[i] = t.String()
	}
	return m.Name + "(" + strings.Join(names, ",") + ")"
}

// ID returns the method's selector.
func (m Method) ID() [SelectorLength]byte {
	return Selector(m.Signature())
}

// IDHex returns the selector as 0x-prefixed hex.
func (m Method) IDHex() string {
	id := m.ID()
	return "0x" + hex.EncodeToString(id[:])
}

// EncodeCall returns selector || Encode(Tuple(args)). Each argument must match
// the corresponding input type. A method without inputs encodes to the bare selector.
func (m Method) EncodeCall(args ...Value) ([]byte, error) {
	if len(args) != len(m.Inputs) {
		return nil, kiterr.WithDetails(kiterr.ErrIncompatibleToEncode, map[string]string{
			"method":   m.Signature(),
			"expected": strconv.Itoa(len(m.Inputs)),
			"received": strconv.Itoa(len(args)),
		})
	}
	for i, arg := range args {
		if arg == nil || !sameType(arg.Type(), m.Inputs[i]) {
			got := "nil"
			if arg != nil {
				got = arg.Type().String()
			}
			return nil, kiterr.WithDetails(kiterr.ErrIncompatibleToEncode, map[string]string{
				"method":   m.Signature(),
				"argument": strconv.Itoa(i),
				"expected": m.Inputs[i].String(),
				"received": got,
			})
		}
	}

	id := m.ID()
	if len(args) == 0 {
		return id[:], nil
	}

	encoded, err := Encode(Tuple(args))
	if err != nil {
		return nil, err
	}
	return append(id[:], encoded...), nil
}

// DecodeOutput decodes call return data as a tuple of the method's outputs.
func (m Method) DecodeOutput(data []byte) ([]Value, error) {
	if len(m.Outputs) == 0 {
		return nil, nil
	}
	return DecodeArgs(data, m.Outputs...)
}

// DecodeInput decodes call data (selector included) as the method's inputs.
func (m Method) DecodeInput(data []byte) ([]Value, error) {
	if len(data) < SelectorLength {
		return nil, kiterr.WithDetails(kiterr.ErrDataCorrupted, map[string]string{
			"reason": "call data is shorter than a selector",
		})
	}
	id := m.ID()
	if string(data[:SelectorLength]) != string(id[:]) {
		return nil, kiterr.WithDetails(kiterr.ErrDataCorrupted, map[string]string{
			"reason":   "selector mismatch",
			"expected": m.IDHex(),
			"received": "0x" + hex.EncodeToString(data[:SelectorLength]),
		})
	}
	if len(m.Inputs) == 0 {
		return nil, nil
	}
	return DecodeArgs(data[SelectorLength:], m.Inputs...)
}

func matchingParen(s string, open int) (int, error) {
	depth := 0
	for i := open; i < len(s); i++ {
		switch s[i] {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return i, nil
			}
		}
	}
	return 0, invalidSignature(s, "unbalanced parentheses")
}

func invalidSignature(s, reason string) error {
	return kiterr.WithDetails(kiterr.ErrInvalidInput, map[string]string{"signature": s, "reason": reason})
}
