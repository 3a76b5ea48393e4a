package abi

import (
	"encoding/json"
	"math/big"
	"strconv"
	"strings"

	"github.com/agnivade/levenshtein"

	ethtypes "github.com/mrz1836/ethkit/internal/eth/types"
	kiterr "github.com/mrz1836/ethkit/pkg/errors"
)

// MaxTypoDistance is the largest edit distance for which ParseType suggests a type name.
const MaxTypoDistance = 2

// ParseType parses a canonical type name such as "uint256", "string[]" or
// "(address,uint256)". Bare "uint" and "int" mean 256 bits.
func ParseType(s string) (Type, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, unknownType(s, "empty type")
	}

	if strings.HasSuffix(s, "]") {
		open := strings.LastIndex(s, "[")
		if open < 0 {
			return nil, unknownType(s, "unbalanced brackets")
		}
		if s[open:] != "[]" {
			return nil, unknownType(s, "fixed-size arrays are not supported")
		}
		elem, err := ParseType(s[:open])
		if err != nil {
			return nil, err
		}
		t := ArrayType{Elem: elem}
		if err := validateType(t, kiterr.ErrUnknownType); err != nil {
			return nil, err
		}
		return t, nil
	}

	if strings.HasPrefix(s, "(") {
		if !strings.HasSuffix(s, ")") {
			return nil, unknownType(s, "unbalanced parentheses")
		}
		elems, err := ParseTypes(s[1 : len(s)-1])
		if err != nil {
			return nil, err
		}
		t := TupleType{Elems: elems}
		if err := validateType(t, kiterr.ErrUnknownType); err != nil {
			return nil, err
		}
		return t, nil
	}

	switch s {
	case "bool":
		return BoolType{}, nil
	case "address":
		return AddressType{}, nil
	case "string":
		return StringType{}, nil
	case "bytes":
		return BytesType{}, nil
	case "uint":
		return UintType{Bits: 256}, nil
	case "int":
		return IntType{Bits: 256}, nil
	}

	for _, prefix := range []string{"uint", "int"} {
		rest, ok := strings.CutPrefix(s, prefix)
		if !ok {
			continue
		}
		bits, err := strconv.Atoi(rest)
		if err != nil {
			break
		}
		if err := checkWidth(bits, kiterr.ErrUnknownType); err != nil {
			return nil, withSuggestion(err, s)
		}
		if prefix == "uint" {
			return UintType{Bits: bits}, nil
		}
		return IntType{Bits: bits}, nil
	}

	return nil, withSuggestion(unknownType(s, "unknown type name"), s)
}

// ParseTypes parses a comma-separated type list. Commas inside parentheses
// belong to nested tuples.
func ParseTypes(s string) ([]Type, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}

	parts, err := splitTopLevel(s)
	if err != nil {
		return nil, err
	}

	types := make([]Type, 0, len(parts))
	for _, part := range parts {
		t, err := ParseType(part)
		if err != nil {
			return nil, err
		}
		types = append(types, t)
	}
	return types, nil
}

func splitTopLevel(s string) ([]string, error) {
	var parts []string
	depth, start := 0, 0
	for i, r := range s {
		switch r {
		case '(':
			depth++
		case ')':
			depth--
			if depth < 0 {
				return nil, unknownType(s, "unbalanced parentheses")
			}
		case ',':
			if depth == 0 {
				parts = append(parts, s[start:i])
				start = i + 1
			}
		}
	}
	if depth != 0 {
		return nil, unknownType(s, "unbalanced parentheses")
	}
	return append(parts, s[start:]), nil
}

// ParseValue converts a textual argument to a value of type t.
// Integers accept decimal or 0x-hex, bytes accept 0x-hex, and arrays and
// tuples accept a JSON array of their members.
func ParseValue(t Type, s string) (Value, error) {
	s = strings.TrimSpace(s)
	switch tt := t.(type) {
	case UintType:
		n, err := parseBig(s)
		if err != nil {
			return nil, err
		}
		return Uint{Bits: tt.Bits, V: n}, nil
	case IntType:
		n, err := parseBig(s)
		if err != nil {
			return nil, err
		}
		return Int{Bits: tt.Bits, V: n}, nil
	case BoolType:
		b, err := strconv.ParseBool(s)
		if err != nil {
			return nil, invalidArg(s, "expected true or false")
		}
		return Bool(b), nil
	case AddressType:
		a, err := ethtypes.ParseChecksumAddress(s)
		if err != nil {
			return nil, err
		}
		return Address(a), nil
	case StringType:
		return String(s), nil
	case BytesType:
		b, err := ethtypes.FromHex(s)
		if err != nil {
			return nil, err
		}
		return Bytes(b), nil
	case ArrayType:
		items, err := splitJSONArray(s)
		if err != nil {
			return nil, err
		}
		elems := make([]Value, 0, len(items))
		for _, item := range items {
			v, err := ParseValue(tt.Elem, item)
			if err != nil {
				return nil, err
			}
			elems = append(elems, v)
		}
		return Array{Elem: tt.Elem, Elems: elems}, nil
	case TupleType:
		items, err := splitJSONArray(s)
		if err != nil {
			return nil, err
		}
		tuple, err := ParseValues(tt.Elems, items)
		if err != nil {
			return nil, err
		}
		return tuple, nil
	default:
		return nil, unknownType(t.String(), "unsupported type")
	}
}

// ParseValues converts args to a tuple of types, one argument per type.
func ParseValues(types []Type, args []string) (Tuple, error) {
	if len(types) != len(args) {
		return nil, kiterr.WithDetails(kiterr.ErrInvalidInput, map[string]string{
			"expected": strconv.Itoa(len(types)),
			"received": strconv.Itoa(len(args)),
		})
	}
	out := make(Tuple, 0, len(args))
	for i, arg := range args {
		v, err := ParseValue(types[i], arg)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// splitJSONArray returns each member of a JSON array as text, with JSON
// strings unquoted and everything else kept verbatim.
func splitJSONArray(s string) ([]string, error) {
	var raw []json.RawMessage
	if err := json.Unmarshal([]byte(s), &raw); err != nil {
		return nil, invalidArg(s, "expected a JSON array")
	}
	out := make([]string, len(raw))
	for i, item := range raw {
		var str string
		if err := json.Unmarshal(item, &str); err == nil {
			out[i] = str
			continue
		}
		out[i] = string(item)
	}
	return out, nil
}

func parseBig(s string) (*big.Int, error) {
	n, ok := new(big.Int).SetString(s, 0)
	if !ok {
		return nil, invalidArg(s, "expected an integer")
	}
	return n, nil
}

// validateType checks the structural limits of t: integer widths, tuple
// arity and a single level of array nesting.
func validateType(t Type, sentinel error) error {
	switch tt := t.(type) {
	case UintType:
		return checkWidth(tt.Bits, sentinel)
	case IntType:
		return checkWidth(tt.Bits, sentinel)
	case ArrayType:
		if tt.Elem == nil {
			return kiterr.WithDetails(sentinel, map[string]string{"reason": "array element type is not set"})
		}
		if containsArray(tt.Elem) {
			return kiterr.WithDetails(sentinel, map[string]string{
				"type":   tt.String(),
				"reason": "nested dynamic arrays are not supported",
			})
		}
		return validateType(tt.Elem, sentinel)
	case TupleType:
		if err := checkArity(len(tt.Elems), sentinel); err != nil {
			return err
		}
		for _, e := range tt.Elems {
			if e == nil {
				return kiterr.WithDetails(sentinel, map[string]string{"reason": "tuple member type is not set"})
			}
			if err := validateType(e, sentinel); err != nil {
				return err
			}
		}
	}
	return nil
}

func containsArray(t Type) bool {
	switch tt := t.(type) {
	case ArrayType:
		return true
	case TupleType:
		for _, e := range tt.Elems {
			if e != nil && containsArray(e) {
				return true
			}
		}
	}
	return false
}

func checkWidth(bits int, sentinel error) error {
	if bits < 8 || bits > 256 || bits%8 != 0 {
		return kiterr.WithDetails(sentinel, map[string]string{
			"bits":   strconv.Itoa(bits),
			"reason": "integer width must be a multiple of 8 between 8 and 256",
		})
	}
	return nil
}

func checkArity(n int, sentinel error) error {
	if n < 1 || n > MaxTupleArity {
		return kiterr.WithDetails(sentinel, map[string]string{
			"arity":  strconv.Itoa(n),
			"reason": "tuple arity must be between 1 and 10",
		})
	}
	return nil
}

func unknownType(s, reason string) error {
	return kiterr.WithDetails(kiterr.ErrUnknownType, map[string]string{"type": s, "reason": reason})
}

func invalidArg(s, reason string) error {
	return kiterr.WithDetails(kiterr.ErrInvalidInput, map[string]string{"value": s, "reason": reason})
}

// withSuggestion attaches the closest known type name to err, if one is near enough.
func withSuggestion(err error, input string) error {
	if suggestion := suggestType(input); suggestion != "" {
		return kiterr.WithSuggestion(err, "did you mean "+suggestion+"?")
	}
	return err
}

func suggestType(input string) string {
	suggestion := ""
	minDist := MaxTypoDistance + 1
	for _, name := range knownTypeNames() {
		dist := levenshtein.ComputeDistance(input, name)
		if dist < minDist {
			minDist = dist
			suggestion = name
		}
	}
	return suggestion
}

func knownTypeNames() []string {
	names := []string{"bool", "address", "string", "bytes"}
	for bits := 8; bits <= 256; bits += 8 {
		names = append(names, "uint"+strconv.Itoa(bits), "int"+strconv.Itoa(bits))
	}
	return names
}
