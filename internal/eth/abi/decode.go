package abi

import (
	"math"
	"math/big"
	"strconv"
	"unicode/utf8"

	"github.com/holiman/uint256"

	ethtypes "github.com/mrz1836/ethkit/internal/eth/types"
	"github.com/mrz1836/ethkit/internal/metrics"
	kiterr "github.com/mrz1836/ethkit/pkg/errors"
)

// cursor walks a sequence of 32-byte slots. Positions are slot indexes.
// Sequential reads go through a *cursor; the tail of a tuple or array is read
// through a copy anchored where that construct's head starts.
type cursor struct {
	data []byte
	pos  int
	end  int
}

func newCursor(data []byte) cursor {
	return cursor{data: data, end: len(data) / WordSize}
}

func (c *cursor) remaining() int {
	if c.pos >= c.end {
		return 0
	}
	return c.end - c.pos
}

// take consumes n slots.
func (c *cursor) take(n int) ([]byte, error) {
	if n > c.remaining() {
		return nil, kiterr.DataCorrupted(n, c.remaining())
	}
	b := c.data[c.pos*WordSize : (c.pos+n)*WordSize]
	c.pos += n
	return b, nil
}

func (c *cursor) word() ([]byte, error) {
	return c.take(1)
}

// advanced returns an independent cursor moved forward by n slots.
func (c cursor) advanced(n int) cursor {
	c.pos += n
	return c
}

// Decode decodes data as a value of type t. It is the inverse of Encode.
//
// Reads past the end of data fail with a DataCorrupted error carrying the
// required and received slot counts. Trailing bytes that do not fill a whole
// slot are ignored.
func Decode(data []byte, t Type) (Value, error) {
	v, err := decode(data, t)
	metrics.Global.RecordDecode(metrics.CodecABI, err)
	return v, err
}

// DecodeArgs decodes data as a tuple of types and returns its members.
func DecodeArgs(data []byte, types ...Type) ([]Value, error) {
	v, err := Decode(data, TupleType{Elems: types})
	if err != nil {
		return nil, err
	}
	return v.(Tuple), nil
}

func decode(data []byte, t Type) (Value, error) {
	if t == nil {
		return nil, corrupted("no type to decode")
	}
	if err := validateType(t, kiterr.ErrDataCorrupted); err != nil {
		return nil, err
	}
	c := newCursor(data)
	return decodeValue(&c, t)
}

func decodeValue(c *cursor, t Type) (Value, error) {
	switch tt := t.(type) {
	case UintType:
		w, err := c.word()
		if err != nil {
			return nil, err
		}
		return Uint{Bits: tt.Bits, V: new(big.Int).SetBytes(w)}, nil

	case IntType:
		w, err := c.word()
		if err != nil {
			return nil, err
		}
		return Int{Bits: tt.Bits, V: signedFromWord(w)}, nil

	case BoolType:
		w, err := c.word()
		if err != nil {
			return nil, err
		}
		return Bool(!isZero(w)), nil

	case AddressType:
		w, err := c.word()
		if err != nil {
			return nil, err
		}
		return Address(ethtypes.BytesToAddress(w[WordSize-ethtypes.AddressLength:])), nil

	case StringType:
		b, err := decodeDynamicBytes(c)
		if err != nil {
			return nil, err
		}
		if !utf8.Valid(b) {
			return nil, corrupted("string is not valid UTF-8")
		}
		return String(b), nil

	case BytesType:
		b, err := decodeDynamicBytes(c)
		if err != nil {
			return nil, err
		}
		return Bytes(b), nil

	case ArrayType:
		return decodeArray(c, tt)

	case TupleType:
		return decodeTuple(c, tt)

	default:
		return nil, kiterr.WithDetails(kiterr.ErrUnknownType, map[string]string{"type": t.String()})
	}
}

func decodeArray(c *cursor, t ArrayType) (Value, error) {
	count, err := readLength(c)
	if err != nil {
		return nil, err
	}

	perElem := 1
	if !t.Elem.Dynamic() {
		perElem = t.Elem.Size() / WordSize
	}
	if count > c.remaining()/perElem {
		return nil, kiterr.DataCorrupted(saturatingMul(count, perElem), c.remaining())
	}

	// Offsets of dynamic elements count from the slot after the length word.
	base := *c
	elems := make([]Value, 0, count)
	for i := 0; i < count; i++ {
		v, err := decodeMember(c, base, t.Elem)
		if err != nil {
			return nil, err
		}
		elems = append(elems, v)
	}
	return Array{Elem: t.Elem, Elems: elems}, nil
}

func decodeTuple(c *cursor, t TupleType) (Value, error) {
	// Offsets of dynamic members count from the first slot of the tuple.
	base := *c
	members := make(Tuple, 0, len(t.Elems))
	for _, elem := range t.Elems {
		v, err := decodeMember(c, base, elem)
		if err != nil {
			return nil, err
		}
		members = append(members, v)
	}
	return members, nil
}

// decodeMember reads a static member in place, or reads one offset word and
// decodes the dynamic member from base advanced by that offset.
func decodeMember(c *cursor, base cursor, t Type) (Value, error) {
	if !t.Dynamic() {
		return decodeValue(c, t)
	}

	w, err := c.word()
	if err != nil {
		return nil, err
	}
	offset := new(big.Int).SetBytes(w)

	if new(big.Int).And(offset, big.NewInt(WordSize-1)).Sign() != 0 {
		return nil, kiterr.WithDetails(kiterr.ErrDataCorrupted, map[string]string{
			"reason": "offset is not a multiple of 32",
			"offset": offset.String(),
		})
	}

	slots := new(big.Int).Rsh(offset, 5)
	if !slots.IsInt64() || slots.Int64() >= int64(base.remaining()) {
		if slots.IsInt64() && slots.Int64() < math.MaxInt32 {
			return nil, kiterr.DataCorrupted(int(slots.Int64())+1, base.remaining())
		}
		return nil, kiterr.WithDetails(kiterr.ErrDataCorrupted, map[string]string{
			"reason":   "offset points past the end of data",
			"offset":   offset.String(),
			"received": strconv.Itoa(base.remaining()),
		})
	}

	member := base.advanced(int(slots.Int64()))
	return decodeValue(&member, t)
}

// decodeDynamicBytes reads a length word and ceil(length/32) slots, truncated to length.
func decodeDynamicBytes(c *cursor) ([]byte, error) {
	length, err := readLength(c)
	if err != nil {
		return nil, err
	}

	slots := length / WordSize
	if length%WordSize != 0 {
		slots++
	}
	if slots > c.remaining() {
		return nil, kiterr.DataCorrupted(slots, c.remaining())
	}
	b, err := c.take(slots)
	if err != nil {
		return nil, err
	}

	out := make([]byte, length)
	copy(out, b)
	return out, nil
}

// readLength reads a count or byte length word, saturating at math.MaxInt.
// Callers bound it against the remaining slots.
func readLength(c *cursor) (int, error) {
	w, err := c.word()
	if err != nil {
		return 0, err
	}

	n := new(big.Int).SetBytes(w)
	if !n.IsInt64() || n.Int64() > math.MaxInt {
		return math.MaxInt, nil
	}
	return int(n.Int64()), nil
}

// signedFromWord interprets w as a 256-bit two's-complement integer.
func signedFromWord(w []byte) *big.Int {
	var u uint256.Int
	u.SetBytes32(w)
	if u.Sign() >= 0 {
		return u.ToBig()
	}
	mag := new(uint256.Int).Neg(&u)
	return new(big.Int).Neg(mag.ToBig())
}

func isZero(w []byte) bool {
	for _, b := range w {
		if b != 0 {
			return false
		}
	}
	return true
}

func saturatingMul(a, b int) int {
	if b != 0 && a > math.MaxInt/b {
		return math.MaxInt
	}
	return a * b
}

func corrupted(reason string) error {
	return kiterr.WithDetails(kiterr.ErrDataCorrupted, map[string]string{"reason": reason})
}
