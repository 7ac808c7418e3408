package cascade

import (
	"math"
	"strconv"
	"strings"
)

// Kind is the active variant of a Variant.
type Kind uint8

const (
	KindUndefined Kind = iota
	KindBool
	KindFloat
	KindDouble
	KindByte
	KindShort
	KindUShort
	KindInt
	KindUInt
	KindLong
	KindULong
	KindString
)

var kindNames = [...]string{
	KindUndefined: "undefined",
	KindBool:      "bool",
	KindFloat:     "float",
	KindDouble:    "double",
	KindByte:      "byte",
	KindShort:     "short",
	KindUShort:    "ushort",
	KindInt:       "int",
	KindUInt:      "uint",
	KindLong:      "long",
	KindULong:     "ulong",
	KindString:    "string",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "kind(" + strconv.Itoa(int(k)) + ")"
}

// payloadSize is the encoded width of a fixed-size kind.
func (k Kind) payloadSize() int {
	switch k {
	case KindBool, KindByte:
		return 1
	case KindShort, KindUShort:
		return 2
	case KindInt, KindUInt, KindFloat:
		return 4
	case KindLong, KindULong, KindDouble:
		return 8
	}
	return 0
}

// Variant is a scalar holding exactly one of the supported primitive kinds.
// Signed integers are stored sign-extended in num, floats as their IEEE bits.
type Variant struct {
	kind Kind
	num  uint64
	str  string
}

func NewBool(b bool) Variant {
	if b {
		return Variant{kind: KindBool, num: 1}
	}
	return Variant{kind: KindBool}
}

func NewFloat(f float32) Variant {
	return Variant{kind: KindFloat, num: uint64(math.Float32bits(f))}
}

func NewDouble(f float64) Variant {
	return Variant{kind: KindDouble, num: math.Float64bits(f)}
}

func NewByte(b uint8) Variant    { return Variant{kind: KindByte, num: uint64(b)} }
func NewShort(i int16) Variant   { return Variant{kind: KindShort, num: uint64(int64(i))} }
func NewUShort(u uint16) Variant { return Variant{kind: KindUShort, num: uint64(u)} }
func NewInt(i int32) Variant     { return Variant{kind: KindInt, num: uint64(int64(i))} }
func NewUInt(u uint32) Variant   { return Variant{kind: KindUInt, num: uint64(u)} }
func NewLong(i int64) Variant    { return Variant{kind: KindLong, num: uint64(i)} }
func NewULong(u uint64) Variant  { return Variant{kind: KindULong, num: u} }
func NewString(s string) Variant { return Variant{kind: KindString, str: s} }

func (v Variant) Kind() Kind { return v.kind }

func (v Variant) IsUndefined() bool { return v.kind == KindUndefined }

func (v Variant) IsInteger() bool {
	switch v.kind {
	case KindByte, KindShort, KindUShort, KindInt, KindUInt, KindLong, KindULong:
		return true
	}
	return false
}

func (v Variant) IsNumeric() bool {
	return v.IsInteger() || v.kind == KindFloat || v.kind == KindDouble
}

// Equal reports whether both variants have the same kind and payload.
func (v Variant) Equal(o Variant) bool {
	return v.kind == o.kind && v.num == o.num && v.str == o.str
}

func (v Variant) float() float64 {
	if v.kind == KindFloat {
		return float64(math.Float32frombits(uint32(v.num)))
	}
	return math.Float64frombits(v.num)
}

// signed returns the integer payload as int64; ok is false for a ULong that
// does not fit.
func (v Variant) signed() (int64, bool) {
	if v.kind == KindULong && v.num > math.MaxInt64 {
		return 0, false
	}
	return int64(v.num), true
}

// coerce brings any variant to a numeric one, parsing strings on the way.
func (v Variant) coerce() (Variant, bool) {
	switch {
	case v.IsNumeric():
		return v, true
	case v.kind == KindBool:
		return NewByte(uint8(v.num)), true
	case v.kind == KindString:
		p := ParseVariant(strings.TrimSpace(v.str))
		if p.kind == KindString {
			return v, false
		}
		return p.coerce()
	}
	return v, false
}

func (v Variant) ToBool(def bool) bool {
	if v.kind == KindBool {
		return v.num != 0
	}
	n, ok := v.coerce()
	if !ok {
		return def
	}
	if n.kind == KindFloat || n.kind == KindDouble {
		return n.float() != 0
	}
	return n.num != 0
}

func (v Variant) toSigned() (int64, bool) {
	n, ok := v.coerce()
	if !ok {
		return 0, false
	}
	if n.kind == KindFloat || n.kind == KindDouble {
		f := n.float()
		if math.IsNaN(f) || f < math.MinInt64 || f >= math.MaxInt64 {
			return 0, false
		}
		return int64(f), true
	}
	return n.signed()
}

func (v Variant) ToLong(def int64) int64 {
	if i, ok := v.toSigned(); ok {
		return i
	}
	return def
}

func (v Variant) ToULong(def uint64) uint64 {
	n, ok := v.coerce()
	if !ok {
		return def
	}
	if n.kind == KindFloat || n.kind == KindDouble {
		f := n.float()
		if math.IsNaN(f) || f < 0 || f >= math.MaxUint64 {
			return def
		}
		return uint64(f)
	}
	if n.kind != KindULong && int64(n.num) < 0 {
		return def
	}
	return n.num
}

func (v Variant) ranged(min, max int64) (int64, bool) {
	i, ok := v.toSigned()
	if !ok || i < min || i > max {
		return 0, false
	}
	return i, true
}

func (v Variant) ToByte(def uint8) uint8 {
	if i, ok := v.ranged(0, math.MaxUint8); ok {
		return uint8(i)
	}
	return def
}

func (v Variant) ToShort(def int16) int16 {
	if i, ok := v.ranged(math.MinInt16, math.MaxInt16); ok {
		return int16(i)
	}
	return def
}

func (v Variant) ToUShort(def uint16) uint16 {
	if i, ok := v.ranged(0, math.MaxUint16); ok {
		return uint16(i)
	}
	return def
}

func (v Variant) ToInt(def int32) int32 {
	if i, ok := v.ranged(math.MinInt32, math.MaxInt32); ok {
		return int32(i)
	}
	return def
}

func (v Variant) ToUInt(def uint32) uint32 {
	if i, ok := v.ranged(0, math.MaxUint32); ok {
		return uint32(i)
	}
	return def
}

func (v Variant) ToDouble(def float64) float64 {
	n, ok := v.coerce()
	if !ok {
		return def
	}
	switch n.kind {
	case KindFloat, KindDouble:
		return n.float()
	case KindULong:
		return float64(n.num)
	}
	return float64(int64(n.num))
}

func (v Variant) ToFloat(def float32) float32 {
	n, ok := v.coerce()
	if !ok {
		return def
	}
	f := n.ToDouble(0)
	if math.Abs(f) > math.MaxFloat32 && !math.IsInf(f, 0) {
		return def
	}
	return float32(f)
}

// String is the text form used when a document is written back.
func (v Variant) String() string {
	switch v.kind {
	case KindBool:
		return strconv.FormatBool(v.num != 0)
	case KindFloat:
		return formatFloat(v.float(), 32)
	case KindDouble:
		return formatFloat(v.float(), 64)
	case KindByte, KindUShort, KindUInt, KindULong:
		return strconv.FormatUint(v.num, 10)
	case KindShort, KindInt, KindLong:
		return strconv.FormatInt(int64(v.num), 10)
	case KindString:
		return v.str
	}
	return ""
}

// formatFloat always keeps a decimal point so the text reads back as a float.
func formatFloat(f float64, bits int) string {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return strconv.FormatFloat(f, 'g', -1, bits)
	}
	s := strconv.FormatFloat(f, 'f', -1, bits)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

// Interface returns the payload as the matching Go type.
func (v Variant) Interface() any {
	switch v.kind {
	case KindBool:
		return v.num != 0
	case KindFloat:
		return math.Float32frombits(uint32(v.num))
	case KindDouble:
		return math.Float64frombits(v.num)
	case KindByte:
		return uint8(v.num)
	case KindShort:
		return int16(v.num)
	case KindUShort:
		return uint16(v.num)
	case KindInt:
		return int32(v.num)
	case KindUInt:
		return uint32(v.num)
	case KindLong:
		return int64(v.num)
	case KindULong:
		return v.num
	case KindString:
		return v.str
	}
	return nil
}

// MemorySize is the number of bytes the binary codec writes for v.
func (v Variant) MemorySize() int {
	if v.kind == KindString {
		return 1 + 4 + len(v.str)
	}
	return 1 + v.kind.payloadSize()
}
