package cascade

import (
	"math"
	"strconv"
	"strings"
)

// maxIntegerText is the longest text still read as an integer. Exactly this
// many digits without a sign is taken as an unsigned 64-bit value.
const maxIntegerText = 20

// scanNumber reports whether s is made of digits with at most one leading
// minus and at most one decimal point.
func scanNumber(s string) (numeric, point bool) {
	digits := 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= '0' && c <= '9':
			digits++
		case c == '-' && i == 0:
		case c == '.' && !point:
			point = true
		default:
			return false, false
		}
	}
	return digits > 0, point
}

func unsignedText(s string) bool {
	return len(s) == maxIntegerText && s[0] != '-'
}

// ParseVariant reads a scalar from raw text:
//
//	true/false (any case)      -> Bool
//	digits with a point        -> Float, or Double when outside float32 range
//	20 digits, no sign         -> ULong
//	up to 20 chars of digits   -> smallest of Byte, Short, UShort, Int, UInt, Long
//	anything else              -> String
func ParseVariant(s string) Variant {
	if strings.EqualFold(s, "true") {
		return NewBool(true)
	}
	if strings.EqualFold(s, "false") {
		return NewBool(false)
	}
	numeric, point := scanNumber(s)
	if !numeric {
		return NewString(s)
	}
	if point {
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return NewString(s)
		}
		if math.Abs(f) <= math.MaxFloat32 {
			return NewFloat(float32(f))
		}
		return NewDouble(f)
	}
	if len(s) > maxIntegerText {
		return NewString(s)
	}
	if unsignedText(s) {
		u, err := strconv.ParseUint(s, 10, 64)
		if err != nil {
			return NewString(s)
		}
		return NewULong(u)
	}
	i, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return NewString(s)
	}
	return narrow(i)
}

func narrow(i int64) Variant {
	switch {
	case i >= 0 && i <= math.MaxUint8:
		return NewByte(uint8(i))
	case i >= math.MinInt16 && i <= math.MaxInt16:
		return NewShort(int16(i))
	case i >= 0 && i <= math.MaxUint16:
		return NewUShort(uint16(i))
	case i >= math.MinInt32 && i <= math.MaxInt32:
		return NewInt(int32(i))
	case i >= 0 && i <= math.MaxUint32:
		return NewUInt(uint32(i))
	}
	return NewLong(i)
}
