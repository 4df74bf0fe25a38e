package tiff

import "fmt"

// ValueKind discriminates the TagValue sum type.
type ValueKind uint8

const (
	KindByte ValueKind = iota
	KindSignedByte
	KindShort
	KindSignedShort
	KindLong
	KindSignedLong
	KindLong8
	KindSignedLong8
	KindFloat
	KindDouble
	KindRational
	KindSignedRational
	KindRationalBig
	KindSignedRationalBig
	KindAscii
	KindIfd
	KindIfdBig
	KindList
)

// Rational is an unsigned TIFF rational: Num/Den.
type Rational struct{ Num, Den uint32 }

// SignedRational is a signed TIFF rational.
type SignedRational struct{ Num, Den int32 }

// RationalBig is a BigTIFF 64-bit rational.
type RationalBig struct{ Num, Den uint64 }

// SignedRationalBig is a signed BigTIFF 64-bit rational.
type SignedRationalBig struct{ Num, Den int64 }

// TagValue is the tagged union of TIFF primitive types a directory entry
// can hold. Exactly one of the typed fields is meaningful, selected by
// Kind; List holds a homogeneous (by convention, not enforced) sequence
// of TagValue.
type TagValue struct {
	Kind ValueKind

	byteVal    uint8
	sbyteVal   int8
	shortVal   uint16
	sshortVal  int16
	longVal    uint32
	slongVal   int32
	long8Val   uint64
	slong8Val  int64
	floatVal   float32
	doubleVal  float64
	ratVal     Rational
	sratVal    SignedRational
	ratBigVal  RationalBig
	sratBigVal SignedRationalBig
	asciiVal   string
	list       []TagValue
}

func ByteValue(v uint8) TagValue             { return TagValue{Kind: KindByte, byteVal: v} }
func SignedByteValue(v int8) TagValue        { return TagValue{Kind: KindSignedByte, sbyteVal: v} }
func ShortValue(v uint16) TagValue           { return TagValue{Kind: KindShort, shortVal: v} }
func SignedShortValue(v int16) TagValue      { return TagValue{Kind: KindSignedShort, sshortVal: v} }
func LongValue(v uint32) TagValue            { return TagValue{Kind: KindLong, longVal: v} }
func SignedLongValue(v int32) TagValue       { return TagValue{Kind: KindSignedLong, slongVal: v} }
func Long8Value(v uint64) TagValue           { return TagValue{Kind: KindLong8, long8Val: v} }
func SignedLong8Value(v int64) TagValue      { return TagValue{Kind: KindSignedLong8, slong8Val: v} }
func FloatValue(v float32) TagValue          { return TagValue{Kind: KindFloat, floatVal: v} }
func DoubleValue(v float64) TagValue         { return TagValue{Kind: KindDouble, doubleVal: v} }
func RationalValue(v Rational) TagValue      { return TagValue{Kind: KindRational, ratVal: v} }
func SignedRationalValue(v SignedRational) TagValue {
	return TagValue{Kind: KindSignedRational, sratVal: v}
}
func RationalBigValue(v RationalBig) TagValue { return TagValue{Kind: KindRationalBig, ratBigVal: v} }
func SignedRationalBigValue(v SignedRationalBig) TagValue {
	return TagValue{Kind: KindSignedRationalBig, sratBigVal: v}
}
func AsciiValue(v string) TagValue { return TagValue{Kind: KindAscii, asciiVal: v} }
func IfdValue(v uint32) TagValue   { return TagValue{Kind: KindIfd, longVal: v} }
func IfdBigValue(v uint64) TagValue { return TagValue{Kind: KindIfdBig, long8Val: v} }
func ListValue(v []TagValue) TagValue { return TagValue{Kind: KindList, list: v} }

// List returns the elements if Kind is KindList, or nil otherwise.
func (v TagValue) List() []TagValue {
	if v.Kind == KindList {
		return v.list
	}
	return nil
}

// Ascii returns the string if Kind is KindAscii, or "" otherwise.
func (v TagValue) Ascii() string {
	if v.Kind == KindAscii {
		return v.asciiVal
	}
	return ""
}

func (v TagValue) String() string {
	switch v.Kind {
	case KindAscii:
		return v.asciiVal
	case KindList:
		return fmt.Sprintf("%v", v.list)
	default:
		u, err := v.IntoInt64()
		if err == nil {
			return fmt.Sprintf("%d", u)
		}
		f, err := v.IntoFloat64()
		if err == nil {
			return fmt.Sprintf("%g", f)
		}
		return fmt.Sprintf("TagValue(kind=%d)", v.Kind)
	}
}

// scalarAsFloat64 widens any numeric (non-List, non-Ascii) variant to a
// float64, the common widening target for both int and rational kinds.
func (v TagValue) scalarAsFloat64() (float64, bool) {
	switch v.Kind {
	case KindByte:
		return float64(v.byteVal), true
	case KindSignedByte:
		return float64(v.sbyteVal), true
	case KindShort:
		return float64(v.shortVal), true
	case KindSignedShort:
		return float64(v.sshortVal), true
	case KindLong, KindIfd:
		return float64(v.longVal), true
	case KindSignedLong:
		return float64(v.slongVal), true
	case KindLong8, KindIfdBig:
		return float64(v.long8Val), true
	case KindSignedLong8:
		return float64(v.slong8Val), true
	case KindFloat:
		return float64(v.floatVal), true
	case KindDouble:
		return v.doubleVal, true
	case KindRational:
		if v.ratVal.Den == 0 {
			return 0, false
		}
		return float64(v.ratVal.Num) / float64(v.ratVal.Den), true
	case KindSignedRational:
		if v.sratVal.Den == 0 {
			return 0, false
		}
		return float64(v.sratVal.Num) / float64(v.sratVal.Den), true
	case KindRationalBig:
		if v.ratBigVal.Den == 0 {
			return 0, false
		}
		return float64(v.ratBigVal.Num) / float64(v.ratBigVal.Den), true
	case KindSignedRationalBig:
		if v.sratBigVal.Den == 0 {
			return 0, false
		}
		return float64(v.sratBigVal.Num) / float64(v.sratBigVal.Den), true
	default:
		return 0, false
	}
}

// scalarAsInt64 widens any integral variant to an int64 exactly (no
// truncation); rational and float kinds are rejected here since they
// cannot widen to an integer without loss.
func (v TagValue) scalarAsInt64() (int64, bool) {
	switch v.Kind {
	case KindByte:
		return int64(v.byteVal), true
	case KindSignedByte:
		return int64(v.sbyteVal), true
	case KindShort:
		return int64(v.shortVal), true
	case KindSignedShort:
		return int64(v.sshortVal), true
	case KindLong, KindIfd:
		return int64(v.longVal), true
	case KindSignedLong:
		return int64(v.slongVal), true
	case KindLong8, KindIfdBig:
		if v.long8Val > 1<<63-1 {
			return 0, false
		}
		return int64(v.long8Val), true
	case KindSignedLong8:
		return v.slong8Val, true
	default:
		return 0, false
	}
}

// unwrapSingleton dereferences a one-element List so conversions apply
// uniformly to "List([x])" and "x".
func (v TagValue) unwrapSingleton() TagValue {
	if v.Kind == KindList && len(v.list) == 1 {
		return v.list[0]
	}
	return v
}

func convErr(v TagValue, to string) error {
	return &ValueConversionError{From: fmt.Sprintf("kind=%d", v.Kind), To: to}
}

// IntoInt64 narrows v to an int64, widening smaller integer kinds and
// rejecting rationals, floats, ASCII and multi-element lists.
func (v TagValue) IntoInt64() (int64, error) {
	v = v.unwrapSingleton()
	if n, ok := v.scalarAsInt64(); ok {
		return n, nil
	}
	return 0, convErr(v, "int64")
}

// IntoUint32 narrows v to a uint32.
func (v TagValue) IntoUint32() (uint32, error) {
	n, err := v.IntoInt64()
	if err != nil {
		return 0, convErr(v, "uint32")
	}
	if n < 0 || n > int64(^uint32(0)) {
		return 0, convErr(v, "uint32")
	}
	return uint32(n), nil
}

// IntoUint16 narrows v to a uint16.
func (v TagValue) IntoUint16() (uint16, error) {
	n, err := v.IntoInt64()
	if err != nil {
		return 0, convErr(v, "uint16")
	}
	if n < 0 || n > int64(^uint16(0)) {
		return 0, convErr(v, "uint16")
	}
	return uint16(n), nil
}

// IntoUint64 narrows v to a uint64.
func (v TagValue) IntoUint64() (uint64, error) {
	v = v.unwrapSingleton()
	switch v.Kind {
	case KindLong8, KindIfdBig:
		return v.long8Val, nil
	}
	n, err := v.IntoInt64()
	if err != nil {
		return 0, convErr(v, "uint64")
	}
	if n < 0 {
		return 0, convErr(v, "uint64")
	}
	return uint64(n), nil
}

// IntoFloat64 widens v, including rationals, to a float64.
func (v TagValue) IntoFloat64() (float64, error) {
	v = v.unwrapSingleton()
	if f, ok := v.scalarAsFloat64(); ok {
		return f, nil
	}
	return 0, convErr(v, "float64")
}

// IntoUint16Slice narrows a List of integral values, or a singleton, to
// a []uint16.
func (v TagValue) IntoUint16Slice() ([]uint16, error) {
	if v.Kind != KindList {
		n, err := v.IntoUint16()
		if err != nil {
			return nil, err
		}
		return []uint16{n}, nil
	}
	out := make([]uint16, len(v.list))
	for i, e := range v.list {
		n, err := e.IntoUint16()
		if err != nil {
			return nil, err
		}
		out[i] = n
	}
	return out, nil
}

// IntoUint32Slice narrows a List, or a singleton, to a []uint32.
func (v TagValue) IntoUint32Slice() ([]uint32, error) {
	if v.Kind != KindList {
		n, err := v.IntoUint32()
		if err != nil {
			return nil, err
		}
		return []uint32{n}, nil
	}
	out := make([]uint32, len(v.list))
	for i, e := range v.list {
		n, err := e.IntoUint32()
		if err != nil {
			return nil, err
		}
		out[i] = n
	}
	return out, nil
}

// IntoUint64Slice narrows a List, or a singleton, to a []uint64.
func (v TagValue) IntoUint64Slice() ([]uint64, error) {
	if v.Kind != KindList {
		n, err := v.IntoUint64()
		if err != nil {
			return nil, err
		}
		return []uint64{n}, nil
	}
	out := make([]uint64, len(v.list))
	for i, e := range v.list {
		n, err := e.IntoUint64()
		if err != nil {
			return nil, err
		}
		out[i] = n
	}
	return out, nil
}

// IntoFloat64Slice widens a List, or a singleton, to a []float64.
func (v TagValue) IntoFloat64Slice() ([]float64, error) {
	if v.Kind != KindList {
		f, err := v.IntoFloat64()
		if err != nil {
			return nil, err
		}
		return []float64{f}, nil
	}
	out := make([]float64, len(v.list))
	for i, e := range v.list {
		f, err := e.IntoFloat64()
		if err != nil {
			return nil, err
		}
		out[i] = f
	}
	return out, nil
}

// IntoAscii narrows v to a string; only KindAscii succeeds.
func (v TagValue) IntoAscii() (string, error) {
	v = v.unwrapSingleton()
	if v.Kind != KindAscii {
		return "", convErr(v, "string")
	}
	return v.asciiVal, nil
}
