package lang

import (
	"log/slog"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/cockroachdb/apd/v3"
)

// Kind identifies which member of the [Value] union is populated.
type Kind uint8

const (
	// KindNull is the zero Kind. The zero Value is null.
	KindNull Kind = iota
	KindInteger
	KindReal
	KindDecimal
	KindBoolean
	KindString
	KindDateTime

	// KindComposite marks a nested object or array decoded from a parameter
	// document. It cannot take part in any operation.
	KindComposite
)

// String returns the lowercase name of the kind.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"

	case KindInteger:
		return "integer"

	case KindReal:
		return "real"

	case KindDecimal:
		return "decimal"

	case KindBoolean:
		return "boolean"

	case KindString:
		return "string"

	case KindDateTime:
		return "datetime"

	case KindComposite:
		return "composite"

	default:
		return "unknown"
	}
}

// DateTimeLayout is the layout used to render DateTime values as text.
const DateTimeLayout = "2006-01-02 15:04:05"

// Value is an immutable runtime value produced by literals, parameters,
// operators and functions.
//
// Exactly one payload field is meaningful for a given kind. Decimal payloads
// are never mutated once a Value holds them; accessors hand out copies.
type Value struct {
	kind Kind
	num  int64
	flt  float64
	dec  *apd.Decimal
	str  string
	tm   time.Time
}

// Null returns the null value.
func Null() Value { return Value{} }

// NewInteger returns a 64-bit signed Integer value.
func NewInteger(i int64) Value { return Value{kind: KindInteger, num: i} }

// NewReal returns a 64-bit floating point Real value.
func NewReal(f float64) Value { return Value{kind: KindReal, flt: f} }

// NewDecimal returns a Decimal value holding a copy of d.
// A nil d yields decimal zero.
func NewDecimal(d *apd.Decimal) Value {
	c := new(apd.Decimal)
	if d != nil {
		c.Set(d)
	}

	return Value{kind: KindDecimal, dec: c}
}

// ParseDecimal returns a Decimal value parsed from base-10 text such as
// "123.4500".
func ParseDecimal(s string) (Value, error) {
	d, _, err := apd.NewFromString(strings.TrimSpace(s))
	if err != nil || d.Form != apd.Finite {
		return Value{}, newTypeError("decimal", "invalid decimal text %q", s)
	}

	return Value{kind: KindDecimal, dec: d}, nil
}

// NewBoolean returns a Boolean value.
func NewBoolean(b bool) Value {
	v := Value{kind: KindBoolean}
	if b {
		v.num = 1
	}

	return v
}

// NewString returns a String value.
func NewString(s string) Value { return Value{kind: KindString, str: s} }

// NewDateTime returns a DateTime value.
func NewDateTime(t time.Time) Value { return Value{kind: KindDateTime, tm: t} }

// newComposite returns a placeholder for a nested structure named by desc
// ("object" or "array").
func newComposite(desc string) Value { return Value{kind: KindComposite, str: desc} }

// Kind returns the kind of v.
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether v is null.
func (v Value) IsNull() bool { return v.kind == KindNull }

// IsNumeric reports whether v is an Integer, Real or Decimal.
func (v Value) IsNumeric() bool {
	return v.kind == KindInteger || v.kind == KindReal || v.kind == KindDecimal
}

// Int returns the Integer payload. It is zero for other kinds.
func (v Value) Int() int64 {
	if v.kind != KindInteger {
		return 0
	}

	return v.num
}

// Float returns the Real payload. It is zero for other kinds.
func (v Value) Float() float64 {
	if v.kind != KindReal {
		return 0
	}

	return v.flt
}

// Decimal returns a copy of the Decimal payload, or nil for other kinds.
func (v Value) Decimal() *apd.Decimal {
	if v.kind != KindDecimal || v.dec == nil {
		return nil
	}

	return new(apd.Decimal).Set(v.dec)
}

// Bool returns the Boolean payload. It is false for other kinds.
func (v Value) Bool() bool { return v.kind == KindBoolean && v.num != 0 }

// Time returns the DateTime payload. It is the zero time for other kinds.
func (v Value) Time() time.Time {
	if v.kind != KindDateTime {
		return time.Time{}
	}

	return v.tm
}

// String returns the text representation of v used by concatenation,
// string comparison, string functions and the renderer.
func (v Value) String() string {
	switch v.kind {
	case KindNull:
		return ""

	case KindInteger:
		return strconv.FormatInt(v.num, 10)

	case KindReal:
		return formatReal(v.flt)

	case KindDecimal:
		if v.dec == nil {
			return "0"
		}

		return v.dec.Text('f')

	case KindBoolean:
		return strconv.FormatBool(v.num != 0)

	case KindString:
		return v.str

	case KindDateTime:
		return v.tm.Format(DateTimeLayout)

	case KindComposite:
		return "<" + v.str + ">"

	default:
		return ""
	}
}

// Equal reports whether v and w have the same kind and identical payloads.
// Unlike the == operator of the language, no promotion takes place.
func (v Value) Equal(w Value) bool {
	if v.kind != w.kind {
		return false
	}

	switch v.kind {
	case KindNull:
		return true

	case KindInteger, KindBoolean:
		return v.num == w.num

	case KindReal:
		return math.Float64bits(v.flt) == math.Float64bits(w.flt)

	case KindDecimal:
		return v.dec.Cmp(w.dec) == 0 && v.dec.Exponent == w.dec.Exponent

	case KindString, KindComposite:
		return v.str == w.str

	case KindDateTime:
		return v.tm.Equal(w.tm)

	default:
		return false
	}
}

// GoValue returns v as a native Go value: nil, int64, float64,
// *apd.Decimal, bool, string or time.Time.
func (v Value) GoValue() any {
	switch v.kind {
	case KindInteger:
		return v.num

	case KindReal:
		return v.flt

	case KindDecimal:
		return v.Decimal()

	case KindBoolean:
		return v.num != 0

	case KindString, KindComposite:
		return v.String()

	case KindDateTime:
		return v.tm

	default:
		return nil
	}
}

// LogValue implements [slog.LogValuer].
func (v Value) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("kind", v.kind.String()),
		slog.String("value", v.String()),
	)
}

// formatReal renders f as the shortest text that parses back to f, switching
// to exponent form for very large and very small magnitudes.
func formatReal(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"

	case math.IsInf(f, 1):
		return "Infinity"

	case math.IsInf(f, -1):
		return "-Infinity"
	}

	if abs := math.Abs(f); abs != 0 && (abs < 1e-7 || abs >= 1e21) {
		return strconv.FormatFloat(f, 'e', -1, 64)
	}

	return strconv.FormatFloat(f, 'f', -1, 64)
}
