package lang

import (
	"fmt"
	"io"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/cockroachdb/apd/v3"
	"github.com/goccy/go-yaml"
	"github.com/klauspost/readahead"
)

// NumberMode selects the kind assigned to numbers decoded from a parameter
// document.
type NumberMode int

const (
	// NumbersReal decodes every number as a Real.
	NumbersReal NumberMode = iota
	// NumbersDecimal decodes every number as a Decimal.
	NumbersDecimal
	// NumbersNative decodes integers as Integer and everything else as Real.
	NumbersNative
)

// String returns the lowercase name of the mode.
func (m NumberMode) String() string {
	switch m {
	case NumbersDecimal:
		return "decimal"

	case NumbersNative:
		return "native"

	default:
		return "real"
	}
}

// DecodeOption configures [DecodeParams].
type DecodeOption func(*decodeOptions)

type decodeOptions struct {
	numbers NumberMode
}

// WithNumbers selects how numbers are decoded. The default is [NumbersReal].
func WithNumbers(mode NumberMode) DecodeOption {
	return func(o *decodeOptions) { o.numbers = mode }
}

// DecodeParams reads a YAML or JSON object from r and converts each member to
// a Value. Nested objects and arrays are kept as composite placeholders that
// fail with a [TypeError] when an expression references them.
func DecodeParams(r io.Reader, opts ...DecodeOption) (Params, error) {
	var o decodeOptions
	for _, opt := range opts {
		opt(&o)
	}

	ra := readahead.NewReader(r)
	defer ra.Close()

	data, err := io.ReadAll(ra)
	if err != nil {
		return nil, ErrReadInput.Wrap(err)
	}

	var doc map[string]any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, ErrDecodeParams.Wrap(err).
			With(slog.Int("source_bytes", len(data)))
	}

	params := make(Params, len(doc))

	for name, raw := range doc {
		v, err := o.convert(raw)
		if err != nil {
			return nil, ErrDecodeParams.Wrap(err).With(slog.String("name", name))
		}

		params[name] = v
	}

	return params, nil
}

// ValueOf converts a native Go value to a Value using the default number
// mode.
func ValueOf(x any) (Value, error) {
	return decodeOptions{numbers: NumbersNative}.convert(x)
}

func (o decodeOptions) convert(x any) (Value, error) {
	switch x := x.(type) {
	case nil:
		return Null(), nil

	case Value:
		return x, nil

	case bool:
		return NewBoolean(x), nil

	case string:
		return NewString(x), nil

	case time.Time:
		return NewDateTime(x), nil

	case *apd.Decimal:
		return NewDecimal(x), nil

	case int:
		return o.integer(int64(x))

	case int8:
		return o.integer(int64(x))

	case int16:
		return o.integer(int64(x))

	case int32:
		return o.integer(int64(x))

	case int64:
		return o.integer(x)

	case uint:
		return o.unsigned(uint64(x))

	case uint8:
		return o.unsigned(uint64(x))

	case uint16:
		return o.unsigned(uint64(x))

	case uint32:
		return o.unsigned(uint64(x))

	case uint64:
		return o.unsigned(x)

	case float32:
		return o.real(float64(x))

	case float64:
		return o.real(x)

	case map[string]any, map[any]any, yaml.MapSlice:
		return newComposite("object"), nil

	case []any:
		return newComposite("array"), nil

	default:
		return Value{}, newTypeError("decode", "unsupported parameter type %T", x)
	}
}

func (o decodeOptions) integer(i int64) (Value, error) {
	switch o.numbers {
	case NumbersDecimal:
		return NewDecimal(new(apd.Decimal).SetInt64(i)), nil

	case NumbersNative:
		return NewInteger(i), nil

	default:
		return NewReal(float64(i)), nil
	}
}

func (o decodeOptions) unsigned(u uint64) (Value, error) {
	if u <= math.MaxInt64 {
		return o.integer(int64(u))
	}

	if o.numbers == NumbersDecimal {
		d, _, err := apd.NewFromString(fmt.Sprint(u))
		if err != nil {
			return Value{}, newTypeError("decode", "%v", err)
		}

		return NewDecimal(d), nil
	}

	return NewReal(float64(u)), nil
}

func (o decodeOptions) real(f float64) (Value, error) {
	if o.numbers != NumbersDecimal {
		return NewReal(f), nil
	}

	if !finite(f) {
		return Value{}, newTypeError("decode", "%s has no decimal form", formatReal(f))
	}

	d, err := new(apd.Decimal).SetFloat64(f)
	if err != nil {
		return Value{}, newTypeError("decode", "%v", err)
	}

	return NewDecimal(d), nil
}

// paramTimeLayouts are tried in order by [ParseParam].
var paramTimeLayouts = []string{DateTimeLayout, time.RFC3339, time.DateOnly}

// ParseParam interprets the value half of a command line NAME=VALUE pair.
// Text that is a single literal (a number, optionally negated, a quoted
// string, true, false or null) becomes that literal. Text in a date or
// date-time layout becomes a DateTime. Anything else is a raw String.
func ParseParam(text string) Value {
	trimmed := strings.TrimSpace(text)

	for _, layout := range paramTimeLayouts {
		if t, err := time.ParseInLocation(layout, trimmed, time.Local); err == nil {
			return NewDateTime(t)
		}
	}

	e, err := Parse(trimmed)
	if err != nil {
		return NewString(text)
	}

	switch n := e.root.(type) {
	case *Literal:
		return n.Value

	case *Unary:
		lit, ok := n.Operand.(*Literal)
		if !ok || !lit.Value.IsNumeric() || (n.Op != OpNeg && n.Op != OpPlus) {
			break
		}

		if v, err := unary(n.Op, lit.Value); err == nil {
			return v
		}
	}

	return NewString(text)
}
