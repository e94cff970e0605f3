package lang

import (
	"math"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/cockroachdb/apd/v3"
)

// variadic marks a function without an upper argument bound.
const variadic = -1

// maxRoundDigits bounds the digits argument of ROUND.
const maxRoundDigits = 28

// builtin is one entry of the function library.
type builtin struct {
	name    string
	aliases []string
	params  []string // parameter names for signatures; "...x" is variadic
	min     int
	max     int
	call    func(ec *evalContext, args []Value) (Value, error)
}

// FunctionInfo describes a built-in function for documentation and
// completion.
type FunctionInfo struct {
	Name      string
	Aliases   []string
	Params    []string
	MinArgs   int
	MaxArgs   int // -1 when unbounded
	Signature string
}

// ----------------------------------------------------------------------------
// Function table
// ----------------------------------------------------------------------------

var functionList = []*builtin{
	{name: "IF", aliases: []string{"IIF"}, params: []string{"cond", "then", "else"}, min: 3, max: 3, call: fnIf},
	{name: "LEFT", params: []string{"text", "count"}, min: 2, max: 2, call: fnLeft},
	{name: "RIGHT", params: []string{"text", "count"}, min: 2, max: 2, call: fnRight},
	{name: "SUBSTRING", aliases: []string{"MID"}, params: []string{"text", "start", "length"}, min: 2, max: 3, call: fnSubstring},
	{name: "LEN", aliases: []string{"LENGTH"}, params: []string{"text"}, min: 1, max: 1, call: fnLen},
	{name: "CONCAT", params: []string{"...values"}, min: 0, max: variadic, call: fnConcat},
	{name: "ABS", params: []string{"number"}, min: 1, max: 1, call: fnAbs},
	{name: "MIN", params: []string{"a", "b"}, min: 2, max: 2, call: fnMin},
	{name: "MAX", params: []string{"a", "b"}, min: 2, max: 2, call: fnMax},
	{name: "ROUND", params: []string{"number", "digits"}, min: 1, max: 2, call: fnRound},
	{name: "FLOOR", params: []string{"number"}, min: 1, max: 1, call: fnFloor},
	{name: "CEILING", aliases: []string{"CEIL"}, params: []string{"number"}, min: 1, max: 1, call: fnCeiling},
	{name: "NOW", min: 0, max: 0, call: fnNow},
	{name: "DATE", params: []string{"year", "month", "day"}, min: 3, max: 3, call: fnDate},
	{name: "TOINT", params: []string{"value"}, min: 1, max: 1, call: fnToInt},
	{name: "TODECIMAL", params: []string{"value"}, min: 1, max: 1, call: fnToDecimal},
	{name: "TOSTRING", params: []string{"value"}, min: 1, max: 1, call: fnToString},
	{name: "TOBOOL", aliases: []string{"TOBOOLEAN"}, params: []string{"value"}, min: 1, max: 1, call: fnToBool},
	{name: "CONTAINS", params: []string{"text", "part"}, min: 2, max: 2, call: fnContains},
	{name: "STARTSWITH", params: []string{"text", "prefix"}, min: 2, max: 2, call: fnStartsWith},
	{name: "ENDSWITH", params: []string{"text", "suffix"}, min: 2, max: 2, call: fnEndsWith},
	{name: "COALESCE", params: []string{"...values"}, min: 0, max: variadic, call: fnCoalesce},
}

// builtins maps every uppercase name and alias to its function. It is built
// once and never modified.
var builtins = sync.OnceValue(func() map[string]*builtin {
	m := make(map[string]*builtin, 2*len(functionList))

	for _, fn := range functionList {
		m[fn.name] = fn
		for _, alias := range fn.aliases {
			m[alias] = fn
		}
	}

	return m
})

// lookupFunction resolves name case-insensitively.
func lookupFunction(name string) (*builtin, bool) {
	fn, ok := builtins()[strings.ToUpper(name)]

	return fn, ok
}

// checkArity validates the argument count of a call to fn spelled name.
func (fn *builtin) checkArity(name string, n int) error {
	if n < fn.min || (fn.max != variadic && n > fn.max) {
		return &ArityError{Name: strings.ToUpper(name), Expected: fn.arity(), Actual: n}
	}

	return nil
}

// arity describes the accepted argument counts.
func (fn *builtin) arity() string {
	switch {
	case fn.max == variadic:
		return "any number of"

	case fn.min == fn.max:
		return strconv.Itoa(fn.min)

	default:
		return strconv.Itoa(fn.min) + " to " + strconv.Itoa(fn.max)
	}
}

func (fn *builtin) info() FunctionInfo {
	return FunctionInfo{
		Name:      fn.name,
		Aliases:   slices.Clone(fn.aliases),
		Params:    slices.Clone(fn.params),
		MinArgs:   fn.min,
		MaxArgs:   fn.max,
		Signature: fn.signature(),
	}
}

// signature renders fn as NAME(a, b[, c]).
func (fn *builtin) signature() string {
	var b strings.Builder

	b.WriteString(fn.name)
	b.WriteByte('(')

	for i, p := range fn.params {
		switch {
		case i >= fn.min && fn.max != variadic:
			b.WriteString("[")

			if i > 0 {
				b.WriteString(", ")
			}

			b.WriteString(p + "]")

		default:
			if i > 0 {
				b.WriteString(", ")
			}

			b.WriteString(p)
		}
	}

	b.WriteByte(')')

	return b.String()
}

// Functions returns the function library in declaration order.
func Functions() []FunctionInfo {
	infos := make([]FunctionInfo, len(functionList))
	for i, fn := range functionList {
		infos[i] = fn.info()
	}

	return infos
}

// LookupFunction returns the description of the function or alias name,
// matched case-insensitively.
func LookupFunction(name string) (FunctionInfo, bool) {
	fn, ok := lookupFunction(name)
	if !ok {
		return FunctionInfo{}, false
	}

	return fn.info(), true
}

// CallFunction invokes a built-in function with already evaluated arguments.
func CallFunction(name string, args ...Value) (Value, error) {
	fn, ok := lookupFunction(name)
	if !ok {
		return Value{}, &UnknownFunctionError{Name: name}
	}

	if err := fn.checkArity(name, len(args)); err != nil {
		return Value{}, err
	}

	return fn.call(&evalContext{now: time.Now}, args)
}

// ----------------------------------------------------------------------------
// Implementations
// ----------------------------------------------------------------------------

func fnIf(_ *evalContext, args []Value) (Value, error) {
	cond, err := ToBoolean(args[0])
	if err != nil {
		return Value{}, err
	}

	if cond {
		return args[1], nil
	}

	return args[2], nil
}

// intArg converts a count or index argument of fn.
func intArg(fn string, v Value) (int, error) {
	i, err := toInt64(v)
	if err != nil {
		return 0, newTypeError(fn, "expected an integer argument, got %s %q",
			v.kind, v.String())
	}

	return int(max(min(i, math.MaxInt32), math.MinInt32)), nil
}

func fnLeft(_ *evalContext, args []Value) (Value, error) {
	s := []rune(args[0].String())

	n, err := intArg("LEFT", args[1])
	if err != nil {
		return Value{}, err
	}

	n = max(0, min(n, len(s)))

	return NewString(string(s[:n])), nil
}

func fnRight(_ *evalContext, args []Value) (Value, error) {
	s := []rune(args[0].String())

	n, err := intArg("RIGHT", args[1])
	if err != nil {
		return Value{}, err
	}

	n = max(0, min(n, len(s)))

	return NewString(string(s[len(s)-n:])), nil
}

func fnSubstring(_ *evalContext, args []Value) (Value, error) {
	s := []rune(args[0].String())

	start, err := intArg("SUBSTRING", args[1])
	if err != nil {
		return Value{}, err
	}

	start = max(0, min(start, len(s)))
	end := len(s)

	if len(args) == 3 {
		n, err := intArg("SUBSTRING", args[2])
		if err != nil {
			return Value{}, err
		}

		end = start + max(0, min(n, len(s)-start))
	}

	return NewString(string(s[start:end])), nil
}

func fnLen(_ *evalContext, args []Value) (Value, error) {
	return NewInteger(int64(utf8.RuneCountInString(args[0].String()))), nil
}

func fnConcat(_ *evalContext, args []Value) (Value, error) {
	var b strings.Builder
	for _, a := range args {
		b.WriteString(a.String())
	}

	return NewString(b.String()), nil
}

func fnAbs(_ *evalContext, args []Value) (Value, error) {
	v := args[0]

	switch v.kind {
	case KindInteger:
		if v.num < 0 {
			return Negate(v)
		}

		return v, nil

	case KindReal:
		return NewReal(math.Abs(v.flt)), nil

	case KindDecimal:
		return NewDecimal(new(apd.Decimal).Abs(v.dec)), nil

	default:
		return Value{}, newTypeError("ABS", "argument must be numeric, got %s", v.kind)
	}
}

func fnMin(_ *evalContext, args []Value) (Value, error) {
	c, err := Compare(args[0], args[1])
	if err != nil {
		return Value{}, err
	}

	if c <= 0 {
		return args[0], nil
	}

	return args[1], nil
}

func fnMax(_ *evalContext, args []Value) (Value, error) {
	c, err := Compare(args[0], args[1])
	if err != nil {
		return Value{}, err
	}

	if c >= 0 {
		return args[0], nil
	}

	return args[1], nil
}

func fnRound(_ *evalContext, args []Value) (Value, error) {
	v := args[0]

	digits := 0

	if len(args) == 2 {
		n, err := intArg("ROUND", args[1])
		if err != nil {
			return Value{}, err
		}

		if n < 0 || n > maxRoundDigits {
			return Value{}, newTypeError("ROUND",
				"digits must be between 0 and %d, got %d", maxRoundDigits, n)
		}

		digits = n
	}

	switch v.kind {
	case KindInteger:
		return v, nil

	case KindReal:
		f, err := roundReal(v.flt, int32(digits))
		if err != nil {
			return Value{}, newArithmeticError("ROUND", "%v", err)
		}

		return NewReal(f), nil

	case KindDecimal:
		d, err := roundDecimal(v.dec, int32(digits))
		if err != nil {
			return Value{}, newArithmeticError("ROUND", "%v", err)
		}

		return NewDecimal(d), nil

	default:
		return Value{}, newTypeError("ROUND", "argument must be numeric, got %s", v.kind)
	}
}

func fnFloor(_ *evalContext, args []Value) (Value, error) {
	return roundIntegral("FLOOR", args[0], math.Floor, decimalContext.Floor)
}

func fnCeiling(_ *evalContext, args []Value) (Value, error) {
	return roundIntegral("CEILING", args[0], math.Ceil, decimalContext.Ceil)
}

func roundIntegral(
	name string,
	v Value,
	floor func(float64) float64,
	dec func(d, x *apd.Decimal) (apd.Condition, error),
) (Value, error) {
	switch v.kind {
	case KindInteger:
		return v, nil

	case KindReal:
		return NewReal(floor(v.flt)), nil

	case KindDecimal:
		var d apd.Decimal
		if _, err := dec(&d, v.dec); err != nil {
			return Value{}, newArithmeticError(name, "%v", err)
		}

		return NewDecimal(&d), nil

	default:
		return Value{}, newTypeError(name, "argument must be numeric, got %s", v.kind)
	}
}

func fnNow(ec *evalContext, _ []Value) (Value, error) {
	return NewDateTime(ec.clock()), nil
}

func fnDate(_ *evalContext, args []Value) (Value, error) {
	var ymd [3]int

	for i, a := range args {
		n, err := intArg("DATE", a)
		if err != nil {
			return Value{}, err
		}

		ymd[i] = n
	}

	year, month, day := ymd[0], ymd[1], ymd[2]

	if year < 1 || year > 9999 || month < 1 || month > 12 || day < 1 ||
		day > daysIn(year, time.Month(month)) {
		return Value{}, newTypeError("DATE", "invalid date %04d-%02d-%02d",
			year, month, day)
	}

	return NewDateTime(time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.Local)), nil
}

func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

func fnToInt(_ *evalContext, args []Value) (Value, error) {
	i, err := toInt64(args[0])
	if err != nil {
		return Value{}, err
	}

	return NewInteger(i), nil
}

func fnToDecimal(_ *evalContext, args []Value) (Value, error) {
	d, err := toDecimal(args[0])
	if err != nil {
		return Value{}, err
	}

	return NewDecimal(d), nil
}

func fnToString(_ *evalContext, args []Value) (Value, error) {
	return NewString(args[0].String()), nil
}

func fnToBool(_ *evalContext, args []Value) (Value, error) {
	b, err := ToBoolean(args[0])
	if err != nil {
		return Value{}, err
	}

	return NewBoolean(b), nil
}

func fnContains(_ *evalContext, args []Value) (Value, error) {
	return NewBoolean(strings.Contains(args[0].String(), args[1].String())), nil
}

func fnStartsWith(_ *evalContext, args []Value) (Value, error) {
	return NewBoolean(strings.HasPrefix(args[0].String(), args[1].String())), nil
}

func fnEndsWith(_ *evalContext, args []Value) (Value, error) {
	return NewBoolean(strings.HasSuffix(args[0].String(), args[1].String())), nil
}

func fnCoalesce(_ *evalContext, args []Value) (Value, error) {
	for _, a := range args {
		if !a.IsNull() {
			return a, nil
		}
	}

	return Null(), nil
}
