package lang

import (
	"cmp"
	"math"
	"strconv"
	"strings"

	"github.com/cockroachdb/apd/v3"
)

// decimalContext performs all Decimal arithmetic with 34 significant digits.
// It is never mutated; operations needing a different rounding mode copy it.
var decimalContext = apd.BaseContext.WithPrecision(34)

// numKind orders the numeric kinds into the promotion lattice
// Integer < Real < Decimal.
type numKind int

const (
	numNone numKind = iota
	numInteger
	numReal
	numDecimal
)

func classify(v Value) numKind {
	switch v.kind {
	case KindInteger:
		return numInteger

	case KindReal:
		return numReal

	case KindDecimal:
		return numDecimal

	default:
		return numNone
	}
}

// promote returns the widest kind of a and b, failing when either operand is
// not numeric.
func promote(op string, a, b Value) (numKind, error) {
	ka, kb := classify(a), classify(b)
	if ka == numNone || kb == numNone {
		return numNone, newTypeError(op, "operands must be numeric, got %s and %s",
			a.kind, b.kind)
	}

	return max(ka, kb), nil
}

// Arithmetic operators handled by arith.
const (
	arithAdd = iota
	arithSub
	arithMul
	arithDiv
	arithMod
)

var arithName = [...]string{"+", "-", "*", "/", "%"}

// Add returns a + b. A String operand on either side turns the operation into
// concatenation of both string representations.
func Add(a, b Value) (Value, error) {
	if a.kind == KindString || b.kind == KindString {
		return NewString(a.String() + b.String()), nil
	}

	return arith(arithAdd, a, b)
}

// Sub returns a - b.
func Sub(a, b Value) (Value, error) { return arith(arithSub, a, b) }

// Mul returns a * b.
func Mul(a, b Value) (Value, error) { return arith(arithMul, a, b) }

// Div returns a / b. Two Integer operands are divided exactly in Decimal and
// the quotient is truncated toward zero.
func Div(a, b Value) (Value, error) { return arith(arithDiv, a, b) }

// Mod returns the remainder of a / b, taking the sign of a.
func Mod(a, b Value) (Value, error) { return arith(arithMod, a, b) }

// arith promotes a and b and applies op in Decimal precision, narrowing the
// result back to the promoted kind. Integer results are truncated toward zero.
// Real operands that have no Decimal form (NaN, infinities) are combined with
// floating point arithmetic instead.
func arith(op int, a, b Value) (Value, error) {
	name := arithName[op]

	kind, err := promote(name, a, b)
	if err != nil {
		return Value{}, err
	}

	if kind == numReal {
		x, y := realOf(a), realOf(b)
		if !finite(x) || !finite(y) {
			return floatArith(op, x, y)
		}
	}

	x, err := toDecimal(a)
	if err != nil {
		return Value{}, err
	}

	y, err := toDecimal(b)
	if err != nil {
		return Value{}, err
	}

	if (op == arithDiv || op == arithMod) && y.IsZero() {
		return Value{}, newArithmeticError(name, "division by zero")
	}

	var z apd.Decimal

	switch op {
	case arithAdd:
		_, err = decimalContext.Add(&z, x, y)

	case arithSub:
		_, err = decimalContext.Sub(&z, x, y)

	case arithMul:
		_, err = decimalContext.Mul(&z, x, y)

	case arithDiv:
		_, err = decimalContext.Quo(&z, x, y)

	case arithMod:
		_, err = decimalContext.Rem(&z, x, y)
	}

	if err != nil {
		return Value{}, newArithmeticError(name, "%v", err)
	}

	return narrow(name, kind, &z)
}

// narrow converts a Decimal result back to kind.
func narrow(op string, kind numKind, d *apd.Decimal) (Value, error) {
	switch kind {
	case numInteger:
		i, err := truncInt64(d)
		if err != nil {
			return Value{}, newArithmeticError(op, "integer overflow")
		}

		return NewInteger(i), nil

	case numReal:
		f, err := d.Float64()
		if err != nil && !isRangeErr(err) {
			return Value{}, newArithmeticError(op, "%v", err)
		}

		return NewReal(f), nil

	default:
		return NewDecimal(d), nil
	}
}

func floatArith(op int, x, y float64) (Value, error) {
	switch op {
	case arithAdd:
		return NewReal(x + y), nil

	case arithSub:
		return NewReal(x - y), nil

	case arithMul:
		return NewReal(x * y), nil
	}

	if y == 0 {
		return Value{}, newArithmeticError(arithName[op], "division by zero")
	}

	if op == arithDiv {
		return NewReal(x / y), nil
	}

	return NewReal(math.Mod(x, y)), nil
}

// Pow returns a ** b. The power is always computed in floating point; the
// result is narrowed to the promoted kind, so two Integer operands produce
// the truncated Integer of the floating point result.
func Pow(a, b Value) (Value, error) {
	kind, err := promote("**", a, b)
	if err != nil {
		return Value{}, err
	}

	x, err := toReal(a)
	if err != nil {
		return Value{}, err
	}

	y, err := toReal(b)
	if err != nil {
		return Value{}, err
	}

	r := math.Pow(x, y)

	switch kind {
	case numInteger:
		t := math.Trunc(r)
		if math.IsNaN(t) || t < math.MinInt64 || t >= math.MaxInt64 {
			return Value{}, newArithmeticError("**", "integer overflow")
		}

		return NewInteger(int64(t)), nil

	case numReal:
		return NewReal(r), nil

	default:
		if !finite(r) {
			return Value{}, newArithmeticError("**", "result %s is not a decimal",
				formatReal(r))
		}

		d, err := new(apd.Decimal).SetFloat64(r)
		if err != nil {
			return Value{}, newArithmeticError("**", "%v", err)
		}

		return NewDecimal(d), nil
	}
}

// Negate returns -v, preserving the numeric kind.
func Negate(v Value) (Value, error) {
	switch v.kind {
	case KindInteger:
		if v.num == math.MinInt64 {
			return Value{}, newArithmeticError("-", "integer overflow")
		}

		return NewInteger(-v.num), nil

	case KindReal:
		return NewReal(-v.flt), nil

	case KindDecimal:
		return NewDecimal(new(apd.Decimal).Neg(v.dec)), nil

	default:
		return Value{}, newTypeError("-", "operand must be numeric, got %s", v.kind)
	}
}

// Plus returns v unchanged when it is numeric.
func Plus(v Value) (Value, error) {
	if !v.IsNumeric() {
		return Value{}, newTypeError("+", "operand must be numeric, got %s", v.kind)
	}

	return v, nil
}

// Compare returns -1, 0 or 1 as a is less than, equal to, or greater than b.
//
// Two numeric operands are promoted and compared numerically, two Booleans
// order false before true, and anything else compares the byte sequences of
// the operands' string representations.
func Compare(a, b Value) (int, error) {
	if a.IsNumeric() && b.IsNumeric() {
		kind, _ := promote("compare", a, b)

		switch kind {
		case numInteger:
			return cmp.Compare(a.num, b.num), nil

		case numReal:
			return cmp.Compare(realOf(a), realOf(b)), nil

		default:
			x, err := toDecimal(a)
			if err != nil {
				return 0, err
			}

			y, err := toDecimal(b)
			if err != nil {
				return 0, err
			}

			return x.Cmp(y), nil
		}
	}

	if a.kind == KindBoolean && b.kind == KindBoolean {
		return cmp.Compare(a.num, b.num), nil
	}

	return strings.Compare(a.String(), b.String()), nil
}

// ToBoolean coerces v to a boolean: null is false, Booleans are themselves,
// the strings "true" and "false" (any case) parse, and everything else is
// true when its Real value is non-zero.
func ToBoolean(v Value) (bool, error) {
	switch v.kind {
	case KindNull:
		return false, nil

	case KindBoolean:
		return v.num != 0, nil

	case KindString:
		if b, ok := parseBool(v.str); ok {
			return b, nil
		}
	}

	f, err := toReal(v)
	if err != nil {
		return false, newTypeError("boolean", "cannot convert %s %q to boolean",
			v.kind, v.String())
	}

	return f != 0, nil
}

func parseBool(s string) (value, ok bool) {
	switch s = strings.TrimSpace(s); {
	case strings.EqualFold(s, "true"):
		return true, true

	case strings.EqualFold(s, "false"):
		return false, true

	default:
		return false, false
	}
}

func finite(f float64) bool { return !math.IsNaN(f) && !math.IsInf(f, 0) }

// realOf returns the float64 of a numeric value without error checking.
func realOf(v Value) float64 {
	switch v.kind {
	case KindInteger:
		return float64(v.num)

	case KindReal:
		return v.flt

	case KindDecimal:
		f, _ := v.dec.Float64()

		return f

	default:
		return 0
	}
}

// toReal converts v to float64. Null is zero, Booleans are zero or one, and
// Strings must hold a number.
func toReal(v Value) (float64, error) {
	switch v.kind {
	case KindNull:
		return 0, nil

	case KindInteger, KindReal, KindDecimal:
		return realOf(v), nil

	case KindBoolean:
		return float64(v.num), nil

	case KindString:
		f, err := strconv.ParseFloat(strings.TrimSpace(v.str), 64)
		if err != nil {
			return 0, newTypeError("real", "cannot convert %q to a number", v.str)
		}

		return f, nil

	default:
		return 0, newTypeError("real", "cannot convert %s to a number", v.kind)
	}
}

// toInt64 converts v to int64, truncating fractional values toward zero.
func toInt64(v Value) (int64, error) {
	switch v.kind {
	case KindNull:
		return 0, nil

	case KindInteger, KindBoolean:
		return v.num, nil

	case KindReal:
		return floatToInt64(v.flt)

	case KindDecimal:
		i, err := truncInt64(v.dec)
		if err != nil {
			return 0, newArithmeticError("integer", "%s out of range", v.String())
		}

		return i, nil

	case KindString:
		s := strings.TrimSpace(v.str)
		if i, err := strconv.ParseInt(s, 10, 64); err == nil {
			return i, nil
		}

		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, newTypeError("integer", "cannot convert %q to an integer", v.str)
		}

		return floatToInt64(f)

	default:
		return 0, newTypeError("integer", "cannot convert %s to an integer", v.kind)
	}
}

func floatToInt64(f float64) (int64, error) {
	t := math.Trunc(f)
	if math.IsNaN(t) || t < math.MinInt64 || t >= math.MaxInt64 {
		return 0, newArithmeticError("integer", "%s out of range", formatReal(f))
	}

	return int64(t), nil
}

// toDecimal converts v to a Decimal that the caller may modify.
func toDecimal(v Value) (*apd.Decimal, error) {
	switch v.kind {
	case KindNull:
		return new(apd.Decimal), nil

	case KindInteger, KindBoolean:
		return new(apd.Decimal).SetInt64(v.num), nil

	case KindReal:
		if !finite(v.flt) {
			return nil, newTypeError("decimal", "%s has no decimal form",
				formatReal(v.flt))
		}

		d, err := new(apd.Decimal).SetFloat64(v.flt)
		if err != nil {
			return nil, newTypeError("decimal", "%v", err)
		}

		return d, nil

	case KindDecimal:
		return v.Decimal(), nil

	case KindString:
		d, _, err := apd.NewFromString(strings.TrimSpace(v.str))
		if err != nil || d.Form != apd.Finite {
			return nil, newTypeError("decimal", "cannot convert %q to a decimal", v.str)
		}

		return d, nil

	default:
		return nil, newTypeError("decimal", "cannot convert %s to a decimal", v.kind)
	}
}

// truncInt64 truncates d toward zero and returns it as int64.
func truncInt64(d *apd.Decimal) (int64, error) {
	c := *decimalContext
	c.Rounding = apd.RoundDown

	var t apd.Decimal
	if _, err := c.RoundToIntegralValue(&t, d); err != nil {
		return 0, err
	}

	return t.Int64()
}

// roundDecimal rounds d to digits fractional digits, half away from zero.
func roundDecimal(d *apd.Decimal, digits int32) (*apd.Decimal, error) {
	c := *decimalContext
	c.Rounding = apd.RoundHalfUp

	var r apd.Decimal
	if _, err := c.Quantize(&r, d, -digits); err != nil {
		// Too many digits for the context, but nothing to round.
		if d.Exponent >= -digits {
			return r.Set(d), nil
		}

		return nil, err
	}

	return &r, nil
}

// roundReal rounds f to digits fractional digits, half away from zero, using
// the shortest decimal text of f so that 2.675 rounds to 2.68.
func roundReal(f float64, digits int32) (float64, error) {
	if !finite(f) {
		return f, nil
	}

	d, err := new(apd.Decimal).SetFloat64(f)
	if err != nil {
		return 0, err
	}

	r, err := roundDecimal(d, digits)
	if err != nil {
		return 0, err
	}

	return r.Float64()
}
