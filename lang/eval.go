package lang

import (
	"context"
	"log/slog"
	"maps"
	"slices"
	"time"
)

// Params is the parameter environment of one evaluation. Names are
// case-sensitive. The evaluator never modifies it.
type Params map[string]Value

// Names returns the parameter names in sorted order.
func (p Params) Names() []string {
	return slices.Sorted(maps.Keys(p))
}

// evalContext carries the per-call state of one evaluation.
type evalContext struct {
	params Params
	now    func() time.Time
}

func (ec *evalContext) clock() time.Time {
	if ec.now == nil {
		return time.Now()
	}

	return ec.now()
}

// Evaluate parses expr and evaluates it against params.
//
// Parsed expressions are cached by source text unless [WithCache] disables
// it, so repeated evaluation of the same text skips the parser.
func Evaluate(expr string, params Params, opts ...Option) (Value, error) {
	o := makeOptions(opts...)
	ctx := o.context()

	e, err := o.lookup(ctx, expr)
	if err != nil {
		return Value{}, err
	}

	return e.evaluate(ctx, params, o)
}

// Evaluate evaluates e against params. It is safe to call concurrently.
func (e *Expression) Evaluate(params Params, opts ...Option) (Value, error) {
	o := makeOptions(opts...)

	return e.evaluate(o.context(), params, o)
}

func (e *Expression) evaluate(
	ctx context.Context,
	params Params,
	o options,
) (Value, error) {
	ec := &evalContext{params: params, now: o.now}

	v, err := ec.eval(e.root)
	if err != nil {
		o.logger.TraceContext(ctx, "evaluate failed",
			slog.String("source", e.source),
			slog.Any("error", err))

		return Value{}, err
	}

	o.logger.TraceContext(ctx, "evaluate complete",
		slog.String("source", e.source),
		slog.Any("result", v))

	return v, nil
}

// eval walks n depth-first, left to right.
func (ec *evalContext) eval(n Node) (Value, error) {
	switch n := n.(type) {
	case *Literal:
		return n.Value, nil

	case *Identifier:
		v, ok := ec.params[n.Name]
		if !ok {
			return Value{}, &UndefinedParameterError{Name: n.Name}
		}

		if v.kind == KindComposite {
			return Value{}, newTypeError(n.Name,
				"parameter is an %s, not a scalar value", v.str)
		}

		return v, nil

	case *Unary:
		operand, err := ec.eval(n.Operand)
		if err != nil {
			return Value{}, err
		}

		return unary(n.Op, operand)

	case *Binary:
		left, err := ec.eval(n.Left)
		if err != nil {
			return Value{}, err
		}

		right, err := ec.eval(n.Right)
		if err != nil {
			return Value{}, err
		}

		return binary(n.Op, left, right)

	case *Ternary:
		cond, err := ec.eval(n.Cond)
		if err != nil {
			return Value{}, err
		}

		ok, err := ToBoolean(cond)
		if err != nil {
			return Value{}, err
		}

		if ok {
			return ec.eval(n.Then)
		}

		return ec.eval(n.Else)

	case *Call:
		fn, ok := lookupFunction(n.Name)
		if !ok {
			return Value{}, &UnknownFunctionError{Name: n.Name}
		}

		if err := fn.checkArity(n.Name, len(n.Args)); err != nil {
			return Value{}, err
		}

		args := make([]Value, len(n.Args))

		for i, a := range n.Args {
			v, err := ec.eval(a)
			if err != nil {
				return Value{}, err
			}

			args[i] = v
		}

		return fn.call(ec, args)

	default:
		return Value{}, newTypeError("evaluate", "unsupported node %T", n)
	}
}

func unary(op Op, v Value) (Value, error) {
	switch op {
	case OpNeg:
		return Negate(v)

	case OpPlus:
		return Plus(v)

	case OpNot:
		b, err := ToBoolean(v)
		if err != nil {
			return Value{}, err
		}

		return NewBoolean(!b), nil

	case OpBitNot:
		i, err := integerOperand("~", v)
		if err != nil {
			return Value{}, err
		}

		return NewInteger(^i), nil

	default:
		return Value{}, newTypeError(op.String(), "not a unary operator")
	}
}

func binary(op Op, a, b Value) (Value, error) {
	switch op {
	case OpAdd:
		return Add(a, b)

	case OpSub:
		return Sub(a, b)

	case OpMul:
		return Mul(a, b)

	case OpDiv:
		return Div(a, b)

	case OpMod:
		return Mod(a, b)

	case OpPow:
		return Pow(a, b)

	case OpOr, OpAnd:
		x, err := ToBoolean(a)
		if err != nil {
			return Value{}, err
		}

		y, err := ToBoolean(b)
		if err != nil {
			return Value{}, err
		}

		if op == OpOr {
			return NewBoolean(x || y), nil
		}

		return NewBoolean(x && y), nil

	case OpEq, OpNe, OpLt, OpLe, OpGt, OpGe:
		c, err := Compare(a, b)
		if err != nil {
			return Value{}, err
		}

		return NewBoolean(relation(op, c)), nil

	case OpBitOr, OpBitXor, OpBitAnd, OpShl, OpShr:
		return bitwise(op, a, b)

	default:
		return Value{}, newTypeError(op.String(), "not a binary operator")
	}
}

func relation(op Op, c int) bool {
	switch op {
	case OpEq:
		return c == 0

	case OpNe:
		return c != 0

	case OpLt:
		return c < 0

	case OpLe:
		return c <= 0

	case OpGt:
		return c > 0

	default:
		return c >= 0
	}
}

// bitwise applies an integer operator. Both operands must be numeric and are
// truncated to Integer first; shift counts use their low six bits.
func bitwise(op Op, a, b Value) (Value, error) {
	name := op.String()

	x, err := integerOperand(name, a)
	if err != nil {
		return Value{}, err
	}

	y, err := integerOperand(name, b)
	if err != nil {
		return Value{}, err
	}

	switch op {
	case OpBitOr:
		return NewInteger(x | y), nil

	case OpBitXor:
		return NewInteger(x ^ y), nil

	case OpBitAnd:
		return NewInteger(x & y), nil

	case OpShl:
		return NewInteger(x << (y & 63)), nil

	default:
		return NewInteger(x >> (y & 63)), nil
	}
}

func integerOperand(op string, v Value) (int64, error) {
	if !v.IsNumeric() {
		return 0, newTypeError(op, "operand must be numeric, got %s", v.kind)
	}

	return toInt64(v)
}
