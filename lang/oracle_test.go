package lang

import (
	"math"
	"testing"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// TestEvaluate_AgreesWithExprLang cross-checks expressions whose meaning is
// the same in both languages against the expr-lang virtual machine.
func TestEvaluate_AgreesWithExprLang(t *testing.T) {
	env := map[string]any{"a": 5, "b": 7, "c": 3}
	params := Params{"a": NewInteger(5), "b": NewInteger(7), "c": NewInteger(3)}

	sources := []string{
		"1 + 2 * 3",
		"(10 - 3) * 2",
		"a + b * c",
		"a - b - c",
		"-a + b",
		"a * (b - c) % 4",
		"a > b ? a : b",
		"a < b ? a - c : b",
		"a == 5 && b != 6",
		"a > b || c < a",
		"!(a > b)",
		"2 ** 10",
		"10 / 4.0",
		"1.5 * c + 0.25",
		"a >= 5 && b <= 7 ? 'yes' : 'no'",
		"'a' + 'b' == 'ab'",
	}

	for _, src := range sources {
		t.Run(src, func(t *testing.T) {
			program, err := expr.Compile(src, expr.Env(env))
			if err != nil {
				t.Fatalf("expr compile: %v", err)
			}

			want, err := vm.Run(program, env)
			if err != nil {
				t.Fatalf("expr run: %v", err)
			}

			got, err := Evaluate(src, params)
			if err != nil {
				t.Fatalf("evaluate error: %v", err)
			}

			if !agrees(got, want) {
				t.Errorf("got %s %v, expr-lang gives %T %v", got.Kind(), got, want, want)
			}
		})
	}
}

func agrees(got Value, want any) bool {
	switch w := want.(type) {
	case int:
		return got.IsNumeric() && realOf(got) == float64(w)

	case float64:
		return got.IsNumeric() && math.Abs(realOf(got)-w) < 1e-12

	case bool:
		return got.Kind() == KindBoolean && got.Bool() == w

	case string:
		return got.Kind() == KindString && got.String() == w

	default:
		return false
	}
}
