package lang

import (
	"errors"
	"slices"
	"strings"
	"testing"
	"time"
)

func TestFunctions_Library(t *testing.T) {
	params := Params{"n": NewInteger(12345), "empty": Null()}

	tests := []struct {
		input    string
		expected Value
	}{
		{"LEFT('hello', 2)", NewString("he")},
		{"LEFT('hello', 10)", NewString("hello")},
		{"LEFT('hello', -1)", NewString("")},
		{"LEFT('héllo', 2)", NewString("hé")},
		{"RIGHT('hello', 3)", NewString("llo")},
		{"RIGHT('hello', 0)", NewString("")},
		{"RIGHT('hello', 99)", NewString("hello")},
		{"SUBSTRING('hello', 1, 3)", NewString("ell")},
		{"SUBSTRING('hello', 2)", NewString("llo")},
		{"SUBSTRING('hello', -5, 2)", NewString("he")},
		{"SUBSTRING('hello', 3, 99)", NewString("lo")},
		{"SUBSTRING('hello', 2, -1)", NewString("")},
		{"MID('hello', 10)", NewString("")},
		{"SUBSTRING('héllo', 1, 1)", NewString("é")},
		{"LEN('héllo')", NewInteger(5)},
		{"LENGTH(n)", NewInteger(5)},
		{"LEN(empty)", NewInteger(0)},
		{"CONCAT('a', 1, true, null)", NewString("a1true")},
		{"CONCAT()", NewString("")},
		{"ABS(-5)", NewInteger(5)},
		{"ABS(-2.5)", NewReal(2.5)},
		{"ABS(TODECIMAL('-1.50'))", mustDecimal(t, "1.50")},
		{"MIN(3, 1.5)", NewReal(1.5)},
		{"MAX(3, 1.5)", NewInteger(3)},
		{"MAX('a', 'b')", NewString("b")},
		{"MIN(2, 2.0)", NewInteger(2)},
		{"ROUND(5)", NewInteger(5)},
		{"ROUND(-2.5)", NewReal(-3)},
		{"ROUND(TODECIMAL('2.345'), 2)", mustDecimal(t, "2.35")},
		{"ROUND(TODECIMAL('2.5'))", mustDecimal(t, "3")},
		{"ROUND(1e300)", NewReal(1e300)},
		{"ROUND(1e33, 2)", NewReal(1e33)},
		{"ROUND(-1e300, 28)", NewReal(-1e300)},
		{"FLOOR(-2.5)", NewReal(-3)},
		{"FLOOR(7)", NewInteger(7)},
		{"FLOOR(TODECIMAL('2.7'))", mustDecimal(t, "2")},
		{"CEILING(2.1)", NewReal(3)},
		{"CEIL(TODECIMAL('-2.7'))", mustDecimal(t, "-2")},
		{"DATE(2024, 2, 29)", NewDateTime(time.Date(2024, 2, 29, 0, 0, 0, 0, time.Local))},
		{"TOSTRING(DATE(2024, 2, 29))", NewString("2024-02-29 00:00:00")},
		{"TOINT('42')", NewInteger(42)},
		{"TOINT(3.9)", NewInteger(3)},
		{"TOINT(-3.9)", NewInteger(-3)},
		{"TOINT(true)", NewInteger(1)},
		{"TODECIMAL(0.1)", mustDecimal(t, "0.1")},
		{"TODECIMAL(7)", mustDecimal(t, "7")},
		{"TOSTRING(1.5)", NewString("1.5")},
		{"TOSTRING(null)", NewString("")},
		{"TOBOOLEAN('TRUE')", NewBoolean(true)},
		{"TOBOOL(0)", NewBoolean(false)},
		{"CONTAINS('hello', 'ell')", NewBoolean(true)},
		{"CONTAINS('hello', 'L')", NewBoolean(false)},
		{"STARTSWITH('hello', 'he')", NewBoolean(true)},
		{"ENDSWITH('hello', 'lo')", NewBoolean(true)},
		{"ENDSWITH(n, 45)", NewBoolean(true)},
		{"COALESCE(null, empty, 'x', 'y')", NewString("x")},
		{"COALESCE(empty)", Null()},
		{"COALESCE()", Null()},
		{"IIF(0, 'a', 'b')", NewString("b")},
		{"if('true', 1, 2)", NewInteger(1)},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := Evaluate(tt.input, params)
			if err != nil {
				t.Fatalf("evaluate error: %v", err)
			}

			if !got.Equal(tt.expected) {
				t.Errorf("got %s %q, want %s %q",
					got.Kind(), got, tt.expected.Kind(), tt.expected)
			}
		})
	}
}

func TestFunctions_Errors(t *testing.T) {
	tests := []struct {
		input  string
		target error
	}{
		{"ROUND(1.5, 29)", ErrType},
		{"ROUND(1.5, -1)", ErrType},
		{"ROUND('x')", ErrType},
		{"ABS('x')", ErrType},
		{"FLOOR(true)", ErrType},
		{"DATE(2023, 2, 29)", ErrType},
		{"DATE(2024, 13, 1)", ErrType},
		{"DATE(0, 1, 1)", ErrType},
		{"DATE('x', 1, 1)", ErrType},
		{"LEFT('abc', 'x')", ErrType},
		{"TOBOOL('yes')", ErrType},
		{"TOINT('abc')", ErrType},
		{"TODECIMAL('abc')", ErrType},
		{"IF('maybe', 1, 2)", ErrType},
		{"SUBSTRING('a', 1, 2, 3)", ErrArity},
		{"MIN(1)", ErrArity},
		{"DATE(2024, 1)", ErrArity},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			_, err := Evaluate(tt.input, nil)
			if !errors.Is(err, tt.target) {
				t.Fatalf("expected %v, got %v", tt.target, err)
			}
		})
	}
}

func TestCallFunction(t *testing.T) {
	got, err := CallFunction("left", NewString("abc"), NewInteger(2))
	if err != nil {
		t.Fatalf("call error: %v", err)
	}

	if !got.Equal(NewString("ab")) {
		t.Errorf("LEFT = %v", got)
	}

	if _, err := CallFunction("nope"); !errors.Is(err, ErrUnknownFunction) {
		t.Errorf("expected unknown function, got %v", err)
	}

	if _, err := CallFunction("Abs"); !errors.Is(err, ErrArity) {
		t.Errorf("expected arity error, got %v", err)
	}

	now, err := CallFunction("NOW")
	if err != nil || now.Kind() != KindDateTime {
		t.Errorf("NOW() = %v, %v", now, err)
	}
}

func TestFunctions_Info(t *testing.T) {
	infos := Functions()

	seen := make(map[string]bool)

	for _, info := range infos {
		for _, name := range append([]string{info.Name}, info.Aliases...) {
			if seen[name] {
				t.Errorf("duplicate function name %s", name)
			}

			seen[name] = true

			if name != strings.ToUpper(name) {
				t.Errorf("function name %s is not uppercase", name)
			}
		}
	}

	for _, name := range []string{
		"IF", "IIF", "LEFT", "RIGHT", "SUBSTRING", "MID", "LEN", "LENGTH",
		"CONCAT", "ABS", "MIN", "MAX", "ROUND", "FLOOR", "CEILING", "CEIL",
		"NOW", "DATE", "TOINT", "TODECIMAL", "TOSTRING", "TOBOOL", "TOBOOLEAN",
		"CONTAINS", "STARTSWITH", "ENDSWITH", "COALESCE",
	} {
		if !seen[name] {
			t.Errorf("missing function %s", name)
		}
	}

	signatures := map[string]string{
		"ROUND":     "ROUND(number[, digits])",
		"SUBSTRING": "SUBSTRING(text, start[, length])",
		"CONCAT":    "CONCAT(...values)",
		"NOW":       "NOW()",
		"IF":        "IF(cond, then, else)",
	}

	for name, want := range signatures {
		info, ok := LookupFunction(strings.ToLower(name))
		if !ok {
			t.Fatalf("LookupFunction(%q) failed", name)
		}

		if info.Signature != want {
			t.Errorf("%s signature = %q, want %q", name, info.Signature, want)
		}
	}

	ceil, _ := LookupFunction("ceil")
	if ceil.Name != "CEILING" || !slices.Contains(ceil.Aliases, "CEIL") {
		t.Errorf("CEIL does not resolve to CEILING: %+v", ceil)
	}

	concat, _ := LookupFunction("CONCAT")
	if concat.MinArgs != 0 || concat.MaxArgs != -1 {
		t.Errorf("CONCAT arity = %d..%d", concat.MinArgs, concat.MaxArgs)
	}

	if _, ok := LookupFunction("nope"); ok {
		t.Error("LookupFunction found an unknown name")
	}
}
