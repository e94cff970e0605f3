package lang

import (
	"bytes"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-yaml"
)

func TestFormatJSON(t *testing.T) {
	tests := []struct {
		name     string
		value    Value
		expected string
	}{
		{"integer", NewInteger(7), `{"kind":"integer","value":7}`},
		{"decimal keeps scale", mustDecimal(t, "1.50"), `{"kind":"decimal","value":1.50}`},
		{"real", NewReal(2.5), `{"kind":"real","value":2.5}`},
		{"real exponent", NewReal(1.5e-10), `{"kind":"real","value":1.5e-10}`},
		{"nan", NewReal(math.NaN()), `{"kind":"real","value":"NaN"}`},
		{"boolean", NewBoolean(false), `{"kind":"boolean","value":false}`},
		{"string", NewString(`say "hi"`), `{"kind":"string","value":"say \"hi\""}`},
		{"null", Null(), `{"kind":"null","value":null}`},
		{
			"datetime",
			NewDateTime(time.Date(2024, 2, 29, 13, 45, 0, 0, time.UTC)),
			`{"kind":"datetime","value":"2024-02-29 13:45:00"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := FormatJSON(t.Context(), &buf, tt.value, 0); err != nil {
				t.Fatalf("format error: %v", err)
			}

			if got := strings.TrimSpace(buf.String()); got != tt.expected {
				t.Errorf("FormatJSON() = %s, want %s", got, tt.expected)
			}
		})
	}
}

func TestFormatJSON_Indent(t *testing.T) {
	var buf bytes.Buffer
	if err := FormatJSON(t.Context(), &buf, NewInteger(1), 2); err != nil {
		t.Fatalf("format error: %v", err)
	}

	want := "{\n  \"kind\": \"integer\",\n  \"value\": 1\n}\n"
	if buf.String() != want {
		t.Errorf("FormatJSON() = %q, want %q", buf.String(), want)
	}
}

func TestFormatYAML(t *testing.T) {
	tests := []struct {
		name  string
		value Value
		kind  string
		check func(any) bool
	}{
		{"integer", NewInteger(-3), "integer", func(x any) bool {
			switch n := x.(type) {
			case int64:
				return n == -3
			case int:
				return n == -3
			}

			return false
		}},
		{"real", NewReal(0.25), "real", func(x any) bool { return x == 0.25 }},
		{"decimal as text", mustDecimal(t, "1.50"), "decimal", func(x any) bool { return x == "1.50" }},
		{"string", NewString("Acme: Corp"), "string", func(x any) bool { return x == "Acme: Corp" }},
		{"boolean", NewBoolean(true), "boolean", func(x any) bool { return x == true }},
		{"null", Null(), "null", func(x any) bool { return x == nil }},
	}

	for _, tt := range tests {
		for _, indent := range []int{0, 2} {
			var buf bytes.Buffer
			if err := FormatYAML(t.Context(), &buf, tt.value, indent); err != nil {
				t.Fatalf("%s: format error: %v", tt.name, err)
			}

			var doc map[string]any
			if err := yaml.Unmarshal(buf.Bytes(), &doc); err != nil {
				t.Fatalf("%s: output %q does not parse: %v", tt.name, buf.String(), err)
			}

			if doc["kind"] != tt.kind {
				t.Errorf("%s: kind = %v, want %s", tt.name, doc["kind"], tt.kind)
			}

			if !tt.check(doc["value"]) {
				t.Errorf("%s: unexpected value %#v in %q", tt.name, doc["value"], buf.String())
			}
		}
	}
}

func TestFormatValue(t *testing.T) {
	if got := FormatValue(NewReal(123.46)); got != "123.46" {
		t.Errorf("FormatValue() = %q", got)
	}

	if got := FormatValue(Null()); got != "" {
		t.Errorf("FormatValue(null) = %q", got)
	}
}
