package lang

import (
	"bytes"
	"errors"
	"slices"
	"strings"
	"sync"
	"testing"

	"github.com/ardnew/reportgen/log"
)

func TestRender(t *testing.T) {
	params := Params{
		"Total":        NewReal(123.456),
		"b":            NewInteger(1),
		"CustomerName": NewString("Acme"),
		"none":         Null(),
	}

	tests := []struct {
		name     string
		text     string
		expected string
	}{
		{"rounded total", "Total: {{ROUND(Total,2)}}", "Total: 123.46"},
		{"unknown function kept", "{{unknownFn()}}", "{{unknownFn()}}"},
		{"unterminated kept", "a {{ b }} c {{", "a 1 c {{"},
		{"empty expression kept", "{{ }}", "{{ }}"},
		{"no placeholders", "plain text", "plain text"},
		{"empty template", "", ""},
		{"adjacent", "{{b}}{{b+1}}", "12"},
		{"partial failure", "{{ missing }} and {{ 1+1 }}", "{{ missing }} and 2"},
		{"null renders empty", "[{{ none }}]", "[]"},
		{"stray close", "}} {{ 1 }}", "}} 1"},
		{"close inside string", "{{ '}}' }}", "{{ '}}' }}"},
		{"multiline", "Customer: {{\n  CustomerName\n}}!", "Customer: Acme!"},
		{
			"invoice",
			"Invoice\n\nCustomer: {{ CustomerName }}\nTotal: {{ ROUND(Total, 2) }}",
			"Invoice\n\nCustomer: Acme\nTotal: 123.46",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Render(tt.text, params); got != tt.expected {
				t.Errorf("Render() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestPlaceholders(t *testing.T) {
	text := "x {{a}} y {{ b+1 }} z {{"

	got := slices.Collect(Placeholders(text))
	want := []PlaceholderSpan{
		{Start: 2, End: 7, Inner: "a"},
		{Start: 10, End: 19, Inner: "b+1"},
	}

	if !slices.Equal(got, want) {
		t.Fatalf("Placeholders() = %+v, want %+v", got, want)
	}

	if s := got[1].Text(text); s != "{{ b+1 }}" {
		t.Errorf("Text() = %q", s)
	}
}

func TestPlaceholders_EarlyExit(t *testing.T) {
	count := 0

	for range Placeholders("{{1}}{{2}}{{3}}") {
		count++

		if count == 2 {
			break
		}
	}

	if count != 2 {
		t.Errorf("expected to stop after 2 spans, got %d", count)
	}
}

func TestRenderReport(t *testing.T) {
	report := RenderReport("{{ a }} {{ nope() }} {{ 1/0 }}", Params{"a": NewString("ok")})

	if report.Text != "ok {{ nope() }} {{ 1/0 }}" {
		t.Errorf("Text = %q", report.Text)
	}

	if len(report.Outcomes) != 3 {
		t.Fatalf("expected 3 outcomes, got %d", len(report.Outcomes))
	}

	if report.Outcomes[0].Err != nil || !report.Outcomes[0].Value.Equal(NewString("ok")) {
		t.Errorf("unexpected first outcome %+v", report.Outcomes[0])
	}

	failed := report.Failed()
	if len(failed) != 2 {
		t.Fatalf("expected 2 failures, got %d", len(failed))
	}

	if !errors.Is(failed[0].Err, ErrUnknownFunction) {
		t.Errorf("expected unknown function, got %v", failed[0].Err)
	}

	if !errors.Is(failed[1].Err, ErrArithmetic) {
		t.Errorf("expected arithmetic error, got %v", failed[1].Err)
	}
}

func TestRender_Concurrent(t *testing.T) {
	const text = "{{ ROUND(Price * Qty, 2) }} for {{ Name }}"

	var wg sync.WaitGroup

	results := make([]string, 64)

	for i := range results {
		wg.Go(func() {
			params := Params{
				"Price": NewReal(1.25),
				"Qty":   NewInteger(int64(i)),
				"Name":  NewString("n"),
			}
			results[i] = Render(text, params)
		})
	}

	wg.Wait()

	for i, got := range results {
		want := Render(text, Params{
			"Price": NewReal(1.25),
			"Qty":   NewInteger(int64(i)),
			"Name":  NewString("n"),
		}, WithCache(false))

		if got != want {
			t.Errorf("result %d = %q, want %q", i, got, want)
		}
	}
}

func TestRender_TraceLogging(t *testing.T) {
	var buf bytes.Buffer

	logger := log.Make(&buf, log.WithLevel(log.LevelTrace))

	Render("{{ 1 }} {{ missing }}", nil, WithLogger(logger), WithContext(t.Context()))

	out := buf.String()

	for _, msg := range []string{"placeholder fallback", "render complete", "cache lookup"} {
		if !strings.Contains(out, msg) {
			t.Errorf("expected %q in trace output:\n%s", msg, out)
		}
	}

	buf.Reset()

	Render("{{ missing }}", nil)

	if buf.Len() != 0 {
		t.Errorf("expected no output without a logger, got %s", buf.String())
	}
}
