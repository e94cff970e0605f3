package cmd

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ardnew/reportgen/lang"
)

func TestRenderRun(t *testing.T) {
	dir := t.TempDir()
	head := writeFile(t, dir, "head.txt", "Dear {{ Name }},\n")
	body := writeFile(t, dir, "body.txt", "you owe {{ ROUND(Total, 2) }}. {{ NOPE(1) }}\n")
	params := writeFile(t, dir, "params.yaml", "Name: Acme Corp\nTotal: 19.987\n")

	out, err := run(t, Store{}, "render", "--params", params, head, body)
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	want := "Dear Acme Corp,\nyou owe 19.99. {{ NOPE(1) }}\n"
	if out != want {
		t.Errorf("render output = %q, want %q", out, want)
	}

	out, err = run(t, Store{}, "render", "--strict", "--params", params, head, body)
	if !errors.Is(err, ErrFallback) {
		t.Fatalf("render --strict error = %v, want ErrFallback", err)
	}

	if out != want {
		t.Errorf("strict output = %q, want the partial render", out)
	}

	_, err = run(t, Store{}, "render", filepath.Join(dir, "missing.txt"))
	if !errors.Is(err, ErrReadInput) {
		t.Errorf("missing file error = %v, want ErrReadInput", err)
	}
}

func TestCheckReport(t *testing.T) {
	const src = "a {{ 1 + }} b {{ X }}"

	report := lang.RenderReport(src, lang.Params{"X": lang.NewInteger(1)})

	if err := checkReport(t.Context(), src, report, false); err != nil {
		t.Errorf("lenient checkReport() = %v", err)
	}

	err := checkReport(t.Context(), src, report, true)
	if !errors.Is(err, ErrFallback) {
		t.Fatalf("strict checkReport() = %v, want ErrFallback", err)
	}

	if msg := err.Error(); !strings.Contains(msg, "placeholders left unrendered") {
		t.Errorf("error = %q", msg)
	}

	clean := lang.RenderReport("{{ X }}", lang.Params{"X": lang.NewInteger(1)})
	if err := checkReport(t.Context(), "{{ X }}", clean, true); err != nil {
		t.Errorf("strict checkReport() on clean report = %v", err)
	}
}
