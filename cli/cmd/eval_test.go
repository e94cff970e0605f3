package cmd

import (
	"errors"
	"strings"
	"testing"
)

func TestEvalRun(t *testing.T) {
	memory := Store{}

	tests := []struct {
		name    string
		args    []string
		want    string
		wantErr error
	}{
		{
			name: "integer",
			args: []string{"eval", "-P", "Qty=3", "Qty * 2"},
			want: "6\n",
		},
		{
			name: "joined_args",
			args: []string{"eval", "-P", "Name=Acme", "CONCAT(Name,", "'!')"},
			want: "Acme!\n",
		},
		{
			name: "json",
			args: []string{"eval", "-o", "json", "-P", "Qty=3", "Qty > 1"},
			want: `"kind": "boolean"`,
		},
		{
			name: "yaml",
			args: []string{"eval", "--output=yaml", "LEN('abc')"},
			want: "kind: integer",
		},
		{
			name:    "syntax_error",
			args:    []string{"eval", "1 +"},
			wantErr: ErrEvaluate,
		},
		{
			name:    "unknown_parameter",
			args:    []string{"eval", "Missing + 1"},
			wantErr: ErrEvaluate,
		},
		{
			name:    "bad_pair",
			args:    []string{"eval", "-P", "oops", "1"},
			wantErr: ErrParamSyntax,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := run(t, memory, tt.args...)

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("error = %v, want %v", err, tt.wantErr)
				}

				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if !strings.Contains(out, tt.want) {
				t.Errorf("output = %q, want %q", out, tt.want)
			}
		})
	}
}

func TestFuncsRun(t *testing.T) {
	out, err := run(t, Store{}, "funcs", "--plain")
	if err != nil {
		t.Fatal(err)
	}

	for _, want := range []string{
		"ROUND(number[, digits])\t\t1-2\n",
		"IF(cond, then, else)\tIIF\t3\n",
		"CONCAT(...values)\t\t0+\n",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("funcs --plain missing %q", want)
		}
	}

	out, err = run(t, Store{}, "funcs")
	if err != nil {
		t.Fatal(err)
	}

	if !strings.Contains(out, "FUNCTION") || !strings.Contains(out, "SUBSTRING") {
		t.Errorf("funcs table = %q", out)
	}
}
