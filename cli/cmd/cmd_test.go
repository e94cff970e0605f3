package cmd

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/alecthomas/kong"

	"github.com/ardnew/reportgen/lang"
)

// testCLI mirrors the command tree of the application without the global
// logging and profiling options.
type testCLI struct {
	Store struct {
		Kind string `default:"dir"`
	} `embed:"" prefix:"store-"`

	Init     Init     `cmd:""`
	Funcs    Funcs    `cmd:""`
	Eval     Eval     `cmd:""`
	Render   Render   `cmd:""`
	Template Template `cmd:""`
}

// run parses and executes args against store, returning everything the
// command printed.
func run(t *testing.T, store Store, args ...string) (string, error) {
	t.Helper()

	var (
		cli testCLI
		out bytes.Buffer
	)

	dir := t.TempDir()
	ctx := t.Context()

	parser, err := kong.New(&cli,
		kong.Name("reportgen"),
		kong.Exit(func(int) { t.Fatal("unexpected exit") }),
		kong.Writers(&out, &out),
		kong.BindSingletonProvider(func() context.Context { return ctx }),
		kong.Vars{
			ConfigIdentifier: filepath.Join(dir, "config.yaml"),
			CacheIdentifier:  dir,
		},
	)
	if err != nil {
		t.Fatalf("kong.New: %v", err)
	}

	ktx, err := parser.Parse(args)
	if err != nil {
		t.Fatalf("Parse(%q): %v", args, err)
	}

	ctx = WithContext(ctx, ktx)
	ctx = WithStore(ctx, store)

	err = ktx.Run(ctx)

	return out.String(), err
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	return path
}

func TestParamFlags_Load(t *testing.T) {
	dir := t.TempDir()
	first := writeFile(t, dir, "a.yaml", "Qty: 2\nPrice: 1.10\nName: Acme\n")
	second := writeFile(t, dir, "b.json", `{"Qty": 3, "Note": "json"}`)

	tests := []struct {
		name  string
		flags paramFlags
		check func(t *testing.T, p lang.Params)
	}{
		{
			name:  "files_in_order",
			flags: paramFlags{Params: []string{first, second}},
			check: func(t *testing.T, p lang.Params) {
				if !p["Qty"].Equal(lang.NewInteger(3)) {
					t.Errorf("Qty = %v, want 3 from the later file", p["Qty"])
				}

				if p["Price"].Kind() != lang.KindReal {
					t.Errorf("Price kind = %s, want real", p["Price"].Kind())
				}

				if !p["Note"].Equal(lang.NewString("json")) {
					t.Errorf("Note = %v", p["Note"])
				}
			},
		},
		{
			name:  "decimal",
			flags: paramFlags{Params: []string{first}, Decimal: true},
			check: func(t *testing.T, p lang.Params) {
				for _, name := range []string{"Qty", "Price"} {
					if p[name].Kind() != lang.KindDecimal {
						t.Errorf("%s kind = %s, want decimal", name, p[name].Kind())
					}
				}
			},
		},
		{
			name: "pairs_override_files",
			flags: paramFlags{
				Params: []string{first},
				Param:  []string{"Qty=7", "Name = 'x=y'", "Empty="},
			},
			check: func(t *testing.T, p lang.Params) {
				if !p["Qty"].Equal(lang.NewInteger(7)) {
					t.Errorf("Qty = %v, want 7", p["Qty"])
				}

				if !p["Name"].Equal(lang.NewString("x=y")) {
					t.Errorf("Name = %v, want x=y", p["Name"])
				}

				if !p["Empty"].Equal(lang.NewString("")) {
					t.Errorf("Empty = %v, want empty string", p["Empty"])
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params, err := tt.flags.load(t.Context())
			if err != nil {
				t.Fatalf("load(): %v", err)
			}

			tt.check(t, params)
		})
	}
}

func TestParamFlags_LoadErrors(t *testing.T) {
	dir := t.TempDir()
	bad := writeFile(t, dir, "bad.yaml", "- just\n- a list\n")

	tests := []struct {
		name  string
		flags paramFlags
		want  error
	}{
		{"missing_equals", paramFlags{Param: []string{"Qty"}}, ErrParamSyntax},
		{"empty_name", paramFlags{Param: []string{"=1"}}, ErrParamSyntax},
		{"missing_file", paramFlags{Params: []string{filepath.Join(dir, "nope.yaml")}}, ErrReadParams},
		{"not_a_mapping", paramFlags{Params: []string{bad}}, ErrReadParams},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.flags.load(t.Context())
			if !errors.Is(err, tt.want) {
				t.Fatalf("load() error = %v, want %v", err, tt.want)
			}

			if !errors.Is(err, ErrReadParams) {
				t.Errorf("load() error = %v, want it to wrap ErrReadParams", err)
			}
		})
	}
}

func TestOpenInputs_Dedup(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.txt", "alpha ")
	b := writeFile(t, dir, "b.txt", "beta")

	link := filepath.Join(dir, "link.txt")
	if err := os.Symlink(a, link); err != nil {
		t.Skipf("symlink: %v", err)
	}

	in, err := openInputs([]string{a, link, b, a})
	if err != nil {
		t.Fatal(err)
	}
	defer in.Close()

	if len(in.names) != 2 {
		t.Fatalf("openInputs() kept %v, want 2 sources", in.names)
	}

	data, err := io.ReadAll(in.Reader())
	if err != nil {
		t.Fatal(err)
	}

	if got := string(data); got != "alpha beta" {
		t.Errorf("Reader() = %q, want %q", got, "alpha beta")
	}
}

func TestOpenInputs_Missing(t *testing.T) {
	if _, err := openInputs([]string{filepath.Join(t.TempDir(), "missing")}); err == nil {
		t.Error("openInputs() on a missing file should fail")
	}
}
