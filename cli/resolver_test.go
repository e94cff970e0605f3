package cli

import (
	"reflect"
	"strings"
	"testing"

	"github.com/alecthomas/kong"
)

func TestResolve_Flatten(t *testing.T) {
	src := `
log:
  level: debug
  pretty: true
store_kind: sqlite
store-path: /tmp/t.db
retries: 3
ratio: 0.5
names: [a, 2]
`

	res, err := resolve(strings.NewReader(src))
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}

	tests := []struct {
		flag string
		want any
	}{
		{"log-level", "debug"},
		{"log-pretty", true},
		{"store-kind", "sqlite"},
		{"store-path", "/tmp/t.db"},
		{"retries", "3"},
		{"ratio", "0.5"},
		{"names", []any{"a", "2"}},
		{"missing", nil},
	}

	for _, tt := range tests {
		t.Run(tt.flag, func(t *testing.T) {
			got, err := res.Resolve(nil, nil, &kong.Flag{Value: &kong.Value{Name: tt.flag}})
			if err != nil {
				t.Fatalf("Resolve: %v", err)
			}

			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Resolve(%q) = %#v, want %#v", tt.flag, got, tt.want)
			}
		})
	}
}

func TestResolve_Invalid(t *testing.T) {
	for _, src := range []string{"", "log: [unclosed", "- just\n- a list\n"} {
		res, err := resolve(strings.NewReader(src))
		if err != nil {
			t.Fatalf("resolve(%q): %v", src, err)
		}

		got, err := res.Resolve(nil, nil, &kong.Flag{Value: &kong.Value{Name: "log-level"}})
		if err != nil || got != nil {
			t.Errorf("resolve(%q) = %v, %v; want nil, nil", src, got, err)
		}

		if err := res.Validate(nil); err != nil {
			t.Errorf("Validate: %v", err)
		}
	}
}
