package cli

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ardnew/reportgen/template"
)

func TestUserDir(t *testing.T) {
	base := t.TempDir()

	got := userDir(func() (string, error) { return base, nil }, ".config")
	if want := filepath.Join(base, basePrefix()); got != want {
		t.Errorf("userDir() = %q, want %q", got, want)
	}

	got = userDir(func() (string, error) { return "", errors.New("unset") }, ".cache")
	if !strings.HasSuffix(got, filepath.Join(".cache", basePrefix())) &&
		!strings.HasSuffix(got, basePrefix()) {
		t.Errorf("fallback userDir() = %q", got)
	}
}

func TestBasePrefix(t *testing.T) {
	if p := basePrefix(); p == "" || strings.HasPrefix(p, ".") {
		t.Errorf("basePrefix() = %q", p)
	}
}

func TestStorePath(t *testing.T) {
	tests := []struct {
		kind template.StoreKind
		want string
	}{
		{template.StoreDir, configPath("templates")},
		{template.StoreSQLite, configPath("templates.db")},
		{template.StoreMemory, ""},
	}

	for _, tt := range tests {
		if got := storePath(tt.kind); got != tt.want {
			t.Errorf("storePath(%s) = %q, want %q", tt.kind, got, tt.want)
		}
	}
}

func TestStoreConfig_Location(t *testing.T) {
	got := storeConfig{Kind: "SQLite"}.location()
	if got.Kind != template.StoreSQLite || got.Path != configPath("templates.db") {
		t.Errorf("location() = %+v", got)
	}

	dir := t.TempDir()

	got = storeConfig{Kind: "dir", Path: dir}.location()
	if got.Kind != template.StoreDir || got.Path != dir {
		t.Errorf("location() with path = %+v", got)
	}
}
