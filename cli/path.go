package cli

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"

	"github.com/ardnew/reportgen/pkg"
	"github.com/ardnew/reportgen/template"
)

// baseConfig is the base name of the configuration file.
const baseConfig = "config.yaml"

// defaultDirMode is the permission mode of created directories.
const defaultDirMode os.FileMode = 0o700

// Executable names rewritten before use as the directory name.
var prefixRules = []struct {
	rex *regexp.Regexp
	rep string
}{
	{regexp.MustCompile(`^__debug_bin\d+$`), pkg.Name}, // dlv default output
	{regexp.MustCompile(`^\.+`), ""},
}

// basePrefix is the name of the per-user directories: the executable name
// without extension, so a renamed binary keeps separate configuration.
var basePrefix = sync.OnceValue(func() string {
	id := os.Args[0]
	if exe, err := os.Executable(); err == nil {
		id = exe
	}

	id = filepath.Base(id)
	id = strings.TrimSuffix(id, filepath.Ext(id))

	for _, rule := range prefixRules {
		id = rule.rex.ReplaceAllString(id, rule.rep)
	}

	if id == "" {
		return pkg.Name
	}

	return id
})

// userDir returns basePrefix inside the directory reported by base. When
// base fails it falls back to hidden below the home directory, then to the
// working directory.
func userDir(base func() (string, error), hidden string) string {
	dir, err := base()
	if err != nil {
		if home, herr := os.UserHomeDir(); herr == nil {
			dir = filepath.Join(home, hidden)
		} else if dir, err = os.Getwd(); err != nil {
			dir = "."
		}
	}

	return filepath.Join(dir, basePrefix())
}

var (
	configDir = sync.OnceValue(func() string { return userDir(os.UserConfigDir, ".config") })
	cacheDir  = sync.OnceValue(func() string { return userDir(os.UserCacheDir, ".cache") })
)

// configPath joins elem to the configuration directory.
func configPath(elem ...string) string {
	return filepath.Join(append([]string{configDir()}, elem...)...)
}

// mkdirAllRequired creates the configuration and cache directories.
func mkdirAllRequired() error {
	for _, dir := range []string{configDir(), cacheDir()} {
		if err := os.MkdirAll(dir, defaultDirMode); err != nil {
			return err
		}
	}

	return nil
}

// storePath returns the default location of a template store of the given
// kind. The in-memory store has no location.
func storePath(kind template.StoreKind) string {
	switch kind {
	case template.StoreDir:
		return configPath("templates")

	case template.StoreSQLite:
		return configPath("templates.db")

	default:
		return ""
	}
}
