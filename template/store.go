package template

import (
	"context"
	"io"
	"log/slog"
	"slices"
	"strings"
)

// StoreKind names a Repository implementation.
type StoreKind string

const (
	StoreDir    StoreKind = "dir"
	StoreSQLite StoreKind = "sqlite"
	StoreMemory StoreKind = "memory"
)

// StoreKinds lists every StoreKind accepted by [Open].
func StoreKinds() []StoreKind {
	return []StoreKind{StoreDir, StoreSQLite, StoreMemory}
}

// ParseStoreKind returns the StoreKind named by s, ignoring case.
func ParseStoreKind(s string) (StoreKind, bool) {
	kind := StoreKind(strings.ToLower(strings.TrimSpace(s)))

	return kind, slices.Contains(StoreKinds(), kind)
}

// Open returns the repository of the given kind at path. A directory
// repository uses path as its root, a SQLite repository as its database
// file, and a memory repository ignores it. Release the result with
// [Close].
func Open(ctx context.Context, kind StoreKind, path string) (Repository, error) {
	switch kind {
	case StoreDir:
		d, err := NewDir(path)
		if err != nil {
			return nil, err
		}

		return d, nil

	case StoreSQLite:
		s, err := OpenSQLite(ctx, path)
		if err != nil {
			return nil, err
		}

		return s, nil

	case StoreMemory:
		return NewMemory(), nil

	default:
		return nil, ErrStore.With(slog.String("kind", string(kind)))
	}
}

// Close releases repo if it holds resources.
func Close(repo Repository) error {
	if c, ok := repo.(io.Closer); ok {
		return c.Close()
	}

	return nil
}
