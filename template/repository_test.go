package template

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type repoFactory struct {
	name string
	open func(t *testing.T) Repository
}

func repoFactories() []repoFactory {
	return []repoFactory{
		{"memory", func(*testing.T) Repository { return NewMemory() }},
		{"dir", func(t *testing.T) Repository {
			d, err := NewDir(filepath.Join(t.TempDir(), "templates"))
			require.NoError(t, err)

			return d
		}},
		{"sqlite", func(t *testing.T) Repository {
			s, err := OpenSQLite(t.Context(), filepath.Join(t.TempDir(), "templates.db"))
			require.NoError(t, err)
			t.Cleanup(func() { _ = s.Close() })

			return s
		}},
	}
}

func newTemplate(name, body string) *Template {
	return &Template{
		ID:        uuid.New(),
		Name:      name,
		Body:      body,
		CreatedAt: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestRepository_Contract(t *testing.T) {
	for _, f := range repoFactories() {
		t.Run(f.name, func(t *testing.T) {
			ctx := t.Context()
			repo := f.open(t)

			list, err := repo.List(ctx)
			require.NoError(t, err)
			assert.Empty(t, list)

			b := newTemplate("B report", "b body")
			a := newTemplate("A report", "line 1\nline 2: {{ x }}")
			c := newTemplate("C report", "")

			for _, tpl := range []*Template{b, a, c} {
				require.NoError(t, repo.Add(ctx, tpl))
			}

			got, err := repo.Get(ctx, a.ID)
			require.NoError(t, err)
			assert.Equal(t, a.ID, got.ID)
			assert.Equal(t, a.Name, got.Name)
			assert.Equal(t, a.Body, got.Body)
			assert.True(t, a.CreatedAt.Equal(got.CreatedAt))

			list, err = repo.List(ctx)
			require.NoError(t, err)
			require.Len(t, list, 3)
			assert.Equal(t, "A report", list[0].Name)
			assert.Equal(t, "B report", list[1].Name)
			assert.Equal(t, "C report", list[2].Name)

			require.NoError(t, repo.UpdateBody(ctx, b.ID, "new body"))
			require.NoError(t, repo.UpdateName(ctx, b.ID, "0 first"))

			got, err = repo.Get(ctx, b.ID)
			require.NoError(t, err)
			assert.Equal(t, "new body", got.Body)
			assert.Equal(t, "0 first", got.Name)

			list, err = repo.List(ctx)
			require.NoError(t, err)
			assert.Equal(t, b.ID, list[0].ID)

			require.NoError(t, repo.Delete(ctx, c.ID))

			_, err = repo.Get(ctx, c.ID)
			require.ErrorIs(t, err, ErrNotFound)

			missing := uuid.New()
			require.NoError(t, repo.UpdateBody(ctx, missing, "x"))
			require.NoError(t, repo.UpdateName(ctx, missing, "x"))
			require.NoError(t, repo.Delete(ctx, missing))

			_, err = repo.Get(ctx, missing)
			require.ErrorIs(t, err, ErrNotFound)

			list, err = repo.List(ctx)
			require.NoError(t, err)
			assert.Len(t, list, 2)
		})
	}
}

func TestRepository_ReturnsCopies(t *testing.T) {
	for _, f := range repoFactories() {
		t.Run(f.name, func(t *testing.T) {
			ctx := t.Context()
			repo := f.open(t)

			tpl := newTemplate("name", "body")
			require.NoError(t, repo.Add(ctx, tpl))

			tpl.Name = "changed by caller"

			got, err := repo.Get(ctx, tpl.ID)
			require.NoError(t, err)
			assert.Equal(t, "name", got.Name)

			got.Body = "changed again"

			again, err := repo.Get(ctx, tpl.ID)
			require.NoError(t, err)
			assert.Equal(t, "body", again.Body)
		})
	}
}

func TestRepository_CanceledContext(t *testing.T) {
	for _, f := range repoFactories() {
		t.Run(f.name, func(t *testing.T) {
			repo := f.open(t)

			ctx, cancel := context.WithCancel(t.Context())
			cancel()

			require.Error(t, repo.Add(ctx, newTemplate("x", "")))
		})
	}
}

func TestDir_PersistsAcrossInstances(t *testing.T) {
	ctx := t.Context()
	path := t.TempDir()

	first, err := NewDir(path)
	require.NoError(t, err)

	tpl := newTemplate("Sales Report", "Total: {{ ROUND(Total, 2) }}\n")
	require.NoError(t, first.Add(ctx, tpl))

	second, err := NewDir(path)
	require.NoError(t, err)

	got, err := second.Get(ctx, tpl.ID)
	require.NoError(t, err)
	assert.Equal(t, tpl.Body, got.Body)
	assert.True(t, tpl.CreatedAt.Equal(got.CreatedAt))

	entries, err := os.ReadDir(path)
	require.NoError(t, err)
	require.Len(t, entries, 1, "temporary files must not remain")
	assert.Equal(t, tpl.ID.String()+".yaml", entries[0].Name())
}

func TestDir_IgnoresForeignFiles(t *testing.T) {
	ctx := t.Context()
	path := t.TempDir()

	require.NoError(t, os.WriteFile(filepath.Join(path, "notes.txt"), []byte("x"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(path, "readme.yaml"), []byte("x: 1"), 0o600))
	require.NoError(t, os.Mkdir(filepath.Join(path, uuid.NewString()+".yaml"), 0o700))

	d, err := NewDir(path)
	require.NoError(t, err)

	list, err := d.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestDir_Corrupt(t *testing.T) {
	ctx := t.Context()
	path := t.TempDir()
	id := uuid.New()

	require.NoError(t, os.WriteFile(
		filepath.Join(path, id.String()+".yaml"), []byte("id: [unclosed"), 0o600))

	d, err := NewDir(path)
	require.NoError(t, err)

	_, err = d.Get(ctx, id)
	require.ErrorIs(t, err, ErrCorrupt)

	_, err = d.List(ctx)
	require.ErrorIs(t, err, ErrCorrupt)
}

func TestSQLite_PersistsAcrossInstances(t *testing.T) {
	ctx := t.Context()
	source := filepath.Join(t.TempDir(), "templates.db")

	first, err := OpenSQLite(ctx, source)
	require.NoError(t, err)

	tpl := newTemplate("Test", "body")
	require.NoError(t, first.Add(ctx, tpl))
	require.NoError(t, first.Close())

	second, err := OpenSQLite(ctx, source)
	require.NoError(t, err)
	t.Cleanup(func() { _ = second.Close() })

	list, err := second.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Test", list[0].Name)
}

func TestOpen(t *testing.T) {
	ctx := t.Context()
	dir := t.TempDir()

	for _, kind := range StoreKinds() {
		repo, err := Open(ctx, kind, filepath.Join(dir, string(kind)))
		require.NoError(t, err, kind)
		require.NoError(t, repo.Add(ctx, newTemplate("x", "")), kind)
		require.NoError(t, Close(repo), kind)
	}

	_, err := Open(ctx, StoreKind("ftp"), dir)
	require.ErrorIs(t, err, ErrStore)

	kind, ok := ParseStoreKind(" SQLite ")
	assert.True(t, ok)
	assert.Equal(t, StoreSQLite, kind)

	_, ok = ParseStoreKind("ftp")
	assert.False(t, ok)
}
