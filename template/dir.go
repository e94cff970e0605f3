package template

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/goccy/go-yaml"
	"github.com/google/uuid"
	"github.com/klauspost/readahead"
)

const docExt = ".yaml"

// document is the on-disk form of a Template.
type document struct {
	ID        string    `yaml:"id"`
	Name      string    `yaml:"name"`
	Body      string    `yaml:"body"`
	CreatedAt time.Time `yaml:"created_at"`
}

// Dir is a Repository storing one YAML document per template in a
// directory. Files are named after the template id and replaced atomically
// on every write.
type Dir struct {
	path string
	mu   sync.Mutex
}

// NewDir returns a repository rooted at path, creating the directory if it
// does not exist.
func NewDir(path string) (*Dir, error) {
	if err := os.MkdirAll(path, 0o700); err != nil {
		return nil, ErrStore.Wrap(err).With(slog.String("path", path))
	}

	return &Dir{path: path}, nil
}

// Path returns the directory holding the template documents.
func (d *Dir) Path() string { return d.path }

func (d *Dir) file(id uuid.UUID) string {
	return filepath.Join(d.path, id.String()+docExt)
}

func (d *Dir) Get(ctx context.Context, id uuid.UUID) (*Template, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return d.read(d.file(id))
}

func (d *Dir) List(ctx context.Context) ([]*Template, error) {
	entries, err := os.ReadDir(d.path)
	if err != nil {
		return nil, ErrStore.Wrap(err).With(slog.String("path", d.path))
	}

	list := make([]*Template, 0, len(entries))

	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, docExt) {
			continue
		}

		if _, err := uuid.Parse(strings.TrimSuffix(name, docExt)); err != nil {
			continue
		}

		t, err := d.read(filepath.Join(d.path, name))
		if err != nil {
			// Removed between ReadDir and read.
			if errors.Is(err, ErrNotFound) {
				continue
			}

			return nil, err
		}

		list = append(list, t)
	}

	sortByName(list)

	return list, nil
}

func (d *Dir) Add(ctx context.Context, t *Template) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	return d.write(t)
}

func (d *Dir) UpdateBody(ctx context.Context, id uuid.UUID, body string) error {
	return d.update(ctx, id, func(t *Template) { t.Body = body })
}

func (d *Dir) UpdateName(ctx context.Context, id uuid.UUID, name string) error {
	return d.update(ctx, id, func(t *Template) { t.Name = name })
}

func (d *Dir) update(ctx context.Context, id uuid.UUID, fn func(*Template)) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	t, err := d.read(d.file(id))
	if errors.Is(err, ErrNotFound) {
		return nil
	}

	if err != nil {
		return err
	}

	fn(t)

	return d.write(t)
}

func (d *Dir) Delete(ctx context.Context, id uuid.UUID) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	err := os.Remove(d.file(id))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return ErrWrite.Wrap(err).With(idAttr(id))
	}

	return nil
}

func (d *Dir) read(path string) (*Template, error) {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNotFound.With(slog.String("file", path))
	}

	if err != nil {
		return nil, ErrStore.Wrap(err).With(slog.String("file", path))
	}
	defer f.Close()

	r := readahead.NewReader(f)
	defer r.Close()

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, ErrStore.Wrap(err).With(slog.String("file", path))
	}

	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, ErrCorrupt.Wrap(err).With(slog.String("file", path))
	}

	id, err := uuid.Parse(doc.ID)
	if err != nil {
		return nil, ErrCorrupt.Wrap(err).With(slog.String("file", path))
	}

	return &Template{
		ID:        id,
		Name:      doc.Name,
		Body:      doc.Body,
		CreatedAt: doc.CreatedAt,
	}, nil
}

// write replaces the document of t through a temporary file in the same
// directory.
func (d *Dir) write(t *Template) (err error) {
	data, err := yaml.Marshal(document{
		ID:        t.ID.String(),
		Name:      t.Name,
		Body:      t.Body,
		CreatedAt: t.CreatedAt,
	})
	if err != nil {
		return ErrWrite.Wrap(err).With(idAttr(t.ID))
	}

	tmp, err := os.CreateTemp(d.path, ".template-*.tmp")
	if err != nil {
		return ErrWrite.Wrap(err).With(idAttr(t.ID))
	}

	defer func() {
		if err != nil {
			_ = os.Remove(tmp.Name())
		}
	}()

	if _, err = tmp.Write(data); err == nil {
		err = tmp.Sync()
	}

	if cerr := tmp.Close(); err == nil {
		err = cerr
	}

	if err == nil {
		err = os.Rename(tmp.Name(), d.file(t.ID))
	}

	if err != nil {
		return ErrWrite.Wrap(err).With(idAttr(t.ID))
	}

	return nil
}
