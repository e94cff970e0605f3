package template

import (
	"cmp"
	"context"
	"log/slog"
	"slices"
	"time"

	"github.com/google/uuid"
)

// MaxNameLength is the longest accepted template name, in characters.
const MaxNameLength = 200

// Template is a named report body containing {{ }} placeholders.
type Template struct {
	ID        uuid.UUID
	Name      string
	Body      string
	CreatedAt time.Time
}

// clone returns a copy of t so stores never share a Template with callers.
func (t *Template) clone() *Template {
	c := *t

	return &c
}

// Repository persists templates.
//
// Get of a missing id returns [ErrNotFound]. Updates and deletes of a missing
// id do nothing and return nil. List orders templates by name.
type Repository interface {
	Get(ctx context.Context, id uuid.UUID) (*Template, error)
	List(ctx context.Context) ([]*Template, error)
	Add(ctx context.Context, t *Template) error
	UpdateBody(ctx context.Context, id uuid.UUID, body string) error
	UpdateName(ctx context.Context, id uuid.UUID, name string) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// sortByName orders list by name, breaking ties by creation time and id.
func sortByName(list []*Template) {
	slices.SortFunc(list, func(a, b *Template) int {
		return cmp.Or(
			cmp.Compare(a.Name, b.Name),
			a.CreatedAt.Compare(b.CreatedAt),
			cmp.Compare(a.ID.String(), b.ID.String()),
		)
	})
}

func idAttr(id uuid.UUID) slog.Attr { return slog.String("id", id.String()) }
