package template

import (
	"context"
	"encoding/json"
	"io"
	"time"

	"github.com/google/uuid"
)

// exported is the JSON document written by Export.
type exported struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	Body          string    `json:"body"`
	ExportedAtUTC time.Time `json:"exportedAtUtc"`
}

// Export writes t to w as an indented JSON document stamped with now.
func Export(ctx context.Context, w io.Writer, t *Template, now time.Time) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)

	if err := enc.Encode(exported{
		ID:            t.ID,
		Name:          t.Name,
		Body:          t.Body,
		ExportedAtUTC: now.UTC(),
	}); err != nil {
		return ErrWrite.Wrap(err).With(idAttr(t.ID))
	}

	return nil
}

// ExportFileName returns the conventional file name for an export of t.
func ExportFileName(t *Template) string {
	return "template-" + t.ID.String() + ".json"
}
