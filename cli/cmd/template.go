package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/ardnew/reportgen/template"
)

// shortID is the number of id characters shown by template list.
const shortID = 8

// Template groups the commands that manage stored templates.
type Template struct {
	List   TemplateList   `cmd:"" default:"1" help:"List stored templates"`
	Add    TemplateAdd    `cmd:""             help:"Store a new template"`
	Show   TemplateShow   `cmd:""             help:"Print the body of a template"`
	Rename TemplateRename `cmd:""             help:"Rename a template"`
	Edit   TemplateEdit   `cmd:""             help:"Replace the body of a template"`
	Rm     TemplateRm     `cmd:""             help:"Delete a template"`
	Render TemplateRender `cmd:""             help:"Render a stored template"`
	Export TemplateExport `cmd:""             help:"Write a template as a JSON document"`
	Seed   TemplateSeed   `cmd:""             help:"Add the sample template to an empty store"`
}

// templateRef is the positional argument naming one template.
type templateRef struct {
	Ref string `arg:"" help:"Template id, unique id prefix, or exact name." name:"ref"`
}

func (r templateRef) find(ctx context.Context, svc *template.Service) (*template.Template, error) {
	t, err := svc.Find(ctx, r.Ref)
	if err != nil {
		return nil, ErrTemplateLookup.Wrap(err).With(slog.String("ref", r.Ref))
	}

	return t, nil
}

// bodySource reads a template body from --body or --file.
type bodySource struct {
	Body string `help:"Template body text."                         xor:"body"`
	File string `help:"Read the template body from FILE ('-' for stdin)." placeholder:"FILE" short:"f" xor:"body"`
}

func (b bodySource) read() (string, error) {
	if b.Body != "" && b.File != "" {
		return "", ErrTemplateBody
	}

	if b.File == "" {
		return b.Body, nil
	}

	in, err := openInputs([]string{b.File})
	if err != nil {
		return "", ErrReadInput.Wrap(err).With(slog.String("file", b.File))
	}
	defer in.Close()

	data, err := io.ReadAll(in.Reader())
	if err != nil {
		return "", ErrReadInput.Wrap(err).With(slog.String("file", b.File))
	}

	return string(data), nil
}

// withService opens the configured store for the duration of fn.
func withService(ctx context.Context, fn func(*template.Service) error) error {
	svc, closeRepo, err := openService(ctx)
	if err != nil {
		return err
	}
	defer closeRepo()

	return fn(svc)
}

// TemplateList prints every stored template ordered by name.
type TemplateList struct {
	Plain bool `help:"Print full ids as tab-separated lines without borders."`
}

// Run executes the template list command.
func (l *TemplateList) Run(ctx context.Context) error {
	return withService(ctx, func(svc *template.Service) error {
		list, err := svc.List(ctx)
		if err != nil {
			return err
		}

		w := stdout(ctx)

		if l.Plain {
			for _, t := range list {
				_, err := fmt.Fprintf(w, "%s\t%s\t%s\n",
					t.ID, t.Name, t.CreatedAt.Format(time.RFC3339))
				if err != nil {
					return ErrWriteOutput.Wrap(err)
				}
			}

			return nil
		}

		rows := make([][]string, len(list))
		for i, t := range list {
			rows[i] = []string{
				t.ID.String()[:shortID],
				t.Name,
				t.CreatedAt.Local().Format(time.DateTime),
			}
		}

		tbl := table.New().
			Border(lipgloss.RoundedBorder()).
			Headers("ID", "NAME", "CREATED").
			Rows(rows...).
			StyleFunc(func(int, int) lipgloss.Style {
				return lipgloss.NewStyle().Padding(0, 1)
			})

		if _, err := fmt.Fprintln(w, tbl.Render()); err != nil {
			return ErrWriteOutput.Wrap(err)
		}

		return nil
	})
}

// TemplateAdd stores a new template and prints its id.
type TemplateAdd struct {
	Name string `arg:"" help:"Template name." name:"name"`

	Source bodySource `embed:""`
}

// Run executes the template add command.
func (a *TemplateAdd) Run(ctx context.Context) error {
	body, err := a.Source.read()
	if err != nil {
		return err
	}

	return withService(ctx, func(svc *template.Service) error {
		t, err := svc.Create(ctx, a.Name, body)
		if err != nil {
			return err
		}

		_, err = fmt.Fprintln(stdout(ctx), t.ID)

		return err
	})
}

// TemplateShow prints the body of a template.
type TemplateShow struct {
	templateRef
}

// Run executes the template show command.
func (s *TemplateShow) Run(ctx context.Context) error {
	return withService(ctx, func(svc *template.Service) error {
		t, err := s.find(ctx, svc)
		if err != nil {
			return err
		}

		_, err = fmt.Fprintln(stdout(ctx), t.Body)

		return err
	})
}

// TemplateRename changes the name of a template.
type TemplateRename struct {
	templateRef

	Name string `arg:"" help:"New template name." name:"name"`
}

// Run executes the template rename command.
func (r *TemplateRename) Run(ctx context.Context) error {
	return withService(ctx, func(svc *template.Service) error {
		t, err := r.find(ctx, svc)
		if err != nil {
			return err
		}

		return svc.Rename(ctx, t.ID, r.Name)
	})
}

// TemplateEdit replaces the body of a template.
type TemplateEdit struct {
	templateRef

	Source bodySource `embed:""`
}

// Run executes the template edit command.
func (e *TemplateEdit) Run(ctx context.Context) error {
	body, err := e.Source.read()
	if err != nil {
		return err
	}

	return withService(ctx, func(svc *template.Service) error {
		t, err := e.find(ctx, svc)
		if err != nil {
			return err
		}

		return svc.UpdateBody(ctx, t.ID, body)
	})
}

// TemplateRm deletes a template.
type TemplateRm struct {
	templateRef
}

// Run executes the template rm command.
func (r *TemplateRm) Run(ctx context.Context) error {
	return withService(ctx, func(svc *template.Service) error {
		t, err := r.find(ctx, svc)
		if err != nil {
			return err
		}

		return svc.Delete(ctx, t.ID)
	})
}

// TemplateRender renders a stored template to stdout.
type TemplateRender struct {
	templateRef

	Input  paramFlags `embed:""`
	Strict bool       `help:"Fail when any placeholder could not be rendered."`
}

// Run executes the template render command.
func (r *TemplateRender) Run(ctx context.Context) error {
	params, err := r.Input.load(ctx)
	if err != nil {
		return err
	}

	return withService(ctx, func(svc *template.Service) error {
		t, err := r.find(ctx, svc)
		if err != nil {
			return err
		}

		report, err := svc.RenderReport(ctx, t.ID, params, langOptions(ctx)...)
		if err != nil {
			return err
		}

		_, err = io.WriteString(stdout(ctx), report.Text)
		if err != nil {
			return ErrWriteOutput.Wrap(err)
		}

		return checkReport(ctx, t.Body, report, r.Strict)
	})
}

// TemplateExport writes a template as template-<id>.json.
type TemplateExport struct {
	templateRef

	Dir string `default:"." help:"Output directory, or '-' for stdout." placeholder:"DIR"`
}

// Run executes the template export command.
func (x *TemplateExport) Run(ctx context.Context) error {
	return withService(ctx, func(svc *template.Service) error {
		t, err := x.find(ctx, svc)
		if err != nil {
			return err
		}

		if x.Dir == stdinSource {
			return template.Export(ctx, stdout(ctx), t, time.Now())
		}

		path := filepath.Join(x.Dir, template.ExportFileName(t))

		file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
		if err != nil {
			return ErrWriteOutput.Wrap(err).With(slog.String("file", path))
		}

		err = template.Export(ctx, file, t, time.Now())
		if cerr := file.Close(); err == nil {
			err = cerr
		}

		if err != nil {
			return ErrWriteOutput.Wrap(err).With(slog.String("file", path))
		}

		_, err = fmt.Fprintln(stdout(ctx), path)

		return err
	})
}

// TemplateSeed adds the sample template when the store is empty.
type TemplateSeed struct{}

// Run executes the template seed command.
func (*TemplateSeed) Run(ctx context.Context) error {
	return withService(ctx, func(svc *template.Service) error {
		t, err := svc.Seed(ctx)
		if err != nil {
			return err
		}

		if t == nil {
			_, err = fmt.Fprintln(stdout(ctx), "store is not empty")

			return err
		}

		_, err = fmt.Fprintln(stdout(ctx), strings.Join([]string{t.ID.String(), t.Name}, "\t"))

		return err
	})
}
