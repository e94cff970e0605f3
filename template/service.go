package template

import (
	"context"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/ardnew/reportgen/lang"
	"github.com/ardnew/reportgen/log"
)

// SampleName and SampleBody describe the template added by [Service.Seed].
const (
	SampleName = "Sample"
	SampleBody = "Invoice\n\nCustomer: {{ CustomerName }}\nTotal: {{ ROUND(Total, 2) }}"
)

// Service applies the template rules on top of a Repository.
type Service struct {
	repo   Repository
	logger log.Logger
	now    func() time.Time
	newID  func() uuid.UUID
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the logger receiving debug records of store changes.
func WithLogger(logger log.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

// WithClock sets the source of creation times.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithIDs sets the source of template ids.
func WithIDs(newID func() uuid.UUID) Option {
	return func(s *Service) {
		if newID != nil {
			s.newID = newID
		}
	}
}

// NewService returns a Service storing templates in repo.
func NewService(repo Repository, opts ...Option) *Service {
	s := &Service{repo: repo, now: time.Now, newID: uuid.New}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Repository returns the underlying store.
func (s *Service) Repository() Repository { return s.repo }

// List returns every template ordered by name.
func (s *Service) List(ctx context.Context) ([]*Template, error) {
	return s.repo.List(ctx)
}

// Get returns the template with the given id.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Template, error) {
	return s.repo.Get(ctx, id)
}

// Create stores a new template. Name and body are trimmed; the name must not
// be blank.
func (s *Service) Create(ctx context.Context, name, body string) (*Template, error) {
	name, err := checkName(name)
	if err != nil {
		return nil, err
	}

	t := &Template{
		ID:        s.newID(),
		Name:      name,
		Body:      strings.TrimSpace(body),
		CreatedAt: s.now().UTC(),
	}

	if err := s.repo.Add(ctx, t); err != nil {
		return nil, err
	}

	s.logger.DebugContext(ctx, "template created",
		idAttr(t.ID), slog.String("name", t.Name))

	return t, nil
}

// Rename changes the name of a template. The new name follows the same
// rules as in [Service.Create].
func (s *Service) Rename(ctx context.Context, id uuid.UUID, name string) error {
	name, err := checkName(name)
	if err != nil {
		return err
	}

	if err := s.repo.UpdateName(ctx, id, name); err != nil {
		return err
	}

	s.logger.DebugContext(ctx, "template renamed",
		idAttr(id), slog.String("name", name))

	return nil
}

// UpdateBody replaces the trimmed body of a template.
func (s *Service) UpdateBody(ctx context.Context, id uuid.UUID, body string) error {
	body = strings.TrimSpace(body)

	if err := s.repo.UpdateBody(ctx, id, body); err != nil {
		return err
	}

	s.logger.DebugContext(ctx, "template body updated",
		idAttr(id), slog.Int("bytes", len(body)))

	return nil
}

// Delete removes a template.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.DebugContext(ctx, "template deleted", idAttr(id))

	return nil
}

// Render renders the body of a template against params.
func (s *Service) Render(
	ctx context.Context,
	id uuid.UUID,
	params lang.Params,
	opts ...lang.Option,
) (string, error) {
	report, err := s.RenderReport(ctx, id, params, opts...)

	return report.Text, err
}

// RenderReport renders the body of a template and reports the outcome of
// every placeholder.
func (s *Service) RenderReport(
	ctx context.Context,
	id uuid.UUID,
	params lang.Params,
	opts ...lang.Option,
) (lang.Report, error) {
	t, err := s.repo.Get(ctx, id)
	if err != nil {
		return lang.Report{}, err
	}

	opts = append([]lang.Option{
		lang.WithContext(ctx),
		lang.WithLogger(s.logger),
	}, opts...)

	return lang.RenderReport(t.Body, params, opts...), nil
}

// Find resolves ref to a template. A ref may be a complete id, the exact
// name of one template, or a prefix of exactly one template id.
func (s *Service) Find(ctx context.Context, ref string) (*Template, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, ErrNotFound
	}

	if id, err := uuid.Parse(ref); err == nil {
		return s.repo.Get(ctx, id)
	}

	list, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	var byName, byPrefix []*Template

	prefix := strings.ToLower(ref)

	for _, t := range list {
		if t.Name == ref {
			byName = append(byName, t)
		}

		if strings.HasPrefix(t.ID.String(), prefix) {
			byPrefix = append(byPrefix, t)
		}
	}

	for _, match := range [][]*Template{byName, byPrefix} {
		switch len(match) {
		case 0:
			continue

		case 1:
			return match[0], nil

		default:
			return nil, ErrAmbiguous.With(
				slog.String("ref", ref), slog.Int("matches", len(match)))
		}
	}

	return nil, ErrNotFound.With(slog.String("ref", ref))
}

// Seed adds the sample template when the store is empty. It returns the new
// template, or nil when the store already held templates.
func (s *Service) Seed(ctx context.Context) (*Template, error) {
	list, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	if len(list) > 0 {
		return nil, nil
	}

	return s.Create(ctx, SampleName, SampleBody)
}

func checkName(name string) (string, error) {
	name = strings.TrimSpace(name)

	switch {
	case name == "":
		return "", ErrNameRequired

	case utf8.RuneCountInString(name) > MaxNameLength:
		return "", ErrNameTooLong.With(
			slog.Int("length", utf8.RuneCountInString(name)),
			slog.Int("max", MaxNameLength))
	}

	return name, nil
}
