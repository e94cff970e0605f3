package cmd

import (
	"context"
	"io"
	"log/slog"

	"github.com/ardnew/reportgen/lang"
	"github.com/ardnew/reportgen/log"
)

// Render substitutes the placeholders of template text read from files or
// stdin.
type Render struct {
	Input paramFlags `embed:""`

	Files  []string `arg:"" default:"-" help:"Template files to render in order ('-' for stdin)." name:"file"`
	Strict bool     `                   help:"Fail when any placeholder could not be rendered."`
}

// Run executes the render command.
func (r *Render) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	params, err := r.Input.load(ctx)
	if err != nil {
		return err
	}

	in, err := openInputs(r.Files)
	if err != nil {
		return ErrReadInput.Wrap(err)
	}
	defer in.Close()

	text, err := io.ReadAll(in.Reader())
	if err != nil {
		return ErrReadInput.Wrap(err)
	}

	report := lang.RenderReport(string(text), params, langOptions(ctx)...)

	_, err = io.WriteString(stdout(ctx), report.Text)
	if err != nil {
		return ErrWriteOutput.Wrap(err)
	}

	return checkReport(ctx, string(text), report, r.Strict)
}

// checkReport logs every placeholder that kept its source text. In strict
// mode each one is a warning and together they fail the command.
func checkReport(ctx context.Context, source string, report lang.Report, strict bool) error {
	failed := report.Failed()

	logf := log.DebugContext
	if strict {
		logf = log.WarnContext
	}

	for _, o := range failed {
		logf(ctx, "placeholder not rendered",
			slog.String("placeholder", o.Span.Text(source)),
			slog.Any("error", o.Err),
		)
	}

	if strict && len(failed) > 0 {
		return ErrFallback.With(
			slog.Int("failed", len(failed)),
			slog.Int("placeholders", len(report.Outcomes)),
		)
	}

	return nil
}
