package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/ardnew/reportgen/lang"
)

// outputIndent is the indentation of structured eval output.
const outputIndent = 2

// Eval evaluates one expression against the given parameters.
type Eval struct {
	Input paramFlags `embed:""`

	Expr   []string `arg:""                              help:"Expression to evaluate, or '-' to read it from stdin." name:"expr"`
	Output string   `default:"text" enum:"text,json,yaml" help:"Output format (${enum})."                              short:"o"`
}

// Run executes the eval command.
func (e *Eval) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	params, err := e.Input.load(ctx)
	if err != nil {
		return err
	}

	expr, err := e.parse(ctx)
	if err != nil {
		return ErrEvaluate.Wrap(err).With(slog.String("command", "eval"))
	}

	v, err := expr.Evaluate(params, langOptions(ctx)...)
	if err != nil {
		return ErrEvaluate.Wrap(err).With(
			slog.String("command", "eval"),
			slog.String("expr", expr.Source()),
		)
	}

	err = writeValue(ctx, stdout(ctx), v, e.Output)
	if err != nil {
		return ErrWriteOutput.Wrap(err).With(slog.String("format", e.Output))
	}

	return nil
}

func (e *Eval) parse(ctx context.Context) (*lang.Expression, error) {
	if len(e.Expr) == 1 && e.Expr[0] == stdinSource {
		return lang.ParseReader(os.Stdin, langOptions(ctx)...)
	}

	return lang.Parse(strings.Join(e.Expr, " "), langOptions(ctx)...)
}

// writeValue prints v in the named format.
func writeValue(ctx context.Context, w io.Writer, v lang.Value, format string) error {
	switch format {
	case "json":
		return lang.FormatJSON(ctx, w, v, outputIndent)

	case "yaml":
		return lang.FormatYAML(ctx, w, v, outputIndent)

	default:
		_, err := fmt.Fprintln(w, lang.FormatValue(v))

		return err
	}
}
