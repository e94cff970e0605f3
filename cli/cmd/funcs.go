package cmd

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/ardnew/reportgen/lang"
)

// Funcs prints the function library.
type Funcs struct {
	Plain bool `help:"Print one tab-separated line per function without borders."`
}

// Run executes the funcs command.
func (f *Funcs) Run(ctx context.Context) error {
	w := stdout(ctx)

	rows := make([][]string, 0, len(lang.Functions()))
	for _, fn := range lang.Functions() {
		rows = append(rows, []string{
			fn.Signature,
			strings.Join(fn.Aliases, ", "),
			arity(fn),
		})
	}

	if f.Plain {
		for _, row := range rows {
			if _, err := fmt.Fprintln(w, strings.Join(row, "\t")); err != nil {
				return ErrWriteOutput.Wrap(err)
			}
		}

		return nil
	}

	header := lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cell := lipgloss.NewStyle().Padding(0, 1)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		Headers("FUNCTION", "ALIASES", "ARGS").
		Rows(rows...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return header
			}

			return cell
		})

	if _, err := fmt.Fprintln(w, t.Render()); err != nil {
		return ErrWriteOutput.Wrap(err)
	}

	return nil
}

// arity describes the accepted argument count, such as "2", "1-2" or "0+".
func arity(fn lang.FunctionInfo) string {
	switch {
	case fn.MaxArgs < 0:
		return strconv.Itoa(fn.MinArgs) + "+"

	case fn.MinArgs == fn.MaxArgs:
		return strconv.Itoa(fn.MinArgs)

	default:
		return strconv.Itoa(fn.MinArgs) + "-" + strconv.Itoa(fn.MaxArgs)
	}
}
