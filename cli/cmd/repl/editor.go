package repl

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strings"

	"github.com/ardnew/reportgen/lang"
	"github.com/ardnew/reportgen/log"
)

const defaultEditor = "vi"

// editParamsCommand implements [tea.ExecCommand] for the edit-parse-retry
// loop over the parameter set. The parameters are written one NAME=VALUE
// per line, the same syntax as --param and the set command.
type editParamsCommand struct {
	params    lang.Params
	ctxFunc   func() context.Context
	newParams lang.Params
	logger    log.Logger
	stdin     io.Reader
	stdout    io.Writer
	stderr    io.Writer
}

// SetStdin sets the stdin reader for the command.
func (c *editParamsCommand) SetStdin(r io.Reader) { c.stdin = r }

// SetStdout sets the stdout writer for the command.
func (c *editParamsCommand) SetStdout(w io.Writer) { c.stdout = w }

// SetStderr sets the stderr writer for the command.
func (c *editParamsCommand) SetStderr(w io.Writer) { c.stderr = w }

// Run opens the editor until the buffer parses or the user declines to
// re-edit, in which case it returns [ErrEditDeclined]. A buffer left empty
// cancels the edit.
func (c *editParamsCommand) Run() error {
	ctx := c.ctxFunc()
	content := formatParams(c.params)

	f, err := os.CreateTemp(os.TempDir(), "reportgen-params-*.txt")
	if err != nil {
		return err
	}

	path := f.Name()
	defer os.Remove(path)

	if err := f.Close(); err != nil {
		return err
	}

	for {
		if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
			return err
		}

		if err := runEditor(ctx, c.stdin, c.stdout, c.stderr, path); err != nil {
			return err
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}

		if strings.TrimSpace(string(data)) == "" {
			return nil
		}

		params, parseErr := parseParams(string(data))

		c.logger.TraceContext(ctx, "editor parse attempt",
			slog.Int("content_length", len(data)),
			slog.Bool("success", parseErr == nil),
		)

		if parseErr == nil {
			c.newParams = params

			return nil
		}

		fmt.Fprintf(c.stderr, "\n%s\n", parseErr)
		fmt.Fprintf(c.stdout, "Re-edit? [Y/n] ")

		scanner := bufio.NewScanner(c.stdin)
		if !scanner.Scan() {
			return ErrEditDeclined
		}

		switch strings.ToLower(strings.TrimSpace(scanner.Text())) {
		case "n", "no":
			return ErrEditDeclined
		}

		content = string(data)
	}
}

// formatParams renders params one NAME=VALUE per line in name order.
// Composite values cannot be written and are listed as comments.
func formatParams(params lang.Params) string {
	var b strings.Builder

	b.WriteString("# One NAME=VALUE per line. Save an empty file to cancel.\n")

	for _, name := range params.Names() {
		v := params[name]
		if v.Kind() == lang.KindComposite {
			fmt.Fprintf(&b, "# %s is a composite value and cannot be edited\n", name)

			continue
		}

		b.WriteString(name + "=" + paramText(v) + "\n")
	}

	return b.String()
}

// paramText returns text that [lang.ParseParam] reads back as v where
// possible. Strings that would read as another kind are quoted.
func paramText(v lang.Value) string {
	if v.IsNull() {
		return "null"
	}

	text := v.String()
	if v.Kind() != lang.KindString || lang.ParseParam(text).Equal(v) {
		return text
	}

	if !strings.ContainsRune(text, '\'') {
		return "'" + text + "'"
	}

	return `"` + text + `"`
}

// parseParams reads the editor buffer. Blank lines and lines starting with
// '#' are skipped.
func parseParams(text string) (lang.Params, error) {
	params := lang.Params{}

	for i, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		name, value, err := splitAssignment(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", i+1, err)
		}

		params[name] = lang.ParseParam(value)
	}

	return params, nil
}

// splitAssignment splits NAME=VALUE. The name is trimmed and required.
func splitAssignment(s string) (name, value string, err error) {
	name, value, ok := strings.Cut(s, "=")

	name = strings.TrimSpace(name)
	if !ok || name == "" {
		return "", "", ErrSetSyntax
	}

	return name, strings.TrimSpace(value), nil
}

// runEditor runs $EDITOR (or vi) on path attached to the terminal.
func runEditor(
	ctx context.Context,
	stdin io.Reader,
	stdout io.Writer,
	stderr io.Writer,
	path string,
) error {
	editor := os.Getenv("EDITOR")
	if editor == "" {
		editor = defaultEditor
	}

	cmd := exec.CommandContext(ctx, editor, path)
	cmd.Stdin = stdin
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	return cmd.Run()
}
