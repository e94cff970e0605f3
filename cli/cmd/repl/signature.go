package repl

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"

	"github.com/ardnew/reportgen/lang"
)

// Signature hint styles.
var (
	signatureStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	signatureNameStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("6")).
				Bold(true)
	currentParamStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("11")).
				Bold(true)
	overflowStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
)

// functionCall describes the call whose argument list contains the cursor.
type functionCall struct {
	name     string
	argIndex int // 0-based
	inCall   bool
}

// detectFunctionCall finds the innermost open call before cursor. Parens and
// commas inside string literals are ignored.
func detectFunctionCall(input string, cursor int) functionCall {
	if cursor > len(input) {
		cursor = len(input)
	}

	// Walk forward once, tracking open parens and the commas seen at each
	// depth. Forward scanning is what makes quotes tractable.
	type frame struct {
		open   int
		commas int
	}

	var (
		stack []frame
		quote rune
	)

	for i := 0; i < cursor; {
		r, size := utf8.DecodeRuneInString(input[i:])

		switch {
		case quote != 0:
			if r == quote {
				quote = 0
			}

		case r == '\'' || r == '"':
			quote = r

		case r == '(':
			stack = append(stack, frame{open: i})

		case r == ')':
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}

		case r == ',':
			if len(stack) > 0 {
				stack[len(stack)-1].commas++
			}
		}

		i += size
	}

	if len(stack) == 0 {
		return functionCall{}
	}

	top := stack[len(stack)-1]

	end := len(strings.TrimRight(input[:top.open], " \t"))

	name := input[identStart(input, end):end]
	if name == "" {
		return functionCall{}
	}

	return functionCall{name: name, argIndex: top.commas, inCall: true}
}

// identStart returns the offset of the identifier that ends at end.
func identStart(input string, end int) int {
	start := end

	for start > 0 {
		r, size := utf8.DecodeLastRuneInString(input[:start])
		if !isIdentRune(r) {
			break
		}

		start -= size
	}

	return start
}

func isIdentRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

// getSignature returns the signature and parameter names of a built-in
// function or alias, or "" when name is not a function.
func getSignature(name string) (signature string, params []string) {
	fn, ok := lang.LookupFunction(name)
	if !ok {
		return "", nil
	}

	return fn.Signature, fn.Params
}

// renderSignatureHint renders the function signature with the current
// parameter highlighted. An argument index past the last parameter of a
// fixed-arity function marks the closing paren.
func renderSignatureHint(
	signature string,
	params []string,
	currentArgIdx int,
) string {
	if signature == "" {
		return ""
	}

	openParen := strings.Index(signature, "(")
	if openParen == -1 {
		return signatureStyle.Render(signature)
	}

	name := signature[:openParen]

	var b strings.Builder

	b.WriteString(signatureNameStyle.Render(name))
	b.WriteString(signatureStyle.Render("("))

	highlighted := false

	for i, param := range params {
		if i > 0 {
			b.WriteString(signatureStyle.Render(", "))
		}

		variadic := strings.HasPrefix(param, "...")
		if (variadic && currentArgIdx >= i) || (!variadic && currentArgIdx == i) {
			b.WriteString(currentParamStyle.Render(param))

			highlighted = true

			continue
		}

		b.WriteString(signatureStyle.Render(param))
	}

	if !highlighted && currentArgIdx >= len(params) {
		b.WriteString(overflowStyle.Render(")"))
	} else {
		b.WriteString(signatureStyle.Render(")"))
	}

	return b.String()
}
