package repl

import (
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	"github.com/ardnew/reportgen/lang"
)

// ctrlCommands are the available control-mode commands.
var ctrlCommands = []string{
	"help", "params", "funcs", "set", "unset", "edit", "clear", "quit",
}

// isWordBoundary reports whether r ends a completable word: whitespace,
// operators, punctuation and the brackets that quote parameter names.
func isWordBoundary(r rune) bool {
	switch r {
	case ' ', '\t',
		'(', ')', '[', ']',
		'+', '-', '*', '/', '%',
		'<', '>', '=', '!', '~', '^',
		'&', '|', ',', '?', ':',
		'\'', '"':
		return true
	}

	return false
}

// wordBounds returns the word around cursor and its byte offsets. The word
// is empty when the cursor sits on a boundary.
func wordBounds(input string, cursor int) (word string, start, end int) {
	if cursor > len(input) {
		cursor = len(input)
	}

	start = cursor

	for start > 0 {
		r, size := utf8.DecodeLastRuneInString(input[:start])
		if isWordBoundary(r) {
			break
		}

		start -= size
	}

	end = cursor

	for end < len(input) {
		r, size := utf8.DecodeRuneInString(input[end:])
		if isWordBoundary(r) {
			break
		}

		end += size
	}

	return input[start:end], start, end
}

// inString reports whether offset lies inside a string literal.
func inString(input string, offset int) bool {
	var quote rune

	for i, r := range input {
		if i >= offset {
			break
		}

		switch {
		case quote != 0:
			if r == quote {
				quote = 0
			}

		case r == '\'' || r == '"':
			quote = r
		}
	}

	return quote != 0
}

// evalCandidates returns the names offered in eval mode: every function
// name and alias followed by the parameter names.
func evalCandidates(params lang.Params) []string {
	var names []string

	for _, fn := range lang.Functions() {
		names = append(names, fn.Name)
		names = append(names, fn.Aliases...)
	}

	return append(names, params.Names()...)
}

// computeMatches ranks the candidates against the word at the cursor. An
// empty word yields no matches so the hint line stays visible.
func (m model) computeMatches() (
	matches fuzzy.Matches,
	candidates []string,
	wordStart, wordEnd int,
) {
	input := m.input.Value()
	cursor := m.input.Position()

	word, wordStart, wordEnd := wordBounds(input, cursor)
	if word == "" {
		return nil, nil, wordStart, wordEnd
	}

	switch m.mode {
	case modeCtrl:
		// Only the command word completes; "set" and "unset" complete
		// parameter names in their argument.
		fields := strings.Fields(input[:wordStart])
		switch {
		case len(fields) == 0:
			candidates = ctrlCommands

		case len(fields) == 1 && slices.Contains([]string{"set", "unset"}, fields[0]):
			candidates = m.params.Names()
		}

	default:
		if inString(input, wordStart) {
			return nil, nil, wordStart, wordEnd
		}

		candidates = evalCandidates(m.params)
	}

	if len(candidates) == 0 {
		return nil, nil, wordStart, wordEnd
	}

	return fuzzy.Find(word, candidates), candidates, wordStart, wordEnd
}

// renderCandidateBar builds the single-line completion bar, ellipsized to fit
// within the given terminal width. The selected candidate (when tabbing) uses
// the selected style.
func renderCandidateBar(
	matches fuzzy.Matches,
	suggIdx int,
	tabActive bool,
	width int,
) string {
	if len(matches) == 0 || width <= 0 {
		return ""
	}

	const sep = "  "

	sepWidth := lipgloss.Width(sep)
	ellipsis := hintStyle.Render("...")
	ellipsisWidth := lipgloss.Width(ellipsis)

	var b strings.Builder

	used := 0

	for i, match := range matches {
		rendered := renderCandidate(match, tabActive && i == suggIdx)

		entryWidth := lipgloss.Width(rendered)
		if i > 0 {
			entryWidth += sepWidth
		}

		if i > 0 && used+entryWidth+ellipsisWidth > width {
			b.WriteString(sep)
			b.WriteString(ellipsis)

			break
		}

		if i > 0 {
			b.WriteString(sep)
		}

		b.WriteString(rendered)

		used += entryWidth
	}

	return b.String()
}

// renderCandidate renders a single candidate with matched characters
// highlighted. Functions are displayed with a "()" suffix.
func renderCandidate(match fuzzy.Match, selected bool) string {
	baseStyle := suggestionStyle
	highlightStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("4")).
		Bold(true)

	if selected {
		baseStyle = selectedStyle
		highlightStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("4")).
			Bold(true)
	}

	matched := make(map[int]bool, len(match.MatchedIndexes))
	for _, idx := range match.MatchedIndexes {
		matched[idx] = true
	}

	var b strings.Builder

	for i, r := range match.Str {
		if matched[i] {
			b.WriteString(highlightStyle.Render(string(r)))
		} else {
			b.WriteString(baseStyle.Render(string(r)))
		}
	}

	if isFunction(match.Str) {
		b.WriteString(baseStyle.Render("()"))
	}

	return b.String()
}

// isFunction reports whether name is a built-in function or alias. Function
// names are matched case-insensitively, so a parameter named like a
// function is shown as a function.
func isFunction(name string) bool {
	_, ok := lang.LookupFunction(name)

	return ok
}
