package lang

import (
	"iter"
	"log/slog"
	"strings"
)

// Placeholder delimiters.
const (
	OpenDelim  = "{{"
	CloseDelim = "}}"
)

// PlaceholderSpan locates one placeholder in template text. Start and End are
// byte offsets of the span including both delimiters, so text[Start:End] is
// the original placeholder. Inner is the trimmed expression between them.
type PlaceholderSpan struct {
	Start int
	End   int
	Inner string
}

// Text returns the original placeholder text from the template it was
// found in.
func (s PlaceholderSpan) Text(template string) string {
	return template[s.Start:s.End]
}

// Placeholders yields every placeholder in text from left to right. A span
// runs from an opening delimiter to the next closing delimiter; an opening
// delimiter without a matching close ends the scan.
func Placeholders(text string) iter.Seq[PlaceholderSpan] {
	return func(yield func(PlaceholderSpan) bool) {
		pos := 0

		for {
			open := strings.Index(text[pos:], OpenDelim)
			if open < 0 {
				return
			}

			start := pos + open
			body := start + len(OpenDelim)

			end := strings.Index(text[body:], CloseDelim)
			if end < 0 {
				return
			}

			span := PlaceholderSpan{
				Start: start,
				End:   body + end + len(CloseDelim),
				Inner: strings.TrimSpace(text[body : body+end]),
			}

			if !yield(span) {
				return
			}

			pos = span.End
		}
	}
}

// Outcome records how one placeholder was rendered. Err is nil when Value
// replaced the span.
type Outcome struct {
	Span  PlaceholderSpan
	Value Value
	Err   error
}

// Report is the result of [RenderReport].
type Report struct {
	Text     string
	Outcomes []Outcome
}

// Failed returns the outcomes whose placeholder was left unchanged.
func (r Report) Failed() []Outcome {
	var failed []Outcome

	for _, o := range r.Outcomes {
		if o.Err != nil {
			failed = append(failed, o)
		}
	}

	return failed
}

// Render substitutes every placeholder in text with the string form of its
// value evaluated against params. A placeholder that fails to parse or
// evaluate is kept verbatim, delimiters included; Render itself never fails.
func Render(text string, params Params, opts ...Option) string {
	return RenderReport(text, params, opts...).Text
}

// RenderReport renders text like [Render] and also reports the outcome of
// every placeholder.
func RenderReport(text string, params Params, opts ...Option) Report {
	o := makeOptions(opts...)
	ctx := o.context()

	var (
		b      strings.Builder
		report Report
		last   int
	)

	b.Grow(len(text))

	for span := range Placeholders(text) {
		b.WriteString(text[last:span.Start])
		last = span.End

		out := Outcome{Span: span}

		e, err := o.lookup(ctx, span.Inner)
		if err == nil {
			out.Value, err = e.evaluate(ctx, params, o)
		}

		if err != nil {
			out.Err = err

			o.logger.TraceContext(ctx, "placeholder fallback",
				slog.String("span", span.Text(text)),
				slog.Int("offset", span.Start),
				slog.Any("error", err))

			b.WriteString(span.Text(text))
		} else {
			b.WriteString(out.Value.String())
		}

		report.Outcomes = append(report.Outcomes, out)
	}

	b.WriteString(text[last:])

	report.Text = b.String()

	o.logger.TraceContext(ctx, "render complete",
		slog.Int("placeholders", len(report.Outcomes)),
		slog.Int("fallbacks", len(report.Failed())))

	return report
}
