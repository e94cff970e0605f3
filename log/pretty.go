package log

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"
)

// ANSI color codes for pretty printing.
const (
	colorReset   = "\033[0m"
	colorGray    = "\033[90m"
	colorRed     = "\033[31m"
	colorGreen   = "\033[32m"
	colorYellow  = "\033[33m"
	colorBlue    = "\033[34m"
	colorMagenta = "\033[35m"
	colorCyan    = "\033[36m"
)

// prettyBase holds what the text and JSON pretty handlers share: options,
// the output lock, and attributes bound by WithAttrs under their group
// prefix.
type prettyBase struct {
	opts       slog.HandlerOptions
	formatTime FormatTime
	mu         *sync.Mutex
	w          io.Writer
	prefix     string
	bound      []slog.Attr
}

func newPrettyBase(w io.Writer, opts *slog.HandlerOptions, ft FormatTime) prettyBase {
	if ft == nil {
		ft = makeFormatTimeFunc(DefaultTimeLayout)
	}

	return prettyBase{opts: *opts, formatTime: ft, mu: &sync.Mutex{}, w: w}
}

func (b prettyBase) enabled(level slog.Level) bool {
	threshold := slog.LevelInfo
	if b.opts.Level != nil {
		threshold = b.opts.Level.Level()
	}

	return level >= threshold
}

// withAttrs returns a copy of b with attrs bound under the current prefix.
func (b prettyBase) withAttrs(attrs []slog.Attr) prettyBase {
	bound := make([]slog.Attr, len(b.bound), len(b.bound)+len(attrs))
	copy(bound, b.bound)

	for _, a := range attrs {
		bound = flatten(bound, b.prefix, a)
	}

	b.bound = bound

	return b
}

func (b prettyBase) withGroup(name string) prettyBase {
	if name != "" {
		b.prefix += name + "."
	}

	return b
}

// fields flattens the header and attributes of r into key/value pairs.
func (b prettyBase) fields(r slog.Record) []slog.Attr {
	fields := make([]slog.Attr, 0, 4+len(b.bound)+r.NumAttrs())

	if !r.Time.IsZero() {
		if ts := b.formatTime(r.Time); ts != "" {
			fields = append(fields, slog.String(slog.TimeKey, ts))
		}
	}

	fields = append(fields, slog.Any(slog.LevelKey, r.Level))

	if b.opts.AddSource && r.PC != 0 {
		if src := r.Source(); src != nil {
			fields = append(fields,
				slog.String(slog.SourceKey, src.File+":"+strconv.Itoa(src.Line)))
		}
	}

	fields = append(fields, slog.String(slog.MessageKey, r.Message))
	fields = append(fields, b.bound...)

	r.Attrs(func(a slog.Attr) bool {
		fields = flatten(fields, b.prefix, a)

		return true
	})

	return fields
}

// flatten appends a to dst, expanding groups into dotted keys.
func flatten(dst []slog.Attr, prefix string, a slog.Attr) []slog.Attr {
	a.Value = a.Value.Resolve()

	if a.Value.Kind() != slog.KindGroup {
		if a.Key == "" {
			return dst
		}

		a.Key = prefix + a.Key

		return append(dst, a)
	}

	if a.Key != "" {
		prefix += a.Key + "."
	}

	for _, g := range a.Value.Group() {
		dst = flatten(dst, prefix, g)
	}

	return dst
}

func (b prettyBase) write(buf *bytes.Buffer) error {
	buf.WriteByte('\n')

	b.mu.Lock()
	defer b.mu.Unlock()

	_, err := b.w.Write(buf.Bytes())

	return err
}

// levelColor returns the color of a level name.
func levelColor(level slog.Level) string {
	switch {
	case level >= slog.LevelError:
		return colorRed

	case level >= slog.LevelWarn:
		return colorYellow

	case level >= slog.LevelInfo:
		return colorGreen

	default:
		return colorBlue
	}
}

// colorValue renders v with the color of its kind.
func colorValue(v slog.Value) string {
	switch v.Kind() {
	case slog.KindString:
		return colorCyan + v.String() + colorReset

	case slog.KindInt64, slog.KindUint64, slog.KindFloat64:
		return colorYellow + v.String() + colorReset

	case slog.KindBool:
		if v.Bool() {
			return colorGreen + "true" + colorReset
		}

		return colorRed + "false" + colorReset

	case slog.KindDuration:
		return colorMagenta + v.Duration().String() + colorReset

	case slog.KindTime:
		return colorBlue + v.Time().Format(time.RFC3339) + colorReset

	default:
		if level, ok := v.Any().(slog.Level); ok {
			return levelColor(level) + strings.ToUpper(Level(level).String()) + colorReset
		}

		if v.Any() == nil {
			return colorGray + "null" + colorReset
		}

		if err, ok := v.Any().(error); ok {
			return colorRed + err.Error() + colorReset
		}

		return colorCyan + fmt.Sprint(v.Any()) + colorReset
	}
}

// prettyTextHandler writes one colorized key=value line per record.
type prettyTextHandler struct{ prettyBase }

func newPrettyTextHandler(
	w io.Writer,
	opts *slog.HandlerOptions,
	ft FormatTime,
) *prettyTextHandler {
	return &prettyTextHandler{newPrettyBase(w, opts, ft)}
}

func (h *prettyTextHandler) Enabled(_ context.Context, level slog.Level) bool {
	return h.enabled(level)
}

func (h *prettyTextHandler) Handle(_ context.Context, r slog.Record) error {
	var buf bytes.Buffer

	for i, a := range h.fields(r) {
		if i > 0 {
			buf.WriteByte(' ')
		}

		buf.WriteString(colorGray + a.Key + colorReset + "=")
		buf.WriteString(colorValue(a.Value))
	}

	return h.write(&buf)
}

func (h *prettyTextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &prettyTextHandler{h.withAttrs(attrs)}
}

func (h *prettyTextHandler) WithGroup(name string) slog.Handler {
	return &prettyTextHandler{h.withGroup(name)}
}

// prettyJSONHandler writes an indented, colorized object per record with one
// attribute per line. Values are unquoted for readability.
type prettyJSONHandler struct{ prettyBase }

func newPrettyJSONHandler(
	w io.Writer,
	opts *slog.HandlerOptions,
	ft FormatTime,
) *prettyJSONHandler {
	return &prettyJSONHandler{newPrettyBase(w, opts, ft)}
}

func (h *prettyJSONHandler) Enabled(_ context.Context, level slog.Level) bool {
	return h.enabled(level)
}

func (h *prettyJSONHandler) Handle(_ context.Context, r slog.Record) error {
	var buf bytes.Buffer

	buf.WriteString("{\n")

	for i, a := range h.fields(r) {
		if i > 0 {
			buf.WriteString(",\n")
		}

		buf.WriteString("  " + colorGray + a.Key + colorReset + ": ")
		buf.WriteString(colorValue(a.Value))
	}

	buf.WriteString("\n}")

	return h.write(&buf)
}

func (h *prettyJSONHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &prettyJSONHandler{h.withAttrs(attrs)}
}

func (h *prettyJSONHandler) WithGroup(name string) slog.Handler {
	return &prettyJSONHandler{h.withGroup(name)}
}
