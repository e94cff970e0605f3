package log

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"sync"
	"testing"
)

func TestLogger_Make_DefaultConfiguration(t *testing.T) {
	var buf bytes.Buffer

	logger := Make(&buf)

	if logger.Level() != LevelInfo {
		t.Errorf("expected default level info, got %v", logger.Level())
	}

	if logger.Caller() {
		t.Error("expected caller disabled by default")
	}

	if logger.Format() != FormatJSON {
		t.Errorf("expected default format json, got %v", logger.Format())
	}

	if logger.TimeLayout() != DefaultTimeLayout {
		t.Errorf("expected default time layout, got %q", logger.TimeLayout())
	}
}

func TestLogger_Zero_Discards(t *testing.T) {
	var logger Logger

	// Must not panic.
	logger.Trace("trace")
	logger.Info("info", slog.String("key", "value"))
	logger.ErrorContext(t.Context(), "error")

	if logger.Enabled(t.Context(), LevelError) {
		t.Error("zero logger reports enabled")
	}

	if got := logger.With(slog.Int("n", 1)); got.Logger != nil {
		t.Error("With on zero logger produced a live logger")
	}
}

func TestLogger_Make_WithLevel_FiltersMessages(t *testing.T) {
	tests := []struct {
		name     string
		logFunc  func(Logger, string, ...slog.Attr)
		minLevel Level
		logged   bool
	}{
		{"trace at trace", (Logger).Trace, LevelTrace, true},
		{"trace at debug", (Logger).Trace, LevelDebug, false},
		{"debug at debug", (Logger).Debug, LevelDebug, true},
		{"debug at info", (Logger).Debug, LevelInfo, false},
		{"info at info", (Logger).Info, LevelInfo, true},
		{"info at warn", (Logger).Info, LevelWarn, false},
		{"warn at warn", (Logger).Warn, LevelWarn, true},
		{"warn at error", (Logger).Warn, LevelError, false},
		{"error at error", (Logger).Error, LevelError, true},
		{"error at trace", (Logger).Error, LevelTrace, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer

			logger := Make(&buf, WithLevel(tt.minLevel))
			tt.logFunc(logger, "test message")

			if got := buf.Len() > 0; got != tt.logged {
				t.Errorf("expected logged=%v, got output %q", tt.logged, buf.String())
			}
		})
	}
}

func TestLogger_Trace_LevelName(t *testing.T) {
	var buf bytes.Buffer

	logger := Make(&buf, WithLevel(LevelTrace))
	logger.Trace("deep detail")

	var record map[string]any
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("failed to parse JSON output: %v", err)
	}

	if record["level"] != "TRACE" {
		t.Errorf("expected level TRACE, got %v", record["level"])
	}
}

func TestLogger_Make_WithFormat_SetsOutputFormat(t *testing.T) {
	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer

		logger := Make(&buf, WithFormat(FormatJSON))
		logger.Info("test message", slog.String("key", "value"))

		var result map[string]any
		if err := json.Unmarshal(buf.Bytes(), &result); err != nil {
			t.Fatalf("failed to parse JSON output: %v", err)
		}

		if result["msg"] != "test message" {
			t.Errorf("expected msg=test message, got %v", result["msg"])
		}

		if result["key"] != "value" {
			t.Errorf("expected key=value, got %v", result["key"])
		}
	})

	t.Run("text", func(t *testing.T) {
		var buf bytes.Buffer

		logger := Make(&buf, WithFormat(FormatText))
		logger.Info("test message", slog.String("key", "value"))

		output := buf.String()
		if !strings.Contains(output, "test message") {
			t.Error("message not found in text output")
		}

		if !strings.Contains(output, "key=value") {
			t.Error("key=value not found in text output")
		}
	})
}

func TestLogger_Make_WithTimeLayout(t *testing.T) {
	tests := []struct {
		name   string
		layout string
		check  func(string) bool
	}{
		{"rfc3339 named", "RFC3339", func(ts string) bool { return strings.Contains(ts, "T") }},
		{"rfc3339 nano named", "RFC3339Nano", func(ts string) bool { return strings.Contains(ts, ".") }},
		{"kitchen", "kitchen", func(ts string) bool { return strings.HasSuffix(ts, "M") }},
		{"none", "none", func(ts string) bool { return ts == "" }},
		{"empty", "", func(ts string) bool { return ts == "" }},
		{"literal", "2006", func(ts string) bool { return len(ts) == 4 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer

			logger := Make(&buf, WithTimeLayout(tt.layout))
			logger.Info("test")

			var record map[string]any
			if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
				t.Fatalf("failed to parse JSON output: %v", err)
			}

			ts, _ := record["time"].(string)
			if !tt.check(ts) {
				t.Errorf("unexpected time %q for layout %q", ts, tt.layout)
			}
		})
	}
}

func TestLogger_Make_WithCaller_IncludesSource(t *testing.T) {
	var buf bytes.Buffer

	Make(&buf, WithCaller(true)).Info("test message")

	if !strings.Contains(buf.String(), "log_test.go") {
		t.Errorf("expected caller file in output, got %s", buf.String())
	}

	buf.Reset()
	Make(&buf, WithCaller(false)).Info("test message")

	if strings.Contains(buf.String(), "source") {
		t.Error("source included when disabled")
	}
}

func TestLogger_Wrap_KeepsAndOverrides(t *testing.T) {
	var buf bytes.Buffer

	base := Make(&buf, WithLevel(LevelDebug), WithFormat(FormatText))
	wrapped := base.Wrap(WithLevel(LevelWarn))

	if wrapped.Format() != FormatText {
		t.Errorf("expected format kept, got %v", wrapped.Format())
	}

	if wrapped.Level() != LevelWarn {
		t.Errorf("expected level overridden, got %v", wrapped.Level())
	}

	if base.Level() != LevelDebug {
		t.Errorf("wrap modified the original logger level: %v", base.Level())
	}
}

func TestLogger_With_AddsAttributes(t *testing.T) {
	var buf bytes.Buffer

	logger := Make(&buf).With(slog.String("component", "render"))
	logger.Info("done")

	if !strings.Contains(buf.String(), `"component":"render"`) {
		t.Errorf("expected bound attribute, got %s", buf.String())
	}
}

func TestLogger_ConcurrentCalls_ThreadSafe(t *testing.T) {
	var buf syncBuffer

	logger := Make(&buf)

	var wg sync.WaitGroup

	for i := range 100 {
		wg.Go(func() {
			logger.Info("concurrent message", slog.Int("id", i))
		})
	}

	wg.Wait()

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 100 {
		t.Errorf("expected 100 log lines, got %d", len(lines))
	}
}

// syncBuffer serializes writes from the standard handlers, which issue one
// Write per record.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.buf.String()
}
