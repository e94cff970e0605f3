package profile

import (
	"context"
	"log/slog"
	"slices"

	"github.com/ardnew/reportgen/log"
)

// Settings selects what to profile and where the profile is written.
type Settings struct {
	Mode  string
	Dir   string
	Quiet bool
}

// Option adjusts [Settings].
type Option func(Settings) Settings

// WithMode selects the profiling mode, one of [Modes].
func WithMode(mode string) Option {
	return func(s Settings) Settings {
		s.Mode = mode

		return s
	}
}

// WithDir sets the output directory.
func WithDir(dir string) Option {
	return func(s Settings) Settings {
		s.Dir = dir

		return s
	}
}

// WithQuiet suppresses the messages printed by the profiler itself.
func WithQuiet(quiet bool) Option {
	return func(s Settings) Settings {
		s.Quiet = quiet

		return s
	}
}

// Supported reports whether mode can be profiled by this build.
func Supported(mode string) bool {
	return slices.Contains(Modes(), mode)
}

// Start begins profiling and returns a function that stops it and flushes
// the profile. Without the pprof build tag, or with an unsupported or empty
// mode, nothing is profiled and stop does nothing.
func Start(ctx context.Context, opts ...Option) (stop func()) {
	var s Settings
	for _, opt := range opts {
		s = opt(s)
	}

	if !Supported(s.Mode) {
		if s.Mode != "" {
			log.WarnContext(ctx, "profiling mode not available",
				slog.String("mode", s.Mode),
				slog.String("tag", Tag),
			)
		}

		return func() {}
	}

	attrs := []slog.Attr{
		slog.String("mode", s.Mode),
		slog.String("dir", s.Dir),
	}

	log.DebugContext(ctx, "profiling started", attrs...)

	p := start(s)

	return func() {
		p.Stop()
		log.DebugContext(ctx, "profiling stopped", attrs...)
	}
}

type ignore struct{}

func (ignore) Stop() {}
