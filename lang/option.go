package lang

import (
	"context"
	"time"

	"github.com/ardnew/reportgen/log"
)

// Option configures parsing, evaluation and rendering.
type Option func(*options)

type options struct {
	ctx    context.Context
	logger log.Logger
	now    func() time.Time
	cache  bool
}

func makeOptions(opts ...Option) options {
	o := options{now: time.Now, cache: true}

	for _, opt := range opts {
		opt(&o)
	}

	return o
}

func (o options) context() context.Context {
	if o.ctx == nil {
		return context.Background()
	}

	return o.ctx
}

// WithLogger sets the logger receiving trace records. The zero
// [log.Logger] discards everything and is the default.
func WithLogger(logger log.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// WithContext sets the context attached to log records.
func WithContext(ctx context.Context) Option {
	return func(o *options) { o.ctx = ctx }
}

// WithClock sets the time source of the NOW function.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}

// WithCache controls whether [Evaluate] and [Render] reuse parsed
// expressions across calls. It is enabled by default.
func WithCache(enable bool) Option {
	return func(o *options) { o.cache = enable }
}
