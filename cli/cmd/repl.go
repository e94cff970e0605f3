package cmd

import (
	"context"
	"log/slog"

	"github.com/ardnew/reportgen/cli/cmd/repl"
	"github.com/ardnew/reportgen/log"
)

// Repl starts an interactive session evaluating expressions against a
// parameter set that can be changed while it runs.
type Repl struct {
	Input paramFlags `embed:""`

	NoHistory bool `help:"Do not read or write the history file."`
}

// Run executes the repl command.
func (r *Repl) Run(ctx context.Context) error {
	params, err := r.Input.load(ctx)
	if err != nil {
		return err
	}

	cacheDir := ""
	if ktx := kongContextFrom(ctx); ktx != nil && !r.NoHistory {
		cacheDir = ktx.Model.Vars()[CacheIdentifier]
	}

	log.DebugContext(ctx, "repl starting",
		slog.Int("param_count", len(params)),
		slog.String("cache_dir", cacheDir),
	)

	return repl.Run(ctx, params, cacheDir, log.Default())
}
