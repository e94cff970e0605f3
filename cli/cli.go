package cli

import (
	"context"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/ardnew/reportgen/cli/cmd"
	"github.com/ardnew/reportgen/pkg"
	"github.com/ardnew/reportgen/template"
)

// CLI is the top-level command-line interface for reportgen.
type CLI struct {
	Log   logConfig   `embed:"" group:"log"   prefix:"log-"`
	Pprof pprofConfig `embed:"" group:"pprof" prefix:"pprof-"`
	Store storeConfig `embed:"" group:"store" prefix:"store-"`

	Version kong.VersionFlag `help:"Print version and exit."`

	Init     cmd.Init     `cmd:"" help:"Initialize configuration file"`
	Funcs    cmd.Funcs    `cmd:"" help:"List built-in functions"`
	Render   cmd.Render   `cmd:"" help:"Render {{ }} placeholders in template text"`
	Template cmd.Template `cmd:"" help:"Manage stored templates"`
	Repl     cmd.Repl     `cmd:"" help:"Evaluate expressions interactively"`

	Eval cmd.Eval `cmd:"" default:"withargs" help:"Evaluate an expression"`
}

// storeConfig selects the template repository.
type storeConfig struct {
	Kind string `default:"dir" enum:"${storeKindEnum}" help:"Template store kind (${enum})."`
	Path string `              help:"Template store location (default: ${storeDefault})." placeholder:"PATH" type:"path"`
}

func (storeConfig) vars() kong.Vars {
	kinds := make([]string, 0, len(template.StoreKinds()))
	for _, k := range template.StoreKinds() {
		kinds = append(kinds, string(k))
	}

	return kong.Vars{
		"storeKindEnum": strings.Join(kinds, ","),
		"storeDefault":  storePath(template.StoreDir),
	}
}

func (storeConfig) group() kong.Group {
	var group kong.Group

	group.Key = "store"
	group.Title = "Template store options"

	return group
}

// location returns the kind and path of the configured store, filling in
// the default path of the kind when none was given.
func (s storeConfig) location() cmd.Store {
	kind, _ := template.ParseStoreKind(s.Kind)

	path := s.Path
	if path == "" {
		path = storePath(kind)
	}

	return cmd.Store{Kind: kind, Path: path}
}

// Run executes the reportgen CLI with the given context and arguments.
// The exit function is called with the appropriate exit code upon completion.
func Run(
	ctx context.Context,
	exit func(code int),
	args ...string,
) error {
	var cli CLI

	err := mkdirAllRequired()
	if err != nil {
		return err
	}

	configFilePath := configPath(baseConfig)

	vars := kong.Vars{
		cmd.ConfigIdentifier: configFilePath,
		cmd.CacheIdentifier:  cacheDir(),
		"version":            pkg.Version,
	}.
		CloneWith(cli.Log.vars()).
		CloneWith(cli.Pprof.vars()).
		CloneWith(cli.Store.vars())

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Pre-scan for logger flags so that errors reported while kong parses
	// the remaining arguments already use the requested format.
	cli.Log.scan(args)

	parser, err := kong.New(&cli,
		kong.Name(pkg.Name),
		kong.Description(pkg.Description),
		kong.UsageOnError(),
		kong.Exit(exit),
		kong.ExplicitGroups(
			[]kong.Group{cli.Log.group(), cli.Pprof.group(), cli.Store.group()},
		),
		kong.BindSingletonProvider(func() context.Context {
			return ctx
		}),
		kong.ConfigureHelp(
			kong.HelpOptions{
				Compact:             true,
				Summary:             true,
				Tree:                true,
				FlagsLast:           false,
				NoAppSummary:        false,
				NoExpandSubcommands: true,
			}),
		kong.Configuration(resolve, configFilePath),
		vars,
	)
	if err != nil {
		return err
	}

	ktx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	ctx = cmd.WithContext(ctx, ktx)
	ctx = cmd.WithStore(ctx, cli.Store.location())

	// Finalize logger configuration with all parsed values including
	// TimeLayout and Caller which don't use TextUnmarshaler.
	cli.Log.start(ctx)

	// [pprofConfig.start] is no-op unless built with tag pprof and enabled.
	defer cli.Pprof.start(ctx)()

	return ktx.Run(ctx, &cli)
}
