package cmd

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/klauspost/readahead"

	"github.com/ardnew/reportgen/lang"
	"github.com/ardnew/reportgen/log"
	"github.com/ardnew/reportgen/template"
)

// contextKey is used to store a [kong.Context] value in [context.Context].
type contextKey struct{}

// WithContext returns a new context.Context containing the given kong.Context.
func WithContext(ctx context.Context, ktx *kong.Context) context.Context {
	return context.WithValue(ctx, contextKey{}, ktx)
}

func kongContextFrom(ctx context.Context) *kong.Context {
	ktx, ok := ctx.Value(contextKey{}).(*kong.Context)
	if !ok || ktx == nil {
		return nil
	}

	return ktx
}

// stdout returns the writer commands print results to.
func stdout(ctx context.Context) io.Writer {
	if ktx := kongContextFrom(ctx); ktx != nil && ktx.Stdout != nil {
		return ktx.Stdout
	}

	return os.Stdout
}

// Store identifies the template repository selected on the command line.
type Store struct {
	Kind template.StoreKind
	Path string
}

type storeKey struct{}

// WithStore returns a new context.Context carrying the template store
// location used by the template commands.
func WithStore(ctx context.Context, store Store) context.Context {
	return context.WithValue(ctx, storeKey{}, store)
}

func storeFrom(ctx context.Context) Store {
	store, ok := ctx.Value(storeKey{}).(Store)
	if !ok || store.Kind == "" {
		return Store{Kind: template.StoreMemory}
	}

	return store
}

// openService opens the selected store and returns a service over it. The
// returned function closes the store.
func openService(ctx context.Context) (*template.Service, func(), error) {
	store := storeFrom(ctx)

	repo, err := template.Open(ctx, store.Kind, store.Path)
	if err != nil {
		return nil, nil, err
	}

	log.DebugContext(ctx, "template store opened",
		slog.String("kind", string(store.Kind)),
		slog.String("path", store.Path),
	)

	closeRepo := func() {
		if err := template.Close(repo); err != nil {
			log.WarnContext(ctx, "close template store", slog.Any("error", err))
		}
	}

	return template.NewService(repo, template.WithLogger(log.Default())), closeRepo, nil
}

// paramFlags are shared by every command that evaluates expressions.
type paramFlags struct {
	Param   []string `help:"Set parameter NAME=VALUE (repeatable)."                         placeholder:"NAME=VALUE" sep:"none" short:"P"`
	Params  []string `help:"Read parameters from a YAML or JSON file ('-' for stdin)."      placeholder:"FILE"       sep:"none"`
	Decimal bool     `help:"Decode numbers read from parameter files as exact decimals."`
}

// load merges the parameter files in order, then the NAME=VALUE pairs.
// Later definitions replace earlier ones.
func (f paramFlags) load(ctx context.Context) (lang.Params, error) {
	params := lang.Params{}

	mode := lang.NumbersNative
	if f.Decimal {
		mode = lang.NumbersDecimal
	}

	inputs, err := openInputs(f.Params)
	if err != nil {
		return nil, ErrReadParams.Wrap(err)
	}
	defer inputs.Close()

	for i, r := range inputs.readers {
		decoded, err := lang.DecodeParams(r, lang.WithNumbers(mode))
		if err != nil {
			return nil, ErrReadParams.Wrap(err).
				With(slog.String("file", inputs.names[i]))
		}

		for name, v := range decoded {
			params[name] = v
		}
	}

	for _, pair := range f.Param {
		name, value, ok := strings.Cut(pair, "=")

		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, ErrReadParams.
				With(slog.String("param", pair)).
				Wrap(ErrParamSyntax)
		}

		params[name] = lang.ParseParam(value)
	}

	log.TraceContext(ctx, "parameters loaded", slog.Int("count", len(params)))

	return params, nil
}

// langOptions returns the options commands pass to package lang.
func langOptions(ctx context.Context) []lang.Option {
	return []lang.Option{
		lang.WithContext(ctx),
		lang.WithLogger(log.Default()),
	}
}

// stdinSource is the special source indicator for reading from stdin.
const stdinSource = "-"

// inputs reads a list of named sources in order.
type inputs struct {
	names   []string
	readers []io.Reader
	closers []io.Closer
}

// fileKey uniquely identifies a file by its device and inode numbers, so a
// file named twice (through a symlink or a relative path) is read once.
type fileKey struct {
	dev uint64
	ino uint64
}

// openInputs opens every path with read-ahead. Duplicate files are skipped
// and "-" reads stdin, at most once.
func openInputs(paths []string) (*inputs, error) {
	in := new(inputs)
	seen := make(map[fileKey]struct{})
	stdin := false

	for _, path := range paths {
		if path == stdinSource {
			if !stdin {
				stdin = true

				in.add(path, os.Stdin, nil)
			}

			continue
		}

		file, ok, err := openUnique(path, seen)
		if err != nil {
			in.Close()

			return nil, err
		}

		if ok {
			in.add(path, file, file)
		}
	}

	return in, nil
}

func (in *inputs) add(name string, r io.Reader, c io.Closer) {
	ra := readahead.NewReader(r)

	in.names = append(in.names, name)
	in.readers = append(in.readers, ra)
	in.closers = append(in.closers, ra)

	if c != nil {
		in.closers = append(in.closers, c)
	}
}

// Reader returns all inputs concatenated.
func (in *inputs) Reader() io.Reader { return io.MultiReader(in.readers...) }

// Close releases every opened file.
func (in *inputs) Close() {
	for _, c := range in.closers {
		_ = c.Close()
	}

	in.closers = nil
}

// openUnique opens path unless a file with the same device and inode was
// already opened. ok is false for duplicates.
func openUnique(path string, seen map[fileKey]struct{}) (*os.File, bool, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, false, err
	}

	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return nil, false, err
	}

	file, err := os.Open(resolved)
	if err != nil {
		return nil, false, err
	}

	info, err := file.Stat()
	if err != nil {
		_ = file.Close()

		return nil, false, err
	}

	if key, ok := makeFileKey(info); ok {
		if _, dup := seen[key]; dup {
			_ = file.Close()

			return nil, false, nil
		}

		seen[key] = struct{}{}
	}

	return file, true, nil
}

// makeFileKey creates a fileKey from os.FileInfo.
// Returns false if the underlying Sys() data is not of type *syscall.Stat_t.
func makeFileKey(info os.FileInfo) (key fileKey, ok bool) {
	stat, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return key, false
	}

	return fileKey{dev: uint64(stat.Dev), ino: stat.Ino}, true //nolint:unconvert
}
