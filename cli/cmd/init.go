package cmd

import (
	"context"
	"log/slog"
	"os"
	"reflect"
	"slices"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"

	"github.com/ardnew/reportgen/log"
	"github.com/ardnew/reportgen/profile"
)

// configIndent is the indentation of the generated configuration file.
const configIndent = 2

// Init writes the current global flag values as the YAML configuration
// file.
type Init struct {
	Force bool `help:"Overwrite existing configuration file" short:"f"`
}

// Run executes the init command.
func (i *Init) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	ktx := kongContextFrom(ctx)

	confPath, ok := ktx.Model.Vars()[ConfigIdentifier]
	if !ok {
		panic("internal error: config path undefined")
	}

	_, err = os.Stat(confPath)
	if err == nil && !i.Force {
		return ErrWriteConfig.
			With(slog.String("file", confPath)).
			Wrap(ErrFileExists)
	}

	data, err := yaml.MarshalWithOptions(configDocument(ktx),
		yaml.Indent(configIndent),
		yaml.IndentSequence(true),
	)
	if err != nil {
		return ErrWriteConfig.
			With(slog.String("file", confPath)).
			Wrap(ErrYAMLMarshal.Wrap(err))
	}

	err = os.WriteFile(confPath, data, 0o600)
	if err != nil {
		return ErrWriteConfig.
			With(slog.String("file", confPath)).
			Wrap(err)
	}

	log.DebugContext(ctx, "initialized configuration file",
		slog.String("path", confPath),
	)

	return nil
}

// configDocument collects the application flags in declaration order.
// Unset values and the help, version and profiling flags are left out.
func configDocument(ktx *kong.Context) yaml.MapSlice {
	var doc yaml.MapSlice

	ignore := []string{"help", "version", profile.Tag}

	for _, flag := range ktx.Model.Flags {
		if flag.Hidden || slices.ContainsFunc(ignore, func(prefix string) bool {
			return strings.HasPrefix(flag.Name, prefix)
		}) {
			continue
		}

		val := ktx.FlagValue(flag)
		if isEmptyValue(val) {
			continue
		}

		doc = append(doc, yaml.MapItem{Key: flag.Name, Value: configValue(val)})
	}

	return doc
}

// configValue converts flag values of named string types to plain strings
// so they marshal as scalars.
func configValue(v any) any {
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.String {
		return rv.String()
	}

	return v
}

func isEmptyValue(v any) bool {
	if v == nil {
		return true
	}

	switch rv := reflect.ValueOf(v); rv.Kind() {
	case reflect.String, reflect.Slice, reflect.Map:
		return rv.Len() == 0

	default:
		return false
	}
}
