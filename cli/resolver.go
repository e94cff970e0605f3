package cli

import (
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"

	"github.com/ardnew/reportgen/log"
)

// resolve is a [kong.ConfigurationLoader] for YAML config files.
//
// Nested mappings are flattened by joining keys with hyphens, so the two
// documents below both set --log-level and --store-kind:
//
//	log:
//	  level: debug
//	store:
//	  kind: sqlite
//
//	log_level: debug
//	store-kind: sqlite
//
// Underscores in keys are read as hyphens. Command-line flags override
// values from the file. A file that is not valid YAML is ignored with a
// warning.
func resolve(r io.Reader) (kong.Resolver, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	var doc map[string]any

	err = yaml.Unmarshal(data, &doc)
	if err != nil {
		log.Warn("ignoring invalid config file", slog.String("error", err.Error()))

		return config{}, nil
	}

	cfg := config{}
	cfg.flatten("", doc)

	return cfg, nil
}

// config implements [kong.Resolver] over a flattened YAML document.
type config map[string]any

// Validate implements [kong.Resolver].
func (config) Validate(*kong.Application) error { return nil }

// Resolve implements [kong.Resolver].
func (c config) Resolve(_ *kong.Context, _ *kong.Path, flag *kong.Flag) (any, error) {
	if value, ok := c[flag.Name]; ok {
		return value, nil
	}

	return nil, nil
}

func (c config) flatten(prefix string, m map[string]any) {
	for key, value := range m {
		key = strings.ReplaceAll(strings.TrimSpace(key), "_", "-")
		if prefix != "" {
			key = prefix + "-" + key
		}

		if nested, ok := value.(map[string]any); ok {
			c.flatten(key, nested)

			continue
		}

		c[key] = flagValue(value)
	}
}

// flagValue converts a decoded YAML scalar to a form kong can parse. Kong
// decodes numbers from their string form.
func flagValue(v any) any {
	switch v := v.(type) {
	case int:
		return strconv.Itoa(v)

	case int64:
		return strconv.FormatInt(v, 10)

	case uint64:
		return strconv.FormatUint(v, 10)

	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)

	case []any:
		out := make([]any, len(v))
		for i, e := range v {
			out[i] = flagValue(e)
		}

		return out

	default:
		return v
	}
}
