package lang

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/goccy/go-yaml"
)

// FormatValue returns the text of v as the renderer would substitute it.
func FormatValue(v Value) string { return v.String() }

// document is the structured form of a value written by FormatJSON and
// FormatYAML.
type document struct {
	Kind  string `json:"kind"  yaml:"kind"`
	Value any    `json:"value" yaml:"value"`
}

// FormatJSON writes v as a JSON object {"kind": ..., "value": ...}.
// Decimal values are written as JSON numbers with their exact digits.
func FormatJSON(_ context.Context, w io.Writer, v Value, indent int) error {
	doc := document{Kind: v.kind.String(), Value: jsonValue(v)}

	var (
		data []byte
		err  error
	)

	if indent > 0 {
		data, err = json.MarshalIndent(doc, "", strings.Repeat(" ", indent))
	} else {
		data, err = json.Marshal(doc)
	}

	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(w, string(data))

	return err
}

// FormatYAML writes v as a YAML mapping with keys kind and value. Indent zero
// selects flow style. Decimal values are written as strings to keep their
// exact digits.
func FormatYAML(ctx context.Context, w io.Writer, v Value, indent int) error {
	var opts []yaml.EncodeOption
	if indent > 0 {
		opts = append(opts, yaml.Indent(indent))
	} else {
		opts = append(opts, yaml.Flow(true))
	}

	doc := document{Kind: v.kind.String(), Value: yamlValue(v)}

	data, err := yaml.MarshalContext(ctx, doc, opts...)
	if err != nil {
		return err
	}

	_, err = fmt.Fprint(w, string(data))

	return err
}

func jsonValue(v Value) any {
	switch v.kind {
	case KindNull:
		return nil

	case KindInteger:
		return v.num

	case KindReal:
		if !finite(v.flt) {
			return formatReal(v.flt)
		}

		return json.Number(formatReal(v.flt))

	case KindDecimal:
		return json.Number(v.String())

	case KindBoolean:
		return v.num != 0

	default:
		return v.String()
	}
}

func yamlValue(v Value) any {
	switch v.kind {
	case KindNull:
		return nil

	case KindInteger:
		return v.num

	case KindReal:
		switch {
		case math.IsNaN(v.flt), math.IsInf(v.flt, 0):
			return formatReal(v.flt)

		default:
			return v.flt
		}

	case KindBoolean:
		return v.num != 0

	default:
		return v.String()
	}
}
