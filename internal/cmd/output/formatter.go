// Package output renders command results as tables, JSON or YAML.
package output

import (
	"encoding/json"
	"io"

	"github.com/goccy/go-yaml"
)

// Formatter writes data to w.
type Formatter interface {
	Format(w io.Writer, data any) error
}

// FormatterFunc adapts a function to Formatter.
type FormatterFunc func(io.Writer, any) error

func (f FormatterFunc) Format(w io.Writer, data any) error { return f(w, data) }

// NewFormatter returns the formatter for format. Unknown formats get a table.
func NewFormatter(format Format) Formatter {
	switch format {
	case FormatJSON:
		return FormatterFunc(writeJSON)
	case FormatYAML:
		return FormatterFunc(writeYAML)
	}
	return &TableFormatter{Wide: format == FormatWide}
}

func writeJSON(w io.Writer, data any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}

func writeYAML(w io.Writer, data any) error {
	b, err := yaml.MarshalWithOptions(data, yaml.Indent(2), yaml.IndentSequence(false))
	if err != nil {
		return err
	}
	_, err = w.Write(b)
	return err
}
