package output

import (
	"fmt"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
)

// Format names an output rendering selected with --output.
type Format string

// Output formats. Wide is a table without cell truncation.
const (
	FormatTable Format = "table"
	FormatWide  Format = "wide"
	FormatJSON  Format = "json"
	FormatYAML  Format = "yaml"
)

var formats = []Format{FormatTable, FormatWide, FormatJSON, FormatYAML}

// IsTable reports whether f renders as a table. The empty format does.
func (f Format) IsTable() bool {
	return f == "" || f == FormatTable || f == FormatWide
}

// ParseFormat validates a --output value. The empty string is accepted and
// means "detect".
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	if f == "" {
		return f, nil
	}
	for _, known := range formats {
		if f == known {
			return f, nil
		}
	}
	return "", fmt.Errorf("invalid format %q: must be one of: table, json, yaml, wide", s)
}

// DetectFormat returns explicit when set, otherwise a table for terminals and
// JSON for pipes.
func DetectFormat(explicit string) Format {
	if explicit != "" {
		return Format(strings.ToLower(explicit))
	}
	fd := os.Stdout.Fd()
	if isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd) {
		return FormatTable
	}
	return FormatJSON
}
