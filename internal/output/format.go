// Package output provides terminal output utilities for the qstart CLI.
package output

import "strings"

// Format specifies how listings are printed.
type Format string

const (
	// FormatTable prints a styled table.
	FormatTable Format = "table"

	// FormatJSON prints indented JSON.
	FormatJSON Format = "json"

	// FormatYAML prints YAML.
	FormatYAML Format = "yaml"
)

// String returns the string representation of the format.
func (f Format) String() string {
	return string(f)
}

// Valid checks if the format is known.
func (f Format) Valid() bool {
	switch f {
	case FormatTable, FormatJSON, FormatYAML:
		return true
	default:
		return false
	}
}

// ParseFormat parses a string into a Format. The second return value is false
// for unknown input, in which case FormatTable is returned.
func ParseFormat(s string) (Format, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "table":
		return FormatTable, true
	case "json":
		return FormatJSON, true
	case "yaml", "yml":
		return FormatYAML, true
	default:
		return FormatTable, false
	}
}

// ValidFormats returns the accepted format names.
func ValidFormats() []string {
	return []string{"table", "json", "yaml"}
}
