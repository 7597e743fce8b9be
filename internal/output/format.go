package output

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Format is an output format name.
type Format string

const (
	FormatCSV      Format = "csv"
	FormatJSONL    Format = "jsonl"
	FormatMarkdown Format = "markdown"
	FormatSQLite   Format = "sqlite"
)

// Formats returns the supported formats.
func Formats() []Format {
	return []Format{FormatCSV, FormatJSONL, FormatMarkdown, FormatSQLite}
}

// ParseFormat resolves a format name or one of its aliases
// ("json", "jsonlines", "md", "db").
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "csv":
		return FormatCSV, nil
	case "jsonl", "json", "jsonlines", "ndjson":
		return FormatJSONL, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	case "sqlite", "sqlite3", "db":
		return FormatSQLite, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
	}
}

// FormatFromPath infers the format from a file extension. Unknown
// extensions and stdout ("-") default to csv.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jsonl", ".json", ".ndjson":
		return FormatJSONL
	case ".md", ".markdown":
		return FormatMarkdown
	case ".db", ".sqlite", ".sqlite3":
		return FormatSQLite
	default:
		return FormatCSV
	}
}
