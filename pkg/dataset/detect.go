package dataset

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"
)

// Format identifies the code path used to parse a source.
type Format int

const (
	// FormatTabular is delimited text with a header row.
	FormatTabular Format = iota
	// FormatJSON is a JSON document with a points array.
	FormatJSON
)

// String returns "json" or "tabular".
func (f Format) String() string {
	if f == FormatJSON {
		return "json"
	}
	return "tabular"
}

var extensionFormats = map[string]Format{
	".json": FormatJSON,
	".csv":  FormatTabular,
	".tsv":  FormatTabular,
}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Detect classifies the source without fully loading it.
//
// A recognized extension on name decides immediately and src is not read.
// Otherwise the content must be valid JSON to be classified [FormatJSON].
// Detect never fails: when src returns an error the result is
// [FormatTabular], and the error resurfaces when the source is loaded.
//
// Detect has no side effects beyond calling src at most once.
func Detect(name string, src Source) Format {
	if f, ok := FormatFromName(name); ok {
		return f
	}
	if src == nil {
		return FormatTabular
	}
	content, err := src()
	if err != nil {
		return FormatTabular
	}
	return DetectContent(content)
}

// DetectContent classifies already-read content: JSON if it parses, tabular
// otherwise. A leading UTF-8 byte order mark is ignored.
func DetectContent(content []byte) Format {
	if json.Valid(trimBOM(content)) {
		return FormatJSON
	}
	return FormatTabular
}

// FormatFromName reports the format implied by a file extension, if any.
// Matching is case-insensitive.
func FormatFromName(name string) (Format, bool) {
	if name == "" {
		return FormatTabular, false
	}
	f, ok := extensionFormats[strings.ToLower(filepath.Ext(name))]
	return f, ok
}

func trimBOM(b []byte) []byte {
	return bytes.TrimPrefix(b, utf8BOM)
}
