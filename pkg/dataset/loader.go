package dataset

import (
	"io"

	"github.com/hugojosefson/scatter-svg/pkg/errors"
)

// Load detects the format of src and parses it into a Dataset.
//
// name is an optional file name used for extension-based detection and for
// choosing a tabular delimiter; it is never opened. A read failure from src
// is reported as IO_FAILURE, malformed content as PARSE_FAILURE, and a
// non-numeric coordinate as SCHEMA_FAILURE.
func Load(name string, src Source) (*Dataset, error) {
	format := Detect(name, src)
	content, err := src()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeIO, err, "read %s", displayName(name))
	}
	return Parse(name, format, content)
}

// LoadFile loads the file at path.
func LoadFile(path string) (*Dataset, error) {
	return Load(path, File(path))
}

// LoadReader loads from r, for example standard input. name may be empty.
func LoadReader(name string, r io.Reader) (*Dataset, error) {
	return Load(name, Reader(r))
}

// Parse parses content that has already been read along the given format.
func Parse(name string, format Format, content []byte) (*Dataset, error) {
	content = trimBOM(content)
	if format == FormatJSON {
		return parseJSON(content)
	}
	return parseTabular(content, delimiterFor(name, content))
}

func displayName(name string) string {
	if name == "" || name == "-" {
		return "stdin"
	}
	return name
}
