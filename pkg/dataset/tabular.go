package dataset

import (
	"bytes"
	"encoding/csv"
	stderrors "errors"
	"io"
	"math"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/hugojosefson/scatter-svg/pkg/errors"
)

// Delimiters tried, in order, when sniffing a header line.
var sniffDelimiters = []rune{',', ';', '\t', '|'}

// Columns resolves the column roles of tabular content from its header
// alone. name selects the delimiter as in [Load].
func Columns(name string, content []byte) (ColumnRoles, error) {
	content = trimBOM(content)
	header, err := readHeader(newTabularReader(content, delimiterFor(name, content)))
	if err != nil {
		return ColumnRoles{}, err
	}
	return ResolveColumns(header), nil
}

// Delimiter returns the field delimiter [Load] would use for tabular content.
func Delimiter(name string, content []byte) rune {
	return delimiterFor(name, trimBOM(content))
}

func newTabularReader(content []byte, delim rune) *csv.Reader {
	r := csv.NewReader(bytes.NewReader(content))
	r.Comma = delim
	r.FieldsPerRecord = -1
	return r
}

// readHeader returns the trimmed header names.
func readHeader(r *csv.Reader) ([]string, error) {
	header, err := readRecord(r)
	if err == io.EOF {
		return nil, errors.New(errors.ErrCodeParse, "no header row")
	}
	if err != nil {
		return nil, err
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}
	return header, nil
}

func parseTabular(content []byte, delim rune) (*Dataset, error) {
	r := newTabularReader(content, delim)
	header, err := readHeader(r)
	if err != nil {
		return nil, err
	}
	roles := ResolveColumns(header)

	ds := &Dataset{
		XLabel: roles.X,
		YLabel: roles.Y,
		Points: []Point{},
	}
	for row := 1; ; row++ {
		rec, err := readRecord(r)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		line, _ := r.FieldPos(0)
		if len(rec) < len(header) {
			return nil, errors.New(errors.ErrCodeParse,
				"expected %d fields, got %d", len(header), len(rec)).At(row, line, "")
		}
		x, err := parseCoordinate(rec[roles.XIndex])
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeSchema, err, "invalid number").At(row, line, roles.X)
		}
		y, err := parseCoordinate(rec[roles.YIndex])
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeSchema, err, "invalid number").At(row, line, roles.Y)
		}
		ds.Points = append(ds.Points, Point{X: x, Y: y, Label: rec[roles.LabelIndex]})
	}
	return ds, nil
}

// readRecord returns the next non-blank record, io.EOF, or a PARSE_FAILURE.
func readRecord(r *csv.Reader) ([]string, error) {
	for {
		rec, err := r.Read()
		if err == io.EOF {
			return nil, io.EOF
		}
		if err != nil {
			e := errors.Wrap(errors.ErrCodeParse, err, "malformed row")
			var pe *csv.ParseError
			if stderrors.As(err, &pe) {
				e.Line = pe.Line
				e.Cause = pe.Err
			}
			return nil, e
		}
		if len(rec) == 1 && strings.TrimSpace(rec[0]) == "" {
			continue
		}
		return rec, nil
	}
}

func parseCoordinate(s string) (float64, error) {
	s = strings.TrimSpace(s)
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, stderrors.New(strconv.Quote(s) + " is not a number")
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, stderrors.New(strconv.Quote(s) + " is not finite")
	}
	return v, nil
}

// delimiterFor picks tab for .tsv sources and otherwise sniffs the header
// line, defaulting to a comma.
func delimiterFor(name string, content []byte) rune {
	if strings.EqualFold(filepath.Ext(name), ".tsv") {
		return '\t'
	}
	first := content
	if i := bytes.IndexByte(content, '\n'); i >= 0 {
		first = content[:i]
	}
	for _, d := range sniffDelimiters {
		if bytes.ContainsRune(first, d) {
			return d
		}
	}
	return ','
}
