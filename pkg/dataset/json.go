package dataset

import (
	"bytes"
	"encoding/json"
	stderrors "errors"
	"strconv"

	"github.com/hugojosefson/scatter-svg/pkg/errors"
)

type jsonDocument struct {
	Title  *string      `json:"title"`
	XLabel *string      `json:"xlabel"`
	YLabel *string      `json:"ylabel"`
	Points *[]jsonPoint `json:"points"`
}

type jsonPoint struct {
	X     *float64        `json:"x"`
	Y     *float64        `json:"y"`
	Label json.RawMessage `json:"label"`
}

func parseJSON(content []byte) (*Dataset, error) {
	var doc jsonDocument
	if err := json.Unmarshal(content, &doc); err != nil {
		return nil, jsonError(content, err)
	}
	if doc.Points == nil {
		return nil, errors.New(errors.ErrCodeParse, "missing points array")
	}

	ds := &Dataset{
		Title:  deref(doc.Title),
		XLabel: deref(doc.XLabel),
		YLabel: deref(doc.YLabel),
		Points: make([]Point, 0, len(*doc.Points)),
	}
	for i, p := range *doc.Points {
		if p.X == nil {
			return nil, errors.New(errors.ErrCodeParse, "point %d: missing x", i).At(i+1, 0, "")
		}
		if p.Y == nil {
			return nil, errors.New(errors.ErrCodeParse, "point %d: missing y", i).At(i+1, 0, "")
		}
		label, err := jsonLabel(p.Label)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeParse, err, "point %d: label", i).At(i+1, 0, "")
		}
		ds.Points = append(ds.Points, Point{X: *p.X, Y: *p.Y, Label: label})
	}
	return ds, nil
}

// jsonLabel converts a string, number or boolean label to its text form.
func jsonLabel(raw json.RawMessage) (string, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return "", stderrors.New("missing")
	}
	switch raw[0] {
	case '"':
		var s string
		err := json.Unmarshal(raw, &s)
		return s, err
	case 't', 'f':
		var b bool
		if err := json.Unmarshal(raw, &b); err != nil {
			return "", err
		}
		return strconv.FormatBool(b), nil
	case '{', '[':
		return "", stderrors.New("must be a string or number")
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err != nil {
		return "", err
	}
	return strconv.FormatFloat(f, 'f', -1, 64), nil
}

// jsonError maps a decode failure to PARSE_FAILURE with a line number when
// the decoder reports a byte offset.
func jsonError(content []byte, err error) error {
	var (
		syntax *json.SyntaxError
		typ    *json.UnmarshalTypeError
		offset int64
	)
	switch {
	case stderrors.As(err, &syntax):
		offset = syntax.Offset
	case stderrors.As(err, &typ):
		offset = typ.Offset
	}
	e := errors.Wrap(errors.ErrCodeParse, err, "invalid JSON")
	if offset > 0 {
		e.Line = lineAt(content, offset)
	}
	return e
}

func lineAt(content []byte, offset int64) int {
	if offset > int64(len(content)) {
		offset = int64(len(content))
	}
	return bytes.Count(content[:offset], []byte("\n")) + 1
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
