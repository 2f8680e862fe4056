package dataset

import "strings"

// ColumnRoles maps header columns to the label, X and Y roles. It is
// resolved once per tabular load and reused for every row.
type ColumnRoles struct {
	Label string `json:"label"`
	X     string `json:"x"`
	Y     string `json:"y"`

	LabelIndex int `json:"label_index"`
	XIndex     int `json:"x_index"`
	YIndex     int `json:"y_index"`
}

// Keywords searched for each role, case-insensitively.
var (
	labelKeywords = []string{"label", "name"}
	xKeywords     = []string{"x", "speed", "time"}
	yKeywords     = []string{"y", "quality", "tier"}
)

// ResolveColumns infers column roles from a header row.
//
// Roles are resolved in priority order label, X, Y. For each role an exact
// (case-insensitive) keyword match is preferred over a substring match, and
// columns claimed by an earlier role are skipped. When nothing matches, the
// role falls back to its position (first, second, third column), wrapping
// modulo the column count and moving to the first unclaimed column if the
// positional one is taken. With a single column every role references it.
//
// header must be non-empty.
func ResolveColumns(header []string) ColumnRoles {
	lower := make([]string, len(header))
	for i, h := range header {
		lower[i] = strings.ToLower(strings.TrimSpace(h))
	}
	claimed := make([]bool, len(header))

	claim := func(keywords []string, position int) int {
		idx := match(lower, claimed, keywords)
		if idx < 0 {
			idx = fallback(claimed, position)
		}
		claimed[idx] = true
		return idx
	}

	li := claim(labelKeywords, 0)
	xi := claim(xKeywords, 1)
	yi := claim(yKeywords, 2)

	return ColumnRoles{
		Label:      header[li],
		X:          header[xi],
		Y:          header[yi],
		LabelIndex: li,
		XIndex:     xi,
		YIndex:     yi,
	}
}

// match returns the first unclaimed exact match in keyword order, then the
// first unclaimed column containing any keyword, or -1.
func match(cols []string, claimed []bool, keywords []string) int {
	for _, kw := range keywords {
		for i, c := range cols {
			if !claimed[i] && c == kw {
				return i
			}
		}
	}
	for i, c := range cols {
		if claimed[i] {
			continue
		}
		for _, kw := range keywords {
			if strings.Contains(c, kw) {
				return i
			}
		}
	}
	return -1
}

func fallback(claimed []bool, position int) int {
	idx := position % len(claimed)
	if !claimed[idx] {
		return idx
	}
	for i, taken := range claimed {
		if !taken {
			return i
		}
	}
	return idx
}
