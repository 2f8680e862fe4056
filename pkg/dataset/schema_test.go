package dataset

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestResolveColumns(t *testing.T) {
	tests := []struct {
		name   string
		header []string
		want   ColumnRoles
	}{
		{
			name:   "keywords in names",
			header: []string{"name", "speed_ms", "quality_tier"},
			want:   ColumnRoles{Label: "name", X: "speed_ms", Y: "quality_tier", LabelIndex: 0, XIndex: 1, YIndex: 2},
		},
		{
			name:   "positional fallback",
			header: []string{"a", "b", "c"},
			want:   ColumnRoles{Label: "a", X: "b", Y: "c", LabelIndex: 0, XIndex: 1, YIndex: 2},
		},
		{
			name:   "canonical names",
			header: []string{"label", "x", "y"},
			want:   ColumnRoles{Label: "label", X: "x", Y: "y", LabelIndex: 0, XIndex: 1, YIndex: 2},
		},
		{
			name:   "time and quality",
			header: []string{"name", "time", "quality"},
			want:   ColumnRoles{Label: "name", X: "time", Y: "quality", LabelIndex: 0, XIndex: 1, YIndex: 2},
		},
		{
			name:   "order independent",
			header: []string{"Y", "X", "Label"},
			want:   ColumnRoles{Label: "Label", X: "X", Y: "Y", LabelIndex: 2, XIndex: 1, YIndex: 0},
		},
		{
			name:   "exact label beats name",
			header: []string{"name", "label", "x", "y"},
			want:   ColumnRoles{Label: "label", X: "x", Y: "y", LabelIndex: 1, XIndex: 2, YIndex: 3},
		},
		{
			name:   "substring label",
			header: []string{"speed", "model_name", "tier"},
			want:   ColumnRoles{Label: "model_name", X: "speed", Y: "tier", LabelIndex: 1, XIndex: 0, YIndex: 2},
		},
		{
			name:   "exact x beats substring",
			header: []string{"label", "max_y", "x"},
			want:   ColumnRoles{Label: "label", X: "x", Y: "max_y", LabelIndex: 0, XIndex: 2, YIndex: 1},
		},
		{
			name:   "claimed column not reused",
			header: []string{"x_time", "name", "other"},
			want:   ColumnRoles{Label: "name", X: "x_time", Y: "other", LabelIndex: 1, XIndex: 0, YIndex: 2},
		},
		{
			name:   "header whitespace and case",
			header: []string{" Name ", " SPEED ", " Tier "},
			want:   ColumnRoles{Label: " Name ", X: " SPEED ", Y: " Tier ", LabelIndex: 0, XIndex: 1, YIndex: 2},
		},
		{
			name:   "two columns wrap",
			header: []string{"a", "b"},
			want:   ColumnRoles{Label: "a", X: "b", Y: "a", LabelIndex: 0, XIndex: 1, YIndex: 0},
		},
		{
			name:   "single column",
			header: []string{"only"},
			want:   ColumnRoles{Label: "only", X: "only", Y: "only"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ResolveColumns(tt.header)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("ResolveColumns(%q) mismatch (-want +got):\n%s", tt.header, diff)
			}
		})
	}
}
