package render

import (
	"fmt"
	"image/color"
	"math"
	"slices"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette/moreland"

	"github.com/hugojosefson/scatter-svg/pkg/dataset"
)

// MaxTiers is the largest number of distinct Y values treated as discrete
// tiers.
const MaxTiers = 10

// Colour map span used for tiers; the ends of the map are near black and
// near white.
const (
	tierColorLo = 0.15
	tierColorHi = 0.85
)

// tierSet is the sorted distinct Y values of a dataset with few of them.
type tierSet []float64

// tiersOf returns the tiers of ds, or nil when ds is empty or has more than
// MaxTiers distinct Y values.
func tiersOf(ds *dataset.Dataset) tierSet {
	ys := ds.DistinctY()
	if len(ys) == 0 || len(ys) > MaxTiers {
		return nil
	}
	return tierSet(ys)
}

func (t tierSet) index(y float64) int {
	i, _ := slices.BinarySearch(t, y)
	return i
}

// colors returns one colour per tier from the Kindlmann luminance map.
func (t tierSet) colors() []color.Color {
	cmap := moreland.Kindlmann()
	cmap.SetMin(0)
	cmap.SetMax(1)

	out := make([]color.Color, len(t))
	for i := range t {
		v := 0.5
		if len(t) > 1 {
			v = tierColorLo + (tierColorHi-tierColorLo)*float64(i)/float64(len(t)-1)
		}
		c, err := cmap.At(v)
		if err != nil {
			c = color.Black
		}
		out[i] = c
	}
	return out
}

// ticks labels integral tiers "Tier N" and other tiers by value.
func (t tierSet) ticks() plot.ConstantTicks {
	ticks := make(plot.ConstantTicks, len(t))
	for i, y := range t {
		ticks[i] = plot.Tick{Value: y, Label: tierLabel(y)}
	}
	return ticks
}

func tierLabel(y float64) string {
	if y == math.Trunc(y) {
		return fmt.Sprintf("Tier %d", int64(y))
	}
	return fmt.Sprintf("%g", y)
}
