package layout

import (
	"maps"
	"slices"
)

// Scale is a linear mapping between scene Y coordinates and calendar years,
// used by year-ruler displays alongside the tree. The mapping stretches the
// recorded year range over the vertical extent the layout occupies.
type Scale struct {
	Years YearRange
	TopY  float64
	BotY  float64
}

// NewScale builds the scale for a computed layout. It reports false when the
// layout has no dated people or no vertical extent, meaning no scale can be
// displayed.
func NewScale(r Result) (Scale, bool) {
	if r.Years.IsZero() || len(r.Bands) == 0 {
		return Scale{}, false
	}

	gens := slices.Sorted(maps.Keys(r.Bands))
	top := r.Bands[gens[0]]
	bot := r.Bands[gens[len(gens)-1]]

	sc := Scale{
		Years: r.Years,
		TopY:  top.Y,
		BotY:  bot.Y + bot.Height,
	}
	if sc.BotY <= sc.TopY {
		return Scale{}, false
	}
	return sc, true
}

// YearAt maps a scene Y coordinate to the calendar year drawn there.
// Positions outside the layout extent extrapolate linearly.
func (s Scale) YearAt(y float64) float64 {
	span := float64(s.Years.Max - s.Years.Min)
	if span == 0 {
		return float64(s.Years.Min)
	}
	return float64(s.Years.Min) + (y-s.TopY)/(s.BotY-s.TopY)*span
}

// YAt maps a calendar year to its scene Y coordinate.
func (s Scale) YAt(year float64) float64 {
	span := float64(s.Years.Max - s.Years.Min)
	if span == 0 {
		return s.TopY
	}
	return s.TopY + (year-float64(s.Years.Min))/span*(s.BotY-s.TopY)
}
