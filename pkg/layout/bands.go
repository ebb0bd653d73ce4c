package layout

import (
	"fmt"

	"github.com/ancestree/ancestree/pkg/kin"
)

// computeBands derives the background band for every occupied generation.
// Bands share the row geometry used for person placement, padded above and
// below so band edges never clip person boxes.
func computeBands(groups map[int][]kin.Person, s Spacing, out map[int]Band) {
	for gen := range groups {
		top := s.RowY(gen) - s.BandPaddingTop
		height := s.BandPaddingTop + s.BoxHeight + s.BandPaddingBottom
		out[gen] = Band{
			Y:      top,
			Height: height,
			Label:  fmt.Sprintf("Gen %d", gen),
		}
	}
}
