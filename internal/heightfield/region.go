package heightfield

import (
	"image/color"
	"sort"
)

// DefaultColour is assigned to samples below every region threshold.
var DefaultColour = color.RGBA{A: 0xff}

// TerrainType is a named height band. A sample takes the colour of the
// highest-threshold region whose Height it reaches.
type TerrainType struct {
	Name   string
	Height float64
	Colour color.RGBA
}

// Regions is a list of terrain types ordered by ascending threshold.
type Regions []TerrainType

// SortRegions returns a copy ordered by ascending threshold. Equal
// thresholds keep their input order, so the later entry wins.
func SortRegions(in []TerrainType) Regions {
	out := append(Regions(nil), in...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Height < out[j].Height })
	return out
}

// Classify returns the colour for a normalized height. Regions must be
// sorted; the scan stops at the first threshold above h.
func (r Regions) Classify(h float64) color.RGBA {
	c := DefaultColour
	for _, region := range r {
		if h < region.Height {
			break
		}
		c = region.Colour
	}
	return c
}

// Name returns the terrain name for a normalized height, or "" below every region.
func (r Regions) Name(h float64) string {
	name := ""
	for _, region := range r {
		if h < region.Height {
			break
		}
		name = region.Name
	}
	return name
}
