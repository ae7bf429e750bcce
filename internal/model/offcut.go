package model

import (
	"sort"
)

// MinRegionDimension is the default minimum width or height for a free region
// to be reported as reusable. Narrower slivers are treated as waste.
const MinRegionDimension = 4

// UsableRegions filters the free regions left in an atlas down to those at
// least minDim wide and tall, largest first. The input is not modified.
func UsableRegions(result AtlasResult, minDim int) []Rect {
	var regions []Rect
	for _, r := range result.FreeRegions {
		if r.Width < minDim || r.Height < minDim {
			continue
		}
		regions = append(regions, r)
	}

	// Sort by area descending (largest regions first)
	sort.SliceStable(regions, func(i, j int) bool {
		return regions[i].Area() > regions[j].Area()
	})

	return regions
}

// TotalRegionArea returns the combined area of the given regions.
func TotalRegionArea(regions []Rect) int {
	total := 0
	for _, r := range regions {
		total += r.Area()
	}
	return total
}
