package model

import "math"

// BoundsEstimate holds a lower-bound estimate of the atlas a tile list needs.
type BoundsEstimate struct {
	TileCount  int `json:"tile_count"`  // Tiles after quantity expansion
	TotalArea  int `json:"total_area"`  // Sum of padded tile areas
	MinWidth   int `json:"min_width"`   // Widest padded tile; no packing can be narrower
	MinHeight  int `json:"min_height"`  // Tallest padded tile; no packing can be shorter
	SquareSide int `json:"square_side"` // Side of the smallest square holding TotalArea
}

// EstimateBounds computes the theoretical minimum for packing tiles with the
// given padding. Tiles with a non-positive quantity are ignored.
func EstimateBounds(tiles []Tile, padding int) BoundsEstimate {
	var est BoundsEstimate
	for _, t := range tiles {
		if t.Quantity < 1 {
			continue
		}
		w := t.Width + padding
		h := t.Height + padding
		est.TileCount += t.Quantity
		est.TotalArea += w * h * t.Quantity
		if w > est.MinWidth {
			est.MinWidth = w
		}
		if h > est.MinHeight {
			est.MinHeight = h
		}
	}

	est.SquareSide = int(math.Ceil(math.Sqrt(float64(est.TotalArea))))
	if est.SquareSide < est.MinWidth {
		est.SquareSide = est.MinWidth
	}
	if est.SquareSide < est.MinHeight {
		est.SquareSide = est.MinHeight
	}
	return est
}
