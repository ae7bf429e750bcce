package model

import (
	"math/bits"

	"github.com/google/uuid"
)

// Tile represents a rectangle requested for the atlas, such as a sprite.
type Tile struct {
	ID       string `json:"id"`
	Label    string `json:"label"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
	Quantity int    `json:"quantity"`
	Source   string `json:"source,omitempty"` // Image file backing the tile; empty for plain rectangles
}

func NewTile(label string, w, h, qty int) Tile {
	return Tile{
		ID:       uuid.New().String()[:8],
		Label:    label,
		Width:    w,
		Height:   h,
		Quantity: qty,
	}
}

// Size returns the tile dimensions.
func (t Tile) Size() Size {
	return Size{Width: t.Width, Height: t.Height}
}

// PackSettings holds packing configuration.
type PackSettings struct {
	Padding    int  `json:"padding"`      // Gap kept to the right of and below every tile
	PowerOfTwo bool `json:"power_of_two"` // Round the final atlas size up to powers of two
}

func DefaultSettings() PackSettings {
	return PackSettings{
		Padding:    0,
		PowerOfTwo: false,
	}
}

// Placement represents a single tile placed in the atlas.
type Placement struct {
	Tile Tile `json:"tile"`
	X    int  `json:"x"` // Position from left edge
	Y    int  `json:"y"` // Position from top edge
}

// Rect returns the area covered by the placed tile.
func (p Placement) Rect() Rect {
	return NewRect(p.X, p.Y, p.Tile.Width, p.Tile.Height)
}

// AtlasResult holds a complete packing.
type AtlasResult struct {
	Width       int         `json:"width"`
	Height      int         `json:"height"`
	Placements  []Placement `json:"placements"`
	FreeRegions []Rect      `json:"free_regions,omitempty"`
}

// Bounds returns the atlas dimensions.
func (ar AtlasResult) Bounds() Size {
	return Size{Width: ar.Width, Height: ar.Height}
}

// UsedArea returns the total area covered by tiles.
func (ar AtlasResult) UsedArea() int {
	total := 0
	for _, p := range ar.Placements {
		total += p.Tile.Width * p.Tile.Height
	}
	return total
}

// TotalArea returns the atlas area.
func (ar AtlasResult) TotalArea() int {
	return ar.Width * ar.Height
}

// Efficiency returns the usage percentage.
func (ar AtlasResult) Efficiency() float64 {
	ta := ar.TotalArea()
	if ta == 0 {
		return 0
	}
	return float64(ar.UsedArea()) / float64(ta) * 100.0
}

// Project ties everything together for save/load.
type Project struct {
	Name     string       `json:"name"`
	Tiles    []Tile       `json:"tiles"`
	Settings PackSettings `json:"settings"`
	Result   *AtlasResult `json:"result,omitempty"`
}

func NewProject() Project {
	return Project{
		Name:     "Untitled",
		Tiles:    []Tile{},
		Settings: DefaultSettings(),
	}
}

// NextPowerOfTwo returns the smallest power of two >= n. Values below 1 yield 1.
func NextPowerOfTwo(n int) int {
	if n <= 1 {
		return 1
	}
	return 1 << bits.Len(uint(n-1))
}
