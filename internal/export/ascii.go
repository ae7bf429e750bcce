package export

import (
	"bufio"
	"io"

	"github.com/piwi3910/TilePack/internal/model"
)

// ASCII preview cell markers.
const (
	asciiEdge  = '*'
	asciiFill  = ' '
	asciiEmpty = '.'
)

// AutoScale returns the smallest scale at which the atlas fits in maxCols
// preview columns.
func AutoScale(result model.AtlasResult, maxCols int) int {
	if maxCols < 1 || result.Width <= maxCols {
		return 1
	}
	return (result.Width + maxCols - 1) / maxCols
}

// RenderASCII draws the atlas as text, one character per scale x scale
// block. Every placement is outlined with '*'; space no tile covers is '.'.
func RenderASCII(w io.Writer, result model.AtlasResult, scale int) error {
	if scale < 1 {
		scale = 1
	}
	cols := (result.Width + scale - 1) / scale
	rows := (result.Height + scale - 1) / scale

	grid := make([][]byte, rows)
	for y := range grid {
		grid[y] = make([]byte, cols)
		for x := range grid[y] {
			grid[y][x] = asciiEmpty
		}
	}

	for _, p := range result.Placements {
		r := p.Rect()
		x0, y0 := r.X/scale, r.Y/scale
		x1, y1 := (r.Right()-1)/scale, (r.Bottom()-1)/scale
		for y := y0; y <= y1; y++ {
			for x := x0; x <= x1; x++ {
				if x == x0 || x == x1 || y == y0 || y == y1 {
					grid[y][x] = asciiEdge
				} else {
					grid[y][x] = asciiFill
				}
			}
		}
	}

	bw := bufio.NewWriter(w)
	for _, line := range grid {
		bw.Write(line)
		bw.WriteByte('\n')
	}
	return bw.Flush()
}
