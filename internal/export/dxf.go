package export

import (
	"fmt"

	"github.com/yofu/dxf"
	"github.com/yofu/dxf/drawing"

	"github.com/piwi3910/TilePack/internal/model"
)

// DXF layer names.
const (
	LayerBounds = "BOUNDS"
	LayerTiles  = "TILES"
)

// ExportDXF writes the atlas outline and every tile rectangle to a DXF
// drawing. Tiles are closed polylines labelled with their name. DXF's Y axis
// points up, so rows are flipped to keep the atlas origin at the top left.
func ExportDXF(path string, result model.AtlasResult) error {
	if len(result.Placements) == 0 {
		return ErrEmptyResult
	}

	d := dxf.NewDrawing()
	flip := func(y int) float64 { return float64(result.Height - y) }

	if _, err := d.AddLayer(LayerBounds, dxf.DefaultColor, dxf.DefaultLineType, true); err != nil {
		return fmt.Errorf("add layer %s: %w", LayerBounds, err)
	}
	if err := rectangle(d, model.NewRect(0, 0, result.Width, result.Height), flip); err != nil {
		return err
	}

	if _, err := d.AddLayer(LayerTiles, dxf.DefaultColor, dxf.DefaultLineType, true); err != nil {
		return fmt.Errorf("add layer %s: %w", LayerTiles, err)
	}
	for _, p := range result.Placements {
		r := p.Rect()
		if err := rectangle(d, r, flip); err != nil {
			return err
		}
		if r.Height < 4 || p.Tile.Label == "" {
			continue
		}
		textHeight := float64(r.Height) / 4
		if _, err := d.Text(p.Tile.Label, float64(r.X)+1, flip(r.Bottom())+textHeight, 0, textHeight); err != nil {
			return fmt.Errorf("label tile %q: %w", p.Tile.Label, err)
		}
	}

	if err := d.SaveAs(path); err != nil {
		return fmt.Errorf("write dxf %s: %w", path, err)
	}
	return nil
}

// rectangle adds r to the current layer as a closed polyline.
func rectangle(d *drawing.Drawing, r model.Rect, flip func(int) float64) error {
	x0, x1 := float64(r.X), float64(r.Right())
	y0, y1 := flip(r.Y), flip(r.Bottom())
	_, err := d.LwPolyline(true,
		[]float64{x0, y0},
		[]float64{x1, y0},
		[]float64{x1, y1},
		[]float64{x0, y1},
	)
	if err != nil {
		return fmt.Errorf("draw rectangle %s: %w", r, err)
	}
	return nil
}
