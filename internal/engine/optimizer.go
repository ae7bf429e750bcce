package engine

import (
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/piwi3910/TilePack/internal/model"
)

var (
	// ErrInvalidQuantity is returned for tiles requested fewer than once.
	ErrInvalidQuantity = errors.New("tile quantity must be at least 1")
	// ErrInvalidPadding is returned when the padding setting is negative.
	ErrInvalidPadding = errors.New("padding must not be negative")
)

// Optimizer packs tile lists into a single atlas.
type Optimizer struct {
	Settings model.PackSettings
	logger   *log.Logger
}

// New returns an Optimizer for the given settings. A nil logger falls back
// to the package default logger.
func New(settings model.PackSettings, logger *log.Logger) *Optimizer {
	if logger == nil {
		logger = log.Default()
	}
	return &Optimizer{Settings: settings, logger: logger}
}

// Optimize expands tiles by quantity, packs them and returns the layout.
// Padding is reserved to the right of and below every tile, so placements
// never touch. Placements are reported in input order, with each tile
// repeated Quantity times.
func (o *Optimizer) Optimize(tiles []model.Tile) (model.AtlasResult, error) {
	start := time.Now()

	pad := o.Settings.Padding
	if pad < 0 {
		return model.AtlasResult{}, fmt.Errorf("padding %d: %w", pad, ErrInvalidPadding)
	}

	expanded, err := expandTiles(tiles)
	if err != nil {
		return model.AtlasResult{}, err
	}

	items := make([]model.Item[model.Tile], len(expanded))
	for i, t := range expanded {
		items[i] = model.NewItem(t.Width+pad, t.Height+pad, t)
	}

	gp, err := packItems(items, func(s Step) {
		if s.Growth == GrowNone {
			return
		}
		o.logger.Debug("grew atlas",
			"tile", items[s.Index].Payload.Label,
			"direction", s.Growth,
			"bounds", s.Bounds,
		)
	})
	if err != nil {
		return model.AtlasResult{}, err
	}

	result := model.AtlasResult{
		Width:      gp.bounds.Width,
		Height:     gp.bounds.Height,
		Placements: make([]model.Placement, len(items)),
	}
	// Placement coordinates are the tile origin; the padded size is dropped
	for i, it := range items {
		result.Placements[i] = model.Placement{Tile: it.Payload, X: it.X, Y: it.Y}
	}
	result.FreeRegions = gp.freeSlots()

	if o.Settings.PowerOfTwo {
		roundToPowerOfTwo(&result)
	}

	o.logger.Info("packed atlas",
		"tiles", len(result.Placements),
		"bounds", result.Bounds(),
		"efficiency", fmt.Sprintf("%.1f%%", result.Efficiency()),
		"duration", time.Since(start).Round(time.Microsecond),
	)
	return result, nil
}

// expandTiles expands tiles by quantity into individual placement candidates.
func expandTiles(tiles []model.Tile) ([]model.Tile, error) {
	var expanded []model.Tile
	for _, t := range tiles {
		if t.Quantity < 1 {
			return nil, fmt.Errorf("tile %q: quantity %d: %w", t.Label, t.Quantity, ErrInvalidQuantity)
		}
		if t.Width <= 0 || t.Height <= 0 {
			return nil, fmt.Errorf("tile %q (%dx%d): %w", t.Label, t.Width, t.Height, ErrInvalidSize)
		}
		for i := 0; i < t.Quantity; i++ {
			cp := t
			cp.Quantity = 1
			expanded = append(expanded, cp)
		}
	}
	if len(expanded) == 0 {
		return nil, ErrNoItems
	}
	return expanded, nil
}

// roundToPowerOfTwo grows the atlas to power-of-two dimensions and records
// the added strips as free regions.
func roundToPowerOfTwo(result *model.AtlasResult) {
	w, h := result.Width, result.Height
	pw, ph := model.NextPowerOfTwo(w), model.NextPowerOfTwo(h)

	if pw > w {
		result.FreeRegions = append(result.FreeRegions, model.NewRect(w, 0, pw-w, ph))
	}
	if ph > h {
		result.FreeRegions = append(result.FreeRegions, model.NewRect(0, h, w, ph-h))
	}
	result.Width, result.Height = pw, ph
}
