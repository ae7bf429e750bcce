package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/piwi3910/TilePack/internal/model"
)

// layoutVersion is part of every layout key; bump it when packing output changes.
const layoutVersion = 2

// Hash computes a SHA-256 hash of the input data.
// Returns the full 64-character hex string.
func Hash(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}

// hashKey builds "prefix:hash(parts...)".
func hashKey(prefix string, parts ...interface{}) (string, error) {
	data, err := json.Marshal(parts)
	if err != nil {
		return "", fmt.Errorf("hash %s key: %w", prefix, err)
	}
	return prefix + ":" + Hash(data), nil
}

// layoutTile is the part of a tile that influences its layout. IDs are
// excluded since they change on every import.
type layoutTile struct {
	Label    string `json:"l"`
	Width    int    `json:"w"`
	Height   int    `json:"h"`
	Quantity int    `json:"q"`
	Source   string `json:"s,omitempty"`
}

// LayoutKey returns the cache key for packing tiles with settings.
func LayoutKey(tiles []model.Tile, settings model.PackSettings) (string, error) {
	lt := make([]layoutTile, len(tiles))
	for i, t := range tiles {
		lt[i] = layoutTile{Label: t.Label, Width: t.Width, Height: t.Height, Quantity: t.Quantity, Source: t.Source}
	}
	return hashKey("layout", layoutVersion, lt, settings)
}

// Layout is the cached form of an AtlasResult: the atlas size and one
// origin per expanded tile, without the tiles themselves.
type Layout struct {
	Width       int           `json:"width"`
	Height      int           `json:"height"`
	Origins     []model.Point `json:"origins"`
	FreeRegions []model.Rect  `json:"free_regions,omitempty"`
}

// NewLayout strips result down to its cacheable form.
func NewLayout(result model.AtlasResult) Layout {
	l := Layout{
		Width:       result.Width,
		Height:      result.Height,
		Origins:     make([]model.Point, len(result.Placements)),
		FreeRegions: result.FreeRegions,
	}
	for i, p := range result.Placements {
		l.Origins[i] = model.Point{X: p.X, Y: p.Y}
	}
	return l
}

// Apply rebuilds an AtlasResult for tiles, expanding each by its quantity in
// the same order as the optimizer. It fails when the tile count does not
// match the cached origins.
func (l Layout) Apply(tiles []model.Tile) (model.AtlasResult, error) {
	result := model.AtlasResult{
		Width:       l.Width,
		Height:      l.Height,
		Placements:  make([]model.Placement, 0, len(l.Origins)),
		FreeRegions: l.FreeRegions,
	}
	for _, t := range tiles {
		for n := 0; n < t.Quantity; n++ {
			i := len(result.Placements)
			if i >= len(l.Origins) {
				return model.AtlasResult{}, fmt.Errorf("cached layout has %d origins, tiles need more", len(l.Origins))
			}
			cp := t
			cp.Quantity = 1
			result.Placements = append(result.Placements, model.Placement{Tile: cp, X: l.Origins[i].X, Y: l.Origins[i].Y})
		}
	}
	if len(result.Placements) != len(l.Origins) {
		return model.AtlasResult{}, fmt.Errorf("cached layout has %d origins, tiles need %d", len(l.Origins), len(result.Placements))
	}
	return result, nil
}

// GetLayout loads the layout stored under key.
func GetLayout(ctx context.Context, c Cache, key string) (Layout, bool, error) {
	data, ok, err := c.Get(ctx, key)
	if err != nil || !ok {
		return Layout{}, false, err
	}
	var l Layout
	if err := json.Unmarshal(data, &l); err != nil {
		// Treat unreadable entries as a miss; the caller will overwrite them
		return Layout{}, false, nil
	}
	return l, true, nil
}

// PutLayout stores result under key with no expiry.
func PutLayout(ctx context.Context, c Cache, key string, result model.AtlasResult) error {
	data, err := json.Marshal(NewLayout(result))
	if err != nil {
		return fmt.Errorf("marshal layout: %w", err)
	}
	return c.Set(ctx, key, data, 0)
}
