package export

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/piwi3910/TilePack/internal/model"
)

// Manifest is the machine-readable description of an atlas, suitable for
// loading sprites back out of a composed texture.
type Manifest struct {
	Width      int             `json:"width" yaml:"width"`
	Height     int             `json:"height" yaml:"height"`
	Efficiency float64         `json:"efficiency" yaml:"efficiency"`
	Tiles      []ManifestEntry `json:"tiles" yaml:"tiles"`
}

// ManifestEntry is a single placed tile in a Manifest.
type ManifestEntry struct {
	ID     string `json:"id" yaml:"id"`
	Label  string `json:"label" yaml:"label"`
	X      int    `json:"x" yaml:"x"`
	Y      int    `json:"y" yaml:"y"`
	Width  int    `json:"width" yaml:"width"`
	Height int    `json:"height" yaml:"height"`
	Source string `json:"source,omitempty" yaml:"source,omitempty"`
}

// NewManifest builds the manifest for result. Efficiency is rounded to two
// decimals.
func NewManifest(result model.AtlasResult) Manifest {
	m := Manifest{
		Width:      result.Width,
		Height:     result.Height,
		Efficiency: float64(int(result.Efficiency()*100+0.5)) / 100,
		Tiles:      make([]ManifestEntry, 0, len(result.Placements)),
	}
	for _, p := range result.Placements {
		m.Tiles = append(m.Tiles, ManifestEntry{
			ID:     p.Tile.ID,
			Label:  p.Tile.Label,
			X:      p.X,
			Y:      p.Y,
			Width:  p.Tile.Width,
			Height: p.Tile.Height,
			Source: p.Tile.Source,
		})
	}
	return m
}

// ExportJSON writes the atlas manifest as indented JSON.
func ExportJSON(w io.Writer, result model.AtlasResult) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(NewManifest(result)); err != nil {
		return fmt.Errorf("encode json manifest: %w", err)
	}
	return nil
}

// ExportYAML writes the atlas manifest as YAML.
func ExportYAML(w io.Writer, result model.AtlasResult) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(NewManifest(result)); err != nil {
		return fmt.Errorf("encode yaml manifest: %w", err)
	}
	return enc.Close()
}
