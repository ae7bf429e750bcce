package importer

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/piwi3910/TilePack/internal/model"
)

// tileList is the on-disk YAML layout of a tile list.
type tileList struct {
	Tiles []tileEntry `yaml:"tiles"`
}

type tileEntry struct {
	Label    string `yaml:"label"`
	Width    int    `yaml:"width"`
	Height   int    `yaml:"height"`
	Quantity int    `yaml:"quantity"`
	Source   string `yaml:"source"`
}

// ImportYAML imports tiles from a YAML document of the form
//
//	tiles:
//	  - label: hero
//	    width: 32
//	    height: 48
//	    quantity: 2
//	    source: sprites/hero.png
//
// Quantity defaults to 1. Relative sources are resolved against the
// directory of the file.
func ImportYAML(path string) ImportResult {
	result := ImportResult{}

	data, err := os.ReadFile(path)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot open file: %v", err))
		return result
	}

	var list tileList
	if err := yaml.Unmarshal(data, &list); err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot parse YAML: %v", err))
		return result
	}
	if len(list.Tiles) == 0 {
		result.Errors = append(result.Errors, "No tiles defined")
		return result
	}

	for i, e := range list.Tiles {
		entryLabel := fmt.Sprintf("Tile %d", i+1)
		if e.Quantity == 0 {
			e.Quantity = 1
		}
		if e.Width <= 0 || e.Height <= 0 || e.Quantity < 0 {
			result.Errors = append(result.Errors, fmt.Sprintf("%s: Width, height, and quantity must be positive", entryLabel))
			continue
		}

		label := normalizeLabel(e.Label)
		if label == "" {
			label = fmt.Sprintf("Tile %d", len(result.Tiles)+1)
		}
		tile := model.NewTile(label, e.Width, e.Height, e.Quantity)
		tile.Source = e.Source
		result.Tiles = append(result.Tiles, tile)
	}

	resolveSources(result.Tiles, filepath.Dir(path))
	return result
}
