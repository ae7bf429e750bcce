package export

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/piwi3910/TilePack/internal/model"
)

// buildTestResult returns a 30x20 atlas holding three tiles and one free region.
func buildTestResult() model.AtlasResult {
	return model.AtlasResult{
		Width:  30,
		Height: 20,
		Placements: []model.Placement{
			{Tile: model.Tile{ID: "t1", Label: "Hero", Width: 20, Height: 20, Quantity: 1}, X: 0, Y: 0},
			{Tile: model.Tile{ID: "t2", Label: "Coin", Width: 10, Height: 10, Quantity: 1}, X: 20, Y: 0},
		},
		FreeRegions: []model.Rect{model.NewRect(20, 10, 10, 10)},
	}
}

func TestExportPDF_CreatesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "atlas.pdf")

	settings := model.DefaultSettings()
	settings.Padding = 2
	if err := ExportPDF(path, buildTestResult(), settings); err != nil {
		t.Fatalf("ExportPDF returned error: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("PDF file was not created: %v", err)
	}
	// Two pages (layout + summary) should be a reasonable size
	if info.Size() < 500 {
		t.Errorf("PDF file seems too small: %d bytes", info.Size())
	}
}

func TestExportPDF_EmptyResult(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.pdf")

	err := ExportPDF(path, model.AtlasResult{}, model.DefaultSettings())
	if !errors.Is(err, ErrEmptyResult) {
		t.Fatalf("expected ErrEmptyResult, got %v", err)
	}
	if _, statErr := os.Stat(path); statErr == nil {
		t.Error("no file should be written for an empty result")
	}
}

func TestExportPDF_ManyTiles(t *testing.T) {
	path := filepath.Join(t.TempDir(), "many.pdf")

	result := model.AtlasResult{Width: 400, Height: 400}
	for i := 0; i < 40; i++ {
		result.Placements = append(result.Placements, model.Placement{
			Tile: model.Tile{ID: "m", Label: "Sprite", Width: 40, Height: 40, Quantity: 1},
			X:    (i % 10) * 40,
			Y:    (i / 10) * 40,
		})
	}
	settings := model.DefaultSettings()
	settings.PowerOfTwo = true

	if err := ExportPDF(path, result, settings); err != nil {
		t.Fatalf("ExportPDF returned error: %v", err)
	}
	if info, err := os.Stat(path); err != nil || info.Size() == 0 {
		t.Fatalf("PDF file missing or empty: %v", err)
	}
}

func TestExportPDF_TinyAndWideTiles(t *testing.T) {
	path := filepath.Join(t.TempDir(), "odd.pdf")

	result := model.AtlasResult{
		Width:  1000,
		Height: 3,
		Placements: []model.Placement{
			{Tile: model.Tile{Label: "Strip", Width: 1000, Height: 2, Quantity: 1}},
			{Tile: model.Tile{Label: "Dot", Width: 1, Height: 1, Quantity: 1}, X: 0, Y: 2},
		},
	}
	if err := ExportPDF(path, result, model.DefaultSettings()); err != nil {
		t.Fatalf("ExportPDF returned error: %v", err)
	}
}

func TestGroupPlacements(t *testing.T) {
	result := buildTestResult()
	result.Placements = append(result.Placements, model.Placement{
		Tile: model.Tile{ID: "t2", Label: "Coin", Width: 10, Height: 10, Quantity: 1}, X: 20, Y: 10,
	})

	groups := groupPlacements(result)
	if len(groups) != 2 {
		t.Fatalf("expected 2 groups, got %d", len(groups))
	}
	if groups[0].label != "Hero" || groups[0].count != 1 {
		t.Errorf("first group = %+v, want Hero x1", groups[0])
	}
	if groups[1].label != "Coin" || groups[1].count != 2 {
		t.Errorf("second group = %+v, want Coin x2", groups[1])
	}
}

func TestColorFor_Wraps(t *testing.T) {
	if colorFor(0) != colorFor(len(tileColors)) {
		t.Error("palette should repeat after its last color")
	}
	if colorFor(0) == colorFor(1) {
		t.Error("neighbouring placements should get different colors")
	}
}
