package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/piwi3910/TilePack/internal/model"
)

const (
	placementsSheet = "Placements"
	summarySheet    = "Summary"
)

// placementHeaders leads with the columns the tile importer recognizes, so
// an exported sheet can be imported again as a tile list.
var placementHeaders = []string{"Label", "Width", "Height", "X", "Y", "Source", "ID"}

// ExportExcel writes one row per placement and a summary sheet to an .xlsx file.
func ExportExcel(path string, result model.AtlasResult) error {
	if len(result.Placements) == 0 {
		return ErrEmptyResult
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), placementsSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("create header style: %w", err)
	}

	rows := [][]interface{}{}
	for _, p := range result.Placements {
		rows = append(rows, []interface{}{
			p.Tile.Label, p.Tile.Width, p.Tile.Height, p.X, p.Y, p.Tile.Source, p.Tile.ID,
		})
	}
	if err := writeSheet(f, placementsSheet, placementHeaders, rows, bold); err != nil {
		return err
	}

	if _, err := f.NewSheet(summarySheet); err != nil {
		return fmt.Errorf("create summary sheet: %w", err)
	}
	summary := [][]interface{}{
		{"Width", result.Width},
		{"Height", result.Height},
		{"Tiles", len(result.Placements)},
		{"Used Area", result.UsedArea()},
		{"Total Area", result.TotalArea()},
		{"Efficiency %", fmt.Sprintf("%.2f", result.Efficiency())},
		{"Free Regions", len(result.FreeRegions)},
	}
	if err := writeSheet(f, summarySheet, []string{"Metric", "Value"}, summary, bold); err != nil {
		return err
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("write excel %s: %w", path, err)
	}
	return nil
}

// writeSheet writes a bold header row followed by rows starting at A1.
func writeSheet(f *excelize.File, sheet string, headers []string, rows [][]interface{}, headerStyle int) error {
	for c, h := range headers {
		cell, err := excelize.CoordinatesToCellName(c+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return fmt.Errorf("write %s!%s: %w", sheet, cell, err)
		}
	}
	last, err := excelize.CoordinatesToCellName(len(headers), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", last, headerStyle); err != nil {
		return fmt.Errorf("style %s header: %w", sheet, err)
	}

	for r, row := range rows {
		for c, val := range row {
			cell, err := excelize.CoordinatesToCellName(c+1, r+2)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheet, cell, val); err != nil {
				return fmt.Errorf("write %s!%s: %w", sheet, cell, err)
			}
		}
	}
	return nil
}
