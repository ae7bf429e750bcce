package export

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/piwi3910/TilePack/internal/importer"
	"github.com/piwi3910/TilePack/internal/model"
)

func TestExportExcel_Sheets(t *testing.T) {
	path := filepath.Join(t.TempDir(), "atlas.xlsx")
	require.NoError(t, ExportExcel(path, buildTestResult()))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{placementsSheet, summarySheet}, f.GetSheetList())

	rows, err := f.GetRows(placementsSheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, placementHeaders, rows[0])
	assert.Equal(t, []string{"Coin", "10", "10", "20", "0", "", "t2"}, rows[2])

	width, err := f.GetCellValue(summarySheet, "B2")
	require.NoError(t, err)
	assert.Equal(t, "30", width)
}

func TestExportExcel_ImportsAsTileList(t *testing.T) {
	path := filepath.Join(t.TempDir(), "atlas.xlsx")
	require.NoError(t, ExportExcel(path, buildTestResult()))

	imported := importer.ImportExcel(path)
	require.Empty(t, imported.Errors)
	require.Len(t, imported.Tiles, 2)
	assert.Equal(t, "Hero", imported.Tiles[0].Label)
	assert.Equal(t, 20, imported.Tiles[0].Width)
	assert.Equal(t, 1, imported.Tiles[1].Quantity)
}

func TestExportExcel_EmptyResult(t *testing.T) {
	err := ExportExcel(filepath.Join(t.TempDir(), "x.xlsx"), model.AtlasResult{})
	assert.ErrorIs(t, err, ErrEmptyResult)
}
