// Package importer reads tile lists from CSV, Excel, YAML, DXF and image files.
// CSV import supports automatic delimiter detection, flexible column mapping,
// and case-insensitive header recognition.
package importer

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/unicode/norm"

	"github.com/piwi3910/TilePack/internal/model"
)

// ImportResult holds the results of an import operation.
type ImportResult struct {
	Tiles    []model.Tile
	Errors   []string
	Warnings []string
}

// merge appends the tiles and messages of other to r.
func (r *ImportResult) merge(other ImportResult) {
	r.Tiles = append(r.Tiles, other.Tiles...)
	r.Errors = append(r.Errors, other.Errors...)
	r.Warnings = append(r.Warnings, other.Warnings...)
}

// ColumnMapping maps semantic column roles to their indices in the data.
type ColumnMapping struct {
	Label    int
	Width    int
	Height   int
	Quantity int
	Source   int
}

// headerAliases maps canonical column names to their accepted aliases (all lowercase).
var headerAliases = map[string][]string{
	"label":    {"label", "name", "tile", "sprite", "description", "desc", "item"},
	"width":    {"width", "w", "cols"},
	"height":   {"height", "h", "rows"},
	"quantity": {"quantity", "qty", "count", "num", "amount", "copies"},
	"source":   {"source", "src", "file", "path", "image", "filename"},
}

// DetectCSVDelimiter reads the file content and determines the most likely CSV delimiter.
// It tries comma, semicolon, tab, and pipe. The delimiter that produces the most
// consistent (non-one) column count across lines wins.
func DetectCSVDelimiter(data []byte) rune {
	candidates := []rune{',', ';', '\t', '|'}
	bestDelimiter := ','
	bestScore := 0

	for _, delim := range candidates {
		reader := newCSVReader(bytes.NewReader(data), delim)
		records, err := reader.ReadAll()
		if err != nil || len(records) < 1 {
			continue
		}

		// Only consider delimiters that produce more than 1 column
		firstCols := len(records[0])
		if firstCols < 2 {
			continue
		}

		score := 0
		for _, row := range records {
			if len(row) == firstCols {
				score++
			}
		}

		// Prefer delimiters with higher consistency and more columns
		weighted := score*10 + firstCols
		if weighted > bestScore {
			bestScore = weighted
			bestDelimiter = delim
		}
	}

	return bestDelimiter
}

func newCSVReader(r io.Reader, delimiter rune) *csv.Reader {
	reader := csv.NewReader(r)
	reader.Comma = delimiter
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1 // Allow variable field counts
	return reader
}

// DetectColumns examines a header row and returns a ColumnMapping.
// It performs case-insensitive matching against known aliases for each column role.
// Returns the mapping and true if a header was detected, or a default positional
// mapping (label, width, height, quantity, source) and false if no header was found.
func DetectColumns(row []string) (ColumnMapping, bool) {
	mapping := ColumnMapping{Label: -1, Width: -1, Height: -1, Quantity: -1, Source: -1}
	slots := map[string]*int{
		"label":    &mapping.Label,
		"width":    &mapping.Width,
		"height":   &mapping.Height,
		"quantity": &mapping.Quantity,
		"source":   &mapping.Source,
	}

	isHeader := false
	for i, cell := range row {
		normalized := strings.ToLower(strings.TrimSpace(cell))
		for role, aliases := range headerAliases {
			for _, alias := range aliases {
				if normalized != alias {
					continue
				}
				isHeader = true
				if idx := slots[role]; *idx == -1 {
					*idx = i
				}
			}
		}
	}

	if !isHeader {
		return ColumnMapping{Label: 0, Width: 1, Height: 2, Quantity: 3, Source: 4}, false
	}
	return mapping, true
}

// getCell safely retrieves a cell value from a row by column index.
// Returns empty string if the index is out of range or negative.
func getCell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// normalizeLabel folds compatibility characters so visually identical labels
// compare equal.
func normalizeLabel(s string) string {
	return norm.NFKC.String(strings.TrimSpace(s))
}

// parseRow extracts a Tile from a row using the given column mapping.
// Returns the tile, any error message, and any warning message.
func parseRow(row []string, mapping ColumnMapping, rowLabel string, tileCount int) (model.Tile, string, string) {
	label := normalizeLabel(getCell(row, mapping.Label))
	if label == "" {
		label = fmt.Sprintf("Tile %d", tileCount+1)
	}

	width, errMsg := parseDimension(getCell(row, mapping.Width), "width", rowLabel)
	if errMsg != "" {
		return model.Tile{}, errMsg, ""
	}
	height, errMsg := parseDimension(getCell(row, mapping.Height), "height", rowLabel)
	if errMsg != "" {
		return model.Tile{}, errMsg, ""
	}

	qty := 1
	if qtyStr := getCell(row, mapping.Quantity); qtyStr != "" {
		n, err := strconv.Atoi(qtyStr)
		if err != nil {
			return model.Tile{}, fmt.Sprintf("%s: Invalid quantity '%s'", rowLabel, qtyStr), ""
		}
		qty = n
	}

	if width <= 0 || height <= 0 || qty <= 0 {
		return model.Tile{}, fmt.Sprintf("%s: Width, height, and quantity must be positive", rowLabel), ""
	}

	tile := model.NewTile(label, width, height, qty)

	var warning string
	if src := getCell(row, mapping.Source); src != "" {
		tile.Source = src
		if !IsImageFile(src) {
			warning = fmt.Sprintf("%s: Source '%s' is not a supported image type", rowLabel, src)
		}
	}

	return tile, "", warning
}

// parseDimension parses a whole-unit size value. A value with a fraction is
// rejected rather than rounded so the atlas never silently changes a sprite size.
func parseDimension(s, name, rowLabel string) (int, string) {
	if s == "" {
		return 0, fmt.Sprintf("%s: Missing %s value", rowLabel, name)
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Sprintf("%s: Invalid %s '%s'", rowLabel, name, s)
	}
	return v, ""
}

// isEmptyRow returns true if the row has no meaningful content.
func isEmptyRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// resolveSources makes relative tile sources relative to dir.
func resolveSources(tiles []model.Tile, dir string) {
	for i := range tiles {
		src := tiles[i].Source
		if src != "" && !filepath.IsAbs(src) {
			tiles[i].Source = filepath.Join(dir, src)
		}
	}
}

// ImportCSV imports tiles from a CSV file.
// It automatically detects the delimiter and maps columns by header names.
// Relative sources are resolved against the directory of the file.
func ImportCSV(path string) ImportResult {
	result := ImportResult{}

	data, err := os.ReadFile(path)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot open file: %v", err))
		return result
	}

	if len(bytes.TrimSpace(data)) == 0 {
		result.Errors = append(result.Errors, "File is empty")
		return result
	}

	delimiter := DetectCSVDelimiter(data)
	var warnings []string
	if delimiter != ',' {
		delimName := map[rune]string{';': "semicolon", '\t': "tab", '|': "pipe"}[delimiter]
		warnings = append(warnings, fmt.Sprintf("Detected %s delimiter", delimName))
	}

	result = ImportCSVFromReader(bytes.NewReader(data), delimiter)
	result.Warnings = append(warnings, result.Warnings...)
	resolveSources(result.Tiles, filepath.Dir(path))
	return result
}

// ImportCSVFromReader imports tiles from a CSV reader with a specific delimiter.
// Sources are left as written.
func ImportCSVFromReader(reader io.Reader, delimiter rune) ImportResult {
	result := ImportResult{}

	records, err := newCSVReader(reader, delimiter).ReadAll()
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot read CSV: %v", err))
		return result
	}

	if len(records) == 0 {
		result.Errors = append(result.Errors, "File is empty")
		return result
	}

	return importFromRows(records, "Line", nil)
}

// ImportExcel imports tiles from an Excel (.xlsx) file.
// Reads the first sheet and auto-detects column mapping from headers.
func ImportExcel(path string) ImportResult {
	result := ImportResult{}

	f, err := excelize.OpenFile(path)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot open Excel file: %v", err))
		return result
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		result.Errors = append(result.Errors, "Excel file has no sheets")
		return result
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot read Excel data: %v", err))
		return result
	}

	if len(rows) == 0 {
		result.Errors = append(result.Errors, "Sheet is empty")
		return result
	}

	result = importFromRows(rows, "Row", nil)
	resolveSources(result.Tiles, filepath.Dir(path))
	return result
}

// importFromRows is the shared import logic for both CSV and Excel data.
// It detects headers, maps columns, and parses each row into tiles.
func importFromRows(rows [][]string, rowPrefix string, initialWarnings []string) ImportResult {
	result := ImportResult{
		Warnings: initialWarnings,
	}

	if len(rows) == 0 {
		result.Errors = append(result.Errors, "No data rows found")
		return result
	}

	mapping, hasHeader := DetectColumns(rows[0])
	startRow := 0
	if hasHeader {
		startRow = 1
		result.Warnings = append(result.Warnings, "Detected header row, skipping")

		missing := []string{}
		if mapping.Width == -1 {
			missing = append(missing, "Width")
		}
		if mapping.Height == -1 {
			missing = append(missing, "Height")
		}
		if len(missing) > 0 {
			result.Errors = append(result.Errors, fmt.Sprintf("Required columns not found in header: %s", strings.Join(missing, ", ")))
			return result
		}
	} else if len(rows[0]) >= 3 {
		// A non-numeric width column means an unrecognized header; skip it
		// but keep the positional mapping.
		if _, err := strconv.Atoi(strings.TrimSpace(rows[0][1])); err != nil {
			startRow = 1
			result.Warnings = append(result.Warnings, "Detected header row, skipping")
		}
	}

	for i := startRow; i < len(rows); i++ {
		row := rows[i]
		if isEmptyRow(row) {
			continue
		}

		rowLabel := fmt.Sprintf("%s %d", rowPrefix, i+1)
		tile, errMsg, warning := parseRow(row, mapping, rowLabel, len(result.Tiles))
		if errMsg != "" {
			result.Errors = append(result.Errors, errMsg)
			continue
		}
		if warning != "" {
			result.Warnings = append(result.Warnings, warning)
		}

		result.Tiles = append(result.Tiles, tile)
	}

	return result
}

// ImportFile imports tiles from path, choosing the reader by file extension.
// Directories are scanned for images.
func ImportFile(path string) ImportResult {
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		return ImportImages(path)
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".csv", ".tsv", ".txt":
		return ImportCSV(path)
	case ".xlsx", ".xlsm":
		return ImportExcel(path)
	case ".yaml", ".yml":
		return ImportYAML(path)
	case ".dxf":
		return ImportDXF(path)
	default:
		if IsImageFile(path) {
			return ImportImages(path)
		}
		return ImportResult{Errors: []string{fmt.Sprintf("Unsupported file type '%s'", ext)}}
	}
}

// ImportFiles imports every path and merges the results in order.
func ImportFiles(paths ...string) ImportResult {
	var result ImportResult
	for _, p := range paths {
		result.merge(ImportFile(p))
	}
	return result
}
