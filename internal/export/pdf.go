// Package export writes packed atlas layouts to PDF, DXF, Excel, PNG, JSON,
// YAML and plain-text previews.
package export

import (
	"errors"
	"fmt"
	"math"

	"github.com/go-pdf/fpdf"

	"github.com/piwi3910/TilePack/internal/model"
)

// ErrEmptyResult is returned when there is nothing to export.
var ErrEmptyResult = errors.New("no placements to export")

// tileColor represents an RGB color for a placed tile.
type tileColor struct {
	R, G, B int
}

// tileColors is the fill palette shared by the PDF and PNG exporters.
var tileColors = []tileColor{
	{R: 76, G: 175, B: 80},  // green
	{R: 33, G: 150, B: 243}, // blue
	{R: 255, G: 152, B: 0},  // orange
	{R: 156, G: 39, B: 176}, // purple
	{R: 0, G: 188, B: 212},  // cyan
	{R: 244, G: 67, B: 54},  // red
	{R: 255, G: 235, B: 59}, // yellow
	{R: 121, G: 85, B: 72},  // brown
}

// colorFor returns the palette color of the i-th placement.
func colorFor(i int) tileColor {
	return tileColors[i%len(tileColors)]
}

// Page layout constants (A4 landscape in mm).
const (
	pageWidth    = 297.0
	pageHeight   = 210.0
	marginLeft   = 15.0
	marginRight  = 15.0
	marginTop    = 15.0
	marginBottom = 15.0
	headerHeight = 12.0
	legendHeight = 20.0
	drawAreaTop  = marginTop + headerHeight + 5.0
)

// ExportPDF generates a PDF document with the atlas layout diagram on the
// first page, followed by a summary page with statistics and settings.
func ExportPDF(path string, result model.AtlasResult, settings model.PackSettings) error {
	if len(result.Placements) == 0 {
		return ErrEmptyResult
	}

	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, marginBottom)

	pdf.AddPage()
	renderLayoutPage(pdf, result)

	pdf.AddPage()
	renderSummaryPage(pdf, result, settings)

	if err := pdf.OutputFileAndClose(path); err != nil {
		return fmt.Errorf("write pdf %s: %w", path, err)
	}
	return nil
}

// renderLayoutPage draws the atlas on the current PDF page.
func renderLayoutPage(pdf *fpdf.Fpdf, result model.AtlasResult) {
	// Title
	pdf.SetFont("Helvetica", "B", 14)
	pdf.SetXY(marginLeft, marginTop)
	title := fmt.Sprintf("Atlas %d x %d", result.Width, result.Height)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, headerHeight, title, "", 0, "L", false, 0, "")

	// Stats line
	pdf.SetFont("Helvetica", "", 10)
	pdf.SetXY(marginLeft, marginTop+headerHeight)
	stats := fmt.Sprintf("Tiles: %d | Used area: %d | Total area: %d | Efficiency: %.1f%%",
		len(result.Placements), result.UsedArea(), result.TotalArea(), result.Efficiency())
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 5, stats, "", 0, "L", false, 0, "")

	drawWidth := pageWidth - marginLeft - marginRight
	drawHeight := pageHeight - drawAreaTop - marginBottom - legendHeight

	// Scale the atlas to fit the drawing area
	scale := math.Min(drawWidth/float64(result.Width), drawHeight/float64(result.Height))
	canvasW := float64(result.Width) * scale
	canvasH := float64(result.Height) * scale

	offsetX := marginLeft + (drawWidth-canvasW)/2
	offsetY := drawAreaTop

	// Atlas background
	pdf.SetFillColor(240, 240, 240)
	pdf.SetDrawColor(100, 100, 100)
	pdf.SetLineWidth(0.5)
	pdf.Rect(offsetX, offsetY, canvasW, canvasH, "FD")

	// Unused regions are hatched
	for _, fr := range result.FreeRegions {
		drawHatchPattern(pdf,
			offsetX+float64(fr.X)*scale, offsetY+float64(fr.Y)*scale,
			float64(fr.Width)*scale, float64(fr.Height)*scale)
	}

	for i, p := range result.Placements {
		col := colorFor(i)
		pw := float64(p.Tile.Width) * scale
		ph := float64(p.Tile.Height) * scale
		px := offsetX + float64(p.X)*scale
		py := offsetY + float64(p.Y)*scale

		pdf.SetFillColor(col.R, col.G, col.B)
		pdf.SetDrawColor(30, 30, 30)
		pdf.SetLineWidth(0.3)
		pdf.Rect(px, py, pw, ph, "FD")

		// Label only if the rectangle is large enough
		if pw > 15 && ph > 8 {
			pdf.SetFont("Helvetica", "", labelFontSize(pw, ph))
			pdf.SetTextColor(0, 0, 0)

			label := p.Tile.Label
			dims := p.Tile.Size().String()
			labelW := pdf.GetStringWidth(label)
			dimsW := pdf.GetStringWidth(dims)

			if labelW < pw-2 {
				pdf.SetXY(px+(pw-labelW)/2, py+ph/2-4)
				pdf.CellFormat(labelW, 4, label, "", 0, "C", false, 0, "")
			}
			if ph > 14 && dimsW < pw-2 {
				pdf.SetXY(px+(pw-dimsW)/2, py+ph/2)
				pdf.CellFormat(dimsW, 4, dims, "", 0, "C", false, 0, "")
			}
		}
	}

	drawDimensionAnnotations(pdf, result, offsetX, offsetY, canvasW, canvasH)
	drawTilesLegend(pdf, result, offsetY+canvasH+5)
}

// drawHatchPattern draws diagonal lines inside a rectangle to mark unused space.
func drawHatchPattern(pdf *fpdf.Fpdf, x, y, w, h float64) {
	pdf.SetDrawColor(190, 190, 190)
	pdf.SetLineWidth(0.15)

	spacing := 3.0
	for d := spacing; d < w+h; d += spacing {
		x1 := x + math.Max(0, d-h)
		y1 := y + math.Min(h, d)
		x2 := x + math.Min(w, d)
		y2 := y + math.Max(0, d-w)
		pdf.Line(x1, y1, x2, y2)
	}
}

// drawDimensionAnnotations adds width and height labels outside the atlas rectangle.
func drawDimensionAnnotations(pdf *fpdf.Fpdf, result model.AtlasResult, offsetX, offsetY, canvasW, canvasH float64) {
	pdf.SetFont("Helvetica", "", 8)
	pdf.SetTextColor(80, 80, 80)

	widthLabel := fmt.Sprintf("%d px", result.Width)
	wLabelW := pdf.GetStringWidth(widthLabel)
	pdf.SetXY(offsetX+(canvasW-wLabelW)/2, offsetY+canvasH+1)
	pdf.CellFormat(wLabelW, 4, widthLabel, "", 0, "C", false, 0, "")

	// Height label rotated along the left edge
	heightLabel := fmt.Sprintf("%d px", result.Height)
	pdf.TransformBegin()
	pdf.TransformRotate(90, offsetX-3, offsetY+canvasH/2)
	hLabelW := pdf.GetStringWidth(heightLabel)
	pdf.SetXY(offsetX-3-hLabelW/2, offsetY+canvasH/2-2)
	pdf.CellFormat(hLabelW, 4, heightLabel, "", 0, "C", false, 0, "")
	pdf.TransformEnd()

	pdf.SetTextColor(0, 0, 0)
}

// drawTilesLegend renders a compact legend of placed tiles below the atlas.
func drawTilesLegend(pdf *fpdf.Fpdf, result model.AtlasResult, startY float64) {
	pdf.SetFont("Helvetica", "B", 8)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetXY(marginLeft, startY)
	pdf.CellFormat(30, 4, "Tiles placed:", "", 0, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 7)
	xPos := marginLeft + 32
	maxX := pageWidth - marginRight

	for i, p := range result.Placements {
		if startY > pageHeight-marginBottom {
			break
		}
		col := colorFor(i)
		label := fmt.Sprintf("%s (%s)", p.Tile.Label, p.Tile.Size())
		labelW := pdf.GetStringWidth(label) + 6

		if xPos+labelW > maxX {
			startY += 5
			xPos = marginLeft
		}

		pdf.SetFillColor(col.R, col.G, col.B)
		pdf.Rect(xPos, startY+0.5, 3, 3, "F")
		pdf.SetXY(xPos+4, startY)
		pdf.CellFormat(labelW-4, 4, label, "", 0, "L", false, 0, "")

		xPos += labelW + 2
	}
}

// tileGroup aggregates placements sharing a label and size.
type tileGroup struct {
	label string
	size  model.Size
	count int
}

// groupPlacements counts placements by label and size, in first-seen order.
func groupPlacements(result model.AtlasResult) []tileGroup {
	type key struct {
		label string
		size  model.Size
	}
	var groups []tileGroup
	index := map[key]int{}
	for _, p := range result.Placements {
		k := key{label: p.Tile.Label, size: p.Tile.Size()}
		if i, ok := index[k]; ok {
			groups[i].count++
			continue
		}
		index[k] = len(groups)
		groups = append(groups, tileGroup{label: k.label, size: k.size, count: 1})
	}
	return groups
}

// renderSummaryPage draws the summary page with statistics and settings.
func renderSummaryPage(pdf *fpdf.Fpdf, result model.AtlasResult, settings model.PackSettings) {
	pdf.SetFont("Helvetica", "B", 16)
	pdf.SetXY(marginLeft, marginTop)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 10, "Atlas Packing Summary", "", 0, "L", false, 0, "")

	pdf.SetDrawColor(0, 0, 0)
	pdf.SetLineWidth(0.5)
	pdf.Line(marginLeft, marginTop+12, pageWidth-marginRight, marginTop+12)

	y := marginTop + 18

	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetXY(marginLeft, y)
	pdf.CellFormat(100, 7, "Overall Statistics", "", 0, "L", false, 0, "")
	y += 9

	free := model.UsableRegions(result, model.MinRegionDimension)
	summaryItems := []struct {
		label string
		value string
	}{
		{"Atlas Size", fmt.Sprintf("%d x %d", result.Width, result.Height)},
		{"Tiles Placed", fmt.Sprintf("%d", len(result.Placements))},
		{"Efficiency", fmt.Sprintf("%.1f%%", result.Efficiency())},
		{"Wasted Area", fmt.Sprintf("%d", result.TotalArea()-result.UsedArea())},
		{"Reusable Regions", fmt.Sprintf("%d (%d area)", len(free), model.TotalRegionArea(free))},
		{"Padding", fmt.Sprintf("%d px", settings.Padding)},
		{"Power of Two", fmt.Sprintf("%t", settings.PowerOfTwo)},
	}

	pdf.SetFont("Helvetica", "", 10)
	for _, item := range summaryItems {
		pdf.SetXY(marginLeft+5, y)
		pdf.CellFormat(60, 6, item.label+":", "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(40, 6, item.value, "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		y += 7
	}

	y += 5
	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetXY(marginLeft, y)
	pdf.CellFormat(100, 7, "Tile Breakdown", "", 0, "L", false, 0, "")
	y += 9

	colWidths := []float64{90, 50, 30, 50}
	headers := []string{"Tile", "Size", "Count", "Area"}

	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(230, 230, 230)
	xPos := marginLeft
	for i, header := range headers {
		pdf.SetXY(xPos, y)
		pdf.CellFormat(colWidths[i], 6, header, "1", 0, "C", true, 0, "")
		xPos += colWidths[i]
	}
	y += 6

	pdf.SetFont("Helvetica", "", 9)
	for i, g := range groupPlacements(result) {
		if y > pageHeight-marginBottom-6 {
			pdf.AddPage()
			y = marginTop
		}
		rowData := []string{
			g.label,
			g.size.String(),
			fmt.Sprintf("%d", g.count),
			fmt.Sprintf("%d", g.size.Area()*g.count),
		}

		// Alternate row background
		if i%2 == 0 {
			pdf.SetFillColor(245, 245, 245)
		} else {
			pdf.SetFillColor(255, 255, 255)
		}

		xPos = marginLeft
		for j, cell := range rowData {
			pdf.SetXY(xPos, y)
			pdf.CellFormat(colWidths[j], 6, cell, "1", 0, "C", true, 0, "")
			xPos += colWidths[j]
		}
		y += 6
	}

	// Footer
	pdf.SetFont("Helvetica", "I", 8)
	pdf.SetTextColor(120, 120, 120)
	pdf.SetXY(marginLeft, pageHeight-marginBottom)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 4, "Generated by TilePack", "", 0, "C", false, 0, "")
	pdf.SetTextColor(0, 0, 0)
}

// labelFontSize returns an appropriate font size based on the rectangle dimensions.
func labelFontSize(w, h float64) float64 {
	minDim := math.Min(w, h)
	switch {
	case minDim > 40:
		return 8
	case minDim > 20:
		return 7
	default:
		return 6
	}
}
