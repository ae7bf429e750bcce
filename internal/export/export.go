package export

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/piwi3910/TilePack/internal/model"
)

// previewColumns bounds the width of text previews written to files.
const previewColumns = 120

// Formats lists the file extensions ExportFile understands.
var Formats = []string{".json", ".yaml", ".yml", ".pdf", ".dxf", ".xlsx", ".png", ".txt"}

// ExportFile writes result to path, choosing the format by file extension.
func ExportFile(path string, result model.AtlasResult, settings model.PackSettings) error {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".pdf":
		return ExportPDF(path, result, settings)
	case ".dxf":
		return ExportDXF(path, result)
	case ".xlsx":
		return ExportExcel(path, result)
	case ".png":
		return ExportPNG(path, result)
	case ".json", ".yaml", ".yml", ".txt":
		return writeFile(path, func(f *os.File) error {
			switch ext {
			case ".json":
				return ExportJSON(f, result)
			case ".txt":
				return RenderASCII(f, result, AutoScale(result, previewColumns))
			default:
				return ExportYAML(f, result)
			}
		})
	default:
		return fmt.Errorf("unsupported output format %q (want one of %s)", ext, strings.Join(Formats, ", "))
	}
}

// writeFile creates path and hands it to write, closing it afterwards.
func writeFile(path string, write func(*os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
