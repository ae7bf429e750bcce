package importer

import (
	"fmt"
	"image"
	_ "image/gif"  // register GIF decoder
	_ "image/jpeg" // register JPEG decoder
	_ "image/png"  // register PNG decoder
	"os"
	"path/filepath"
	"sort"
	"strings"

	_ "golang.org/x/image/bmp"  // register BMP decoder
	_ "golang.org/x/image/tiff" // register TIFF decoder
	_ "golang.org/x/image/webp" // register WebP decoder

	"github.com/piwi3910/TilePack/internal/model"
)

// imageExts lists the extensions ImportImages picks up when scanning directories.
var imageExts = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
	".bmp":  true,
	".tif":  true,
	".tiff": true,
	".webp": true,
}

// IsImageFile reports whether path has a supported image extension.
func IsImageFile(path string) bool {
	return imageExts[strings.ToLower(filepath.Ext(path))]
}

// ImportImages creates one tile per image, sized to the image dimensions.
// Directories are scanned one level deep for supported image files, in name
// order. The tile label is the file name without extension.
func ImportImages(paths ...string) ImportResult {
	result := ImportResult{}

	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("Cannot open %s: %v", p, err))
			continue
		}
		if !info.IsDir() {
			addImageTile(&result, p)
			continue
		}

		entries, err := os.ReadDir(p)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("Cannot read directory %s: %v", p, err))
			continue
		}
		var files []string
		for _, e := range entries {
			if !e.IsDir() && IsImageFile(e.Name()) {
				files = append(files, filepath.Join(p, e.Name()))
			}
		}
		sort.Strings(files)
		if len(files) == 0 {
			result.Warnings = append(result.Warnings, fmt.Sprintf("No images found in %s", p))
		}
		for _, f := range files {
			addImageTile(&result, f)
		}
	}

	return result
}

// addImageTile decodes only the image header of path and appends a tile for it.
func addImageTile(result *ImportResult, path string) {
	f, err := os.Open(path)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot open %s: %v", path, err))
		return
	}
	defer f.Close()

	cfg, format, err := image.DecodeConfig(f)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot decode %s: %v", path, err))
		return
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		result.Warnings = append(result.Warnings, fmt.Sprintf("Skipped empty %s image %s", format, path))
		return
	}

	base := filepath.Base(path)
	label := normalizeLabel(strings.TrimSuffix(base, filepath.Ext(base)))
	tile := model.NewTile(label, cfg.Width, cfg.Height, 1)
	tile.Source = path
	result.Tiles = append(result.Tiles, tile)
}
