package export

import (
	"fmt"
	"image"
	"image/color"
	_ "image/gif"  // register GIF decoder
	_ "image/jpeg" // register JPEG decoder
	"image/png"
	"os"

	_ "golang.org/x/image/bmp" // register BMP decoder
	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff" // register TIFF decoder
	_ "golang.org/x/image/webp" // register WebP decoder

	"github.com/piwi3910/TilePack/internal/model"
)

// ComposeAtlas draws every placement into a single RGBA image. Tiles with a
// source image get that image, scaled if its size differs from the tile;
// tiles without one are filled with their palette color. Unused space is
// left transparent.
func ComposeAtlas(result model.AtlasResult) (*image.RGBA, error) {
	dst := image.NewRGBA(image.Rect(0, 0, result.Width, result.Height))
	decoded := map[string]image.Image{}

	for i, p := range result.Placements {
		r := p.Rect()
		dr := image.Rect(r.X, r.Y, r.Right(), r.Bottom())

		if p.Tile.Source == "" {
			c := colorFor(i)
			fill := image.NewUniform(color.RGBA{R: uint8(c.R), G: uint8(c.G), B: uint8(c.B), A: 255})
			draw.Draw(dst, dr, fill, image.Point{}, draw.Src)
			continue
		}

		src, ok := decoded[p.Tile.Source]
		if !ok {
			img, err := decodeImage(p.Tile.Source)
			if err != nil {
				return nil, fmt.Errorf("tile %q: %w", p.Tile.Label, err)
			}
			decoded[p.Tile.Source] = img
			src = img
		}

		sb := src.Bounds()
		if sb.Dx() == dr.Dx() && sb.Dy() == dr.Dy() {
			draw.Copy(dst, dr.Min, src, sb, draw.Src, nil)
		} else {
			draw.BiLinear.Scale(dst, dr, src, sb, draw.Src, nil)
		}
	}
	return dst, nil
}

// ExportPNG composes the atlas and writes it as a PNG file.
func ExportPNG(path string, result model.AtlasResult) error {
	if len(result.Placements) == 0 {
		return ErrEmptyResult
	}

	img, err := ComposeAtlas(result)
	if err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encode png: %w", err)
	}
	return f.Close()
}

func decodeImage(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open image: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return img, nil
}
