package cli

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/piwi3910/TilePack/internal/export"
	"github.com/piwi3910/TilePack/internal/model"
	"github.com/piwi3910/TilePack/internal/project"
)

// previewColumns caps the width of the terminal preview.
const previewColumns = 72

type packOptions struct {
	settingsFlags
	outputs []string
	labels  string
	save    string
	preview bool
	noCache bool
}

// packCommand creates the pack command.
func (c *CLI) packCommand() *cobra.Command {
	var opts packOptions

	cmd := &cobra.Command{
		Use:   "pack <input...>",
		Short: "Pack tiles into an atlas and export the layout",
		Long: `Pack tiles into a single atlas.

Inputs may be CSV/TSV, Excel or YAML tile lists, DXF drawings, image files,
directories of images, or a single saved project. Outputs are chosen by
extension: ` + strings.Join(export.Formats, ", ") + `.

Layouts are cached locally, so packing the same tiles with the same settings
again is instant.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runPack(cmd, args, opts)
		},
	}

	opts.register(cmd)
	cmd.Flags().StringArrayVarP(&opts.outputs, "output", "o", nil, "output file, repeatable (format by extension)")
	cmd.Flags().StringVar(&opts.labels, "labels", "", "write a PDF sheet of QR-coded tile labels")
	cmd.Flags().StringVar(&opts.save, "save", "", "save tiles, settings and layout as a project file")
	cmd.Flags().BoolVar(&opts.preview, "preview", false, "print a text preview of the atlas")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the layout cache")

	return cmd
}

func (c *CLI) runPack(cmd *cobra.Command, args []string, opts packOptions) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	w := cmd.OutOrStdout()

	cfg, err := project.LoadConfig(c.configPath)
	if err != nil {
		return err
	}

	tiles, proj, err := c.loadTiles(w, args)
	if err != nil {
		return err
	}

	settings, err := c.resolveSettings(cmd, opts.settingsFlags, cfg, proj)
	if err != nil {
		return err
	}

	est := model.EstimateBounds(tiles, settings.Padding)
	c.Logger.Debug("estimated bounds", "tiles", est.TileCount, "area", est.TotalArea, "square", est.SquareSide)

	prog := newProgress(c.Logger)
	result, cached, err := c.packTiles(ctx, tiles, settings, opts.noCache || !cfg.CacheEnabled)
	if err != nil {
		return fmt.Errorf("pack: %w", err)
	}
	prog.done("packed", "tiles", len(result.Placements), "cached", cached)

	printSummary(w, result, settings, est, cached)

	if opts.preview {
		var b strings.Builder
		if err := export.RenderASCII(&b, result, export.AutoScale(result, previewColumns)); err != nil {
			return err
		}
		printPreview(w, strings.TrimSuffix(b.String(), "\n"))
	}

	for _, out := range opts.outputs {
		path := outputPath(cfg, out)
		if err := export.ExportFile(path, result, settings); err != nil {
			return fmt.Errorf("export %s: %w", path, err)
		}
		printFile(w, path)
	}

	if opts.labels != "" {
		path := outputPath(cfg, opts.labels)
		if err := export.ExportLabels(path, result); err != nil {
			return fmt.Errorf("export labels: %w", err)
		}
		printFile(w, path)
	}

	if opts.save != "" {
		if err := c.saveProject(opts.save, tiles, settings, result, cfg); err != nil {
			return err
		}
		printFile(w, opts.save)
	}
	return nil
}

// saveProject writes the project and records it in the recent list.
func (c *CLI) saveProject(path string, tiles []model.Tile, settings model.PackSettings, result model.AtlasResult, cfg model.AppConfig) error {
	p := model.NewProject()
	p.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	p.Tiles = tiles
	p.Settings = settings
	p.Result = &result

	if err := project.SaveProject(path, p); err != nil {
		return fmt.Errorf("save project: %w", err)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	cfg.AddRecentProject(abs)
	if err := project.SaveConfig(c.configPath, cfg); err != nil {
		c.Logger.Warn("update recent projects", "err", err)
	}
	return nil
}

// outputPath places relative outputs under the configured output directory.
func outputPath(cfg model.AppConfig, path string) string {
	if cfg.OutputDir == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(cfg.OutputDir, path)
}

// printSummary prints the atlas size and usage next to the ideal square.
func printSummary(w io.Writer, result model.AtlasResult, settings model.PackSettings, est model.BoundsEstimate, cached bool) {
	printSuccess(w, "Packed %d tiles", len(result.Placements))
	printKeyValue(w, "Atlas", result.Bounds().String())
	printKeyValue(w, "Ideal", fmt.Sprintf("%dx%d", est.SquareSide, est.SquareSide))
	printKeyValue(w, "Efficiency", fmt.Sprintf("%.1f%%", result.Efficiency()))
	printKeyValue(w, "Wasted", fmt.Sprintf("%d px", result.TotalArea()-result.UsedArea()))
	if settings.Padding > 0 {
		printKeyValue(w, "Padding", fmt.Sprintf("%d px", settings.Padding))
	}
	if settings.PowerOfTwo {
		printKeyValue(w, "Size", "power of two")
	}
	printCacheStatus(w, cached)
}
