// Package cli implements the tilepack command-line interface.
//
// Commands read tile lists (CSV, Excel, YAML, DXF, images or saved projects),
// pack them into a single atlas and export the layout. All commands support
// --verbose (-v) for debug-level logging.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/piwi3910/TilePack/internal/cache"
	"github.com/piwi3910/TilePack/internal/engine"
	"github.com/piwi3910/TilePack/internal/importer"
	"github.com/piwi3910/TilePack/internal/model"
	"github.com/piwi3910/TilePack/internal/project"
)

// appName is used for the cache directory.
const appName = "tilepack"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configPath   string
	profilesPath string
	cacheDir     string // empty = XDG cache directory
	verbose      bool
}

// New creates a CLI whose logger writes to w at level.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger:       newLogger(w, level),
		configPath:   project.DefaultConfigPath(),
		profilesPath: project.DefaultProfilesPath(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "tilepack",
		Short: "TilePack packs sprites and rectangles into a single atlas",
		Long: `TilePack packs rectangles, such as sprites or UI images, into one compact
atlas. Tiles are placed largest first into the best fitting free space, and
the atlas grows right or down, whichever keeps it closer to a square.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := project.LoadConfig(c.configPath)
			if err != nil {
				return err
			}
			level := parseLevel(cfg.LogLevel)
			if c.verbose {
				level = LogDebug
			}
			c.SetLogLevel(level)
			return nil
		},
	}

	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVar(&c.configPath, "config", c.configPath, "config file")

	root.AddCommand(c.packCommand())
	root.AddCommand(c.compareCommand())
	root.AddCommand(c.benchCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.profilesCommand())
	root.AddCommand(c.cacheCommand())

	return root
}

// Execute runs the root command with ctx.
func (c *CLI) Execute(ctx context.Context, args []string) error {
	root := c.RootCommand()
	root.SetArgs(args)
	return root.ExecuteContext(ctx)
}

// cacheDirectory returns the layout cache directory using the XDG standard
// (~/.cache/tilepack/).
func (c *CLI) cacheDirectory() (string, error) {
	if c.cacheDir != "" {
		return c.cacheDir, nil
	}
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// newCache opens the layout cache, falling back to a null cache when
// caching is disabled or the directory is unavailable.
func (c *CLI) newCache(disabled bool) cache.Cache {
	if disabled {
		return cache.NewNullCache()
	}
	dir, err := c.cacheDirectory()
	if err != nil {
		return cache.NewNullCache()
	}
	fc, err := cache.NewFileCache(dir)
	if err != nil {
		c.Logger.Warn("layout cache unavailable", "dir", dir, "err", err)
		return cache.NewNullCache()
	}
	return fc
}

// settingsFlags are the packing flags shared by pack and compare.
type settingsFlags struct {
	padding    int
	powerOfTwo bool
	profile    string
}

func (f *settingsFlags) register(cmd *cobra.Command) {
	cmd.Flags().IntVar(&f.padding, "padding", 0, "gap in pixels kept right of and below every tile")
	cmd.Flags().BoolVar(&f.powerOfTwo, "pot", false, "round the atlas size up to powers of two")
	cmd.Flags().StringVar(&f.profile, "profile", "", "start from a named settings profile")
}

// resolveSettings layers the settings: defaults, then config, then a saved project,
// then the named profile, then explicit flags.
func (c *CLI) resolveSettings(cmd *cobra.Command, f settingsFlags, cfg model.AppConfig, proj *model.Project) (model.PackSettings, error) {
	settings := model.DefaultSettings()
	cfg.ApplyToSettings(&settings)

	if proj != nil {
		settings = proj.Settings
	}

	if f.profile != "" {
		profiles, err := project.AllProfiles(c.profilesPath)
		if err != nil {
			return model.PackSettings{}, err
		}
		p, err := project.FindProfile(profiles, f.profile)
		if err != nil {
			return model.PackSettings{}, err
		}
		settings = p.Settings
	}

	if cmd.Flags().Changed("padding") {
		settings.Padding = f.padding
	}
	if cmd.Flags().Changed("pot") {
		settings.PowerOfTwo = f.powerOfTwo
	}
	return settings, nil
}

// loadTiles reads tiles from the inputs. A single saved project is loaded
// whole and returned as well.
func (c *CLI) loadTiles(w io.Writer, inputs []string) ([]model.Tile, *model.Project, error) {
	if len(inputs) == 1 && project.IsProjectFile(inputs[0]) {
		p, err := project.LoadProject(inputs[0])
		if err != nil {
			return nil, nil, err
		}
		c.Logger.Debug("loaded project", "name", p.Name, "tiles", len(p.Tiles))
		return p.Tiles, &p, nil
	}

	res := importer.ImportFiles(inputs...)
	for _, msg := range res.Warnings {
		printWarning(w, "%s", msg)
	}
	for _, msg := range res.Errors {
		printError(w, "%s", msg)
	}
	if len(res.Tiles) == 0 {
		return nil, nil, fmt.Errorf("no tiles found in %d input(s)", len(inputs))
	}
	c.Logger.Debug("imported tiles", "tiles", len(res.Tiles), "errors", len(res.Errors), "warnings", len(res.Warnings))
	return res.Tiles, nil, nil
}

// packTiles returns the layout for tiles, reusing a cached layout for the
// same tiles and settings when one exists.
func (c *CLI) packTiles(ctx context.Context, tiles []model.Tile, settings model.PackSettings, noCache bool) (model.AtlasResult, bool, error) {
	if err := ctx.Err(); err != nil {
		return model.AtlasResult{}, false, err
	}

	key, err := cache.LayoutKey(tiles, settings)
	if err != nil {
		c.Logger.Warn("layout cache key", "err", err)
		noCache = true
	}

	lc := c.newCache(noCache)
	defer lc.Close()

	if layout, hit, err := cache.GetLayout(ctx, lc, key); err != nil {
		c.Logger.Warn("read layout cache", "err", err)
	} else if hit {
		result, err := layout.Apply(tiles)
		if err == nil {
			c.Logger.Debug("layout cache hit", "key", key[:16])
			return result, true, nil
		}
		c.Logger.Warn("discarding cached layout", "err", err)
	}

	result, err := engine.New(settings, c.Logger).Optimize(tiles)
	if err != nil {
		return model.AtlasResult{}, false, err
	}
	if err := cache.PutLayout(ctx, lc, key, result); err != nil {
		c.Logger.Warn("write layout cache", "err", err)
	}
	return result, false, nil
}
