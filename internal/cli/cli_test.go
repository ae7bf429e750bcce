package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piwi3910/TilePack/internal/export"
	"github.com/piwi3910/TilePack/internal/model"
	"github.com/piwi3910/TilePack/internal/project"
)

// newTestCLI returns a CLI whose config, profiles and cache live in a temp dir.
func newTestCLI(t *testing.T) (*CLI, string) {
	t.Helper()
	dir := t.TempDir()
	c := New(io.Discard, log.InfoLevel)
	c.configPath = filepath.Join(dir, "config.toml")
	c.profilesPath = filepath.Join(dir, "profiles.json")
	c.cacheDir = filepath.Join(dir, "cache")
	return c, dir
}

// run executes args and returns what the command printed.
func run(t *testing.T, c *CLI, args ...string) (string, error) {
	t.Helper()
	root := c.RootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func writeTiles(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "tiles.csv")
	data := "Label,Width,Height,Quantity\nHero,10,10,1\nCoin,5,5,1\n"
	require.NoError(t, os.WriteFile(path, []byte(data), 0644))
	return path
}

func TestPack_WorkedExample(t *testing.T) {
	c, dir := newTestCLI(t)
	input := writeTiles(t, dir)
	out := filepath.Join(dir, "atlas.json")

	stdout, err := run(t, c, "pack", input, "-o", out)
	require.NoError(t, err)
	assert.Contains(t, stdout, "Packed 2 tiles")
	assert.Contains(t, stdout, "10x15")

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	var m export.Manifest
	require.NoError(t, json.Unmarshal(data, &m))
	assert.Equal(t, 10, m.Width)
	assert.Equal(t, 15, m.Height)
	require.Len(t, m.Tiles, 2)
	assert.Equal(t, 0, m.Tiles[1].X)
	assert.Equal(t, 10, m.Tiles[1].Y)
}

func TestPack_SecondRunHitsCache(t *testing.T) {
	c, dir := newTestCLI(t)
	input := writeTiles(t, dir)

	first, err := run(t, c, "pack", input)
	require.NoError(t, err)
	assert.Contains(t, first, iconFresh)

	second, err := run(t, c, "pack", input)
	require.NoError(t, err)
	assert.Contains(t, second, iconCached)

	third, err := run(t, c, "pack", input, "--no-cache")
	require.NoError(t, err)
	assert.Contains(t, third, iconFresh)
}

func TestPack_FlagsOverrideProfile(t *testing.T) {
	c, dir := newTestCLI(t)
	input := writeTiles(t, dir)

	stdout, err := run(t, c, "pack", input, "--profile", "gpu", "--padding", "0", "--no-cache")
	require.NoError(t, err)
	// Power of two from the profile, padding from the flag: 10x15 rounds to 16x16
	assert.Contains(t, stdout, "16x16")
	assert.NotContains(t, stdout, "Padding")
}

func TestPack_UnknownProfile(t *testing.T) {
	c, dir := newTestCLI(t)
	_, err := run(t, c, "pack", writeTiles(t, dir), "--profile", "nope")
	assert.ErrorIs(t, err, project.ErrProfileNotFound)
}

func TestPack_NoTiles(t *testing.T) {
	c, dir := newTestCLI(t)
	empty := filepath.Join(dir, "empty.csv")
	require.NoError(t, os.WriteFile(empty, []byte("Label,Width,Height\n"), 0644))

	_, err := run(t, c, "pack", empty)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no tiles found")
}

func TestPack_SaveAndReloadProject(t *testing.T) {
	c, dir := newTestCLI(t)
	input := writeTiles(t, dir)
	saved := filepath.Join(dir, "sprites.json")

	_, err := run(t, c, "pack", input, "--padding", "2", "--save", saved)
	require.NoError(t, err)

	p, err := project.LoadProject(saved)
	require.NoError(t, err)
	assert.Equal(t, "sprites", p.Name)
	assert.Equal(t, 2, p.Settings.Padding)
	require.NotNil(t, p.Result)
	assert.Len(t, p.Result.Placements, 2)

	cfg, err := project.LoadConfig(c.configPath)
	require.NoError(t, err)
	require.NotEmpty(t, cfg.RecentProjects)
	assert.Equal(t, "sprites.json", filepath.Base(cfg.RecentProjects[0]))

	// The project carries its own padding
	stdout, err := run(t, c, "pack", saved, "--no-cache")
	require.NoError(t, err)
	assert.Contains(t, stdout, "2 px")
}

func TestPack_PreviewAndOutputDir(t *testing.T) {
	c, dir := newTestCLI(t)
	outDir := filepath.Join(dir, "out")
	require.NoError(t, os.MkdirAll(outDir, 0755))

	cfg := model.DefaultAppConfig()
	cfg.OutputDir = outDir
	require.NoError(t, project.SaveConfig(c.configPath, cfg))

	stdout, err := run(t, c, "pack", writeTiles(t, dir), "--preview", "-o", "atlas.txt", "-o", "atlas.yaml")
	require.NoError(t, err)
	assert.Contains(t, stdout, "**********")
	assert.FileExists(t, filepath.Join(outDir, "atlas.txt"))
	assert.FileExists(t, filepath.Join(outDir, "atlas.yaml"))
}

func TestPack_UnsupportedOutput(t *testing.T) {
	c, dir := newTestCLI(t)
	_, err := run(t, c, "pack", writeTiles(t, dir), "-o", filepath.Join(dir, "atlas.gif"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported output format")
}

func TestCompare(t *testing.T) {
	c, dir := newTestCLI(t)
	stdout, err := run(t, c, "compare", writeTiles(t, dir), "--padding", "1")
	require.NoError(t, err)
	for _, name := range []string{"Current Settings", "No Padding", "Padding 2px", "Power of Two"} {
		assert.Contains(t, stdout, name)
	}
}

func TestBench(t *testing.T) {
	c, _ := newTestCLI(t)
	stdout, err := run(t, c, "bench", "--runs", "2", "--count", "200", "--seed", "7")
	require.NoError(t, err)
	assert.Contains(t, stdout, "2 runs of 200 rectangles")
	assert.Contains(t, stdout, "seed 7")
}

func TestBench_InvalidRange(t *testing.T) {
	c, _ := newTestCLI(t)
	_, err := run(t, c, "bench", "--min", "10", "--max", "5")
	assert.Error(t, err)
}

func TestRunBench_Deterministic(t *testing.T) {
	c, _ := newTestCLI(t)
	cmd := c.benchCommand()
	opts := benchOptions{runs: 3, count: 300, min: 4, max: 40, seed: 42}

	a, err := runBench(cmd, opts)
	require.NoError(t, err)
	b, err := runBench(cmd, opts)
	require.NoError(t, err)

	assert.Equal(t, a.MeanEfficiency, b.MeanEfficiency)
	assert.Greater(t, a.MinEfficiency, 50.0)
}

func TestConfigInitShowPath(t *testing.T) {
	c, _ := newTestCLI(t)

	stdout, err := run(t, c, "config", "path")
	require.NoError(t, err)
	assert.Equal(t, c.configPath, strings.TrimSpace(stdout))

	_, err = run(t, c, "config", "init")
	require.NoError(t, err)
	assert.FileExists(t, c.configPath)

	stdout, err = run(t, c, "config", "init")
	require.NoError(t, err)
	assert.Contains(t, stdout, "already exists")

	stdout, err = run(t, c, "config", "show")
	require.NoError(t, err)
	assert.Contains(t, stdout, "cache_enabled = true")
}

func TestConfigExportImport(t *testing.T) {
	c, dir := newTestCLI(t)
	cfg := model.DefaultAppConfig()
	cfg.DefaultPadding = 6
	require.NoError(t, project.SaveConfig(c.configPath, cfg))
	require.NoError(t, project.SaveCustomProfiles(c.profilesPath, []project.Profile{{Name: "ui", Settings: model.PackSettings{Padding: 3}}}))

	backup := filepath.Join(dir, "backup.json")
	_, err := run(t, c, "config", "export", backup)
	require.NoError(t, err)

	require.NoError(t, os.Remove(c.configPath))
	require.NoError(t, os.Remove(c.profilesPath))

	_, err = run(t, c, "config", "import", backup)
	require.NoError(t, err)

	restored, err := project.LoadConfig(c.configPath)
	require.NoError(t, err)
	assert.Equal(t, 6, restored.DefaultPadding)

	profiles, err := project.LoadCustomProfiles(c.profilesPath)
	require.NoError(t, err)
	require.Len(t, profiles, 1)
	assert.Equal(t, "ui", profiles[0].Name)
}

func TestProfiles(t *testing.T) {
	c, dir := newTestCLI(t)

	stdout, err := run(t, c, "profiles", "list")
	require.NoError(t, err)
	assert.Contains(t, stdout, "gpu")
	assert.Contains(t, stdout, "built-in")

	shared := filepath.Join(dir, "shared.json")
	_, err = run(t, c, "profiles", "export", "bleed", shared)
	require.NoError(t, err)

	// Importing a built-in profile stores it as a custom override
	_, err = run(t, c, "profiles", "import", shared)
	require.NoError(t, err)

	custom, err := project.LoadCustomProfiles(c.profilesPath)
	require.NoError(t, err)
	require.Len(t, custom, 1)
	assert.Equal(t, 2, custom[0].Settings.Padding)
}

func TestCacheCommands(t *testing.T) {
	c, dir := newTestCLI(t)

	stdout, err := run(t, c, "cache", "path")
	require.NoError(t, err)
	assert.Equal(t, c.cacheDir, strings.TrimSpace(stdout))

	stdout, err = run(t, c, "cache", "clear")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Cache is empty")

	_, err = run(t, c, "pack", writeTiles(t, dir))
	require.NoError(t, err)

	stdout, err = run(t, c, "cache", "clear")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Cleared 1 cached layouts")
}

func TestCacheDirectory_XDG(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "/xdg")
	c := New(io.Discard, log.InfoLevel)

	dir, err := c.cacheDirectory()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/xdg", "tilepack"), dir)
}

func TestVerboseSetsDebugLevel(t *testing.T) {
	c, _ := newTestCLI(t)
	_, err := run(t, c, "-v", "config", "path")
	require.NoError(t, err)
	assert.Equal(t, log.DebugLevel, c.Logger.GetLevel())
}

func TestConfigLogLevel(t *testing.T) {
	c, _ := newTestCLI(t)
	cfg := model.DefaultAppConfig()
	cfg.LogLevel = "warn"
	require.NoError(t, project.SaveConfig(c.configPath, cfg))

	_, err := run(t, c, "config", "path")
	require.NoError(t, err)
	assert.Equal(t, log.WarnLevel, c.Logger.GetLevel())
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, log.DebugLevel, parseLevel("debug"))
	assert.Equal(t, log.ErrorLevel, parseLevel("error"))
	assert.Equal(t, log.InfoLevel, parseLevel("bogus"))
}
