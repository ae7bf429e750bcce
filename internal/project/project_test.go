package project

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piwi3910/TilePack/internal/model"
)

func TestSaveAndLoadProject(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "sprites.json")

	p := model.NewProject()
	p.Name = "Sprites"
	p.Tiles = append(p.Tiles, model.NewTile("Hero", 32, 48, 2))
	p.Settings.Padding = 1
	p.Result = &model.AtlasResult{
		Width:      33,
		Height:     98,
		Placements: []model.Placement{{Tile: p.Tiles[0], X: 0, Y: 0}},
	}

	require.NoError(t, SaveProject(path, p))

	loaded, err := LoadProject(path)
	require.NoError(t, err)
	assert.Equal(t, p, loaded)
}

func TestLoadProject_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := LoadProject(filepath.Join(dir, "missing.json"))
	assert.True(t, os.IsNotExist(err))

	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte("{nope"), 0644))
	_, err = LoadProject(bad)
	assert.Error(t, err)
}

func TestLoadProject_NilTiles(t *testing.T) {
	path := filepath.Join(t.TempDir(), "p.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"name":"x","settings":{"padding":0}}`), 0644))

	p, err := LoadProject(path)
	require.NoError(t, err)
	assert.NotNil(t, p.Tiles)
}

func TestIsProjectFile(t *testing.T) {
	dir := t.TempDir()

	proj := filepath.Join(dir, "project.json")
	require.NoError(t, SaveProject(proj, model.NewProject()))
	assert.True(t, IsProjectFile(proj))

	manifest := filepath.Join(dir, "atlas.json")
	require.NoError(t, os.WriteFile(manifest, []byte(`{"width":1,"height":1,"tiles":[]}`), 0644))
	assert.False(t, IsProjectFile(manifest))

	csv := filepath.Join(dir, "tiles.csv")
	require.NoError(t, os.WriteFile(csv, []byte("w,h\n1,1\n"), 0644))
	assert.False(t, IsProjectFile(csv))
}
