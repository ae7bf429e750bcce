package project

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/piwi3910/TilePack/internal/model"
)

// SaveProject writes a project to a JSON file, creating parent directories.
func SaveProject(path string, p model.Project) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create project directory: %w", err)
	}
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal project: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

// LoadProject reads a project from a JSON file.
func LoadProject(path string) (model.Project, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return model.Project{}, err
	}
	var p model.Project
	if err := json.Unmarshal(data, &p); err != nil {
		return model.Project{}, fmt.Errorf("parse project %s: %w", path, err)
	}
	if p.Tiles == nil {
		p.Tiles = []model.Tile{}
	}
	return p, nil
}

// IsProjectFile reports whether path holds a saved project rather than a
// plain tile list or manifest.
func IsProjectFile(path string) bool {
	if filepath.Ext(path) != ".json" {
		return false
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return false
	}
	var probe struct {
		Tiles    json.RawMessage `json:"tiles"`
		Settings json.RawMessage `json:"settings"`
	}
	return json.Unmarshal(data, &probe) == nil && probe.Tiles != nil && probe.Settings != nil
}
