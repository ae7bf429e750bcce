package project

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/piwi3910/TilePack/internal/model"
)

// Profile is a named set of packing settings, such as the layout rules of a
// particular game engine.
type Profile struct {
	Name        string             `json:"name"`
	Description string             `json:"description,omitempty"`
	IsBuiltIn   bool               `json:"-"`
	Settings    model.PackSettings `json:"settings"`
}

// ErrProfileNotFound is returned by FindProfile for unknown names.
var ErrProfileNotFound = errors.New("profile not found")

// BuiltInProfiles returns the profiles shipped with TilePack.
func BuiltInProfiles() []Profile {
	return []Profile{
		{
			Name:        "default",
			Description: "Tight packing, exact atlas size",
			IsBuiltIn:   true,
			Settings:    model.DefaultSettings(),
		},
		{
			Name:        "bleed",
			Description: "2px gutter against texture filtering bleed",
			IsBuiltIn:   true,
			Settings:    model.PackSettings{Padding: 2},
		},
		{
			Name:        "gpu",
			Description: "Power-of-two atlas with a 1px gutter",
			IsBuiltIn:   true,
			Settings:    model.PackSettings{Padding: 1, PowerOfTwo: true},
		},
	}
}

// DefaultProfilesPath returns the default file path for custom profiles.
func DefaultProfilesPath() string {
	return filepath.Join(DefaultConfigDir(), "profiles.json")
}

// SaveCustomProfiles saves custom profiles to a JSON file.
func SaveCustomProfiles(path string, profiles []Profile) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(profiles, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// LoadCustomProfiles loads custom profiles from a JSON file.
// Returns an empty slice if the file does not exist.
func LoadCustomProfiles(path string) ([]Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []Profile{}, nil
		}
		return nil, err
	}

	var profiles []Profile
	if err := json.Unmarshal(data, &profiles); err != nil {
		return nil, fmt.Errorf("parse profiles %s: %w", path, err)
	}
	return profiles, nil
}

// AllProfiles returns the built-in profiles followed by the custom profiles
// stored at path. A custom profile with a built-in name replaces it.
func AllProfiles(path string) ([]Profile, error) {
	custom, err := LoadCustomProfiles(path)
	if err != nil {
		return nil, err
	}

	all := BuiltInProfiles()
	for _, c := range custom {
		replaced := false
		for i := range all {
			if strings.EqualFold(all[i].Name, c.Name) {
				all[i] = c
				replaced = true
				break
			}
		}
		if !replaced {
			all = append(all, c)
		}
	}
	return all, nil
}

// FindProfile looks a profile up by name, ignoring case.
func FindProfile(profiles []Profile, name string) (Profile, error) {
	for _, p := range profiles {
		if strings.EqualFold(p.Name, name) {
			return p, nil
		}
	}
	return Profile{}, fmt.Errorf("%q: %w", name, ErrProfileNotFound)
}

// ExportProfile exports a single profile to a JSON file (for sharing).
func ExportProfile(path string, profile Profile) error {
	data, err := json.MarshalIndent(profile, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ImportProfile imports a single profile from a JSON file.
func ImportProfile(path string) (Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Profile{}, err
	}

	var profile Profile
	if err := json.Unmarshal(data, &profile); err != nil {
		return Profile{}, err
	}

	if profile.Name == "" {
		return Profile{}, errors.New("imported profile has no name")
	}
	if profile.Settings.Padding < 0 {
		return Profile{}, fmt.Errorf("imported profile %q has negative padding", profile.Name)
	}
	return profile, nil
}
