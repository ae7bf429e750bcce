package model

// maxRecentProjects caps the recent project list kept in AppConfig.
const maxRecentProjects = 10

// AppConfig holds application-wide preferences and default settings.
type AppConfig struct {
	// Default packing settings applied to new projects
	DefaultPadding    int  `toml:"default_padding" json:"default_padding"`
	DefaultPowerOfTwo bool `toml:"default_power_of_two" json:"default_power_of_two"`

	// Application preferences
	OutputDir      string   `toml:"output_dir" json:"output_dir"` // empty = current directory
	CacheEnabled   bool     `toml:"cache_enabled" json:"cache_enabled"`
	LogLevel       string   `toml:"log_level" json:"log_level"` // "debug", "info", "warn", "error"
	RecentProjects []string `toml:"recent_projects" json:"recent_projects"`
}

// DefaultAppConfig returns an AppConfig populated with sensible defaults
// matching the values from DefaultSettings().
func DefaultAppConfig() AppConfig {
	defaults := DefaultSettings()
	return AppConfig{
		DefaultPadding:    defaults.Padding,
		DefaultPowerOfTwo: defaults.PowerOfTwo,
		OutputDir:         "",
		CacheEnabled:      true,
		LogLevel:          "info",
		RecentProjects:    []string{},
	}
}

// ApplyToSettings copies the default values from AppConfig into a PackSettings struct.
func (c AppConfig) ApplyToSettings(s *PackSettings) {
	s.Padding = c.DefaultPadding
	s.PowerOfTwo = c.DefaultPowerOfTwo
}

// AddRecentProject moves path to the front of the recent list, dropping
// duplicates and trimming the list to its maximum length.
func (c *AppConfig) AddRecentProject(path string) {
	recent := []string{path}
	for _, p := range c.RecentProjects {
		if p != path {
			recent = append(recent, p)
		}
	}
	if len(recent) > maxRecentProjects {
		recent = recent[:maxRecentProjects]
	}
	c.RecentProjects = recent
}
