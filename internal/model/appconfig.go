package model

// AppConfig holds application-wide preferences and default settings.
type AppConfig struct {
	// Defaults applied to new jobs
	DefaultCapacity  float64   `json:"default_capacity"`
	DefaultAlgorithm Algorithm `json:"default_algorithm"`
	DefaultEpsilon   float64   `json:"default_epsilon"`
	DefaultMaxRounds int       `json:"default_max_rounds"` // 0 = derived from order count
	DefaultNodeLimit int       `json:"default_node_limit"`

	// Purchasing
	WastePercent float64 `json:"waste_percent"`
	PricePerRoll float64 `json:"price_per_roll"`

	// Application preferences
	OutputDir  string   `json:"output_dir"`
	RecentJobs []string `json:"recent_jobs"`
}

// DefaultAppConfig returns an AppConfig populated with sensible defaults
// matching the values from DefaultSettings().
func DefaultAppConfig() AppConfig {
	defaults := DefaultSettings()
	return AppConfig{
		DefaultCapacity:  0,
		DefaultAlgorithm: defaults.Algorithm,
		DefaultEpsilon:   defaults.Epsilon,
		DefaultMaxRounds: defaults.MaxRounds,
		DefaultNodeLimit: defaults.NodeLimit,
		WastePercent:     5,
		PricePerRoll:     0,
		OutputDir:        ".",
		RecentJobs:       []string{},
	}
}

// ApplyToSettings copies the default values from AppConfig into a CutSettings struct.
// Zero values in the config leave the corresponding setting untouched.
func (c AppConfig) ApplyToSettings(s *CutSettings) {
	if c.DefaultAlgorithm != "" {
		s.Algorithm = c.DefaultAlgorithm
	}
	if c.DefaultEpsilon > 0 {
		s.Epsilon = c.DefaultEpsilon
	}
	if c.DefaultMaxRounds > 0 {
		s.MaxRounds = c.DefaultMaxRounds
	}
	if c.DefaultNodeLimit > 0 {
		s.NodeLimit = c.DefaultNodeLimit
	}
}
