// Package config defines process configuration and how it is loaded.
package config

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the log encoding: text or json.
	LogFormat string `koanf:"log_format"`

	// MinVoters is the number of completed voters required before scores
	// and teams are shown. Values below 2 are raised to 2 by the service.
	MinVoters int `koanf:"min_voters"`

	// ScoreMin and ScoreMax bound accepted vote scores, inclusive.
	ScoreMin int `koanf:"score_min"`
	ScoreMax int `koanf:"score_max"`

	// MetricsFile, when set, receives a Prometheus text dump after each run.
	MetricsFile string `koanf:"metrics_file"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:  "info",
		LogFormat: "text",
		MinVoters: 12,
		ScoreMin:  1,
		ScoreMax:  10,
	}
}
