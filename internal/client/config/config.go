package config

import "time"

// Config holds runtime settings for the notekeeper CLI.
//
// Fields:
//   - ServerURL: base URL of the HTTP API, including the /api prefix.
//   - DatabasePath: SQLite file holding the login session.
//   - RequestTimeout: upper bound for one API call.
//   - ExportDir: where downloaded exports are saved; empty disables the download.
type Config struct {
	ServerURL      string
	DatabasePath   string
	RequestTimeout time.Duration
	ExportDir      string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerURL = "http://127.0.0.1:3000/api"
	c.DatabasePath = "notekeeper.db"
	c.RequestTimeout = 10 * time.Second
	c.ExportDir = "exports"
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
