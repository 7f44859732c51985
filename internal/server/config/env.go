package config

import "github.com/caarlos0/env/v11"

// parseEnv overlays variables that are set; unset ones keep the current value.
// Durations use Go syntax ("168h"). Malformed values panic, like a bad JSON file.
func parseEnv(config *Config) {
	if err := env.Parse(config); err != nil {
		panic(err)
	}
}
