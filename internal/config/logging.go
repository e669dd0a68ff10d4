package config

import (
	"os"

	"github.com/pelletier/go-toml/v2"
	"github.com/smazurov/movcat/internal/logging"
)

// LoadLoggingConfig reads the [logging] table from a TOML config file.
// "level" and "format" are global; every other key is a module-specific
// level. Returns defaults when the file is missing or unparseable.
func LoadLoggingConfig(configPath string) logging.Config {
	cfg := logging.Config{
		Level:   "info",
		Format:  "text",
		Modules: make(map[string]string),
	}
	if configPath == "" {
		return cfg
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return cfg
	}

	var raw struct {
		Logging map[string]string `toml:"logging"`
	}
	if err := toml.Unmarshal(data, &raw); err != nil {
		return cfg
	}

	for key, value := range raw.Logging {
		switch key {
		case "level":
			cfg.Level = value
		case "format":
			cfg.Format = value
		default:
			cfg.Modules[key] = value
		}
	}
	return cfg
}
