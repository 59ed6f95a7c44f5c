package server

import (
	"fmt"
	"os"

	"github.com/fueltrust/ship-estimator/internal/config"
	"github.com/fueltrust/ship-estimator/pkg/constants"
	"gopkg.in/yaml.v3"
)

// Config holds the HTTP server settings, kept separate from the estimator
// configuration so the same estimator config can back both the CLI and the
// server.
type Config struct {
	Address string               `yaml:"address,omitempty"`
	Logging config.LoggingConfig `yaml:"logging,omitempty"`
}

// LoadConfig reads the server configuration from a YAML file. A missing path
// yields the defaults.
func LoadConfig(path string) (*Config, error) {
	conf := &Config{}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("error reading server config file, %s", err)
		}
		if err := yaml.Unmarshal(data, conf); err != nil {
			return nil, fmt.Errorf("unable to decode server config, %s", err)
		}
	}

	conf.applyDefaults()
	return conf, nil
}

func (conf *Config) applyDefaults() {
	if conf.Address == "" {
		conf.Address = constants.DefaultServerAddress
	}
	if conf.Logging.Level == "" {
		conf.Logging.Level = "info"
	}
	if conf.Logging.Format == "" {
		conf.Logging.Format = "json"
	}
}
