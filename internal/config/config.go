// Package config defines the data structures related to configuration and
// includes functions for loading and validating the config.
package config

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fueltrust/ship-estimator/pkg/constants"
	"github.com/spf13/viper"
)

// Configuration holds all configuration for ship-estimator.
type Configuration struct {
	Inputs          map[string]float64
	DefaultShipType string
	DefaultFuelType string
	FuelTypes       []FuelType
	ShipProfiles    []ShipProfile
	QuoteSource     QuoteSource
	SpotSource      SpotSource
	DisplayZone     string
	Logging         LoggingConfig `yaml:"logging,omitempty"`
	Output          OutputConfig  `yaml:"output,omitempty"`
}

// LoggingConfig holds logging configuration options
type LoggingConfig struct {
	Level      string `yaml:"level,omitempty"`      // debug, info, warn, error
	Format     string `yaml:"format,omitempty"`     // json, console
	OutputFile string `yaml:"outputFile,omitempty"` // optional file output
}

// OutputConfig holds output format configuration options
type OutputConfig struct {
	Format string `yaml:"format,omitempty"` // pretty, csv
}

// FuelType is one row of the ordered fuel lookup table: a fuel name and its
// CO₂ emission coefficient (tonnes CO₂ per tonne fuel).
type FuelType struct {
	Name        string
	Coefficient float64
}

// ShipProfile holds the per-ship-type input defaults applied when the ship
// type selection changes.
type ShipProfile struct {
	Name         string
	NmPerSeaDay  float64
	NmPerPortDay float64
	FuelSea      float64
	FuelPort     float64
	SeaDays      float64
	PortDays     float64
}

// QuoteSource configures the authenticated price list API.
type QuoteSource struct {
	Endpoint       string
	Token          string
	TokenEnv       string
	TimeoutSeconds int
}

// SpotSource configures the public spot-price page scraped when the quote
// source is unavailable.
type SpotSource struct {
	URL            string
	RowLabel       string
	TimeoutSeconds int
}

// LoadConfiguration takes a file path as input and loads the YAML-formatted
// configuration there.
func LoadConfiguration(configPath string) (*Configuration, error) {
	viper.SetConfigFile(configPath)
	viper.AutomaticEnv()

	viper.SetConfigType("yml")

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file, %s", err)
	}

	var configuration Configuration
	err := viper.Unmarshal(&configuration)
	if err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %s", err)
	}

	configuration.applyDefaults()
	return &configuration, nil
}

// LoadConfigurationFromReader loads the YAML-formatted configuration from the
// given reader.
func LoadConfigurationFromReader(r io.Reader) (*Configuration, error) {
	v := viper.New()
	v.SetConfigType("yml")

	if err := v.ReadConfig(r); err != nil {
		return nil, fmt.Errorf("error reading config data, %s", err)
	}

	var configuration Configuration
	err := v.Unmarshal(&configuration)
	if err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %s", err)
	}

	configuration.applyDefaults()
	return &configuration, nil
}

// applyDefaults fills unset fields so a minimal config file still yields a
// runnable configuration.
func (conf *Configuration) applyDefaults() {
	if conf.Inputs == nil {
		conf.Inputs = make(map[string]float64)
	}
	if len(conf.FuelTypes) == 0 {
		conf.FuelTypes = DefaultFuelTypes()
	}
	if conf.DefaultFuelType == "" {
		conf.DefaultFuelType = conf.FuelTypes[0].Name
	}
	if conf.QuoteSource.Endpoint == "" {
		conf.QuoteSource.Endpoint = constants.DefaultQuoteEndpoint
	}
	if conf.QuoteSource.TokenEnv == "" {
		conf.QuoteSource.TokenEnv = constants.DefaultQuoteTokenEnv
	}
	if conf.QuoteSource.TimeoutSeconds <= 0 {
		conf.QuoteSource.TimeoutSeconds = int(constants.DefaultQuoteTimeout.Seconds())
	}
	if conf.SpotSource.URL == "" {
		conf.SpotSource.URL = constants.DefaultSpotURL
	}
	if conf.SpotSource.RowLabel == "" {
		conf.SpotSource.RowLabel = constants.DefaultSpotRowLabel
	}
	if conf.SpotSource.TimeoutSeconds <= 0 {
		conf.SpotSource.TimeoutSeconds = int(constants.DefaultSpotTimeout.Seconds())
	}
	if conf.DisplayZone == "" {
		conf.DisplayZone = constants.DefaultDisplayZone
	}
}

// DefaultFuelTypes returns the built-in fuel lookup table used when the
// configuration does not supply one.
func DefaultFuelTypes() []FuelType {
	return []FuelType{
		{Name: "MGO", Coefficient: 3.206},
		{Name: "VLSFO", Coefficient: 3.151},
		{Name: "HFO", Coefficient: 3.114},
		{Name: "LNG", Coefficient: 2.750},
	}
}

// QuoteToken resolves the quote API access token; the environment variable
// takes precedence over the inline config value.
func (conf *Configuration) QuoteToken() string {
	if conf.QuoteSource.TokenEnv != "" {
		if v := os.Getenv(conf.QuoteSource.TokenEnv); v != "" {
			return v
		}
	}
	return conf.QuoteSource.Token
}

// ValidateConfiguration checks the loaded configuration and returns a list of
// warnings; it never fails the load.
func (conf *Configuration) ValidateConfiguration() []string {
	var warnings []string

	if len(conf.FuelTypes) == 0 {
		warnings = append(warnings, "fuel type lookup table is empty")
	}
	if conf.DefaultFuelType != "" && !conf.hasFuelType(conf.DefaultFuelType) {
		warnings = append(warnings, fmt.Sprintf("default fuel type '%s' is not in the fuel lookup table", conf.DefaultFuelType))
	}
	if conf.DefaultShipType != "" && conf.profileIndex(conf.DefaultShipType) < 0 {
		warnings = append(warnings, fmt.Sprintf("default ship type '%s' has no ship profile", conf.DefaultShipType))
	}
	for name, value := range conf.Inputs {
		if strings.HasSuffix(name, "_pct") && (value < 0 || value > 1) {
			warnings = append(warnings, fmt.Sprintf("input '%s' = %v is outside [0,1]; percentages are stored as fractions", name, value))
		}
	}
	if conf.QuoteToken() == "" {
		warnings = append(warnings, "no quote API token configured; autofill will skip the quote source")
	}

	return warnings
}

func (conf *Configuration) hasFuelType(name string) bool {
	for _, ft := range conf.FuelTypes {
		if ft.Name == name {
			return true
		}
	}
	return false
}

func (conf *Configuration) profileIndex(name string) int {
	for i, profile := range conf.ShipProfiles {
		if profile.Name == name {
			return i
		}
	}
	return -1
}

// Profile returns the ship profile for the given ship type, matched by name
// against the ordered profile list.
func (conf *Configuration) Profile(shipType string) (ShipProfile, bool) {
	i := conf.profileIndex(shipType)
	if i < 0 {
		return ShipProfile{}, false
	}
	return conf.ShipProfiles[i], true
}
