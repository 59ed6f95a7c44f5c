// Package constants provides shared constants for the ship-estimator application.
package constants

import "time"

// Emission model constants
const (
	// CO2eUplift converts Annex II CO₂ to the 2025-onward CO₂e basis.
	CO2eUplift = 1.50419

	// CO2eAbatement is the measured CO₂e reduction factor applied to the
	// uplifted 2025 emissions figure.
	CO2eAbatement = 0.0412

	// ETSLiability2024 is the phase-in liability share for the 2024 ETS year.
	ETSLiability2024 = 0.4

	// DefaultEUAPrice is the EUA price (EUR/tonne) applied when neither the
	// quote source nor the spot source yields a price.
	DefaultEUAPrice = 67.6
)

// LiabilityByYear maps ETS years to their phase-in liability share.
var LiabilityByYear = map[int]float64{
	2025: 0.4,
	2026: 0.7,
	2027: 1.0,
	2028: 1.0,
}

// Quote and spot source defaults
const (
	// DefaultQuoteEndpoint is the price list API queried for the EUA forward quote.
	DefaultQuoteEndpoint = "https://myvertis.com/mvapi/prices/"

	// DefaultQuoteTokenEnv is the environment variable consulted for the
	// quote API access token.
	DefaultQuoteTokenEnv = "VERTIS_API_TOKEN"

	// DefaultQuoteTimeout bounds a quote list fetch.
	DefaultQuoteTimeout = 15 * time.Second

	// DefaultSpotURL is the public spot-price page scraped as a fallback.
	DefaultSpotURL = "https://www.eex.com/en/market-data/environmental-markets/spot-market/european-emission-allowances"

	// DefaultSpotRowLabel is the table cell label adjoining the spot price.
	DefaultSpotRowLabel = "2021-2030"

	// DefaultSpotTimeout bounds a spot page fetch.
	DefaultSpotTimeout = 8 * time.Second
)

// Display constants
const (
	// DefaultDisplayZone is the timezone quote timestamps are rendered in.
	DefaultDisplayZone = "Europe/Berlin"

	// DisplayTimeLayout is the rendering layout for quote timestamps.
	DisplayTimeLayout = "02 January 2006 15:04 MST"
)

// Output format constants
const (
	// OutputFormatPretty is the human-readable output format
	OutputFormatPretty = "pretty"

	// OutputFormatCSV is the CSV output format
	OutputFormatCSV = "csv"
)

// Configuration file constants
const (
	// DefaultConfigFile is the default configuration file name
	DefaultConfigFile = "config.yaml"

	// DefaultServerConfigFile is the default server configuration file name
	DefaultServerConfigFile = "server-config.yaml"
)

// Server configuration defaults
const (
	// DefaultServerAddress is the default HTTP listen address for the API
	DefaultServerAddress = ":8080"
)

// Validation constants
const (
	// DecimalPrecision is the precision for currency rounding (2 decimal places)
	DecimalPrecision = 100

	// CurrencyTolerance is the tolerance for currency comparisons (1 cent)
	CurrencyTolerance = 0.01
)
