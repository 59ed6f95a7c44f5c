package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	_ "time/tzdata"

	"github.com/fueltrust/ship-estimator/internal/autofill"
	"github.com/fueltrust/ship-estimator/internal/config"
	"github.com/fueltrust/ship-estimator/internal/metrics"
	"github.com/fueltrust/ship-estimator/internal/quotes"
	"github.com/fueltrust/ship-estimator/pkg/constants"
	"github.com/fueltrust/ship-estimator/pkg/display"
	"github.com/fueltrust/ship-estimator/pkg/output"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// initializeLogger creates a zap logger based on configuration and CLI override
func initializeLogger(loggingConfig config.LoggingConfig, logLevelOverride string) (*zap.Logger, error) {
	// Determine log level (CLI override takes precedence)
	level := loggingConfig.Level
	if logLevelOverride != "" {
		level = logLevelOverride
	}
	if level == "" {
		level = "info" // Default to info level
	}

	// Parse log level
	var zapLevel zapcore.Level
	switch level {
	case "debug":
		zapLevel = zapcore.DebugLevel
	case "info":
		zapLevel = zapcore.InfoLevel
	case "warn", "warning":
		zapLevel = zapcore.WarnLevel
	case "error":
		zapLevel = zapcore.ErrorLevel
	default:
		return nil, fmt.Errorf("invalid log level: %s", level)
	}

	// Determine output format
	format := loggingConfig.Format
	if format == "" {
		format = "json" // Default to JSON for production
	}

	// Configure encoder
	var config zap.Config
	switch format {
	case "console":
		config = zap.NewDevelopmentConfig()
		config.Level = zap.NewAtomicLevelAt(zapLevel)
	case "json":
		config = zap.NewProductionConfig()
		config.Level = zap.NewAtomicLevelAt(zapLevel)
	default:
		return nil, fmt.Errorf("invalid log format: %s", format)
	}

	// Configure output file if specified
	if loggingConfig.OutputFile != "" {
		// Ensure the directory exists
		if dir := filepath.Dir(loggingConfig.OutputFile); dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return nil, fmt.Errorf("failed to create log directory %s: %v", dir, err)
			}
		}

		// Test if we can create/write to the file
		if file, err := os.OpenFile(loggingConfig.OutputFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644); err != nil {
			return nil, fmt.Errorf("failed to open log file %s: %v", loggingConfig.OutputFile, err)
		} else {
			_ = file.Close()
		}

		config.OutputPaths = []string{loggingConfig.OutputFile}
		config.ErrorOutputPaths = []string{loggingConfig.OutputFile}
	}

	return config.Build()
}

func main() {
	// Process command line flags first to get config location
	configLocation := flag.String("config", constants.DefaultConfigFile, "path to configuration file")
	outputFormatFlag := flag.String("output-format", "", "type of output override: pretty, csv")
	logLevel := flag.String("log-level", "", "log level override (debug, info, warn, error)")
	shipType := flag.String("ship-type", "", "ship type override (must match a configured ship profile)")
	fuelType := flag.String("fuel-type", "", "fuel type override (must match the configured fuel lookup table)")
	noAutofill := flag.Bool("no-autofill", false, "skip the network-backed EUA price autofill")
	flag.Parse()

	// Load the config file to get logging configuration
	conf, err := config.LoadConfiguration(*configLocation)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to load configuration at %s\", \"error\": \"%v\"}\n", *configLocation, err)
		return
	}

	// Initialize logging based on config and CLI override
	logger, err := initializeLogger(conf.Logging, *logLevel)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to initialize logger\", \"error\": \"%v\"}\n", err)
		return
	}
	defer func() {
		_ = logger.Sync()
	}()

	// Determine output format (CLI override takes precedence over config)
	outputFormat := conf.Output.Format
	if *outputFormatFlag != "" {
		outputFormat = *outputFormatFlag
	}
	if outputFormat == "" {
		outputFormat = constants.OutputFormatPretty // Default to pretty format
	}
	if outputFormat != constants.OutputFormatPretty && outputFormat != constants.OutputFormatCSV {
		logger.Fatal("invalid output format: "+outputFormat,
			zap.String("op", "main"),
		)
	}

	// Validate configuration and display any warnings
	warnings := conf.ValidateConfiguration()
	for _, warning := range warnings {
		logger.Warn("Configuration warning: "+warning,
			zap.String("op", "main"),
		)
	}

	// Build the metric session from the configured inputs.
	session := metrics.NewSession(logger, conf, nil)
	if *shipType != "" {
		session.ApplyShipProfile(*shipType)
	}
	if *fuelType != "" {
		session.SetFuelType(*fuelType)
	}

	// Seed the EUA price through the quote cascade unless disabled.
	if !*noAutofill {
		client := quotes.NewClient(conf.QuoteSource, conf.QuoteToken(), logger)
		scraper := quotes.NewSpotScraper(conf.SpotSource, logger)
		result := autofill.Seed(context.Background(), logger, session, client, scraper)

		if result.Record != nil {
			zone := display.LoadZone(conf.DisplayZone)
			ticker := display.BuildTicker(result.Record, zone)
			fmt.Println(ticker.Render())
		} else if result.Source == autofill.SourceSpotScrape {
			fmt.Printf("EUA spot price: %.2f EUR (exchange spot market)\n\n", result.Price)
		}
	}

	// Resolve every derived metric and render the report.
	results := session.ResolveAll()
	lines := output.BuildLines(results)

	switch outputFormat {
	case constants.OutputFormatPretty:
		output.PrettyFormat(lines)
	case constants.OutputFormatCSV:
		output.CsvFormat(lines)
	}
}
