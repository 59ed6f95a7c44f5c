// Package server exposes the estimator over a small HTTP API in front of the
// resolution engine: one estimate endpoint accepting input overrides and one
// version endpoint.
package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/fueltrust/ship-estimator/internal/autofill"
	"github.com/fueltrust/ship-estimator/internal/config"
	"github.com/fueltrust/ship-estimator/internal/metrics"
	"github.com/fueltrust/ship-estimator/internal/quotes"
	"github.com/fueltrust/ship-estimator/pkg/display"
	"go.uber.org/zap"
)

type handler struct {
	logger  *zap.Logger
	conf    *config.Configuration
	version string
	client  *quotes.Client
	scraper *quotes.SpotScraper
	zone    *time.Location
}

// NewHandler constructs the HTTP handler that serves the estimate API.
func NewHandler(logger *zap.Logger, conf *config.Configuration, version string) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if version == "" {
		version = "dev"
	}

	h := &handler{
		logger:  logger,
		conf:    conf,
		version: version,
		client:  quotes.NewClient(conf.QuoteSource, conf.QuoteToken(), logger),
		scraper: quotes.NewSpotScraper(conf.SpotSource, logger),
		zone:    display.LoadZone(conf.DisplayZone),
	}

	mux := http.NewServeMux()

	// Estimate API endpoint (input overrides in, resolved metrics out)
	mux.HandleFunc("/api/estimate", h.handleEstimate)

	// Version endpoint for UI metadata
	mux.HandleFunc("/api/version", h.handleVersion)

	return mux
}

type estimateRequest struct {
	Inputs   map[string]float64 `json:"inputs"`
	ShipType string             `json:"shipType"`
	FuelType string             `json:"fuelType"`
	Options  estimateOptions    `json:"options"`
}

type estimateOptions struct {
	// Autofill enables the network-backed EUA price cascade for this
	// request; it defaults to off so estimates stay deterministic.
	Autofill bool `json:"autofill"`
}

type estimateResponse struct {
	Metrics        map[string]*float64 `json:"metrics"`
	ShipType       string              `json:"shipType,omitempty"`
	FuelType       string              `json:"fuelType,omitempty"`
	AutofillSource string              `json:"autofillSource,omitempty"`
	Ticker         *display.Ticker     `json:"ticker,omitempty"`
	Duration       string              `json:"duration"`
}

func (h *handler) handleEstimate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	start := time.Now()

	var payload estimateRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		h.respondError(w, http.StatusBadRequest, fmt.Sprintf("failed to decode request: %v", err))
		return
	}

	// Unknown metric identifiers are rejected at the boundary.
	overrides := make(map[metrics.ID]float64, len(payload.Inputs))
	for name, value := range payload.Inputs {
		id, err := metrics.ParseID(name)
		if err != nil {
			if errors.Is(err, metrics.ErrUnknownMetric) {
				h.respondError(w, http.StatusBadRequest, fmt.Sprintf("unknown metric identifier: %s", name))
				return
			}
			h.respondError(w, http.StatusInternalServerError, err.Error())
			return
		}
		overrides[id] = value
	}

	session := metrics.NewSession(h.logger, h.conf, nil)
	if payload.ShipType != "" {
		session.ApplyShipProfile(payload.ShipType)
	}
	if payload.FuelType != "" {
		session.SetFuelType(payload.FuelType)
	}

	refreshDistance := false
	for id, value := range overrides {
		if err := session.Assign(id, value); err != nil {
			h.respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		switch id {
		case metrics.NmPerSeaDay, metrics.NmPerPortDay, metrics.SeaDays, metrics.PortDays:
			refreshDistance = true
		}
	}
	if _, pinned := overrides[metrics.AnnualDistance]; refreshDistance && !pinned {
		session.RefreshAnnualDistance()
	}

	response := estimateResponse{
		ShipType: session.ShipTypeName(),
		FuelType: session.FuelType(),
	}

	if payload.Options.Autofill {
		result := autofill.Seed(r.Context(), h.logger, session, h.client, h.scraper)
		response.AutofillSource = string(result.Source)
		if result.Record != nil {
			ticker := display.BuildTicker(result.Record, h.zone)
			response.Ticker = &ticker
		}
	}

	results := session.ResolveAll()
	response.Metrics = make(map[string]*float64, len(results))
	for id, outcome := range results {
		if outcome.Available {
			v := outcome.Value
			response.Metrics[string(id)] = &v
		} else {
			response.Metrics[string(id)] = nil
		}
	}

	elapsed := time.Since(start)
	response.Duration = elapsed.String()

	h.logger.Info("estimate computed",
		zap.String("op", "server.handleEstimate"),
		zap.Int("overrides", len(overrides)),
		zap.Bool("autofill", payload.Options.Autofill),
		zap.Duration("duration", elapsed),
	)

	h.writeJSON(w, http.StatusOK, response)
}

func (h *handler) handleVersion(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]string{
		"version": h.version,
	})
}

func (h *handler) respondError(w http.ResponseWriter, status int, msg string) {
	h.logger.Error("estimate request failed",
		zap.String("op", "server.handleEstimate"),
		zap.Int("status", status),
		zap.String("error", msg),
	)

	h.writeJSON(w, status, map[string]string{"error": msg})
}

func (h *handler) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("failed to write JSON response", zap.Error(err))
	}
}
