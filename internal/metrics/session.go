package metrics

import (
	"fmt"

	"github.com/fueltrust/ship-estimator/internal/config"
	"go.uber.org/zap"
)

// Session holds all per-session metric state: the raw value store, the
// resolution memo, the fuel/ship lookup tables, and the optional primary
// evaluator. A Session is not safe for concurrent use; each user interaction
// is processed to completion before the next.
type Session struct {
	logger   *zap.Logger
	eval     PrimaryEvaluator
	fuels    []config.FuelType
	profiles []config.ShipProfile

	shipType string
	fuelType string

	store map[ID]float64
	memo  map[ID]Outcome
}

// NewSession creates a session seeded with the configuration's input defaults
// and lookup tables. The evaluator may be nil, in which case resolution starts
// at the fallback tier. If logger is nil, a no-op logger is used.
func NewSession(logger *zap.Logger, conf *config.Configuration, eval PrimaryEvaluator) *Session {
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &Session{
		logger:   logger,
		eval:     eval,
		fuels:    conf.FuelTypes,
		profiles: conf.ShipProfiles,
		shipType: conf.DefaultShipType,
		fuelType: conf.DefaultFuelType,
		store:    make(map[ID]float64),
		memo:     make(map[ID]Outcome),
	}

	for name, value := range conf.Inputs {
		id, err := ParseID(name)
		if err != nil {
			logger.Warn("ignoring unknown input in configuration",
				zap.String("op", "metrics.NewSession"),
				zap.String("input", name),
			)
			continue
		}
		s.write(id, value)
	}

	if profile, ok := conf.Profile(s.shipType); ok {
		s.applyProfile(profile)
	}

	return s
}

// Resolve returns the metric's value using the three-tier strategy: the
// primary evaluator when it yields a number, else the registered fallback
// formula, else the last cached numeric value. The only error condition is an
// identifier outside the closed metric set.
func (s *Session) Resolve(id ID) (Outcome, error) {
	if !Known(id) {
		return Unavailable, fmt.Errorf("%w: %s", ErrUnknownMetric, id)
	}
	if out, ok := s.memo[id]; ok {
		return out, nil
	}
	out := s.resolve(id)
	s.memo[id] = out
	return out, nil
}

func (s *Session) resolve(id ID) Outcome {
	if s.eval != nil {
		if raw, err := s.eval.Evaluate(id); err == nil {
			if v, ok := asNumber(flatten(raw)); ok {
				return Ok(v)
			}
		}
	}

	if formula, ok := fallbackFormulas[id]; ok {
		if out := formula(s); out.Available {
			s.write(id, out.Value)
			return out
		}
	}

	if v, ok := s.store[id]; ok {
		return Ok(v)
	}
	return Unavailable
}

// Assign unconditionally overwrites the metric's raw value in both backing
// stores and invalidates the resolution memo. The assigned metric itself
// resolves to the assigned value until the next invalidation, so an
// assign-then-resolve round trip always observes the write. Assign is
// idempotent and never fails for a known identifier.
func (s *Session) Assign(id ID, value float64) error {
	if !Known(id) {
		return fmt.Errorf("%w: %s", ErrUnknownMetric, id)
	}
	s.write(id, value)
	s.memo = map[ID]Outcome{id: Ok(value)}
	return nil
}

// write stores the value and mirrors it into the primary evaluator's backing
// state. Evaluator write failures are non-fatal: the store remains the source
// for the cache tier.
func (s *Session) write(id ID, value float64) {
	s.store[id] = value
	if s.eval != nil {
		if err := s.eval.SetValue(id, value); err != nil {
			s.logger.Debug("primary evaluator rejected value write",
				zap.String("op", "metrics.write"),
				zap.String("metric", string(id)),
				zap.Error(err),
			)
		}
	}
}

func (s *Session) invalidate() {
	s.memo = make(map[ID]Outcome)
}

// SetFuelType changes the selected fuel type and invalidates dependent
// resolutions.
func (s *Session) SetFuelType(name string) {
	s.fuelType = name
	s.invalidate()
}

// FuelType returns the currently selected fuel type.
func (s *Session) FuelType() string {
	return s.fuelType
}

// ShipTypeName returns the currently selected ship type.
func (s *Session) ShipTypeName() string {
	return s.shipType
}

// ApplyShipProfile switches the ship type and reseeds the six profile-driven
// inputs from the matching profile row, then eagerly refreshes the annual
// distance so displayed values stay consistent before the next read. An
// unmatched ship type leaves the inputs untouched.
func (s *Session) ApplyShipProfile(shipType string) {
	s.shipType = shipType
	var profile config.ShipProfile
	found := false
	for _, p := range s.profiles {
		if p.Name == shipType {
			profile = p
			found = true
			break
		}
	}
	if !found {
		s.logger.Warn("no ship profile for selected ship type",
			zap.String("op", "metrics.ApplyShipProfile"),
			zap.String("shipType", shipType),
		)
		s.invalidate()
		return
	}
	s.applyProfile(profile)
}

func (s *Session) applyProfile(profile config.ShipProfile) {
	s.write(NmPerSeaDay, profile.NmPerSeaDay)
	s.write(NmPerPortDay, profile.NmPerPortDay)
	s.write(FuelSea, profile.FuelSea)
	s.write(FuelPort, profile.FuelPort)
	s.write(SeaDays, profile.SeaDays)
	s.write(PortDays, profile.PortDays)
	s.invalidate()
	s.RefreshAnnualDistance()
}

// RefreshAnnualDistance eagerly recomputes annual_distance from the current
// inputs and writes it through. Callers use it after reassigning any of the
// distance/fuel-rate or sea/port-day inputs.
func (s *Session) RefreshAnnualDistance() {
	out := fallbackFormulas[AnnualDistance](s)
	if !out.Available {
		return
	}
	s.write(AnnualDistance, out.Value)
	s.invalidate()
}

// ResolveAll resolves every derived metric for one render pass and returns the
// outcomes keyed by metric.
func (s *Session) ResolveAll() map[ID]Outcome {
	results := make(map[ID]Outcome, len(Derived))
	for _, id := range Derived {
		out, err := s.Resolve(id)
		if err != nil {
			// Derived contains only known IDs.
			continue
		}
		results[id] = out
	}
	return results
}

// input reads a raw input value from the store, treating absent as zero. This
// mirrors the degraded-input semantics of the fallback formulas: a missing
// input never blocks computation.
func (s *Session) input(id ID) float64 {
	return s.store[id]
}

// dep resolves a dependency metric through the full resolution chain, treating
// unavailable as zero.
func (s *Session) dep(id ID) float64 {
	out, err := s.Resolve(id)
	if err != nil {
		return 0
	}
	return out.Or(0)
}

// voyageDays returns the sea/port day inputs and whether their sum is nonzero.
// Every fallback formula is undefined when the total is zero.
func (s *Session) voyageDays() (sea, port, total float64, ok bool) {
	sea = s.input(SeaDays)
	port = s.input(PortDays)
	total = sea + port
	return sea, port, total, total != 0
}

// emissionCoefficient resolves the selected fuel type against the ordered fuel
// lookup table. A lookup miss falls back to the first row for workbook
// compatibility; found=false lets callers distinguish the miss from a genuine
// first-row selection.
func (s *Session) emissionCoefficient() (coefficient float64, found bool) {
	for _, ft := range s.fuels {
		if ft.Name == s.fuelType {
			return ft.Coefficient, true
		}
	}
	if len(s.fuels) == 0 {
		return 0, false
	}
	s.logger.Warn("fuel type not in lookup table, using first row",
		zap.String("op", "metrics.emissionCoefficient"),
		zap.String("fuelType", s.fuelType),
	)
	return s.fuels[0].Coefficient, false
}
