// Package metrics implements the derived-metric resolution engine: a closed
// set of named metrics, a per-session value store, and a three-tier resolver
// (primary evaluator, fallback formula, last-known cache).
package metrics

import (
	"errors"
	"fmt"
)

// ID names one metric in the estimator. The set of valid IDs is closed;
// referencing any other identifier is a programming error.
type ID string

// Input metrics. Their values come only from defaults or explicit assignment.
const (
	ShipType         ID = "ship_type"
	NmPerSeaDay      ID = "nm_per_sea_day"
	NmPerPortDay     ID = "nm_per_port_day"
	FuelSea          ID = "fuel_sea"
	FuelPort         ID = "fuel_port"
	SeaDays          ID = "sea_days"
	PortDays         ID = "port_days"
	SelectedFuelType ID = "selected_fuel_type"
	EuEuPct          ID = "eu_eu_pct"
	InOutEuPct       ID = "inout_eu_pct"
	NonEuPct         ID = "non_eu_pct"
	CO2OveragePct    ID = "co2_overage_pct"
	FraudPct         ID = "fraud_pct"
	EuaPrice         ID = "eua_price"
)

// Derived metrics, each defined by a fallback formula. AnnualDistance is also
// user-editable, which is why it additionally appears among the inputs the
// profile reseed touches.
const (
	AnnualDistance      ID = "annual_distance"
	AvgDailyFuel        ID = "avg_daily_fuel"
	Annex2CO2           ID = "annex2_co2"
	MeasuredCO2         ID = "measured_co2"
	CO2Reduction        ID = "co2_reduction"
	EuCO2               ID = "eu_co2"
	EtsLiability2024    ID = "ets_liability_2024"
	EuEligibleReduction ID = "eu_eligible_reduction"
	Annex2CO22025       ID = "annex2_co2_2025"
	MeasuredCO2e        ID = "measured_co2e"
	CO2eReduction       ID = "co2e_reduction"
	Savings2025         ID = "savings_2025"
	Savings2026         ID = "savings_2026"
	Savings2027         ID = "savings_2027"
	Savings2028         ID = "savings_2028"
	FraudSavings        ID = "fraud_savings"
)

// ErrUnknownMetric is returned when an identifier outside the closed metric
// set reaches the engine boundary.
var ErrUnknownMetric = errors.New("unknown metric identifier")

// Inputs lists all input metrics in display order.
var Inputs = []ID{
	ShipType,
	NmPerSeaDay,
	NmPerPortDay,
	FuelSea,
	FuelPort,
	SeaDays,
	PortDays,
	SelectedFuelType,
	EuEuPct,
	InOutEuPct,
	NonEuPct,
	CO2OveragePct,
	FraudPct,
	EuaPrice,
}

// Derived lists all derived metrics in dependency (topological) order: every
// formula references only metrics appearing earlier in this list or inputs.
var Derived = []ID{
	AnnualDistance,
	AvgDailyFuel,
	Annex2CO2,
	MeasuredCO2,
	CO2Reduction,
	EuCO2,
	EtsLiability2024,
	EuEligibleReduction,
	Annex2CO22025,
	MeasuredCO2e,
	CO2eReduction,
	Savings2025,
	Savings2026,
	Savings2027,
	Savings2028,
	FraudSavings,
}

var known = buildKnown()

func buildKnown() map[ID]struct{} {
	m := make(map[ID]struct{}, len(Inputs)+len(Derived))
	for _, id := range Inputs {
		m[id] = struct{}{}
	}
	for _, id := range Derived {
		m[id] = struct{}{}
	}
	return m
}

// Known reports whether id belongs to the closed metric set.
func Known(id ID) bool {
	_, ok := known[id]
	return ok
}

// ParseID validates a raw identifier at the boundary and converts it to an ID.
func ParseID(name string) (ID, error) {
	id := ID(name)
	if !Known(id) {
		return "", fmt.Errorf("%w: %s", ErrUnknownMetric, name)
	}
	return id, nil
}

// IsDerived reports whether id has a registered fallback formula.
func IsDerived(id ID) bool {
	_, ok := fallbackFormulas[id]
	return ok
}
