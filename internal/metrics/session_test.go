package metrics

import (
	"errors"
	"fmt"
	"testing"

	"github.com/fueltrust/ship-estimator/internal/config"
	"github.com/fueltrust/ship-estimator/pkg/constants"
	"github.com/fueltrust/ship-estimator/pkg/mathutil"
	"go.uber.org/zap"
)

// testConfiguration returns the reference input vector used throughout the
// engine tests: a 365-day voyage year burning MGO.
func testConfiguration() *config.Configuration {
	return &config.Configuration{
		Inputs: map[string]float64{
			"sea_days":        180,
			"port_days":       185,
			"nm_per_sea_day":  220,
			"nm_per_port_day": 0,
			"fuel_sea":        28,
			"fuel_port":       4,
			"eu_eu_pct":       0.3,
			"inout_eu_pct":    0.4,
			"co2_overage_pct": 0.05,
			"fraud_pct":       0.01,
			"eua_price":       70,
		},
		DefaultFuelType: "MGO",
		FuelTypes: []config.FuelType{
			{Name: "MGO", Coefficient: 3.206},
			{Name: "VLSFO", Coefficient: 3.151},
		},
		ShipProfiles: []config.ShipProfile{
			{Name: "Bulk Carrier", NmPerSeaDay: 250, NmPerPortDay: 0, FuelSea: 30, FuelPort: 5, SeaDays: 200, PortDays: 165},
			{Name: "Container Ship", NmPerSeaDay: 400, NmPerPortDay: 10, FuelSea: 90, FuelPort: 8, SeaDays: 230, PortDays: 135},
		},
	}
}

func newTestSession(t *testing.T) *Session {
	t.Helper()
	logger, _ := zap.NewDevelopment()
	return NewSession(logger, testConfiguration(), nil)
}

func resolveOk(t *testing.T, s *Session, id ID) float64 {
	t.Helper()
	out, err := s.Resolve(id)
	if err != nil {
		t.Fatalf("Resolve(%s) error = %v", id, err)
	}
	if !out.Available {
		t.Fatalf("Resolve(%s) unavailable, want a value", id)
	}
	return out.Value
}

func TestFallbackFormulas(t *testing.T) {
	s := newTestSession(t)

	totalFuel := 28.0*180 + 4.0*185 // 5780
	annex2 := totalFuel * 3.206
	euShare := 0.3 + 0.4*0.5
	annex2025 := annex2 * constants.CO2eUplift
	co2e := annex2025 - annex2025*(1-constants.CO2eAbatement)

	tests := []struct {
		name     string
		metric   ID
		expected float64
	}{
		{"Annual distance", AnnualDistance, 180 * 220},
		{"Average daily fuel", AvgDailyFuel, totalFuel / 365},
		{"Annex II CO2", Annex2CO2, annex2},
		{"Measured CO2", MeasuredCO2, annex2 * 0.95},
		{"CO2 reduction", CO2Reduction, annex2 * 0.05},
		{"EU CO2", EuCO2, annex2 * euShare},
		{"ETS 2024 liability", EtsLiability2024, annex2 * euShare * 70 * 0.4},
		{"EU eligible reduction", EuEligibleReduction, annex2 * 0.05 * euShare},
		{"Annex II CO2 2025", Annex2CO22025, annex2025},
		{"Measured CO2e", MeasuredCO2e, annex2025 * (1 - constants.CO2eAbatement)},
		{"CO2e reduction", CO2eReduction, co2e},
		{"Savings 2025", Savings2025, co2e * 70 * 0.4},
		{"Savings 2026", Savings2026, co2e * 70 * 0.7},
		{"Savings 2027", Savings2027, co2e * 70 * 1.0},
		{"Savings 2028", Savings2028, co2e * 70 * 1.0},
		{"Fraud savings", FraudSavings, annex2 * 0.01 * 70},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := resolveOk(t, s, tt.metric)
			if !mathutil.WithinTolerance(got, tt.expected, 1e-6) {
				t.Errorf("Resolve(%s) = %v, want %v", tt.metric, got, tt.expected)
			}
		})
	}
}

func TestZeroDaysGuard(t *testing.T) {
	s := newTestSession(t)
	if err := s.Assign(SeaDays, 0); err != nil {
		t.Fatalf("Assign(sea_days) error = %v", err)
	}
	if err := s.Assign(PortDays, 0); err != nil {
		t.Fatalf("Assign(port_days) error = %v", err)
	}
	// Wipe any values cached before the reassignment so the guard is what
	// decides, not the last-known tier.
	s.store = map[ID]float64{SeaDays: 0, PortDays: 0}
	s.invalidate()

	for _, id := range Derived {
		out, err := s.Resolve(id)
		if err != nil {
			t.Fatalf("Resolve(%s) error = %v", id, err)
		}
		if out.Available {
			t.Errorf("Resolve(%s) = %v with zero voyage days, want unavailable", id, out.Value)
		}
	}
}

func TestSavingsRatio(t *testing.T) {
	s := newTestSession(t)
	savings := resolveOk(t, s, Savings2026)
	reduction := resolveOk(t, s, CO2eReduction)
	price := resolveOk(t, s, EuaPrice)
	if reduction == 0 || price == 0 {
		t.Fatal("test vector must produce nonzero reduction and price")
	}
	ratio := savings / reduction / price
	if !mathutil.WithinTolerance(ratio, 0.7, 1e-9) {
		t.Errorf("savings_2026 / co2e_reduction / eua_price = %v, want 0.7", ratio)
	}
}

func TestAssignResolveIdempotence(t *testing.T) {
	s := newTestSession(t)

	// Resolve first so a computed value is cached; the assignment must win
	// over the prior state for both a derived metric and an input.
	resolveOk(t, s, Annex2CO2)

	for _, id := range []ID{Annex2CO2, EuaPrice} {
		for i := 0; i < 2; i++ {
			if err := s.Assign(id, 12345.67); err != nil {
				t.Fatalf("Assign(%s) error = %v", id, err)
			}
			if got := resolveOk(t, s, id); got != 12345.67 {
				t.Errorf("Resolve(%s) after Assign #%d = %v, want 12345.67", id, i+1, got)
			}
		}
	}
}

func TestUnknownMetricRejected(t *testing.T) {
	s := newTestSession(t)

	if _, err := s.Resolve(ID("cell_b26")); !errors.Is(err, ErrUnknownMetric) {
		t.Errorf("Resolve(unknown) error = %v, want ErrUnknownMetric", err)
	}
	if err := s.Assign(ID("cell_b26"), 1); !errors.Is(err, ErrUnknownMetric) {
		t.Errorf("Assign(unknown) error = %v, want ErrUnknownMetric", err)
	}
	if _, err := ParseID("not_a_metric"); !errors.Is(err, ErrUnknownMetric) {
		t.Errorf("ParseID(unknown) error = %v, want ErrUnknownMetric", err)
	}
}

func TestCacheTier(t *testing.T) {
	s := newTestSession(t)

	// Populate the store with a computed annual distance.
	want := resolveOk(t, s, AnnualDistance)

	// Zero voyage days disables the fallback formula; the last-known value
	// must still be served from the cache tier.
	if err := s.Assign(SeaDays, 0); err != nil {
		t.Fatal(err)
	}
	if err := s.Assign(PortDays, 0); err != nil {
		t.Fatal(err)
	}
	got := resolveOk(t, s, AnnualDistance)
	if got != want {
		t.Errorf("cached annual_distance = %v, want %v", got, want)
	}
}

func TestFuelTypeLookupMiss(t *testing.T) {
	s := newTestSession(t)
	s.SetFuelType("Hydrogen")

	// Miss falls back to the first lookup row (MGO, 3.206).
	totalFuel := 28.0*180 + 4.0*185
	got := resolveOk(t, s, Annex2CO2)
	if !mathutil.WithinTolerance(got, totalFuel*3.206, 1e-6) {
		t.Errorf("annex2_co2 with unmatched fuel = %v, want first-row coefficient result %v", got, totalFuel*3.206)
	}

	cf, found := s.emissionCoefficient()
	if found {
		t.Error("emissionCoefficient() found = true for unmatched fuel type")
	}
	if cf != 3.206 {
		t.Errorf("emissionCoefficient() = %v, want 3.206", cf)
	}
}

func TestSetFuelTypeInvalidates(t *testing.T) {
	s := newTestSession(t)
	before := resolveOk(t, s, Annex2CO2)

	s.SetFuelType("VLSFO")
	after := resolveOk(t, s, Annex2CO2)

	totalFuel := 28.0*180 + 4.0*185
	if !mathutil.WithinTolerance(after, totalFuel*3.151, 1e-6) {
		t.Errorf("annex2_co2 after fuel switch = %v, want %v", after, totalFuel*3.151)
	}
	if before == after {
		t.Error("fuel type change did not invalidate the resolution memo")
	}
}

func TestApplyShipProfile(t *testing.T) {
	s := newTestSession(t)

	s.ApplyShipProfile("Container Ship")

	if got := resolveOk(t, s, SeaDays); got != 230 {
		t.Errorf("sea_days after profile switch = %v, want 230", got)
	}
	want := 230.0*400 + 135.0*10
	if got := resolveOk(t, s, AnnualDistance); got != want {
		t.Errorf("annual_distance after profile switch = %v, want %v", got, want)
	}
	if s.ShipTypeName() != "Container Ship" {
		t.Errorf("ShipTypeName() = %q, want Container Ship", s.ShipTypeName())
	}

	// Unknown ship type keeps the current inputs.
	s.ApplyShipProfile("Submarine")
	if got := resolveOk(t, s, SeaDays); got != 230 {
		t.Errorf("sea_days after unmatched profile = %v, want 230", got)
	}
}

func TestRefreshAnnualDistance(t *testing.T) {
	s := newTestSession(t)
	resolveOk(t, s, AnnualDistance)

	if err := s.Assign(NmPerSeaDay, 300); err != nil {
		t.Fatal(err)
	}
	s.RefreshAnnualDistance()

	if got := s.store[AnnualDistance]; got != 300*180 {
		t.Errorf("annual_distance store value after refresh = %v, want %v", got, 300*180)
	}
}

func TestResolveAll(t *testing.T) {
	s := newTestSession(t)
	results := s.ResolveAll()
	if len(results) != len(Derived) {
		t.Fatalf("ResolveAll() returned %d outcomes, want %d", len(results), len(Derived))
	}
	for _, id := range Derived {
		if !results[id].Available {
			t.Errorf("ResolveAll()[%s] unavailable, want a value", id)
		}
	}
}

// fakeEvaluator is a scriptable PrimaryEvaluator.
type fakeEvaluator struct {
	values map[ID]interface{}
	errs   map[ID]error
	writes map[ID]float64
}

func newFakeEvaluator() *fakeEvaluator {
	return &fakeEvaluator{
		values: make(map[ID]interface{}),
		errs:   make(map[ID]error),
		writes: make(map[ID]float64),
	}
}

func (f *fakeEvaluator) Evaluate(id ID) (interface{}, error) {
	if err, ok := f.errs[id]; ok {
		return nil, err
	}
	if v, ok := f.values[id]; ok {
		return v, nil
	}
	return nil, fmt.Errorf("no live value for %s", id)
}

func (f *fakeEvaluator) SetValue(id ID, value float64) error {
	f.writes[id] = value
	return nil
}

func TestPrimaryEvaluatorTier(t *testing.T) {
	tests := []struct {
		name      string
		live      interface{}
		liveErr   error
		expected  float64
		fellBack  bool
		formulaOK bool
	}{
		{
			name:     "Plain number is authoritative",
			live:     42.5,
			expected: 42.5,
		},
		{
			name:     "Nested single-element wrapper flattens",
			live:     []interface{}{[]interface{}{42.5}},
			expected: 42.5,
		},
		{
			name:      "Evaluator error falls back to formula",
			liveErr:   fmt.Errorf("cell evaluation failed"),
			fellBack:  true,
			formulaOK: true,
		},
		{
			name:      "Non-numeric result falls back to formula",
			live:      "#REF!",
			fellBack:  true,
			formulaOK: true,
		},
		{
			name:      "Multi-element wrapper is non-numeric",
			live:      []interface{}{1.0, 2.0},
			fellBack:  true,
			formulaOK: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			eval := newFakeEvaluator()
			if tt.liveErr != nil {
				eval.errs[AnnualDistance] = tt.liveErr
			} else if tt.live != nil {
				eval.values[AnnualDistance] = tt.live
			}

			logger, _ := zap.NewDevelopment()
			s := NewSession(logger, testConfiguration(), eval)

			got := resolveOk(t, s, AnnualDistance)
			if tt.fellBack {
				if got != 180*220 {
					t.Errorf("fallback annual_distance = %v, want %v", got, 180*220)
				}
				// The fallback tier writes back into the evaluator state.
				if eval.writes[AnnualDistance] != 180*220 {
					t.Errorf("evaluator write-back = %v, want %v", eval.writes[AnnualDistance], 180*220)
				}
			} else if got != tt.expected {
				t.Errorf("Resolve(annual_distance) = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestMemoAvoidsRecomputation(t *testing.T) {
	eval := newFakeEvaluator()
	calls := 0
	eval.errs[Annex2CO2] = fmt.Errorf("unavailable")

	logger := zap.NewNop()
	s := NewSession(logger, testConfiguration(), eval)

	// Resolve the same dependent chain twice; the fake evaluator only sees
	// Evaluate calls on the first pass because outcomes are memoized.
	countingEval := &countingEvaluator{inner: eval, calls: &calls}
	s.eval = countingEval

	if _, err := s.Resolve(Savings2026); err != nil {
		t.Fatal(err)
	}
	first := calls
	if _, err := s.Resolve(Savings2026); err != nil {
		t.Fatal(err)
	}
	if calls != first {
		t.Errorf("memoized resolve issued %d extra evaluator calls", calls-first)
	}
}

type countingEvaluator struct {
	inner PrimaryEvaluator
	calls *int
}

func (c *countingEvaluator) Evaluate(id ID) (interface{}, error) {
	*c.calls++
	return c.inner.Evaluate(id)
}

func (c *countingEvaluator) SetValue(id ID, value float64) error {
	return c.inner.SetValue(id, value)
}
