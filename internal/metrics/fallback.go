package metrics

import (
	"github.com/fueltrust/ship-estimator/pkg/constants"
)

// formula computes one derived metric from the session's inputs and other
// metrics. Dependencies on derived metrics go through Resolve so the full
// resolution chain (and its memo) applies.
type formula func(s *Session) Outcome

// fallbackFormulas is the fixed formula table used when the primary evaluator
// cannot produce a value. Percentage inputs are fractions in [0,1]. Every
// formula is undefined when sea and port days sum to zero.
var fallbackFormulas map[ID]formula

// The table is populated in init rather than in the var declaration so that
// the formulas' references back into Session.Resolve do not form a
// compile-time initialization cycle.
func init() {
	fallbackFormulas = map[ID]formula{
		AnnualDistance: func(s *Session) Outcome {
			sea, port, _, ok := s.voyageDays()
			if !ok {
				return Unavailable
			}
			return Ok(sea*s.input(NmPerSeaDay) + port*s.input(NmPerPortDay))
		},
		AvgDailyFuel: func(s *Session) Outcome {
			sea, port, total, ok := s.voyageDays()
			if !ok {
				return Unavailable
			}
			return Ok((s.input(FuelSea)*sea + s.input(FuelPort)*port) / total)
		},
		Annex2CO2: func(s *Session) Outcome {
			sea, port, _, ok := s.voyageDays()
			if !ok {
				return Unavailable
			}
			cf, _ := s.emissionCoefficient()
			totalFuel := s.input(FuelSea)*sea + s.input(FuelPort)*port
			return Ok(totalFuel * cf)
		},
		MeasuredCO2: func(s *Session) Outcome {
			if _, _, _, ok := s.voyageDays(); !ok {
				return Unavailable
			}
			return Ok(s.dep(Annex2CO2) * (1 - s.input(CO2OveragePct)))
		},
		CO2Reduction: func(s *Session) Outcome {
			if _, _, _, ok := s.voyageDays(); !ok {
				return Unavailable
			}
			return Ok(s.dep(Annex2CO2) - s.dep(MeasuredCO2))
		},
		EuCO2: func(s *Session) Outcome {
			if _, _, _, ok := s.voyageDays(); !ok {
				return Unavailable
			}
			return Ok(s.dep(Annex2CO2) * euVoyageShare(s))
		},
		EtsLiability2024: func(s *Session) Outcome {
			if _, _, _, ok := s.voyageDays(); !ok {
				return Unavailable
			}
			return Ok(s.dep(EuCO2) * s.input(EuaPrice) * constants.ETSLiability2024)
		},
		EuEligibleReduction: func(s *Session) Outcome {
			if _, _, _, ok := s.voyageDays(); !ok {
				return Unavailable
			}
			return Ok(s.dep(CO2Reduction) * euVoyageShare(s))
		},
		Annex2CO22025: func(s *Session) Outcome {
			if _, _, _, ok := s.voyageDays(); !ok {
				return Unavailable
			}
			return Ok(s.dep(Annex2CO2) * constants.CO2eUplift)
		},
		MeasuredCO2e: func(s *Session) Outcome {
			if _, _, _, ok := s.voyageDays(); !ok {
				return Unavailable
			}
			return Ok(s.dep(Annex2CO22025) * (1 - constants.CO2eAbatement))
		},
		CO2eReduction: func(s *Session) Outcome {
			if _, _, _, ok := s.voyageDays(); !ok {
				return Unavailable
			}
			return Ok(s.dep(Annex2CO22025) - s.dep(MeasuredCO2e))
		},
		Savings2025: savingsFormula(2025),
		Savings2026: savingsFormula(2026),
		Savings2027: savingsFormula(2027),
		Savings2028: savingsFormula(2028),
		FraudSavings: func(s *Session) Outcome {
			if _, _, _, ok := s.voyageDays(); !ok {
				return Unavailable
			}
			return Ok(s.dep(Annex2CO2) * s.input(FraudPct) * s.input(EuaPrice))
		},
	}
}

// euVoyageShare is the EU-attributable share of voyages: full weight for
// EU-EU voyages, half weight for in/out-EU voyages.
func euVoyageShare(s *Session) float64 {
	return s.input(EuEuPct) + s.input(InOutEuPct)*0.5
}

// savingsFormula builds the projected-savings formula for one ETS year using
// the fixed phase-in liability schedule.
func savingsFormula(year int) formula {
	liability := constants.LiabilityByYear[year]
	return func(s *Session) Outcome {
		if _, _, _, ok := s.voyageDays(); !ok {
			return Unavailable
		}
		return Ok(s.dep(CO2eReduction) * s.input(EuaPrice) * liability)
	}
}
