// Package output provides utilities for formatting and displaying estimator results.
package output

import (
	"fmt"
	"strings"

	"github.com/fueltrust/ship-estimator/internal/metrics"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Line is one labeled metric in the estimator report.
type Line struct {
	Label   string
	Metric  metrics.ID
	Outcome metrics.Outcome
	Euro    bool
}

// reportRows fixes the report's labels and order.
var reportRows = []struct {
	label string
	id    metrics.ID
	euro  bool
}{
	{"Annual AVG NM", metrics.AnnualDistance, false},
	{"Average Daily Fuel Use (MT)", metrics.AvgDailyFuel, false},
	{"Annex II Emissions CO₂", metrics.Annex2CO2, false},
	{"Measured CO₂ Estimate", metrics.MeasuredCO2, false},
	{"CO₂ Reduction", metrics.CO2Reduction, false},
	{"EU CO₂", metrics.EuCO2, false},
	{"EU ETS (2024) Liability", metrics.EtsLiability2024, false},
	{"EU Eligible CO₂ Reductions", metrics.EuEligibleReduction, false},
	{"Annex-II CO₂ (2025→)", metrics.Annex2CO22025, false},
	{"Measured CO₂e Estimate", metrics.MeasuredCO2e, false},
	{"Measured CO₂e Reduction", metrics.CO2eReduction, false},
	{"SAVINGS € 2025", metrics.Savings2025, true},
	{"SAVINGS € 2026", metrics.Savings2026, true},
	{"SAVINGS € 2027", metrics.Savings2027, true},
	{"SAVINGS € 2028", metrics.Savings2028, true},
	{"Avg Fraud Savings / yr", metrics.FraudSavings, false},
}

// BuildLines assembles the ordered report lines from one resolution pass.
func BuildLines(results map[metrics.ID]metrics.Outcome) []Line {
	lines := make([]Line, 0, len(reportRows))
	for _, row := range reportRows {
		lines = append(lines, Line{
			Label:   row.label,
			Metric:  row.id,
			Outcome: results[row.id],
			Euro:    row.euro,
		})
	}
	return lines
}

// PrettyString renders a human-readable rather than machine-readable table.
// Unavailable metrics render as a dash.
func PrettyString(lines []Line) string {
	p := message.NewPrinter(language.English)
	width := 0
	for _, line := range lines {
		if len(line.Label) > width {
			width = len(line.Label)
		}
	}

	var b strings.Builder
	b.WriteString("--- Estimator Results ---\n")
	for _, line := range lines {
		value := "–"
		if line.Outcome.Available {
			prefix := ""
			if line.Euro {
				prefix = "€ "
			}
			value = prefix + p.Sprintf("%.2f", line.Outcome.Value)
		}
		fmt.Fprintf(&b, "%-*s | %s\n", width, line.Label, value)
	}
	return b.String()
}

// PrettyFormat prints the human-readable table.
func PrettyFormat(lines []Line) {
	fmt.Print(PrettyString(lines))
}

// CsvString renders the report in comma-separated value format.
func CsvString(lines []Line) string {
	var b strings.Builder
	b.WriteString(`"metric","label","value"` + "\n")
	for _, line := range lines {
		value := ""
		if line.Outcome.Available {
			value = fmt.Sprintf("%.2f", line.Outcome.Value)
		}
		fmt.Fprintf(&b, `"%s","%s","%s"`+"\n", line.Metric, strings.ReplaceAll(line.Label, `"`, `""`), value)
	}
	return b.String()
}

// CsvFormat prints the report in comma-separated value format.
func CsvFormat(lines []Line) {
	fmt.Print(CsvString(lines))
}
