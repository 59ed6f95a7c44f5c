package metrics

// Outcome is the tagged result of a metric resolution: either an available
// numeric value or Unavailable. Normal-path "no value" is an Outcome, never an
// error.
type Outcome struct {
	Value     float64
	Available bool
}

// Ok wraps an available numeric value.
func Ok(v float64) Outcome {
	return Outcome{Value: v, Available: true}
}

// Unavailable is the absent outcome.
var Unavailable = Outcome{}

// Or returns the outcome's value, or the given default when unavailable.
func (o Outcome) Or(def float64) float64 {
	if o.Available {
		return o.Value
	}
	return def
}
