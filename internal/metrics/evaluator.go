package metrics

// PrimaryEvaluator is the external live-evaluation collaborator. It is
// authoritative when it yields a number; any error or non-numeric result sends
// resolution to the fallback tiers.
type PrimaryEvaluator interface {
	// Evaluate returns the live value for a metric. The result may arrive
	// wrapped in degenerate single-element slices.
	Evaluate(id ID) (interface{}, error)

	// SetValue writes a value into the evaluator's backing state so that
	// dependent live formulas observe it.
	SetValue(id ID, value float64) error
}

// flatten unwraps degenerate single-element slice wrappers, possibly nested.
func flatten(v interface{}) interface{} {
	for {
		s, ok := v.([]interface{})
		if !ok || len(s) != 1 {
			return v
		}
		v = s[0]
	}
}

// asNumber converts the evaluator result types that count as numeric.
func asNumber(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}
