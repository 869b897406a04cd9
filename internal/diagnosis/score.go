package diagnosis

// Direction states which side of the threshold pair is healthy.
type Direction int

const (
	// AscendingGood scores higher values better (margins, yield).
	AscendingGood Direction = iota
	// DescendingGood scores lower values better (defect rate,
	// inventory-to-sales).
	DescendingGood
)

// Policy is the fixed (good, warn, direction) triple that classifies
// one KPI value into a score tier. Policies are process-wide constants
// today but are injected rather than read from globals so a future
// configuration surface does not change the scoring contract.
type Policy struct {
	Good      float64   `json:"good"`
	Warn      float64   `json:"warn"`
	Direction Direction `json:"direction"`
}

// Score classifies a KPI value against the policy. An unavailable
// input propagates to an unavailable score unconditionally; the value
// is never clamped or rounded.
//
// Ascending-good: value >= good -> 100, warn <= value < good -> 70,
// value < warn -> 40. Descending-good mirrors the comparisons:
// value <= good -> 100, good < value <= warn -> 70, value > warn -> 40.
func (p Policy) Score(v Value) Score {
	f, ok := v.Get()
	if !ok {
		return NoScore()
	}

	if p.Direction == AscendingGood {
		switch {
		case f >= p.Good:
			return ScoreOf(ScoreGood)
		case f >= p.Warn:
			return ScoreOf(ScoreWarn)
		default:
			return ScoreOf(ScoreRisk)
		}
	}

	switch {
	case f <= p.Good:
		return ScoreOf(ScoreGood)
	case f <= p.Warn:
		return ScoreOf(ScoreWarn)
	default:
		return ScoreOf(ScoreRisk)
	}
}

// DefaultPolicies returns the fixed per-KPI threshold policies.
func DefaultPolicies() map[KPI]Policy {
	return map[KPI]Policy{
		KPIGrossMargin:      {Good: 0.25, Warn: 0.15, Direction: AscendingGood},
		KPIOperatingMargin:  {Good: 0.10, Warn: 0.05, Direction: AscendingGood},
		KPIDefectRate:       {Good: 0.01, Warn: 0.03, Direction: DescendingGood},
		KPIYieldRate:        {Good: 0.98, Warn: 0.95, Direction: AscendingGood},
		KPIOnTimeRate:       {Good: 0.95, Warn: 0.90, Direction: AscendingGood},
		KPIInventoryToSales: {Good: 0.15, Warn: 0.30, Direction: DescendingGood},
	}
}

// ScoreAll classifies every KPI value against its policy. KPIs without
// a policy are left unscored.
func ScoreAll(values map[KPI]Value, policies map[KPI]Policy) map[KPI]Score {
	scores := make(map[KPI]Score, len(values))
	for kpi, v := range values {
		policy, ok := policies[kpi]
		if !ok {
			scores[kpi] = NoScore()
			continue
		}
		scores[kpi] = policy.Score(v)
	}
	return scores
}
