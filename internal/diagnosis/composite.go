package diagnosis

// DefaultWeights returns the fixed per-KPI composite weights. Weights
// need not sum to 1: the aggregator normalizes over the weights of the
// KPIs that actually scored.
func DefaultWeights() map[KPI]float64 {
	return map[KPI]float64{
		KPIGrossMargin:      0.22,
		KPIOperatingMargin:  0.22,
		KPIDefectRate:       0.18,
		KPIYieldRate:        0.18,
		KPIOnTimeRate:       0.12,
		KPIInventoryToSales: 0.08,
	}
}

// Composite combines the scored KPIs into a single 0-100 weighted
// average. KPIs with an unavailable score are excluded from both the
// numerator and the denominator, so an unscored KPI never drags the
// composite toward zero. Unavailable iff no KPI produced a score.
func Composite(scores map[KPI]Score, weights map[KPI]float64) Value {
	var weighted, totalWeight float64
	for kpi, score := range scores {
		points, ok := score.Points()
		if !ok {
			continue
		}
		w, ok := weights[kpi]
		if !ok {
			continue
		}
		weighted += float64(points) * w
		totalWeight += w
	}
	if totalWeight == 0 {
		return None()
	}
	return Some(weighted / totalWeight)
}
