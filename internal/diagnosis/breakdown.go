package diagnosis

import (
	"sort"

	"mfgcli/internal/mapping"
	"mfgcli/internal/table"
)

// ComputeBreakdowns builds the per-group rollups that are derivable
// from the mapping: defect rate by item, yield by line, and defect
// count by reason. A breakdown whose required columns are unset is
// skipped silently; absence is not an error.
func ComputeBreakdowns(t *table.Table, m mapping.Mapping) []Breakdown {
	var breakdowns []Breakdown

	if b, ok := defectRateByItem(t, m); ok {
		breakdowns = append(breakdowns, b)
	}
	if b, ok := yieldByLine(t, m); ok {
		breakdowns = append(breakdowns, b)
	}
	if b, ok := defectsByReason(t, m); ok {
		breakdowns = append(breakdowns, b)
	}
	return breakdowns
}

// defectRateByItem groups by item and derives defect_qty/produced_qty
// per group, worst rate first.
func defectRateByItem(t *table.Table, m mapping.Mapping) (Breakdown, bool) {
	rows, ok := groupSums(t, m, mapping.RoleItem, mapping.RoleDefectQty, mapping.RoleProducedQty)
	if !ok {
		return Breakdown{}, false
	}
	for i := range rows {
		rows[i].Ratio = SafeRatio(Some(rows[i].Numerator), Some(rows[i].Denominator))
	}
	sortByRatioDesc(rows)
	return Breakdown{Kind: BreakdownDefectRateByItem, Rows: rows}, true
}

// yieldByLine groups by line and derives good_qty/produced_qty per
// group, worst yield first.
func yieldByLine(t *table.Table, m mapping.Mapping) (Breakdown, bool) {
	rows, ok := groupSums(t, m, mapping.RoleLine, mapping.RoleGoodQty, mapping.RoleProducedQty)
	if !ok {
		return Breakdown{}, false
	}
	for i := range rows {
		rows[i].Ratio = SafeRatio(Some(rows[i].Numerator), Some(rows[i].Denominator))
	}
	sortByRatioAsc(rows)
	return Breakdown{Kind: BreakdownYieldByLine, Rows: rows}, true
}

// defectsByReason groups by defect reason and sums defect_qty per
// group in Pareto order (largest count first). The ratio is each
// reason's share of total defects.
func defectsByReason(t *table.Table, m mapping.Mapping) (Breakdown, bool) {
	reasonCol, ok := mapping.Resolve(t, m, mapping.RoleDefectReason)
	if !ok {
		return Breakdown{}, false
	}
	defectCol, ok := mapping.Resolve(t, m, mapping.RoleDefectQty)
	if !ok {
		return Breakdown{}, false
	}

	keys := t.Column(reasonCol)
	defects := CoerceNumeric(t, defectCol)

	rows := accumulate(keys, defects, nil)
	total := 0.0
	for _, row := range rows {
		total += row.Numerator
	}
	for i := range rows {
		rows[i].Ratio = SafeRatio(Some(rows[i].Numerator), Some(total))
	}

	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Numerator != rows[j].Numerator {
			return rows[i].Numerator > rows[j].Numerator
		}
		return rows[i].Key < rows[j].Key
	})
	return Breakdown{Kind: BreakdownDefectsByReason, Rows: rows}, true
}

// groupSums resolves the key, numerator and denominator roles and sums
// both numeric columns per distinct key. Coercion failures count as
// zero toward the sums.
func groupSums(t *table.Table, m mapping.Mapping, keyRole, numRole, denRole mapping.Role) ([]BreakdownRow, bool) {
	keyCol, ok := mapping.Resolve(t, m, keyRole)
	if !ok {
		return nil, false
	}
	numCol, ok := mapping.Resolve(t, m, numRole)
	if !ok {
		return nil, false
	}
	denCol, ok := mapping.Resolve(t, m, denRole)
	if !ok {
		return nil, false
	}

	keys := t.Column(keyCol)
	nums := CoerceNumeric(t, numCol)
	dens := CoerceNumeric(t, denCol)
	return accumulate(keys, nums, dens), true
}

// accumulate sums numerator (and optionally denominator) values per
// distinct key, preserving first-seen key order. Rows with an empty
// key are skipped.
func accumulate(keys []string, nums, dens []Value) []BreakdownRow {
	index := make(map[string]int)
	var rows []BreakdownRow

	for i, key := range keys {
		if key == "" {
			continue
		}
		idx, seen := index[key]
		if !seen {
			idx = len(rows)
			index[key] = idx
			rows = append(rows, BreakdownRow{Key: key})
		}
		if n, ok := nums[i].Get(); ok {
			rows[idx].Numerator += n
		}
		if dens != nil {
			if d, ok := dens[i].Get(); ok {
				rows[idx].Denominator += d
			}
		}
	}
	return rows
}

// sortByRatioDesc orders rows worst-first for rate-style breakdowns.
// Unavailable ratios sink to the end; ties break on the key.
func sortByRatioDesc(rows []BreakdownRow) {
	sort.SliceStable(rows, func(i, j int) bool {
		ri, iok := rows[i].Ratio.Get()
		rj, jok := rows[j].Ratio.Get()
		if iok != jok {
			return iok
		}
		if ri != rj {
			return ri > rj
		}
		return rows[i].Key < rows[j].Key
	})
}

// sortByRatioAsc orders rows worst-first for yield-style breakdowns.
func sortByRatioAsc(rows []BreakdownRow) {
	sort.SliceStable(rows, func(i, j int) bool {
		ri, iok := rows[i].Ratio.Get()
		rj, jok := rows[j].Ratio.Get()
		if iok != jok {
			return iok
		}
		if ri != rj {
			return ri < rj
		}
		return rows[i].Key < rows[j].Key
	})
}
