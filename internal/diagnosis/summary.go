package diagnosis

import (
	"fmt"
	"strings"
)

// formatPercent renders a rate KPI for the summary, with "-" for
// unavailable values.
func formatPercent(v Value, decimals int) string {
	f, ok := v.Get()
	if !ok {
		return "-"
	}
	return fmt.Sprintf("%.*f%%", decimals, f*100)
}

// Summary renders the plain-text diagnostic block: the composite
// score, each headline KPI, and a risk list of every KPI that scored
// below 85, with sub-60 scores flagged more severely. The text is
// meant to be pasted directly into a consulting note.
func (r *Report) Summary() string {
	var b strings.Builder

	composite := "-"
	if f, ok := r.Composite.Get(); ok {
		composite = fmt.Sprintf("%.1f/100", f)
	}
	fmt.Fprintf(&b, "- Composite score: %s\n", composite)

	fmt.Fprintf(&b, "- Profitability: gross margin %s / operating margin %s\n",
		formatPercent(r.KPIs[KPIGrossMargin], 1),
		formatPercent(r.KPIs[KPIOperatingMargin], 1))
	fmt.Fprintf(&b, "- Quality: defect rate %s / yield %s\n",
		formatPercent(r.KPIs[KPIDefectRate], 2),
		formatPercent(r.KPIs[KPIYieldRate], 2))
	fmt.Fprintf(&b, "- Delivery: on-time rate %s\n",
		formatPercent(r.KPIs[KPIOnTimeRate], 1))
	if r.KPIs[KPIInventoryToSales].Available() {
		fmt.Fprintf(&b, "- Inventory: inventory/sales %s\n",
			formatPercent(r.KPIs[KPIInventoryToSales], 1))
	}

	b.WriteString("- Key risks:\n")
	risks := 0
	for _, kpi := range KPIs {
		points, ok := r.Scores[kpi].Points()
		if !ok || points >= 85 {
			continue
		}
		risks++
		if points < 60 {
			fmt.Fprintf(&b, "  - [risk] %s: below standard (score %d)\n", kpi.Label(), points)
		} else {
			fmt.Fprintf(&b, "  - [caution] %s: improvement recommended (score %d)\n", kpi.Label(), points)
		}
	}
	if risks == 0 {
		b.WriteString("  - no warnings (rule-based)\n")
	}

	return b.String()
}
