package diagnosis

// rule is one (predicate, tip) pair of the advisory engine. Predicates
// run against raw KPI values, not scores, and a rule only fires when
// its KPI is available.
type rule struct {
	applies func(map[KPI]Value) bool
	tip     string
}

// below fires when the KPI is available and strictly under the limit.
func below(kpi KPI, limit float64) func(map[KPI]Value) bool {
	return func(values map[KPI]Value) bool {
		f, ok := values[kpi].Get()
		return ok && f < limit
	}
}

// above fires when the KPI is available and strictly over the limit.
func above(kpi KPI, limit float64) func(map[KPI]Value) bool {
	return func(values map[KPI]Value) bool {
		f, ok := values[kpi].Get()
		return ok && f > limit
	}
}

// advisoryRules holds the ordered rule list per domain. Order matters:
// tips are emitted in rule order so reports stay reproducible. Rules
// are declared as data rather than branching so the catalogue reads as
// the checklist it is.
var advisoryRules = map[Domain][]rule{
	DomainProfitability: {
		{
			applies: below(KPIGrossMargin, 0.15),
			tip:     "Gross margin is thin. Revisit the cost structure (materials, outsourcing, scrap), renegotiate selling prices, and improve the product mix.",
		},
		{
			applies: below(KPIOperatingMargin, 0.05),
			tip:     "Operating margin is weak. Review fixed and labor cost structure (indirect headcount, overtime, line balancing) and lower the break-even point.",
		},
	},
	DomainQuality: {
		{
			applies: above(KPIDefectRate, 0.03),
			tip:     "Defect rate is elevated. Run a Pareto analysis of the top defect causes (process, equipment, operator, material) and tighten standard work, inspection criteria, and process capability.",
		},
		{
			applies: below(KPIYieldRate, 0.95),
			tip:     "Low yield inflates rework and scrap cost. Review process condition control and the first-article inspection regime.",
		},
	},
	DomainDelivery: {
		{
			applies: below(KPIOnTimeRate, 0.90),
			tip:     "Late deliveries erode trust and trigger penalties. Start with bottleneck processes, subcontractor lead times, and material supply (safety stock).",
		},
		{
			applies: above(KPIInventoryToSales, 0.30),
			tip:     "Inventory is heavy relative to sales. Manage turnover (ABC classification, target stock levels) and improve production planning accuracy.",
		},
	},
}

// fallbackTips is the single positive-status tip emitted per domain
// when no rule fires.
var fallbackTips = map[Domain]string{
	DomainProfitability: "Profitability indicators look healthy. As a next step, break profit down by product and by customer.",
	DomainQuality:       "Quality indicators look healthy. As a next step, break defects down by process and yield down by line.",
	DomainDelivery:      "Delivery and inventory indicators look healthy. As a next step, analyze inventory turnover by item and the causes behind any late orders.",
}

// Advise evaluates every rule of every domain against the raw KPI
// values and collects the firing tips. Rules are never short-circuited;
// a domain with no firing rule gets exactly one positive-status tip, so
// every domain always has at least one tip.
func Advise(values map[KPI]Value) map[Domain][]string {
	tips := make(map[Domain][]string, len(Domains))
	for _, domain := range Domains {
		var fired []string
		for _, r := range advisoryRules[domain] {
			if r.applies(values) {
				fired = append(fired, r.tip)
			}
		}
		if len(fired) == 0 {
			fired = []string{fallbackTips[domain]}
		}
		tips[domain] = fired
	}
	return tips
}
