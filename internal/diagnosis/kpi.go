package diagnosis

import (
	"mfgcli/internal/mapping"
	"mfgcli/internal/table"
)

// KPISet holds every derived KPI plus the raw aggregates the
// presentation layer reports alongside them. Each field is independent:
// no KPI depends on another KPI, only on the raw column sums.
type KPISet struct {
	Sales          Value
	InventoryValue Value
	Values         map[KPI]Value
}

// ComputeKPIs derives all business KPIs from the mapped table. Every
// computation is total: missing columns, unparseable cells and zero
// denominators surface as unavailable values, never as errors.
func ComputeKPIs(t *table.Table, m mapping.Mapping) KPISet {
	sales := SumMapped(t, m, mapping.RoleSales)
	cogs := SumMapped(t, m, mapping.RoleCOGS)
	fixed := SumMapped(t, m, mapping.RoleFixedCost)
	labor := SumMapped(t, m, mapping.RoleLaborCost)

	produced := SumMapped(t, m, mapping.RoleProducedQty)
	good := SumMapped(t, m, mapping.RoleGoodQty)
	defect := SumMapped(t, m, mapping.RoleDefectQty)

	inventoryValue := computeInventoryValue(t, m)

	values := map[KPI]Value{
		KPIGrossMargin:      grossMargin(sales, cogs),
		KPIOperatingMargin:  operatingMargin(sales, cogs, fixed, labor),
		KPIDefectRate:       SafeRatio(defect, produced),
		KPIYieldRate:        SafeRatio(good, produced),
		KPIOnTimeRate:       computeOnTimeRate(t, m),
		KPIInventoryToSales: SafeRatio(inventoryValue, sales),
	}

	return KPISet{
		Sales:          sales,
		InventoryValue: inventoryValue,
		Values:         values,
	}
}

// grossMargin is (sales - cogs) / sales, unavailable when either
// operand is unavailable.
func grossMargin(sales, cogs Value) Value {
	s, sok := sales.Get()
	c, cok := cogs.Get()
	if !sok || !cok {
		return None()
	}
	return SafeRatio(Some(s-c), sales)
}

// operatingMargin is (sales - cogs - fixed - labor) / sales. Unlike
// gross margin, unmapped cost components are treated as zero in the
// subtraction once sales is available: an operator who has not mapped
// a fixed-cost column gets an optimistic estimate rather than an
// unavailable margin. This asymmetry is intentional and matches the
// strictness of gross margin only for sales itself.
func operatingMargin(sales, cogs, fixed, labor Value) Value {
	s, ok := sales.Get()
	if !ok {
		return None()
	}

	profit := s
	for _, cost := range []Value{cogs, fixed, labor} {
		if c, ok := cost.Get(); ok {
			profit -= c
		}
	}
	return SafeRatio(Some(profit), sales)
}

// computeOnTimeRate parses the due-date and ship-date columns, keeps
// rows where both parse, and returns the fraction of those rows where
// the shipment left on or before the due date. Unavailable when either
// column is unset or no row has both dates parseable.
func computeOnTimeRate(t *table.Table, m mapping.Mapping) Value {
	dueCol, ok := mapping.Resolve(t, m, mapping.RoleDueDate)
	if !ok {
		return None()
	}
	shipCol, ok := mapping.Resolve(t, m, mapping.RoleShipDate)
	if !ok {
		return None()
	}

	dueCells := t.Column(dueCol)
	shipCells := t.Column(shipCol)

	valid := 0
	onTime := 0
	for i := range dueCells {
		due, dok := parseDate(dueCells[i])
		ship, sok := parseDate(shipCells[i])
		if !dok || !sok {
			continue
		}
		valid++
		if !ship.After(due) {
			onTime++
		}
	}
	if valid == 0 {
		return None()
	}
	return Some(float64(onTime) / float64(valid))
}

// computeInventoryValue sums inventory_qty * unit_cost per row,
// treating unparseable cells in either column as zero for that row.
// Unavailable only when either column is entirely unset, not merely
// when some cells fail to parse.
func computeInventoryValue(t *table.Table, m mapping.Mapping) Value {
	invCol, ok := mapping.Resolve(t, m, mapping.RoleInventoryQty)
	if !ok {
		return None()
	}
	costCol, ok := mapping.Resolve(t, m, mapping.RoleUnitCost)
	if !ok {
		return None()
	}

	qty := CoerceNumeric(t, invCol)
	cost := CoerceNumeric(t, costCol)

	total := 0.0
	for i := range qty {
		q, _ := qty[i].Get()
		c, _ := cost[i].Get()
		total += q * c
	}
	return Some(total)
}
