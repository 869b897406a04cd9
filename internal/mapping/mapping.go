// Package mapping defines the semantic column roles of the diagnosis
// pipeline and resolves operator-supplied role-to-column assignments
// against a loaded table.
package mapping

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v2"

	"mfgcli/internal/table"
)

// Role identifies one semantic field the diagnosis pipeline can consume.
type Role string

// The fixed role enumeration. Financial roles feed the profitability
// KPIs, quantity roles the quality KPIs, date roles the delivery KPI,
// and the key roles drive the per-group breakdowns.
const (
	RoleSales        Role = "sales"
	RoleCOGS         Role = "cogs"
	RoleFixedCost    Role = "fixed_cost"
	RoleLaborCost    Role = "labor_cost"
	RoleProducedQty  Role = "produced_qty"
	RoleGoodQty      Role = "good_qty"
	RoleDefectQty    Role = "defect_qty"
	RoleDueDate      Role = "due_date"
	RoleShipDate     Role = "ship_date"
	RoleInventoryQty Role = "inventory_qty"
	RoleUnitCost     Role = "unit_cost"
	RoleUnitPrice    Role = "unit_price"
	RoleItem         Role = "item"
	RoleLine         Role = "line"
	RoleProcess      Role = "process"
	RoleDefectReason Role = "defect_reason"
)

// Roles lists every known role in declaration order.
var Roles = []Role{
	RoleSales, RoleCOGS, RoleFixedCost, RoleLaborCost,
	RoleProducedQty, RoleGoodQty, RoleDefectQty,
	RoleDueDate, RoleShipDate,
	RoleInventoryQty, RoleUnitCost, RoleUnitPrice,
	RoleItem, RoleLine, RoleProcess, RoleDefectReason,
}

// Unset is the sentinel for "this role is not mapped". Absence is the
// expected steady state for optional roles, never an error.
const Unset = ""

// Mapping assigns a column name (or Unset) to each semantic role.
type Mapping map[Role]string

// Column returns the column name mapped to role, or Unset.
func (m Mapping) Column(role Role) string {
	return m[role]
}

// Resolve returns the column mapped to role when the role is set and
// the column exists in the table. The boolean is false otherwise.
func Resolve(t *table.Table, m Mapping, role Role) (string, bool) {
	col := m.Column(role)
	if col == Unset || !t.HasColumn(col) {
		return Unset, false
	}
	return col, true
}

// Validate checks the mapping invariant: every mapped column name must
// exist in the table's column set.
func (m Mapping) Validate(t *table.Table) error {
	var missing []string
	for role, col := range m {
		if col != Unset && !t.HasColumn(col) {
			missing = append(missing, fmt.Sprintf("%s -> %q", role, col))
		}
	}
	if len(missing) == 0 {
		return nil
	}
	sort.Strings(missing)
	return fmt.Errorf("mapped columns not found in table: %v", missing)
}

// Parse builds a Mapping from raw role-name/column-name pairs,
// rejecting unknown roles.
func Parse(raw map[string]string) (Mapping, error) {
	known := make(map[Role]struct{}, len(Roles))
	for _, r := range Roles {
		known[r] = struct{}{}
	}

	m := make(Mapping, len(raw))
	for name, col := range raw {
		role := Role(name)
		if _, ok := known[role]; !ok {
			return nil, fmt.Errorf("unknown role: %s", name)
		}
		m[role] = col
	}
	return m, nil
}

// LoadFile reads a YAML mapping file of role: column pairs.
func LoadFile(path string) (Mapping, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read mapping file: %w", err)
	}

	var raw map[string]string
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse mapping file: %w", err)
	}

	m, err := Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("mapping file %s: %w", path, err)
	}
	return m, nil
}
