package diagnosis

import (
	"encoding/json"
	"time"
)

// Value is an optional real number. The zero value is Unavailable,
// the explicit "no value could be computed" state, which is distinct
// from zero and propagates silently through every downstream
// computation instead of raising an error.
type Value struct {
	val float64
	ok  bool
}

// Some wraps a real number in an available Value.
func Some(v float64) Value {
	return Value{val: v, ok: true}
}

// None returns the unavailable Value.
func None() Value {
	return Value{}
}

// Available reports whether the value could be computed.
func (v Value) Available() bool {
	return v.ok
}

// Get returns the numeric value and whether it is available.
func (v Value) Get() (float64, bool) {
	return v.val, v.ok
}

// Float returns the numeric value, or 0 when unavailable. Callers that
// need to distinguish zero from unavailable use Get or Available.
func (v Value) Float() float64 {
	return v.val
}

// MarshalJSON renders unavailable values as null.
func (v Value) MarshalJSON() ([]byte, error) {
	if !v.ok {
		return []byte("null"), nil
	}
	return json.Marshal(v.val)
}

// UnmarshalJSON accepts null as unavailable.
func (v *Value) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*v = None()
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	*v = Some(f)
	return nil
}

// Score is the discrete classification of one KPI value against its
// threshold policy: 100, 70, 40, or unavailable. The zero value is
// unavailable.
type Score struct {
	points int
	ok     bool
}

// Discrete score tiers.
const (
	ScoreGood = 100
	ScoreWarn = 70
	ScoreRisk = 40
)

// ScoreOf wraps a score tier in an available Score.
func ScoreOf(points int) Score {
	return Score{points: points, ok: true}
}

// NoScore returns the unavailable Score.
func NoScore() Score {
	return Score{}
}

// Available reports whether the KPI could be scored.
func (s Score) Available() bool {
	return s.ok
}

// Points returns the score tier and whether it is available.
func (s Score) Points() (int, bool) {
	return s.points, s.ok
}

// MarshalJSON renders unavailable scores as null.
func (s Score) MarshalJSON() ([]byte, error) {
	if !s.ok {
		return []byte("null"), nil
	}
	return json.Marshal(s.points)
}

// UnmarshalJSON accepts null as unavailable.
func (s *Score) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*s = NoScore()
		return nil
	}
	var p int
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*s = ScoreOf(p)
	return nil
}

// Signal is the traffic-light classification a presentation layer
// renders next to each score.
type Signal string

const (
	SignalGood    Signal = "good"    // score >= 85
	SignalCaution Signal = "caution" // 60 <= score < 85
	SignalRisk    Signal = "risk"    // score < 60
	SignalNeutral Signal = "neutral" // unavailable
)

// SignalFor maps a score to its traffic-light signal.
func SignalFor(s Score) Signal {
	points, ok := s.Points()
	switch {
	case !ok:
		return SignalNeutral
	case points >= 85:
		return SignalGood
	case points >= 60:
		return SignalCaution
	default:
		return SignalRisk
	}
}

// KPI identifies one derived business metric.
type KPI string

const (
	KPIGrossMargin      KPI = "gross_margin"
	KPIOperatingMargin  KPI = "operating_margin"
	KPIDefectRate       KPI = "defect_rate"
	KPIYieldRate        KPI = "yield_rate"
	KPIOnTimeRate       KPI = "on_time_rate"
	KPIInventoryToSales KPI = "inventory_to_sales"
)

// KPIs lists every KPI in reporting order.
var KPIs = []KPI{
	KPIGrossMargin,
	KPIOperatingMargin,
	KPIDefectRate,
	KPIYieldRate,
	KPIOnTimeRate,
	KPIInventoryToSales,
}

// Label returns the human-readable name used in summaries and reports.
func (k KPI) Label() string {
	switch k {
	case KPIGrossMargin:
		return "gross margin"
	case KPIOperatingMargin:
		return "operating margin"
	case KPIDefectRate:
		return "defect rate"
	case KPIYieldRate:
		return "yield"
	case KPIOnTimeRate:
		return "on-time delivery rate"
	case KPIInventoryToSales:
		return "inventory-to-sales ratio"
	default:
		return string(k)
	}
}

// Domain groups KPIs for advisory purposes.
type Domain string

const (
	DomainProfitability Domain = "profitability"
	DomainQuality       Domain = "quality"
	DomainDelivery      Domain = "delivery_inventory"
)

// Domains lists the advisory domains in reporting order.
var Domains = []Domain{DomainProfitability, DomainQuality, DomainDelivery}

// Report is the complete outcome of one diagnosis run over a single
// table and mapping. Every field is derived fresh per run; nothing is
// persisted between runs.
type Report struct {
	GeneratedAt time.Time `json:"generated_at"`

	// Headline aggregates the presentation layer shows as metric tiles.
	Sales          Value `json:"sales"`
	InventoryValue Value `json:"inventory_value"`

	KPIs      map[KPI]Value      `json:"kpis"`
	Scores    map[KPI]Score      `json:"scores"`
	Signals   map[KPI]Signal     `json:"signals"`
	Composite Value              `json:"composite"`
	Tips      map[Domain][]string `json:"tips"`

	Breakdowns []Breakdown `json:"breakdowns"`
}

// BreakdownKind identifies one of the per-group rollups.
type BreakdownKind string

const (
	BreakdownDefectRateByItem BreakdownKind = "defect_rate_by_item"
	BreakdownYieldByLine      BreakdownKind = "yield_by_line"
	BreakdownDefectsByReason  BreakdownKind = "defects_by_reason"
)

// BreakdownRow is one group in a rollup: the group key, the summed
// numerator and denominator, and the derived ratio.
type BreakdownRow struct {
	Key         string  `json:"key"`
	Numerator   float64 `json:"numerator"`
	Denominator float64 `json:"denominator"`
	Ratio       Value   `json:"ratio"`
}

// Breakdown is one grouped rollup table.
type Breakdown struct {
	Kind BreakdownKind  `json:"kind"`
	Rows []BreakdownRow `json:"rows"`
}
