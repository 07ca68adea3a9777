package model

// Priority is the business priority tier of a unit.
type Priority string

const (
	PriorityHigh   Priority = "High"
	PriorityMedium Priority = "Medium"
	PriorityLow    Priority = "Low"
	PriorityNone   Priority = ""
)

// Rank returns the sort rank of a priority (lower = more important).
func (p Priority) Rank() int {
	switch p {
	case PriorityHigh:
		return 0
	case PriorityMedium:
		return 1
	case PriorityLow:
		return 2
	default:
		return 3
	}
}

// Unit is a business unit competing for seats. The unit name is the unique
// join key across units, attendance profiles and allocation results.
type Unit struct {
	Name             string   `json:"name"`
	CurrentHC        int      `json:"current_hc"`
	GrowthPct        float64  `json:"growth_pct"`    // e.g. 0.10 for +10%/year
	AttritionPct     float64  `json:"attrition_pct"` // e.g. 0.05 for -5%/year
	Priority         Priority `json:"priority,omitempty"`
	AllocPctOverride *float64 `json:"alloc_pct_override,omitempty"` // per-unit flat allocation %
	HomeTowerID      string   `json:"home_tower_id,omitempty"`      // placement preference anchor
}

// NetChangePct is the net annual headcount change (growth minus attrition).
func (u Unit) NetChangePct() float64 {
	return u.GrowthPct - u.AttritionPct
}

// ProjectedHC projects headcount over the planning horizon.
func (u Unit) ProjectedHC(horizonMonths int) float64 {
	return float64(u.CurrentHC) * (1 + u.NetChangePct()*float64(horizonMonths)/12)
}
