// internal/diet/plan.go
package diet

import (
	"errors"

	"mcp-diet-calc/internal/models"
)

// ErrOutOfRange is returned by Edit when the edited plan would produce
// totals or adequacy that overflow a float64.
var ErrOutOfRange = errors.New("value out of range")

// Plan is the editable state of one calculator session: what the user
// picked and what they are aiming for.
type Plan struct {
	Selections   models.SelectionMap
	Requirements models.RequirementTargets
}

func NewPlan() *Plan {
	return &Plan{
		Selections:   models.SelectionMap{},
		Requirements: models.DefaultRequirements(),
	}
}

func (p *Plan) SetPortion(foodID, raw string) float64 {
	return SetPortion(p.Selections, foodID, raw)
}

func (p *Plan) SetRequirement(macro models.Macro, raw string) float64 {
	return SetRequirement(p.Requirements, macro, raw)
}

func (p *Plan) Portion(foodID string) float64 {
	return p.Selections[foodID]
}

// Clone returns a deep copy of the plan.
func (p *Plan) Clone() *Plan {
	out := &Plan{
		Selections:   make(models.SelectionMap, len(p.Selections)),
		Requirements: p.Requirements.Clone(),
	}
	for id, v := range p.Selections {
		out.Selections[id] = v
	}
	return out
}

// Edit applies fn to a copy of the plan and keeps the result only if its
// summary is still finite. On ErrOutOfRange the plan is left as it was.
func (p *Plan) Edit(catalog models.FoodCatalog, profiles models.BaseProfiles, fn func(next *Plan)) error {
	next := p.Clone()
	fn(next)
	if !next.Summarize(catalog, profiles).Finite() {
		return ErrOutOfRange
	}
	*p = *next
	return nil
}

// Summarize computes fresh totals and adequacy for the current state.
func (p *Plan) Summarize(catalog models.FoodCatalog, profiles models.BaseProfiles) Summary {
	totals := ComputeTotals(catalog, p.Selections, profiles)
	return Summary{
		Totals:       totals,
		Requirements: p.Requirements.Clone(),
		Adequacy:     ComputeAdequacy(totals.Total, p.Requirements),
	}
}

type Summary struct {
	Totals       models.Totals
	Requirements models.RequirementTargets
	Adequacy     models.Adequacy
}

// Finite reports whether every number in the summary can be encoded.
func (s Summary) Finite() bool {
	for _, g := range s.Totals.Groups {
		if !finite(g.Portions) || !g.Profile().Finite() {
			return false
		}
	}
	return s.Totals.Total.Finite() && s.Adequacy.Finite()
}

// SummaryRow is one line of the summary table
type SummaryRow struct {
	Group models.GroupKey `json:"group"`
	Label string          `json:"label"`
	models.GroupTotals
}

// Rows returns the group lines in display order.
func (s Summary) Rows() []SummaryRow {
	rows := make([]SummaryRow, 0, len(s.Totals.Groups))
	for _, g := range orderedGroups(s.Totals.Groups) {
		rows = append(rows, SummaryRow{
			Group:       g,
			Label:       g.Label(),
			GroupTotals: s.Totals.Groups[g],
		})
	}
	return rows
}
