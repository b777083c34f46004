// internal/models/nutrition.go
package models

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

var ErrUnknownMacro = errors.New("unknown macro")

// Macro identifies one of the four tracked nutrients
type Macro string

const (
	MacroKcal Macro = "kcal"
	MacroProt Macro = "prot"
	MacroCHO  Macro = "cho"
	MacroLip  Macro = "lip"
)

// Macros lists the tracked nutrients in display order
var Macros = []Macro{MacroKcal, MacroProt, MacroCHO, MacroLip}

func ParseMacro(s string) (Macro, error) {
	m := Macro(strings.ToLower(strings.TrimSpace(s)))
	switch m {
	case MacroKcal, MacroProt, MacroCHO, MacroLip:
		return m, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownMacro, s)
}

// NutrientProfile is the macro content of one portion, or an accumulated total
type NutrientProfile struct {
	Kcal float64 `json:"kcal"`
	Prot float64 `json:"prot"`
	CHO  float64 `json:"cho"`
	Lip  float64 `json:"lip"`
}

func (p NutrientProfile) Get(m Macro) float64 {
	switch m {
	case MacroKcal:
		return p.Kcal
	case MacroProt:
		return p.Prot
	case MacroCHO:
		return p.CHO
	case MacroLip:
		return p.Lip
	}
	return 0
}

func (p NutrientProfile) Add(o NutrientProfile) NutrientProfile {
	return NutrientProfile{
		Kcal: p.Kcal + o.Kcal,
		Prot: p.Prot + o.Prot,
		CHO:  p.CHO + o.CHO,
		Lip:  p.Lip + o.Lip,
	}
}

func (p NutrientProfile) Scale(n float64) NutrientProfile {
	return NutrientProfile{
		Kcal: p.Kcal * n,
		Prot: p.Prot * n,
		CHO:  p.CHO * n,
		Lip:  p.Lip * n,
	}
}

// Finite reports whether every macro is a finite number, i.e. encodable as JSON
func (p NutrientProfile) Finite() bool {
	return finite(p.Kcal) && finite(p.Prot) && finite(p.CHO) && finite(p.Lip)
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

type GroupKey string

const (
	GroupCereals    GroupKey = "cereales"
	GroupVegetables GroupKey = "verduras"
	GroupFruits     GroupKey = "frutas"
	GroupDairy      GroupKey = "lacteos"
	GroupMeats      GroupKey = "carnes"
	GroupLegumes    GroupKey = "leguminosas"
	GroupFats       GroupKey = "lipidos"
	GroupOils       GroupKey = "aceites"
	GroupSugars     GroupKey = "azucares"
)

// GroupKeys lists the nutrition groups in display order
var GroupKeys = []GroupKey{
	GroupCereals,
	GroupVegetables,
	GroupFruits,
	GroupDairy,
	GroupMeats,
	GroupLegumes,
	GroupFats,
	GroupOils,
	GroupSugars,
}

var groupLabels = map[GroupKey]string{
	GroupCereals:    "Cereales y Papas",
	GroupVegetables: "Verduras",
	GroupFruits:     "Frutas",
	GroupDairy:      "Lácteos",
	GroupMeats:      "Carnes",
	GroupLegumes:    "Leguminosas",
	GroupFats:       "Ricos en Lípidos",
	GroupOils:       "Aceites",
	GroupSugars:     "Azúcares",
}

func (g GroupKey) Valid() bool {
	_, ok := groupLabels[g]
	return ok
}

// Label returns the display name of the group, falling back to the
// capitalized key for anything outside the fixed set.
func (g GroupKey) Label() string {
	if label, ok := groupLabels[g]; ok {
		return label
	}
	if g == "" {
		return ""
	}
	s := string(g)
	return strings.ToUpper(s[:1]) + s[1:]
}

// BaseProfiles maps each group to the macro content of one portion
type BaseProfiles map[GroupKey]NutrientProfile

// DefaultProfiles returns the per-portion table for the nine groups.
// A fresh map is returned on every call.
func DefaultProfiles() BaseProfiles {
	return BaseProfiles{
		GroupCereals:    {Kcal: 140, Prot: 3, CHO: 30, Lip: 1},
		GroupVegetables: {Kcal: 25, Prot: 2, CHO: 4, Lip: 0},
		GroupFruits:     {Kcal: 65, Prot: 1, CHO: 15, Lip: 0},
		GroupDairy:      {Kcal: 120, Prot: 8, CHO: 12, Lip: 5},
		GroupMeats:      {Kcal: 75, Prot: 7, CHO: 0, Lip: 5},
		GroupLegumes:    {Kcal: 100, Prot: 7, CHO: 17, Lip: 1},
		GroupFats:       {Kcal: 45, Prot: 0, CHO: 0, Lip: 5},
		GroupOils:       {Kcal: 45, Prot: 0, CHO: 0, Lip: 5},
		GroupSugars:     {Kcal: 20, Prot: 0, CHO: 5, Lip: 0},
	}
}

type FoodItem struct {
	ID      string   `json:"id" yaml:"id"`
	Name    string   `json:"nombre" yaml:"nombre"`
	Portion string   `json:"porcion" yaml:"porcion"` // display only
	Group   GroupKey `json:"-" yaml:"-"`
}

// FoodCatalog keeps items in source order within each group
type FoodCatalog map[GroupKey][]FoodItem

// SelectionMap holds the selected portion count per food id
type SelectionMap map[string]float64

// RequirementTargets holds the daily target per macro
type RequirementTargets map[Macro]float64

func DefaultRequirements() RequirementTargets {
	return RequirementTargets{
		MacroKcal: 2000,
		MacroProt: 80,
		MacroCHO:  250,
		MacroLip:  60,
	}
}

func (r RequirementTargets) Clone() RequirementTargets {
	out := make(RequirementTargets, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

type GroupTotals struct {
	Portions float64 `json:"portions"`
	Kcal     float64 `json:"kcal"`
	Prot     float64 `json:"prot"`
	CHO      float64 `json:"cho"`
	Lip      float64 `json:"lip"`
}

func (g GroupTotals) Profile() NutrientProfile {
	return NutrientProfile{Kcal: g.Kcal, Prot: g.Prot, CHO: g.CHO, Lip: g.Lip}
}

type Totals struct {
	Groups map[GroupKey]GroupTotals `json:"groups"`
	Total  NutrientProfile          `json:"total"`
}

// Adequacy is the percentage of each requirement covered by the totals
type Adequacy map[Macro]float64

func (a Adequacy) Finite() bool {
	for _, v := range a {
		if !finite(v) {
			return false
		}
	}
	return true
}
