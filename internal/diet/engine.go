// internal/diet/engine.go
package diet

import (
	"sort"

	"mcp-diet-calc/internal/models"
)

// ComputeTotals sums the selected portions of every group in profiles and
// converts them to macro totals. Groups with no selection still get an
// all-zero entry. Selections for foods missing from the catalog are ignored.
func ComputeTotals(catalog models.FoodCatalog, selections models.SelectionMap, profiles models.BaseProfiles) models.Totals {
	totals := models.Totals{
		Groups: make(map[models.GroupKey]models.GroupTotals, len(profiles)),
	}

	for _, group := range orderedGroups(profiles) {
		base := profiles[group]
		var portions float64
		for _, item := range catalog[group] {
			portions += selections[item.ID]
		}

		gt := models.GroupTotals{}
		if portions > 0 {
			macros := base.Scale(portions)
			gt = models.GroupTotals{
				Portions: portions,
				Kcal:     macros.Kcal,
				Prot:     macros.Prot,
				CHO:      macros.CHO,
				Lip:      macros.Lip,
			}
			totals.Total = totals.Total.Add(macros)
		}
		totals.Groups[group] = gt
	}

	return totals
}

// ComputeAdequacy returns total/requirement*100 per macro, or 0 when the
// requirement is not positive.
func ComputeAdequacy(total models.NutrientProfile, requirements models.RequirementTargets) models.Adequacy {
	a := make(models.Adequacy, len(models.Macros))
	for _, m := range models.Macros {
		req := requirements[m]
		if req > 0 {
			a[m] = total.Get(m) / req * 100
		} else {
			a[m] = 0
		}
	}
	return a
}

// orderedGroups returns the keys of m in display order, with keys outside
// the fixed set appended alphabetically. A fixed order keeps the grand
// total stable across calls.
func orderedGroups[M ~map[models.GroupKey]V, V any](m M) []models.GroupKey {
	keys := make([]models.GroupKey, 0, len(m))
	for _, g := range models.GroupKeys {
		if _, ok := m[g]; ok {
			keys = append(keys, g)
		}
	}

	var extra []models.GroupKey
	for g := range m {
		if !g.Valid() {
			extra = append(extra, g)
		}
	}
	sort.Slice(extra, func(i, j int) bool { return extra[i] < extra[j] })

	return append(keys, extra...)
}
