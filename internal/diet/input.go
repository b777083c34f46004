// internal/diet/input.go
package diet

import (
	"math"
	"strconv"
	"strings"

	"mcp-diet-calc/internal/models"
)

// ParseAmount reads a user-typed number. Anything that is not a finite
// number comes back as 0; negative values are returned as-is.
func ParseAmount(raw string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || !finite(v) {
		return 0
	}
	return v
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// SetPortion stores the portion count typed for a food. Unparsable and
// negative input is stored as 0. There is no upper bound.
func SetPortion(selections models.SelectionMap, foodID, raw string) float64 {
	v := ParseAmount(raw)
	if v < 0 {
		v = 0
	}
	selections[foodID] = v
	return v
}

// SetRequirement stores the daily target for one macro, clamped to >= 0.
func SetRequirement(requirements models.RequirementTargets, macro models.Macro, raw string) float64 {
	v := math.Max(0, ParseAmount(raw))
	requirements[macro] = v
	return v
}
