// internal/server/tools.go
package server

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/ThinkInAIXYZ/go-mcp/protocol"

	"mcp-diet-calc/internal/catalog"
	"mcp-diet-calc/internal/diet"
	"mcp-diet-calc/internal/models"
)

type GetCatalogParams struct {
	Group     string `json:"group,omitempty" description:"Only return this nutrition group"`
	SessionID string `json:"session_id,omitempty" description:"Include the portions selected in this session"`
}

type SessionParams struct {
	SessionID string `json:"session_id" description:"Session returned by create_session"`
}

type SetPortionParams struct {
	SessionID string      `json:"session_id" description:"Session returned by create_session"`
	FoodID    string      `json:"food_id" description:"Food identifier from the catalog"`
	Value     interface{} `json:"value" description:"Portion count, number or numeric string"`
}

type SetRequirementParams struct {
	SessionID string      `json:"session_id" description:"Session returned by create_session"`
	Macro     string      `json:"macro" description:"One of kcal, prot, cho, lip"`
	Value     interface{} `json:"value" description:"Daily target, number or numeric string"`
}

type ComputeTotalsParams struct {
	Selections map[string]interface{} `json:"selections" description:"Portion count per food id"`
}

type ComputeAdequacyParams struct {
	Total        models.NutrientProfile `json:"total" description:"Grand totals to compare"`
	Requirements map[string]interface{} `json:"requirements,omitempty" description:"Daily targets; defaults are used for missing macros"`
}

type catalogFood struct {
	models.FoodItem
	Selected float64 `json:"selected"`
}

type catalogGroup struct {
	Group models.GroupKey `json:"group"`
	Label string          `json:"label"`
	Foods []catalogFood   `json:"foods"`
}

type catalogResponse struct {
	Loaded bool           `json:"loaded"`
	Groups []catalogGroup `json:"groups"`
}

type totalsResponse struct {
	Rows  []diet.SummaryRow      `json:"rows"`
	Total models.NutrientProfile `json:"total"`
}

type summaryResponse struct {
	SessionID     string                    `json:"session_id"`
	CatalogLoaded bool                      `json:"catalog_loaded"`
	Rows          []diet.SummaryRow         `json:"rows"`
	Total         models.NutrientProfile    `json:"total"`
	Requirements  models.RequirementTargets `json:"requirements"`
	Adequacy      models.Adequacy           `json:"adequacy"`
}

type tool struct {
	description string
	handler     func(*protocol.CallToolRequest) (*protocol.CallToolResult, error)
}

var toolOrder = []string{
	"get_catalog",
	"create_session",
	"set_portion",
	"set_requirement",
	"get_summary",
	"compute_totals",
	"compute_adequacy",
}

func (s *DietServer) registerTools() {
	s.tools = map[string]tool{
		"get_catalog":      {"List the foods of every nutrition group", s.handleGetCatalog},
		"create_session":   {"Start a calculator session with default requirements", s.handleCreateSession},
		"set_portion":      {"Set the portions selected for one food", s.handleSetPortion},
		"set_requirement":  {"Set the daily target for one macro", s.handleSetRequirement},
		"get_summary":      {"Totals per group, grand total and adequacy for a session", s.handleGetSummary},
		"compute_totals":   {"Totals for an ad-hoc selection without a session", s.handleComputeTotals},
		"compute_adequacy": {"Adequacy percentages for given totals and targets", s.handleComputeAdequacy},
	}
}

// extractParams converts the request arguments into target
func extractParams(req *protocol.CallToolRequest, target interface{}) error {
	jsonBytes, err := json.Marshal(req.Arguments)
	if err != nil {
		return fmt.Errorf("%w: %v", errInvalidParams, err)
	}

	if err := json.Unmarshal(jsonBytes, target); err != nil {
		return fmt.Errorf("%w: %v", errInvalidParams, err)
	}

	return nil
}

// rawValue turns a JSON argument back into the text a user would have typed
func rawValue(v interface{}) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case json.Number:
		return t.String()
	default:
		return fmt.Sprint(t)
	}
}

func (s *DietServer) handleGetCatalog(req *protocol.CallToolRequest) (*protocol.CallToolResult, error) {
	var params GetCatalogParams
	if err := extractParams(req, &params); err != nil {
		return nil, err
	}

	groups := models.GroupKeys
	if params.Group != "" {
		g := models.GroupKey(params.Group)
		if !g.Valid() {
			return nil, fmt.Errorf("%w: unknown group %q", errInvalidParams, params.Group)
		}
		groups = []models.GroupKey{g}
	}

	plan := diet.NewPlan()
	if params.SessionID != "" {
		var err error
		if plan, err = s.sessions.Snapshot(params.SessionID); err != nil {
			return nil, err
		}
	}

	resp := catalogResponse{
		Loaded: len(s.catalog) > 0,
		Groups: make([]catalogGroup, 0, len(groups)),
	}
	for _, g := range groups {
		cg := catalogGroup{Group: g, Label: g.Label(), Foods: []catalogFood{}}
		for _, item := range s.catalog[g] {
			cg.Foods = append(cg.Foods, catalogFood{FoodItem: item, Selected: plan.Portion(item.ID)})
		}
		resp.Groups = append(resp.Groups, cg)
	}

	return s.createJSONResponse(resp)
}

func (s *DietServer) handleCreateSession(req *protocol.CallToolRequest) (*protocol.CallToolResult, error) {
	id := s.sessions.Create()
	plan, err := s.sessions.Snapshot(id)
	if err != nil {
		return nil, err
	}

	return s.createJSONResponse(map[string]interface{}{
		"session_id":   id,
		"requirements": plan.Requirements,
	})
}

func (s *DietServer) handleSetPortion(req *protocol.CallToolRequest) (*protocol.CallToolResult, error) {
	var params SetPortionParams
	if err := extractParams(req, &params); err != nil {
		return nil, err
	}
	if params.FoodID == "" {
		return nil, fmt.Errorf("%w: food_id is required", errInvalidParams)
	}

	var stored float64
	err := s.sessions.Update(params.SessionID, func(p *diet.Plan) error {
		return p.Edit(s.catalog, s.profiles, func(next *diet.Plan) {
			stored = next.SetPortion(params.FoodID, rawValue(params.Value))
		})
	})
	if err != nil {
		return nil, err
	}

	resp := map[string]interface{}{
		"food_id":  params.FoodID,
		"portions": stored,
	}
	if item, ok := catalog.Find(s.catalog, params.FoodID); ok {
		resp["nombre"] = item.Name
		resp["group"] = item.Group
	}
	return s.createJSONResponse(resp)
}

func (s *DietServer) handleSetRequirement(req *protocol.CallToolRequest) (*protocol.CallToolResult, error) {
	var params SetRequirementParams
	if err := extractParams(req, &params); err != nil {
		return nil, err
	}

	macro, err := models.ParseMacro(params.Macro)
	if err != nil {
		return nil, err
	}

	var stored float64
	err = s.sessions.Update(params.SessionID, func(p *diet.Plan) error {
		return p.Edit(s.catalog, s.profiles, func(next *diet.Plan) {
			stored = next.SetRequirement(macro, rawValue(params.Value))
		})
	})
	if err != nil {
		return nil, err
	}

	return s.createJSONResponse(map[string]interface{}{
		"macro": macro,
		"value": stored,
	})
}

func (s *DietServer) handleGetSummary(req *protocol.CallToolRequest) (*protocol.CallToolResult, error) {
	var params SessionParams
	if err := extractParams(req, &params); err != nil {
		return nil, err
	}

	plan, err := s.sessions.Snapshot(params.SessionID)
	if err != nil {
		return nil, err
	}

	summary := plan.Summarize(s.catalog, s.profiles)
	return s.createJSONResponse(summaryResponse{
		SessionID:     params.SessionID,
		CatalogLoaded: len(s.catalog) > 0,
		Rows:          summary.Rows(),
		Total:         summary.Totals.Total,
		Requirements:  summary.Requirements,
		Adequacy:      summary.Adequacy,
	})
}

func (s *DietServer) handleComputeTotals(req *protocol.CallToolRequest) (*protocol.CallToolResult, error) {
	var params ComputeTotalsParams
	if err := extractParams(req, &params); err != nil {
		return nil, err
	}

	selections := make(models.SelectionMap, len(params.Selections))
	for id, v := range params.Selections {
		diet.SetPortion(selections, id, rawValue(v))
	}

	totals := diet.ComputeTotals(s.catalog, selections, s.profiles)
	summary := diet.Summary{Totals: totals}
	if !summary.Finite() {
		return nil, diet.ErrOutOfRange
	}
	return s.createJSONResponse(totalsResponse{
		Rows:  summary.Rows(),
		Total: totals.Total,
	})
}

func (s *DietServer) handleComputeAdequacy(req *protocol.CallToolRequest) (*protocol.CallToolResult, error) {
	var params ComputeAdequacyParams
	if err := extractParams(req, &params); err != nil {
		return nil, err
	}

	requirements := models.DefaultRequirements()
	for name, v := range params.Requirements {
		macro, err := models.ParseMacro(name)
		if err != nil {
			return nil, err
		}
		diet.SetRequirement(requirements, macro, rawValue(v))
	}

	adequacy := diet.ComputeAdequacy(params.Total, requirements)
	if !adequacy.Finite() {
		return nil, diet.ErrOutOfRange
	}

	return s.createJSONResponse(map[string]interface{}{
		"requirements": requirements,
		"adequacy":     adequacy,
	})
}
