/*
scenarios.go - Demo datasets for testing and demonstrations

PURPOSE:

	Provides pre-built MASTER sheets that populate the workbook with
	realistic order rows. Each dataset is a YAML file under scenarios/,
	one entry per line item, embedded in the binary.

AVAILABLE SCENARIOS:

	lincoln:  two schools, pick-up and shipped orders, popcorn and coffee
	messy:    every data-quality finding plus unparseable cells

HOW SCENARIOS WORK:
 1. Reset the workbook when the backend supports it, otherwise clear MASTER
 2. Build a MASTER header wide enough for the MASTER layout
 3. Place each row's values at their MASTER columns
 4. Write header + rows to MASTER

USAGE VIA API:

	POST /api/scenarios/load
	{"scenario_id": "lincoln"}

ADDING NEW SCENARIOS:
 1. Add scenarios/<id>.yaml with id, name, description and rows
 2. Nothing else: files are discovered at startup

NOTE:

	Loading a scenario replaces MASTER and, on resettable backends, every
	other sheet. Only use in development/demo environments.

SEE ALSO:
  - handlers.go: ListScenarios, LoadScenario handlers
  - orders/schema.go: MasterSchema
*/
package api

import (
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"net/http"
	"sort"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/jfc974-droid/order-management-system/orders"
)

// =============================================================================
// SCENARIO DEFINITIONS
// =============================================================================

//go:embed scenarios/*.yaml
var scenarioFS embed.FS

// Scenario is one demo dataset.
type Scenario struct {
	ID          string        `yaml:"id"`
	Name        string        `yaml:"name"`
	Description string        `yaml:"description"`
	Rows        []ScenarioRow `yaml:"rows"`
}

// ScenarioRow is one MASTER line item. Every value is the raw cell text.
type ScenarioRow struct {
	Order    string `yaml:"order"`
	Delivery string `yaml:"delivery"`
	Quantity string `yaml:"quantity"`
	Flavor   string `yaml:"flavor"`
	Price    string `yaml:"price"`
	Billing  string `yaml:"billing"`
	School   string `yaml:"school"`
	Student  string `yaml:"student"`
	Teacher  string `yaml:"teacher"`
	Grade    string `yaml:"grade"`
}

// masterHeaderNames are the column titles of the order export.
var masterHeaderNames = map[orders.Field]string{
	orders.FieldOrderNumber: "Order Number",
	orders.FieldDelivery:    "Shipping Method",
	orders.FieldQuantity:    "Quantity",
	orders.FieldFlavor:      "Item Name",
	orders.FieldPrice:       "Item Price",
	orders.FieldBillingName: "Billing Name",
	orders.FieldSchool:      "School",
	orders.FieldStudent:     "Student Name",
	orders.FieldTeacher:     "Teacher",
	orders.FieldGrade:       "Grade",
}

// Table renders the scenario as a MASTER sheet, header first.
func (s Scenario) Table() []orders.Row {
	table := make([]orders.Row, 0, len(s.Rows)+1)
	table = append(table, orders.MasterSchema.Header(masterHeaderNames))
	for _, r := range s.Rows {
		table = append(table, orders.MasterSchema.Row(map[orders.Field]string{
			orders.FieldOrderNumber: r.Order,
			orders.FieldDelivery:    r.Delivery,
			orders.FieldQuantity:    r.Quantity,
			orders.FieldFlavor:      r.Flavor,
			orders.FieldPrice:       r.Price,
			orders.FieldBillingName: r.Billing,
			orders.FieldSchool:      r.School,
			orders.FieldStudent:     r.Student,
			orders.FieldTeacher:     r.Teacher,
			orders.FieldGrade:       r.Grade,
		}))
	}
	return table
}

// LoadScenarios parses every embedded dataset, sorted by ID.
func LoadScenarios() ([]Scenario, error) {
	paths, err := fs.Glob(scenarioFS, "scenarios/*.yaml")
	if err != nil {
		return nil, err
	}
	out := make([]Scenario, 0, len(paths))
	for _, p := range paths {
		data, err := scenarioFS.ReadFile(p)
		if err != nil {
			return nil, err
		}
		var s Scenario
		if err := yaml.Unmarshal(data, &s); err != nil {
			return nil, fmt.Errorf("parse %s: %w", p, err)
		}
		if s.ID == "" {
			return nil, fmt.Errorf("parse %s: missing id", p)
		}
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// FindScenario returns the dataset with the given ID.
func FindScenario(id string) (Scenario, bool, error) {
	all, err := LoadScenarios()
	if err != nil {
		return Scenario{}, false, err
	}
	for _, s := range all {
		if s.ID == id {
			return s, true, nil
		}
	}
	return Scenario{}, false, nil
}

// resetter is implemented by backends that can drop every sheet.
type resetter interface {
	Reset(ctx context.Context) error
}

// SeedScenario loads a dataset into the MASTER sheet.
func (h *Handler) SeedScenario(ctx context.Context, id string) error {
	s, ok, err := FindScenario(id)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("unknown scenario %q", id)
	}

	h.opMu.Lock()
	defer h.opMu.Unlock()

	wb := h.Runner.Workbook
	master := h.Runner.Config.Sheets.Master
	if r, ok := wb.(resetter); ok {
		if err := r.Reset(ctx); err != nil {
			return fmt.Errorf("reset workbook: %w", err)
		}
	}
	existed, err := orders.EnsureSheet(ctx, wb, master)
	if err != nil {
		return err
	}
	if existed {
		if err := wb.Clear(ctx, master); err != nil {
			return err
		}
	}
	if err := wb.Write(ctx, master, 0, s.Table()); err != nil {
		return err
	}

	h.mu.Lock()
	h.currentScenario = id
	h.mu.Unlock()
	h.Logger.Info("scenario loaded", zap.String("scenario", id), zap.Int("rows", len(s.Rows)))
	return nil
}

// =============================================================================
// SCENARIO HANDLERS
// =============================================================================

// ListScenarios returns available scenarios.
// GET /api/scenarios
func (h *Handler) ListScenarios(w http.ResponseWriter, r *http.Request) {
	all, err := LoadScenarios()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load scenarios", err)
		return
	}
	dtos := make([]ScenarioDTO, len(all))
	for i, s := range all {
		dtos[i] = ScenarioDTO{ID: s.ID, Name: s.Name, Description: s.Description, Rows: len(s.Rows)}
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetCurrentScenario returns the currently loaded scenario, if any.
// GET /api/scenarios/current
func (h *Handler) GetCurrentScenario(w http.ResponseWriter, r *http.Request) {
	h.mu.RLock()
	id := h.currentScenario
	h.mu.RUnlock()
	if id == "" {
		writeJSON(w, http.StatusOK, nil)
		return
	}
	s, ok, err := FindScenario(id)
	if err != nil || !ok {
		writeJSON(w, http.StatusOK, ScenarioDTO{ID: id, Name: id, Description: "Currently loaded scenario"})
		return
	}
	writeJSON(w, http.StatusOK, ScenarioDTO{ID: s.ID, Name: s.Name, Description: s.Description, Rows: len(s.Rows)})
}

// LoadScenario loads a predefined scenario.
// POST /api/scenarios/load
func (h *Handler) LoadScenario(w http.ResponseWriter, r *http.Request) {
	if !h.AllowScenarios {
		writeError(w, http.StatusForbidden, "Scenarios are disabled for this backend", nil)
		return
	}
	var req LoadScenarioRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if _, ok, err := FindScenario(req.ScenarioID); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load scenarios", err)
		return
	} else if !ok {
		writeError(w, http.StatusBadRequest, "Unknown scenario", nil)
		return
	}

	if err := h.SeedScenario(r.Context(), req.ScenarioID); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load scenario", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "loaded", "scenario": req.ScenarioID})
}
