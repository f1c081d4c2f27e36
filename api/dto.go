/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  automation.Result and the workbook rows from the external API contract.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients
  - *Response: Complex response wrappers

TYPES:
  Runs:
    RunDTO, RunSummaryDTO, ExportRequest

  Workbook:
    SheetDTO, SchoolsResponse

  Scenarios:
    ScenarioDTO, LoadScenarioRequest

VALIDATION:
  Validation is done in handlers, not in DTOs. DTOs are pure data carriers.

SEE ALSO:
  - handlers.go: Uses these types
  - automation/runner.go: Result
*/
package api

import (
	"path/filepath"
	"time"

	"github.com/jfc974-droid/order-management-system/automation"
)

// =============================================================================
// RUNS
// =============================================================================

// Run statuses.
const (
	RunCompleted = "completed"
	RunFailed    = "failed"
)

// RunDTO is one finished operation with its transcript.
type RunDTO struct {
	ID         string   `json:"id"`
	Operation  string   `json:"operation"`
	School     string   `json:"school,omitempty"`
	Status     string   `json:"status"`
	Output     []string `json:"output"`
	Error      string   `json:"error,omitempty"`
	Files      []string `json:"files"`
	StartedAt  string   `json:"started_at"`
	FinishedAt string   `json:"finished_at"`
}

// RunSummaryDTO is a RunDTO without the transcript, for listings.
type RunSummaryDTO struct {
	ID         string `json:"id"`
	Operation  string `json:"operation"`
	School     string `json:"school,omitempty"`
	Status     string `json:"status"`
	Files      int    `json:"files"`
	FinishedAt string `json:"finished_at"`
}

// ExportRequest selects the school whose order forms are exported.
type ExportRequest struct {
	School string `json:"school"`
}

// run is the stored form of a RunDTO; paths stay server-side.
type run struct {
	id        string
	operation string
	school    string
	result    automation.Result
	started   time.Time
	finished  time.Time
}

func (r *run) status() string {
	if r.result.OK() {
		return RunCompleted
	}
	return RunFailed
}

func (r *run) toDTO() RunDTO {
	dto := RunDTO{
		ID:         r.id,
		Operation:  r.operation,
		School:     r.school,
		Status:     r.status(),
		Output:     r.result.Output,
		Files:      make([]string, len(r.result.Files)),
		StartedAt:  r.started.Format(time.RFC3339),
		FinishedAt: r.finished.Format(time.RFC3339),
	}
	if dto.Output == nil {
		dto.Output = []string{}
	}
	for i, f := range r.result.Files {
		dto.Files[i] = filepath.Base(f)
	}
	if r.result.Err != nil {
		dto.Error = r.result.Err.Error()
	}
	return dto
}

func (r *run) toSummary() RunSummaryDTO {
	return RunSummaryDTO{
		ID:         r.id,
		Operation:  r.operation,
		School:     r.school,
		Status:     r.status(),
		Files:      len(r.result.Files),
		FinishedAt: r.finished.Format(time.RFC3339),
	}
}

// =============================================================================
// WORKBOOK
// =============================================================================

// SheetDTO is the full content of one sheet.
type SheetDTO struct {
	Name string     `json:"name"`
	Rows [][]string `json:"rows"`
}

// SchoolsResponse lists the schools that have a MASTER view.
type SchoolsResponse struct {
	Schools []string `json:"schools"`
}

// =============================================================================
// SCENARIOS
// =============================================================================

// ScenarioDTO describes a demo dataset.
type ScenarioDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Rows        int    `json:"rows"`
}

// LoadScenarioRequest is the request to load a scenario.
type LoadScenarioRequest struct {
	ScenarioID string `json:"scenario_id"`
}

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}
