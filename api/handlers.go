/*
handlers.go - HTTP API handlers for the order automation

PURPOSE:
  Exposes the automation operations via REST API. Handles HTTP
  request/response, JSON serialization, and delegates to automation.Runner.

ENDPOINTS:
  Operations (each returns a RunDTO):
    POST   /api/operations/organize       Organize schools
    POST   /api/operations/production     Production report
    POST   /api/operations/leaderboards   Leaderboards
    POST   /api/operations/errors         Data-quality check
    POST   /api/operations/export         Order forms for {"school": ...}

  Runs:
    GET    /api/runs                      Run history, newest first
    GET    /api/runs/{id}                 One run with its transcript
    GET    /api/runs/{id}/files/{name}    Download an artifact

  Workbook:
    GET    /api/schools                   Schools with a MASTER view
    GET    /api/sheets                    Sheet names
    GET    /api/sheets/{name}             Sheet content

  Scenarios:
    GET    /api/scenarios                 List demo datasets
    POST   /api/scenarios/load            Load a dataset into MASTER

ARCHITECTURE:
  Handler holds the Runner and a bounded run history. Operations are
  serialized: one run at a time, whether started by a request or by the
  scheduler.

ERROR HANDLING:
  A failed operation still returns its RunDTO, with a status code for the
  failure:
  - 404: Missing prerequisite (sheet, template, pick-up orders)
  - 422: Sheet narrower than its layout
  - 500: Backend errors
  Request errors use ErrorResponse with 400.

SECURITY NOTE:
  No authentication. Bind to localhost or put the server behind a proxy.

SEE ALSO:
  - dto.go: Request/response data structures
  - scenarios.go: Demo datasets
  - server.go: Router setup and middleware
*/
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"path/filepath"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jfc974-droid/order-management-system/automation"
	"github.com/jfc974-droid/order-management-system/orders"
)

// MaxRuns bounds the run history kept in memory.
const MaxRuns = 100

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Runner *automation.Runner
	Logger *zap.Logger

	// AllowScenarios enables POST /api/scenarios/load, which overwrites
	// MASTER.
	AllowScenarios bool

	// opMu serializes operations and scenario loads.
	opMu sync.Mutex

	mu              sync.RWMutex
	runs            []*run
	currentScenario string
}

// NewHandler creates a new handler around runner.
func NewHandler(runner *automation.Runner, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{Runner: runner, Logger: log}
}

// =============================================================================
// OPERATIONS
// =============================================================================

// execute runs op under the operation lock and records it.
func (h *Handler) execute(ctx context.Context, operation, school string, op func(context.Context) automation.Result) *run {
	h.opMu.Lock()
	defer h.opMu.Unlock()

	rec := &run{id: uuid.NewString(), operation: operation, school: school, started: h.Runner.Now()}
	rec.result = op(ctx)
	rec.finished = h.Runner.Now()

	h.mu.Lock()
	h.runs = append(h.runs, rec)
	if len(h.runs) > MaxRuns {
		h.runs = h.runs[len(h.runs)-MaxRuns:]
	}
	h.mu.Unlock()

	h.Logger.Info("run recorded",
		zap.String("run_id", rec.id),
		zap.String("operation", operation),
		zap.String("status", rec.status()))
	return rec
}

func (h *Handler) respondRun(w http.ResponseWriter, rec *run) {
	writeJSON(w, runStatus(rec.result.Err), rec.toDTO())
}

func runStatus(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case orders.IsMissingPrerequisite(err), errors.Is(err, orders.ErrSheetNotFound):
		return http.StatusNotFound
	case orders.IsSchemaError(err):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// Organize runs OrganizeSchools.
// POST /api/operations/organize
func (h *Handler) Organize(w http.ResponseWriter, r *http.Request) {
	h.respondRun(w, h.execute(r.Context(), "organize", "", h.Runner.OrganizeSchools))
}

// Production runs ProductionReport.
// POST /api/operations/production
func (h *Handler) Production(w http.ResponseWriter, r *http.Request) {
	h.respondRun(w, h.execute(r.Context(), "production", "", h.Runner.ProductionReport))
}

// Leaderboards runs Leaderboards.
// POST /api/operations/leaderboards
func (h *Handler) Leaderboards(w http.ResponseWriter, r *http.Request) {
	h.respondRun(w, h.execute(r.Context(), "leaderboards", "", h.Runner.Leaderboards))
}

// FindErrors runs FindErrors.
// POST /api/operations/errors
func (h *Handler) FindErrors(w http.ResponseWriter, r *http.Request) {
	h.respondRun(w, h.execute(r.Context(), "errors", "", h.Runner.FindErrors))
}

// Export runs ExportOrderForms for the requested school.
// POST /api/operations/export
func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	var req ExportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.School == "" {
		writeError(w, http.StatusBadRequest, "school is required", nil)
		return
	}
	rec := h.execute(r.Context(), "export", req.School, func(ctx context.Context) automation.Result {
		return h.Runner.ExportOrderForms(ctx, req.School)
	})
	h.respondRun(w, rec)
}

// =============================================================================
// RUNS
// =============================================================================

// ListRuns returns the run history, newest first.
// GET /api/runs
func (h *Handler) ListRuns(w http.ResponseWriter, r *http.Request) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	dtos := make([]RunSummaryDTO, 0, len(h.runs))
	for i := len(h.runs) - 1; i >= 0; i-- {
		dtos = append(dtos, h.runs[i].toSummary())
	}
	writeJSON(w, http.StatusOK, map[string]any{"runs": dtos})
}

func (h *Handler) findRun(id string) *run {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, rec := range h.runs {
		if rec.id == id {
			return rec
		}
	}
	return nil
}

// GetRun returns one run with its transcript.
// GET /api/runs/{id}
func (h *Handler) GetRun(w http.ResponseWriter, r *http.Request) {
	rec := h.findRun(chi.URLParam(r, "id"))
	if rec == nil {
		writeError(w, http.StatusNotFound, "Run not found", nil)
		return
	}
	writeJSON(w, http.StatusOK, rec.toDTO())
}

// DownloadFile serves one artifact of a run by base name.
// GET /api/runs/{id}/files/{name}
func (h *Handler) DownloadFile(w http.ResponseWriter, r *http.Request) {
	rec := h.findRun(chi.URLParam(r, "id"))
	if rec == nil {
		writeError(w, http.StatusNotFound, "Run not found", nil)
		return
	}
	name := chi.URLParam(r, "name")
	for _, path := range rec.result.Files {
		if filepath.Base(path) == name {
			w.Header().Set("Content-Disposition", `attachment; filename="`+name+`"`)
			http.ServeFile(w, r, path)
			return
		}
	}
	writeError(w, http.StatusNotFound, "File not found", nil)
}

// =============================================================================
// WORKBOOK
// =============================================================================

// ListSchools returns schools that have a MASTER view.
// GET /api/schools
func (h *Handler) ListSchools(w http.ResponseWriter, r *http.Request) {
	schools, err := h.Runner.ListSchools(r.Context())
	if errors.Is(err, orders.ErrNoSchoolSheets) {
		writeJSON(w, http.StatusOK, SchoolsResponse{Schools: []string{}})
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list schools", err)
		return
	}
	writeJSON(w, http.StatusOK, SchoolsResponse{Schools: schools})
}

// ListSheets returns every sheet name in workbook order.
// GET /api/sheets
func (h *Handler) ListSheets(w http.ResponseWriter, r *http.Request) {
	sheets, err := h.Runner.Workbook.Sheets(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list sheets", err)
		return
	}
	if sheets == nil {
		sheets = []string{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"sheets": sheets})
}

// GetSheet returns the content of one sheet.
// GET /api/sheets/{name}
func (h *Handler) GetSheet(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	rows, err := h.Runner.Workbook.Read(r.Context(), name)
	if errors.Is(err, orders.ErrSheetNotFound) {
		writeError(w, http.StatusNotFound, "Sheet not found", err)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to read sheet", err)
		return
	}
	dto := SheetDTO{Name: name, Rows: make([][]string, len(rows))}
	for i, row := range rows {
		dto.Rows[i] = row
	}
	writeJSON(w, http.StatusOK, dto)
}

// =============================================================================
// HELPERS
// =============================================================================

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}

// runAt is used by the scheduler, which has no request.
func (h *Handler) runAt(operation string, op func(context.Context) automation.Result) *run {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()
	return h.execute(ctx, operation, "", op)
}
