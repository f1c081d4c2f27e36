/*
Package automation runs the fundraiser operations end to end.

PURPOSE:
  Each operation reads the workbook, runs the orders pipeline, renders with
  report/, and writes the results back (sheets, local files, Drive). Every
  operation returns a Result: the human-readable transcript, the error that
  stopped it (if any) and the local files it produced.

OPERATIONS:
  OrganizeSchools   highlight MASTER rows per school, build "<school> MASTER"
  ProductionReport  production PDF + Production sheet
  Leaderboards      one HTML page per school
  FindErrors        Error Log sheet + CSV
  ExportOrderForms  per-order documents, PDFs, combined PDF for one school
  ListSchools       schools that have a view sheet

FAILURE MODEL:
  Calls are serial and never retried. Any collaborator error ends the
  operation; the transcript so far is returned with it. Writes already made
  stay made. ExportOrderForms checks all of its prerequisites before its
  first write.

SEE ALSO:
  - orders/: the pipeline
  - report/: renderers
  - cmd/orders, api/: the callers
*/
package automation

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/jfc974-droid/order-management-system/config"
	"github.com/jfc974-droid/order-management-system/orders"
)

// Result is the outcome of one operation.
type Result struct {
	Output []string
	Err    error
	Files  []string
}

// OK reports whether the operation completed.
func (r Result) OK() bool { return r.Err == nil }

// Runner holds the collaborators shared by every operation.
type Runner struct {
	Workbook  orders.Workbook
	Documents orders.Documents
	Files     orders.Files
	Config    config.Config
	Logger    *zap.Logger

	// Now is the clock used for timestamps and file names.
	Now func() time.Time
}

// New returns a Runner. docs and files may be nil when order forms are not
// exported.
func New(wb orders.Workbook, docs orders.Documents, files orders.Files, cfg config.Config, log *zap.Logger) *Runner {
	if log == nil {
		log = zap.NewNop()
	}
	return &Runner{
		Workbook:  wb,
		Documents: docs,
		Files:     files,
		Config:    cfg,
		Logger:    log,
		Now:       time.Now,
	}
}

// transcript collects the operation's printed output.
type transcript struct {
	ctx   context.Context
	op    string
	log   *zap.Logger
	lines []string
	files []string
}

func (r *Runner) begin(ctx context.Context, op string) *transcript {
	r.Logger.Info("operation started", zap.String("op", op))
	return &transcript{ctx: ctx, op: op, log: r.Logger}
}

func (t *transcript) printf(format string, args ...any) {
	line := fmt.Sprintf(format, args...)
	t.lines = append(t.lines, line)
	t.log.Debug(line, zap.String("op", t.op))
}

// done closes the transcript. A non-nil err is logged and returned in the
// Result alongside everything printed so far.
func (t *transcript) done(err error) Result {
	if err != nil {
		t.log.Error("operation failed", zap.String("op", t.op), zap.Error(err))
	} else {
		t.log.Info("operation finished", zap.String("op", t.op), zap.Int("files", len(t.files)))
	}
	return Result{Output: t.lines, Err: err, Files: t.files}
}

// writeFile stores a local artifact under the output directory.
func (r *Runner) writeFile(t *transcript, name string, data []byte) (string, error) {
	dir := r.Config.Output.Dir
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", name, err)
	}
	t.files = append(t.files, path)
	return path, nil
}

// readMaster reads the MASTER sheet and checks its header.
func (r *Runner) readMaster(t *transcript) ([]orders.Row, error) {
	sheet := r.Config.Sheets.Master
	t.printf("Reading %s sheet...", sheet)
	table, err := r.Workbook.Read(t.ctx, sheet)
	if err != nil {
		return nil, err
	}
	var header orders.Row
	if len(table) > 0 {
		header = table[0]
	}
	if err := orders.MasterSchema.Validate(sheet, header); err != nil {
		return nil, err
	}
	t.printf("Found %d rows", len(table)-1)
	return table, nil
}
