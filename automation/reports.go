package automation

import (
	"context"
	"strings"

	"github.com/jfc974-droid/order-management-system/orders"
	"github.com/jfc974-droid/order-management-system/report"
)

// =============================================================================
// PRODUCTION REPORT
// =============================================================================

// ProductionReport writes the production PDF and rewrites the Production
// sheet. Rows without a student still count toward production.
func (r *Runner) ProductionReport(ctx context.Context) Result {
	t := r.begin(ctx, "production")
	return t.done(r.production(t))
}

func (r *Runner) production(t *transcript) error {
	table, err := r.readMaster(t)
	if err != nil {
		return err
	}
	prod := orders.BuildProduction(orders.ReadAll(table, orders.MasterSchema))
	t.printf("")
	t.printf("Found %d schools", len(prod.Schools))
	t.printf("Found %d unique flavors", len(prod.Flavors))

	now := r.Now()
	pdf, err := report.ProductionPDF(prod, now)
	if err != nil {
		return err
	}
	name := report.ProductionFileName(now)
	if _, err := r.writeFile(t, name, pdf); err != nil {
		return err
	}
	t.printf("PDF created: %s", name)

	sheet := r.Config.Sheets.Production
	existed, err := orders.EnsureSheet(t.ctx, r.Workbook, sheet)
	if err != nil {
		return err
	}
	if existed {
		t.printf("Found existing '%s' sheet - clearing it...", sheet)
		if err := r.Workbook.Clear(t.ctx, sheet); err != nil {
			return err
		}
	} else {
		t.printf("Creating new '%s' sheet...", sheet)
	}
	rows, formats := report.ProductionSheet(prod)
	if err := r.Workbook.Write(t.ctx, sheet, 0, rows); err != nil {
		return err
	}
	if err := r.Workbook.Format(t.ctx, sheet, formats); err != nil {
		return err
	}
	if err := r.Workbook.AutoResize(t.ctx, sheet, 0, report.ProductionColumns); err != nil {
		return err
	}

	t.printf("")
	t.printf("Grand total: %d bags", prod.Total())
	t.printf("  Pick-up: %d", prod.Pickup)
	t.printf("  Shipping: %d", prod.Ship)
	return nil
}

// =============================================================================
// LEADERBOARDS
// =============================================================================

// Leaderboards writes one HTML page per school that has at least one
// student. All pages share one timestamp.
func (r *Runner) Leaderboards(ctx context.Context) Result {
	t := r.begin(ctx, "leaderboards")
	return t.done(r.leaderboards(t))
}

func (r *Runner) leaderboards(t *transcript) error {
	table, err := r.readMaster(t)
	if err != nil {
		return err
	}
	sales := orders.BuildSales(orders.NormalizeAll(table, orders.MasterSchema))
	t.printf("")
	t.printf("Found %d schools", len(sales))

	top := r.Config.Leaderboard.Top
	if top <= 0 {
		top = orders.DefaultTopN
	}
	now := r.Now()
	created := 0
	for _, school := range sales {
		t.printf("")
		t.printf("Processing %s...", school.School)
		ranked := orders.Rank(school.Students, top)
		if len(ranked) == 0 {
			t.printf("  No students found for %s", school.School)
			continue
		}
		t.printf("  Top %d students:", top)
		for i, s := range ranked {
			t.printf("    %d. %s (Grade %s): %s", i+1, s.Name, s.Grade, report.Currency(s.Total))
		}

		page, err := report.RenderLeaderboard(report.NewLeaderboard(school.School, ranked, now))
		if err != nil {
			return err
		}
		name := report.LeaderboardFileName(school.School)
		if _, err := r.writeFile(t, name, page); err != nil {
			return err
		}
		created++
		t.printf("  Created %s", name)
	}

	t.printf("")
	t.printf("COMPLETE! Created %d leaderboards", created)
	return nil
}

// =============================================================================
// ERROR LOG
// =============================================================================

// FindErrors runs every data-quality check, rewrites the Error Log sheet
// and saves a CSV copy. Findings are not errors: the Result only carries an
// error when reading or writing failed.
func (r *Runner) FindErrors(ctx context.Context) Result {
	t := r.begin(ctx, "errors")
	return t.done(r.findErrors(t))
}

var sectionTitles = map[orders.FindingKind]string{
	orders.KindMissingLastName:  "Checking for missing last names...",
	orders.KindMultipleSchools:  "Checking for students in multiple schools...",
	orders.KindMultipleGrades:   "Checking for students with multiple grades...",
	orders.KindMultipleTeachers: "Checking for students with multiple teachers...",
	orders.KindSimilarNames:     "Checking for similar names (possible typos)...",
}

var sectionOrder = []orders.FindingKind{
	orders.KindMissingLastName,
	orders.KindMultipleSchools,
	orders.KindMultipleGrades,
	orders.KindMultipleTeachers,
	orders.KindSimilarNames,
}

func (r *Runner) findErrors(t *transcript) error {
	table, err := r.readMaster(t)
	if err != nil {
		return err
	}

	acc := orders.NewIdentityAccumulator()
	for _, rec := range orders.NormalizeAll(table, orders.MasterSchema) {
		acc.Fold(rec)
	}
	ids, rosters := acc.Identities(), acc.Rosters()
	t.printf("")
	t.printf("Found %d schools", len(rosters))
	t.printf("Found %d unique student names", len(ids))

	detector := &orders.Detector{Threshold: r.Config.Detector.Threshold}
	findings := detector.Detect(ids, rosters)

	rule := strings.Repeat("=", 60)
	for _, kind := range sectionOrder {
		t.printf("")
		t.printf("%s", rule)
		t.printf("%s", sectionTitles[kind])
		t.printf("%s", rule)
		for _, f := range findings {
			if f.Kind == kind {
				t.printf("  ! %s: %s (%s)", f.Subject, f.Detail, f.Schools)
			}
		}
	}
	t.printf("")
	t.printf("Total issues found: %d", len(findings))

	sheet := r.Config.Sheets.ErrorLog
	existed, err := orders.EnsureSheet(t.ctx, r.Workbook, sheet)
	if err != nil {
		return err
	}
	if existed {
		if err := r.Workbook.Clear(t.ctx, sheet); err != nil {
			return err
		}
	}
	rows, formats := report.ErrorLogSheet(findings)
	if err := r.Workbook.Write(t.ctx, sheet, 0, rows); err != nil {
		return err
	}
	if err := r.Workbook.Format(t.ctx, sheet, formats); err != nil {
		return err
	}
	if err := r.Workbook.AutoResize(t.ctx, sheet, 0, len(report.ErrorLogHeader)); err != nil {
		return err
	}
	t.printf("Wrote %d issues to %s", len(findings), sheet)

	csv, err := report.ErrorLogCSV(findings)
	if err != nil {
		return err
	}
	name := report.ErrorLogFileName(r.Now())
	if _, err := r.writeFile(t, name, csv); err != nil {
		return err
	}

	if len(findings) == 0 {
		t.printf("No errors found! All student data looks good.")
	} else {
		t.printf("Found %d issues that need review", len(findings))
	}
	return nil
}
