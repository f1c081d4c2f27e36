/*
detect.go - Data-quality checks producing Error Log findings

PURPOSE:
  Scans what was seen for each student name and reports likely data-entry
  mistakes. Findings are advisory rows, never errors: no check is fatal and
  every check always runs to completion regardless of earlier findings.

CHECKS (in output order):
  1. Missing Last Name:  the name has no whitespace
  2. Multiple Schools:   the name appears under more than one school
     Multiple Grades:    ... more than one non-blank grade
     Multiple Teachers:  ... more than one non-blank teacher
  3. Similar Names:      two distinct names in the same school score in
                         [Threshold, 100) on Similarity

SIMILAR NAMES:
  Every pair (i < j) of names in a school roster is scored, O(n²) per school.
  An exact score of 100 is NOT reported. The suggestion keeps the name with
  more rows; on a tie the first name of the pair is kept.

SEE ALSO:
  - aggregate.go: IdentityAccumulator builds the input
  - similarity.go: the score
  - report/errorlog.go: renders findings
*/
package orders

import (
	"fmt"
	"strings"
	"unicode"
)

// DefaultSimilarityThreshold is the lowest score flagged as a likely typo.
const DefaultSimilarityThreshold = 70

// Detector runs every data-quality check.
type Detector struct {
	Threshold int
}

// NewDetector returns a detector with the default threshold.
func NewDetector() *Detector {
	return &Detector{Threshold: DefaultSimilarityThreshold}
}

// DetectRecords folds recs into identities and rosters and runs Detect.
func (d *Detector) DetectRecords(recs []Record) []Finding {
	acc := NewIdentityAccumulator()
	for _, rec := range recs {
		acc.Fold(rec)
	}
	return d.Detect(acc.Identities(), acc.Rosters())
}

// Detect returns all findings in check order.
func (d *Detector) Detect(ids []Identity, rosters []SchoolRoster) []Finding {
	var findings []Finding
	findings = append(findings, d.missingLastNames(ids)...)
	findings = append(findings, d.multipleValues(ids, KindMultipleSchools)...)
	findings = append(findings, d.multipleValues(ids, KindMultipleGrades)...)
	findings = append(findings, d.multipleValues(ids, KindMultipleTeachers)...)
	for _, roster := range rosters {
		findings = append(findings, d.similarNames(roster)...)
	}
	return findings
}

func (d *Detector) missingLastNames(ids []Identity) []Finding {
	var out []Finding
	for _, id := range ids {
		if strings.ContainsFunc(strings.TrimSpace(id.Name), unicode.IsSpace) {
			continue
		}
		out = append(out, Finding{
			Kind:       KindMissingLastName,
			Schools:    strings.Join(id.Schools, ", "),
			Subject:    id.Name,
			Detail:     "Student name has only one word",
			Suggestion: "Add last name or verify if correct",
		})
	}
	return out
}

func (d *Detector) multipleValues(ids []Identity, kind FindingKind) []Finding {
	var out []Finding
	for _, id := range ids {
		schools := strings.Join(id.Schools, ", ")
		switch kind {
		case KindMultipleSchools:
			if len(id.Schools) > 1 {
				out = append(out, Finding{
					Kind:       kind,
					Schools:    schools,
					Subject:    id.Name,
					Detail:     fmt.Sprintf("Appears in %d schools", len(id.Schools)),
					Suggestion: "Verify correct school and remove duplicates",
				})
			}
		case KindMultipleGrades:
			if len(id.Grades) > 1 {
				out = append(out, Finding{
					Kind:       kind,
					Schools:    schools,
					Subject:    id.Name,
					Detail:     "Listed as: " + strings.Join(id.Grades, ", "),
					Suggestion: "Verify correct grade",
				})
			}
		case KindMultipleTeachers:
			if len(id.Teachers) > 1 {
				out = append(out, Finding{
					Kind:       kind,
					Schools:    schools,
					Subject:    id.Name,
					Detail:     "Listed with: " + strings.Join(id.Teachers, ", "),
					Suggestion: "Verify correct teacher",
				})
			}
		}
	}
	return out
}

func (d *Detector) similarNames(roster SchoolRoster) []Finding {
	threshold := d.Threshold
	if threshold <= 0 {
		threshold = DefaultSimilarityThreshold
	}

	var out []Finding
	for i := 0; i < len(roster.Names); i++ {
		for j := i + 1; j < len(roster.Names); j++ {
			name1, name2 := roster.Names[i], roster.Names[j]
			count1, count2 := roster.Counts[name1], roster.Counts[name2]

			score := Similarity(name1, name2)
			// Exact matches (100) are deliberately not reported.
			if score < threshold || score >= 100 {
				continue
			}

			var suggestion string
			if count1 >= count2 {
				suggestion = fmt.Sprintf("Keep '%s' (%d orders), merge '%s' (%d orders)", name1, count1, name2, count2)
			} else {
				suggestion = fmt.Sprintf("Keep '%s' (%d orders), merge '%s' (%d orders)", name2, count2, name1, count1)
			}
			out = append(out, Finding{
				Kind:       KindSimilarNames,
				Schools:    roster.School,
				Subject:    name1 + " / " + name2,
				Detail:     fmt.Sprintf("%d%% similar", score),
				Suggestion: suggestion,
				Similarity: score,
			})
		}
	}
	return out
}
