package orders_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jfc974-droid/order-management-system/orders"
)

// =============================================================================
// SIMILARITY
// =============================================================================

func TestSimilarity(t *testing.T) {
	cases := []struct {
		a, b string
		want int
	}{
		{"Jon Smith", "John Smith", 95},
		{"Maria Garcia", "Maria Garciaa", 96},
		{"Maria Garcia", "maria garcia", 100},
		{"abc", "xyz", 0},
		{"", "John", 0},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, orders.Similarity(c.a, c.b), "Similarity(%q, %q)", c.a, c.b)
	}
}

// =============================================================================
// DETECTOR
// =============================================================================

func kinds(findings []orders.Finding) []orders.FindingKind {
	out := make([]orders.FindingKind, len(findings))
	for i, f := range findings {
		out[i] = f.Kind
	}
	return out
}

func TestDetect_ReportsEveryCheckInOrder(t *testing.T) {
	// GIVEN: One name per problem
	table := masterTable(
		line{school: "Lincoln", student: "Jon Smith", grade: "2"},
		line{school: "Lincoln", student: "John Smith", grade: "2"},
		line{school: "Lincoln", student: "John Smith", grade: "2"},
		line{school: "Lincoln", student: "Emma", grade: "3"},
		line{school: "Lincoln", student: "Maria Garcia", teacher: "Brown", grade: "3"},
		line{school: "Adams", student: "Maria Garcia", teacher: "Lane", grade: "4"},
	)

	// WHEN: Running the detector
	findings := orders.NewDetector().DetectRecords(orders.NormalizeAll(table, orders.MasterSchema))

	// THEN: Findings come out check by check
	assert.Equal(t, []orders.FindingKind{
		orders.KindMissingLastName,
		orders.KindMultipleSchools,
		orders.KindMultipleGrades,
		orders.KindMultipleTeachers,
		orders.KindSimilarNames,
	}, kinds(findings))

	assert.Equal(t, "Emma", findings[0].Subject)
	assert.Equal(t, "Lincoln, Adams", findings[1].Schools)
	assert.Equal(t, "Appears in 2 schools", findings[1].Detail)
	assert.Equal(t, "Listed as: 3, 4", findings[2].Detail)
	assert.Equal(t, "Listed with: Brown, Lane", findings[3].Detail)

	similar := findings[4]
	assert.Equal(t, "Jon Smith / John Smith", similar.Subject)
	assert.Equal(t, "95% similar", similar.Detail)
	assert.Equal(t, 95, similar.Similarity)
	assert.Equal(t, "Keep 'John Smith' (2 orders), merge 'Jon Smith' (1 orders)", similar.Suggestion)
}

func TestDetect_ExactCaseInsensitiveMatchNotReported(t *testing.T) {
	// GIVEN: Two spellings that differ only in case
	table := masterTable(
		line{school: "Lincoln", student: "Maria Garcia"},
		line{school: "Lincoln", student: "maria garcia"},
	)

	// WHEN: Running the detector
	findings := orders.NewDetector().DetectRecords(orders.NormalizeAll(table, orders.MasterSchema))

	// THEN: A score of 100 is not a finding
	assert.Empty(t, findings)
}

func TestDetect_TieKeepsFirstName(t *testing.T) {
	table := masterTable(
		line{school: "Lincoln", student: "Maria Garcia"},
		line{school: "Lincoln", student: "Maria Garciaa"},
	)
	findings := orders.NewDetector().DetectRecords(orders.NormalizeAll(table, orders.MasterSchema))
	require.Len(t, findings, 1)
	assert.Equal(t, "Keep 'Maria Garcia' (1 orders), merge 'Maria Garciaa' (1 orders)", findings[0].Suggestion)
}

func TestDetect_ThresholdIsInclusive(t *testing.T) {
	table := masterTable(
		line{school: "Lincoln", student: "Jon Smith"},
		line{school: "Lincoln", student: "John Smith"},
	)
	recs := orders.NormalizeAll(table, orders.MasterSchema)

	assert.Len(t, (&orders.Detector{Threshold: 95}).DetectRecords(recs), 1)
	assert.Empty(t, (&orders.Detector{Threshold: 96}).DetectRecords(recs))
}

func TestDetect_SimilarNamesOnlyWithinASchool(t *testing.T) {
	table := masterTable(
		line{school: "Lincoln", student: "Jon Smith"},
		line{school: "Adams", student: "John Smith"},
	)
	findings := orders.NewDetector().DetectRecords(orders.NormalizeAll(table, orders.MasterSchema))
	assert.Empty(t, findings)
}

func TestDetect_CleanData(t *testing.T) {
	findings := orders.NewDetector().DetectRecords(orders.NormalizeAll(masterTable(
		line{school: "Lincoln", student: "Emma Smith", teacher: "Brown", grade: "3"},
		line{school: "Lincoln", student: "Noah Lee", teacher: "Gray", grade: "K"},
	), orders.MasterSchema))
	assert.Empty(t, findings)
}

func TestFinding_Cells(t *testing.T) {
	f := orders.Finding{Kind: orders.KindMissingLastName, Schools: "Lincoln", Subject: "Emma", Detail: "d", Suggestion: "s"}
	assert.Equal(t, orders.Row{"Missing Last Name", "Lincoln", "Emma", "d", "s"}, f.Cells())
}
