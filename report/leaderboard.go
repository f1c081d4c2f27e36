/*
Package report renders pipeline results: leaderboard pages, the production
report (PDF and sheet layout), the Error Log (sheet layout and CSV), the order
form fill plan and the combined order PDF.

Renderers are pure: they take aggregates and a timestamp and return bytes or
rows. Writing them anywhere is the caller's job (automation/).

SEE ALSO:
  - orders/: the aggregates rendered here
  - automation/: writes the output
*/
package report

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/jfc974-droid/order-management-system/orders"
)

// TimestampLayout is the "Last updated" / "Generated" time format.
const TimestampLayout = "January 02, 2006 at 03:04 PM"

//go:embed templates/leaderboard.html
var templateFS embed.FS

var leaderboardTmpl = template.Must(template.ParseFS(templateFS, "templates/leaderboard.html"))

// Medals are shown next to ranks 1-5.
var Medals = []string{"🥇", "🥈", "🥉", "🌟", "⭐"}

type LeaderboardEntry struct {
	Rank  int
	Name  string
	Grade string
	Sales string
	Medal string
}

type Leaderboard struct {
	School  string
	Entries []LeaderboardEntry
	Updated string
}

// NewLeaderboard builds the page model from already-ranked students.
func NewLeaderboard(school string, ranked []orders.StudentTotal, now time.Time) Leaderboard {
	lb := Leaderboard{School: school, Updated: now.Format(TimestampLayout)}
	for i, s := range ranked {
		e := LeaderboardEntry{
			Rank:  i + 1,
			Name:  s.Name,
			Grade: s.Grade,
			Sales: Currency(s.Total),
		}
		if i < len(Medals) {
			e.Medal = Medals[i]
		}
		lb.Entries = append(lb.Entries, e)
	}
	return lb
}

// RenderLeaderboard returns the HTML page.
func RenderLeaderboard(lb Leaderboard) ([]byte, error) {
	var buf bytes.Buffer
	if err := leaderboardTmpl.Execute(&buf, lb); err != nil {
		return nil, fmt.Errorf("render leaderboard for %s: %w", lb.School, err)
	}
	return buf.Bytes(), nil
}

// LeaderboardFileName is leaderboard_<school>.html with spaces and slashes
// replaced by underscores.
func LeaderboardFileName(school string) string {
	safe := strings.NewReplacer(" ", "_", "/", "_").Replace(school)
	return "leaderboard_" + safe + ".html"
}
