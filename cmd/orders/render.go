package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jfc974-droid/order-management-system/automation"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FFFFFF")).Background(lipgloss.Color("#5B8DEF")).Padding(0, 1)
	lineStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#AAAAAA"))
	okStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#4CAF50"))
	warnStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFB020"))
	errorStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FF6B6B"))
	fileStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#5B8DEF")).Underline(true)
)

func printResult(w io.Writer, title string, res automation.Result) {
	fmt.Fprintln(w, titleStyle.Render(title))
	for _, line := range res.Output {
		fmt.Fprintln(w, styleLine(line))
	}
	if len(res.Files) > 0 {
		fmt.Fprintln(w)
		for _, f := range res.Files {
			fmt.Fprintln(w, "  "+fileStyle.Render(f))
		}
	}
	fmt.Fprintln(w)
	if res.OK() {
		fmt.Fprintln(w, okStyle.Render("Done"))
	} else {
		fmt.Fprintln(w, errorStyle.Render("Failed: "+res.Err.Error()))
	}
}

func styleLine(line string) string {
	trimmed := strings.TrimSpace(line)
	switch {
	case strings.HasPrefix(trimmed, "COMPLETE!"):
		return okStyle.Render(line)
	case strings.HasPrefix(trimmed, "!"):
		return warnStyle.Render(line)
	default:
		return lineStyle.Render(line)
	}
}
