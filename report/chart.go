package report

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"lyrics-visualizer/analysis"
)

const defaultBarWidth = 40

var (
	titleStyle = lipgloss.NewStyle().Bold(true).MarginBottom(1)
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	barStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("63"))
	countStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// ChartTitle is the default title for a chart of the top n words of folder.
func ChartTitle(n int, folder string) string {
	return fmt.Sprintf("Top %d words in the folder '%s'", n, folder)
}

// BarChart renders the top n entries as a horizontal bar chart, most frequent first.
func BarChart(entries []analysis.WordCount, n int, title string) string {
	return barChart(entries, n, title, defaultBarWidth)
}

func barChart(entries []analysis.WordCount, n int, title string, width int) string {
	top := analysis.Top(entries, n)

	var b strings.Builder
	if title != "" {
		b.WriteString(titleStyle.Render(title))
		b.WriteString("\n")
	}
	if len(top) == 0 {
		b.WriteString(countStyle.Render("(no words)"))
		return b.String()
	}

	labelWidth, highest := 0, 0
	for _, e := range top {
		labelWidth = max(labelWidth, lipgloss.Width(e.Word))
		highest = max(highest, e.Count)
	}

	for i, e := range top {
		if i > 0 {
			b.WriteString("\n")
		}
		pad := strings.Repeat(" ", labelWidth-lipgloss.Width(e.Word))
		length := 1
		if highest > 0 {
			length = max(1, e.Count*width/highest)
		}
		b.WriteString(labelStyle.Render(pad + e.Word))
		b.WriteString(" ")
		b.WriteString(barStyle.Render(strings.Repeat("█", length)))
		b.WriteString(" ")
		b.WriteString(countStyle.Render(strconv.Itoa(e.Count)))
	}
	return b.String()
}

