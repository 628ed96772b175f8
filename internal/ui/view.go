package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

const (
	defaultWidth = 80
	statusWidth  = 12
	timeWidth    = 8
)

var (
	spinnerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("7"))
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))

	statusStyles = map[string]lipgloss.Style{
		labelDone:   lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
		labelError:  lipgloss.NewStyle().Foreground(lipgloss.Color("1")),
		labelQueued: lipgloss.NewStyle().Foreground(lipgloss.Color("7")),
	}
	workingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
)

func statusStyle(status string) lipgloss.Style {
	if st, ok := statusStyles[status]; ok {
		return st
	}
	return workingStyle
}

func (m *progressModel) View() string {
	if len(m.rows) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString(titleStyle.Render(m.header()))
	b.WriteString("\n\n")

	nameWidth := max(m.width-statusWidth-timeWidth-6, 20)
	for i := range m.rows {
		row := &m.rows[i]
		status := statusStyle(row.status).Render(fmt.Sprintf("%*s", statusWidth, row.status))
		fmt.Fprintf(&b, "  %s %s", status, runewidth.FillRight(truncate(row.label, nameWidth), nameWidth))
		if row.settled() {
			b.WriteString(dimStyle.Render(fmt.Sprintf(" %*s", timeWidth, row.elapsed.Round(time.Millisecond))))
		}
		b.WriteByte('\n')
		if row.err != nil {
			b.WriteString(dimStyle.Render("  " + strings.Repeat(" ", statusWidth) + " " + truncate(row.err.Error(), nameWidth)))
			b.WriteByte('\n')
		}
	}

	b.WriteByte('\n')
	if m.done {
		b.WriteString(m.bar.ViewAs(1))
	} else {
		b.WriteString(m.bar.View())
	}
	b.WriteByte('\n')
	return b.String()
}

// header is "⠋ linting (parsing) 3/10" while running, "done: linting 10/10,
// 2 failed" at the end.
func (m *progressModel) header() string {
	settled, failed := m.counts()
	h := m.title
	if m.phase != "" && !m.done {
		h += " (" + m.phase + ")"
	}
	h += fmt.Sprintf(" %d/%d", settled, len(m.rows))
	if failed > 0 {
		h += fmt.Sprintf(", %d failed", failed)
	}
	if m.done {
		return "done: " + h
	}
	return m.spinner.View() + " " + h
}

// truncate cuts value to width display cells, marking the cut with "...".
func truncate(value string, width int) string {
	switch {
	case width <= 0 || runewidth.StringWidth(value) <= width:
		return value
	case width <= 3:
		return runewidth.Truncate(value, width, "")
	}
	return runewidth.Truncate(value, width, "...")
}
