package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/pspon/babod/internal/models"
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var content string
	switch m.state {
	case StateDays:
		content = m.viewDay()
	case StateLog:
		content = m.viewLog()
	case StateWeightForm:
		content = m.form.View()
	}

	sections := []string{m.viewTabs(), content}
	if m.status != "" {
		sections = append(sections, statusStyle.Render(m.status))
	}
	if m.validationWarning != "" {
		sections = append(sections, dangerStyle.Render(m.validationWarning))
	}
	sections = append(sections, m.help.View(m))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) viewTabs() string {
	titles := append(append([]string(nil), m.days...), "Log")

	var tabs []string
	for i, title := range titles {
		if i == m.activeTab {
			tabs = append(tabs, activeTabStyle.Render(title))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(title))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m Model) viewDay() string {
	entries := m.activeEntries()
	if len(entries) == 0 {
		return docStyle.Render("No exercises in this template.")
	}

	var b strings.Builder
	for i, entry := range entries {
		cursor := "  "
		if i == m.cursor {
			cursor = cursorStyle.Render("> ")
		}

		line := fmt.Sprintf("%s %sx%s (%s)", entry.Name, entry.Sets, entry.Reps, m.entryWeight(entry))
		if entry.CompletedToday {
			line = completedStyle.Render("✓ " + line)
		} else {
			line = "  " + line
		}

		b.WriteString(cursor + line + "\n")
		if i == m.cursor && entry.Description != "" {
			b.WriteString(descriptionStyle.Render("      "+entry.Description) + "\n")
		}
	}

	b.WriteString(fmt.Sprintf("\n%d of %d completed today", m.view.CompletedCount(), len(m.view.Entries)))
	return docStyle.Render(b.String())
}

func (m Model) viewLog() string {
	if len(m.logEvents) == 0 {
		return docStyle.Render("No exercises completed today.")
	}

	var b strings.Builder
	for _, ev := range m.logEvents {
		b.WriteString(fmt.Sprintf("%s  %-24s %sx%s  %s %s\n",
			ev.Timestamp, ev.Exercise, ev.Sets, ev.Reps, models.FormatWeight(ev.Weight), m.unit))
	}
	return docStyle.Render(b.String())
}

func (m Model) entryWeight(entry models.ViewEntry) string {
	if entry.Bodyweight && entry.EffectiveWeight == 0 {
		return entry.WeightLabel
	}
	return models.FormatWeight(entry.EffectiveWeight) + " " + m.unit
}
