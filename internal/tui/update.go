package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/pspon/babod/internal/models"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width

	case tea.KeyMsg:
		if m.state == StateWeightForm {
			return m.updateWeightForm(msg)
		}

		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
		case key.Matches(msg, m.keys.Tab), key.Matches(msg, m.keys.Right):
			m.activeTab = (m.activeTab + 1) % (len(m.days) + 1)
			m.cursor = 0
			m.syncState()
		case key.Matches(msg, m.keys.ShiftTab), key.Matches(msg, m.keys.Left):
			m.activeTab = (m.activeTab - 1 + len(m.days) + 1) % (len(m.days) + 1)
			m.cursor = 0
			m.syncState()
		case key.Matches(msg, m.keys.Up):
			if m.state == StateDays && m.cursor > 0 {
				m.cursor--
			}
		case key.Matches(msg, m.keys.Down):
			if m.state == StateDays && m.cursor < len(m.activeEntries())-1 {
				m.cursor++
			}
		case key.Matches(msg, m.keys.Complete):
			if m.state == StateDays {
				m.completeSelected()
			}
		case key.Matches(msg, m.keys.Weight):
			if m.state == StateDays {
				return m.openWeightForm()
			}
		case key.Matches(msg, m.keys.Refresh):
			// Drop the session caches so writes from other sessions show up
			m.session.Refresh()
			m.reload()
			m.updateValidationStatus()
			m.status = "Refreshed"
		}

	default:
		if m.state == StateWeightForm {
			return m.updateWeightForm(msg)
		}
	}

	return m, nil
}

// syncState keeps the state in step with the selected tab: the last tab is
// the log, every other tab is a day.
func (m *Model) syncState() {
	if m.activeTab == len(m.days) {
		m.state = StateLog
	} else {
		m.state = StateDays
	}
}

func (m *Model) completeSelected() {
	entry := m.selectedEntry()
	if entry == nil {
		return
	}
	if entry.CompletedToday {
		m.status = fmt.Sprintf("%s is already completed today", entry.Name)
		return
	}

	event, err := m.engine.Complete(m.session, entry.Day, entry.Name)
	if err != nil {
		m.status = "⚠ " + err.Error()
		return
	}

	m.status = fmt.Sprintf("✓ Completed %s (%s %s)", event.Exercise, models.FormatWeight(event.Weight), m.unit)
	m.reload()
}

func (m Model) openWeightForm() (tea.Model, tea.Cmd) {
	entry := m.selectedEntry()
	if entry == nil {
		return m, nil
	}

	m.formExercise = entry.Name
	m.formWeight = models.FormatWeight(entry.EffectiveWeight)
	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title(fmt.Sprintf("New weight for %s (%s)", entry.Name, m.unit)).
				Value(&m.formWeight).
				Validate(validateWeightInput),
		),
	)
	m.state = StateWeightForm

	return m, m.form.Init()
}

func (m Model) updateWeightForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		w, err := strconv.ParseFloat(strings.TrimSpace(m.formWeight), 64)
		if err != nil {
			m.status = "⚠ invalid weight: " + m.formWeight
		} else if err := m.engine.SetWeight(m.session, m.formExercise, w); err != nil {
			m.status = "⚠ " + err.Error()
		} else {
			m.status = fmt.Sprintf("Set %s to %s %s", m.formExercise, models.FormatWeight(w), m.unit)
			m.reload()
		}
		m.state = StateDays
		return m, nil
	case huh.StateAborted:
		m.state = StateDays
		return m, nil
	}

	return m, cmd
}

func validateWeightInput(s string) error {
	w, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return fmt.Errorf("enter a number")
	}
	if w < 0 {
		return fmt.Errorf("weight must be non-negative")
	}
	return nil
}
