package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/pspon/babod/internal/constants"
	"github.com/pspon/babod/internal/engine"
	"github.com/pspon/babod/internal/models"
	"github.com/pspon/babod/internal/validation"
	"github.com/pspon/babod/internal/workbook"
)

type SessionState int

const (
	StateDays SessionState = iota
	StateLog
	StateWeightForm
)

type Model struct {
	store   workbook.Provider
	engine  *engine.Engine
	session *engine.Session

	state             SessionState
	keys              KeyMap
	help              help.Model
	view              models.WorkoutView
	logEvents         []models.CompletionEvent
	days              []string
	unit              string
	activeTab         int // indexes days; len(days) is the Log tab
	cursor            int
	form              *huh.Form
	formWeight        string
	formExercise      string
	status            string
	validationWarning string
	quitting          bool
	width             int
	height            int
}

func NewModel(store workbook.Provider, eng *engine.Engine, sess *engine.Session) Model {
	days, err := store.Days()
	if err != nil {
		days = nil
	}

	unit := constants.DefaultWeightUnit
	if settings, err := store.GetSettings(); err == nil && settings.WeightUnit != "" {
		unit = settings.WeightUnit
	}

	m := Model{
		store:   store,
		engine:  eng,
		session: sess,
		state:   StateDays,
		keys:    DefaultKeyMap(),
		help:    help.New(),
		days:    days,
		unit:    unit,
	}

	m.reload()
	m.updateValidationStatus()

	return m
}

func (m Model) ShortHelp() []key.Binding {
	keys := []key.Binding{m.keys.Tab, m.keys.Quit, m.keys.Help}
	if m.state == StateDays {
		keys = append(keys, m.keys.Complete, m.keys.Weight)
	}
	keys = append(keys, m.keys.Refresh)
	return keys
}

func (m Model) FullHelp() [][]key.Binding {
	global := []key.Binding{m.keys.Tab, m.keys.ShiftTab, m.keys.Quit, m.keys.Help, m.keys.Refresh}
	navigation := []key.Binding{m.keys.Up, m.keys.Down, m.keys.Left, m.keys.Right}
	actions := []key.Binding{m.keys.Complete, m.keys.Weight}
	return [][]key.Binding{global, navigation, actions}
}

func (m Model) Init() tea.Cmd {
	return nil
}

// reload re-queries the merged view and today's log; every mutation is
// followed by a reload rather than patching local state.
func (m *Model) reload() {
	view, err := m.engine.BuildView(m.session, nil)
	if err != nil {
		m.status = "⚠ " + err.Error()
		return
	}
	m.view = view

	events, err := m.engine.CompletionsOn(m.engine.Today())
	if err != nil {
		m.status = "⚠ " + err.Error()
		return
	}
	m.logEvents = events

	if entries := m.activeEntries(); m.cursor >= len(entries) {
		m.cursor = 0
	}
}

// activeEntries returns the view rows under the selected day tab.
func (m Model) activeEntries() []models.ViewEntry {
	if m.activeTab >= len(m.days) {
		return nil
	}
	return m.view.ForDay(m.days[m.activeTab])
}

func (m Model) selectedEntry() *models.ViewEntry {
	entries := m.activeEntries()
	if m.cursor < 0 || m.cursor >= len(entries) {
		return nil
	}
	return &entries[m.cursor]
}

func (m *Model) updateValidationStatus() {
	templates := make(map[string][]models.ExerciseDef, len(m.days))
	for _, day := range m.days {
		defs, err := m.store.ReadTemplate(day)
		if err != nil {
			m.validationWarning = "⚠ Validation unavailable"
			return
		}
		templates[day] = defs
	}

	result := validation.New().ValidateTemplates(templates, m.days)
	if result.HasConflicts() {
		m.validationWarning = fmt.Sprintf("⚠ %d validation warning(s)", len(result.Conflicts))
	} else {
		m.validationWarning = ""
	}
}
