package tui

import (
	"errors"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mjimenar/wayfarer/internal/activity"
	"github.com/mjimenar/wayfarer/internal/calendar"
	"github.com/mjimenar/wayfarer/internal/drag"
	"github.com/mjimenar/wayfarer/internal/drop"
	"github.com/mjimenar/wayfarer/internal/timegrid"
)

// Update handles incoming messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case TripLoadedMsg:
		m.trip = msg.Trip
		m.activities = msg.Activities
		m.loading = false
		// Focus the trip when today falls outside its range.
		today := timegrid.TruncateToDay(time.Now())
		if today.Before(m.trip.StartDate) || today.After(m.trip.EndDate) {
			m.vm.SetDate(m.trip.StartDate)
		}
		return m, nil

	case ActivitiesReloadedMsg:
		m.activities = msg.Activities
		m.clampCursor()
		return m, nil

	case ErrMsg:
		LogError("command", msg.Err)
		m.status.Notify(msg.Err.Error(), activity.NotifyError)
		return m, ClearStatusAfter()

	case ClearStatusMsg:
		m.status.clear()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	LogKeyPress(msg)

	switch m.mode {
	case ModeMove:
		return m.handleMoveKey(msg)
	case ModeAdd:
		return m.handleAddKey(msg)
	}

	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit

	case "a":
		if m.trip == nil {
			return m, nil
		}
		LogModeChange(ModeNormal, ModeAdd, "quick add")
		m.mode = ModeAdd
		m.input.SetValue("")
		m.input.Focus()
		return m, nil

	case "v":
		switch m.vm.CurrentView() {
		case calendar.ViewDay:
			m.vm.SetView(calendar.ViewWeek)
		case calendar.ViewWeek:
			m.vm.SetView(calendar.ViewMonth)
		default:
			m.vm.SetView(calendar.ViewDay)
		}
		return m, nil

	case "left", "h":
		m.vm.Previous()
		m.clampCursor()
		return m, nil

	case "right", "l":
		m.vm.Next()
		m.clampCursor()
		return m, nil

	case "t":
		m.vm.SetDate(time.Now())
		m.clampCursor()
		return m, nil

	case "down", "j":
		if items := m.selectable(); len(items) > 0 && m.cursor < len(items)-1 {
			m.cursor++
		}
		return m, nil

	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil

	case "m", "enter":
		return m.beginKeyboardMove()
	}

	return m, nil
}

func (m Model) handleAddKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.mode = ModeNormal
		m.input.Blur()
		return m, nil

	case "enter":
		title := strings.TrimSpace(m.input.Value())
		m.mode = ModeNormal
		m.input.Blur()
		if title == "" {
			return m, nil
		}
		return m, CreateBankActivity(m.repo, m.trip.ID, title)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// beginKeyboardMove picks up the selected activity. Keyboard moves skip the
// arming phase the same way a native HTML drag would.
func (m Model) beginKeyboardMove() (tea.Model, tea.Cmd) {
	a := m.selected()
	if a == nil {
		return m, nil
	}

	if err := m.controller.BeginNative(m.ctx(), a.ID, drag.Point{}); err != nil {
		if errors.Is(err, drag.ErrStaleReference) {
			LogError("keyboard pickup", err)
			return m, nil
		}
		m.status.Notify(err.Error(), activity.NotifyError)
		return m, ClearStatusAfter()
	}

	LogModeChange(ModeNormal, ModeMove, "pickup "+a.ID)
	m.mode = ModeMove
	m.kbBank = false
	if a.Scheduled() {
		m.kbDate = timegrid.TruncateToDay(*a.Start)
		m.kbHour = clampHour(a.Start.Hour())
	} else {
		m.kbDate = timegrid.TruncateToDay(m.vm.CurrentDate())
		m.kbHour = m.cfg.Schedule.DayHourMin
	}
	m.router.kbMode = true
	m.syncKeyboardTarget()
	return m, nil
}

func (m Model) handleMoveKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.controller.Cancel()
		m.router.kbMode = false
		m.mode = ModeNormal
		return m, nil

	case "enter":
		err := m.controller.End(m.ctx(), drag.Point{})
		m.router.kbMode = false
		m.mode = ModeNormal
		cmds := []tea.Cmd{ReloadActivities(m.repo, m.trip.ID)}
		if err != nil {
			m.status.Notify(err.Error(), activity.NotifyError)
		}
		if m.status.message != "" {
			cmds = append(cmds, ClearStatusAfter())
		}
		return m, tea.Batch(cmds...)

	case "b":
		m.kbBank = !m.kbBank
		m.syncKeyboardTarget()
		return m, nil

	case "left", "h":
		m.kbDate = m.kbDate.AddDate(0, 0, -1)
		m.kbBank = false
		m.syncKeyboardTarget()
		return m, nil

	case "right", "l":
		m.kbDate = m.kbDate.AddDate(0, 0, 1)
		m.kbBank = false
		m.syncKeyboardTarget()
		return m, nil

	case "up", "k":
		m.kbHour = clampHour(m.kbHour - 1)
		m.kbBank = false
		m.syncKeyboardTarget()
		return m, nil

	case "down", "j":
		m.kbHour = clampHour(m.kbHour + 1)
		m.kbBank = false
		m.syncKeyboardTarget()
		return m, nil
	}

	return m, nil
}

// syncKeyboardTarget publishes the keyboard target to the router and nudges
// the controller so the highlight follows.
func (m Model) syncKeyboardTarget() {
	if m.kbBank {
		m.router.kb = drop.BankTarget{}
	} else {
		m.router.kb = drop.TimeSlotTarget{
			Date: m.kbDate,
			Time: fmt.Sprintf("%02d:00", m.kbHour),
		}
	}
	m.controller.Move(drag.Point{})
}

func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	LogMouse(msg)
	if m.trip == nil {
		return m, nil
	}
	if m.mode == ModeMove {
		// Keyboard moves own the gesture; ignore the pointer until done.
		return m, nil
	}

	p := drag.Point{X: float64(msg.X), Y: float64(msg.Y)}

	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return m, nil
		}
		if id, ok := m.hitMap.ActivityAt(msg.X, msg.Y); ok {
			if err := m.controller.Begin(m.ctx(), id, p); err != nil {
				// A stale reference means the row under the pointer no longer
				// exists; the gesture is abandoned without bothering the user.
				if errors.Is(err, drag.ErrStaleReference) {
					LogError("drag begin", err)
					return m, nil
				}
				m.status.Notify(err.Error(), activity.NotifyError)
				return m, ClearStatusAfter()
			}
		}
		return m, nil

	case tea.MouseActionMotion:
		m.controller.Move(p)
		return m, nil

	case tea.MouseActionRelease:
		if m.controller.State() == drag.StateIdle {
			return m, nil
		}
		err := m.controller.End(m.ctx(), p)
		cmds := []tea.Cmd{ReloadActivities(m.repo, m.trip.ID)}
		if err != nil {
			m.status.Notify(err.Error(), activity.NotifyError)
		}
		if m.status.message != "" {
			cmds = append(cmds, ClearStatusAfter())
		}
		return m, tea.Batch(cmds...)
	}

	return m, nil
}

func (m *Model) clampCursor() {
	items := m.selectable()
	if m.cursor >= len(items) {
		m.cursor = len(items) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func clampHour(h int) int {
	if h < timegrid.GridStartHour {
		return timegrid.GridStartHour
	}
	if h > timegrid.GridEndHour-1 {
		return timegrid.GridEndHour - 1
	}
	return h
}
