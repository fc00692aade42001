package tui

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/mjimenar/wayfarer/internal/activity"
	"github.com/mjimenar/wayfarer/internal/calendar"
	"github.com/mjimenar/wayfarer/internal/config"
	"github.com/mjimenar/wayfarer/internal/drag"
	"github.com/mjimenar/wayfarer/internal/drop"
)

// Mode represents the current interaction mode.
type Mode int

const (
	ModeNormal Mode = iota
	ModeMove        // keyboard move: a picked-up activity follows the cursor
	ModeAdd         // quick-add: typing a new bank activity title
)

// statusState holds the transient footer message. It implements
// activity.Notifier so the drop resolver and drag controller can write to it
// directly.
type statusState struct {
	message string
	kind    activity.NotifyKind
}

func (s *statusState) Notify(message string, kind activity.NotifyKind) {
	s.message = message
	s.kind = kind
}

func (s *statusState) clear() {
	s.message = ""
	s.kind = activity.NotifyInfo
}

// highlightState tracks the candidate drop target during a gesture. It
// implements drag.Highlighter.
type highlightState struct {
	target drop.Target
}

func (h *highlightState) Highlight(t drop.Target) { h.target = t }
func (h *highlightState) Clear()                  { h.target = nil }

// targetRouter resolves gesture positions. During a keyboard move the target
// is chosen by the arrow keys, not by a pointer, so the router short-circuits
// the hit map.
type targetRouter struct {
	hits   *HitMap
	kb     drop.Target
	kbMode bool
}

func (t *targetRouter) TargetAt(p drag.Point) (drop.Target, bool) {
	if t.kbMode {
		if t.kb == nil {
			return nil, false
		}
		return t.kb, true
	}
	return t.hits.TargetAt(p)
}

// Model is the main TUI model.
type Model struct {
	// Dependencies
	repo activity.Repository
	cfg  *config.Config

	styles *Styles

	// The gesture machinery lives behind pointers so it survives bubbletea's
	// value-copy update cycle.
	vm         *calendar.ViewModel
	controller *drag.Controller
	resolver   *drop.Resolver
	hitMap     *HitMap
	router     *targetRouter
	status     *statusState
	highlight  *highlightState

	// Loaded data
	tripID     string
	trip       *activity.Trip
	activities []*activity.Activity

	// Interaction state
	mode    Mode
	cursor  int       // selection index into selectable()
	kbDate  time.Time // keyboard move target day
	kbHour  int       // keyboard move target hour
	kbBank  bool      // keyboard move target is the bank
	input   textinput.Model
	loading bool

	// Terminal dimensions
	width  int
	height int
}

// NewModel creates the TUI model for a trip. An empty tripID selects the
// most recently created trip at load time.
func NewModel(repo activity.Repository, cfg *config.Config, tripID string) Model {
	status := &statusState{}
	highlight := &highlightState{}
	hitMap := &HitMap{}
	router := &targetRouter{hits: hitMap}

	resolver := drop.New(repo, status,
		drop.WithDayHourWindow(cfg.Schedule.DayHourMin, cfg.Schedule.DayHourMax))
	controller := drag.NewController(repo, router, highlight, resolver, status)

	input := textinput.New()
	input.Placeholder = "New activity title"
	input.CharLimit = 120

	return Model{
		repo:       repo,
		cfg:        cfg,
		styles:     NewStyles(cfg.UI.Theme),
		vm:         calendar.NewViewModel(time.Now()),
		controller: controller,
		resolver:   resolver,
		hitMap:     hitMap,
		router:     router,
		status:     status,
		highlight:  highlight,
		tripID:     tripID,
		input:      input,
		loading:    true,
	}
}

// Init starts the initial trip load.
func (m Model) Init() tea.Cmd {
	return LoadTrip(m.repo, m.tripID)
}

// selectable returns the activities the keyboard cursor can walk: bank items
// first, then the scheduled activities on the focused date.
func (m Model) selectable() []*activity.Activity {
	items := calendar.Bank(m.activities)
	return append(items, calendar.ActivitiesOnDate(m.activities, m.vm.CurrentDate())...)
}

// selected returns the activity under the keyboard cursor, if any.
func (m Model) selected() *activity.Activity {
	items := m.selectable()
	if len(items) == 0 {
		return nil
	}
	if m.cursor >= len(items) {
		return items[len(items)-1]
	}
	return items[m.cursor]
}

// Run starts the TUI program.
func Run(repo activity.Repository, cfg *config.Config, tripID string) error {
	return RunWithDebug(repo, cfg, tripID, false)
}

// RunWithDebug starts the TUI, optionally tracing events to a file in the
// working directory.
func RunWithDebug(repo activity.Repository, cfg *config.Config, tripID string, debug bool) error {
	if err := InitDebugLogger(debug); err != nil {
		return err
	}
	defer CloseDebugLogger()

	model := NewModel(repo, cfg, tripID)
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running program: %w", err)
	}
	return nil
}

// ctx returns the context used for repository calls made synchronously from
// Update. The TUI has no cancellation story beyond process exit.
func (m Model) ctx() context.Context {
	return context.Background()
}
