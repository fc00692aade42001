// Package drag owns the live drag gesture state. Pointer-style input from any
// adapter (terminal mouse, keyboard emulation) is normalized into one
// begin/move/end/cancel protocol against a single state machine, so drop
// behavior is identical regardless of input device.
package drag

import (
	"context"
	"errors"
	"math"

	"github.com/mjimenar/wayfarer/internal/activity"
	"github.com/mjimenar/wayfarer/internal/drop"
)

// Gesture errors. These are recovered where the gesture happens; none of them
// escalates past End.
var (
	ErrSessionActive  = errors.New("a drag session is already active")
	ErrStaleReference = errors.New("drag source activity no longer resolvable")
)

// Threshold is the movement distance, in device-independent cells, that
// separates an intended drag from a tap. A tap must never trigger a drop.
const Threshold = 10.0

// State is the gesture machine's phase.
type State int

const (
	// StateIdle means no gesture is in flight.
	StateIdle State = iota
	// StateArmed means the pointer is down but movement is below Threshold.
	StateArmed
	// StateDragging means the gesture is a live drag.
	StateDragging
)

// Point is a pointer position in presentation coordinates.
type Point struct {
	X float64
	Y float64
}

func (p Point) distanceTo(other Point) float64 {
	return math.Hypot(p.X-other.X, p.Y-other.Y)
}

// Session is the transient record of one in-flight gesture. Exactly one may
// be active at a time.
type Session struct {
	ActivityID string
	Activity   *activity.Activity
	Origin     Point
}

// ActivitySource resolves the dragged activity by id. Resolution happens both
// at gesture start and again at drop time, because the activity may be
// deleted by another flow mid-gesture.
type ActivitySource interface {
	GetActivity(ctx context.Context, id string) (*activity.Activity, error)
}

// TargetResolver maps a pointer position to the drop target under it.
type TargetResolver interface {
	TargetAt(p Point) (drop.Target, bool)
}

// Highlighter renders the candidate drop target. Highlighting is exclusive:
// Highlight replaces any previous target, Clear removes it.
type Highlighter interface {
	Highlight(t drop.Target)
	Clear()
}

// Dropper receives the final (activity, target) pair of a completed drag.
type Dropper interface {
	Drop(ctx context.Context, a *activity.Activity, target drop.Target) error
}

// Controller is the drag gesture state machine.
type Controller struct {
	source    ActivitySource
	targets   TargetResolver
	highlight Highlighter
	dropper   Dropper
	notifier  activity.Notifier

	state   State
	session *Session
}

// NewController wires the gesture machine to its collaborators. highlight and
// notifier may be nil.
func NewController(source ActivitySource, targets TargetResolver, highlight Highlighter, dropper Dropper, notifier activity.Notifier) *Controller {
	if notifier == nil {
		notifier = activity.NopNotifier{}
	}
	return &Controller{
		source:    source,
		targets:   targets,
		highlight: highlight,
		dropper:   dropper,
		notifier:  notifier,
	}
}

// State returns the current gesture phase.
func (c *Controller) State() State {
	return c.state
}

// Session returns the in-flight session, or nil when idle.
func (c *Controller) Session() *Session {
	return c.session
}

// Begin starts a pointer gesture over the given activity. The session arms
// but does not drag until movement exceeds Threshold. An unresolvable source
// is a stale reference: no state changes. A Begin while a session is live is
// rejected rather than overwriting the in-flight session.
func (c *Controller) Begin(ctx context.Context, activityID string, origin Point) error {
	if c.state != StateIdle {
		return ErrSessionActive
	}
	a, err := c.resolve(ctx, activityID)
	if err != nil {
		return err
	}
	c.session = &Session{ActivityID: activityID, Activity: a, Origin: origin}
	c.state = StateArmed
	return nil
}

// BeginNative starts a native platform drag, which has already distinguished
// click from drag, so the machine enters Dragging immediately.
func (c *Controller) BeginNative(ctx context.Context, activityID string, origin Point) error {
	if c.state != StateIdle {
		return ErrSessionActive
	}
	a, err := c.resolve(ctx, activityID)
	if err != nil {
		return err
	}
	c.session = &Session{ActivityID: activityID, Activity: a, Origin: origin}
	c.state = StateDragging
	return nil
}

func (c *Controller) resolve(ctx context.Context, id string) (*activity.Activity, error) {
	a, err := c.source.GetActivity(ctx, id)
	if err != nil || a == nil {
		return nil, ErrStaleReference
	}
	return a, nil
}

// Move feeds a pointer position into the machine. An armed session promotes
// to dragging once the distance from the origin exceeds Threshold; while
// dragging, the drop target under the pointer is highlighted exclusively.
func (c *Controller) Move(p Point) {
	switch c.state {
	case StateArmed:
		if c.session.Origin.distanceTo(p) > Threshold {
			c.state = StateDragging
			c.updateHighlight(p)
		}
	case StateDragging:
		c.updateHighlight(p)
	}
}

func (c *Controller) updateHighlight(p Point) {
	if c.highlight == nil {
		return
	}
	c.highlight.Clear()
	if target, ok := c.targets.TargetAt(p); ok {
		c.highlight.Highlight(target)
	}
}

// End finishes the gesture at the given position. A tap (never promoted past
// Armed) and a release outside any drop target both abandon silently, leaving
// the activity's prior placement untouched. The dragged activity is
// re-resolved by id before the drop; if it vanished mid-gesture the drop is
// abandoned and the user notified. Highlight and session state are cleared on
// every exit path, including a panicking dropper.
func (c *Controller) End(ctx context.Context, p Point) error {
	if c.state == StateIdle {
		return nil
	}
	defer c.reset()

	if c.state == StateArmed {
		// Below-threshold release is a tap, not a drag.
		return nil
	}

	target, ok := c.targets.TargetAt(p)
	if !ok {
		return nil
	}

	a, err := c.resolve(ctx, c.session.ActivityID)
	if err != nil {
		c.notifier.Notify("That activity no longer exists", activity.NotifyWarning)
		return nil
	}

	return c.dropper.Drop(ctx, a, target)
}

// Cancel abandons the gesture and restores the pre-drag appearance. Persisted
// state is never touched.
func (c *Controller) Cancel() {
	if c.state == StateIdle {
		return
	}
	c.reset()
}

func (c *Controller) reset() {
	if c.highlight != nil {
		c.highlight.Clear()
	}
	c.session = nil
	c.state = StateIdle
}
