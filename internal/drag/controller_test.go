package drag

import (
	"context"
	"errors"
	"testing"

	"github.com/mjimenar/wayfarer/internal/activity"
	"github.com/mjimenar/wayfarer/internal/drop"
)

// fakeSource serves activities by id and can forget them mid-gesture.
type fakeSource struct {
	activities map[string]*activity.Activity
}

func (f *fakeSource) GetActivity(_ context.Context, id string) (*activity.Activity, error) {
	a, ok := f.activities[id]
	if !ok {
		return nil, activity.ErrActivityNotFound
	}
	return a, nil
}

// fakeTargets resolves every point at or right of X=100 to a fixed target.
type fakeTargets struct {
	target drop.Target
}

func (f *fakeTargets) TargetAt(p Point) (drop.Target, bool) {
	if p.X >= 100 {
		return f.target, true
	}
	return nil, false
}

type fakeHighlighter struct {
	current drop.Target
	sets    int
	clears  int
}

func (f *fakeHighlighter) Highlight(t drop.Target) {
	f.current = t
	f.sets++
}

func (f *fakeHighlighter) Clear() {
	f.current = nil
	f.clears++
}

type fakeDropper struct {
	drops []drop.Target
	err   error
	panic bool
}

func (f *fakeDropper) Drop(_ context.Context, _ *activity.Activity, target drop.Target) error {
	if f.panic {
		panic("dropper exploded")
	}
	f.drops = append(f.drops, target)
	return f.err
}

type fakeNotifier struct {
	notes []string
}

func (f *fakeNotifier) Notify(msg string, _ activity.NotifyKind) {
	f.notes = append(f.notes, msg)
}

func fixture(t *testing.T) (*Controller, *fakeSource, *fakeHighlighter, *fakeDropper, *fakeNotifier) {
	t.Helper()
	a, err := activity.New("trip-1", "museum")
	if err != nil {
		t.Fatalf("new activity: %v", err)
	}
	a.ID = "act-1"
	source := &fakeSource{activities: map[string]*activity.Activity{"act-1": a}}
	targets := &fakeTargets{target: drop.BankTarget{}}
	highlight := &fakeHighlighter{}
	dropper := &fakeDropper{}
	notifier := &fakeNotifier{}
	return NewController(source, targets, highlight, dropper, notifier), source, highlight, dropper, notifier
}

func TestTapDoesNotDrop(t *testing.T) {
	c, _, _, dropper, _ := fixture(t)
	ctx := context.Background()

	if err := c.Begin(ctx, "act-1", Point{X: 100, Y: 100}); err != nil {
		t.Fatalf("begin: %v", err)
	}
	// 5 cells of movement is below the 10-cell threshold.
	c.Move(Point{X: 103, Y: 104})
	if c.State() != StateArmed {
		t.Errorf("got state %v, want still armed", c.State())
	}

	if err := c.End(ctx, Point{X: 103, Y: 104}); err != nil {
		t.Fatalf("end: %v", err)
	}
	if len(dropper.drops) != 0 {
		t.Error("a tap must never invoke the drop resolver")
	}
	if c.State() != StateIdle || c.Session() != nil {
		t.Error("session must be cleared after a tap")
	}
}

func TestThresholdPromotesToDragging(t *testing.T) {
	c, _, _, dropper, _ := fixture(t)
	ctx := context.Background()

	if err := c.Begin(ctx, "act-1", Point{X: 0, Y: 0}); err != nil {
		t.Fatalf("begin: %v", err)
	}
	c.Move(Point{X: 11, Y: 0})
	if c.State() != StateDragging {
		t.Fatalf("got state %v, want dragging past threshold", c.State())
	}

	if err := c.End(ctx, Point{X: 120, Y: 0}); err != nil {
		t.Fatalf("end: %v", err)
	}
	if len(dropper.drops) != 1 {
		t.Fatalf("got %d drops, want 1", len(dropper.drops))
	}
}

func TestNativeBeginSkipsArming(t *testing.T) {
	c, _, _, _, _ := fixture(t)
	if err := c.BeginNative(context.Background(), "act-1", Point{}); err != nil {
		t.Fatalf("begin native: %v", err)
	}
	if c.State() != StateDragging {
		t.Errorf("got state %v, want immediate dragging", c.State())
	}
}

func TestBegin_StaleReference(t *testing.T) {
	c, source, _, _, _ := fixture(t)
	delete(source.activities, "act-1")

	err := c.Begin(context.Background(), "act-1", Point{})
	if !errors.Is(err, ErrStaleReference) {
		t.Fatalf("got %v, want ErrStaleReference", err)
	}
	if c.State() != StateIdle || c.Session() != nil {
		t.Error("a stale begin must not change state")
	}
}

func TestBegin_RejectsConcurrentSession(t *testing.T) {
	c, _, _, _, _ := fixture(t)
	ctx := context.Background()

	if err := c.Begin(ctx, "act-1", Point{}); err != nil {
		t.Fatalf("begin: %v", err)
	}
	first := c.Session()

	if err := c.Begin(ctx, "act-1", Point{}); !errors.Is(err, ErrSessionActive) {
		t.Errorf("got %v, want ErrSessionActive", err)
	}
	if c.Session() != first {
		t.Error("second begin overwrote the in-flight session")
	}
}

func TestHighlightIsExclusive(t *testing.T) {
	c, _, highlight, _, _ := fixture(t)
	ctx := context.Background()

	if err := c.BeginNative(ctx, "act-1", Point{}); err != nil {
		t.Fatalf("begin: %v", err)
	}

	c.Move(Point{X: 120, Y: 0}) // over a target
	if highlight.current == nil {
		t.Fatal("expected a highlighted target")
	}
	if highlight.clears != highlight.sets {
		t.Errorf("each set must be preceded by a clear: %d sets, %d clears", highlight.sets, highlight.clears)
	}

	c.Move(Point{X: 10, Y: 0}) // off target
	if highlight.current != nil {
		t.Error("moving off target must clear the highlight")
	}
}

func TestEnd_NoTargetAbandons(t *testing.T) {
	c, _, highlight, dropper, _ := fixture(t)
	ctx := context.Background()

	if err := c.BeginNative(ctx, "act-1", Point{}); err != nil {
		t.Fatalf("begin: %v", err)
	}
	c.Move(Point{X: 120, Y: 0})

	if err := c.End(ctx, Point{X: 10, Y: 0}); err != nil {
		t.Fatalf("end: %v", err)
	}
	if len(dropper.drops) != 0 {
		t.Error("release outside a target must not drop")
	}
	if highlight.current != nil {
		t.Error("abandoned gesture left a stale highlight")
	}
	if c.State() != StateIdle {
		t.Error("abandoned gesture left the machine active")
	}
}

func TestEnd_ActivityDeletedMidGesture(t *testing.T) {
	c, source, _, dropper, notifier := fixture(t)
	ctx := context.Background()

	if err := c.BeginNative(ctx, "act-1", Point{}); err != nil {
		t.Fatalf("begin: %v", err)
	}
	delete(source.activities, "act-1")

	if err := c.End(ctx, Point{X: 120, Y: 0}); err != nil {
		t.Fatalf("end: %v", err)
	}
	if len(dropper.drops) != 0 {
		t.Error("drop must be abandoned when the activity vanished")
	}
	if len(notifier.notes) != 1 {
		t.Errorf("expected one notification, got %v", notifier.notes)
	}
	if c.State() != StateIdle {
		t.Error("machine stuck active after abandoned drop")
	}
}

func TestEnd_CleansUpWhenDropperPanics(t *testing.T) {
	c, _, highlight, dropper, _ := fixture(t)
	dropper.panic = true
	ctx := context.Background()

	if err := c.BeginNative(ctx, "act-1", Point{}); err != nil {
		t.Fatalf("begin: %v", err)
	}
	c.Move(Point{X: 120, Y: 0})

	func() {
		defer func() { _ = recover() }()
		_ = c.End(ctx, Point{X: 120, Y: 0})
	}()

	if c.State() != StateIdle || c.Session() != nil {
		t.Error("panicking dropper left the session active")
	}
	if highlight.current != nil {
		t.Error("panicking dropper left a stale highlight")
	}
}

func TestCancelRestoresIdle(t *testing.T) {
	c, _, highlight, dropper, _ := fixture(t)
	ctx := context.Background()

	if err := c.BeginNative(ctx, "act-1", Point{}); err != nil {
		t.Fatalf("begin: %v", err)
	}
	c.Move(Point{X: 120, Y: 0})

	c.Cancel()
	if c.State() != StateIdle || c.Session() != nil {
		t.Error("cancel must reset the machine")
	}
	if highlight.current != nil {
		t.Error("cancel left a stale highlight")
	}
	if len(dropper.drops) != 0 {
		t.Error("cancel must never drop")
	}
}

func TestEnd_PropagatesDropperError(t *testing.T) {
	c, _, _, dropper, _ := fixture(t)
	dropper.err = errors.New("save failed")
	ctx := context.Background()

	if err := c.BeginNative(ctx, "act-1", Point{}); err != nil {
		t.Fatalf("begin: %v", err)
	}
	if err := c.End(ctx, Point{X: 120, Y: 0}); err == nil {
		t.Error("expected dropper error to surface")
	}
	if c.State() != StateIdle {
		t.Error("machine must be idle even when the drop failed")
	}
}

func TestDistance(t *testing.T) {
	p := Point{X: 0, Y: 0}
	if d := p.distanceTo(Point{X: 3, Y: 4}); d != 5 {
		t.Errorf("got %v, want 5", d)
	}
}
