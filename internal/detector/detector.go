// Package detector turns per-frame memory polling into discrete events.
package detector

import (
	"context"
	"fmt"
	"log/slog"

	"rio-visualizer/internal/event"
	"rio-visualizer/internal/fields"
	"rio-visualizer/internal/history"
	"rio-visualizer/internal/memory"
)

// Rising reports a transition into target between two consecutive samples.
func Rising(cur, prev, target bool) bool {
	return cur == target && prev != target
}

// EdgeDetector tracks one boolean signal across samples.
type EdgeDetector struct {
	Target bool
	prev   bool
	primed bool
}

// Observe records v and reports whether it is a rising edge. The first
// sample is compared against an absent previous value.
func (d *EdgeDetector) Observe(v bool) bool {
	fired := v == d.Target && (!d.primed || d.prev != d.Target)
	d.prev, d.primed = v, true
	return fired
}

// Recorder receives every snapshot that produced an event.
type Recorder interface {
	Record(ctx context.Context, kind event.Kind, s *fields.Snapshot) error
}

type trigger struct {
	name string
	get  func(*fields.Snapshot) bool
	kind event.Kind
}

// triggers in priority order.
var triggers = [...]trigger{
	{"was_contact_made", func(s *fields.Snapshot) bool { return s.WasContactMade }, event.Hit},
	{"missed_ball", func(s *fields.Snapshot) bool { return s.MissedBall }, event.StrikeOrBall},
	{"hit_by_pitch", func(s *fields.Snapshot) bool { return s.HitByPitch }, event.StrikeOrBall},
}

// PollResult describes one cycle.
type PollResult struct {
	// Fired lists the kinds of events appended this cycle.
	Fired []event.Kind
	// Forced is set when a pinned hit was written back into the game.
	Forced bool
	// Displayable is set while any trigger field holds and detection is not gated.
	Displayable bool
}

// Detector owns the current and previous snapshots.
type Detector struct {
	acc   *memory.Accessor
	hist  *history.History
	build *event.Builder
	log   *slog.Logger
	rec   Recorder
	cur   fields.Snapshot
	edges [len(triggers)]EdgeDetector
}

type Option func(*Detector)

func WithLogger(l *slog.Logger) Option { return func(d *Detector) { d.log = l } }
func WithRecorder(r Recorder) Option   { return func(d *Detector) { d.rec = r } }

func New(acc *memory.Accessor, hist *history.History, build *event.Builder, opts ...Option) *Detector {
	d := &Detector{acc: acc, hist: hist, build: build, log: slog.Default()}
	for i := range d.edges {
		d.edges[i].Target = true
	}
	for _, o := range opts {
		o(d)
	}
	return d
}

// Snapshot returns a copy of the latest capture.
func (d *Detector) Snapshot() fields.Snapshot { return d.cur }

// Poll runs one detection cycle. A capture failure returns the error with
// no event created and the previous snapshot untouched.
func (d *Detector) Poll(ctx context.Context) (PollResult, error) {
	var res PollResult
	next := d.cur
	if err := fields.Capture(ctx, d.acc, fields.EveryFrame, &next); err != nil {
		return res, fmt.Errorf("detector: poll: %w", err)
	}

	// Edges advance on a copy so a failed cycle leaves them pending.
	edges := d.edges
	gated := next.Gated()
	for i, t := range triggers {
		cur := t.get(&next)
		if !edges[i].Observe(cur) || gated {
			if cur && !gated {
				res.Displayable = true
			}
			continue
		}
		if err := fields.Capture(ctx, d.acc, fields.Full, &next); err != nil {
			return PollResult{}, fmt.Errorf("detector: %s: %w", t.name, err)
		}
		e, forced, err := d.handle(ctx, t, &next)
		if err != nil {
			return PollResult{}, err
		}
		res.Forced = res.Forced || forced
		if e != nil {
			res.Fired = append(res.Fired, t.kind)
		}
		res.Displayable = true
	}

	if live := d.hist.Last(); live != nil && live.Valid() && !live.Refresh(&next) {
		d.log.Debug("event no longer live", "id", live.ID, "kind", live.Kind)
	}
	d.cur = next
	d.edges = edges
	return res, nil
}

// handle runs the trigger's handler. Build failures are logged and skipped;
// write failures are returned.
func (d *Detector) handle(ctx context.Context, t trigger, s *fields.Snapshot) (e *event.Event, forced bool, err error) {
	if t.kind == event.Hit {
		if pinned := d.hist.Forced(); pinned != nil && pinned.Hit != nil {
			return nil, true, d.force(ctx, pinned)
		}
	}

	switch t.kind {
	case event.Hit:
		e, err = d.build.Hit(s)
	default:
		e = d.build.StrikeOrBall(s)
	}
	if err != nil {
		d.log.Warn("build event", "trigger", t.name, "err", err)
		return nil, false, nil
	}
	d.hist.Append(e)
	d.log.Info("event", "kind", e.Kind, "id", e.ID, "index", d.hist.Len()-1)

	if d.rec != nil {
		if err := d.rec.Record(ctx, e.Kind, e.Snapshot); err != nil {
			d.log.Warn("record snapshot", "id", e.ID, "err", err)
		}
	}
	return e, false, nil
}

// force writes the pinned hit's launch state over the live ball.
func (d *Detector) force(ctx context.Context, pinned *event.Event) error {
	r := pinned.Hit
	if len(r.Flight.Path) == 0 {
		return nil
	}
	writes := []struct {
		f memory.Field
		v any
	}{
		{fields.BallPosition, r.Flight.Path[0]},
		{fields.BallVelocity, r.Ball.Velocity},
		{fields.BallAcceleration, r.Ball.Acceleration},
	}
	for _, w := range writes {
		if err := d.acc.Write(ctx, w.f, w.v, 0); err != nil {
			return fmt.Errorf("detector: force replay: %w", err)
		}
	}
	d.log.Info("forced replay", "id", pinned.ID)
	return nil
}
