// Package event defines the records built when a trigger fires: a Hit with
// its flight results, or a StrikeOrBall with plate geometry.
package event

import (
	"math"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"rio-visualizer/internal/fields"
	"rio-visualizer/internal/physics"
)

// Kind is the closed set of event variants.
type Kind uint8

const (
	Hit Kind = iota
	StrikeOrBall
)

func (k Kind) String() string {
	if k == Hit {
		return "Hit"
	}
	return "StrikeOrBall"
}

// StrikeGeometry is the plate view of a pitch that was not put in play.
type StrikeGeometry struct {
	Handedness  int     `json:"handedness"`
	ModelX      float64 `json:"model_x"`
	BatterX     float64 `json:"batter_x"`
	StrikeX     float64 `json:"strike_x"`
	StrikeY     float64 `json:"strike_y"`
	StrikeLeft  float64 `json:"strike_range_left"`
	StrikeRight float64 `json:"strike_range_right"`

	HitboxLeft  float64 `json:"hitbox_left"`
	HitboxRight float64 `json:"hitbox_right"`
	BatNear     float64 `json:"hitbox_near"`
	BatFar      float64 `json:"hitbox_far"`
}

// Event is immutable after construction apart from its validity, which
// only ever goes from true to false.
type Event struct {
	ID        uuid.UUID
	Kind      Kind
	CreatedAt time.Time
	Snapshot  *fields.Snapshot

	// Lines holds pre-formatted text blocks; each block may span lines.
	Lines []string

	Hit        *physics.Result
	Alternates []physics.Result
	Strike     *StrikeGeometry

	invalid atomic.Bool
}

// Valid reports whether the event still describes the live play.
func (e *Event) Valid() bool { return !e.invalid.Load() }

// Invalidate marks the event stale. It cannot be undone.
func (e *Event) Invalidate() { e.invalid.Store(true) }

// Refresh re-evaluates validity against the latest every-frame fields and
// reports the result.
func (e *Event) Refresh(s *fields.Snapshot) bool {
	if e.Valid() && !StillValid(e.Kind, s) {
		e.Invalidate()
	}
	return e.Valid()
}

// StillValid reports whether an event of kind k is still in play for s.
func StillValid(k Kind, s *fields.Snapshot) bool {
	if s.Gated() {
		return false
	}
	if k == Hit {
		return s.WasContactMade
	}
	return s.MissedBall || s.HitByPitch
}

// Fade animates an overlay from transparent to opaque after a delay.
type Fade struct {
	Delay    time.Duration
	Duration time.Duration
}

// Alpha maps the time since creation to 0..255. A zero Duration is a step.
func (f Fade) Alpha(elapsed time.Duration) uint8 {
	t := elapsed - f.Delay
	if f.Duration <= 0 {
		if t < 0 {
			return 0
		}
		return 255
	}
	frac := math.Max(0, math.Min(1, float64(t)/float64(f.Duration)))
	return uint8(math.Round(frac * 255))
}

// Alpha is the overlay opacity at now. Invalid events draw fully opaque.
func (e *Event) Alpha(now time.Time, f Fade) uint8 {
	if !e.Valid() {
		return 255
	}
	return f.Alpha(now.Sub(e.CreatedAt))
}
