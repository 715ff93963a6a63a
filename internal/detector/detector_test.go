package detector

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rio-visualizer/internal/event"
	"rio-visualizer/internal/fields"
	"rio-visualizer/internal/history"
	"rio-visualizer/internal/mathutil"
	"rio-visualizer/internal/memory"
	"rio-visualizer/internal/physics"
	"rio-visualizer/internal/timeutil"
)

const (
	addrContact = 0x808909A1
	addrMissed  = 0x80890B18
	addrHBP     = 0x808909A3
	addrReplay  = 0x80872540
)

type rig struct {
	fake *memory.Fake
	acc  *memory.Accessor
	hist *history.History
	det  *Detector
	rec  *recorder
}

type recorder struct {
	kinds []event.Kind
	err   error
}

func (r *recorder) Record(_ context.Context, k event.Kind, _ *fields.Snapshot) error {
	r.kinds = append(r.kinds, k)
	return r.err
}

func newRig(t *testing.T) *rig {
	t.Helper()
	fake := memory.NewFake()
	acc := memory.NewAccessor(fake, memory.WithRetry(memory.RetryPolicy{Attempts: 1}))
	hist := history.New(true)
	b := &event.Builder{
		Calc:   physics.NewBallistic(),
		Roster: physics.DefaultRoster(),
		Clock:  timeutil.NewMockClock(time.Unix(0, 0)),
	}
	rec := &recorder{}
	return &rig{fake: fake, acc: acc, hist: hist, rec: rec, det: New(acc, hist, b, WithRecorder(rec))}
}

func (r *rig) set(addr uint32, v bool) {
	b := byte(0)
	if v {
		b = 1
	}
	r.fake.Poke(addr, []byte{b})
}

func (r *rig) poll(t *testing.T) PollResult {
	t.Helper()
	res, err := r.det.Poll(context.Background())
	require.NoError(t, err)
	return res
}

func TestRising(t *testing.T) {
	seq := []bool{false, false, true, true, false, true}
	var edges []int
	for i := 1; i < len(seq); i++ {
		if Rising(seq[i], seq[i-1], true) {
			edges = append(edges, i)
		}
	}
	assert.Equal(t, []int{2, 5}, edges)
}

func TestEdgeDetector(t *testing.T) {
	d := &EdgeDetector{Target: true}
	var edges []int
	for i, v := range []bool{false, false, true, true, false, true} {
		if d.Observe(v) {
			edges = append(edges, i)
		}
	}
	assert.Equal(t, []int{2, 5}, edges)

	first := &EdgeDetector{Target: true}
	assert.True(t, first.Observe(true), "absent previous value counts as not target")
}

func TestContactBuildsHit(t *testing.T) {
	r := newRig(t)
	assert.Empty(t, r.poll(t).Fired)

	r.set(addrContact, true)
	res := r.poll(t)
	assert.Equal(t, []event.Kind{event.Hit}, res.Fired)
	assert.True(t, res.Displayable)
	require.Equal(t, 1, r.hist.Len())
	assert.Equal(t, event.Hit, r.hist.Last().Kind)
	assert.Equal(t, []event.Kind{event.Hit}, r.rec.kinds)

	res = r.poll(t)
	assert.Empty(t, res.Fired, "held value is not an edge")
	assert.True(t, res.Displayable)
	assert.True(t, r.hist.Last().Valid())

	r.set(addrContact, false)
	res = r.poll(t)
	assert.False(t, res.Displayable)
	assert.False(t, r.hist.Last().Valid())
	assert.Nil(t, r.hist.Display())
}

func TestMissedAndHitByPitchSameFrameBuildTwoEvents(t *testing.T) {
	r := newRig(t)
	r.set(addrMissed, true)
	r.set(addrHBP, true)
	res := r.poll(t)
	assert.Equal(t, []event.Kind{event.StrikeOrBall, event.StrikeOrBall}, res.Fired)
	require.Equal(t, 2, r.hist.Len())
	assert.NotEqual(t, r.hist.At(0).ID, r.hist.At(1).ID)
	assert.Equal(t, []event.Kind{event.StrikeOrBall, event.StrikeOrBall}, r.rec.kinds)

	res = r.poll(t)
	assert.Empty(t, res.Fired, "held triggers are not edges")
	assert.Equal(t, 2, r.hist.Len())
}

func TestTriggerPriority(t *testing.T) {
	r := newRig(t)
	r.set(addrMissed, true)
	r.set(addrContact, true)
	res := r.poll(t)
	assert.Equal(t, []event.Kind{event.Hit, event.StrikeOrBall}, res.Fired)
}

func TestReplayGatesDetection(t *testing.T) {
	r := newRig(t)
	r.set(addrReplay, true)
	r.set(addrContact, true)
	res := r.poll(t)
	assert.Empty(t, res.Fired)
	assert.False(t, res.Displayable)

	r.set(addrReplay, false)
	res = r.poll(t)
	assert.Empty(t, res.Fired, "contact was already seen while gated")
}

func TestReplayInvalidatesLiveEvent(t *testing.T) {
	r := newRig(t)
	r.set(addrMissed, true)
	r.poll(t)
	require.True(t, r.hist.Last().Valid())

	r.set(addrReplay, true)
	r.poll(t)
	assert.False(t, r.hist.Last().Valid())

	r.set(addrReplay, false)
	r.poll(t)
	assert.False(t, r.hist.Last().Valid(), "validity never comes back")
}

func TestCaptureFailureLeavesPrevious(t *testing.T) {
	r := newRig(t)
	r.set(addrContact, true)
	r.fake.DropAfter(1)

	_, err := r.det.Poll(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, memory.ErrDisconnected))
	assert.Equal(t, 0, r.hist.Len())

	res := r.poll(t)
	assert.Equal(t, []event.Kind{event.Hit}, res.Fired, "edge still pending after failed cycle")
}

func TestForceReplayWritesBallState(t *testing.T) {
	r := newRig(t)
	r.set(addrContact, true)
	r.poll(t)
	r.set(addrContact, false)
	r.poll(t)

	r.hist.Left()
	require.True(t, r.hist.ToggleForce())
	pinned := r.hist.Forced()

	r.set(addrContact, true)
	res := r.poll(t)
	assert.True(t, res.Forced)
	assert.Empty(t, res.Fired)
	assert.Equal(t, 1, r.hist.Len())

	ctx := context.Background()
	pos, err := r.acc.ReadVec3(ctx, fields.BallPosition, 0)
	require.NoError(t, err)
	vel, err := r.acc.ReadVec3(ctx, fields.BallVelocity, 0)
	require.NoError(t, err)
	acc, err := r.acc.ReadVec3(ctx, fields.BallAcceleration, 0)
	require.NoError(t, err)

	assertVec(t, pinned.Hit.Flight.Path[0], pos)
	assertVec(t, pinned.Hit.Ball.Velocity, vel)
	assertVec(t, pinned.Hit.Ball.Acceleration, acc)
}

func TestRecorderErrorIsNotFatal(t *testing.T) {
	r := newRig(t)
	r.rec.err = errors.New("disk full")
	r.set(addrMissed, true)
	res := r.poll(t)
	assert.Equal(t, []event.Kind{event.StrikeOrBall}, res.Fired)
}

func assertVec(t *testing.T, want, got mathutil.Vec3) {
	t.Helper()
	for i := range want {
		assert.InDelta(t, want[i], got[i], 1e-5*math.Max(1, math.Abs(want[i])))
	}
}
