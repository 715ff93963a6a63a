package session

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rio-visualizer/internal/detector"
	"rio-visualizer/internal/event"
	"rio-visualizer/internal/fields"
	"rio-visualizer/internal/physics"
	"rio-visualizer/internal/timeutil"
)

var _ detector.Recorder = (*Archive)(nil)

func builder(clock timeutil.Clock) *event.Builder {
	return &event.Builder{
		Calc:   physics.NewBallistic(),
		Roster: physics.DefaultRoster(),
		Clock:  clock,
	}
}

func played(t *testing.T, b *event.Builder) []*event.Event {
	t.Helper()
	hit, err := b.Hit(&fields.Snapshot{GameID: 7, WasContactMade: true, BatterX: -0.5, BallX: -1.1, Rand1: 1})
	require.NoError(t, err)
	return []*event.Event{
		b.StrikeOrBall(&fields.Snapshot{GameID: 7, MissedBall: true, IsStrike: true, Strikes: 1}),
		hit,
		b.StrikeOrBall(&fields.Snapshot{GameID: 7, HitByPitch: true}),
	}
}

func TestFileNameNumbersCollisions(t *testing.T) {
	dir := t.TempDir()
	name, err := FileName(dir, 42)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "game 42.json"), name)

	require.NoError(t, os.WriteFile(name, nil, 0644))
	name, err = FileName(dir, 42)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "game 42 (1).json"), name)

	require.NoError(t, os.WriteFile(name, nil, 0644))
	name, err = FileName(dir, 42)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "game 42 (2).json"), name)
}

func TestSaveLoadReplay(t *testing.T) {
	clock := timeutil.NewMockClock(time.Unix(50, 0))
	b := builder(clock)
	events := played(t, b)
	dir := t.TempDir()

	path, err := Save(dir, 7, events)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "game 7.json"), path)

	second, err := Save(dir, 7, events)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "game 7 (1).json"), second)

	snaps, err := Load(path)
	require.NoError(t, err)
	require.Len(t, snaps, len(events))
	for i, e := range events {
		if diff := cmp.Diff(e.Snapshot, snaps[i]); diff != "" {
			t.Errorf("snapshot %d mismatch (-want +got):\n%s", i, diff)
		}
	}

	replayed := Replay(b, snaps, nil)
	require.Len(t, replayed, len(events))
	for i, e := range replayed {
		assert.Equal(t, events[i].Kind, e.Kind, "event %d", i)
		assert.False(t, e.Valid(), "replayed events are historical")
		assert.Equal(t, events[i].Lines, e.Lines)
	}
	require.NotNil(t, replayed[1].Hit)
	assert.Equal(t, events[1].Hit.Flight.Distance, replayed[1].Hit.Flight.Distance)
}

func TestReplaySkipsIdleAndBroken(t *testing.T) {
	b := builder(timeutil.RealClock{})
	snaps := []*fields.Snapshot{
		{},
		nil,
		{WasContactMade: true, BatterID: 999},
		{MissedBall: true},
	}
	got := Replay(b, snaps, nil)
	require.Len(t, got, 1)
	assert.Equal(t, event.StrikeOrBall, got[0].Kind)
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()
	_, err := Load(filepath.Join(dir, "missing.json"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte("{"), 0644))
	_, err = Load(bad)
	assert.Error(t, err)
}

func TestArchiveRoundTrip(t *testing.T) {
	ctx := context.Background()
	clock := timeutil.NewMockClock(time.Unix(1_700_000_000, 0))
	path := filepath.Join(t.TempDir(), "archive.db")

	first, err := OpenArchive(ctx, path, clock)
	require.NoError(t, err)
	events := played(t, builder(clock))
	for _, e := range events {
		require.NoError(t, first.Record(ctx, e.Kind, e.Snapshot))
	}
	require.NoError(t, first.Close())

	clock.Advance(time.Hour)
	second, err := OpenArchive(ctx, path, clock)
	require.NoError(t, err)
	defer second.Close()
	assert.NotEqual(t, first.Session(), second.Session())

	sessions, err := second.Sessions(ctx)
	require.NoError(t, err)
	require.Len(t, sessions, 2)
	assert.Equal(t, first.Session(), sessions[0].ID)
	assert.Equal(t, len(events), sessions[0].Count)
	assert.Equal(t, 0, sessions[1].Count)
	assert.True(t, sessions[0].StartedAt.Equal(time.Unix(1_700_000_000, 0)))

	snaps, err := second.Snapshots(ctx, first.Session())
	require.NoError(t, err)
	require.Len(t, snaps, len(events))
	for i, e := range events {
		if diff := cmp.Diff(e.Snapshot, snaps[i]); diff != "" {
			t.Errorf("snapshot %d mismatch (-want +got):\n%s", i, diff)
		}
	}

	replayed := Replay(builder(clock), snaps, nil)
	kinds := make([]event.Kind, len(replayed))
	for i, e := range replayed {
		kinds[i] = e.Kind
	}
	assert.Equal(t, []event.Kind{event.StrikeOrBall, event.Hit, event.StrikeOrBall}, kinds)
}

func TestReadArchiveIsReadOnly(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "archive.db")
	w, err := OpenArchive(ctx, path, timeutil.RealClock{})
	require.NoError(t, err)
	require.NoError(t, w.Record(ctx, event.StrikeOrBall, &fields.Snapshot{MissedBall: true}))
	require.NoError(t, w.Close())

	r, err := ReadArchive(ctx, path)
	require.NoError(t, err)
	defer r.Close()
	assert.ErrorIs(t, r.Record(ctx, event.Hit, &fields.Snapshot{}), ErrReadOnly)

	sessions, err := r.Sessions(ctx)
	require.NoError(t, err)
	require.Len(t, sessions, 1, "reading registers no session")
	snaps, err := r.Snapshots(ctx, sessions[0].ID)
	require.NoError(t, err)
	require.Len(t, snaps, 1)
	assert.True(t, snaps[0].MissedBall)
}
