package event

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rio-visualizer/internal/fields"
	"rio-visualizer/internal/physics"
	"rio-visualizer/internal/timeutil"
)

var allText = TextOptions{
	Toggles: map[string]bool{
		"display_inning_text":                    true,
		"display_score_text":                     true,
		"display_count_text":                     true,
		"display_runners_text":                   true,
		"display_batter_text":                    true,
		"display_pitch_type_text":                true,
		"display_batting_result_ball_strike_hbp": true,
		"display_if_swung_text":                  true,
		"display_power_text":                     true,
		"display_contact_quality_text":           true,
		"display_selected_vertical_range_text":   true,
		"display_stick_input_text":               true,
	},
	HomeName: "Home",
	AwayName: "Away",
}

func newBuilder(clock timeutil.Clock) *Builder {
	return &Builder{
		Calc:   physics.NewBallistic(),
		Roster: physics.DefaultRoster(),
		Clock:  clock,
		Text:   allText,
	}
}

func TestStrikeCountIsPreDecrement(t *testing.T) {
	s := &fields.Snapshot{MissedBall: true, IsStrike: true, Strikes: 2, Balls: 1, Inning: 3}
	e := newBuilder(timeutil.NewMockClock(time.Unix(0, 0))).StrikeOrBall(s)

	require.Equal(t, StrikeOrBall, e.Kind)
	require.Len(t, e.Lines, 2)
	assert.Contains(t, e.Lines[0], "Top of the 3rd\n")
	assert.Contains(t, e.Lines[0], "1-1, 0 Outs\n")
	assert.Contains(t, e.Lines[1], "Result: Strike\n")

	balls, strikes := Count(s)
	assert.Equal(t, 1, balls)
	assert.Equal(t, 1, strikes)
	assert.Equal(t, "Result: Strike", ResultText(s))
}

func TestHitByPitchKeepsCount(t *testing.T) {
	s := &fields.Snapshot{MissedBall: true, HitByPitch: true, Balls: 3, Strikes: 1, Outs: 1}
	balls, strikes := Count(s)
	assert.Equal(t, 3, balls)
	assert.Equal(t, 1, strikes)
	assert.Equal(t, "Result: Hit By Pitch", ResultText(s))

	e := newBuilder(timeutil.RealClock{}).StrikeOrBall(s)
	assert.Contains(t, e.Lines[0], "3-1, 1 Out\n")
}

func TestBallDecrementsBalls(t *testing.T) {
	s := &fields.Snapshot{MissedBall: true, Balls: 2, Swung: false}
	balls, _ := Count(s)
	assert.Equal(t, 1, balls)
	assert.Equal(t, "Result: Ball", ResultText(s))
}

func TestStrikeTextTogglesOff(t *testing.T) {
	b := newBuilder(timeutil.RealClock{})
	b.Text = TextOptions{}
	e := b.StrikeOrBall(&fields.Snapshot{MissedBall: true, Swung: true})
	assert.Equal(t, []string{"", ""}, e.Lines)
}

func TestStrikeGeometry(t *testing.T) {
	s := &fields.Snapshot{MissedBall: true, ModelX: 1, BatterX: 1, StrikeX: 0.2, StrikeY: 1.1, Handedness: 0}
	e := newBuilder(timeutil.RealClock{}).StrikeOrBall(s)
	require.NotNil(t, e.Strike)
	assert.InDelta(t, 0.35, e.Strike.HitboxLeft, 1e-6)
	assert.InDelta(t, 1.30, e.Strike.HitboxRight, 1e-6)
	assert.InDelta(t, 0.8, e.Strike.BatNear, 1e-6)
	assert.InDelta(t, 0.0, e.Strike.BatFar, 1e-6)
	assert.Nil(t, e.Hit)
}

func TestHitEvent(t *testing.T) {
	s := &fields.Snapshot{WasContactMade: true, BatterX: -0.5, BallX: -1.1, SlapOrCharge: physics.HitCharge, Rand1: 2, StickUp: true, P1Input: fields.StickUpBit}
	b := newBuilder(timeutil.RealClock{})
	b.Alternates = true

	e, err := b.Hit(s)
	require.NoError(t, err)
	require.Equal(t, Hit, e.Kind)
	require.NotNil(t, e.Hit)
	assert.Len(t, e.Alternates, physics.ZoneCount-1)
	assert.Contains(t, e.Lines[1], "Contact Quality:  100.0%\n")
	assert.Contains(t, e.Lines[1], "Stick Input: Up\n")
	assert.Contains(t, e.Lines[1], "Selected Vertical Range: Mid-High\n")
	assert.True(t, e.Snapshot.StickUp)
}

func TestHitPropagatesPhysicsError(t *testing.T) {
	s := &fields.Snapshot{WasContactMade: true, BatterID: 200}
	_, err := newBuilder(timeutil.RealClock{}).Hit(s)
	assert.ErrorIs(t, err, physics.ErrUnknownCharacter)
}

func TestFromSnapshotDispatch(t *testing.T) {
	b := newBuilder(timeutil.RealClock{})

	e, err := b.FromSnapshot(&fields.Snapshot{HitByPitch: true, WasContactMade: true})
	require.NoError(t, err)
	assert.Equal(t, StrikeOrBall, e.Kind)

	e, err = b.FromSnapshot(&fields.Snapshot{WasContactMade: true})
	require.NoError(t, err)
	assert.Equal(t, Hit, e.Kind)

	e, err = b.FromSnapshot(&fields.Snapshot{})
	require.NoError(t, err)
	assert.Nil(t, e)
}

func TestSnapshotIsCopied(t *testing.T) {
	s := &fields.Snapshot{MissedBall: true, Strikes: 2}
	e := newBuilder(timeutil.RealClock{}).StrikeOrBall(s)
	s.Strikes = 0
	assert.Equal(t, uint32(2), e.Snapshot.Strikes)
}

func TestValidityIsOneWay(t *testing.T) {
	e := &Event{Kind: Hit}
	assert.True(t, e.Refresh(&fields.Snapshot{WasContactMade: true}))
	assert.False(t, e.Refresh(&fields.Snapshot{WasContactMade: true, IsReplay: true}))
	assert.False(t, e.Refresh(&fields.Snapshot{WasContactMade: true}))

	e = &Event{Kind: StrikeOrBall}
	assert.True(t, e.Refresh(&fields.Snapshot{HitByPitch: true}))
	assert.False(t, e.Refresh(&fields.Snapshot{}))
	assert.False(t, e.Refresh(&fields.Snapshot{MissedBall: true}))
}

func TestStillValidGatesBothKinds(t *testing.T) {
	tests := []struct {
		name string
		kind Kind
		snap fields.Snapshot
		want bool
	}{
		{"hit held", Hit, fields.Snapshot{WasContactMade: true}, true},
		{"hit released", Hit, fields.Snapshot{MissedBall: true}, false},
		{"hit in replay", Hit, fields.Snapshot{WasContactMade: true, IsReplay: true}, false},
		{"hit in glory shot", Hit, fields.Snapshot{WasContactMade: true, IsGloryShot: true}, false},
		{"missed held", StrikeOrBall, fields.Snapshot{MissedBall: true}, true},
		{"hbp held", StrikeOrBall, fields.Snapshot{HitByPitch: true}, true},
		{"pitch in replay", StrikeOrBall, fields.Snapshot{MissedBall: true, IsReplay: true}, false},
		{"pitch in glory shot", StrikeOrBall, fields.Snapshot{HitByPitch: true, IsGloryShot: true}, false},
		{"pitch on contact", StrikeOrBall, fields.Snapshot{WasContactMade: true}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StillValid(tt.kind, &tt.snap))
		})
	}
}

func TestFadeAlpha(t *testing.T) {
	f := Fade{Delay: 200 * time.Millisecond, Duration: time.Second}
	assert.Equal(t, uint8(0), f.Alpha(0))
	assert.Equal(t, uint8(0), f.Alpha(f.Delay))
	assert.Equal(t, uint8(255), f.Alpha(f.Delay+f.Duration))
	assert.Equal(t, uint8(255), f.Alpha(f.Delay+f.Duration+time.Hour))

	prev := uint8(0)
	for d := f.Delay; d <= f.Delay+f.Duration; d += 50 * time.Millisecond {
		a := f.Alpha(d)
		assert.GreaterOrEqual(t, a, prev)
		prev = a
	}
}

func TestFadeStep(t *testing.T) {
	f := Fade{Delay: time.Second}
	assert.Equal(t, uint8(0), f.Alpha(999*time.Millisecond))
	assert.Equal(t, uint8(255), f.Alpha(time.Second))
}

func TestEventAlpha(t *testing.T) {
	clock := timeutil.NewMockClock(time.Unix(100, 0))
	e := newBuilder(clock).StrikeOrBall(&fields.Snapshot{MissedBall: true})
	f := Fade{Duration: time.Second}

	assert.Equal(t, uint8(0), e.Alpha(clock.Now(), f))
	clock.Advance(500 * time.Millisecond)
	assert.Equal(t, uint8(128), e.Alpha(clock.Now(), f))

	e.Invalidate()
	assert.Equal(t, uint8(255), e.Alpha(clock.Now(), f))
}

func TestOrdinal(t *testing.T) {
	for n, want := range map[int]string{1: "1st", 2: "2nd", 3: "3rd", 4: "4th", 11: "11th", 12: "12th", 13: "13th", 21: "21st", 112: "112th"} {
		assert.Equal(t, want, Ordinal(n))
	}
}

func TestRunners(t *testing.T) {
	assert.Equal(t, "", Runners(0))
	assert.Equal(t, "Runners on 1st", Runners(0x0010))
	assert.Equal(t, "Runners on 1st, 3rd", Runners(0x1010))
	assert.Equal(t, "Runners on 2nd", Runners(0x0100))
}

func TestStick(t *testing.T) {
	assert.Equal(t, "Neutral", Stick(&fields.Snapshot{}))
	assert.Equal(t, "Down Right", Stick(&fields.Snapshot{StickDown: true, StickRight: true}))
	assert.False(t, strings.HasSuffix(Stick(&fields.Snapshot{StickUp: true}), " "))
}
