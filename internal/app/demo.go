package app

import (
	"context"
	"math/rand/v2"
	"time"

	"rio-visualizer/internal/fields"
	"rio-visualizer/internal/memory"
	"rio-visualizer/internal/physics"
	"rio-visualizer/internal/timeutil"
)

// DemoPlay returns the n-th scripted play: every third pitch is put in
// play, the rest are balls, strikes or hit-by-pitch.
func DemoPlay(n int, rng *rand.Rand) fields.Snapshot {
	s := fields.Snapshot{
		GameID:          0xD3E0,
		BatterID:        uint16(rng.IntN(physics.DefaultRoster().Len())),
		PitcherID:       uint16(rng.IntN(physics.DefaultRoster().Len())),
		Handedness:      uint8(rng.IntN(2)),
		BatterX:         float32(rng.Float64()*0.6 - 0.8),
		ModelX:          float32(rng.Float64()*0.4 - 0.2),
		BallX:           float32(rng.Float64()*0.8 - 1.2),
		BallZ:           float32(rng.Float64() * 0.2),
		SlapOrCharge:    uint8(rng.IntN(2)),
		Frame:           uint16(2 + rng.IntN(6)),
		Rand1:           uint16(rng.IntN(1 << 16)),
		Rand2:           uint16(rng.IntN(1 << 16)),
		Rand3:           uint16(rng.IntN(1 << 16)),
		StrikeX:         float32(rng.Float64()*1.2 - 0.6),
		StrikeY:         float32(0.3 + rng.Float64()*1.4),
		StrikeLeftSide:  -0.4,
		StrikeRightSide: 0.4,
		Inning:          uint32(1 + n/9),
		InningHalf:      n%2 == 1,
		Balls:           uint32(n % 4),
		Strikes:         uint32(n % 3),
		Outs:            uint32(n / 3 % 3),
		WhereAreRunners: uint16(rng.IntN(8)) << 4,
		HomeScore:       uint16(n / 4),
		AwayScore:       uint16(n / 5),
	}
	s.P1Input = uint16(rng.IntN(16))
	switch {
	case n%3 == 2:
		s.WasContactMade = true
	case n%7 == 6:
		s.HitByPitch = true
	default:
		s.MissedBall = true
		s.IsStrike = rng.IntN(2) == 0
		s.Swung = s.IsStrike && rng.IntN(2) == 0
		if s.IsStrike {
			s.Strikes++
		} else {
			s.Balls++
		}
	}
	return s
}

// RunDemo drives a fake process with scripted plays until ctx is done.
// Each play is written with its trigger clear, the trigger is raised after
// lead and held for hold.
func RunDemo(ctx context.Context, fake *memory.Fake, clock timeutil.Clock, lead, hold time.Duration) error {
	acc := memory.NewAccessor(fake, memory.WithClock(clock))
	rng := rand.New(rand.NewPCG(1, 2))
	wait := func(d time.Duration) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-clock.After(d):
			return nil
		}
	}
	for n := 0; ; n++ {
		play := DemoPlay(n, rng)
		idle := play
		idle.WasContactMade, idle.MissedBall, idle.HitByPitch = false, false, false
		if err := fields.Store(ctx, acc, fields.Full, &play); err != nil {
			return err
		}
		if err := fields.Store(ctx, acc, fields.EveryFrame, &idle); err != nil {
			return err
		}
		if err := wait(lead); err != nil {
			return err
		}
		if err := fields.Store(ctx, acc, fields.EveryFrame, &play); err != nil {
			return err
		}
		if err := wait(hold); err != nil {
			return err
		}
	}
}
