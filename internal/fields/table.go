package fields

import (
	"context"
	"fmt"

	"rio-visualizer/internal/memory"
)

// Binding ties a named memory field to its slot in a Snapshot.
type Binding struct {
	Name  string
	Field memory.Field
	slot  func(*Snapshot) any
}

// EveryFrame is polled on every cycle: triggers and gates only.
var EveryFrame = []Binding{
	{"was_contact_made", memory.Bool(0x808909A1), func(s *Snapshot) any { return &s.WasContactMade }},
	{"missed_ball", memory.Bool(0x80890B18), func(s *Snapshot) any { return &s.MissedBall }},
	{"hit_by_pitch", memory.Bool(0x808909A3), func(s *Snapshot) any { return &s.HitByPitch }},
	{"is_replay", memory.Bool(0x80872540), func(s *Snapshot) any { return &s.IsReplay }},
	{"is_glory_shot", memory.Bool(0x8087253C), func(s *Snapshot) any { return &s.IsGloryShot }},
}

// Full is captured when a trigger fires. Addresses and widths match the
// game's memory layout bit for bit.
var Full = []Binding{
	{"game_id", memory.Word(0x802EBF8C), func(s *Snapshot) any { return &s.GameID }},

	{"batter_id", memory.HalfWord(0x80890972), func(s *Snapshot) any { return &s.BatterID }},
	{"pitcher_id", memory.HalfWord(0x80890ADA), func(s *Snapshot) any { return &s.PitcherID }},

	{"easy_batting", memory.Byte(0x8089098A), func(s *Snapshot) any { return &s.EasyBatting }},
	{"handedness", memory.Byte(0x8089098B), func(s *Snapshot) any { return &s.Handedness }},

	{"batter_x", memory.Float(0x8089095C), func(s *Snapshot) any { return &s.BatterX }},
	{"batter_z", memory.Float(0x80890964), func(s *Snapshot) any { return &s.BatterZ }},
	{"model_x", memory.Float(0x80890910), func(s *Snapshot) any { return &s.ModelX }},

	{"ball_x", memory.Float(0x80890934), func(s *Snapshot) any { return &s.BallX }},
	{"ball_y", memory.Float(0x80890938), func(s *Snapshot) any { return &s.BallY }},
	{"ball_z", memory.Float(0x8089093C), func(s *Snapshot) any { return &s.BallZ }},

	{"chem", memory.Byte(0x808909BA), func(s *Snapshot) any { return &s.Chem }},
	{"slap_or_charge", memory.Byte(0x8089099B), func(s *Snapshot) any { return &s.SlapOrCharge }},
	{"is_hit_star", memory.Byte(0x808909B1), func(s *Snapshot) any { return &s.IsHitStar }},
	{"pitch_1", memory.Byte(0x80890B21), func(s *Snapshot) any { return &s.Pitch1 }},
	{"pitch_2", memory.Byte(0x80890B1F), func(s *Snapshot) any { return &s.Pitch2 }},

	{"charge_up", memory.Float(0x80890968), func(s *Snapshot) any { return &s.ChargeUp }},
	{"charge_down", memory.Float(0x8089096C), func(s *Snapshot) any { return &s.ChargeDown }},

	{"frame", memory.HalfWord(0x80890976), func(s *Snapshot) any { return &s.Frame }},
	{"rand_1", memory.HalfWord(0x802EC010), func(s *Snapshot) any { return &s.Rand1 }},
	{"rand_2", memory.HalfWord(0x802EC012), func(s *Snapshot) any { return &s.Rand2 }},
	{"rand_3", memory.HalfWord(0x802EC014), func(s *Snapshot) any { return &s.Rand3 }},

	{"team_batting", memory.Word(0x80892990), func(s *Snapshot) any { return &s.TeamBatting }},
	{"team_pitching", memory.Word(0x80892994), func(s *Snapshot) any { return &s.TeamPitching }},
	{"port_home", memory.Word(0x80892A78), func(s *Snapshot) any { return &s.PortHome }},
	{"port_away", memory.Word(0x80892A7C), func(s *Snapshot) any { return &s.PortAway }},
	{"stars_home", memory.Byte(0x80892AD6), func(s *Snapshot) any { return &s.StarsHome }},
	{"stars_away", memory.Byte(0x80892AD7), func(s *Snapshot) any { return &s.StarsAway }},

	{"p1_input", memory.HalfWord(0x8089392C), func(s *Snapshot) any { return &s.P1Input }},
	{"p2_input", memory.HalfWord(0x8089393C), func(s *Snapshot) any { return &s.P2Input }},
	{"p3_input", memory.HalfWord(0x8089394C), func(s *Snapshot) any { return &s.P3Input }},
	{"p4_input", memory.HalfWord(0x8089395C), func(s *Snapshot) any { return &s.P4Input }},

	{"strike_x", memory.Float(0x80890A14), func(s *Snapshot) any { return &s.StrikeX }},
	{"strike_y", memory.Float(0x80890A18), func(s *Snapshot) any { return &s.StrikeY }},
	{"strike_left_side", memory.Float(0x80890A3C), func(s *Snapshot) any { return &s.StrikeLeftSide }},
	{"strike_right_side", memory.Float(0x80890A40), func(s *Snapshot) any { return &s.StrikeRightSide }},

	{"swung", memory.Bool(0x808909A9), func(s *Snapshot) any { return &s.Swung }},
	{"is_strike", memory.Bool(0x80890B17), func(s *Snapshot) any { return &s.IsStrike }},

	{"inning", memory.Word(0x808928A0), func(s *Snapshot) any { return &s.Inning }},
	{"inning_half", memory.Bool(0x8089294D), func(s *Snapshot) any { return &s.InningHalf }},

	{"strikes", memory.Word(0x80892968), func(s *Snapshot) any { return &s.Strikes }},
	{"balls", memory.Word(0x8089296C), func(s *Snapshot) any { return &s.Balls }},
	{"outs", memory.Word(0x80892970), func(s *Snapshot) any { return &s.Outs }},

	{"where_are_runners", memory.HalfWord(0x80892734), func(s *Snapshot) any { return &s.WhereAreRunners }},

	{"home_score", memory.HalfWord(0x808928A4), func(s *Snapshot) any { return &s.HomeScore }},
	{"away_score", memory.HalfWord(0x808928CA), func(s *Snapshot) any { return &s.AwayScore }},

	{"home_stars", memory.Byte(0x80892AD6), func(s *Snapshot) any { return &s.HomeStars }},
	{"away_stars", memory.Byte(0x80892AD7), func(s *Snapshot) any { return &s.AwayStars }},
}

// Ball state the game integrates each frame. Overwritten when replaying a
// pinned hit into the live game.
var (
	BallPosition     = memory.Vec3(0x80890B38)
	BallVelocity     = memory.Vec3(0x80890E50)
	BallAcceleration = memory.Vec3(0x80890E5C)
)

func init() {
	var s Snapshot
	for _, set := range [][]Binding{EveryFrame, Full} {
		for _, b := range set {
			if !slotMatches(b.slot(&s), b.Field.Kind) {
				panic(fmt.Sprintf("fields: %s: slot %T does not hold %s", b.Name, b.slot(&s), b.Field.Kind))
			}
		}
	}
}

func slotMatches(slot any, k memory.Kind) bool {
	switch slot.(type) {
	case *uint32:
		return k == memory.KindWord
	case *uint16:
		return k == memory.KindHalfWord
	case *uint8:
		return k == memory.KindByte
	case *bool:
		return k == memory.KindBool
	case *float32:
		return k == memory.KindFloat
	}
	return false
}

// Capture reads every binding into s. s is left partially updated on error.
func Capture(ctx context.Context, acc *memory.Accessor, bindings []Binding, s *Snapshot) error {
	for _, b := range bindings {
		v, err := acc.Read(ctx, b.Field, 0)
		if err != nil {
			return fmt.Errorf("fields: capture %s: %w", b.Name, err)
		}
		assign(b.slot(s), v)
	}
	return nil
}

// Store writes s back through the accessor. Used to seed fake processes.
func Store(ctx context.Context, acc *memory.Accessor, bindings []Binding, s *Snapshot) error {
	for _, b := range bindings {
		if err := acc.Write(ctx, b.Field, deref(b.slot(s)), 0); err != nil {
			return fmt.Errorf("fields: store %s: %w", b.Name, err)
		}
	}
	return nil
}

func assign(slot, v any) {
	switch p := slot.(type) {
	case *uint32:
		*p = v.(uint32)
	case *uint16:
		*p = v.(uint16)
	case *uint8:
		*p = v.(uint8)
	case *bool:
		*p = v.(bool)
	case *float32:
		*p = v.(float32)
	}
}

func deref(slot any) any {
	switch p := slot.(type) {
	case *uint32:
		return *p
	case *uint16:
		return *p
	case *uint8:
		return *p
	case *bool:
		return *p
	case *float32:
		return *p
	}
	return nil
}
