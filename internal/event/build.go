package event

import (
	"fmt"
	"log/slog"
	"math"
	"strings"

	"github.com/google/uuid"

	"rio-visualizer/internal/fields"
	"rio-visualizer/internal/physics"
	"rio-visualizer/internal/timeutil"
)

// TextOptions selects which text lines are produced. A toggle missing from
// Toggles is off.
type TextOptions struct {
	Toggles  map[string]bool
	HomeName string
	AwayName string
}

func (o TextOptions) on(key string) bool { return o.Toggles[key] }

// Builder turns captured snapshots into events.
type Builder struct {
	Calc   physics.Calculator
	Roster *physics.Roster
	Clock  timeutil.Clock
	Text   TextOptions
	Log    *slog.Logger

	// Starred is passed through to the physics model.
	Starred bool
	// Alternates enables the per-zone what-if trajectories.
	Alternates bool
}

func (b *Builder) newEvent(k Kind, s *fields.Snapshot) *Event {
	return &Event{
		ID:        uuid.New(),
		Kind:      k,
		CreatedAt: b.Clock.Now(),
		Snapshot:  s.Clone(),
	}
}

// Hit runs the physics model for a contact snapshot. s is updated with its
// derived fields before it is copied into the event.
func (b *Builder) Hit(s *fields.Snapshot) (*Event, error) {
	s.Derive()
	params := physics.NewHitParams(s, b.Starred)
	res, err := b.Calc.HitBall(params)
	if err != nil {
		return nil, fmt.Errorf("event: hit: %w", err)
	}
	var alts []physics.Result
	if b.Alternates {
		alts, err = physics.Alternates(b.Calc, params, res)
		if err != nil {
			return nil, fmt.Errorf("event: hit: %w", err)
		}
	}

	e := b.newEvent(Hit, s)
	e.Hit = &res
	e.Alternates = alts
	e.Lines = []string{b.gameState(s), b.hitText(s, &res)}
	if b.Log != nil {
		b.Log.Debug("built hit", "id", e.ID, "distance", res.Flight.Distance, "alternates", len(alts))
	}
	return e, nil
}

// StrikeOrBall builds the plate view for a missed ball or hit-by-pitch.
func (b *Builder) StrikeOrBall(s *fields.Snapshot) *Event {
	s.Derive()
	g := b.strikeGeometry(s)

	e := b.newEvent(StrikeOrBall, s)
	e.Strike = &g
	e.Lines = []string{b.gameState(s), b.strikeText(s, &g)}
	if b.Log != nil {
		b.Log.Debug("built strike or ball", "id", e.ID, "result", ResultText(s))
	}
	return e
}

// FromSnapshot picks the builder from the snapshot's trigger flags the way
// replay does. It returns nil when no trigger flag is set.
func (b *Builder) FromSnapshot(s *fields.Snapshot) (*Event, error) {
	switch {
	case s.HitByPitch || s.MissedBall:
		return b.StrikeOrBall(s), nil
	case s.WasContactMade:
		return b.Hit(s)
	}
	return nil, nil
}

func (b *Builder) strikeGeometry(s *fields.Snapshot) StrikeGeometry {
	hand := int(s.Handedness)
	g := StrikeGeometry{
		Handedness:  hand,
		ModelX:      float64(s.ModelX),
		BatterX:     float64(s.BatterX),
		StrikeX:     float64(s.StrikeX),
		StrikeY:     float64(s.StrikeY),
		StrikeLeft:  float64(s.StrikeLeftSide),
		StrikeRight: float64(s.StrikeRightSide),
	}
	g.HitboxLeft, g.HitboxRight = b.Roster.HitboxSpan(int(s.BatterID), g.ModelX, hand)
	g.BatNear, g.BatFar = b.Roster.BatHitbox(int(s.BatterID), g.BatterX, hand)
	return g
}

// Count returns balls and strikes as they stood before the pitch. When a
// missed ball has already been counted by the game it is taken back off.
func Count(s *fields.Snapshot) (balls, strikes int) {
	balls, strikes = int(s.Balls), int(s.Strikes)
	if s.MissedBall && !s.HitByPitch {
		if s.IsStrike {
			strikes--
		} else {
			balls--
		}
	}
	return balls, strikes
}

// ResultText is the outcome line of a pitch not put in play.
func ResultText(s *fields.Snapshot) string {
	switch {
	case s.HitByPitch:
		return "Result: Hit By Pitch"
	case s.IsStrike:
		return "Result: Strike"
	}
	return "Result: Ball"
}

// Ordinal renders 1 as "1st", 12 as "12th", 23 as "23rd".
func Ordinal(n int) string {
	suffix := "th"
	if n%100 < 11 || n%100 > 13 {
		switch n % 10 {
		case 1:
			suffix = "st"
		case 2:
			suffix = "nd"
		case 3:
			suffix = "rd"
		}
	}
	return fmt.Sprintf("%d%s", n, suffix)
}

// Runners lists occupied bases, e.g. "Runners on 1st, 3rd". Empty when the
// bases are empty.
func Runners(where uint16) string {
	v := where >> 4
	var on []string
	for i, bit := range []uint16{0x1, 0x10, 0x100} {
		if v&bit != 0 {
			on = append(on, Ordinal(i+1))
		}
	}
	if len(on) == 0 {
		return ""
	}
	return "Runners on " + strings.Join(on, ", ")
}

type lines struct{ strings.Builder }

func (l *lines) add(show bool, format string, args ...any) {
	if !show {
		return
	}
	fmt.Fprintf(&l.Builder, format, args...)
	l.WriteByte('\n')
}

func (b *Builder) gameState(s *fields.Snapshot) string {
	var l lines
	half := "Top of the"
	if s.InningHalf {
		half = "Bottom of the"
	}
	l.add(b.Text.on("display_inning_text"), "%s %s", half, Ordinal(int(s.Inning)))
	l.add(b.Text.on("display_score_text"), "%s: %d, %s: %d", b.Text.HomeName, s.HomeScore, b.Text.AwayName, s.AwayScore)
	l.add(b.Text.on("display_star_count_text"), "Stars: %s: %d, %s: %d", b.Text.HomeName, s.HomeStars, b.Text.AwayName, s.AwayStars)

	balls, strikes := Count(s)
	outs := "Outs"
	if s.Outs == 1 {
		outs = "Out"
	}
	l.add(b.Text.on("display_count_text"), "%d-%d, %d %s", balls, strikes, s.Outs, outs)
	if r := Runners(s.WhereAreRunners); r != "" {
		l.add(b.Text.on("display_runners_text"), "%s", r)
	}
	l.add(b.Text.on("display_pitcher_text"), "Pitcher: %s", b.Roster.Name(int(s.PitcherID)))
	l.add(b.Text.on("display_batter_text"), "Batter: %s", b.Roster.Name(int(s.BatterID)))
	return l.String()
}

func (b *Builder) strikeText(s *fields.Snapshot, g *StrikeGeometry) string {
	var l lines
	l.add(b.Text.on("display_ball_coordinate_text"), "Ball (x,y): (%.2f, %.2f)", g.StrikeX, g.StrikeY)
	l.add(b.Text.on("display_batter_hitbox_text"), "Batter Hitbox: %.2f to %.2f", g.HitboxLeft, g.HitboxRight)
	l.add(b.Text.on("display_bat_hitbox_text"), "Bat Hitbox: %.2f to %.2f", math.Min(g.BatNear, g.BatFar), math.Max(g.BatNear, g.BatFar))
	l.add(b.Text.on("display_strike_zone_text"), "Strike Box: %.2f to %.2f", g.StrikeLeft, g.StrikeRight)
	l.add(b.Text.on("display_pitch_type_text"), "Pitch Type: %s", s.PitchType)
	l.add(b.Text.on("display_if_swung_text") && s.Swung, "Swung")
	l.add(b.Text.on("display_batting_result_ball_strike_hbp"), "%s", ResultText(s))
	return l.String()
}

// Stick renders the batting stick directions, or "Neutral".
func Stick(s *fields.Snapshot) string {
	var dirs []string
	for _, d := range []struct {
		on   bool
		name string
	}{{s.StickUp, "Up"}, {s.StickDown, "Down"}, {s.StickLeft, "Left"}, {s.StickRight, "Right"}} {
		if d.on {
			dirs = append(dirs, d.name)
		}
	}
	if len(dirs) == 0 {
		return "Neutral"
	}
	return strings.Join(dirs, " ")
}

func (b *Builder) hitText(s *fields.Snapshot, r *physics.Result) string {
	var l lines
	bunt := s.SlapOrCharge == physics.HitBunt
	if !bunt {
		l.add(b.Text.on("display_if_star_hit") && s.IsHitStar != 0, "Star Hit")
	}
	l.add(b.Text.on("display_hit_charge_bunt_text"), "%s", physics.HitTypeName(int(s.SlapOrCharge)))
	if !bunt && s.ChargeUp > 0 {
		l.add(b.Text.on("display_charge_up_text"), "Charge Up: %.2f\nCharge Down: %.2f", s.ChargeUp, s.ChargeDown)
	}
	l.add(b.Text.on("display_contact_zone_text"), "Contact Zone: %d", r.Contact.Zone)
	l.add(b.Text.on("display_contact_quality_text"), "Contact Quality: % .1f%%", r.Contact.Quality*100)
	l.add(b.Text.on("display_ball_distance_text"), "Dist: %.2f", r.Flight.Distance)
	l.add(b.Text.on("display_hit_ground_text"), "Hit Ground: %s", r.Flight.Landing())
	l.add(b.Text.on("display_stick_input_text"), "Stick Input: %s", Stick(s))
	if !bunt {
		l.add(b.Text.on("display_contact_frame_text"), "Frame: %d", s.Frame)
		l.add(b.Text.on("display_rng_text"), "RNG: %d, %d, %d", s.Rand1, s.Rand2, s.Rand3)
	}
	l.add(b.Text.on("display_power_text"), "Power: %d", r.Ball.Power)
	if bunt {
		return l.String()
	}
	l.add(b.Text.on("display_char_contact_power_text"), "Contact Power: %.2f\nCharacter Power: %.2f", r.Power.Contact, r.Power.Character)
	l.add(b.Text.on("display_char_field_traj_bonus_text"), "Char Traj Bonus: %.2f", r.Power.FieldBonus)
	if len(r.Vertical.Zones) > 1 {
		l.add(b.Text.on("display_selected_vertical_range_text"), "Selected Vertical Range: %s", physics.ZoneName(r.Vertical.Selected))
	}
	return l.String()
}
