// Package fields holds the game's memory map and the Snapshot captured from it.
package fields

// Snapshot is one capture of every named field. JSON names follow the
// memory map and form the session file format.
type Snapshot struct {
	GameID uint32 `json:"game_id"`

	BatterID  uint16 `json:"batter_id"`
	PitcherID uint16 `json:"pitcher_id"`

	EasyBatting uint8 `json:"easy_batting"`
	Handedness  uint8 `json:"handedness"`

	BatterX float32 `json:"batter_x"`
	BatterZ float32 `json:"batter_z"`
	ModelX  float32 `json:"model_x"`

	BallX float32 `json:"ball_x"`
	BallY float32 `json:"ball_y"`
	BallZ float32 `json:"ball_z"`

	Chem         uint8 `json:"chem"`
	SlapOrCharge uint8 `json:"slap_or_charge"`
	IsHitStar    uint8 `json:"is_hit_star"`
	Pitch1       uint8 `json:"pitch_1"`
	Pitch2       uint8 `json:"pitch_2"`

	ChargeUp   float32 `json:"charge_up"`
	ChargeDown float32 `json:"charge_down"`

	Frame uint16 `json:"frame"`
	Rand1 uint16 `json:"rand_1"`
	Rand2 uint16 `json:"rand_2"`
	Rand3 uint16 `json:"rand_3"`

	TeamBatting  uint32 `json:"team_batting"`
	TeamPitching uint32 `json:"team_pitching"`
	PortHome     uint32 `json:"port_home"`
	PortAway     uint32 `json:"port_away"`
	StarsHome    uint8  `json:"stars_home"`
	StarsAway    uint8  `json:"stars_away"`

	P1Input uint16 `json:"p1_input"`
	P2Input uint16 `json:"p2_input"`
	P3Input uint16 `json:"p3_input"`
	P4Input uint16 `json:"p4_input"`

	StrikeX         float32 `json:"strike_x"`
	StrikeY         float32 `json:"strike_y"`
	StrikeLeftSide  float32 `json:"strike_left_side"`
	StrikeRightSide float32 `json:"strike_right_side"`

	Swung    bool `json:"swung"`
	IsStrike bool `json:"is_strike"`

	Inning     uint32 `json:"inning"`
	InningHalf bool   `json:"inning_half"`
	Strikes    uint32 `json:"strikes"`
	Balls      uint32 `json:"balls"`
	Outs       uint32 `json:"outs"`

	WhereAreRunners uint16 `json:"where_are_runners"`
	HomeScore       uint16 `json:"home_score"`
	AwayScore       uint16 `json:"away_score"`
	HomeStars       uint8  `json:"home_stars"`
	AwayStars       uint8  `json:"away_stars"`

	// Every-frame trigger and gate fields.
	WasContactMade bool `json:"was_contact_made"`
	MissedBall     bool `json:"missed_ball"`
	HitByPitch     bool `json:"hit_by_pitch"`
	IsReplay       bool `json:"is_replay"`
	IsGloryShot    bool `json:"is_glory_shot"`

	// Derived by Derive before the physics model runs.
	PitchType  PitchType `json:"pitch_type"`
	StickUp    bool      `json:"stick_up"`
	StickDown  bool      `json:"stick_down"`
	StickLeft  bool      `json:"stick_left"`
	StickRight bool      `json:"stick_right"`
	NumStars   uint8     `json:"num_stars"`
}

// Clone returns an independent copy. Snapshot holds no references, so a
// value copy is deep.
func (s *Snapshot) Clone() *Snapshot {
	c := *s
	return &c
}

// Gated reports whether detection is suspended this frame.
func (s *Snapshot) Gated() bool {
	return s.IsReplay || s.IsGloryShot
}
