package fields

// PitchType classifies the pitch from the two pitch-stage bytes.
type PitchType uint8

const (
	PitchCurve PitchType = iota
	PitchCharge
	PitchPerfectCharge
	PitchChangeUp
)

func (p PitchType) String() string {
	switch p {
	case PitchCharge:
		return "Charge"
	case PitchPerfectCharge:
		return "Perfect Charge"
	case PitchChangeUp:
		return "Change Up"
	}
	return "Curve"
}

// ClassifyPitch applies the fixed decision table over pitch_1 and pitch_2.
func ClassifyPitch(pitch1, pitch2 uint8) PitchType {
	switch {
	case pitch1 == 1 && pitch2 == 2:
		return PitchCharge
	case pitch1 == 1 && pitch2 == 3:
		return PitchPerfectCharge
	case pitch1 == 2 && pitch2 == 0:
		return PitchChangeUp
	}
	return PitchCurve
}

// Stick direction bits in a controller input half-word.
const (
	StickLeftBit  = 0x1
	StickRightBit = 0x2
	StickDownBit  = 0x4
	StickUpBit    = 0x8
)

// BattingPort is the controller port of the batting team. An out-of-range
// team index is a programmer error and panics.
func (s *Snapshot) BattingPort() uint32 {
	return [2]uint32{s.PortHome, s.PortAway}[s.TeamBatting]
}

// BattingInput returns the input half-word of the batting controller port.
func (s *Snapshot) BattingInput() uint16 {
	return [4]uint16{s.P1Input, s.P2Input, s.P3Input, s.P4Input}[s.BattingPort()]
}

// BattingStars is the star count of the batting team.
func (s *Snapshot) BattingStars() uint8 {
	return [2]uint8{s.StarsHome, s.StarsAway}[s.TeamBatting]
}

// Derive fills the derived fields consumed by the physics model.
func (s *Snapshot) Derive() {
	in := s.BattingInput()
	s.StickLeft = in&StickLeftBit != 0
	s.StickRight = in&StickRightBit != 0
	s.StickDown = in&StickDownBit != 0
	s.StickUp = in&StickUpBit != 0
	s.PitchType = ClassifyPitch(s.Pitch1, s.Pitch2)
	s.NumStars = s.BattingStars()
}
