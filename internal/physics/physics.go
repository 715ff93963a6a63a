// Package physics is the batting model used to turn a contact snapshot into
// a flight path. The Calculator interface lets a different model be swapped
// in without touching detection or rendering.
package physics

import (
	"errors"
	"fmt"

	"rio-visualizer/internal/fields"
	"rio-visualizer/internal/mathutil"
)

// ErrUnknownCharacter is returned for a batter or pitcher id outside the roster.
var ErrUnknownCharacter = errors.New("physics: unknown character")

// Hit types as stored in slap_or_charge.
const (
	HitSlap = iota
	HitCharge
	HitCaptainStar
	HitBunt
)

// ZoneCount is the number of vertical launch ranges a swing can land in.
const ZoneCount = 5

var hitTypeNames = [...]string{"Slap", "Charge", "Captain Star", "Bunt"}

// HitTypeName names a slap_or_charge value. Out of range panics.
func HitTypeName(t int) string { return hitTypeNames[t] }

var zoneNames = [ZoneCount]string{"Low", "Mid-Low", "Mid", "Mid-High", "High"}

// ZoneName names a vertical range index. Out of range panics.
func ZoneName(i int) string { return zoneNames[i] }

// HitParams are the inputs of one swing.
type HitParams struct {
	BatterID    int
	PitcherID   int
	EasyBatting bool
	Handedness  int
	BatterX     float64
	BallX       float64
	BallZ       float64
	Chem        int
	HitType     int
	IsStarHit   bool
	PitchType   fields.PitchType
	ChargeUp    float64
	ChargeDown  float64
	Frame       int
	Rand1       int
	Rand2       int
	Rand3       int
	StickUp     bool
	StickDown   bool
	StickLeft   bool
	StickRight  bool
	NumStars    int
	IsStarred   bool

	// OverrideVertical forces the selected vertical range.
	OverrideVertical *int
}

// NewHitParams reads the swing inputs out of a derived snapshot.
func NewHitParams(s *fields.Snapshot, starred bool) HitParams {
	return HitParams{
		BatterID:    int(s.BatterID),
		PitcherID:   int(s.PitcherID),
		EasyBatting: s.EasyBatting != 0,
		Handedness:  int(s.Handedness),
		BatterX:     float64(s.BatterX),
		BallX:       float64(s.BallX),
		BallZ:       float64(s.BallZ),
		Chem:        int(s.Chem),
		HitType:     int(s.SlapOrCharge),
		IsStarHit:   s.IsHitStar != 0,
		PitchType:   s.PitchType,
		ChargeUp:    float64(s.ChargeUp),
		ChargeDown:  float64(s.ChargeDown),
		Frame:       int(s.Frame),
		Rand1:       int(s.Rand1),
		Rand2:       int(s.Rand2),
		Rand3:       int(s.Rand3),
		StickUp:     s.StickUp,
		StickDown:   s.StickDown,
		StickLeft:   s.StickLeft,
		StickRight:  s.StickRight,
		NumStars:    int(s.NumStars),
		IsStarred:   starred,
	}
}

type Contact struct {
	Zone    int     `json:"zone"`
	Quality float64 `json:"quality"`
}

type Flight struct {
	Path     []mathutil.Vec3 `json:"path"`
	Distance float64         `json:"distance"`
}

// Landing is the last point of the path.
func (f Flight) Landing() mathutil.Vec3 {
	if len(f.Path) == 0 {
		return mathutil.Vec3{}
	}
	return f.Path[len(f.Path)-1]
}

type Ball struct {
	Power        int           `json:"power"`
	Velocity     mathutil.Vec3 `json:"velocity"`
	Acceleration mathutil.Vec3 `json:"acceleration"`
}

type Power struct {
	Contact    float64 `json:"contact"`
	Character  float64 `json:"character"`
	FieldBonus float64 `json:"field_bonus"`
}

type Vertical struct {
	Selected int       `json:"selected"`
	Zones    []float64 `json:"zones"`
}

// Result is the outcome of one swing.
type Result struct {
	Contact  Contact  `json:"contact"`
	Flight   Flight   `json:"flight"`
	Ball     Ball     `json:"ball"`
	Power    Power    `json:"power"`
	Vertical Vertical `json:"vertical"`
}

// Calculator computes the outcome of a swing.
type Calculator interface {
	HitBall(p HitParams) (Result, error)
}

// Alternates recomputes the swing once per vertical range other than the
// selected one. It returns nil when only one range was possible.
func Alternates(c Calculator, p HitParams, primary Result) ([]Result, error) {
	if len(primary.Vertical.Zones) <= 1 {
		return nil, nil
	}
	var out []Result
	for i := 0; i < ZoneCount; i++ {
		if i == primary.Vertical.Selected {
			continue
		}
		alt := p
		zone := i
		alt.OverrideVertical = &zone
		r, err := c.HitBall(alt)
		if err != nil {
			return nil, fmt.Errorf("physics: alternate zone %d: %w", i, err)
		}
		out = append(out, r)
	}
	return out, nil
}
