package physics

import (
	"fmt"
	"math"

	"rio-visualizer/internal/fields"
	"rio-visualizer/internal/mathutil"
)

// Per-frame field units (metres, frames).
const (
	gravity      = 0.005
	contactY     = 0.8
	maxFrames    = 600
	minSpeed     = 0.3
	speedPerPow  = 0.005
	buntAngle    = 5.0
	zoneStepDeg  = 10.0
	zoneBaseDeg  = 10.0
	contactSpan  = 5
	frameSkewDeg = 2.0
	sprayDeg     = 15.0
)

// Ballistic is a deterministic projectile model. The same HitParams always
// give the same Result.
type Ballistic struct {
	Roster *Roster
}

// NewBallistic returns a model over the default roster.
func NewBallistic() *Ballistic {
	return &Ballistic{Roster: DefaultRoster()}
}

// HitBall implements Calculator.
func (b *Ballistic) HitBall(p HitParams) (Result, error) {
	if _, err := b.Roster.Character(p.BatterID); err != nil {
		return Result{}, fmt.Errorf("physics: batter: %w", err)
	}
	if p.HitType < HitSlap || p.HitType > HitBunt {
		return Result{}, fmt.Errorf("physics: hit type %d out of range", p.HitType)
	}

	var res Result
	res.Contact = b.contact(p)
	res.Power = b.power(p, res.Contact)
	res.Ball.Power = int(math.Round(res.Power.Contact * res.Power.Character / 100))
	res.Vertical = verticalZones(p)

	elev := mathutil.Deg2Rad(res.Vertical.Zones[res.Vertical.Selected])
	spray := mathutil.Deg2Rad(sprayAngle(p, res.Contact.Zone))
	speed := minSpeed + speedPerPow*float64(res.Ball.Power)*(1+res.Power.FieldBonus/100)
	res.Ball.Velocity = mathutil.Vec3{
		math.Sin(spray) * math.Cos(elev),
		math.Sin(elev),
		math.Cos(spray) * math.Cos(elev),
	}.Scale(speed)
	res.Ball.Acceleration = mathutil.Vec3{0, -gravity, 0}

	start := mathutil.Vec3{p.BallX, contactY, p.BallZ}
	res.Flight.Path = integrate(start, res.Ball.Velocity, res.Ball.Acceleration)
	res.Flight.Distance = res.Flight.Landing().LenXZ()
	return res, nil
}

// contact grades how far the ball was from the sweet spot of the bat.
func (b *Ballistic) contact(p HitParams) Contact {
	near, far := b.Roster.BatHitbox(p.BatterID, p.BatterX, p.Handedness)
	centre := (near + far) / 2
	half := math.Abs(far-near) / 2
	off := (p.BallX - centre) / half
	if p.Handedness == 0 {
		off = -off
	}
	off = math.Max(-1, math.Min(1, off))

	zone := int(math.Round((off + 1) / 2 * float64(contactSpan-1)))
	q := 1 - math.Abs(off)
	if p.EasyBatting {
		q = math.Min(1, q+0.1)
	}
	return Contact{Zone: zone, Quality: q}
}

func (b *Ballistic) power(p HitParams, c Contact) Power {
	s := b.Roster.stats(p.BatterID)
	char := s.slapPower
	switch p.HitType {
	case HitCharge:
		char = s.chargePower * (1 + 0.25*p.ChargeUp - 0.1*p.ChargeDown)
	case HitCaptainStar:
		char = s.chargePower * 1.5
	case HitBunt:
		char = s.slapPower * 0.2
	}
	if p.IsStarHit && (!p.IsStarred || p.NumStars > 0) {
		char *= 1.25
	}
	switch p.PitchType {
	case fields.PitchChangeUp:
		char *= 1.05
	case fields.PitchPerfectCharge:
		char *= 0.9
	}
	return Power{
		Contact:    c.Quality * 100,
		Character:  char,
		FieldBonus: float64(p.Chem) * 0.5,
	}
}

func verticalZones(p HitParams) Vertical {
	if p.HitType == HitBunt {
		return Vertical{Selected: 0, Zones: []float64{buntAngle}}
	}
	zones := make([]float64, ZoneCount)
	for i := range zones {
		zones[i] = zoneBaseDeg + zoneStepDeg*float64(i)
	}
	sel := p.Rand1 % ZoneCount
	if p.StickUp {
		sel++
	}
	if p.StickDown {
		sel--
	}
	sel = max(0, min(ZoneCount-1, sel))
	if p.OverrideVertical != nil {
		sel = *p.OverrideVertical
	}
	return Vertical{Selected: sel, Zones: zones}
}

// sprayAngle is the horizontal angle from straight away (+z), in degrees.
// Positive pulls toward +x.
func sprayAngle(p HitParams, zone int) float64 {
	a := float64(zone-contactSpan/2) * sprayDeg
	a += float64(p.Frame-4) * frameSkewDeg
	if p.StickLeft {
		a -= 5
	}
	if p.StickRight {
		a += 5
	}
	a += float64(p.Rand2%11-5) * 0.2
	if p.Handedness == 1 {
		a = -a
	}
	return a
}

// integrate steps the ball until it reaches the ground. The last point is
// interpolated onto y=0.
func integrate(pos, vel, acc mathutil.Vec3) []mathutil.Vec3 {
	path := []mathutil.Vec3{pos}
	for i := 0; i < maxFrames; i++ {
		next := pos.Add(vel)
		vel = vel.Add(acc)
		if next[1] <= 0 {
			t := pos[1] / (pos[1] - next[1])
			path = append(path, pos.Add(next.Sub(pos).Scale(t)))
			return path
		}
		path = append(path, next)
		pos = next
	}
	return path
}
