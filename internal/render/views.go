package render

import (
	"cmp"
	"image"
	"math"
	"slices"
	"strings"

	"golang.org/x/image/math/f32"

	"rio-visualizer/internal/camera"
	"rio-visualizer/internal/event"
	"rio-visualizer/internal/mathutil"
	"rio-visualizer/internal/physics"
	"rio-visualizer/internal/raster"
)

// Stadium outline and base positions in field units (x lateral, z out).
var (
	homePlate   = mathutil.Vec3{0, 0, 0}
	leftPost    = mathutil.Vec3{-57, 0, 57}
	leftPart    = mathutil.Vec3{-41.5, 0, 82.5}
	middlePart  = mathutil.Vec3{-13, 0, 100}
	rightPart   = mathutil.Vec3{16, 0, 100}
	rightPost   = mathutil.Vec3{57, 0, 57}
	firstBase   = mathutil.Vec3{19, 0, 19}
	secondBase  = mathutil.Vec3{0, 0, 38}
	thirdBase   = mathutil.Vec3{-19, 0, 19}
	pitcherSpot = mathutil.Vec3{0, 0, 19}
	batterBox   = mathutil.Vec3{-1, 0, 0}

	stadium = []mathutil.Vec3{homePlate, leftPost, leftPart, middlePart, rightPart, rightPost}
)

// fieldScale maps field units to the unit square of the 2D trajectory views.
const fieldScale = 1.0 / 120

const unhookedText = "Unhooked from Dolphin"

func vec2(x, y float64) f32.Vec2 { return f32.Vec2{float32(x), float32(y)} }

func (p *painter) separators(c *raster.Canvas) {
	w := float32(p.w)
	for _, y := range []float32{float32(p.h) / 3, float32(p.h) * 2 / 3} {
		c.Line(f32.Vec2{0, y}, f32.Vec2{w, y}, p.px(1), p.Separator)
	}
}

func (p *painter) unhooked(c *raster.Canvas) error {
	face, err := p.faces.Face(float64(p.h) / 8)
	if err != nil {
		return err
	}
	for _, name := range []string{Top, Mid, Bottom} {
		c.Sub(p.region(name)).WrapText(face, unhookedText, image.Point{}, p.Text, p.TextOutline)
	}
	return nil
}

func splitLines(s string) []string {
	s = strings.TrimRight(s, "\n")
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}

// detailedText writes every text block into r, one row per line with a
// blank row between blocks. The face is sized so the lines fill the
// square inscribed in r.
func (p *painter) detailedText(c *raster.Canvas, r image.Rectangle, blocks []string, forcing bool) error {
	if r.Empty() {
		return nil
	}
	if forcing {
		blocks = append([]string{"FORCING"}, blocks...)
	}
	n := 0
	for _, b := range blocks {
		n += len(splitLines(b))
	}
	sq := InscribedSquare(r)
	face, err := p.faces.Face(float64(sq.Dy()) / float64(max(n, 1)))
	if err != nil {
		return err
	}
	sub := c.Sub(r)
	step := float64(face.Metrics().Height.Ceil()) * 1.2
	y := step
	for _, b := range blocks {
		for _, l := range splitLines(b) {
			sub.Text(face, " "+l+" ", image.Pt(0, int(y)), p.Text, p.TextOutline)
			y += step
		}
		y += step
	}
	return nil
}

// strikeView draws the plate seen from the catcher: ground, batter hitbox,
// strike zone, bat and ball.
func (p *painter) strikeView(c *raster.Canvas, g *event.StrikeGeometry) {
	w, h := c.Size()
	s := float64(min(w, h))
	k := p.StrikeViewScale
	pt := func(x, y float64) f32.Vec2 {
		return vec2(float64(w)/2+k*x*s, -float64(h)/3+s-k*y*s)
	}
	lw := p.px(p.LineWidth)

	if p.on("display_ground") {
		c.Line(pt(-2, 0), pt(2, 0), lw, p.Ground)
	}
	if p.on("display_player_hitbox") {
		c.Polygon([]f32.Vec2{
			pt(g.HitboxRight, 0), pt(g.HitboxRight, 2), pt(g.HitboxLeft, 2), pt(g.HitboxLeft, 0),
		}, lw, p.PlayerHitbox)
		c.Line(pt(g.ModelX, 0), pt(g.ModelX, 2), lw, p.PlayerPosition)
	}
	if p.on("display_strike_zone") {
		c.Polyline([]f32.Vec2{
			pt(g.StrikeLeft, 0.5), pt(g.StrikeLeft, 1.5), pt(g.StrikeRight, 1.5), pt(g.StrikeRight, 0.5),
		}, true, lw, p.StrikeZone)
	}
	if p.on("display_bat_hitbox") {
		top, bottom := g.StrikeY+0.35, g.StrikeY-0.35
		c.Polygon([]f32.Vec2{
			pt(g.BatNear, top), pt(g.BatNear, bottom), pt(g.BatFar, bottom), pt(g.BatFar, top),
		}, lw, p.BatHitbox)
	}
	if p.on("display_ball_hitbox") {
		c.Circle(pt(g.StrikeX, g.StrikeY), p.px(5), lw, p.Ball)
	}
}

// trajectory strokes a path twice: a wide outline, then the line on top.
func (p *painter) trajectory(c *raster.Canvas, path []f32.Vec2, outline, width float64) {
	c.Polyline(path, false, p.px(outline), p.TrajectoryOutline)
	c.Polyline(path, false, p.px(width), p.Trajectory)
}

func plotPath(path []mathutil.Vec3, plot func(mathutil.Vec3) f32.Vec2) []f32.Vec2 {
	out := make([]f32.Vec2, len(path))
	for i, v := range path {
		out[i] = plot(v)
	}
	return out
}

func (p *painter) alternates(c *raster.Canvas, alts []physics.Result, plot func(mathutil.Vec3) f32.Vec2) {
	for _, a := range alts {
		p.trajectory(c, plotPath(a.Flight.Path, plot), p.AltLineOutline, p.AltLineWidth)
	}
}

// horizontalTrajectory is the top-down view: stadium outline, bases and
// the ball's ground track. c is square.
func (p *painter) horizontalTrajectory(c *raster.Canvas, e *event.Event) {
	side, _ := c.Size()
	s := float64(side)
	plot := func(v mathutil.Vec3) f32.Vec2 {
		return vec2((v[0]*fieldScale+0.5)*s, (1-v[2]*fieldScale-0.05)*s)
	}
	lw := p.px(p.LineWidth)

	c.Polygon(plotPath(stadium, plot), lw, p.Stadium)
	if p.on("display_bases") {
		for _, b := range []mathutil.Vec3{firstBase, thirdBase, secondBase} {
			c.Circle(plot(b), lw, 0, p.Stadium)
		}
		c.Circle(plot(pitcherSpot), math.Floor(p.LineWidth/1.5)*p.k, 0, p.Stadium)
	}
	if p.on("display_multiple_trajectories_horizontal") {
		p.alternates(c, e.Alternates, plot)
	}
	p.trajectory(c, plotPath(e.Hit.Flight.Path, plot), p.BoldLineWidth, p.LineWidth)
}

// verticalTrajectory is the side view: horizontal distance from home
// against height. c is square.
func (p *painter) verticalTrajectory(c *raster.Canvas, e *event.Event) {
	side, _ := c.Size()
	s := float64(side)
	plot := func(v mathutil.Vec3) f32.Vec2 {
		return vec2((v.LenXZ()*fieldScale+0.1)*s, (1-v[1]*fieldScale-0.1)*s)
	}
	lw := p.px(p.LineWidth)

	corner := plot(homePlate)
	c.Line(corner, plot(mathutil.Vec3{100, 0, 0}), lw, p.Stadium)
	c.Line(corner, plot(mathutil.Vec3{0, 100, 0}), lw, p.Stadium)
	if p.on("display_multiple_trajectories_vertical") {
		p.alternates(c, e.Alternates, plot)
	}
	p.trajectory(c, plotPath(e.Hit.Flight.Path, plot), p.BoldLineWidth, p.LineWidth)
}

// fieldView draws the hit in 3D through the field camera.
func (p *painter) fieldView(c *raster.Canvas, e *event.Event) {
	w, h := c.Size()
	cam := p.field.Camera(w, h)
	wire := raster.NewWire(c, cam)
	lw := p.px(p.LineWidth)

	wire.Lines(stadium, true, lw, p.Stadium)
	if p.on("display_bases") {
		for _, b := range []mathutil.Vec3{firstBase, secondBase, thirdBase} {
			wire.Cube(b, mathutil.Vec3{1.5, 0.3, 1.5}, mathutil.Vec3{0, mathutil.Deg2Rad(45), 0}, mathutil.Vec3{0, 0.15, 0}, lw, p.Stadium)
		}
		wire.Hemisphere(pitcherSpot, 16, 1, lw, p.Stadium)
	}
	wire.Cylinder(batterBox, 12, 0.5, 1.8, lw, p.PlayerHitbox)
	if p.on("display_multiple_trajectories_horizontal") || p.on("display_multiple_trajectories_vertical") {
		for _, a := range farthestFirst(cam, e.Alternates) {
			wire.Lines(a.Flight.Path, false, p.px(p.AltLineWidth), p.Trajectory)
		}
	}
	path := e.Hit.Flight.Path
	wire.Lines(path, false, p.px(p.BoldLineWidth), p.Trajectory)
	if len(path) > 0 {
		wire.Point(path[0], p.px(4), 0, p.Ball)
		wire.Sphere(e.Hit.Flight.Landing(), 12, 1, lw, p.Ball)
	}
}

// farthestFirst orders alternates by landing distance from the eye, far to
// near, so nearer paths paint over farther ones. A camera whose eye cannot
// be recovered keeps the physics order.
func farthestFirst(cam camera.Camera, alts []physics.Result) []physics.Result {
	eye, err := cam.Eye()
	if err != nil {
		return alts
	}
	out := slices.Clone(alts)
	slices.SortStableFunc(out, func(a, b physics.Result) int {
		return cmp.Compare(b.Flight.Landing().Sub(eye).Len(), a.Flight.Landing().Sub(eye).Len())
	})
	return out
}
