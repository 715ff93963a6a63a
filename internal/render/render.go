// Package render composes a frame for the selected event: named screen
// regions, per-kind views, text and the fade-in.
package render

import (
	"fmt"
	"image"
	"image/color"
	"strings"

	"rio-visualizer/internal/camera"
	"rio-visualizer/internal/config"
	"rio-visualizer/internal/event"
	"rio-visualizer/internal/mathutil"
	"rio-visualizer/internal/raster"
	"rio-visualizer/internal/timeutil"
)

// Region names. MID and MIDDLE are the same band.
const (
	Top    = "TOP"
	Mid    = "MID"
	Middle = "MIDDLE"
	Bottom = "BOTTOM"
	Field  = "FIELD"
)

// Regions splits a w×h surface into three horizontal bands plus the
// full-surface FIELD region.
func Regions(w, h int) map[string]image.Rectangle {
	third := h / 3
	return map[string]image.Rectangle{
		Top:    image.Rect(0, 0, w, third),
		Mid:    image.Rect(0, third, w, 2*third),
		Middle: image.Rect(0, third, w, 2*third),
		Bottom: image.Rect(0, 2*third, w, h),
		Field:  image.Rect(0, 0, w, h),
	}
}

// Region looks name up case-insensitively. Unknown names give the empty
// "none" rectangle, which draws nothing.
func Region(regions map[string]image.Rectangle, name string) image.Rectangle {
	return regions[strings.ToUpper(strings.TrimSpace(name))]
}

// InscribedSquare is the largest square centred in r.
func InscribedSquare(r image.Rectangle) image.Rectangle {
	side := min(r.Dx(), r.Dy())
	c := image.Pt(r.Min.X+r.Dx()/2, r.Min.Y+r.Dy()/2)
	tl := c.Sub(image.Pt(side/2, side/2))
	return image.Rectangle{Min: tl, Max: tl.Add(image.Pt(side, side))}
}

// Style is the resolved look of a frame.
type Style struct {
	Background        color.RGBA
	Separator         color.RGBA
	Text              color.RGBA
	TextOutline       color.RGBA
	Ground            color.RGBA
	PlayerHitbox      color.RGBA
	PlayerPosition    color.RGBA
	StrikeZone        color.RGBA
	BatHitbox         color.RGBA
	Ball              color.RGBA
	Stadium           color.RGBA
	Trajectory        color.RGBA
	TrajectoryOutline color.RGBA

	LineWidth      float64
	BoldLineWidth  float64
	AltLineWidth   float64
	AltLineOutline float64

	StrikeViewScale float64

	TextScreen       string
	PlateScreen      string
	VerticalScreen   string
	HorizontalScreen string
	FieldScreen      string

	// Toggles holds the visual_toggles booleans; absent keys read false.
	Toggles map[string]bool
}

func (s Style) on(key string) bool { return s.Toggles[key] }

// StyleFromConfig reads a resolved config. Missing colors fall back to the
// built-in defaults.
func StyleFromConfig(cfg *config.Config) Style {
	def := config.Default()
	col := func(key string) color.RGBA {
		if c, ok := cfg.Color(key); ok {
			return c
		}
		c, _ := def.Color(key)
		return c
	}
	str := func(key, fallback string) string {
		if s, ok := cfg.String(config.VisualToggles, key); ok {
			return s
		}
		return fallback
	}
	scale, ok := cfg.Float(config.VisualToggles, "strike_view_scale")
	if !ok {
		scale = 0.25
	}
	return Style{
		Background:        col("background"),
		Separator:         col("separator"),
		Text:              col("text_color"),
		TextOutline:       col("text_outline"),
		Ground:            col("ground"),
		PlayerHitbox:      col("player_hitbox"),
		PlayerPosition:    col("player_position"),
		StrikeZone:        col("strike_zone"),
		BatHitbox:         col("bat_hitbox"),
		Ball:              col("ball"),
		Stadium:           col("stadium_line"),
		Trajectory:        col("ball_trajectory"),
		TrajectoryOutline: col("ball_trajectory_outline"),
		LineWidth:         cfg.LineWidth,
		BoldLineWidth:     cfg.BoldLineWidth,
		AltLineWidth:      cfg.AltTrajectoryWidth,
		AltLineOutline:    cfg.AltTrajectoryOutline,
		StrikeViewScale:   scale,
		TextScreen:        str("text_screen", "top"),
		PlateScreen:       str("plate_screen", "mid"),
		VerticalScreen:    str("vertical_path_screen", "mid"),
		HorizontalScreen:  str("horizontal_path_screen", "bottom"),
		FieldScreen:       str("field_screen", "none"),
		Toggles:           cfg.Toggles(config.VisualToggles),
	}
}

// TextOptionsFromConfig reads the text_toggles section.
func TextOptionsFromConfig(cfg *config.Config) event.TextOptions {
	home, _ := cfg.String(config.TextToggles, "display_home_name")
	away, _ := cfg.String(config.TextToggles, "display_away_name")
	return event.TextOptions{Toggles: cfg.Toggles(config.TextToggles), HomeName: home, AwayName: away}
}

// AlternatesFromConfig reports whether any view draws the per-zone
// trajectories, which is the only reason to compute them.
func AlternatesFromConfig(cfg *config.Config) bool {
	t := cfg.Toggles(config.VisualToggles)
	return t["display_multiple_trajectories_horizontal"] || t["display_multiple_trajectories_vertical"]
}

// FieldCamera is the eye used by the 3D field view.
type FieldCamera struct {
	Eye, Target mathutil.Vec3
	FovY, Near  float64
}

// FieldCameraFromConfig reads the camera section.
func FieldCameraFromConfig(cfg *config.Config) FieldCamera {
	f := func(key string, def float64) float64 {
		if v, ok := cfg.Float(config.Camera, key); ok {
			return v
		}
		return def
	}
	return FieldCamera{
		Eye:    mathutil.Vec3{f("eye_x", 0), f("eye_y", 40), f("eye_z", -40)},
		Target: mathutil.Vec3{f("target_x", 0), f("target_y", 0), f("target_z", 50)},
		FovY:   f("fov", 60),
		Near:   f("near", 0.1),
	}
}

// Camera builds a look-at camera for a w×h viewport.
func (fc FieldCamera) Camera(w, h int) camera.Camera {
	return camera.NewLookAt(fc.Eye, fc.Target, fc.FovY, float64(w)/float64(max(h, 1)), fc.Near)
}

// Frame is what one render call draws.
type Frame struct {
	Event   *event.Event
	Forcing bool
	Hooked  bool
}

// Renderer draws frames. It holds no per-frame state and may be shared
// by sequential callers; Render is not safe for concurrent use.
type Renderer struct {
	Width, Height int
	Supersample   int
	Style         Style
	Field         FieldCamera
	Fade          event.Fade
	Faces         raster.FaceResolver
	Clock         timeutil.Clock
}

// New builds a renderer from a resolved config.
func New(cfg *config.Config, faces raster.FaceResolver, clock timeutil.Clock) *Renderer {
	return &Renderer{
		Width:       cfg.Width,
		Height:      cfg.Height,
		Supersample: max(cfg.Supersample, 1),
		Style:       StyleFromConfig(cfg),
		Field:       FieldCameraFromConfig(cfg),
		Fade:        event.Fade{Delay: cfg.FadeDelay, Duration: cfg.FadeDuration},
		Faces:       faces,
		Clock:       clock,
	}
}

// Render draws f at the configured size.
func (r *Renderer) Render(f Frame) (*image.RGBA, error) {
	k := max(r.Supersample, 1)
	w, h := r.Width*k, r.Height*k
	p := &painter{Style: r.Style, k: float64(k), faces: r.Faces, field: r.Field, w: w, h: h}
	p.regions = Regions(w, h)

	base := raster.NewCanvas(w, h)
	base.Fill(r.Style.Background)
	p.separators(base)

	if !f.Hooked {
		if err := p.unhooked(base); err != nil {
			return nil, err
		}
		return r.finish(base), nil
	}
	if f.Event == nil {
		return r.finish(base), nil
	}

	overlay := raster.NewCanvas(w, h)
	if err := p.event(overlay, f.Event, f.Forcing); err != nil {
		return nil, err
	}
	base.BlitAlpha(overlay.Image(), image.Point{}, f.Event.Alpha(r.Clock.Now(), r.Fade))
	return r.finish(base), nil
}

func (r *Renderer) finish(c *raster.Canvas) *image.RGBA {
	if r.Supersample <= 1 {
		return c.Image()
	}
	return raster.Downsample(c.Image(), r.Width, r.Height)
}

// painter carries the per-frame scale factor and regions.
type painter struct {
	Style
	k       float64
	w, h    int
	regions map[string]image.Rectangle
	faces   raster.FaceResolver
	field   FieldCamera
}

func (p *painter) px(v float64) float64 { return v * p.k }

func (p *painter) region(name string) image.Rectangle { return Region(p.regions, name) }

func (p *painter) event(c *raster.Canvas, e *event.Event, forcing bool) error {
	switch e.Kind {
	case event.Hit:
		if e.Hit != nil {
			p.verticalTrajectory(c.Sub(InscribedSquare(p.region(p.VerticalScreen))), e)
			p.horizontalTrajectory(c.Sub(InscribedSquare(p.region(p.HorizontalScreen))), e)
			if fr := p.region(p.FieldScreen); !fr.Empty() {
				p.fieldView(c.Sub(fr), e)
			}
		}
	case event.StrikeOrBall:
		if e.Strike != nil {
			p.strikeView(c.Sub(p.region(p.PlateScreen)), e.Strike)
		}
	default:
		return fmt.Errorf("render: unknown event kind %d", e.Kind)
	}
	return p.detailedText(c, p.region(p.TextScreen), e.Lines, forcing)
}
