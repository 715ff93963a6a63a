// Package app runs the visualizer loop: poll, detect, render, present, and
// apply user commands between frames.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"rio-visualizer/internal/detector"
	"rio-visualizer/internal/event"
	"rio-visualizer/internal/fields"
	"rio-visualizer/internal/history"
	"rio-visualizer/internal/memory"
	"rio-visualizer/internal/render"
	"rio-visualizer/internal/session"
	"rio-visualizer/internal/timeutil"
)

// SessionState owns everything one visualizer run mutates. Step and Apply
// must be called from a single goroutine.
type SessionState struct {
	Proc      memory.Process
	History   *history.History
	Detector  *detector.Detector
	Builder   *event.Builder
	Renderer  *render.Renderer
	Presenter Presenter
	Clock     timeutil.Clock
	Log       *slog.Logger

	// SaveDir receives session files written by the save command.
	SaveDir string
	// FPS is the loop rate; zero means 30.
	FPS int
}

// Replay appends events rebuilt from a saved session.
func (s *SessionState) Replay(snaps []*fields.Snapshot) int {
	evs := session.Replay(s.Builder, snaps, s.Log)
	for _, e := range evs {
		s.History.Append(e)
	}
	return len(evs)
}

// Step runs one loop iteration and presents the resulting frame.
func (s *SessionState) Step(ctx context.Context) error {
	hooked := s.poll(ctx)
	frame := render.Frame{Hooked: hooked}
	if hooked {
		frame.Event = s.History.Display()
		frame.Forcing = s.History.Forcing()
	}
	img, err := s.Renderer.Render(frame)
	if err != nil {
		return fmt.Errorf("app: render: %w", err)
	}
	if err := s.Presenter.Present(ctx, img); err != nil {
		return fmt.Errorf("app: present: %w", err)
	}
	return nil
}

// poll hooks once if needed and runs a detection cycle. Any failure
// detaches the process so the next step re-hooks.
func (s *SessionState) poll(ctx context.Context) bool {
	if !s.Proc.IsHooked() {
		if err := s.Proc.Hook(); err != nil || !s.Proc.IsHooked() {
			s.Log.Debug("process not hooked", "err", err)
			return false
		}
		s.Log.Info("hooked process")
	}
	res, err := s.Detector.Poll(ctx)
	if err != nil {
		s.Log.Warn("poll failed, unhooking", "err", err)
		s.Proc.Unhook()
		return false
	}
	for _, k := range res.Fired {
		s.Log.Info("event", "kind", k, "history", s.History.Len())
	}
	if res.Forced {
		s.Log.Info("forced replay written")
	}
	return true
}

// Apply executes one command. It reports true when the loop should stop.
func (s *SessionState) Apply(cmd Command) (bool, error) {
	switch cmd {
	case CmdLeft:
		s.History.Left()
	case CmdRight:
		s.History.Right()
	case CmdReset:
		s.History.Reset()
	case CmdForce:
		on := s.History.ToggleForce()
		s.Log.Info("force replay", "on", on, "cursor", s.History.Cursor())
	case CmdSave:
		snap := s.Detector.Snapshot()
		path, err := session.Save(s.SaveDir, snap.GameID, s.History.Events())
		if err != nil {
			return false, err
		}
		s.Log.Info("saved session", "path", path, "events", s.History.Len())
	case CmdQuit:
		return true, nil
	default:
		return false, fmt.Errorf("app: unknown command %d", cmd)
	}
	s.Log.Debug("command", "cmd", cmd, "cursor", s.History.Cursor())
	return false, nil
}

// Run drives Step at the configured rate until ctx is done, cmds delivers
// CmdQuit, or a render/present error occurs. Command errors are logged.
func (s *SessionState) Run(ctx context.Context, cmds <-chan Command) error {
	fps := s.FPS
	if fps <= 0 {
		fps = 30
	}
	ticker := s.Clock.NewTicker(time.Second / time.Duration(fps))
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case cmd, ok := <-cmds:
			if !ok {
				cmds = nil
				continue
			}
			quit, err := s.Apply(cmd)
			if err != nil {
				s.Log.Error("command failed", "cmd", cmd, "err", err)
			}
			if quit {
				return nil
			}
		case <-ticker.C():
			if err := s.Step(ctx); err != nil {
				return err
			}
		}
	}
}
