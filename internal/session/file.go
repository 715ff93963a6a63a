// Package session saves captured snapshots to disk and turns them back into
// events. Replayed events never touch the game process.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"rio-visualizer/internal/event"
	"rio-visualizer/internal/fields"
)

// FileName returns the first free "game <id>.json" / "game <id> (n).json"
// name in dir.
func FileName(dir string, gameID uint32) (string, error) {
	name := filepath.Join(dir, fmt.Sprintf("game %d.json", gameID))
	for n := 1; ; n++ {
		_, err := os.Stat(name)
		if errors.Is(err, fs.ErrNotExist) {
			return name, nil
		}
		if err != nil {
			return "", fmt.Errorf("session: stat %s: %w", name, err)
		}
		name = filepath.Join(dir, fmt.Sprintf("game %d (%d).json", gameID, n))
	}
}

// Save writes the snapshots of events, oldest first, to a new file in dir
// and returns its path.
func Save(dir string, gameID uint32, events []*event.Event) (string, error) {
	snaps := make([]*fields.Snapshot, 0, len(events))
	for _, e := range events {
		snaps = append(snaps, e.Snapshot)
	}
	data, err := json.MarshalIndent(snaps, "", "  ")
	if err != nil {
		return "", fmt.Errorf("session: marshal: %w", err)
	}
	path, err := FileName(dir, gameID)
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("session: write %s: %w", path, err)
	}
	return path, nil
}

// Load reads a session file.
func Load(path string) ([]*fields.Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("session: read %s: %w", path, err)
	}
	var snaps []*fields.Snapshot
	if err := json.Unmarshal(data, &snaps); err != nil {
		return nil, fmt.Errorf("session: parse %s: %w", path, err)
	}
	return snaps, nil
}

// Replay rebuilds events from snapshots in order. Snapshots that trigger
// nothing are skipped, as are those the builder rejects. Every replayed
// event is invalid, so it never fades and never counts as live.
func Replay(b *event.Builder, snaps []*fields.Snapshot, log *slog.Logger) []*event.Event {
	if log == nil {
		log = slog.Default()
	}
	out := make([]*event.Event, 0, len(snaps))
	for i, s := range snaps {
		if s == nil {
			continue
		}
		e, err := b.FromSnapshot(s)
		if err != nil {
			log.Warn("replay: skipping snapshot", "index", i, "err", err)
			continue
		}
		if e == nil {
			continue
		}
		e.Invalidate()
		out = append(out, e)
	}
	return out
}
