package batch

import (
	"encoding/json"
	"os"
	"time"

	"rio-visualizer/internal/event"
)

// ManifestEntry represents one exported event.
type ManifestEntry struct {
	Index     int       `json:"index"`
	ID        string    `json:"id"`
	Kind      string    `json:"kind"`
	CreatedAt time.Time `json:"created_at"`
	GameID    uint32    `json:"game_id"`
	Image     string    `json:"image,omitempty"`
	Error     string    `json:"error,omitempty"`
	Lines     []string  `json:"lines"`
}

// WriteManifest writes the manifest for events and their export results.
func WriteManifest(path string, events []*event.Event, results []Result) error {
	entries := make([]ManifestEntry, len(events))
	for i, e := range events {
		entries[i] = ManifestEntry{
			Index:     i,
			ID:        e.ID.String(),
			Kind:      e.Kind.String(),
			CreatedAt: e.CreatedAt,
			Lines:     e.Lines,
		}
		if e.Snapshot != nil {
			entries[i].GameID = e.Snapshot.GameID
		}
		if i < len(results) {
			entries[i].Image = results[i].Image
			entries[i].Error = results[i].Error
		}
	}

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
