package catalog

import (
	"encoding/json"
	"fmt"
	"io"
	"io/fs"
	"sort"
	"time"

	"lstbot/internal/domain"
)

const defaultFormat = "mp4"

// Manifest is the JSON description of an animation set
type Manifest struct {
	Version    string                   `json:"version"`
	Total      int                      `json:"total_animations"`
	Animations map[string]ManifestEntry `json:"animations"`
}

// ManifestEntry describes one animation. Durations are in seconds.
type ManifestEntry struct {
	File        string       `json:"file"`
	Format      string       `json:"format,omitempty"`
	Duration    float64      `json:"duration,omitempty"`
	FPS         int          `json:"fps,omitempty"`
	Tags        []string     `json:"tags,omitempty"`
	Transitions *Transitions `json:"transitions,omitempty"`
	DisplayName string       `json:"display_name,omitempty"`
}

// Transitions holds blend windows in seconds
type Transitions struct {
	In  float64 `json:"in"`
	Out float64 `json:"out"`
}

// ReadManifest decodes a manifest and returns its entries sorted by id.
// Missing durations and transitions take the default clip timings.
func ReadManifest(r io.Reader) ([]domain.SignEntry, error) {
	var m Manifest
	if err := json.NewDecoder(r).Decode(&m); err != nil {
		return nil, fmt.Errorf("failed to decode manifest: %w", err)
	}

	ids := make([]string, 0, len(m.Animations))
	for id := range m.Animations {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	entries := make([]domain.SignEntry, 0, len(ids))
	for _, id := range ids {
		a := m.Animations[id]
		if a.File == "" {
			return nil, fmt.Errorf("animation %q has no file", id)
		}

		entry := domain.SignEntry{
			ID:            id,
			DisplayName:   a.DisplayName,
			Duration:      seconds(a.Duration, domain.DefaultClipDuration),
			TransitionIn:  domain.DefaultTransition,
			TransitionOut: domain.DefaultTransition,
			Format:        a.Format,
			File:          a.File,
			Tags:          a.Tags,
		}
		if entry.Format == "" {
			entry.Format = defaultFormat
		}
		if a.Transitions != nil {
			entry.TransitionIn = seconds(a.Transitions.In, 0)
			entry.TransitionOut = seconds(a.Transitions.Out, 0)
		}
		entries = append(entries, entry)
	}

	return entries, nil
}

// LoadManifest reads a manifest file from fsys
func LoadManifest(fsys fs.FS, name string) ([]domain.SignEntry, error) {
	f, err := fsys.Open(name)
	if err != nil {
		return nil, fmt.Errorf("failed to open manifest: %w", err)
	}
	defer f.Close()

	return ReadManifest(f)
}

// WriteManifest encodes entries as an indented manifest
func WriteManifest(w io.Writer, entries []domain.SignEntry) error {
	m := Manifest{
		Version:    "1.0",
		Total:      len(entries),
		Animations: make(map[string]ManifestEntry, len(entries)),
	}
	for _, e := range entries {
		m.Animations[e.ID] = ManifestEntry{
			File:        e.File,
			Format:      e.Format,
			Duration:    e.Duration.Seconds(),
			Tags:        e.Tags,
			DisplayName: e.DisplayName,
			Transitions: &Transitions{
				In:  e.TransitionIn.Seconds(),
				Out: e.TransitionOut.Seconds(),
			},
		}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(m); err != nil {
		return fmt.Errorf("failed to encode manifest: %w", err)
	}
	return nil
}

func seconds(v float64, fallback time.Duration) time.Duration {
	if v <= 0 {
		return fallback
	}
	return time.Duration(v * float64(time.Second))
}
