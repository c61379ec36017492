package batch

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// ManifestName is the manifest file written into the output directory.
const ManifestName = "manifest.json"

// ManifestEntry represents one scene in the output manifest.
type ManifestEntry struct {
	Scene     string  `json:"scene"`
	Image     string  `json:"image,omitempty"`
	Width     int     `json:"width,omitempty"`
	Height    int     `json:"height,omitempty"`
	Shade     string  `json:"shade,omitempty"`
	Triangles int     `json:"triangles"`
	Vertices  int     `json:"vertices"`
	Millis    float64 `json:"ms,omitempty"`
	Error     string  `json:"error,omitempty"`
}

// WriteManifest writes the manifest for results to path. Failed scenes are
// listed with their error and no image.
func WriteManifest(path string, results []Result) error {
	entries := make([]ManifestEntry, len(results))
	for i, r := range results {
		e := ManifestEntry{
			Scene:     filepath.ToSlash(r.Scene),
			Triangles: r.Info.Triangles,
			Vertices:  r.Info.Vertices,
			Error:     r.Error,
		}
		if r.Info.Width > 0 {
			e.Width = r.Info.Width
			e.Height = r.Info.Height
			e.Shade = r.Info.Shade.String()
		}
		if r.Success {
			e.Image = filepath.ToSlash(r.Image)
			e.Millis = float64(r.Elapsed.Microseconds()) / 1000
		}
		entries[i] = e
	}

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ReadManifest reads a manifest written by WriteManifest.
func ReadManifest(path string) ([]ManifestEntry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var entries []ManifestEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}
