package version

import (
	"encoding/json"
	"fmt"

	pkgerrors "github.com/glorpus-work/mcsync/pkg/errors"
)

// Aliases accepted by Manifest.Find.
const (
	LatestRelease  = "latest"
	LatestSnapshot = "latest-snapshot"
)

// ManifestEntry is one listed version.
type ManifestEntry struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	URL  string `json:"url"`
}

// Manifest is the remote list of published versions.
type Manifest struct {
	Latest struct {
		Release  string `json:"release"`
		Snapshot string `json:"snapshot"`
	} `json:"latest"`
	Versions []ManifestEntry `json:"versions"`
}

// ParseManifest decodes a version manifest.
func ParseManifest(data []byte) (*Manifest, error) {
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("version manifest: %w: %w", pkgerrors.ErrManifest, err)
	}
	return &m, nil
}

// Find looks up a version by id. The aliases latest and latest-snapshot resolve
// through the manifest's latest section.
func (m *Manifest) Find(id string) (ManifestEntry, error) {
	switch id {
	case LatestRelease:
		id = m.Latest.Release
	case LatestSnapshot:
		id = m.Latest.Snapshot
	}
	for _, v := range m.Versions {
		if v.ID == id && id != "" {
			return v, nil
		}
	}
	return ManifestEntry{}, fmt.Errorf("version %q: %w", id, pkgerrors.ErrVersionNotFound)
}
