// Package version models the launcher metadata documents (version manifest,
// version descriptors, asset indexes, loader profiles) and fetches them.
package version

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	pkgerrors "github.com/glorpus-work/mcsync/pkg/errors"
)

// AssetEntry is one content-addressed object of an asset index. Name is the
// logical path inside the game and identifies the entry; Hash is the lowercase
// hex SHA-1 of the content. Size is informational only.
type AssetEntry struct {
	Name string `json:"-"`
	Hash string `json:"hash"`
	Size int64  `json:"size"`
}

// Shard returns the two leading hex characters of the hash.
func (e AssetEntry) Shard() string {
	if len(e.Hash) < 2 {
		return e.Hash
	}
	return e.Hash[:2]
}

// ObjectDir returns <root>/assets/objects/<shard>.
func (e AssetEntry) ObjectDir(root string) string {
	return filepath.Join(root, "assets", "objects", e.Shard())
}

// ObjectPath returns <root>/assets/objects/<shard>/<hash>.
func (e AssetEntry) ObjectPath(root string) string {
	return filepath.Join(e.ObjectDir(root), e.Hash)
}

// URL returns the remote location of the object below baseURL.
func (e AssetEntry) URL(baseURL string) string {
	return strings.TrimRight(baseURL, "/") + "/" + e.Shard() + "/" + e.Hash
}

// AssetIndex maps logical asset names to their entries.
type AssetIndex struct {
	ID      string                `json:"-"`
	Objects map[string]AssetEntry `json:"objects"`
}

// ParseAssetIndex decodes an asset index document. Entry names are filled in from
// the object keys and hashes are lowercased.
func ParseAssetIndex(id string, data []byte) (*AssetIndex, error) {
	var idx AssetIndex
	if err := json.Unmarshal(data, &idx); err != nil {
		return nil, fmt.Errorf("asset index %s: %w: %w", id, pkgerrors.ErrManifest, err)
	}
	idx.ID = id
	for name, entry := range idx.Objects {
		entry.Name = name
		entry.Hash = strings.ToLower(strings.TrimSpace(entry.Hash))
		idx.Objects[name] = entry
	}
	if err := idx.Validate(); err != nil {
		return nil, err
	}
	return &idx, nil
}

// Validate rejects entries whose hash is not a 40 character hex digest.
func (idx *AssetIndex) Validate() error {
	for name, entry := range idx.Objects {
		if !isSHA1Hex(entry.Hash) {
			return fmt.Errorf("asset index %s: entry %q has invalid hash %q: %w", idx.ID, name, entry.Hash, pkgerrors.ErrManifest)
		}
	}
	return nil
}

// Entries returns the entries sorted by name.
func (idx *AssetIndex) Entries() []AssetEntry {
	entries := make([]AssetEntry, 0, len(idx.Objects))
	for _, e := range idx.Objects {
		entries = append(entries, e)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })
	return entries
}

// TotalSize returns the sum of all entry sizes.
func (idx *AssetIndex) TotalSize() int64 {
	var total int64
	for _, e := range idx.Objects {
		total += e.Size
	}
	return total
}

func isSHA1Hex(s string) bool {
	if len(s) != 40 {
		return false
	}
	for _, c := range s {
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return false
		}
	}
	return true
}
