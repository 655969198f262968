package version

import (
	"bytes"
	"encoding/json"
	"fmt"
	"path/filepath"

	pkgerrors "github.com/glorpus-work/mcsync/pkg/errors"
)

// AssetIndexRef points at the asset index a version uses.
type AssetIndexRef struct {
	ID        string `json:"id"`
	URL       string `json:"url"`
	SHA1      string `json:"sha1,omitempty"`
	Size      int64  `json:"size,omitempty"`
	TotalSize int64  `json:"totalSize,omitempty"`
}

// Download is a single remote file with its digest.
type Download struct {
	URL  string `json:"url"`
	SHA1 string `json:"sha1,omitempty"`
	Size int64  `json:"size,omitempty"`
}

// Downloads lists the version-level files.
type Downloads struct {
	Client *Download `json:"client,omitempty"`
	Server *Download `json:"server,omitempty"`
}

// Arguments holds the modern argument lists. Rule-gated entries are kept only
// when they carry no rules, so the lists hold what applies unconditionally.
type Arguments struct {
	Game []string
	JVM  []string
}

type rawArguments struct {
	Game []json.RawMessage `json:"game"`
	JVM  []json.RawMessage `json:"jvm"`
}

type ruledArgument struct {
	Rules []json.RawMessage `json:"rules"`
	Value json.RawMessage   `json:"value"`
}

// UnmarshalJSON implements json.Unmarshaler.
func (a *Arguments) UnmarshalJSON(data []byte) error {
	var raw rawArguments
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	var err error
	if a.Game, err = flattenArguments(raw.Game); err != nil {
		return err
	}
	a.JVM, err = flattenArguments(raw.JVM)
	return err
}

// MarshalJSON implements json.Marshaler.
func (a Arguments) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Game []string `json:"game,omitempty"`
		JVM  []string `json:"jvm,omitempty"`
	}{a.Game, a.JVM})
}

func flattenArguments(items []json.RawMessage) ([]string, error) {
	out := make([]string, 0, len(items))
	for _, item := range items {
		var s string
		if err := json.Unmarshal(item, &s); err == nil {
			out = append(out, s)
			continue
		}
		var ruled ruledArgument
		if err := json.Unmarshal(item, &ruled); err != nil {
			return nil, fmt.Errorf("invalid argument entry %s: %w", item, err)
		}
		if len(ruled.Rules) > 0 {
			continue
		}
		values, err := stringOrList(ruled.Value)
		if err != nil {
			return nil, err
		}
		out = append(out, values...)
	}
	return out, nil
}

func stringOrList(raw json.RawMessage) ([]string, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return []string{s}, nil
	}
	var list []string
	if err := json.Unmarshal(raw, &list); err != nil {
		return nil, fmt.Errorf("invalid argument value %s: %w", raw, err)
	}
	return list, nil
}

// Descriptor is a version descriptor: the document naming everything one game
// version needs.
type Descriptor struct {
	ID                 string        `json:"id"`
	Type               string        `json:"type,omitempty"`
	MainClass          string        `json:"mainClass,omitempty"`
	Assets             string        `json:"assets,omitempty"`
	AssetIndex         AssetIndexRef `json:"assetIndex"`
	Downloads          Downloads     `json:"downloads"`
	Libraries          []Library     `json:"libraries"`
	MinecraftArguments string        `json:"minecraftArguments,omitempty"`
	Arguments          *Arguments    `json:"arguments,omitempty"`

	raw []byte
}

// ParseDescriptor decodes and validates a version descriptor, keeping the raw
// document so it can be persisted unchanged.
func ParseDescriptor(data []byte) (*Descriptor, error) {
	var d Descriptor
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("version descriptor: %w: %w", pkgerrors.ErrManifest, err)
	}
	if err := d.Validate(); err != nil {
		return nil, err
	}
	d.raw = bytes.Clone(data)
	return &d, nil
}

// Validate checks the fields the engine relies on.
func (d *Descriptor) Validate() error {
	if d.ID == "" {
		return fmt.Errorf("version descriptor without id: %w", pkgerrors.ErrManifest)
	}
	for _, lib := range d.Libraries {
		if _, err := lib.Coordinates(); err != nil {
			return fmt.Errorf("version %s: %w", d.ID, err)
		}
	}
	return nil
}

// Raw returns the document the descriptor was parsed from, or a fresh encoding
// when it was built in memory.
func (d *Descriptor) Raw() ([]byte, error) {
	if d.raw != nil {
		return d.raw, nil
	}
	data, err := json.Marshal(d)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "could not encode version descriptor")
	}
	return data, nil
}

// AssetIndexPath returns <root>/assets/indexes/<id>.json.
func (d *Descriptor) AssetIndexPath(root string) string {
	return filepath.Join(root, "assets", "indexes", d.AssetIndex.ID+".json")
}

// IsLegacyAssets reports whether the descriptor uses the flat legacy asset layout.
func (d *Descriptor) IsLegacyAssets() bool {
	return d.Assets == "legacy" || d.Assets == "pre-1.6"
}

// ForgeProfile is the loader overlay descriptor found as version.json inside a
// loader jar.
type ForgeProfile struct {
	ID                 string     `json:"id"`
	InheritsFrom       string     `json:"inheritsFrom,omitempty"`
	MainClass          string     `json:"mainClass,omitempty"`
	MinecraftArguments string     `json:"minecraftArguments,omitempty"`
	Arguments          *Arguments `json:"arguments,omitempty"`
	Libraries          []Library  `json:"libraries"`
}

// ParseForgeProfile decodes a loader overlay descriptor.
func ParseForgeProfile(data []byte) (*ForgeProfile, error) {
	var p ForgeProfile
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("loader profile: %w: %w", pkgerrors.ErrManifest, err)
	}
	return &p, nil
}
