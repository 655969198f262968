package version

import (
	"fmt"
	"path"
	"strings"

	pkgerrors "github.com/glorpus-work/mcsync/pkg/errors"
	"github.com/glorpus-work/mcsync/pkg/platform"
)

// Artifact is a downloadable file with its path below the libraries directory.
type Artifact struct {
	Path string `json:"path"`
	SHA1 string `json:"sha1"`
	Size int64  `json:"size"`
	URL  string `json:"url"`
}

// LibraryDownloads lists the main artifact and the classifier artifacts.
type LibraryDownloads struct {
	Artifact    *Artifact           `json:"artifact,omitempty"`
	Classifiers map[string]Artifact `json:"classifiers,omitempty"`
}

// ExtractRules controls native bundle extraction.
type ExtractRules struct {
	Exclude []string `json:"exclude,omitempty"`
}

// Library is one classpath dependency.
type Library struct {
	Name      string            `json:"name"`
	Downloads LibraryDownloads  `json:"downloads"`
	URL       string            `json:"url,omitempty"`
	ClientReq bool              `json:"clientreq,omitempty"`
	ServerReq bool              `json:"serverreq,omitempty"`
	Natives   map[string]string `json:"natives,omitempty"`
	Extract   *ExtractRules     `json:"extract,omitempty"`
}

// Coordinates is a parsed group:artifact:version[:classifier] name.
type Coordinates struct {
	Group      string
	Artifact   string
	Version    string
	Classifier string
}

// ParseCoordinates splits a Maven coordinate string.
func ParseCoordinates(name string) (Coordinates, error) {
	parts := strings.Split(name, ":")
	if len(parts) < 3 || len(parts) > 4 {
		return Coordinates{}, fmt.Errorf("library %q: expected group:artifact:version: %w", name, pkgerrors.ErrManifest)
	}
	for _, p := range parts {
		if p == "" {
			return Coordinates{}, fmt.Errorf("library %q: empty coordinate: %w", name, pkgerrors.ErrManifest)
		}
	}
	c := Coordinates{Group: parts[0], Artifact: parts[1], Version: parts[2]}
	if len(parts) == 4 {
		c.Classifier = parts[3]
	}
	return c, nil
}

// MavenPath returns group/as/dirs/artifact/version/artifact-version[-classifier].jar.
func (c Coordinates) MavenPath() string {
	file := c.Artifact + "-" + c.Version
	if c.Classifier != "" {
		file += "-" + c.Classifier
	}
	return path.Join(strings.ReplaceAll(c.Group, ".", "/"), c.Artifact, c.Version, file+".jar")
}

// Coordinates parses the library name.
func (l Library) Coordinates() (Coordinates, error) {
	return ParseCoordinates(l.Name)
}

// NativeClassifier returns the classifier key holding the native bundle for
// osTag. An explicit natives mapping wins over the natives-<os> convention.
func (l Library) NativeClassifier(osTag string) string {
	if c, ok := l.Natives[osTag]; ok {
		return strings.ReplaceAll(c, "${arch}", "64")
	}
	return platform.NativesClassifier(osTag)
}

// NativeArtifact returns the native bundle for osTag, if the library has one.
func (l Library) NativeArtifact(osTag string) (Artifact, bool) {
	a, ok := l.Downloads.Classifiers[l.NativeClassifier(osTag)]
	if !ok || a.URL == "" {
		return Artifact{}, false
	}
	return a, true
}

// ExcludePrefixes returns the extraction exclude rules, if any.
func (l Library) ExcludePrefixes() []string {
	if l.Extract == nil {
		return nil
	}
	return l.Extract.Exclude
}
