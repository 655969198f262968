package launch

import (
	"path/filepath"
	"strings"

	goversion "github.com/hashicorp/go-version"
)

// DedupeClasspath keeps one jar per group/artifact for paths in the Maven layout
// (.../<artifact>/<version>/<artifact>-<version>[-classifier].jar), choosing the
// highest version. The surviving entry takes the position of the first
// occurrence. Paths outside that layout are kept, minus exact duplicates.
func DedupeClasspath(paths []string) []string {
	type slot struct {
		index   int
		version *goversion.Version
	}

	out := make([]string, 0, len(paths))
	slots := make(map[string]*slot)
	seen := make(map[string]bool)

	for _, p := range paths {
		key, v, ok := mavenKey(p)
		if !ok {
			if !seen[p] {
				seen[p] = true
				out = append(out, p)
			}
			continue
		}
		s, exists := slots[key]
		if !exists {
			slots[key] = &slot{index: len(out), version: v}
			out = append(out, p)
			continue
		}
		if v.GreaterThan(s.version) {
			s.version = v
			out[s.index] = p
		}
	}
	return out
}

// mavenKey returns <group dirs>/<artifact>[:classifier] and the version of a
// Maven layout jar path.
func mavenKey(p string) (string, *goversion.Version, bool) {
	versionDir := filepath.Dir(p)
	artifactDir := filepath.Dir(versionDir)
	artifact := filepath.Base(artifactDir)
	ver := filepath.Base(versionDir)

	prefix := artifact + "-" + ver
	file := strings.TrimSuffix(filepath.Base(p), ".jar")
	if !strings.HasPrefix(file, prefix) || filepath.Ext(p) != ".jar" {
		return "", nil, false
	}
	classifier := strings.TrimPrefix(strings.TrimPrefix(file, prefix), "-")

	v, err := goversion.NewVersion(ver)
	if err != nil {
		return "", nil, false
	}
	key := filepath.ToSlash(artifactDir)
	if classifier != "" {
		key += ":" + classifier
	}
	return key, v, true
}
