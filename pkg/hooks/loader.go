package hooks

import (
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/glorpus-work/mcsync/pkg/errors"
)

// HookFileExtension is the extension of hook scripts.
const HookFileExtension = ".tengo"

// LoadHooksFromRoot registers the scripts found in <root>/.mcsync/hooks and
// <root>/hooks, named <hook-type>.tengo. The second directory wins when both
// hold a script of the same type.
func LoadHooksFromRoot(manager HookManager, root string) error {
	for _, dir := range []string{
		filepath.Join(root, ".mcsync", "hooks"),
		filepath.Join(root, "hooks"),
	} {
		if _, err := os.Stat(dir); err != nil {
			continue
		}
		if err := loadHooksFromDir(manager, dir); err != nil {
			return errors.Wrapf(err, "error loading hooks from %s", dir)
		}
	}
	return nil
}

func loadHooksFromDir(manager HookManager, dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return errors.Wrapf(err, "failed to read hooks directory %s", dir)
	}

	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != HookFileExtension {
			continue
		}

		hookType := HookType(strings.TrimSuffix(entry.Name(), HookFileExtension))
		if !slices.Contains(Types(), hookType) {
			continue
		}

		hookPath := filepath.Join(dir, entry.Name())
		content, err := os.ReadFile(hookPath)
		if err != nil {
			return errors.Wrapf(err, "error reading hook file %s", hookPath)
		}

		if err := manager.AddHook(Hook{Type: hookType, Content: string(content)}); err != nil {
			return errors.Wrapf(err, "error adding hook %s", hookType)
		}
	}

	return nil
}

// HookTemplate generates a template for a hook script.
func HookTemplate(hookType HookType) string {
	switch hookType {
	case PrePrepare:
		return `// Pre-prepare hook
// This script runs before a version is resolved and installed.
// Available variables:
// - version: string - requested version id or alias
// - root: string - game root directory
// - osTag: string - target OS tag (windows, osx, linux)
// Define err to abort the preparation.

// Example: refuse snapshots
/*
text := import("text")
if text.contains(version, "w") {
    err := "snapshots are not allowed here: " + version
}
*/`

	case PostPrepare:
		return `// Post-prepare hook
// This script runs after everything a version needs is installed.
// Available variables: same as pre-prepare, plus
// - nativesDir, clientJar, mainClass: string
// - classpath: array of strings
// Assign to extraJvmArgs and extraGameArgs to extend the launch.

// Example: give the game more memory
/*
extraJvmArgs = append(extraJvmArgs, "-Xmx4G")
*/`

	default:
		return "// Unknown hook type: " + string(hookType)
	}
}
