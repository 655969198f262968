// Package natives installs the platform-specific native libraries of a version.
package natives

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"

	"github.com/hashicorp/go-multierror"

	"github.com/glorpus-work/mcsync/internal/logger"
	"github.com/glorpus-work/mcsync/pkg/archive"
	"github.com/glorpus-work/mcsync/pkg/download"
	"github.com/glorpus-work/mcsync/pkg/fsutil"
	"github.com/glorpus-work/mcsync/pkg/platform"
	"github.com/glorpus-work/mcsync/pkg/version"
)

// Options configure an Installer.
type Options struct {
	Concurrency int
}

// Installer places native bundles into <root>/natives/<version>.
type Installer struct {
	fetcher   download.Fetcher
	extractor archive.Extractor
	opts      Options
}

// NewInstaller creates an Installer.
func NewInstaller(f download.Fetcher, x archive.Extractor, opts Options) *Installer {
	return &Installer{fetcher: f, extractor: x, opts: opts}
}

type bundle struct {
	item    download.Item
	exclude []string
}

// Dir returns the natives directory of a version.
func Dir(root, versionID string) string {
	return filepath.Join(root, "natives", versionID)
}

// Install fetches and unpacks every native bundle of desc for osTag and returns
// the natives directory. An existing directory is returned as is.
//
// Bundles are fetched concurrently and unpacked one after another. Entry errors
// while unpacking are logged and ignored. When a bundle could not be fetched the
// directory is removed again so the next call retries, and the failures are
// returned.
func (i *Installer) Install(ctx context.Context, root string, desc *version.Descriptor, osTag string) (string, error) {
	dir := Dir(root, desc.ID)
	if fsutil.DirExists(dir) {
		logger.Debug("Natives already installed", logger.Fields{"dir": dir})
		return dir, nil
	}
	if !platform.IsValidOS(osTag) {
		logger.Warn("Unknown OS tag, no natives will match", logger.Fields{"os": osTag})
	}
	if err := fsutil.EnsureDir(dir); err != nil {
		return "", fmt.Errorf("could not create natives dir: %w", err)
	}

	bundles := collect(desc, osTag, dir)
	items := make([]download.Item, len(bundles))
	for n, b := range bundles {
		items[n] = b.item
	}

	var result *multierror.Error
	outcomes := download.FetchAll(ctx, i.fetcher, items, i.opts.Concurrency)
	for n, out := range outcomes {
		if out.Failed {
			logger.Warn("Could not fetch native bundle", logger.Fields{"url": out.URL, "error": out.Err})
			result = multierror.Append(result, fmt.Errorf("%s: %w", out.Name, out.Err))
			continue
		}
		if err := i.extractor.ExtractAll(ctx, out.Path(), dir, bundles[n].exclude...); err != nil {
			logger.Warn("Native bundle extracted with errors", logger.Fields{"archive": out.Name, "error": err})
		}
		if err := fsutil.RemoveFile(out.Path()); err != nil {
			logger.Warn("Could not remove native bundle", logger.Fields{"path": out.Path(), "error": err})
		}
	}

	if err := result.ErrorOrNil(); err != nil {
		if rmErr := os.RemoveAll(dir); rmErr != nil {
			logger.Warn("Could not remove incomplete natives dir", logger.Fields{"dir": dir, "error": rmErr})
		}
		return dir, err
	}
	logger.Info("Installed natives", logger.Fields{"version": desc.ID, "os": osTag, "bundles": len(bundles)})
	return dir, nil
}

func collect(desc *version.Descriptor, osTag, dir string) []bundle {
	var bundles []bundle
	seen := make(map[string]bool)
	for _, lib := range desc.Libraries {
		a, ok := lib.NativeArtifact(osTag)
		if !ok {
			continue
		}
		name := path.Base(a.Path)
		if a.Path == "" || name == "." || name == "/" {
			name = lib.NativeClassifier(osTag) + ".jar"
		}
		base := name
		for n := 1; seen[name]; n++ {
			name = fmt.Sprintf("%d-%s", n, base)
		}
		seen[name] = true
		bundles = append(bundles, bundle{
			item:    download.Item{URL: a.URL, Dir: dir, Name: name},
			exclude: lib.ExcludePrefixes(),
		})
	}
	return bundles
}
