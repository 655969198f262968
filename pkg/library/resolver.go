// Package library resolves a version's libraries, and optionally a loader
// overlay's libraries, into local jar paths for the classpath.
package library

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/go-multierror"

	"github.com/glorpus-work/mcsync/internal/logger"
	"github.com/glorpus-work/mcsync/pkg/archive"
	"github.com/glorpus-work/mcsync/pkg/download"
	pkgerrors "github.com/glorpus-work/mcsync/pkg/errors"
	"github.com/glorpus-work/mcsync/pkg/fsutil"
	"github.com/glorpus-work/mcsync/pkg/verify"
	"github.com/glorpus-work/mcsync/pkg/version"
)

// Repository defaults.
const (
	DefaultForgeMaven  = "https://maven.minecraftforge.net/"
	DefaultLibraryRepo = "https://libraries.minecraft.net/"

	// legacyForgeMaven is the retired loader repository old profiles still name.
	legacyForgeMaven = "files.minecraftforge.net/maven"

	loaderGroup   = "net.minecraftforge"
	loaderProfile = "version.json"
)

// Options configure a Resolver.
type Options struct {
	ForgeMaven  string
	DefaultRepo string
	Concurrency int
}

// Bundle is the result of resolving a loader overlay.
type Bundle struct {
	Paths []string
	Forge *version.ForgeProfile
}

// Resolver turns library lists into local jar paths, fetching what is missing.
type Resolver struct {
	fetcher   download.Fetcher
	extractor archive.Extractor
	verifier  verify.Verifier
	opts      Options
}

// NewResolver creates a Resolver. A nil verifier selects SHA-1.
func NewResolver(f download.Fetcher, x archive.Extractor, v verify.Verifier, opts Options) *Resolver {
	if v == nil {
		v = verify.SHA1{}
	}
	if opts.ForgeMaven == "" {
		opts.ForgeMaven = DefaultForgeMaven
	}
	if opts.DefaultRepo == "" {
		opts.DefaultRepo = DefaultLibraryRepo
	}
	return &Resolver{fetcher: f, extractor: x, verifier: v, opts: opts}
}

type target struct {
	path string
	url  string
	sha1 string
}

// Classpath returns <root>/libraries/<artifact path> for every library that has
// a direct artifact download, in library order and without de-duplication.
// Missing jars are fetched. Libraries that could not be fetched are left out of
// the list and reported together in the returned error; the partial list is
// returned either way.
func (r *Resolver) Classpath(ctx context.Context, root string, desc *version.Descriptor) ([]string, error) {
	var targets []target
	for _, lib := range desc.Libraries {
		a := lib.Downloads.Artifact
		if a == nil || a.Path == "" || a.URL == "" {
			continue
		}
		targets = append(targets, target{
			path: filepath.Join(root, "libraries", filepath.FromSlash(a.Path)),
			url:  a.URL,
			sha1: a.SHA1,
		})
	}

	paths, err := r.materialize(ctx, targets)
	logger.Debug("Resolved classpath", logger.Fields{"version": desc.ID, "libraries": len(paths)})
	return paths, err
}

// ForgeDependencies extracts the loader profile from forgeJar into
// <root>/forge/<desc.ID>/version.json and resolves its libraries.
func (r *Resolver) ForgeDependencies(ctx context.Context, root string, desc *version.Descriptor, forgeJar string) (*Bundle, error) {
	profilePath := filepath.Join(root, "forge", desc.ID, loaderProfile)
	if err := r.extractor.ExtractFile(ctx, forgeJar, loaderProfile, profilePath); err != nil {
		return nil, fmt.Errorf("loader profile from %s: %w", forgeJar, err)
	}
	data, err := os.ReadFile(profilePath)
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "could not read %s", profilePath)
	}
	profile, err := version.ParseForgeProfile(data)
	if err != nil {
		return nil, err
	}

	var targets []target
	var result *multierror.Error
	for _, lib := range profile.Libraries {
		coords, err := lib.Coordinates()
		if err != nil {
			result = multierror.Append(result, err)
			continue
		}
		if coords.Group == loaderGroup && strings.Contains(coords.Artifact, "forge") {
			continue
		}
		base, ok := r.repositoryFor(lib)
		if !ok {
			logger.Debug("Skipping loader library without repository", logger.Fields{"library": lib.Name})
			continue
		}
		mavenPath := coords.MavenPath()
		targets = append(targets, target{
			path: filepath.Join(root, "libraries", filepath.FromSlash(mavenPath)),
			url:  base + mavenPath,
		})
	}

	paths, err := r.materialize(ctx, targets)
	if err != nil {
		result = multierror.Append(result, err)
	}
	logger.Info("Resolved loader libraries", logger.Fields{"loader": profile.ID, "libraries": len(paths)})
	return &Bundle{Paths: paths, Forge: profile}, result.ErrorOrNil()
}

// repositoryFor picks the base URL a loader library is fetched from: its own
// repository when it names one, the default repository when it is flagged as
// client or server required, and none otherwise.
func (r *Resolver) repositoryFor(lib version.Library) (string, bool) {
	switch {
	case lib.URL != "":
		if strings.Contains(lib.URL, legacyForgeMaven) {
			return withSlash(r.opts.ForgeMaven), true
		}
		return withSlash(lib.URL), true
	case lib.ClientReq || lib.ServerReq:
		return withSlash(r.opts.DefaultRepo), true
	default:
		return "", false
	}
}

func withSlash(u string) string {
	if strings.HasSuffix(u, "/") {
		return u
	}
	return u + "/"
}

// materialize fetches the targets that are not on disk yet and returns the
// paths of all targets that are present afterwards, in target order. Freshly
// fetched jars with a known digest are verified.
func (r *Resolver) materialize(ctx context.Context, targets []target) ([]string, error) {
	var items []download.Item
	queued := make(map[string]bool)
	for _, t := range targets {
		if queued[t.path] || fsutil.NonEmptyFile(t.path) {
			continue
		}
		queued[t.path] = true
		items = append(items, download.Item{URL: t.url, Dir: filepath.Dir(t.path), Name: filepath.Base(t.path)})
	}

	failed := make(map[string]error)
	for _, out := range download.FetchAll(ctx, r.fetcher, items, r.opts.Concurrency) {
		if out.Failed {
			failed[out.Path()] = out.Err
		}
	}

	var result *multierror.Error
	paths := make([]string, 0, len(targets))
	for _, t := range targets {
		if err, ok := failed[t.path]; ok {
			logger.Warn("Could not fetch library", logger.Fields{"url": t.url, "error": err})
			result = multierror.Append(result, fmt.Errorf("%s: %w", filepath.Base(t.path), err))
			continue
		}
		if queued[t.path] && t.sha1 != "" {
			if err := r.verifier.Verify(t.path, t.sha1); err != nil {
				logger.Warn("Library failed verification", logger.Fields{"path": t.path, "error": err})
				_ = fsutil.RemoveFile(t.path)
				failed[t.path] = err
				result = multierror.Append(result, err)
				continue
			}
			queued[t.path] = false
		}
		paths = append(paths, t.path)
	}
	return paths, result.ErrorOrNil()
}
