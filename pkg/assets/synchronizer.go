// Package assets keeps the content-addressed asset store of a game root in sync
// with a version's asset index.
package assets

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/dustin/go-humanize"
	"golang.org/x/sync/errgroup"

	"github.com/glorpus-work/mcsync/internal/logger"
	"github.com/glorpus-work/mcsync/pkg/download"
	pkgerrors "github.com/glorpus-work/mcsync/pkg/errors"
	"github.com/glorpus-work/mcsync/pkg/fsutil"
	"github.com/glorpus-work/mcsync/pkg/notify"
	"github.com/glorpus-work/mcsync/pkg/verify"
	"github.com/glorpus-work/mcsync/pkg/version"
)

// Defaults used when Options leave a field zero.
const (
	DefaultBaseURL     = "https://resources.download.minecraft.net"
	DefaultConcurrency = 16
)

// Options configure a Synchronizer.
type Options struct {
	BaseURL     string
	Concurrency int
	Policy      Policy
	Hooks       notify.Hooks
}

// FailureKind tells why an entry ended up in the retry set.
type FailureKind int

const (
	// FailureTransport means the object could not be fetched.
	FailureTransport FailureKind = iota + 1
	// FailureIntegrity means the stored object did not match its hash.
	FailureIntegrity
)

func (k FailureKind) String() string {
	switch k {
	case FailureTransport:
		return "transport"
	case FailureIntegrity:
		return "integrity"
	default:
		return "unknown"
	}
}

// Result is the outcome of one pass. An empty Failed set means the pass
// converged.
type Result struct {
	Failed  map[string]version.AssetEntry
	Reasons map[string]FailureKind

	Fetched           int
	Verified          int
	TransportFailures int
	IntegrityFailures int
}

// Converged reports whether nothing is left to retry.
func (r Result) Converged() bool {
	return len(r.Failed) == 0
}

// Stats summarizes a finished Sync.
type Stats struct {
	Passes     int
	Fetched    int
	Verified   int
	TotalCount int
	TotalSize  int64
}

// Synchronizer materializes every entry of an asset index below a root directory.
type Synchronizer struct {
	fetcher  download.Fetcher
	verifier verify.Verifier
	opts     Options
	progress *progress
}

// NewSynchronizer creates a Synchronizer. A nil verifier selects SHA-1.
func NewSynchronizer(f download.Fetcher, v verify.Verifier, opts Options) *Synchronizer {
	if v == nil {
		v = verify.SHA1{}
	}
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = DefaultConcurrency
	}
	return &Synchronizer{
		fetcher:  f,
		verifier: v,
		opts:     opts,
		progress: &progress{hooks: opts.Hooks},
	}
}

// Sync brings <root>/assets in line with the descriptor's asset index. It
// returns once every entry is present and verified, a retry limit of the
// policy is hit, or ctx is cancelled.
func (s *Synchronizer) Sync(ctx context.Context, root string, desc *version.Descriptor) (Stats, error) {
	s.opts.Hooks.Emit(notify.Event{Kind: notify.KindAssetsDownloadStart})
	s.progress.reset(0, 0)

	idx, err := s.LoadIndex(ctx, root, desc)
	if err != nil {
		return Stats{}, err
	}

	stats := Stats{TotalCount: len(idx.Objects), TotalSize: idx.TotalSize()}
	s.progress.reset(stats.TotalCount, stats.TotalSize)
	logger.Info("Synchronizing assets", logger.Fields{
		"index":   idx.ID,
		"objects": stats.TotalCount,
		"size":    humanize.Bytes(uint64(max(stats.TotalSize, 0))),
	})

	working := idx.Objects
	mismatches := make(map[string]int)
	for len(working) > 0 {
		if !s.opts.Policy.passAllowed(stats.Passes + 1) {
			return stats, fmt.Errorf("%d asset(s) still failing after %d pass(es): %w",
				len(working), stats.Passes, pkgerrors.ErrRetriesExhausted)
		}
		if stats.Passes > 0 {
			if err := sleep(ctx, s.opts.Policy.Backoff(stats.Passes)); err != nil {
				return stats, err
			}
		}

		stats.Passes++
		res := s.Pass(ctx, root, working)
		stats.Fetched += res.Fetched
		stats.Verified += res.Verified

		logger.Info("Asset pass finished", logger.Fields{
			"pass":               stats.Passes,
			"verified":           res.Verified,
			"fetched":            res.Fetched,
			"transport_failures": res.TransportFailures,
			"integrity_failures": res.IntegrityFailures,
			"remaining":          len(res.Failed),
		})

		if err := ctx.Err(); err != nil {
			return stats, err
		}

		for name, kind := range res.Reasons {
			if kind != FailureIntegrity {
				continue
			}
			mismatches[name]++
			if s.opts.Policy.integrityExhausted(mismatches[name]) {
				return stats, fmt.Errorf("asset %s failed verification %d time(s): %w",
					name, mismatches[name], pkgerrors.ErrRetriesExhausted)
			}
		}
		working = res.Failed
	}

	count, size := s.progress.counts()
	logger.Success(fmt.Sprintf("Assets finished after %d pass(es)", stats.Passes), logger.Fields{
		"objects": count,
		"size":    humanize.Bytes(uint64(max(size, 0))),
	})
	return stats, nil
}

// LoadIndex returns the asset index of desc, fetching and persisting it under
// <root>/assets/indexes when it is not there yet. A stored index that does not
// parse is removed so the next call fetches it again.
func (s *Synchronizer) LoadIndex(ctx context.Context, root string, desc *version.Descriptor) (*version.AssetIndex, error) {
	ref := desc.AssetIndex
	if ref.ID == "" || ref.URL == "" {
		return nil, fmt.Errorf("version %s has no asset index: %w", desc.ID, pkgerrors.ErrManifest)
	}

	path := desc.AssetIndexPath(root)
	if !fsutil.NonEmptyFile(path) {
		out := s.fetcher.Fetch(ctx, ref.URL, filepath.Dir(path), filepath.Base(path))
		if out.Failed {
			return nil, fmt.Errorf("asset index %s: %w: %w", ref.ID, pkgerrors.ErrManifest, out.Err)
		}
		if ref.SHA1 != "" {
			if err := s.verifier.Verify(path, ref.SHA1); err != nil {
				_ = fsutil.RemoveFile(path)
				return nil, fmt.Errorf("asset index %s: %w: %w", ref.ID, pkgerrors.ErrManifest, err)
			}
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "could not read asset index %s", path)
	}
	idx, err := version.ParseAssetIndex(ref.ID, data)
	if err != nil {
		_ = fsutil.RemoveFile(path)
		return nil, err
	}
	return idx, nil
}

// Pass processes every entry of working once, concurrently. Missing or empty
// objects are fetched; every object is then verified and removed again on a
// digest mismatch. Entries that could not be fetched or verified are returned
// for the next pass.
func (s *Synchronizer) Pass(ctx context.Context, root string, working map[string]version.AssetEntry) Result {
	res := Result{
		Failed:  make(map[string]version.AssetEntry),
		Reasons: make(map[string]FailureKind),
	}
	var mu sync.Mutex
	fail := func(e version.AssetEntry, kind FailureKind) {
		mu.Lock()
		defer mu.Unlock()
		res.Failed[e.Name] = e
		res.Reasons[e.Name] = kind
		switch kind {
		case FailureTransport:
			res.TransportFailures++
		case FailureIntegrity:
			res.IntegrityFailures++
		}
	}

	var g errgroup.Group
	g.SetLimit(s.opts.Concurrency)
	for _, entry := range working {
		g.Go(func() error {
			if ctx.Err() != nil {
				fail(entry, FailureTransport)
				return nil
			}
			fetched, kind := s.syncEntry(ctx, root, entry)
			if fetched {
				mu.Lock()
				res.Fetched++
				mu.Unlock()
			}
			if kind != 0 {
				fail(entry, kind)
				return nil
			}
			mu.Lock()
			res.Verified++
			mu.Unlock()
			s.progress.verified(entry.Name, entry.Size)
			return nil
		})
	}
	_ = g.Wait()
	return res
}

func (s *Synchronizer) syncEntry(ctx context.Context, root string, e version.AssetEntry) (bool, FailureKind) {
	path := e.ObjectPath(root)
	fetched := false

	if !fsutil.NonEmptyFile(path) {
		out := s.fetcher.Fetch(ctx, e.URL(s.opts.BaseURL), e.ObjectDir(root), e.Hash)
		if out.Failed {
			return false, FailureTransport
		}
		fetched = true
	}

	if err := s.verifier.Verify(path, e.Hash); err != nil {
		if !errors.Is(err, pkgerrors.ErrIntegrity) && !errors.Is(err, pkgerrors.ErrNotFound) {
			logger.Warn("Could not verify asset", logger.Fields{"name": e.Name, "path": path, "error": err})
		} else {
			logger.Debug("Asset failed verification", logger.Fields{"name": e.Name, "error": err})
		}
		if rmErr := fsutil.RemoveFile(path); rmErr != nil {
			logger.Warn("Could not remove invalid asset", logger.Fields{"path": path, "error": rmErr})
		}
		return fetched, FailureIntegrity
	}
	return fetched, 0
}
