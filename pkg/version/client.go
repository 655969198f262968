package version

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/glorpus-work/mcsync/internal/logger"
	"github.com/glorpus-work/mcsync/pkg/download"
	pkgerrors "github.com/glorpus-work/mcsync/pkg/errors"
	"github.com/glorpus-work/mcsync/pkg/fsutil"
	"github.com/glorpus-work/mcsync/pkg/verify"
)

// DefaultManifestURL is the published version manifest.
const DefaultManifestURL = "https://launchermeta.mojang.com/mc/game/version_manifest.json"

const manifestFileName = "version_manifest.json"

// Options configure a Client.
type Options struct {
	ManifestURL string
	Verifier    verify.Verifier
}

// Client resolves version ids to descriptors and installs client jars.
type Client struct {
	fetcher     download.Fetcher
	verifier    verify.Verifier
	manifestURL string
}

// NewClient creates a Client that transfers through f.
func NewClient(f download.Fetcher, opts Options) *Client {
	if opts.ManifestURL == "" {
		opts.ManifestURL = DefaultManifestURL
	}
	if opts.Verifier == nil {
		opts.Verifier = verify.SHA1{}
	}
	return &Client{fetcher: f, verifier: opts.Verifier, manifestURL: opts.ManifestURL}
}

// FetchManifest downloads the version manifest into dir and parses it.
func (c *Client) FetchManifest(ctx context.Context, dir string) (*Manifest, error) {
	out := c.fetcher.Fetch(ctx, c.manifestURL, dir, manifestFileName)
	if out.Failed {
		return nil, fmt.Errorf("version manifest: %w: %w", pkgerrors.ErrManifest, out.Err)
	}
	data, err := os.ReadFile(out.Path())
	if err != nil {
		return nil, pkgerrors.Wrap(err, "could not read version manifest")
	}
	return ParseManifest(data)
}

// GetVersion returns the descriptor for id, reading <dir>/<id>.json when it is
// cached and fetching it through the manifest otherwise. A cached file that no
// longer parses is discarded and fetched again.
func (c *Client) GetVersion(ctx context.Context, id, dir string) (*Descriptor, error) {
	if id != LatestRelease && id != LatestSnapshot {
		cached := filepath.Join(dir, id+".json")
		if fsutil.NonEmptyFile(cached) {
			desc, err := readDescriptor(cached)
			if err == nil {
				logger.Debug("Using cached version descriptor", logger.Fields{"version": id, "path": cached})
				return desc, nil
			}
			logger.Warn("Discarding unreadable cached descriptor", logger.Fields{"path": cached, "error": err})
			if rmErr := fsutil.RemoveFile(cached); rmErr != nil {
				return nil, rmErr
			}
		}
	}

	manifest, err := c.FetchManifest(ctx, dir)
	if err != nil {
		return nil, err
	}
	entry, err := manifest.Find(id)
	if err != nil {
		return nil, err
	}

	out := c.fetcher.Fetch(ctx, entry.URL, dir, entry.ID+".json")
	if out.Failed {
		return nil, fmt.Errorf("version %s: %w: %w", entry.ID, pkgerrors.ErrManifest, out.Err)
	}
	desc, err := readDescriptor(out.Path())
	if err != nil {
		_ = fsutil.RemoveFile(out.Path())
		return nil, err
	}
	logger.Info("Resolved version", logger.Fields{"version": desc.ID, "type": desc.Type})
	return desc, nil
}

func readDescriptor(path string) (*Descriptor, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "could not read %s", path)
	}
	return ParseDescriptor(data)
}

// InstallJar places the client jar at <root>/versions/<id>/<id>.jar and the
// descriptor, pretty-printed, next to it as <id>.json. An existing jar whose
// digest matches is kept. It returns the jar path.
func (c *Client) InstallJar(ctx context.Context, root string, desc *Descriptor) (string, error) {
	client := desc.Downloads.Client
	if client == nil || client.URL == "" {
		return "", fmt.Errorf("version %s has no client download: %w", desc.ID, pkgerrors.ErrManifest)
	}

	dir := filepath.Join(root, "versions", desc.ID)
	jarPath := filepath.Join(dir, desc.ID+".jar")

	if !c.jarUpToDate(jarPath, client.SHA1) {
		out := c.fetcher.Fetch(ctx, client.URL, dir, desc.ID+".jar")
		if out.Failed {
			return "", fmt.Errorf("client jar %s: %w", desc.ID, out.Err)
		}
		if client.SHA1 != "" {
			if err := c.verifier.Verify(jarPath, client.SHA1); err != nil {
				_ = fsutil.RemoveFile(jarPath)
				return "", err
			}
		}
		logger.Success("Installed client jar", logger.Fields{"version": desc.ID, "path": jarPath})
	}

	if err := writeDescriptor(filepath.Join(dir, desc.ID+".json"), desc); err != nil {
		return "", err
	}
	return jarPath, nil
}

func (c *Client) jarUpToDate(path, sha1 string) bool {
	if !fsutil.NonEmptyFile(path) {
		return false
	}
	return sha1 == "" || c.verifier.Verify(path, sha1) == nil
}

func writeDescriptor(path string, desc *Descriptor) error {
	raw, err := desc.Raw()
	if err != nil {
		return err
	}
	var pretty bytes.Buffer
	if err := json.Indent(&pretty, raw, "", "    "); err != nil {
		return fmt.Errorf("could not format descriptor %s: %w: %w", desc.ID, pkgerrors.ErrManifest, err)
	}

	tmp, err := fsutil.TempFileIn(path)
	if err != nil {
		return pkgerrors.Wrap(err, "could not create temp file")
	}
	if _, err := tmp.Write(pretty.Bytes()); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return pkgerrors.Wrap(err, "could not write descriptor")
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return pkgerrors.Wrap(err, "could not write descriptor")
	}
	if err := fsutil.Move(tmp.Name(), path); err != nil {
		return err
	}
	return os.Chmod(path, fsutil.FileModeDefault)
}
