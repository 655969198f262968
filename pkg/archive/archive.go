// Package archive extracts zip-family archives (jars, native bundles, client packages).
package archive

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/mholt/archives"

	"github.com/glorpus-work/mcsync/internal/logger"
	pkgerrors "github.com/glorpus-work/mcsync/pkg/errors"
	"github.com/glorpus-work/mcsync/pkg/fsutil"
)

// Extractor is what consumers of this package depend on.
type Extractor interface {
	ExtractAll(ctx context.Context, archivePath, destDir string, exclude ...string) error
	ExtractFile(ctx context.Context, archivePath, filePath, destPath string) error
}

// Manager handles archive extraction.
type Manager struct{}

var _ Extractor = (*Manager)(nil)

// NewManager creates a new Manager instance.
func NewManager() *Manager {
	return &Manager{}
}

// ExtractAll extracts every entry of the archive into destDir.
// Entries whose slash-separated name starts with one of the exclude prefixes are
// skipped. A failing entry does not stop the walk: all entry failures are
// collected and returned together, wrapping ErrArchive. Opening the archive
// itself failing is returned immediately.
func (am *Manager) ExtractAll(ctx context.Context, archivePath, destDir string, exclude ...string) error {
	fsys, closeFS, err := open(ctx, archivePath)
	if err != nil {
		return err
	}
	defer closeFS()

	if err := fsutil.EnsureDir(destDir); err != nil {
		return pkgerrors.Wrap(err, "failed to create destination directory")
	}

	var result *multierror.Error
	walkFn := func(name string, d fs.DirEntry, err error) error {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if err != nil {
			result = multierror.Append(result, fmt.Errorf("%s: %w", name, err))
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if name == "." {
			return nil
		}
		if d.IsDir() && (excluded(name, exclude) || excluded(name+"/", exclude)) {
			return fs.SkipDir
		}
		if excluded(name, exclude) {
			return nil
		}
		if err := am.extractEntry(fsys, name, destDir, d); err != nil {
			logger.Warn("Could not extract archive entry", logger.Fields{"archive": archivePath, "entry": name, "error": err})
			result = multierror.Append(result, err)
		}
		return nil
	}

	if err := fs.WalkDir(fsys, ".", walkFn); err != nil {
		return fmt.Errorf("failed to walk %s: %w: %w", archivePath, pkgerrors.ErrArchive, err)
	}
	if result.ErrorOrNil() != nil {
		return fmt.Errorf("%s: %w: %w", archivePath, pkgerrors.ErrArchive, result)
	}
	return nil
}

// ExtractFile extracts a specific file from an archive to destPath.
func (am *Manager) ExtractFile(ctx context.Context, archivePath, filePath, destPath string) error {
	fsys, closeFS, err := open(ctx, archivePath)
	if err != nil {
		return err
	}
	defer closeFS()

	srcFile, err := fsys.Open(filePath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%s in %s: %w", filePath, archivePath, pkgerrors.ErrNotFound)
		}
		return fmt.Errorf("failed to open %s in %s: %w: %w", filePath, archivePath, pkgerrors.ErrArchive, err)
	}
	defer func() { _ = srcFile.Close() }()

	if err := fsutil.EnsureFileDir(destPath); err != nil {
		return pkgerrors.Wrap(err, "failed to create destination directory")
	}
	dstFile, err := fsutil.CreateFilePerm(destPath, fsutil.FileModeDefault)
	if err != nil {
		return fmt.Errorf("failed to create destination file %s: %w", destPath, err)
	}
	defer func() { _ = dstFile.Close() }()

	if _, err := io.Copy(dstFile, srcFile); err != nil {
		return fmt.Errorf("failed to copy %s to %s: %w: %w", filePath, destPath, pkgerrors.ErrArchive, err)
	}
	return nil
}

func open(ctx context.Context, archivePath string) (fs.FS, func(), error) {
	if !fsutil.FileExists(archivePath) {
		return nil, nil, fmt.Errorf("%s: %w", archivePath, pkgerrors.ErrNotFound)
	}
	fsys, err := archives.FileSystem(ctx, archivePath, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open archive %s: %w: %w", archivePath, pkgerrors.ErrArchive, err)
	}
	switch fsys.(type) {
	case archives.FileFS, *archives.FileFS:
		return nil, nil, fmt.Errorf("%s is not a recognised archive: %w", archivePath, pkgerrors.ErrArchive)
	}
	closeFS := func() {
		if closer, ok := fsys.(io.Closer); ok {
			_ = closer.Close()
		}
	}
	return fsys, closeFS, nil
}

func excluded(name string, exclude []string) bool {
	for _, prefix := range exclude {
		if prefix != "" && strings.HasPrefix(name, prefix) {
			return true
		}
	}
	return false
}

// safeJoin resolves an archive entry name below destDir, rejecting names that
// would escape it.
func safeJoin(destDir, name string) (string, error) {
	rel := path.Clean(strings.ReplaceAll(name, `\`, "/"))
	if rel == "." || rel == ".." || strings.HasPrefix(rel, "../") || path.IsAbs(rel) {
		return "", fmt.Errorf("%s: %w", name, pkgerrors.ErrInvalidPath)
	}
	return filepath.Join(destDir, filepath.FromSlash(rel)), nil
}

// extractEntry writes a single archive entry below destDir.
func (am *Manager) extractEntry(fsys fs.FS, name, destDir string, d fs.DirEntry) error {
	targetPath, err := safeJoin(destDir, name)
	if err != nil {
		return err
	}

	if d.IsDir() {
		return fsutil.EnsureDir(targetPath)
	}

	info, err := d.Info()
	if err != nil {
		return fmt.Errorf("failed to get file info for %s: %w", name, err)
	}
	if info.Mode()&os.ModeSymlink != 0 {
		logger.Debug("Skipping symlink archive entry", logger.Fields{"entry": name})
		return nil
	}
	return am.writeRegularFile(fsys, name, targetPath, info)
}

// writeRegularFile writes a regular file from the archive entry to targetPath.
func (am *Manager) writeRegularFile(fsys fs.FS, name, targetPath string, info fs.FileInfo) error {
	srcFile, err := fsys.Open(name)
	if err != nil {
		return fmt.Errorf("failed to open source file %s: %w", name, err)
	}
	defer func() { _ = srcFile.Close() }()

	if err := fsutil.EnsureFileDir(targetPath); err != nil {
		return fmt.Errorf("failed to create parent directory for %s: %w", name, err)
	}

	perm := info.Mode().Perm()
	if perm == 0 {
		perm = fsutil.FileModeDefault
	}
	dstFile, err := fsutil.CreateFilePerm(targetPath, perm)
	if err != nil {
		return fmt.Errorf("failed to create destination file %s: %w", targetPath, err)
	}
	defer func() { _ = dstFile.Close() }()

	if _, err := io.Copy(dstFile, srcFile); err != nil {
		return fmt.Errorf("failed to copy file %s: %w", name, err)
	}
	if !info.ModTime().IsZero() {
		_ = os.Chtimes(targetPath, info.ModTime(), info.ModTime())
	}
	return nil
}
