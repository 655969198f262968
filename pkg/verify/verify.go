//go:generate mockgen -destination=./mocks/verifier.go -package=mocks . Verifier

// Package verify checks downloaded files against their SHA-1 content digest.
package verify

import (
	"crypto/sha1" //nolint:gosec // SHA-1 is the digest published by the remote index
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"strings"

	pkgerrors "github.com/glorpus-work/mcsync/pkg/errors"
)

// Verifier checks a stored file against an expected digest.
type Verifier interface {
	Verify(path, expected string) error
}

// SHA1 is the default Verifier.
type SHA1 struct{}

var _ Verifier = SHA1{}

// Verify implements Verifier.
func (SHA1) Verify(path, expected string) error {
	return Verify(path, expected)
}

// Sum streams the file at path and returns its lowercase hex SHA-1 digest.
func Sum(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("%s: %w", path, pkgerrors.ErrNotFound)
		}
		return "", pkgerrors.Wrapf(err, "could not open %s", path)
	}
	defer func() { _ = f.Close() }()

	h := sha1.New() //nolint:gosec
	if _, err := io.Copy(h, f); err != nil {
		return "", pkgerrors.Wrapf(err, "could not read %s", path)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// Verify reports whether the file at path has the expected digest.
// A mismatch returns an error wrapping ErrIntegrity carrying both digests.
func Verify(path, expected string) error {
	actual, err := Sum(path)
	if err != nil {
		return err
	}
	want := normalize(expected)
	if actual != want {
		return fmt.Errorf("%s: expected sha1 %s, got %s: %w", path, want, actual, pkgerrors.ErrIntegrity)
	}
	return nil
}

func normalize(digest string) string {
	return strings.ToLower(strings.TrimSpace(digest))
}
