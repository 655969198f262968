//go:generate mockgen -destination=./mocks/fetcher.go -package=mocks . Fetcher

package download

import (
	"context"
	"path/filepath"
)

// Fetcher transfers one remote object to one local file.
// Implementations never return failure as a panic or a separate error value: a
// failed transfer is an Outcome with Failed set, so callers can queue a retry.
// Two concurrent calls for the same destination are not supported.
type Fetcher interface {
	Fetch(ctx context.Context, url, dir, name string) Outcome
}

// Outcome reports how a single transfer ended. URL, Dir and Name always echo the
// request so a failed outcome carries everything needed to retry or report it.
type Outcome struct {
	Failed bool
	URL    string
	Dir    string
	Name   string
	Err    error
}

// Path returns the destination file path.
func (o Outcome) Path() string {
	return filepath.Join(o.Dir, o.Name)
}

// Item is one entry of a batch transfer.
type Item struct {
	URL  string
	Dir  string
	Name string
}
