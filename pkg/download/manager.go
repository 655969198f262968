package download

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/glorpus-work/mcsync/internal/logger"
	pkgerrors "github.com/glorpus-work/mcsync/pkg/errors"
	"github.com/glorpus-work/mcsync/pkg/fsutil"
	"github.com/glorpus-work/mcsync/pkg/notify"
)

// Defaults used when Options leave a field zero.
const (
	DefaultConnectTimeout = 3 * time.Second
	DefaultUserAgent      = "mcsync/1.0"
)

// errStalled is the cancellation cause recorded when the stall watchdog fires.
var errStalled = fmt.Errorf("no data received within stall timeout")

// Options configure a Manager.
type Options struct {
	// ConnectTimeout bounds dialing, the TLS handshake and the wait for response
	// headers. It does not bound the body transfer of large files.
	ConnectTimeout time.Duration
	// StallTimeout aborts a transfer once no body bytes arrived for this long.
	// Zero disables the watchdog.
	StallTimeout time.Duration
	UserAgent    string
	Hooks        notify.Hooks
}

// Manager is the HTTP Fetcher. It streams bodies to a temporary file next to the
// destination and renames it into place once the transfer completed.
type Manager struct {
	client    *http.Client
	userAgent string
	stall     time.Duration
	hooks     notify.Hooks
}

var _ Fetcher = (*Manager)(nil)

// NewManager creates a Manager from opts.
func NewManager(opts Options) *Manager {
	if opts.ConnectTimeout <= 0 {
		opts.ConnectTimeout = DefaultConnectTimeout
	}
	if opts.UserAgent == "" {
		opts.UserAgent = DefaultUserAgent
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.DialContext = (&net.Dialer{
		Timeout:   opts.ConnectTimeout,
		KeepAlive: 30 * time.Second,
	}).DialContext
	transport.TLSHandshakeTimeout = opts.ConnectTimeout
	transport.ResponseHeaderTimeout = opts.ConnectTimeout
	transport.MaxIdleConnsPerHost = 32

	return &Manager{
		client:    &http.Client{Transport: transport},
		userAgent: opts.UserAgent,
		stall:     opts.StallTimeout,
		hooks:     opts.Hooks,
	}
}

// Fetch downloads url into dir/name, creating dir first.
func (m *Manager) Fetch(ctx context.Context, url, dir, name string) Outcome {
	out := Outcome{URL: url, Dir: dir, Name: name}
	if err := m.fetch(ctx, url, dir, name); err != nil {
		out.Failed = true
		out.Err = err
		logger.Debug("Transfer failed", logger.Fields{"url": url, "dir": dir, "name": name, "error": err})
		return out
	}
	m.hooks.Emit(notify.Event{Kind: notify.KindDownload, Name: name})
	return out
}

func (m *Manager) fetch(ctx context.Context, url, dir, name string) error {
	if name == "" || strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("destination name %q: %w", name, pkgerrors.ErrInvalidPath)
	}
	if err := fsutil.EnsureDir(dir); err != nil {
		return pkgerrors.Wrap(err, "could not create download dir")
	}

	ctx, cancel := context.WithCancelCause(ctx)
	defer cancel(nil)

	resp, err := m.doRequest(ctx, url)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	var body io.Reader = resp.Body
	if m.stall > 0 {
		wd := newWatchdog(m.stall, func() { cancel(errStalled) })
		defer wd.stop()
		body = wd.reader(resp.Body)
	}

	absPath := filepath.Join(dir, name)
	tmpPath, err := m.writeBodyToTemp(body, absPath, name)
	if err != nil {
		if cause := context.Cause(ctx); cause != nil && cause != context.Canceled {
			err = fmt.Errorf("%w: %w", cause, err)
		}
		return fmt.Errorf("%s: %w: %w", url, pkgerrors.ErrTransport, err)
	}
	return finalizeFile(tmpPath, absPath)
}

func (m *Manager) doRequest(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w: %w", pkgerrors.ErrTransport, err)
	}
	req.Header.Set("User-Agent", m.userAgent)
	resp, err := m.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download failed: %w: %w", pkgerrors.ErrTransport, err)
	}
	if resp.StatusCode != http.StatusOK {
		_ = resp.Body.Close()
		return nil, fmt.Errorf("unexpected status code: %d: %w", resp.StatusCode, pkgerrors.ErrTransport)
	}
	return resp, nil
}

func (m *Manager) writeBodyToTemp(body io.Reader, absPath, name string) (string, error) {
	tmp, err := fsutil.TempFileIn(absPath)
	if err != nil {
		return "", pkgerrors.Wrap(err, "could not create temp file")
	}
	tmpPath := tmp.Name()

	pw := &progressWriter{w: tmp, name: name, hooks: m.hooks}
	if _, err := io.Copy(pw, body); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return "", pkgerrors.Wrap(err, "could not write file")
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return "", pkgerrors.Wrap(err, "could not close file")
	}
	return tmpPath, nil
}

func finalizeFile(tmpPath, absPath string) error {
	if err := fsutil.Move(tmpPath, absPath); err != nil {
		_ = os.Remove(tmpPath)
		return pkgerrors.Wrap(err, "could not finalize file")
	}
	if err := os.Chmod(absPath, fsutil.FileModeDefault); err != nil {
		return pkgerrors.Wrap(err, "could not set permissions")
	}
	return nil
}

// FetchAll runs f over items with at most concurrency transfers in flight and
// returns the outcomes in item order. A failed item never stops the others.
func FetchAll(ctx context.Context, f Fetcher, items []Item, concurrency int) []Outcome {
	if concurrency <= 0 {
		concurrency = max(2, runtime.NumCPU())
	}
	results := make([]Outcome, len(items))

	var g errgroup.Group
	g.SetLimit(concurrency)
	for i, it := range items {
		g.Go(func() error {
			results[i] = f.Fetch(ctx, it.URL, it.Dir, it.Name)
			return nil
		})
	}
	_ = g.Wait()
	return results
}

// Failures returns the failed outcomes of a batch.
func Failures(outcomes []Outcome) []Outcome {
	var failed []Outcome
	for _, o := range outcomes {
		if o.Failed {
			failed = append(failed, o)
		}
	}
	return failed
}
