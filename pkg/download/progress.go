package download

import (
	"io"
	"sync"
	"time"

	"github.com/glorpus-work/mcsync/pkg/notify"
)

// progressWriter emits a download-status event for every chunk written.
type progressWriter struct {
	w       io.Writer
	name    string
	written int64
	hooks   notify.Hooks
}

func (p *progressWriter) Write(b []byte) (int, error) {
	n, err := p.w.Write(b)
	p.written += int64(n)
	if n > 0 {
		p.hooks.Emit(notify.Event{
			Kind:    notify.KindDownloadStatus,
			Name:    p.name,
			Current: p.written,
			Total:   int64(n),
		})
	}
	return n, err
}

// watchdog calls fire once no read made progress for the configured window.
type watchdog struct {
	window time.Duration
	timer  *time.Timer
	once   sync.Once
}

func newWatchdog(window time.Duration, fire func()) *watchdog {
	return &watchdog{window: window, timer: time.AfterFunc(window, fire)}
}

func (w *watchdog) reader(r io.Reader) io.Reader {
	return readerFunc(func(b []byte) (int, error) {
		n, err := r.Read(b)
		if n > 0 {
			w.timer.Reset(w.window)
		}
		return n, err
	})
}

func (w *watchdog) stop() {
	w.once.Do(func() { w.timer.Stop() })
}

type readerFunc func([]byte) (int, error)

func (f readerFunc) Read(b []byte) (int, error) { return f(b) }
