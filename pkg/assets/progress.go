package assets

import (
	"sync/atomic"

	"github.com/glorpus-work/mcsync/pkg/notify"
)

// progress aggregates verified-entry counters shared by concurrent workers.
type progress struct {
	hooks      notify.Hooks
	totalCount atomic.Int64
	totalSize  atomic.Int64
	dCount     atomic.Int64
	dSize      atomic.Int64
}

func (p *progress) reset(totalCount int, totalSize int64) {
	p.totalCount.Store(int64(totalCount))
	p.totalSize.Store(totalSize)
	p.dCount.Store(0)
	p.dSize.Store(0)
}

// verified records a verified entry and emits the status event. Counters are
// updated before the event is sent.
func (p *progress) verified(name string, size int64) {
	count := p.dCount.Add(1)
	done := p.dSize.Add(size)
	p.hooks.Emit(notify.Event{
		Kind:       notify.KindAssetsDownloadStatus,
		Name:       name,
		Count:      count,
		TotalCount: p.totalCount.Load(),
		Current:    done,
		Total:      p.totalSize.Load(),
	})
}

func (p *progress) counts() (count, size int64) {
	return p.dCount.Load(), p.dSize.Load()
}
