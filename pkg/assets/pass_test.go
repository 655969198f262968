package assets

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/glorpus-work/mcsync/pkg/config"
	"github.com/glorpus-work/mcsync/pkg/download"
	"github.com/glorpus-work/mcsync/pkg/notify"
	"github.com/glorpus-work/mcsync/pkg/version"
)

func TestPass_BoundedConcurrency(t *testing.T) {
	const concurrency = 3

	objects := make(map[string][]byte)
	working := make(map[string]version.AssetEntry)
	for i := 0; i < 12; i++ {
		data := []byte(fmt.Sprintf("object %d", i))
		sum := sha1.Sum(data)
		hash := hex.EncodeToString(sum[:])
		objects["/"+hash[:2]+"/"+hash] = data
		name := fmt.Sprintf("minecraft/sounds/step%d.ogg", i)
		working[name] = version.AssetEntry{Name: name, Hash: hash, Size: int64(len(data))}
	}

	var inFlight, peak atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := inFlight.Add(1)
		defer inFlight.Add(-1)
		for {
			p := peak.Load()
			if n <= p || peak.CompareAndSwap(p, n) {
				break
			}
		}
		time.Sleep(20 * time.Millisecond)
		data, ok := objects[r.URL.Path]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_, _ = w.Write(data)
	}))
	defer server.Close()

	s := NewSynchronizer(download.NewManager(download.Options{}), nil, Options{
		BaseURL:     server.URL,
		Concurrency: concurrency,
	})
	root := t.TempDir()
	res := s.Pass(context.Background(), root, working)

	assert.Empty(t, res.Failed)
	assert.Equal(t, len(working), res.Fetched)
	assert.Equal(t, len(working), res.Verified)
	assert.LessOrEqual(t, peak.Load(), int32(concurrency))
	assert.Greater(t, peak.Load(), int32(1), "transfers overlap")
	for _, e := range working {
		assert.FileExists(t, e.ObjectPath(root))
	}
}

func TestSync_DefaultConfigConvergesAfterRepeatedCorruption(t *testing.T) {
	s := config.DefaultConfig().Settings
	policy := Policy{
		MaxPasses:            s.MaxPasses,
		MaxIntegrityFailures: s.MaxIntegrityFailures,
		MaxBackoff:           s.MaxBackoff,
		Multiplier:           s.BackoffMultiplier,
	}
	assert.Equal(t, DefaultPolicy().MaxIntegrityFailures, policy.MaxIntegrityFailures)

	f := newFixture(t, sampleBlobs())
	const name = "minecraft/lang/en_us.lang"
	f.srv.CorruptNext(f.assetURLPath(name), 5)

	stats, err := f.synchronizer(policy, notify.Hooks{}).Sync(context.Background(), f.root, f.desc)
	require.NoError(t, err)
	assert.Equal(t, 6, stats.Passes, "the sixth attempt serves intact content")
	assert.FileExists(t, f.objectPath(name))
}
