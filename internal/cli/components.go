package cli

import (
	"fmt"
	"io"
	"sync"

	"github.com/dustin/go-humanize"

	"github.com/glorpus-work/mcsync/internal/logger"
	"github.com/glorpus-work/mcsync/pkg/archive"
	"github.com/glorpus-work/mcsync/pkg/assets"
	"github.com/glorpus-work/mcsync/pkg/config"
	"github.com/glorpus-work/mcsync/pkg/download"
	"github.com/glorpus-work/mcsync/pkg/library"
	"github.com/glorpus-work/mcsync/pkg/natives"
	"github.com/glorpus-work/mcsync/pkg/notify"
	"github.com/glorpus-work/mcsync/pkg/orchestrator"
	"github.com/glorpus-work/mcsync/pkg/version"
)

// components is the engine wired from one configuration.
type components struct {
	cfg       *config.Config
	hooks     notify.Hooks
	fetcher   *download.Manager
	extractor *archive.Manager
	versions  *version.Client
	natives   *natives.Installer
	libraries *library.Resolver
	assets    *assets.Synchronizer
}

func newComponents(cfg *config.Config, hooks notify.Hooks) *components {
	s := cfg.Settings
	fetcher := download.NewManager(download.Options{
		ConnectTimeout: s.HTTPTimeout,
		StallTimeout:   s.StallTimeout,
		UserAgent:      s.UserAgent,
		Hooks:          hooks,
	})
	extractor := archive.NewManager()

	return &components{
		cfg:       cfg,
		hooks:     hooks,
		fetcher:   fetcher,
		extractor: extractor,
		versions:  version.NewClient(fetcher, version.Options{ManifestURL: s.ManifestURL}),
		natives:   natives.NewInstaller(fetcher, extractor, natives.Options{Concurrency: s.MaxConcurrent}),
		libraries: library.NewResolver(fetcher, extractor, nil, library.Options{
			ForgeMaven:  s.ForgeMavenURL,
			DefaultRepo: s.LibrariesURL,
			Concurrency: s.MaxConcurrent,
		}),
		assets: assets.NewSynchronizer(fetcher, nil, assets.Options{
			BaseURL:     s.AssetsURL,
			Concurrency: s.MaxConcurrent,
			Policy:      assetPolicy(s),
			Hooks:       hooks,
		}),
	}
}

func assetPolicy(s config.Settings) assets.Policy {
	return assets.Policy{
		MaxPasses:            s.MaxPasses,
		MaxIntegrityFailures: s.MaxIntegrityFailures,
		InitialBackoff:       s.InitialBackoff,
		MaxBackoff:           s.MaxBackoff,
		Multiplier:           s.BackoffMultiplier,
	}
}

func (c *components) orchestrator(hooks orchestrator.Hooks) *orchestrator.Orchestrator {
	orch := orchestrator.New(c.versions, c.natives, c.libraries, c.assets, hooks)
	orch.Fetcher = c.fetcher
	orch.Extractor = c.extractor
	orch.Notify = c.hooks
	return orch
}

func (c *components) root() string {
	return c.cfg.Settings.RootDir
}

// progressHooks reports asset progress on w. Other notifications go to the
// debug log.
func progressHooks(w io.Writer) notify.Hooks {
	var mu sync.Mutex
	lastPercent := int64(-1)
	return notify.Hooks{OnEvent: func(e notify.Event) {
		switch e.Kind {
		case notify.KindAssetsDownloadStart:
			mu.Lock()
			lastPercent = -1
			mu.Unlock()
		case notify.KindAssetsDownloadStatus:
			if e.TotalCount <= 0 {
				return
			}
			percent := e.Count * 100 / e.TotalCount
			mu.Lock()
			defer mu.Unlock()
			if percent == lastPercent {
				return
			}
			lastPercent = percent
			_, _ = fmt.Fprintf(w, "assets: %d/%d (%s / %s)\n",
				e.Count, e.TotalCount, humanize.Bytes(uint64(e.Current)), humanize.Bytes(uint64(e.Total)))
		case notify.KindDownload:
			logger.Debug("Downloaded", logger.Fields{"name": e.Name})
		case notify.KindPackageExtract:
			logger.Debug("Package extracted", logger.Fields{"ok": e.OK})
		}
	}}
}

// phaseHooks prints orchestrator phases on w.
func phaseHooks(w io.Writer) orchestrator.Hooks {
	return orchestrator.Hooks{OnEvent: func(e orchestrator.Event) {
		if e.Msg != "" {
			_, _ = fmt.Fprintf(w, "%s: %s (%s)\n", e.Phase, e.Msg, e.ID)
			return
		}
		_, _ = fmt.Fprintf(w, "%s: %s\n", e.Phase, e.ID)
	}}
}
