//go:generate mockgen -destination=./mocks/orchestrator.go -package=mocks . VersionResolver,NativeInstaller,ClasspathResolver,AssetSynchronizer

package orchestrator

import (
	"context"

	"github.com/glorpus-work/mcsync/pkg/archive"
	"github.com/glorpus-work/mcsync/pkg/assets"
	"github.com/glorpus-work/mcsync/pkg/download"
	"github.com/glorpus-work/mcsync/pkg/hooks"
	"github.com/glorpus-work/mcsync/pkg/launch"
	"github.com/glorpus-work/mcsync/pkg/library"
	"github.com/glorpus-work/mcsync/pkg/notify"
	"github.com/glorpus-work/mcsync/pkg/version"
)

// VersionResolver is the subset of the version client used by the orchestrator.
type VersionResolver interface {
	GetVersion(ctx context.Context, id, dir string) (*version.Descriptor, error)
	InstallJar(ctx context.Context, root string, desc *version.Descriptor) (string, error)
}

// NativeInstaller materializes the native libraries of a version.
type NativeInstaller interface {
	Install(ctx context.Context, root string, desc *version.Descriptor, osTag string) (string, error)
}

// ClasspathResolver resolves library lists into local jar paths.
type ClasspathResolver interface {
	Classpath(ctx context.Context, root string, desc *version.Descriptor) ([]string, error)
	ForgeDependencies(ctx context.Context, root string, desc *version.Descriptor, forgeJar string) (*library.Bundle, error)
}

// AssetSynchronizer brings the asset store of a version into agreement with its index.
type AssetSynchronizer interface {
	Sync(ctx context.Context, root string, desc *version.Descriptor) (assets.Stats, error)
}

// Orchestrator ties the version, native, library and asset stages together.
type Orchestrator struct {
	Versions  VersionResolver
	Natives   NativeInstaller
	Libraries ClasspathResolver
	Assets    AssetSynchronizer
	Fetcher   download.Fetcher
	Extractor archive.Extractor
	Scripts   hooks.HookManager // optional pre/post-prepare scripts
	Hooks     Hooks             // phase events
	Notify    notify.Hooks      // engine notifications
}

// Event represents a simple progress notification.
type Event struct {
	Phase string // hooks|resolving|natives|jar|libraries|assets|done|error
	ID    string // version id
	Msg   string
}

// Hooks carries callbacks for progress events.
type Hooks struct {
	OnEvent func(Event)
}

// Phases reported through Hooks.
const (
	PhaseHooks     = "hooks"
	PhaseResolving = "resolving"
	PhaseNatives   = "natives"
	PhaseJar       = "jar"
	PhaseLibraries = "libraries"
	PhaseAssets    = "assets"
	PhaseDone      = "done"
	PhaseError     = "error"
)

// PrepareOptions control Prepare.
type PrepareOptions struct {
	Root     string
	CacheDir string // version descriptor cache; defaults to <Root>/versions
	OS       string
	ForgeJar string // optional loader jar whose profile overlays the version
	Launch   launch.Options

	SkipAssets bool
	// StrictLibraries turns library fetch failures into an error instead of a
	// warning and a shorter classpath.
	StrictLibraries bool
}

// Plan is everything needed to start the game.
type Plan struct {
	Descriptor *version.Descriptor
	Forge      *version.ForgeProfile
	NativesDir string
	ClientJar  string
	Classpath  []string
	MainClass  string
	JVMArgs    []string
	GameArgs   []string
	Assets     assets.Stats
}

// ClasspathString joins the plan's classpath for osTag.
func (p *Plan) ClasspathString(osTag string) string {
	return launch.ClasspathString(p.Classpath, osTag)
}
