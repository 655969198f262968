// Package orchestrator prepares a game version for launch by running every
// synchronization stage in order.
package orchestrator

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/hashicorp/go-multierror"

	"github.com/glorpus-work/mcsync/internal/logger"
	pkgerrors "github.com/glorpus-work/mcsync/pkg/errors"
	"github.com/glorpus-work/mcsync/pkg/hooks"
	"github.com/glorpus-work/mcsync/pkg/launch"
	"github.com/glorpus-work/mcsync/pkg/notify"
	"github.com/glorpus-work/mcsync/pkg/platform"
)

// PackageFileName is where a remote client package is stored before extraction.
const PackageFileName = "clientPackage.zip"

func emit(h Hooks, e Event) {
	if h.OnEvent != nil {
		h.OnEvent(e)
	}
}

// Prepare resolves versionID and materializes everything it needs under
// opts.Root: natives, client jar, libraries and assets. The returned plan carries
// the classpath and argument lists of the launch.
func (o *Orchestrator) Prepare(ctx context.Context, versionID string, opts PrepareOptions) (*Plan, error) {
	if o.Versions == nil || o.Natives == nil || o.Libraries == nil {
		return nil, fmt.Errorf("orchestrator is not fully configured")
	}
	if !opts.SkipAssets && o.Assets == nil {
		return nil, fmt.Errorf("asset synchronizer is not configured")
	}
	if opts.Root == "" {
		return nil, fmt.Errorf("root directory is required: %w", pkgerrors.ErrInvalidPath)
	}
	cacheDir := opts.CacheDir
	if cacheDir == "" {
		cacheDir = filepath.Join(opts.Root, "versions")
	}
	osTag := platform.NormalizeOS(opts.OS)

	plan, err := o.prepare(ctx, versionID, cacheDir, osTag, opts)
	if err != nil {
		emit(o.Hooks, Event{Phase: PhaseError, ID: versionID, Msg: err.Error()})
		return plan, err
	}
	emit(o.Hooks, Event{Phase: PhaseDone, ID: plan.Descriptor.ID})
	return plan, nil
}

func (o *Orchestrator) prepare(ctx context.Context, versionID, cacheDir, osTag string, opts PrepareOptions) (*Plan, error) {
	if err := o.runScript(hooks.PrePrepare, hooks.HookContext{Version: versionID, Root: opts.Root, OS: osTag}, nil); err != nil {
		return nil, err
	}

	emit(o.Hooks, Event{Phase: PhaseResolving, ID: versionID})
	desc, err := o.Versions.GetVersion(ctx, versionID, cacheDir)
	if err != nil {
		return nil, err
	}
	plan := &Plan{Descriptor: desc, MainClass: desc.MainClass}

	emit(o.Hooks, Event{Phase: PhaseNatives, ID: desc.ID})
	if plan.NativesDir, err = o.Natives.Install(ctx, opts.Root, desc, osTag); err != nil {
		return plan, err
	}

	emit(o.Hooks, Event{Phase: PhaseJar, ID: desc.ID})
	if plan.ClientJar, err = o.Versions.InstallJar(ctx, opts.Root, desc); err != nil {
		return plan, err
	}

	emit(o.Hooks, Event{Phase: PhaseLibraries, ID: desc.ID})
	var libErr error
	paths, err := o.Libraries.Classpath(ctx, opts.Root, desc)
	if err != nil {
		libErr = multierror.Append(libErr, err)
	}
	if opts.ForgeJar != "" {
		bundle, err := o.Libraries.ForgeDependencies(ctx, opts.Root, desc, opts.ForgeJar)
		if err != nil {
			libErr = multierror.Append(libErr, err)
		}
		if bundle != nil {
			plan.Forge = bundle.Forge
			paths = append(paths, bundle.Paths...)
			if bundle.Forge != nil && bundle.Forge.MainClass != "" {
				plan.MainClass = bundle.Forge.MainClass
			}
		}
	}
	if opts.ForgeJar != "" {
		paths = append(paths, opts.ForgeJar)
	}
	paths = append(paths, plan.ClientJar)
	plan.Classpath = launch.DedupeClasspath(paths)
	if libErr != nil {
		if opts.StrictLibraries {
			return plan, libErr
		}
		logger.Warn("Some libraries are unavailable", logger.Fields{"version": desc.ID, "error": libErr})
	}

	if !opts.SkipAssets {
		emit(o.Hooks, Event{Phase: PhaseAssets, ID: desc.ID})
		if plan.Assets, err = o.Assets.Sync(ctx, opts.Root, desc); err != nil {
			return plan, err
		}
	}

	launchOpts := opts.Launch
	launchOpts.Root = opts.Root
	plan.GameArgs = launch.GameArguments(desc, plan.Forge, launchOpts)
	plan.JVMArgs = append(launch.JVMArguments(osTag), "-Djava.library.path="+plan.NativesDir)

	hookCtx := hooks.HookContext{
		Version: desc.ID,
		Root:    opts.Root,
		OS:      osTag,
		Vars: map[string]interface{}{
			"nativesDir": plan.NativesDir,
			"clientJar":  plan.ClientJar,
			"mainClass":  plan.MainClass,
			"classpath":  toInterfaces(plan.Classpath),
		},
	}
	if err := o.runScript(hooks.PostPrepare, hookCtx, plan); err != nil {
		return plan, err
	}

	logger.Success("Version prepared", logger.Fields{
		"version":   desc.ID,
		"classpath": len(plan.Classpath),
		"forge":     plan.Forge != nil,
	})
	return plan, nil
}

// runScript executes the hook of hookType when scripts are configured and
// applies its additions to plan.
func (o *Orchestrator) runScript(hookType hooks.HookType, hookCtx hooks.HookContext, plan *Plan) error {
	if o.Scripts == nil || !o.Scripts.HasHook(hookType) {
		return nil
	}
	emit(o.Hooks, Event{Phase: PhaseHooks, ID: hookCtx.Version, Msg: string(hookType)})
	res, err := o.Scripts.Execute(hookType, hookCtx)
	if err != nil {
		return err
	}
	if plan != nil {
		plan.JVMArgs = append(plan.JVMArgs, res.JVMArgs...)
		plan.GameArgs = append(plan.GameArgs, res.GameArgs...)
	}
	return nil
}

func toInterfaces(in []string) []interface{} {
	out := make([]interface{}, len(in))
	for i, s := range in {
		out[i] = s
	}
	return out
}

// ExtractPackage unpacks a client package into root. A source starting with
// http:// or https:// is downloaded to <root>/clientPackage.zip first.
func (o *Orchestrator) ExtractPackage(ctx context.Context, root, source string) error {
	if o.Extractor == nil {
		return fmt.Errorf("archive extractor is not configured")
	}
	archivePath := source
	if isRemote(source) {
		if o.Fetcher == nil {
			return fmt.Errorf("fetcher is not configured")
		}
		out := o.Fetcher.Fetch(ctx, source, root, PackageFileName)
		if out.Failed {
			o.Notify.Emit(notify.Event{Kind: notify.KindPackageExtract, OK: false})
			return fmt.Errorf("client package: %w", out.Err)
		}
		archivePath = out.Path()
	}

	logger.Info("Extracting client package", logger.Fields{"source": source, "root": root})
	if err := o.Extractor.ExtractAll(ctx, archivePath, root); err != nil {
		o.Notify.Emit(notify.Event{Kind: notify.KindPackageExtract, OK: false})
		return err
	}
	o.Notify.Emit(notify.Event{Kind: notify.KindPackageExtract, OK: true})
	return nil
}

func isRemote(source string) bool {
	s := strings.ToLower(source)
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

// New constructs an Orchestrator from existing components.
func New(v VersionResolver, n NativeInstaller, l ClasspathResolver, a AssetSynchronizer, hooks Hooks) *Orchestrator {
	return &Orchestrator{
		Versions:  v,
		Natives:   n,
		Libraries: l,
		Assets:    a,
		Hooks:     hooks,
	}
}
