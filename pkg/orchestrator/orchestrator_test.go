package orchestrator

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/glorpus-work/mcsync/pkg/archive"
	"github.com/glorpus-work/mcsync/pkg/assets"
	"github.com/glorpus-work/mcsync/pkg/download"
	pkgerrors "github.com/glorpus-work/mcsync/pkg/errors"
	"github.com/glorpus-work/mcsync/pkg/hooks"
	"github.com/glorpus-work/mcsync/pkg/launch"
	"github.com/glorpus-work/mcsync/pkg/library"
	"github.com/glorpus-work/mcsync/pkg/natives"
	"github.com/glorpus-work/mcsync/pkg/notify"
	ocmocks "github.com/glorpus-work/mcsync/pkg/orchestrator/mocks"
	"github.com/glorpus-work/mcsync/pkg/platform"
	"github.com/glorpus-work/mcsync/pkg/version"
	"github.com/glorpus-work/mcsync/test/testutil"
)

type mocks struct {
	versions  *ocmocks.MockVersionResolver
	natives   *ocmocks.MockNativeInstaller
	libraries *ocmocks.MockClasspathResolver
	assets    *ocmocks.MockAssetSynchronizer
}

func newMocked(t *testing.T) (*Orchestrator, *mocks, *[]Event) {
	t.Helper()
	ctrl := gomock.NewController(t)
	m := &mocks{
		versions:  ocmocks.NewMockVersionResolver(ctrl),
		natives:   ocmocks.NewMockNativeInstaller(ctrl),
		libraries: ocmocks.NewMockClasspathResolver(ctrl),
		assets:    ocmocks.NewMockAssetSynchronizer(ctrl),
	}
	var events []Event
	orch := New(m.versions, m.natives, m.libraries, m.assets, Hooks{OnEvent: func(e Event) {
		events = append(events, e)
	}})
	return orch, m, &events
}

func phases(events []Event) []string {
	out := make([]string, len(events))
	for i, e := range events {
		out[i] = e.Phase
	}
	return out
}

func testDescriptor() *version.Descriptor {
	return &version.Descriptor{
		ID:                 "1.7.10",
		Type:               "release",
		MainClass:          "net.minecraft.client.main.Main",
		Assets:             "1.7.10",
		AssetIndex:         version.AssetIndexRef{ID: "1.7.10"},
		MinecraftArguments: "--username ${auth_player_name} --version ${version_name} --gameDir ${game_directory}",
	}
}

func TestPrepare_RunsStagesInOrder(t *testing.T) {
	orch, m, events := newMocked(t)
	root := t.TempDir()
	desc := testDescriptor()
	nativesDir := filepath.Join(root, "natives", desc.ID)
	jar := filepath.Join(root, "versions", desc.ID, desc.ID+".jar")
	lib := filepath.Join(root, "libraries", "com", "example", "lib", "1.0", "lib-1.0.jar")
	stats := assets.Stats{Passes: 1, Verified: 3, TotalCount: 3}

	gomock.InOrder(
		m.versions.EXPECT().GetVersion(gomock.Any(), "1.7.10", filepath.Join(root, "versions")).Return(desc, nil),
		m.natives.EXPECT().Install(gomock.Any(), root, desc, platform.OSLinux).Return(nativesDir, nil),
		m.versions.EXPECT().InstallJar(gomock.Any(), root, desc).Return(jar, nil),
		m.libraries.EXPECT().Classpath(gomock.Any(), root, desc).Return([]string{lib}, nil),
		m.assets.EXPECT().Sync(gomock.Any(), root, desc).Return(stats, nil),
	)

	plan, err := orch.Prepare(context.Background(), "1.7.10", PrepareOptions{
		Root:   root,
		OS:     platform.OSLinux,
		Launch: launch.Options{Auth: launch.Auth{Name: "Steve"}},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"resolving", "natives", "jar", "libraries", "assets", "done"}, phases(*events))
	assert.Equal(t, desc, plan.Descriptor)
	assert.Equal(t, nativesDir, plan.NativesDir)
	assert.Equal(t, jar, plan.ClientJar)
	assert.Equal(t, []string{lib, jar}, plan.Classpath)
	assert.Equal(t, desc.MainClass, plan.MainClass)
	assert.Equal(t, stats, plan.Assets)
	assert.Nil(t, plan.Forge)
	assert.Equal(t, []string{"-Xss1M", "-Djava.library.path=" + nativesDir}, plan.JVMArgs)
	assert.Equal(t, []string{"--username", "Steve", "--version", "1.7.10", "--gameDir", filepath.Clean(root)}, plan.GameArgs)
	assert.Equal(t, lib+":"+jar, plan.ClasspathString(platform.OSLinux))
}

func TestPrepare_ForgeOverlay(t *testing.T) {
	orch, m, _ := newMocked(t)
	root := t.TempDir()
	desc := testDescriptor()
	jar := filepath.Join(root, "versions", desc.ID, desc.ID+".jar")
	forgeJar := filepath.Join(root, "forge.jar")
	oldLib := filepath.Join(root, "libraries", "com", "google", "guava", "guava", "15.0", "guava-15.0.jar")
	newLib := filepath.Join(root, "libraries", "com", "google", "guava", "guava", "17.0", "guava-17.0.jar")
	profile := &version.ForgeProfile{
		ID:                 "1.7.10-Forge",
		MainClass:          "net.minecraft.launchwrapper.Launch",
		MinecraftArguments: "--username ${auth_player_name} --tweakClass cpw.mods.fml.common.launcher.FMLTweaker",
	}

	m.versions.EXPECT().GetVersion(gomock.Any(), "1.7.10", gomock.Any()).Return(desc, nil)
	m.natives.EXPECT().Install(gomock.Any(), root, desc, gomock.Any()).Return(filepath.Join(root, "natives"), nil)
	m.versions.EXPECT().InstallJar(gomock.Any(), root, desc).Return(jar, nil)
	m.libraries.EXPECT().Classpath(gomock.Any(), root, desc).Return([]string{oldLib}, nil)
	m.libraries.EXPECT().ForgeDependencies(gomock.Any(), root, desc, forgeJar).
		Return(&library.Bundle{Paths: []string{newLib}, Forge: profile}, nil)

	plan, err := orch.Prepare(context.Background(), "1.7.10", PrepareOptions{
		Root:       root,
		OS:         platform.OSWindows,
		ForgeJar:   forgeJar,
		SkipAssets: true,
		Launch:     launch.Options{Auth: launch.Auth{Name: "Alex"}},
	})
	require.NoError(t, err)

	assert.Same(t, profile, plan.Forge)
	assert.Equal(t, profile.MainClass, plan.MainClass)
	assert.Equal(t, []string{newLib, forgeJar, jar}, plan.Classpath)
	assert.Equal(t, []string{"--username", "Alex", "--tweakClass", "cpw.mods.fml.common.launcher.FMLTweaker"}, plan.GameArgs)
	assert.Equal(t, newLib+";"+forgeJar+";"+jar, plan.ClasspathString(platform.OSWindows))
}

func TestPrepare_LibraryFailures(t *testing.T) {
	tests := []struct {
		name   string
		strict bool
	}{
		{name: "lenient", strict: false},
		{name: "strict", strict: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			orch, m, events := newMocked(t)
			root := t.TempDir()
			desc := testDescriptor()
			jar := filepath.Join(root, "client.jar")
			libErr := errors.New("lib-a.jar: unexpected status code: 404")

			m.versions.EXPECT().GetVersion(gomock.Any(), gomock.Any(), gomock.Any()).Return(desc, nil)
			m.natives.EXPECT().Install(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(filepath.Join(root, "natives"), nil)
			m.versions.EXPECT().InstallJar(gomock.Any(), gomock.Any(), gomock.Any()).Return(jar, nil)
			m.libraries.EXPECT().Classpath(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, libErr)
			if !tt.strict {
				m.assets.EXPECT().Sync(gomock.Any(), gomock.Any(), gomock.Any()).Return(assets.Stats{}, nil)
			}

			plan, err := orch.Prepare(context.Background(), desc.ID, PrepareOptions{Root: root, StrictLibraries: tt.strict})
			require.NotNil(t, plan)
			assert.Equal(t, []string{jar}, plan.Classpath)
			if tt.strict {
				require.Error(t, err)
				assert.ErrorContains(t, err, "404")
				assert.Equal(t, PhaseError, (*events)[len(*events)-1].Phase)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, PhaseDone, (*events)[len(*events)-1].Phase)
		})
	}
}

func TestPrepare_StopsAtFirstFatalStage(t *testing.T) {
	boom := errors.New("boom")

	t.Run("version", func(t *testing.T) {
		orch, m, events := newMocked(t)
		m.versions.EXPECT().GetVersion(gomock.Any(), "9.9", gomock.Any()).
			Return(nil, pkgerrors.ErrVersionNotFound)

		plan, err := orch.Prepare(context.Background(), "9.9", PrepareOptions{Root: t.TempDir()})
		require.ErrorIs(t, err, pkgerrors.ErrVersionNotFound)
		assert.Nil(t, plan)
		assert.Equal(t, []string{"resolving", "error"}, phases(*events))
	})

	t.Run("natives", func(t *testing.T) {
		orch, m, events := newMocked(t)
		desc := testDescriptor()
		m.versions.EXPECT().GetVersion(gomock.Any(), gomock.Any(), gomock.Any()).Return(desc, nil)
		m.natives.EXPECT().Install(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return("", boom)

		_, err := orch.Prepare(context.Background(), desc.ID, PrepareOptions{Root: t.TempDir()})
		require.ErrorIs(t, err, boom)
		assert.Equal(t, []string{"resolving", "natives", "error"}, phases(*events))
	})

	t.Run("assets", func(t *testing.T) {
		orch, m, _ := newMocked(t)
		desc := testDescriptor()
		m.versions.EXPECT().GetVersion(gomock.Any(), gomock.Any(), gomock.Any()).Return(desc, nil)
		m.natives.EXPECT().Install(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return("n", nil)
		m.versions.EXPECT().InstallJar(gomock.Any(), gomock.Any(), gomock.Any()).Return("c.jar", nil)
		m.libraries.EXPECT().Classpath(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, nil)
		m.assets.EXPECT().Sync(gomock.Any(), gomock.Any(), gomock.Any()).Return(assets.Stats{Passes: 3}, pkgerrors.ErrRetriesExhausted)

		plan, err := orch.Prepare(context.Background(), desc.ID, PrepareOptions{Root: t.TempDir()})
		require.ErrorIs(t, err, pkgerrors.ErrRetriesExhausted)
		assert.Equal(t, 3, plan.Assets.Passes)
		assert.Empty(t, plan.GameArgs)
	})
}

func TestPrepare_Scripts(t *testing.T) {
	orch, m, events := newMocked(t)
	root := t.TempDir()
	desc := testDescriptor()
	jar := filepath.Join(root, "client.jar")

	scripts := hooks.NewTengoExecutor()
	require.NoError(t, scripts.AddHook(hooks.Hook{Type: hooks.PostPrepare, Content: `
		extraJvmArgs = append(extraJvmArgs, "-Xmx4G")
		extraGameArgs = append(extraGameArgs, "--demo", version, string(len(classpath)))
	`}))
	orch.Scripts = scripts

	m.versions.EXPECT().GetVersion(gomock.Any(), gomock.Any(), gomock.Any()).Return(desc, nil)
	m.natives.EXPECT().Install(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return("natives", nil)
	m.versions.EXPECT().InstallJar(gomock.Any(), gomock.Any(), gomock.Any()).Return(jar, nil)
	m.libraries.EXPECT().Classpath(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, nil)

	plan, err := orch.Prepare(context.Background(), desc.ID, PrepareOptions{Root: root, OS: platform.OSLinux, SkipAssets: true})
	require.NoError(t, err)
	assert.Equal(t, []string{"-Xss1M", "-Djava.library.path=natives", "-Xmx4G"}, plan.JVMArgs)
	assert.Equal(t, []string{"--demo", desc.ID, "1"}, plan.GameArgs[len(plan.GameArgs)-3:])
	assert.Equal(t, []string{"resolving", "natives", "jar", "libraries", "hooks", "done"}, phases(*events))
}

func TestPrepare_PrePrepareScriptAborts(t *testing.T) {
	orch, _, events := newMocked(t)
	scripts := hooks.NewTengoExecutor()
	require.NoError(t, scripts.AddHook(hooks.Hook{Type: hooks.PrePrepare, Content: `err := "no " + version`}))
	orch.Scripts = scripts

	plan, err := orch.Prepare(context.Background(), "latest-snapshot", PrepareOptions{Root: t.TempDir()})
	require.ErrorIs(t, err, hooks.ErrHookScript)
	assert.Nil(t, plan)
	assert.Equal(t, []string{"hooks", "error"}, phases(*events))
}

func TestPrepare_Configuration(t *testing.T) {
	_, err := (&Orchestrator{}).Prepare(context.Background(), "1.0", PrepareOptions{Root: t.TempDir()})
	require.Error(t, err)

	orch, _, _ := newMocked(t)
	_, err = orch.Prepare(context.Background(), "1.0", PrepareOptions{})
	require.ErrorIs(t, err, pkgerrors.ErrInvalidPath)

	orch.Assets = nil
	_, err = orch.Prepare(context.Background(), "1.0", PrepareOptions{Root: t.TempDir()})
	require.Error(t, err)
}

func newExtractor(t *testing.T, events *[]notify.Event) *Orchestrator {
	t.Helper()
	return &Orchestrator{
		Fetcher:   download.NewManager(download.Options{}),
		Extractor: archive.NewManager(),
		Notify: notify.Hooks{OnEvent: func(e notify.Event) {
			if e.Kind == notify.KindPackageExtract {
				*events = append(*events, e)
			}
		}},
	}
}

func TestExtractPackage_Local(t *testing.T) {
	var events []notify.Event
	orch := newExtractor(t, &events)
	root := t.TempDir()
	src := testutil.WriteZip(t, filepath.Join(t.TempDir(), "pack.zip"), map[string]string{
		"mods/a.jar":       "a",
		"config/forge.cfg": "cfg",
		"options.txt":      "lang:en_US",
	})

	require.NoError(t, orch.ExtractPackage(context.Background(), root, src))

	data, err := os.ReadFile(filepath.Join(root, "config", "forge.cfg"))
	require.NoError(t, err)
	assert.Equal(t, "cfg", string(data))
	assert.FileExists(t, filepath.Join(root, "mods", "a.jar"))
	assert.NoFileExists(t, filepath.Join(root, PackageFileName))
	require.Len(t, events, 1)
	assert.True(t, events[0].OK)
}

func TestExtractPackage_Remote(t *testing.T) {
	var events []notify.Event
	orch := newExtractor(t, &events)
	srv := testutil.NewObjectServer(t)
	srv.Put("/packs/client.zip", testutil.ZipBytes(t, map[string]string{"mods/b.jar": "b"}))
	root := t.TempDir()

	require.NoError(t, orch.ExtractPackage(context.Background(), root, srv.URL+"/packs/client.zip"))

	assert.FileExists(t, filepath.Join(root, PackageFileName))
	assert.FileExists(t, filepath.Join(root, "mods", "b.jar"))
	require.Len(t, events, 1)
	assert.True(t, events[0].OK)
}

func TestExtractPackage_Failures(t *testing.T) {
	t.Run("remote unavailable", func(t *testing.T) {
		var events []notify.Event
		orch := newExtractor(t, &events)
		srv := testutil.NewObjectServer(t)

		err := orch.ExtractPackage(context.Background(), t.TempDir(), srv.URL+"/missing.zip")
		require.ErrorIs(t, err, pkgerrors.ErrTransport)
		require.Len(t, events, 1)
		assert.False(t, events[0].OK)
	})

	t.Run("local missing", func(t *testing.T) {
		var events []notify.Event
		orch := newExtractor(t, &events)

		err := orch.ExtractPackage(context.Background(), t.TempDir(), filepath.Join(t.TempDir(), "nope.zip"))
		require.ErrorIs(t, err, pkgerrors.ErrNotFound)
		require.Len(t, events, 1)
		assert.False(t, events[0].OK)
	})

	t.Run("not configured", func(t *testing.T) {
		require.Error(t, (&Orchestrator{}).ExtractPackage(context.Background(), t.TempDir(), "x.zip"))
		orch := &Orchestrator{Extractor: archive.NewManager()}
		require.Error(t, orch.ExtractPackage(context.Background(), t.TempDir(), "https://example.invalid/x.zip"))
	})
}

// TestPrepare_EndToEnd wires the real components against a local object server.
func TestPrepare_EndToEnd(t *testing.T) {
	srv := testutil.NewObjectServer(t)
	root := t.TempDir()

	clientJar := []byte("client jar bytes")
	libJar := []byte("library jar bytes")
	nativeJar := testutil.ZipBytes(t, map[string]string{"liblwjgl.so": "so", "META-INF/MANIFEST.MF": "m"})
	asset := []byte("sound")
	assetHash := srv.PutAsset(asset)

	index, err := json.Marshal(map[string]any{
		"objects": map[string]any{"minecraft/sounds/a.ogg": map[string]any{"hash": assetHash, "size": len(asset)}},
	})
	require.NoError(t, err)

	srv.Put("/v/client.jar", clientJar)
	srv.Put("/lib/com/example/lib/1.0/lib-1.0.jar", libJar)
	srv.Put("/lib/org/lwjgl/lwjgl-platform/2.9.1/lwjgl-platform-2.9.1-natives-linux.jar", nativeJar)
	srv.Put("/indexes/1.7.10.json", index)

	desc := map[string]any{
		"id":                 "1.7.10",
		"type":               "release",
		"mainClass":          "net.minecraft.client.main.Main",
		"assets":             "1.7.10",
		"minecraftArguments": "--username ${auth_player_name} --uuid ${auth_uuid} --assetsDir ${assets_root}",
		"assetIndex":         map[string]any{"id": "1.7.10", "url": srv.URL + "/indexes/1.7.10.json", "sha1": testutil.SHA1Hex(index)},
		"downloads": map[string]any{
			"client": map[string]any{"url": srv.URL + "/v/client.jar", "sha1": testutil.SHA1Hex(clientJar)},
		},
		"libraries": []any{
			map[string]any{
				"name": "com.example:lib:1.0",
				"downloads": map[string]any{"artifact": map[string]any{
					"path": "com/example/lib/1.0/lib-1.0.jar",
					"url":  srv.URL + "/lib/com/example/lib/1.0/lib-1.0.jar",
					"sha1": testutil.SHA1Hex(libJar),
				}},
			},
			map[string]any{
				"name":    "org.lwjgl.lwjgl:lwjgl-platform:2.9.1",
				"natives": map[string]any{"linux": "natives-linux"},
				"extract": map[string]any{"exclude": []string{"META-INF/"}},
				"downloads": map[string]any{"classifiers": map[string]any{"natives-linux": map[string]any{
					"path": "org/lwjgl/lwjgl-platform/2.9.1/lwjgl-platform-2.9.1-natives-linux.jar",
					"url":  srv.URL + "/lib/org/lwjgl/lwjgl-platform/2.9.1/lwjgl-platform-2.9.1-natives-linux.jar",
				}}},
			},
		},
	}
	descData, err := json.Marshal(desc)
	require.NoError(t, err)
	srv.Put("/v/1.7.10.json", descData)
	manifest, err := json.Marshal(map[string]any{
		"latest":   map[string]any{"release": "1.7.10", "snapshot": "1.7.10"},
		"versions": []any{map[string]any{"id": "1.7.10", "type": "release", "url": srv.URL + "/v/1.7.10.json"}},
	})
	require.NoError(t, err)
	srv.Put("/manifest.json", manifest)

	fetcher := download.NewManager(download.Options{})
	extractor := archive.NewManager()
	orch := New(
		version.NewClient(fetcher, version.Options{ManifestURL: srv.URL + "/manifest.json"}),
		natives.NewInstaller(fetcher, extractor, natives.Options{}),
		library.NewResolver(fetcher, extractor, nil, library.Options{}),
		assets.NewSynchronizer(fetcher, nil, assets.Options{BaseURL: srv.URL, Policy: assets.Policy{MaxPasses: 2}}),
		Hooks{},
	)

	opts := PrepareOptions{
		Root:   root,
		OS:     platform.OSLinux,
		Launch: launch.Options{Auth: launch.Auth{Name: "Steve"}},
	}
	plan, err := orch.Prepare(context.Background(), version.LatestRelease, opts)
	require.NoError(t, err)

	libPath := filepath.Join(root, "libraries", "com", "example", "lib", "1.0", "lib-1.0.jar")
	jarPath := filepath.Join(root, "versions", "1.7.10", "1.7.10.jar")
	assert.Equal(t, []string{libPath, jarPath}, plan.Classpath)
	assert.FileExists(t, filepath.Join(root, "versions", "1.7.10", "1.7.10.json"))
	assert.FileExists(t, filepath.Join(plan.NativesDir, "liblwjgl.so"))
	assert.NoDirExists(t, filepath.Join(plan.NativesDir, "META-INF"))
	assert.FileExists(t, filepath.Join(root, "assets", "objects", assetHash[:2], assetHash))
	assert.Equal(t, 1, plan.Assets.Verified)
	assert.Equal(t, []string{
		"--username", "Steve",
		"--uuid", strings.ReplaceAll(launch.OfflineUUID("Steve"), "-", ""),
		"--assetsDir", filepath.Join(root, "assets"),
	}, plan.GameArgs)

	// Everything is in place now: the cached descriptor is used and nothing is
	// fetched again.
	srv.ResetHits()
	_, err = orch.Prepare(context.Background(), "1.7.10", opts)
	require.NoError(t, err)
	assert.Equal(t, 0, srv.TotalHits())
}
