package library

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/glorpus-work/mcsync/pkg/archive"
	"github.com/glorpus-work/mcsync/pkg/download"
	"github.com/glorpus-work/mcsync/pkg/download/mocks"
	pkgerrors "github.com/glorpus-work/mcsync/pkg/errors"
	"github.com/glorpus-work/mcsync/pkg/version"
	"github.com/glorpus-work/mcsync/test/testutil"
)

func lib(name, path, url, sha1 string) version.Library {
	return version.Library{
		Name:      name,
		Downloads: version.LibraryDownloads{Artifact: &version.Artifact{Path: path, URL: url, SHA1: sha1}},
	}
}

func newTestResolver(srv *testutil.ObjectServer) *Resolver {
	return NewResolver(download.NewManager(download.Options{}), archive.NewManager(), nil, Options{
		ForgeMaven:  srv.URL + "/forge",
		DefaultRepo: srv.URL + "/libs",
		Concurrency: 2,
	})
}

func TestResolver_Classpath(t *testing.T) {
	srv := testutil.NewObjectServer(t)
	patchy := []byte("patchy jar")
	srv.Put("/libs/com/mojang/patchy/1.1/patchy-1.1.jar", patchy)
	srv.Put("/libs/oshi-project/oshi-core/1.1/oshi-core-1.1.jar", []byte("oshi jar"))

	desc := &version.Descriptor{ID: "1.12.2", Libraries: []version.Library{
		lib("com.mojang:patchy:1.1", "com/mojang/patchy/1.1/patchy-1.1.jar",
			srv.URL+"/libs/com/mojang/patchy/1.1/patchy-1.1.jar", testutil.SHA1Hex(patchy)),
		{Name: "org.lwjgl.lwjgl:lwjgl-platform:2.9.4"},
		lib("oshi-project:oshi-core:1.1", "oshi-project/oshi-core/1.1/oshi-core-1.1.jar",
			srv.URL+"/libs/oshi-project/oshi-core/1.1/oshi-core-1.1.jar", ""),
		lib("com.mojang:patchy:1.1", "com/mojang/patchy/1.1/patchy-1.1.jar",
			srv.URL+"/libs/com/mojang/patchy/1.1/patchy-1.1.jar", testutil.SHA1Hex(patchy)),
	}}
	root := t.TempDir()
	r := newTestResolver(srv)

	paths, err := r.Classpath(context.Background(), root, desc)
	require.NoError(t, err)

	patchyPath := filepath.Join(root, "libraries", "com", "mojang", "patchy", "1.1", "patchy-1.1.jar")
	oshiPath := filepath.Join(root, "libraries", "oshi-project", "oshi-core", "1.1", "oshi-core-1.1.jar")
	assert.Equal(t, []string{patchyPath, oshiPath, patchyPath}, paths, "library order, duplicates kept")
	assert.Equal(t, 1, srv.Hits("/libs/com/mojang/patchy/1.1/patchy-1.1.jar"), "a duplicate is fetched once")
	assert.FileExists(t, oshiPath)

	srv.ResetHits()
	again, err := r.Classpath(context.Background(), root, desc)
	require.NoError(t, err)
	assert.Equal(t, paths, again)
	assert.Zero(t, srv.TotalHits(), "present jars are not fetched again")
}

func TestResolver_Classpath_PartialFailure(t *testing.T) {
	srv := testutil.NewObjectServer(t)
	srv.Put("/libs/a/a/1/a-1.jar", []byte("a"))
	srv.Put("/libs/c/c/1/c-1.jar", []byte("c"))

	desc := &version.Descriptor{ID: "x", Libraries: []version.Library{
		lib("a:a:1", "a/a/1/a-1.jar", srv.URL+"/libs/a/a/1/a-1.jar", ""),
		lib("b:b:1", "b/b/1/b-1.jar", srv.URL+"/libs/b/b/1/b-1.jar", ""),
		lib("c:c:1", "c/c/1/c-1.jar", srv.URL+"/libs/c/c/1/c-1.jar", ""),
	}}
	root := t.TempDir()

	paths, err := newTestResolver(srv).Classpath(context.Background(), root, desc)
	require.Error(t, err)
	assert.True(t, errors.Is(err, pkgerrors.ErrTransport))
	assert.Contains(t, err.Error(), "b-1.jar")
	assert.Equal(t, []string{
		filepath.Join(root, "libraries", "a", "a", "1", "a-1.jar"),
		filepath.Join(root, "libraries", "c", "c", "1", "c-1.jar"),
	}, paths)
}

func TestResolver_Classpath_DigestMismatch(t *testing.T) {
	srv := testutil.NewObjectServer(t)
	srv.Put("/libs/a/a/1/a-1.jar", []byte("tampered"))
	desc := &version.Descriptor{ID: "x", Libraries: []version.Library{
		lib("a:a:1", "a/a/1/a-1.jar", srv.URL+"/libs/a/a/1/a-1.jar", testutil.SHA1Hex([]byte("original"))),
	}}
	root := t.TempDir()

	paths, err := newTestResolver(srv).Classpath(context.Background(), root, desc)
	require.Error(t, err)
	assert.True(t, errors.Is(err, pkgerrors.ErrIntegrity))
	assert.Empty(t, paths)
	assert.NoFileExists(t, filepath.Join(root, "libraries", "a", "a", "1", "a-1.jar"))
}

func TestResolver_Classpath_WithMockFetcher(t *testing.T) {
	ctrl := gomock.NewController(t)
	fetcher := mocks.NewMockFetcher(ctrl)
	root := t.TempDir()
	dir := filepath.Join(root, "libraries", "a", "a", "1")

	fetcher.EXPECT().
		Fetch(gomock.Any(), "http://libs.invalid/a-1.jar", dir, "a-1.jar").
		Return(download.Outcome{Failed: true, URL: "http://libs.invalid/a-1.jar", Dir: dir, Name: "a-1.jar",
			Err: fmt.Errorf("timeout: %w", pkgerrors.ErrTransport)})

	r := NewResolver(fetcher, archive.NewManager(), nil, Options{})
	paths, err := r.Classpath(context.Background(), root, &version.Descriptor{ID: "x", Libraries: []version.Library{
		lib("a:a:1", "a/a/1/a-1.jar", "http://libs.invalid/a-1.jar", ""),
	}})
	assert.Empty(t, paths)
	assert.True(t, errors.Is(err, pkgerrors.ErrTransport))
}

func forgeProfile(srvURL string) string {
	return fmt.Sprintf(`{
		"id": "1.12.2-forge1.12.2-14.23.5.2854",
		"inheritsFrom": "1.12.2",
		"minecraftArguments": "--tweakClass net.minecraftforge.fml.common.launcher.FMLTweaker",
		"libraries": [
			{"name": "net.minecraftforge:forge:1.12.2-14.23.5.2854"},
			{"name": "org.ow2.asm:asm-debug-all:5.2", "url": "%[1]s/maven"},
			{"name": "net.minecraft:launchwrapper:1.12", "serverreq": true},
			{"name": "lzma:lzma:0.0.1"},
			{"name": "com.typesafe.akka:akka-actor_2.11:2.3.3", "url": "http://files.minecraftforge.net/maven/", "clientreq": true},
			{"name": "java3d:vecmath:1.5.2", "clientreq": true}
		]
	}`, srvURL)
}

func TestResolver_ForgeDependencies(t *testing.T) {
	srv := testutil.NewObjectServer(t)
	srv.Put("/maven/org/ow2/asm/asm-debug-all/5.2/asm-debug-all-5.2.jar", []byte("asm"))
	srv.Put("/libs/net/minecraft/launchwrapper/1.12/launchwrapper-1.12.jar", []byte("launchwrapper"))
	srv.Put("/forge/com/typesafe/akka/akka-actor_2.11/2.3.3/akka-actor_2.11-2.3.3.jar", []byte("akka"))

	root := t.TempDir()
	forgeJar := testutil.WriteZip(t, filepath.Join(t.TempDir(), "forge-universal.jar"), map[string]string{
		"version.json":                   forgeProfile(srv.URL),
		"net/minecraftforge/Forge.class": "bytecode",
	})

	// Already present: appended without a transfer.
	vecmath := filepath.Join(root, "libraries", "java3d", "vecmath", "1.5.2", "vecmath-1.5.2.jar")
	require.NoError(t, os.MkdirAll(filepath.Dir(vecmath), 0o755))
	require.NoError(t, os.WriteFile(vecmath, []byte("vecmath"), 0o644))

	desc := &version.Descriptor{ID: "1.12.2"}
	bundle, err := newTestResolver(srv).ForgeDependencies(context.Background(), root, desc, forgeJar)
	require.NoError(t, err)

	require.NotNil(t, bundle.Forge)
	assert.Equal(t, "1.12.2-forge1.12.2-14.23.5.2854", bundle.Forge.ID)
	assert.FileExists(t, filepath.Join(root, "forge", "1.12.2", "version.json"))

	libs := filepath.Join(root, "libraries")
	assert.Equal(t, []string{
		filepath.Join(libs, "org", "ow2", "asm", "asm-debug-all", "5.2", "asm-debug-all-5.2.jar"),
		filepath.Join(libs, "net", "minecraft", "launchwrapper", "1.12", "launchwrapper-1.12.jar"),
		filepath.Join(libs, "com", "typesafe", "akka", "akka-actor_2.11", "2.3.3", "akka-actor_2.11-2.3.3.jar"),
		vecmath,
	}, bundle.Paths)

	for _, p := range bundle.Paths {
		assert.FileExists(t, p)
	}
	assert.NoDirExists(t, filepath.Join(libs, "lzma"), "entries without repository are skipped")
	assert.NoDirExists(t, filepath.Join(libs, "net", "minecraftforge"), "the loader jar itself is skipped")
	assert.Equal(t, 3, srv.TotalHits())
}

func TestResolver_ForgeDependencies_Errors(t *testing.T) {
	srv := testutil.NewObjectServer(t)
	r := newTestResolver(srv)
	desc := &version.Descriptor{ID: "1.12.2"}

	t.Run("missing profile", func(t *testing.T) {
		jar := testutil.WriteZip(t, filepath.Join(t.TempDir(), "plain.jar"), map[string]string{"a.txt": "a"})
		_, err := r.ForgeDependencies(context.Background(), t.TempDir(), desc, jar)
		assert.True(t, errors.Is(err, pkgerrors.ErrNotFound))
	})

	t.Run("malformed profile", func(t *testing.T) {
		jar := testutil.WriteZip(t, filepath.Join(t.TempDir(), "broken.jar"), map[string]string{"version.json": "{"})
		_, err := r.ForgeDependencies(context.Background(), t.TempDir(), desc, jar)
		assert.True(t, errors.Is(err, pkgerrors.ErrManifest))
	})

	t.Run("missing jar", func(t *testing.T) {
		_, err := r.ForgeDependencies(context.Background(), t.TempDir(), desc, filepath.Join(t.TempDir(), "nope.jar"))
		assert.True(t, errors.Is(err, pkgerrors.ErrNotFound))
	})
}

func TestResolver_RepositoryFor(t *testing.T) {
	r := NewResolver(nil, nil, nil, Options{})

	tests := []struct {
		name   string
		lib    version.Library
		want   string
		wantOK bool
	}{
		{name: "own repository", lib: version.Library{URL: "https://maven.example/repo"}, want: "https://maven.example/repo/", wantOK: true},
		{name: "legacy loader repository", lib: version.Library{URL: "http://files.minecraftforge.net/maven/"}, want: DefaultForgeMaven, wantOK: true},
		{name: "client required", lib: version.Library{ClientReq: true}, want: DefaultLibraryRepo, wantOK: true},
		{name: "server required", lib: version.Library{ServerReq: true}, want: DefaultLibraryRepo, wantOK: true},
		{name: "nothing", lib: version.Library{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := r.repositoryFor(tt.lib)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}
