/*
Copyright The Helm Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package installer

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vsts-packaging/upack/pkg/cli"
	"github.com/vsts-packaging/upack/pkg/getter"
)

var linuxX64 = Platform{OS: "linux", RuntimeID: "linux-x64"}

type toolServer struct {
	*httptest.Server

	mu      sync.Mutex
	etag    string
	archive []byte
	delay   time.Duration

	heads atomic.Int32
	gets  atomic.Int32
}

func newToolServer(t *testing.T, etag string, archive []byte) *toolServer {
	t.Helper()
	ts := &toolServer{etag: etag, archive: archive}
	ts.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ts.mu.Lock()
		etag, archive, delay := ts.etag, ts.archive, ts.delay
		ts.mu.Unlock()

		if etag != "" {
			w.Header().Set("ETag", etag)
		}
		switch r.Method {
		case http.MethodHead:
			ts.heads.Add(1)
		case http.MethodGet:
			ts.gets.Add(1)
			time.Sleep(delay)
			w.Write(archive)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	}))
	t.Cleanup(ts.Close)
	return ts
}

func (ts *toolServer) setETag(etag string) {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	ts.etag = etag
}

func releaseArchive(t *testing.T) []byte {
	return zipArchive(t,
		archiveEntry{name: "artifacttool-linux-x64-Release/artifacttool", body: "#!/bin/sh\nexit 0\n", mode: 0644},
		archiveEntry{name: "artifacttool-linux-x64-Release/ArtifactTool.dll", body: "dll", mode: 0644},
	).Bytes()
}

func newTestProvisioner(t *testing.T, source string) *Provisioner {
	t.Helper()
	return &Provisioner{
		SourceURL: source,
		CacheRoot: filepath.Join(t.TempDir(), "ArtifactTool"),
		Platform:  linuxX64,
		Getters:   getter.All(nil),
	}
}

func requireProvisioningError(t *testing.T, err error, op string) *ProvisioningError {
	t.Helper()
	var pe *ProvisioningError
	require.True(t, errors.As(err, &pe), "expected a ProvisioningError, got %T: %v", err, err)
	assert.Equal(t, op, pe.Op)
	return pe
}

func TestResolveDownloadsOnceAndReusesCache(t *testing.T) {
	srv := newToolServer(t, `"0x8DA1B2C3"`, releaseArchive(t))
	p := newTestProvisioner(t, srv.URL+"/artifacttool-linux-x64-Release.zip")

	binary, err := p.Resolve(context.Background())
	require.NoError(t, err)

	want := filepath.Join(p.CacheRoot, "8da1b2c3", "artifacttool-linux-x64-Release", "artifacttool")
	assert.Equal(t, want, binary)
	assert.FileExists(t, binary)
	if runtime.GOOS != "windows" {
		fi, err := os.Stat(binary)
		require.NoError(t, err)
		assert.NotZero(t, fi.Mode().Perm()&0100, "binary should be executable")
	}
	assert.EqualValues(t, 1, srv.heads.Load())
	assert.EqualValues(t, 1, srv.gets.Load())

	md, err := ReadMetadata(filepath.Join(p.CacheRoot, "8da1b2c3"))
	require.NoError(t, err)
	assert.Equal(t, "8da1b2c3", md.ETag)
	assert.Equal(t, "linux-x64", md.RuntimeID)
	assert.Equal(t, p.SourceURL, md.Source)

	again, err := p.Resolve(context.Background())
	require.NoError(t, err)
	assert.Equal(t, binary, again)
	assert.EqualValues(t, 2, srv.heads.Load())
	assert.EqualValues(t, 1, srv.gets.Load(), "cached release must not be downloaded again")
}

func TestResolveNewETagCreatesNewEntry(t *testing.T) {
	srv := newToolServer(t, `"v1"`, releaseArchive(t))
	p := newTestProvisioner(t, srv.URL+"/tool.zip")

	first, err := p.Resolve(context.Background())
	require.NoError(t, err)

	srv.setETag(`"v2"`)
	second, err := p.Resolve(context.Background())
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
	assert.FileExists(t, first, "previous release is left untouched")
	assert.FileExists(t, second)
	assert.EqualValues(t, 2, srv.gets.Load())
}

func TestResolveOverridePathSkipsNetwork(t *testing.T) {
	srv := newToolServer(t, `"v1"`, releaseArchive(t))
	p := newTestProvisioner(t, srv.URL+"/tool.zip")
	p.OverridePath = "/opt/tools/artifacttool"

	binary, err := p.Resolve(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "/opt/tools/artifacttool", binary)
	assert.Zero(t, srv.heads.Load())
	assert.Zero(t, srv.gets.Load())
}

func TestResolveMissingETag(t *testing.T) {
	srv := newToolServer(t, "", releaseArchive(t))
	p := newTestProvisioner(t, srv.URL+"/tool.zip")

	_, err := p.Resolve(context.Background())
	pe := requireProvisioningError(t, err, "check")
	assert.Equal(t, p.SourceURL, pe.URL)
	assert.Contains(t, err.Error(), "ETag")
	assert.Zero(t, srv.gets.Load())
}

func TestResolveHeadFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()
	p := newTestProvisioner(t, srv.URL+"/tool.zip")

	_, err := p.Resolve(context.Background())
	requireProvisioningError(t, err, "check")
}

func TestResolveInvalidURL(t *testing.T) {
	p := newTestProvisioner(t, "not a url")

	_, err := p.Resolve(context.Background())
	requireProvisioningError(t, err, "resolve")
}

func TestResolveArchiveWithoutBinary(t *testing.T) {
	archive := zipArchive(t, archiveEntry{name: "README.md", body: "hello", mode: 0644}).Bytes()
	srv := newToolServer(t, `"abc"`, archive)
	p := newTestProvisioner(t, srv.URL+"/tool.zip")

	_, err := p.Resolve(context.Background())
	requireProvisioningError(t, err, "extract")

	entries, err := os.ReadDir(p.CacheRoot)
	require.NoError(t, err)
	for _, e := range entries {
		assert.Equal(t, lockDir, e.Name(), "only the lock directory may remain")
	}
	assert.FileExists(t, filepath.Join(p.CacheRoot, lockDir, "abc.lock"))
}

func TestResolveKeyNamedLikeLockFile(t *testing.T) {
	srv := newToolServer(t, `"abc"`, releaseArchive(t))
	p := newTestProvisioner(t, srv.URL+"/tool.zip")

	first, err := p.Resolve(context.Background())
	require.NoError(t, err)

	srv.setETag(`"abc.lock"`)
	second, err := p.Resolve(context.Background())
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(p.CacheRoot, "abc.lock"), filepath.Dir(filepath.Dir(second)))
	assert.FileExists(t, first)
	assert.FileExists(t, second)
	assert.EqualValues(t, 2, srv.gets.Load())
}

func TestResolveConcurrentCallersShareOneDownload(t *testing.T) {
	srv := newToolServer(t, `"0xFEED"`, releaseArchive(t))
	srv.mu.Lock()
	srv.delay = 100 * time.Millisecond
	srv.mu.Unlock()
	p := newTestProvisioner(t, srv.URL+"/tool.zip")

	const callers = 4
	var wg sync.WaitGroup
	paths := make([]string, callers)
	errs := make([]error, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			// Separate provisioners behave like separate processes sharing a cache.
			q := newTestProvisioner(t, p.SourceURL)
			q.CacheRoot = p.CacheRoot
			paths[i], errs[i] = q.Resolve(context.Background())
		}(i)
	}
	wg.Wait()

	for i := 0; i < callers; i++ {
		require.NoError(t, errs[i])
		assert.Equal(t, paths[0], paths[i])
	}
	assert.FileExists(t, paths[0])
	assert.EqualValues(t, 1, srv.gets.Load())
}

func TestInspect(t *testing.T) {
	srv := newToolServer(t, `"0xAB"`, releaseArchive(t))
	p := newTestProvisioner(t, srv.URL+"/tool.zip")

	st, err := p.Inspect(context.Background())
	require.NoError(t, err)
	assert.False(t, st.Cached)
	assert.Equal(t, "ab", st.ETag)
	assert.Nil(t, st.FetchedAt)
	assert.Zero(t, srv.gets.Load())

	_, err = p.Resolve(context.Background())
	require.NoError(t, err)

	st, err = p.Inspect(context.Background())
	require.NoError(t, err)
	assert.True(t, st.Cached)
	assert.False(t, st.Overridden)
	assert.Equal(t, filepath.Join(p.CacheRoot, "ab"), st.CacheDir)
	require.NotNil(t, st.FetchedAt)
	assert.False(t, st.FetchedAt.IsZero())
}

func TestInspectOverride(t *testing.T) {
	bin := filepath.Join(t.TempDir(), "artifacttool")
	require.NoError(t, os.WriteFile(bin, []byte("x"), 0755))
	p := &Provisioner{OverridePath: bin}

	st, err := p.Inspect(context.Background())
	require.NoError(t, err)
	assert.True(t, st.Overridden)
	assert.True(t, st.Cached)
	assert.Equal(t, bin, st.Binary)
}

func TestNewFromSettings(t *testing.T) {
	settings := &cli.EnvSettings{
		ToolOverridePath: "/usr/local/bin/artifacttool",
		ToolOverrideURL:  "https://mirror.example.com/tool.zip",
		ToolCache:        "/var/cache/upack",
		HTTPTimeout:      time.Minute,
	}

	p, err := New(settings)
	require.NoError(t, err)
	assert.Equal(t, settings.ToolOverridePath, p.OverridePath)
	assert.Equal(t, settings.ToolCache, p.CacheRoot)
	assert.Equal(t, "https://mirror.example.com/tool.zip", p.Source())
	assert.NotEmpty(t, p.Getters)
}
