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
	"bytes"
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/asaskevich/govalidator"
	"github.com/gofrs/flock"
	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
	"sigs.k8s.io/yaml"

	"github.com/vsts-packaging/upack/internal/fileutil"
	"github.com/vsts-packaging/upack/internal/logging"
	"github.com/vsts-packaging/upack/internal/version"
	"github.com/vsts-packaging/upack/pkg/cli"
	"github.com/vsts-packaging/upack/pkg/getter"
)

// metadataFile is written next to the extracted release in every cache entry.
const metadataFile = ".artifacttool.yaml"

const defaultLockTimeout = 5 * time.Minute

// lockDir holds the per-entry lock files. Cache keys start with [a-z0-9],
// so it never collides with an entry.
const lockDir = ".locks"

// Provisioner makes sure a usable ArtifactTool binary is on disk and
// reports where it is.
//
// Extracted releases are kept in CacheRoot, one directory per normalized
// ETag of the archive, so a new upstream release is picked up by the next
// Resolve without ever touching older entries.
type Provisioner struct {
	logging.LogHolder

	// OverridePath, when set, is returned by Resolve without any network access.
	OverridePath string
	// SourceURL replaces the platform default archive URL.
	SourceURL string
	// CacheRoot holds the extracted releases.
	CacheRoot string
	Platform  Platform

	Getters       getter.Providers
	GetterOptions []getter.Option
	// LockTimeout bounds the wait for another process extracting the same release.
	LockTimeout time.Duration
}

// Metadata describes a cache entry.
type Metadata struct {
	Source    string    `json:"source"`
	ETag      string    `json:"etag"`
	RuntimeID string    `json:"runtimeId"`
	FetchedAt time.Time `json:"fetchedAt"`
}

// Status is the outcome of Inspect.
type Status struct {
	Source     string     `json:"source,omitempty"`
	ETag       string     `json:"etag,omitempty"`
	CacheDir   string     `json:"cacheDir,omitempty"`
	Binary     string     `json:"binary"`
	Cached     bool       `json:"cached"`
	Overridden bool       `json:"overridden"`
	FetchedAt  *time.Time `json:"fetchedAt,omitempty"`
}

// New creates a Provisioner configured from settings.
func New(settings *cli.EnvSettings) (*Provisioner, error) {
	p := &Provisioner{
		OverridePath:  settings.ToolOverridePath,
		SourceURL:     settings.ToolOverrideURL,
		CacheRoot:     settings.ToolCache,
		Getters:       getter.All(settings),
		GetterOptions: getter.OptionsFromSettings(settings),
	}
	if p.OverridePath != "" {
		return p, nil
	}

	plat, err := CurrentPlatform()
	if err != nil {
		return nil, &ProvisioningError{Op: "resolve", Err: err}
	}
	p.Platform = plat
	return p, nil
}

// Source returns the archive URL ArtifactTool is fetched from.
func (p *Provisioner) Source() string {
	if p.SourceURL != "" {
		return p.SourceURL
	}
	return p.Platform.DefaultURL()
}

// Resolve returns the path of the ArtifactTool executable, downloading and
// extracting the current release first if it is not cached yet.
//
// All failures are reported as *ProvisioningError.
func (p *Provisioner) Resolve(ctx context.Context) (string, error) {
	if p.OverridePath != "" {
		p.Logger().Debug("using ArtifactTool override", "path", p.OverridePath)
		return p.OverridePath, nil
	}

	source := p.Source()
	g, err := p.getter(source)
	if err != nil {
		return "", err
	}

	key, err := p.cacheKey(ctx, g, source)
	if err != nil {
		return "", err
	}

	entry := filepath.Join(p.CacheRoot, key)
	binary := p.Platform.BinaryPath(entry)
	if isDir(entry) {
		p.Logger().Debug("ArtifactTool found in cache", "etag", key, "path", binary)
		return binary, nil
	}

	if err := p.install(ctx, g, source, key, entry); err != nil {
		return "", err
	}
	return binary, nil
}

// Inspect reports where ArtifactTool would be resolved from without
// downloading it.
func (p *Provisioner) Inspect(ctx context.Context) (*Status, error) {
	if p.OverridePath != "" {
		_, statErr := os.Stat(p.OverridePath)
		return &Status{
			Binary:     p.OverridePath,
			Cached:     statErr == nil,
			Overridden: true,
		}, nil
	}

	source := p.Source()
	g, err := p.getter(source)
	if err != nil {
		return nil, err
	}
	key, err := p.cacheKey(ctx, g, source)
	if err != nil {
		return nil, err
	}

	entry := filepath.Join(p.CacheRoot, key)
	st := &Status{
		Source:   source,
		ETag:     key,
		CacheDir: entry,
		Binary:   p.Platform.BinaryPath(entry),
		Cached:   isDir(entry),
	}
	if st.Cached {
		if md, err := ReadMetadata(entry); err == nil {
			st.FetchedAt = &md.FetchedAt
		} else {
			p.Logger().Debug("cache entry has no readable metadata", "dir", entry, "error", err)
		}
	}
	return st, nil
}

func (p *Provisioner) getter(source string) (getter.Getter, error) {
	if !govalidator.IsRequestURL(source) {
		return nil, &ProvisioningError{Op: "resolve", URL: source, Err: errors.New("not a valid URL")}
	}
	u, err := url.Parse(source)
	if err != nil {
		return nil, &ProvisioningError{Op: "resolve", URL: source, Err: err}
	}
	opts := append([]getter.Option{getter.WithUserAgent(version.GetUserAgent())}, p.GetterOptions...)
	g, err := p.Getters.ByScheme(u.Scheme, opts...)
	if err != nil {
		return nil, &ProvisioningError{Op: "resolve", URL: source, Err: err}
	}
	return g, nil
}

func (p *Provisioner) cacheKey(ctx context.Context, g getter.Getter, source string) (string, error) {
	header, err := g.Head(ctx, source)
	if err != nil {
		return "", &ProvisioningError{Op: "check", URL: source, Err: err}
	}
	etag := header.Get("ETag")
	if etag == "" {
		return "", &ProvisioningError{Op: "check", URL: source, Err: errors.New("response has no ETag header")}
	}
	key, err := NormalizeETag(etag)
	if err != nil {
		return "", &ProvisioningError{Op: "check", URL: source, Err: err}
	}
	return key, nil
}

func (p *Provisioner) install(ctx context.Context, g getter.Getter, source, key, entry string) (err error) {
	locks := filepath.Join(p.CacheRoot, lockDir)
	if err := os.MkdirAll(locks, 0755); err != nil {
		return &ProvisioningError{Op: "extract", URL: source, Err: err}
	}

	timeout := p.LockTimeout
	if timeout <= 0 {
		timeout = defaultLockTimeout
	}
	fileLock := flock.New(filepath.Join(locks, key+".lock"))
	lockCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	locked, err := fileLock.TryLockContext(lockCtx, 250*time.Millisecond)
	if err == nil && locked {
		defer fileLock.Unlock()
	}
	if err != nil {
		return &ProvisioningError{Op: "extract", URL: source, Err: errors.Wrap(err, "waiting for cache lock")}
	}

	// Another process may have published the entry while we waited.
	if isDir(entry) {
		p.Logger().Debug("ArtifactTool installed concurrently", "etag", key)
		return nil
	}

	p.Logger().Debug("downloading ArtifactTool", "url", source, "etag", key)
	data, err := g.Get(ctx, source)
	if err != nil {
		return &ProvisioningError{Op: "download", URL: source, Err: err}
	}

	staging, err := os.MkdirTemp(p.CacheRoot, "."+key+"-*")
	if err != nil {
		return &ProvisioningError{Op: "extract", URL: source, Err: err}
	}
	defer func() {
		if rmErr := os.RemoveAll(staging); rmErr != nil {
			if pe, ok := err.(*ProvisioningError); ok {
				pe.Err = multierror.Append(pe.Err, rmErr)
				return
			}
			p.Logger().Warn("failed to remove staging directory", "dir", staging, "error", rmErr)
		}
	}()

	if err := p.populate(data, source, key, staging); err != nil {
		return &ProvisioningError{Op: "extract", URL: source, Err: err}
	}

	published, err := fileutil.PublishDir(staging, entry)
	if err != nil {
		return &ProvisioningError{Op: "extract", URL: source, Err: err}
	}
	if !published {
		p.Logger().Debug("cache entry already present, discarding extraction", "dir", entry)
		return nil
	}
	p.Logger().Debug("ArtifactTool installed", "dir", entry)
	return nil
}

// populate extracts the archive into dir and records its metadata.
func (p *Provisioner) populate(data *bytes.Buffer, source, key, dir string) error {
	if err := NewExtractor(source).Extract(data, dir); err != nil {
		return err
	}

	binary := p.Platform.BinaryPath(dir)
	fi, err := os.Stat(binary)
	if err != nil || fi.IsDir() {
		return fmt.Errorf("archive does not contain %s", filepath.Join(p.Platform.releaseName(), p.Platform.BinaryName()))
	}
	if p.Platform.OS != "windows" {
		if err := os.Chmod(binary, 0755); err != nil {
			return err
		}
	}

	md, err := yaml.Marshal(&Metadata{
		Source:    source,
		ETag:      key,
		RuntimeID: p.Platform.RuntimeID,
		FetchedAt: time.Now().UTC().Truncate(time.Second),
	})
	if err != nil {
		return err
	}
	return fileutil.AtomicWriteFile(filepath.Join(dir, metadataFile), bytes.NewReader(md), 0644)
}

// ReadMetadata loads the metadata recorded in a cache entry.
func ReadMetadata(entry string) (*Metadata, error) {
	b, err := os.ReadFile(filepath.Join(entry, metadataFile))
	if err != nil {
		return nil, err
	}
	md := &Metadata{}
	if err := yaml.Unmarshal(b, md); err != nil {
		return nil, errors.Wrapf(err, "cannot parse %s", metadataFile)
	}
	return md, nil
}

func isDir(path string) bool {
	fi, err := os.Stat(path)
	return err == nil && fi.IsDir()
}
