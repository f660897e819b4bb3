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

package artifacttool

import (
	"context"

	"github.com/Masterminds/semver/v3"
	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"

	"github.com/vsts-packaging/upack/internal/logging"
	"github.com/vsts-packaging/upack/pkg/credentials"
)

// Progress labels shown while an operation runs.
const (
	DownloadLabel = "Downloading..."
	PublishLabel  = "Publishing..."
)

// BinaryResolver locates the ArtifactTool executable.
type BinaryResolver interface {
	Resolve(ctx context.Context) (string, error)
}

// InvocationRunner runs one ArtifactTool invocation to completion.
type InvocationRunner interface {
	Run(ctx context.Context, binary string, inv Invocation, progress ProgressReporter) error
}

// Client downloads and publishes Universal Packages through ArtifactTool.
type Client struct {
	logging.LogHolder

	Resolver    BinaryResolver
	Credentials credentials.Provider
	// Runner defaults to a Runner sharing the client logger.
	Runner InvocationRunner
	// Progress defaults to NopProgress.
	Progress ProgressSink
}

// DownloadOptions identify the package version to download and where to put it.
type DownloadOptions struct {
	Service string
	Feed    string
	Name    string
	Version string
	Path    string
}

// PublishOptions identify the package version to publish and its content.
type PublishOptions struct {
	Service     string
	Feed        string
	Name        string
	Version     string
	Description string
	Path        string
}

// Validate reports every missing or malformed option.
func (o DownloadOptions) Validate() error {
	return validate(o.Service, o.Feed, o.Name, o.Version, o.Path)
}

// Validate reports every missing or malformed option.
func (o PublishOptions) Validate() error {
	return validate(o.Service, o.Feed, o.Name, o.Version, o.Path)
}

func validate(service, feed, name, version, path string) error {
	var result *multierror.Error
	for _, f := range []struct{ name, value string }{
		{"service", service},
		{"feed", feed},
		{"package name", name},
		{"package version", version},
		{"path", path},
	} {
		if f.value == "" {
			result = multierror.Append(result, errors.Errorf("%s is required", f.name))
		}
	}
	if version != "" {
		if _, err := semver.StrictNewVersion(version); err != nil {
			result = multierror.Append(result, errors.Wrapf(err, "package version %q is not a valid semantic version", version))
		}
	}
	return result.ErrorOrNil()
}

func (o DownloadOptions) args() []string {
	return []string{
		"download",
		"--service", o.Service,
		"--patvar", PATVar,
		"--feed", o.Feed,
		"--package-name", o.Name,
		"--package-version", o.Version,
		"--path", o.Path,
	}
}

func (o PublishOptions) args() []string {
	args := []string{
		"publish",
		"--service", o.Service,
		"--patvar", PATVar,
		"--feed", o.Feed,
		"--package-name", o.Name,
		"--package-version", o.Version,
		"--path", o.Path,
	}
	if o.Description != "" {
		args = append(args, "--description", o.Description)
	}
	return args
}

// Download fetches a package version into opts.Path.
func (c *Client) Download(ctx context.Context, opts DownloadOptions) error {
	if err := opts.Validate(); err != nil {
		return err
	}
	return c.run(ctx, opts.Service, DownloadLabel, opts.args())
}

// Publish uploads the content of opts.Path as a new package version.
func (c *Client) Publish(ctx context.Context, opts PublishOptions) error {
	if err := opts.Validate(); err != nil {
		return err
	}
	return c.run(ctx, opts.Service, PublishLabel, opts.args())
}

func (c *Client) run(ctx context.Context, service, label string, args []string) error {
	binary, err := c.Resolver.Resolve(ctx)
	if err != nil {
		return err
	}
	c.Logger().Debug("using ArtifactTool", "path", binary)

	creds, err := c.Credentials.Credentials(service)
	if err != nil {
		return err
	}
	inv := NewInvocation("upack", args, creds.Password)

	runner := c.Runner
	if runner == nil {
		runner = NewRunner(c.Logger())
	}
	sink := c.Progress
	if sink == nil {
		sink = NopProgress{}
	}

	reporter := sink.Start(label)
	defer reporter.Done()
	reporter.Report(0, label)

	return runner.Run(ctx, binary, inv, reporter)
}
