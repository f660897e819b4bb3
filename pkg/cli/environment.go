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

/*
Package cli describes the operating environment for the upack CLI.

Settings come from the environment first and can then be overridden by
command line flags bound with AddFlags.
*/
package cli

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/pkg/errors"
	"github.com/spf13/pflag"

	"github.com/vsts-packaging/upack/pkg/toolpath"
)

const (
	// ToolOverridePathEnvVar points at an ArtifactTool binary to use as is.
	ToolOverridePathEnvVar = "VSTS_ARTIFACTTOOL_OVERRIDE_PATH"
	// ToolOverrideURLEnvVar replaces the archive URL ArtifactTool is fetched from.
	ToolOverrideURLEnvVar = "VSTS_ARTIFACTTOOL_OVERRIDE_URL"

	defaultHTTPTimeout = 120 * time.Second
)

// EnvSettings describes all of the environment settings.
type EnvSettings struct {
	// Debug indicates whether or not upack is running in Debug mode.
	Debug bool `env:"UPACK_DEBUG"`
	// NoColor disables colorized output.
	NoColor bool `env:"UPACK_NO_COLOR"`
	// ToolOverridePath skips provisioning and runs this binary.
	ToolOverridePath string `env:"VSTS_ARTIFACTTOOL_OVERRIDE_PATH"`
	// ToolOverrideURL replaces the platform default archive URL.
	ToolOverrideURL string `env:"VSTS_ARTIFACTTOOL_OVERRIDE_URL"`
	// ToolCache is the directory holding one extracted ArtifactTool per ETag.
	ToolCache string `env:"UPACK_TOOL_CACHE"`
	// HTTPTimeout bounds each request made to the binary source.
	HTTPTimeout time.Duration `env:"UPACK_HTTP_TIMEOUT"`
	// CAFile verifies the binary source with this CA bundle.
	CAFile string `env:"UPACK_CA_FILE"`
	// InsecureSkipTLSVerify disables certificate checks against the binary source.
	InsecureSkipTLSVerify bool `env:"UPACK_INSECURE_SKIP_TLS_VERIFY"`

	loadErr error
}

// New loads settings from the process environment. A malformed value leaves
// the field at its default and is reported by Err.
func New() *EnvSettings {
	s := &EnvSettings{}
	if err := env.Parse(s); err != nil {
		s.loadErr = errors.Wrap(err, "invalid environment configuration")
	}
	if s.ToolCache == "" {
		s.ToolCache = toolpath.CachePath()
	}
	if s.HTTPTimeout <= 0 {
		s.HTTPTimeout = defaultHTTPTimeout
	}
	return s
}

// Err returns the error encountered while reading the environment, if any.
func (s *EnvSettings) Err() error {
	return s.loadErr
}

// AddFlags binds flags to the given flagset.
func (s *EnvSettings) AddFlags(fs *pflag.FlagSet) {
	fs.BoolVar(&s.Debug, "debug", s.Debug, "enable verbose output")
	fs.BoolVar(&s.NoColor, "no-color", s.NoColor, "disable colorized output")
	fs.StringVar(&s.ToolOverridePath, "tool-path", s.ToolOverridePath, "path to an ArtifactTool binary to use instead of the cached download")
	fs.StringVar(&s.ToolOverrideURL, "tool-url", s.ToolOverrideURL, "URL of the ArtifactTool archive to download")
	fs.StringVar(&s.ToolCache, "tool-cache", s.ToolCache, "directory where downloaded ArtifactTool versions are kept")
	fs.DurationVar(&s.HTTPTimeout, "http-timeout", s.HTTPTimeout, "timeout for requests made while downloading ArtifactTool")
	fs.StringVar(&s.CAFile, "ca-file", s.CAFile, "verify certificates of the ArtifactTool download server using this CA bundle")
	fs.BoolVar(&s.InsecureSkipTLSVerify, "insecure-skip-tls-verify", s.InsecureSkipTLSVerify, "skip tls certificate checks for the ArtifactTool download")
}

// EnvVars returns the settings in their environment form, as shown by
// 'upack env'.
func (s *EnvSettings) EnvVars() map[string]string {
	return map[string]string{
		"UPACK_DEBUG":                    fmt.Sprint(s.Debug),
		"UPACK_NO_COLOR":                 fmt.Sprint(s.NoColor),
		"UPACK_TOOL_CACHE":               s.ToolCache,
		"UPACK_HTTP_TIMEOUT":             s.HTTPTimeout.String(),
		"UPACK_CA_FILE":                  s.CAFile,
		"UPACK_INSECURE_SKIP_TLS_VERIFY": fmt.Sprint(s.InsecureSkipTLSVerify),
		ToolOverridePathEnvVar:           s.ToolOverridePath,
		ToolOverrideURLEnvVar:            s.ToolOverrideURL,
	}
}
