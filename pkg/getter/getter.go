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

package getter

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"slices"
	"time"

	"github.com/vsts-packaging/upack/pkg/cli"
)

// getterOptions are generic parameters to be provided to the getter during instantiation.
type getterOptions struct {
	caFile                string
	insecureSkipVerifyTLS bool
	userAgent             string
	timeout               time.Duration
	transport             *http.Transport
}

// Option allows specifying various settings configurable by the user for overriding the defaults
// used when performing requests with the Getter.
type Option func(*getterOptions)

// WithUserAgent sets the request's User-Agent header to use the provided agent name.
func WithUserAgent(userAgent string) Option {
	return func(opts *getterOptions) {
		opts.userAgent = userAgent
	}
}

// WithInsecureSkipVerifyTLS determines if a TLS Certificate will be checked
func WithInsecureSkipVerifyTLS(insecureSkipVerifyTLS bool) Option {
	return func(opts *getterOptions) {
		opts.insecureSkipVerifyTLS = insecureSkipVerifyTLS
	}
}

// WithCAFile verifies the server with the certificates in caFile.
func WithCAFile(caFile string) Option {
	return func(opts *getterOptions) {
		opts.caFile = caFile
	}
}

// WithTimeout sets the timeout for requests
func WithTimeout(timeout time.Duration) Option {
	return func(opts *getterOptions) {
		opts.timeout = timeout
	}
}

// WithTransport sets the http.Transport to allow overwriting the HTTPGetter default.
func WithTransport(transport *http.Transport) Option {
	return func(opts *getterOptions) {
		opts.transport = transport
	}
}

// Getter talks to the remote ArtifactTool binary source.
type Getter interface {
	// Head issues a metadata-only request and returns the response headers.
	Head(ctx context.Context, url string, options ...Option) (http.Header, error)
	// Get file content by url string
	Get(ctx context.Context, url string, options ...Option) (*bytes.Buffer, error)
}

// Constructor is the function for every getter which creates a specific instance
// according to the configuration
type Constructor func(options ...Option) (Getter, error)

// Provider represents any getter and the schemes that it supports.
type Provider struct {
	Schemes []string
	New     Constructor
}

// Provides returns true if the given scheme is supported by this Provider.
func (p Provider) Provides(scheme string) bool {
	return slices.Contains(p.Schemes, scheme)
}

// Providers is a collection of Provider objects.
type Providers []Provider

// ByScheme returns a Getter that handles the given scheme.
//
// If no provider handles this scheme, this will return an error.
func (p Providers) ByScheme(scheme string, options ...Option) (Getter, error) {
	for _, pp := range p {
		if pp.Provides(scheme) {
			return pp.New(options...)
		}
	}
	return nil, fmt.Errorf("scheme %q not supported", scheme)
}

var httpProvider = Provider{
	Schemes: []string{"http", "https"},
	New:     NewHTTPGetter,
}

// All finds all of the registered getters as a list of Provider instances.
func All(_ *cli.EnvSettings) Providers {
	return Providers{httpProvider}
}

// OptionsFromSettings translates the environment settings that concern the
// binary source into getter options.
func OptionsFromSettings(settings *cli.EnvSettings) []Option {
	return []Option{
		WithTimeout(settings.HTTPTimeout),
		WithCAFile(settings.CAFile),
		WithInsecureSkipVerifyTLS(settings.InsecureSkipTLSVerify),
	}
}
