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
Package credentials supplies the secret handed to ArtifactTool.

Acquiring credentials is left to a Provider. The environment backed provider
covers unattended use such as build agents.
*/
package credentials // import "github.com/vsts-packaging/upack/pkg/credentials"

import (
	"os"
	"strings"

	"github.com/pkg/errors"
)

// PATEnvVar holds a personal access token used for every service.
const PATEnvVar = "VSTS_CLI_PAT"

// ErrNoCredentials indicates that no credential is known for a service.
var ErrNoCredentials = errors.New("no credentials available")

// Credentials for a service. Password carries the personal access token.
type Credentials struct {
	Username string
	Password string
}

// Provider looks up the credentials for a service URL.
type Provider interface {
	Credentials(service string) (*Credentials, error)
}

// ProviderFunc adapts a function to a Provider.
type ProviderFunc func(service string) (*Credentials, error)

// Credentials implements Provider.
func (f ProviderFunc) Credentials(service string) (*Credentials, error) {
	return f(service)
}

// EnvProvider reads the token from an environment variable.
type EnvProvider struct {
	// Var is the variable name. PATEnvVar is used when empty.
	Var string
	// Lookup defaults to os.LookupEnv.
	Lookup func(string) (string, bool)
}

// Credentials implements Provider.
func (p EnvProvider) Credentials(service string) (*Credentials, error) {
	name := p.Var
	if name == "" {
		name = PATEnvVar
	}
	lookup := p.Lookup
	if lookup == nil {
		lookup = os.LookupEnv
	}

	token, ok := lookup(name)
	if !ok || strings.TrimSpace(token) == "" {
		return nil, errors.Wrapf(ErrNoCredentials, "set %s to a personal access token for %s", name, service)
	}
	return &Credentials{Password: strings.TrimSpace(token)}, nil
}
