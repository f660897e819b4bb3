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
	"slices"
	"strings"

	"github.com/vsts-packaging/upack/pkg/cli/sanitize"
)

// PATVar is the environment variable ArtifactTool reads the token from.
const PATVar = "VSTS_ARTIFACTTOOL_PATVAR"

// Invocation is a single ArtifactTool command line together with the
// secret handed to it through the environment. It is immutable.
type Invocation struct {
	operation string
	args      []string
	secretVar string
	secret    string
}

// NewInvocation describes running "<binary> operation args..." with
// secret exported as PATVar.
func NewInvocation(operation string, args []string, secret string) Invocation {
	return Invocation{
		operation: operation,
		args:      slices.Clone(args),
		secretVar: PATVar,
		secret:    secret,
	}
}

// Operation is the first argument passed to ArtifactTool.
func (i Invocation) Operation() string { return i.operation }

// Args returns a copy of the arguments following the operation.
func (i Invocation) Args() []string { return slices.Clone(i.args) }

// SecretVar is the environment variable carrying the secret.
func (i Invocation) SecretVar() string { return i.secretVar }

// Argv is the argument vector passed to the binary.
func (i Invocation) Argv() []string {
	return append([]string{i.operation}, i.args...)
}

// String renders the command line for logging. The secret never appears.
func (i Invocation) String() string {
	return sanitize.HideSecrets(strings.Join(i.Argv(), " "), i.secret)
}
