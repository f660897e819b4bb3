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
	"io"
	"maps"
	"os"
	"os/exec"
	"slices"
	"strings"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"

	"github.com/vsts-packaging/upack/internal/logging"
)

// waitDelay bounds how long Wait keeps the pipes open once the child has
// been killed or has exited.
const waitDelay = 5 * time.Second

// Launcher starts ArtifactTool processes.
type Launcher struct {
	logging.LogHolder

	// Environ returns the parent environment. Defaults to os.Environ.
	Environ func() []string
	// Dir is the working directory of the child. Empty means the current directory.
	Dir string
}

// Process is a running ArtifactTool.
type Process struct {
	cmd *exec.Cmd

	// Stdout and Stderr are read by the caller. Both must be drained
	// before Wait is called.
	Stdout io.ReadCloser
	Stderr io.ReadCloser
}

// Start runs binary with the invocation's arguments. No shell is involved.
// The child is killed when ctx is done.
func (l *Launcher) Start(ctx context.Context, binary string, inv Invocation) (*Process, error) {
	environ := l.Environ
	if environ == nil {
		environ = os.Environ
	}
	env := ParseEnv(environ())
	env[inv.SecretVar()] = inv.secret

	cmd := exec.CommandContext(ctx, binary, inv.Argv()...)
	cmd.Env = FormatEnv(env)
	cmd.Dir = l.Dir
	cmd.WaitDelay = waitDelay

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, err
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return nil, err
	}

	l.Logger().DebugContext(ctx, "running ArtifactTool command", "command", binary+" "+inv.String())

	if err := cmd.Start(); err != nil {
		return nil, errors.Wrapf(err, "failed to start %s", binary)
	}
	return &Process{cmd: cmd, Stdout: stdout, Stderr: stderr}, nil
}

// Close closes both pipes. Pending reads return os.ErrClosed, even when a
// descendant of the child still holds the other end.
func (p *Process) Close() error {
	return multierror.Append(p.Stdout.Close(), p.Stderr.Close()).ErrorOrNil()
}

// Pid of the child process.
func (p *Process) Pid() int {
	return p.cmd.Process.Pid
}

// Wait waits for the child to exit and returns its exit code. An error is
// returned only if the exit status could not be obtained.
func (p *Process) Wait() (int, error) {
	err := p.cmd.Wait()
	if err == nil {
		return 0, nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode(), nil
	}
	return -1, err
}

// ParseEnv converts a KEY=VALUE list into a map. Later entries win.
func ParseEnv(env []string) map[string]string {
	m := make(map[string]string, len(env))
	for _, kv := range env {
		if kv == "" {
			continue
		}
		k, v, _ := strings.Cut(kv, "=")
		m[k] = v
	}
	return m
}

// FormatEnv converts a map into a sorted KEY=VALUE list.
func FormatEnv(env map[string]string) []string {
	out := make([]string, 0, len(env))
	for _, k := range slices.Sorted(maps.Keys(env)) {
		out = append(out, k+"="+env[k])
	}
	return out
}
