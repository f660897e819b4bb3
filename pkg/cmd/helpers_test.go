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

package cmd

import (
	"bytes"
	"context"
	"os"
	"strings"
	"testing"

	shellwords "github.com/mattn/go-shellwords"
	"github.com/spf13/cobra"

	"github.com/vsts-packaging/upack/internal/test"
	"github.com/vsts-packaging/upack/pkg/artifacttool"
	"github.com/vsts-packaging/upack/pkg/artifacttool/installer"
	"github.com/vsts-packaging/upack/pkg/cli"
	"github.com/vsts-packaging/upack/pkg/credentials"
)

func runTestCmd(t *testing.T, tests []cmdTestCase) {
	t.Helper()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defer resetEnv()()

			t.Logf("running cmd: %s", tt.cmd)
			_, out, err := executeActionCommandC(newFakeConfig(), tt.cmd)
			if tt.wantError && err == nil {
				t.Errorf("expected error, got success with the following output:\n%s", out)
			}
			if !tt.wantError && err != nil {
				t.Errorf("expected no error, got: '%v'", err)
			}
			if tt.golden != "" {
				test.AssertGoldenString(t, out, tt.golden)
			}
		})
	}
}

func executeActionCommandC(cfg *Configuration, cmd string) (*cobra.Command, string, error) {
	args, err := shellwords.Parse(cmd)
	if err != nil {
		return nil, "", err
	}

	buf := new(bytes.Buffer)

	root, err := newRootCmdWithConfig(cfg, buf, args, SetupLogging)
	if err != nil {
		return nil, "", err
	}

	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs(args)

	c, err := root.ExecuteC()

	return c, buf.String(), err
}

// cmdTestCase describes a test case run against fake collaborators.
type cmdTestCase struct {
	name      string
	cmd       string
	golden    string
	wantError bool
}

func executeActionCommand(cmd string) (*cobra.Command, string, error) {
	return executeActionCommandC(newFakeConfig(), cmd)
}

func resetEnv() func() {
	origEnv := os.Environ()
	return func() {
		os.Clearenv()
		for _, pair := range origEnv {
			kv := strings.SplitN(pair, "=", 2)
			os.Setenv(kv[0], kv[1])
		}
		settings = cli.New()
	}
}

type fakeTool struct {
	status   *installer.Status
	err      error
	resolved int
}

func (f *fakeTool) Resolve(context.Context) (string, error) {
	f.resolved++
	if f.err != nil {
		return "", f.err
	}
	f.status.Cached = true
	return f.status.Binary, nil
}

func (f *fakeTool) Inspect(context.Context) (*installer.Status, error) {
	if f.err != nil {
		return nil, f.err
	}
	st := *f.status
	return &st, nil
}

type fakeRunner struct {
	runs   [][]string
	binary string
	err    error
}

func (f *fakeRunner) Run(_ context.Context, binary string, inv artifacttool.Invocation, progress artifacttool.ProgressReporter) error {
	f.binary = binary
	f.runs = append(f.runs, inv.Argv())
	progress.Report(100, "done")
	return f.err
}

func newFakeConfig() *Configuration {
	return &Configuration{
		Tool: &fakeTool{status: &installer.Status{
			Source:   "https://example.com/artifacttool-linux-x64-Release.zip",
			ETag:     "8da1b2c3",
			CacheDir: "/cache/ArtifactTool/8da1b2c3",
			Binary:   "/cache/ArtifactTool/8da1b2c3/artifacttool-linux-x64-Release/artifacttool",
		}},
		Credentials: credentials.ProviderFunc(func(string) (*credentials.Credentials, error) {
			return &credentials.Credentials{Password: "s3cret"}, nil
		}),
		Runner:   &fakeRunner{},
		Progress: artifacttool.NopProgress{},
	}
}
