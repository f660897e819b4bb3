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

package cmd // import "github.com/vsts-packaging/upack/pkg/cmd"

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/vsts-packaging/upack/internal/logging"
	"github.com/vsts-packaging/upack/pkg/artifacttool"
	"github.com/vsts-packaging/upack/pkg/artifacttool/installer"
	"github.com/vsts-packaging/upack/pkg/cli"
	"github.com/vsts-packaging/upack/pkg/credentials"
)

var globalUsage = `Download and publish Universal Packages.

upack runs ArtifactTool, downloading the current release for this platform on
first use and keeping it in a local cache keyed by the release ETag.

Common actions for upack:

- upack download:  download a package version into a directory
- upack publish:   publish the content of a directory as a new package version
- upack tool:      show which ArtifactTool will be used, optionally installing it

Environment variables:

| Name                              | Description                                                        |
|-----------------------------------|--------------------------------------------------------------------|
| $VSTS_CLI_PAT                     | personal access token handed to ArtifactTool.                      |
| $VSTS_ARTIFACTTOOL_OVERRIDE_PATH  | run this ArtifactTool binary instead of the cached download.       |
| $VSTS_ARTIFACTTOOL_OVERRIDE_URL   | download ArtifactTool from this archive URL.                       |
| $UPACK_DEBUG                      | indicate whether or not upack is running in Debug mode.            |
| $UPACK_NO_COLOR                   | disable colorized output.                                          |
| $UPACK_TOOL_CACHE                 | set an alternative location for the ArtifactTool cache.            |
| $UPACK_HTTP_TIMEOUT               | timeout for ArtifactTool download requests (default 2m).           |
| $UPACK_CA_FILE                    | verify the ArtifactTool download server with this CA bundle.       |
| $UPACK_INSECURE_SKIP_TLS_VERIFY   | skip certificate checks for the ArtifactTool download.             |

By default ArtifactTool is cached under the system temporary directory, in
<temp>/ArtifactTool/<etag>.
`

var settings = cli.New()

// ToolProvisioner locates, and if needed installs, ArtifactTool.
type ToolProvisioner interface {
	Resolve(ctx context.Context) (string, error)
	Inspect(ctx context.Context) (*installer.Status, error)
}

// Configuration holds the collaborators the commands run with. Fields left
// nil are built from the environment settings when a command runs.
type Configuration struct {
	Tool        ToolProvisioner
	Credentials credentials.Provider
	Runner      artifacttool.InvocationRunner
	Progress    artifacttool.ProgressSink
}

func (c *Configuration) init() error {
	if err := settings.Err(); err != nil {
		return err
	}
	logger := slog.Default()

	if c.Tool == nil {
		p, err := installer.New(settings)
		if err != nil {
			return err
		}
		p.SetLogger(logger.Handler())
		c.Tool = p
	}
	if c.Credentials == nil {
		c.Credentials = credentials.EnvProvider{}
	}
	if c.Runner == nil {
		c.Runner = artifacttool.NewRunner(logger)
	}
	return nil
}

func (c *Configuration) client(progressOut io.Writer) (*artifacttool.Client, error) {
	if err := c.init(); err != nil {
		return nil, err
	}
	progress := c.Progress
	if progress == nil {
		progress = newProgressSink(progressOut)
	}
	client := &artifacttool.Client{
		Resolver:    c.Tool,
		Credentials: c.Credentials,
		Runner:      c.Runner,
		Progress:    progress,
	}
	client.SetLogger(slog.Default().Handler())
	return client, nil
}

// SetupLogging installs the default logger used by all commands.
func SetupLogging(debug bool) {
	logger := logging.NewLogger(os.Stderr, func() bool { return debug })
	slog.SetDefault(logger)
}

// NewRootCmd creates the upack root command.
func NewRootCmd(out io.Writer, args []string, logSetup func(bool)) (*cobra.Command, error) {
	return newRootCmdWithConfig(&Configuration{}, out, args, logSetup)
}

func newRootCmdWithConfig(cfg *Configuration, out io.Writer, args []string, logSetup func(bool)) (*cobra.Command, error) {
	cmd := &cobra.Command{
		Use:          "upack",
		Short:        "Download and publish Universal Packages.",
		Long:         globalUsage,
		SilenceUsage: true,
	}

	flags := cmd.PersistentFlags()
	settings.AddFlags(flags)

	// We can safely ignore any errors that flags.Parse encounters since
	// those errors will be caught later during the call to cmd.Execution.
	// This call is required to gather configuration information prior to
	// execution.
	flags.ParseErrorsWhitelist.UnknownFlags = true
	flags.Parse(args)

	logSetup(settings.Debug)

	cmd.AddCommand(
		newDownloadCmd(cfg, out),
		newPublishCmd(cfg, out),
		newToolCmd(cfg, out),
		newEnvCmd(out),
		newVersionCmd(out),
	)

	return cmd, nil
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

func noMoreArgsCompFunc(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
	return nil, cobra.ShellCompDirectiveNoFileComp
}
