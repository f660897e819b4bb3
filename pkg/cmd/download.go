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
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/vsts-packaging/upack/pkg/artifacttool"
	"github.com/vsts-packaging/upack/pkg/cmd/require"
)

const downloadDesc = `
Download a Universal Package version from a feed into a local directory.

The personal access token is read from $VSTS_CLI_PAT and handed to ArtifactTool
through the environment; it never appears on a command line.

    $ upack download --service https://dev.azure.com/contoso --feed tools \
        --name build-tools --version 1.4.0 --path ./tools
`

func newDownloadCmd(cfg *Configuration, out io.Writer) *cobra.Command {
	o := &artifacttool.DownloadOptions{}

	cmd := &cobra.Command{
		Use:               "download",
		Short:             "download a package version",
		Long:              downloadDesc,
		Args:              require.NoArgs,
		ValidArgsFunction: noMoreArgsCompFunc,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := o.Validate(); err != nil {
				return err
			}
			client, err := cfg.client(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			if err := client.Download(commandContext(cmd), *o); err != nil {
				return err
			}
			fmt.Fprintf(out, "Downloaded %s %s to %s\n", o.Name, o.Version, o.Path)
			return nil
		},
	}

	addPackageFlags(cmd.Flags(), packageFlags{
		service: &o.Service,
		feed:    &o.Feed,
		name:    &o.Name,
		version: &o.Version,
		path:    &o.Path,
	}, "directory to download the package content into")

	return cmd
}
