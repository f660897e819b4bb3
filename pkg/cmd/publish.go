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

const publishDesc = `
Publish the content of a local directory as a new Universal Package version.

Universal Package versions are immutable; publishing a version that already
exists in the feed fails.

    $ upack publish --service https://dev.azure.com/contoso --feed tools \
        --name build-tools --version 1.5.0 --path ./dist --description "nightly"
`

func newPublishCmd(cfg *Configuration, out io.Writer) *cobra.Command {
	o := &artifacttool.PublishOptions{}

	cmd := &cobra.Command{
		Use:               "publish",
		Short:             "publish a package version",
		Long:              publishDesc,
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
			if err := client.Publish(commandContext(cmd), *o); err != nil {
				return err
			}
			fmt.Fprintf(out, "Published %s %s\n", o.Name, o.Version)
			return nil
		},
	}

	f := cmd.Flags()
	addPackageFlags(f, packageFlags{
		service: &o.Service,
		feed:    &o.Feed,
		name:    &o.Name,
		version: &o.Version,
		path:    &o.Path,
	}, "directory whose content is published")
	f.StringVar(&o.Description, "description", "", "description of the package version")

	return cmd
}
