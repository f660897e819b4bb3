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
	"io"
	"time"

	"github.com/gosuri/uitable"
	"github.com/spf13/cobra"

	coloroutput "github.com/vsts-packaging/upack/internal/cli/output"
	"github.com/vsts-packaging/upack/pkg/artifacttool/installer"
	"github.com/vsts-packaging/upack/pkg/cli/output"
	"github.com/vsts-packaging/upack/pkg/cmd/require"
)

const toolDesc = `
Show which ArtifactTool binary upack runs.

The release currently published for this platform is looked up, without
downloading it, and compared against the local cache. Use --install to
download and extract it when it is not cached yet.
`

type toolOptions struct {
	install      bool
	outputFormat output.Format
}

func newToolCmd(cfg *Configuration, out io.Writer) *cobra.Command {
	o := &toolOptions{}

	cmd := &cobra.Command{
		Use:               "tool",
		Short:             "show the ArtifactTool in use",
		Long:              toolDesc,
		Args:              require.NoArgs,
		ValidArgsFunction: noMoreArgsCompFunc,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return o.run(cmd, cfg, out)
		},
	}

	cmd.Flags().BoolVar(&o.install, "install", false, "download ArtifactTool if it is not cached")
	bindOutputFlag(cmd, &o.outputFormat)

	return cmd
}

func (o *toolOptions) run(cmd *cobra.Command, cfg *Configuration, out io.Writer) error {
	if err := cfg.init(); err != nil {
		return err
	}
	ctx := commandContext(cmd)

	if o.install {
		if _, err := cfg.Tool.Resolve(ctx); err != nil {
			return err
		}
	}
	st, err := cfg.Tool.Inspect(ctx)
	if err != nil {
		return err
	}
	return o.outputFormat.Write(out, &toolWriter{status: st, noColor: settings.NoColor})
}

type toolWriter struct {
	status  *installer.Status
	noColor bool
}

func (w *toolWriter) WriteTable(out io.Writer) error {
	table := uitable.New()
	table.MaxColWidth = 120
	header := func(s string) string { return coloroutput.ColorizeHeader(s, w.noColor) }

	st := w.status
	if st.Overridden {
		table.AddRow(header("BINARY:"), st.Binary)
		table.AddRow(header("STATE:"), coloroutput.ColorizeCacheState(st.Cached, w.noColor))
		table.AddRow(header("SOURCE:"), "override")
		return output.EncodeTable(out, table)
	}

	table.AddRow(header("SOURCE:"), st.Source)
	table.AddRow(header("ETAG:"), st.ETag)
	table.AddRow(header("STATE:"), coloroutput.ColorizeCacheState(st.Cached, w.noColor))
	table.AddRow(header("BINARY:"), st.Binary)
	if st.FetchedAt != nil {
		table.AddRow(header("FETCHED:"), st.FetchedAt.Format(time.RFC3339))
	}
	return output.EncodeTable(out, table)
}

func (w *toolWriter) WriteJSON(out io.Writer) error {
	return output.EncodeJSON(out, w.status)
}

func (w *toolWriter) WriteYAML(out io.Writer) error {
	return output.EncodeYAML(out, w.status)
}
