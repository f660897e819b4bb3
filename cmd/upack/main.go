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

package main // import "github.com/vsts-packaging/upack/cmd/upack"

import (
	"context"
	"log/slog"
	"os"
	"os/signal"

	"github.com/pkg/errors"

	"github.com/vsts-packaging/upack/pkg/artifacttool"
	upackcmd "github.com/vsts-packaging/upack/pkg/cmd"
)

func main() {
	cmd, err := upackcmd.NewRootCmd(os.Stdout, os.Args[1:], upackcmd.SetupLogging)
	if err != nil {
		slog.Warn("command failed", slog.Any("error", err))
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err = cmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		var perr *artifacttool.ProcessError
		if errors.As(err, &perr) && perr.ExitCode > 0 {
			os.Exit(perr.ExitCode)
		}
		os.Exit(1)
	}
}
