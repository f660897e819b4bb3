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
	"bufio"
	"context"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/vsts-packaging/upack/internal/logging"
)

// Runner supervises one ArtifactTool process per call to Run.
type Runner struct {
	logging.LogHolder

	// Launcher supplies the environment and working directory of each child.
	// Its logger is replaced per run by one carrying the invocation id.
	Launcher *Launcher
	// StderrTail bounds the unstructured output kept for a ProcessError.
	StderrTail int
}

// NewRunner returns a Runner logging through logger.
func NewRunner(logger *slog.Logger) *Runner {
	r := &Runner{Launcher: &Launcher{}}
	if logger != nil {
		r.SetLogger(logger.Handler())
	}
	return r
}

// Run starts binary, interprets its error output until it closes and then
// checks the exit code.
//
// A Critical or Error record ends the run with *ToolError as soon as it is
// read; the child is killed and reaped before Run returns. A non-zero exit
// code without such a record yields *ProcessError.
func (r *Runner) Run(ctx context.Context, binary string, inv Invocation, progress ProgressReporter) error {
	logger := r.Logger().With("invocation", uuid.NewString())

	launcher := &Launcher{}
	if r.Launcher != nil {
		launcher.Environ = r.Launcher.Environ
		launcher.Dir = r.Launcher.Dir
	}
	launcher.SetLogger(logger.Handler())

	// runCtx ends the child when ctx is done or a fatal record is read.
	runCtx, kill := context.WithCancel(ctx)
	defer kill()

	proc, err := launcher.Start(runCtx, binary, inv)
	if err != nil {
		return err
	}
	logger.Debug("ArtifactTool started", "pid", proc.Pid())

	// Descendants of the child may still hold the pipes after it is killed.
	stop := context.AfterFunc(runCtx, func() { proc.Close() })
	defer stop()

	interp := NewInterpreter(logger, progress, r.StderrTail)
	var fatal *ToolError
	var g errgroup.Group
	g.Go(func() error {
		return drain(runCtx, logger, proc.Stdout)
	})
	g.Go(func() error {
		err := interp.Consume(runCtx, proc.Stderr)
		if errors.As(err, &fatal) {
			kill()
		}
		return err
	})

	// Both streams must be exhausted before the exit status is read.
	streamErr := g.Wait()
	exitCode, waitErr := proc.Wait()

	switch {
	case fatal != nil:
		logger.Debug("ArtifactTool reported a fatal error, process terminated", "level", fatal.Level.String())
		return fatal
	case ctx.Err() != nil:
		return ctx.Err()
	case streamErr != nil:
		return streamErr
	case waitErr != nil:
		return errors.Wrap(waitErr, "waiting for ArtifactTool")
	}

	logger.Debug("ArtifactTool exited", "code", exitCode)
	return CheckCompletion(exitCode, interp.Stderr())
}

// drain logs standard output at debug level so the child never blocks on
// a full pipe.
func drain(ctx context.Context, logger *slog.Logger, r io.Reader) error {
	br := bufio.NewReader(r)
	for {
		line, err := br.ReadString('\n')
		if line != "" {
			logger.DebugContext(ctx, "ArtifactTool stdout", "line", strings.TrimRight(line, "\r\n"))
		}
		if err == io.EOF || errors.Is(err, os.ErrClosed) {
			return nil
		}
		if err != nil {
			return errors.Wrap(err, "reading ArtifactTool stdout")
		}
	}
}
