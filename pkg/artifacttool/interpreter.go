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

	"github.com/pkg/errors"
)

// DefaultStderrTail is how many unstructured stderr lines are kept for a
// ProcessError.
const DefaultStderrTail = 20

// Verdict is the result of interpreting one line.
type Verdict struct {
	// Fatal is set when the line reported a Critical or Error record.
	Fatal *ToolError
}

// Continue reports whether processing goes on with the next line.
func (v Verdict) Continue() bool {
	return v.Fatal == nil
}

// Interpreter turns ArtifactTool error output into log records and
// progress updates.
//
// An Interpreter is not safe for concurrent use.
type Interpreter struct {
	logger   *slog.Logger
	progress ProgressReporter
	tail     *lineTail
}

// NewInterpreter creates an Interpreter logging to logger and reporting to
// progress. tailLines bounds the unstructured output retained for Stderr;
// values below one use DefaultStderrTail.
func NewInterpreter(logger *slog.Logger, progress ProgressReporter, tailLines int) *Interpreter {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if progress == nil {
		progress = NopProgress{}
	}
	if tailLines < 1 {
		tailLines = DefaultStderrTail
	}
	return &Interpreter{
		logger:   logger,
		progress: progress,
		tail:     &lineTail{max: tailLines},
	}
}

// Line interprets a single line of output.
func (in *Interpreter) Line(ctx context.Context, line string) Verdict {
	line = strings.TrimSpace(strings.ToValidUTF8(line, "\uFFFD"))
	rec := ParseRecord(line)

	if !rec.Structured() {
		in.logger.DebugContext(ctx, "unstructured ArtifactTool output", "line", line)
		in.tail.add(line)
		return Verdict{}
	}

	var verdict Verdict
	if msg, ok := rec.Message(); ok {
		sev := rec.Severity()
		if sev.Fatal() {
			verdict.Fatal = &ToolError{Message: msg, Level: sev}
		}
		in.logger.Log(ctx, sev.Level(), msg)
	} else {
		in.logger.DebugContext(ctx, "ArtifactTool record without message", "line", line)
	}

	if verdict.Continue() {
		if ev, ok := ProgressFromRecord(rec); ok {
			in.progress.Report(ev.Percent, ev.Label)
		}
	}
	return verdict
}

// Consume interprets r line by line until it is exhausted, closed, or a
// fatal record is seen. A fatal record is returned as *ToolError.
func (in *Interpreter) Consume(ctx context.Context, r io.Reader) error {
	br := bufio.NewReader(r)
	for {
		line, err := br.ReadString('\n')
		if line != "" {
			if v := in.Line(ctx, line); !v.Continue() {
				return v.Fatal
			}
		}
		if err == io.EOF || errors.Is(err, os.ErrClosed) {
			return nil
		}
		if err != nil {
			return errors.Wrap(err, "reading ArtifactTool output")
		}
	}
}

// Stderr returns the retained unstructured output, oldest line first.
func (in *Interpreter) Stderr() string {
	return in.tail.String()
}

// lineTail keeps the last max non-empty lines.
type lineTail struct {
	max   int
	lines []string
}

func (t *lineTail) add(line string) {
	if line == "" {
		return
	}
	if len(t.lines) == t.max {
		copy(t.lines, t.lines[1:])
		t.lines = t.lines[:t.max-1]
	}
	t.lines = append(t.lines, line)
}

func (t *lineTail) String() string {
	return strings.Join(t.lines, "\n")
}
