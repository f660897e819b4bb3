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
	"os"
	"strings"
	"unicode/utf8"

	"golang.org/x/term"

	"github.com/vsts-packaging/upack/pkg/artifacttool"
)

var spinnerFrames = []string{"-", "\\", "|", "/"}

// progressSink draws a spinner on a terminal and prints one line per change
// everywhere else.
type progressSink struct {
	out   io.Writer
	tty   bool
	width int
}

func newProgressSink(out io.Writer) artifacttool.ProgressSink {
	s := &progressSink{out: out}
	if f, ok := out.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		s.tty = true
		if w, _, err := term.GetSize(int(f.Fd())); err == nil {
			s.width = w
		}
	}
	return s
}

func (s *progressSink) Start(string) artifacttool.ProgressReporter {
	return &spinner{out: s.out, tty: s.tty, maxWidth: s.width}
}

type spinner struct {
	out      io.Writer
	tty      bool
	maxWidth int

	frame int
	drawn int
	last  string
}

func (s *spinner) Report(percent float64, label string) {
	line := fmt.Sprintf("%s %3.0f%%", label, percent)
	if !s.tty {
		if line != s.last {
			fmt.Fprintln(s.out, line)
			s.last = line
		}
		return
	}

	line = spinnerFrames[s.frame%len(spinnerFrames)] + " " + line
	s.frame++
	if s.maxWidth > 1 {
		line = truncate(line, s.maxWidth-1)
	}
	width := utf8.RuneCountInString(line)
	pad := ""
	if s.drawn > width {
		pad = strings.Repeat(" ", s.drawn-width)
	}
	fmt.Fprintf(s.out, "\r%s%s", line, pad)
	s.drawn = width
}

// truncate cuts s to at most n runes.
func truncate(s string, n int) string {
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}

func (s *spinner) Done() {
	if s.tty && s.drawn > 0 {
		fmt.Fprintf(s.out, "\r%s\r", strings.Repeat(" ", s.drawn))
		s.drawn = 0
	}
}
