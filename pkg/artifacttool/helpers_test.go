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
	"bytes"
	"log/slog"
	"sync"

	"github.com/vsts-packaging/upack/internal/logging"
)

type progressStep struct {
	percent float64
	label   string
}

type recordingReporter struct {
	mu    sync.Mutex
	label string
	steps []progressStep
	done  int
}

func (r *recordingReporter) Start(label string) ProgressReporter {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.label = label
	return r
}

func (r *recordingReporter) Report(percent float64, label string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.steps = append(r.steps, progressStep{percent, label})
}

func (r *recordingReporter) Done() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.done++
}

func (r *recordingReporter) Steps() []progressStep {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]progressStep(nil), r.steps...)
}

// syncBuffer is a bytes.Buffer safe for the concurrent writes of a logger
// shared by the streaming goroutines.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func debugLogger(out *syncBuffer) *slog.Logger {
	return logging.NewLogger(out, func() bool { return true })
}
