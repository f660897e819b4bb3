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
	"encoding/json"
	"fmt"
	"strconv"
)

// Event names reported by ArtifactTool that carry progress.
const (
	EventProcessingFiles = "ProcessingFiles"
	EventUploading       = "Uploading"
)

// ProgressEvent is a progress update derived from a log record.
type ProgressEvent struct {
	Done    string
	Total   string
	Percent float64
	Label   string
}

type progressKind struct {
	doneField  string
	totalField string
	format     string
}

var progressKinds = map[string]progressKind{
	EventProcessingFiles: {"ProcessedFiles", "TotalFiles", "Pre-upload processing: %s/%s files"},
	EventUploading:       {"UploadedBytes", "TotalBytes", "Uploading: %s/%s bytes"},
}

// ProgressFromRecord derives a progress update from a record. Records with
// another event name, no event, or missing counters yield false.
func ProgressFromRecord(r Record) (ProgressEvent, bool) {
	name, ok := r.EventName()
	if !ok {
		return ProgressEvent{}, false
	}
	kind, ok := progressKinds[name]
	if !ok {
		return ProgressEvent{}, false
	}

	done, doneText, ok := counter(r.Fields[kind.doneField])
	if !ok {
		return ProgressEvent{}, false
	}
	total, totalText, ok := counter(r.Fields[kind.totalField])
	if !ok {
		return ProgressEvent{}, false
	}

	return ProgressEvent{
		Done:    doneText,
		Total:   totalText,
		Percent: Percent(done, total),
		Label:   fmt.Sprintf(kind.format, doneText, totalText),
	}, true
}

// Percent computes 100 * done / total. A zero total is reported as 0%.
func Percent(done, total float64) float64 {
	if total == 0 {
		return 0
	}
	return 100 * done / total
}

func counter(v any) (float64, string, bool) {
	var text string
	switch t := v.(type) {
	case json.Number:
		text = t.String()
	case string:
		text = t
	default:
		return 0, "", false
	}
	f, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return 0, "", false
	}
	return f, text, true
}

// ProgressReporter receives progress for a running operation.
type ProgressReporter interface {
	// Report sets the completion percentage and the current label.
	Report(percent float64, label string)
	// Done finishes the report.
	Done()
}

// ProgressSink opens a ProgressReporter per operation.
type ProgressSink interface {
	Start(label string) ProgressReporter
}

// NopProgress discards all progress.
type NopProgress struct{}

// Start implements ProgressSink.
func (NopProgress) Start(string) ProgressReporter { return NopProgress{} }

// Report implements ProgressReporter.
func (NopProgress) Report(float64, string) {}

// Done implements ProgressReporter.
func (NopProgress) Done() {}
