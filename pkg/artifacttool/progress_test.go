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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProgressFromRecord(t *testing.T) {
	tests := []struct {
		name    string
		line    string
		percent float64
		label   string
	}{
		{
			name:    "uploading",
			line:    `{"EventId":{"Name":"Uploading"},"UploadedBytes":50,"TotalBytes":200}`,
			percent: 25,
			label:   "Uploading: 50/200 bytes",
		},
		{
			name:    "processing files",
			line:    `{"@m":"Processing","EventId":{"Name":"ProcessingFiles"},"ProcessedFiles":3,"TotalFiles":4}`,
			percent: 75,
			label:   "Pre-upload processing: 3/4 files",
		},
		{
			name:    "zero total",
			line:    `{"EventId":{"Name":"ProcessingFiles"},"ProcessedFiles":0,"TotalFiles":0}`,
			percent: 0,
			label:   "Pre-upload processing: 0/0 files",
		},
		{
			name:    "large byte counts keep their digits",
			line:    `{"EventId":{"Name":"Uploading"},"UploadedBytes":9007199254740993,"TotalBytes":18014398509481986}`,
			percent: 50,
			label:   "Uploading: 9007199254740993/18014398509481986 bytes",
		},
		{
			name:    "numeric strings",
			line:    `{"EventId":{"Name":"Uploading"},"UploadedBytes":"1","TotalBytes":"4"}`,
			percent: 25,
			label:   "Uploading: 1/4 bytes",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev, ok := ProgressFromRecord(ParseRecord(tt.line))
			require.True(t, ok)
			assert.InDelta(t, tt.percent, ev.Percent, 1e-9)
			assert.Equal(t, tt.label, ev.Label)
		})
	}
}

func TestProgressFromRecordIgnored(t *testing.T) {
	for name, line := range map[string]string{
		"no event":        `{"@m":"hello"}`,
		"other event":     `{"EventId":{"Name":"Downloading"},"UploadedBytes":1,"TotalBytes":2}`,
		"missing total":   `{"EventId":{"Name":"Uploading"},"UploadedBytes":1}`,
		"missing done":    `{"EventId":{"Name":"ProcessingFiles"},"TotalFiles":2}`,
		"not a number":    `{"EventId":{"Name":"Uploading"},"UploadedBytes":"lots","TotalBytes":2}`,
		"unstructured":    `Uploading 1/2`,
		"boolean counter": `{"EventId":{"Name":"Uploading"},"UploadedBytes":true,"TotalBytes":2}`,
	} {
		t.Run(name, func(t *testing.T) {
			_, ok := ProgressFromRecord(ParseRecord(line))
			assert.False(t, ok)
		})
	}
}

func TestPercent(t *testing.T) {
	assert.Equal(t, 0.0, Percent(5, 0))
	assert.Equal(t, 100.0, Percent(7, 7))
	assert.InDelta(t, 33.333, Percent(1, 3), 0.001)
}
