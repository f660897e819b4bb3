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
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseSeverity(t *testing.T) {
	tests := map[string]Severity{
		"Critical":    SeverityCritical,
		"Fatal":       SeverityCritical,
		"Error":       SeverityError,
		"Warning":     SeverityWarning,
		"Information": SeverityInformation,
		"Debug":       SeverityDebug,
		"Verbose":     SeverityDebug,
		"error":       SeverityDebug,
		"":            SeverityDebug,
	}
	for level, want := range tests {
		t.Run(level, func(t *testing.T) {
			assert.Equal(t, want, ParseSeverity(level))
		})
	}
}

func TestSeverityLevel(t *testing.T) {
	assert.Equal(t, slog.LevelError, SeverityCritical.Level())
	assert.Equal(t, slog.LevelError, SeverityError.Level())
	assert.Equal(t, slog.LevelWarn, SeverityWarning.Level())
	assert.Equal(t, slog.LevelInfo, SeverityInformation.Level())
	assert.Equal(t, slog.LevelDebug, SeverityDebug.Level())

	assert.True(t, SeverityCritical.Fatal())
	assert.True(t, SeverityError.Fatal())
	assert.False(t, SeverityWarning.Fatal())
}

func TestParseRecord(t *testing.T) {
	tests := []struct {
		name       string
		line       string
		structured bool
	}{
		{name: "object", line: `{"@m":"hello"}`, structured: true},
		{name: "empty object", line: `{}`, structured: true},
		{name: "plain text", line: "Unhandled exception. System.IO.IOException", structured: false},
		{name: "empty line", line: "", structured: false},
		{name: "json array", line: `[1,2,3]`, structured: false},
		{name: "json string", line: `"hello"`, structured: false},
		{name: "json null", line: `null`, structured: false},
		{name: "trailing data", line: `{"@m":"a"} {"@m":"b"}`, structured: false},
		{name: "truncated", line: `{"@m":"a"`, structured: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := ParseRecord(tt.line)
			assert.Equal(t, tt.structured, r.Structured())
			assert.Equal(t, tt.line, r.Raw)
		})
	}
}

func TestRecordMissingLevelIsInformation(t *testing.T) {
	r := ParseRecord(`{"@t":"2018-03-01T10:00:00Z","@m":"Resolving package"}`)

	msg, ok := r.Message()
	assert.True(t, ok)
	assert.Equal(t, "Resolving package", msg)
	assert.Equal(t, SeverityInformation, r.Severity())
}

func TestRecordFields(t *testing.T) {
	r := ParseRecord(`{"@l":"Warning","@m":"slow","EventId":{"Id":7,"Name":"Uploading"},"UploadedBytes":1}`)

	assert.Equal(t, SeverityWarning, r.Severity())
	name, ok := r.EventName()
	assert.True(t, ok)
	assert.Equal(t, "Uploading", name)

	_, ok = ParseRecord(`{"@m":"x","EventId":{"Id":7}}`).EventName()
	assert.False(t, ok)
	_, ok = ParseRecord(`{"@m":"x","EventId":"Uploading"}`).EventName()
	assert.False(t, ok)
	_, ok = ParseRecord(`{"@l":"Error"}`).Message()
	assert.False(t, ok)
}

func TestRecordNonStringMessage(t *testing.T) {
	msg, ok := ParseRecord(`{"@m":42}`).Message()
	assert.True(t, ok)
	assert.Equal(t, "42", msg)
}
