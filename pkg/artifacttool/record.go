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
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
)

// Severity of an ArtifactTool log record.
type Severity int

// Severities ordered from least to most severe.
const (
	SeverityDebug Severity = iota
	SeverityInformation
	SeverityWarning
	SeverityError
	SeverityCritical
)

// ParseSeverity maps the value of the "@l" field to a Severity. Levels
// that are not recognized are treated as debug output.
//
// Serilog omits "@l" for Information records, so callers handle the
// absent field before getting here; see Record.Severity.
func ParseSeverity(level string) Severity {
	switch level {
	case "Critical", "Fatal":
		return SeverityCritical
	case "Error":
		return SeverityError
	case "Warning":
		return SeverityWarning
	case "Information":
		return SeverityInformation
	default:
		return SeverityDebug
	}
}

func (s Severity) String() string {
	switch s {
	case SeverityCritical:
		return "Critical"
	case SeverityError:
		return "Error"
	case SeverityWarning:
		return "Warning"
	case SeverityInformation:
		return "Information"
	default:
		return "Debug"
	}
}

// Fatal reports whether a record of this severity fails the operation.
func (s Severity) Fatal() bool {
	return s >= SeverityError
}

// Level is the slog level records of this severity are logged at.
func (s Severity) Level() slog.Level {
	switch s {
	case SeverityWarning:
		return slog.LevelWarn
	case SeverityInformation:
		return slog.LevelInfo
	case SeverityError, SeverityCritical:
		return slog.LevelError
	default:
		return slog.LevelDebug
	}
}

// Record is one line of ArtifactTool error output.
type Record struct {
	// Raw is the line with surrounding whitespace removed.
	Raw string
	// Fields holds the decoded JSON object. It is nil for lines that are
	// not a single JSON object.
	Fields map[string]any
}

// ParseRecord decodes a line of ArtifactTool output. Lines that are not a
// single JSON object yield a Record without Fields.
func ParseRecord(line string) Record {
	r := Record{Raw: line}

	dec := json.NewDecoder(bytes.NewReader([]byte(line)))
	dec.UseNumber()
	var fields map[string]any
	if err := dec.Decode(&fields); err != nil || fields == nil {
		return r
	}
	if _, err := dec.Token(); err != io.EOF {
		return r
	}
	r.Fields = fields
	return r
}

// Structured reports whether the line was a JSON object.
func (r Record) Structured() bool {
	return r.Fields != nil
}

// Message returns the "@m" field.
func (r Record) Message() (string, bool) {
	v, ok := r.Fields["@m"]
	if !ok {
		return "", false
	}
	return stringify(v), true
}

// Severity returns the severity from the "@l" field. A record without the
// field is an Information record.
func (r Record) Severity() Severity {
	v, ok := r.Fields["@l"]
	if !ok {
		return SeverityInformation
	}
	return ParseSeverity(stringify(v))
}

// EventName returns EventId.Name, if the record carries one.
func (r Record) EventName() (string, bool) {
	id, ok := r.Fields["EventId"].(map[string]any)
	if !ok {
		return "", false
	}
	name, ok := id["Name"]
	if !ok {
		return "", false
	}
	return stringify(name), true
}

func stringify(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case nil:
		return ""
	default:
		return fmt.Sprint(t)
	}
}
