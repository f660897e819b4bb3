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

import "fmt"

// ToolError is returned when ArtifactTool logs a Critical or Error record.
// The message is the tool's own text.
type ToolError struct {
	Message string
	Level   Severity
}

func (e *ToolError) Error() string {
	return e.Message
}

// ProcessError is returned when ArtifactTool exits with a non-zero code
// without having reported an error record first.
type ProcessError struct {
	ExitCode int
	// Stderr is the trailing unstructured error output of the process.
	Stderr string
}

func (e *ProcessError) Error() string {
	if e.Stderr == "" {
		return fmt.Sprintf("ArtifactTool exited with return code %d", e.ExitCode)
	}
	return fmt.Sprintf("ArtifactTool exited with return code %d\n%s", e.ExitCode, e.Stderr)
}
