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

import "strings"

// CheckCompletion turns the exit code of a drained process into the
// operation result. Warning and Information records never fail an
// operation; only a non-zero exit code does at this point.
func CheckCompletion(exitCode int, stderr string) error {
	if exitCode == 0 {
		return nil
	}
	return &ProcessError{ExitCode: exitCode, Stderr: strings.TrimSpace(stderr)}
}
