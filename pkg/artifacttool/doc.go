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

/*
Package artifacttool drives ArtifactTool, the executable that transfers
Universal Packages.

A Runner starts the tool with the token exported through PATVar and reads
its standard error, where the tool writes one compact JSON (CLEF) record
per line. Records are re-logged at their own level and progress events are
forwarded to a ProgressReporter. The first Critical or Error record fails
the run with a *ToolError; otherwise a non-zero exit code fails it with a
*ProcessError.
*/
package artifacttool // import "github.com/vsts-packaging/upack/pkg/artifacttool"
