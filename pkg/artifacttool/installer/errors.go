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

package installer

import "fmt"

// ProvisioningError reports that the ArtifactTool binary could not be
// located, fetched or extracted.
type ProvisioningError struct {
	// Op is the failed step: "resolve", "check", "download" or "extract".
	Op string
	// URL is the binary source involved, if any.
	URL string
	Err error
}

func (e *ProvisioningError) Error() string {
	if e.URL == "" {
		return fmt.Sprintf("unable to provision ArtifactTool (%s): %v", e.Op, e.Err)
	}
	return fmt.Sprintf("unable to provision ArtifactTool from %s (%s): %v", e.URL, e.Op, e.Err)
}

func (e *ProvisioningError) Unwrap() error {
	return e.Err
}
