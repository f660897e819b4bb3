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

import (
	"fmt"
	"path/filepath"
	"runtime"
)

// DefaultSourceBase is where the platform archives are published.
const DefaultSourceBase = "https://zachtest1.blob.core.windows.net/test"

var runtimeIDs = map[string]string{
	"windows/amd64": "win10-x64",
	"windows/arm64": "win10-arm64",
	"linux/amd64":   "linux-x64",
	"linux/arm64":   "linux-arm64",
	"darwin/amd64":  "osx-x64",
	"darwin/arm64":  "osx-arm64",
}

// Platform identifies which ArtifactTool build to fetch and where its
// binary lives inside the extracted archive.
type Platform struct {
	OS        string
	RuntimeID string
}

// CurrentPlatform returns the Platform of the running process.
func CurrentPlatform() (Platform, error) {
	return PlatformFor(runtime.GOOS, runtime.GOARCH)
}

// PlatformFor maps a GOOS/GOARCH pair to the ArtifactTool runtime identifier.
func PlatformFor(goos, goarch string) (Platform, error) {
	rid, ok := runtimeIDs[goos+"/"+goarch]
	if !ok {
		return Platform{}, fmt.Errorf("ArtifactTool is not available for %s/%s", goos, goarch)
	}
	return Platform{OS: goos, RuntimeID: rid}, nil
}

func (p Platform) releaseName() string {
	return "artifacttool-" + p.RuntimeID + "-Release"
}

// DefaultURL is the archive location used unless overridden.
func (p Platform) DefaultURL() string {
	return DefaultSourceBase + "/" + p.releaseName() + ".zip"
}

// BinaryName is the file name of the ArtifactTool executable.
func (p Platform) BinaryName() string {
	if p.OS == "windows" {
		return "ArtifactTool.exe"
	}
	return "artifacttool"
}

// BinaryPath returns the location of the executable inside an extracted
// cache entry.
func (p Platform) BinaryPath(entryDir string) string {
	return filepath.Join(entryDir, p.releaseName(), p.BinaryName())
}
