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

// Package toolpath locates the ArtifactTool cache on the local filesystem.
package toolpath

import (
	"os"
	"path/filepath"
)

// CacheHomeEnvVar overrides the cache root. When no value is set the tool is
// cached under the system temp directory.
const CacheHomeEnvVar = "UPACK_TOOL_CACHE"

// lazypath is a lazily resolved directory name under the system temp root.
type lazypath string

func (l lazypath) path(envVar string, defaultFn func() string, elem ...string) string {
	// There is an order to checking for a path.
	// 1. See if the override environment variable has been set.
	// 2. Fall back to <default root>/<name>
	if base := os.Getenv(envVar); base != "" {
		return filepath.Join(base, filepath.Join(elem...))
	}
	return filepath.Join(defaultFn(), string(l), filepath.Join(elem...))
}

func (l lazypath) cachePath(elem ...string) string {
	return l.path(CacheHomeEnvVar, os.TempDir, elem...)
}

const lp = lazypath("ArtifactTool")

// CachePath returns a path inside the ArtifactTool cache root.
func CachePath(elem ...string) string {
	return lp.cachePath(elem...)
}
