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

package toolpath

import (
	"os"
	"path/filepath"
	"testing"
)

const (
	appName = "ArtifactTool"
	key     = "abcdef"
)

func TestCachePath(t *testing.T) {
	t.Setenv(CacheHomeEnvVar, "")
	expected := filepath.Join(os.TempDir(), appName, key)

	if CachePath(key) != expected {
		t.Errorf("expected '%s', got '%s'", expected, CachePath(key))
	}

	t.Setenv(CacheHomeEnvVar, "/opt/tools")

	expected = filepath.Join("/opt/tools", key)

	if CachePath(key) != expected {
		t.Errorf("expected '%s', got '%s'", expected, CachePath(key))
	}
}

func TestCacheRoot(t *testing.T) {
	t.Setenv(CacheHomeEnvVar, "")
	expected := filepath.Join(os.TempDir(), appName)

	if CachePath() != expected {
		t.Errorf("expected '%s', got '%s'", expected, CachePath())
	}
}
