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

package installer // import "github.com/vsts-packaging/upack/pkg/artifacttool/installer"

import (
	"fmt"
	"regexp"
	"strings"
)

var cacheKeyPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9._-]*$`)

// NormalizeETag turns an ETag header value into the cache key naming the
// directory ArtifactTool is extracted to: surrounding quotes are stripped,
// every "0x" is removed and the result is lowercased. A weak validator
// prefix (W/) is dropped first.
//
// An ETag that does not reduce to a filesystem-safe name is rejected.
func NormalizeETag(etag string) (string, error) {
	key := strings.TrimSpace(etag)
	key = strings.TrimPrefix(key, "W/")
	key = strings.Trim(key, `"`)
	key = strings.ReplaceAll(key, "0x", "")
	key = strings.ToLower(key)

	if !cacheKeyPattern.MatchString(key) {
		return "", fmt.Errorf("etag %q cannot be used as a cache key", etag)
	}
	return key, nil
}
