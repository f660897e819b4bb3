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

package output

import (
	"github.com/fatih/color"
)

// ColorizeCacheState renders whether a tool cache entry is present.
func ColorizeCacheState(cached bool, noColor bool) string {
	state := "missing"
	if cached {
		state = "cached"
	}
	if noColor {
		return state
	}
	if cached {
		return color.GreenString(state)
	}
	return color.YellowString(state)
}

// ColorizeHeader returns a colorized version of a header string
func ColorizeHeader(header string, noColor bool) string {
	if noColor {
		return header
	}
	return color.New(color.Bold).Sprint(header)
}
