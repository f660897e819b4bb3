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
	"strings"
	"testing"
)

func TestColorizeCacheState(t *testing.T) {
	tests := []struct {
		name    string
		cached  bool
		noColor bool
		want    string
	}{
		{name: "cached without color", cached: true, noColor: true, want: "cached"},
		{name: "missing without color", cached: false, noColor: true, want: "missing"},
		{name: "cached with color", cached: true, want: "cached"},
		{name: "missing with color", cached: false, want: "missing"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ColorizeCacheState(tt.cached, tt.noColor)

			if tt.noColor && result != tt.want {
				t.Errorf("ColorizeCacheState() = %q, want %q", result, tt.want)
			}
			if !strings.Contains(result, tt.want) {
				t.Errorf("ColorizeCacheState() = %q, want to contain %q", result, tt.want)
			}
		})
	}
}

func TestColorizeHeader(t *testing.T) {
	if got := ColorizeHeader("PATH", true); got != "PATH" {
		t.Errorf("ColorizeHeader() = %q, want %q", got, "PATH")
	}
	if got := ColorizeHeader("PATH", false); !strings.Contains(got, "PATH") {
		t.Errorf("ColorizeHeader() = %q, want to contain PATH", got)
	}
}
