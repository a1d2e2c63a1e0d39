/*
Copyright 2024 The RedwoodJS Authors.

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

package toolchain

import "strings"

// Provenance records how an executable was installed.
type Provenance string

const (
	Managed   Provenance = "managed"
	Unmanaged Provenance = "unmanaged"
)

// Classifier decides the provenance of a canonical executable path.
type Classifier func(path string) Provenance

// ManagedSegment classifies a path as Managed when it has a directory segment
// equal to segment. Matching is case-sensitive and accepts both / and \
// separators.
func ManagedSegment(segment string) Classifier {
	slash := "/" + segment + "/"
	backslash := `\` + segment + `\`
	return func(path string) Provenance {
		if strings.Contains(path, slash) || strings.Contains(path, backslash) {
			return Managed
		}
		return Unmanaged
	}
}
