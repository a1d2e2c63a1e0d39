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

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// SearchPathFromEnv splits $PATH into its directories.
func SearchPathFromEnv() []string {
	return filepath.SplitList(os.Getenv("PATH"))
}

func defaultExtensions() []string {
	if runtime.GOOS != "windows" {
		return nil
	}
	pathext := os.Getenv("PATHEXT")
	if pathext == "" {
		return []string{".com", ".exe", ".bat", ".cmd"}
	}
	var exts []string
	for _, e := range strings.Split(strings.ToLower(pathext), ";") {
		if e == "" {
			continue
		}
		if e[0] != '.' {
			e = "." + e
		}
		exts = append(exts, e)
	}
	return exts
}

// lookAll returns every executable called name in dirs, in search order.
// With first set it stops after the first hit.
func lookAll(name string, dirs, exts []string, first bool) []string {
	names := []string{name}
	if len(exts) > 0 && filepath.Ext(name) == "" {
		names = names[:0]
		for _, ext := range exts {
			names = append(names, name+ext)
		}
	}

	var found []string
	for _, dir := range dirs {
		if dir == "" {
			dir = "."
		}
		for _, n := range names {
			path := filepath.Join(dir, n)
			if !isExecutable(path) {
				continue
			}
			found = append(found, path)
			if first {
				return found
			}
		}
	}
	return found
}

// isExecutable reports whether path is an executable file. A symlink whose
// target cannot be read still counts, so that canonicalizing it reports the
// broken link instead of skipping it.
func isExecutable(path string) bool {
	info, err := os.Lstat(path)
	if err != nil {
		return false
	}
	if info.Mode()&os.ModeSymlink != 0 {
		if info, err = os.Stat(path); err != nil {
			return true
		}
	}
	if info.IsDir() {
		return false
	}
	if runtime.GOOS == "windows" {
		return true
	}
	return info.Mode()&0o111 != 0
}

func canonicalize(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	return filepath.EvalSymlinks(abs)
}
