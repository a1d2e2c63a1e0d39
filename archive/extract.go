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

package archive

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/redwoodjs/quickstart/fault"
)

// Extract unpacks the zip archive in data into dest. With stripTopLevel set
// and every entry below a single top-level directory, the contents of that
// directory are extracted instead.
func Extract(data []byte, dest string, stripTopLevel bool) error {
	reader, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return fault.Wrap(fault.ExtractError, "failed to open zip", err)
	}

	prefix := ""
	if stripTopLevel {
		prefix = commonRoot(reader.File)
	}

	if err := os.MkdirAll(dest, 0o755); err != nil {
		return fault.Wrap(fault.ExtractError, fmt.Sprintf("failed to create %s", dest), err)
	}

	for _, file := range reader.File {
		name := strings.TrimPrefix(path.Clean("/"+file.Name), "/")
		if prefix != "" {
			name = strings.TrimPrefix(strings.TrimPrefix(name, prefix), "/")
		}
		if name == "" || name == "." {
			continue
		}
		target := filepath.Join(dest, filepath.FromSlash(name))
		if err := checkPath(dest, target); err != nil {
			return err
		}
		if err := extractFile(file, dest, target); err != nil {
			return err
		}
	}
	return nil
}

// commonRoot returns the top-level directory shared by every entry, or "" if
// entries do not share exactly one.
func commonRoot(files []*zip.File) string {
	root := ""
	for _, file := range files {
		name := strings.TrimPrefix(path.Clean("/"+file.Name), "/")
		if name == "" {
			continue
		}
		first, _, nested := strings.Cut(name, "/")
		if !nested && !file.FileInfo().IsDir() {
			return ""
		}
		if root == "" {
			root = first
		} else if root != first {
			return ""
		}
	}
	return root
}

// checkPath refuses target when it, or a directory between dest and it, is
// already a symlink, so no entry can be written through a link.
func checkPath(dest, target string) error {
	rel, err := filepath.Rel(dest, target)
	if err != nil {
		return fault.Wrap(fault.ExtractError, fmt.Sprintf("failed to place %s", target), err)
	}
	dir := dest
	for _, part := range strings.Split(rel, string(filepath.Separator)) {
		dir = filepath.Join(dir, part)
		info, err := os.Lstat(dir)
		if os.IsNotExist(err) {
			return nil
		}
		if err != nil {
			return fault.Wrap(fault.ExtractError, fmt.Sprintf("failed to inspect %s", dir), err)
		}
		if info.Mode()&os.ModeSymlink != 0 {
			return fault.Newf(fault.ExtractError, "zip entry %s would be written through the link %s", target, dir)
		}
	}
	return nil
}

// inside reports whether path is dest or below it.
func inside(dest, path string) bool {
	rel, err := filepath.Rel(dest, path)
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}

// climbsAfterDescending reports whether link has a ".." after a named
// component. Such a link cannot be resolved lexically when the named component
// is itself a link.
func climbsAfterDescending(link string) bool {
	descended := false
	for _, part := range strings.FieldsFunc(link, func(r rune) bool { return r == '/' || r == '\\' }) {
		switch part {
		case ".":
		case "..":
			if descended {
				return true
			}
		default:
			descended = true
		}
	}
	return false
}

func extractFile(file *zip.File, dest, target string) error {
	mode := file.Mode()
	switch {
	case mode.IsDir():
		if err := os.MkdirAll(target, 0o755); err != nil {
			return fault.Wrap(fault.ExtractError, fmt.Sprintf("failed to create dir %s", target), err)
		}
		return nil
	case mode&os.ModeSymlink != 0:
		return extractSymlink(file, dest, target)
	}

	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return fault.Wrap(fault.ExtractError, fmt.Sprintf("failed to prepare %s", target), err)
	}
	perm := mode.Perm()
	if perm == 0 {
		perm = 0o644
	}

	rc, err := file.Open()
	if err != nil {
		return fault.Wrap(fault.ExtractError, fmt.Sprintf("failed to open zip entry %s", file.Name), err)
	}
	defer rc.Close()

	out, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, perm)
	if err != nil {
		return fault.Wrap(fault.ExtractError, fmt.Sprintf("failed to create %s", target), err)
	}
	if _, err := io.Copy(out, rc); err != nil {
		out.Close()
		return fault.Wrap(fault.ExtractError, fmt.Sprintf("failed to write %s", target), err)
	}
	if err := out.Close(); err != nil {
		return fault.Wrap(fault.ExtractError, fmt.Sprintf("failed to close %s", target), err)
	}
	return nil
}

func extractSymlink(file *zip.File, dest, target string) error {
	rc, err := file.Open()
	if err != nil {
		return fault.Wrap(fault.ExtractError, fmt.Sprintf("failed to open zip entry %s", file.Name), err)
	}
	defer rc.Close()

	link, err := io.ReadAll(rc)
	if err != nil {
		return fault.Wrap(fault.ExtractError, fmt.Sprintf("failed to read link %s", file.Name), err)
	}
	resolved := filepath.Join(filepath.Dir(target), filepath.FromSlash(string(link)))
	if filepath.IsAbs(string(link)) || !inside(dest, resolved) || climbsAfterDescending(string(link)) {
		return fault.Newf(fault.ExtractError, "zip entry %s links outside the archive", file.Name)
	}
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return fault.Wrap(fault.ExtractError, fmt.Sprintf("failed to prepare %s", target), err)
	}
	if err := os.Symlink(string(link), target); err != nil {
		return fault.Wrap(fault.ExtractError, fmt.Sprintf("failed to create link %s", target), err)
	}
	return nil
}
