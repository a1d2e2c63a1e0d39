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

// Package manifest rewrites dependency versions in package.json manifests.
package manifest

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/redwoodjs/quickstart/fault"
)

// Filename is the manifest file name searched for by default.
const Filename = "package.json"

// Sections are the dependency mappings that are rewritten, in order.
var Sections = []string{"dependencies", "devDependencies"}

// Target selects the entries to rewrite and the version they receive.
type Target struct {
	// Prefix is matched against the start of each dependency name.
	Prefix  string
	Version string
}

// Options configures a Rewriter.
type Options struct {
	// Filename overrides the manifest file name. Defaults to Filename.
	Filename string
	// KeepGoing continues past manifests that fail to parse or rewrite. The
	// collected errors are still returned once the walk is complete.
	KeepGoing bool
}

// Rewriter applies a Target to every manifest below a directory.
type Rewriter struct {
	opts Options
	log  *zap.Logger
}

func NewRewriter(opts Options, log *zap.Logger) *Rewriter {
	if opts.Filename == "" {
		opts.Filename = Filename
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Rewriter{opts: opts, log: log}
}

// Find returns the path of every manifest below root in lexical order.
func (r *Rewriter) Find(root string) ([]string, error) {
	var paths []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return fault.Wrap(fault.ReadError, fmt.Sprintf("failed to walk %s", path), err)
		}
		if !d.IsDir() && d.Name() == r.opts.Filename {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return paths, nil
}

// RewriteAll rewrites every manifest below root and returns the number of
// manifests written back. Files are processed one at a time. Unless KeepGoing
// is set the first failure stops the run, leaving earlier manifests rewritten.
func (r *Rewriter) RewriteAll(root string, target Target) (int, error) {
	paths, err := r.Find(root)
	if err != nil {
		return 0, err
	}

	count := 0
	var errs error
	for _, path := range paths {
		r.log.Debug("updating manifest", zap.String("path", path),
			zap.String("prefix", target.Prefix), zap.String("version", target.Version))
		if _, err := r.RewriteFile(path, target); err != nil {
			if !r.opts.KeepGoing {
				return count, err
			}
			errs = multierr.Append(errs, err)
			continue
		}
		count++
	}
	return count, errs
}

// RewriteFile rewrites a single manifest in place and returns the number of
// dependency entries that matched target.Prefix.
func (r *Rewriter) RewriteFile(path string, target Target) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fault.Wrap(fault.ReadError, fmt.Sprintf("failed to read %s", path), err)
	}
	info, err := os.Stat(path)
	if err != nil {
		return 0, fault.Wrap(fault.ReadError, fmt.Sprintf("failed to stat %s", path), err)
	}

	out, matched, err := Rewrite(data, target)
	if err != nil {
		return 0, fault.Wrap(fault.ParseError, fmt.Sprintf("failed to parse %s", path), err)
	}

	if err := os.WriteFile(path, out, info.Mode().Perm()); err != nil {
		return 0, fault.Wrap(fault.WriteError, fmt.Sprintf("failed to write %s", path), err)
	}
	r.log.Debug("manifest written", zap.String("path", path), zap.Int("matched", matched))
	return matched, nil
}

// Rewrite sets every dependency whose name starts with target.Prefix to
// target.Version and returns the re-encoded document with the number of
// entries that matched. Members are kept in document order.
func Rewrite(data []byte, target Target) ([]byte, int, error) {
	doc, err := ParseObject(data)
	if err != nil {
		if errors.Is(err, errNotObject) {
			return nil, 0, errors.New("manifest is not a JSON object")
		}
		return nil, 0, err
	}

	version, err := marshalString(target.Version)
	if err != nil {
		return nil, 0, err
	}

	matched := 0
	for _, section := range Sections {
		raw, ok := doc.Get(section)
		if !ok {
			continue
		}
		deps, err := ParseObject(raw)
		if err != nil {
			if errors.Is(err, errNotObject) {
				return nil, 0, fmt.Errorf("%q is not an object", section)
			}
			return nil, 0, err
		}
		for i := range deps.Members {
			if strings.HasPrefix(deps.Members[i].Key, target.Prefix) {
				deps.Members[i].Value = json.RawMessage(version)
				matched++
			}
		}
		encoded, err := deps.MarshalJSON()
		if err != nil {
			return nil, 0, err
		}
		doc.Set(section, encoded)
	}

	out, err := Encode(doc)
	if err != nil {
		return nil, 0, err
	}
	return out, matched, nil
}
