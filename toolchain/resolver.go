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

// Package toolchain validates the node and package manager installations a
// quickstart run depends on.
package toolchain

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/redwoodjs/quickstart/fault"
)

// Candidate is a canonical path to an executable found on the search path.
type Candidate struct {
	Path       string
	Provenance Provenance
}

// Resolver picks the one authoritative installation of an executable.
type Resolver struct {
	// Name is the executable to resolve, e.g. "yarn".
	Name string
	// Installer names the sanctioned installer in diagnostics, e.g. "corepack".
	Installer  string
	SearchPath []string
	Classify   Classifier
	// Extensions are tried in turn on Windows. Defaults to $PATHEXT.
	Extensions []string
	// Canonicalize resolves a path to an absolute path without symlinks.
	Canonicalize func(path string) (string, error)

	log *zap.Logger
}

// NewResolver creates a Resolver that classifies paths containing an
// installer directory segment as managed.
func NewResolver(name, installer string, searchPath []string, log *zap.Logger) *Resolver {
	if log == nil {
		log = zap.NewNop()
	}
	return &Resolver{
		Name:         name,
		Installer:    installer,
		SearchPath:   searchPath,
		Classify:     ManagedSegment(installer),
		Extensions:   defaultExtensions(),
		Canonicalize: canonicalize,
		log:          log,
	}
}

// Resolve returns the installation that will run for r.Name. It succeeds only
// when the first executable on the search path is managed. Otherwise it fails
// with fault.NotFound, fault.AmbiguousInstallation or
// fault.MultipleInstallations.
func (r *Resolver) Resolve() (Candidate, error) {
	found := lookAll(r.Name, r.SearchPath, r.Extensions, true)
	if len(found) == 0 {
		return Candidate{}, r.notFound()
	}
	r.log.Debug("executable path", zap.String("name", r.Name), zap.String("path", found[0]))

	first, err := r.candidate(found[0])
	if err != nil {
		return Candidate{}, err
	}
	r.log.Debug("executable canonical path", zap.String("name", r.Name), zap.String("path", first.Path))
	if first.Provenance == Managed {
		return first, nil
	}

	all, err := r.Candidates()
	if err != nil {
		return Candidate{}, err
	}
	r.log.Debug("executables found in search path", zap.String("name", r.Name), zap.Int("count", len(all)))

	managed := false
	for _, c := range all {
		if c.Provenance == Managed {
			managed = true
		}
	}

	switch {
	case managed:
		return Candidate{}, &fault.Error{
			Kind: fault.AmbiguousInstallation,
			Msg:  fmt.Sprintf("You have more than one active %s installation", r.Name),
			Hint: []string{
				"Perhaps you've manually installed it using Homebrew or npm",
				fmt.Sprintf("Please completely uninstall %s and then enable it using %s.", r.Name, r.Installer),
				"The only correct way to enable " + r.Name + " is by running",
				fmt.Sprintf("`%s enable`", r.Installer),
				fmt.Sprintf("(%s is already shipped with Node, you just need to enable it)", r.Name),
			},
		}
	case len(all) == 0:
		// The first hit disappeared between the two scans.
		return Candidate{}, r.notFound()
	case len(all) == 1:
		return Candidate{}, &fault.Error{
			Kind: fault.AmbiguousInstallation,
			Msg:  fmt.Sprintf("`%s` at %s was not installed by %s", r.Name, all[0].Path, r.Installer),
			Hint: []string{
				fmt.Sprintf("Please uninstall it and enable %s by running `%s enable`", r.Name, r.Installer),
			},
		}
	default:
		return Candidate{}, &fault.Error{
			Kind: fault.MultipleInstallations,
			Msg: fmt.Sprintf("Multiple %s binaries found. This could be a problem. Make sure "+
				"the first `%s` in your PATH is the one you want to use.", r.Name, r.Name),
		}
	}
}

// Candidates returns every installation of r.Name on the search path in
// search order. Entries that canonicalize to the same path are reported once.
func (r *Resolver) Candidates() ([]Candidate, error) {
	var candidates []Candidate
	seen := map[string]bool{}
	for _, path := range lookAll(r.Name, r.SearchPath, r.Extensions, false) {
		c, err := r.candidate(path)
		if err != nil {
			return nil, err
		}
		if seen[c.Path] {
			continue
		}
		seen[c.Path] = true
		r.log.Debug("found executable", zap.String("name", r.Name),
			zap.String("path", c.Path), zap.String("provenance", string(c.Provenance)))
		candidates = append(candidates, c)
	}
	return candidates, nil
}

func (r *Resolver) candidate(path string) (Candidate, error) {
	canonical, err := r.Canonicalize(path)
	if err != nil {
		return Candidate{}, fault.Wrap(fault.CanonicalizationError,
			fmt.Sprintf("failed to canonicalize %s", path), err)
	}
	return Candidate{Path: canonical, Provenance: r.Classify(canonical)}, nil
}

func (r *Resolver) notFound() error {
	return fault.New(fault.NotFound, fmt.Sprintf("Could not find `%s`", r.Name),
		fmt.Sprintf("Please enable %s by running `%s enable`", r.Name, r.Installer),
		fmt.Sprintf("and then upgrade by running `%s install --global %s@latest`", r.Installer, r.Name),
	)
}
