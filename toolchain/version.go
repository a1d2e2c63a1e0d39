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
	"context"
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"
	"go.uber.org/zap"

	"github.com/redwoodjs/quickstart/fault"
	"github.com/redwoodjs/quickstart/runner"
)

// CheckMinimum reports whether the major component of version is at least
// minimumMajor. Minor and patch are not constrained. A leading "v" is accepted.
func CheckMinimum(version string, minimumMajor uint64) (bool, error) {
	v, err := semver.NewVersion(strings.TrimSpace(version))
	if err != nil {
		return false, fault.Wrap(fault.ParseError, fmt.Sprintf("invalid version %q", version), err)
	}
	return v.Major() >= minimumMajor, nil
}

// Requirement is a minimum major version for a tool, checked by running
// "<Tool> --version" in Dir.
type Requirement struct {
	Tool         string
	Dir          string
	MinimumMajor uint64
	// Msg and Hint are reported when the installed version is too old.
	Msg  string
	Hint []string
}

// VersionOracle queries tool versions and enforces minimums.
type VersionOracle struct {
	runner runner.Runner
	log    *zap.Logger
}

func NewVersionOracle(r runner.Runner, log *zap.Logger) *VersionOracle {
	if log == nil {
		log = zap.NewNop()
	}
	return &VersionOracle{runner: r, log: log}
}

// Version returns the trimmed output of "<tool> --version".
func (o *VersionOracle) Version(ctx context.Context, tool, dir string) (string, error) {
	out, err := o.runner.Run(ctx, runner.Cmd(tool, "--version").In(dir))
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

// Require fails with fault.VersionTooOld when the installed version of
// req.Tool is below req.MinimumMajor. It returns the version it found.
func (o *VersionOracle) Require(ctx context.Context, req Requirement) (string, error) {
	version, err := o.Version(ctx, req.Tool, req.Dir)
	if err != nil {
		return "", err
	}
	o.log.Debug("tool version", zap.String("tool", req.Tool), zap.String("version", version))

	ok, err := CheckMinimum(version, req.MinimumMajor)
	if err != nil {
		return version, err
	}
	if !ok {
		msg := req.Msg
		if msg == "" {
			msg = fmt.Sprintf("%s %s is too old, version %d or newer is required", req.Tool, version, req.MinimumMajor)
		}
		return version, &fault.Error{Kind: fault.VersionTooOld, Msg: msg, Hint: req.Hint}
	}
	return version, nil
}
