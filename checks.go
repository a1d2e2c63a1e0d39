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

package quickstart

import (
	"fmt"

	"github.com/redwoodjs/quickstart/fault"
	"github.com/redwoodjs/quickstart/toolchain"
)

// checkNode enforces the minimum node major version.
func checkNode(ctx *Context) (string, error) {
	minimum := ctx.Config.Node.MinimumMajor
	version, err := ctx.oracle().Require(ctx.runCtx(), toolchain.Requirement{
		Tool:         "node",
		MinimumMajor: minimum,
		Msg:          fmt.Sprintf("Your Node version is too old. Please install Node v%d or newer", minimum),
	})
	if fault.Is(err, fault.NotFound) {
		return "", &fault.Error{
			Kind:  fault.NotFound,
			Msg:   "Could not find `node`",
			Hint:  []string{fmt.Sprintf("Please install Node v%d or newer", minimum)},
			Cause: err,
		}
	}
	return version, err
}

func packageManagerResolver(ctx *Context) *toolchain.Resolver {
	pm := ctx.Config.PackageManager
	return toolchain.NewResolver(pm.Name, pm.ManagedSegment, ctx.SearchPath, ctx.Log)
}

// checkPackageManager makes sure exactly one managed package manager
// installation is active.
func checkPackageManager(ctx *Context) (toolchain.Candidate, error) {
	return packageManagerResolver(ctx).Resolve()
}

// checkPackageManagerVersion runs the package manager inside the project so
// that it honours the packageManager field of package.json.
func checkPackageManagerVersion(ctx *Context, dir string) (string, error) {
	pm := ctx.Config.PackageManager
	return ctx.oracle().Require(ctx.runCtx(), toolchain.Requirement{
		Tool:         pm.Name,
		Dir:          dir,
		MinimumMajor: pm.MinimumMajor,
		Msg: fmt.Sprintf("Something is wrong with your %s installation. It should have "+
			"picked up on the `packageManager` field in `package.json` and "+
			"upgraded itself to the required version", pm.Name),
	})
}
