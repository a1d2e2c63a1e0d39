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

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"go.uber.org/multierr"

	"github.com/redwoodjs/quickstart/toolchain"
)

// DoctorCmd runs the environment checks without creating a project.
type DoctorCmd struct {
}

func (c *DoctorCmd) Run(ctx *Context) error {
	var errs error

	t := table.NewWriter()
	t.SetColumnConfigs([]table.ColumnConfig{
		{
			Name:   "Tool",
			Colors: text.Colors{text.FgGreen},
		},
		{
			Name:   "Path",
			Colors: text.Colors{text.FgCyan},
		},
	})
	t.AppendHeader(table.Row{"Tool", "Path", "Provenance", "Version", "Status"})

	nodePath := "-"
	if nodes, err := toolchain.NewResolver("node", "", ctx.SearchPath, ctx.Log).Candidates(); err == nil && len(nodes) > 0 {
		nodePath = nodes[0].Path
	}
	nodeVersion, err := checkNode(ctx)
	t.AppendRow(table.Row{"node", nodePath, "-", orDash(nodeVersion), status(err)})
	errs = multierr.Append(errs, err)

	pm := ctx.Config.PackageManager.Name
	resolver := packageManagerResolver(ctx)
	candidates, cerr := resolver.Candidates()
	_, err = resolver.Resolve()
	switch {
	case cerr != nil:
		t.AppendRow(table.Row{pm, "-", "-", "-", status(cerr)})
	case len(candidates) == 0:
		t.AppendRow(table.Row{pm, "-", "-", "-", status(err)})
	default:
		for i, candidate := range candidates {
			verdict := ""
			if i == 0 {
				verdict = status(err)
			}
			t.AppendRow(table.Row{pm, candidate.Path, string(candidate.Provenance), "-", verdict})
		}
	}
	errs = multierr.Append(errs, err)

	fmt.Fprintln(ctx.out(), t.Render())
	return errs
}

func status(err error) string {
	if err != nil {
		return text.FgRed.Sprint(err.Error())
	}
	return text.FgGreen.Sprint("ok")
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
