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
	"strings"

	"github.com/fatih/color"
	"go.uber.org/zap"

	"github.com/redwoodjs/quickstart/fault"
	"github.com/redwoodjs/quickstart/manifest"
	"github.com/redwoodjs/quickstart/runner"
)

type CreateCmd struct {
	Dir string `arg:"" help:"Where you want to create the project."`
	Yes bool   `short:"y" help:"Reuse an existing project directory without asking."`
}

func (c *CreateCmd) Run(ctx *Context) error {
	if strings.TrimSpace(c.Dir) == "" {
		return fault.New(fault.Usage, "the installation directory must not be empty")
	}
	dir, err := expandPath(c.Dir)
	if err != nil {
		return err
	}
	cfg := ctx.Config
	out := ctx.out()
	pm := cfg.PackageManager.Name

	nodeVersion, err := checkNode(ctx)
	if err != nil {
		return err
	}
	ctx.Log.Debug("node version", zap.String("version", nodeVersion))

	installation, err := checkPackageManager(ctx)
	if err != nil {
		return err
	}
	ctx.Log.Debug("package manager", zap.String("name", pm), zap.String("path", installation.Path))

	found, err := exists(dir)
	if err != nil {
		return err
	}
	if !found {
		fmt.Fprintf(out, "Downloading %s into %s\n", cfg.Archive.Repository, dir)
		if err := fetchTemplate(ctx, dir); err != nil {
			return err
		}
	} else if !c.Yes {
		ok, err := ctx.confirm(fmt.Sprintf("%s already exists. Update it in place?", dir))
		if err != nil {
			return fault.Wrap(fault.Usage, "failed to read answer", err)
		}
		if !ok {
			return fault.Newf(fault.Usage, "%s already exists", dir)
		}
	}

	version, err := ctx.registry().DistTag(ctx.runCtx(), cfg.Registry.Package, cfg.Registry.Tag)
	if err != nil {
		return err
	}
	ctx.Log.Debug("latest dist-tag", zap.String("tag", cfg.Registry.Tag), zap.String("version", version))

	rewriter := manifest.NewRewriter(manifest.Options{
		Filename:  cfg.Rewrite.Manifest,
		KeepGoing: cfg.Rewrite.KeepGoing,
	}, ctx.Log)
	if _, err := rewriter.RewriteAll(dir, manifest.Target{Prefix: cfg.Rewrite.Prefix, Version: version}); err != nil {
		return err
	}

	fmt.Fprintf(out, "Checking your %s version\n", pm)
	if _, err := checkPackageManagerVersion(ctx, dir); err != nil {
		return err
	}

	fmt.Fprintf(out, "Running `%s install`. This might take a while...\n", pm)
	if _, err := ctx.Runner.Run(ctx.runCtx(), runner.Cmd(pm, "install").In(dir)); err != nil {
		return err
	}

	fmt.Fprintln(out, "Initializing git")
	for _, cmd := range []runner.Command{
		runner.Cmd("git", "init", "."),
		runner.Cmd("git", "add", "."),
		runner.Cmd("git", "commit", "-am", cfg.Git.CommitMessage),
	} {
		if _, err := ctx.Runner.Run(ctx.runCtx(), cmd.In(dir)); err != nil {
			return err
		}
	}

	color.New(color.FgGreen).Fprintf(out, "Done! You can now run `%s rw dev` in the `%s` directory.\n", pm, c.Dir)
	return nil
}
