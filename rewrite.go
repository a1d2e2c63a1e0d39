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

	"github.com/redwoodjs/quickstart/manifest"
)

type RewriteCmd struct {
	Dir       string `arg:"" type:"existingdir" help:"The project directory."`
	Version   string `help:"Version to set. Defaults to the latest version of the configured registry tag."`
	Prefix    string `help:"Dependency name prefix to rewrite. Defaults to the configured prefix."`
	KeepGoing bool   `help:"Continue past manifests that cannot be parsed."`
}

func (c *RewriteCmd) Run(ctx *Context) error {
	cfg := ctx.Config

	dir, err := expandPath(c.Dir)
	if err != nil {
		return err
	}

	target := manifest.Target{Prefix: cfg.Rewrite.Prefix, Version: c.Version}
	if c.Prefix != "" {
		target.Prefix = c.Prefix
	}
	if target.Version == "" {
		target.Version, err = ctx.registry().DistTag(ctx.runCtx(), cfg.Registry.Package, cfg.Registry.Tag)
		if err != nil {
			return err
		}
	}

	rewriter := manifest.NewRewriter(manifest.Options{
		Filename:  cfg.Rewrite.Manifest,
		KeepGoing: c.KeepGoing || cfg.Rewrite.KeepGoing,
	}, ctx.Log)
	count, err := rewriter.RewriteAll(dir, target)
	fmt.Fprintf(ctx.out(), "Updated %d %s files: %s* -> %s\n", count, cfg.Rewrite.Manifest, target.Prefix, target.Version)
	return err
}
