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

import "fmt"

type CanaryCmd struct {
	Package string `arg:"" optional:"" help:"The package to look up. Defaults to the configured package."`
	Tag     string `help:"The dist-tag to resolve. Defaults to the configured tag."`
}

func (c *CanaryCmd) Run(ctx *Context) error {
	pkg := c.Package
	if pkg == "" {
		pkg = ctx.Config.Registry.Package
	}
	tag := c.Tag
	if tag == "" {
		tag = ctx.Config.Registry.Tag
	}

	version, err := ctx.registry().DistTag(ctx.runCtx(), pkg, tag)
	if err != nil {
		return err
	}
	fmt.Fprintln(ctx.out(), version)
	return nil
}
