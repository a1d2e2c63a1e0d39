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

package main

import (
	"fmt"
	"os"
	"runtime"

	"github.com/alecthomas/kong"
	"go.uber.org/zap"

	"github.com/redwoodjs/quickstart"
	"github.com/redwoodjs/quickstart/fault"
)

var version = "edge"

var commands struct {
	Verbose bool   `short:"v" help:"Show verbose output."`
	Config  string `type:"path" help:"Optional YAML file overriding the built-in settings."`

	// Create bootstraps a new project. It is the default command.
	Create quickstart.CreateCmd `cmd:"" default:"withargs" help:"Create a new RedwoodJS RSC project (default)."`
	// Doctor checks node and the package manager installation.
	Doctor quickstart.DoctorCmd `cmd:"" help:"Check your node and yarn installation."`
	// Rewrite pins dependency versions in an existing project.
	Rewrite quickstart.RewriteCmd `cmd:"" help:"Rewrite RedwoodJS dependency versions in every package.json."`
	// Canary prints the latest canary version of a package.
	Canary quickstart.CanaryCmd `cmd:"" help:"Print the latest canary version of a package."`
	// Version prints out the version of this program and runtime info.
	Version versionCmd `cmd:""`
}

func main() {
	ctx := kong.Parse(&commands,
		kong.Name("rsc-quickstart"),
		kong.Description("Quick start for RedwoodJS with React Server Components"),
		kong.UsageOnError(),
	)

	log := quickstart.NewLogger(commands.Verbose)
	log.Debug("arguments", zap.Strings("args", os.Args[1:]))

	err := run(ctx, log)
	_ = log.Sync()
	if err != nil {
		fault.Print(os.Stderr, err)
		os.Exit(fault.ExitCode(err))
	}
}

func run(ctx *kong.Context, log *zap.Logger) error {
	config, err := quickstart.LoadConfig(commands.Config)
	if err != nil {
		return err
	}
	// Call the Run() method of the selected parsed command.
	return ctx.Run(quickstart.NewContext(config, log))
}

type versionCmd struct{}

func (c *versionCmd) Run() error {
	fmt.Printf("rsc-quickstart version %s %s/%s\n", version, runtime.GOOS, runtime.GOARCH)
	return nil
}
