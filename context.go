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
	"context"
	"io"
	"net/http"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/redwoodjs/quickstart/archive"
	"github.com/redwoodjs/quickstart/registry"
	"github.com/redwoodjs/quickstart/runner"
	"github.com/redwoodjs/quickstart/toolchain"
)

// Context carries the collaborators every command runs with.
type Context struct {
	Ctx    context.Context
	Log    *zap.Logger
	Config Config
	Runner runner.Runner
	Out    io.Writer

	// SearchPath is where executables are looked up. Defaults to $PATH.
	SearchPath []string
	HTTPClient *http.Client
	// GitHubBaseURL overrides the GitHub API endpoint.
	GitHubBaseURL string
	// Confirm asks a yes/no question. Defaults to a terminal prompt.
	Confirm func(question string) (bool, error)
}

// NewContext creates a Context that runs real commands against $PATH.
func NewContext(config Config, log *zap.Logger) *Context {
	if log == nil {
		log = zap.NewNop()
	}
	return &Context{
		Ctx:        context.Background(),
		Log:        log,
		Config:     config,
		Runner:     runner.New(log),
		Out:        os.Stdout,
		SearchPath: toolchain.SearchPathFromEnv(),
		Confirm:    terminalConfirm(os.Stdin, os.Stdout),
	}
}

// NewLogger returns a console logger when verbose is set and a no-op logger
// otherwise.
func NewLogger(verbose bool) *zap.Logger {
	if !verbose {
		return zap.NewNop()
	}
	cfg := zap.NewDevelopmentConfig()
	cfg.DisableStacktrace = true
	cfg.DisableCaller = true
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	log, err := cfg.Build()
	if err != nil {
		return zap.NewNop()
	}
	return log
}

func (c *Context) runCtx() context.Context {
	if c.Ctx == nil {
		return context.Background()
	}
	return c.Ctx
}

func (c *Context) out() io.Writer {
	if c.Out == nil {
		return os.Stdout
	}
	return c.Out
}

func (c *Context) confirm(question string) (bool, error) {
	if c.Confirm == nil {
		return true, nil
	}
	return c.Confirm(question)
}

func (c *Context) oracle() *toolchain.VersionOracle {
	return toolchain.NewVersionOracle(c.Runner, c.Log)
}

func (c *Context) registry() *registry.Client {
	return registry.NewClient(c.Config.Registry.URL, c.HTTPClient, c.Log)
}

func (c *Context) fetcher() (*archive.Fetcher, error) {
	f := archive.NewFetcher(c.HTTPClient, c.Log)
	if c.GitHubBaseURL == "" {
		return f, nil
	}
	return f.WithGitHubBaseURL(c.GitHubBaseURL)
}
