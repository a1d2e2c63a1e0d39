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

// Package runner runs external commands for the quickstart.
package runner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"go.uber.org/zap"

	"github.com/redwoodjs/quickstart/fault"
)

// Command is a program invocation with an optional working directory.
type Command struct {
	Name string
	Args []string
	Dir  string // empty means the current directory
}

// Cmd builds a Command from a program name and its arguments.
func Cmd(name string, args ...string) Command {
	return Command{Name: name, Args: args}
}

// In returns a copy of c that runs in dir.
func (c Command) In(dir string) Command {
	c.Dir = dir
	return c
}

func (c Command) String() string {
	return strings.Join(append([]string{c.Name}, c.Args...), " ")
}

// Runner runs a command to completion and returns its standard output.
// A non-zero exit is reported as a fault.SubprocessFailure.
type Runner interface {
	Run(ctx context.Context, cmd Command) (string, error)
}

// Func adapts a function to the Runner interface.
type Func func(ctx context.Context, cmd Command) (string, error)

func (f Func) Run(ctx context.Context, cmd Command) (string, error) {
	return f(ctx, cmd)
}

// Exec is the os/exec backed Runner.
type Exec struct {
	log    *zap.Logger
	stderr io.Writer
}

// New creates an Exec runner. The child's standard error is passed through to
// os.Stderr.
func New(log *zap.Logger) *Exec {
	if log == nil {
		log = zap.NewNop()
	}
	return &Exec{log: log, stderr: os.Stderr}
}

// WithStderr returns a copy of e that forwards child standard error to w.
func (e *Exec) WithStderr(w io.Writer) *Exec {
	cp := *e
	cp.stderr = w
	return &cp
}

func (e *Exec) Run(ctx context.Context, c Command) (string, error) {
	cmd := exec.CommandContext(ctx, c.Name, c.Args...)
	var stdout bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = e.stderr
	if c.Dir != "" {
		cmd.Dir = c.Dir
	}

	e.log.Debug("running command", zap.Stringer("cmd", c), zap.String("dir", c.Dir))

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return stdout.String(), &fault.Error{
				Kind:  fault.SubprocessFailure,
				Msg:   fmt.Sprintf("`%s` exited with code %d", c.Name, exitErr.ExitCode()),
				Cause: err,
			}
		}
		if errors.Is(err, exec.ErrNotFound) {
			return "", fault.Wrap(fault.NotFound, fmt.Sprintf("could not run `%s`", c.Name), err)
		}
		return "", fault.Wrap(fault.SubprocessFailure, fmt.Sprintf("failed to execute `%s`", c), err)
	}

	output := stdout.String()
	e.log.Debug("command output", zap.Stringer("cmd", c), zap.String("stdout", output))
	return output, nil
}
