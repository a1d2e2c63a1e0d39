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
	"os"
	"path/filepath"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/redwoodjs/quickstart/archive"
	"github.com/redwoodjs/quickstart/fault"
)

// fetchTemplate downloads the configured archive and places its fixture
// directory at dir. The archive is unpacked next to dir so the fixture can be
// moved with a rename.
func fetchTemplate(ctx *Context, dir string) (err error) {
	cfg := ctx.Config.Archive

	parent := filepath.Dir(dir)
	if err := os.MkdirAll(parent, 0o755); err != nil {
		return fault.Wrap(fault.WriteError, fmt.Sprintf("failed to create %s", parent), err)
	}
	tmp, err := os.MkdirTemp(parent, ".rwjs-rsc-quickstart-")
	if err != nil {
		return fault.Wrap(fault.WriteError, "failed to create temp dir", err)
	}
	defer func() {
		if rerr := os.RemoveAll(tmp); rerr != nil {
			err = multierr.Append(err, fault.Wrap(fault.WriteError, "failed to remove temp dir", rerr))
		}
	}()

	fetcher, err := ctx.fetcher()
	if err != nil {
		return err
	}
	data, err := fetcher.Download(ctx.runCtx(), cfg.Repository)
	if err != nil {
		return err
	}

	ctx.Log.Debug("extracting archive", zap.String("dir", tmp))
	if err := archive.Extract(data, tmp, true); err != nil {
		return err
	}

	return placeTemplate(ctx, filepath.Join(tmp, filepath.FromSlash(cfg.Fixture)), dir)
}

// placeTemplate moves source to destination, copying when a rename is not
// possible.
func placeTemplate(ctx *Context, source, destination string) error {
	info, err := os.Stat(source)
	if err != nil || !info.IsDir() {
		return fault.Newf(fault.ExtractError, "template %s was not found in the archive", filepath.Base(source))
	}

	if err = os.Rename(source, destination); err == nil {
		return nil
	}
	ctx.Log.Debug("rename failed, copying template", zap.Error(err))

	if err := copyTree(source, destination); err != nil {
		return fault.Wrap(fault.WriteError, fmt.Sprintf("failed to copy template to %s", destination), err)
	}
	return nil
}

func copyTree(source, destination string) error {
	return filepath.Walk(source, func(path string, info os.FileInfo, ferr error) error {
		if ferr != nil {
			return ferr
		}
		relPath, err := filepath.Rel(source, path)
		if err != nil {
			return err
		}
		dstPath := filepath.Join(destination, relPath)

		switch {
		case info.IsDir():
			return os.MkdirAll(dstPath, info.Mode().Perm())
		case info.Mode()&os.ModeSymlink != 0:
			link, err := os.Readlink(path)
			if err != nil {
				return err
			}
			return os.Symlink(link, dstPath)
		default:
			data, err := os.ReadFile(path)
			if err != nil {
				return err
			}
			return os.WriteFile(dstPath, data, info.Mode().Perm())
		}
	})
}
