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
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/redwoodjs/quickstart/archive"
	"github.com/redwoodjs/quickstart/fault"
	"github.com/redwoodjs/quickstart/manifest"
	"github.com/redwoodjs/quickstart/registry"
)

type Config struct {
	Archive        ArchiveConfig        `json:"archive" yaml:"archive"`
	Registry       RegistryConfig       `json:"registry" yaml:"registry"`
	Rewrite        RewriteConfig        `json:"rewrite" yaml:"rewrite"`
	Node           NodeConfig           `json:"node" yaml:"node"`
	PackageManager PackageManagerConfig `json:"packageManager" yaml:"packageManager"`
	Git            GitConfig            `json:"git" yaml:"git"`
}

type ArchiveConfig struct {
	archive.Repository `yaml:",inline"`
	// Fixture is the directory inside the archive that becomes the project.
	Fixture string `json:"fixture" yaml:"fixture"`
}

type RegistryConfig struct {
	URL     string `json:"url" yaml:"url"`
	Package string `json:"package" yaml:"package"`
	Tag     string `json:"tag" yaml:"tag"`
}

type RewriteConfig struct {
	Prefix    string `json:"prefix" yaml:"prefix"`
	Manifest  string `json:"manifest" yaml:"manifest"`
	KeepGoing bool   `json:"keepGoing" yaml:"keepGoing"`
}

type NodeConfig struct {
	MinimumMajor uint64 `json:"minimumMajor" yaml:"minimumMajor"`
}

type PackageManagerConfig struct {
	Name           string `json:"name" yaml:"name"`
	MinimumMajor   uint64 `json:"minimumMajor" yaml:"minimumMajor"`
	ManagedSegment string `json:"managedSegment" yaml:"managedSegment"`
}

type GitConfig struct {
	CommitMessage string `json:"commitMessage" yaml:"commitMessage"`
}

func DefaultConfig() Config {
	return Config{
		Archive: ArchiveConfig{
			Repository: archive.Repository{Owner: "redwoodjs", Repo: "redwood", Ref: "main"},
			Fixture:    "__fixtures__/test-project-rsc-kitchen-sink",
		},
		Registry: RegistryConfig{
			URL:     registry.DefaultURL,
			Package: "@redwoodjs/core",
			Tag:     registry.CanaryTag,
		},
		Rewrite: RewriteConfig{
			Prefix:   "@redwoodjs/",
			Manifest: manifest.Filename,
		},
		Node: NodeConfig{MinimumMajor: 20},
		PackageManager: PackageManagerConfig{
			Name:           "yarn",
			MinimumMajor:   4,
			ManagedSegment: "corepack",
		},
		Git: GitConfig{CommitMessage: "Initial commit"},
	}
}

// LoadConfig reads the YAML file at path over DefaultConfig. An empty path
// returns the defaults.
func LoadConfig(path string) (Config, error) {
	config := DefaultConfig()
	if path == "" {
		return config, nil
	}

	path, err := expandPath(path)
	if err != nil {
		return config, err
	}
	configBytes, err := os.ReadFile(path)
	if err != nil {
		return config, fault.Wrap(fault.ReadError, fmt.Sprintf("failed to read config %s", path), err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(configBytes))
	dec.KnownFields(true)
	if err := dec.Decode(&config); err != nil && !errors.Is(err, io.EOF) {
		return config, fault.Wrap(fault.ParseError, fmt.Sprintf("invalid config %s", path), err)
	}

	if err := config.Validate(); err != nil {
		return config, fault.Wrap(fault.ParseError, fmt.Sprintf("invalid config %s", path), err)
	}
	return config, nil
}

func (c Config) Validate() error {
	switch {
	case c.Archive.Owner == "" || c.Archive.Repo == "":
		return errors.New("archive owner and repo are required")
	case c.Archive.Fixture == "":
		return errors.New("archive fixture is required")
	case c.Registry.Package == "":
		return errors.New("registry package is required")
	case c.Registry.Tag == "":
		return errors.New("registry tag is required")
	case c.Rewrite.Prefix == "":
		return errors.New("rewrite prefix is required")
	case c.Rewrite.Manifest == "":
		return errors.New("rewrite manifest is required")
	case c.PackageManager.Name == "":
		return errors.New("packageManager name is required")
	case c.PackageManager.ManagedSegment == "":
		return errors.New("packageManager managedSegment is required")
	}
	return nil
}
