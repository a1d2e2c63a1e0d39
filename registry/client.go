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

// Package registry queries an npm compatible package registry.
package registry

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/redwoodjs/quickstart/fault"
)

// DefaultURL is the public npm registry.
const DefaultURL = "https://registry.npmjs.org"

// CanaryTag is the dist-tag canary releases are published under.
const CanaryTag = "canary"

// abbreviated metadata is much smaller than the full document and still
// carries dist-tags.
const abbreviatedAccept = "application/vnd.npm.install-v1+json; q=1.0, application/json; q=0.8, */*"

// Client reads package documents from a registry.
type Client struct {
	baseURL string
	http    *http.Client
	log     *zap.Logger
}

func NewClient(baseURL string, client *http.Client, log *zap.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultURL
	}
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), http: client, log: log}
}

// PackageURL returns the document URL of pkg. The slash of a scoped name is
// escaped.
func (c *Client) PackageURL(pkg string) string {
	if strings.HasPrefix(pkg, "@") {
		pkg = strings.Replace(pkg, "/", "%2F", 1)
	}
	return c.baseURL + "/" + pkg
}

// Packument fetches the document of pkg.
func (c *Client) Packument(ctx context.Context, pkg string) (*Packument, error) {
	url := c.PackageURL(pkg)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fault.Wrap(fault.Network, "failed to create request", err)
	}
	req.Header.Set("Accept", abbreviatedAccept)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fault.Wrap(fault.Network, fmt.Sprintf("request to %s failed", url), err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, fault.Newf(fault.NotFound, "package %s was not found in the registry", pkg)
	case resp.StatusCode != http.StatusOK:
		return nil, fault.Newf(fault.Network, "request to %s failed: %s", url, resp.Status)
	}

	var doc Packument
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		return nil, fault.Wrap(fault.ParseError, fmt.Sprintf("invalid registry response for %s", pkg), err)
	}
	return &doc, nil
}

// DistTag returns the version pkg's dist-tag tag points at.
func (c *Client) DistTag(ctx context.Context, pkg, tag string) (string, error) {
	doc, err := c.Packument(ctx, pkg)
	if err != nil {
		return "", err
	}
	version := strings.TrimSpace(doc.DistTags[tag])
	if version == "" {
		return "", fault.Newf(fault.NotFound, "package %s has no %q dist-tag", pkg, tag)
	}
	if len(doc.Versions) > 0 {
		published, ok := doc.Versions[version]
		if !ok {
			return "", fault.Newf(fault.NotFound, "dist-tag %q of %s points at %s, which is not published", tag, pkg, version)
		}
		if published.Deprecated != "" {
			c.log.Warn("deprecated version", zap.String("package", pkg), zap.String("version", version),
				zap.String("reason", published.Deprecated))
		}
	}
	c.log.Debug("dist-tag", zap.String("package", pkg), zap.String("tag", tag),
		zap.String("version", version), zap.String("modified", doc.Modified))
	return version, nil
}

// Canary returns the latest canary version of pkg.
func (c *Client) Canary(ctx context.Context, pkg string) (string, error) {
	return c.DistTag(ctx, pkg, CanaryTag)
}
