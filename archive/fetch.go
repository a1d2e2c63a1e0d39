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

// Package archive downloads and unpacks repository archives.
package archive

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/go-github/v33/github"
	"go.uber.org/zap"

	"github.com/redwoodjs/quickstart/fault"
)

// Repository identifies a GitHub repository at a git ref.
type Repository struct {
	Owner string `json:"owner" yaml:"owner"`
	Repo  string `json:"repo" yaml:"repo"`
	Ref   string `json:"ref" yaml:"ref"`
}

func (r Repository) String() string {
	return fmt.Sprintf("%s/%s@%s", r.Owner, r.Repo, r.Ref)
}

// DefaultArchiveURL serves archives without going through the rate limited
// GitHub API.
const DefaultArchiveURL = "https://github.com"

// Fetcher downloads repository archives.
type Fetcher struct {
	http       *http.Client
	github     *github.Client
	archiveURL string
	log        *zap.Logger
}

// NewFetcher creates a Fetcher. A nil client uses a client with a generous
// timeout since repository archives are large.
func NewFetcher(client *http.Client, log *zap.Logger) *Fetcher {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Minute}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Fetcher{
		http:       client,
		github:     github.NewClient(client),
		archiveURL: DefaultArchiveURL,
		log:        log,
	}
}

// WithArchiveURL sets where archives are downloaded from when the GitHub API
// refuses to resolve them.
func (f *Fetcher) WithArchiveURL(baseURL string) *Fetcher {
	cp := *f
	cp.archiveURL = strings.TrimSuffix(baseURL, "/")
	return &cp
}

// WithGitHubBaseURL points the GitHub API client at baseURL.
func (f *Fetcher) WithGitHubBaseURL(baseURL string) (*Fetcher, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, err
	}
	if u.Path == "" || u.Path[len(u.Path)-1] != '/' {
		u.Path += "/"
	}
	cp := *f
	cp.github = github.NewClient(f.http)
	cp.github.BaseURL = u
	return &cp, nil
}

// Link resolves the zipball download URL of repo. When the API rejects the
// request because of rate limiting, the direct archive URL is used instead.
func (f *Fetcher) Link(ctx context.Context, repo Repository) (string, error) {
	opts := &github.RepositoryContentGetOptions{Ref: repo.Ref}
	u, resp, err := f.github.Repositories.GetArchiveLink(ctx, repo.Owner, repo.Repo, github.Zipball, opts, true)
	if err != nil {
		if rateLimited(resp, err) {
			direct := f.DirectLink(repo)
			f.log.Warn("GitHub API rate limited, downloading archive directly",
				zap.Stringer("repo", repo), zap.String("url", direct), zap.Error(err))
			return direct, nil
		}
		return "", fault.Wrap(fault.Network, fmt.Sprintf("failed to resolve archive of %s", repo), err)
	}
	f.log.Debug("archive link", zap.Stringer("repo", repo), zap.String("url", u.String()))
	return u.String(), nil
}

// DirectLink returns the archive URL of repo that bypasses the API.
func (f *Fetcher) DirectLink(repo Repository) string {
	return fmt.Sprintf("%s/%s/%s/archive/%s.zip", f.archiveURL, repo.Owner, repo.Repo, repo.Ref)
}

func rateLimited(resp *github.Response, err error) bool {
	var rle *github.RateLimitError
	var abuse *github.AbuseRateLimitError
	if errors.As(err, &rle) || errors.As(err, &abuse) {
		return true
	}
	if resp == nil || resp.Response == nil {
		return false
	}
	return resp.StatusCode == http.StatusForbidden || resp.StatusCode == http.StatusTooManyRequests
}

// Fetch returns the body of url.
func (f *Fetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fault.Wrap(fault.Network, "failed to create request", err)
	}
	resp, err := f.http.Do(req)
	if err != nil {
		return nil, fault.Wrap(fault.Network, fmt.Sprintf("request to %s failed", url), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fault.Newf(fault.Network, "request to %s failed: %s", url, resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fault.Wrap(fault.Network, fmt.Sprintf("failed to read %s", url), err)
	}
	f.log.Debug("downloaded archive", zap.String("url", url), zap.Int("bytes", len(data)))
	return data, nil
}

// Download resolves and fetches the archive of repo.
func (f *Fetcher) Download(ctx context.Context, repo Repository) ([]byte, error) {
	link, err := f.Link(ctx, repo)
	if err != nil {
		return nil, err
	}
	return f.Fetch(ctx, link)
}
