package quickstart_test

import (
	"archive/zip"
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/redwoodjs/quickstart"
	"github.com/redwoodjs/quickstart/runner"
)

const fixture = "redwood-main/__fixtures__/test-project-rsc-kitchen-sink/"

const webManifest = `{"name":"web","dependencies":{"@redwoodjs/web":"7.0.0","react":"19.0.0"}}`

func fixtureZip(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	files := map[string]string{
		"redwood-main/README.md":       "# Redwood\n",
		fixture + "package.json":       `{"private":true,"devDependencies":{"@redwoodjs/core":"7.0.0"},"packageManager":"yarn@4.1.1"}`,
		fixture + "web/package.json":   webManifest,
		fixture + "web/src/App.tsx":    "export default function App() {}\n",
		fixture + "api/package.json":   `{"name":"api","dependencies":{"@redwoodjs/api":"7.0.0"}}`,
		"redwood-main/packages/x.json": "{}",
	}
	for name, content := range files {
		f, err := w.Create(name)
		require.NoError(t, err)
		_, err = f.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return buf.Bytes()
}

// upstream serves the GitHub archive and registry endpoints.
type upstream struct {
	*httptest.Server
	mu   sync.Mutex
	hits map[string]int
}

func newUpstream(t *testing.T) *upstream {
	t.Helper()
	u := &upstream{hits: map[string]int{}}
	archive := fixtureZip(t)
	u.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := r.URL.EscapedPath()
		u.mu.Lock()
		u.hits[path]++
		u.mu.Unlock()

		switch path {
		case "/repos/redwoodjs/redwood/zipball/main":
			w.Header().Set("Location", u.URL+"/codeload/redwood-main.zip")
			w.WriteHeader(http.StatusFound)
		case "/codeload/redwood-main.zip":
			_, _ = w.Write(archive)
		case "/@redwoodjs%2Fcore":
			_, _ = w.Write([]byte(`{"name":"@redwoodjs/core","dist-tags":{"latest":"7.4.3","canary":"8.0.0-canary.598"}}`))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(u.Close)
	return u
}

func (u *upstream) hitCount() int {
	u.mu.Lock()
	defer u.mu.Unlock()
	total := 0
	for _, n := range u.hits {
		total += n
	}
	return total
}

// recorder is a runner that answers version queries and records every
// command.
type recorder struct {
	mu       sync.Mutex
	versions map[string]string
	fail     map[string]error
	commands []runner.Command
}

func newRecorder() *recorder {
	return &recorder{
		versions: map[string]string{"node": "v20.11.1", "yarn": "4.1.1"},
		fail:     map[string]error{},
	}
}

func (r *recorder) Run(_ context.Context, cmd runner.Command) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.commands = append(r.commands, cmd)
	if err, ok := r.fail[cmd.String()]; ok {
		return "", err
	}
	if len(cmd.Args) == 1 && cmd.Args[0] == "--version" {
		return r.versions[cmd.Name] + "\n", nil
	}
	return "", nil
}

func (r *recorder) lines() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	var lines []string
	for _, cmd := range r.commands {
		line := cmd.String()
		if cmd.Dir != "" {
			line += " @ " + filepath.Base(cmd.Dir)
		}
		lines = append(lines, line)
	}
	return lines
}

// searchPath returns a directory holding an executable yarn at rel.
func searchPath(t *testing.T, rel string) []string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("synthetic search paths use POSIX executables")
	}
	root := t.TempDir()
	path := filepath.Join(root, filepath.FromSlash(rel), "yarn")
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"), 0o755))
	return []string{filepath.Dir(path)}
}

type env struct {
	ctx      *quickstart.Context
	upstream *upstream
	runner   *recorder
	out      *bytes.Buffer
}

func newEnv(t *testing.T, yarnDir string) *env {
	t.Helper()
	u := newUpstream(t)
	r := newRecorder()
	out := &bytes.Buffer{}

	config := quickstart.DefaultConfig()
	config.Registry.URL = u.URL

	return &env{
		ctx: &quickstart.Context{
			Ctx:           context.Background(),
			Log:           zaptest.NewLogger(t),
			Config:        config,
			Runner:        r,
			Out:           out,
			SearchPath:    searchPath(t, yarnDir),
			HTTPClient:    u.Client(),
			GitHubBaseURL: u.URL,
		},
		upstream: u,
		runner:   r,
		out:      out,
	}
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func hasLine(lines []string, prefix string) bool {
	for _, l := range lines {
		if strings.HasPrefix(l, prefix) {
			return true
		}
	}
	return false
}
