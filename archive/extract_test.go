package archive_test

import (
	"archive/zip"
	"bytes"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/redwoodjs/quickstart/archive"
	"github.com/redwoodjs/quickstart/fault"
)

type entry struct {
	name    string
	content string
	mode    os.FileMode
}

func buildZip(t *testing.T, entries ...entry) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for _, e := range entries {
		header := &zip.FileHeader{Name: e.name, Method: zip.Deflate}
		mode := e.mode
		if mode == 0 {
			mode = 0o644
		}
		header.SetMode(mode)
		f, err := w.CreateHeader(header)
		require.NoError(t, err)
		if e.content != "" {
			_, err = f.Write([]byte(e.content))
			require.NoError(t, err)
		}
	}
	require.NoError(t, w.Close())
	return buf.Bytes()
}

func read(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func redwoodZip(t *testing.T) []byte {
	return buildZip(t,
		entry{name: "redwood-main/", mode: os.ModeDir | 0o755},
		entry{name: "redwood-main/README.md", content: "# Redwood\n"},
		entry{name: "redwood-main/__fixtures__/test-project-rsc-kitchen-sink/package.json", content: `{"private":true}`},
		entry{name: "redwood-main/__fixtures__/test-project-rsc-kitchen-sink/web/package.json", content: `{"name":"web"}`},
	)
}

func TestExtractStripsTopLevel(t *testing.T) {
	dest := t.TempDir()
	require.NoError(t, archive.Extract(redwoodZip(t), dest, true))

	assert.Equal(t, "# Redwood\n", read(t, filepath.Join(dest, "README.md")))
	assert.Equal(t, `{"name":"web"}`, read(t, filepath.Join(dest, "__fixtures__", "test-project-rsc-kitchen-sink", "web", "package.json")))
	assert.NoDirExists(t, filepath.Join(dest, "redwood-main"))
}

func TestExtractWithoutStrip(t *testing.T) {
	dest := t.TempDir()
	require.NoError(t, archive.Extract(redwoodZip(t), dest, false))

	assert.FileExists(t, filepath.Join(dest, "redwood-main", "README.md"))
}

func TestExtractKeepsSeveralTopLevelEntries(t *testing.T) {
	dest := t.TempDir()
	data := buildZip(t,
		entry{name: "api/package.json", content: "{}"},
		entry{name: "web/package.json", content: "{}"},
	)
	require.NoError(t, archive.Extract(data, dest, true))

	assert.FileExists(t, filepath.Join(dest, "api", "package.json"))
	assert.FileExists(t, filepath.Join(dest, "web", "package.json"))
}

func TestExtractTopLevelFileIsNotStripped(t *testing.T) {
	dest := t.TempDir()
	data := buildZip(t, entry{name: "package.json", content: "{}"})
	require.NoError(t, archive.Extract(data, dest, true))

	assert.FileExists(t, filepath.Join(dest, "package.json"))
}

func TestExtractStaysInsideDestination(t *testing.T) {
	root := t.TempDir()
	dest := filepath.Join(root, "out")
	data := buildZip(t,
		entry{name: "../evil.txt", content: "evil"},
		entry{name: "ok.txt", content: "ok"},
	)
	require.NoError(t, archive.Extract(data, dest, false))

	assert.NoFileExists(t, filepath.Join(root, "evil.txt"))
	assert.Equal(t, "evil", read(t, filepath.Join(dest, "evil.txt")))
}

func TestExtractRejectsLinksLeavingDestination(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlinks need privileges on windows")
	}
	tests := []struct {
		name    string
		entries []entry
	}{
		{
			name: "parent link",
			entries: []entry{
				{name: "top/link", content: "..", mode: os.ModeSymlink | 0o777},
				{name: "top/link/escaped.txt", content: "evil"},
			},
		},
		{
			name: "deep parent link",
			entries: []entry{
				{name: "top/a/b/link", content: "../../../../escaped.txt", mode: os.ModeSymlink | 0o777},
			},
		},
		{
			name: "climb through a named component",
			entries: []entry{
				{name: "top/here", content: ".", mode: os.ModeSymlink | 0o777},
				{name: "top/link", content: "here/..", mode: os.ModeSymlink | 0o777},
			},
		},
		{
			name: "absolute link",
			entries: []entry{
				{name: "top/link", content: "/etc/passwd", mode: os.ModeSymlink | 0o777},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := t.TempDir()
			dest := filepath.Join(root, "dest")

			err := archive.Extract(buildZip(t, tt.entries...), dest, true)
			require.Error(t, err)
			assert.Equal(t, fault.ExtractError, fault.KindOf(err))
			assert.NoFileExists(t, filepath.Join(root, "escaped.txt"))
		})
	}
}

func TestExtractRefusesWritingThroughLinks(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlinks need privileges on windows")
	}
	root := t.TempDir()
	dest := filepath.Join(root, "dest")
	data := buildZip(t,
		entry{name: "top/docs/", mode: os.ModeDir | 0o755},
		entry{name: "top/link", content: "docs", mode: os.ModeSymlink | 0o777},
		entry{name: "top/link/escaped.txt", content: "evil"},
	)

	err := archive.Extract(data, dest, true)
	require.Error(t, err)
	assert.Equal(t, fault.ExtractError, fault.KindOf(err))
	assert.NoFileExists(t, filepath.Join(dest, "docs", "escaped.txt"))
}

func TestExtractPreservesExecutableBit(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("no executable bit on windows")
	}
	dest := t.TempDir()
	data := buildZip(t, entry{name: "bin/run.sh", content: "#!/bin/sh\n", mode: 0o755})
	require.NoError(t, archive.Extract(data, dest, false))

	info, err := os.Stat(filepath.Join(dest, "bin", "run.sh"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o755), info.Mode().Perm())
}

func TestExtractSymlink(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlinks need privileges on windows")
	}
	dest := t.TempDir()
	data := buildZip(t,
		entry{name: "repo/docs/README.md", content: "docs"},
		entry{name: "repo/README.md", content: "docs/README.md", mode: os.ModeSymlink | 0o777},
	)
	require.NoError(t, archive.Extract(data, dest, true))

	target, err := os.Readlink(filepath.Join(dest, "README.md"))
	require.NoError(t, err)
	assert.Equal(t, "docs/README.md", target)
	assert.Equal(t, "docs", read(t, filepath.Join(dest, "README.md")))
}

func TestExtractInvalidArchive(t *testing.T) {
	err := archive.Extract([]byte("not a zip"), t.TempDir(), true)
	require.Error(t, err)
	assert.Equal(t, fault.ExtractError, fault.KindOf(err))
}
