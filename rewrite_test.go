package quickstart_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/redwoodjs/quickstart"
	"github.com/redwoodjs/quickstart/fault"
)

func TestRewriteWithVersion(t *testing.T) {
	e := newEnv(t, "corepack/shims")
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "web", "package.json"), webManifest)
	writeFile(t, filepath.Join(dir, "api", "package.json"), `{"dependencies":{"@redwoodjs/api":"7.0.0"}}`)

	cmd := quickstart.RewriteCmd{Dir: dir, Version: "8.0.0-rc.1"}
	require.NoError(t, cmd.Run(e.ctx))

	assert.Contains(t, readFile(t, filepath.Join(dir, "web", "package.json")), `"@redwoodjs/web": "8.0.0-rc.1"`)
	assert.Contains(t, readFile(t, filepath.Join(dir, "api", "package.json")), `"@redwoodjs/api": "8.0.0-rc.1"`)
	assert.Contains(t, e.out.String(), "Updated 2 package.json files")
	assert.Zero(t, e.upstream.hitCount())
	assert.Empty(t, e.runner.lines())
}

func TestRewriteFetchesCanary(t *testing.T) {
	e := newEnv(t, "corepack/shims")
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "package.json"), webManifest)

	require.NoError(t, (&quickstart.RewriteCmd{Dir: dir}).Run(e.ctx))
	assert.Contains(t, readFile(t, filepath.Join(dir, "package.json")), "8.0.0-canary.598")
}

func TestRewriteCustomPrefix(t *testing.T) {
	e := newEnv(t, "corepack/shims")
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "package.json"), webManifest)

	require.NoError(t, (&quickstart.RewriteCmd{Dir: dir, Prefix: "react", Version: "19.1.0"}).Run(e.ctx))
	content := readFile(t, filepath.Join(dir, "package.json"))
	assert.Contains(t, content, `"react": "19.1.0"`)
	assert.Contains(t, content, `"@redwoodjs/web": "7.0.0"`)
}

func TestRewriteKeepGoing(t *testing.T) {
	e := newEnv(t, "corepack/shims")
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a", "package.json"), `{"dependencies":[]}`)
	writeFile(t, filepath.Join(dir, "b", "package.json"), webManifest)

	err := (&quickstart.RewriteCmd{Dir: dir, Version: "8.0.0", KeepGoing: true}).Run(e.ctx)
	require.Error(t, err)
	assert.Equal(t, fault.ParseError, fault.KindOf(err))
	assert.Contains(t, readFile(t, filepath.Join(dir, "b", "package.json")), `"@redwoodjs/web": "8.0.0"`)
	assert.Contains(t, e.out.String(), "Updated 1 package.json files")
}
