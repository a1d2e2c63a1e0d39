package fault_test

import (
	"bytes"
	"errors"
	"fmt"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/redwoodjs/quickstart/fault"
)

func TestKindOfWrapped(t *testing.T) {
	cause := errors.New("permission denied")
	err := fault.Wrap(fault.ReadError, "read package.json", cause)
	wrapped := fmt.Errorf("rewrite: %w", err)

	assert.Equal(t, fault.ReadError, fault.KindOf(wrapped))
	assert.True(t, fault.Is(wrapped, fault.ReadError))
	assert.False(t, fault.Is(wrapped, fault.WriteError))
	assert.ErrorIs(t, wrapped, cause)
	assert.Equal(t, "read package.json: permission denied", err.Error())
}

func TestKindOfPlainError(t *testing.T) {
	assert.Equal(t, fault.Kind(""), fault.KindOf(errors.New("boom")))
	assert.False(t, fault.Is(nil, fault.NotFound))
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, 0, fault.ExitCode(nil))
	assert.Equal(t, 1, fault.ExitCode(fault.New(fault.VersionTooOld, "too old")))
	assert.Equal(t, 1, fault.ExitCode(errors.New("boom")))
}

func TestPrintHints(t *testing.T) {
	orig := color.NoColor
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = orig })

	var buf bytes.Buffer
	fault.Print(&buf, fault.New(fault.NotFound, "Could not find `yarn`",
		"Please enable yarn by running `corepack enable`"))
	require.Equal(t, "Could not find `yarn`\nPlease enable yarn by running `corepack enable`\n", buf.String())

	buf.Reset()
	fault.Print(&buf, nil)
	assert.Empty(t, buf.String())
}
