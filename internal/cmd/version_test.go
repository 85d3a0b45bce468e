package cmd

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/testrank/internal/version"
)

func TestVersionCommand(t *testing.T) {
	out, err := executeCommand(t, "version")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "testrank version "), "got %q", out)
}

func TestVersionCommandVerbose(t *testing.T) {
	out, err := executeCommand(t, "version", "--verbose")
	require.NoError(t, err)
	assert.Contains(t, out, "Go version:")
	assert.Contains(t, out, "Platform:")
}

func TestVersionCommandJSON(t *testing.T) {
	out, err := executeCommand(t, "version", "--json")
	require.NoError(t, err)

	var info version.Info
	require.NoError(t, json.Unmarshal([]byte(out), &info))
	assert.Equal(t, version.Version, info.Version)
	assert.NotEmpty(t, info.GoVersion)
}
