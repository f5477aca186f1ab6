package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_PathSources(t *testing.T) {
	testCases := []struct {
		name string
		args []string
	}{
		{name: "flag", args: []string{"-model", "models/"}},
		{name: "shorthand", args: []string{"-m", "models/"}},
		{name: "positional", args: []string{"models/"}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var out bytes.Buffer
			config, shouldExit, err := Parse(tc.args, &out)
			require.NoError(t, err)
			require.False(t, shouldExit)
			assert.Equal(t, "models/", config.ModelPath)
		})
	}
}

func TestParse_NoPathPrintsUsage(t *testing.T) {
	var out bytes.Buffer
	config, shouldExit, err := Parse(nil, &out)
	require.NoError(t, err)
	assert.True(t, shouldExit)
	assert.Nil(t, config)
	assert.Contains(t, out.String(), "Usage:")
}

func TestParse_Options(t *testing.T) {
	var out bytes.Buffer
	config, _, err := Parse([]string{"-diff", "x", "-json", "-log-level", "DEBUG", "models/"}, &out)
	require.NoError(t, err)
	assert.Equal(t, "x", config.DiffVar)
	assert.True(t, config.JSON)
	assert.Equal(t, "debug", config.LogLevel, "level is lowercased")
}

func TestParse_InvalidOptions(t *testing.T) {
	var out bytes.Buffer

	_, _, err := Parse([]string{"-log-format", "xml", "models/"}, &out)
	var exitErr *ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, 2, exitErr.Code)

	_, _, err = Parse([]string{"-log-level", "loud", "models/"}, &out)
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, 2, exitErr.Code)
}
