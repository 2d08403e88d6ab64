package cli

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/schematic/internal/app"
)

func TestParse(t *testing.T) {
	out := &bytes.Buffer{}
	cfg, exit, err := Parse([]string{
		"--manifest", "apps", "--hash", "#home", "--serve-models", "models",
		"--port", "8081", "--follow", "--timeout", "2s", "--log-format", "JSON", "--log-level", "DEBUG",
		"page.html",
	}, out)
	require.NoError(t, err)
	assert.False(t, exit)
	assert.Equal(t, &app.Config{
		ManifestPath: "apps",
		PagePath:     "page.html",
		Hash:         "#home",
		ServeModels:  "models",
		Port:         8081,
		Follow:       true,
		Timeout:      2 * time.Second,
		LogFormat:    "json",
		LogLevel:     "debug",
	}, cfg)
	assert.Empty(t, out.String())
}

func TestParse_Defaults(t *testing.T) {
	cfg, exit, err := Parse([]string{"-m", "main.hcl", "page.html"}, &bytes.Buffer{})
	require.NoError(t, err)
	assert.False(t, exit)
	assert.Equal(t, "main.hcl", cfg.ManifestPath)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 10*time.Second, cfg.Timeout)
	assert.False(t, cfg.Follow)
}

func TestParse_LongManifestWins(t *testing.T) {
	cfg, _, err := Parse([]string{"--manifest", "long.hcl", "-m", "short.hcl", "page.html"}, &bytes.Buffer{})
	require.NoError(t, err)
	assert.Equal(t, "long.hcl", cfg.ManifestPath)
}

func TestParse_Exit(t *testing.T) {
	for _, args := range [][]string{{"-h"}, {"-m", "main.hcl"}} {
		out := &bytes.Buffer{}
		cfg, exit, err := Parse(args, out)
		require.NoError(t, err)
		assert.True(t, exit)
		assert.Nil(t, cfg)
		assert.Contains(t, out.String(), "Usage:")
	}
}

func TestParse_Errors(t *testing.T) {
	testCases := []struct {
		name string
		args []string
		want string
	}{
		{"unknown flag", []string{"--nope"}, "flag provided but not defined: -nope"},
		{"two pages", []string{"-m", "x.hcl", "a.html", "b.html"}, "expected a single PAGE argument, got 2"},
		{"no manifest", []string{"page.html"}, "missing manifest"},
		{"bad format", []string{"-m", "x.hcl", "--log-format", "xml", "page.html"}, "invalid log-format"},
		{"bad level", []string{"-m", "x.hcl", "--log-level", "loud", "page.html"}, "invalid log-level"},
		{"port without models", []string{"-m", "x.hcl", "--port", "80", "page.html"}, "models directory"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, exit, err := Parse(tc.args, &bytes.Buffer{})
			require.Error(t, err)
			assert.False(t, exit)

			var exitErr *ExitError
			require.True(t, errors.As(err, &exitErr))
			assert.Equal(t, 2, exitErr.Code)
			assert.Contains(t, exitErr.Message, tc.want)
		})
	}
}
