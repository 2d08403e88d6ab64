package app

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/schematic/internal/config"
	"github.com/vk/schematic/internal/hcl"
	"github.com/vk/schematic/internal/registry"
	"github.com/vk/schematic/internal/testutil"
)

const page = `<!DOCTYPE html><html><body>
<div data-schematic="docs"></div>
<div class="static" data-schematic="forms" data-model="users"></div>
</body></html>`

const manifest = `
application "docs" {
  router {
    default = "home"
    route "home" { target = "/home.json" }
  }
}

application "forms" {
  config = { theme = "dark" }
  model "users" { source = "users.json" }
}
`

func writeProject(t *testing.T) string {
	t.Helper()
	return testutil.WriteFiles(t, map[string]string{
		"manifest/main.hcl":   manifest,
		"manifest/users.json": `[{"title":"Create user","method":"post","action":"/users","data":[{"name":"email","type":"email"}]}]`,
		"models/home.json":    `[{"title":"Welcome"}]`,
		"page.html":           page,
	})
}

func setupApp(t *testing.T, cfg Config, modules ...registry.Module) (*App, *bytes.Buffer, *testutil.SafeBuffer) {
	t.Helper()
	cfg.LogLevel = "debug"
	validated, err := NewConfig(cfg)
	require.NoError(t, err)

	out := &bytes.Buffer{}
	logs := &testutil.SafeBuffer{}
	testutil.LogOnFailure(t, logs)

	a, err := NewApp(out, logs, validated, hcl.NewLoader(), modules...)
	require.NoError(t, err)
	return a, out, logs
}

func TestRun_BootsPage(t *testing.T) {
	dir := writeProject(t)
	a, out, logs := setupApp(t, Config{
		ManifestPath: filepath.Join(dir, "manifest"),
		PagePath:     filepath.Join(dir, "page.html"),
		ServeModels:  filepath.Join(dir, "models"),
	})

	require.NoError(t, a.Run(context.Background()))

	rendered := out.String()
	assert.Contains(t, rendered, "Welcome")
	assert.Contains(t, rendered, "Create user")
	assert.Contains(t, rendered, `id="forms-create-user"`)
	assert.Equal(t, 2, strings.Count(rendered, "schematic-dom"))
	assert.Equal(t, "home", a.Location().Hash())
	assert.Equal(t, []string{"docs", "forms"}, a.Container().Names())

	docs, ok := a.Container().Lookup("docs")
	require.True(t, ok)
	assert.True(t, docs.Booted())
	assert.True(t, docs.Config().Routable)
	assert.Len(t, docs.Services(), 1)

	assert.Contains(t, logs.String(), "Document booted.")
}

func TestRun_InitialHash(t *testing.T) {
	dir := writeProject(t)
	a, _, _ := setupApp(t, Config{
		ManifestPath: filepath.Join(dir, "manifest"),
		PagePath:     filepath.Join(dir, "page.html"),
		ServeModels:  filepath.Join(dir, "models"),
		Hash:         "#elsewhere",
	})

	require.NoError(t, a.Run(context.Background()))
	assert.Equal(t, "home", a.Location().Hash())
}

func TestRun_Follow(t *testing.T) {
	dir := writeProject(t)
	a, out, _ := setupApp(t, Config{
		ManifestPath: filepath.Join(dir, "manifest"),
		PagePath:     filepath.Join(dir, "page.html"),
		ServeModels:  filepath.Join(dir, "models"),
		Follow:       true,
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- a.Run(ctx) }()

	require.Eventually(t, func() bool { return a.Location().Hash() == "home" }, 5*time.Second, 10*time.Millisecond)
	select {
	case <-done:
		t.Fatal("Run returned before the context was cancelled")
	default:
	}

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not stop after cancellation")
	}
	assert.Contains(t, out.String(), "Welcome")
}

func TestRun_Errors(t *testing.T) {
	t.Run("missing page", func(t *testing.T) {
		dir := writeProject(t)
		a, _, _ := setupApp(t, Config{
			ManifestPath: filepath.Join(dir, "manifest"),
			PagePath:     filepath.Join(dir, "nope.html"),
			ServeModels:  filepath.Join(dir, "models"),
		})
		assert.ErrorContains(t, a.Run(context.Background()), "failed to open page")
	})

	t.Run("invalid fetch mode", func(t *testing.T) {
		dir := testutil.WriteFiles(t, map[string]string{
			"main.hcl":  `application "docs" { router { fetch_mode = "sometimes" } }`,
			"page.html": page,
		})
		a, _, _ := setupApp(t, Config{
			ManifestPath: filepath.Join(dir, "main.hcl"),
			PagePath:     filepath.Join(dir, "page.html"),
		})
		assert.ErrorContains(t, a.Run(context.Background()), "application docs")
	})

	t.Run("page references unknown application", func(t *testing.T) {
		dir := testutil.WriteFiles(t, map[string]string{
			"main.hcl":  `application "docs" {}`,
			"page.html": `<div data-schematic="ghost"></div>`,
		})
		a, out, _ := setupApp(t, Config{
			ManifestPath: filepath.Join(dir, "main.hcl"),
			PagePath:     filepath.Join(dir, "page.html"),
		})
		require.NoError(t, a.Run(context.Background()))
		assert.NotContains(t, out.String(), "schematic-dom")
	})
}

type failingModule struct{}

func (failingModule) Register(*registry.Registry) error { return errors.New("boom") }

type fakeLoader struct{ err error }

func (l fakeLoader) Load(context.Context, ...string) (*config.Model, error) {
	if l.err != nil {
		return nil, l.err
	}
	return &config.Model{}, nil
}

func TestNewApp_Errors(t *testing.T) {
	cfg := &Config{ManifestPath: "m.hcl", PagePath: "p.html"}

	_, err := NewApp(&bytes.Buffer{}, &bytes.Buffer{}, cfg, fakeLoader{}, failingModule{})
	assert.ErrorContains(t, err, "failed to register module")

	_, err = NewApp(&bytes.Buffer{}, &bytes.Buffer{}, cfg, fakeLoader{err: errors.New("no such file")})
	assert.ErrorContains(t, err, "failed to load manifest: no such file")

	a, err := NewApp(&bytes.Buffer{}, &bytes.Buffer{}, cfg, fakeLoader{})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"decorator", "helpers", "stage", "xhr"}, a.Registry().Modules())
	assert.ElementsMatch(t, []string{"navfeed", "router"}, a.Registry().Services())
	assert.NotNil(t, a.Metrics())
}

func TestNewConfig(t *testing.T) {
	valid := Config{ManifestPath: "m.hcl", PagePath: "p.html"}
	cfg, err := NewConfig(valid)
	require.NoError(t, err)
	assert.Equal(t, valid, *cfg)

	testCases := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"missing manifest", func(c *Config) { c.ManifestPath = "" }, "ManifestPath"},
		{"missing page", func(c *Config) { c.PagePath = "" }, "PagePath"},
		{"negative port", func(c *Config) { c.Port = -1 }, "out of range"},
		{"port without models", func(c *Config) { c.Port = 8080 }, "models directory"},
		{"negative timeout", func(c *Config) { c.Timeout = -time.Second }, "must not be negative"},
		{"bad format", func(c *Config) { c.LogFormat = "xml" }, `unknown log format "xml"`},
		{"bad level", func(c *Config) { c.LogLevel = "loud" }, `unknown log level "loud"`},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			c := valid
			tc.mutate(&c)
			_, err := NewConfig(c)
			assert.ErrorContains(t, err, tc.want)
		})
	}
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	newLogger("warn", "json", &buf).Info("hidden")
	assert.Empty(t, buf.String())

	newLogger("warn", "json", &buf).Warn("shown")
	assert.Contains(t, buf.String(), `"msg":"shown"`)

	buf.Reset()
	newLogger("bogus", "text", &buf).Info("fallback")
	assert.Contains(t, buf.String(), "msg=fallback")
}

func TestRun_NavigationRequiresFollow(t *testing.T) {
	dir := testutil.WriteFiles(t, map[string]string{
		"main.hcl": `
application "docs" {
  router {
    default = "home"
    route "home" { target = "/home.json" }
  }
  navigation { url = "http://127.0.0.1:1" }
}
`,
		"models/home.json": `[{"title":"Welcome"}]`,
		"page.html":        `<div data-schematic="docs"></div>`,
	})
	a, out, logs := setupApp(t, Config{
		ManifestPath: filepath.Join(dir, "main.hcl"),
		PagePath:     filepath.Join(dir, "page.html"),
		ServeModels:  filepath.Join(dir, "models"),
	})

	require.NoError(t, a.Run(context.Background()))

	docs, ok := a.Container().Lookup("docs")
	require.True(t, ok)
	assert.Len(t, docs.Services(), 1)
	assert.Contains(t, logs.String(), "Navigation feed ignored without --follow.")
	assert.Contains(t, out.String(), "Welcome")
}
