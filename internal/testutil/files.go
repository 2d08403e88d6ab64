package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// WriteFiles writes files (relative path to content) under a fresh temporary
// directory and returns that directory.
func WriteFiles(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for name, content := range files {
		path := filepath.Join(root, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return root
}

// LogOnFailure dumps the captured log when the test fails or when
// SCHEMATIC_TEST_LOGS=true.
func LogOnFailure(t *testing.T, buf *SafeBuffer) {
	t.Helper()
	t.Cleanup(func() {
		if t.Failed() || os.Getenv("SCHEMATIC_TEST_LOGS") == "true" {
			t.Logf("--- Full Log Output for %s ---\n%s", t.Name(), buf.String())
		}
	})
}
