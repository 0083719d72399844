package common

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resetVersionVars(t *testing.T) {
	t.Helper()
	origVersion, origBuild, origCommit := Version, Build, GitCommit
	t.Cleanup(func() { Version, Build, GitCommit = origVersion, origBuild, origCommit })
	Version, Build, GitCommit = "dev", "unknown", "unknown"
}

func writeVersionFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), ".version")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadVersionFile(t *testing.T) {
	resetVersionVars(t)
	path := writeVersionFile(t, `# build metadata
version: 1.2.3
build: 2025-03-14T10:00:00Z
commit: abc1234
release_channel: stable
not a key value line
`)

	loadVersionFile(path)

	assert.Equal(t, "1.2.3", Version)
	assert.Equal(t, "2025-03-14T10:00:00Z", Build)
	assert.Equal(t, "abc1234", GitCommit)
	assert.Equal(t, "1.2.3 (build: 2025-03-14T10:00:00Z, commit: abc1234)", GetFullVersion())
}

func TestLoadVersionFileDoesNotOverrideLdflags(t *testing.T) {
	resetVersionVars(t)
	Version = "2.0.0"
	path := writeVersionFile(t, "version: 1.2.3\ncommit: abc1234\n")

	loadVersionFile(path)

	assert.Equal(t, "2.0.0", Version, "ldflags value wins over the file")
	assert.Equal(t, "abc1234", GitCommit, "defaults still filled from the file")
}

func TestLoadVersionFileMissing(t *testing.T) {
	resetVersionVars(t)
	loadVersionFile(filepath.Join(t.TempDir(), ".version"))
	assert.Equal(t, "dev", Version)
	assert.Equal(t, "unknown", Build)
}
