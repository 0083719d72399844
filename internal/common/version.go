package common

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Build metadata, injected via ldflags. A .version file next to the binary
// serves as fallback for builds that skip the flags.
var (
	Version   = "dev"
	Build     = "unknown"
	GitCommit = "unknown"
)

// GetVersion returns the semantic version string
func GetVersion() string {
	return Version
}

// GetBuild returns the build timestamp
func GetBuild() string {
	return Build
}

// GetGitCommit returns the short git commit hash
func GetGitCommit() string {
	return GitCommit
}

// GetFullVersion returns a formatted version string with all build info
func GetFullVersion() string {
	return fmt.Sprintf("%s (build: %s, commit: %s)", Version, Build, GitCommit)
}

// LoadVersionFromFile fills build metadata from a .version file in the
// binary's directory. File values only apply to variables still at their
// compiled-in defaults, so ldflags always win.
func LoadVersionFromFile() {
	exe, err := os.Executable()
	if err != nil {
		return
	}
	loadVersionFile(filepath.Join(filepath.Dir(exe), ".version"))
}

// loadVersionFile parses "key: value" lines; blank lines and # comments are
// skipped, unknown keys ignored.
func loadVersionFile(path string) {
	f, err := os.Open(path)
	if err != nil {
		return
	}
	defer f.Close()

	fallbacks := map[string]struct {
		dst *string
		def string
	}{
		"version": {&Version, "dev"},
		"build":   {&Build, "unknown"},
		"commit":  {&GitCommit, "unknown"},
	}

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		if fb, known := fallbacks[strings.TrimSpace(key)]; known && *fb.dst == fb.def {
			*fb.dst = strings.TrimSpace(value)
		}
	}
}
