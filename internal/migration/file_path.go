package migration

import (
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/mod/modfile"
)

const modulePath = "github.com/leetguard/leetguard-server"

// SourceDir returns the on-disk migrations directory new files are written
// to: the configured one, or migrations/ of the module checkout containing
// the working directory.
func SourceDir(configured string) (string, error) {
	if configured != "" {
		return configured, nil
	}
	root, err := findModuleRoot()
	if err != nil {
		return "", fmt.Errorf("failed to find project root: %w", err)
	}
	return filepath.Join(root, "migrations"), nil
}

func findModuleRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}

	for {
		content, err := os.ReadFile(filepath.Join(dir, "go.mod"))
		if err == nil && modfile.ModulePath(content) == modulePath {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("go.mod of %s not found", modulePath)
		}
		dir = parent
	}
}
