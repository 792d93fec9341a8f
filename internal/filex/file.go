// Package filex holds the file helpers behind the shopkeeper data dir:
// creating the directory and replacing store files atomically.
package filex

import (
	"fmt"
	"os"
	"path/filepath"
)

// dirPerm keeps the data dir private to the owner and group.
const dirPerm = 0o770

// EnsureDir creates dir and its parents if missing and returns the absolute
// path. Relative names are resolved against the working directory.
func EnsureDir(dir string) (string, error) {
	if !filepath.IsAbs(dir) {
		cwd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("getwd: %w", err)
		}
		dir = filepath.Join(cwd, dir)
	}

	if err := os.MkdirAll(dir, dirPerm); err != nil {
		return "", fmt.Errorf("mkdir %s: %w", dir, err)
	}
	return dir, nil
}
