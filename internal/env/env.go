// Package env locates camp's per-user directories.
package env

import (
	"os"
	"path/filepath"
)

// WorkDir returns camp's working directory under the user cache dir,
// creating it if needed.
func WorkDir() (string, error) {
	userCacheDir, err := os.UserCacheDir()
	if err != nil {
		return "", err
	}
	dir := filepath.Join(userCacheDir, ".camp")
	if err := os.MkdirAll(dir, 0700); err != nil {
		return "", err
	}
	return dir, nil
}

// BuildDir returns the build directory for one recipe build, creating it
// if needed.
func BuildDir(name, version string) (string, error) {
	workDir, err := WorkDir()
	if err != nil {
		return "", err
	}
	dir := filepath.Join(workDir, "build", name, version)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return "", err
	}
	return dir, nil
}
