// Package storage provides a persistent cache of perft results.
package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

const appName = "chesscore"

// HomeEnv overrides the data directory when set.
const HomeEnv = "CHESSCORE_HOME"

// platformBase names, per GOOS, the variable that points at the per-user
// data root and the path under the home directory used when it is unset.
var platformBase = map[string]struct {
	env      string
	fallback []string
}{
	"darwin":  {"", []string{"Library", "Application Support"}},
	"windows": {"APPDATA", []string{"AppData", "Roaming"}},
}

var defaultBase = struct {
	env      string
	fallback []string
}{"XDG_DATA_HOME", []string{".local", "share"}}

func baseDir(goos string) (string, error) {
	b, ok := platformBase[goos]
	if !ok {
		b = defaultBase
	}
	if b.env != "" {
		if dir := os.Getenv(b.env); dir != "" {
			return dir, nil
		}
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("storage: locate home: %w", err)
	}
	return filepath.Join(append([]string{home}, b.fallback...)...), nil
}

func ensureDir(dir string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("storage: create %s: %w", dir, err)
	}
	return dir, nil
}

// GetDataDir returns the directory holding chesscore's files, creating it if
// needed. $CHESSCORE_HOME wins; otherwise the per-user data root of the
// platform is used (Application Support, %APPDATA%, or $XDG_DATA_HOME).
func GetDataDir() (string, error) {
	if home := os.Getenv(HomeEnv); home != "" {
		return ensureDir(home)
	}
	base, err := baseDir(runtime.GOOS)
	if err != nil {
		return "", err
	}
	return ensureDir(filepath.Join(base, appName))
}

// GetDatabaseDir returns the badger directory under the data directory.
func GetDatabaseDir() (string, error) {
	dataDir, err := GetDataDir()
	if err != nil {
		return "", err
	}
	return ensureDir(filepath.Join(dataDir, "perft"))
}
