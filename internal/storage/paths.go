// Package storage provides persistent storage for preferences, game records
// and statistics.
package storage

import (
	"os"
	"path/filepath"
	"runtime"
)

const appName = "chessness"

// userDataHome returns the per-user directory applications keep data in.
func userDataHome() (string, error) {
	switch runtime.GOOS {
	case "windows":
		if dir := os.Getenv("APPDATA"); dir != "" {
			return dir, nil
		}
	case "darwin":
	default:
		if dir := os.Getenv("XDG_DATA_HOME"); dir != "" {
			return dir, nil
		}
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(home, "AppData", "Roaming"), nil
	case "darwin":
		return filepath.Join(home, "Library", "Application Support"), nil
	default:
		return filepath.Join(home, ".local", "share"), nil
	}
}

// appDir returns a directory under the application data directory,
// creating it if needed.
func appDir(elem ...string) (string, error) {
	base, err := userDataHome()
	if err != nil {
		return "", err
	}
	dir := filepath.Join(append([]string{base, appName}, elem...)...)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	return dir, nil
}

// GetDataDir returns the application data directory.
func GetDataDir() (string, error) {
	return appDir()
}

// GetDatabaseDir returns the badger directory inside the data directory.
func GetDatabaseDir() (string, error) {
	return appDir("db")
}
