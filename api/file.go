// Package api contains the API types and file helpers shared by the
// verifier's configuration kinds.
package api

import (
	"fmt"
	"os"
)

// ReadFile reads a regular file from disk. Errors from stat are wrapped, so
// callers can test for [os.ErrNotExist] and [os.ErrPermission].
func ReadFile(path string) ([]byte, error) {
	pathInfo, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat file: %w", err)
	}

	if pathInfo.IsDir() {
		return nil, fmt.Errorf("%s: path is a directory", path)
	}

	if !pathInfo.Mode().IsRegular() {
		return nil, fmt.Errorf("%s: unknown file state", path)
	}

	data, err := os.ReadFile(path) //nolint:gosec // G304: Potential file inclusion via variable.
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	return data, nil
}
