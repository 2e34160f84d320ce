// Package file provides a file-based Medium that stores each key as a JSON file under a root directory.
package file

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

// Medium implements persistence.Medium using the file system.
type Medium struct {
	root string
}

// NewMedium creates a new file medium rooted at root. A file:// prefix is accepted.
func NewMedium(root string) *Medium {
	return &Medium{root: strings.Replace(root, "file://", "", 1)}
}

func (m *Medium) path(key string) string {
	return filepath.Join(m.root, "state", url.PathEscape(key)+".json")
}

// Get reads the value stored under key.
func (m *Medium) Get(_ context.Context, key string) (string, bool, error) {
	body, err := os.ReadFile(m.path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return "", false, nil
		}

		return "", false, fmt.Errorf("failed to read %s: %w", key, err)
	}

	return string(body), true, nil
}

// Set writes the value atomically: the new content is written to a temp file and renamed over the old one.
func (m *Medium) Set(_ context.Context, key, value string) error {
	dir := filepath.Join(m.root, "state")

	err := os.MkdirAll(dir, 0750)
	if err != nil {
		return fmt.Errorf("failed to create state directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file for %s: %w", key, err)
	}

	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.WriteString(value); err != nil {
		_ = tmp.Close()

		return fmt.Errorf("failed to write %s: %w", key, err)
	}

	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}

	if err := os.Rename(tmp.Name(), m.path(key)); err != nil {
		return fmt.Errorf("failed to store %s: %w", key, err)
	}

	return nil
}

// HealthCheck checks the root can hold state. A root that does not exist yet is
// healthy: the first Set creates it.
func (m *Medium) HealthCheck(_ context.Context) error {
	info, err := os.Stat(m.root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}

		return fmt.Errorf("failed to stat %s: %w", m.root, err)
	}

	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", m.root)
	}

	return nil
}

// Close performs any necessary cleanup. For file-based persistence, there is nothing to clean up.
func (m *Medium) Close(_ context.Context) error {
	return nil
}
