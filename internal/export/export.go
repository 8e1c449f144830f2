package export

import (
	"fmt"
	"os"
	"path/filepath"
)

// Save writes an export payload to <projectKey>-data.csv under dir and
// returns the path. The payload comes from the server as-is; it is never
// re-encoded locally.
func Save(dir, projectKey string, payload []byte) (string, error) {
	path := filepath.Join(dir, fmt.Sprintf("%s-data.csv", projectKey))
	if err := os.WriteFile(path, payload, 0o644); err != nil {
		return "", fmt.Errorf("write export file: %w", err)
	}
	return path, nil
}

// DefaultDir returns the directory exports are saved to.
func DefaultDir() (string, error) {
	return os.UserHomeDir()
}
