package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

const exportDirPermissions = 0750

// ExportUsers writes every user, passwords included, as indented JSON to
// the configured export path and returns that path. A previous export is
// replaced atomically: readers see either the old file or the new one.
func (s *Store) ExportUsers(ctx context.Context) (string, error) {
	users, err := s.ListUsers(ctx)
	if err != nil {
		return "", err
	}

	data, err := json.MarshalIndent(users, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encoding users: %w", err)
	}

	path := s.cfg.ExportPath
	if err := writeFileAtomic(path, data); err != nil {
		return "", fmt.Errorf("writing export: %w", err)
	}

	s.logger.Info("users exported", "path", path, "count", len(users))
	return path, nil
}

// writeFileAtomic writes data to a temp file (mode 0600) beside path and
// renames it into place.
func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, exportDirPermissions); err != nil {
		return fmt.Errorf("creating export directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()        //nolint:errcheck // already failing
		os.Remove(tmpName) //nolint:errcheck // best effort cleanup
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName) //nolint:errcheck // best effort cleanup
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName) //nolint:errcheck // best effort cleanup
		return fmt.Errorf("replacing export file: %w", err)
	}
	return nil
}
