package fsutil

import (
	"context"
	"errors"
	"fmt"
	"os"
)

// DefaultBackupSuffix is appended to the original path.
const DefaultBackupSuffix = ".rubynest.bak"

// BackupPolicy controls backups made before rewriting a file.
type BackupPolicy struct {
	Enabled bool

	// Suffix is appended to the original path. Empty means
	// DefaultBackupSuffix.
	Suffix string
}

// PathFor returns the backup path of path.
func (p BackupPolicy) PathFor(path string) string {
	if p.Suffix == "" {
		return path + DefaultBackupSuffix
	}
	return path + p.Suffix
}

// Backup saves the content of src next to it. An existing backup is kept,
// so repeated runs never lose the first original. It returns the backup
// path.
func Backup(ctx context.Context, src *Source, policy BackupPolicy) (string, error) {
	path := policy.PathFor(src.Path)

	_, err := os.Stat(path)
	switch {
	case err == nil:
		return path, nil
	case !errors.Is(err, os.ErrNotExist):
		return "", fmt.Errorf("stat backup %s: %w", path, err)
	}

	if err := WriteAtomic(ctx, path, src.Content, src.Mode); err != nil {
		return "", fmt.Errorf("write backup: %w", err)
	}
	return path, nil
}

// Restore copies the backup of path back over it and removes the backup.
// It returns false when there is no backup.
func Restore(ctx context.Context, path string, policy BackupPolicy) (bool, error) {
	backupPath := policy.PathFor(path)
	backup, err := Read(ctx, backupPath)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	if err := WriteAtomic(ctx, path, backup.Content, backup.Mode); err != nil {
		return false, fmt.Errorf("restore %s: %w", path, err)
	}
	if err := os.Remove(backupPath); err != nil {
		return true, fmt.Errorf("remove backup: %w", err)
	}
	return true, nil
}
