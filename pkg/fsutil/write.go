package fsutil

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// DefaultFileMode is used for new files.
const DefaultFileMode os.FileMode = 0o644

// WriteAtomic writes content to a temporary file next to path and renames
// it into place. A zero mode means DefaultFileMode. On failure the
// original file is untouched.
func WriteAtomic(ctx context.Context, path string, content []byte, mode os.FileMode) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	if mode == 0 {
		mode = DefaultFileMode
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp.*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	done := false
	defer func() {
		if !done {
			_ = tmp.Close()
			_ = os.Remove(tmpPath)
		}
	}()

	if _, err := tmp.Write(content); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Chmod(tmpPath, mode); err != nil {
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("rename temp file: %w", err)
	}

	done = true
	return nil
}

// ReplaceResult reports what Replace did.
type ReplaceResult struct {
	Written    bool
	BackupPath string
}

// Replace writes content over src.Path when it differs from what was read.
// It fails with ErrModified if the file changed in the meantime and backs
// the original up first when the policy asks for it.
func Replace(ctx context.Context, src *Source, content []byte, policy BackupPolicy) (ReplaceResult, error) {
	var result ReplaceResult
	if string(content) == string(src.Content) {
		return result, nil
	}

	changed, err := src.Changed(ctx)
	if err != nil {
		return result, err
	}
	if changed {
		return result, fmt.Errorf("%w: %s", ErrModified, src.Path)
	}

	if policy.Enabled {
		backup, err := Backup(ctx, src, policy)
		if err != nil {
			return result, err
		}
		result.BackupPath = backup
	}

	if err := WriteAtomic(ctx, src.Path, content, src.Mode); err != nil {
		return result, err
	}
	result.Written = true
	return result, nil
}
