package fsutil

import (
	"context"
	"errors"
	"fmt"
	"os"
)

// BackupSuffix turns page.md into page.md.backlogmd.bak.
const BackupSuffix = ".backlogmd.bak"

func BackupPath(path string) string {
	return path + BackupSuffix
}

// CreateBackup copies path to BackupPath(path) and reports whether it did.
// Nothing is copied when path does not exist or a backup is already there;
// the oldest replaced output is the one kept.
func CreateBackup(ctx context.Context, path string) (bool, error) {
	if err := ctxErr(ctx, "create backup"); err != nil {
		return false, err
	}
	if BackupExists(path) {
		return false, nil
	}

	content, info, err := ReadFile(ctx, path)
	switch {
	case errors.Is(err, ErrNotFound):
		return false, nil
	case err != nil:
		return false, fmt.Errorf("read output for backup: %w", err)
	}

	if err := WriteAtomic(ctx, BackupPath(path), content, info.Mode.Perm()); err != nil {
		return false, fmt.Errorf("write backup: %w", err)
	}
	return true, nil
}

// BackupExists reports whether anything sits at BackupPath(path).
func BackupExists(path string) bool {
	_, err := os.Lstat(BackupPath(path))
	return err == nil
}
