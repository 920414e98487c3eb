package fsutil

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

const (
	// DefaultFileMode is the permission mode for newly written outputs.
	DefaultFileMode os.FileMode = 0o644

	// DefaultDirMode is the permission mode for created output directories.
	DefaultDirMode os.FileMode = 0o755
)

// ctxErr wraps the context error, if any, with the operation name.
func ctxErr(ctx context.Context, op string) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// WriteAtomic replaces path with content. The bytes go to a temp file next
// to path which is synced, chmodded and renamed over the target, so a
// reader sees either the old Markdown or the new one. Missing parent
// directories are created. A zero mode means DefaultFileMode.
func WriteAtomic(ctx context.Context, path string, content []byte, mode os.FileMode) error {
	if err := ctxErr(ctx, "write atomic"); err != nil {
		return err
	}
	if mode == 0 {
		mode = DefaultFileMode
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, DefaultDirMode); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	tmpPath, err := writeTemp(dir, filepath.Base(path), content, mode)
	if err != nil {
		return err
	}

	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}

// writeTemp stores content in a new temp file in dir and returns its path.
// The temp file is removed on any failure.
func writeTemp(dir, base string, content []byte, mode os.FileMode) (_ string, err error) {
	tmp, err := os.CreateTemp(dir, "."+base+".*.tmp")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
		}
	}()

	if _, err = tmp.Write(content); err != nil {
		return "", fmt.Errorf("write temp file: %w", err)
	}
	if err = tmp.Sync(); err != nil {
		return "", fmt.Errorf("sync temp file: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return "", fmt.Errorf("close temp file: %w", err)
	}
	if err = os.Chmod(tmp.Name(), mode); err != nil {
		return "", fmt.Errorf("chmod temp file: %w", err)
	}
	return tmp.Name(), nil
}

// WriteAtomicIfChanged calls WriteAtomic unless path already holds exactly
// content. It reports whether the file was written.
func WriteAtomicIfChanged(ctx context.Context, path string, content []byte, mode os.FileMode) (bool, error) {
	if err := ctxErr(ctx, "write atomic"); err != nil {
		return false, err
	}

	same, err := holds(path, content)
	if err != nil {
		return false, err
	}
	if same {
		return false, nil
	}

	if err := WriteAtomic(ctx, path, content, mode); err != nil {
		return false, err
	}
	return true, nil
}

// holds reports whether the file at path has exactly content. A missing
// file holds nothing.
func holds(path string, content []byte) (bool, error) {
	stat, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("stat existing: %w", err)
	}
	if stat.Size() != int64(len(content)) {
		return false, nil
	}

	existing, err := os.ReadFile(path)
	if err != nil {
		return false, fmt.Errorf("read existing: %w", err)
	}
	return bytes.Equal(existing, content), nil
}
