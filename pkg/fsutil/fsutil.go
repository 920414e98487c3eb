// Package fsutil holds the file primitives backlogmd uses to read Backlog
// sources and write Markdown outputs: snapshot reads, modification checks,
// atomic writes, and sidecar backups of outputs that are about to be replaced.
package fsutil

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"
)

// Sentinel errors for use with errors.Is.
var (
	ErrNilFileInfo      = errors.New("nil FileInfo")
	ErrNotFound         = errors.New("file not found")
	ErrPermissionDenied = errors.New("permission denied")
	ErrIsDirectory      = errors.New("path is a directory")
)

// FileInfo is a snapshot of a source file taken when it was read. The runner
// compares it again before writing so that a source edited mid-conversion is
// reported instead of converted from stale bytes.
type FileInfo struct {
	Path    string
	Mode    os.FileMode
	ModTime time.Time
	Size    int64

	// Hash is the SHA-256 of the content that was read.
	Hash [sha256.Size]byte
}

// ReadFile reads a source file together with its snapshot.
func ReadFile(ctx context.Context, path string) ([]byte, *FileInfo, error) {
	if err := ctxErr(ctx, "read file"); err != nil {
		return nil, nil, err
	}

	stat, err := os.Stat(path)
	if err != nil {
		return nil, nil, classify("stat", path, err)
	}
	if stat.IsDir() {
		return nil, nil, fmt.Errorf("%w: %s", ErrIsDirectory, path)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, classify("read", path, err)
	}

	return content, &FileInfo{
		Path:    path,
		Mode:    stat.Mode(),
		ModTime: stat.ModTime(),
		Size:    stat.Size(),
		Hash:    sha256.Sum256(content),
	}, nil
}

// classify tags not-found and permission errors with the package sentinels.
func classify(op, path string, err error) error {
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return fmt.Errorf("%w: %s: %w", ErrNotFound, path, err)
	case errors.Is(err, fs.ErrPermission):
		return fmt.Errorf("%w: %s: %w", ErrPermissionDenied, path, err)
	default:
		return fmt.Errorf("%s %s: %w", op, path, err)
	}
}

// CheckModified reports whether the file changed since info was taken. A
// deleted file counts as modified. When size and mod time still match the
// content is hashed again.
func CheckModified(ctx context.Context, info *FileInfo) (bool, error) {
	if info == nil {
		return false, ErrNilFileInfo
	}
	if err := ctxErr(ctx, "check modified"); err != nil {
		return false, err
	}

	stat, err := os.Stat(info.Path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return true, nil
	case err != nil:
		return false, fmt.Errorf("stat %s: %w", info.Path, err)
	case stat.Size() != info.Size, !stat.ModTime().Equal(info.ModTime):
		return true, nil
	}

	content, err := os.ReadFile(info.Path)
	if err != nil {
		return false, fmt.Errorf("read %s: %w", info.Path, err)
	}
	return sha256.Sum256(content) != info.Hash, nil
}

// Exists reports whether path names an existing file or directory.
func Exists(path string) (bool, error) {
	_, err := os.Stat(path)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, fs.ErrNotExist):
		return false, nil
	default:
		return false, fmt.Errorf("stat %s: %w", path, err)
	}
}
