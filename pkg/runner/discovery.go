package runner

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// Source is a discovered source file.
type Source struct {
	// Path is the absolute path of the file.
	Path string

	// Rel is the path relative to the input root it was found under. It is
	// the file name for files given directly, and is mirrored below
	// OutputDir.
	Rel string
}

// walker collects sources below one or more roots.
type walker struct {
	ctx            context.Context //nolint:containedctx // Scoped to one Discover call.
	workDir        string
	extensions     []string
	ignores        *ignoreSet
	followSymlinks bool
}

// Discover expands opts.Paths into source files, sorted by path. Hidden
// files and directories are skipped during walks, as is anything an ignore
// pattern matches. A file named directly is taken whatever its extension.
func Discover(ctx context.Context, opts Options) ([]Source, error) {
	workDir, err := resolveWorkDir(opts.WorkingDir)
	if err != nil {
		return nil, fmt.Errorf("resolve working directory: %w", err)
	}
	ignores, err := compileIgnores(opts.ExcludeGlobs)
	if err != nil {
		return nil, err
	}

	w := &walker{
		ctx:            ctx,
		workDir:        workDir,
		extensions:     opts.effectiveExtensions(),
		ignores:        ignores,
		followSymlinks: opts.FollowSymlinks,
	}

	byPath := make(map[string]Source)
	for _, input := range opts.effectivePaths() {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("discovery cancelled: %w", err)
		}

		path := input
		if !filepath.IsAbs(path) {
			path = filepath.Join(workDir, path)
		}
		path = filepath.Clean(path)

		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", input, err)
		}

		var found []Source
		switch {
		case info.IsDir():
			if found, err = w.walk(path, ""); err != nil {
				return nil, err
			}
		case !w.excluded(path):
			found = []Source{{Path: path, Rel: filepath.Base(path)}}
		}

		// The first input to reach a file decides its Rel.
		for _, src := range found {
			if _, dup := byPath[src.Path]; !dup {
				byPath[src.Path] = src
			}
		}
	}

	sources := slices.Collect(maps.Values(byPath))
	slices.SortFunc(sources, func(a, b Source) int { return strings.Compare(a.Path, b.Path) })
	return sources, nil
}

func resolveWorkDir(workDir string) (string, error) {
	if workDir == "" {
		return os.Getwd()
	}
	return filepath.Abs(workDir)
}

// walk returns the sources below root. relBase prefixes their Rel paths,
// which lets a followed directory symlink keep the link's position in the
// mirrored output tree.
func (w *walker) walk(root, relBase string) ([]Source, error) {
	var sources []Source

	err := filepath.WalkDir(root, func(path string, entry fs.DirEntry, walkErr error) error {
		if err := w.ctx.Err(); err != nil {
			return err
		}
		if walkErr != nil {
			if errors.Is(walkErr, fs.ErrPermission) {
				return nil
			}
			return walkErr
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			rel = entry.Name()
		}
		rel = filepath.Join(relBase, rel)
		hidden := strings.HasPrefix(entry.Name(), ".")

		if entry.IsDir() {
			if path != root && (hidden || w.excluded(path)) {
				return filepath.SkipDir
			}
			return nil
		}

		if entry.Type()&fs.ModeSymlink != 0 {
			info, err := os.Stat(path)
			if err != nil {
				return nil //nolint:nilerr // Broken links are skipped.
			}
			if info.IsDir() {
				if !w.followSymlinks {
					return nil
				}
				// WalkDir does not descend through a symlinked root on its
				// own, so walk the resolved target.
				resolved, err := filepath.EvalSymlinks(path)
				if err != nil {
					return nil //nolint:nilerr // Broken links are skipped.
				}
				sub, err := w.walk(resolved, rel)
				if err != nil {
					return err
				}
				sources = append(sources, sub...)
				return nil
			}
		}

		if !hidden && hasMatchingExtension(path, w.extensions) && !w.excluded(path) {
			sources = append(sources, Source{Path: path, Rel: rel})
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk directory %s: %w", root, err)
	}
	return sources, nil
}

// excluded matches path, relative to the working directory, against the
// ignore patterns.
func (w *walker) excluded(path string) bool {
	rel, err := filepath.Rel(w.workDir, path)
	if err != nil {
		rel = path
	}
	return w.ignores.match(rel)
}

func hasMatchingExtension(path string, extensions []string) bool {
	ext := filepath.Ext(path)
	return slices.ContainsFunc(extensions, func(e string) bool { return strings.EqualFold(e, ext) })
}
