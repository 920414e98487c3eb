package runner

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/gobwas/glob"
)

// ignoreSet holds compiled exclude patterns. Patterns are matched against
// slash-separated paths relative to the working directory:
//
//   - a pattern without a slash ("*.bak", "drafts") matches any path component
//   - "dir/**" matches dir and everything below it
//   - "**/name" also matches name at the top level
type ignoreSet struct {
	anywhere []glob.Glob
	rooted   []glob.Glob
}

func compileIgnores(patterns []string) (*ignoreSet, error) {
	set := &ignoreSet{}
	for _, raw := range patterns {
		pattern := strings.TrimSuffix(strings.TrimPrefix(filepath.ToSlash(raw), "./"), "/")
		if pattern == "" {
			continue
		}

		if !strings.Contains(pattern, "/") {
			g, err := glob.Compile(pattern, '/')
			if err != nil {
				return nil, fmt.Errorf("invalid ignore pattern %q: %w", raw, err)
			}
			set.anywhere = append(set.anywhere, g)
			continue
		}

		variants := []string{pattern}
		if rest, ok := strings.CutPrefix(pattern, "**/"); ok {
			variants = append(variants, rest)
		}
		if dir, ok := strings.CutSuffix(pattern, "/**"); ok {
			variants = append(variants, dir)
		}
		for _, variant := range variants {
			g, err := glob.Compile(variant, '/')
			if err != nil {
				return nil, fmt.Errorf("invalid ignore pattern %q: %w", raw, err)
			}
			set.rooted = append(set.rooted, g)
		}
	}
	return set, nil
}

// match reports whether the relative path rel is excluded.
func (s *ignoreSet) match(rel string) bool {
	if s == nil {
		return false
	}
	rel = filepath.ToSlash(rel)

	for _, g := range s.rooted {
		if g.Match(rel) {
			return true
		}
	}
	if len(s.anywhere) == 0 {
		return false
	}
	for _, part := range strings.Split(rel, "/") {
		for _, g := range s.anywhere {
			if g.Match(part) {
				return true
			}
		}
	}
	return false
}
