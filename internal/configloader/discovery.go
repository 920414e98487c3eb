package configloader

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

// appName names the backlogmd directory under the system and user config
// roots.
const appName = "backlogmd"

// ConfigPaths holds the config files found for one run. Empty fields mean
// no file was found at that layer.
type ConfigPaths struct {
	// System is /etc/backlogmd/config.yaml, or %ProgramData%\backlogmd on Windows.
	System string

	// User is $XDG_CONFIG_HOME/backlogmd/config.yaml.
	User string

	// Project is the nearest .backlogmd.yml at or above the working directory.
	Project string

	// Explicit is the file named by --config.
	Explicit string
}

//nolint:gochecknoglobals // Read-only lookup tables.
var (
	// projectConfigFiles are tried in order in each directory. JSON files
	// are read by the YAML decoder.
	projectConfigFiles = []string{".backlogmd.yml", ".backlogmd.yaml", ".backlogmd.json", "backlogmd.yml", "backlogmd.yaml"}

	// layerConfigFiles are tried in order in the system and user directories.
	layerConfigFiles = []string{"config.yaml", "config.yml"}

	// vcsRootMarkers end the upward project search.
	vcsRootMarkers = []string{".git", ".hg", ".svn"}
)

// DiscoverPaths finds the system, user and project config files for
// workDir. Missing files are not errors.
func DiscoverPaths(ctx context.Context, workDir string) (*ConfigPaths, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("discover config: %w", err)
	}

	project, err := FindProjectConfig(ctx, workDir)
	if err != nil {
		return nil, err
	}

	return &ConfigPaths{
		System:  firstFile(systemConfigDir(), layerConfigFiles),
		User:    firstFile(userConfigDir(), layerConfigFiles),
		Project: project,
	}, nil
}

func systemConfigDir() string {
	if runtime.GOOS != "windows" {
		return filepath.Join("/etc", appName)
	}
	root := os.Getenv("ProgramData")
	if root == "" {
		root = `C:\ProgramData`
	}
	return filepath.Join(root, appName)
}

// userConfigDir follows XDG on every platform.
func userConfigDir() string {
	root := os.Getenv("XDG_CONFIG_HOME")
	if root == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		root = filepath.Join(home, ".config")
	}
	return filepath.Join(root, appName)
}

// FindProjectConfig walks from startDir toward the filesystem root and
// returns the first project config file it sees. The walk ends without a
// result at a VCS root or the home directory.
func FindProjectConfig(ctx context.Context, startDir string) (string, error) {
	if startDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("get working directory: %w", err)
		}
		startDir = wd
	}

	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path: %w", err)
	}
	home, _ := os.UserHomeDir()

	for {
		if err := ctx.Err(); err != nil {
			return "", fmt.Errorf("find project config: %w", err)
		}

		if path := firstFile(dir, projectConfigFiles); path != "" {
			return path, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir || dir == home || isVCSRoot(dir) {
			return "", nil
		}
		dir = parent
	}
}

// firstFile returns the first of names that is a regular file in dir.
func firstFile(dir string, names []string) string {
	if dir == "" {
		return ""
	}
	for _, name := range names {
		path := filepath.Join(dir, name)
		if info, err := os.Stat(path); err == nil && info.Mode().IsRegular() {
			return path
		}
	}
	return ""
}

func isVCSRoot(dir string) bool {
	for _, marker := range vcsRootMarkers {
		if info, err := os.Stat(filepath.Join(dir, marker)); err == nil && info.IsDir() {
			return true
		}
	}
	return false
}
