package configloader

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

// ConfigPaths holds the configuration files found for one invocation. An
// empty field means no file exists at that level.
type ConfigPaths struct {
	System   string // /etc/rubynest/config.yaml
	User     string // $XDG_CONFIG_HOME/rubynest/config.yaml
	Project  string // nearest .rubynest.yml above the working directory
	Explicit string // --config
}

// Names tried in a project directory, best first. JSON is YAML, so
// .rubynest.json needs no separate parser.
//
//nolint:gochecknoglobals // Read-only lookup table.
var projectNames = []string{
	".rubynest.yml",
	".rubynest.yaml",
	"rubynest.yml",
	"rubynest.yaml",
	".rubynest.json",
}

// Names tried in the system and user configuration directories.
//
//nolint:gochecknoglobals // Read-only lookup table.
var globalNames = []string{"config.yaml", "config.yml"}

// A directory holding one of these ends the upward project search.
//
//nolint:gochecknoglobals // Read-only lookup table.
var repoMarkers = []string{".git", ".hg", ".svn"}

const appDir = "rubynest"

// DiscoverPaths locates the system, user and project configuration files
// for workDir.
func DiscoverPaths(ctx context.Context, workDir string) (*ConfigPaths, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context cancelled: %w", err)
	}

	project, err := FindProjectConfig(ctx, workDir)
	if err != nil {
		return nil, err
	}

	paths := &ConfigPaths{Project: project}
	if dir := systemDir(); dir != "" {
		paths.System = firstFile(dir, globalNames)
	}
	if dir := userDir(); dir != "" {
		paths.User = firstFile(dir, globalNames)
	}
	return paths, nil
}

func systemDir() string {
	if runtime.GOOS != "windows" {
		return filepath.Join("/etc", appDir)
	}
	root := os.Getenv("ProgramData")
	if root == "" {
		root = `C:\ProgramData`
	}
	return filepath.Join(root, appDir)
}

func userDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, appDir)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", appDir)
}

// FindProjectConfig walks from startDir towards the filesystem root and
// returns the first project configuration file, or "" when there is none.
// The walk ends early at a repository root or the home directory.
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
			return "", fmt.Errorf("context cancelled: %w", err)
		}
		if found := firstFile(dir, projectNames); found != "" {
			return found, nil
		}
		if dir == home || hasRepoMarker(dir) {
			return "", nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", nil
		}
		dir = parent
	}
}

// firstFile returns the first of names that is a regular file in dir.
func firstFile(dir string, names []string) string {
	for _, name := range names {
		path := filepath.Join(dir, name)
		if info, err := os.Stat(path); err == nil && info.Mode().IsRegular() {
			return path
		}
	}
	return ""
}

func hasRepoMarker(dir string) bool {
	for _, marker := range repoMarkers {
		if info, err := os.Stat(filepath.Join(dir, marker)); err == nil && info.IsDir() {
			return true
		}
	}
	return false
}
