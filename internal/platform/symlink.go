package platform

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// sidecarSuffix names the file recording a symlink target when Windows
// forced a copy fallback.
const sidecarSuffix = ".aisync-target"

// CreateSymlink creates a symbolic link at link pointing to target.
// On Unix systems, this uses os.Symlink directly.
// On Windows, it attempts os.Symlink first (requires developer mode),
// then falls back to copying the target and writing a sidecar file so
// ReadSymlinkTarget can still recognize the link's origin.
func CreateSymlink(target, link string) error {
	if runtime.GOOS != "windows" {
		return os.Symlink(target, link)
	}

	if err := os.Symlink(target, link); err == nil {
		return nil
	}

	resolved := target
	if !filepath.IsAbs(target) {
		resolved = filepath.Join(filepath.Dir(link), target)
	}
	if err := CopyPath(resolved, link); err != nil {
		return fmt.Errorf("symlink fallback (copy) failed: %w", err)
	}

	// Non-fatal: the copy succeeded, the link just won't be recognized later.
	_ = os.WriteFile(link+sidecarSuffix, []byte(target), 0o644)
	return nil
}

// ReadSymlinkTarget returns the target of a symlink.
// On Windows, if os.Readlink fails because a copy fallback was used,
// it reads the sidecar file instead.
func ReadSymlinkTarget(path string) (string, error) {
	target, err := os.Readlink(path)
	if err == nil {
		return target, nil
	}

	if runtime.GOOS != "windows" {
		return "", err
	}

	data, readErr := os.ReadFile(path + sidecarSuffix)
	if readErr != nil {
		return "", fmt.Errorf("readlink failed and no sidecar found: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}

// ResolveSymlinkTarget returns the absolute, cleaned target of the link at path.
// Relative targets are resolved against the link's parent directory.
func ResolveSymlinkTarget(path string) (string, error) {
	target, err := ReadSymlinkTarget(path)
	if err != nil {
		return "", err
	}
	if !filepath.IsAbs(target) {
		target = filepath.Join(filepath.Dir(path), target)
	}
	return filepath.Clean(target), nil
}

// RemovePath removes whatever is at path: a symlink (never its target), a
// file, or a directory tree. A missing path is not an error.
func RemovePath(path string) error {
	info, err := os.Lstat(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}

	// Best-effort sidecar cleanup from a Windows fallback.
	_ = os.Remove(path + sidecarSuffix)

	if info.IsDir() {
		return os.RemoveAll(path)
	}
	return os.Remove(path)
}

// IsSymlinkSupported returns true if the current platform supports native symlinks.
// On Windows this attempts a test symlink to check developer mode.
func IsSymlinkSupported() bool {
	if runtime.GOOS != "windows" {
		return true
	}

	dir, err := os.MkdirTemp("", "aisync-symlink-test")
	if err != nil {
		return false
	}
	defer os.RemoveAll(dir)

	return os.Symlink(dir, filepath.Join(dir, "link")) == nil
}
