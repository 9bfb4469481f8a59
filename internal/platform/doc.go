// Package platform wraps the filesystem primitives adapters build on:
// symlink creation with a Windows copy fallback, recursive directory copy,
// and lstat-based path kind inspection.
package platform
