package adapter

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/roach88/aisync/internal/model"
	"github.com/roach88/aisync/internal/platform"
)

// FileAdapter implements Adapter for a system whose artifacts are plain files
// under a configuration directory.
type FileAdapter struct {
	layout Layout
}

var _ Adapter = (*FileAdapter)(nil)

// mcpFileAdapter adds MCP configuration access to layouts that declare a config file.
type mcpFileAdapter struct {
	*FileAdapter
}

var _ MCPServerAdapter = (*mcpFileAdapter)(nil)

// NewFileAdapter returns an adapter for layout. The result satisfies
// MCPServerAdapter when the layout has an MCP configuration file.
func NewFileAdapter(layout Layout) Adapter {
	fa := &FileAdapter{layout: layout}
	if layout.mcp != nil && layout.MCPConfig != "" {
		return &mcpFileAdapter{FileAdapter: fa}
	}
	return fa
}

func (f *FileAdapter) SystemID() model.SystemID { return f.layout.ID }

func (f *FileAdapter) Name() string { return f.layout.Name }

func (f *FileAdapter) Capabilities() model.Capabilities { return f.layout.Capabilities }

func (f *FileAdapter) Paths() Paths {
	return Paths{ConfigDir: f.layout.ConfigDir, MCPConfig: f.layout.MCPConfig}
}

// IsConfigured reports whether the configuration directory exists under root.
func (f *FileAdapter) IsConfigured(root string) bool {
	info, err := os.Stat(filepath.Join(root, f.layout.ConfigDir))
	return err == nil && info.IsDir()
}

// Initialize creates the configuration directory and the directory of every entry.
func (f *FileAdapter) Initialize(root string) error {
	base := filepath.Join(root, f.layout.ConfigDir)
	if err := os.MkdirAll(base, 0o755); err != nil {
		return fmt.Errorf("initialize %s: %w", f.layout.ID, err)
	}
	for _, e := range f.layout.Entries {
		if err := os.MkdirAll(filepath.Join(base, e.Dir), 0o755); err != nil {
			return fmt.Errorf("initialize %s: %w", f.layout.ID, err)
		}
	}
	return nil
}

// ArtifactPath returns where a is written, relative to the project root.
// Unsupported types resolve to "".
func (f *FileAdapter) ArtifactPath(a model.Artifact) string {
	if a.Type == model.TypeMCPServer {
		if f.layout.MCPConfig == "" {
			return ""
		}
		return MCPTargetPath(f.layout.MCPConfig, a.Name)
	}
	e, ok := f.layout.Entries[a.Type]
	if !ok {
		return ""
	}
	name := fileName(a.Name)
	if e.Bundle {
		return filepath.Join(f.layout.ConfigDir, e.Dir, name)
	}
	return filepath.Join(f.layout.ConfigDir, e.Dir, name+e.Suffix)
}

func (f *FileAdapter) ValidateArtifact(a model.Artifact) ValidationResult {
	return validateCommon(a, f.layout.Capabilities, f.layout.ID)
}

func (f *FileAdapter) TransformArtifact(a model.Artifact, opts TransformOptions) (model.Artifact, error) {
	return f.layout.transform(a, opts)
}

// ScanArtifacts lists the artifacts of the requested types under root.
// Results are ordered by type, then name.
func (f *FileAdapter) ScanArtifacts(root string, opts ScanOptions) ([]model.Artifact, error) {
	var out []model.Artifact

	for _, t := range model.AllTypes() {
		if !model.ContainsType(opts.Types, t) || !f.layout.Capabilities.Supports(t) {
			continue
		}

		if t == model.TypeMCPServer {
			servers, err := f.scanMCPServers(root)
			if err != nil {
				return nil, err
			}
			out = append(out, servers...)
			continue
		}

		e, ok := f.layout.Entries[t]
		if !ok {
			continue
		}
		found, err := f.scanEntry(root, t, e, opts)
		if err != nil {
			return nil, err
		}
		out = append(out, found...)
	}

	return out, nil
}

func (f *FileAdapter) scanEntry(root string, t model.ArtifactType, e Entry, opts ScanOptions) ([]model.Artifact, error) {
	dir := filepath.Join(root, f.layout.ConfigDir, e.Dir)
	if _, err := os.Stat(dir); errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}

	var out []model.Artifact

	if e.Bundle {
		entries, err := os.ReadDir(dir)
		if err != nil {
			return nil, fmt.Errorf("scan %s: %w", dir, err)
		}
		for _, de := range entries {
			if skipName(de.Name(), opts.IncludeHidden) {
				continue
			}
			path := filepath.Join(dir, de.Name())
			// Bundles reached through a symlink are still bundles.
			info, err := os.Stat(path)
			if err != nil || !info.IsDir() {
				continue
			}
			if _, err := os.Stat(filepath.Join(path, e.EntryFile)); err != nil {
				continue
			}
			a, err := f.readBundle(t, e, path)
			if err != nil {
				return nil, err
			}
			out = append(out, a)
		}
		sortArtifacts(out)
		return out, nil
	}

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path == dir {
			return nil
		}
		if skipName(d.Name(), opts.IncludeHidden) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			if !opts.Recursive {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.HasSuffix(d.Name(), e.Suffix) {
			return nil
		}
		a, err := f.readFile(t, e, dir, path)
		if err != nil {
			return err
		}
		out = append(out, a)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", dir, err)
	}
	sortArtifacts(out)
	return out, nil
}

// readFile parses a single-file artifact. Nested files are named by their
// slash-separated path below dir.
func (f *FileAdapter) readFile(t model.ArtifactType, e Entry, dir, path string) (model.Artifact, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return model.Artifact{}, fmt.Errorf("read %s: %w", path, err)
	}
	info, err := os.Stat(path)
	if err != nil {
		return model.Artifact{}, fmt.Errorf("stat %s: %w", path, err)
	}

	rel, err := filepath.Rel(dir, path)
	if err != nil {
		return model.Artifact{}, err
	}
	name := strings.TrimSuffix(filepath.ToSlash(rel), e.Suffix)

	a, err := f.newArtifact(t, name, string(data))
	if err != nil {
		return model.Artifact{}, fmt.Errorf("%s: %w", path, err)
	}
	a.SourcePath = path
	a.LastModified = info.ModTime().UTC()
	return a, nil
}

// readBundle parses a directory artifact. Its checksum covers every file in
// the directory so edits to supporting files count as drift.
func (f *FileAdapter) readBundle(t model.ArtifactType, e Entry, dir string) (model.Artifact, error) {
	files, err := platform.ReadTree(dir)
	if err != nil {
		return model.Artifact{}, err
	}
	entry, ok := files[e.EntryFile]
	if !ok {
		return model.Artifact{}, fmt.Errorf("%s: missing %s", dir, e.EntryFile)
	}

	a, err := f.newArtifact(t, filepath.Base(dir), string(entry))
	if err != nil {
		return model.Artifact{}, fmt.Errorf("%s: %w", dir, err)
	}
	a.SourcePath = dir
	a.Checksum = model.ChecksumFiles(files)
	if len(files) > 1 {
		a.Metadata["files"] = len(files)
	}

	if info, err := os.Stat(filepath.Join(dir, e.EntryFile)); err == nil {
		a.LastModified = info.ModTime().UTC()
	}
	return a, nil
}

// newArtifact builds an artifact from file content. The file name is the
// artifact name; frontmatter supplies the description and metadata.
func (f *FileAdapter) newArtifact(t model.ArtifactType, name, content string) (model.Artifact, error) {
	fm, _, err := ParseFrontmatter(content)
	if err != nil {
		return model.Artifact{}, err
	}
	a := model.NewArtifact(f.layout.ID, t, name, content)
	a.Description = stringField(fm, "description")
	for k, v := range fm {
		if k != "description" {
			a.Metadata[k] = v
		}
	}
	return a, nil
}

func (f *FileAdapter) scanMCPServers(root string) ([]model.Artifact, error) {
	if f.layout.mcp == nil || f.layout.MCPConfig == "" {
		return nil, nil
	}
	path := filepath.Join(root, f.layout.MCPConfig)
	servers, _, err := readMCPConfig(f.layout.mcp, path)
	if err != nil {
		return nil, err
	}

	var modified os.FileInfo
	if len(servers) > 0 {
		modified, _ = os.Stat(path)
	}

	out := make([]model.Artifact, 0, len(servers))
	for _, s := range servers {
		a, err := model.MCPServerArtifact(f.layout.ID, s, path)
		if err != nil {
			return nil, err
		}
		if modified != nil {
			a.LastModified = modified.ModTime().UTC()
		}
		out = append(out, a)
	}
	return out, nil
}

// ReadArtifact parses the artifact at path, which may be absolute or relative
// to root. It returns nil when path is not one of this system's artifact locations
// or does not exist.
func (f *FileAdapter) ReadArtifact(root, path string) (*model.Artifact, error) {
	path = absPath(root, path)

	if cfg, name, ok := f.mcpEntry(root, path); ok {
		servers, _, err := readMCPConfig(f.layout.mcp, cfg)
		if err != nil {
			return nil, err
		}
		for _, s := range servers {
			if s.Name == name {
				a, err := model.MCPServerArtifact(f.layout.ID, s, cfg)
				if err != nil {
					return nil, err
				}
				return &a, nil
			}
		}
		return nil, nil
	}

	for _, t := range model.AllTypes() {
		e, ok := f.layout.Entries[t]
		if !ok {
			continue
		}
		dir := filepath.Join(root, f.layout.ConfigDir, e.Dir)
		rel, err := filepath.Rel(dir, path)
		if err != nil || rel == "." || strings.HasPrefix(rel, "..") {
			continue
		}

		if e.Bundle {
			bundle := filepath.Join(dir, strings.SplitN(filepath.ToSlash(rel), "/", 2)[0])
			if _, err := os.Stat(filepath.Join(bundle, e.EntryFile)); err != nil {
				return nil, nil
			}
			a, err := f.readBundle(t, e, bundle)
			if err != nil {
				return nil, err
			}
			return &a, nil
		}

		if !strings.HasSuffix(path, e.Suffix) {
			continue
		}
		if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		a, err := f.readFile(t, e, dir, path)
		if err != nil {
			return nil, err
		}
		return &a, nil
	}
	return nil, nil
}

// WriteArtifact writes a to its destination and returns the absolute path.
//
// Single-file artifacts are written from Content. Bundles are copied from the
// source directory when SourcePath is one, otherwise only the entry file is
// written. With UseSymlink the destination becomes a link to SymlinkTarget.
func (f *FileAdapter) WriteArtifact(root string, a model.Artifact, opts WriteOptions) (string, error) {
	if a.Type == model.TypeMCPServer {
		return f.writeMCPServer(root, a, opts)
	}

	e, ok := f.layout.Entries[a.Type]
	if !ok {
		return "", fmt.Errorf("%s: write %s: %w", f.layout.ID, a.Type, ErrUnsupportedType)
	}

	rel := opts.TargetPath
	if rel == "" {
		rel = f.ArtifactPath(a)
	}
	dest := absPath(root, rel)

	kind, err := platform.Inspect(dest)
	if err != nil {
		return "", err
	}
	if kind != platform.KindAbsent {
		if !opts.Overwrite {
			return "", fmt.Errorf("%s: %w", dest, ErrDestinationExists)
		}
		if err := platform.RemovePath(dest); err != nil {
			return "", fmt.Errorf("remove %s: %w", dest, err)
		}
	}

	parent := filepath.Dir(dest)
	if opts.CreateDirectories {
		if err := os.MkdirAll(parent, 0o755); err != nil {
			return "", fmt.Errorf("create %s: %w", parent, err)
		}
	} else if _, err := os.Stat(parent); err != nil {
		return "", fmt.Errorf("%s: %w", parent, ErrNotConfigured)
	}

	if opts.UseSymlink {
		if !f.layout.Capabilities.SymlinksSupported {
			return "", fmt.Errorf("%s does not support symlinks", f.layout.ID)
		}
		if opts.SymlinkTarget == "" {
			return "", fmt.Errorf("symlink %s: no target", dest)
		}
		if err := platform.CreateSymlink(opts.SymlinkTarget, dest); err != nil {
			return "", fmt.Errorf("symlink %s: %w", dest, err)
		}
		return dest, nil
	}

	if e.Bundle {
		if err := writeBundle(a, e, dest); err != nil {
			return "", err
		}
		return dest, nil
	}

	if err := os.WriteFile(dest, []byte(a.Content), 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", dest, err)
	}
	return dest, nil
}

func writeBundle(a model.Artifact, e Entry, dest string) error {
	if a.SourcePath != "" {
		if info, err := os.Stat(a.SourcePath); err == nil && info.IsDir() {
			if err := platform.CopyDir(a.SourcePath, dest); err != nil {
				return fmt.Errorf("copy %s: %w", a.SourcePath, err)
			}
			return nil
		}
	}
	if err := os.MkdirAll(dest, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", dest, err)
	}
	entry := filepath.Join(dest, e.EntryFile)
	if err := os.WriteFile(entry, []byte(a.Content), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", entry, err)
	}
	return nil
}

func (f *FileAdapter) writeMCPServer(root string, a model.Artifact, opts WriteOptions) (string, error) {
	if f.layout.mcp == nil || f.layout.MCPConfig == "" {
		return "", fmt.Errorf("%s: write mcp server: %w", f.layout.ID, ErrUnsupportedType)
	}
	server, err := model.ParseMCPServer(a.Name, a.Content)
	if err != nil {
		return "", err
	}

	path := filepath.Join(root, f.layout.MCPConfig)
	servers, existing, err := readMCPConfig(f.layout.mcp, path)
	if err != nil {
		return "", err
	}

	replaced := false
	for i, s := range servers {
		if s.Name == server.Name {
			if !opts.Overwrite {
				return "", fmt.Errorf("%s: %w", MCPTargetPath(path, server.Name), ErrDestinationExists)
			}
			servers[i] = server
			replaced = true
		}
	}
	if !replaced {
		servers = append(servers, server)
	}

	if err := writeMCPConfig(f.layout.mcp, path, existing, servers); err != nil {
		return "", err
	}
	return MCPTargetPath(path, server.Name), nil
}

// DeleteArtifact removes the artifact at path: a file, a directory, a symlink
// (never its target), or one server entry of the MCP configuration file.
// Deleting something already gone is not an error.
func (f *FileAdapter) DeleteArtifact(root, path string) error {
	path = absPath(root, path)

	if cfg, name, ok := f.mcpEntry(root, path); ok {
		servers, existing, err := readMCPConfig(f.layout.mcp, cfg)
		if err != nil {
			return err
		}
		if existing == nil {
			return nil
		}
		kept := servers[:0]
		for _, s := range servers {
			if s.Name != name {
				kept = append(kept, s)
			}
		}
		if len(kept) == len(servers) {
			return nil
		}
		return writeMCPConfig(f.layout.mcp, cfg, existing, kept)
	}

	base := filepath.Join(root, f.layout.ConfigDir)
	if rel, err := filepath.Rel(base, path); err != nil || strings.HasPrefix(rel, "..") {
		return fmt.Errorf("delete %s: outside %s", path, base)
	}
	if err := platform.RemovePath(path); err != nil {
		return fmt.Errorf("delete %s: %w", path, err)
	}
	return nil
}

func (m *mcpFileAdapter) ReadMCPServers(root string) ([]model.MCPServer, error) {
	servers, _, err := readMCPConfig(m.layout.mcp, filepath.Join(root, m.layout.MCPConfig))
	return servers, err
}

// WriteMCPServers replaces the whole server section of the configuration file.
func (m *mcpFileAdapter) WriteMCPServers(root string, servers []model.MCPServer) error {
	path := filepath.Join(root, m.layout.MCPConfig)
	_, existing, err := readMCPConfig(m.layout.mcp, path)
	if err != nil {
		return err
	}
	return writeMCPConfig(m.layout.mcp, path, existing, servers)
}

// mcpEntry reports whether path names a server inside this system's MCP
// configuration file. Any other path is an ordinary file, even when its
// name contains the fragment separator.
func (f *FileAdapter) mcpEntry(root, path string) (cfg, name string, ok bool) {
	if f.layout.mcp == nil {
		return "", "", false
	}
	cfg = absPath(root, f.layout.MCPConfig)
	name, ok = strings.CutPrefix(path, cfg+mcpFragmentSep)
	if !ok || name == "" {
		return "", "", false
	}
	return cfg, name, true
}

func absPath(root, path string) string {
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	return filepath.Join(root, path)
}

// fileName keeps nested names ("team/review") as subdirectories.
func fileName(name string) string {
	return filepath.FromSlash(strings.TrimSpace(name))
}

func skipName(name string, includeHidden bool) bool {
	if platform.IsExcluded(name) {
		return true
	}
	return !includeHidden && strings.HasPrefix(name, ".")
}

func sortArtifacts(as []model.Artifact) {
	sort.Slice(as, func(i, j int) bool { return as[i].Name < as[j].Name })
}
