package adapter

import (
	"errors"

	"github.com/roach88/aisync/internal/model"
)

var (
	// ErrDestinationExists is returned by WriteArtifact when the destination is
	// occupied and WriteOptions.Overwrite is false.
	ErrDestinationExists = errors.New("destination already exists")

	// ErrUnsupportedType is returned when a system has no location for an artifact type.
	ErrUnsupportedType = errors.New("artifact type not supported")

	// ErrNotConfigured is returned when an operation needs the system's
	// configuration directory and it does not exist.
	ErrNotConfigured = errors.New("system not configured")
)

// Paths names where a system keeps its configuration, relative to the project root.
type Paths struct {
	ConfigDir string
	MCPConfig string
}

// ScanOptions narrows ScanArtifacts.
type ScanOptions struct {
	// Types limits the scan. Empty means every supported type.
	Types         []model.ArtifactType
	IncludeHidden bool
	// Recursive descends into subdirectories of single-file artifact dirs.
	Recursive bool
}

// WriteOptions controls WriteArtifact.
type WriteOptions struct {
	// Overwrite allows replacing whatever occupies the destination.
	Overwrite         bool
	CreateDirectories bool
	UseSymlink        bool
	// SymlinkTarget is the absolute path the link should point at.
	SymlinkTarget string
	// TargetPath overrides ArtifactPath. Relative paths resolve against the root.
	TargetPath string
}

// TransformOptions describes a conversion between artifact types.
type TransformOptions struct {
	SourceFormat     model.ArtifactType
	TargetFormat     model.ArtifactType
	PreserveMetadata bool
}

// ValidationResult is the outcome of ValidateArtifact.
type ValidationResult struct {
	Valid  bool
	Errors []string
}

//go:generate mockgen -destination=mocks/mock_adapter.go -package=mocks -source=adapter.go Adapter

// Adapter reads and writes one system's artifacts under a project root.
type Adapter interface {
	SystemID() model.SystemID
	Name() string
	Capabilities() model.Capabilities
	Paths() Paths

	IsConfigured(root string) bool
	Initialize(root string) error

	ScanArtifacts(root string, opts ScanOptions) ([]model.Artifact, error)
	// ReadArtifact returns nil without error when path holds no artifact of this system.
	ReadArtifact(root, path string) (*model.Artifact, error)
	// WriteArtifact writes a and returns the absolute destination path.
	WriteArtifact(root string, a model.Artifact, opts WriteOptions) (string, error)
	DeleteArtifact(root, path string) error
	TransformArtifact(a model.Artifact, opts TransformOptions) (model.Artifact, error)

	// ArtifactPath is where a would be written, relative to the project root.
	ArtifactPath(a model.Artifact) string
	ValidateArtifact(a model.Artifact) ValidationResult
}

// MCPServerAdapter is implemented by systems that keep MCP server definitions
// in a configuration file.
type MCPServerAdapter interface {
	Adapter
	ReadMCPServers(root string) ([]model.MCPServer, error)
	WriteMCPServers(root string, servers []model.MCPServer) error
}

// AsMCPServerAdapter reports whether a can read and write MCP server configuration.
func AsMCPServerAdapter(a Adapter) (MCPServerAdapter, bool) {
	m, ok := a.(MCPServerAdapter)
	return m, ok
}
