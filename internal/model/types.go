package model

import (
	"fmt"
	"time"
)

// ArtifactType identifies the kind of configuration item.
type ArtifactType string

const (
	TypeSkill       ArtifactType = "skill"
	TypeAgent       ArtifactType = "agent"
	TypeCommand     ArtifactType = "command"
	TypeHook        ArtifactType = "hook"
	TypeRule        ArtifactType = "rule"
	TypeMCPServer   ArtifactType = "mcp_server"
	TypeTemplate    ArtifactType = "template"
	TypeContext     ArtifactType = "context"
	TypeInstruction ArtifactType = "instruction"
)

// AllTypes returns every artifact type in declaration order.
func AllTypes() []ArtifactType {
	return []ArtifactType{
		TypeSkill,
		TypeAgent,
		TypeCommand,
		TypeHook,
		TypeRule,
		TypeMCPServer,
		TypeTemplate,
		TypeContext,
		TypeInstruction,
	}
}

// ParseArtifactType converts a string to an ArtifactType, returning false if invalid.
// The plural forms used on the command line ("skills", "rules") are accepted too.
func ParseArtifactType(s string) (ArtifactType, bool) {
	switch s {
	case "skill", "skills":
		return TypeSkill, true
	case "agent", "agents":
		return TypeAgent, true
	case "command", "commands":
		return TypeCommand, true
	case "hook", "hooks":
		return TypeHook, true
	case "rule", "rules":
		return TypeRule, true
	case "mcp_server", "mcp_servers", "mcp":
		return TypeMCPServer, true
	case "template", "templates":
		return TypeTemplate, true
	case "context", "contexts":
		return TypeContext, true
	case "instruction", "instructions":
		return TypeInstruction, true
	default:
		return "", false
	}
}

// ParseArtifactTypes parses a list of type names, failing on the first unknown one.
func ParseArtifactTypes(names []string) ([]ArtifactType, error) {
	types := make([]ArtifactType, 0, len(names))
	for _, n := range names {
		t, ok := ParseArtifactType(n)
		if !ok {
			return nil, fmt.Errorf("unknown artifact type %q", n)
		}
		types = append(types, t)
	}
	return types, nil
}

// ContainsType reports whether t is in types. An empty filter matches every type.
func ContainsType(types []ArtifactType, t ArtifactType) bool {
	if len(types) == 0 {
		return true
	}
	for _, candidate := range types {
		if candidate == t {
			return true
		}
	}
	return false
}

// SystemID identifies an AI coding-assistant tool.
type SystemID string

const (
	SystemClaude   SystemID = "claude"
	SystemCursor   SystemID = "cursor"
	SystemCopilot  SystemID = "copilot"
	SystemCodex    SystemID = "codex"
	SystemOpenCode SystemID = "opencode"
)

// AllSystems returns every built-in system ID.
func AllSystems() []SystemID {
	return []SystemID{SystemClaude, SystemCursor, SystemCopilot, SystemCodex, SystemOpenCode}
}

// Artifact is a single configuration item, represented uniformly regardless
// of the system it was scanned from.
type Artifact struct {
	ID           string         `json:"id"`
	Name         string         `json:"name"`
	Type         ArtifactType   `json:"type"`
	Description  string         `json:"description,omitempty"`
	Content      string         `json:"content"`
	Metadata     map[string]any `json:"metadata,omitempty"`
	SourceSystem SystemID       `json:"source_system"`
	SourcePath   string         `json:"source_path"`
	Checksum     string         `json:"checksum"`
	LastModified time.Time      `json:"last_modified"`
}

// NewArtifact builds an artifact with its deterministic ID and content checksum filled in.
func NewArtifact(source SystemID, t ArtifactType, name, content string) Artifact {
	return Artifact{
		ID:           NewArtifactID(source, t, name),
		Name:         name,
		Type:         t,
		Content:      content,
		Metadata:     map[string]any{},
		SourceSystem: source,
		Checksum:     Checksum([]byte(content)),
	}
}

// MetadataString returns a string metadata value, or "" if absent or not a string.
func (a Artifact) MetadataString(key string) string {
	if v, ok := a.Metadata[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}
