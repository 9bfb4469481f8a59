package model

import (
	"encoding/json"
	"fmt"
	"sort"
)

// MCPServer is the canonical, tool-independent definition of an MCP server.
// Each adapter converts it to and from its own configuration format.
type MCPServer struct {
	Name     string            `json:"-"`
	Command  string            `json:"command,omitempty"`
	Args     []string          `json:"args,omitempty"`
	Env      map[string]string `json:"env,omitempty"`
	URL      string            `json:"url,omitempty"`
	Headers  map[string]string `json:"headers,omitempty"`
	Disabled bool              `json:"disabled,omitempty"`
}

// IsRemote reports whether the server is reached over HTTP rather than spawned.
func (s MCPServer) IsRemote() bool {
	return s.URL != ""
}

// MarshalCanonical encodes the server definition deterministically.
// encoding/json sorts map keys, so equal definitions produce equal bytes.
func (s MCPServer) MarshalCanonical() ([]byte, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("marshal mcp server %s: %w", s.Name, err)
	}
	return data, nil
}

// ParseMCPServer decodes an artifact's canonical content back into a server definition.
func ParseMCPServer(name, content string) (MCPServer, error) {
	var s MCPServer
	if err := json.Unmarshal([]byte(content), &s); err != nil {
		return MCPServer{}, fmt.Errorf("parse mcp server %s: %w", name, err)
	}
	s.Name = name
	return s, nil
}

// MCPServerArtifact wraps a server definition as an artifact scanned from source.
func MCPServerArtifact(source SystemID, server MCPServer, configPath string) (Artifact, error) {
	data, err := server.MarshalCanonical()
	if err != nil {
		return Artifact{}, err
	}
	a := NewArtifact(source, TypeMCPServer, server.Name, string(data))
	a.SourcePath = configPath
	if server.IsRemote() {
		a.Metadata["transport"] = "http"
	} else {
		a.Metadata["transport"] = "stdio"
	}
	return a, nil
}

// SortMCPServers orders servers by name for deterministic output.
func SortMCPServers(servers []MCPServer) {
	sort.Slice(servers, func(i, j int) bool { return servers[i].Name < servers[j].Name })
}
