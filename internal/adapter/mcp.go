package adapter

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
	"github.com/tailscale/hujson"

	"github.com/roach88/aisync/internal/model"
)

// mcpFragmentSep joins a config file path and a server name into the target
// path recorded for an MCP server artifact.
const mcpFragmentSep = "#"

// MCPTargetPath returns the recorded path of server name inside configPath.
func MCPTargetPath(configPath, name string) string {
	return configPath + mcpFragmentSep + name
}

// mcpCodec converts between a tool's MCP configuration file and canonical servers.
type mcpCodec interface {
	decode(data []byte) ([]model.MCPServer, error)
	// encode rewrites the server section of existing, keeping every other key.
	// existing is empty when the file does not exist yet.
	encode(existing []byte, servers []model.MCPServer) ([]byte, error)
}

// jsonCodec handles the JSON-family formats. With jsonc set, comments and
// trailing commas are accepted on read and preserved outside the server section on write.
type jsonCodec struct {
	key      string
	jsonc    bool
	toWire   func(model.MCPServer) any
	fromWire func(name string, raw json.RawMessage) (model.MCPServer, error)
}

func (c jsonCodec) decode(data []byte) ([]model.MCPServer, error) {
	std, err := hujson.Standardize(data)
	if err != nil {
		return nil, fmt.Errorf("parse mcp config: %w", err)
	}

	var doc map[string]json.RawMessage
	if err := json.Unmarshal(std, &doc); err != nil {
		return nil, fmt.Errorf("parse mcp config: %w", err)
	}

	var section map[string]json.RawMessage
	if raw, ok := doc[c.key]; ok {
		if err := json.Unmarshal(raw, &section); err != nil {
			return nil, fmt.Errorf("parse %s section: %w", c.key, err)
		}
	}

	servers := make([]model.MCPServer, 0, len(section))
	for name, raw := range section {
		s, err := c.fromWire(name, raw)
		if err != nil {
			return nil, err
		}
		servers = append(servers, s)
	}
	model.SortMCPServers(servers)
	return servers, nil
}

func (c jsonCodec) encode(existing []byte, servers []model.MCPServer) ([]byte, error) {
	section := make(map[string]any, len(servers))
	for _, s := range servers {
		section[s.Name] = c.toWire(s)
	}

	if len(bytes.TrimSpace(existing)) == 0 {
		existing = []byte("{}")
	}

	if c.jsonc {
		return c.patchJSONC(existing, section)
	}

	var doc map[string]any
	if err := json.Unmarshal(existing, &doc); err != nil {
		return nil, fmt.Errorf("parse mcp config: %w", err)
	}
	if doc == nil {
		doc = map[string]any{}
	}
	doc[c.key] = section

	out, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode mcp config: %w", err)
	}
	return append(out, '\n'), nil
}

func (c jsonCodec) patchJSONC(existing []byte, section map[string]any) ([]byte, error) {
	v, err := hujson.Parse(existing)
	if err != nil {
		return nil, fmt.Errorf("parse mcp config: %w", err)
	}

	value, err := json.Marshal(section)
	if err != nil {
		return nil, fmt.Errorf("encode %s section: %w", c.key, err)
	}
	patch, err := json.Marshal([]map[string]any{{
		"op":    "add",
		"path":  "/" + c.key,
		"value": json.RawMessage(value),
	}})
	if err != nil {
		return nil, err
	}

	if err := v.Patch(patch); err != nil {
		return nil, fmt.Errorf("update %s section: %w", c.key, err)
	}
	v.Format()
	return v.Pack(), nil
}

// claudeServer is the mcpServers entry used by Claude Code and Cursor.
type claudeServer struct {
	Type     string            `json:"type,omitempty"`
	Command  string            `json:"command,omitempty"`
	Args     []string          `json:"args,omitempty"`
	Env      map[string]string `json:"env,omitempty"`
	URL      string            `json:"url,omitempty"`
	Headers  map[string]string `json:"headers,omitempty"`
	Disabled bool              `json:"disabled,omitempty"`
}

func claudeCodec() jsonCodec {
	return jsonCodec{
		key: "mcpServers",
		toWire: func(s model.MCPServer) any {
			w := claudeServer{Command: s.Command, Args: s.Args, Env: s.Env, URL: s.URL, Headers: s.Headers, Disabled: s.Disabled}
			if s.IsRemote() {
				w.Type = "http"
			}
			return w
		},
		fromWire: func(name string, raw json.RawMessage) (model.MCPServer, error) {
			var w claudeServer
			if err := json.Unmarshal(raw, &w); err != nil {
				return model.MCPServer{}, fmt.Errorf("parse mcp server %s: %w", name, err)
			}
			return model.MCPServer{Name: name, Command: w.Command, Args: w.Args, Env: w.Env, URL: w.URL, Headers: w.Headers, Disabled: w.Disabled}, nil
		},
	}
}

// copilotServer is the servers entry in .vscode/mcp.json.
type copilotServer struct {
	Type    string            `json:"type"`
	Command string            `json:"command,omitempty"`
	Args    []string          `json:"args,omitempty"`
	Env     map[string]string `json:"env,omitempty"`
	URL     string            `json:"url,omitempty"`
	Headers map[string]string `json:"headers,omitempty"`
}

func copilotCodec() jsonCodec {
	return jsonCodec{
		key:   "servers",
		jsonc: true,
		toWire: func(s model.MCPServer) any {
			w := copilotServer{Type: "stdio", Command: s.Command, Args: s.Args, Env: s.Env}
			if s.IsRemote() {
				w = copilotServer{Type: "http", URL: s.URL, Headers: s.Headers}
			}
			return w
		},
		fromWire: func(name string, raw json.RawMessage) (model.MCPServer, error) {
			var w copilotServer
			if err := json.Unmarshal(raw, &w); err != nil {
				return model.MCPServer{}, fmt.Errorf("parse mcp server %s: %w", name, err)
			}
			return model.MCPServer{Name: name, Command: w.Command, Args: w.Args, Env: w.Env, URL: w.URL, Headers: w.Headers}, nil
		},
	}
}

// openCodeServer is the mcp entry in opencode.json. Local servers carry the
// command and its arguments as one array.
type openCodeServer struct {
	Type        string            `json:"type"`
	Command     []string          `json:"command,omitempty"`
	Environment map[string]string `json:"environment,omitempty"`
	URL         string            `json:"url,omitempty"`
	Headers     map[string]string `json:"headers,omitempty"`
	Enabled     *bool             `json:"enabled,omitempty"`
}

func openCodeCodec() jsonCodec {
	return jsonCodec{
		key:   "mcp",
		jsonc: true,
		toWire: func(s model.MCPServer) any {
			var w openCodeServer
			if s.IsRemote() {
				w = openCodeServer{Type: "remote", URL: s.URL, Headers: s.Headers}
			} else {
				w = openCodeServer{Type: "local", Command: append([]string{s.Command}, s.Args...), Environment: s.Env}
			}
			if s.Disabled {
				enabled := false
				w.Enabled = &enabled
			}
			return w
		},
		fromWire: func(name string, raw json.RawMessage) (model.MCPServer, error) {
			var w openCodeServer
			if err := json.Unmarshal(raw, &w); err != nil {
				return model.MCPServer{}, fmt.Errorf("parse mcp server %s: %w", name, err)
			}
			s := model.MCPServer{Name: name, Env: w.Environment, URL: w.URL, Headers: w.Headers}
			if len(w.Command) > 0 {
				s.Command = w.Command[0]
				if len(w.Command) > 1 {
					s.Args = w.Command[1:]
				}
			}
			s.Disabled = w.Enabled != nil && !*w.Enabled
			return s, nil
		},
	}
}

// codexServer is a [mcp_servers.<name>] table in Codex's config.toml.
type codexServer struct {
	Command     string            `toml:"command,omitempty"`
	Args        []string          `toml:"args,omitempty"`
	Env         map[string]string `toml:"env,omitempty"`
	URL         string            `toml:"url,omitempty"`
	HTTPHeaders map[string]string `toml:"http_headers,omitempty"`
	Enabled     *bool             `toml:"enabled,omitempty"`
}

const codexServersKey = "mcp_servers"

type tomlCodec struct{}

func (tomlCodec) decode(data []byte) ([]model.MCPServer, error) {
	var doc struct {
		Servers map[string]codexServer `toml:"mcp_servers"`
	}
	if err := toml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse codex config: %w", err)
	}

	servers := make([]model.MCPServer, 0, len(doc.Servers))
	for name, w := range doc.Servers {
		servers = append(servers, model.MCPServer{
			Name:     name,
			Command:  w.Command,
			Args:     w.Args,
			Env:      w.Env,
			URL:      w.URL,
			Headers:  w.HTTPHeaders,
			Disabled: w.Enabled != nil && !*w.Enabled,
		})
	}
	model.SortMCPServers(servers)
	return servers, nil
}

func (tomlCodec) encode(existing []byte, servers []model.MCPServer) ([]byte, error) {
	doc := map[string]any{}
	if len(bytes.TrimSpace(existing)) > 0 {
		if err := toml.Unmarshal(existing, &doc); err != nil {
			return nil, fmt.Errorf("parse codex config: %w", err)
		}
	}

	if len(servers) == 0 {
		delete(doc, codexServersKey)
	} else {
		section := make(map[string]codexServer, len(servers))
		for _, s := range servers {
			w := codexServer{Command: s.Command, Args: s.Args, Env: s.Env, URL: s.URL, HTTPHeaders: s.Headers}
			if s.Disabled {
				enabled := false
				w.Enabled = &enabled
			}
			section[s.Name] = w
		}
		doc[codexServersKey] = section
	}

	out, err := toml.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encode codex config: %w", err)
	}
	return out, nil
}

// readMCPConfig returns the decoded servers and raw bytes of the config file.
// A missing file yields no servers and no error.
func readMCPConfig(codec mcpCodec, path string) ([]model.MCPServer, []byte, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, fmt.Errorf("read %s: %w", path, err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, data, nil
	}
	servers, err := codec.decode(data)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", path, err)
	}
	return servers, data, nil
}

func writeMCPConfig(codec mcpCodec, path string, existing []byte, servers []model.MCPServer) error {
	sorted := append([]model.MCPServer(nil), servers...)
	model.SortMCPServers(sorted)

	out, err := codec.encode(existing, sorted)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create %s: %w", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, out, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
