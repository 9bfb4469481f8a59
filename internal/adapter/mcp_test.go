package adapter

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pelletier/go-toml/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/aisync/internal/model"
	"github.com/roach88/aisync/internal/testutil"
)

func sampleServers() []model.MCPServer {
	return []model.MCPServer{
		{Name: "fs", Command: "npx", Args: []string{"-y", "@modelcontextprotocol/server-filesystem"}, Env: map[string]string{"ROOT": "."}},
		{Name: "remote", URL: "https://mcp.example.com/sse", Headers: map[string]string{"Authorization": "Bearer x"}},
		{Name: "off", Command: "off-server", Disabled: true},
	}
}

func TestMCPCodecs_RoundTrip(t *testing.T) {
	layouts := map[string]Layout{
		"claude":   ClaudeLayout(),
		"cursor":   CursorLayout(),
		"copilot":  CopilotLayout(),
		"codex":    CodexLayout(),
		"opencode": OpenCodeLayout(),
	}

	for name, layout := range layouts {
		t.Run(name, func(t *testing.T) {
			root := t.TempDir()
			a, ok := AsMCPServerAdapter(NewFileAdapter(layout))
			require.True(t, ok)

			servers := sampleServers()
			require.NoError(t, a.WriteMCPServers(root, servers))
			assert.FileExists(t, filepath.Join(root, layout.MCPConfig))

			got, err := a.ReadMCPServers(root)
			require.NoError(t, err)

			want := sampleServers()
			if name == "copilot" {
				// .vscode/mcp.json has no disabled flag.
				for i := range want {
					want[i].Disabled = false
				}
			}
			model.SortMCPServers(want)
			assert.Equal(t, want, got)
		})
	}
}

func TestMCP_ReadMissingFile(t *testing.T) {
	a, ok := AsMCPServerAdapter(NewFileAdapter(ClaudeLayout()))
	require.True(t, ok)

	servers, err := a.ReadMCPServers(t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, servers)
}

func TestMCP_JSONCKeepsComments(t *testing.T) {
	root := t.TempDir()
	testutil.WriteTree(t, root, map[string]string{
		".vscode/mcp.json": `{
  // keep me
  "inputs": [{"id": "token", "type": "promptString"}],
  "servers": {
    "old": {"type": "stdio", "command": "old",},
  },
}`,
	})
	a, ok := AsMCPServerAdapter(NewFileAdapter(CopilotLayout()))
	require.True(t, ok)

	before, err := a.ReadMCPServers(root)
	require.NoError(t, err)
	require.Len(t, before, 1)
	assert.Equal(t, "old", before[0].Command)

	require.NoError(t, a.WriteMCPServers(root, []model.MCPServer{{Name: "new", Command: "new"}}))

	out := testutil.ReadFile(t, root, ".vscode/mcp.json")
	assert.Contains(t, out, "// keep me")
	assert.Contains(t, out, `"inputs"`)

	after, err := a.ReadMCPServers(root)
	require.NoError(t, err)
	assert.Equal(t, []model.MCPServer{{Name: "new", Command: "new"}}, after)
}

func TestMCP_JSONKeepsOtherKeys(t *testing.T) {
	root := t.TempDir()
	testutil.WriteTree(t, root, map[string]string{
		".cursor/mcp.json": `{"theme": "dark", "mcpServers": {}}`,
	})
	a, _ := AsMCPServerAdapter(NewFileAdapter(CursorLayout()))

	require.NoError(t, a.WriteMCPServers(root, []model.MCPServer{{Name: "fs", Command: "npx"}}))
	assert.Contains(t, testutil.ReadFile(t, root, ".cursor/mcp.json"), `"theme": "dark"`)
}

func TestMCP_TOMLKeepsOtherKeys(t *testing.T) {
	root := t.TempDir()
	testutil.WriteTree(t, root, map[string]string{
		".codex/config.toml": "model = \"o3\"\n\n[mcp_servers.old]\ncommand = \"old\"\n",
	})
	a, _ := AsMCPServerAdapter(NewFileAdapter(CodexLayout()))

	require.NoError(t, a.WriteMCPServers(root, []model.MCPServer{{Name: "fs", Command: "npx", Args: []string{"fs"}}}))

	var doc map[string]any
	require.NoError(t, toml.Unmarshal([]byte(testutil.ReadFile(t, root, ".codex/config.toml")), &doc))
	assert.Equal(t, "o3", doc["model"])
	servers := doc["mcp_servers"].(map[string]any)
	assert.Contains(t, servers, "fs")
	assert.NotContains(t, servers, "old")

	require.NoError(t, a.WriteMCPServers(root, nil))
	doc = nil
	require.NoError(t, toml.Unmarshal([]byte(testutil.ReadFile(t, root, ".codex/config.toml")), &doc))
	assert.NotContains(t, doc, "mcp_servers")
	assert.Equal(t, "o3", doc["model"])
}

func TestMCP_WriteAndDeleteArtifact(t *testing.T) {
	root := t.TempDir()
	opencode := NewFileAdapter(OpenCodeLayout())

	server := model.MCPServer{Name: "fs", Command: "npx", Args: []string{"fs"}}
	a, err := model.MCPServerArtifact(model.SystemClaude, server, "/src/.mcp.json")
	require.NoError(t, err)

	dest, err := opencode.WriteArtifact(root, a, WriteOptions{CreateDirectories: true})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "opencode.json")+"#fs", dest)

	// Same name without overwrite is refused; with overwrite the entry is replaced.
	_, err = opencode.WriteArtifact(root, a, WriteOptions{})
	require.ErrorIs(t, err, ErrDestinationExists)

	server.Args = []string{"fs", "--ro"}
	updated, err := model.MCPServerArtifact(model.SystemClaude, server, "/src/.mcp.json")
	require.NoError(t, err)
	_, err = opencode.WriteArtifact(root, updated, WriteOptions{Overwrite: true})
	require.NoError(t, err)

	m, _ := AsMCPServerAdapter(opencode)
	servers, err := m.ReadMCPServers(root)
	require.NoError(t, err)
	require.Len(t, servers, 1)
	assert.Equal(t, []string{"fs", "--ro"}, servers[0].Args)

	scanned, err := opencode.ScanArtifacts(root, ScanOptions{Types: []model.ArtifactType{model.TypeMCPServer}})
	require.NoError(t, err)
	require.Len(t, scanned, 1)
	assert.Equal(t, updated.Content, scanned[0].Content, "canonical content is format-independent")

	require.NoError(t, opencode.DeleteArtifact(root, dest))
	servers, err = m.ReadMCPServers(root)
	require.NoError(t, err)
	assert.Empty(t, servers)

	// Deleting again is a no-op.
	require.NoError(t, opencode.DeleteArtifact(root, dest))
}

func TestMCP_DeleteMissingConfig(t *testing.T) {
	root := t.TempDir()
	codex := NewFileAdapter(CodexLayout())
	require.NoError(t, codex.DeleteArtifact(root, ".codex/config.toml#fs"))
	_, err := os.Stat(filepath.Join(root, ".codex/config.toml"))
	assert.True(t, os.IsNotExist(err))
}
