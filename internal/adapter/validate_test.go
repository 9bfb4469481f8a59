package adapter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/aisync/internal/model"
)

func TestValidateMCPServer(t *testing.T) {
	tests := []struct {
		name    string
		content string
		valid   bool
	}{
		{"stdio", `{"command":"npx","args":["fs"]}`, true},
		{"remote", `{"url":"https://example.com/mcp"}`, true},
		{"neither", `{"args":["x"]}`, false},
		{"both", `{"command":"npx","url":"https://example.com"}`, false},
		{"bad url", `{"url":"ftp://example.com"}`, false},
		{"unknown field", `{"command":"npx","cwd":"/tmp"}`, false},
		{"wrong arg type", `{"command":"npx","args":[1]}`, false},
		{"not json", `command: npx`, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			issues, err := ValidateMCPServer(tt.content)
			require.NoError(t, err)
			if tt.valid {
				assert.Empty(t, issues)
			} else {
				assert.NotEmpty(t, issues)
			}
		})
	}
}

func TestValidateArtifact_MCPServer(t *testing.T) {
	claude := NewFileAdapter(ClaudeLayout())

	good, err := model.MCPServerArtifact(model.SystemClaude, model.MCPServer{Name: "fs", Command: "npx"}, ".mcp.json")
	require.NoError(t, err)
	assert.True(t, claude.ValidateArtifact(good).Valid)

	bad := model.NewArtifact(model.SystemClaude, model.TypeMCPServer, "empty", `{}`)
	res := claude.ValidateArtifact(bad)
	assert.False(t, res.Valid)
	assert.NotEmpty(t, res.Errors)
}
