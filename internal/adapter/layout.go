package adapter

import (
	"github.com/roach88/aisync/internal/model"
)

// SkillEntryFile is the entry file inside a skill directory.
const SkillEntryFile = "SKILL.md"

// Entry locates one artifact type inside a system's configuration directory.
type Entry struct {
	// Dir is relative to the system's ConfigDir.
	Dir string
	// Suffix is appended to the artifact name for single-file artifacts.
	Suffix string
	// Bundle artifacts are directories named after the artifact holding EntryFile.
	Bundle    bool
	EntryFile string
}

func fileEntry(dir, suffix string) Entry { return Entry{Dir: dir, Suffix: suffix} }

func bundleEntry(dir string) Entry { return Entry{Dir: dir, Bundle: true, EntryFile: SkillEntryFile} }

// Layout describes a system declaratively; FileAdapter interprets it.
type Layout struct {
	ID           model.SystemID
	Name         string
	ConfigDir    string
	Capabilities model.Capabilities
	Entries      map[model.ArtifactType]Entry

	// MCPConfig is the MCP configuration file relative to the project root.
	// Empty when the system has none.
	MCPConfig string
	mcp       mcpCodec

	// frontmatter renders the header of a transformed artifact, per target type.
	frontmatter map[model.ArtifactType]frontmatterFunc
}

// ClaudeLayout is Claude Code's .claude directory.
func ClaudeLayout() Layout {
	return Layout{
		ID:        model.SystemClaude,
		Name:      "Claude Code",
		ConfigDir: ".claude",
		Capabilities: model.Capabilities{
			Skill:             model.Native(),
			Agent:             model.Native(),
			Command:           model.Native(),
			Hook:              model.Native(),
			Rule:              model.Native(),
			MCPServer:         model.Native(),
			Instruction:       model.Via(model.TypeRule),
			SymlinksSupported: true,
		},
		Entries: map[model.ArtifactType]Entry{
			model.TypeSkill:   bundleEntry("skills"),
			model.TypeAgent:   fileEntry("agents", ".md"),
			model.TypeCommand: fileEntry("commands", ".md"),
			model.TypeHook:    fileEntry("hooks", ".md"),
			model.TypeRule:    fileEntry("rules", ".md"),
		},
		MCPConfig: ".mcp.json",
		mcp:       claudeCodec(),
	}
}

// CursorLayout is Cursor's .cursor directory. Skills and instructions become .mdc rules.
func CursorLayout() Layout {
	return Layout{
		ID:        model.SystemCursor,
		Name:      "Cursor",
		ConfigDir: ".cursor",
		Capabilities: model.Capabilities{
			Skill:             model.Via(model.TypeRule),
			Command:           model.Native(),
			Rule:              model.Native(),
			MCPServer:         model.Native(),
			Instruction:       model.Via(model.TypeRule),
			SymlinksSupported: true,
		},
		Entries: map[model.ArtifactType]Entry{
			model.TypeRule:    fileEntry("rules", ".mdc"),
			model.TypeCommand: fileEntry("commands", ".md"),
		},
		MCPConfig: ".cursor/mcp.json",
		mcp:       claudeCodec(),
		frontmatter: map[model.ArtifactType]frontmatterFunc{
			model.TypeRule: cursorRuleFrontmatter,
		},
	}
}

// CopilotLayout is GitHub Copilot's .github directory. File suffixes differ
// from every other system, so content is always copied.
func CopilotLayout() Layout {
	return Layout{
		ID:        model.SystemCopilot,
		Name:      "GitHub Copilot",
		ConfigDir: ".github",
		Capabilities: model.Capabilities{
			Skill:       model.Via(model.TypeInstruction),
			Agent:       model.Native(),
			Command:     model.Native(),
			Rule:        model.Via(model.TypeInstruction),
			MCPServer:   model.Native(),
			Instruction: model.Native(),
		},
		Entries: map[model.ArtifactType]Entry{
			model.TypeInstruction: fileEntry("instructions", ".instructions.md"),
			model.TypeCommand:     fileEntry("prompts", ".prompt.md"),
			model.TypeAgent:       fileEntry("agents", ".agent.md"),
		},
		MCPConfig: ".vscode/mcp.json",
		mcp:       copilotCodec(),
		frontmatter: map[model.ArtifactType]frontmatterFunc{
			model.TypeInstruction: copilotInstructionFrontmatter,
		},
	}
}

// CodexLayout is OpenAI Codex's .codex directory.
func CodexLayout() Layout {
	return Layout{
		ID:        model.SystemCodex,
		Name:      "OpenAI Codex",
		ConfigDir: ".codex",
		Capabilities: model.Capabilities{
			Skill:             model.Native(),
			Command:           model.Native(),
			MCPServer:         model.Native(),
			SymlinksSupported: true,
		},
		Entries: map[model.ArtifactType]Entry{
			model.TypeSkill:   bundleEntry("skills"),
			model.TypeCommand: fileEntry("prompts", ".md"),
		},
		MCPConfig: ".codex/config.toml",
		mcp:       tomlCodec{},
	}
}

// OpenCodeLayout is OpenCode's .opencode directory.
func OpenCodeLayout() Layout {
	return Layout{
		ID:        model.SystemOpenCode,
		Name:      "OpenCode",
		ConfigDir: ".opencode",
		Capabilities: model.Capabilities{
			Skill:             model.Native(),
			Agent:             model.Native(),
			Command:           model.Native(),
			MCPServer:         model.Native(),
			SymlinksSupported: true,
		},
		Entries: map[model.ArtifactType]Entry{
			model.TypeSkill:   bundleEntry("skills"),
			model.TypeAgent:   fileEntry("agent", ".md"),
			model.TypeCommand: fileEntry("command", ".md"),
		},
		MCPConfig: "opencode.json",
		mcp:       openCodeCodec(),
	}
}

// BuiltinLayouts returns the layouts of every built-in system.
func BuiltinLayouts() []Layout {
	return []Layout{ClaudeLayout(), CursorLayout(), CopilotLayout(), CodexLayout(), OpenCodeLayout()}
}
