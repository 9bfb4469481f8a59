package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/roach88/aisync/internal/model"
)

// systemNames are the display names seeded into the systems table.
var systemNames = map[model.SystemID]string{
	model.SystemClaude:   "Claude Code",
	model.SystemCursor:   "Cursor",
	model.SystemCopilot:  "GitHub Copilot",
	model.SystemCodex:    "OpenAI Codex",
	model.SystemOpenCode: "OpenCode",
}

// DefaultMappingRules returns the rules seeded on first initialization.
// Skills are linked where the target shares the SKILL.md directory layout and
// converted where the target only understands rule/instruction files.
func DefaultMappingRules() []model.MappingRule {
	return []model.MappingRule{
		{SourceSystem: model.SystemClaude, TargetSystem: model.SystemCursor, ArtifactType: model.TypeSkill, SourcePattern: "*", TransformType: model.TypeRule, Priority: 10},
		{SourceSystem: model.SystemClaude, TargetSystem: model.SystemCopilot, ArtifactType: model.TypeSkill, SourcePattern: "*", TransformType: model.TypeInstruction, Priority: 10},
		{SourceSystem: model.SystemClaude, TargetSystem: model.SystemCopilot, ArtifactType: model.TypeRule, SourcePattern: "*", TransformType: model.TypeInstruction, Priority: 10},
		{SourceSystem: model.SystemClaude, TargetSystem: model.SystemCodex, ArtifactType: model.TypeSkill, SourcePattern: "*", UseSymlink: true, Priority: 10},
		{SourceSystem: model.SystemClaude, TargetSystem: model.SystemOpenCode, ArtifactType: model.TypeSkill, SourcePattern: "*", UseSymlink: true, Priority: 10},
		{SourceSystem: model.SystemClaude, TargetSystem: model.SystemOpenCode, ArtifactType: model.TypeAgent, SourcePattern: "*", UseSymlink: true, Priority: 10},
		{SourceSystem: model.SystemClaude, TargetSystem: model.SystemOpenCode, ArtifactType: model.TypeCommand, SourcePattern: "*", UseSymlink: true, Priority: 10},
		{SourceSystem: model.SystemClaude, TargetSystem: model.SystemCodex, ArtifactType: model.TypeCommand, SourcePattern: "*", UseSymlink: true, Priority: 10},
	}
}

// seedDefaults inserts the built-in systems and mapping rules.
// INSERT OR IGNORE keeps user edits to existing rows intact.
func seedDefaults(ctx context.Context, tx *sql.Tx) error {
	for _, id := range model.AllSystems() {
		_, err := tx.ExecContext(ctx,
			`INSERT OR IGNORE INTO systems (id, name, configured) VALUES (?, ?, 0)`,
			string(id), systemNames[id])
		if err != nil {
			return fmt.Errorf("seed system %s: %w", id, err)
		}
	}

	for _, r := range DefaultMappingRules() {
		_, err := tx.ExecContext(ctx, `
			INSERT OR IGNORE INTO mapping_rules
			(source_system, target_system, artifact_type, source_pattern, target_pattern, transform_type, use_symlink, priority)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		`,
			string(r.SourceSystem),
			string(r.TargetSystem),
			string(r.ArtifactType),
			r.SourcePattern,
			nullString(r.TargetPattern),
			nullString(string(r.TransformType)),
			boolToInt(r.UseSymlink),
			r.Priority,
		)
		if err != nil {
			return fmt.Errorf("seed mapping rule %s->%s %s: %w", r.SourceSystem, r.TargetSystem, r.ArtifactType, err)
		}
	}

	return nil
}
