package adapter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/aisync/internal/model"
)

const skillContent = "---\nname: review\ndescription: Reviews pull requests\nallowed-tools: Read\n---\n\n# Review\n\nLook for bugs.\n"

func TestTransform_SkillToCursorRule(t *testing.T) {
	cursor := NewFileAdapter(CursorLayout())
	skill := model.NewArtifact(model.SystemClaude, model.TypeSkill, "review", skillContent)

	rule, err := cursor.TransformArtifact(skill, TransformOptions{
		SourceFormat: model.TypeSkill,
		TargetFormat: model.TypeRule,
	})
	require.NoError(t, err)

	assert.Equal(t, model.TypeRule, rule.Type)
	assert.Equal(t, skill.ID, rule.ID, "transformed artifacts stay keyed by the source")
	assert.Equal(t, "Reviews pull requests", rule.Description)
	assert.Equal(t, "skill", rule.MetadataString(MetadataTransformedFrom))
	assert.Equal(t, model.Checksum([]byte(rule.Content)), rule.Checksum)

	fm, body, err := ParseFrontmatter(rule.Content)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"description": "Reviews pull requests", "alwaysApply": true}, fm)
	assert.Equal(t, "# Review\n\nLook for bugs.\n", body)
}

func TestTransform_CursorRuleGlobs(t *testing.T) {
	cursor := NewFileAdapter(CursorLayout())
	skill := model.NewArtifact(model.SystemClaude, model.TypeSkill, "go", "---\ndescription: Go style\npaths:\n  - \"**/*.go\"\n---\nUse gofmt.\n")

	rule, err := cursor.TransformArtifact(skill, TransformOptions{TargetFormat: model.TypeRule})
	require.NoError(t, err)

	fm, _, err := ParseFrontmatter(rule.Content)
	require.NoError(t, err)
	assert.Equal(t, "**/*.go", fm["globs"])
	assert.Equal(t, false, fm["alwaysApply"])
}

func TestTransform_RuleToCopilotInstruction(t *testing.T) {
	copilot := NewFileAdapter(CopilotLayout())
	rule := model.NewArtifact(model.SystemClaude, model.TypeRule, "testing", "Always write table tests.\n")
	rule.Description = "Testing conventions"

	out, err := copilot.TransformArtifact(rule, TransformOptions{TargetFormat: model.TypeInstruction, PreserveMetadata: true})
	require.NoError(t, err)

	fm, body, err := ParseFrontmatter(out.Content)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"description": "Testing conventions", "applyTo": "**"}, fm)
	assert.Equal(t, "Always write table tests.\n", body)
}

func TestTransform_PreserveMetadata(t *testing.T) {
	claude := NewFileAdapter(ClaudeLayout())
	instr := model.NewArtifact(model.SystemCopilot, model.TypeInstruction, "style", "---\ndescription: Style\napplyTo: \"**/*.ts\"\nowner: web\n---\nBody\n")
	instr.Metadata["owner"] = "web"

	kept, err := claude.TransformArtifact(instr, TransformOptions{TargetFormat: model.TypeRule, PreserveMetadata: true})
	require.NoError(t, err)
	fm, _, err := ParseFrontmatter(kept.Content)
	require.NoError(t, err)
	assert.Equal(t, "style", fm["name"])
	assert.Equal(t, "web", fm["owner"])
	assert.NotContains(t, fm, "applyTo")
	assert.Equal(t, "web", kept.MetadataString("owner"))

	dropped, err := claude.TransformArtifact(instr, TransformOptions{TargetFormat: model.TypeRule})
	require.NoError(t, err)
	fm, _, err = ParseFrontmatter(dropped.Content)
	require.NoError(t, err)
	assert.NotContains(t, fm, "owner")
}

func TestTransform_Errors(t *testing.T) {
	cursor := NewFileAdapter(CursorLayout())
	skill := model.NewArtifact(model.SystemClaude, model.TypeSkill, "x", "body")

	_, err := cursor.TransformArtifact(skill, TransformOptions{SourceFormat: model.TypeAgent, TargetFormat: model.TypeRule})
	assert.Error(t, err)

	_, err = cursor.TransformArtifact(skill, TransformOptions{TargetFormat: model.TypeInstruction})
	assert.ErrorIs(t, err, ErrUnsupportedType)

	_, err = cursor.TransformArtifact(skill, TransformOptions{TargetFormat: model.TypeMCPServer})
	assert.ErrorIs(t, err, ErrUnsupportedType)

	same, err := cursor.TransformArtifact(skill, TransformOptions{TargetFormat: model.TypeSkill})
	require.NoError(t, err)
	assert.Equal(t, skill, same)
}
