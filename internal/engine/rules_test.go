package engine

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/aisync/internal/model"
)

func TestRuleSet_FirstMatchWins(t *testing.T) {
	rules := []model.MappingRule{
		{ID: 1, ArtifactType: model.TypeSkill, SourcePattern: "[", Priority: 30},
		{ID: 2, ArtifactType: model.TypeSkill, SourcePattern: "git-*", UseSymlink: true, Priority: 20},
		{ID: 3, ArtifactType: model.TypeSkill, SourcePattern: "*", Priority: 10},
		{ID: 4, ArtifactType: model.TypeAgent, Priority: 5},
	}
	rs := newRuleSet(rules, slog.New(slog.DiscardHandler))
	require.Len(t, rs.rules, 3, "invalid pattern dropped")

	skill := func(name string) model.Artifact {
		return model.NewArtifact(model.SystemClaude, model.TypeSkill, name, "x")
	}

	assert.Equal(t, int64(2), rs.match(skill("git-commit")).ID)
	assert.Equal(t, int64(3), rs.match(skill("review")).ID)
	assert.Nil(t, rs.match(skill("team/lead")), "* does not cross a path separator")
	assert.Equal(t, int64(4), rs.match(model.NewArtifact(model.SystemClaude, model.TypeAgent, "any", "x")).ID)
	assert.Nil(t, rs.match(model.NewArtifact(model.SystemClaude, model.TypeHook, "h", "x")))
}

func TestExpandTargetPattern(t *testing.T) {
	a := model.NewArtifact(model.SystemClaude, model.TypeSkill, "review", "x")
	assert.Equal(t, ".cursor/rules/skill-review.mdc",
		expandTargetPattern(".cursor/rules/{type}-{name}.mdc", a, model.TypeSkill))
	assert.Equal(t, "rules/review.rule", expandTargetPattern("rules/{name}.{type}", a, model.TypeRule))
}
