package engine

import (
	"log/slog"
	"strings"

	"github.com/gobwas/glob"

	"github.com/roach88/aisync/internal/model"
)

// ruleSet matches artifacts against the mapping rules of one (source, target)
// pair. Rules arrive ordered by priority, highest first; the first match wins.
type ruleSet struct {
	rules    []model.MappingRule
	patterns []glob.Glob
}

func newRuleSet(rules []model.MappingRule, logger *slog.Logger) *ruleSet {
	rs := &ruleSet{}
	for _, r := range rules {
		pattern := r.SourcePattern
		if pattern == "" {
			pattern = "*"
		}
		g, err := glob.Compile(pattern, '/')
		if err != nil {
			logger.Warn("ignoring mapping rule with invalid source pattern",
				"rule", r.ID, "pattern", pattern, "error", err)
			continue
		}
		rs.rules = append(rs.rules, r)
		rs.patterns = append(rs.patterns, g)
	}
	return rs
}

// match returns the highest-priority rule for a, or nil.
func (rs *ruleSet) match(a model.Artifact) *model.MappingRule {
	for i := range rs.rules {
		if rs.rules[i].ArtifactType != a.Type {
			continue
		}
		if rs.patterns[i].Match(a.Name) {
			return &rs.rules[i]
		}
	}
	return nil
}

// expandTargetPattern fills {name} and {type} in a rule's target pattern.
func expandTargetPattern(pattern string, a model.Artifact, t model.ArtifactType) string {
	return strings.NewReplacer("{name}", a.Name, "{type}", string(t)).Replace(pattern)
}
