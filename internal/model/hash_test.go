package model

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewArtifactID_Deterministic(t *testing.T) {
	id1 := NewArtifactID(SystemClaude, TypeSkill, "code-review")
	id2 := NewArtifactID(SystemClaude, TypeSkill, "code-review")

	assert.Equal(t, id1, id2)
	assert.Len(t, id1, 32)
}

func TestNewArtifactID_NormalizesName(t *testing.T) {
	base := NewArtifactID(SystemClaude, TypeSkill, "code-review")

	assert.Equal(t, base, NewArtifactID(SystemClaude, TypeSkill, "Code Review"))
	assert.Equal(t, base, NewArtifactID(SystemClaude, TypeSkill, "  CODE_REVIEW "))
	assert.Equal(t, base, NewArtifactID(SystemClaude, TypeSkill, "code--review"))
}

func TestNewArtifactID_DistinguishesSystemAndType(t *testing.T) {
	skill := NewArtifactID(SystemClaude, TypeSkill, "review")

	assert.NotEqual(t, skill, NewArtifactID(SystemCursor, TypeSkill, "review"))
	assert.NotEqual(t, skill, NewArtifactID(SystemClaude, TypeRule, "review"))
}

func TestNormalizeName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"simple", "simple"},
		{"Mixed Case", "mixed-case"},
		{"snake_case_name", "snake-case-name"},
		{"trailing-", "trailing"},
		{"Straße", "strasse"},
		{"é", "é"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeName(tt.in))
		})
	}
}

func TestChecksum_ChangesIffContentChanges(t *testing.T) {
	a := Checksum([]byte("hello"))
	b := Checksum([]byte("hello"))
	c := Checksum([]byte("hello!"))

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.True(t, strings.HasPrefix(a, ChecksumPrefix))
}

func TestChecksumFiles_OrderIndependent(t *testing.T) {
	files := map[string][]byte{
		"SKILL.md":         []byte("# skill"),
		"scripts/run.sh":   []byte("echo hi"),
		"reference/api.md": []byte("api"),
	}
	same := map[string][]byte{
		"reference/api.md": []byte("api"),
		"SKILL.md":         []byte("# skill"),
		"scripts/run.sh":   []byte("echo hi"),
	}

	assert.Equal(t, ChecksumFiles(files), ChecksumFiles(same))

	same["scripts/run.sh"] = []byte("echo bye")
	assert.NotEqual(t, ChecksumFiles(files), ChecksumFiles(same))
}

func TestChecksumFiles_PathBoundary(t *testing.T) {
	// Moving bytes between a path and its content must change the hash.
	a := ChecksumFiles(map[string][]byte{"ab": []byte("c")})
	b := ChecksumFiles(map[string][]byte{"a": []byte("bc")})

	assert.NotEqual(t, a, b)
}
