package adapter

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

const frontmatterDelim = "---"

// ParseFrontmatter splits content into its YAML frontmatter and body.
// Content without a frontmatter block yields an empty map and the content unchanged.
func ParseFrontmatter(content string) (map[string]any, string, error) {
	fm := map[string]any{}

	if !strings.HasPrefix(content, frontmatterDelim) {
		return fm, content, nil
	}

	rest := strings.TrimPrefix(content[len(frontmatterDelim):], "\r")
	rest = strings.TrimPrefix(rest, "\n")

	idx := strings.Index(rest, "\n"+frontmatterDelim)
	if idx == -1 {
		return fm, content, nil
	}

	block := rest[:idx]
	body := rest[idx+1+len(frontmatterDelim):]
	body = strings.TrimLeft(body, "\r\n")

	if err := yaml.Unmarshal([]byte(block), &fm); err != nil {
		return nil, "", fmt.Errorf("parse frontmatter: %w", err)
	}
	if fm == nil {
		fm = map[string]any{}
	}
	return fm, body, nil
}

// RenderFrontmatter joins frontmatter and body. fm may be a map or a struct
// with yaml tags; struct field order is kept. An empty frontmatter yields body alone.
func RenderFrontmatter(fm any, body string) (string, error) {
	if m, ok := fm.(map[string]any); ok && len(m) == 0 {
		return body, nil
	}

	data, err := yaml.Marshal(fm)
	if err != nil {
		return "", fmt.Errorf("render frontmatter: %w", err)
	}

	var b strings.Builder
	b.WriteString(frontmatterDelim + "\n")
	b.Write(data)
	b.WriteString(frontmatterDelim + "\n")
	if body != "" {
		b.WriteString("\n")
		b.WriteString(strings.TrimLeft(body, "\n"))
	}
	return b.String(), nil
}

func stringField(fm map[string]any, key string) string {
	if v, ok := fm[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// stringsField accepts either a YAML list or a comma-separated string.
func stringsField(fm map[string]any, key string) []string {
	switch v := fm[key].(type) {
	case string:
		var out []string
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
		return out
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	case []string:
		return v
	}
	return nil
}
