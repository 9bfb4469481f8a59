package adapter

import (
	"fmt"
	"strings"

	"github.com/roach88/aisync/internal/model"
)

// frontmatterFunc builds the frontmatter for an artifact converted to a
// target type. src is the artifact's original frontmatter.
type frontmatterFunc func(a model.Artifact, src map[string]any) map[string]any

// MetadataTransformedFrom records the original type on a transformed artifact.
const MetadataTransformedFrom = "transformed_from"

// reservedKeys are owned by the target format and never copied from the source.
var reservedKeys = map[string]bool{
	"name": true, "description": true, "globs": true, "alwaysApply": true, "applyTo": true,
}

func genericFrontmatter(a model.Artifact, src map[string]any) map[string]any {
	fm := map[string]any{"name": a.Name}
	if d := describe(a, src); d != "" {
		fm["description"] = d
	}
	return fm
}

// cursorRuleFrontmatter renders .mdc rule metadata. Without globs the rule is always applied.
func cursorRuleFrontmatter(a model.Artifact, src map[string]any) map[string]any {
	fm := map[string]any{"description": describe(a, src)}
	globs := stringsField(src, "globs")
	if len(globs) == 0 {
		globs = stringsField(src, "paths")
	}
	if len(globs) > 0 {
		fm["globs"] = strings.Join(globs, ",")
		fm["alwaysApply"] = false
	} else {
		fm["alwaysApply"] = true
	}
	return fm
}

// copilotInstructionFrontmatter renders .instructions.md metadata; applyTo defaults to every file.
func copilotInstructionFrontmatter(a model.Artifact, src map[string]any) map[string]any {
	fm := map[string]any{"description": describe(a, src)}
	applyTo := stringField(src, "applyTo")
	if applyTo == "" {
		globs := stringsField(src, "globs")
		if len(globs) == 0 {
			globs = stringsField(src, "paths")
		}
		applyTo = strings.Join(globs, ",")
	}
	if applyTo == "" {
		applyTo = "**"
	}
	fm["applyTo"] = applyTo
	return fm
}

func describe(a model.Artifact, src map[string]any) string {
	if a.Description != "" {
		return a.Description
	}
	return stringField(src, "description")
}

// transform converts a to opts.TargetFormat using the layout's frontmatter
// renderers. The result keeps a's ID and source fields so sync state stays
// keyed by the source artifact.
func (l Layout) transform(a model.Artifact, opts TransformOptions) (model.Artifact, error) {
	if opts.SourceFormat != "" && opts.SourceFormat != a.Type {
		return model.Artifact{}, fmt.Errorf("transform %s: artifact is %s, not %s", a.Name, a.Type, opts.SourceFormat)
	}
	if opts.TargetFormat == "" || opts.TargetFormat == a.Type {
		return a, nil
	}
	if a.Type == model.TypeMCPServer || opts.TargetFormat == model.TypeMCPServer {
		return model.Artifact{}, fmt.Errorf("transform %s to %s: %w", a.Type, opts.TargetFormat, ErrUnsupportedType)
	}
	if !l.Capabilities.Supports(opts.TargetFormat) {
		return model.Artifact{}, fmt.Errorf("%s: transform to %s: %w", l.ID, opts.TargetFormat, ErrUnsupportedType)
	}

	src, body, err := ParseFrontmatter(a.Content)
	if err != nil {
		return model.Artifact{}, fmt.Errorf("transform %s: %w", a.Name, err)
	}

	render, ok := l.frontmatter[opts.TargetFormat]
	if !ok {
		render = genericFrontmatter
	}
	fm := render(a, src)
	if opts.PreserveMetadata {
		for k, v := range src {
			if _, set := fm[k]; !set && !reservedKeys[k] {
				fm[k] = v
			}
		}
	}

	content, err := RenderFrontmatter(fm, body)
	if err != nil {
		return model.Artifact{}, fmt.Errorf("transform %s: %w", a.Name, err)
	}

	out := a
	out.Type = opts.TargetFormat
	out.Content = content
	out.Checksum = model.Checksum([]byte(content))
	out.Description = describe(a, src)
	out.Metadata = map[string]any{MetadataTransformedFrom: string(a.Type)}
	if opts.PreserveMetadata {
		for k, v := range a.Metadata {
			if k != MetadataTransformedFrom {
				out.Metadata[k] = v
			}
		}
	}
	return out, nil
}
