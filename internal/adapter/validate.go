package adapter

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/roach88/aisync/internal/model"
)

//go:embed schema/mcp_server.schema.json
var mcpSchemaBytes []byte

const mcpSchemaURL = "mcp_server.schema.json"

var (
	mcpSchema     *jsonschema.Schema
	mcpSchemaOnce sync.Once
	mcpSchemaErr  error
	printer       = message.NewPrinter(language.English)
)

func getMCPSchema() (*jsonschema.Schema, error) {
	mcpSchemaOnce.Do(func() {
		doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(mcpSchemaBytes))
		if err != nil {
			mcpSchemaErr = fmt.Errorf("unmarshal mcp schema: %w", err)
			return
		}
		c := jsonschema.NewCompiler()
		if err := c.AddResource(mcpSchemaURL, doc); err != nil {
			mcpSchemaErr = fmt.Errorf("add mcp schema resource: %w", err)
			return
		}
		mcpSchema, mcpSchemaErr = c.Compile(mcpSchemaURL)
		if mcpSchemaErr != nil {
			mcpSchemaErr = fmt.Errorf("compile mcp schema: %w", mcpSchemaErr)
		}
	})
	return mcpSchema, mcpSchemaErr
}

// ValidateMCPServer checks an MCP server artifact's canonical JSON content.
// A server must define exactly one of command or url.
func ValidateMCPServer(content string) ([]string, error) {
	schema, err := getMCPSchema()
	if err != nil {
		return nil, err
	}

	inst, err := jsonschema.UnmarshalJSON(strings.NewReader(content))
	if err != nil {
		return []string{fmt.Sprintf("invalid JSON: %v", err)}, nil
	}

	err = schema.Validate(inst)
	if err == nil {
		return nil, nil
	}

	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return nil, fmt.Errorf("validate mcp server: %w", err)
	}

	var issues []string
	collectIssues(ve, &issues)
	if len(issues) == 0 {
		issues = append(issues, ve.Error())
	}
	return issues, nil
}

// collectIssues walks to the leaf errors, which carry the property-level detail.
func collectIssues(ve *jsonschema.ValidationError, issues *[]string) {
	if len(ve.Causes) > 0 {
		for _, cause := range ve.Causes {
			collectIssues(cause, issues)
		}
		return
	}
	if ve.ErrorKind == nil {
		return
	}

	kw := ve.ErrorKind.KeywordPath()
	if len(kw) == 0 || kw[len(kw)-1] == "oneOf" {
		return
	}

	msg := ve.ErrorKind.LocalizedString(printer)
	if len(ve.InstanceLocation) > 0 {
		msg = "/" + strings.Join(ve.InstanceLocation, "/") + ": " + msg
	}
	for _, existing := range *issues {
		if existing == msg {
			return
		}
	}
	*issues = append(*issues, msg)
}

// validateCommon applies the checks every adapter shares.
func validateCommon(a model.Artifact, caps model.Capabilities, system model.SystemID) ValidationResult {
	var errs []string

	if strings.TrimSpace(a.Name) == "" {
		errs = append(errs, "name is required")
	}
	if _, ok := caps.For(a.Type); !ok {
		errs = append(errs, fmt.Sprintf("unknown artifact type %q", a.Type))
	} else if _, ok := caps.Resolve(a.Type); !ok {
		errs = append(errs, fmt.Sprintf("%s does not support %s artifacts", system, a.Type))
	}
	if a.Content == "" {
		errs = append(errs, "content is empty")
	}

	if a.Type == model.TypeMCPServer && a.Content != "" {
		issues, err := ValidateMCPServer(a.Content)
		if err != nil {
			errs = append(errs, err.Error())
		}
		errs = append(errs, issues...)
	}

	return ValidationResult{Valid: len(errs) == 0, Errors: errs}
}
