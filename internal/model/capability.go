package model

// Capability describes how a target system handles one artifact type.
type Capability struct {
	// Supported is true when the system stores this type natively.
	Supported bool
	// TransformsTo names a natively supported type this one can be converted
	// to when Supported is false. Empty means no fallback.
	TransformsTo ArtifactType
}

// Native marks a type as natively supported.
func Native() Capability { return Capability{Supported: true} }

// Via marks a type as unsupported but convertible to t.
func Via(t ArtifactType) Capability { return Capability{TransformsTo: t} }

// Capabilities is the per-system support matrix.
//
// There is one field per ArtifactType, so a system declaration is total by
// construction: a type a system does not mention is explicitly unsupported.
// TestCapabilitiesCoverAllTypes keeps For in step with AllTypes.
type Capabilities struct {
	Skill       Capability
	Agent       Capability
	Command     Capability
	Hook        Capability
	Rule        Capability
	MCPServer   Capability
	Template    Capability
	Context     Capability
	Instruction Capability

	SymlinksSupported bool
}

// For returns the capability for t. The boolean is false only for a type
// outside AllTypes.
func (c Capabilities) For(t ArtifactType) (Capability, bool) {
	switch t {
	case TypeSkill:
		return c.Skill, true
	case TypeAgent:
		return c.Agent, true
	case TypeCommand:
		return c.Command, true
	case TypeHook:
		return c.Hook, true
	case TypeRule:
		return c.Rule, true
	case TypeMCPServer:
		return c.MCPServer, true
	case TypeTemplate:
		return c.Template, true
	case TypeContext:
		return c.Context, true
	case TypeInstruction:
		return c.Instruction, true
	default:
		return Capability{}, false
	}
}

// Supports reports whether t is stored natively.
func (c Capabilities) Supports(t ArtifactType) bool {
	capability, ok := c.For(t)
	return ok && capability.Supported
}

// Resolve returns the type an artifact of type t should be written as.
// It returns t itself when natively supported, the fallback type when a
// transform leads to a natively supported type, and false otherwise.
func (c Capabilities) Resolve(t ArtifactType) (ArtifactType, bool) {
	capability, ok := c.For(t)
	if !ok {
		return "", false
	}
	if capability.Supported {
		return t, true
	}
	if capability.TransformsTo != "" && c.Supports(capability.TransformsTo) {
		return capability.TransformsTo, true
	}
	return "", false
}

// SupportedTypes lists the natively supported types in AllTypes order.
func (c Capabilities) SupportedTypes() []ArtifactType {
	var types []ArtifactType
	for _, t := range AllTypes() {
		if c.Supports(t) {
			types = append(types, t)
		}
	}
	return types
}
