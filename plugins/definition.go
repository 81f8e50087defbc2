package plugins

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/tsawler/stylemark/lint"
)

// Scope names the part of a document a check's pattern runs over.
type Scope string

const (
	// ScopeProse covers source lines outside code blocks and headings.
	ScopeProse Scope = "prose"

	// ScopeCode covers code block content, fences excluded.
	ScopeCode Scope = "code"

	// ScopeHeading covers heading text.
	ScopeHeading Scope = "heading"

	// ScopeAll covers every source line.
	ScopeAll Scope = "all"
)

// CheckDefinition describes a pattern check loaded from YAML.
//
// The struct mirrors the on-disk schema under .stylemark/checks/*.yaml
// and is intentionally narrow so definitions can be validated before
// they are compiled into runnable checks.
type CheckDefinition struct {
	ID          string `json:"id" yaml:"id"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	Severity    string `json:"severity,omitempty" yaml:"severity,omitempty"`
	Scope       Scope  `json:"scope,omitempty" yaml:"scope,omitempty"`
	Pattern     string `json:"pattern" yaml:"pattern"`
	Message     string `json:"message,omitempty" yaml:"message,omitempty"`
}

// Normalized returns a trimmed copy of the definition with defaults
// filled in: severity "warning", scope "all", and the description
// standing in for a missing message.
func (def CheckDefinition) Normalized() CheckDefinition {
	clone := CheckDefinition{
		ID:          strings.TrimSpace(def.ID),
		Description: strings.TrimSpace(def.Description),
		Severity:    strings.ToLower(strings.TrimSpace(def.Severity)),
		Scope:       Scope(strings.ToLower(strings.TrimSpace(string(def.Scope)))),
		Pattern:     strings.TrimSpace(def.Pattern),
		Message:     strings.TrimSpace(def.Message),
	}
	if clone.Severity == "" {
		clone.Severity = "warning"
	}
	if clone.Scope == "" {
		clone.Scope = ScopeAll
	}
	if clone.Message == "" {
		clone.Message = clone.Description
	}
	return clone
}

// Validate ensures the definition is well-formed: an ID, a pattern that
// compiles, a known severity and a known scope.
func (def CheckDefinition) Validate() error {
	normalized := def.Normalized()
	if normalized.ID == "" {
		return fmt.Errorf("plugin: id is required")
	}
	if normalized.Pattern == "" {
		return fmt.Errorf("plugin %s: pattern is required", normalized.ID)
	}
	if _, err := regexp.Compile(normalized.Pattern); err != nil {
		return fmt.Errorf("plugin %s: pattern: %w", normalized.ID, err)
	}
	if _, err := lint.ParseSeverity(normalized.Severity); err != nil {
		return fmt.Errorf("plugin %s: %w", normalized.ID, err)
	}
	switch normalized.Scope {
	case ScopeProse, ScopeCode, ScopeHeading, ScopeAll:
	default:
		return fmt.Errorf("plugin %s: unknown scope %q", normalized.ID, normalized.Scope)
	}
	if normalized.Message == "" {
		return fmt.Errorf("plugin %s: message or description is required", normalized.ID)
	}
	return nil
}
