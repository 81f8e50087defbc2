package rules

import "strings"

// Well-known example labels. Configurations may add further marker
// words; those appear in [Example.Label] verbatim.
const (
	// LabelBad marks an example demonstrating the discouraged form.
	LabelBad = "bad"

	// LabelGood marks an example demonstrating the preferred form.
	LabelGood = "good"
)

// Example is one labeled code sample attached to a rule.
type Example struct {
	// Label is the marker word that introduced the sample, empty when
	// the code carried no marker.
	Label string `json:"label,omitempty" yaml:"label,omitempty"`

	// Language is the fence info language, empty for indented code.
	Language string `json:"language,omitempty" yaml:"language,omitempty"`

	// Code is the sample with the marker line and surrounding blank
	// lines removed.
	Code string `json:"code" yaml:"code"`

	// Line is the source line of the first code line (1-indexed).
	Line int `json:"line" yaml:"line"`
}

// Rule is one advisory unit of the guide: the text stating a
// convention plus the examples attached to it.
type Rule struct {
	// ID identifies the rule. It is the rule's explicit anchor when
	// the guide defines one, or a positional ID such as "strings-2".
	ID string `json:"id" yaml:"id"`

	// Section is the heading trail from the document root to the
	// section the rule lives in.
	Section []string `json:"section,omitempty" yaml:"section,omitempty,flow"`

	// Anchor is the link target for the rule: its own explicit anchor
	// if present, the enclosing section's anchor otherwise.
	Anchor string `json:"anchor,omitempty" yaml:"anchor,omitempty"`

	// Advice is the cleaned advisory text. Empty for example-only
	// rules.
	Advice string `json:"advice,omitempty" yaml:"advice,omitempty"`

	// Examples are the code samples attached to the rule.
	Examples []Example `json:"examples,omitempty" yaml:"examples,omitempty"`

	// Line is the source line the rule starts on (1-indexed).
	Line int `json:"line" yaml:"line"`
}

// SectionPath returns the rule's section trail as a single string.
func (r Rule) SectionPath() string {
	return strings.Join(r.Section, " > ")
}

// HasLabel reports whether any of the rule's examples carries the
// given label.
func (r Rule) HasLabel(label string) bool {
	for _, ex := range r.Examples {
		if ex.Label == label {
			return true
		}
	}
	return false
}

// Counts summarizes an inventory.
type Counts struct {
	// Rules is the number of rules extracted.
	Rules int `json:"rules" yaml:"rules"`

	// Examples is the total number of code samples.
	Examples int `json:"examples" yaml:"examples"`

	// Bad is the number of samples labeled with a bad marker.
	Bad int `json:"bad" yaml:"bad"`

	// Good is the number of samples labeled with a good marker.
	Good int `json:"good" yaml:"good"`

	// Untagged is the number of samples with no marker at all.
	Untagged int `json:"untagged" yaml:"untagged"`
}

// Inventory is the extracted rule set of one document.
type Inventory struct {
	// Source is the path of the document the rules came from.
	Source string `json:"source,omitempty" yaml:"source,omitempty"`

	// Title is the document title.
	Title string `json:"title,omitempty" yaml:"title,omitempty"`

	// Counts summarizes the inventory.
	Counts Counts `json:"counts" yaml:"counts"`

	// Rules are the extracted rules in document order.
	Rules []Rule `json:"rules" yaml:"rules"`
}

// ByLabel returns the rules carrying at least one example with the
// given label, in document order.
func (inv *Inventory) ByLabel(label string) []Rule {
	var out []Rule
	for _, r := range inv.Rules {
		if r.HasLabel(label) {
			out = append(out, r)
		}
	}
	return out
}

// Untagged returns the rules that have examples but no labeled ones.
// These are the spots where the guide shows code without saying which
// form it recommends.
func (inv *Inventory) Untagged() []Rule {
	var out []Rule
	for _, r := range inv.Rules {
		if len(r.Examples) == 0 {
			continue
		}
		labeled := false
		for _, ex := range r.Examples {
			if ex.Label != "" {
				labeled = true
				break
			}
		}
		if !labeled {
			out = append(out, r)
		}
	}
	return out
}

// Sections returns the distinct section paths that contributed rules,
// in document order.
func (inv *Inventory) Sections() []string {
	var out []string
	seen := make(map[string]bool)
	for _, r := range inv.Rules {
		path := r.SectionPath()
		if !seen[path] {
			seen[path] = true
			out = append(out, path)
		}
	}
	return out
}
