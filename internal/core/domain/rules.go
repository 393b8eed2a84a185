package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Wildcard matches any attribute name or value in a rule.
const Wildcard = "*"

// KinematicsAttribute marks function blocks that carry a kinematic description.
const KinematicsAttribute = "sm_kin_libdoc"

// AttributeRule matches an attribute by name and, optionally, by value.
// A nil Value matches any value.
type AttributeRule struct {
	Name  string
	Value *string
}

// IsZero reports whether the rule is empty.
func (r AttributeRule) IsZero() bool {
	return r.Name == "" && r.Value == nil
}

// MatchesValue reports whether the rule accepts the given attribute.
func (r AttributeRule) MatchesValue(value *string) bool {
	if r.Value == nil || *r.Value == Wildcard {
		return true
	}
	return value != nil && *value == *r.Value
}

// UnmarshalJSON accepts a bare name, a [name] or a [name, value] pair.
func (r *AttributeRule) UnmarshalJSON(data []byte) error {
	*r = AttributeRule{}
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}

	if data[0] == '"' {
		return json.Unmarshal(data, &r.Name)
	}

	var parts []json.RawMessage
	if err := json.Unmarshal(data, &parts); err != nil {
		return fmt.Errorf("attribute rule: %w", err)
	}
	if len(parts) == 0 {
		return nil
	}
	if err := json.Unmarshal(parts[0], &r.Name); err != nil {
		return fmt.Errorf("attribute rule name: %w", err)
	}
	if len(parts) > 1 && !bytes.Equal(bytes.TrimSpace(parts[1]), []byte("null")) {
		var value string
		if err := json.Unmarshal(parts[1], &value); err != nil {
			// Non-string values compare by their JSON text.
			value = string(bytes.TrimSpace(parts[1]))
		}
		r.Value = &value
	}
	return nil
}

// MarshalJSON writes the rule as a [name, value] pair, or [name] without value.
func (r AttributeRule) MarshalJSON() ([]byte, error) {
	if r.IsZero() {
		return []byte("[]"), nil
	}
	if r.Value == nil {
		return json.Marshal([]string{r.Name})
	}
	return json.Marshal([]string{r.Name, *r.Value})
}

// RuleSection groups attribute and keyword rules of one category.
type RuleSection struct {
	Attribute []AttributeRule `json:"attribute,omitempty"`
	Keyword   []string        `json:"keyword,omitempty"`
}

// CleanRules is the rule set evaluated by the cleaner.
// Fields are declared in key order so encoded rule files are sorted.
type CleanRules struct {
	Exclude  RuleSection `json:"exclude"`
	Filter   RuleSection `json:"filter"`
	Include  RuleSection `json:"include"`
	Preserve RuleSection `json:"preserve"`
}

// Preserved reports whether a preserve rule protects the named attribute.
func (c *CleanRules) Preserved(name string) bool {
	for _, rule := range c.Preserve.Attribute {
		if !rule.IsZero() && rule.Name == name {
			return true
		}
	}
	return false
}

// DefaultCleanRules returns the built-in rule set: hidden and conditionally
// shown elements are excluded, PRIVATE and INTERNAL elements are excluded,
// every attribute except the kinematic one is stripped.
func DefaultCleanRules() CleanRules {
	return CleanRules{
		Exclude: RuleSection{
			Attribute: []AttributeRule{
				{Name: "hide", Value: ptr(Wildcard)},
				{Name: "conditionalshow", Value: ptr(Wildcard)},
			},
			Keyword: []string{"PRIVATE", "INTERNAL"},
		},
		Include: RuleSection{
			Attribute: []AttributeRule{},
			Keyword:   []string{},
		},
		Filter: RuleSection{
			Attribute: []AttributeRule{{Name: Wildcard, Value: ptr(Wildcard)}},
		},
		Preserve: RuleSection{
			Attribute: []AttributeRule{{Name: KinematicsAttribute, Value: ptr(Wildcard)}},
		},
	}
}

func ptr(s string) *string {
	return &s
}
