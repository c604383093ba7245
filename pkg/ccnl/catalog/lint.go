package catalog

import (
	"fmt"
	"slices"
)

// Issue is a non-fatal problem found in a template.
type Issue struct {
	TemplateID string
	Key        string
	Message    string
}

// String formats the issue for display.
func (i Issue) String() string {
	return fmt.Sprintf("%s: %s: %s", i.TemplateID, i.Key, i.Message)
}

// Lint reports declared fields that no section uses and placeholders that no
// field declares. Templates that declare no fields are not linted.
func Lint(d DocumentTemplate) []Issue {
	if len(d.Fields) == 0 {
		return nil
	}

	used := d.Placeholders()
	declared := make(map[string]bool, len(d.Fields))
	var issues []Issue

	for _, f := range d.Fields {
		declared[f.Key] = true
		if _, found := slices.BinarySearch(used, f.Key); found {
			continue
		}
		msg := "declared field is not used by any section"
		if f.Required {
			msg = "required field is not used by any section"
		}
		issues = append(issues, Issue{TemplateID: d.ID, Key: f.Key, Message: msg})
	}
	for _, k := range used {
		if !declared[k] {
			issues = append(issues, Issue{TemplateID: d.ID, Key: k, Message: "placeholder has no declared field"})
		}
	}
	return issues
}

// LintAll lints every template in c, ordered by template ID.
func (c *Catalog) LintAll() []Issue {
	var issues []Issue
	for _, d := range c.Templates() {
		issues = append(issues, Lint(d)...)
	}
	return issues
}
