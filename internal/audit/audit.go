// Package audit computes field-level diffs between entity snapshots and
// formats them into the change descriptions stored in history records.
package audit

import (
	"fmt"
	"strings"
)

// Field is one tracked field rendered in its storage serialization.
type Field struct {
	Name  string
	Value string
}

// Snapshot is the ordered set of tracked fields of an entity at one point
// in time. Order follows the entity's field declaration order, which fixes
// the order of change descriptions in a combined record.
type Snapshot []Field

// Diff compares two snapshots and returns the combined change description:
// one "{field}: '{old}' has been changed to '{new}'" clause per changed
// field, joined with ", ", in the old snapshot's order. Fields missing from
// the old snapshot are skipped, so a first-time creation diffs to nothing.
// The empty string means no field changed.
func Diff(old, updated Snapshot) string {
	if len(old) == 0 {
		return ""
	}

	newValues := make(map[string]string, len(updated))
	for _, f := range updated {
		newValues[f.Name] = f.Value
	}

	var changes []string
	for _, f := range old {
		newValue, ok := newValues[f.Name]
		if !ok || newValue == f.Value {
			continue
		}
		changes = append(changes, FormatChange(f.Name, f.Value, newValue))
	}
	return strings.Join(changes, ", ")
}

// FormatChange renders a single field change clause.
func FormatChange(field, old, updated string) string {
	return fmt.Sprintf("%s: '%s' has been changed to '%s'", field, old, updated)
}

// Link renders an embedded reference to another record. The anchor form is
// what history consumers parse to resolve cross-references.
func Link(url, text string) string {
	return fmt.Sprintf("<a href=%q>%s</a>", url, text)
}
