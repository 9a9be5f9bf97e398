package migrator

import (
	"fmt"

	"github.com/beevik/etree"
)

// removeWildcardIncludes drops the recursive Compile and EmbeddedResource globs
// the SDK now implies, then any root-level ItemGroup they left empty.
func (m *Migrator) removeWildcardIncludes(root *etree.Element, report *Report) {
	removeItems(root, report, "Compile", m.rules.Wildcards.Compile)
	removeItems(root, report, "EmbeddedResource", m.rules.Wildcards.EmbeddedResource)

	// Must run after the item removals so groups they emptied are caught.
	var empty []*etree.Element
	for _, group := range children(root, "ItemGroup") {
		if len(group.ChildElements()) == 0 {
			empty = append(empty, group)
		}
	}
	report.remove(empty)
}

// removeItems drops every tag element anywhere in the tree whose Include is exactly pattern.
func removeItems(root *etree.Element, report *Report, tag, pattern string) {
	var matched []*etree.Element
	for _, item := range descendants(root, tag) {
		if include, ok := attr(item, "Include"); ok && include == pattern {
			matched = append(matched, item)
		}
	}

	if len(matched) == 0 {
		report.warn(StepRemoveWildcardIncludes,
			fmt.Sprintf("Wildcard include of %s files was not found.", baseName(pattern)), "")
		return
	}
	report.remove(matched)
}
