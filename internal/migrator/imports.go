package migrator

import (
	"fmt"
	"strings"

	"github.com/beevik/etree"
)

func (m *Migrator) removeCommonProps(root *etree.Element, report *Report) {
	removeImport(root, report, StepRemoveCommonProps, m.rules.Imports.CommonProps)
}

func (m *Migrator) removeCSharpTargets(root *etree.Element, report *Report) {
	removeImport(root, report, StepRemoveCSharpTargets, m.rules.Imports.CSharpTargets)
}

// removeImport drops every root-level <Import> whose Project matches project,
// ignoring case. Nested imports (inside Choose/When, ImportGroup) are left alone.
func removeImport(root *etree.Element, report *Report, step, project string) {
	var matched []*etree.Element
	for _, imp := range children(root, "Import") {
		if value, ok := attr(imp, "Project"); ok && strings.EqualFold(value, project) {
			matched = append(matched, imp)
		}
	}

	if len(matched) == 0 {
		report.warn(step, fmt.Sprintf("Import of %s was not found.", baseName(project)), "")
		return
	}
	report.remove(matched)
}

// baseName returns the last segment of an MSBuild path, which may use either separator.
func baseName(path string) string {
	if i := strings.LastIndexAny(path, `\/`); i >= 0 {
		return path[i+1:]
	}
	return path
}
