// =============================================================================
// csproj-migrator - Migrator Module
// =============================================================================
//
// This module contains the core migration logic. It applies a fixed, ordered
// chain of in-place transformations to a parsed project file, turning the
// msbuild1-era project format into the SDK-style msbuild2 format.
//
// MIGRATION PIPELINE:
//   1. strip-namespaces          Drop the default xmlns from every element
//   2. select-sdk                Set Project/@Sdk, remove the SDK PackageReference
//   3. remove-common-props       Drop the Microsoft.Common.props import
//   4. remove-wildcard-includes  Drop **\*.cs / **\*.resx items and empty ItemGroups
//   5. normalize-versions        Turn <Version> children into Version attributes
//   6. upgrade-version-tags      Rewrite msbuild1-final to msbuild2-final
//   7. remove-csharp-targets     Drop the Microsoft.CSharp.targets import
//
// Order matters: every step after the first looks elements up by bare local
// name, and the tag rewrite reads attributes the normalizer may have just
// created.
//
// Steps never fail. When an expected legacy structure is missing they record
// a warning in the Report and leave the tree alone.
//
// =============================================================================

package migrator

import (
	"github.com/beevik/etree"

	"github.com/ginjaninja78/csproj-migrator/internal/config"
	"github.com/ginjaninja78/csproj-migrator/internal/types"
)

// =============================================================================
// STEP NAMES
// =============================================================================

const (
	StepStripNamespaces        = "strip-namespaces"
	StepSelectSDK              = "select-sdk"
	StepRemoveCommonProps      = "remove-common-props"
	StepRemoveWildcardIncludes = "remove-wildcard-includes"
	StepNormalizeVersions      = "normalize-versions"
	StepUpgradeVersionTags     = "upgrade-version-tags"
	StepRemoveCSharpTargets    = "remove-csharp-targets"
)

// =============================================================================
// REPORT STRUCTURE
// =============================================================================

// Report collects the diagnostics and statistics of one migration run.
type Report struct {
	// Diagnostics holds every info note and warning, in the order raised.
	Diagnostics []types.Diagnostic

	// SDK is the choice the SDK selector resolved.
	SDK SDKChoice

	// ElementsRemoved counts every element detached from the tree.
	ElementsRemoved int

	// VersionsConverted counts <Version> children turned into attributes.
	VersionsConverted int

	// VersionsUpgraded counts legacy version tags rewritten.
	VersionsUpgraded int

	// StepsRun lists the steps applied, in order.
	StepsRun []string
}

func (r *Report) info(step, msg string) {
	r.Diagnostics = append(r.Diagnostics, types.Diagnostic{
		Severity: types.SeverityInfo,
		Step:     step,
		Message:  msg,
	})
}

func (r *Report) warn(step, msg, element string) {
	r.Diagnostics = append(r.Diagnostics, types.Diagnostic{
		Severity: types.SeverityWarning,
		Step:     step,
		Message:  msg,
		Element:  element,
	})
}

// Warnings returns only the warning diagnostics.
func (r *Report) Warnings() []types.Diagnostic {
	var warnings []types.Diagnostic
	for _, d := range r.Diagnostics {
		if d.Severity == types.SeverityWarning {
			warnings = append(warnings, d)
		}
	}
	return warnings
}

// remove detaches every element in els and counts the ones actually removed.
func (r *Report) remove(els []*etree.Element) int {
	n := 0
	for _, e := range els {
		if detach(e) {
			n++
		}
	}
	r.ElementsRemoved += n
	return n
}

// =============================================================================
// MIGRATOR STRUCTURE
// =============================================================================

// Step is one named in-place transformation of the project tree.
type Step struct {
	Name  string
	Apply func(root *etree.Element, report *Report)
}

// Migrator applies the migration steps in order.
type Migrator struct {
	rules config.Rules
	steps []Step
}

// New creates a Migrator for the given rules with the standard step chain.
func New(rules config.Rules) *Migrator {
	m := &Migrator{rules: rules}
	m.steps = []Step{
		{Name: StepStripNamespaces, Apply: m.stripNamespaces},
		{Name: StepSelectSDK, Apply: m.selectSDK},
		{Name: StepRemoveCommonProps, Apply: m.removeCommonProps},
		{Name: StepRemoveWildcardIncludes, Apply: m.removeWildcardIncludes},
		{Name: StepNormalizeVersions, Apply: m.normalizeVersions},
		{Name: StepUpgradeVersionTags, Apply: m.upgradeVersionTags},
		{Name: StepRemoveCSharpTargets, Apply: m.removeCSharpTargets},
	}
	return m
}

// Steps returns the step chain in application order.
func (m *Migrator) Steps() []Step {
	return append([]Step(nil), m.steps...)
}

// Run applies every step to the document's root element, in order.
// A document without a root element is returned untouched with an empty report.
func (m *Migrator) Run(doc *etree.Document) *Report {
	report := &Report{}
	root := doc.Root()
	if root == nil {
		return report
	}
	for _, step := range m.steps {
		step.Apply(root, report)
		report.StepsRun = append(report.StepsRun, step.Name)
	}
	return report
}
