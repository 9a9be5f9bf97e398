package migrator

import (
	"fmt"
	"strings"

	"github.com/beevik/etree"
)

// SDKChoice is the outcome of inspecting the project's PackageReferences.
type SDKChoice int

const (
	// NoneFound means neither SDK was referenced; the normal SDK is used.
	NoneFound SDKChoice = iota
	// NormalSdk means a PackageReference to the normal SDK was found.
	NormalSdk
	// WebSdk means a PackageReference to the web SDK was found. It wins over NormalSdk.
	WebSdk
)

func (c SDKChoice) String() string {
	switch c {
	case WebSdk:
		return "web"
	case NormalSdk:
		return "normal"
	default:
		return "none"
	}
}

// resolveSDK picks the SDK and returns the PackageReference that declared it,
// or nil for NoneFound.
func (m *Migrator) resolveSDK(root *etree.Element) (SDKChoice, *etree.Element) {
	refs := descendants(root, "PackageReference")
	if ref := firstWithInclude(refs, m.rules.SDK.Web); ref != nil {
		return WebSdk, ref
	}
	if ref := firstWithInclude(refs, m.rules.SDK.Normal); ref != nil {
		return NormalSdk, ref
	}
	return NoneFound, nil
}

func firstWithInclude(refs []*etree.Element, id string) *etree.Element {
	for _, ref := range refs {
		if include, ok := attr(ref, "Include"); ok && strings.EqualFold(include, id) {
			return ref
		}
	}
	return nil
}

// selectSDK sets Project/@Sdk and removes the PackageReference that declared the SDK.
func (m *Migrator) selectSDK(root *etree.Element, report *Report) {
	choice, ref := m.resolveSDK(root)
	report.SDK = choice

	switch choice {
	case WebSdk:
		report.info(StepSelectSDK, fmt.Sprintf("%s will be used.", m.rules.SDK.Web))
		root.CreateAttr("Sdk", m.rules.SDK.Web)
	case NormalSdk:
		root.CreateAttr("Sdk", m.rules.SDK.Normal)
	case NoneFound:
		report.info(StepSelectSDK, fmt.Sprintf("No Sdk PackageReference was found. %s will be used.", m.rules.SDK.Normal))
		root.CreateAttr("Sdk", m.rules.SDK.Normal)
	}

	if ref != nil {
		report.remove([]*etree.Element{ref})
	}
}
