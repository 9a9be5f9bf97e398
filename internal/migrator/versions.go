package migrator

import (
	"fmt"

	"github.com/beevik/etree"
)

var referenceTags = []string{"PackageReference", "DotNetCliToolReference"}

// normalizeVersions moves <Version> child elements of package and tool
// references into a Version attribute. The first child's text wins if a
// reference somehow carries several; all of them are removed.
func (m *Migrator) normalizeVersions(root *etree.Element, report *Report) {
	for _, ref := range descendants(root, referenceTags...) {
		if versions := children(ref, "Version"); len(versions) > 0 {
			ref.CreateAttr("Version", versions[0].Text())
			for _, v := range versions {
				ref.RemoveChild(v)
			}
			report.VersionsConverted++
			continue
		}
		if _, ok := attr(ref, "Version"); !ok {
			include, _ := attr(ref, "Include")
			report.warn(StepNormalizeVersions,
				fmt.Sprintf("The %s to %s doesn't contain the Version element.", ref.Tag, include),
				describe(ref))
		}
	}
}

// upgradeVersionTags rewrites references pinned exactly to the legacy
// pre-release tag. Any other value, including the successor, is left alone.
func (m *Migrator) upgradeVersionTags(root *etree.Element, report *Report) {
	for _, ref := range descendants(root, referenceTags...) {
		if version, ok := attr(ref, "Version"); ok && version == m.rules.Versions.Legacy {
			ref.CreateAttr("Version", m.rules.Versions.Successor)
			report.VersionsUpgraded++
		}
	}
}
