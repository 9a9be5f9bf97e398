package migrator

import "github.com/beevik/etree"

// stripNamespaces clears the prefix of every element and attribute from root
// down and drops xmlns / xmlns:* declarations, so later steps can match on bare
// local names. xml:* attributes keep their prefix since it needs no declaration.
// When two attributes collapse to the same name the first one is kept.
func (m *Migrator) stripNamespaces(root *etree.Element, _ *Report) {
	walk(root, func(e *etree.Element) {
		e.Space = ""
		kept := make([]etree.Attr, 0, len(e.Attr))
		seen := make(map[string]bool, len(e.Attr))
		for _, a := range e.Attr {
			if isNamespaceDecl(a) {
				continue
			}
			if a.Space != "xml" {
				a.Space = ""
			}
			name := a.FullKey()
			if seen[name] {
				continue
			}
			seen[name] = true
			kept = append(kept, a)
		}
		e.Attr = kept
	})
}

func isNamespaceDecl(a etree.Attr) bool {
	return a.Space == "xmlns" || (a.Space == "" && a.Key == "xmlns")
}
