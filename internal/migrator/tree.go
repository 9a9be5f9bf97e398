package migrator

import (
	"fmt"

	"github.com/beevik/etree"
)

// walk calls fn for e and every descendant element, depth first, in document order.
func walk(e *etree.Element, fn func(*etree.Element)) {
	fn(e)
	for _, child := range e.ChildElements() {
		walk(child, fn)
	}
}

// descendants returns root and every descendant element whose tag is one of tags.
// The result is a snapshot, so callers may remove the returned elements.
func descendants(root *etree.Element, tags ...string) []*etree.Element {
	var found []*etree.Element
	walk(root, func(e *etree.Element) {
		for _, tag := range tags {
			if e.Tag == tag {
				found = append(found, e)
				return
			}
		}
	})
	return found
}

// children returns the direct child elements of parent with the given tag.
func children(parent *etree.Element, tag string) []*etree.Element {
	var found []*etree.Element
	for _, child := range parent.ChildElements() {
		if child.Tag == tag {
			found = append(found, child)
		}
	}
	return found
}

// attr looks up an unprefixed attribute.
func attr(e *etree.Element, key string) (string, bool) {
	for _, a := range e.Attr {
		if a.Space == "" && a.Key == key {
			return a.Value, true
		}
	}
	return "", false
}

// detach removes e from its parent. It reports false for an element with no parent.
func detach(e *etree.Element) bool {
	parent := e.Parent()
	if parent == nil {
		return false
	}
	return parent.RemoveChild(e) != nil
}

// describe renders an element identity for diagnostics, e.g. `PackageReference Include="Foo"`.
func describe(e *etree.Element) string {
	if include, ok := attr(e, "Include"); ok {
		return fmt.Sprintf("%s Include=%q", e.Tag, include)
	}
	return e.Tag
}
