// =============================================================================
// csproj-migrator - Project File Module
// =============================================================================
//
// This module loads a project file into a mutable XML tree and writes it
// back. The tree is a github.com/beevik/etree document, which round-trips
// element order, attribute order, comments, processing instructions and
// text faithfully; only what the migration steps change differs on output.
//
// FILE HANDLING:
//   - A UTF-8 byte-order mark is stripped before parsing and written back
//   - Malformed XML is a fatal error; nothing is backed up or written
//   - Saving backs up the original first (see persist.go)
//
// =============================================================================

package projectfile

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/beevik/etree"
	"github.com/spf13/afero"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// ErrNoRootElement is returned for input that parses but holds no element.
var ErrNoRootElement = errors.New("document has no root element")

// =============================================================================
// DOCUMENT STRUCTURE
// =============================================================================

// Document is a parsed project file.
type Document struct {
	// Path is where the document was loaded from and where it is saved.
	Path string

	// Tree is the mutable XML tree.
	Tree *etree.Document

	// BOM records whether the source started with a UTF-8 byte-order mark.
	BOM bool
}

// SerializeOptions controls output formatting.
type SerializeOptions struct {
	// Indent is the number of spaces per nesting level.
	Indent int

	// PreserveWhitespace writes the tree's whitespace as-is instead of re-indenting.
	PreserveWhitespace bool
}

// =============================================================================
// LOADING
// =============================================================================

// Load reads and parses the project file at path.
func Load(fs afero.Fs, path string) (*Document, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read project file: %w", err)
	}

	doc, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	doc.Path = path
	return doc, nil
}

// Parse builds a Document from raw bytes. The returned Document has no Path.
func Parse(data []byte) (*Document, error) {
	bom := bytes.HasPrefix(data, utf8BOM)

	tree := etree.NewDocument()
	tree.ReadSettings.PreserveCData = true
	if err := tree.ReadFromBytes(bytes.TrimPrefix(data, utf8BOM)); err != nil {
		return nil, err
	}
	if tree.Root() == nil {
		return nil, ErrNoRootElement
	}

	return &Document{Tree: tree, BOM: bom}, nil
}

// =============================================================================
// SERIALIZATION
// =============================================================================

// Serialize renders the document to bytes, restoring the BOM if the source had one.
// Re-indenting mutates the tree's whitespace tokens.
func (d *Document) Serialize(opts SerializeOptions) ([]byte, error) {
	if !opts.PreserveWhitespace {
		d.Tree.Indent(opts.Indent)
	}

	var buf bytes.Buffer
	if d.BOM {
		buf.Write(utf8BOM)
	}
	if _, err := d.Tree.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("failed to serialize document: %w", err)
	}
	return buf.Bytes(), nil
}
