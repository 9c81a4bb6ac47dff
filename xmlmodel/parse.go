package xmlmodel

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"

	"github.com/beevik/etree"
)

// Dialect distinguishes the two XAdES profile versions BDOC signatures use.
type Dialect int

const (
	DialectUnknown Dialect = iota
	DialectV111
	DialectV132
)

func (d Dialect) String() string {
	switch d {
	case DialectV111:
		return "XAdES v1.1.1"
	case DialectV132:
		return "XAdES v1.3.2"
	default:
		return "unknown"
	}
}

// ErrInvalidStructure signals a schema or cardinality violation.
type ErrInvalidStructure struct {
	Reason string
}

func (e ErrInvalidStructure) Error() string {
	return fmt.Sprintf("invalid signature structure: %s", e.Reason)
}

// ErrParse signals that the input bytes are not well-formed XML.
type ErrParse struct {
	Err error
}

func (e ErrParse) Error() string { return fmt.Sprintf("failed to parse signature xml: %s", e.Err) }
func (e ErrParse) Unwrap() error { return e.Err }

// Document is the parsed view of a ds:Signature document: a typed struct
// tree for reads, plus the whitespace-preserving etree tree of the very
// same bytes for canonicalization, plus the raw buffer itself.
type Document struct {
	Raw       []byte
	Signature SignatureElem
	Tree      *etree.Document
	Dialect   Dialect

	QualifyingV132 *QualifyingProperties132
	QualifyingV111 *QualifyingProperties111
}

// qualifyingProbe holds just an element's name. Parse does not use it:
// determineDialect reads the Object's tokens directly to tell which of the
// two dialect-defining element names is present.
type qualifyingProbe struct {
	XMLName xml.Name
}

// Parse decodes signature bytes into a Document. It never mutates buf and
// keeps a copy so canonicalization always operates on the original bytes.
func Parse(buf []byte) (*Document, error) {
	owned := append([]byte(nil), buf...)

	var sig SignatureElem
	if err := xml.Unmarshal(owned, &sig); err != nil {
		return nil, ErrParse{Err: err}
	}

	tree := etree.NewDocument()
	if err := tree.ReadFromBytes(owned); err != nil {
		return nil, ErrParse{Err: err}
	}

	if len(sig.Object) != 1 {
		return nil, ErrInvalidStructure{Reason: fmt.Sprintf("expected exactly one ds:Object, found %d", len(sig.Object))}
	}

	doc := &Document{Raw: owned, Signature: sig, Tree: tree}
	if err := doc.determineDialect(); err != nil {
		return nil, err
	}
	return doc, nil
}

func (d *Document) determineDialect() error {
	inner := d.Signature.Object[0].Inner
	wrapped := wrapFragment(inner)

	// Determine which of QualifyingProperties (v1.3.2) or
	// QualifyingProperties1 (v1.1.1) is present by decoding the wrapper
	// and inspecting the local names of its immediate children. More than
	// one such element, of either dialect, is a structural error.
	dec := xml.NewDecoder(bytes.NewReader(wrapped))
	var found string
	depth := 0
	for {
		tok, err := dec.Token()
		if err != nil {
			break
		}
		switch t := tok.(type) {
		case xml.StartElement:
			depth++
			if depth == 2 && (t.Name.Local == "QualifyingProperties" || t.Name.Local == "QualifyingProperties1") {
				if found != "" {
					return ErrInvalidStructure{Reason: "ds:Object contains more than one QualifyingProperties element"}
				}
				found = t.Name.Local
			}
		case xml.EndElement:
			depth--
		}
	}

	switch found {
	case "QualifyingProperties":
		var qp QualifyingProperties132
		if err := xml.Unmarshal(inner, &qp); err != nil {
			return ErrParse{Err: err}
		}
		d.Dialect = DialectV132
		d.QualifyingV132 = &qp
		return nil
	case "QualifyingProperties1":
		var qp QualifyingProperties111
		if err := xml.Unmarshal(inner, &qp); err != nil {
			return ErrParse{Err: err}
		}
		d.Dialect = DialectV111
		d.QualifyingV111 = &qp
		return nil
	default:
		return ErrInvalidStructure{Reason: "ds:Object does not contain a recognized QualifyingProperties element"}
	}
}

func wrapFragment(inner []byte) []byte {
	var buf bytes.Buffer
	buf.WriteString("<root>")
	buf.Write(inner)
	buf.WriteString("</root>")
	return buf.Bytes()
}

// FindElement locates the unique descendant element with the given
// (namespace, local-name) pair in the whitespace-preserving tree, which is
// the tree canonicalization must operate on. It is an error for zero or more
// than one element to match.
func (d *Document) FindElement(namespace, local string) (*etree.Element, error) {
	var matches []*etree.Element
	var walk func(e *etree.Element)
	walk = func(e *etree.Element) {
		if elementMatches(e, namespace, local) {
			matches = append(matches, e)
		}
		for _, c := range e.ChildElements() {
			walk(c)
		}
	}
	if d.Tree.Root() != nil {
		walk(d.Tree.Root())
	}
	switch len(matches) {
	case 0:
		return nil, errors.New("element not found: " + namespace + " " + local)
	case 1:
		return matches[0], nil
	default:
		return nil, fmt.Errorf("element %s %s is not unique: found %d", namespace, local, len(matches))
	}
}

func elementMatches(e *etree.Element, namespace, local string) bool {
	if e.Tag != local {
		return false
	}
	ns := e.NamespaceURI()
	return ns == namespace
}
