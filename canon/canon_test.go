package canon

import (
	"bytes"
	"testing"

	"github.com/beevik/etree"
)

func TestCanonicalize_WhitespaceInvariance(t *testing.T) {
	a := etree.NewDocument()
	if err := a.ReadFromString(`<Root xmlns="urn:x"><Child>v</Child></Root>`); err != nil {
		t.Fatal(err)
	}
	b := etree.NewDocument()
	if err := b.ReadFromString("<Root xmlns=\"urn:x\">\n  <Child>v</Child>\n</Root>"); err != nil {
		t.Fatal(err)
	}

	outA, err := Canonicalize(AlgC14N10, a.Root())
	if err != nil {
		t.Fatal(err)
	}
	outB, err := Canonicalize(AlgC14N10, b.Root())
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(outA, outB) {
		t.Fatalf("canonicalization is not whitespace-invariant: %q vs %q", outA, outB)
	}
}

func TestCanonicalize_UnsupportedAlgorithm(t *testing.T) {
	doc := etree.NewDocument()
	doc.ReadFromString(`<Root/>`)
	_, err := Canonicalize("urn:not-a-real-c14n", doc.Root())
	if _, ok := err.(ErrUnsupportedAlgorithm); !ok {
		t.Fatalf("expected ErrUnsupportedAlgorithm, got %v", err)
	}
}

func TestCanonicalize_ExclusiveKeepsDsPrefix(t *testing.T) {
	doc := etree.NewDocument()
	doc.ReadFromString(`<ds:SignedInfo xmlns:ds="http://www.w3.org/2000/09/xmldsig#"><ds:Reference URI="#x"/></ds:SignedInfo>`)
	out, err := Canonicalize(AlgExcC14N, doc.Root())
	if err != nil {
		t.Fatal(err)
	}
	if len(out) == 0 {
		t.Fatal("empty canonicalization output")
	}
}
