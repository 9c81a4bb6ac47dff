// Package canon dispatches XML canonicalization by algorithm URI, producing
// the deterministic byte sequence that digest and signature computation
// operate over.
package canon

import (
	"fmt"

	"github.com/beevik/etree"
	dsig "github.com/russellhaering/goxmldsig"
)

// ErrUnsupportedAlgorithm is returned for an unrecognized canonicalization
// algorithm URI.
type ErrUnsupportedAlgorithm struct {
	URI string
}

func (e ErrUnsupportedAlgorithm) Error() string {
	return fmt.Sprintf("unsupported canonicalization algorithm %q", e.URI)
}

// InclusivePrefix is the namespace prefix that every exclusive-C14N
// canonicalization in this package always treats as inclusive. XAdES
// signatures declare the ds: prefix on the enclosing Signature element and
// omit it from inner elements' own namespace declarations; without forcing
// it onto the inclusive list, exclusive canonicalization of a Reference or
// SignedProperties subtree drops the declaration and the digest no longer
// matches what the signer computed.
const InclusivePrefix = "ds"

const (
	AlgC14N10             = "http://www.w3.org/TR/2001/REC-xml-c14n-20010315"
	AlgC14N10WithComments = "http://www.w3.org/TR/2001/REC-xml-c14n-20010315#WithComments"
	AlgExcC14N            = "http://www.w3.org/2001/10/xml-exc-c14n#"
	AlgExcC14NWithComments = "http://www.w3.org/2001/10/xml-exc-c14n#WithComments"
	AlgC14N11             = "http://www.w3.org/2006/12/xml-c14n11"
	AlgC14N11WithComments = "http://www.w3.org/2006/12/xml-c14n11#WithComments"
)

// forAlgorithm returns the goxmldsig canonicalizer for the given algorithm
// URI.
func forAlgorithm(uri string) (dsig.Canonicalizer, error) {
	switch uri {
	case AlgC14N10:
		return dsig.MakeC14N10RecCanonicalizer(), nil
	case AlgC14N10WithComments:
		return dsig.MakeC14N10WithCommentsCanonicalizer(), nil
	case AlgExcC14N:
		return dsig.MakeC14N10ExclusiveCanonicalizerWithPrefixList(InclusivePrefix), nil
	case AlgExcC14NWithComments:
		return dsig.MakeC14N10ExclusiveWithCommentsCanonicalizerWithPrefixList(InclusivePrefix), nil
	case AlgC14N11:
		return dsig.MakeC14N11Canonicalizer(), nil
	case AlgC14N11WithComments:
		return dsig.MakeC14N11WithCommentsCanonicalizer(), nil
	default:
		return nil, ErrUnsupportedAlgorithm{URI: uri}
	}
}

// Canonicalize serializes el deterministically according to algorithmURI.
// el must belong to a whitespace-preserving etree.Document parsed from the
// original signature bytes; canonicalizing an element rebuilt from a typed
// model would silently produce the wrong digest.
func Canonicalize(algorithmURI string, el *etree.Element) ([]byte, error) {
	c, err := forAlgorithm(algorithmURI)
	if err != nil {
		return nil, err
	}
	return c.Canonicalize(el)
}
