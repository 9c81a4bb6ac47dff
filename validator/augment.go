package validator

import (
	"crypto/x509"
	"encoding/base64"
	"fmt"
	"time"

	"github.com/beevik/etree"

	"github.com/vvk-ee/bdoc-verify/canon"
	"github.com/vvk-ee/bdoc-verify/certutil"
	"github.com/vvk-ee/bdoc-verify/digest"
	"github.com/vvk-ee/bdoc-verify/ocspclient"
	"github.com/vvk-ee/bdoc-verify/xmlmodel"
)

// qualifyingPropertiesTag is the dialect-defining root tag TM augmentation
// must locate inside the cloned ds:Object: QualifyingProperties (v1.3.2) or
// QualifyingProperties1 (v1.1.1).
func qualifyingPropertiesTag(dialect xmlmodel.Dialect) string {
	if dialect == xmlmodel.DialectV111 {
		return "QualifyingProperties1"
	}
	return "QualifyingProperties"
}

// findByTag returns the first descendant of root (root included) whose Tag
// matches, ignoring namespace prefix: the cloned subtree already carries
// whatever namespace declarations the original signature bound, so matching
// on the local tag name alone is sufficient and avoids re-deriving prefixes.
func findByTag(root *etree.Element, tag string) *etree.Element {
	if root.Tag == tag {
		return root
	}
	for _, c := range root.ChildElements() {
		if found := findByTag(c, tag); found != nil {
			return found
		}
	}
	return nil
}

// graftTMMaterial clones the signature's original ds:Signature DOM, locates
// its QualifyingProperties element, and appends usp under
// UnsignedProperties/UnsignedSignatureProperties (creating UnsignedProperties
// if this is the first augmentation of a BES signature). It serializes the
// whole document in C14N 1.0 form, not just the grafted subtree, behind an
// XML declaration and a newline, so the result is a complete ds:Signature
// that xades.Parse can read back.
func graftTMMaterial(doc *xmlmodel.Document, usp *etree.Element) (string, error) {
	root := doc.Tree.Root().Copy()

	qp := findByTag(root, qualifyingPropertiesTag(doc.Dialect))
	if qp == nil {
		return "", fmt.Errorf("validator: cloned signature DOM has no %s element", qualifyingPropertiesTag(doc.Dialect))
	}

	unsignedProps := findByTag(qp, "UnsignedProperties")
	if unsignedProps == nil {
		unsignedProps = qp.CreateElement("UnsignedProperties")
	}
	unsignedProps.AddChild(usp)

	canonical, err := canon.Canonicalize(canon.AlgC14N10, root)
	if err != nil {
		return "", err
	}
	return `<?xml version="1.0" encoding="UTF-8"?>` + "\n" + string(canonical), nil
}

// buildUnsignedSignatureProperties synthesizes the UnsignedSignatureProperties
// subtree TM augmentation adds to a BES signature once a fresh OCSP
// confirmation has been obtained: the encapsulated response itself, its
// signing certificate chain, and the digest references binding both back to
// the signature. It carries no namespace declarations of its own; grafted
// under the cloned QualifyingProperties element, it inherits the default and
// ds: bindings already declared there.
func buildUnsignedSignatureProperties(result *ocspclient.Result, digestURI string, responderCerts []*x509.Certificate) (*etree.Element, error) {
	usp := etree.NewElement("UnsignedSignatureProperties")

	ocspDigest, err := digest.Sum(digestURI, result.ResponseBytes)
	if err != nil {
		return nil, err
	}

	refs := usp.CreateElement("CompleteRevocationRefs")
	ocspRefs := refs.CreateElement("OCSPRefs")
	ocspRef := ocspRefs.CreateElement("OCSPRef")
	ident := ocspRef.CreateElement("OCSPIdentifier")
	ident.CreateElement("ProducedAt").SetText(result.ProducedAt.UTC().Format(time.RFC3339))
	digAndVal := ocspRef.CreateElement("DigestAlgAndValue")
	dm := digAndVal.CreateElement("ds:DigestMethod")
	dm.CreateAttr("Algorithm", digestURI)
	digAndVal.CreateElement("ds:DigestValue").SetText(base64.StdEncoding.EncodeToString(ocspDigest))

	certRefs := usp.CreateElement("CompleteCertificateRefs")
	certRefsList := certRefs.CreateElement("CertRefs")
	for _, rc := range responderCerts {
		certDigest, err := digest.Sum(digestURI, certutil.EncodeDER(rc))
		if err != nil {
			return nil, err
		}
		certID := certRefsList.CreateElement("Cert")
		certDigestEl := certID.CreateElement("CertDigest")
		dm := certDigestEl.CreateElement("ds:DigestMethod")
		dm.CreateAttr("Algorithm", digestURI)
		certDigestEl.CreateElement("ds:DigestValue").SetText(base64.StdEncoding.EncodeToString(certDigest))
		issuerSerial := certID.CreateElement("IssuerSerial")
		issuerSerial.CreateElement("ds:X509IssuerName").SetText(rc.Issuer.String())
		issuerSerial.CreateElement("ds:X509SerialNumber").SetText(fmt.Sprint(rc.SerialNumber))
	}

	certValues := usp.CreateElement("CertificateValues")
	for _, rc := range responderCerts {
		certValues.CreateElement("EncapsulatedX509Certificate").SetText(base64.StdEncoding.EncodeToString(rc.Raw))
	}

	revocationValues := usp.CreateElement("RevocationValues")
	ocspValues := revocationValues.CreateElement("OCSPValues")
	ocspValues.CreateElement("EncapsulatedOCSPValue").SetText(base64.StdEncoding.EncodeToString(result.ResponseBytes))

	return usp, nil
}
