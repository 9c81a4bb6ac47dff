// Package xades validates XAdES-BES and XAdES-TM signatures embedded in
// BDOC containers: canonicalization-backed reference integrity, signing
// certificate verification, and (together with package validator) the TM
// OCSP nonce binding.
package xades

import (
	"bytes"
	"crypto"
	"crypto/x509"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/multierr"

	"github.com/vvk-ee/bdoc-verify/canon"
	"github.com/vvk-ee/bdoc-verify/certutil"
	"github.com/vvk-ee/bdoc-verify/digest"
	"github.com/vvk-ee/bdoc-verify/internal/logging"
	"github.com/vvk-ee/bdoc-verify/xmlmodel"
)

// sigPropsReferenceSuffix and sigPropsReferenceNSPrefix together identify
// the SignedProperties ds:Reference's Type attribute, e.g.
// "http://uri.etsi.org/01903#SignedProperties". Both must hold: suffix alone
// would misclassify a container-document reference whose Type happens to
// end the same way.
const (
	sigPropsReferenceSuffix   = "#SignedProperties"
	sigPropsReferenceNSPrefix = "http://uri.etsi.org/01903"
)

// Signature is a parsed XAdES signature together with its originating
// container collaborator. It is immutable after Parse except for small
// internal caches populated during validation.
type Signature struct {
	doc       *xmlmodel.Document
	container ContainerInfo
	view      dialectView

	signingCert *x509.Certificate
}

// Parse decodes buf into a Signature bound to container. container is
// consulted only during ValidateOffline's reference-integrity group.
func Parse(buf []byte, container ContainerInfo) (*Signature, error) {
	doc, err := xmlmodel.Parse(buf)
	if err != nil {
		return nil, err
	}
	view, err := newDialectView(doc)
	if err != nil {
		return nil, err
	}
	return &Signature{doc: doc, container: container, view: view}, nil
}

// Dialect reports which XAdES profile version the signature uses.
func (s *Signature) Dialect() xmlmodel.Dialect { return s.doc.Dialect }

// Document exposes the parsed xmlmodel.Document, primarily for the TM
// validator (package validator), which needs both the view and the
// canonicalization tree.
func (s *Signature) Document() *xmlmodel.Document { return s.doc }

// OCSPResponseValue returns the embedded OCSP response bytes from
// RevocationValues, added by TM augmentation.
func (s *Signature) OCSPResponseValue() ([]byte, error) { return s.view.ocspResponseValue() }

// OCSPProducedAt returns the producedAt time recorded in the OCSP reference.
func (s *Signature) OCSPProducedAt() (time.Time, error) { return s.view.ocspProducedAt() }

// OCSPRefDigestAlgorithm returns the digest algorithm URI used to bind the
// OCSP response to CompleteRevocationRefs.
func (s *Signature) OCSPRefDigestAlgorithm() (string, error) { return s.view.ocspRefDigestAlgorithm() }

// OCSPRefDigestValue returns the asserted digest of the embedded OCSP
// response.
func (s *Signature) OCSPRefDigestValue() ([]byte, error) { return s.view.ocspRefDigestValue() }

// HasTMMaterial reports whether UnsignedSignatureProperties (and therefore
// the TM OCSP material) is present at all.
func (s *Signature) HasTMMaterial() bool { return s.view.hasUnsignedSignatureProperties() }

// SignatureValue returns the raw ds:SignatureValue bytes, the value the TM
// OCSP nonce binds to.
func (s *Signature) SignatureValue() []byte { return s.doc.Signature.SignatureValue.Value }

// SigningCertificate returns the parsed signing certificate, populating it
// on first use.
func (s *Signature) SigningCertificate() (*x509.Certificate, error) {
	if s.signingCert != nil {
		return s.signingCert, nil
	}
	x509Datas := s.doc.Signature.KeyInfo.X509Data
	if len(x509Datas) != 1 || len(x509Datas[0].X509Certificate) != 1 {
		return nil, ErrInvalidStructure{msg: "KeyInfo/X509Data must contain exactly one X509Certificate"}
	}
	cert, err := certutil.ParseDER(x509Datas[0].X509Certificate[0])
	if err != nil {
		return nil, err
	}
	s.signingCert = cert
	return cert, nil
}

// ValidateOffline runs the three independent BES validation groups and
// returns their combined failures, if any. trustStore is the pool of
// accepted root certificates for the signing certificate's chain.
func (s *Signature) ValidateOffline(trustStore *x509.CertPool) error {
	var err error
	err = multierr.Append(err, s.checkQualifyingProperties())
	err = multierr.Append(err, s.checkSignatureMethod())
	err = multierr.Append(err, s.checkReferences())
	err = multierr.Append(err, s.checkKeyInfo())
	err = multierr.Append(err, s.checkSignatureValue())
	err = multierr.Append(err, s.checkSigningCertificate(trustStore))
	return err
}

// --- Group A: checkQualifyingProperties ---

func (s *Signature) checkQualifyingProperties() error {
	wantTarget := "#" + s.doc.Signature.ID
	if s.view.target() != wantTarget {
		return ErrInvalidStructure{msg: fmt.Sprintf("QualifyingProperties Target %q does not match Signature Id %q", s.view.target(), wantTarget)}
	}
	if s.view.signedPropertiesID() == "" {
		return ErrMissingElement{Path: "SignedProperties/@Id"}
	}
	if s.doc.Dialect == xmlmodel.DialectV132 && s.view.signaturePolicyIdentifierPresent() {
		return ErrInvalidStructure{msg: "SignaturePolicyIdentifier is not permitted in XAdES v1.3.2 signatures"}
	}
	if s.doc.Dialect == xmlmodel.DialectV111 && s.view.signaturePolicyIdentifierPresent() {
		logging.L().Debug("SignaturePolicyIdentifier present in XAdES v1.1.1 signature; not enforced")
	}
	if s.doc.Tree.Root().FindElement(".//UnsignedDataObjectProperties") != nil {
		return ErrInvalidStructure{msg: "UnsignedDataObjectProperties is not permitted"}
	}
	return nil
}

// --- Group B: algorithmic integrity ---

func (s *Signature) checkSignatureMethod() error {
	alg := s.doc.Signature.SignedInfo.SignatureMethod.Algorithm
	if !xmlmodel.SupportedSignatureMethods[alg] {
		return ErrUnsupportedAlgorithm{URI: alg}
	}
	return nil
}

func (s *Signature) checkReferences() error {
	refs := s.doc.Signature.SignedInfo.Reference
	wantCount := s.container.DocumentCount() + 1
	if len(refs) != wantCount {
		return ErrInvalidStructure{msg: fmt.Sprintf("expected %d references (documents + SignedProperties), found %d", wantCount, len(refs))}
	}

	var sigPropsRef *xmlmodel.Reference
	var docRefs []xmlmodel.Reference
	for i := range refs {
		r := &refs[i]
		if strings.HasPrefix(r.Type, sigPropsReferenceNSPrefix) && strings.HasSuffix(r.Type, sigPropsReferenceSuffix) {
			if sigPropsRef != nil {
				return ErrInvalidStructure{msg: "more than one reference targets SignedProperties"}
			}
			sigPropsRef = r
			continue
		}
		docRefs = append(docRefs, *r)
	}
	if sigPropsRef == nil {
		return ErrInvalidStructure{msg: "signature does not contain a reference to SignedProperties"}
	}

	if err := s.checkSignedPropertiesDigest(sigPropsRef); err != nil {
		return err
	}

	s.container.CheckDocumentsBegin()
	for _, r := range docRefs {
		uri := strings.TrimPrefix(r.URI, "/")
		s.container.CheckDocument(uri, r.DigestMethod.Algorithm, r.DigestValue.Value)
	}
	if !s.container.CheckDocumentsResult() {
		return ErrDocumentsMismatch{}
	}
	return nil
}

func (s *Signature) checkSignedPropertiesDigest(ref *xmlmodel.Reference) error {
	if ref.URI == "" {
		return ErrInvalidStructure{msg: "SignedProperties reference has no URI"}
	}
	el, err := s.doc.FindElement(s.view.namespace(), "SignedProperties")
	if err != nil {
		return err
	}
	canonMethod := s.doc.Signature.SignedInfo.CanonicalizationMethod.Algorithm
	canonical, err := canon.Canonicalize(canonMethod, el)
	if err != nil {
		return err
	}
	want := ref.DigestValue.Value
	got, err := digest.Sum(ref.DigestMethod.Algorithm, canonical)
	if err != nil {
		return err
	}
	if !bytes.Equal(got, want) {
		return ErrDigestMismatch{What: "SignedProperties"}
	}
	return nil
}

func (s *Signature) checkKeyInfo() error {
	cert, err := s.SigningCertificate()
	if err != nil {
		return err
	}

	wantAlg, err := s.view.signingCertDigestAlgorithm()
	if err != nil {
		return err
	}
	wantDigest, err := s.view.signingCertDigestValue()
	if err != nil {
		return err
	}
	gotDigest, err := digest.Sum(wantAlg, certutil.EncodeDER(cert))
	if err != nil {
		return err
	}
	if !bytes.Equal(gotDigest, wantDigest) {
		return ErrDigestMismatch{What: "signing certificate"}
	}

	wantIssuer, err := s.view.signingCertIssuerName()
	if err != nil {
		return err
	}
	if !certutil.SameDN(cert.Issuer, wantIssuer) {
		return ErrInvalidStructure{msg: fmt.Sprintf("signing certificate issuer %q does not match IssuerSerial %q", cert.Issuer.String(), wantIssuer)}
	}

	wantSerial, err := s.view.signingCertSerialNumber()
	if err != nil {
		return err
	}
	if strconv.FormatInt(cert.SerialNumber.Int64(), 10) != strings.TrimSpace(wantSerial) && cert.SerialNumber.String() != strings.TrimSpace(wantSerial) {
		return ErrInvalidStructure{msg: "signing certificate serial number does not match IssuerSerial"}
	}

	return nil
}

func (s *Signature) checkSignatureValue() error {
	cert, err := s.SigningCertificate()
	if err != nil {
		return err
	}
	sigMethod := s.doc.Signature.SignedInfo.SignatureMethod.Algorithm
	hashAlg, err := digest.HashForSignatureMethod(sigMethod)
	if err != nil {
		return err
	}

	signedInfoEl, err := s.doc.FindElement(xmlmodel.Namespace, "SignedInfo")
	if err != nil {
		return err
	}
	canonMethod := s.doc.Signature.SignedInfo.CanonicalizationMethod.Algorithm
	canonical, err := canon.Canonicalize(canonMethod, signedInfoEl)
	if err != nil {
		return err
	}
	h, err := digest.New(digestURIForHash(hashAlg))
	if err != nil {
		return err
	}
	h.Write(canonical)
	digestValue := h.Sum()

	if err := certutil.VerifySignatureValue(cert, hashAlg, digestValue, s.doc.Signature.SignatureValue.Value); err != nil {
		return ErrDigestMismatch{What: "SignatureValue does not verify under signing certificate: " + err.Error()}
	}
	return nil
}

// digestURIForHash inverts digest.HashForSignatureMethod's algorithm choice
// back to a digest URI so the same Digest registry can be reused to hash
// SignedInfo under the signature method's implied hash algorithm.
func digestURIForHash(h crypto.Hash) string {
	switch h {
	case crypto.SHA1:
		return "http://www.w3.org/2000/09/xmldsig#sha1"
	case crypto.SHA224:
		return "http://www.w3.org/2001/04/xmlenc#sha224"
	default:
		return "http://www.w3.org/2001/04/xmlenc#sha256"
	}
}

// --- Group C: signing certificate trust ---

func (s *Signature) checkSigningCertificate(trustStore *x509.CertPool) error {
	cert, err := s.SigningCertificate()
	if err != nil {
		return err
	}
	if !certutil.VerifyChain(cert, trustStore, nil) {
		return ErrCertificateUntrusted{Subject: cert.Subject.String()}
	}
	return nil
}
