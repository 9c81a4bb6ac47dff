package xades

import "fmt"

// ErrInvalidStructure is used when the XAdES property tree violates a
// cardinality or presence rule the schema (or this engine's stand-in
// structural checks) requires.
type ErrInvalidStructure struct {
	msg string
}

func NewErrInvalidStructure(msg string) ErrInvalidStructure { return ErrInvalidStructure{msg} }

func (e ErrInvalidStructure) Error() string {
	if e.msg != "" {
		return e.msg
	}
	return "signature structure is invalid"
}

// ErrMissingElement is used when a required XAdES element is absent.
type ErrMissingElement struct {
	Path string
}

func (e ErrMissingElement) Error() string {
	return fmt.Sprintf("required element missing: %s", e.Path)
}

// ErrUnsupportedAlgorithm is used when a canonicalization, digest, or
// signature method algorithm is not one this engine implements.
type ErrUnsupportedAlgorithm struct {
	URI string
}

func (e ErrUnsupportedAlgorithm) Error() string {
	return fmt.Sprintf("unsupported algorithm: %s", e.URI)
}

// ErrDigestMismatch is used when a recomputed digest does not equal the
// digest asserted in the signature.
type ErrDigestMismatch struct {
	What string
}

func (e ErrDigestMismatch) Error() string {
	return fmt.Sprintf("digest mismatch: %s", e.What)
}

// ErrCertificateUntrusted is used when the signing certificate does not
// chain to a configured trust anchor. An untrusted OCSP responder is
// reported as ocspclient.ErrOCSPResponderUntrusted instead.
type ErrCertificateUntrusted struct {
	Subject string
}

func (e ErrCertificateUntrusted) Error() string {
	return fmt.Sprintf("certificate is not trusted: %s", e.Subject)
}

// ErrDocumentsMismatch is used when ContainerInfo reports that the set of
// referenced container documents does not match the container's actual
// documents.
type ErrDocumentsMismatch struct{}

func (e ErrDocumentsMismatch) Error() string {
	return "signature references do not match the container's documents"
}

// ErrNoOCSPResponder is used when the signing certificate's issuer has no
// configured OCSP responder.
type ErrNoOCSPResponder struct {
	IssuerCN string
}

func (e ErrNoOCSPResponder) Error() string {
	return fmt.Sprintf("no OCSP responder configured for issuer %q", e.IssuerCN)
}

// ErrIssuerUnknown is used when the signing certificate's issuer cannot be
// located in the certificate store.
type ErrIssuerUnknown struct {
	IssuerCN string
}

func (e ErrIssuerUnknown) Error() string {
	return fmt.Sprintf("issuer certificate unknown: %q", e.IssuerCN)
}

// ErrNonceMismatch is used when the OCSP response's nonce does not equal
// the hash of the signature value.
type ErrNonceMismatch struct{}

func (e ErrNonceMismatch) Error() string {
	return "OCSP response nonce does not match hash of signature value"
}

// ErrOCSPRefMismatch is used when the hash of the embedded OCSP response
// does not equal the digest asserted in CompleteRevocationRefs.
type ErrOCSPRefMismatch struct{}

func (e ErrOCSPRefMismatch) Error() string {
	return "OCSP response digest does not match CompleteRevocationRefs"
}
