// Package certutil wraps crypto/x509 with the certificate-handling behavior
// the signature validation engine needs: DER encode/decode, tolerant DN
// comparison, and chain verification that returns plain booleans.
package certutil

import (
	"crypto"
	"crypto/rsa"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"errors"
	"fmt"
	"strings"
)

// ErrParse is returned when certificate bytes cannot be decoded.
type ErrParse struct {
	Err error
}

func (e ErrParse) Error() string {
	return fmt.Sprintf("failed to parse certificate: %s", e.Err)
}

func (e ErrParse) Unwrap() error { return e.Err }

// ParseDER parses a single DER-encoded certificate.
func ParseDER(der []byte) (*x509.Certificate, error) {
	cert, err := x509.ParseCertificate(der)
	if err != nil {
		return nil, ErrParse{Err: err}
	}
	return cert, nil
}

// ParseCertificates parses either PEM or concatenated DER certificates,
// tolerating whichever encoding a trust bundle happens to be stored in.
func ParseCertificates(data []byte) ([]*x509.Certificate, error) {
	var certs []*x509.Certificate
	block, rest := pem.Decode(data)
	if block == nil {
		derCerts, err := x509.ParseCertificates(data)
		if err != nil {
			return nil, ErrParse{Err: err}
		}
		return derCerts, nil
	}
	for block != nil {
		cert, err := x509.ParseCertificate(block.Bytes)
		if err != nil {
			return nil, ErrParse{Err: err}
		}
		certs = append(certs, cert)
		block, rest = pem.Decode(rest)
	}
	return certs, nil
}

// EncodeDER returns the raw DER encoding of cert.
func EncodeDER(cert *x509.Certificate) []byte {
	return cert.Raw
}

// IssuerCommonName returns the CommonName RDN of cert's issuer DN. It is the
// primary path for locating the OCSP configuration that applies to a signing
// certificate: BDOC keys its OCSP responder directory by issuer CN.
func IssuerCommonName(cert *x509.Certificate) (string, error) {
	if cn := cert.Issuer.CommonName; cn != "" {
		return cn, nil
	}
	// Fall back to a naive scan of the raw issuer DN string for
	// compatibility with OCSP directories keyed against that older,
	// less precise extraction.
	if cn, ok := naiveCommonName(cert.Issuer.String()); ok {
		return cn, nil
	}
	return "", errors.New("issuer has no CommonName")
}

// naiveCommonName extracts the text between the first "CN=" and the
// following comma, matching the legacy extraction behavior some deployments
// configure their OCSP directories against.
func naiveCommonName(dn string) (string, bool) {
	idx := strings.Index(dn, "CN=")
	if idx < 0 {
		return "", false
	}
	rest := dn[idx+len("CN="):]
	if end := strings.IndexByte(rest, ','); end >= 0 {
		rest = rest[:end]
	}
	rest = strings.TrimSpace(rest)
	if rest == "" {
		return "", false
	}
	return rest, true
}

// SameDN reports whether a's distinguished name is the same as dn, a raw DN
// string (typically an XAdES IssuerSerial/X509IssuerName value). It
// tolerates the inner RDN-separator whitespace different X.509/XAdES stacks
// disagree on ("CN=Foo, O=Bar" vs "CN=Foo,O=Bar") and is case-insensitive,
// matching the rest of this package's tolerant string handling.
func SameDN(a pkix.Name, dn string) bool {
	return strings.EqualFold(normalizeDN(a.String()), normalizeDN(dn))
}

// normalizeDN splits a DN string on its RDN separator and rejoins the parts
// with no surrounding whitespace, so two DNs that differ only in comma
// spacing compare equal.
func normalizeDN(dn string) string {
	parts := strings.Split(dn, ",")
	for i, p := range parts {
		parts[i] = strings.TrimSpace(p)
	}
	return strings.Join(parts, ",")
}

// VerifyChain reports whether cert chains to a trust anchor in pool via any
// number of intermediates in the given pool of intermediates.
func VerifyChain(cert *x509.Certificate, roots, intermediates *x509.CertPool) bool {
	if roots == nil {
		return false
	}
	_, err := cert.Verify(x509.VerifyOptions{
		Roots:         roots,
		Intermediates: intermediates,
		KeyUsages:     []x509.ExtKeyUsage{x509.ExtKeyUsageAny},
	})
	return err == nil
}

// VerifySignatureValue verifies that signatureValue is a valid PKCS#1 v1.5
// RSA signature over digest, under cert's public key.
func VerifySignatureValue(cert *x509.Certificate, hash crypto.Hash, digest, signatureValue []byte) error {
	pub, ok := cert.PublicKey.(*rsa.PublicKey)
	if !ok {
		return fmt.Errorf("certutil: signing certificate does not carry an RSA public key (got %T)", cert.PublicKey)
	}
	return rsa.VerifyPKCS1v15(pub, hash, digest, signatureValue)
}
