package xades

import (
	"bytes"
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/base64"
	"fmt"
	"math/big"
	"testing"
	"time"

	"github.com/beevik/etree"

	"github.com/vvk-ee/bdoc-verify/canon"
)

// fakeContainer implements ContainerInfo for a single known document.
type fakeContainer struct {
	docs map[string][]byte // uri -> expected sha256 digest
	seen map[string]bool
}

func newFakeContainer(docs map[string][]byte) *fakeContainer {
	return &fakeContainer{docs: docs}
}

func (c *fakeContainer) DocumentCount() int { return len(c.docs) }
func (c *fakeContainer) CheckDocumentsBegin() { c.seen = make(map[string]bool) }
func (c *fakeContainer) CheckDocument(uri, digestAlgURI string, digestValue []byte) {
	want, ok := c.docs[uri]
	if !ok {
		return
	}
	if bytes.Equal(want, digestValue) {
		c.seen[uri] = true
	}
}
func (c *fakeContainer) CheckDocumentsResult() bool {
	return len(c.seen) == len(c.docs)
}

func makeSigningCert(t *testing.T) (*x509.Certificate, *rsa.PrivateKey) {
	t.Helper()
	priv, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatal(err)
	}
	tmpl := &x509.Certificate{
		SerialNumber:          big.NewInt(42),
		Subject:               pkix.Name{CommonName: "Test Signer"},
		Issuer:                pkix.Name{CommonName: "Test CA"},
		NotBefore:             time.Now().Add(-time.Hour),
		NotAfter:              time.Now().Add(time.Hour),
		BasicConstraintsValid: true,
		KeyUsage:              x509.KeyUsageDigitalSignature | x509.KeyUsageCertSign,
		IsCA:                  true, // self-signed root stand-in for test simplicity
	}
	der, err := x509.CreateCertificate(rand.Reader, tmpl, tmpl, &priv.PublicKey, priv)
	if err != nil {
		t.Fatal(err)
	}
	cert, err := x509.ParseCertificate(der)
	if err != nil {
		t.Fatal(err)
	}
	return cert, priv
}

// buildAndSign constructs a full ds:Signature XAdES v1.3.2 BES document with
// exclusive C14N and RSA-SHA256, computing real digests at each step the
// same way the production verifier does, so the resulting bytes verify.
func buildAndSign(t *testing.T, cert *x509.Certificate, priv *rsa.PrivateKey, docDigest []byte) []byte {
	t.Helper()

	certB64 := base64.StdEncoding.EncodeToString(cert.Raw)
	certDigest := sha256.Sum256(cert.Raw)
	certDigestB64 := base64.StdEncoding.EncodeToString(certDigest[:])
	docDigestB64 := base64.StdEncoding.EncodeToString(docDigest)

	signedProps := fmt.Sprintf(`<SignedProperties xmlns="http://uri.etsi.org/01903/v1.3.2#" xmlns:ds="http://www.w3.org/2000/09/xmldsig#" Id="SP"><SignedSignatureProperties><SigningCertificate><Cert><CertDigest><ds:DigestMethod Algorithm="http://www.w3.org/2001/04/xmlenc#sha256"/><ds:DigestValue>%s</ds:DigestValue></CertDigest><IssuerSerial><ds:X509IssuerName>%s</ds:X509IssuerName><ds:X509SerialNumber>%s</ds:X509SerialNumber></IssuerSerial></Cert></SigningCertificate></SignedSignatureProperties></SignedProperties>`,
		certDigestB64, cert.Issuer.String(), cert.SerialNumber.String())

	spDoc := etree.NewDocument()
	if err := spDoc.ReadFromString(signedProps); err != nil {
		t.Fatal(err)
	}
	spCanonical, err := canon.Canonicalize(canon.AlgExcC14N, spDoc.Root())
	if err != nil {
		t.Fatal(err)
	}
	spDigest := sha256.Sum256(spCanonical)
	spDigestB64 := base64.StdEncoding.EncodeToString(spDigest[:])

	signedInfo := fmt.Sprintf(`<ds:SignedInfo xmlns:ds="http://www.w3.org/2000/09/xmldsig#"><ds:CanonicalizationMethod Algorithm="http://www.w3.org/2001/10/xml-exc-c14n#"/><ds:SignatureMethod Algorithm="http://www.w3.org/2001/04/xmldsig-more#rsa-sha256"/><ds:Reference URI="#SP" Type="http://uri.etsi.org/01903#SignedProperties"><ds:DigestMethod Algorithm="http://www.w3.org/2001/04/xmlenc#sha256"/><ds:DigestValue>%s</ds:DigestValue></ds:Reference><ds:Reference URI="doc1.txt"><ds:DigestMethod Algorithm="http://www.w3.org/2001/04/xmlenc#sha256"/><ds:DigestValue>%s</ds:DigestValue></ds:Reference></ds:SignedInfo>`,
		spDigestB64, docDigestB64)

	siDoc := etree.NewDocument()
	if err := siDoc.ReadFromString(signedInfo); err != nil {
		t.Fatal(err)
	}
	siCanonical, err := canon.Canonicalize(canon.AlgExcC14N, siDoc.Root())
	if err != nil {
		t.Fatal(err)
	}
	siDigest := sha256.Sum256(siCanonical)
	sigValue, err := rsa.SignPKCS1v15(rand.Reader, priv, crypto.SHA256, siDigest[:])
	if err != nil {
		t.Fatal(err)
	}
	sigValueB64 := base64.StdEncoding.EncodeToString(sigValue)

	full := fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<ds:Signature xmlns:ds="http://www.w3.org/2000/09/xmldsig#" Id="S0">
%s
<ds:SignatureValue>%s</ds:SignatureValue>
<ds:KeyInfo><ds:X509Data><ds:X509Certificate>%s</ds:X509Certificate></ds:X509Data></ds:KeyInfo>
<ds:Object><QualifyingProperties xmlns="http://uri.etsi.org/01903/v1.3.2#" Target="#S0">%s</QualifyingProperties></ds:Object>
</ds:Signature>`, signedInfo, sigValueB64, certB64, signedProps)

	return []byte(full)
}

func TestSignature_ValidateOffline_Success(t *testing.T) {
	cert, priv := makeSigningCert(t)
	docDigest := sha256.Sum256([]byte("document contents"))
	buf := buildAndSign(t, cert, priv, docDigest[:])

	container := newFakeContainer(map[string][]byte{"doc1.txt": docDigest[:]})
	sig, err := Parse(buf, container)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	pool := x509.NewCertPool()
	pool.AddCert(cert)

	if err := sig.ValidateOffline(pool); err != nil {
		t.Fatalf("ValidateOffline() error = %v", err)
	}
}

func TestSignature_ValidateOffline_TamperedDocument(t *testing.T) {
	cert, priv := makeSigningCert(t)
	docDigest := sha256.Sum256([]byte("document contents"))
	buf := buildAndSign(t, cert, priv, docDigest[:])

	// Container reports a different digest than what was signed.
	wrongDigest := sha256.Sum256([]byte("tampered contents"))
	container := newFakeContainer(map[string][]byte{"doc1.txt": wrongDigest[:]})
	sig, err := Parse(buf, container)
	if err != nil {
		t.Fatal(err)
	}

	pool := x509.NewCertPool()
	pool.AddCert(cert)
	if err := sig.ValidateOffline(pool); err == nil {
		t.Fatal("expected validation to fail for tampered document")
	}
}

func TestSignature_ValidateOffline_UntrustedCert(t *testing.T) {
	cert, priv := makeSigningCert(t)
	docDigest := sha256.Sum256([]byte("document contents"))
	buf := buildAndSign(t, cert, priv, docDigest[:])

	container := newFakeContainer(map[string][]byte{"doc1.txt": docDigest[:]})
	sig, err := Parse(buf, container)
	if err != nil {
		t.Fatal(err)
	}

	if err := sig.ValidateOffline(x509.NewCertPool()); err == nil {
		t.Fatal("expected validation to fail against an empty trust store")
	}
}
