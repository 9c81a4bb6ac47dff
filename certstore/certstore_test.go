package certstore

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"crypto/x509/pkix"
	"math/big"
	"testing"
	"time"
)

func makeCert(t *testing.T, cn string, isCA bool) *x509.Certificate {
	t.Helper()
	priv, _ := rsa.GenerateKey(rand.Reader, 2048)
	tmpl := &x509.Certificate{
		SerialNumber:          big.NewInt(1),
		Subject:               pkix.Name{CommonName: cn},
		NotBefore:             time.Now().Add(-time.Hour),
		NotAfter:              time.Now().Add(time.Hour),
		IsCA:                  isCA,
		BasicConstraintsValid: true,
		KeyUsage:              x509.KeyUsageCertSign | x509.KeyUsageDigitalSignature,
	}
	der, err := x509.CreateCertificate(rand.Reader, tmpl, tmpl, &priv.PublicKey, priv)
	if err != nil {
		t.Fatal(err)
	}
	cert, err := x509.ParseCertificate(der)
	if err != nil {
		t.Fatal(err)
	}
	return cert
}

func TestStore_LookupBySubject(t *testing.T) {
	s := New()
	issuer := makeCert(t, "Issuer CA", true)
	s.AddIntermediate(issuer)

	got, ok := s.LookupBySubject(issuer.RawSubject)
	if !ok {
		t.Fatal("expected issuer to be found")
	}
	if got.Subject.CommonName != "Issuer CA" {
		t.Fatalf("got %q", got.Subject.CommonName)
	}

	if _, ok := s.LookupBySubject([]byte("nonexistent")); ok {
		t.Fatal("expected lookup miss for unloaded subject")
	}
}

func TestStore_TrustAnchorVerifies(t *testing.T) {
	s := New()
	root := makeCert(t, "Root", true)
	s.AddTrustAnchor(root)

	if _, err := root.Verify(x509.VerifyOptions{Roots: s.Roots()}); err != nil {
		t.Fatalf("expected root to verify against its own pool: %v", err)
	}
}
