package certutil

import (
	"crypto/x509"
	"crypto/x509/pkix"
	"testing"

	"github.com/vvk-ee/bdoc-verify/testhelper"
)

func makeSelfSigned(t *testing.T, cn string) *x509.Certificate {
	t.Helper()
	return testhelper.GenerateRSACertTuple(cn, nil).Cert
}

func TestParseCertificates_PEMRoundTrip(t *testing.T) {
	cert := makeSelfSigned(t, "Test Root")
	der := EncodeDER(cert)
	parsed, err := ParseDER(der)
	if err != nil {
		t.Fatal(err)
	}
	if parsed.Subject.CommonName != "Test Root" {
		t.Fatalf("got CN %q", parsed.Subject.CommonName)
	}
}

func TestIssuerCommonName(t *testing.T) {
	cert := makeSelfSigned(t, "Test Issuer CA")
	cn, err := IssuerCommonName(cert)
	if err != nil {
		t.Fatal(err)
	}
	if cn != "Test Issuer CA" {
		t.Fatalf("got %q", cn)
	}
}

func TestNaiveCommonName(t *testing.T) {
	cn, ok := naiveCommonName("CN=ESTEID-SK 2015,O=AS Sertifitseerimiskeskus,C=EE")
	if !ok || cn != "ESTEID-SK 2015" {
		t.Fatalf("got %q, %v", cn, ok)
	}
	if _, ok := naiveCommonName("O=AS Sertifitseerimiskeskus,C=EE"); ok {
		t.Fatal("expected no match without CN=")
	}
}

func TestVerifyChain_SelfSignedTrusted(t *testing.T) {
	root := makeSelfSigned(t, "Trusted Root")
	pool := x509.NewCertPool()
	pool.AddCert(root)
	if !VerifyChain(root, pool, nil) {
		t.Fatal("expected self-signed root present in the pool to verify")
	}
}

func TestVerifyChain_UntrustedFails(t *testing.T) {
	root := makeSelfSigned(t, "Untrusted Root")
	if VerifyChain(root, x509.NewCertPool(), nil) {
		t.Fatal("expected verification against an empty pool to fail")
	}
}

func TestSameDN_TolerantOfCommaSpacingAndCase(t *testing.T) {
	name := pkix.Name{CommonName: "Foo", Organization: []string{"Bar"}}
	if !SameDN(name, name.String()) {
		t.Fatalf("expected %q to match itself", name.String())
	}
	spaced := "cn=Foo, o=Bar"
	if !SameDN(name, spaced) {
		t.Fatalf("expected %q to tolerantly match %q", spaced, name.String())
	}
}

func TestSameDN_MismatchRejected(t *testing.T) {
	name := pkix.Name{CommonName: "Foo"}
	if SameDN(name, "CN=SomeoneElse") {
		t.Fatal("expected distinct common names not to match")
	}
}
