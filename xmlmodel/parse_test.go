package xmlmodel

import (
	"strings"
	"testing"
)

const sampleV132 = `<?xml version="1.0" encoding="UTF-8"?>
<ds:Signature xmlns:ds="http://www.w3.org/2000/09/xmldsig#" Id="S0">
  <ds:SignedInfo>
    <ds:CanonicalizationMethod Algorithm="http://www.w3.org/2001/10/xml-exc-c14n#"/>
    <ds:SignatureMethod Algorithm="http://www.w3.org/2001/04/xmldsig-more#rsa-sha256"/>
    <ds:Reference URI="#SP" Type="http://uri.etsi.org/01903#SignedProperties">
      <ds:DigestMethod Algorithm="http://www.w3.org/2001/04/xmlenc#sha256"/>
      <ds:DigestValue>AAAA</ds:DigestValue>
    </ds:Reference>
    <ds:Reference URI="/doc1.txt">
      <ds:DigestMethod Algorithm="http://www.w3.org/2001/04/xmlenc#sha256"/>
      <ds:DigestValue>BBBB</ds:DigestValue>
    </ds:Reference>
  </ds:SignedInfo>
  <ds:SignatureValue>CCCC</ds:SignatureValue>
  <ds:KeyInfo>
    <ds:X509Data><ds:X509Certificate>DDDD</ds:X509Certificate></ds:X509Data>
  </ds:KeyInfo>
  <ds:Object>
    <QualifyingProperties xmlns="http://uri.etsi.org/01903/v1.3.2#" Target="#S0">
      <SignedProperties Id="SP">
        <SignedSignatureProperties>
          <SigningCertificate>
            <Cert>
              <CertDigest>
                <ds:DigestMethod Algorithm="http://www.w3.org/2001/04/xmlenc#sha256"/>
                <ds:DigestValue>EEEE</ds:DigestValue>
              </CertDigest>
              <IssuerSerial>
                <ds:X509IssuerName>CN=Test CA</ds:X509IssuerName>
                <ds:X509SerialNumber>1</ds:X509SerialNumber>
              </IssuerSerial>
            </Cert>
          </SigningCertificate>
        </SignedSignatureProperties>
      </SignedProperties>
    </QualifyingProperties>
  </ds:Object>
</ds:Signature>`

func TestParse_V132(t *testing.T) {
	doc, err := Parse([]byte(sampleV132))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if doc.Dialect != DialectV132 {
		t.Fatalf("got dialect %v, want V132", doc.Dialect)
	}
	if doc.QualifyingV132 == nil {
		t.Fatal("expected QualifyingV132 to be populated")
	}
	if len(doc.Signature.SignedInfo.Reference) != 2 {
		t.Fatalf("got %d references, want 2", len(doc.Signature.SignedInfo.Reference))
	}
	if doc.QualifyingV132.Target != "#S0" {
		t.Fatalf("got Target %q", doc.QualifyingV132.Target)
	}
}

func TestParse_MissingObject(t *testing.T) {
	bad := strings.Replace(sampleV132, "<ds:Object>", "<ds:NotObject>", 1)
	bad = strings.Replace(bad, "</ds:Object>", "</ds:NotObject>", 1)
	_, err := Parse([]byte(bad))
	if _, ok := err.(ErrInvalidStructure); !ok {
		t.Fatalf("expected ErrInvalidStructure, got %v (%T)", err, err)
	}
}

func TestDocument_FindElement(t *testing.T) {
	doc, err := Parse([]byte(sampleV132))
	if err != nil {
		t.Fatal(err)
	}
	el, err := doc.FindElement(Namespace, "SignedInfo")
	if err != nil {
		t.Fatal(err)
	}
	if el.Tag != "SignedInfo" {
		t.Fatalf("got tag %q", el.Tag)
	}
}
