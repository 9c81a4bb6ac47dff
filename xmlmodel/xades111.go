package xmlmodel

import (
	"encoding/xml"
	"time"
)

// NamespaceV111 is the XAdES v1.1.1 namespace.
const NamespaceV111 = "http://uri.etsi.org/01903/v1.1.1#"

// DigestAlgAndValue111 mirrors DigestAlgAndValue132 under the v1.1.1
// namespace.
type DigestAlgAndValue111 struct {
	DigestMethod DigestMethod `xml:"http://www.w3.org/2000/09/xmldsig# DigestMethod"`
	DigestValue  DigestValue  `xml:"http://www.w3.org/2000/09/xmldsig# DigestValue"`
}

// CertID111 mirrors CertID132.
type CertID111 struct {
	CertDigest   DigestAlgAndValue111 `xml:"CertDigest"`
	IssuerSerial X509IssuerSerial     `xml:"IssuerSerial"`
}

// SigningCertificate111 mirrors SigningCertificate132.
type SigningCertificate111 struct {
	XMLName xml.Name    `xml:"http://uri.etsi.org/01903/v1.1.1# SigningCertificate"`
	Cert    []CertID111 `xml:"Cert"`
}

// SignedSignatureProperties111 mirrors the v1.3.2 type. v1.1.1 does not
// forbid SignaturePolicyIdentifier; its presence is permitted but never
// enforced.
type SignedSignatureProperties111 struct {
	XMLName                   xml.Name               `xml:"http://uri.etsi.org/01903/v1.1.1# SignedSignatureProperties"`
	SigningTime               *time.Time             `xml:"SigningTime,omitempty"`
	SigningCertificate        *SigningCertificate111 `xml:"SigningCertificate,omitempty"`
	SignaturePolicyIdentifier *AnyElem               `xml:"SignaturePolicyIdentifier,omitempty"`
}

// SignedProperties111 mirrors SignedProperties132.
type SignedProperties111 struct {
	XMLName                   xml.Name                     `xml:"http://uri.etsi.org/01903/v1.1.1# SignedProperties"`
	ID                        string                       `xml:"Id,attr,omitempty"`
	SignedSignatureProperties SignedSignatureProperties111 `xml:"SignedSignatureProperties"`
}

// OCSPIdentifier111 mirrors OCSPIdentifier132.
type OCSPIdentifier111 struct {
	ProducedAt time.Time `xml:"ProducedAt"`
}

// OCSPRef111 mirrors OCSPRef132.
type OCSPRef111 struct {
	OCSPIdentifier    OCSPIdentifier111    `xml:"OCSPIdentifier"`
	DigestAlgAndValue DigestAlgAndValue111 `xml:"DigestAlgAndValue"`
}

// OCSPRefs111 mirrors OCSPRefs132.
type OCSPRefs111 struct {
	OCSPRef []OCSPRef111 `xml:"OCSPRef"`
}

// CompleteRevocationRefs111 is, unlike its v1.3.2 counterpart, an
// optional singleton rather than a sequence: XAdES v1.1.1 permits at most
// one CompleteRevocationRefs per signature.
type CompleteRevocationRefs111 struct {
	XMLName  xml.Name    `xml:"http://uri.etsi.org/01903/v1.1.1# CompleteRevocationRefs"`
	OCSPRefs OCSPRefs111 `xml:"OCSPRefs"`
}

// EncapsulatedOCSPValue111 mirrors EncapsulatedOCSPValue132.
type EncapsulatedOCSPValue111 struct {
	Value []byte `xml:",chardata"`
}

// OCSPValues111 mirrors OCSPValues132.
type OCSPValues111 struct {
	EncapsulatedOCSPValue []EncapsulatedOCSPValue111 `xml:"EncapsulatedOCSPValue"`
}

// RevocationValues111 is likewise a singleton rather than a sequence.
type RevocationValues111 struct {
	XMLName    xml.Name       `xml:"http://uri.etsi.org/01903/v1.1.1# RevocationValues"`
	OCSPValues *OCSPValues111 `xml:"OCSPValues,omitempty"`
}

// EncapsulatedX509Certificate111 mirrors EncapsulatedX509Certificate132.
type EncapsulatedX509Certificate111 struct {
	Value []byte `xml:",chardata"`
}

// CertificateValues111 mirrors CertificateValues132.
type CertificateValues111 struct {
	XMLName                     xml.Name                         `xml:"http://uri.etsi.org/01903/v1.1.1# CertificateValues"`
	EncapsulatedX509Certificate []EncapsulatedX509Certificate111 `xml:"EncapsulatedX509Certificate,omitempty"`
}

// UnsignedSignatureProperties111 mirrors the v1.3.2 type but with singleton
// (not sequence) CompleteRevocationRefs/RevocationValues, per the v1.1.1
// schema's tighter cardinality.
type UnsignedSignatureProperties111 struct {
	XMLName                xml.Name                    `xml:"http://uri.etsi.org/01903/v1.1.1# UnsignedSignatureProperties"`
	CompleteRevocationRefs *CompleteRevocationRefs111  `xml:"CompleteRevocationRefs,omitempty"`
	CertificateValues      *CertificateValues111       `xml:"CertificateValues,omitempty"`
	RevocationValues       *RevocationValues111        `xml:"RevocationValues,omitempty"`
}

// UnsignedProperties111 mirrors UnsignedProperties132.
type UnsignedProperties111 struct {
	XMLName                     xml.Name                        `xml:"http://uri.etsi.org/01903/v1.1.1# UnsignedProperties"`
	UnsignedSignatureProperties *UnsignedSignatureProperties111 `xml:"UnsignedSignatureProperties,omitempty"`
}

// QualifyingProperties111 is the top-level v1.1.1 property container. Note
// the element name is QualifyingProperties1, not QualifyingProperties — the
// dialect-defining tag difference the parser uses to pick this struct over
// the v1.3.2 one.
type QualifyingProperties111 struct {
	XMLName            xml.Name                `xml:"http://uri.etsi.org/01903/v1.1.1# QualifyingProperties1"`
	Target             string                  `xml:"Target,attr"`
	SignedProperties   SignedProperties111     `xml:"SignedProperties"`
	UnsignedProperties *UnsignedProperties111  `xml:"UnsignedProperties,omitempty"`
}
