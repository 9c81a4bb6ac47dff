package xmlmodel

import (
	"encoding/xml"
	"time"
)

// NamespaceV132 is the XAdES v1.3.2 namespace.
const NamespaceV132 = "http://uri.etsi.org/01903/v1.3.2#"

// DigestAlgAndValue132 pairs a digest method and value, used throughout the
// XAdES revocation-reference tree.
type DigestAlgAndValue132 struct {
	DigestMethod DigestMethod `xml:"http://www.w3.org/2000/09/xmldsig# DigestMethod"`
	DigestValue  DigestValue  `xml:"http://www.w3.org/2000/09/xmldsig# DigestValue"`
}

// CertID132 identifies the signing certificate by digest and issuer/serial.
type CertID132 struct {
	CertDigest   DigestAlgAndValue132 `xml:"CertDigest"`
	IssuerSerial X509IssuerSerial     `xml:"IssuerSerial"`
}

// SigningCertificate132 is the SignedSignatureProperties/SigningCertificate
// element: a list of candidate certificate identities, of which BDOC only
// ever populates the first.
type SigningCertificate132 struct {
	XMLName xml.Name    `xml:"http://uri.etsi.org/01903/v1.3.2# SigningCertificate"`
	Cert    []CertID132 `xml:"Cert"`
}

// SignedSignatureProperties132 carries the signing time and certificate
// identity that the SignedProperties reference digests over.
type SignedSignatureProperties132 struct {
	XMLName            xml.Name                `xml:"http://uri.etsi.org/01903/v1.3.2# SignedSignatureProperties"`
	SigningTime        *time.Time              `xml:"SigningTime,omitempty"`
	SigningCertificate *SigningCertificate132  `xml:"SigningCertificate,omitempty"`
	SignaturePolicyIdentifier *AnyElem         `xml:"SignaturePolicyIdentifier,omitempty"`
}

// SignedProperties132 is the SignedProperties element referenced by the
// mandatory SigProps ds:Reference.
type SignedProperties132 struct {
	XMLName                   xml.Name                     `xml:"http://uri.etsi.org/01903/v1.3.2# SignedProperties"`
	ID                        string                       `xml:"Id,attr,omitempty"`
	SignedSignatureProperties SignedSignatureProperties132 `xml:"SignedSignatureProperties"`
}

// OCSPIdentifier132 identifies one OCSP response by producedAt time.
type OCSPIdentifier132 struct {
	ProducedAt time.Time `xml:"ProducedAt"`
}

// OCSPRef132 references an OCSP response held in RevocationValues.
type OCSPRef132 struct {
	OCSPIdentifier    OCSPIdentifier132     `xml:"OCSPIdentifier"`
	DigestAlgAndValue DigestAlgAndValue132  `xml:"DigestAlgAndValue"`
}

// CompleteRevocationRefs132 holds the digest-and-time reference to the
// OCSP response embedded elsewhere in RevocationValues.
type CompleteRevocationRefs132 struct {
	XMLName  xml.Name     `xml:"http://uri.etsi.org/01903/v1.3.2# CompleteRevocationRefs"`
	OCSPRefs OCSPRefs132  `xml:"OCSPRefs"`
}

// OCSPRefs132 is the sequence of OCSP references (BDOC always populates one).
type OCSPRefs132 struct {
	OCSPRef []OCSPRef132 `xml:"OCSPRef"`
}

// EncapsulatedOCSPValue132 carries the base64-encoded DER OCSP response.
type EncapsulatedOCSPValue132 struct {
	Value []byte `xml:",chardata"`
}

// OCSPValues132 wraps one or more embedded OCSP responses.
type OCSPValues132 struct {
	EncapsulatedOCSPValue []EncapsulatedOCSPValue132 `xml:"EncapsulatedOCSPValue"`
}

// RevocationValues132 embeds the OCSP response bytes proving the signer's
// certificate was valid at signing time.
type RevocationValues132 struct {
	XMLName    xml.Name       `xml:"http://uri.etsi.org/01903/v1.3.2# RevocationValues"`
	OCSPValues *OCSPValues132 `xml:"OCSPValues,omitempty"`
}

// EncapsulatedX509Certificate132 carries one embedded certificate.
type EncapsulatedX509Certificate132 struct {
	Value []byte `xml:",chardata"`
}

// CertificateValues132 embeds the responder and issuer certificates needed
// to independently verify the OCSP response.
type CertificateValues132 struct {
	XMLName                     xml.Name                         `xml:"http://uri.etsi.org/01903/v1.3.2# CertificateValues"`
	EncapsulatedX509Certificate []EncapsulatedX509Certificate132 `xml:"EncapsulatedX509Certificate,omitempty"`
}

// UnsignedSignatureProperties132 holds the TM material added after BES
// creation: the OCSP response and its integrity references.
type UnsignedSignatureProperties132 struct {
	XMLName                xml.Name                     `xml:"http://uri.etsi.org/01903/v1.3.2# UnsignedSignatureProperties"`
	CompleteRevocationRefs []CompleteRevocationRefs132  `xml:"CompleteRevocationRefs,omitempty"`
	CertificateValues      []CertificateValues132       `xml:"CertificateValues,omitempty"`
	RevocationValues       []RevocationValues132        `xml:"RevocationValues,omitempty"`
}

// UnsignedProperties132 wraps UnsignedSignatureProperties.
type UnsignedProperties132 struct {
	XMLName                     xml.Name                         `xml:"http://uri.etsi.org/01903/v1.3.2# UnsignedProperties"`
	UnsignedSignatureProperties *UnsignedSignatureProperties132  `xml:"UnsignedSignatureProperties,omitempty"`
}

// QualifyingProperties132 is the top-level XAdES v1.3.2 property container.
type QualifyingProperties132 struct {
	XMLName            xml.Name                `xml:"http://uri.etsi.org/01903/v1.3.2# QualifyingProperties"`
	Target             string                  `xml:"Target,attr"`
	SignedProperties   SignedProperties132     `xml:"SignedProperties"`
	UnsignedProperties *UnsignedProperties132  `xml:"UnsignedProperties,omitempty"`
}

// AnyElem captures an element whose content this engine does not interpret
// but must be able to detect the presence of (e.g. SignaturePolicyIdentifier,
// forbidden outright in v1.3.2).
type AnyElem struct {
	Content []byte `xml:",innerxml"`
}
