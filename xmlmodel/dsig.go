// Package xmlmodel provides the struct trees for W3C XML-DSig and the two
// XAdES property dialects (v1.1.1 and v1.3.2) that BDOC signatures embed, and
// the parser that turns signature bytes into them.
package xmlmodel

import "encoding/xml"

// Namespace is the XML Digital Signature namespace.
const Namespace = "http://www.w3.org/2000/09/xmldsig#"

// CanonicalizationMethod names the algorithm used to canonicalize SignedInfo.
type CanonicalizationMethod struct {
	XMLName   xml.Name `xml:"http://www.w3.org/2000/09/xmldsig# CanonicalizationMethod"`
	Algorithm string   `xml:"Algorithm,attr"`
}

// SignatureMethod names the signing algorithm.
type SignatureMethod struct {
	XMLName   xml.Name `xml:"http://www.w3.org/2000/09/xmldsig# SignatureMethod"`
	Algorithm string   `xml:"Algorithm,attr"`
}

// DigestMethod names a digest algorithm.
type DigestMethod struct {
	XMLName   xml.Name `xml:"http://www.w3.org/2000/09/xmldsig# DigestMethod"`
	Algorithm string   `xml:"Algorithm,attr"`
}

// DigestValue carries a base64 digest, decoded by encoding/xml's []byte
// chardata handling.
type DigestValue struct {
	XMLName xml.Name `xml:"http://www.w3.org/2000/09/xmldsig# DigestValue"`
	Value   []byte   `xml:",chardata"`
}

// Transform names one transform applied before digesting a Reference.
type Transform struct {
	XMLName   xml.Name `xml:"http://www.w3.org/2000/09/xmldsig# Transform"`
	Algorithm string   `xml:"Algorithm,attr"`
}

// Transforms is the ordered transform list of a Reference.
type Transforms struct {
	XMLName    xml.Name    `xml:"http://www.w3.org/2000/09/xmldsig# Transforms"`
	Transforms []Transform `xml:"Transform"`
}

// Reference is one ds:Reference: either the SignedProperties reference or a
// reference into a container document.
type Reference struct {
	XMLName      xml.Name    `xml:"http://www.w3.org/2000/09/xmldsig# Reference"`
	ID           string      `xml:"Id,attr,omitempty"`
	URI          string      `xml:"URI,attr,omitempty"`
	Type         string      `xml:"Type,attr,omitempty"`
	Transforms   *Transforms `xml:"Transforms,omitempty"`
	DigestMethod DigestMethod `xml:"DigestMethod"`
	DigestValue  DigestValue  `xml:"DigestValue"`
}

// SignedInfo is the digest-and-method manifest that SignatureValue signs.
type SignedInfo struct {
	XMLName                xml.Name               `xml:"http://www.w3.org/2000/09/xmldsig# SignedInfo"`
	ID                     string                 `xml:"Id,attr,omitempty"`
	CanonicalizationMethod CanonicalizationMethod `xml:"CanonicalizationMethod"`
	SignatureMethod        SignatureMethod        `xml:"SignatureMethod"`
	Reference              []Reference            `xml:"Reference"`
}

// SignatureValueElem carries the raw signature bytes.
type SignatureValueElem struct {
	XMLName xml.Name `xml:"http://www.w3.org/2000/09/xmldsig# SignatureValue"`
	ID      string   `xml:"Id,attr,omitempty"`
	Value   []byte   `xml:",chardata"`
}

// X509IssuerSerial identifies a certificate by issuer DN and serial number.
type X509IssuerSerial struct {
	X509IssuerName   string `xml:"X509IssuerName"`
	X509SerialNumber string `xml:"X509SerialNumber"`
}

// X509Data carries the signer's certificate.
type X509Data struct {
	XMLName         xml.Name `xml:"http://www.w3.org/2000/09/xmldsig# X509Data"`
	X509Certificate [][]byte `xml:"X509Certificate,omitempty"`
}

// KeyInfo wraps the signer's certificate material.
type KeyInfo struct {
	XMLName  xml.Name   `xml:"http://www.w3.org/2000/09/xmldsig# KeyInfo"`
	ID       string     `xml:"Id,attr,omitempty"`
	X509Data []X509Data `xml:"X509Data,omitempty"`
}

// ObjectElem is the ds:Object carrying the XAdES QualifyingProperties.
type ObjectElem struct {
	XMLName xml.Name `xml:"http://www.w3.org/2000/09/xmldsig# Object"`
	Inner   []byte   `xml:",innerxml"`
}

// SignatureElem is the root ds:Signature element.
type SignatureElem struct {
	XMLName        xml.Name            `xml:"http://www.w3.org/2000/09/xmldsig# Signature"`
	ID             string              `xml:"Id,attr,omitempty"`
	SignedInfo     SignedInfo          `xml:"SignedInfo"`
	SignatureValue SignatureValueElem  `xml:"SignatureValue"`
	KeyInfo        KeyInfo             `xml:"KeyInfo"`
	Object         []ObjectElem        `xml:"Object"`
}

// Algorithm URIs used by BDOC signature methods.
const (
	AlgRSAWithSHA1   = "http://www.w3.org/2000/09/xmldsig#rsa-sha1"
	AlgRSAWithSHA224 = "http://www.w3.org/2001/04/xmldsig-more#rsa-sha224"
	AlgRSAWithSHA256 = "http://www.w3.org/2001/04/xmldsig-more#rsa-sha256"
)

// SupportedSignatureMethods lists the signature methods BDOC accepts.
var SupportedSignatureMethods = map[string]bool{
	AlgRSAWithSHA1:   true,
	AlgRSAWithSHA224: true,
	AlgRSAWithSHA256: true,
}
