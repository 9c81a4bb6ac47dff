package ocspclient

import (
	"crypto"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/asn1"
	"math/big"

	"golang.org/x/crypto/ocsp"
)

// NonceExtensionOID is the well-known OCSP nonce extension (RFC 6960 §4.4.1),
// exported so callers that parse a response (package validator) can locate
// the echoed nonce without re-declaring the OID.
var NonceExtensionOID = asn1.ObjectIdentifier{1, 3, 6, 1, 5, 5, 7, 48, 1, 2}

// nonceExtensionOID is kept as a package-local alias for readability below.
var nonceExtensionOID = NonceExtensionOID

// The following mirror the unexported request types golang.org/x/crypto/ocsp
// builds internally (RFC 6960 §4.1.1). They are re-declared here because
// BDOC's Time-Mark protocol needs to pin the nonce to a caller-supplied
// value (the hash of the signature being verified) rather than let the
// library generate a random one, and the upstream package does not expose a
// hook for that.
type certID struct {
	HashAlgorithm pkix.AlgorithmIdentifier
	NameHash      []byte
	IssuerKeyHash []byte
	SerialNumber  *big.Int
}

type request struct {
	Cert certID
}

type tbsRequest struct {
	Version        int       `asn1:"explicit,tag:0,default:0,optional"`
	RequestorName  pkix.Name `asn1:"explicit,tag:1,optional"`
	RequestList    []request
	RequestExtensions []pkix.Extension `asn1:"explicit,tag:2,optional"`
}

type ocspRequest struct {
	TBSRequest tbsRequest
}

// hashAlgorithmOID maps a crypto.Hash to its OCSP CertID hash algorithm OID.
var hashAlgorithmOID = map[crypto.Hash]asn1.ObjectIdentifier{
	crypto.SHA1:   {1, 3, 14, 3, 2, 26},
	crypto.SHA256: {2, 16, 840, 1, 101, 3, 4, 2, 1},
}

// BuildRequestWithNonce constructs a DER-encoded OCSPRequest for cert/issuer
// whose nonce extension carries exactly nonce, rather than a randomly
// generated value. This is the request shape the TM protocol requires: the
// responder is expected to echo the nonce back in its response, binding the
// response to the signature value the nonce was derived from.
func BuildRequestWithNonce(cert, issuer *x509.Certificate, hash crypto.Hash, nonce []byte) ([]byte, error) {
	hashOID, ok := hashAlgorithmOID[hash]
	if !ok {
		return nil, ocsp.ResponseError{Status: ocsp.Malformed}
	}

	h := hash.New()
	h.Write(issuer.RawSubject)
	nameHash := h.Sum(nil)

	h = hash.New()
	publicKeyInfo, err := extractSubjectPublicKeyBitString(issuer.RawSubjectPublicKeyInfo)
	if err != nil {
		return nil, err
	}
	h.Write(publicKeyInfo)
	keyHash := h.Sum(nil)

	nonceExt, err := asn1.Marshal(nonce)
	if err != nil {
		return nil, err
	}

	req := ocspRequest{
		TBSRequest: tbsRequest{
			Version: 0,
			RequestList: []request{
				{
					Cert: certID{
						HashAlgorithm: pkix.AlgorithmIdentifier{Algorithm: hashOID},
						NameHash:      nameHash,
						IssuerKeyHash: keyHash,
						SerialNumber:  cert.SerialNumber,
					},
				},
			},
			RequestExtensions: []pkix.Extension{
				{Id: nonceExtensionOID, Value: nonceExt},
			},
		},
	}
	return asn1.Marshal(req)
}

// extractSubjectPublicKeyBitString pulls the raw bit-string content out of a
// DER SubjectPublicKeyInfo, which is what RFC 6960's issuerKeyHash is
// defined over (the BIT STRING content, not the full structure).
func extractSubjectPublicKeyBitString(spki []byte) ([]byte, error) {
	var info struct {
		Algorithm pkix.AlgorithmIdentifier
		PublicKey asn1.BitString
	}
	if _, err := asn1.Unmarshal(spki, &info); err != nil {
		return nil, err
	}
	return info.PublicKey.RightAlign(), nil
}
