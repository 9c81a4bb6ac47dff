// Package digest maps XML-DSig algorithm URIs to hash implementations and
// provides a small streaming wrapper around them.
package digest

import (
	"crypto"
	"fmt"
	"hash"

	// register the concrete hash implementations with the crypto package
	_ "crypto/sha1"
	_ "crypto/sha256"
	_ "crypto/sha512"
)

// ErrUnsupportedAlgorithm is returned when a digest or signature method URI
// does not match any known algorithm.
type ErrUnsupportedAlgorithm struct {
	URI string
}

func (e ErrUnsupportedAlgorithm) Error() string {
	return fmt.Sprintf("unsupported algorithm uri %q", e.URI)
}

// uriToHash maps XML-DSig/XAdES digest method URIs to crypto.Hash. Extending
// support for a new algorithm is a map insertion, not a new switch arm.
var uriToHash = map[string]crypto.Hash{
	"http://www.w3.org/2000/09/xmldsig#sha1":       crypto.SHA1,
	"http://www.w3.org/2001/04/xmlenc#sha224":      crypto.SHA224,
	"http://www.w3.org/2001/04/xmlenc#sha256":      crypto.SHA256,
	"http://www.w3.org/2001/04/xmldsig-more#sha384": crypto.SHA384,
	"http://www.w3.org/2001/04/xmlenc#sha512":      crypto.SHA512,
}

// signatureMethodToHash maps ds:SignatureMethod URIs to the hash algorithm
// they imply, for RSA-PKCS1v15 signature methods used by BDOC.
var signatureMethodToHash = map[string]crypto.Hash{
	"http://www.w3.org/2000/09/xmldsig#rsa-sha1":      crypto.SHA1,
	"http://www.w3.org/2001/04/xmldsig-more#rsa-sha224": crypto.SHA224,
	"http://www.w3.org/2001/04/xmldsig-more#rsa-sha256": crypto.SHA256,
}

// Digest is a streaming digest bound to a named algorithm.
type Digest struct {
	uri string
	h   hash.Hash
}

// New returns a Digest for the given algorithm URI, or ErrUnsupportedAlgorithm
// if the URI is not registered.
func New(uri string) (*Digest, error) {
	alg, ok := uriToHash[uri]
	if !ok {
		return nil, ErrUnsupportedAlgorithm{URI: uri}
	}
	if !alg.Available() {
		return nil, ErrUnsupportedAlgorithm{URI: uri}
	}
	return &Digest{uri: uri, h: alg.New()}, nil
}

// HashForSignatureMethod resolves the hash algorithm implied by a
// ds:SignatureMethod algorithm URI.
func HashForSignatureMethod(uri string) (crypto.Hash, error) {
	alg, ok := signatureMethodToHash[uri]
	if !ok {
		return 0, ErrUnsupportedAlgorithm{URI: uri}
	}
	return alg, nil
}

// HashForDigestURI resolves the crypto.Hash a ds:DigestMethod algorithm URI
// names, for callers (such as the OCSP client) that need the algorithm
// itself rather than a one-shot Sum.
func HashForDigestURI(uri string) (crypto.Hash, error) {
	alg, ok := uriToHash[uri]
	if !ok {
		return 0, ErrUnsupportedAlgorithm{URI: uri}
	}
	return alg, nil
}

// Write implements io.Writer.
func (d *Digest) Write(p []byte) (int, error) {
	return d.h.Write(p)
}

// Sum returns the final digest value.
func (d *Digest) Sum() []byte {
	return d.h.Sum(nil)
}

// Size returns the digest size in bytes.
func (d *Digest) Size() int {
	return d.h.Size()
}

// Sum computes the digest of buf under the named algorithm URI in one call.
func Sum(uri string, buf []byte) ([]byte, error) {
	d, err := New(uri)
	if err != nil {
		return nil, err
	}
	if _, err := d.Write(buf); err != nil {
		return nil, err
	}
	return d.Sum(), nil
}
