// Package testhelper implements certificate fixtures shared by this
// repository's unit tests. It should only be imported from _test.go files.
package testhelper

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"crypto/x509/pkix"
	"math/big"
	"sync"
	"time"
)

// RSACertTuple pairs a generated certificate with its private key, covering
// the RSA-only signature methods BDOC signatures actually use.
type RSACertTuple struct {
	Cert       *x509.Certificate
	PrivateKey *rsa.PrivateKey
}

var (
	rsaRootOnce sync.Once
	rsaRoot     RSACertTuple
)

// GetRSARootCertificate returns a lazily-generated, process-wide self-signed
// RSA root suitable as a trust anchor in tests that don't need a fresh root
// per call.
func GetRSARootCertificate() RSACertTuple {
	rsaRootOnce.Do(func() {
		rsaRoot = GenerateRSACertTuple("BDOC Test RSA Root", nil)
	})
	return rsaRoot
}

// GenerateRSACertTuple generates a fresh RSA certificate with common name
// cn. If issuer is nil, the certificate is self-signed and marked as a CA;
// otherwise it is signed by issuer as a non-CA leaf.
func GenerateRSACertTuple(cn string, issuer *RSACertTuple) RSACertTuple {
	priv, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		panic(err)
	}
	isRoot := issuer == nil
	tmpl := &x509.Certificate{
		SerialNumber:          big.NewInt(time.Now().UnixNano()),
		Subject:               pkix.Name{CommonName: cn},
		NotBefore:             time.Now().Add(-time.Hour),
		NotAfter:              time.Now().Add(24 * time.Hour),
		BasicConstraintsValid: true,
		IsCA:                  isRoot,
		KeyUsage:              x509.KeyUsageDigitalSignature,
	}
	if isRoot {
		tmpl.KeyUsage |= x509.KeyUsageCertSign
	}

	parent := tmpl
	signingKey := priv
	if !isRoot {
		parent = issuer.Cert
		signingKey = issuer.PrivateKey
	}

	der, err := x509.CreateCertificate(rand.Reader, tmpl, parent, &priv.PublicKey, signingKey)
	if err != nil {
		panic(err)
	}
	cert, err := x509.ParseCertificate(der)
	if err != nil {
		panic(err)
	}
	return RSACertTuple{Cert: cert, PrivateKey: priv}
}
