// Package certstore holds the trust anchors and intermediate/issuer
// certificates a deployment has loaded from disk, and the lookups the
// signature validator needs against them.
package certstore

import (
	"crypto/x509"
	"os"
	"sync"

	"github.com/vvk-ee/bdoc-verify/certutil"
)

// Store is a trust-anchor pool plus an issuer-by-subject index. It is safe
// for concurrent reads once loading has finished; loading itself is not
// goroutine-safe and is expected to happen once at startup.
type Store struct {
	mu            sync.RWMutex
	roots         *x509.CertPool
	intermediates *x509.CertPool
	bySubject     map[string]*x509.Certificate
}

// New returns an empty Store.
func New() *Store {
	return &Store{
		roots:         x509.NewCertPool(),
		intermediates: x509.NewCertPool(),
		bySubject:     make(map[string]*x509.Certificate),
	}
}

// AddTrustAnchor registers cert as a trust anchor.
func (s *Store) AddTrustAnchor(cert *x509.Certificate) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.roots.AddCert(cert)
	s.bySubject[string(cert.RawSubject)] = cert
}

// AddIntermediate registers cert as an issuer/intermediate available for
// chain building, and indexes it for issuer-by-subject lookup.
func (s *Store) AddIntermediate(cert *x509.Certificate) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.intermediates.AddCert(cert)
	s.bySubject[string(cert.RawSubject)] = cert
}

// LoadPEMFile reads a PEM or DER bundle and adds every certificate in it as
// an intermediate. Callers that want a certificate treated as a trust anchor
// should call AddTrustAnchor explicitly after loading.
func (s *Store) LoadPEMFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	certs, err := certutil.ParseCertificates(data)
	if err != nil {
		return err
	}
	for _, c := range certs {
		s.AddIntermediate(c)
	}
	return nil
}

// LoadTrustAnchorFile reads a PEM or DER bundle and adds every certificate
// in it as a trust anchor.
func (s *Store) LoadTrustAnchorFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	certs, err := certutil.ParseCertificates(data)
	if err != nil {
		return err
	}
	for _, c := range certs {
		s.AddTrustAnchor(c)
	}
	return nil
}

// Roots returns the trust-anchor pool for use with (*x509.Certificate).Verify.
func (s *Store) Roots() *x509.CertPool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.roots
}

// Intermediates returns the intermediate pool for use with
// (*x509.Certificate).Verify.
func (s *Store) Intermediates() *x509.CertPool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.intermediates
}

// LookupBySubject finds a loaded certificate whose raw subject matches
// rawSubject exactly, which is how issuer certificates are located for an
// OCSP request (the signing certificate names its issuer by raw DN).
func (s *Store) LookupBySubject(rawSubject []byte) (*x509.Certificate, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	cert, ok := s.bySubject[string(rawSubject)]
	return cert, ok
}
