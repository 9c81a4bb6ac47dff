// Package config holds the small ambient configuration this engine needs:
// the default digest algorithm and the per-issuer OCSP responder directory,
// a plain Go-native structure optionally filled from JSON.
package config

import (
	"crypto/x509"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/vvk-ee/bdoc-verify/certstore"
	"github.com/vvk-ee/bdoc-verify/certutil"
)

// OCSPConf is the responder configuration for one certificate issuer.
type OCSPConf struct {
	URL            string        `json:"url"`
	ResponderCerts []string      `json:"responderCertFiles"`
	Skew           time.Duration `json:"skew"`
	MaxAge         time.Duration `json:"maxAge"`

	responderCerts []*x509.Certificate
}

// ResponderCertificates returns the parsed responder certificates, loading
// them from ResponderCerts file paths on first use.
func (c *OCSPConf) ResponderCertificates() ([]*x509.Certificate, error) {
	if c.responderCerts != nil {
		return c.responderCerts, nil
	}
	var certs []*x509.Certificate
	for _, path := range c.ResponderCerts {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading OCSP responder certificate %s: %w", path, err)
		}
		parsed, err := certutil.ParseCertificates(raw)
		if err != nil {
			return nil, fmt.Errorf("parsing OCSP responder certificate %s: %w", path, err)
		}
		certs = append(certs, parsed...)
	}
	c.responderCerts = certs
	return certs, nil
}

// Configuration is the engine's top-level ambient configuration.
type Configuration struct {
	DigestURI     string               `json:"digestURI"`
	CertStore     *certstore.Store     `json:"-"`
	OCSPDirectory map[string]*OCSPConf `json:"ocspDirectory"`
}

// New returns an empty Configuration with the given default digest URI and
// certificate store.
func New(digestURI string, store *certstore.Store) *Configuration {
	return &Configuration{
		DigestURI:     digestURI,
		CertStore:     store,
		OCSPDirectory: make(map[string]*OCSPConf),
	}
}

// Load reads a JSON configuration file into a Configuration and sets its
// CertStore to store. Trust material is loaded from its own PEM files, not
// embedded in this document.
func Load(path string, store *certstore.Store) (*Configuration, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading configuration %s: %w", path, err)
	}
	cfg := &Configuration{OCSPDirectory: make(map[string]*OCSPConf)}
	if err := json.Unmarshal(raw, cfg); err != nil {
		return nil, fmt.Errorf("parsing configuration %s: %w", path, err)
	}
	cfg.CertStore = store
	return cfg, nil
}

// HasOCSPConf reports whether an OCSP responder is configured for issuer
// common name cn.
func (c *Configuration) HasOCSPConf(cn string) bool {
	_, ok := c.OCSPDirectory[cn]
	return ok
}

// GetOCSPConf returns the OCSP responder configuration for issuer common
// name cn.
func (c *Configuration) GetOCSPConf(cn string) (*OCSPConf, bool) {
	conf, ok := c.OCSPDirectory[cn]
	return conf, ok
}
