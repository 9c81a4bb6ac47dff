// Package ocspclient implements the TM OCSP protocol: building a request
// whose nonce is pinned to a caller-supplied value, dispatching it over
// HTTP, and verifying the response's signature, trust, and freshness.
package ocspclient

import (
	"bytes"
	"context"
	"crypto"
	"crypto/x509"
	"encoding/asn1"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/crypto/ocsp"

	"github.com/vvk-ee/bdoc-verify/certutil"
)

const ocspMaxResponseSize int64 = 20480

// ErrOCSPBadSignature is returned when the OCSP response's signature does
// not verify under the responder's certificate.
type ErrOCSPBadSignature struct{ Err error }

func (e ErrOCSPBadSignature) Error() string { return fmt.Sprintf("OCSP response signature is invalid: %s", e.Err) }
func (e ErrOCSPBadSignature) Unwrap() error { return e.Err }

// ErrOCSPResponderUntrusted is returned when the responder certificate does
// not chain to a configured trust anchor.
type ErrOCSPResponderUntrusted struct{ Subject string }

func (e ErrOCSPResponderUntrusted) Error() string {
	return fmt.Sprintf("OCSP responder certificate is not trusted: %s", e.Subject)
}

// ErrOCSPStale is returned when the response's producedAt time falls
// outside the configured skew/max-age window.
type ErrOCSPStale struct{ ProducedAt time.Time }

func (e ErrOCSPStale) Error() string {
	return fmt.Sprintf("OCSP response producedAt %s is outside the acceptable freshness window", e.ProducedAt.UTC())
}

// ErrIO is returned for OCSP transport failures.
type ErrIO struct{ Err error }

func (e ErrIO) Error() string { return fmt.Sprintf("OCSP request failed: %s", e.Err) }
func (e ErrIO) Unwrap() error { return e.Err }

// CertStatus mirrors the RFC 6960 certificate statuses this engine surfaces
// to callers. Unlike revocation checkers that reject a REVOKED result
// themselves, this client reports it and leaves the accept/reject decision
// to the caller.
type CertStatus int

const (
	StatusUnknown CertStatus = iota
	StatusGood
	StatusRevoked
)

func (s CertStatus) String() string {
	switch s {
	case StatusGood:
		return "good"
	case StatusRevoked:
		return "revoked"
	default:
		return "unknown"
	}
}

// Config is the per-issuer OCSP configuration BDOC keys by signing
// certificate issuer common name.
type Config struct {
	URL            string
	ResponderCerts []*x509.Certificate
	TrustRoots     *x509.CertPool
	Skew           time.Duration
	MaxAge         time.Duration
}

// Client performs TM-bound OCSP requests against one configured responder.
type Client struct {
	cfg        Config
	httpClient *http.Client
}

// New returns a Client for cfg. If httpClient is nil, http.DefaultClient is
// used.
func New(cfg Config, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{cfg: cfg, httpClient: httpClient}
}

// Result is the outcome of an online TM OCSP check.
type Result struct {
	Status       CertStatus
	ResponseBytes []byte
	ProducedAt   time.Time
}

// CheckCert sends an OCSP request for signerCert/issuerCert whose nonce is
// pinned to nonce, and returns the cert status, raw response bytes (for
// TM augmentation), and the response's producedAt time.
func (c *Client) CheckCert(ctx context.Context, signerCert, issuerCert *x509.Certificate, nonceHash crypto.Hash, nonce []byte) (*Result, error) {
	reqBytes, err := BuildRequestWithNonce(signerCert, issuerCert, nonceHash, nonce)
	if err != nil {
		return nil, ErrIO{Err: err}
	}

	body, err := c.send(ctx, reqBytes)
	if err != nil {
		return nil, err
	}

	resp, err := ocsp.ParseResponseForCert(body, signerCert, issuerCert)
	if err != nil {
		return nil, ErrOCSPBadSignature{Err: err}
	}

	status := StatusUnknown
	switch resp.Status {
	case ocsp.Good:
		status = StatusGood
	case ocsp.Revoked:
		status = StatusRevoked
	}

	return &Result{Status: status, ResponseBytes: body, ProducedAt: resp.ProducedAt}, nil
}

func (c *Client) send(ctx context.Context, reqBytes []byte) ([]byte, error) {
	var httpResp *http.Response
	var err error
	if base64.URLEncoding.EncodedLen(len(reqBytes)) >= 255 {
		req, buildErr := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.URL, bytes.NewReader(reqBytes))
		if buildErr != nil {
			return nil, ErrIO{Err: buildErr}
		}
		req.Header.Set("Content-Type", "application/ocsp-request")
		httpResp, err = c.httpClient.Do(req)
	} else {
		encoded := base64.URLEncoding.EncodeToString(reqBytes)
		reqURL, joinErr := url.JoinPath(c.cfg.URL, encoded)
		if joinErr != nil {
			return nil, ErrIO{Err: joinErr}
		}
		req, buildErr := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
		if buildErr != nil {
			return nil, ErrIO{Err: buildErr}
		}
		httpResp, err = c.httpClient.Do(req)
	}
	if err != nil {
		return nil, ErrIO{Err: err}
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode < 200 || httpResp.StatusCode >= 300 {
		return nil, ErrIO{Err: fmt.Errorf("OCSP responder returned status %d", httpResp.StatusCode)}
	}

	body, err := io.ReadAll(io.LimitReader(httpResp.Body, ocspMaxResponseSize))
	if err != nil {
		return nil, ErrIO{Err: err}
	}

	switch {
	case bytes.Equal(body, ocsp.UnauthorizedErrorResponse):
		return nil, ErrIO{Err: errors.New("OCSP responder returned unauthorized")}
	case bytes.Equal(body, ocsp.MalformedRequestErrorResponse):
		return nil, ErrIO{Err: errors.New("OCSP responder rejected a malformed request")}
	case bytes.Equal(body, ocsp.InternalErrorErrorResponse):
		return nil, ErrIO{Err: errors.New("OCSP responder internal error")}
	case bytes.Equal(body, ocsp.TryLaterErrorResponse):
		return nil, ErrIO{Err: errors.New("OCSP responder asked to try later")}
	case bytes.Equal(body, ocsp.SigRequredErrorResponse):
		return nil, ErrIO{Err: errors.New("OCSP responder requires a signed request")}
	}
	return body, nil
}

// VerifyResponse validates a previously-obtained, encapsulated OCSP
// response: the signature verifies under the responder certificate embedded
// in the response (which must be signed by issuerCert) or, when none is
// embedded, under issuerCert itself; the configured responder certificates
// are not used for the signature check. The responder must chain to
// TrustRoots (with no embedded certificate, the single configured responder
// certificate stands in, or issuerCert when zero or several are configured).
// producedAt must be at most Skew ahead of now and at most MaxAge behind it.
// signerCert and issuerCert identify the subject the response must be about.
func (c *Client) VerifyResponse(responseBytes []byte, signerCert, issuerCert *x509.Certificate) (*Result, error) {
	resp, err := ocsp.ParseResponseForCert(responseBytes, signerCert, issuerCert)
	if err != nil {
		return nil, ErrOCSPBadSignature{Err: err}
	}

	responder := resp.Certificate
	if responder == nil {
		responder = c.matchConfiguredResponder(issuerCert)
	}
	if responder == nil || !certutil.VerifyChain(responder, c.cfg.TrustRoots, nil) {
		subject := "unknown"
		if responder != nil {
			subject = responder.Subject.String()
		}
		return nil, ErrOCSPResponderUntrusted{Subject: subject}
	}

	now := time.Now()
	if now.Sub(resp.ProducedAt) > c.cfg.MaxAge || resp.ProducedAt.Sub(now) > c.cfg.Skew {
		return nil, ErrOCSPStale{ProducedAt: resp.ProducedAt}
	}

	status := StatusUnknown
	switch resp.Status {
	case ocsp.Good:
		status = StatusGood
	case ocsp.Revoked:
		status = StatusRevoked
	}
	return &Result{Status: status, ResponseBytes: responseBytes, ProducedAt: resp.ProducedAt}, nil
}

func (c *Client) matchConfiguredResponder(issuerCert *x509.Certificate) *x509.Certificate {
	if len(c.cfg.ResponderCerts) == 1 {
		return c.cfg.ResponderCerts[0]
	}
	return issuerCert
}

// ExtractNonce returns the nonce extension value echoed in an OCSP
// response, for comparing against the caller-chosen nonce a request was
// built with.
func ExtractNonce(responseBytes []byte) ([]byte, error) {
	resp, err := ocsp.ParseResponse(responseBytes, nil)
	if err != nil {
		return nil, ErrOCSPBadSignature{Err: err}
	}
	for _, ext := range resp.Extensions {
		if ext.Id.Equal(NonceExtensionOID) {
			var nonce []byte
			if _, err := asn1.Unmarshal(ext.Value, &nonce); err != nil {
				return nil, ErrOCSPBadSignature{Err: err}
			}
			return nonce, nil
		}
	}
	return nil, errors.New("OCSP response does not contain a nonce extension")
}
