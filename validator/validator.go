// Package validator orchestrates the TM OCSP protocol on top of an
// already-offline-validated xades.Signature: online BES confirmation,
// offline TM nonce/ref binding checks, and TM augmentation serialization.
package validator

import (
	"bytes"
	"context"
	"crypto"
	"crypto/x509"

	"go.uber.org/zap"

	"github.com/vvk-ee/bdoc-verify/certutil"
	"github.com/vvk-ee/bdoc-verify/config"
	"github.com/vvk-ee/bdoc-verify/digest"
	"github.com/vvk-ee/bdoc-verify/internal/logging"
	"github.com/vvk-ee/bdoc-verify/ocspclient"
	"github.com/vvk-ee/bdoc-verify/xades"
)

// SignatureValidator binds a parsed, offline-valid xades.Signature to the
// ambient OCSP configuration needed to confirm it online or re-check a
// prior TM confirmation offline. Not safe for concurrent use; independent
// signatures should use independent SignatureValidator instances.
type SignatureValidator struct {
	sig *xades.Signature
	cfg *config.Configuration

	signingCert *x509.Certificate
	issuerCert  *x509.Certificate
	ocspConf    *config.OCSPConf
}

// New returns a SignatureValidator for sig, using cfg to resolve the OCSP
// responder and issuer material.
func New(sig *xades.Signature, cfg *config.Configuration) *SignatureValidator {
	return &SignatureValidator{sig: sig, cfg: cfg}
}

// prepare resolves the signing certificate, its issuer's certificate, and
// the OCSP responder configuration for that issuer. Shared by both the
// online and offline TM paths.
func (v *SignatureValidator) prepare() error {
	if v.signingCert != nil {
		return nil
	}
	cert, err := v.sig.SigningCertificate()
	if err != nil {
		return err
	}
	issuerCN, err := certutil.IssuerCommonName(cert)
	if err != nil {
		return err
	}
	ocspConf, ok := v.cfg.GetOCSPConf(issuerCN)
	if !ok {
		return xades.ErrNoOCSPResponder{IssuerCN: issuerCN}
	}
	issuerCert, ok := v.cfg.CertStore.LookupBySubject(cert.RawIssuer)
	if !ok {
		return xades.ErrIssuerUnknown{IssuerCN: issuerCN}
	}
	v.signingCert = cert
	v.issuerCert = issuerCert
	v.ocspConf = ocspConf
	return nil
}

// ValidateBESOnline confirms a BES signature's certificate status by
// querying the configured OCSP responder directly, binding the request's
// nonce to the signature value. The caller decides policy on a REVOKED
// result; this method reports status, it does not reject it.
func (v *SignatureValidator) ValidateBESOnline(ctx context.Context) (ocspclient.CertStatus, error) {
	if err := v.prepare(); err != nil {
		return ocspclient.StatusUnknown, err
	}

	hash, err := digest.HashForDigestURI(v.cfg.DigestURI)
	if err != nil {
		hash = crypto.SHA256
	}
	nonce, err := digest.Sum(v.cfg.DigestURI, v.sig.SignatureValue())
	if err != nil {
		return ocspclient.StatusUnknown, err
	}

	responderCerts, err := v.ocspConf.ResponderCertificates()
	if err != nil {
		return ocspclient.StatusUnknown, err
	}
	client := ocspclient.New(ocspclient.Config{
		URL:            v.ocspConf.URL,
		ResponderCerts: responderCerts,
		TrustRoots:     v.cfg.CertStore.Roots(),
		Skew:           v.ocspConf.Skew,
		MaxAge:         v.ocspConf.MaxAge,
	}, nil)

	result, err := client.CheckCert(ctx, v.signingCert, v.issuerCert, hash, nonce)
	if err != nil {
		logging.L().Warn("online OCSP check failed", zap.Error(err))
		return ocspclient.StatusUnknown, err
	}
	logging.L().Info("online OCSP check completed", zap.String("status", result.Status.String()))
	return result.Status, nil
}

// ValidateTMOffline re-checks a TM signature's embedded OCSP material
// without any network access: the responder signature, the nonce binding
// to SignatureValue, and the digest binding of the embedded response to
// CompleteRevocationRefs. Callers must already have run
// xades.Signature.ValidateOffline successfully.
func (v *SignatureValidator) ValidateTMOffline() error {
	if err := v.prepare(); err != nil {
		return err
	}
	if !v.sig.HasTMMaterial() {
		return xades.ErrMissingElement{Path: "UnsignedSignatureProperties"}
	}

	responseBytes, err := v.sig.OCSPResponseValue()
	if err != nil {
		return err
	}

	responderCerts, err := v.ocspConf.ResponderCertificates()
	if err != nil {
		return err
	}
	client := ocspclient.New(ocspclient.Config{
		URL:            v.ocspConf.URL,
		ResponderCerts: responderCerts,
		TrustRoots:     v.cfg.CertStore.Roots(),
		Skew:           v.ocspConf.Skew,
		MaxAge:         v.ocspConf.MaxAge,
	}, nil)

	if _, err := client.VerifyResponse(responseBytes, v.signingCert, v.issuerCert); err != nil {
		return err
	}

	refAlg, err := v.sig.OCSPRefDigestAlgorithm()
	if err != nil {
		return err
	}
	refDigest, err := v.sig.OCSPRefDigestValue()
	if err != nil {
		return err
	}

	nonce, err := ocspclient.ExtractNonce(responseBytes)
	if err != nil {
		return err
	}
	wantNonce, err := digest.Sum(refAlg, v.sig.SignatureValue())
	if err != nil {
		return err
	}
	if !bytes.Equal(nonce, wantNonce) {
		return xades.ErrNonceMismatch{}
	}

	gotRefDigest, err := digest.Sum(refAlg, responseBytes)
	if err != nil {
		return err
	}
	if !bytes.Equal(gotRefDigest, refDigest) {
		return xades.ErrOCSPRefMismatch{}
	}

	logging.L().Debug("offline TM validation succeeded")
	return nil
}

// GetTMSignature performs TM augmentation: it sends its own nonce-bound OCSP
// request (it does not reuse a response obtained by ValidateBESOnline),
// grafts the UnsignedProperties/UnsignedSignatureProperties subtree carrying
// that response, certificate values, and revocation references, and returns
// the resulting XAdES-TM document as UTF-8 text.
func (v *SignatureValidator) GetTMSignature(ctx context.Context) (string, error) {
	if err := v.prepare(); err != nil {
		return "", err
	}

	hash, err := digest.HashForDigestURI(v.cfg.DigestURI)
	if err != nil {
		hash = crypto.SHA256
	}
	nonce, err := digest.Sum(v.cfg.DigestURI, v.sig.SignatureValue())
	if err != nil {
		return "", err
	}
	responderCerts, err := v.ocspConf.ResponderCertificates()
	if err != nil {
		return "", err
	}
	client := ocspclient.New(ocspclient.Config{
		URL:            v.ocspConf.URL,
		ResponderCerts: responderCerts,
		TrustRoots:     v.cfg.CertStore.Roots(),
		Skew:           v.ocspConf.Skew,
		MaxAge:         v.ocspConf.MaxAge,
	}, nil)
	result, err := client.CheckCert(ctx, v.signingCert, v.issuerCert, hash, nonce)
	if err != nil {
		return "", err
	}

	usp, err := buildUnsignedSignatureProperties(result, v.cfg.DigestURI, responderCerts)
	if err != nil {
		return "", err
	}
	return graftTMMaterial(v.sig.Document(), usp)
}
