package xades

import (
	"time"

	"github.com/vvk-ee/bdoc-verify/xmlmodel"
)

// dialectView is the immutable, algebraic view over whichever XAdES
// property dialect a signature uses. It is the common surface the rest of
// this package reads for property values. The only dialect branches outside
// it are the SignaturePolicyIdentifier rules in Group A and the
// QualifyingProperties element name that TM augmentation looks up.
type dialectView interface {
	namespace() string
	target() string
	signedPropertiesID() string
	signaturePolicyIdentifierPresent() bool

	signingCertDigestAlgorithm() (string, error)
	signingCertDigestValue() ([]byte, error)
	signingCertIssuerName() (string, error)
	signingCertSerialNumber() (string, error)

	hasUnsignedSignatureProperties() bool
	ocspResponseValue() ([]byte, error)
	ocspProducedAt() (time.Time, error)
	ocspRefDigestAlgorithm() (string, error)
	ocspRefDigestValue() ([]byte, error)
}

func newDialectView(doc *xmlmodel.Document) (dialectView, error) {
	switch doc.Dialect {
	case xmlmodel.DialectV132:
		return v132View{qp: doc.QualifyingV132}, nil
	case xmlmodel.DialectV111:
		return v111View{qp: doc.QualifyingV111}, nil
	default:
		return nil, ErrInvalidStructure{msg: "unrecognized XAdES dialect"}
	}
}

// --- v1.3.2 ---

type v132View struct {
	qp *xmlmodel.QualifyingProperties132
}

func (v v132View) namespace() string           { return xmlmodel.NamespaceV132 }
func (v v132View) target() string              { return v.qp.Target }
func (v v132View) signedPropertiesID() string   { return v.qp.SignedProperties.ID }

func (v v132View) signaturePolicyIdentifierPresent() bool {
	return v.qp.SignedProperties.SignedSignatureProperties.SignaturePolicyIdentifier != nil
}

func (v v132View) signingCert() (*xmlmodel.CertID132, error) {
	sc := v.qp.SignedProperties.SignedSignatureProperties.SigningCertificate
	if sc == nil || len(sc.Cert) == 0 {
		return nil, ErrMissingElement{Path: "SignedProperties/SignedSignatureProperties/SigningCertificate/Cert"}
	}
	return &sc.Cert[0], nil
}

func (v v132View) signingCertDigestAlgorithm() (string, error) {
	c, err := v.signingCert()
	if err != nil {
		return "", err
	}
	return c.CertDigest.DigestMethod.Algorithm, nil
}

func (v v132View) signingCertDigestValue() ([]byte, error) {
	c, err := v.signingCert()
	if err != nil {
		return nil, err
	}
	return c.CertDigest.DigestValue.Value, nil
}

func (v v132View) signingCertIssuerName() (string, error) {
	c, err := v.signingCert()
	if err != nil {
		return "", err
	}
	return c.IssuerSerial.X509IssuerName, nil
}

func (v v132View) signingCertSerialNumber() (string, error) {
	c, err := v.signingCert()
	if err != nil {
		return "", err
	}
	return c.IssuerSerial.X509SerialNumber, nil
}

func (v v132View) hasUnsignedSignatureProperties() bool {
	up := v.qp.UnsignedProperties
	return up != nil && up.UnsignedSignatureProperties != nil
}

func (v v132View) unsignedSigProps() (*xmlmodel.UnsignedSignatureProperties132, error) {
	if !v.hasUnsignedSignatureProperties() {
		return nil, ErrMissingElement{Path: "UnsignedProperties/UnsignedSignatureProperties"}
	}
	return v.qp.UnsignedProperties.UnsignedSignatureProperties, nil
}

func (v v132View) ocspResponseValue() ([]byte, error) {
	usp, err := v.unsignedSigProps()
	if err != nil {
		return nil, err
	}
	if len(usp.RevocationValues) == 0 || usp.RevocationValues[0].OCSPValues == nil ||
		len(usp.RevocationValues[0].OCSPValues.EncapsulatedOCSPValue) == 0 {
		return nil, ErrMissingElement{Path: "UnsignedSignatureProperties/RevocationValues/OCSPValues/EncapsulatedOCSPValue"}
	}
	return usp.RevocationValues[0].OCSPValues.EncapsulatedOCSPValue[0].Value, nil
}

func (v v132View) ocspRef() (*xmlmodel.OCSPRef132, error) {
	usp, err := v.unsignedSigProps()
	if err != nil {
		return nil, err
	}
	if len(usp.CompleteRevocationRefs) == 0 || len(usp.CompleteRevocationRefs[0].OCSPRefs.OCSPRef) == 0 {
		return nil, ErrMissingElement{Path: "UnsignedSignatureProperties/CompleteRevocationRefs/OCSPRefs/OCSPRef"}
	}
	return &usp.CompleteRevocationRefs[0].OCSPRefs.OCSPRef[0], nil
}

func (v v132View) ocspProducedAt() (time.Time, error) {
	ref, err := v.ocspRef()
	if err != nil {
		return time.Time{}, err
	}
	return ref.OCSPIdentifier.ProducedAt, nil
}

func (v v132View) ocspRefDigestAlgorithm() (string, error) {
	ref, err := v.ocspRef()
	if err != nil {
		return "", err
	}
	return ref.DigestAlgAndValue.DigestMethod.Algorithm, nil
}

func (v v132View) ocspRefDigestValue() ([]byte, error) {
	ref, err := v.ocspRef()
	if err != nil {
		return nil, err
	}
	return ref.DigestAlgAndValue.DigestValue.Value, nil
}

// --- v1.1.1 ---

type v111View struct {
	qp *xmlmodel.QualifyingProperties111
}

func (v v111View) namespace() string          { return xmlmodel.NamespaceV111 }
func (v v111View) target() string             { return v.qp.Target }
func (v v111View) signedPropertiesID() string { return v.qp.SignedProperties.ID }

func (v v111View) signaturePolicyIdentifierPresent() bool {
	return v.qp.SignedProperties.SignedSignatureProperties.SignaturePolicyIdentifier != nil
}

func (v v111View) signingCert() (*xmlmodel.CertID111, error) {
	sc := v.qp.SignedProperties.SignedSignatureProperties.SigningCertificate
	if sc == nil || len(sc.Cert) == 0 {
		return nil, ErrMissingElement{Path: "SignedProperties/SignedSignatureProperties/SigningCertificate/Cert"}
	}
	return &sc.Cert[0], nil
}

func (v v111View) signingCertDigestAlgorithm() (string, error) {
	c, err := v.signingCert()
	if err != nil {
		return "", err
	}
	return c.CertDigest.DigestMethod.Algorithm, nil
}

func (v v111View) signingCertDigestValue() ([]byte, error) {
	c, err := v.signingCert()
	if err != nil {
		return nil, err
	}
	return c.CertDigest.DigestValue.Value, nil
}

func (v v111View) signingCertIssuerName() (string, error) {
	c, err := v.signingCert()
	if err != nil {
		return "", err
	}
	return c.IssuerSerial.X509IssuerName, nil
}

func (v v111View) signingCertSerialNumber() (string, error) {
	c, err := v.signingCert()
	if err != nil {
		return "", err
	}
	return c.IssuerSerial.X509SerialNumber, nil
}

func (v v111View) hasUnsignedSignatureProperties() bool {
	up := v.qp.UnsignedProperties
	return up != nil && up.UnsignedSignatureProperties != nil
}

func (v v111View) unsignedSigProps() (*xmlmodel.UnsignedSignatureProperties111, error) {
	if !v.hasUnsignedSignatureProperties() {
		return nil, ErrMissingElement{Path: "UnsignedProperties/UnsignedSignatureProperties"}
	}
	return v.qp.UnsignedProperties.UnsignedSignatureProperties, nil
}

func (v v111View) ocspResponseValue() ([]byte, error) {
	usp, err := v.unsignedSigProps()
	if err != nil {
		return nil, err
	}
	if usp.RevocationValues == nil || usp.RevocationValues.OCSPValues == nil ||
		len(usp.RevocationValues.OCSPValues.EncapsulatedOCSPValue) == 0 {
		return nil, ErrMissingElement{Path: "UnsignedSignatureProperties/RevocationValues/OCSPValues/EncapsulatedOCSPValue"}
	}
	return usp.RevocationValues.OCSPValues.EncapsulatedOCSPValue[0].Value, nil
}

func (v v111View) ocspRef() (*xmlmodel.OCSPRef111, error) {
	usp, err := v.unsignedSigProps()
	if err != nil {
		return nil, err
	}
	if usp.CompleteRevocationRefs == nil || len(usp.CompleteRevocationRefs.OCSPRefs.OCSPRef) == 0 {
		return nil, ErrMissingElement{Path: "UnsignedSignatureProperties/CompleteRevocationRefs/OCSPRefs/OCSPRef"}
	}
	return &usp.CompleteRevocationRefs.OCSPRefs.OCSPRef[0], nil
}

func (v v111View) ocspProducedAt() (time.Time, error) {
	ref, err := v.ocspRef()
	if err != nil {
		return time.Time{}, err
	}
	return ref.OCSPIdentifier.ProducedAt, nil
}

func (v v111View) ocspRefDigestAlgorithm() (string, error) {
	ref, err := v.ocspRef()
	if err != nil {
		return "", err
	}
	return ref.DigestAlgAndValue.DigestMethod.Algorithm, nil
}

func (v v111View) ocspRefDigestValue() ([]byte, error) {
	ref, err := v.ocspRef()
	if err != nil {
		return nil, err
	}
	return ref.DigestAlgAndValue.DigestValue.Value, nil
}
