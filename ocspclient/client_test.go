package ocspclient

import (
	"context"
	"crypto"
	"crypto/rsa"
	"crypto/sha256"
	"crypto/x509"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"golang.org/x/crypto/ocsp"

	"github.com/vvk-ee/bdoc-verify/testhelper"
)

func makeCA(t *testing.T) (*x509.Certificate, *rsa.PrivateKey) {
	t.Helper()
	tuple := testhelper.GenerateRSACertTuple("Test CA", nil)
	return tuple.Cert, tuple.PrivateKey
}

func makeLeaf(t *testing.T, ca *x509.Certificate, caKey *rsa.PrivateKey) (*x509.Certificate, *rsa.PrivateKey) {
	t.Helper()
	tuple := testhelper.GenerateRSACertTuple("Test Signer", &testhelper.RSACertTuple{Cert: ca, PrivateKey: caKey})
	return tuple.Cert, tuple.PrivateKey
}

func TestBuildRequestWithNonce_RoundTrips(t *testing.T) {
	ca, caKey := makeCA(t)
	leaf, _ := makeLeaf(t, ca, caKey)

	nonce := sha256.Sum256([]byte("signature-value"))
	reqBytes, err := BuildRequestWithNonce(leaf, ca, crypto.SHA256, nonce[:])
	if err != nil {
		t.Fatalf("BuildRequestWithNonce() error = %v", err)
	}
	if len(reqBytes) == 0 {
		t.Fatal("expected non-empty DER request")
	}
}

func TestClient_CheckCert_GoodResponse(t *testing.T) {
	ca, caKey := makeCA(t)
	leaf, _ := makeLeaf(t, ca, caKey)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		template := ocsp.Response{
			Status:       ocsp.Good,
			SerialNumber: leaf.SerialNumber,
			ThisUpdate:   time.Now().Add(-time.Minute),
			NextUpdate:   time.Now().Add(time.Hour),
		}
		respBytes, err := ocsp.CreateResponse(ca, ca, template, caKey)
		if err != nil {
			t.Fatal(err)
		}
		w.Header().Set("Content-Type", "application/ocsp-response")
		_, _ = w.Write(respBytes)
	}))
	defer srv.Close()

	pool := x509.NewCertPool()
	pool.AddCert(ca)
	client := New(Config{URL: srv.URL, TrustRoots: pool, Skew: time.Minute, MaxAge: time.Hour}, srv.Client())

	nonce := sha256.Sum256([]byte("signature-value"))
	result, err := client.CheckCert(context.Background(), leaf, ca, crypto.SHA256, nonce[:])
	if err != nil {
		t.Fatalf("CheckCert() error = %v", err)
	}
	if result.Status != StatusGood {
		t.Fatalf("Status = %v, want StatusGood", result.Status)
	}
}

func TestClient_VerifyResponse_StaleRejected(t *testing.T) {
	ca, caKey := makeCA(t)
	leaf, _ := makeLeaf(t, ca, caKey)

	template := ocsp.Response{
		Status:       ocsp.Good,
		SerialNumber: leaf.SerialNumber,
		ThisUpdate:   time.Now().Add(-48 * time.Hour),
		NextUpdate:   time.Now().Add(-24 * time.Hour),
	}
	respBytes, err := ocsp.CreateResponse(ca, ca, template, caKey)
	if err != nil {
		t.Fatal(err)
	}

	pool := x509.NewCertPool()
	pool.AddCert(ca)
	client := New(Config{TrustRoots: pool, Skew: time.Minute, MaxAge: time.Hour}, nil)

	if _, err := client.VerifyResponse(respBytes, leaf, ca); err == nil {
		t.Fatal("expected stale OCSP response to be rejected")
	}
}
