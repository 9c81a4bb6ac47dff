package digest

import (
	"bytes"
	"crypto"
	"testing"
)

func TestSum(t *testing.T) {
	tests := []struct {
		name string
		uri  string
		want int
	}{
		{"sha1", "http://www.w3.org/2000/09/xmldsig#sha1", crypto.SHA1.Size()},
		{"sha256", "http://www.w3.org/2001/04/xmlenc#sha256", crypto.SHA256.Size()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Sum(tt.uri, []byte("hello world"))
			if err != nil {
				t.Fatalf("Sum() error = %v", err)
			}
			if len(got) != tt.want {
				t.Fatalf("Sum() len = %d, want %d", len(got), tt.want)
			}
		})
	}
}

func TestSum_UnsupportedAlgorithm(t *testing.T) {
	_, err := Sum("urn:not-a-real-algorithm", []byte("x"))
	if _, ok := err.(ErrUnsupportedAlgorithm); !ok {
		t.Fatalf("expected ErrUnsupportedAlgorithm, got %v (%T)", err, err)
	}
}

func TestDigest_Streaming(t *testing.T) {
	d, err := New("http://www.w3.org/2000/09/xmldsig#sha1")
	if err != nil {
		t.Fatal(err)
	}
	d.Write([]byte("hel"))
	d.Write([]byte("lo"))
	streamed := d.Sum()

	oneShot, err := Sum("http://www.w3.org/2000/09/xmldsig#sha1", []byte("hello"))
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(streamed, oneShot) {
		t.Fatal("streamed digest does not match one-shot digest")
	}
}

func TestHashForSignatureMethod(t *testing.T) {
	h, err := HashForSignatureMethod("http://www.w3.org/2000/09/xmldsig#rsa-sha1")
	if err != nil {
		t.Fatal(err)
	}
	if h != crypto.SHA1 {
		t.Fatalf("got %v, want SHA1", h)
	}
	if _, err := HashForSignatureMethod("urn:unknown"); err == nil {
		t.Fatal("expected error for unknown signature method")
	}
}
