// Package certstoretest writes real certificates into a store for tests.
package certstoretest

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"math/big"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// PEM returns a self-signed certificate valid until notAfter for dnsNames.
func PEM(t testing.TB, notAfter time.Time, dnsNames ...string) []byte {
	t.Helper()

	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		t.Fatalf("failed to generate key: %v", err)
	}

	cn := "localhost"
	if len(dnsNames) > 0 {
		cn = dnsNames[0]
	}
	tmpl := &x509.Certificate{
		SerialNumber: big.NewInt(time.Now().UnixNano()),
		Subject:      pkix.Name{CommonName: cn},
		NotBefore:    notAfter.Add(-90 * 24 * time.Hour),
		NotAfter:     notAfter,
		DNSNames:     dnsNames,
		KeyUsage:     x509.KeyUsageDigitalSignature,
		ExtKeyUsage:  []x509.ExtKeyUsage{x509.ExtKeyUsageServerAuth},
	}

	der, err := x509.CreateCertificate(rand.Reader, tmpl, tmpl, &key.PublicKey, key)
	if err != nil {
		t.Fatalf("failed to create certificate: %v", err)
	}
	return pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: der})
}

// Write stores a certificate for name under root/live/<name>/fullchain.pem,
// with a placeholder privkey.pem next to it.
func Write(t testing.TB, root, name string, notAfter time.Time, dnsNames ...string) {
	t.Helper()

	dir := filepath.Join(root, "live", name)
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("failed to create %s: %v", dir, err)
	}
	if err := os.WriteFile(filepath.Join(dir, "fullchain.pem"), PEM(t, notAfter, dnsNames...), 0644); err != nil {
		t.Fatalf("failed to write chain: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "privkey.pem"), []byte("placeholder"), 0600); err != nil {
		t.Fatalf("failed to write key: %v", err)
	}
}

// WriteArtifacts creates archive/<name>/cert1.pem and renewal/<name>.conf.
func WriteArtifacts(t testing.TB, root, name string) {
	t.Helper()

	archive := filepath.Join(root, "archive", name)
	if err := os.MkdirAll(archive, 0755); err != nil {
		t.Fatalf("failed to create archive: %v", err)
	}
	if err := os.WriteFile(filepath.Join(archive, "cert1.pem"), []byte("old"), 0644); err != nil {
		t.Fatalf("failed to write archive: %v", err)
	}
	renewal := filepath.Join(root, "renewal")
	if err := os.MkdirAll(renewal, 0755); err != nil {
		t.Fatalf("failed to create renewal dir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(renewal, name+".conf"), []byte("version = 2.0"), 0644); err != nil {
		t.Fatalf("failed to write renewal conf: %v", err)
	}
}
