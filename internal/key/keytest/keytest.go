// Package keytest generates throwaway RSA key material for tests.
package keytest

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"testing"

	"github.com/stretchr/testify/require"
)

// PEMPair is a PEM encoded RSA key pair.
type PEMPair struct {
	Public  string
	Private string
}

// GenerateRSA returns a fresh key pair with a PKIX public key and a PKCS#8
// private key.
func GenerateRSA(t testing.TB, bits int) PEMPair {
	t.Helper()

	privateKey, err := rsa.GenerateKey(rand.Reader, bits)
	require.NoError(t, err)

	privateDER, err := x509.MarshalPKCS8PrivateKey(privateKey)
	require.NoError(t, err)
	publicDER, err := x509.MarshalPKIXPublicKey(&privateKey.PublicKey)
	require.NoError(t, err)

	return PEMPair{
		Public:  string(pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: publicDER})),
		Private: string(pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: privateDER})),
	}
}

// GenerateRSAPKCS1 returns a fresh key pair with both keys in PKCS#1 form.
func GenerateRSAPKCS1(t testing.TB, bits int) PEMPair {
	t.Helper()

	privateKey, err := rsa.GenerateKey(rand.Reader, bits)
	require.NoError(t, err)

	return PEMPair{
		Public: string(pem.EncodeToMemory(&pem.Block{
			Type:  "RSA PUBLIC KEY",
			Bytes: x509.MarshalPKCS1PublicKey(&privateKey.PublicKey),
		})),
		Private: string(pem.EncodeToMemory(&pem.Block{
			Type:  "RSA PRIVATE KEY",
			Bytes: x509.MarshalPKCS1PrivateKey(privateKey),
		})),
	}
}
