package key

import (
	"crypto/rsa"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// DecodeRSAPrivateKey parses a PEM encoded PKCS#1 or PKCS#8 RSA private key.
func DecodeRSAPrivateKey(p string) (*rsa.PrivateKey, error) {
	privateKey, err := jwt.ParseRSAPrivateKeyFromPEM([]byte(p))
	if err != nil {
		return nil, fmt.Errorf("failed to parse private key: %w", err)
	}
	if err := privateKey.Validate(); err != nil {
		return nil, fmt.Errorf("failed to validate private key: %w", err)
	}
	return privateKey, nil
}

// DecodeRSAPublicKey parses a PEM encoded PKIX or PKCS#1 RSA public key, or
// the public key of a PEM encoded certificate.
func DecodeRSAPublicKey(p string) (*rsa.PublicKey, error) {
	publicKey, err := jwt.ParseRSAPublicKeyFromPEM([]byte(p))
	if err != nil {
		return nil, fmt.Errorf("failed to parse public key: %w", err)
	}
	return publicKey, nil
}

// DecodePair parses a public and a private key. The pair is not required
// to match.
func DecodePair(publicPEM, privatePEM string) (*Pair, error) {
	publicKey, err := DecodeRSAPublicKey(publicPEM)
	if err != nil {
		return nil, err
	}
	privateKey, err := DecodeRSAPrivateKey(privatePEM)
	if err != nil {
		return nil, err
	}
	return &Pair{PublicKey: publicKey, PrivateKey: privateKey}, nil
}
