package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/zarvd/tokencipher/authtoken"
	"github.com/zarvd/tokencipher/encryptor"
)

// Encryptor builds the configured cipher backend.
func (c *CipherConfig) Encryptor() (encryptor.Encryptor, error) {
	output := encryptor.ParseOutput(c.Output)

	switch strings.ToLower(c.Kind) {
	case KindAsymmetric:
		publicKey, err := readPEM(c.PublicKey, c.PublicKeyFile)
		if err != nil {
			return nil, err
		}
		privateKey, err := readPEM(c.PrivateKey, c.PrivateKeyFile)
		if err != nil {
			return nil, err
		}
		return encryptor.NewAsymmetric(encryptor.KeyPair{
			PublicKey:  publicKey,
			PrivateKey: privateKey,
			Output:     output,
			Padding:    encryptor.Padding(c.Padding),
		})
	default:
		encoding, err := parseKeyEncoding(c.KeyEncoding)
		if err != nil {
			return nil, err
		}
		key, err := encoding.Decode(c.Key)
		if err != nil {
			return nil, fmt.Errorf("cipher.key: %w", err)
		}
		iv, err := encoding.Decode(c.IV)
		if err != nil {
			return nil, fmt.Errorf("cipher.iv: %w", err)
		}
		return encryptor.NewSymmetric(encryptor.SymmetricConfig{
			Suite:  encryptor.CipherSuite(c.Suite),
			Key:    key,
			IV:     iv,
			Output: output,
		})
	}
}

// Claims returns the claims template for an issuer built at now.
func (c *TokenConfig) Claims(now time.Time) authtoken.Claims {
	claims := authtoken.NewClaims(c.Issuer, c.Audience, now)
	claims.NotBefore = now.Add(c.NotBeforeOffset).Unix()
	return claims
}

// NewIssuer builds a token issuer around enc.
func (c *TokenConfig) NewIssuer(logger *zap.Logger, enc encryptor.Encryptor, now time.Time) (*authtoken.Issuer, error) {
	serializer, err := authtoken.ParseFormat(c.Format)
	if err != nil {
		return nil, err
	}
	return authtoken.NewIssuer(logger, enc, c.Claims(now), authtoken.WithSerializer(serializer)), nil
}

func readPEM(inline, path string) (string, error) {
	if path == "" {
		return inline, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read key file: %w", err)
	}
	return string(data), nil
}
