package encryptor

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"fmt"
	"strings"

	"github.com/zarvd/tokencipher/internal/key"
)

// Padding selects the RSA encryption scheme.
type Padding string

const (
	PaddingPKCS1v15 Padding = "pkcs1v15"
	// PaddingOAEP is RSA-OAEP with SHA-256 and an empty label.
	PaddingOAEP Padding = "oaep"
)

func ParsePadding(name string) (Padding, error) {
	switch p := Padding(strings.ToLower(strings.TrimSpace(name))); p {
	case "":
		return PaddingPKCS1v15, nil
	case PaddingPKCS1v15, PaddingOAEP:
		return p, nil
	default:
		return "", fmt.Errorf("%w: padding %q", ErrUnsupportedAlgorithm, name)
	}
}

// KeyPair is PEM encoded RSA key material. The public key encrypts, the
// private key decrypts.
type KeyPair struct {
	PublicKey  string
	PrivateKey string
	Output     Output
	Padding    Padding
}

// Asymmetric encrypts single blocks with an RSA public key. Plaintexts are
// limited by MaxPlaintextSize, there is no chunking.
type Asymmetric struct {
	keys    *key.Pair
	output  Output
	padding Padding
}

// NewAsymmetric parses both keys up front and fails with ErrInvalidKey if
// either is not RSA key material.
func NewAsymmetric(kp KeyPair) (*Asymmetric, error) {
	padding, err := ParsePadding(string(kp.Padding))
	if err != nil {
		return nil, err
	}
	keys, err := key.DecodePair(kp.PublicKey, kp.PrivateKey)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidKey, err)
	}
	return &Asymmetric{
		keys:    keys,
		output:  kp.Output.orDefault(),
		padding: padding,
	}, nil
}

// MaxPlaintextSize returns the largest plaintext a single Encrypt accepts.
func (a *Asymmetric) MaxPlaintextSize() int {
	k := a.keys.Size()
	if a.padding == PaddingOAEP {
		return k - 2*sha256.Size - 2
	}
	return k - 11
}

func (a *Asymmetric) Encrypt(plaintext []byte) (string, error) {
	var (
		ciphertext []byte
		err        error
	)
	switch a.padding {
	case PaddingOAEP:
		ciphertext, err = rsa.EncryptOAEP(sha256.New(), rand.Reader, a.keys.PublicKey, plaintext, nil)
	default:
		ciphertext, err = rsa.EncryptPKCS1v15(rand.Reader, a.keys.PublicKey, plaintext)
	}
	if err != nil {
		return "", fmt.Errorf("%w: rsa %s: %w", ErrEncryptionFailed, a.padding, err)
	}
	return a.output.Encode(ciphertext), nil
}

func (a *Asymmetric) Decrypt(ciphertext string) ([]byte, error) {
	data, err := decodeCiphertext(a.output, ciphertext)
	if err != nil {
		return nil, err
	}
	var plaintext []byte
	switch a.padding {
	case PaddingOAEP:
		plaintext, err = rsa.DecryptOAEP(sha256.New(), nil, a.keys.PrivateKey, data, nil)
	default:
		plaintext, err = rsa.DecryptPKCS1v15(nil, a.keys.PrivateKey, data)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: rsa %s: %w", ErrDecryptionFailed, a.padding, err)
	}
	return plaintext, nil
}
